// Package corpus provides the healthcare conditions indexed at startup.
package corpus

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/kart-io/medisearch/internal/medisearch/model"
	"github.com/kart-io/medisearch/pkg/utils/json"
)

//go:embed conditions.json
var builtin []byte

// Builtin returns the embedded condition corpus.
func Builtin() ([]model.Condition, error) {
	return Parse(builtin)
}

// Load reads a JSON array of conditions from path. An empty path returns
// the embedded corpus.
func Load(path string) ([]model.Condition, error) {
	if path == "" {
		return Builtin()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	conditions, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return conditions, nil
}

// Parse decodes a JSON array of conditions. Every condition needs an id
// and a name, and ids must be unique.
func Parse(data []byte) ([]model.Condition, error) {
	var conditions []model.Condition
	if err := json.Unmarshal(data, &conditions); err != nil {
		return nil, fmt.Errorf("decode conditions: %w", err)
	}

	seen := make(map[string]struct{}, len(conditions))
	for i, c := range conditions {
		if c.ID == "" || c.Name == "" {
			return nil, fmt.Errorf("condition %d: id and name are required", i)
		}
		if _, dup := seen[c.ID]; dup {
			return nil, fmt.Errorf("condition %d: duplicate id %q", i, c.ID)
		}
		seen[c.ID] = struct{}{}
	}
	return conditions, nil
}
