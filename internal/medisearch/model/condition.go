package model

import (
	"strings"

	"github.com/kart-io/medisearch/pkg/utils/json"
)

// Severity labels used by the corpus.
const (
	SeverityMild     = "Mild"
	SeverityModerate = "Moderate"
	SeveritySevere   = "Severe"
)

// Condition is one document of the healthcare conditions index.
type Condition struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Symptoms    StringList `json:"symptoms"`
	Treatments  StringList `json:"treatments"`
	Severity    string     `json:"severity"`
	Prevalence  string     `json:"prevalence,omitempty"`
}

// StringList decodes either a JSON array of strings or a single
// comma-separated string. Entries are trimmed and empty ones dropped,
// so the decoded value is always the canonical array form.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *StringList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*l = nil
		return nil
	}

	var joined string
	if err := json.Unmarshal(data, &joined); err == nil {
		*l = SplitList(joined)
		return nil
	}

	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*l = cleanList(items)
	return nil
}

// SplitList splits s on commas, trimming each entry and dropping empties.
func SplitList(s string) StringList {
	return cleanList(strings.Split(s, ","))
}

func cleanList(items []string) StringList {
	out := make(StringList, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// SearchResult is a ranked condition as returned to clients.
type SearchResult struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Symptoms    []string `json:"symptoms"`
	Treatments  []string `json:"treatments"`
	Severity    string   `json:"severity"`
	// RelevanceScore always lies in [0,1].
	RelevanceScore   float64  `json:"relevanceScore"`
	HighlightedTerms []string `json:"highlightedTerms"`
}
