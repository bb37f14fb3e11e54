package biz

import (
	"fmt"

	"github.com/kart-io/medisearch/internal/medisearch/model"
	"github.com/kart-io/medisearch/pkg/component/elasticsearch"
	"github.com/kart-io/medisearch/pkg/utils/json"
)

// Project converts a raw hit into a SearchResult. The hit id wins over the
// id stored in the source document.
func Project(hit elasticsearch.Hit, relevance Relevance) (model.SearchResult, error) {
	var c model.Condition
	if len(hit.Source) > 0 {
		if err := json.Unmarshal(hit.Source, &c); err != nil {
			return model.SearchResult{}, fmt.Errorf("decode hit %s: %w", hit.ID, err)
		}
	}

	id := hit.ID
	if id == "" {
		id = c.ID
	}

	return model.SearchResult{
		ID:               id,
		Name:             c.Name,
		Description:      c.Description,
		Category:         c.Category,
		Symptoms:         nonNil(c.Symptoms),
		Treatments:       nonNil(c.Treatments),
		Severity:         c.Severity,
		RelevanceScore:   relevance.Normalize(hit.Score),
		HighlightedTerms: []string{},
	}, nil
}

func nonNil(l model.StringList) []string {
	if l == nil {
		return []string{}
	}
	return l
}
