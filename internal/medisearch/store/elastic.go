package store

import (
	"context"
	"fmt"

	"github.com/kart-io/medisearch/internal/medisearch/model"
	"github.com/kart-io/medisearch/pkg/component/elasticsearch"
)

// ConditionMapping is the index mapping of condition documents.
var ConditionMapping = map[string]any{
	"mappings": map[string]any{
		"properties": map[string]any{
			"name":        map[string]any{"type": "text", "analyzer": "standard"},
			"description": map[string]any{"type": "text", "analyzer": "standard"},
			"category":    map[string]any{"type": "keyword"},
			"symptoms":    map[string]any{"type": "text", "analyzer": "standard"},
			"treatments":  map[string]any{"type": "text", "analyzer": "standard"},
			"severity":    map[string]any{"type": "keyword"},
			"prevalence":  map[string]any{"type": "text"},
		},
	},
}

// ConditionSearcher runs a search body against the condition index.
type ConditionSearcher interface {
	Search(ctx context.Context, body any) ([]elasticsearch.Hit, error)
}

// ConditionIndex is the condition index in Elasticsearch.
type ConditionIndex struct {
	client *elasticsearch.Client
	index  string
}

// NewConditionIndex binds client to index.
func NewConditionIndex(client *elasticsearch.Client, index string) *ConditionIndex {
	return &ConditionIndex{client: client, index: index}
}

// Name returns the index name.
func (i *ConditionIndex) Name() string {
	return i.index
}

// Ping checks the cluster is reachable.
func (i *ConditionIndex) Ping(ctx context.Context) error {
	return i.client.Ping(ctx)
}

// EnsureIndex creates the index with ConditionMapping unless it exists.
// It reports whether the index was created.
func (i *ConditionIndex) EnsureIndex(ctx context.Context) (bool, error) {
	exists, err := i.client.IndexExists(ctx, i.index)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	if err := i.client.CreateIndex(ctx, i.index, ConditionMapping); err != nil {
		return false, err
	}
	return true, nil
}

// Seed indexes conditions by id and refreshes the index so they are
// searchable on return. Per-document failures are reported in the result.
func (i *ConditionIndex) Seed(ctx context.Context, conditions []model.Condition) (elasticsearch.BulkResult, error) {
	items := make([]elasticsearch.BulkItem, 0, len(conditions))
	for _, c := range conditions {
		if c.ID == "" {
			return elasticsearch.BulkResult{}, fmt.Errorf("condition %q has no id", c.Name)
		}
		items = append(items, elasticsearch.BulkItem{ID: c.ID, Body: c})
	}
	return i.client.Bulk(ctx, i.index, items, true)
}

// Search implements ConditionSearcher.
func (i *ConditionIndex) Search(ctx context.Context, body any) ([]elasticsearch.Hit, error) {
	resp, err := i.client.Search(ctx, i.index, body)
	if err != nil {
		return nil, err
	}
	return resp.Hits.Hits, nil
}
