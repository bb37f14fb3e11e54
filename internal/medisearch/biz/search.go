package biz

import (
	"context"
	"time"

	"github.com/kart-io/medisearch/internal/medisearch/metrics"
	"github.com/kart-io/medisearch/internal/medisearch/model"
	"github.com/kart-io/medisearch/internal/medisearch/store"
	infralog "github.com/kart-io/medisearch/pkg/infra/logger"
)

// ConnectivityProvider reports whether the search engine is usable.
type ConnectivityProvider interface {
	Connected() bool
}

// Retriever runs ranked condition searches. It never fails: when the engine
// is not connected, or a search faults, the result is empty.
type Retriever struct {
	searcher  store.ConditionSearcher
	conn      ConnectivityProvider
	relevance Relevance
	metrics   *metrics.Metrics
}

// NewRetriever creates a Retriever.
func NewRetriever(searcher store.ConditionSearcher, conn ConnectivityProvider, relevance Relevance, m *metrics.Metrics) *Retriever {
	if m == nil {
		m = metrics.Default()
	}
	return &Retriever{
		searcher:  searcher,
		conn:      conn,
		relevance: relevance,
		metrics:   m,
	}
}

// Search returns up to limit conditions ranked by relevance.
func (r *Retriever) Search(ctx context.Context, text string, limit int) []model.SearchResult {
	if r.searcher == nil || r.conn == nil || !r.conn.Connected() {
		infralog.FromContext(ctx).Warn("Search engine not connected, returning empty results")
		r.metrics.RecordSearchDegraded()
		return []model.SearchResult{}
	}

	start := time.Now()
	results, err := r.search(ctx, text, limit)
	r.metrics.RecordSearch(time.Since(start), err)
	if err != nil {
		infralog.FromContext(ctx).Errorw("Search failed, returning empty results", "query", text, "error", err.Error())
		return []model.SearchResult{}
	}
	return results
}

func (r *Retriever) search(ctx context.Context, text string, limit int) ([]model.SearchResult, error) {
	hits, err := r.searcher.Search(ctx, BuildSearchQuery(text, limit))
	if err != nil {
		return nil, err
	}

	results := make([]model.SearchResult, 0, len(hits))
	for _, hit := range hits {
		res, err := Project(hit, r.relevance)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}
