package biz

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/medisearch/internal/medisearch/metrics"
	"github.com/kart-io/medisearch/pkg/component/elasticsearch"
)

func TestRetrieverNotConnectedSkipsEngine(t *testing.T) {
	searcher := &fakeSearcher{}
	m := metrics.New("t")
	r := NewRetriever(searcher, staticConn(false), NewRelevance(10), m)

	got := r.Search(context.Background(), "diabetes", 5)

	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Zero(t, searcher.calls())
	assert.Contains(t, m.Export(), "t_searches_degraded_total 1\n")
}

func TestRetrieverFaultDegradesToEmpty(t *testing.T) {
	searcher := &fakeSearcher{err: errors.New("connection reset")}
	m := metrics.New("t")
	r := NewRetriever(searcher, staticConn(true), NewRelevance(10), m)

	got := r.Search(context.Background(), "diabetes", 5)

	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Equal(t, 1, searcher.calls())
	assert.Contains(t, m.Export(), "t_search_faults_total 1\n")
}

func TestRetrieverMalformedHitDegradesToEmpty(t *testing.T) {
	searcher := &fakeSearcher{hits: []elasticsearch.Hit{hit("a", score(1), map[string]any{"symptoms": 1})}}
	r := NewRetriever(searcher, staticConn(true), NewRelevance(10), metrics.New("t"))

	assert.Empty(t, r.Search(context.Background(), "x", 5))
}

func TestRetrieverProjectsHits(t *testing.T) {
	searcher := &fakeSearcher{hits: []elasticsearch.Hit{
		hit("diabetes", score(14.2), map[string]any{"name": "Diabetes", "symptoms": "thirst, fatigue"}),
		hit("hypertension", score(4), map[string]any{"name": "Hypertension", "symptoms": []string{"headache"}}),
	}}
	r := NewRetriever(searcher, staticConn(true), NewRelevance(10), metrics.New("t"))

	got := r.Search(context.Background(), "thirst", 5)

	require.Len(t, got, 2)
	assert.Equal(t, "diabetes", got[0].ID)
	assert.InDelta(t, 1.0, got[0].RelevanceScore, 1e-9)
	assert.Equal(t, []string{"thirst", "fatigue"}, got[0].Symptoms)
	assert.InDelta(t, 0.4, got[1].RelevanceScore, 1e-9)

	require.Len(t, searcher.bodies, 1)
	assert.Equal(t, 5, searcher.bodies[0].Size)
}

func TestRetrieverNilDependencies(t *testing.T) {
	r := NewRetriever(nil, nil, NewRelevance(10), nil)
	assert.Empty(t, r.Search(context.Background(), "x", 5))
}
