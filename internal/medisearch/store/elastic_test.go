package store

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/medisearch/internal/medisearch/model"
	"github.com/kart-io/medisearch/pkg/component/elasticsearch"
	options "github.com/kart-io/medisearch/pkg/options/elasticsearch"
	"github.com/kart-io/medisearch/pkg/utils/json"
)

type recordingCluster struct {
	mu       sync.Mutex
	exists   bool
	created  []byte
	bulk     []byte
	bulkURL  string
	requests []string
}

func newConditionIndex(t *testing.T, rc *recordingCluster) *ConditionIndex {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rc.mu.Lock()
		defer rc.mu.Unlock()
		body, _ := io.ReadAll(r.Body)
		rc.requests = append(rc.requests, r.Method+" "+r.URL.Path)
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.Method == http.MethodHead && r.URL.Path == "/":
		case r.Method == http.MethodHead:
			if !rc.exists {
				w.WriteHeader(http.StatusNotFound)
			}
		case r.Method == http.MethodPut:
			rc.created = body
			rc.exists = true
			_, _ = w.Write([]byte(`{"acknowledged":true}`))
		case strings.HasSuffix(r.URL.Path, "/_bulk"):
			rc.bulk = body
			rc.bulkURL = r.URL.String()
			_, _ = w.Write([]byte(`{"errors":false,"items":[{"index":{"_id":"asthma","status":201}}]}`))
		case strings.HasSuffix(r.URL.Path, "/_search"):
			_, _ = w.Write([]byte(`{"hits":{"hits":[{"_id":"asthma","_score":4.2,"_source":{"name":"Asthma"}}]}}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	t.Cleanup(srv.Close)

	opts := options.NewOptions()
	opts.Addresses = []string{srv.URL}
	client, err := elasticsearch.New(opts)
	require.NoError(t, err)
	return NewConditionIndex(client, "healthcare_conditions")
}

func TestConditionIndexEnsureCreatesWithMapping(t *testing.T) {
	rc := &recordingCluster{}
	idx := newConditionIndex(t, rc)
	ctx := context.Background()

	require.NoError(t, idx.Ping(ctx))

	created, err := idx.EnsureIndex(ctx)
	require.NoError(t, err)
	assert.True(t, created)

	var mapping map[string]any
	require.NoError(t, json.Unmarshal(rc.created, &mapping))
	props := mapping["mappings"].(map[string]any)["properties"].(map[string]any)
	assert.Equal(t, "keyword", props["category"].(map[string]any)["type"])
	assert.Equal(t, "keyword", props["severity"].(map[string]any)["type"])
	assert.Equal(t, "standard", props["symptoms"].(map[string]any)["analyzer"])
	assert.Equal(t, "text", props["prevalence"].(map[string]any)["type"])

	created, err = idx.EnsureIndex(ctx)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestConditionIndexSeed(t *testing.T) {
	rc := &recordingCluster{exists: true}
	idx := newConditionIndex(t, rc)

	res, err := idx.Seed(context.Background(), []model.Condition{{
		ID: "asthma", Name: "Asthma", Symptoms: model.StringList{"wheezing"}, Severity: model.SeverityModerate,
	}})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Indexed)
	assert.Contains(t, rc.bulkURL, "refresh=true")
	assert.Contains(t, string(rc.bulk), `"_id":"asthma"`)
	assert.Contains(t, string(rc.bulk), `"symptoms":["wheezing"]`)
}

func TestConditionIndexSeedRequiresIDs(t *testing.T) {
	idx := newConditionIndex(t, &recordingCluster{})
	_, err := idx.Seed(context.Background(), []model.Condition{{Name: "Nameless"}})
	assert.Error(t, err)
}

func TestConditionIndexSearch(t *testing.T) {
	idx := newConditionIndex(t, &recordingCluster{exists: true})

	hits, err := idx.Search(context.Background(), map[string]any{"size": 1})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "asthma", hits[0].ID)
	require.NotNil(t, hits[0].Score)
	assert.InDelta(t, 4.2, *hits[0].Score, 1e-9)
}
