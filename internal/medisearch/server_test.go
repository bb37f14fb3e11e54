package medisearch

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/medisearch/internal/medisearch/biz"
	"github.com/kart-io/medisearch/pkg/infra/app"
	chatopts "github.com/kart-io/medisearch/pkg/options/chat"
	esopts "github.com/kart-io/medisearch/pkg/options/elasticsearch"
	llmopts "github.com/kart-io/medisearch/pkg/options/llm"
	logopts "github.com/kart-io/medisearch/pkg/options/logger"
	poolopts "github.com/kart-io/medisearch/pkg/options/pool"
	redisopts "github.com/kart-io/medisearch/pkg/options/redis"
	httpopts "github.com/kart-io/medisearch/pkg/options/server/http"
	sessionopts "github.com/kart-io/medisearch/pkg/options/session"
	tracingopts "github.com/kart-io/medisearch/pkg/options/tracing"
	"github.com/kart-io/medisearch/pkg/utils/json"
)

// fakeCluster answers the Elasticsearch calls made at startup and search.
func fakeCluster(t *testing.T, seeded *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodHead && r.URL.Path == "/":
		case r.Method == http.MethodHead:
			w.WriteHeader(http.StatusNotFound)
		case r.Method == http.MethodPut:
			_, _ = w.Write([]byte(`{"acknowledged":true}`))
		case strings.HasSuffix(r.URL.Path, "/_bulk"):
			seeded.Add(1)
			_, _ = w.Write([]byte(`{"errors":false,"items":[]}`))
		case strings.HasSuffix(r.URL.Path, "/_search"):
			_, _ = w.Write([]byte(`{"hits":{"hits":[{"_id":"asthma","_score":5,"_source":{"name":"Asthma","symptoms":["wheezing"],"treatments":["rescue inhaler"],"severity":"Moderate"}}]}}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// fakeGemini answers generateContent calls.
func fakeGemini(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		text := "Asthma narrows the airways."
		if bytes.Contains(body, []byte("Extract medical terms")) {
			text = `["asthma"]`
		}
		resp := map[string]any{
			"candidates": []any{map[string]any{
				"content": map[string]any{"parts": []any{map[string]any{"text": text}}},
			}},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(esURL, geminiURL string) *Config {
	es := esopts.NewOptions()
	es.Addresses = []string{esURL}

	llm := llmopts.NewProviderOptions()
	llm.BaseURL = geminiURL
	llm.APIKey = "test-key"

	return &Config{
		HTTPOptions:          httpopts.NewOptions(),
		LogOptions:           logopts.NewOptions(),
		ElasticsearchOptions: es,
		LLMOptions:           llm,
		ChatOptions:          chatopts.NewOptions(),
		SessionOptions:       sessionopts.NewOptions(),
		RedisOptions:         redisopts.NewOptions(),
		TracingOptions:       tracingopts.NewOptions(),
		PoolOptions:          poolopts.NewOptions(),
		ShutdownTimeout:      time.Second,
	}
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	h.ServeHTTP(w, r)
	return w
}

func TestServerEndToEnd(t *testing.T) {
	var seeded atomic.Int32
	cfg := testConfig(fakeCluster(t, &seeded).URL, fakeGemini(t).URL)

	s, err := cfg.NewServer(context.Background())
	require.NoError(t, err)
	defer s.close()
	h := s.Handler()

	require.Eventually(t, func() bool {
		w := serve(h, http.MethodGet, "/api/health", "")
		return strings.Contains(w.Body.String(), `"searchEngineConnected":true`)
	}, 5*time.Second, 20*time.Millisecond)
	require.Eventually(t, func() bool { return seeded.Load() == 1 }, 5*time.Second, 20*time.Millisecond)

	w := serve(h, http.MethodPost, "/api/chat", `{"message":"What is asthma?","sessionId":"e2e"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var reply biz.ChatReply
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reply))
	assert.Equal(t, "Asthma narrows the airways.", reply.Response)
	require.Len(t, reply.SearchResults, 1)
	assert.Equal(t, "asthma", reply.SearchResults[0].ID)
	assert.InDelta(t, 0.5, reply.SearchResults[0].RelevanceScore, 1e-9)

	w = serve(h, http.MethodGet, "/api/chat/history/e2e", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "What is asthma?")

	w = serve(h, http.MethodGet, "/api/analytics/searches", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"resultsCount":1`)

	w = serve(h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "medisearch_chat_turns_total 1\n")
	assert.Contains(t, w.Body.String(), `medisearch_http_requests_total{method="POST",route="/api/chat",status="200"} 1`)
}

func TestServerWithoutSearchEngine(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1", fakeGemini(t).URL)
	cfg.ElasticsearchOptions.Timeout = 200 * time.Millisecond

	s, err := cfg.NewServer(context.Background())
	require.NoError(t, err)
	defer s.close()
	h := s.Handler()

	w := serve(h, http.MethodGet, "/api/search?q=asthma", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"results":[]}`, w.Body.String())

	w = serve(h, http.MethodGet, "/api/health", "")
	assert.Contains(t, w.Body.String(), `"searchEngineConnected":false`)
}

func TestNewServerRequiresAPIKey(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1", "http://127.0.0.1:1")
	cfg.LLMOptions.APIKey = ""

	_, err := cfg.NewServer(context.Background())
	assert.Error(t, err)
}

func TestBuildFields(t *testing.T) {
	fields := buildFields()
	require.Zero(t, len(fields)%2)

	kv := make(map[string]any, len(fields)/2)
	for i := 0; i < len(fields); i += 2 {
		key, ok := fields[i].(string)
		require.True(t, ok)
		kv[key] = fields[i+1]
	}

	assert.Equal(t, app.GetVersion(), kv["git_version"])
	assert.Contains(t, kv, "git_commit")
	assert.Contains(t, kv, "build_date")
	if json.IsUsingSonic() {
		assert.Equal(t, "sonic", kv["json_engine"])
	} else {
		assert.Equal(t, "encoding/json", kv["json_engine"])
	}
}
