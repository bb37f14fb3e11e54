package options

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sessionopts "github.com/kart-io/medisearch/pkg/options/session"
)

func TestNewServerOptionsDefaults(t *testing.T) {
	o := NewServerOptions()

	assert.Equal(t, ":5000", o.HTTPOptions.Addr)
	assert.Equal(t, "/api", o.HTTPOptions.APIPrefix)
	assert.Equal(t, "healthcare_conditions", o.ElasticsearchOptions.Index)
	assert.Equal(t, "gemini", o.LLMOptions.Provider)
	assert.Equal(t, "gemini-2.5-flash", o.LLMOptions.Model)
	assert.Equal(t, sessionopts.BackendMemory, o.SessionOptions.Backend)
	assert.Equal(t, "medisearch", o.TracingOptions.ServiceName)
	assert.Equal(t, 30*time.Second, o.ShutdownTimeout)
	assert.NoError(t, o.Validate())
}

func TestFlagsAreNamespaced(t *testing.T) {
	o := NewServerOptions()
	fss := o.Flags()

	for _, name := range []string{
		"http.addr",
		"http.api-prefix",
		"log.level",
		"elasticsearch.cloud-id",
		"elasticsearch.index",
		"elasticsearch.seed",
		"llm.model",
		"chat.history-window",
		"chat.score-divisor",
		"session.backend",
		"redis.host",
		"tracing.enabled",
		"pool.capacity",
		"shutdown-timeout",
	} {
		found := false
		for _, fs := range fss.FlagSets {
			if fs.Lookup(name) != nil {
				found = true
				break
			}
		}
		assert.True(t, found, name)
	}
}

func TestFlagParsing(t *testing.T) {
	o := NewServerOptions()
	fss := o.Flags()

	require.NoError(t, fss.FlagSet("chat").Parse([]string{"--chat.history-window=4", "--chat.entity-extraction=false"}))
	require.NoError(t, fss.FlagSet("session").Parse([]string{"--session.backend=redis"}))

	assert.Equal(t, 4, o.ChatOptions.HistoryWindow)
	assert.False(t, o.ChatOptions.EntityExtraction)
	assert.Equal(t, sessionopts.BackendRedis, o.SessionOptions.Backend)
}

func TestValidateAggregatesErrors(t *testing.T) {
	o := NewServerOptions()
	o.SessionOptions.Backend = "sqlite"
	o.ChatOptions.SearchLimit = 0
	o.ShutdownTimeout = 0

	err := o.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session.backend")
	assert.Contains(t, err.Error(), "chat.search-limit")
	assert.Contains(t, err.Error(), "shutdown-timeout")
}

func TestCompleteReadsEnvironment(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "gemini-secret")

	o := NewServerOptions()
	require.NoError(t, o.Complete())

	assert.Equal(t, "gemini-secret", o.LLMOptions.APIKey)
}

func TestConfig(t *testing.T) {
	o := NewServerOptions()
	cfg, err := o.Config()
	require.NoError(t, err)

	assert.Same(t, o.HTTPOptions, cfg.HTTPOptions)
	assert.Same(t, o.ChatOptions, cfg.ChatOptions)
	assert.Same(t, o.ElasticsearchOptions, cfg.ElasticsearchOptions)
	assert.Equal(t, o.ShutdownTimeout, cfg.ShutdownTimeout)
}
