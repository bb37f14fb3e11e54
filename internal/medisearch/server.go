// Package medisearch provides the MediSearch service server implementation.
package medisearch

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/kart-io/logger"

	"github.com/kart-io/medisearch/internal/medisearch/biz"
	"github.com/kart-io/medisearch/internal/medisearch/bootstrap"
	"github.com/kart-io/medisearch/internal/medisearch/corpus"
	"github.com/kart-io/medisearch/internal/medisearch/handler"
	"github.com/kart-io/medisearch/internal/medisearch/metrics"
	"github.com/kart-io/medisearch/internal/medisearch/model"
	"github.com/kart-io/medisearch/internal/medisearch/router"
	"github.com/kart-io/medisearch/internal/medisearch/store"
	"github.com/kart-io/medisearch/pkg/component/elasticsearch"
	"github.com/kart-io/medisearch/pkg/component/redis"
	"github.com/kart-io/medisearch/pkg/infra/app"
	"github.com/kart-io/medisearch/pkg/infra/pool"
	"github.com/kart-io/medisearch/pkg/infra/server"
	httpserver "github.com/kart-io/medisearch/pkg/infra/server/http"
	"github.com/kart-io/medisearch/pkg/infra/tracing"
	"github.com/kart-io/medisearch/pkg/llm"
	// Register LLM providers.
	_ "github.com/kart-io/medisearch/pkg/llm/gemini"
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

// Name is the name of the application.
const Name = "medisearch"

// Config contains application-related configurations.
type Config struct {
	HTTPOptions          *httpopts.Options
	LogOptions           *logopts.Options
	ElasticsearchOptions *esopts.Options
	LLMOptions           *llmopts.ProviderOptions
	ChatOptions          *chatopts.Options
	SessionOptions       *sessionopts.Options
	RedisOptions         *redisopts.Options
	TracingOptions       *tracingopts.Options
	PoolOptions          *poolopts.Options
	ShutdownTimeout      time.Duration
}

// Server represents the MediSearch server.
type Server struct {
	srv      *server.Manager
	http     *httpserver.Server
	pool     *pool.Pool
	sessions store.SessionStore
	tracer   *tracing.Provider
}

// NewServer initializes and returns a new Server instance.
func (cfg *Config) NewServer(ctx context.Context) (*Server, error) {
	printBanner(cfg)

	// 1. Logging
	cfg.LogOptions.AddInitialField("service.name", Name)
	cfg.LogOptions.AddInitialField("service.version", app.GetVersion())
	if err := cfg.LogOptions.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Infow("Starting MediSearch service...", buildFields()...)

	// 2. Tracing
	tracer, err := tracing.NewProvider(ctx, cfg.TracingOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	logger.Infow("Tracing initialized", "enabled", tracer.Enabled())

	// 3. Elasticsearch client, no request is sent yet
	esClient, err := elasticsearch.New(cfg.ElasticsearchOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize elasticsearch: %w", err)
	}
	conditions := store.NewConditionIndex(esClient, cfg.ElasticsearchOptions.Index)
	logger.Infow("Elasticsearch client initialized", "index", conditions.Name())

	// 4. Session store
	retention := store.Retention{
		MaxMessagesPerSession: cfg.ChatOptions.MaxMessagesPerSession,
		MaxQueryLogs:          cfg.ChatOptions.MaxQueryLogs,
	}
	sessions, err := newSessionStore(ctx, cfg, retention)
	if err != nil {
		return nil, err
	}

	// 5. LLM provider
	chatProvider, err := llm.NewChatProvider(cfg.LLMOptions.Provider, cfg.LLMOptions.ToConfigMap())
	if err != nil {
		_ = sessions.Close()
		return nil, fmt.Errorf("failed to initialize chat provider: %w", err)
	}
	logger.Infow("Chat provider initialized",
		"provider", cfg.LLMOptions.Provider,
		"model", cfg.LLMOptions.Model,
	)

	// 6. Index initialization runs in the background so startup does not block
	workers, err := pool.NewPool("bootstrap", cfg.PoolOptions)
	if err != nil {
		_ = sessions.Close()
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}
	m := metrics.New(metrics.DefaultNamespace)
	status := bootstrap.NewStatus()
	initOpts := []bootstrap.Option{bootstrap.WithMetrics(m)}
	if cfg.ElasticsearchOptions.Seed {
		seedFile := cfg.ElasticsearchOptions.SeedFile
		initOpts = append(initOpts, bootstrap.WithSeed(func() ([]model.Condition, error) {
			return corpus.Load(seedFile)
		}))
	}
	if err := bootstrap.NewInitializer(conditions, status, initOpts...).Start(ctx, workers); err != nil {
		logger.Errorw("Failed to schedule index initialization, search is disabled", "error", err.Error())
	}

	// 7. Biz layer
	chatService := biz.NewChatService(
		sessions,
		biz.NewRetriever(conditions, status, biz.NewRelevance(cfg.ChatOptions.ScoreDivisor), m),
		biz.NewEntityExtractor(chatProvider),
		biz.NewGenerator(chatProvider),
		&biz.ChatConfig{
			HistoryWindow:    cfg.ChatOptions.HistoryWindow,
			ChatSearchLimit:  cfg.ChatOptions.ChatSearchLimit,
			SearchLimit:      cfg.ChatOptions.SearchLimit,
			AnalyticsLimit:   cfg.ChatOptions.AnalyticsLimit,
			EntityExtraction: cfg.ChatOptions.EntityExtraction,
		},
		m,
	)
	logger.Infow("Chat service initialized",
		"history_window", cfg.ChatOptions.HistoryWindow,
		"entity_extraction", cfg.ChatOptions.EntityExtraction,
		"session_backend", cfg.SessionOptions.Backend,
	)

	// 8. HTTP server and routes
	httpServer, err := httpserver.NewServer(cfg.HTTPOptions, httpserver.WithMetrics(m.Registry(), m.Namespace()))
	if err != nil {
		workers.Release()
		_ = sessions.Close()
		return nil, fmt.Errorf("failed to create http server: %w", err)
	}
	router.Register(httpServer.Engine(), cfg.HTTPOptions.APIPrefix, handler.NewHandler(chatService, status, m))

	serverManager := server.NewManager(cfg.ShutdownTimeout)
	serverManager.AddServer(httpServer)

	logger.Info("MediSearch service is ready")
	return &Server{
		srv:      serverManager,
		http:     httpServer,
		pool:     workers,
		sessions: sessions,
		tracer:   tracer,
	}, nil
}

// Run starts the server and blocks until ctx is cancelled or a termination
// signal arrives.
func (s *Server) Run(ctx context.Context) error {
	defer s.close()
	return s.srv.Run(ctx)
}

// Handler returns the HTTP handler with every route registered.
func (s *Server) Handler() http.Handler {
	return s.http.Handler()
}

func (s *Server) close() {
	s.pool.Release()
	if err := s.sessions.Close(); err != nil {
		logger.Warnw("Failed to close session store", "error", err.Error())
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.tracer.Shutdown(ctx); err != nil {
		logger.Warnw("Failed to shut down tracing", "error", err.Error())
	}
	_ = logger.Flush()
}

func newSessionStore(ctx context.Context, cfg *Config, retention store.Retention) (store.SessionStore, error) {
	if cfg.SessionOptions.Backend != sessionopts.BackendRedis {
		logger.Info("Using in-memory session store")
		return store.NewMemoryStore(retention), nil
	}

	client, err := redis.NewWithContext(ctx, cfg.RedisOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize redis session store: %w", err)
	}
	logger.Infow("Using redis session store", "addr", cfg.RedisOptions.Addr(), "ttl", cfg.SessionOptions.TTL)
	return store.NewRedisStore(client, cfg.SessionOptions.TTL, retention), nil
}

// buildFields describes the running binary for the startup log.
func buildFields() []any {
	info := app.GetVersionInfo()
	engine := "encoding/json"
	if json.IsUsingSonic() {
		engine = "sonic"
	}
	return []any{
		"git_version", info.GitVersion,
		"git_commit", info.GitCommit,
		"build_date", info.BuildDate,
		"go_version", info.GoVersion,
		"platform", info.Platform,
		"json_engine", engine,
	}
}

func printBanner(cfg *Config) {
	fmt.Printf("Starting %s...\n", Name)
	fmt.Printf("  LLM: %s (%s)\n", cfg.LLMOptions.Provider, cfg.LLMOptions.Model)
	fmt.Printf("  Elasticsearch index: %s\n", cfg.ElasticsearchOptions.Index)
	fmt.Printf("  Session store: %s\n", cfg.SessionOptions.Backend)
}
