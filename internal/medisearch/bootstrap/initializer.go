package bootstrap

import (
	"context"
	"time"

	"github.com/kart-io/logger"

	"github.com/kart-io/medisearch/internal/medisearch/metrics"
	"github.com/kart-io/medisearch/internal/medisearch/model"
	"github.com/kart-io/medisearch/pkg/component/elasticsearch"
	"github.com/kart-io/medisearch/pkg/infra/pool"
)

// initTimeout bounds the whole initialization.
const initTimeout = 2 * time.Minute

// Index is the part of the condition index the initializer drives.
type Index interface {
	Name() string
	Ping(ctx context.Context) error
	EnsureIndex(ctx context.Context) (bool, error)
	Seed(ctx context.Context, conditions []model.Condition) (elasticsearch.BulkResult, error)
}

// CorpusLoader returns the conditions to seed.
type CorpusLoader func() ([]model.Condition, error)

// Initializer pings the cluster, ensures the index and seeds the corpus.
type Initializer struct {
	index   Index
	status  *Status
	seed    bool
	load    CorpusLoader
	metrics *metrics.Metrics
}

// Option configures an Initializer.
type Option func(*Initializer)

// WithSeed enables seeding with conditions returned by load.
func WithSeed(load CorpusLoader) Option {
	return func(i *Initializer) {
		i.seed = load != nil
		i.load = load
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(i *Initializer) {
		i.metrics = m
	}
}

// NewInitializer creates an Initializer that reports into status.
func NewInitializer(index Index, status *Status, opts ...Option) *Initializer {
	i := &Initializer{
		index:   index,
		status:  status,
		metrics: metrics.Default(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Start runs the initializer on p so that serving is never blocked on
// the search engine.
func (i *Initializer) Start(ctx context.Context, p *pool.Pool) error {
	return p.SubmitWithContext(ctx, func(ctx context.Context) {
		i.Run(ctx)
	})
}

// Run initializes the index and sets the status. Connectivity only
// requires the ping and the index check to succeed; seeding failures are
// logged and leave the service connected.
func (i *Initializer) Run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, initTimeout)
	defer cancel()

	connected := i.connect(ctx)
	i.status.set(connected)
	if !connected {
		return
	}

	if i.seed {
		i.seedCorpus(ctx)
	}
}

func (i *Initializer) connect(ctx context.Context) bool {
	if err := i.index.Ping(ctx); err != nil {
		logger.Warnw("Elasticsearch not available, search is disabled", "error", err.Error())
		return false
	}
	logger.Info("Connected to Elasticsearch")

	created, err := i.index.EnsureIndex(ctx)
	if err != nil {
		logger.Errorw("Failed to ensure index, search is disabled", "index", i.index.Name(), "error", err.Error())
		return false
	}
	if created {
		logger.Infow("Created index", "index", i.index.Name())
	}
	return true
}

func (i *Initializer) seedCorpus(ctx context.Context) {
	conditions, err := i.load()
	if err != nil {
		logger.Errorw("Failed to load condition corpus", "error", err.Error())
		return
	}

	result, err := i.index.Seed(ctx, conditions)
	if err != nil {
		logger.Errorw("Failed to seed conditions", "index", i.index.Name(), "error", err.Error())
		return
	}
	i.metrics.RecordIndexing(result.Indexed, result.Failed)
	if result.Failed > 0 {
		logger.Warnw("Some conditions failed to index",
			"index", i.index.Name(),
			"indexed", result.Indexed,
			"failed", result.Failed,
			"errors", result.Errors,
		)
		return
	}
	logger.Infow("Seeded healthcare conditions", "index", i.index.Name(), "count", result.Indexed)
}
