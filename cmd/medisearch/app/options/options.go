// Package options contains flags and options for initializing the MediSearch server.
package options

import (
	"fmt"
	"time"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	cliflag "k8s.io/component-base/cli/flag"

	"github.com/kart-io/medisearch/internal/medisearch"
	chatopts "github.com/kart-io/medisearch/pkg/options/chat"
	esopts "github.com/kart-io/medisearch/pkg/options/elasticsearch"
	llmopts "github.com/kart-io/medisearch/pkg/options/llm"
	logopts "github.com/kart-io/medisearch/pkg/options/logger"
	poolopts "github.com/kart-io/medisearch/pkg/options/pool"
	redisopts "github.com/kart-io/medisearch/pkg/options/redis"
	httpopts "github.com/kart-io/medisearch/pkg/options/server/http"
	sessionopts "github.com/kart-io/medisearch/pkg/options/session"
	tracingopts "github.com/kart-io/medisearch/pkg/options/tracing"
)

// ServerOptions contains the configuration options for the server.
type ServerOptions struct {
	// HTTPOptions contains HTTP server configuration.
	HTTPOptions *httpopts.Options `json:"http" mapstructure:"http"`

	// LogOptions contains logger configuration.
	LogOptions *logopts.Options `json:"log" mapstructure:"log"`

	// ElasticsearchOptions contains search engine configuration.
	ElasticsearchOptions *esopts.Options `json:"elasticsearch" mapstructure:"elasticsearch"`

	// LLMOptions contains generative model configuration.
	LLMOptions *llmopts.ProviderOptions `json:"llm" mapstructure:"llm"`

	// ChatOptions contains conversation pipeline configuration.
	ChatOptions *chatopts.Options `json:"chat" mapstructure:"chat"`

	// SessionOptions selects the session store backend.
	SessionOptions *sessionopts.Options `json:"session" mapstructure:"session"`

	// RedisOptions contains Redis configuration for the redis session backend.
	RedisOptions *redisopts.Options `json:"redis" mapstructure:"redis"`

	// TracingOptions contains OpenTelemetry configuration.
	TracingOptions *tracingopts.Options `json:"tracing" mapstructure:"tracing"`

	// PoolOptions contains background worker pool configuration.
	PoolOptions *poolopts.Options `json:"pool" mapstructure:"pool"`

	// ShutdownTimeout is the timeout for graceful shutdown.
	ShutdownTimeout time.Duration `json:"shutdown-timeout" mapstructure:"shutdown-timeout"`
}

// NewServerOptions creates a ServerOptions instance with default values.
func NewServerOptions() *ServerOptions {
	tracingOpts := tracingopts.NewOptions()
	tracingOpts.ServiceName = medisearch.Name

	return &ServerOptions{
		HTTPOptions:          httpopts.NewOptions(),
		LogOptions:           logopts.NewOptions(),
		ElasticsearchOptions: esopts.NewOptions(),
		LLMOptions:           llmopts.NewProviderOptions(),
		ChatOptions:          chatopts.NewOptions(),
		SessionOptions:       sessionopts.NewOptions(),
		RedisOptions:         redisopts.NewOptions(),
		TracingOptions:       tracingOpts,
		PoolOptions:          poolopts.NewOptions(),
		ShutdownTimeout:      30 * time.Second,
	}
}

// Flags returns flags for a specific server by section name.
func (o *ServerOptions) Flags() (fss cliflag.NamedFlagSets) {
	o.HTTPOptions.AddFlags(fss.FlagSet("http"))
	o.LogOptions.AddFlags(fss.FlagSet("log"))
	o.ElasticsearchOptions.AddFlags(fss.FlagSet("elasticsearch"))
	o.LLMOptions.AddFlags(fss.FlagSet("llm"))
	o.ChatOptions.AddFlags(fss.FlagSet("chat"))
	o.SessionOptions.AddFlags(fss.FlagSet("session"))
	o.RedisOptions.AddFlags(fss.FlagSet("redis"))
	o.TracingOptions.AddFlags(fss.FlagSet("tracing"))
	o.PoolOptions.AddFlags(fss.FlagSet("pool"))

	// misc flags
	fs := fss.FlagSet("misc")
	fs.DurationVar(&o.ShutdownTimeout, "shutdown-timeout", o.ShutdownTimeout, "Graceful shutdown timeout")

	return fss
}

// Complete completes all the required options.
func (o *ServerOptions) Complete() error {
	if err := o.HTTPOptions.Complete(); err != nil {
		return err
	}
	if err := o.ElasticsearchOptions.Complete(); err != nil {
		return fmt.Errorf("elasticsearch: %w", err)
	}
	if err := o.LLMOptions.Complete(); err != nil {
		return fmt.Errorf("llm: %w", err)
	}
	if err := o.RedisOptions.Complete(); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	if err := o.TracingOptions.Complete(); err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	return nil
}

// Validate checks whether the options in ServerOptions are valid.
func (o *ServerOptions) Validate() error {
	errs := []error{}

	errs = append(errs, o.HTTPOptions.Validate()...)
	errs = append(errs, o.LogOptions.Validate()...)
	errs = append(errs, o.ElasticsearchOptions.Validate()...)
	errs = append(errs, o.LLMOptions.Validate()...)
	errs = append(errs, o.ChatOptions.Validate()...)
	errs = append(errs, o.SessionOptions.Validate()...)
	if o.SessionOptions.Backend == sessionopts.BackendRedis {
		errs = append(errs, o.RedisOptions.Validate()...)
	}
	errs = append(errs, o.TracingOptions.Validate()...)
	errs = append(errs, o.PoolOptions.Validate()...)
	if o.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("shutdown-timeout must be positive"))
	}

	return utilerrors.NewAggregate(errs)
}

// Config builds a medisearch.Config based on ServerOptions.
func (o *ServerOptions) Config() (*medisearch.Config, error) {
	return &medisearch.Config{
		HTTPOptions:          o.HTTPOptions,
		LogOptions:           o.LogOptions,
		ElasticsearchOptions: o.ElasticsearchOptions,
		LLMOptions:           o.LLMOptions,
		ChatOptions:          o.ChatOptions,
		SessionOptions:       o.SessionOptions,
		RedisOptions:         o.RedisOptions,
		TracingOptions:       o.TracingOptions,
		PoolOptions:          o.PoolOptions,
		ShutdownTimeout:      o.ShutdownTimeout,
	}, nil
}
