// Package session provides options selecting the session store backend.
package session

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/kart-io/medisearch/pkg/options"
)

var _ options.IOptions = (*Options)(nil)

// Supported backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Options selects where chat messages and query logs are kept.
type Options struct {
	Backend string `json:"backend" mapstructure:"backend"`
	// TTL expires redis keys after the last write. Zero keeps them forever.
	TTL time.Duration `json:"ttl" mapstructure:"ttl"`
}

// NewOptions creates default session options.
func NewOptions() *Options {
	return &Options{Backend: BackendMemory}
}

// AddFlags adds flags for session options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	p := options.Join(append(prefixes, "session")...)
	fs.StringVar(&o.Backend, p+"backend", o.Backend, "Session store backend (memory|redis).")
	fs.DurationVar(&o.TTL, p+"ttl", o.TTL, "Expire redis session keys after this idle period, 0 disables.")
}

// Validate validates the session options.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}
	var errs []error
	switch o.Backend {
	case BackendMemory, BackendRedis:
	default:
		errs = append(errs, fmt.Errorf("session.backend must be %q or %q, got %q", BackendMemory, BackendRedis, o.Backend))
	}
	if o.TTL < 0 {
		errs = append(errs, fmt.Errorf("session.ttl cannot be negative"))
	}
	return errs
}
