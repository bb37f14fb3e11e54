package logger

import (
	"fmt"
	"sync"

	"github.com/kart-io/logger"
	"github.com/spf13/viper"

	logopts "github.com/kart-io/medisearch/pkg/options/logger"
)

// Reloadable applies log level and format changes from a reloaded config
// by rebuilding the global logger. Other settings need a restart.
type Reloadable struct {
	mu   sync.Mutex
	opts *logopts.Options
	key  string
}

// NewReloadable watches the settings under key, usually "log".
func NewReloadable(opts *logopts.Options, key string) *Reloadable {
	return &Reloadable{opts: opts, key: key}
}

// OnConfigChange rebuilds the logger when level or format changed in v.
// On failure the previous settings are kept.
func (r *Reloadable) OnConfigChange(v *viper.Viper) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	level := v.GetString(r.key + ".level")
	format := v.GetString(r.key + ".format")
	if level == "" {
		level = r.opts.Level
	}
	if format == "" {
		format = r.opts.Format
	}
	if level == r.opts.Level && format == r.opts.Format {
		return nil
	}

	prevLevel, prevFormat := r.opts.Level, r.opts.Format
	r.opts.Level, r.opts.Format = level, format
	if err := r.opts.Init(); err != nil {
		r.opts.Level, r.opts.Format = prevLevel, prevFormat
		return fmt.Errorf("reload logger (level=%q format=%q): %w", level, format, err)
	}

	logger.Infow("Logger configuration reloaded", "level", level, "format", format)
	return nil
}
