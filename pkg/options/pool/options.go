// Package pool 提供后台任务池选项。
package pool

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/kart-io/medisearch/pkg/options"
)

var _ options.IOptions = (*Options)(nil)

// Options 后台任务池配置。
type Options struct {
	// Capacity 池容量（最大并发 goroutine 数）。
	Capacity int `json:"capacity" mapstructure:"capacity"`
	// ExpiryDuration goroutine 空闲过期时间。
	ExpiryDuration time.Duration `json:"expiry-duration" mapstructure:"expiry-duration"`
}

// NewOptions 创建默认池配置。
func NewOptions() *Options {
	return &Options{
		Capacity:       16,
		ExpiryDuration: 60 * time.Second,
	}
}

// AddFlags 将池选项注册到指定的 FlagSet。
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	p := options.Join(append(prefixes, "pool")...)
	fs.IntVar(&o.Capacity, p+"capacity", o.Capacity, "Background worker pool capacity.")
	fs.DurationVar(&o.ExpiryDuration, p+"expiry-duration", o.ExpiryDuration, "Idle worker expiry.")
}

// Validate 校验池选项。
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}
	var errs []error
	if o.Capacity <= 0 {
		errs = append(errs, fmt.Errorf("pool.capacity must be positive"))
	}
	if o.ExpiryDuration <= 0 {
		errs = append(errs, fmt.Errorf("pool.expiry-duration must be positive"))
	}
	return errs
}
