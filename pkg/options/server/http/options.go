// Package http provides HTTP server configuration options.
package http

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/kart-io/medisearch/pkg/options"
)

var _ options.IOptions = (*Options)(nil)

// Options contains HTTP server configuration.
type Options struct {
	// Addr is the address to listen on.
	Addr string `json:"addr" mapstructure:"addr"`
	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout time.Duration `json:"read-timeout" mapstructure:"read-timeout"`
	// WriteTimeout is the maximum duration before timing out writes of the response.
	WriteTimeout time.Duration `json:"write-timeout" mapstructure:"write-timeout"`
	// IdleTimeout is the maximum amount of time to wait for the next request.
	IdleTimeout time.Duration `json:"idle-timeout" mapstructure:"idle-timeout"`
	// APIPrefix is the route group the JSON API is mounted under.
	APIPrefix string `json:"api-prefix" mapstructure:"api-prefix"`
	// CORSAllowedOrigins lists the origins allowed to call the API.
	CORSAllowedOrigins []string `json:"cors-allowed-origins" mapstructure:"cors-allowed-origins"`
}

// NewOptions creates a new Options with default values.
func NewOptions() *Options {
	return &Options{
		Addr:               ":5000",
		ReadTimeout:        30 * time.Second,
		WriteTimeout:       90 * time.Second,
		IdleTimeout:        60 * time.Second,
		APIPrefix:          "/api",
		CORSAllowedOrigins: []string{"*"},
	}
}

// AddFlags adds flags for HTTP options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	p := options.Join(append(prefixes, "http")...)
	fs.StringVar(&o.Addr, p+"addr", o.Addr, "Specify the HTTP server bind address and port.")
	fs.DurationVar(&o.ReadTimeout, p+"read-timeout", o.ReadTimeout, "Timeout for reading the entire request.")
	fs.DurationVar(&o.WriteTimeout, p+"write-timeout", o.WriteTimeout, "Timeout before timing out writes of the response.")
	fs.DurationVar(&o.IdleTimeout, p+"idle-timeout", o.IdleTimeout, "Maximum amount of time to wait for the next request.")
	fs.StringVar(&o.APIPrefix, p+"api-prefix", o.APIPrefix, "Route prefix for the JSON API.")
	fs.StringSliceVar(&o.CORSAllowedOrigins, p+"cors-allowed-origins", o.CORSAllowedOrigins, "Origins allowed by CORS.")
}

// Validate validates the HTTP options.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error

	if o.Addr == "" {
		errs = append(errs, fmt.Errorf("http.addr cannot be empty"))
	}
	if o.ReadTimeout <= 0 {
		errs = append(errs, fmt.Errorf("http.read-timeout must be positive"))
	}
	if o.WriteTimeout <= 0 {
		errs = append(errs, fmt.Errorf("http.write-timeout must be positive"))
	}
	if o.APIPrefix != "" && !strings.HasPrefix(o.APIPrefix, "/") {
		errs = append(errs, fmt.Errorf("http.api-prefix must start with '/', got %q", o.APIPrefix))
	}

	return errs
}

// Complete normalizes the API prefix.
func (o *Options) Complete() error {
	o.APIPrefix = strings.TrimRight(o.APIPrefix, "/")
	return nil
}
