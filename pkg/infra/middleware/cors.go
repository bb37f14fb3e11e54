package middleware

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/rs/cors"
)

// CORSConfig defines the config for CORS handling.
type CORSConfig struct {
	// AllowOrigins is a list of origins that may access the resource.
	AllowOrigins []string

	// AllowMethods is a list of methods allowed when accessing the resource.
	AllowMethods []string

	// AllowHeaders is a list of headers that can be used when making the request.
	AllowHeaders []string

	// ExposeHeaders is a list of headers that browsers are allowed to access.
	ExposeHeaders []string

	// AllowCredentials indicates whether credentials are allowed.
	AllowCredentials bool

	// MaxAge indicates how long, in seconds, a preflight result can be cached.
	MaxAge int
}

// DefaultCORSConfig is the default CORS config. AllowOrigins is left empty
// and must be set explicitly.
var DefaultCORSConfig = CORSConfig{
	AllowMethods: []string{
		http.MethodGet,
		http.MethodPost,
		http.MethodOptions,
	},
	AllowHeaders: []string{
		"Origin",
		"Content-Type",
		"Accept",
		"Accept-Language",
		HeaderXRequestID,
	},
	ExposeHeaders: []string{HeaderXRequestID, "Content-Disposition"},
	MaxAge:        86400,
}

// Validate checks if the CORS configuration is valid.
func (c CORSConfig) Validate() error {
	if len(c.AllowOrigins) == 0 {
		return fmt.Errorf("CORS: AllowOrigins must be explicitly configured, empty list not allowed")
	}
	// "*" cannot be combined with credentials
	if slices.Contains(c.AllowOrigins, "*") && c.AllowCredentials {
		return fmt.Errorf("CORS: cannot use wildcard origin '*' with AllowCredentials=true")
	}
	return nil
}

// CORS wraps an http.Handler with rs/cors. Preflight requests are answered
// before reaching the router.
func CORS(config CORSConfig) (func(http.Handler) http.Handler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if len(config.AllowMethods) == 0 {
		config.AllowMethods = DefaultCORSConfig.AllowMethods
	}
	if len(config.AllowHeaders) == 0 {
		config.AllowHeaders = DefaultCORSConfig.AllowHeaders
	}
	if config.ExposeHeaders == nil {
		config.ExposeHeaders = DefaultCORSConfig.ExposeHeaders
	}
	if config.MaxAge == 0 {
		config.MaxAge = DefaultCORSConfig.MaxAge
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   config.AllowOrigins,
		AllowedMethods:   config.AllowMethods,
		AllowedHeaders:   config.AllowHeaders,
		ExposedHeaders:   config.ExposeHeaders,
		AllowCredentials: config.AllowCredentials,
		MaxAge:           config.MaxAge,
	})
	return c.Handler, nil
}
