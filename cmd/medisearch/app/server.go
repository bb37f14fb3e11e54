// Package app provides the MediSearch server application.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kart-io/logger"
	"github.com/spf13/viper"

	"github.com/kart-io/medisearch/cmd/medisearch/app/options"
	"github.com/kart-io/medisearch/internal/medisearch"
	"github.com/kart-io/medisearch/pkg/infra/app"
	infralog "github.com/kart-io/medisearch/pkg/infra/logger"
)

const (
	// Name is the name of the application.
	Name = medisearch.Name

	// commandDesc is the description of the command.
	commandDesc = `MediSearch AI

A conversational health information service.

This server provides:
  - Chat answers grounded on a searchable healthcare condition index
  - Medical term extraction with a generative model
  - Direct condition search and search analytics
  - Chat history and export`
)

// NewApp creates and returns a new App object with default parameters.
func NewApp() *app.App {
	opts := options.NewServerOptions()
	reloadable := infralog.NewReloadable(opts.LogOptions, "log")
	application := app.NewApp(
		app.WithName(Name),
		app.WithDescription(commandDesc),
		app.WithOptions(opts),
		app.WithRunFunc(run(opts)),
		app.WithConfigChangeFunc(func(v *viper.Viper) {
			if err := reloadable.OnConfigChange(v); err != nil {
				logger.Warnw("Config reload failed", "error", err.Error())
			}
		}),
	)

	return application
}

// run contains the main logic for initializing and running the server.
func run(opts *options.ServerOptions) app.RunFunc {
	return func() error {
		// Load the configuration options
		cfg, err := opts.Config()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		ctx := setupSignalContext()

		// Build the server using the configuration
		server, err := cfg.NewServer(ctx)
		if err != nil {
			return fmt.Errorf("failed to create server: %w", err)
		}

		// Run the server with signal context for graceful shutdown
		return server.Run(ctx)
	}
}

// setupSignalContext returns a context that is cancelled on SIGINT or SIGTERM.
func setupSignalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		cancel()
		<-c
		os.Exit(1)
	}()
	return ctx
}
