package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/pagepack/internal/bundler"
	"github.com/wolfeidau/pagepack/internal/lint"
	"github.com/wolfeidau/pagepack/internal/project"
)

type ServeCmd struct {
	Config   string   `help:"Path to the project descriptor." default:"pagepack.yaml"`
	Listen   string   `help:"Address to serve the built pages on." default:"localhost:8080"`
	Origins  []string `help:"Allowed CORS origins." default:"*"`
	SkipLint bool     `help:"Skip running the linter on rebuilds."`
}

func (c *ServeCmd) Run(ctx context.Context, globals *Globals) error {
	setupLogging(globals)

	if c.Config == "" {
		c.Config = project.DefaultDescriptor
	}

	proj, plan, err := resolvePlan(c.Config)
	if err != nil {
		return err
	}

	pipeline, err := bundler.New(plan, bundler.Options{
		Lint:        lint.New(proj.Lint.Command, proj.Lint.Args),
		SkipLint:    c.SkipLint,
		Precompress: proj.Build.Precompress,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Handle interrupts
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("Received interrupt signal, shutting down")
		cancel()
	}()

	go func() {
		if err := pipeline.Watch(ctx); err != nil {
			log.Error().Err(err).Msg("Watch failed")
			cancel()
		}
	}()

	outDir := filepath.FromSlash(plan.Output.Dir)
	handler := withCORS(c.Origins, http.FileServer(http.Dir(outDir)))

	srv := configureHTTPServer(c.Listen, handler)

	go func() {
		<-ctx.Done()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Failed to shut down server")
		}
	}()

	log.Info().Str("addr", c.Listen).Str("dir", outDir).Msg("Serving built pages")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
