package commands

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/pagepack/internal/logger"
	"github.com/wolfeidau/pagepack/internal/project"
	"github.com/wolfeidau/pagepack/internal/resolver"
)

type Globals struct {
	Debug   bool
	Version string
}

func setupLogging(globals *Globals) {
	log.Logger = logger.Setup(globals.Debug)
}

// resolvePlan loads the descriptor and resolves it into a build plan.
func resolvePlan(configPath string) (*project.Project, *resolver.Plan, error) {
	proj, err := project.Load(configPath)
	if err != nil {
		if errors.Is(err, project.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w\n\nTo scaffold a new project run:\n\n\tpagepack init <dir>", err)
		}
		return nil, nil, err
	}

	plan, err := resolver.Resolve(proj)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve build plan: %w", err)
	}

	return proj, plan, nil
}

func configureHTTPServer(addr string, handler http.Handler) *http.Server {
	// Create HTTP server
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Minute,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       5 * time.Minute,
		MaxHeaderBytes:    8 * 1024, // 8KiB
	}
}

// withCORS wraps the file server so pages served here can be embedded
// during development against a backend on another origin.
func withCORS(allowedOrigins []string, h http.Handler) http.Handler {
	middleware := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
		},
		AllowedHeaders: []string{"*"},
	})
	return middleware.Handler(h)
}
