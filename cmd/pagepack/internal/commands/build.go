package commands

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/pagepack/internal/bundler"
	"github.com/wolfeidau/pagepack/internal/lint"
	"github.com/wolfeidau/pagepack/internal/project"
)

type BuildCmd struct {
	Config   string `help:"Path to the project descriptor." default:"pagepack.yaml"`
	SkipLint bool   `help:"Skip running the linter."`
}

func (c *BuildCmd) Run(ctx context.Context, globals *Globals) error {
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

	started := time.Now()

	if err := pipeline.Build(ctx); err != nil {
		return err
	}

	log.Info().
		Str("build_id", pipeline.BuildID()).
		Str("outdir", plan.Output.Dir).
		Dur("duration", time.Since(started)).
		Msg("Build complete")

	return nil
}
