package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/pagepack/internal/project"
	"gopkg.in/yaml.v3"
)

type ResolveCmd struct {
	Config string `help:"Path to the project descriptor." default:"pagepack.yaml"`
	Format string `help:"Output encoding for the plan." enum:"json,yaml" default:"json"`
	Out    string `help:"Write the plan to a file instead of stdout."`
}

func (c *ResolveCmd) Run(ctx context.Context, globals *Globals) error {
	setupLogging(globals)

	if c.Config == "" {
		c.Config = project.DefaultDescriptor
	}

	_, plan, err := resolvePlan(c.Config)
	if err != nil {
		return err
	}

	log.Info().
		Str("profile", string(plan.Profile)).
		Str("fingerprint", plan.Fingerprint()).
		Msg("Resolved build plan")

	var data []byte
	switch c.Format {
	case "yaml":
		data, err = yaml.Marshal(plan)
	default:
		data, err = json.MarshalIndent(plan, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}

	if c.Out != "" {
		if err := os.WriteFile(c.Out, data, 0600); err != nil {
			return fmt.Errorf("failed to write %s: %w", c.Out, err)
		}
		return nil
	}

	_, err = os.Stdout.Write(data)
	return err
}
