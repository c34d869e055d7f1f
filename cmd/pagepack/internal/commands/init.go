package commands

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/wolfeidau/pagepack/cmd/pagepack/internal/scaffold"
	"github.com/wolfeidau/pagepack/internal/project"
)

// InitCmd scaffolds a new extension UI project.
type InitCmd struct {
	Dir              string   `arg:"" help:"Directory to create the project in."`
	Name             string   `help:"Project name, defaults to the directory name."`
	PackageName      string   `help:"Output package name, defaults to a name derived from the project name."`
	Author           string   `help:"Author recorded in the license banner." required:""`
	ApplicationTypes []string `help:"Application type tags for the project." default:"products"`
}

func (c *InitCmd) Run(ctx context.Context, globals *Globals) error {
	setupLogging(globals)

	name := c.Name
	if name == "" {
		name = filepath.Base(filepath.Clean(c.Dir))
	}

	packageName := c.PackageName
	if packageName == "" {
		packageName = scaffold.PackageName(name)
	}

	types := c.ApplicationTypes
	if len(types) == 0 {
		types = []string{"products"}
	}

	result, err := scaffold.Create(scaffold.Options{
		Dir:              c.Dir,
		Name:             name,
		PackageName:      packageName,
		Author:           c.Author,
		ApplicationTypes: types,
	})
	if err != nil {
		if errors.Is(err, scaffold.ErrProjectExists) {
			return fmt.Errorf("%s already contains %s, remove it to start over", c.Dir, project.DefaultDescriptor)
		}
		return fmt.Errorf("failed to scaffold project: %w", err)
	}

	fmt.Printf("Created project %q in %s\n\n", name, c.Dir)
	fmt.Printf("Profile: %s\n", result.Profile)
	fmt.Println("Pages:")
	for _, page := range result.Pages {
		fmt.Printf("  %-20s %s\n", page.Title, page.OutputHTML())
	}
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Printf("  cd %s\n", c.Dir)
	fmt.Println("  npm install")
	fmt.Println("  pagepack build")

	return nil
}
