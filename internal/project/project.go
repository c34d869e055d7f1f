// Package project loads and validates the pagepack project descriptor.
// The descriptor carries the parameters the build plan is resolved from:
// the application type tags, the license holder, and the output package
// name, plus a small set of build and lint knobs.
package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultDescriptor is the descriptor filename looked up in the project root.
const DefaultDescriptor = "pagepack.yaml"

var (
	// ErrNotFound indicates the project descriptor file does not exist
	ErrNotFound = errors.New("project descriptor not found")
	// ErrInvalidDescriptor indicates the descriptor failed validation
	ErrInvalidDescriptor = errors.New("invalid project descriptor")

	// packageNamePattern keeps the package name usable as a single output
	// directory segment, no separators or leading punctuation
	packageNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
)

// Project is the decoded pagepack.yaml descriptor.
type Project struct {
	Name             string   `yaml:"name"`
	PackageName      string   `yaml:"package_name"`
	Author           string   `yaml:"author"`
	Year             int      `yaml:"year"`
	ApplicationTypes []string `yaml:"application_types"`
	Build            Build    `yaml:"build"`
	Lint             Lint     `yaml:"lint"`
}

// Build carries the bundler knobs that are not derived from the page set.
type Build struct {
	Minify      bool `yaml:"minify"`
	SourceMap   bool `yaml:"source_map"`
	Precompress bool `yaml:"precompress"`
}

// Lint is the external linter invocation run as part of the build.
type Lint struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
}

// Defaults returns a descriptor pre-populated with default values. Decoding
// YAML over the top of it leaves any field the file does not mention at its
// default.
func Defaults() Project {
	return Project{
		Year: time.Now().Year(),
		Build: Build{
			Minify: true,
		},
		Lint: Lint{
			Command: "npx",
			Args:    []string{"eslint", "--ext", ".js", "ui/src"},
		},
	}
}

// Load reads, decodes and validates the descriptor at path. A missing file
// is reported as ErrNotFound so callers can suggest running init.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read project descriptor: %w", err)
	}

	project := Defaults()
	if err := yaml.Unmarshal(data, &project); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := project.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &project, nil
}

// Validate checks the descriptor fields the resolver depends on.
func (p *Project) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidDescriptor)
	}
	if p.PackageName == "" {
		return fmt.Errorf("%w: package_name is required", ErrInvalidDescriptor)
	}
	if !packageNamePattern.MatchString(p.PackageName) {
		return fmt.Errorf("%w: package_name %q must be a single lowercase path segment", ErrInvalidDescriptor, p.PackageName)
	}
	if p.Author == "" {
		return fmt.Errorf("%w: author is required", ErrInvalidDescriptor)
	}
	if p.Year <= 0 {
		return fmt.Errorf("%w: year must be positive", ErrInvalidDescriptor)
	}
	if len(p.ApplicationTypes) == 0 {
		return fmt.Errorf("%w: application_types must not be empty", ErrInvalidDescriptor)
	}
	if p.Lint.Command == "" {
		return fmt.Errorf("%w: lint command is required", ErrInvalidDescriptor)
	}
	return nil
}

// Save writes the descriptor to path atomically.
func (p *Project) Save(path string) error {
	if err := p.Validate(); err != nil {
		return err
	}

	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal project descriptor: %w", err)
	}

	// Write to temp file first
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write project descriptor: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to save project descriptor: %w", err)
	}

	return nil
}
