// Package bundler executes a resolved build plan. It drives esbuild for
// compilation, bundling, splitting and stylesheet extraction, then runs
// the plan's directives against the build metadata: page emission, static
// asset copying and the lint run, followed by the build manifest and
// optional precompression of the outputs.
package bundler

import (
	"context"
	"errors"
	"path/filepath"
	"sync"

	"github.com/wolfeidau/pagepack/internal/resolver"
)

var (
	// ErrBuildFailed indicates the bundler reported one or more errors
	ErrBuildFailed = errors.New("bundler failed with errors")
	// ErrNotBuilt indicates build metadata was requested before a build ran
	ErrNotBuilt = errors.New("pages not built yet")
	// ErrUnknownModule indicates a module identifier with no entry or output
	ErrUnknownModule = errors.New("unknown module")
	// ErrMissingAssets indicates a copy directive source directory is absent
	ErrMissingAssets = errors.New("static asset directory missing")
)

// BuildMetadata is the parsed esbuild metafile.
type BuildMetadata struct {
	Outputs map[string]OutputInfo `json:"outputs"`
}

type OutputInfo struct {
	EntryPoint string       `json:"entryPoint"`
	Imports    []ImportInfo `json:"imports"`
	CSSBundle  string       `json:"cssBundle"`
	Bytes      int64        `json:"bytes"`
}

type ImportInfo struct {
	Path string `json:"path"`
	Kind string `json:"kind"`
}

// LintRunner runs the plan's lint directive.
type LintRunner interface {
	Run(ctx context.Context) error
}

// Options carries the execution knobs that are not part of the plan.
type Options struct {
	// ProjectDir is the project root containing the ui tree. Defaults to
	// the current directory.
	ProjectDir string
	// Lint runs the lint directive. A nil runner skips it.
	Lint LintRunner
	// SkipLint bypasses the lint directive while keeping it in the plan.
	SkipLint bool
	// Precompress writes gzip siblings for compressible outputs.
	Precompress bool
}

// Pipeline owns one plan and the metadata of its most recent build. Watch
// mode rebuilds concurrently with readers, so metadata access is guarded.
type Pipeline struct {
	plan       *resolver.Plan
	opts       Options
	projectDir string
	metadata   *BuildMetadata
	buildID    string
	mu         sync.RWMutex
}

// New creates a pipeline for the given plan.
func New(plan *resolver.Plan, opts Options) (*Pipeline, error) {
	dir := opts.ProjectDir
	if dir == "" {
		dir = "."
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		plan:       plan,
		opts:       opts,
		projectDir: absDir,
	}, nil
}

// Plan returns the plan the pipeline executes.
func (p *Pipeline) Plan() *resolver.Plan {
	return p.plan
}

// BuildID returns the identifier of the most recent build.
func (p *Pipeline) BuildID() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.buildID
}

// outDir is the absolute output directory.
func (p *Pipeline) outDir() string {
	return filepath.Join(p.projectDir, filepath.FromSlash(p.plan.Output.Dir))
}

// outputRel maps a metafile output path, relative to the project root, to
// a path relative to the output directory as referenced from emitted HTML.
func (p *Pipeline) outputRel(outputPath string) string {
	rel, ok := trimDirPrefix(outputPath, p.plan.Output.Dir)
	if !ok {
		return outputPath
	}
	return rel
}

func trimDirPrefix(path, dir string) (string, bool) {
	prefix := dir + "/"
	if len(path) <= len(prefix) || path[:len(prefix)] != prefix {
		return path, false
	}
	return path[len(prefix):], true
}
