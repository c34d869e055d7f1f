package bundler

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/pagepack/internal/resolver"
)

// Build runs the bundler once and executes the plan's directives against
// the result. Any failure halts the build.
func (p *Pipeline) Build(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.plan.Output.Clean {
		if err := cleanDir(p.outDir()); err != nil {
			return fmt.Errorf("failed to clean output directory: %w", err)
		}
	}

	log.Info().
		Str("profile", string(p.plan.Profile)).
		Str("outdir", p.plan.Output.Dir).
		Str("fingerprint", p.plan.Fingerprint()).
		Msg("Building pages")

	result := api.Build(p.buildOptions())

	if len(result.Errors) > 0 {
		for _, msg := range result.Errors {
			log.Error().Str("error", msg.Text).Msg("Build error")
		}
		return ErrBuildFailed
	}

	for _, file := range result.OutputFiles {
		log.Debug().Str("file", file.Path).Msg("Built file")
	}

	if err := p.loadMetadata(result.Metafile); err != nil {
		return err
	}

	return p.postBuild(ctx)
}

// Watch rebuilds on source changes until ctx is cancelled. Post build
// steps re-run after every rebuild; failures are reported and the watcher
// keeps waiting for the next change.
func (p *Pipeline) Watch(ctx context.Context) error {
	if p.plan.Output.Clean {
		if err := cleanDir(p.outDir()); err != nil {
			return fmt.Errorf("failed to clean output directory: %w", err)
		}
	}

	options := p.buildOptions()
	options.Plugins = append(options.Plugins, p.rebuildPlugin(ctx))

	buildCtx, ctxErr := api.Context(options)
	if ctxErr != nil {
		return fmt.Errorf("failed to create build context: %w", ctxErr)
	}
	defer buildCtx.Dispose()

	if err := buildCtx.Watch(api.WatchOptions{}); err != nil {
		return fmt.Errorf("failed to start watch: %w", err)
	}

	log.Info().Str("dir", p.projectDir).Msg("Watching for changes")
	<-ctx.Done()
	return nil
}

// buildOptions maps the plan onto esbuild options. The mapping is pure,
// nothing here touches the filesystem.
func (p *Pipeline) buildOptions() api.BuildOptions {
	plan := p.plan

	entryPoints := make([]string, 0, len(plan.Entries))
	for _, entry := range plan.Entries {
		entryPoints = append(entryPoints, entry.Source)
	}

	loader := map[string]api.Loader{}
	var plugins []api.Plugin
	if fileRule, ok := plan.RuleFor(resolver.HandlingFile); ok {
		for _, ext := range fileRule.Extensions {
			loader[ext] = api.LoaderFile
		}
		plugins = append(plugins, versionedAssetPlugin(fileRule))
	}

	return api.BuildOptions{
		AbsWorkingDir:     p.projectDir,
		EntryPoints:       entryPoints,
		Bundle:            true,
		Splitting:         plan.Splitting,
		Write:             true,
		Outdir:            plan.Output.Dir,
		EntryNames:        plan.Output.EntryNames,
		ChunkNames:        plan.Output.ChunkNames,
		AssetNames:        plan.Output.AssetNames,
		Format:            api.FormatESModule,
		Loader:            loader,
		Banner:            map[string]string{"js": plan.Banner, "css": plan.Banner},
		MinifyWhitespace:  plan.Minify,
		MinifyIdentifiers: plan.Minify,
		MinifySyntax:      plan.Minify,
		TreeShaking:       api.TreeShakingTrue,
		Sourcemap:         cond(plan.SourceMap, api.SourceMapLinked, api.SourceMapNone),
		Metafile:          true,
		Plugins:           plugins,
	}
}

// versionedAssetPlugin resolves asset references carrying a ?v=d.d.d
// version suffix by stripping the suffix, so versioned font references in
// stylesheets resolve to the underlying file.
func versionedAssetPlugin(rule resolver.Rule) api.Plugin {
	exts := make([]string, 0, len(rule.Extensions))
	for _, ext := range rule.Extensions {
		exts = append(exts, strings.TrimPrefix(ext, "."))
	}
	filter := `\.(` + strings.Join(exts, "|") + `)\?v=\d+\.\d+\.\d+$`

	return api.Plugin{
		Name: "versioned-assets",
		Setup: func(build api.PluginBuild) {
			build.OnResolve(api.OnResolveOptions{Filter: filter},
				func(args api.OnResolveArgs) (api.OnResolveResult, error) {
					trimmed := args.Path[:strings.LastIndex(args.Path, "?")]
					return api.OnResolveResult{Path: filepath.Join(args.ResolveDir, trimmed)}, nil
				})
		},
	}
}

// rebuildPlugin re-runs the post build steps after each incremental
// rebuild in watch mode.
func (p *Pipeline) rebuildPlugin(ctx context.Context) api.Plugin {
	return api.Plugin{
		Name: "pagepack-rebuild",
		Setup: func(build api.PluginBuild) {
			build.OnEnd(func(result *api.BuildResult) (api.OnEndResult, error) {
				if len(result.Errors) > 0 {
					for _, msg := range result.Errors {
						log.Error().Str("error", msg.Text).Msg("Build error")
					}
					return api.OnEndResult{}, nil
				}

				p.mu.Lock()
				defer p.mu.Unlock()

				if err := p.loadMetadata(result.Metafile); err != nil {
					log.Error().Err(err).Msg("Failed to load build metadata")
					return api.OnEndResult{}, nil
				}

				if err := p.postBuild(ctx); err != nil {
					log.Error().Err(err).Msg("Post build steps failed")
					return api.OnEndResult{}, nil
				}

				log.Info().Str("build_id", p.buildID).Msg("Rebuilt pages")
				return api.OnEndResult{}, nil
			})
		},
	}
}

// loadMetadata parses the metafile and stamps a new build identifier.
// Callers hold the write lock.
func (p *Pipeline) loadMetadata(metafile string) error {
	var metadata BuildMetadata
	if err := json.Unmarshal([]byte(metafile), &metadata); err != nil {
		return fmt.Errorf("failed to parse build metadata: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate build id: %w", err)
	}

	p.metadata = &metadata
	p.buildID = id.String()
	return nil
}

// postBuild runs the plan's directives in order, then writes the manifest
// and optionally precompresses the outputs. Callers hold the write lock.
func (p *Pipeline) postBuild(ctx context.Context) error {
	for _, directive := range p.plan.Directives {
		if err := p.runDirective(ctx, directive); err != nil {
			return err
		}
	}

	if err := p.writeManifest(); err != nil {
		return err
	}

	if p.opts.Precompress {
		if err := p.precompress(); err != nil {
			return err
		}
	}

	return nil
}

func (p *Pipeline) runDirective(ctx context.Context, d resolver.Directive) error {
	switch d.Kind {
	case resolver.DirectiveHTML:
		return p.emitPage(d)
	case resolver.DirectiveCopy:
		return p.copyAssets(d)
	case resolver.DirectiveExtract:
		// performed by the bundler during compilation
		log.Debug().Msg("Stylesheets extracted during compilation")
		return nil
	case resolver.DirectiveLint:
		return p.runLint(ctx, d)
	default:
		return fmt.Errorf("unknown directive kind %q", d.Kind)
	}
}

func (p *Pipeline) runLint(ctx context.Context, d resolver.Directive) error {
	if p.opts.SkipLint || p.opts.Lint == nil {
		log.Debug().Msg("Lint skipped")
		return nil
	}

	log.Info().Strs("extensions", d.Extensions).Msg("Running lint")
	if err := p.opts.Lint.Run(ctx); err != nil {
		return fmt.Errorf("lint failed: %w", err)
	}
	return nil
}

// ScriptsFor returns the ordered script paths for a module's page,
// relative to the output directory: the entry chunk first, then its
// transitive chunk imports.
func (p *Pipeline) ScriptsFor(module string) ([]string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.scriptsFor(module)
}

// StylesFor returns the extracted stylesheet paths for a module's page,
// relative to the output directory.
func (p *Pipeline) StylesFor(module string) ([]string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.stylesFor(module)
}

func (p *Pipeline) entryOutput(module string) (string, OutputInfo, error) {
	if p.metadata == nil {
		return "", OutputInfo{}, ErrNotBuilt
	}

	entry, ok := p.plan.EntryFor(module)
	if !ok {
		return "", OutputInfo{}, fmt.Errorf("%w: %q", ErrUnknownModule, module)
	}

	for outputPath, info := range p.metadata.Outputs {
		if info.EntryPoint == entry.Source {
			return outputPath, info, nil
		}
	}

	return "", OutputInfo{}, fmt.Errorf("%w: no output for entry %q", ErrUnknownModule, entry.Source)
}

func (p *Pipeline) scriptsFor(module string) ([]string, error) {
	outputPath, info, err := p.entryOutput(module)
	if err != nil {
		return nil, err
	}

	scripts := []string{p.outputRel(outputPath)}
	visited := map[string]bool{outputPath: true}
	p.addDependencies(info, &scripts, visited)
	return scripts, nil
}

func (p *Pipeline) addDependencies(output OutputInfo, scripts *[]string, visited map[string]bool) {
	for _, imp := range output.Imports {
		if path.Ext(imp.Path) != ".js" || visited[imp.Path] {
			continue
		}
		visited[imp.Path] = true
		*scripts = append(*scripts, p.outputRel(imp.Path))

		if chunkInfo, exists := p.metadata.Outputs[imp.Path]; exists {
			p.addDependencies(chunkInfo, scripts, visited)
		}
	}
}

func (p *Pipeline) stylesFor(module string) ([]string, error) {
	outputPath, info, err := p.entryOutput(module)
	if err != nil {
		return nil, err
	}

	styles := []string{}
	seen := make(map[string]bool)
	visited := map[string]bool{outputPath: true}
	p.collectStyles(info, &styles, seen, visited)
	return styles, nil
}

func (p *Pipeline) collectStyles(output OutputInfo, styles *[]string, seen, visited map[string]bool) {
	if output.CSSBundle != "" && !seen[output.CSSBundle] {
		seen[output.CSSBundle] = true
		*styles = append(*styles, p.outputRel(output.CSSBundle))
	}

	for _, imp := range output.Imports {
		if path.Ext(imp.Path) != ".js" || visited[imp.Path] {
			continue
		}
		visited[imp.Path] = true

		if chunkInfo, exists := p.metadata.Outputs[imp.Path]; exists {
			p.collectStyles(chunkInfo, styles, seen, visited)
		}
	}
}

func cond[T any](condition bool, trueVal, falseVal T) T {
	if condition {
		return trueVal
	}
	return falseVal
}
