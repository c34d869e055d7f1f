package bundler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/pagepack/internal/resolver"
)

// emitPage renders one page template into the output directory with the
// script and style tags for its chunk injected.
func (p *Pipeline) emitPage(d resolver.Directive) error {
	module := d.Chunks[0]

	scripts, err := p.scriptsFor(module)
	if err != nil {
		return fmt.Errorf("failed to collect scripts for %q: %w", module, err)
	}

	styles, err := p.stylesFor(module)
	if err != nil {
		return fmt.Errorf("failed to collect styles for %q: %w", module, err)
	}

	templatePath := filepath.Join(p.projectDir, filepath.FromSlash(d.Template))
	tmpl, err := template.New(filepath.Base(templatePath)).Funcs(templateFuncs()).ParseFiles(templatePath)
	if err != nil {
		return fmt.Errorf("failed to parse page template %s: %w", d.Template, err)
	}

	outputPath := filepath.Join(p.outDir(), d.Filename)
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", d.Filename, err)
	}
	defer f.Close()

	data := map[string]any{
		"Title":   d.Title,
		"Scripts": scripts,
		"Styles":  styles,
	}

	if err := tmpl.ExecuteTemplate(f, filepath.Base(templatePath), data); err != nil {
		return fmt.Errorf("failed to render %s: %w", d.Filename, err)
	}

	log.Info().
		Str("page", d.Filename).
		Int("scripts", len(scripts)).
		Int("styles", len(styles)).
		Msg("Emitted page")

	return nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"marshal": marshal,
		"safe": func(s string) template.HTML {
			return template.HTML(s) //nolint:gosec
		},
	}
}

func marshal(value any) string {
	buf := new(bytes.Buffer)

	if err := json.NewEncoder(buf).Encode(value); err != nil {
		panic(errors.New("template data must be json serializable"))
	}

	return buf.String()
}
