// Package scaffold creates a new extension UI project: the descriptor
// plus the ui tree the resolved plan expects, page templates, entry
// scripts, a starter stylesheet and an image placeholder.
package scaffold

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wolfeidau/pagepack/internal/project"
	"github.com/wolfeidau/pagepack/internal/resolver"
)

// ErrProjectExists indicates the target directory already holds a descriptor
var ErrProjectExists = errors.New("project descriptor already exists")

// Options are the parameters of a new project.
type Options struct {
	Dir              string
	Name             string
	PackageName      string
	Author           string
	ApplicationTypes []string
}

// Result describes what was scaffolded.
type Result struct {
	Profile resolver.Profile
	Pages   []resolver.Page
	Files   []string
}

type file struct {
	path    string
	content string
}

// Create scaffolds a project in opts.Dir. It refuses to overwrite an
// existing descriptor.
func Create(opts Options) (*Result, error) {
	descriptorPath := filepath.Join(opts.Dir, project.DefaultDescriptor)
	if _, err := os.Stat(descriptorPath); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrProjectExists, descriptorPath)
	}

	p := project.Defaults()
	p.Name = opts.Name
	p.PackageName = opts.PackageName
	p.Author = opts.Author
	p.ApplicationTypes = opts.ApplicationTypes

	if err := p.Validate(); err != nil {
		return nil, err
	}

	profile := resolver.ProfileFor(p.ApplicationTypes)
	pages := resolver.PagesFor(profile)

	files := []file{
		{path: "ui/src/styles/main.css", content: stylesTemplate},
		{path: "ui/images/logo.svg", content: logoTemplate},
		{path: ".eslintrc.json", content: eslintTemplate},
		{path: "package.json", content: renderPackageJSON(p.PackageName)},
	}
	for _, page := range pages {
		files = append(files,
			file{path: page.Template(), content: pageTemplate},
			file{path: page.Source, content: renderEntry(page)},
		)
	}

	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create project directory: %w", err)
	}

	result := &Result{Profile: profile, Pages: pages}
	for _, f := range files {
		target := filepath.Join(opts.Dir, filepath.FromSlash(f.path))
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", f.path, err)
		}
		if err := os.WriteFile(target, []byte(f.content), 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", f.path, err)
		}
		result.Files = append(result.Files, f.path)
	}

	if err := p.Save(descriptorPath); err != nil {
		return nil, err
	}
	result.Files = append(result.Files, project.DefaultDescriptor)

	return result, nil
}

// PackageName derives a descriptor-safe package name from a project name.
func PackageName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('_')
		}
	}

	out := strings.Trim(b.String(), "_")
	if out == "" || out[0] >= '0' && out[0] <= '9' {
		out = "ext_" + out
	}
	return out
}

// renderEntry produces the starter script for a page, importing the
// shared stylesheet through the correct relative path for its depth.
func renderEntry(page resolver.Page) string {
	rel, err := filepath.Rel(filepath.Dir(filepath.FromSlash(page.Source)), filepath.Join("ui", "src", "styles", "main.css"))
	if err != nil {
		rel = filepath.Join("..", "styles", "main.css")
	}

	return fmt.Sprintf("import %q;\n\nconst app = document.querySelector(\"#app\");\napp.textContent = %q;\n",
		filepath.ToSlash(rel), page.Title)
}

func renderPackageJSON(packageName string) string {
	return fmt.Sprintf(`{
  "name": %q,
  "private": true,
  "devDependencies": {
    "eslint": "^8.57.0"
  }
}
`, strings.ReplaceAll(packageName, "_", "-"))
}
