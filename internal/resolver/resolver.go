package resolver

import (
	"fmt"
	"path"

	"github.com/wolfeidau/pagepack/internal/project"
)

const (
	defaultEntryNames = "[name].[hash]"
	defaultChunkNames = "vendors-[hash]"
	defaultAssetNames = "fonts/[name]"
)

// Resolve produces the build plan for a project descriptor. The pass is
// pure: the profile is selected once from the application type set, the
// page set follows from the profile, and the entry map and directive list
// are derived from the page set.
func Resolve(p *project.Project) (*Plan, error) {
	profile := ProfileFor(p.ApplicationTypes)
	pages := PagesFor(profile)

	plan := &Plan{
		Profile: profile,
		Pages:   pages,
		Entries: entriesFor(pages),
		Output: Output{
			Dir:        path.Join(p.PackageName, "static"),
			EntryNames: defaultEntryNames,
			ChunkNames: defaultChunkNames,
			AssetNames: defaultAssetNames,
			Clean:      true,
		},
		Rules:      DefaultRules(),
		Splitting:  true,
		Directives: directivesFor(pages),
		Banner:     licenseBanner(p.Author, p.Year),
		Minify:     p.Build.Minify,
		SourceMap:  p.Build.SourceMap,
	}

	if err := plan.Validate(); err != nil {
		return nil, err
	}

	return plan, nil
}

func entriesFor(pages []Page) []Entry {
	entries := make([]Entry, 0, len(pages))
	for _, page := range pages {
		entries = append(entries, Entry{Name: page.Module(), Source: page.Source})
	}
	return entries
}

// directivesFor assembles the directive list: one HTML directive per page
// in page order, then the static image copy, stylesheet extraction, and
// the lint run. Composition is fixed, only the page directives vary with
// the profile.
func directivesFor(pages []Page) []Directive {
	directives := make([]Directive, 0, len(pages)+3)
	for _, page := range pages {
		directives = append(directives, Directive{
			Kind:     DirectiveHTML,
			Title:    page.Title,
			Template: page.Template(),
			Filename: page.OutputHTML(),
			Chunks:   []string{page.Module()},
		})
	}

	directives = append(directives,
		Directive{Kind: DirectiveCopy, From: "ui/images", To: "images"},
		Directive{Kind: DirectiveExtract},
		Directive{Kind: DirectiveLint, Extensions: []string{".js"}},
	)

	return directives
}

// licenseBanner renders the license header prepended to emitted scripts
// and stylesheets. The comment form survives minification.
func licenseBanner(author string, year int) string {
	return fmt.Sprintf("/*!\nCopyright (c) %d, %s\nAll rights reserved.\n*/", year, author)
}
