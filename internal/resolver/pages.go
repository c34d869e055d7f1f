// Package resolver turns project parameters into a build plan: the active
// page set, the entry map derived from it, output naming, asset routing
// rules, and the ordered directive list the bundler executes after
// compilation. Resolution is a single pure pass, evaluated once per build.
package resolver

import (
	"path"
	"slices"
	"strings"
)

// markerTag selects the transformations page set when present in the
// application type set. Matching is exact and case sensitive.
const markerTag = "transformations"

const pagesDir = "ui/pages"

// Profile is the application shape selected from the application type set.
// Exactly one profile is active per resolution.
type Profile string

const (
	// ProfileTransformations is selected when the marker tag is present.
	ProfileTransformations Profile = "transformations"
	// ProfileMultiAccount is the default profile for every other type set.
	ProfileMultiAccount Profile = "multiaccount"
)

// ProfileFor maps an application type set to its profile.
func ProfileFor(applicationTypes []string) Profile {
	if slices.Contains(applicationTypes, markerTag) {
		return ProfileTransformations
	}
	return ProfileMultiAccount
}

// Page is one UI page of the active set: a display title, optionally
// carrying a grouping prefix in Group/Name form, and the entry script that
// builds its bundle. Everything else about the page is derived from these
// two fields.
type Page struct {
	Title  string `json:"title"`
	Source string `json:"source"`
}

// Module returns the module identifier for the page, the lowercase form of
// the final segment of the title. The identifier keys the entry map, the
// emitted chunk, and the output HTML filename.
func (p Page) Module() string {
	title := p.Title
	if idx := strings.LastIndex(title, "/"); idx != -1 {
		title = title[idx+1:]
	}
	return strings.ToLower(title)
}

// Template returns the page template path under the fixed pages directory.
func (p Page) Template() string {
	return path.Join(pagesDir, p.Module()+".html")
}

// OutputHTML returns the filename of the emitted HTML entry point.
func (p Page) OutputHTML() string {
	return p.Module() + ".html"
}

// PagesFor returns the ordered page set for a profile. The two sets are
// mutually exclusive, one of them is always returned.
func PagesFor(profile Profile) []Page {
	if profile == ProfileTransformations {
		return []Page{
			{Title: "Transformations/Copy", Source: "ui/src/pages/transformations/copy.js"},
			{Title: "Transformations/Manual", Source: "ui/src/pages/transformations/manual.js"},
		}
	}
	return []Page{
		{Title: "Index", Source: "ui/src/pages/index.js"},
		{Title: "Settings", Source: "ui/src/pages/settings.js"},
	}
}
