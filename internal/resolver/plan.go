package resolver

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"regexp"
	"slices"

	"github.com/mr-tron/base58"
)

var (
	// ErrDuplicateModule indicates two pages in the active set derive the
	// same module identifier, which would overwrite output files
	ErrDuplicateModule = errors.New("duplicate module identifier")
	// ErrEntryMismatch indicates the entry map and the page directives
	// reference different module identifiers
	ErrEntryMismatch = errors.New("entry map and page directives out of sync")

	// versionQueryPattern matches the optional version suffix on font and
	// icon references, e.g. icons.woff2?v=1.2.3
	versionQueryPattern = regexp.MustCompile(`\?v=\d+\.\d+\.\d+$`)
)

// Entry maps one module identifier to the source script that builds its
// chunk. Entries are kept ordered to match the page set they derive from.
type Entry struct {
	Name   string `json:"name"`
	Source string `json:"source"`
}

// Output describes where and under which names compiled assets are written.
type Output struct {
	Dir        string `json:"dir"`
	EntryNames string `json:"entry_names"`
	ChunkNames string `json:"chunk_names"`
	AssetNames string `json:"asset_names"`
	Clean      bool   `json:"clean"`
}

// Handling names the processing strategy a rule routes its extensions to.
type Handling string

const (
	// HandlingExtract pulls matching files out of the script bundle into a
	// standalone file, minified along with the bundle.
	HandlingExtract Handling = "extract"
	// HandlingFile copies matching files to the rule's target directory,
	// preserving the base name.
	HandlingFile Handling = "file"
)

// Rule routes one class of file extensions to a handling strategy.
type Rule struct {
	Extensions []string `json:"extensions"`
	Handling   Handling `json:"handling"`
	TargetDir  string   `json:"target_dir,omitempty"`
}

// Matches reports whether name is routed by this rule. An optional
// ?v=d.d.d version suffix is ignored for matching.
func (r Rule) Matches(name string) bool {
	name = versionQueryPattern.ReplaceAllString(name, "")
	return slices.Contains(r.Extensions, path.Ext(name))
}

// DefaultRules returns the asset routing table: stylesheets are extracted
// and minified, font family assets are copied to fonts/ unhashed.
func DefaultRules() []Rule {
	return []Rule{
		{Extensions: []string{".css"}, Handling: HandlingExtract},
		{Extensions: []string{".woff", ".woff2", ".ttf", ".eot", ".svg"}, Handling: HandlingFile, TargetDir: "fonts"},
	}
}

// DirectiveKind names one class of post-compilation build step.
type DirectiveKind string

const (
	// DirectiveHTML emits one HTML entry point for a page.
	DirectiveHTML DirectiveKind = "html"
	// DirectiveCopy copies a static asset tree into the output directory.
	DirectiveCopy DirectiveKind = "copy"
	// DirectiveExtract declares stylesheet extraction, performed by the
	// bundler during compilation.
	DirectiveExtract DirectiveKind = "extract-css"
	// DirectiveLint runs the configured linter over the source tree.
	DirectiveLint DirectiveKind = "lint"
)

// Directive is one declared build step. Kind selects which of the optional
// fields apply.
type Directive struct {
	Kind DirectiveKind `json:"kind"`

	// html
	Title    string   `json:"title,omitempty"`
	Template string   `json:"template,omitempty"`
	Filename string   `json:"filename,omitempty"`
	Chunks   []string `json:"chunks,omitempty"`

	// copy
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`

	// lint
	Extensions []string `json:"extensions,omitempty"`
}

// Plan is the resolved build configuration handed to the bundler. It is
// immutable once resolved, a build consumes it without modifying it.
type Plan struct {
	Profile    Profile     `json:"profile"`
	Pages      []Page      `json:"pages"`
	Entries    []Entry     `json:"entries"`
	Output     Output      `json:"output"`
	Rules      []Rule      `json:"rules"`
	Splitting  bool        `json:"splitting"`
	Directives []Directive `json:"directives"`
	Banner     string      `json:"banner"`
	Minify     bool        `json:"minify"`
	SourceMap  bool        `json:"source_map"`
}

// RuleFor returns the first rule with the given handling strategy.
func (p *Plan) RuleFor(handling Handling) (Rule, bool) {
	for _, rule := range p.Rules {
		if rule.Handling == handling {
			return rule, true
		}
	}
	return Rule{}, false
}

// HTMLDirectives returns the page emission directives in plan order.
func (p *Plan) HTMLDirectives() []Directive {
	directives := make([]Directive, 0, len(p.Pages))
	for _, d := range p.Directives {
		if d.Kind == DirectiveHTML {
			directives = append(directives, d)
		}
	}
	return directives
}

// EntryFor returns the entry for a module identifier.
func (p *Plan) EntryFor(module string) (Entry, bool) {
	for _, entry := range p.Entries {
		if entry.Name == module {
			return entry, true
		}
	}
	return Entry{}, false
}

// Validate checks the internal consistency of the plan: module identifiers
// must be unique, every entry must correspond to exactly one page
// directive emitting exactly one chunk, and every entry source must carry
// the module identifier as its basename so the bundler names the chunk
// after it.
func (p *Plan) Validate() error {
	modules := make(map[string]bool, len(p.Pages))
	for _, page := range p.Pages {
		module := page.Module()
		if modules[module] {
			return fmt.Errorf("%w: %q", ErrDuplicateModule, module)
		}
		modules[module] = true
	}

	entries := make(map[string]bool, len(p.Entries))
	for _, entry := range p.Entries {
		if !modules[entry.Name] {
			return fmt.Errorf("%w: entry %q has no page", ErrEntryMismatch, entry.Name)
		}
		entries[entry.Name] = true

		base := path.Base(entry.Source)
		if stem := base[:len(base)-len(path.Ext(base))]; stem != entry.Name {
			return fmt.Errorf("%w: entry %q source basename %q must match the module identifier", ErrEntryMismatch, entry.Name, base)
		}
	}

	html := p.HTMLDirectives()
	if len(html) != len(p.Entries) {
		return fmt.Errorf("%w: %d entries but %d page directives", ErrEntryMismatch, len(p.Entries), len(html))
	}
	for _, d := range html {
		if len(d.Chunks) != 1 {
			return fmt.Errorf("%w: page directive %q must emit exactly one chunk", ErrEntryMismatch, d.Filename)
		}
		if !entries[d.Chunks[0]] {
			return fmt.Errorf("%w: page directive %q references unknown chunk %q", ErrEntryMismatch, d.Filename, d.Chunks[0])
		}
	}

	return nil
}

// Fingerprint returns a stable content fingerprint of the plan, the SHA-256
// of its canonical JSON encoding in Base58 form. Two resolutions with the
// same inputs produce the same fingerprint.
func (p *Plan) Fingerprint() string {
	data, _ := json.Marshal(p)
	hash := sha256.Sum256(data)
	return base58.Encode(hash[:])
}
