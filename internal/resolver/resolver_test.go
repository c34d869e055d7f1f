package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/pagepack/internal/project"
)

func testProject(applicationTypes ...string) *project.Project {
	p := project.Defaults()
	p.Name = "Demo Extension"
	p.PackageName = "demo_ext"
	p.Author = "Jane Dev"
	p.Year = 2026
	p.ApplicationTypes = applicationTypes
	return &p
}

func TestProfileFor(t *testing.T) {
	tests := []struct {
		name     string
		types    []string
		expected Profile
	}{
		{
			name:     "marker alone",
			types:    []string{"transformations"},
			expected: ProfileTransformations,
		},
		{
			name:     "marker among other tags",
			types:    []string{"events", "transformations", "products"},
			expected: ProfileTransformations,
		},
		{
			name:     "marker absent",
			types:    []string{"events", "products"},
			expected: ProfileMultiAccount,
		},
		{
			name:     "matching is case sensitive",
			types:    []string{"Transformations"},
			expected: ProfileMultiAccount,
		},
		{
			name:     "no partial match",
			types:    []string{"transformations-extra"},
			expected: ProfileMultiAccount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ProfileFor(tt.types))
		})
	}
}

func TestPagesFor(t *testing.T) {
	transformations := PagesFor(ProfileTransformations)
	require.Len(t, transformations, 2)
	assert.Equal(t, "Transformations/Copy", transformations[0].Title)
	assert.Equal(t, "ui/src/pages/transformations/copy.js", transformations[0].Source)
	assert.Equal(t, "Transformations/Manual", transformations[1].Title)
	assert.Equal(t, "ui/src/pages/transformations/manual.js", transformations[1].Source)

	multiAccount := PagesFor(ProfileMultiAccount)
	require.Len(t, multiAccount, 2)
	assert.Equal(t, "Index", multiAccount[0].Title)
	assert.Equal(t, "ui/src/pages/index.js", multiAccount[0].Source)
	assert.Equal(t, "Settings", multiAccount[1].Title)
	assert.Equal(t, "ui/src/pages/settings.js", multiAccount[1].Source)
}

func TestPage_Module(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		expected string
	}{
		{name: "grouped title uses final segment", title: "Transformations/Copy", expected: "copy"},
		{name: "plain title", title: "Settings", expected: "settings"},
		{name: "already lowercase", title: "index", expected: "index"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := Page{Title: tt.title}
			assert.Equal(t, tt.expected, page.Module())
		})
	}
}

func TestPage_DerivedPaths(t *testing.T) {
	page := Page{Title: "Transformations/Manual", Source: "ui/src/pages/transformations/manual.js"}
	assert.Equal(t, "ui/pages/manual.html", page.Template())
	assert.Equal(t, "manual.html", page.OutputHTML())
}

func TestResolve_TransformationsProfile(t *testing.T) {
	plan, err := Resolve(testProject("events", "transformations"))
	require.NoError(t, err)

	assert.Equal(t, ProfileTransformations, plan.Profile)

	html := plan.HTMLDirectives()
	require.Len(t, html, 2)
	assert.Equal(t, "copy.html", html[0].Filename)
	assert.Equal(t, []string{"copy"}, html[0].Chunks)
	assert.Equal(t, "ui/pages/copy.html", html[0].Template)
	assert.Equal(t, "Transformations/Copy", html[0].Title)
	assert.Equal(t, "manual.html", html[1].Filename)
	assert.Equal(t, []string{"manual"}, html[1].Chunks)

	require.Len(t, plan.Entries, 2)
	assert.Equal(t, Entry{Name: "copy", Source: "ui/src/pages/transformations/copy.js"}, plan.Entries[0])
	assert.Equal(t, Entry{Name: "manual", Source: "ui/src/pages/transformations/manual.js"}, plan.Entries[1])
}

func TestResolve_MultiAccountProfile(t *testing.T) {
	plan, err := Resolve(testProject("products"))
	require.NoError(t, err)

	assert.Equal(t, ProfileMultiAccount, plan.Profile)

	html := plan.HTMLDirectives()
	require.Len(t, html, 2)
	assert.Equal(t, "index.html", html[0].Filename)
	assert.Equal(t, []string{"index"}, html[0].Chunks)
	assert.Equal(t, "settings.html", html[1].Filename)
	assert.Equal(t, []string{"settings"}, html[1].Chunks)

	require.Len(t, plan.Entries, 2)
	assert.Equal(t, "index", plan.Entries[0].Name)
	assert.Equal(t, "settings", plan.Entries[1].Name)
}

func TestResolve_OutputDirIndependentOfProfile(t *testing.T) {
	for _, types := range [][]string{{"transformations"}, {"products"}} {
		plan, err := Resolve(testProject(types...))
		require.NoError(t, err)
		assert.Equal(t, "demo_ext/static", plan.Output.Dir)
		assert.True(t, plan.Output.Clean)
		assert.Equal(t, "[name].[hash]", plan.Output.EntryNames)
		assert.Equal(t, "fonts/[name]", plan.Output.AssetNames)
	}
}

func TestResolve_DirectiveOrder(t *testing.T) {
	plan, err := Resolve(testProject("transformations"))
	require.NoError(t, err)

	require.Len(t, plan.Directives, 5)
	assert.Equal(t, DirectiveHTML, plan.Directives[0].Kind)
	assert.Equal(t, DirectiveHTML, plan.Directives[1].Kind)
	assert.Equal(t, DirectiveCopy, plan.Directives[2].Kind)
	assert.Equal(t, DirectiveExtract, plan.Directives[3].Kind)
	assert.Equal(t, DirectiveLint, plan.Directives[4].Kind)

	copyDirective := plan.Directives[2]
	assert.Equal(t, "ui/images", copyDirective.From)
	assert.Equal(t, "images", copyDirective.To)

	lintDirective := plan.Directives[4]
	assert.Equal(t, []string{".js"}, lintDirective.Extensions)
}

func TestResolve_EntriesMatchDirectives(t *testing.T) {
	for _, types := range [][]string{{"transformations"}, {"products"}} {
		plan, err := Resolve(testProject(types...))
		require.NoError(t, err)

		entryNames := make(map[string]bool)
		for _, entry := range plan.Entries {
			entryNames[entry.Name] = true
		}

		chunks := make(map[string]bool)
		for _, d := range plan.HTMLDirectives() {
			require.Len(t, d.Chunks, 1)
			chunks[d.Chunks[0]] = true
		}

		assert.Equal(t, entryNames, chunks)
	}
}

func TestResolve_Banner(t *testing.T) {
	plan, err := Resolve(testProject("products"))
	require.NoError(t, err)

	assert.Contains(t, plan.Banner, "Copyright (c) 2026, Jane Dev")
	assert.Contains(t, plan.Banner, "All rights reserved.")
}

func TestResolve_BuildKnobsCarried(t *testing.T) {
	p := testProject("products")
	p.Build.Minify = false
	p.Build.SourceMap = true

	plan, err := Resolve(p)
	require.NoError(t, err)

	assert.False(t, plan.Minify)
	assert.True(t, plan.SourceMap)
	assert.True(t, plan.Splitting)
}

func TestPlan_FingerprintStable(t *testing.T) {
	first, err := Resolve(testProject("transformations"))
	require.NoError(t, err)
	second, err := Resolve(testProject("transformations"))
	require.NoError(t, err)

	assert.Equal(t, first.Fingerprint(), second.Fingerprint())
	assert.NotEmpty(t, first.Fingerprint())
}

func TestPlan_FingerprintTracksInputs(t *testing.T) {
	base, err := Resolve(testProject("transformations"))
	require.NoError(t, err)

	otherProfile, err := Resolve(testProject("products"))
	require.NoError(t, err)
	assert.NotEqual(t, base.Fingerprint(), otherProfile.Fingerprint())

	renamed := testProject("transformations")
	renamed.PackageName = "other_ext"
	otherPackage, err := Resolve(renamed)
	require.NoError(t, err)
	assert.NotEqual(t, base.Fingerprint(), otherPackage.Fingerprint())
}
