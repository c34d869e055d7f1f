package commands

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/pagepack/internal/project"
)

func TestInitCmd_Run(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "demo")

	cmd := &InitCmd{
		Dir:              dir,
		Author:           "Jane Dev",
		ApplicationTypes: []string{"products"},
	}

	err := cmd.Run(context.Background(), &Globals{})
	require.NoError(t, err)

	// Verify scaffolded files
	require.FileExists(t, filepath.Join(dir, project.DefaultDescriptor))
	require.FileExists(t, filepath.Join(dir, "ui", "pages", "index.html"))
	require.FileExists(t, filepath.Join(dir, "ui", "pages", "settings.html"))
	require.FileExists(t, filepath.Join(dir, "ui", "src", "pages", "index.js"))
	require.FileExists(t, filepath.Join(dir, "ui", "src", "pages", "settings.js"))

	proj, err := project.Load(filepath.Join(dir, project.DefaultDescriptor))
	require.NoError(t, err)
	assert.Equal(t, "demo", proj.Name)
	assert.Equal(t, "demo", proj.PackageName)
	assert.Equal(t, "Jane Dev", proj.Author)
}

func TestInitCmd_DerivedNames(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Demo Extension")

	cmd := &InitCmd{
		Dir:    dir,
		Author: "Jane Dev",
	}

	err := cmd.Run(context.Background(), &Globals{})
	require.NoError(t, err)

	proj, err := project.Load(filepath.Join(dir, project.DefaultDescriptor))
	require.NoError(t, err)
	assert.Equal(t, "Demo Extension", proj.Name)
	assert.Equal(t, "demo_extension", proj.PackageName)
	assert.Equal(t, []string{"products"}, proj.ApplicationTypes)
}

func TestInitCmd_Duplicate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "demo")

	cmd := &InitCmd{
		Dir:              dir,
		Author:           "Jane Dev",
		ApplicationTypes: []string{"products"},
	}

	// First creation should succeed
	err := cmd.Run(context.Background(), &Globals{})
	require.NoError(t, err)

	// Try to create duplicate - should fail
	err = cmd.Run(context.Background(), &Globals{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already contains")
}
