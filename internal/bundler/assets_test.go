package bundler

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/pagepack/internal/resolver"
)

func TestCleanDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	writeFile(t, filepath.Join(dir, "stale.js"), "stale")

	require.NoError(t, cleanDir(dir))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCopyAssets_PreservesStructure(t *testing.T) {
	dir, plan := fixtureProject(t, "products")
	writeFile(t, filepath.Join(dir, "ui", "images", "icons", "check.svg"), "<svg></svg>")

	pipeline := newTestPipeline(t, dir, plan)
	require.NoError(t, pipeline.Build(context.Background()))

	outDir := filepath.Join(dir, "demo_ext", "static")
	_, err := os.Stat(filepath.Join(outDir, "images", "logo.svg"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(outDir, "images", "icons", "check.svg"))
	require.NoError(t, err)
}

func TestCompressFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bundle.js")
	content := "const answer = 42;\nconsole.log(answer);\n"
	writeFile(t, path, content)

	require.NoError(t, compressFile(path))

	f, err := os.Open(path + ".gz")
	require.NoError(t, err)
	defer f.Close()

	r, err := gzip.NewReader(f)
	require.NoError(t, err)
	defer r.Close()

	decompressed, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, content, string(decompressed))
}

func TestPipeline_Build_Precompress(t *testing.T) {
	dir, plan := fixtureProject(t, "products")

	pipeline, err := New(plan, Options{ProjectDir: dir, SkipLint: true, Precompress: true})
	require.NoError(t, err)
	require.NoError(t, pipeline.Build(context.Background()))

	outDir := filepath.Join(dir, "demo_ext", "static")
	globOne(t, filepath.Join(outDir, "index.*.js.gz"))
	globOne(t, filepath.Join(outDir, "index.*.css.gz"))

	// Compressed siblings stay out of the manifest
	manifest, err := ReadManifest(outDir)
	require.NoError(t, err)
	for _, output := range manifest.Outputs {
		assert.NotEqual(t, ".gz", filepath.Ext(output.Path))
	}
}

func TestRunDirective_Unknown(t *testing.T) {
	dir, plan := fixtureProject(t, "products")
	pipeline := newTestPipeline(t, dir, plan)

	err := pipeline.runDirective(context.Background(), resolver.Directive{Kind: "bogus"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown directive")
}
