// Package manifest provides example interfaces for consuming the build
// manifest emitted alongside the bundled pages. This is a reference
// sketch showing the contract a hosting backend would implement.
package manifest

import (
	"context"
)

// AssetIndex resolves page assets from a build manifest so a backend can
// render or redirect to hashed filenames without scanning the directory.
type AssetIndex interface {
	// ScriptsFor returns the ordered script paths for a page module,
	// entry bundle first followed by its shared chunks
	ScriptsFor(module string) ([]string, error)

	// StylesFor returns the ordered stylesheet paths for a page module
	StylesFor(module string) ([]string, error)

	// Verify recomputes output checksums against the manifest
	// Returns error naming the first mismatching path
	Verify(ctx context.Context, dir string) error
}

// Reloader watches for a new build manifest and swaps the index.
// This interface decouples manifest consumption from how rebuilds are
// detected (file watch, poll, push).
type Reloader interface {
	// Load reads the manifest in dir and returns a fresh index
	Load(ctx context.Context, dir string) (AssetIndex, error)

	// Watch invokes onSwap each time a new build id appears
	// Blocks until the context is cancelled
	Watch(ctx context.Context, dir string, onSwap func(AssetIndex)) error
}

// IndexConfig configures manifest consumption.
type IndexConfig struct {
	// Dir is the built output directory containing manifest.json
	Dir string

	// VerifyChecksums recomputes CRC64-NVME checksums at load time
	VerifyChecksums bool

	// PollInterval is how often Watch checks for a new build id when
	// file notifications are unavailable
	PollIntervalSeconds int
}
