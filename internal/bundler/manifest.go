package bundler

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/crc64nvme"
	"github.com/rs/zerolog/log"
)

// ManifestName is the manifest filename written into the output directory.
const ManifestName = "manifest.json"

// Manifest records one build: its identifier, the plan fingerprint, every
// output with size and checksum, and the per page script and style lists.
type Manifest struct {
	BuildID     string                `json:"build_id"`
	Fingerprint string                `json:"fingerprint"`
	BuiltAt     time.Time             `json:"built_at"`
	Outputs     []ManifestOutput      `json:"outputs"`
	Pages       map[string]PageAssets `json:"pages"`
}

// ManifestOutput is one file in the output directory.
type ManifestOutput struct {
	Path     string `json:"path"`
	Bytes    int64  `json:"bytes"`
	Checksum string `json:"checksum"`
}

// PageAssets lists the assets a page references, in injection order.
type PageAssets struct {
	Scripts []string `json:"scripts"`
	Styles  []string `json:"styles"`
}

// writeManifest indexes the output directory and writes the manifest
// atomically. Callers hold the write lock.
func (p *Pipeline) writeManifest() error {
	outDir := p.outDir()

	manifest := Manifest{
		BuildID:     p.buildID,
		Fingerprint: p.plan.Fingerprint(),
		BuiltAt:     time.Now().UTC(),
		Pages:       make(map[string]PageAssets, len(p.plan.Entries)),
	}

	for _, entry := range p.plan.Entries {
		scripts, err := p.scriptsFor(entry.Name)
		if err != nil {
			return err
		}
		styles, err := p.stylesFor(entry.Name)
		if err != nil {
			return err
		}
		manifest.Pages[entry.Name] = PageAssets{Scripts: scripts, Styles: styles}
	}

	err := filepath.WalkDir(outDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil || entry.IsDir() {
			return err
		}
		if entry.Name() == ManifestName || strings.HasSuffix(path, ".gz") || strings.HasSuffix(path, ".tmp") {
			return nil
		}

		rel, err := filepath.Rel(outDir, path)
		if err != nil {
			return err
		}

		output, err := manifestOutput(path, filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		manifest.Outputs = append(manifest.Outputs, output)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to index outputs: %w", err)
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	// Write to temp file first
	manifestPath := filepath.Join(outDir, ManifestName)
	tempPath := manifestPath + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tempPath, manifestPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to save manifest: %w", err)
	}

	log.Info().
		Str("build_id", p.buildID).
		Int("outputs", len(manifest.Outputs)).
		Msg("Wrote build manifest")

	return nil
}

// manifestOutput computes the size and CRC64-NVME checksum of one output.
func manifestOutput(path, rel string) (ManifestOutput, error) {
	f, err := os.Open(path)
	if err != nil {
		return ManifestOutput{}, fmt.Errorf("failed to open %s: %w", rel, err)
	}
	defer f.Close()

	h := crc64nvme.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return ManifestOutput{}, fmt.Errorf("failed to checksum %s: %w", rel, err)
	}

	return ManifestOutput{
		Path:     rel,
		Bytes:    n,
		Checksum: fmt.Sprintf("%016x", h.Sum64()),
	}, nil
}

// ReadManifest loads a manifest from the output directory.
func ReadManifest(outDir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(outDir, ManifestName))
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	return &manifest, nil
}
