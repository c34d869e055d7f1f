package bundler

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/pagepack/internal/resolver"
)

// cleanDir removes and recreates the output directory.
func cleanDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// copyAssets copies a static asset tree into the output directory,
// preserving structure. A missing source directory fails the build.
func (p *Pipeline) copyAssets(d resolver.Directive) error {
	src := filepath.Join(p.projectDir, filepath.FromSlash(d.From))
	dst := filepath.Join(p.outDir(), filepath.FromSlash(d.To))

	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrMissingAssets, d.From)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrMissingAssets, d.From)
	}

	count := 0
	err = filepath.WalkDir(src, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if entry.IsDir() {
			return os.MkdirAll(target, 0755)
		}

		if err := copyFile(path, target); err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to copy %s: %w", d.From, err)
	}

	log.Info().Str("from", d.From).Str("to", d.To).Int("files", count).Msg("Copied static assets")
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}

	return out.Close()
}

var precompressExtensions = []string{".js", ".css", ".svg"}

// precompress writes a gzip sibling for every compressible output so a
// static file server can hand out precompressed responses.
func (p *Pipeline) precompress() error {
	return filepath.WalkDir(p.outDir(), func(path string, entry fs.DirEntry, err error) error {
		if err != nil || entry.IsDir() {
			return err
		}
		if !slices.Contains(precompressExtensions, filepath.Ext(path)) {
			return nil
		}
		return compressFile(path)
	})
}

func compressFile(path string) error {
	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer src.Close()

	srcInfo, err := src.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	originalSize := srcInfo.Size()

	gzPath := path + ".gz"
	dst, err := os.Create(gzPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", gzPath, err)
	}

	enc, err := gzip.NewWriterLevel(dst, gzip.BestCompression)
	if err != nil {
		dst.Close()
		os.Remove(gzPath)
		return fmt.Errorf("failed to create encoder: %w", err)
	}

	if _, err := io.Copy(enc, src); err != nil {
		enc.Close()
		dst.Close()
		os.Remove(gzPath)
		return fmt.Errorf("failed to compress %s: %w", path, err)
	}

	if err := enc.Close(); err != nil {
		dst.Close()
		os.Remove(gzPath)
		return fmt.Errorf("failed to close encoder: %w", err)
	}

	if err := dst.Close(); err != nil {
		os.Remove(gzPath)
		return fmt.Errorf("failed to close %s: %w", gzPath, err)
	}

	dstInfo, err := os.Stat(gzPath)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", gzPath, err)
	}
	compressedSize := dstInfo.Size()

	ratio := 0.0
	if originalSize > 0 {
		ratio = (1.0 - float64(compressedSize)/float64(originalSize)) * 100
	}

	log.Debug().
		Str("file", filepath.Base(path)).
		Int64("original_bytes", originalSize).
		Int64("compressed_bytes", compressedSize).
		Float64("compression_ratio_pct", ratio).
		Msg("Precompressed output")

	return nil
}
