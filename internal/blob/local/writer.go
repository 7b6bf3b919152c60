// Package localblob delivers export artifacts to a directory on disk.
package localblob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alanyoungcy/marketdash/internal/domain"
)

// Writer implements domain.FileDelivery by writing artifacts into Dir.
type Writer struct {
	dir string
}

var _ domain.FileDelivery = (*Writer)(nil)

// NewWriter creates a Writer rooted at dir. The directory is created on the
// first delivery.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Deliver writes the artifact to a temporary file next to its final name and
// renames it into place, so readers never see a partial export. It returns
// the absolute path of the written file.
func (w *Writer) Deliver(ctx context.Context, artifact domain.ExportArtifact) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name := filepath.Base(artifact.Filename)
	if name == "." || name == string(filepath.Separator) || name != artifact.Filename {
		return "", fmt.Errorf("localblob: invalid filename %q", artifact.Filename)
	}

	if err := os.MkdirAll(w.dir, 0o750); err != nil {
		return "", fmt.Errorf("localblob: create dir %s: %w", w.dir, err)
	}

	dst, err := filepath.Abs(filepath.Join(w.dir, name))
	if err != nil {
		return "", fmt.Errorf("localblob: resolve path: %w", err)
	}

	tmp, err := os.CreateTemp(w.dir, "."+name+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("localblob: create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(artifact.Data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("localblob: write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("localblob: close %s: %w", name, err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("localblob: chmod %s: %w", name, err)
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("localblob: rename %s: %w", name, err)
	}
	return dst, nil
}
