package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Writer writes artifacts into an output directory, creating it on
// first use.
type Writer struct {
	dir string
}

// NewWriter creates a writer for dir.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Dir returns the output directory.
func (w *Writer) Dir() string {
	return w.dir
}

// Write persists a and fills in a.Path. The file name is derived from
// ts and the artifact kind.
func (w *Writer) Write(a *Artifact, ts time.Time) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	path := uniquePath(filepath.Join(w.dir, a.Kind.Filename(ts)))
	if err := os.WriteFile(path, []byte(a.Text), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", a.Kind, err)
	}

	a.Path = path
	return nil
}

// uniquePath returns path if nothing exists there, otherwise the first
// "name_2.ext", "name_3.ext", ... that is free. Second-granularity
// timestamps collide when two runs finish within the same second; the
// later run must not overwrite the earlier artifact.
func uniquePath(path string) string {
	if _, err := os.Stat(path); err != nil {
		return path
	}

	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, n, ext)
		if _, err := os.Stat(candidate); err != nil {
			return candidate
		}
	}
}
