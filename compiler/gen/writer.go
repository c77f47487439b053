package gen

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// WriterMetrics tracks generation work.
type WriterMetrics struct {
	FilesGenerated int
	TotalBytes     int64
	RenderTime     time.Duration
	WriteTime      time.Duration
}

// writer places rendered files under a directory.
type writer struct {
	dir     string
	ext     string
	dryRun  bool
	metrics *WriterMetrics
}

// path returns the file path of a model output. Relative outputs are
// joined onto the writer directory and outputs without an extension get
// the renderer's.
func (w *writer) path(output string) string {
	if filepath.Ext(output) == "" {
		output += w.ext
	}
	if filepath.IsAbs(output) {
		return filepath.Clean(output)
	}
	return filepath.Join(w.dir, output)
}

// write stores data at path, replacing any existing file.
func (w *writer) write(path string, data []byte) error {
	start := time.Now()
	defer func() { w.metrics.WriteTime += time.Since(start) }()
	if w.dryRun {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
