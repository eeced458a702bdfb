// Package compress post-processes the generated HTML choropleth maps into
// gzip form so the web server can ship them pre-compressed. Stale .gz
// artifacts are cleared first; the HTML sources stay in place since the
// publisher copies the maps directory whole.
package compress

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"

	"rail-pipeline/internal/logger"
)

// Maps compresses every *.html file in dir to a sibling *.html.gz, removing
// all existing *.gz files in dir beforehand. Returns the number of files
// compressed. A missing maps directory is not an error; there is simply
// nothing to compress yet.
func Maps(dir string, dryRun bool) (int, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		logger.Warn("[WARN] Maps directory %s does not exist, skipping compression\n", dir)
		return 0, nil
	}

	// Clear stale compressed artifacts first so a renamed or deleted map
	// never leaves an orphaned .gz behind.
	stale, err := filepath.Glob(filepath.Join(dir, "*.gz"))
	if err != nil {
		return 0, fmt.Errorf("failed to glob stale archives in %s: %w", dir, err)
	}
	for _, path := range stale {
		if dryRun {
			logger.Info("[DRY-RUN] Would remove stale archive %s\n", path)
			continue
		}
		if err := os.Remove(path); err != nil {
			return 0, fmt.Errorf("failed to remove stale archive %s: %w", path, err)
		}
		logger.Debug("[DEBUG] Removed stale archive %s\n", path)
	}

	pages, err := filepath.Glob(filepath.Join(dir, "*.html"))
	if err != nil {
		return 0, fmt.Errorf("failed to glob maps in %s: %w", dir, err)
	}

	count := 0
	for _, page := range pages {
		if dryRun {
			logger.Info("[DRY-RUN] Would compress %s\n", page)
			count++
			continue
		}
		if err := gzipFile(page, page+".gz"); err != nil {
			return count, err
		}
		logger.Info("[INFO] Compressed %s\n", page)
		count++
	}
	return count, nil
}

// gzipFile writes a gzip copy of src to dst, keeping src in place.
func gzipFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}

	zw := gzip.NewWriter(out)
	zw.Name = filepath.Base(src)

	if _, err := io.Copy(zw, in); err != nil {
		_ = zw.Close()
		_ = out.Close()
		return fmt.Errorf("failed to compress %s: %w", src, err)
	}
	if err := zw.Close(); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to finalize %s: %w", dst, err)
	}
	return out.Close()
}
