// Package cleaner deletes generated pipeline artifacts by category. Deletion
// is irreversible and prompts for nothing; the --dry-run toggle is the only
// safety net. Directory structure is always left intact so the next pipeline
// run does not have to recreate it.
package cleaner

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"rail-pipeline/internal/config"
	"rail-pipeline/internal/logger"
)

// PassOrder fixes the order in which cumulative flags are applied. Passes on
// files a previous pass already removed are harmless no-ops.
var PassOrder = []string{"-d", "-s", "-a", "-p1", "-p2"}

// Cleaner removes files under a single output root.
type Cleaner struct {
	Root   string // output root, e.g. "output"
	DryRun bool   // list would-be deletions instead of removing
}

// New returns a Cleaner over the given output root.
func New(root string, dryRun bool) *Cleaner {
	return &Cleaner{Root: root, DryRun: dryRun}
}

// Run executes the deletion passes selected by flags. With no flags every
// file under the output root is removed. Flags are cumulative and applied in
// PassOrder regardless of the order given. Returns the number of files
// removed (or that would be removed under dry-run).
func (c *Cleaner) Run(flags []string) (int, error) {
	if len(flags) == 0 {
		logger.Info("[INFO] Removing all files under %s\n", c.Root)
		return c.removeMatching(func(string) bool { return true })
	}

	requested := make(map[string]bool, len(flags))
	for _, f := range flags {
		requested[f] = true
	}

	total := 0
	for _, flag := range PassOrder {
		if !requested[flag] {
			continue
		}
		n, err := c.pass(flag)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// pass runs a single category deletion.
func (c *Cleaner) pass(flag string) (int, error) {
	dataDir := filepath.Join(c.Root, "data")

	switch flag {
	case "-d":
		// Bulk dataset files, keeping the protected station file.
		logger.Info("[INFO] Removing dataset files under %s\n", dataDir)
		return c.removeMatching(func(path string) bool {
			return underDir(path, dataDir) && filepath.Base(path) != config.StationFileName
		})
	case "-s":
		// Only the protected station file.
		station := filepath.Join(dataDir, config.StationFileName)
		logger.Info("[INFO] Removing station dataset %s\n", station)
		return c.removeMatching(func(path string) bool {
			return path == station
		})
	case "-a":
		// All analysis output: everything outside the data subtree,
		// phase subdirectories included.
		logger.Info("[INFO] Removing analysis output under %s\n", c.Root)
		return c.removeMatching(func(path string) bool {
			return !underDir(path, dataDir)
		})
	case "-p1":
		logger.Info("[INFO] Removing phase 1 results\n")
		return c.removeMatching(inPhase("phase_1"))
	case "-p2":
		logger.Info("[INFO] Removing phase 2 results\n")
		return c.removeMatching(inPhase("phase_2"))
	}

	// Unreachable when flags come through the validator.
	logger.Warn("[WARN] Ignoring unknown clean pass %s\n", flag)
	return 0, nil
}

// removeMatching walks the output tree and removes every regular file the
// predicate accepts. Directories are never removed. Removal failures are
// logged and skipped so one stubborn file does not abort the whole pass.
func (c *Cleaner) removeMatching(match func(path string) bool) (int, error) {
	count := 0
	err := filepath.WalkDir(c.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// A missing output root simply means there is nothing to clean.
			if path == c.Root && os.IsNotExist(err) {
				return filepath.SkipAll
			}
			return err
		}
		if d.IsDir() || !match(path) {
			return nil
		}

		if c.DryRun {
			logger.Info("[DRY-RUN] Would remove %s\n", path)
			count++
			return nil
		}

		if rmErr := os.Remove(path); rmErr != nil {
			logger.Error("[ERROR] Failed to remove %s: %v\n", path, rmErr)
			return nil
		}
		logger.Debug("[DEBUG] Removed %s\n", path)
		count++
		return nil
	})
	return count, err
}

// underDir reports whether path sits inside dir.
func underDir(path, dir string) bool {
	return strings.HasPrefix(path, dir+string(os.PathSeparator))
}

// inPhase matches files whose path contains the given phase directory.
func inPhase(phase string) func(string) bool {
	needle := "/" + phase + "/"
	return func(path string) bool {
		return strings.Contains(filepath.ToSlash(path), needle)
	}
}
