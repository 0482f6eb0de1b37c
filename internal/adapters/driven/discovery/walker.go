package discovery

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/papergrep-cli/internal/core/ports/driven"
	"github.com/custodia-labs/papergrep-cli/internal/logger"
)

// Ensure Walker implements the interface.
var _ driven.FileDiscovery = (*Walker)(nil)

// Walker finds PDF files by walking a directory tree. Directory
// symlinks are followed, with a visited set guarding against cycles.
// Unreadable subdirectories are logged and skipped so one bad
// permission bit does not hide the rest of the corpus.
type Walker struct{}

// NewWalker creates a new filesystem walker.
func NewWalker() *Walker {
	return &Walker{}
}

// FindPDFs walks root recursively and returns every file with a .pdf
// extension, matched case-insensitively. The root itself must be
// readable; only failures below it are tolerated.
func (w *Walker) FindPDFs(ctx context.Context, root string) ([]string, error) {
	resolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", root, err)
	}

	visited := map[string]struct{}{}
	files := []string{}
	if err := w.walk(ctx, resolved, visited, &files); err != nil {
		return nil, err
	}
	return files, nil
}

// walk recurses into dir, appending PDF paths to files. Only the
// errors of dir itself propagate; subdirectory failures are absorbed.
func (w *Walker) walk(ctx context.Context, dir string, visited map[string]struct{}, files *[]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, seen := visited[dir]; seen {
		return nil
	}
	visited[dir] = struct{}{}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		target, isDir, err := classify(path, entry)
		if err != nil {
			logger.Warn("Skipping %s: %v", path, err)
			continue
		}

		if isDir {
			if err := w.walk(ctx, target, visited, files); err != nil {
				if ctx.Err() != nil {
					return err
				}
				logger.Warn("Skipping %s: %v", path, err)
			}
			continue
		}

		if strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			*files = append(*files, path)
		}
	}

	return nil
}

// classify resolves an entry to its target path and kind, following
// symlinks one level.
func classify(path string, entry fs.DirEntry) (string, bool, error) {
	if entry.Type()&fs.ModeSymlink == 0 {
		return path, entry.IsDir(), nil
	}

	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", false, err
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return "", false, err
	}
	return resolved, info.IsDir(), nil
}
