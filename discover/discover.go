package discover

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrNotFound is returned by Find when no module matches the name.
	ErrNotFound = errors.New("discover: module not found")
)

// DefaultMaxDepth bounds how deep a scan descends below each root.
const DefaultMaxDepth = 4

// Module is one discovered module directory.
type Module struct {
	Name string `json:"name"` // directory base name
	Path string `json:"path"` // cleaned directory path
}

// List scans every root concurrently and returns the discovered modules,
// deduplicated by path and sorted by name then path. Missing roots are
// skipped; roots are advisory, not required to exist.
func List(ctx context.Context, roots []string) ([]Module, error) {
	g, ctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	var found []Module

	for _, root := range roots {
		root := root
		g.Go(func() error {
			mods, err := scanRoot(ctx, root)
			if err != nil {
				return err
			}
			mu.Lock()
			found = append(found, mods...)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(found))
	out := found[:0]
	for _, m := range found {
		if seen[m.Path] {
			continue
		}
		seen[m.Path] = true
		out = append(out, m)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Path < out[j].Path
	})

	return out, nil
}

// Find returns the first module whose name matches. Matching is exact
// and case-sensitive; directory names are identifiers, not search terms.
func Find(ctx context.Context, roots []string, name string) (Module, error) {
	mods, err := List(ctx, roots)
	if err != nil {
		return Module{}, err
	}
	for _, m := range mods {
		if m.Name == name {
			return m, nil
		}
	}
	return Module{}, ErrNotFound
}

// scanRoot walks one root looking for go.mod files. Vendor trees, hidden
// directories, and testdata are not descended into.
func scanRoot(ctx context.Context, root string) ([]Module, error) {
	root = filepath.Clean(root)

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, nil
	}

	baseDepth := strings.Count(root, string(os.PathSeparator))

	var mods []Module
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, ".") || name == "vendor" || name == "testdata" || strings.HasPrefix(name, "_")) {
				return fs.SkipDir
			}
			depth := strings.Count(path, string(os.PathSeparator)) - baseDepth
			if depth > DefaultMaxDepth {
				return fs.SkipDir
			}
			return nil
		}

		if d.Name() == "go.mod" {
			dir := filepath.Dir(path)
			mods = append(mods, Module{Name: filepath.Base(dir), Path: dir})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return mods, nil
}
