package ops

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"idmark/internal/errors"
)

// ResolvePaths expands the given paths into individual file paths.
// Files pass through as-is; directories are expanded (recursively when
// asked) with their contents in sorted order, so a batch always visits
// files in a fixed, reproducible order. Paths that are neither file nor
// directory yield a warning.
func ResolvePaths(paths []string, recursive bool) ([]string, []Warning) {
	var files []string
	var warnings []Warning
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			warnings = append(warnings, warningFor(path, errors.NewIO(path, err)))
			continue
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		expanded, err := expandDir(path, recursive)
		if err != nil {
			warnings = append(warnings, warningFor(path, errors.NewIO(path, err)))
			continue
		}
		files = append(files, expanded...)
	}
	return files, warnings
}

// ResolveSourcePaths is ResolvePaths minus previously generated
// annotated copies.
func ResolveSourcePaths(paths []string, recursive bool) ([]string, []Warning) {
	files, warnings := ResolvePaths(paths, recursive)
	sources := files[:0]
	for _, f := range files {
		if !strings.HasSuffix(f, AnnotatedSuffix) {
			sources = append(sources, f)
		}
	}
	return sources, warnings
}

func expandDir(dir string, recursive bool) ([]string, error) {
	var files []string
	if recursive {
		// WalkDir visits entries in lexical order.
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				files = append(files, path)
			}
			return nil
		})
		return files, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if !e.IsDir() {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
