package ops

import (
	"os"
	"strings"

	"idmark/internal/errors"
)

// CleanInput contains parameters for the Clean operation.
type CleanInput struct {
	Paths     []string
	Recursive bool
}

// CleanOutput summarizes a Clean run.
type CleanOutput struct {
	Removed  int       `json:"removed"`
	Warnings []Warning `json:"warnings,omitempty"`
}

// Clean removes previously generated annotated copies. A file argument
// removes its sibling copy if present; a directory argument removes every
// *.annotated file inside it, recursively when asked. Source files are
// never touched.
func Clean(input CleanInput) (*CleanOutput, error) {
	out := &CleanOutput{}
	for _, path := range input.Paths {
		info, err := os.Stat(path)
		if err != nil {
			out.Warnings = append(out.Warnings, warningFor(path, errors.NewIO(path, err)))
			continue
		}
		if !info.IsDir() {
			target := path
			if !strings.HasSuffix(target, AnnotatedSuffix) {
				target = path + AnnotatedSuffix
			}
			if removed, warn := removeIfPresent(target); warn != nil {
				out.Warnings = append(out.Warnings, *warn)
			} else if removed {
				out.Removed++
			}
			continue
		}

		files, warnings := ResolvePaths([]string{path}, input.Recursive)
		out.Warnings = append(out.Warnings, warnings...)
		for _, f := range files {
			if !strings.HasSuffix(f, AnnotatedSuffix) {
				continue
			}
			if err := os.Remove(f); err != nil {
				out.Warnings = append(out.Warnings, warningFor(f, errors.NewIO(f, err)))
				continue
			}
			out.Removed++
		}
	}
	return out, nil
}

func removeIfPresent(path string) (bool, *Warning) {
	err := os.Remove(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	warn := warningFor(path, errors.NewIO(path, err))
	return false, &warn
}
