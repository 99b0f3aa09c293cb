package ops

import (
	"context"
	"os"
	"sync"

	"idmark/internal/encoding"
	"idmark/internal/errors"
	"idmark/internal/extract"
	"idmark/internal/lang"
)

// FileResult is the outcome of the per-file pipeline stage:
// detect -> decode -> parse -> extract. A skipped file carries warnings
// and no records.
type FileResult struct {
	Path     string
	Skipped  bool
	Grammar  string
	Desc     encoding.Descriptor
	Source   []byte // canonical UTF-8, BOM stripped
	Records  []extract.Record
	Warnings []Warning
}

// ProcessFile runs the pipeline for a single file. Unknown languages,
// unsupported encodings and unreadable files all skip with a warning;
// grammar errors downgrade to a warning with a best-effort record set.
func ProcessFile(ctx context.Context, engine extract.Engine, path string) FileResult {
	result := FileResult{Path: path}

	profile, ok := lang.Resolve(path)
	if !ok {
		result.Skipped = true
		result.Warnings = append(result.Warnings, warningFor(path, errors.NewUnknownLanguage(path)))
		return result
	}
	result.Grammar = profile.Grammar

	raw, err := os.ReadFile(path)
	if err != nil {
		result.Skipped = true
		result.Warnings = append(result.Warnings, warningFor(path, errors.NewIO(path, err)))
		return result
	}

	source, desc, err := encoding.Decode(raw)
	if err != nil {
		result.Skipped = true
		result.Warnings = append(result.Warnings, warningFor(path, errors.NewUnsupportedEncoding(path)))
		return result
	}
	result.Source = source
	result.Desc = desc

	tree, err := engine.Parse(ctx, source, profile)
	if err != nil {
		result.Skipped = true
		result.Warnings = append(result.Warnings, warningFor(path, errors.NewInternal(err)))
		return result
	}
	if tree.HasError() {
		result.Warnings = append(result.Warnings, warningFor(path, errors.NewParseError(path)))
	}

	result.Records = extract.Identifiers(path, source, tree, profile)
	return result
}

// ExtractBatch runs ProcessFile over the given paths on a bounded worker
// pool, merges results back in path order, and assigns global ids: a
// single counter starting at 0, increasing across the merged sequence.
// Skipped files contribute zero records and leave no gaps.
func ExtractBatch(ctx context.Context, engine extract.Engine, paths []string, workers int) []FileResult {
	if workers < 1 {
		workers = 1
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	results := make([]FileResult, len(paths))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = ProcessFile(ctx, engine, paths[i])
			}
		}()
	}
	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	// ID assignment is order-dependent; this merge in path order is the
	// pipeline's only synchronization barrier.
	next := 0
	for i := range results {
		for j := range results[i].Records {
			results[i].Records[j].ID = next
			next++
		}
	}
	return results
}
