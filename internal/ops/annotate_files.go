package ops

import (
	"context"
	"os"

	"idmark/internal/annotate"
	"idmark/internal/config"
	"idmark/internal/encoding"
	"idmark/internal/errors"
	"idmark/internal/extract"
)

// AnnotateInput contains parameters for the AnnotateFiles operation.
type AnnotateInput struct {
	Paths     []string
	Recursive bool
	Style     string // empty means the configured default
}

// AnnotateOutput summarizes an AnnotateFiles run.
type AnnotateOutput struct {
	Files         int       `json:"files"`
	Identifiers   int       `json:"identifiers"`
	SkippedTokens int       `json:"skipped_tokens,omitempty"`
	Warnings      []Warning `json:"warnings,omitempty"`
}

// AnnotateFiles writes an annotated sibling copy (<path>.annotated) for
// every resolvable source file, in the file's original encoding and BOM
// layout. IDs are assigned globally across the batch in path order.
func AnnotateFiles(ctx context.Context, cfg *config.Config, engine extract.Engine, input AnnotateInput) (*AnnotateOutput, error) {
	styleName := input.Style
	if styleName == "" {
		styleName = cfg.Style
	}
	style, ok := annotate.LookupStyle(styleName)
	if !ok {
		return nil, errors.NewInvalidRequest("unknown style: " + styleName)
	}

	files, warnings := ResolveSourcePaths(input.Paths, input.Recursive)
	results := ExtractBatch(ctx, engine, files, cfg.Workers)

	out := &AnnotateOutput{Warnings: warnings}
	for _, result := range results {
		out.Warnings = append(out.Warnings, result.Warnings...)
		if result.Skipped {
			continue
		}

		annotated, skipped := annotate.Annotate(result.Source, result.Records, style)
		raw, err := encoding.Encode(annotated, result.Desc)
		if err != nil {
			out.Warnings = append(out.Warnings, warningFor(result.Path, errors.NewInternal(err)))
			continue
		}
		outPath := result.Path + AnnotatedSuffix
		if err := os.WriteFile(outPath, raw, 0644); err != nil {
			out.Warnings = append(out.Warnings, warningFor(outPath, errors.NewIO(outPath, err)))
			continue
		}
		out.Files++
		out.Identifiers += len(result.Records) - len(skipped)
		out.SkippedTokens += len(skipped)
	}
	return out, nil
}
