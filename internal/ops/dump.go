package ops

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"

	"idmark/internal/config"
	"idmark/internal/extract"
)

// DumpInput contains parameters for the Dump operation.
type DumpInput struct {
	Paths     []string
	Recursive bool
}

// DumpOutput summarizes a Dump run.
type DumpOutput struct {
	Files       int       `json:"files"`
	Identifiers int       `json:"identifiers"`
	Warnings    []Warning `json:"warnings,omitempty"`
}

// Dump extracts identifiers from every resolvable source file and writes
// them as CSV rows id,path,row,col,text in global id order.
func Dump(ctx context.Context, cfg *config.Config, engine extract.Engine, input DumpInput, w io.Writer) (*DumpOutput, error) {
	files, warnings := ResolveSourcePaths(input.Paths, input.Recursive)
	results := ExtractBatch(ctx, engine, files, cfg.Workers)

	out := &DumpOutput{Warnings: warnings}
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"id", "path", "row", "col", "text"}); err != nil {
		return nil, err
	}
	for _, result := range results {
		out.Warnings = append(out.Warnings, result.Warnings...)
		if result.Skipped {
			continue
		}
		out.Files++
		for _, rec := range result.Records {
			if err := writer.Write(csvRow(rec)); err != nil {
				return nil, err
			}
			out.Identifiers++
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return out, nil
}

func csvRow(rec extract.Record) []string {
	return []string{
		strconv.Itoa(rec.ID),
		rec.Path,
		strconv.Itoa(rec.Row),
		strconv.Itoa(rec.Col),
		rec.Text,
	}
}
