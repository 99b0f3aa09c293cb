package ops

import (
	"context"
	"database/sql"
	"os"
	"strings"

	"idmark/internal/annotate"
	"idmark/internal/config"
	"idmark/internal/db"
	"idmark/internal/encoding"
	"idmark/internal/errors"
	"idmark/internal/extract"
	"idmark/internal/lang"
	"idmark/internal/resolve"
)

// ResolveInput contains parameters for the Resolve operation.
type ResolveInput struct {
	// Path is a source file (annotated in memory) or an existing
	// .annotated copy (sent as-is).
	Path    string
	Model   string // empty means the configured default
	NoCache bool
	BaseDir string // cache directory; empty disables the cache
}

// Resolve annotates one file (or accepts an already-annotated one) and
// asks the LLM collaborator for a reference-resolution report. Unlike the
// batch operations, failures here are fatal: there is only one file.
func Resolve(ctx context.Context, cfg *config.Config, engine extract.Engine, input ResolveInput) (*resolve.Report, error) {
	annotated, grammar, err := annotatedText(ctx, engine, input.Path)
	if err != nil {
		return nil, err
	}

	client, err := resolve.NewClient(cfg, input.Model)
	if err != nil {
		return nil, err
	}

	var cache *sql.DB
	if input.BaseDir != "" && !input.NoCache {
		cache, err = db.Init(input.BaseDir)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		defer cache.Close()
	}

	return resolve.Resolve(ctx, cache, client, annotated, grammar, resolve.Options{NoCache: input.NoCache})
}

// annotatedText produces the guillemet-annotated text for path, either by
// reading an existing annotated copy or by annotating the source in
// memory. The resolver's prompt documents the guillemet format, so the
// style is fixed here.
func annotatedText(ctx context.Context, engine extract.Engine, path string) (string, string, error) {
	style, _ := annotate.LookupStyle(annotate.DefaultStyle)

	if strings.HasSuffix(path, AnnotatedSuffix) {
		base := strings.TrimSuffix(path, AnnotatedSuffix)
		profile, ok := lang.Resolve(base)
		if !ok {
			return "", "", errors.NewUnknownLanguage(base)
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return "", "", errors.NewIO(path, err)
		}
		text, _, err := encoding.Decode(raw)
		if err != nil {
			return "", "", errors.NewUnsupportedEncoding(path)
		}
		return string(text), profile.Grammar, nil
	}

	profile, ok := lang.Resolve(path)
	if !ok {
		return "", "", errors.NewUnknownLanguage(path)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", "", errors.NewIO(path, err)
	}
	source, _, err := encoding.Decode(raw)
	if err != nil {
		return "", "", errors.NewUnsupportedEncoding(path)
	}
	tree, err := engine.Parse(ctx, source, profile)
	if err != nil {
		return "", "", errors.NewInternal(err)
	}

	records := extract.Identifiers(path, source, tree, profile)
	for i := range records {
		records[i].ID = i
	}
	annotated, _ := annotate.Annotate(source, records, style)
	return string(annotated), profile.Grammar, nil
}
