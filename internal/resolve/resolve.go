package resolve

import (
	"context"
	"database/sql"

	"idmark/internal/errors"
)

// Options controls one resolution call.
type Options struct {
	// NoCache skips the disk cache and always calls the LLM.
	NoCache bool
}

// Resolve sends annotated source to the LLM and returns the parsed
// report. A non-nil cache database is consulted first and updated after a
// successful call unless opts.NoCache is set.
func Resolve(ctx context.Context, cache *sql.DB, client *Client, annotated, grammar string, opts Options) (*Report, error) {
	hash := sourceHash(annotated)

	if cache != nil && !opts.NoCache {
		cached, err := cacheGet(cache, hash, client.Model())
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		if cached != nil {
			return cached, nil
		}
	}

	content, err := client.Complete(ctx, BuildPrompt(annotated, grammar))
	if err != nil {
		return nil, err
	}
	report, err := ParseReport(content)
	if err != nil {
		return nil, errors.NewUpstream(200, err.Error())
	}

	if cache != nil && !opts.NoCache {
		if err := cachePut(cache, hash, client.Model(), report); err != nil {
			return nil, errors.NewInternal(err)
		}
	}
	return report, nil
}
