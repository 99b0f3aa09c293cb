// Package ops implements the batch operations behind the CLI and MCP
// surfaces: identifier dumping, file annotation, annotated-copy cleanup,
// and LLM resolution. Per-file failures become warnings; they never abort
// a batch.
package ops

import (
	"idmark/internal/errors"
)

// AnnotatedSuffix is appended to a source path to name its annotated copy.
const AnnotatedSuffix = ".annotated"

// Warning records a per-file, non-fatal condition surfaced to the caller.
type Warning struct {
	Path    string           `json:"path"`
	Code    errors.ErrorCode `json:"code"`
	Message string           `json:"message"`
}

// warningFor converts an error into a Warning for the given path.
func warningFor(path string, err error) Warning {
	if appErr, ok := err.(*errors.Error); ok {
		return Warning{Path: path, Code: appErr.Code, Message: appErr.Message}
	}
	return Warning{Path: path, Code: errors.ErrInternal, Message: err.Error()}
}
