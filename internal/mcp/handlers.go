package mcp

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"idmark/internal/config"
	"idmark/internal/errors"
	"idmark/internal/extract"
	"idmark/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	cfg     *config.Config
	engine  extract.Engine
	baseDir string
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(cfg *config.Config, engine extract.Engine, baseDir string) *Handlers {
	return &Handlers{cfg: cfg, engine: engine, baseDir: baseDir}
}

// Request types for each tool

// IdentifiersRequest represents the arguments for source_identifiers.
type IdentifiersRequest struct {
	Paths     []string `json:"paths"`
	Recursive bool     `json:"recursive,omitempty"`
}

// AnnotateRequest represents the arguments for source_annotate.
type AnnotateRequest struct {
	Paths     []string `json:"paths"`
	Recursive bool     `json:"recursive,omitempty"`
	Style     string   `json:"style,omitempty"`
	Clean     bool     `json:"clean,omitempty"`
}

// ResolveRequest represents the arguments for source_resolve.
type ResolveRequest struct {
	Path    string `json:"path"`
	Model   string `json:"model,omitempty"`
	NoCache bool   `json:"no_cache,omitempty"`
}

// Handler implementations

// HandleIdentifiers handles the source_identifiers tool call.
func (h *Handlers) HandleIdentifiers(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[IdentifiersRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if len(input.Paths) == 0 {
		return errorResult(errors.NewInvalidRequest("paths must not be empty")), nil
	}

	var csv bytes.Buffer
	result, err := ops.Dump(ctx, h.cfg, h.engine, ops.DumpInput{
		Paths:     input.Paths,
		Recursive: input.Recursive,
	}, &csv)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(map[string]any{
		"files":       result.Files,
		"identifiers": result.Identifiers,
		"warnings":    result.Warnings,
		"csv":         csv.String(),
	})
}

// HandleAnnotate handles the source_annotate tool call.
func (h *Handlers) HandleAnnotate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[AnnotateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if len(input.Paths) == 0 {
		return errorResult(errors.NewInvalidRequest("paths must not be empty")), nil
	}

	if input.Clean {
		result, err := ops.Clean(ops.CleanInput{
			Paths:     input.Paths,
			Recursive: input.Recursive,
		})
		if err != nil {
			return errorResult(err), nil
		}
		return successResult(result)
	}

	result, err := ops.AnnotateFiles(ctx, h.cfg, h.engine, ops.AnnotateInput{
		Paths:     input.Paths,
		Recursive: input.Recursive,
		Style:     input.Style,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleResolve handles the source_resolve tool call.
func (h *Handlers) HandleResolve(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ResolveRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.Path == "" {
		return errorResult(errors.NewInvalidRequest("path is required")), nil
	}

	result, err := ops.Resolve(ctx, h.cfg, h.engine, ops.ResolveInput{
		Path:    input.Path,
		Model:   input.Model,
		NoCache: input.NoCache,
		BaseDir: h.baseDir,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if appErr, ok := err.(*errors.Error); ok {
		errorObj := map[string]any{
			"code":    appErr.Code,
			"message": appErr.Message,
			"status":  appErr.Status,
		}
		if appErr.Code != errors.ErrInternal && appErr.Details != nil {
			errorObj["details"] = appErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
