package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"idmark/internal/config"
	"idmark/internal/errors"
	"idmark/internal/extract"
)

// testSetup creates a source directory, config, and handlers for testing.
func testSetup(t *testing.T) (*Handlers, string) {
	t.Helper()

	srcDir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Workers = 2

	h := NewHandlers(cfg, extract.NewTreeSitter(), filepath.Join(srcDir, ".idmark"))
	return h, srcDir
}

// makeRequest creates a CallToolRequest with the given arguments.
func makeRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// TestHandleIdentifiers tests the source_identifiers handler.
func TestHandleIdentifiers(t *testing.T) {
	h, srcDir := testSetup(t)
	ctx := context.Background()

	javaPath := writeSource(t, srcDir, "Main.java", "package com.example;\n")

	tests := []struct {
		name      string
		args      map[string]any
		wantError bool
		errorCode string
	}{
		{
			name: "extract from file",
			args: map[string]any{
				"paths": []any{javaPath},
			},
			wantError: false,
		},
		{
			name: "extract from directory",
			args: map[string]any{
				"paths": []any{srcDir},
			},
			wantError: false,
		},
		{
			name:      "missing paths",
			args:      map[string]any{},
			wantError: true,
			errorCode: "INVALID_REQUEST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := makeRequest(tt.args)
			result, err := h.HandleIdentifiers(ctx, req)

			if err != nil {
				t.Fatalf("handler returned error: %v", err)
			}

			if tt.wantError {
				if !result.IsError {
					t.Errorf("expected error result, got success")
				}
				if tt.errorCode != "" {
					assertErrorCode(t, result, tt.errorCode)
				}
			} else {
				if result.IsError {
					t.Errorf("expected success, got error: %v", extractErrorMessage(result))
				}
			}
		})
	}
}

// TestHandleIdentifiers_CSVPayload verifies the record content in the output.
func TestHandleIdentifiers_CSVPayload(t *testing.T) {
	h, srcDir := testSetup(t)
	ctx := context.Background()

	path := writeSource(t, srcDir, "Main.java", "package com.example;\n")

	req := makeRequest(map[string]any{"paths": []any{path}})
	result, err := h.HandleIdentifiers(ctx, req)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	output := parseOutput(t, result)

	if n := int(output["identifiers"].(float64)); n != 2 {
		t.Errorf("identifiers = %d, want 2", n)
	}
	csv := output["csv"].(string)
	if !strings.HasPrefix(csv, "id,path,row,col,text\n") {
		t.Errorf("csv missing header: %q", csv)
	}
	if !strings.Contains(csv, ",1,9,com\n") || !strings.Contains(csv, ",1,13,example\n") {
		t.Errorf("csv missing expected rows: %q", csv)
	}
}

// TestHandleAnnotate tests the source_annotate handler.
func TestHandleAnnotate(t *testing.T) {
	h, srcDir := testSetup(t)
	ctx := context.Background()

	path := writeSource(t, srcDir, "calc.py", "x = 1\n")

	req := makeRequest(map[string]any{"paths": []any{path}})
	result, err := h.HandleAnnotate(ctx, req)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	output := parseOutput(t, result)
	if n := int(output["files"].(float64)); n != 1 {
		t.Errorf("files = %d, want 1", n)
	}

	annotated, err := os.ReadFile(path + ".annotated")
	if err != nil {
		t.Fatalf("annotated copy not written: %v", err)
	}
	if string(annotated) != "«0|x» = 1\n" {
		t.Errorf("annotated = %q", annotated)
	}
}

// TestHandleAnnotate_Clean tests the clean mode of source_annotate.
func TestHandleAnnotate_Clean(t *testing.T) {
	h, srcDir := testSetup(t)
	ctx := context.Background()

	path := writeSource(t, srcDir, "calc.py", "x = 1\n")
	writeSource(t, srcDir, "calc.py.annotated", "«0|x» = 1\n")

	req := makeRequest(map[string]any{
		"paths": []any{srcDir},
		"clean": true,
	})
	result, err := h.HandleAnnotate(ctx, req)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	output := parseOutput(t, result)
	if n := int(output["removed"].(float64)); n != 1 {
		t.Errorf("removed = %d, want 1", n)
	}

	if _, err := os.Stat(path + ".annotated"); !os.IsNotExist(err) {
		t.Error("annotated copy should be removed")
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("source file should survive clean: %v", err)
	}
}

// TestHandleAnnotate_UnknownStyle tests the error path for a bad style name.
func TestHandleAnnotate_UnknownStyle(t *testing.T) {
	h, srcDir := testSetup(t)
	ctx := context.Background()

	path := writeSource(t, srcDir, "calc.py", "x = 1\n")

	req := makeRequest(map[string]any{
		"paths": []any{path},
		"style": "neon",
	})
	result, err := h.HandleAnnotate(ctx, req)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result for unknown style")
	}
	assertErrorCode(t, result, "INVALID_REQUEST")
}

// TestHandleResolve tests the source_resolve handler against a stub endpoint.
func TestHandleResolve(t *testing.T) {
	h, srcDir := testSetup(t)
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]any{
				"content": `{"definitions": [[1, 0]], "external": [], "errors": []}`,
			}}},
		})
	}))
	defer srv.Close()

	t.Setenv("IDMARK_TEST_KEY", "sk-test")
	h.cfg.BaseURL = srv.URL
	h.cfg.APIKeyEnv = "IDMARK_TEST_KEY"

	path := writeSource(t, srcDir, "calc.py", "x = 1\ny = x\n")

	req := makeRequest(map[string]any{"path": path, "no_cache": true})
	result, err := h.HandleResolve(ctx, req)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	output := parseOutput(t, result)
	defs := output["definitions"].([]any)
	if len(defs) != 1 {
		t.Errorf("definitions = %v, want one pair", defs)
	}
}

// TestHandleResolve_MissingPath tests validation of the path argument.
func TestHandleResolve_MissingPath(t *testing.T) {
	h, _ := testSetup(t)
	ctx := context.Background()

	req := makeRequest(map[string]any{})
	result, err := h.HandleResolve(ctx, req)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result for missing path")
	}
	assertErrorCode(t, result, "INVALID_REQUEST")
}

func TestServerRegistration(t *testing.T) {
	cfg := config.DefaultConfig()

	s := NewServer(cfg, t.TempDir(), "test")
	tools := s.ListTools()
	if tools == nil {
		t.Fatal("expected tools to be registered, got nil")
	}

	expectedTools := []string{
		"source_identifiers",
		"source_annotate",
		"source_resolve",
	}

	if len(tools) != len(expectedTools) {
		t.Errorf("registered tool count = %d, want %d", len(tools), len(expectedTools))
	}

	for _, name := range expectedTools {
		if _, ok := tools[name]; !ok {
			t.Errorf("missing registered tool: %s", name)
		}
	}
}

func TestServerRegistration_WithDisabledTools(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DisabledTools = []string{"source_resolve"}

	s := NewServer(cfg, t.TempDir(), "test")
	tools := s.ListTools()

	if len(tools) != 2 {
		t.Errorf("registered tool count = %d, want 2", len(tools))
	}
	if _, ok := tools["source_resolve"]; ok {
		t.Error("disabled tool should not be registered")
	}
	for _, name := range []string{"source_identifiers", "source_annotate"} {
		if _, ok := tools[name]; !ok {
			t.Errorf("tool %q should be registered", name)
		}
	}
}

func TestValidateDisabledTools(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		wantLen int
	}{
		{
			name:    "all valid",
			input:   []string{"source_resolve", "source_annotate"},
			wantLen: 0,
		},
		{
			name:    "one unknown",
			input:   []string{"source_resolve", "fake_tool"},
			wantLen: 1,
		},
		{
			name:    "empty list",
			input:   []string{},
			wantLen: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unknown := ValidateDisabledTools(tt.input)
			if len(unknown) != tt.wantLen {
				t.Errorf("ValidateDisabledTools() returned %d unknown, want %d", len(unknown), tt.wantLen)
			}
		})
	}
}

func TestAllToolNames(t *testing.T) {
	names := AllToolNames()
	if len(names) != 3 {
		t.Errorf("AllToolNames() returned %d names, want 3", len(names))
	}
	unknown := ValidateDisabledTools(names)
	if len(unknown) != 0 {
		t.Errorf("AllToolNames() returned invalid names: %v", unknown)
	}
}

func TestErrorResult_InternalDoesNotExposeDetails(t *testing.T) {
	r := errorResult(errors.NewInternal(fmt.Errorf("sql error: open /tmp/secret.db: permission denied")))
	if !r.IsError {
		t.Fatal("expected IsError=true")
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(r.Content[0].(mcp.TextContent).Text), &payload); err != nil {
		t.Fatalf("failed to unmarshal error payload: %v", err)
	}
	errObj := payload["error"].(map[string]any)

	if errObj["code"] != string(errors.ErrInternal) {
		t.Fatalf("code=%v, want %v", errObj["code"], errors.ErrInternal)
	}
	if _, ok := errObj["details"]; ok {
		t.Fatal("expected INTERNAL errors to omit details")
	}
}

func TestErrorResult_NonInternalIncludesDetails(t *testing.T) {
	r := errorResult(errors.NewUnknownLanguage("notes.txt"))
	if !r.IsError {
		t.Fatal("expected IsError=true")
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(r.Content[0].(mcp.TextContent).Text), &payload); err != nil {
		t.Fatalf("failed to unmarshal error payload: %v", err)
	}
	errObj := payload["error"].(map[string]any)

	if errObj["code"] != string(errors.ErrUnknownLanguage) {
		t.Fatalf("code=%v, want %v", errObj["code"], errors.ErrUnknownLanguage)
	}
	if _, ok := errObj["details"]; !ok {
		t.Fatal("expected non-INTERNAL errors to include details when present")
	}
}

// Helper functions

// parseOutput extracts and unmarshals the JSON output from an MCP result.
func parseOutput(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()
	if result.IsError {
		t.Fatalf("expected success, got error: %v", extractErrorMessage(result))
	}
	var output map[string]any
	if err := json.Unmarshal([]byte(result.Content[0].(mcp.TextContent).Text), &output); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	return output
}

func assertErrorCode(t *testing.T, result *mcp.CallToolResult, expectedCode string) {
	t.Helper()

	if len(result.Content) == 0 {
		t.Errorf("no content in error result")
		return
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Errorf("content is not TextContent")
		return
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(text.Text), &payload); err != nil {
		t.Errorf("failed to unmarshal error payload: %v", err)
		return
	}

	errorObj, ok := payload["error"].(map[string]any)
	if !ok {
		t.Errorf("no error object in payload")
		return
	}

	code, ok := errorObj["code"].(string)
	if !ok {
		t.Errorf("no code in error object")
		return
	}

	if code != expectedCode {
		t.Errorf("got error code %q, want %q", code, expectedCode)
	}
}

func extractErrorMessage(result *mcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return "<no content>"
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		return "<not text content>"
	}

	return text.Text
}
