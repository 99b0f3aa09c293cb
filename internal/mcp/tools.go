package mcp

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"idmark/internal/annotate"
)

var identifiersToolDef = mcp.NewTool("source_identifiers",
	mcp.WithDescription("Extract identifiers from source files. Returns one record per identifier occurrence with a globally sequential id, 1-based row, 1-based code-point column, and the identifier text. Files that cannot be processed are skipped with a warning."),
	mcp.WithArray("paths",
		mcp.Required(),
		mcp.Description("Files or directories to scan."),
		mcp.Items(map[string]any{"type": "string"}),
	),
	mcp.WithBoolean("recursive",
		mcp.Description("Recurse into subdirectories of directory arguments."),
	),
)

var annotateToolDef = mcp.NewTool("source_annotate",
	mcp.WithDescription("Annotate identifiers in source files. Each input file gets a sibling copy with a .annotated suffix, same encoding and BOM as the original. Pass clean=true to remove annotated copies instead."),
	mcp.WithArray("paths",
		mcp.Required(),
		mcp.Description("Files or directories to annotate (or clean)."),
		mcp.Items(map[string]any{"type": "string"}),
	),
	mcp.WithBoolean("recursive",
		mcp.Description("Recurse into subdirectories of directory arguments."),
	),
	mcp.WithString("style",
		mcp.Description(fmt.Sprintf("Marker style: %s. Defaults to the configured style.", strings.Join(annotate.StyleNames(), ", "))),
	),
	mcp.WithBoolean("clean",
		mcp.Description("Remove .annotated copies instead of creating them."),
	),
)

var resolveToolDef = mcp.NewTool("source_resolve",
	mcp.WithDescription("Ask the configured LLM to resolve annotated identifiers in one file. Accepts a source file (annotated in memory) or an existing .annotated copy. Returns definitions (use-site to definition-site id pairs), external ids, and per-id errors."),
	mcp.WithString("path",
		mcp.Required(),
		mcp.Description("Source file or .annotated copy."),
	),
	mcp.WithString("model",
		mcp.Description("Override the configured chat-completions model."),
	),
	mcp.WithBoolean("no_cache",
		mcp.Description("Bypass the resolution cache for this call."),
	),
)
