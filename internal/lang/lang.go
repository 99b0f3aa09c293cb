// Package lang maps filenames to language profiles: a tree-sitter grammar
// plus the set of syntax-node kinds that count as identifiers for that
// grammar. The tables below are the single source of truth; adding a
// language means adding rows, not code.
package lang

import (
	"path/filepath"
	"sort"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/csharp"
	"github.com/smacker/go-tree-sitter/css"
	"github.com/smacker/go-tree-sitter/cue"
	"github.com/smacker/go-tree-sitter/dockerfile"
	"github.com/smacker/go-tree-sitter/elixir"
	"github.com/smacker/go-tree-sitter/elm"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/groovy"
	"github.com/smacker/go-tree-sitter/hcl"
	"github.com/smacker/go-tree-sitter/html"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/kotlin"
	"github.com/smacker/go-tree-sitter/lua"
	"github.com/smacker/go-tree-sitter/ocaml"
	"github.com/smacker/go-tree-sitter/php"
	"github.com/smacker/go-tree-sitter/protobuf"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/ruby"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/scala"
	"github.com/smacker/go-tree-sitter/sql"
	"github.com/smacker/go-tree-sitter/svelte"
	"github.com/smacker/go-tree-sitter/swift"
	"github.com/smacker/go-tree-sitter/toml"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
	"github.com/smacker/go-tree-sitter/yaml"
)

// Profile describes one supported language: its grammar and the node kinds
// that denote identifier tokens. Profiles are built once at init and are
// safe to share across goroutines.
type Profile struct {
	Grammar    string
	Language   *sitter.Language
	identKinds map[string]struct{}
}

// IsIdentifier reports whether a syntax-node kind names an identifier
// token in this grammar.
func (p *Profile) IsIdentifier(kind string) bool {
	_, ok := p.identKinds[kind]
	return ok
}

// grammarRow is one registry entry. A nil identKinds means the grammar
// labels identifiers with the plain "identifier" kind.
type grammarRow struct {
	language   *sitter.Language
	identKinds []string
}

var grammarTable = map[string]grammarRow{
	"bash":       {bash.GetLanguage(), []string{"variable_name"}},
	"c":          {c.GetLanguage(), []string{"identifier", "field_identifier", "type_identifier"}},
	"cpp":        {cpp.GetLanguage(), []string{"identifier", "field_identifier", "namespace_identifier", "type_identifier"}},
	"csharp":     {csharp.GetLanguage(), nil},
	"css":        {css.GetLanguage(), nil},
	"cue":        {cue.GetLanguage(), nil},
	"dockerfile": {dockerfile.GetLanguage(), nil},
	"elixir":     {elixir.GetLanguage(), nil},
	"elm":        {elm.GetLanguage(), []string{"lower_case_identifier", "upper_case_identifier"}},
	"go":         {golang.GetLanguage(), []string{"identifier", "field_identifier", "package_identifier", "type_identifier"}},
	"groovy":     {groovy.GetLanguage(), nil},
	"hcl":        {hcl.GetLanguage(), nil},
	"html":       {html.GetLanguage(), nil},
	"java":       {java.GetLanguage(), []string{"identifier", "type_identifier"}},
	"javascript": {javascript.GetLanguage(), []string{"identifier", "property_identifier"}},
	"kotlin":     {kotlin.GetLanguage(), []string{"simple_identifier", "type_identifier"}},
	"lua":        {lua.GetLanguage(), nil},
	"ocaml":      {ocaml.GetLanguage(), []string{"value_name", "value_pattern", "module_name", "type_constructor"}},
	"php":        {php.GetLanguage(), []string{"name"}},
	"protobuf":   {protobuf.GetLanguage(), nil},
	"python":     {python.GetLanguage(), nil},
	"ruby":       {ruby.GetLanguage(), nil},
	"rust":       {rust.GetLanguage(), []string{"identifier", "field_identifier", "type_identifier"}},
	"scala":      {scala.GetLanguage(), []string{"identifier", "type_identifier", "operator_identifier"}},
	"sql":        {sql.GetLanguage(), nil},
	"svelte":     {svelte.GetLanguage(), nil},
	"swift":      {swift.GetLanguage(), []string{"simple_identifier", "type_identifier"}},
	"toml":       {toml.GetLanguage(), nil},
	"tsx":        {tsx.GetLanguage(), []string{"identifier", "property_identifier", "type_identifier"}},
	"typescript": {typescript.GetLanguage(), []string{"identifier", "property_identifier", "type_identifier"}},
	"yaml":       {yaml.GetLanguage(), nil},
}

// filenameOverrides maps exact base names (files with no useful extension)
// to a grammar. Checked before the extension table.
var filenameOverrides = map[string]string{
	"Dockerfile":  "dockerfile",
	"Jenkinsfile": "groovy",
}

var extensionTable = map[string]string{
	".bash": "bash", ".sh": "bash", ".zsh": "bash",
	".c": "c", ".h": "c",
	".cc": "cpp", ".cpp": "cpp", ".cxx": "cpp", ".hh": "cpp", ".hpp": "cpp", ".hxx": "cpp",
	".cs":     "csharp",
	".css":    "css",
	".cue":    "cue",
	".ex":     "elixir",
	".exs":    "elixir",
	".elm":    "elm",
	".go":     "go",
	".gradle": "groovy", ".groovy": "groovy",
	".hcl": "hcl", ".tf": "hcl", ".tfvars": "hcl",
	".htm": "html", ".html": "html",
	".java": "java",
	".cjs":  "javascript", ".js": "javascript", ".mjs": "javascript",
	".kt": "kotlin", ".kts": "kotlin",
	".lua": "lua",
	".ml":  "ocaml", ".mli": "ocaml",
	".php":   "php",
	".proto": "protobuf",
	".py":    "python", ".pyi": "python",
	".rb": "ruby",
	".rs": "rust",
	".sc": "scala", ".scala": "scala",
	".sql":    "sql",
	".svelte": "svelte",
	".swift":  "swift",
	".toml":   "toml",
	".tsx":    "tsx",
	".ts":     "typescript",
	".yaml":   "yaml", ".yml": "yaml",
}

// profiles is populated once at init from the tables above.
var profiles = buildProfiles()

func buildProfiles() map[string]*Profile {
	out := make(map[string]*Profile, len(grammarTable))
	for name, row := range grammarTable {
		kinds := row.identKinds
		if kinds == nil {
			kinds = []string{"identifier"}
		}
		set := make(map[string]struct{}, len(kinds))
		for _, k := range kinds {
			set[k] = struct{}{}
		}
		out[name] = &Profile{Grammar: name, Language: row.language, identKinds: set}
	}
	return out
}

// Resolve maps a filename to a language profile. Exact base-name overrides
// win over extensions; matching is case-sensitive. The second return is
// false when no profile matches, a skip-with-warning condition for batch
// callers.
func Resolve(filename string) (*Profile, bool) {
	base := filepath.Base(filename)
	if grammar, ok := filenameOverrides[base]; ok {
		return profiles[grammar], true
	}
	grammar, ok := extensionTable[filepath.Ext(base)]
	if !ok {
		return nil, false
	}
	return profiles[grammar], true
}

// Lookup returns the profile for a grammar name.
func Lookup(grammar string) (*Profile, bool) {
	p, ok := profiles[grammar]
	return p, ok
}

// Grammars returns the sorted names of all registered grammars.
func Grammars() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
