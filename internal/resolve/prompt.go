package resolve

import "fmt"

// promptVersion is part of the cache key. Bump it when the template
// changes materially so stale cached responses are not reused.
const promptVersion = 1

const promptTemplate = `Below is %[1]s source code. Each identifier has been replaced with an annotated marker in the format ` + "`«id|name»`" + `, where ` + "`id`" + ` is a unique integer and ` + "`name`" + ` is the original identifier text.

For each identifier, determine which other identifier(s) represent its definition or declaration, the target(s) an IDE's "Jump to Definition" would navigate to.

A reference may resolve to more than one target. For example, in C a function may have both a forward declaration and a later definition in the same file; both should be included. However, only return the direct declaration/definition sites, not other references to the same name.

Respond with **only** JSON in this exact structure (no commentary):

` + "```json" + `
{
  "definitions": [
    [<reference_id>, <definition_id>],
    [<reference_id>, <definition_id>]
  ],
  "external": [<id>, <id>],
  "errors": [
    {"id": <id>, "reason": "..."}
  ]
}
` + "```" + `

Field descriptions:
- ` + "`definitions`" + `: pairs of [reference_id, definition_id] where both identifiers appear in this file. A reference_id may appear in multiple pairs if it resolves to more than one declaration/definition site. If an identifier *is* a definition (not a reference to one), omit it.
- ` + "`external`" + `: identifiers whose definitions are outside this file (e.g. standard library, imports, other modules).
- ` + "`errors`" + `: identifiers that cannot be resolved for any other reason, with a brief explanation.

` + "```%[1]s\n%[2]s\n```"

// BuildPrompt renders the resolution prompt for annotated source in the
// given grammar.
func BuildPrompt(annotated, grammar string) string {
	return fmt.Sprintf(promptTemplate, grammar, annotated)
}
