// Package annotate renders identifier markers into source text and strips
// them back out. Styles are a closed table of templates, not code
// branches; adding a style means adding a row.
package annotate

import (
	"sort"
	"strconv"
	"strings"
)

// Style is a deterministic template from (id, text) to a marker
// substring. A bracketed style wraps the token between Open and Close
// with the id and Sep in front; a suffix style appends the id rendered in
// superscript digit glyphs directly after the token.
type Style struct {
	Name             string
	Open, Sep, Close string
	SuffixOnly       bool
}

// DefaultStyle is the name used when callers pass an empty style.
const DefaultStyle = "guillemet"

var styleTable = map[string]Style{
	"guillemet":   {Name: "guillemet", Open: "«", Sep: "|", Close: "»"},
	"superscript": {Name: "superscript", SuffixOnly: true},
}

var superscriptDigits = [10]string{"⁰", "¹", "²", "³", "⁴", "⁵", "⁶", "⁷", "⁸", "⁹"}

// LookupStyle returns the named style, or the default for "".
func LookupStyle(name string) (Style, bool) {
	if name == "" {
		name = DefaultStyle
	}
	s, ok := styleTable[name]
	return s, ok
}

// StyleNames returns the sorted names of all registered styles.
func StyleNames() []string {
	names := make([]string, 0, len(styleTable))
	for name := range styleTable {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render produces the marker substring for one identifier.
func (s Style) Render(id int, text string) string {
	if s.SuffixOnly {
		return text + superscript(id)
	}
	return s.Open + strconv.Itoa(id) + s.Sep + text + s.Close
}

// Conflicts reports whether a token's own text contains glyphs the style
// uses as markers, which would make the annotation ambiguous to strip.
// Such tokens are left unannotated.
func (s Style) Conflicts(text string) bool {
	if s.SuffixOnly {
		return strings.ContainsAny(text, "⁰¹²³⁴⁵⁶⁷⁸⁹")
	}
	return strings.Contains(text, s.Open) || strings.Contains(text, s.Close)
}

// superscript renders a non-negative integer as superscript digit glyphs.
func superscript(id int) string {
	digits := strconv.Itoa(id)
	var b strings.Builder
	for _, d := range digits {
		b.WriteString(superscriptDigits[d-'0'])
	}
	return b.String()
}
