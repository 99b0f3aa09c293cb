package annotate

import (
	"bytes"
	"regexp"

	"idmark/internal/extract"
)

// Annotate splices a marker around every identifier record in src, which
// must be the same canonical UTF-8 text the records were extracted from.
// Records arrive in document order with original byte offsets; output is
// built in a single reconstruction pass, so no offset fixups are needed.
// Every byte outside an identifier span is copied unchanged.
//
// Tokens whose text conflicts with the style's own glyphs are left
// unannotated and returned in skipped.
func Annotate(src []byte, records []extract.Record, style Style) (annotated []byte, skipped []extract.Record) {
	var out bytes.Buffer
	out.Grow(len(src) + len(records)*8)

	prev := 0
	for _, rec := range records {
		// Nested identifier spans (a qualified name emitted alongside its
		// components) would double-annotate; the outermost span wins.
		if rec.StartByte < prev {
			continue
		}
		if style.Conflicts(rec.Text) {
			skipped = append(skipped, rec)
			continue
		}
		out.Write(src[prev:rec.StartByte])
		out.WriteString(style.Render(rec.ID, rec.Text))
		prev = rec.EndByte
	}
	out.Write(src[prev:])
	return out.Bytes(), skipped
}

// Deannotate strips a style's markers from annotated text, recovering the
// original token text byte-for-byte and discarding wrapper glyphs and ids.
func Deannotate(annotated []byte, style Style) []byte {
	if style.SuffixOnly {
		return style.pattern().ReplaceAll(annotated, nil)
	}
	return style.pattern().ReplaceAll(annotated, []byte("$1"))
}

func (s Style) pattern() *regexp.Regexp {
	if s.SuffixOnly {
		return regexp.MustCompile("[⁰¹²³⁴⁵⁶⁷⁸⁹]+")
	}
	return regexp.MustCompile(
		regexp.QuoteMeta(s.Open) + `\d+` + regexp.QuoteMeta(s.Sep) + `(.*?)` + regexp.QuoteMeta(s.Close),
	)
}
