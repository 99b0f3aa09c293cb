package extract

import (
	"unicode/utf8"

	"idmark/internal/lang"
)

// Record is one extracted identifier token. Row is 1-indexed; Col is the
// 1-indexed count of Unicode code points from the start of the line,
// independent of the source encoding's storage width. StartByte/EndByte
// span the token in the canonical UTF-8 text.
//
// ID is zero until assigned; within a file, assigned IDs are strictly
// increasing in document order.
type Record struct {
	ID        int    `json:"id"`
	Path      string `json:"path"`
	Row       int    `json:"row"`
	Col       int    `json:"col"`
	Text      string `json:"text"`
	StartByte int    `json:"start_byte"`
	EndByte   int    `json:"end_byte"`
}

// Identifiers walks tree in pre-order and returns one record per node
// whose kind is in the profile's identifier set, in document order.
// Children of matching nodes are still traversed. Subtrees containing
// grammar errors are not skipped; whatever parsed is emitted.
func Identifiers(path string, src []byte, tree Tree, profile *lang.Profile) []Record {
	var records []Record
	var walk func(n Node)
	walk = func(n Node) {
		if profile.IsIdentifier(n.Kind()) {
			start, end := n.StartByte(), n.EndByte()
			records = append(records, Record{
				Path:      path,
				Row:       n.Row() + 1,
				Col:       charCol(src, start, n.ColByte()),
				Text:      string(src[start:end]),
				StartByte: start,
				EndByte:   end,
			})
		}
		for i := 0; i < n.ChildCount(); i++ {
			walk(n.Child(i))
		}
	}
	walk(tree.Root())
	return records
}

// charCol converts the parser's byte column into a 1-indexed code-point
// column by counting runes between the line start and the token start.
func charCol(src []byte, startByte, colByte int) int {
	lineStart := startByte - colByte
	return utf8.RuneCount(src[lineStart:startByte]) + 1
}
