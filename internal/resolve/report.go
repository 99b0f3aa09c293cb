package resolve

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// Report is the resolution result for one annotated file. Every id it
// references is an id emitted during annotation; the content itself is
// the collaborator's judgment and is passed through unvalidated.
type Report struct {
	// Definitions holds [reference_id, definition_id] pairs. A reference
	// may resolve to more than one definition site.
	Definitions [][2]int `json:"definitions"`

	// External lists ids whose definitions live outside the file.
	External []int `json:"external"`

	// Errors lists ids that could not be resolved, with a reason.
	Errors []ReportError `json:"errors"`
}

// ReportError is one unresolvable identifier.
type ReportError struct {
	ID     int    `json:"id"`
	Reason string `json:"reason"`
}

var (
	fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*\\n(.*?)\\n\\s*```")
	braceBlock = regexp.MustCompile(`(?s)\{.*\}`)
)

// ParseReport extracts the resolution JSON from LLM response text.
// Handles responses wrapped in markdown code fences as well as bare JSON.
func ParseReport(text string) (*Report, error) {
	payload := ""
	if m := fencedJSON.FindStringSubmatch(text); m != nil {
		payload = m[1]
	} else if m := braceBlock.FindString(text); m != "" {
		payload = m
	} else {
		return nil, fmt.Errorf("no JSON object found in response")
	}

	var report Report
	if err := json.Unmarshal([]byte(payload), &report); err != nil {
		return nil, fmt.Errorf("decode resolution report: %w", err)
	}
	return &report, nil
}
