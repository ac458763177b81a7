// Package extract recovers a single well-formed JSON value from the free-form
// text that reasoning providers return: prose, markdown fences, and stray
// JSON-looking fragments may all surround the payload.
package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
)

var (
	fenceJSONRe = regexp.MustCompile("```json\\s*")
	fenceRe     = regexp.MustCompile("```\\s*")
)

// Error reports that no parseable JSON was found. It carries the raw provider
// text so operators can diagnose what came back.
type Error struct {
	Raw string
}

func (e *Error) Error() string {
	return fmt.Sprintf("no valid JSON object or array found in response (%d bytes)", len(e.Raw))
}

// Extract returns the first syntactically valid JSON value embedded in text.
// Candidates are gathered with a depth-counting scan, objects first and then
// arrays, in the order their closing character appears. If no candidate
// parses, the whole stripped text is tried as a last resort.
func Extract(text string) (string, error) {
	stripped := fenceRe.ReplaceAllString(fenceJSONRe.ReplaceAllString(text, ""), "")

	candidates := scan(stripped, '{', '}')
	candidates = append(candidates, scan(stripped, '[', ']')...)

	for _, c := range candidates {
		if json.Valid([]byte(c)) {
			return c, nil
		}
	}
	if json.Valid([]byte(stripped)) {
		return stripped, nil
	}
	return "", &Error{Raw: text}
}

// Parse extracts the first valid JSON value and unmarshals it. When the value
// is an object, the ddl, migrations, and queries fields default to empty
// lists if absent: a provider with nothing to propose is not an error.
func Parse(text string) (any, error) {
	raw, err := Extract(text)
	if err != nil {
		return nil, err
	}

	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		// Extract already validated the candidate, so this should not happen.
		return nil, &Error{Raw: text}
	}

	if obj, ok := v.(map[string]any); ok {
		for _, key := range []string{"ddl", "migrations", "queries"} {
			if _, ok := obj[key]; !ok {
				obj[key] = []any{}
			}
		}
	}
	return v, nil
}

// scan returns every maximal substring that opens with open at depth zero and
// closes when the depth returns to zero.
func scan(text string, open, close byte) []string {
	var candidates []string
	depth := 0
	start := -1

	for i := 0; i < len(text); i++ {
		switch text[i] {
		case open:
			if depth == 0 {
				start = i
			}
			depth++
		case close:
			depth--
			if depth == 0 && start != -1 {
				candidates = append(candidates, text[start:i+1])
				start = -1
			}
			if depth < 0 {
				depth = 0
			}
		}
	}
	return candidates
}
