package tool

import (
	"encoding/json"
	"regexp"
	"strings"
)

var fenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)\\n?```")

// ExtractJSON locates the outermost well-formed JSON object or array in
// potentially noisy tool output. Models and tools wrap payloads in markdown
// fences or surround them with log text; this strips the noise. A miss is a
// *ParseError, distinct from a process failure.
func ExtractJSON(output string) (json.RawMessage, error) {
	text := strings.TrimSpace(output)
	if text == "" {
		return nil, &ParseError{Raw: output}
	}

	// Prefer a fenced code block when present.
	if m := fenceRe.FindStringSubmatch(text); m != nil {
		if raw, ok := outermost(strings.TrimSpace(m[1])); ok {
			return raw, nil
		}
	}

	if raw, ok := outermost(text); ok {
		return raw, nil
	}
	return nil, &ParseError{Raw: output}
}

// ExtractInto extracts the JSON payload from output and unmarshals it into v.
func ExtractInto(output string, v any) error {
	raw, err := ExtractJSON(output)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return &ParseError{Raw: output}
	}
	return nil
}

// outermost tries the span from the first opening brace/bracket to the last
// matching closer, then the whole text as a fallback.
func outermost(text string) (json.RawMessage, bool) {
	for _, pair := range [][2]byte{{'{', '}'}, {'[', ']'}} {
		start := strings.IndexByte(text, pair[0])
		end := strings.LastIndexByte(text, pair[1])
		if start == -1 || end <= start {
			continue
		}
		candidate := []byte(text[start : end+1])
		if json.Valid(candidate) {
			return candidate, true
		}
	}
	if json.Valid([]byte(text)) {
		return json.RawMessage(text), true
	}
	return nil, false
}
