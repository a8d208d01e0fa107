package llm

import (
	"encoding/json"
	"errors"
	"regexp"
	"sort"
)

var (
	reJSONFence = regexp.MustCompile("(?is)```json\\s*([\\s\\S]*?)\\s*```")
	reAnyFence  = regexp.MustCompile("(?s)```\\s*([\\s\\S]*?)\\s*```")
	reBraceBlob = regexp.MustCompile(`\{[\s\S]*\}`)
)

// ErrJSONParseFailed means no recovery step produced a parseable object.
var ErrJSONParseFailed = errors.New("json_parse_failed")

// ExtractJSON digs a JSON object out of a chat reply. Models wrap their
// output in markdown fences, prefix it with prose, or both; the recovery
// ladder runs tagged fence, any fence, balanced-brace scan, then the longest
// brace-delimited blob.
func ExtractJSON(text string) (json.RawMessage, error) {
	if text == "" {
		return nil, ErrJSONParseFailed
	}

	if m := reJSONFence.FindStringSubmatch(text); m != nil && m[1] != "" {
		return tryParse(m[1])
	}
	if m := reAnyFence.FindStringSubmatch(text); m != nil && m[1] != "" {
		return tryParse(m[1])
	}

	// Balanced-brace scan: parse each top-level {...} span as encountered.
	depth, start := 0, -1
	for i, ch := range []byte(text) {
		switch ch {
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			depth--
			if depth == 0 && start != -1 {
				if raw, err := tryParse(text[start : i+1]); err == nil {
					return raw, nil
				}
				start = -1
			}
		}
	}

	// Last resort: the longest brace-delimited blob that parses.
	blobs := reBraceBlob.FindAllString(text, -1)
	sort.Slice(blobs, func(i, j int) bool { return len(blobs[i]) > len(blobs[j]) })
	for _, blob := range blobs {
		if raw, err := tryParse(blob); err == nil {
			return raw, nil
		}
	}

	return nil, ErrJSONParseFailed
}

func tryParse(s string) (json.RawMessage, error) {
	var v map[string]any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, ErrJSONParseFailed
	}
	return json.RawMessage(s), nil
}
