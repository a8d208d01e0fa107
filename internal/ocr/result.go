package ocr

import (
	"encoding/json"
	"strings"
)

// RecognitionKind tags the shape a recognition reply arrived in.
type RecognitionKind int

const (
	// KindPlainText is the normal case: the model answered with text.
	KindPlainText RecognitionKind = iota
	// KindLines is a JSON list of per-line strings.
	KindLines
	// KindEnvelope is a JSON object with the text nested under one of the
	// conventional keys.
	KindEnvelope
	// KindUnstructured is a reply no adapter rule understood; Text carries
	// it verbatim.
	KindUnstructured
)

// Recognition is a recognition reply reduced to one of the known shapes.
// Text always holds the usable transcript regardless of Kind.
type Recognition struct {
	Kind  RecognitionKind
	Text  string
	Lines []string
}

// Envelope keys under which OCR gateways have been seen to nest the
// recognized text.
var recognitionKeys = []string{"text", "content", "ocr_text", "result", "rec_res", "data"}

// DecodeRecognition classifies a recognition reply. Most models answer with
// plain text, but some gateways wrap it in a JSON envelope: a bare string,
// a list of lines, or a nested object keyed by one of a few conventional
// names. This is the only place reply shapes are interpreted; everything
// downstream consumes Recognition.Text.
func DecodeRecognition(content string) Recognition {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return Recognition{Kind: KindPlainText}
	}
	if trimmed[0] != '{' && trimmed[0] != '[' && trimmed[0] != '"' {
		return Recognition{Kind: KindPlainText, Text: trimmed}
	}

	var v any
	if err := json.Unmarshal([]byte(trimmed), &v); err != nil {
		return Recognition{Kind: KindUnstructured, Text: trimmed}
	}

	switch t := v.(type) {
	case string:
		return Recognition{Kind: KindPlainText, Text: strings.TrimSpace(t)}
	case []any:
		lines := collectLines(t)
		return Recognition{Kind: KindLines, Text: strings.Join(lines, "\n"), Lines: lines}
	case map[string]any:
		if text := envelopeText(t); text != "" {
			return Recognition{Kind: KindEnvelope, Text: text}
		}
	}
	return Recognition{Kind: KindUnstructured, Text: trimmed}
}

func collectLines(items []any) []string {
	var lines []string
	for _, item := range items {
		switch t := item.(type) {
		case string:
			if s := strings.TrimSpace(t); s != "" {
				lines = append(lines, s)
			}
		case map[string]any:
			if s := envelopeText(t); s != "" {
				lines = append(lines, s)
			}
		}
	}
	return lines
}

func envelopeText(m map[string]any) string {
	for _, k := range recognitionKeys {
		inner, ok := m[k]
		if !ok {
			continue
		}
		switch t := inner.(type) {
		case string:
			if s := strings.TrimSpace(t); s != "" {
				return s
			}
		case []any:
			if lines := collectLines(t); len(lines) > 0 {
				return strings.Join(lines, "\n")
			}
		case map[string]any:
			if s := envelopeText(t); s != "" {
				return s
			}
		}
	}
	return ""
}
