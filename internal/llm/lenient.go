package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// DecodeFields turns a recovered JSON object into Fields. Models are sloppy
// about the exact shape, so the document is sanitized first (sentinels
// blanked, booleans coerced, flat date keys lifted into the dates object),
// then validated against the schema, then unmarshaled.
func DecodeFields(raw json.RawMessage) (Fields, error) {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return Fields{}, fmt.Errorf("decode fields: %w", err)
	}

	sanitizeFieldDoc(m)

	cleaned, err := json.Marshal(m)
	if err != nil {
		return Fields{}, fmt.Errorf("re-marshal fields: %w", err)
	}
	if err := validateFields(cleaned); err != nil {
		return Fields{}, err
	}

	var f Fields
	if err := json.Unmarshal(cleaned, &f); err != nil {
		return Fields{}, fmt.Errorf("decode fields: %w", err)
	}
	f.Title = cleanValue(f.Title)
	f.FirstAuthor = cleanValue(f.FirstAuthor)
	f.Authors = cleanValue(f.Authors)
	f.Dates.Received = cleanValue(f.Dates.Received)
	f.Dates.ReceivedInRevised = cleanValue(f.Dates.ReceivedInRevised)
	f.Dates.Accepted = cleanValue(f.Dates.Accepted)
	f.Dates.AvailableOnline = cleanValue(f.Dates.AvailableOnline)
	return f, nil
}

// sanitizeFieldDoc normalizes the generic document in place. Only lenient
// repairs happen here; anything still wrong afterwards fails validation.
func sanitizeFieldDoc(m map[string]any) {
	for _, k := range []string{"document_type", "title", "first_author", "authors", "confidence_note"} {
		switch v := m[k].(type) {
		case nil:
			m[k] = ""
		case string:
			m[k] = strings.TrimSpace(v)
		default:
			m[k] = fmt.Sprintf("%v", v)
		}
	}

	// is_co_first arrives as bool, "true"/"false", or missing.
	switch v := m["is_co_first"].(type) {
	case bool:
	case string:
		m["is_co_first"] = strings.EqualFold(strings.TrimSpace(v), "true")
	default:
		m["is_co_first"] = false
	}

	dates, ok := m["dates"].(map[string]any)
	if !ok {
		dates = map[string]any{}
	}
	// Some replies flatten the dates into the top level.
	for _, k := range []string{"received", "received_in_revised", "accepted", "available_online"} {
		if _, present := dates[k]; !present {
			if v, topLevel := m[k]; topLevel {
				dates[k] = v
				delete(m, k)
			}
		}
		switch v := dates[k].(type) {
		case nil:
			dates[k] = ""
		case string:
			dates[k] = strings.TrimSpace(v)
		default:
			dates[k] = fmt.Sprintf("%v", v)
		}
	}
	m["dates"] = dates
}

func cleanValue(s string) string {
	if !Mentioned(s) {
		return ""
	}
	return strings.TrimSpace(s)
}

func validateFields(data []byte) error {
	schemaDoc, err := json.Marshal(BuildFieldsJSONSchema())
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("fields.json", bytes.NewReader(schemaDoc)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("fields.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal fields: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("fields do not match schema: %w", err)
	}
	return nil
}
