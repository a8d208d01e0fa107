package llm

// BuildFieldsJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map, used locally to validate recovered structured fields before
// trusting them.
func BuildFieldsJSONSchema() map[string]any {
	dateProp := map[string]any{"type": "string"}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"document_type": map[string]any{"type": "string"},
			"title":         map[string]any{"type": "string"},
			"first_author":  map[string]any{"type": "string"},
			"is_co_first":   map[string]any{"type": "boolean"},
			"authors":       map[string]any{"type": "string"},
			"dates": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"received":            dateProp,
					"received_in_revised": dateProp,
					"accepted":            dateProp,
					"available_online":    dateProp,
				},
			},
			"confidence_note": map[string]any{"type": "string"},
		},
		"required": []string{"title", "first_author"},
	}
}
