package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFields(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Fields
	}{
		{
			name: "complete document",
			raw: `{
				"document_type": "published",
				"title": "Deep learning for crop disease detection",
				"first_author": "Jichen Tian",
				"is_co_first": true,
				"authors": "Jichen Tian, Wei Zhang",
				"dates": {
					"received": "2024-03-14",
					"received_in_revised": "2024-05-02",
					"accepted": "2024-05-20",
					"available_online": "Not mentioned"
				},
				"confidence_note": ""
			}`,
			want: Fields{
				DocumentType: "published",
				Title:        "Deep learning for crop disease detection",
				FirstAuthor:  "Jichen Tian",
				IsCoFirst:    true,
				Authors:      "Jichen Tian, Wei Zhang",
				Dates: FieldDates{
					Received:          "2024-03-14",
					ReceivedInRevised: "2024-05-02",
					Accepted:          "2024-05-20",
				},
			},
		},
		{
			name: "nulls and whitespace",
			raw:  `{"title": "  A title  ", "first_author": null, "authors": "Not mentioned"}`,
			want: Fields{Title: "A title"},
		},
		{
			name: "is_co_first as string",
			raw:  `{"title": "A title", "first_author": "Jichen Tian", "is_co_first": "true"}`,
			want: Fields{Title: "A title", FirstAuthor: "Jichen Tian", IsCoFirst: true},
		},
		{
			name: "flattened date keys lifted into dates",
			raw:  `{"title": "A title", "first_author": "Jichen Tian", "received": "2024-03-14", "accepted": "2024-05-20"}`,
			want: Fields{
				Title:       "A title",
				FirstAuthor: "Jichen Tian",
				Dates:       FieldDates{Received: "2024-03-14", Accepted: "2024-05-20"},
			},
		},
		{
			name: "numeric value stringified",
			raw:  `{"title": "A title", "first_author": "Jichen Tian", "confidence_note": 3}`,
			want: Fields{Title: "A title", FirstAuthor: "Jichen Tian", ConfidenceNote: "3"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeFields(json.RawMessage(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeFieldsRejectsNonObject(t *testing.T) {
	_, err := DecodeFields(json.RawMessage(`["not", "an", "object"]`))
	assert.Error(t, err)
}

func TestMentioned(t *testing.T) {
	assert.True(t, Mentioned("Jichen Tian"))
	assert.False(t, Mentioned(""))
	assert.False(t, Mentioned("   "))
	assert.False(t, Mentioned("Not mentioned"))
	assert.False(t, Mentioned("not mentioned"))
}
