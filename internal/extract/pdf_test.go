package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanMetaAuthor(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain name", "Jichen Tian", "Jichen Tian"},
		{"vendor string", "Compaq Deskpro", ""},
		{"publisher string", "Elsevier B.V.", ""},
		{"too short", "Tian", ""},
		{"author list kept whole", "Jichen Tian, Wei Zhang", "Jichen Tian, Wei Zhang"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanMetaAuthor(tt.raw))
		})
	}
}

func TestParseCreationDate(t *testing.T) {
	assert.Equal(t, "2024-03-14", parseCreationDate("D:20240314151518+00'00'"))
	assert.Equal(t, "2024-03-14", parseCreationDate("20240314"))
	assert.Equal(t, "March 2024", parseCreationDate("March 2024"))
}

func TestMetadataHasIdentity(t *testing.T) {
	assert.False(t, Metadata{}.HasIdentity())
	assert.True(t, Metadata{Title: "x"}.HasIdentity())
	assert.True(t, Metadata{FirstAuthor: "x"}.HasIdentity())
}
