package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthorsEnglish(t *testing.T) {
	tests := []struct {
		name string
		web  string
		doc  string
		want bool
	}{
		{"exact", "Jichen Tian", "Jichen Tian", true},
		{"swapped order", "Tian Jichen", "Jichen Tian", true},
		{"swapped order reverse", "Jichen Tian", "Tian Jichen", true},
		{"middle initial", "John A. Smith", "John Smith", true},
		{"unrelated", "Jichen Tian", "Wei Zhang", false},
		{"single word equal", "Tian", "Tian", true},
		{"single word different", "Tian", "Zhang", false},
		{"empty web", "", "Jichen Tian", false},
		{"empty doc", "Jichen Tian", "", false},
		{"punctuation ignored", "O'Brien, Conan", "Conan OBrien", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Authors(tt.web, tt.doc))
		})
	}
}

func TestAuthorsCJK(t *testing.T) {
	tests := []struct {
		name string
		web  string
		doc  string
		want bool
	}{
		{"surname first", "田纪辰", "Tian Jichen", true},
		{"given first", "田纪辰", "Jichen Tian", true},
		{"ocr trailing noise", "田纪辰", "Jichen Tiana", true},
		{"unrelated pinyin", "田纪辰", "Wei Zhang", false},
		{"unrelated latin", "田纪辰", "John Smith", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Authors(tt.web, tt.doc))
		})
	}
}

func TestToPinyinSurnameGrouping(t *testing.T) {
	assert.Equal(t, "Tian Jichen", ToPinyin("田纪辰"))
	// Passthrough for names with no Han characters.
	assert.NotEmpty(t, ToPinyin("abc"))
}
