package match

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTitles(t *testing.T) {
	long := "Computational screening of metal organic frameworks for carbon capture applications"

	tests := []struct {
		name string
		web  string
		doc  string
		want bool
	}{
		{"exact", long, long, true},
		{"case and punctuation", strings.ToUpper(long), long + "!", true},
		{"too short", "Short one", "Short one", false},
		{"unrelated", long, "A completely different survey of wireless sensor networks in agriculture", false},
		{"containment with subtitle", long, long + ": a practical guide for process engineers", true},
		{"empty", "", long, false},
		{"garbled tail", long, long[:60] + " xq zzv garbled OCR tail here entirely different", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Titles(tt.web, tt.doc))
		})
	}
}

func TestNormalizeTitle(t *testing.T) {
	assert.Equal(t, "deeplearning", NormalizeTitle("Deep Learning!"))
	assert.Equal(t, "基于深度学习的方法", NormalizeTitle("基于深度学习的方法"))
}
