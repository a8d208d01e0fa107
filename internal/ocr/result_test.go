package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeRecognition(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantKind RecognitionKind
		wantText string
	}{
		{"plain text", "Received 14 March 2024\nAccepted 20 May 2024", KindPlainText, "Received 14 March 2024\nAccepted 20 May 2024"},
		{"quoted string", `"Deep learning for crop disease detection"`, KindPlainText, "Deep learning for crop disease detection"},
		{"line list", `["Title line", "Author line", ""]`, KindLines, "Title line\nAuthor line"},
		{"text key", `{"text": "the transcript"}`, KindEnvelope, "the transcript"},
		{"rec_res line list", `{"rec_res": ["line one", "line two"]}`, KindEnvelope, "line one\nline two"},
		{"data holding content", `{"data": {"content": "inner text"}}`, KindEnvelope, "inner text"},
		{"unknown envelope verbatim", `{"something_else": "x"}`, KindUnstructured, `{"something_else": "x"}`},
		{"broken json verbatim", `{not json`, KindUnstructured, `{not json`},
		{"empty", "   ", KindPlainText, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeRecognition(tt.content)
			assert.Equal(t, tt.wantKind, got.Kind)
			assert.Equal(t, tt.wantText, got.Text)
		})
	}
}

func TestDecodeRecognitionLines(t *testing.T) {
	got := DecodeRecognition(`["one", "two"]`)
	assert.Equal(t, []string{"one", "two"}, got.Lines)
}
