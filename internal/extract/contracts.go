package extract

import "context"

// NativeExtractor is the fast path: embedded text and document metadata,
// no rasterization, no network. Empty fields mean the document simply does
// not carry them; that is a gap, not an error.
type NativeExtractor interface {
	Extract(ctx context.Context, path string) (NativeResult, error)
}

// NativeResult is the native-extraction output for one document.
type NativeResult struct {
	Text  string
	Pages int
	Meta  Metadata
}

// Metadata is the document Info dictionary, cleaned.
type Metadata struct {
	Title       string
	Author      string
	FirstAuthor string
	Date        string // YYYY-MM-DD when parseable, else raw
}

// HasIdentity reports whether metadata carries anything usable for
// title/author matching.
func (m Metadata) HasIdentity() bool {
	return m.Title != "" || m.FirstAuthor != ""
}
