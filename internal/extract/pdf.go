package extract

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
)

// Strings that mean the Author field holds a tool, vendor, or publisher
// name instead of a person.
var invalidMetaAuthors = []string{
	"direct journals", "expert systems", "fields", "open access",
	"international journal", "elsevier", "science direct",
	"compaq", "hp", "dell", "lenovo", "computer", "system",
	"creative commons", "the author", "this article",
}

var reCreationDate = regexp.MustCompile(`^(\d{4})(\d{2})(\d{2})`)

// PDFExtractor reads embedded text and the Info dictionary of a PDF.
type PDFExtractor struct {
	maxPages int
	logger   *slog.Logger
}

func NewPDFExtractor(maxPages int, logger *slog.Logger) *PDFExtractor {
	if maxPages <= 0 {
		maxPages = 5
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFExtractor{maxPages: maxPages, logger: logger}
}

// Extract returns the concatenated text of the first pages plus cleaned
// Info-dict metadata. Unreadable pages are skipped; an unreadable file is
// the only error case.
func (e *PDFExtractor) Extract(ctx context.Context, path string) (NativeResult, error) {
	start := time.Now()
	e.logger.Debug("extract.native.start", "path", path)

	f, r, err := pdf.Open(path)
	if err != nil {
		e.logger.Warn("extract.native.open_failed", "path", path, "error", err)
		return NativeResult{}, err
	}
	defer f.Close()

	pages := r.NumPage()
	limit := pages
	if limit > e.maxPages {
		limit = e.maxPages
	}

	var b strings.Builder
	for i := 1; i <= limit; i++ {
		if err := ctx.Err(); err != nil {
			return NativeResult{}, err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			e.logger.Debug("extract.native.page_failed", "path", path, "page", i, "error", err)
			continue
		}
		if text != "" {
			b.WriteString(text)
			b.WriteString("\n")
		}
	}

	res := NativeResult{
		Text:  b.String(),
		Pages: pages,
		Meta:  readMetadata(r),
	}
	e.logger.Info("extract.native.done",
		"path", path,
		"pages", pages,
		"text_chars", len(res.Text),
		"has_title", res.Meta.Title != "",
		"has_author", res.Meta.FirstAuthor != "",
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

func readMetadata(r *pdf.Reader) Metadata {
	var m Metadata

	info := r.Trailer().Key("Info")
	if info.IsNull() {
		return m
	}

	m.Title = strings.TrimSpace(info.Key("Title").RawString())

	if raw := strings.TrimSpace(info.Key("Author").RawString()); raw != "" {
		if author := cleanMetaAuthor(raw); author != "" {
			m.Author = author
			parts := strings.Split(author, ",")
			m.FirstAuthor = strings.TrimSpace(parts[0])
		}
	}

	if raw := info.Key("CreationDate").RawString(); raw != "" {
		m.Date = parseCreationDate(raw)
	}

	return m
}

// cleanMetaAuthor drops vendor and publisher strings and names outside the
// 5..200 length band.
func cleanMetaAuthor(raw string) string {
	lower := strings.ToLower(raw)
	for _, invalid := range invalidMetaAuthors {
		if strings.Contains(lower, invalid) {
			return ""
		}
	}
	if len(raw) < 5 || len(raw) > 200 {
		return ""
	}
	return raw
}

// parseCreationDate reduces a "D:YYYYMMDDHHmmSS..." stamp to YYYY-MM-DD.
// Anything else comes back unchanged.
func parseCreationDate(raw string) string {
	s := strings.TrimPrefix(raw, "D:")
	if m := reCreationDate.FindStringSubmatch(s); m != nil {
		return m[1] + "-" + m[2] + "-" + m[3]
	}
	return raw
}
