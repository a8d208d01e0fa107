// Package verify drives the per-file verification state machine and the
// paper-level aggregation over it.
package verify

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/mxchen-dev/paperproof/constants"
	"github.com/mxchen-dev/paperproof/internal/common"
	"github.com/mxchen-dev/paperproof/internal/dates"
	"github.com/mxchen-dev/paperproof/internal/extract"
	"github.com/mxchen-dev/paperproof/internal/llm"
	"github.com/mxchen-dev/paperproof/internal/match"
	"github.com/mxchen-dev/paperproof/internal/ocr"
	"github.com/mxchen-dev/paperproof/internal/record"
	"github.com/mxchen-dev/paperproof/internal/textextract"
)

// OCRPipeline is the slice of ocr.Pipeline the verifier needs, split out so
// tests can substitute a canned implementation.
type OCRPipeline interface {
	Run(ctx context.Context, pdfPath string) (ocr.Result, error)
}

// PDF metadata titles that are really file names from a download dialog.
var filenameTitlePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^view\s*(letter|pdf|file)$`),
	regexp.MustCompile(`(?i)^accept`),
	regexp.MustCompile(`(?i)^download`),
	regexp.MustCompile(`(?i)^file`),
	regexp.MustCompile(`(?i)^document`),
}

// extraction is the cacheable part of a bundle: everything derived from the
// file alone, independent of the reference being checked.
type extraction struct {
	NativeText string
	NativeMeta extract.Metadata
	OCRText    string
	Fields     llm.Fields
	HasFields  bool
	ParseError string
	Warnings   []string
	Errors     []string
}

// DocumentVerifier runs one file through native extraction, the OCR
// fallback, field resolution and the three matchers.
type DocumentVerifier struct {
	native extract.NativeExtractor
	ocr    OCRPipeline
	dates  *dates.Extractor
	cfg    common.ExtractConfig
	cache  *gocache.Cache
	logger *slog.Logger
}

func NewDocumentVerifier(native extract.NativeExtractor, pipeline OCRPipeline, cfg common.ExtractConfig, logger *slog.Logger) *DocumentVerifier {
	if logger == nil {
		logger = slog.Default()
	}
	ex := dates.DefaultExtractorConfig()
	if cfg.CiteNearChars > 0 {
		ex.CiteNearChars = cfg.CiteNearChars
	}
	if cfg.CiteMidChars > 0 {
		ex.CiteMidChars = cfg.CiteMidChars
	}
	if cfg.CiteFarChars > 0 {
		ex.RelaxedWindowChars = cfg.CiteFarChars
	}
	return &DocumentVerifier{
		native: native,
		ocr:    pipeline,
		dates:  dates.NewExtractor(ex, logger),
		cfg:    cfg,
		cache:  gocache.New(30*time.Minute, 10*time.Minute),
		logger: logger,
	}
}

// Verify runs the state machine for one file. It never returns an error or
// panics: every failure is recorded on the result and leaves the matches
// false.
func (v *DocumentVerifier) Verify(ctx context.Context, ref *record.Reference, file record.FileRef) (res record.FileResult) {
	bundle := &record.Bundle{File: file, Dates: map[dates.Kind]string{}}
	defer func() {
		if r := recover(); r != nil {
			bundle.Errors = append(bundle.Errors, fmt.Sprintf("verification panic: %v", r))
			res = bundle.Result()
		}
	}()

	start := time.Now()
	v.logger.Info("verify.file.start", "file", file.FileName, "type", file.Type)

	if file.FilePath == "" {
		bundle.Errors = append(bundle.Errors, "file path is empty")
		return bundle.Result()
	}
	if _, err := os.Stat(file.FilePath); err != nil {
		bundle.Errors = append(bundle.Errors, fmt.Sprintf("file not found: %s", file.FilePath))
		return bundle.Result()
	}

	v.extractAll(ctx, bundle)
	v.resolveFields(bundle)
	v.resolveDates(bundle)
	bundle.Stage = constants.StageFieldsResolved

	bundle.Matches.Title = v.matchTitle(ref, bundle)
	bundle.Matches.Author = v.matchAuthor(ref, bundle)
	bundle.Matches.Date = v.matchDate(ref, bundle)
	bundle.Stage = constants.StageMatched

	v.logger.Info("verify.file.done",
		"file", file.FileName,
		"title_match", bundle.Matches.Title,
		"author_match", bundle.Matches.Author,
		"date_match", bundle.Matches.Date,
		"errors", len(bundle.Errors),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return bundle.Result()
}

// extractAll fills the extraction-derived bundle fields, memoized by file
// path so a file shared between references in one bulk run is read once.
func (v *DocumentVerifier) extractAll(ctx context.Context, bundle *record.Bundle) {
	if cached, ok := v.cache.Get(bundle.File.FilePath); ok {
		v.applyExtraction(bundle, cached.(extraction))
		v.logger.Debug("verify.extract.cached", "path", bundle.File.FilePath)
		return
	}

	var ex extraction

	native, err := v.native.Extract(ctx, bundle.File.FilePath)
	if err != nil {
		ex.Errors = append(ex.Errors, fmt.Sprintf("native extraction failed: %v", err))
	} else {
		ex.NativeText = native.Text
		ex.NativeMeta = native.Meta
	}

	needsOCR := len(ex.NativeText) < v.cfg.MinNativeChars || !ex.NativeMeta.HasIdentity()
	if needsOCR {
		bundle.Stage = constants.StageNeedsOCR
		result, err := v.ocr.Run(ctx, bundle.File.FilePath)
		ex.Warnings = append(ex.Warnings, result.Warnings...)
		if err != nil {
			ex.Errors = append(ex.Errors, fmt.Sprintf("ocr failed: %v", err))
		} else {
			ex.OCRText = result.Text
			ex.Fields = result.Fields
			ex.HasFields = result.FieldsOK
			ex.ParseError = result.FailReason
		}
	}

	v.cache.Set(bundle.File.FilePath, ex, gocache.DefaultExpiration)
	v.applyExtraction(bundle, ex)
	if needsOCR {
		bundle.Stage = constants.StageOCRAttempted
	} else {
		bundle.Stage = constants.StageNativeExtracted
	}
}

func (v *DocumentVerifier) applyExtraction(bundle *record.Bundle, ex extraction) {
	bundle.NativeText = ex.NativeText
	bundle.NativeMeta = ex.NativeMeta
	bundle.OCRText = ex.OCRText
	bundle.Fields = ex.Fields
	bundle.HasFields = ex.HasFields
	bundle.ParseError = ex.ParseError
	bundle.Warnings = append(bundle.Warnings, ex.Warnings...)
	bundle.Errors = append(bundle.Errors, ex.Errors...)
	if ex.ParseError != "" {
		bundle.Warnings = append(bundle.Warnings, fmt.Sprintf("ocr structuring: %s", ex.ParseError))
	}
}

// resolveFields picks the title and author used for matching. Structured
// OCR fields win over native metadata; heuristic extraction from the OCR
// text, then the native text, fills what is left.
func (v *DocumentVerifier) resolveFields(bundle *record.Bundle) {
	pdfTitle := strings.TrimSpace(bundle.NativeMeta.Title)
	if bundle.HasFields && llm.Mentioned(bundle.Fields.Title) && len(strings.TrimSpace(bundle.Fields.Title)) >= 5 {
		pdfTitle = strings.TrimSpace(bundle.Fields.Title)
	}
	if pdfTitle == "" && bundle.NativeText != "" {
		pdfTitle = textextract.Title(bundle.NativeText)
	}

	ocrTitle := ""
	if bundle.HasFields && llm.Mentioned(bundle.Fields.Title) {
		ocrTitle = strings.TrimSpace(bundle.Fields.Title)
	}
	if ocrTitle == "" && bundle.OCRText != "" {
		ocrTitle = textextract.Title(bundle.OCRText)
	}

	switch {
	case len(strings.TrimSpace(ocrTitle)) > 10:
		bundle.Title = ocrTitle
	case !looksLikeFilename(pdfTitle) && len(strings.TrimSpace(pdfTitle)) > 5:
		bundle.Title = pdfTitle
	}

	pdfAuthor := strings.TrimSpace(bundle.NativeMeta.FirstAuthor)
	if bundle.HasFields && llm.Mentioned(bundle.Fields.FirstAuthor) {
		pdfAuthor = strings.TrimSpace(bundle.Fields.FirstAuthor)
	}
	if pdfAuthor == "" && bundle.NativeText != "" {
		pdfAuthor = textextract.Author(bundle.NativeText)
	}

	ocrAuthor := ""
	if bundle.HasFields && llm.Mentioned(bundle.Fields.FirstAuthor) {
		ocrAuthor = strings.TrimSpace(bundle.Fields.FirstAuthor)
	}
	if ocrAuthor == "" && bundle.OCRText != "" {
		ocrAuthor = textextract.Author(bundle.OCRText)
	}

	if ocrAuthor != "" {
		bundle.Author = ocrAuthor
	} else {
		bundle.Author = pdfAuthor
	}
}

// resolveDates fills the per-kind dates: structured OCR values first, then
// the text extractor over native+OCR text when nothing or neither of the
// key kinds (received, available online) was found.
func (v *DocumentVerifier) resolveDates(bundle *record.Bundle) {
	if bundle.HasFields {
		setDate(bundle.Dates, dates.Received, bundle.Fields.Dates.Received)
		setDate(bundle.Dates, dates.RevisedReceived, bundle.Fields.Dates.ReceivedInRevised)
		setDate(bundle.Dates, dates.Accepted, bundle.Fields.Dates.Accepted)
		setDate(bundle.Dates, dates.AvailableOnline, bundle.Fields.Dates.AvailableOnline)
	}

	missingKeyDates := bundle.Dates[dates.Received] == "" && bundle.Dates[dates.AvailableOnline] == ""
	if len(bundle.Dates) == 0 || missingKeyDates {
		extracted := v.dates.Extract(bundle.NativeText + bundle.OCRText)
		for kind, value := range extracted {
			if bundle.Dates[kind] == "" {
				bundle.Dates[kind] = value
			}
		}
	}
}

func (v *DocumentVerifier) matchTitle(ref *record.Reference, bundle *record.Bundle) bool {
	if bundle.Title == "" {
		return false
	}
	return match.Titles(ref.Title, bundle.Title)
}

func (v *DocumentVerifier) matchAuthor(ref *record.Reference, bundle *record.Bundle) bool {
	if bundle.Author == "" {
		return false
	}
	return match.Authors(ref.FirstAuthor, bundle.Author)
}

func (v *DocumentVerifier) matchDate(ref *record.Reference, bundle *record.Bundle) bool {
	web := dates.Normalize(ref.DateToMatch())
	if web == "" {
		return false
	}
	for _, kind := range dates.MatchPriority {
		if d := bundle.Dates[kind]; d != "" && dates.Normalize(d) == web {
			return true
		}
	}
	if g := bundle.NativeMeta.Date; g != "" && dates.Normalize(g) == web {
		return true
	}
	return false
}

func setDate(m map[dates.Kind]string, kind dates.Kind, value string) {
	if llm.Mentioned(value) {
		m[kind] = strings.TrimSpace(value)
	}
}

func looksLikeFilename(title string) bool {
	t := strings.TrimSpace(title)
	for _, re := range filenameTitlePatterns {
		if re.MatchString(t) {
			return true
		}
	}
	return false
}
