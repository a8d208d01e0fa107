// Package record holds the claimed-paper input types, the per-file working
// state, and the verification outcome shapes.
package record

import (
	"github.com/mxchen-dev/paperproof/constants"
	"github.com/mxchen-dev/paperproof/internal/dates"
	"github.com/mxchen-dev/paperproof/internal/extract"
	"github.com/mxchen-dev/paperproof/internal/llm"
)

// Reference is the claimed record to verify, as loaded from a metadata
// document. It is never mutated during verification.
type Reference struct {
	Title       string                `json:"title"`
	FirstAuthor string                `json:"first_author"`
	AllAuthors  []string              `json:"all_authors,omitempty"`
	Date        string                `json:"date,omitempty"`
	Dates       map[dates.Kind]string `json:"dates,omitempty"`
	Files       []FileRef             `json:"files"`

	// SourcePath is the metadata document this reference came from.
	SourcePath string `json:"source_path,omitempty"`
}

// DateToMatch picks the reference-side date for comparison: the received
// date when present, then the published date, then the free-form date.
func (r *Reference) DateToMatch() string {
	if d := r.Dates[dates.Received]; d != "" {
		return d
	}
	if d := r.Dates[dates.Published]; d != "" {
		return d
	}
	return r.Date
}

// FileRef is one attachment of a reference.
type FileRef struct {
	Type     string               `json:"type"`
	FileName string               `json:"file_name"`
	FilePath string               `json:"file_path"`
	Format   constants.FileFormat `json:"format,omitempty"`
}

// Matches is the per-fact verdict triple.
type Matches struct {
	Title  bool `json:"title"`
	Author bool `json:"author"`
	Date   bool `json:"date"`
}

// Bundle is the working state accumulated while verifying one file. Fields
// fill in as the stages run; failures land in Warnings/Errors instead of
// aborting the file.
type Bundle struct {
	File  FileRef
	Stage constants.Stage

	NativeText string
	NativeMeta extract.Metadata

	OCRText    string
	Fields     llm.Fields
	HasFields  bool
	ParseError string

	// Resolved best-effort identity used for matching.
	Title  string
	Author string
	Dates  map[dates.Kind]string

	Matches  Matches
	Warnings []string
	Errors   []string
}

// Result reduces a finished bundle to its exportable form.
func (b *Bundle) Result() FileResult {
	return FileResult{
		FileName: b.File.FileName,
		FileType: b.File.Type,
		Stage:    b.Stage,
		Title:    b.Title,
		Author:   b.Author,
		Dates:    b.Dates,
		Matches:  b.Matches,
		Warnings: b.Warnings,
		Errors:   b.Errors,
	}
}

// FileResult is the per-file slice of an Outcome.
type FileResult struct {
	FileName string                `json:"file_name"`
	FileType string                `json:"file_type,omitempty"`
	Stage    constants.Stage       `json:"stage"`
	Title    string                `json:"title,omitempty"`
	Author   string                `json:"author,omitempty"`
	Dates    map[dates.Kind]string `json:"dates,omitempty"`
	Matches  Matches               `json:"matches"`
	Warnings []string              `json:"warnings,omitempty"`
	Errors   []string              `json:"errors,omitempty"`
}

// Outcome is the verdict for one reference. Overall is the OR across the
// per-file matches.
type Outcome struct {
	Reference Reference    `json:"reference"`
	PerFile   []FileResult `json:"files"`
	Overall   Matches      `json:"overall"`
	Errors    []string     `json:"errors,omitempty"`
}
