package record

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mxchen-dev/paperproof/constants"
	"github.com/mxchen-dev/paperproof/internal/common"
	"github.com/mxchen-dev/paperproof/internal/dates"
)

// metadataDoc mirrors the wire shapes the browser extension and its older
// exporters produce. The files field has seen three lives: a list of
// {type,fileName,filePath} objects, a fixed-key object (mainPdf,
// file1..file3) of bare paths, and before that a single pdfFilePath at the
// top level.
type metadataDoc struct {
	Title       string            `json:"title"`
	FirstAuthor string            `json:"firstAuthor"`
	Authors     json.RawMessage   `json:"authors"`
	Date        string            `json:"date"`
	Dates       map[string]string `json:"dates"`
	Files       json.RawMessage   `json:"files"`
	PDFFilePath string            `json:"pdfFilePath"`
	PDFFileName string            `json:"pdfFileName"`
}

type fileEntry struct {
	Type     string `json:"type"`
	FileName string `json:"fileName"`
	FilePath string `json:"filePath"`
	Path     string `json:"path"`
	URL      string `json:"url"`
}

// Fixed keys of the object-shaped files field, in verification order.
var fixedFileKeys = []string{"mainPdf", "file1", "file2", "file3"}

// Load reads one metadata JSON document into a Reference. Relative file
// paths are resolved against the document's directory, the working
// directory, ~/Downloads, and finally by bare file name next to the
// document; an unresolvable path is kept as-is so the verifier can report
// it per file instead of failing the whole reference.
func Load(path string) (*Reference, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, common.WrapError(err, fmt.Sprintf("read metadata %s", path))
	}

	var doc metadataDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, common.NewAppError("METADATA_PARSE", fmt.Sprintf("parse metadata %s", path),
			fmt.Errorf("%w: %w", common.ErrInvalidInput, err))
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	ref := &Reference{
		Title:       strings.TrimSpace(doc.Title),
		FirstAuthor: strings.TrimSpace(doc.FirstAuthor),
		AllAuthors:  parseAuthors(doc.Authors),
		Date:        strings.TrimSpace(doc.Date),
		Dates:       parseDates(doc.Dates),
		SourcePath:  absPath,
	}

	jsonDir := filepath.Dir(absPath)
	for _, f := range parseFiles(doc) {
		ext := constants.NormalizeExt(filepath.Ext(f.FilePath))
		if ext != "" {
			if _, ok := constants.AllowedExtensions[ext]; !ok {
				continue
			}
		}
		f.Format = fileFormat(ext)
		f.FilePath = ResolvePath(jsonDir, f.FilePath)
		if f.FileName == "" {
			f.FileName = filepath.Base(f.FilePath)
		}
		ref.Files = append(ref.Files, f)
	}
	if len(ref.Files) == 0 {
		return nil, common.NewAppError("METADATA_NO_FILES", fmt.Sprintf("no file entries in %s", path), common.ErrInvalidInput)
	}
	return ref, nil
}

// fileFormat buckets an already-normalized extension. Entries without an
// extension are usually download URLs for the main PDF.
func fileFormat(ext string) constants.FileFormat {
	if f := constants.MapExtToFormat(ext); f != "" {
		return f
	}
	return constants.PDF
}

func parseFiles(doc metadataDoc) []FileRef {
	var refs []FileRef

	if len(doc.Files) > 0 {
		var list []fileEntry
		if err := json.Unmarshal(doc.Files, &list); err == nil {
			for _, e := range list {
				p := firstNonEmpty(e.FilePath, e.Path, e.URL)
				if p == "" {
					continue
				}
				refs = append(refs, FileRef{Type: e.Type, FileName: e.FileName, FilePath: p})
			}
			return refs
		}

		var fixed map[string]string
		if err := json.Unmarshal(doc.Files, &fixed); err == nil {
			for _, key := range fixedFileKeys {
				if p := fixed[key]; p != "" {
					refs = append(refs, FileRef{Type: key, FilePath: p})
				}
			}
			return refs
		}
	}

	if doc.PDFFilePath != "" {
		refs = append(refs, FileRef{Type: "mainPdf", FileName: doc.PDFFileName, FilePath: doc.PDFFilePath})
	}
	return refs
}

// parseAuthors accepts either a JSON list of names or one comma-separated
// string.
func parseAuthors(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return trimNonEmpty(list)
	}
	var joined string
	if err := json.Unmarshal(raw, &joined); err == nil {
		return trimNonEmpty(strings.Split(joined, ","))
	}
	return nil
}

// wireDateKinds maps the date keys seen in metadata documents onto kinds.
// The extension writes snake_case for the revised and online dates; older
// exports used the camelCase spelling.
var wireDateKinds = map[string]dates.Kind{
	"received":            dates.Received,
	"received_in_revised": dates.RevisedReceived,
	"revised":             dates.RevisedReceived,
	"accepted":            dates.Accepted,
	"published":           dates.Published,
	"available_online":    dates.AvailableOnline,
	"availableOnline":     dates.AvailableOnline,
	"other":               dates.Other,
}

func parseDates(m map[string]string) map[dates.Kind]string {
	if len(m) == 0 {
		return nil
	}
	out := make(map[dates.Kind]string, len(m))
	for k, v := range m {
		if v = strings.TrimSpace(v); v == "" {
			continue
		}
		if kind, ok := wireDateKinds[k]; ok {
			out[kind] = v
		} else {
			out[dates.Kind(k)] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// ResolvePath normalizes a metadata file path and, when relative, probes
// the original lookup order. The last candidate that exists wins; when
// nothing exists the normalized input comes back unchanged.
func ResolvePath(jsonDir, p string) string {
	p = filepath.FromSlash(strings.ReplaceAll(p, `\`, "/"))
	if filepath.IsAbs(p) {
		return p
	}

	candidates := []string{
		filepath.Join(jsonDir, p),
		p, // relative to the working directory
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, "Downloads", p))
	}
	candidates = append(candidates, filepath.Join(jsonDir, filepath.Base(p)))

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return p
}

func trimNonEmpty(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
