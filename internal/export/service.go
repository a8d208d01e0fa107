// Package export renders verification outcomes as JSON documents and XLSX
// workbooks.
package export

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/mxchen-dev/paperproof/internal/dates"
	"github.com/mxchen-dev/paperproof/internal/record"
)

// Service turns a batch of outcomes into export bytes.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// JSON renders the outcomes as an indented JSON array.
func (s *Service) JSON(outcomes []record.Outcome) ([]byte, error) {
	data, err := json.MarshalIndent(outcomes, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal outcomes: %w", err)
	}
	s.logger.Info("export.json.ok", "papers", len(outcomes), "bytes", len(data))
	return data, nil
}

const (
	overviewSheet = "Overview"
	filesSheet    = "Files"
)

// XLSX renders a workbook with one overview row per paper and a per-file
// detail sheet.
func (s *Service) XLSX(outcomes []record.Outcome) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", overviewSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(filesSheet); err != nil {
		return nil, err
	}
	if idx, _ := f.GetSheetIndex(overviewSheet); idx != -1 {
		f.SetActiveSheet(idx)
	}

	if err := s.writeOverview(f, outcomes); err != nil {
		return nil, err
	}
	fileRows, err := s.writeFiles(f, outcomes)
	if err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"papers", len(outcomes),
		"file_rows", fileRows,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func (s *Service) writeOverview(f *excelize.File, outcomes []record.Outcome) error {
	headers := []string{
		"Title",
		"First Author",
		"Claimed Date",
		"Title Match",
		"Author Match",
		"Date Match",
		"Files",
		"Errors",
		"Source",
	}
	if err := writeRow(f, overviewSheet, 1, toAny(headers)); err != nil {
		return err
	}

	for i, o := range outcomes {
		row := []any{
			truncate(o.Reference.Title, 140),
			o.Reference.FirstAuthor,
			o.Reference.DateToMatch(),
			verdict(o.Overall.Title),
			verdict(o.Overall.Author),
			verdict(o.Overall.Date),
			len(o.PerFile),
			joinErrors(o.Errors),
			o.Reference.SourcePath,
		}
		if err := writeRow(f, overviewSheet, i+2, row); err != nil {
			return err
		}
	}

	_ = f.SetColWidth(overviewSheet, "A", "A", 60)
	_ = f.SetColWidth(overviewSheet, "B", "C", 18)
	_ = f.SetColWidth(overviewSheet, "D", "F", 12)
	_ = f.SetColWidth(overviewSheet, "H", "I", 48)
	return nil
}

func (s *Service) writeFiles(f *excelize.File, outcomes []record.Outcome) (int, error) {
	headers := []string{
		"Paper Title",
		"File",
		"Type",
		"Stage",
		"Extracted Title",
		"Extracted Author",
		"Received",
		"Accepted",
		"Available Online",
		"Title Match",
		"Author Match",
		"Date Match",
		"Errors",
	}
	if err := writeRow(f, filesSheet, 1, toAny(headers)); err != nil {
		return 0, err
	}

	row := 2
	for _, o := range outcomes {
		for _, fr := range o.PerFile {
			values := []any{
				truncate(o.Reference.Title, 80),
				fr.FileName,
				fr.FileType,
				string(fr.Stage),
				truncate(fr.Title, 120),
				fr.Author,
				fr.Dates[dates.Received],
				fr.Dates[dates.Accepted],
				fr.Dates[dates.AvailableOnline],
				verdict(fr.Matches.Title),
				verdict(fr.Matches.Author),
				verdict(fr.Matches.Date),
				joinErrors(fr.Errors),
			}
			if err := writeRow(f, filesSheet, row, values); err != nil {
				return 0, err
			}
			row++
		}
	}

	_ = f.SetColWidth(filesSheet, "A", "A", 40)
	_ = f.SetColWidth(filesSheet, "B", "B", 28)
	_ = f.SetColWidth(filesSheet, "E", "E", 50)
	_ = f.SetColWidth(filesSheet, "M", "M", 60)
	return row - 2, nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

func verdict(ok bool) string {
	if ok {
		return "MATCH"
	}
	return "NO MATCH"
}

func joinErrors(errs []string) string {
	out := ""
	for i, e := range errs {
		if i > 0 {
			out += "; "
		}
		out += e
	}
	return truncate(out, 200)
}

func toAny(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}

func truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
