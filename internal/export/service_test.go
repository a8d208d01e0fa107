package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mxchen-dev/paperproof/constants"
	"github.com/mxchen-dev/paperproof/internal/dates"
	"github.com/mxchen-dev/paperproof/internal/record"
)

func sampleOutcomes() []record.Outcome {
	return []record.Outcome{
		{
			Reference: record.Reference{
				Title:       "Deep learning for crop disease detection",
				FirstAuthor: "Jichen Tian",
				Dates:       map[dates.Kind]string{dates.Received: "2024-03-14"},
			},
			PerFile: []record.FileResult{
				{
					FileName: "paper.pdf",
					FileType: "mainPdf",
					Stage:    constants.StageMatched,
					Title:    "Deep learning for crop disease detection",
					Author:   "Jichen Tian",
					Dates:    map[dates.Kind]string{dates.Received: "2024-03-14", dates.Accepted: "2024-05-20"},
					Matches:  record.Matches{Title: true, Author: true, Date: true},
				},
			},
			Overall: record.Matches{Title: true, Author: true, Date: true},
		},
		{
			Reference: record.Reference{Title: "An unverifiable claim", FirstAuthor: "Wei Zhang"},
			Errors:    []string{"no files to verify"},
		},
	}
}

func TestJSONExport(t *testing.T) {
	svc := NewService(nil)
	data, err := svc.JSON(sampleOutcomes())
	require.NoError(t, err)

	var back []record.Outcome
	require.NoError(t, json.Unmarshal(data, &back))
	require.Len(t, back, 2)
	assert.True(t, back[0].Overall.Title)
	assert.Equal(t, "Jichen Tian", back[0].Reference.FirstAuthor)
	assert.Equal(t, []string{"no files to verify"}, back[1].Errors)
}

func TestXLSXExport(t *testing.T) {
	svc := NewService(nil)
	data, err := svc.XLSX(sampleOutcomes())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	title, err := f.GetCellValue("Overview", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Deep learning for crop disease detection", title)

	titleMatch, err := f.GetCellValue("Overview", "D2")
	require.NoError(t, err)
	assert.Equal(t, "MATCH", titleMatch)

	fileName, err := f.GetCellValue("Files", "B2")
	require.NoError(t, err)
	assert.Equal(t, "paper.pdf", fileName)

	stage, err := f.GetCellValue("Files", "D2")
	require.NoError(t, err)
	assert.Equal(t, "MATCHED", stage)

	received, err := f.GetCellValue("Files", "G2")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-14", received)
}

func TestTruncateKeepsValidUTF8(t *testing.T) {
	long := strings.Repeat("高光谱成像的深度学习", 10)
	got := truncate(long, 20)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 20, utf8.RuneCountInString(got))
	assert.True(t, strings.HasSuffix(got, "…"))

	assert.Equal(t, "short", truncate("short", 20))
	assert.Equal(t, "unlimited", truncate("unlimited", 0))
}
