package verify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mxchen-dev/paperproof/internal/common"
	"github.com/mxchen-dev/paperproof/internal/record"
)

// PaperVerifier checks one reference against all of its files and ORs the
// per-file verdicts into the overall one. A file backed by garbage never
// takes down its siblings.
type PaperVerifier struct {
	doc    *DocumentVerifier
	logger *slog.Logger
}

func NewPaperVerifier(doc *DocumentVerifier, logger *slog.Logger) *PaperVerifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &PaperVerifier{doc: doc, logger: logger}
}

func (p *PaperVerifier) Verify(ctx context.Context, ref *record.Reference) (out record.Outcome) {
	out.Reference = *ref
	defer func() {
		if r := recover(); r != nil {
			out.Errors = append(out.Errors, fmt.Sprintf("verification panic: %v", r))
		}
	}()

	// One request ID per paper ties the model calls for all of its files
	// together in the logs. Bulk runs stamp the job ID upstream.
	reqID := common.RequestIDFromContext(ctx)
	if reqID == "" {
		reqID = uuid.NewString()
		ctx = common.WithRequestID(ctx, reqID)
	}

	start := time.Now()
	p.logger.Info("verify.paper.start",
		"req_id", reqID,
		"title", ref.Title,
		"first_author", ref.FirstAuthor,
		"files", len(ref.Files),
		"source", ref.SourcePath,
	)

	if len(ref.Files) == 0 {
		out.Errors = append(out.Errors, "no files to verify")
		return out
	}

	for _, file := range ref.Files {
		res := p.doc.Verify(ctx, ref, file)
		out.PerFile = append(out.PerFile, res)
		out.Overall.Title = out.Overall.Title || res.Matches.Title
		out.Overall.Author = out.Overall.Author || res.Matches.Author
		out.Overall.Date = out.Overall.Date || res.Matches.Date
	}

	p.logger.Info("verify.paper.done",
		"req_id", reqID,
		"title_match", out.Overall.Title,
		"author_match", out.Overall.Author,
		"date_match", out.Overall.Date,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out
}
