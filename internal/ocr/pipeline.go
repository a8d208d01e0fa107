package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/mxchen-dev/paperproof/internal/common"
	"github.com/mxchen-dev/paperproof/internal/llm"
)

var reCollapseSpace = regexp.MustCompile(`\s+`)

// Pipeline runs the two-stage recognition flow: a vision call transcribes
// the rendered page, then a text call structures the transcript into
// fields. The structuring stage is best effort; its failures degrade to an
// empty field set so the text heuristics still get a chance downstream.
type Pipeline struct {
	vision llm.ChatClient
	struc  llm.ChatClient
	runner Runner
	cfg    common.ExtractConfig
	logger *slog.Logger
}

// NewPipeline builds a pipeline. The vision and structuring clients may be
// the same instance when a single endpoint serves both models.
func NewPipeline(vision, struc llm.ChatClient, cfg common.ExtractConfig, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{vision: vision, struc: struc, runner: execRunner{}, cfg: cfg, logger: logger}
}

// WithRunner swaps the external-command runner, for tests.
func (p *Pipeline) WithRunner(r Runner) *Pipeline {
	p.runner = r
	return p
}

// Result is the outcome of both stages over one document.
type Result struct {
	// Text is the raw page transcript from the vision stage.
	Text string
	// Fields holds the structured extraction when FieldsOK is true.
	Fields   llm.Fields
	FieldsOK bool
	// FailReason explains a failed structuring stage.
	FailReason string
	Warnings   []string
}

// Run renders the first page of the PDF and drives both stages. A vision
// failure is fatal for the document; a structuring failure is not.
func (p *Pipeline) Run(ctx context.Context, pdfPath string) (Result, error) {
	dataURL, err := RenderFirstPage(ctx, p.runner, p.cfg.DPI, pdfPath)
	if err != nil {
		return Result{}, err
	}

	text, warnings, err := p.Recognize(ctx, dataURL)
	if err != nil {
		return Result{Warnings: warnings}, err
	}

	res := Result{Text: text, Warnings: warnings}
	res.Fields, res.FieldsOK, res.FailReason = p.Structure(ctx, text)
	return res, nil
}

// Recognize transcribes a page image. Degenerate replies trigger a retry
// with the next prompt in the escalation list; if every attempt looks
// degenerate the last reply is kept, flagged with a warning, since partial
// noise still beats nothing for the downstream heuristics.
func (p *Pipeline) Recognize(ctx context.Context, imageDataURL string) (string, []string, error) {
	attempts := p.cfg.OCRMaxAttempts
	if attempts <= 0 {
		attempts = len(llm.RecognitionPrompts)
	}

	var warnings []string
	var last string
	for i := 0; i < attempts; i++ {
		prompt := llm.RecognitionPrompts[min(i, len(llm.RecognitionPrompts)-1)]

		out, err := p.vision.Vision(ctx, prompt, imageDataURL)
		if err != nil {
			if i == attempts-1 {
				return "", warnings, err
			}
			p.logger.Warn("ocr.recognize.retry", "attempt", i+1, "error", err)
			warnings = append(warnings, fmt.Sprintf("recognition attempt %d failed: %v", i+1, err))
			continue
		}

		out = DecodeRecognition(out).Text
		if promptEchoed(out) {
			warnings = append(warnings, "recognition reply echoes the prompt")
		}
		last = out

		if !IsDegenerateOutput(out) {
			p.logger.Debug("ocr.recognize.ok", "attempt", i+1, "text_chars", len(out))
			return out, warnings, nil
		}

		p.logger.Warn("ocr.recognize.degenerate", "attempt", i+1, "text_chars", len(out))
		warnings = append(warnings, fmt.Sprintf("degenerate recognition output on attempt %d", i+1))
	}

	warnings = append(warnings, "all recognition attempts degenerate, keeping last output")
	return last, warnings, nil
}

// Structure turns a transcript into fields. It never returns an error:
// model failures and unparseable replies come back as (zero, false, reason).
func (p *Pipeline) Structure(ctx context.Context, text string) (llm.Fields, bool, string) {
	collapsed := reCollapseSpace.ReplaceAllString(strings.TrimSpace(text), " ")
	runes := []rune(collapsed)
	if max := p.cfg.MaxStructChars; max > 0 && len(runes) > max {
		collapsed = string(runes[:max])
		p.logger.Debug("ocr.structure.truncated", "kept_chars", max, "dropped_chars", len(runes)-max)
	}
	if collapsed == "" {
		return llm.Fields{}, false, "empty transcript"
	}

	user := llm.StructuringPrompt + "\n\nOCR文本如下：\n" + collapsed
	reply, err := p.struc.Complete(ctx, llm.StructuringSystemPrompt, user)
	if err != nil {
		p.logger.Warn("ocr.structure.error", "error", err)
		return llm.Fields{}, false, fmt.Sprintf("structuring call failed: %v", err)
	}

	raw, err := llm.ExtractJSON(reply)
	if err != nil {
		p.logger.Warn("ocr.structure.no_json", "reply_chars", len(reply))
		return llm.Fields{}, false, err.Error()
	}

	fields, err := llm.DecodeFields(raw)
	if err != nil {
		p.logger.Warn("ocr.structure.bad_fields", "error", err)
		return llm.Fields{}, false, fmt.Sprintf("fields rejected: %v", err)
	}

	p.logger.Debug("ocr.structure.ok", "has_title", fields.Title != "", "has_first_author", fields.FirstAuthor != "")
	return fields, true, ""
}

func promptEchoed(out string) bool {
	return strings.Contains(out, "请只返回图片") ||
		strings.Contains(out, "Extract all visible text from the image")
}
