package ocr

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mxchen-dev/paperproof/internal/common"
)

type fakeChat struct {
	visionReplies []string
	visionErrs    []error
	visionCalls   int

	completeReply string
	completeErr   error
	lastUser      string
}

func (f *fakeChat) Vision(_ context.Context, _, _ string) (string, error) {
	i := f.visionCalls
	f.visionCalls++
	if i < len(f.visionErrs) && f.visionErrs[i] != nil {
		return "", f.visionErrs[i]
	}
	if i >= len(f.visionReplies) {
		i = len(f.visionReplies) - 1
	}
	return f.visionReplies[i], nil
}

func (f *fakeChat) Complete(_ context.Context, _, user string) (string, error) {
	f.lastUser = user
	if f.completeErr != nil {
		return "", f.completeErr
	}
	return f.completeReply, nil
}

func testCfg() common.ExtractConfig {
	return common.ExtractConfig{DPI: 72, MaxStructChars: 8000, OCRMaxAttempts: 3}
}

const goodTranscript = "Deep learning for crop disease detection\nJichen Tian, Wei Zhang\nReceived 14 March 2024, Accepted 20 May 2024"

func TestRecognizeFirstAttemptOK(t *testing.T) {
	chat := &fakeChat{visionReplies: []string{goodTranscript}}
	p := NewPipeline(chat, chat, testCfg(), nil)

	text, warnings, err := p.Recognize(context.Background(), "data:image/jpeg;base64,x")
	require.NoError(t, err)
	assert.Equal(t, goodTranscript, text)
	assert.Empty(t, warnings)
	assert.Equal(t, 1, chat.visionCalls)
}

func TestRecognizeRetriesPastDegenerate(t *testing.T) {
	chat := &fakeChat{visionReplies: []string{strings.Repeat("一", 80), goodTranscript}}
	p := NewPipeline(chat, chat, testCfg(), nil)

	text, warnings, err := p.Recognize(context.Background(), "data:image/jpeg;base64,x")
	require.NoError(t, err)
	assert.Equal(t, goodTranscript, text)
	assert.Equal(t, 2, chat.visionCalls)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "degenerate")
}

func TestRecognizeKeepsLastWhenAllDegenerate(t *testing.T) {
	noise := strings.Repeat("-", 120)
	chat := &fakeChat{visionReplies: []string{noise}}
	p := NewPipeline(chat, chat, testCfg(), nil)

	text, warnings, err := p.Recognize(context.Background(), "data:image/jpeg;base64,x")
	require.NoError(t, err)
	assert.Equal(t, noise, text)
	assert.Equal(t, 3, chat.visionCalls)
	assert.Contains(t, warnings[len(warnings)-1], "keeping last output")
}

func TestRecognizeFinalAttemptErrorPropagates(t *testing.T) {
	boom := errors.New("upstream 502")
	cfg := testCfg()
	cfg.OCRMaxAttempts = 2
	chat := &fakeChat{visionErrs: []error{boom, boom}}
	p := NewPipeline(chat, chat, cfg, nil)

	_, warnings, err := p.Recognize(context.Background(), "data:image/jpeg;base64,x")
	assert.ErrorIs(t, err, boom)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "attempt 1 failed")
}

func TestRecognizeUnwrapsEnvelope(t *testing.T) {
	chat := &fakeChat{visionReplies: []string{`{"text": "` + goodTranscript[:40] + ` and more transcript text to pass the length floor"}`}}
	p := NewPipeline(chat, chat, testCfg(), nil)

	text, _, err := p.Recognize(context.Background(), "data:image/jpeg;base64,x")
	require.NoError(t, err)
	assert.False(t, strings.HasPrefix(text, "{"))
}

func TestStructureHappyPath(t *testing.T) {
	chat := &fakeChat{completeReply: "```json\n" + `{
		"document_type": "论文首页",
		"title": "Deep learning for crop disease detection",
		"first_author": "Jichen Tian",
		"is_co_first": false,
		"authors": "Jichen Tian, Wei Zhang",
		"dates": {"received": "2024-03-14", "received_in_revised": "Not mentioned", "accepted": "2024-05-20", "available_online": ""},
		"confidence_note": ""
	}` + "\n```"}
	p := NewPipeline(chat, chat, testCfg(), nil)

	fields, ok, reason := p.Structure(context.Background(), goodTranscript)
	require.True(t, ok, reason)
	assert.Equal(t, "Deep learning for crop disease detection", fields.Title)
	assert.Equal(t, "Jichen Tian", fields.FirstAuthor)
	assert.Equal(t, "2024-03-14", fields.Dates.Received)
	assert.Empty(t, fields.Dates.ReceivedInRevised)
	assert.Contains(t, chat.lastUser, "OCR文本如下")
}

func TestStructureDegradesOnGarbage(t *testing.T) {
	chat := &fakeChat{completeReply: "I could not find any structured information on this page."}
	p := NewPipeline(chat, chat, testCfg(), nil)

	_, ok, reason := p.Structure(context.Background(), goodTranscript)
	assert.False(t, ok)
	assert.Contains(t, reason, "json_parse_failed")
}

func TestStructureDegradesOnCallFailure(t *testing.T) {
	chat := &fakeChat{completeErr: errors.New("timeout")}
	p := NewPipeline(chat, chat, testCfg(), nil)

	_, ok, reason := p.Structure(context.Background(), goodTranscript)
	assert.False(t, ok)
	assert.Contains(t, reason, "structuring call failed")
}

func TestStructureTruncatesTranscript(t *testing.T) {
	cfg := testCfg()
	cfg.MaxStructChars = 100
	chat := &fakeChat{completeReply: `{"title": "A title that is long enough", "first_author": "Jichen Tian"}`}
	p := NewPipeline(chat, chat, cfg, nil)

	long := strings.Repeat("transcript body ", 200)
	_, ok, _ := p.Structure(context.Background(), long)
	require.True(t, ok)
	idx := strings.Index(chat.lastUser, "OCR文本如下：\n")
	require.GreaterOrEqual(t, idx, 0)
	sent := chat.lastUser[idx+len("OCR文本如下：\n"):]
	assert.LessOrEqual(t, len([]rune(sent)), 100)
}

func TestStructureEmptyTranscript(t *testing.T) {
	chat := &fakeChat{}
	p := NewPipeline(chat, chat, testCfg(), nil)

	_, ok, reason := p.Structure(context.Background(), "   \n  ")
	assert.False(t, ok)
	assert.Equal(t, "empty transcript", reason)
}

type fakeRunner struct {
	err error
}

func (f fakeRunner) Run(_ context.Context, _ string, args ...string) ([]byte, []byte, error) {
	if f.err != nil {
		return nil, []byte("render failed"), f.err
	}
	prefix := args[len(args)-1]
	if err := os.WriteFile(prefix+"-1.jpg", []byte("jpegbytes"), 0o644); err != nil {
		return nil, nil, err
	}
	return nil, nil, nil
}

func TestRenderFirstPage(t *testing.T) {
	url, err := RenderFirstPage(context.Background(), fakeRunner{}, 300, "/tmp/in.pdf")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "data:image/jpeg;base64,"))
}

func TestRenderFirstPageCommandError(t *testing.T) {
	_, err := RenderFirstPage(context.Background(), fakeRunner{err: errors.New("exit 1")}, 300, "/tmp/in.pdf")
	assert.Error(t, err)
}
