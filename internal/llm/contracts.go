package llm

import (
	"context"
	"strings"
)

// ChatClient lets us stub the remote model in tests.
type ChatClient interface {
	// Vision sends one user message carrying a text prompt and an image
	// data URL, and returns the reply text.
	Vision(ctx context.Context, prompt, imageDataURL string) (string, error)
	// Complete sends a system + user text exchange and returns the reply.
	Complete(ctx context.Context, system, user string) (string, error)
}

// NotMentioned is the sentinel the structuring model uses for absent fields.
const NotMentioned = "Not mentioned"

// Fields is the structured extraction of one document page.
type Fields struct {
	DocumentType   string     `json:"document_type"`
	Title          string     `json:"title"`
	FirstAuthor    string     `json:"first_author"`
	IsCoFirst      bool       `json:"is_co_first"`
	Authors        string     `json:"authors"`
	Dates          FieldDates `json:"dates"`
	ConfidenceNote string     `json:"confidence_note"`
}

// FieldDates carries the lifecycle dates the structuring model extracts.
type FieldDates struct {
	Received          string `json:"received"`
	ReceivedInRevised string `json:"received_in_revised"`
	Accepted          string `json:"accepted"`
	AvailableOnline   string `json:"available_online"`
}

// Mentioned reports whether a structured field holds a real value rather
// than the absence sentinel or whitespace.
func Mentioned(s string) bool {
	t := strings.TrimSpace(s)
	return t != "" && !strings.EqualFold(t, NotMentioned)
}
