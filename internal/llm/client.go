package llm

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"

	"github.com/mxchen-dev/paperproof/internal/common"
)

var errNoContent = errors.New("no content in response")

// Client talks to an OpenAI-compatible chat-completions endpoint.
type Client struct {
	api    *openai.Client
	cfg    common.ModelConfig
	logger *slog.Logger
}

// NewClient validates the endpoint settings and builds a client. The
// endpoint is fixed at construction; callers inject the client rather than
// resolving configuration lazily.
func NewClient(cfg common.ModelConfig, logger *slog.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, common.ConfigError("model base URL is required")
	}
	if cfg.APIKey == "" {
		return nil, common.ConfigError("model API key is required")
	}
	if cfg.Model == "" {
		return nil, common.ConfigError("model name is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	oc.BaseURL = cfg.BaseURL
	return &Client{api: openai.NewClientWithConfig(oc), cfg: cfg, logger: logger}, nil
}

// Vision sends a text prompt plus an image data URL in one user message.
func (c *Client) Vision(ctx context.Context, prompt, imageDataURL string) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: prompt},
				{
					Type: openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{
						URL:    imageDataURL,
						Detail: openai.ImageURLDetailHigh,
					},
				},
			},
		},
	}
	return c.send(ctx, "llm.vision", messages)
}

// Complete sends a plain text exchange.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: system},
		{Role: openai.ChatMessageRoleUser, Content: user},
	}
	return c.send(ctx, "llm.complete", messages)
}

// newRequest builds the chat request. The request temperature must survive
// JSON serialization even when it is zero, see requestTemperature.
func (c *Client) newRequest(messages []openai.ChatCompletionMessage) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: requestTemperature(c.cfg.Temperature),
		MaxTokens:   c.cfg.MaxTokens,
	}
}

// requestTemperature maps a zero temperature to the smallest nonzero
// float32. The request struct tags temperature omitempty, so a literal 0
// would be dropped from the body and the server default (usually 1) would
// apply instead of the deterministic sampling the pipeline needs.
func requestTemperature(t float32) float32 {
	if t == 0 {
		return math.SmallestNonzeroFloat32
	}
	return t
}

func (c *Client) send(ctx context.Context, event string, messages []openai.ChatCompletionMessage) (string, error) {
	reqID := common.RequestIDFromContext(ctx)
	if reqID == "" {
		reqID = uuid.NewString()
	}
	start := time.Now()
	c.logger.Debug(event+".start", "req_id", reqID, "model", c.cfg.Model)

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, c.newRequest(messages))
	elapsed := time.Since(start).Milliseconds()
	if err != nil {
		c.logger.Error(event+".error", "req_id", reqID, "elapsed_ms", elapsed, "error", err)
		return "", common.TransientError("chat completion failed", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		c.logger.Error(event+".empty", "req_id", reqID, "elapsed_ms", elapsed)
		return "", common.TransientError("chat completion returned no content", errNoContent)
	}

	content := resp.Choices[0].Message.Content
	c.logger.Info(event+".ok",
		"req_id", reqID,
		"elapsed_ms", elapsed,
		"content_chars", len(content),
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
	)
	return content, nil
}
