package enricher

import (
	"context"
	"fmt"
	"strings"

	"github.com/txnlens/txnlens/internal/enricherror"
	"github.com/txnlens/txnlens/internal/logging"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiClient implements the AIClient interface against the Google Gemini API.
type GeminiClient struct {
	client      *genai.Client
	model       string
	temperature float32
	logger      logging.Logger
}

// NewGeminiClient creates a Gemini-backed AIClient. Temperature is kept low
// (default 0.1) so repeated categorizations of the same transaction agree.
func NewGeminiClient(ctx context.Context, apiKey, model string, temperature float64, logger logging.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key not set")
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiClient{
		client:      client,
		model:       model,
		temperature: float32(temperature),
		logger:      logger,
	}, nil
}

// Complete sends one chat request and returns the raw text of the first
// candidate. The response format is pinned to JSON via the response MIME
// type; an empty candidate yields EmptyResponseError. No retries here.
func (c *GeminiClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(c.temperature)
	model.SetMaxOutputTokens(int32(req.MaxOutputTokens))
	model.ResponseMIMEType = "application/json"
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(req.System)},
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.User))
	if err != nil {
		return "", fmt.Errorf("gemini api error: %w", err)
	}

	text := candidateText(resp)
	if text == "" {
		return "", &enricherror.EmptyResponseError{Model: c.model}
	}

	c.logger.Debug("Received model response",
		logging.Field{Key: logging.FieldModel, Value: c.model},
		logging.Field{Key: logging.FieldCount, Value: len(text)})
	return text, nil
}

// Close releases the underlying API client.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// candidateText concatenates the text parts of the first candidate.
func candidateText(resp *genai.GenerateContentResponse) string {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return strings.TrimSpace(b.String())
}
