package summarizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
)

const DefaultModel = "gpt-4o-mini"

// OpenAIModel calls OpenAI's Responses API with temperature 0 and no
// retries.
type OpenAIModel struct {
	model   string
	baseURL string
	keys    KeySource
}

// NewOpenAIModel builds a model; baseURL may be empty for the public API.
func NewOpenAIModel(model string, baseURL string, keys KeySource) *OpenAIModel {
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}

	return &OpenAIModel{
		model:   model,
		baseURL: strings.TrimSpace(baseURL),
		keys:    keys,
	}
}

func (m *OpenAIModel) Complete(ctx context.Context, prompt string) (string, error) {
	apiKey := ""
	if m.keys != nil {
		apiKey = strings.TrimSpace(m.keys())
	}
	if apiKey == "" {
		return "", ErrMissingCredential
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if m.baseURL != "" {
		opts = append(opts, option.WithBaseURL(m.baseURL))
	}

	client := openai.NewClient(opts...)

	resp, err := client.Responses.New(ctx, responses.ResponseNewParams{
		Model:       m.model,
		Temperature: openai.Float(0),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}

	if resp.Status == "incomplete" {
		return "", fmt.Errorf("response is incomplete (reason = %s)", resp.IncompleteDetails.Reason)
	}

	text := strings.TrimSpace(resp.OutputText())
	if text == "" {
		return "", fmt.Errorf("output text is missing (status = %s)", resp.Status)
	}

	return text, nil
}
