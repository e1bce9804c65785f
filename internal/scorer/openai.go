package scorer

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIConfig configures the transcription-backed scorer.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// OpenAIScorer scores attempts by transcribing the recording with the
// OpenAI audio API and comparing the transcript to the expected text.
// OpenAI-compatible endpoints work via BaseURL.
type OpenAIScorer struct {
	client *openai.Client
	model  string
}

// NewOpenAIScorer creates the scorer.
func NewOpenAIScorer(cfg OpenAIConfig) (*OpenAIScorer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = openai.Whisper1
	}
	return &OpenAIScorer{client: openai.NewClientWithConfig(config), model: model}, nil
}

func (s *OpenAIScorer) Score(ctx context.Context, req Request) (*Result, error) {
	transcript := req.Transcript
	if transcript == "" {
		resp, err := s.client.CreateTranscription(ctx, openai.AudioRequest{
			Model:    s.model,
			FilePath: req.AudioPath,
			Language: "ar",
		})
		if err != nil {
			return nil, classifyErr(err)
		}
		transcript = resp.Text
	}
	result := scoreTranscript(transcript, req.ExpectedText)
	return &result, nil
}

// classifyErr maps API failures onto the retryable sentinels.
func classifyErr(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %v", ErrRateLimited, err)
		case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}
	return err
}
