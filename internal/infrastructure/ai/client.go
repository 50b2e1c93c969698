package ai

import (
	"errors"

	openai "github.com/sashabaranov/go-openai"

	"scenes-backend/internal/config"
)

var (
	ErrGenerationFailed = errors.New("ai generation failed")
	ErrEmptyResponse    = errors.New("ai returned an empty response")
)

// NewClient builds an OpenAI client; BaseURL switches it to any
// OpenAI-compatible endpoint.
func NewClient(cfg config.OpenAIConfig) *openai.Client {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return openai.NewClientWithConfig(clientConfig)
}
