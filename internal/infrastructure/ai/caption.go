package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	characterModel "scenes-backend/internal/domains/character/model"
)

const captionSystemPrompt = `You write captions for illustrated scenes starring a recurring character.
Given the character and a scene idea, reply with one vivid caption of at most two sentences.
Reply with the caption only: no quotes, no preamble.`

// CaptionGenerator writes scene captions with a chat completion model.
type CaptionGenerator struct {
	client    *openai.Client
	model     string
	maxTokens int
}

func NewCaptionGenerator(client *openai.Client, model string, maxTokens int) *CaptionGenerator {
	return &CaptionGenerator{
		client:    client,
		model:     model,
		maxTokens: maxTokens,
	}
}

// GenerateCaption returns the model's caption as-is, trimmed. An empty
// caption is not an error here; callers decide what to do with it.
func (g *CaptionGenerator) GenerateCaption(ctx context.Context, prompt string, character *characterModel.Character) (string, error) {
	started := time.Now()

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: captionSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: captionUserPrompt(prompt, character)},
		},
		MaxTokens: g.maxTokens,
	})
	if err != nil {
		observeFailure(generatorCaption, g.model, "error")
		log.Error().Err(err).Str("model", g.model).Dur("duration", time.Since(started)).Msg("[AI] Caption request failed")
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	if len(resp.Choices) == 0 {
		observeFailure(generatorCaption, g.model, "error_empty_response")
		return "", fmt.Errorf("%w: no choices", ErrEmptyResponse)
	}

	observeSuccess(generatorCaption, g.model, started)
	aiTotalTokens.WithLabelValues(g.model).Observe(float64(resp.Usage.TotalTokens))

	caption := strings.TrimSpace(resp.Choices[0].Message.Content)
	log.Debug().
		Str("model", g.model).
		Int("tokens", resp.Usage.TotalTokens).
		Int("caption_len", len(caption)).
		Msg("[AI] Caption generated")
	return caption, nil
}

func captionUserPrompt(prompt string, character *characterModel.Character) string {
	var b strings.Builder
	if character != nil {
		fmt.Fprintf(&b, "Character: %s\n", character.Name)
		if character.Description != "" {
			fmt.Fprintf(&b, "About the character: %s\n", character.Description)
		}
	}
	fmt.Fprintf(&b, "Scene idea: %s", prompt)
	return b.String()
}
