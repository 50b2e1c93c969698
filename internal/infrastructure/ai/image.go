package ai

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	characterModel "scenes-backend/internal/domains/character/model"
	sceneModel "scenes-backend/internal/domains/scene/model"
	"scenes-backend/internal/shared"
)

// ImageUploader stores re-hosted images; *storage.MinIOStorage satisfies it.
type ImageUploader interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// ImageNormalizer prepares raw generator output for storage.
type ImageNormalizer interface {
	Normalize(data []byte) ([]byte, error)
}

// ImageGenerator illustrates captions. With an uploader it re-hosts the
// image in object storage, otherwise it returns the provider URL.
type ImageGenerator struct {
	client     *openai.Client
	model      string
	size       string
	uploader   ImageUploader
	normalizer ImageNormalizer
}

func NewImageGenerator(client *openai.Client, model, size string, uploader ImageUploader, normalizer ImageNormalizer) *ImageGenerator {
	return &ImageGenerator{
		client:     client,
		model:      model,
		size:       size,
		uploader:   uploader,
		normalizer: normalizer,
	}
}

func (g *ImageGenerator) rehost() bool {
	return g.uploader != nil
}

func (g *ImageGenerator) GenerateImage(ctx context.Context, caption string, character *characterModel.Character) (*sceneModel.GeneratedImage, error) {
	started := time.Now()

	format := openai.CreateImageResponseFormatURL
	if g.rehost() {
		format = openai.CreateImageResponseFormatB64JSON
	}

	resp, err := g.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         imagePrompt(caption, character),
		Model:          g.model,
		N:              1,
		Size:           g.size,
		ResponseFormat: format,
	})
	if err != nil {
		observeFailure(generatorImage, g.model, "error")
		log.Error().Err(err).Str("model", g.model).Dur("duration", time.Since(started)).Msg("[AI] Image request failed")
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	if len(resp.Data) == 0 {
		observeFailure(generatorImage, g.model, "error_empty_response")
		return nil, fmt.Errorf("%w: no images", ErrEmptyResponse)
	}

	if !g.rehost() {
		if resp.Data[0].URL == "" {
			observeFailure(generatorImage, g.model, "error_empty_response")
			return nil, fmt.Errorf("%w: no image url", ErrEmptyResponse)
		}
		observeSuccess(generatorImage, g.model, started)
		return &sceneModel.GeneratedImage{URL: resp.Data[0].URL}, nil
	}

	image, err := g.store(ctx, resp.Data[0].B64JSON)
	if err != nil {
		observeFailure(generatorImage, g.model, "error_rehost")
		return nil, err
	}

	observeSuccess(generatorImage, g.model, started)
	log.Debug().Str("key", image.Key).Msg("[AI] Image re-hosted")
	return image, nil
}

// store decodes, normalises and uploads the image under scenes/<uuid>.jpg.
func (g *ImageGenerator) store(ctx context.Context, b64 string) (*sceneModel.GeneratedImage, error) {
	if b64 == "" {
		return nil, fmt.Errorf("%w: no image data", ErrEmptyResponse)
	}

	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	if g.normalizer != nil {
		if raw, err = g.normalizer.Normalize(raw); err != nil {
			return nil, fmt.Errorf("normalize image: %w", err)
		}
	}

	key := shared.SceneImagePrefix + uuid.NewString() + ".jpg"
	url, err := g.uploader.Upload(ctx, key, raw, "image/jpeg")
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}

	return &sceneModel.GeneratedImage{URL: url, Key: key}, nil
}

func imagePrompt(caption string, character *characterModel.Character) string {
	var b strings.Builder
	b.WriteString("An illustrated scene. ")
	if character != nil {
		fmt.Fprintf(&b, "The main character is %s", character.Name)
		if character.Description != "" {
			fmt.Fprintf(&b, ", %s", character.Description)
		}
		b.WriteString(". ")
	}
	b.WriteString(caption)
	return b.String()
}
