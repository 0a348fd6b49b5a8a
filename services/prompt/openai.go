package prompt

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
)

var ErrUnsupportedModel = errors.New("unsupported image model")

// ImageGenerator produces images from a natural language prompt. Implemented
// by OpenAIGenerator; handlers depend on the interface so tests can fake it.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt, model, size string, count int) ([]GeneratedImage, error)
}

// GeneratedImage carries either raw bytes (b64 responses) or a remote URL.
type GeneratedImage struct {
	Data []byte
	URL  string
}

type OpenAIGenerator struct {
	client openai.Client
}

func NewOpenAIGenerator(client openai.Client) *OpenAIGenerator {
	return &OpenAIGenerator{client: client}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, prompt, model, size string, count int) ([]GeneratedImage, error) {
	params := openai.ImageGenerateParams{
		Prompt: prompt,
		Model:  openai.ImageModelDallE3,
	}

	switch model {
	case "", "dall-e-3":
		params.Model = openai.ImageModelDallE3
	case "dall-e-2":
		params.Model = openai.ImageModelDallE2
	case "gpt-image-1":
		params.Model = openai.ImageModelGPTImage1
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedModel, model)
	}

	if size != "" {
		params.Size = openai.ImageGenerateParamsSize(size)
	}
	if count > 0 {
		params.N = openai.Int(int64(count))
	} else {
		params.N = openai.Int(1)
	}

	// gpt-image-1 always answers with base64; the DALL-E models need to be
	// asked for it explicitly
	if params.Model != openai.ImageModelGPTImage1 {
		params.ResponseFormat = openai.ImageGenerateParamsResponseFormatB64JSON
	}

	response, err := g.client.Images.Generate(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("error generating image: %w", err)
	}
	if len(response.Data) == 0 {
		return nil, errors.New("no images were generated")
	}

	images := make([]GeneratedImage, 0, len(response.Data))
	for _, item := range response.Data {
		img := GeneratedImage{URL: item.URL}
		if item.B64JSON != "" {
			data, err := base64.StdEncoding.DecodeString(item.B64JSON)
			if err != nil {
				return nil, fmt.Errorf("failed to decode generated image: %w", err)
			}
			img.Data = data
		}
		images = append(images, img)
	}
	return images, nil
}
