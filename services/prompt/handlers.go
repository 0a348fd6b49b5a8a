package prompt

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"comfyui-gateway/storage"
	"comfyui-gateway/web"
)

type Service struct {
	generator ImageGenerator
	store     storage.Uploader
}

func NewService(generator ImageGenerator, store storage.Uploader) *Service {
	return &Service{generator: generator, store: store}
}

func (s *Service) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/prompt/image", s.HandleImagePrompt).Methods(http.MethodPost)
}

type ImageRequest struct {
	Prompt string `json:"prompt"`
	Model  string `json:"model,omitempty"`
	Size   string `json:"size,omitempty"`
	N      int    `json:"n,omitempty"`
}

type ImageResponse struct {
	OriginalPrompt string   `json:"original_prompt"`
	ImageURLs      []string `json:"image_urls"`
	Message        string   `json:"message,omitempty"`
}

// HandleImagePrompt generates images from a natural language prompt and
// relays them into durable storage, answering with their public URLs.
// Provider-hosted URLs expire, so byte responses are preferred and persisted.
func (s *Service) HandleImagePrompt(w http.ResponseWriter, r *http.Request) {
	var req ImageRequest
	if err := web.Decode(r, &req); err != nil {
		web.Detail(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if req.Prompt == "" {
		web.Detail(w, http.StatusBadRequest, "prompt is required")
		return
	}

	generated, err := s.generator.Generate(r.Context(), req.Prompt, req.Model, req.Size, req.N)
	if err != nil {
		if errors.Is(err, ErrUnsupportedModel) {
			web.Detail(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("Image generation failed", "error", err)
		web.Detail(w, http.StatusBadGateway, "image generation failed")
		return
	}

	urls := make([]string, 0, len(generated))
	for _, img := range generated {
		if img.Data == nil {
			urls = append(urls, img.URL)
			continue
		}
		fileName := fmt.Sprintf("generated_%s.png", uuid.NewString())
		url, err := s.store.Upload(r.Context(), fileName, img.Data, "image/png")
		if err != nil {
			slog.Error("Failed to upload generated image", "file", fileName, "error", err)
			web.Detail(w, http.StatusInternalServerError, "failed to store generated image")
			return
		}
		urls = append(urls, url)
	}

	web.JSON(w, http.StatusOK, ImageResponse{
		OriginalPrompt: req.Prompt,
		ImageURLs:      urls,
		Message:        fmt.Sprintf("Generated %d image(s)", len(urls)),
	})
}
