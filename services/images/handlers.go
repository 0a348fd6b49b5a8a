package images

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"comfyui-gateway/storage"
	"comfyui-gateway/web"
)

// matches a data URI prefix like "data:image/png;base64,"
var dataURIPrefix = regexp.MustCompile(`^data:[^,]+,`)

type Service struct {
	store storage.Uploader
}

func NewService(store storage.Uploader) *Service {
	return &Service{store: store}
}

func (s *Service) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/images/upload", s.HandleUpload).Methods(http.MethodPost)
}

type UploadRequest struct {
	Images []string `json:"images"` // base64-encoded image strings
}

type UploadResponse struct {
	URLs []string `json:"urls"`
}

// HandleUpload decodes each base64 image and stores it under a unique key.
// Any malformed entry fails the whole request.
func (s *Service) HandleUpload(w http.ResponseWriter, r *http.Request) {
	var req UploadRequest
	if err := web.Decode(r, &req); err != nil {
		web.Detail(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if len(req.Images) == 0 {
		web.Detail(w, http.StatusBadRequest, "images is required")
		return
	}

	urls := make([]string, 0, len(req.Images))
	for i, encoded := range req.Images {
		encoded = dataURIPrefix.ReplaceAllString(encoded, "")
		data, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			web.Detail(w, http.StatusBadRequest, fmt.Sprintf("failed to process image %d: %v", i, err))
			return
		}

		id := uuid.New()
		fileName := fmt.Sprintf("image_%s.png", hex.EncodeToString(id[:]))
		url, err := s.store.Upload(r.Context(), fileName, data, "image/png")
		if err != nil {
			slog.Error("Failed to upload image", "file", fileName, "error", err)
			web.Detail(w, http.StatusInternalServerError, "failed to upload image")
			return
		}
		urls = append(urls, url)
	}

	web.JSON(w, http.StatusOK, UploadResponse{URLs: urls})
}
