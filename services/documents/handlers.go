package documents

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"comfyui-gateway/storage"
	"comfyui-gateway/web"
)

type Service struct {
	store storage.Uploader
}

func NewService(store storage.Uploader) *Service {
	return &Service{store: store}
}

func (s *Service) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/documents/convert", s.HandleConvert).Methods(http.MethodPost)
}

type ConvertResponse struct {
	UploadedFileURL  string `json:"uploaded_file_url"`
	FileName         string `json:"file_name"`
	ConvertedContent string `json:"converted_content,omitempty"`
}

// HandleConvert converts the posted document and uploads the result to
// durable storage under a timestamped name.
func (s *Service) HandleConvert(w http.ResponseWriter, r *http.Request) {
	var doc DocumentInput
	if err := web.Decode(r, &doc); err != nil {
		web.Detail(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	doc.applyDefaults()
	if doc.Content == "" {
		web.Detail(w, http.StatusBadRequest, "content is required")
		return
	}

	converted, contentType, err := convert(doc)
	if err != nil {
		if errors.Is(err, ErrUnsupportedInput) || errors.Is(err, ErrUnsupportedOutput) {
			web.Detail(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("Document conversion failed", "error", err)
		web.Detail(w, http.StatusInternalServerError, err.Error())
		return
	}

	fileName := fmt.Sprintf("converted_%s.%s", time.Now().UTC().Format("20060102_150405"), doc.OutputFormat)
	fileURL, err := s.store.Upload(r.Context(), fileName, converted, contentType)
	if err != nil {
		slog.Error("Failed to upload converted document", "file", fileName, "error", err)
		web.Detail(w, http.StatusInternalServerError, "failed to upload converted document")
		return
	}

	web.JSON(w, http.StatusOK, ConvertResponse{
		UploadedFileURL:  fileURL,
		FileName:         fileName,
		ConvertedContent: string(converted),
	})
}
