package comfyui

import (
	"net/http"

	"github.com/gorilla/mux"

	"comfyui-gateway/storage"
)

// Service sequences the workflow pipeline per request: fetch template, patch,
// submit; and separately history, locate, relay. The two halves are decoupled
// because the remote execution is itself asynchronous.
type Service struct {
	client *Client
	store  storage.Uploader
}

func NewService(client *Client, store storage.Uploader) *Service {
	return &Service{client: client, store: store}
}

func (s *Service) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/comfyui/expandImage", s.HandleExpandImage).Methods(http.MethodPost)
	r.HandleFunc("/comfyui/expandImageResult", s.HandleExpandImageResult).Methods(http.MethodPost)
}
