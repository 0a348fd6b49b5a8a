package comfyui

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// RelayArtifact downloads the artifact behind a view URL from the ComfyUI
// server and re-uploads it to durable storage under a fresh unique key,
// returning the public URL. The rename guards against collisions when the
// same remote artifact is relayed more than once. Either both halves succeed
// or an error propagates with nothing persisted.
func (s *Service) RelayArtifact(ctx context.Context, viewURL string) (string, error) {
	ref, err := url.Parse(viewURL)
	if err != nil {
		return "", fmt.Errorf("%w: invalid artifact reference: %v", ErrDownload, err)
	}
	name := ref.Query().Get("filename")
	if name == "" {
		return "", fmt.Errorf("%w: artifact reference has no filename", ErrDownload)
	}
	key := objectKey(name)

	data, err := s.client.Download(ctx, viewURL)
	if err != nil {
		return "", err
	}

	publicURL, err := s.store.Upload(ctx, key, data, contentTypeFor(key))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}

	slog.Info("Relayed artifact to durable storage", "key", key, "bytes", len(data))
	return publicURL, nil
}

// objectKey composes a fresh storage key from the remote filename: the stem
// keeps its original form and a random suffix is inserted before the
// extension, e.g. "ComfyUI_01715_.png" -> "ComfyUI_01715_-<uuid>.png".
func objectKey(name string) string {
	stem, ext := name, ""
	if i := strings.LastIndex(name, "."); i >= 0 {
		stem, ext = name[:i], name[i:]
	}
	return stem + "-" + uuid.NewString() + ext
}

func contentTypeFor(key string) string {
	if i := strings.LastIndex(key, "."); i >= 0 {
		if ct := mime.TypeByExtension(key[i:]); ct != "" {
			return ct
		}
	}
	return "application/octet-stream"
}
