package storage

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"comfyui-gateway/config"
)

// Uploader persists an object under key and returns its public URL.
// Implemented by R2; handlers depend on the interface so tests can fake it.
type Uploader interface {
	Upload(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

// R2 talks to an S3-compatible bucket (Cloudflare R2 in production). Objects
// are written once, publicly readable, and never mutated or deleted here.
type R2 struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func NewR2(cfg config.Storage) (*R2, error) {
	endpoint, err := url.Parse(cfg.EndpointURL)
	if err != nil {
		return nil, fmt.Errorf("invalid R2 endpoint URL: %w", err)
	}

	client, err := minio.New(endpoint.Host, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: endpoint.Scheme != "http",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create R2 client: %w", err)
	}

	return &R2{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
	}, nil
}

func (r *R2) Upload(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	opts := minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: map[string]string{"x-amz-acl": "public-read"},
	}
	_, err := r.client.PutObject(ctx, r.bucket, key, bytes.NewReader(body), int64(len(body)), opts)
	if err != nil {
		return "", fmt.Errorf("failed to upload to R2: %w", err)
	}

	fileURL := r.publicURL + "/" + key
	slog.Info("File uploaded to R2", "url", fileURL)
	return fileURL, nil
}
