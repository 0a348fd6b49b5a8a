package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is the full process configuration, loaded once at startup from the
// environment and injected into the services that need it.
type Config struct {
	Server   Server
	Database Database
	ComfyUI  ComfyUI
	Storage  Storage
	OpenAI   OpenAI
}

type Server struct {
	Addr            string        `envconfig:"SERVER_ADDR" default:":8000"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

type Database struct {
	URL string `envconfig:"DATABASE_URL" required:"true"`
}

// ComfyUI holds the remote image-processing service settings. Username and
// password are optional; when both are set every request carries basic auth.
type ComfyUI struct {
	BaseURL         string        `envconfig:"COMFYUI_BASE_URL" default:"https://comfyui.buildschool.dev"`
	Username        string        `envconfig:"COMFYUI_USERNAME"`
	Password        string        `envconfig:"COMFYUI_PASSWORD"`
	WorkflowJSONURL string        `envconfig:"COMFYUI_WORKFLOW_JSON_URL" default:"https://raw.githubusercontent.com/dannwu966/style/refs/heads/main/imgurl_outpainting.json"`
	RequestTimeout  time.Duration `envconfig:"COMFYUI_REQUEST_TIMEOUT" default:"60s"`
}

// Storage points at the S3-compatible R2 bucket used for durable artifacts.
type Storage struct {
	AccessKeyID     string `envconfig:"R2_ACCESS_KEY_ID"`
	SecretAccessKey string `envconfig:"R2_SECRET_ACCESS_KEY"`
	EndpointURL     string `envconfig:"R2_ENDPOINT_URL"`
	Bucket          string `envconfig:"R2_BUCKET_NAME"`
	PublicURL       string `envconfig:"R2_PUBLIC_URL"`
}

type OpenAI struct {
	APIKey string `envconfig:"OPENAI_API_KEY"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("error processing environment configuration: %w", err)
	}
	return &cfg, nil
}
