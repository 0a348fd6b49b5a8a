package comfyui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"comfyui-gateway/config"
)

const defaultClientID = "api-server"

// Client is the remote execution client for the ComfyUI service. It rides on
// a single long-lived *http.Client constructed at process startup and shared
// across concurrent requests; each call is otherwise independent and
// stateless. No call is ever retried here.
type Client struct {
	http        *http.Client
	baseURL     string
	templateURL string
	username    string
	password    string
}

func NewClient(httpClient *http.Client, cfg config.ComfyUI) *Client {
	return &Client{
		http:        httpClient,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		templateURL: cfg.WorkflowJSONURL,
		username:    cfg.Username,
		password:    cfg.Password,
	}
}

// BaseURL returns the remote service's base address, used to compose
// artifact view URLs.
func (c *Client) BaseURL() string { return c.baseURL }

// Request is the generic primitive behind every ComfyUI API call: it issues
// method against baseURL+path with an optional JSON body and decodes the JSON
// response. Error conditions are normalized into the package taxonomy.
func (c *Client) Request(ctx context.Context, method, path string, body any) (map[string]any, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to encode request body: %v", ErrRemote, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemote, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		slog.Error("ComfyUI API request failed", "method", method, "path", path, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrUnavailable, err)
	}
	if resp.StatusCode >= 400 {
		return nil, c.statusError(resp.StatusCode, raw)
	}

	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON response: %v", ErrRemote, err)
	}
	return out, nil
}

// SubmitPrompt posts the patched graph for asynchronous execution and returns
// the run identifier assigned by ComfyUI together with the raw response. A
// 2xx response without a prompt_id is a distinct failure: the remote accepted
// the call but gave a structurally invalid answer.
func (c *Client) SubmitPrompt(ctx context.Context, g Graph, clientID string) (string, map[string]any, error) {
	if clientID == "" {
		clientID = defaultClientID
	}
	result, err := c.Request(ctx, http.MethodPost, "/prompt", map[string]any{
		"prompt":    g,
		"client_id": clientID,
	})
	if err != nil {
		return "", nil, err
	}

	promptID, ok := result["prompt_id"].(string)
	if !ok || promptID == "" {
		return "", nil, ErrMissingPromptID
	}
	return promptID, result, nil
}

// History fetches the raw execution-history document for a run identifier.
func (c *Client) History(ctx context.Context, promptID string) (map[string]any, error) {
	return c.Request(ctx, http.MethodGet, "/history/"+promptID, nil)
}

// Download fetches raw bytes from an absolute URL on the ComfyUI server
// (artifacts are images, bounded in size, read fully into memory).
func (c *Client) Download(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownload, err)
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrDownload, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownload, err)
	}
	return data, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.username != "" && c.password != "" {
		req.SetBasicAuth(c.username, c.password)
	}
}

func (c *Client) statusError(status int, body []byte) error {
	var kind error
	switch status {
	case http.StatusUnauthorized:
		kind = ErrUnauthorized
	case http.StatusForbidden:
		kind = ErrForbidden
	case http.StatusNotFound:
		kind = ErrNotFound
	default:
		kind = ErrRemote
	}
	slog.Error("ComfyUI API error", "status", status, "body", string(body))
	return &RemoteError{Status: status, Body: string(body), kind: kind}
}
