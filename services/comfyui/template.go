package comfyui

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// FetchTemplate retrieves the expand-image workflow template from the
// configured URL. The location comes from configuration, never from the
// caller, so this cannot be turned into an arbitrary fetch. A single GET, no
// retries: a non-2xx status or a malformed body fails loudly.
func (c *Client) FetchTemplate(ctx context.Context) (Graph, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.templateURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplate, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplate, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d", ErrTemplate, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplate, err)
	}

	var g Graph
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON format: %v", ErrTemplate, err)
	}

	slog.Info("Fetched workflow template", "url", c.templateURL, "nodes", len(g))
	return g, nil
}
