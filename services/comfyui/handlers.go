package comfyui

import (
	"errors"
	"log/slog"
	"net/http"

	"comfyui-gateway/web"
)

// request / response payloads

type ExpandImageRequest struct {
	ImageURL string `json:"image_url"`
	ClientID string `json:"client_id,omitempty"`

	// node "15" (ImagePadForOutpaint)
	Left   *int `json:"left,omitempty"`
	Top    *int `json:"top,omitempty"`
	Right  *int `json:"right,omitempty"`
	Bottom *int `json:"bottom,omitempty"`

	// node "21" (ImageResize+)
	Width  *int `json:"width,omitempty"`
	Height *int `json:"height,omitempty"`
}

type ExpandImageResponse struct {
	Status   string         `json:"status"`
	Result   map[string]any `json:"result"`
	PromptID string         `json:"prompt_id"`
	Message  string         `json:"message,omitempty"`
}

type ExpandImageResultRequest struct {
	PromptID string `json:"prompt_id"`
}

type ExpandImageResultResponse struct {
	PublicURL string `json:"public_url"`
	Status    string `json:"status"`
}

// HandleExpandImage fetches the workflow template, patches it with the
// request's overrides and submits it to ComfyUI for asynchronous execution.
// The response carries the prompt_id to poll with.
func (s *Service) HandleExpandImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ExpandImageRequest
	if err := web.Decode(r, &req); err != nil {
		web.Detail(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if req.ImageURL == "" {
		web.Detail(w, http.StatusBadRequest, "image_url is required")
		return
	}

	template, err := s.client.FetchTemplate(ctx)
	if err != nil {
		writeError(w, err)
		return
	}

	patched, err := ApplyOverrides(template, PatchSpec{
		ImageURL: req.ImageURL,
		Left:     req.Left,
		Top:      req.Top,
		Right:    req.Right,
		Bottom:   req.Bottom,
		Width:    req.Width,
		Height:   req.Height,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	promptID, result, err := s.client.SubmitPrompt(ctx, patched, req.ClientID)
	if err != nil {
		writeError(w, err)
		return
	}

	web.JSON(w, http.StatusOK, ExpandImageResponse{
		Status:   "success",
		Result:   result,
		PromptID: promptID,
		Message:  "Image URL successfully replaced in expand image workflow",
	})
}

// HandleExpandImageResult fetches the execution history for a prompt_id,
// resolves the produced artifact and relays it into durable storage.
func (s *Service) HandleExpandImageResult(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ExpandImageResultRequest
	if err := web.Decode(r, &req); err != nil {
		web.Detail(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if req.PromptID == "" {
		web.Detail(w, http.StatusBadRequest, "prompt_id is required")
		return
	}

	history, err := s.client.History(ctx, req.PromptID)
	if err != nil {
		writeError(w, err)
		return
	}

	viewURL, err := LocateArtifact(s.client.BaseURL(), history, req.PromptID)
	if err != nil {
		writeError(w, err)
		return
	}

	publicURL, err := s.RelayArtifact(ctx, viewURL)
	if err != nil {
		writeError(w, err)
		return
	}

	web.JSON(w, http.StatusOK, ExpandImageResultResponse{
		PublicURL: publicURL,
		Status:    "success",
	})
}

// writeError maps the package error taxonomy onto HTTP statuses. Template,
// patch and history-shape failures are caller-correctable (400); remote
// auth/availability conditions keep their own status; everything else is 500.
func writeError(w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, ErrTemplate), errors.Is(err, ErrMissingNode), errors.Is(err, ErrHistory):
		status = http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrUnavailable):
		status = http.StatusServiceUnavailable
	default:
		status = http.StatusInternalServerError
	}
	slog.Error("ComfyUI request failed", "status", status, "error", err)
	web.Detail(w, status, err.Error())
}
