package comfyui

import (
	"errors"
	"fmt"
)

// this file errors.go contains the ComfyUI error taxonomy. Handlers map these
// onto HTTP status codes in handlers.go; nothing here is retried.

var (
	// template fetching / parsing
	ErrTemplate = errors.New("failed to fetch workflow template")

	// graph patching
	ErrMissingNode = errors.New("workflow node missing")

	// remote service, normalized from ComfyUI HTTP responses
	ErrUnavailable  = errors.New("comfyui service unavailable")
	ErrUnauthorized = errors.New("authentication failed for comfyui api")
	ErrForbidden    = errors.New("forbidden access to comfyui api")
	ErrNotFound     = errors.New("comfyui api endpoint not found")
	ErrRemote       = errors.New("comfyui api error")

	// submission accepted but structurally invalid answer
	ErrMissingPromptID = errors.New("comfyui did not return a prompt_id")

	// execution history resolution
	ErrHistory = errors.New("malformed prompt history")

	// artifact relay
	ErrDownload = errors.New("artifact download failed")
	ErrUpload   = errors.New("artifact upload failed")
)

// RemoteError carries the raw status code and body of a failed ComfyUI
// response so callers can diagnose without re-issuing the request.
type RemoteError struct {
	Status int
	Body   string
	kind   error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s (status %d): %s", e.kind, e.Status, e.Body)
}

func (e *RemoteError) Unwrap() error { return e.kind }

// FieldError names the exact piece of an execution history record that was
// missing or had the wrong shape. The remote response format is not
// contractually guaranteed, so precision here is what makes failures
// diagnosable.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: field %q %s", ErrHistory, e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error { return ErrHistory }
