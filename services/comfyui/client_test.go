package comfyui

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"comfyui-gateway/config"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewClient(srv.Client(), config.ComfyUI{
		BaseURL:         srv.URL,
		WorkflowJSONURL: srv.URL + "/template.json",
		Username:        "user",
		Password:        "pass",
	})
	return client, srv
}

func TestSubmitPrompt(t *testing.T) {
	var gotBody map[string]any
	var gotAuth bool

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/prompt", r.URL.Path)
		_, _, gotAuth = r.BasicAuth()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]any{"prompt_id": "run-123", "number": 7})
	}))

	g := Graph{"22": map[string]any{"inputs": map[string]any{"image": "a.png"}}}
	promptID, result, err := client.SubmitPrompt(context.Background(), g, "tester")
	require.NoError(t, err)
	require.Equal(t, "run-123", promptID)
	require.Equal(t, "run-123", result["prompt_id"])

	require.True(t, gotAuth, "expected basic auth on the request")
	require.Equal(t, "tester", gotBody["client_id"])
	require.Contains(t, gotBody, "prompt")
}

func TestSubmitPromptDefaultsClientID(t *testing.T) {
	var gotBody map[string]any
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]any{"prompt_id": "run-1"})
	}))

	_, _, err := client.SubmitPrompt(context.Background(), Graph{}, "")
	require.NoError(t, err)
	require.Equal(t, defaultClientID, gotBody["client_id"])
}

func TestSubmitPromptMissingPromptID(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"node_errors": map[string]any{}})
	}))

	_, _, err := client.SubmitPrompt(context.Background(), Graph{}, "tester")
	require.ErrorIs(t, err, ErrMissingPromptID)
}

func TestRequestStatusNormalization(t *testing.T) {
	tests := []struct {
		label      string
		status     int
		wantErr    error
		wantStatus int
	}{
		{label: "unauthorized", status: http.StatusUnauthorized, wantErr: ErrUnauthorized, wantStatus: 401},
		{label: "forbidden", status: http.StatusForbidden, wantErr: ErrForbidden, wantStatus: 403},
		{label: "not found", status: http.StatusNotFound, wantErr: ErrNotFound, wantStatus: 404},
		{label: "internal error is the catch-all", status: http.StatusBadGateway, wantErr: ErrRemote, wantStatus: 502},
	}

	for _, tc := range tests {
		t.Run(tc.label, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", tc.status)
			}))

			_, err := client.Request(context.Background(), http.MethodGet, "/history/x", nil)
			require.ErrorIs(t, err, tc.wantErr)

			var remoteErr *RemoteError
			require.ErrorAs(t, err, &remoteErr)
			require.Equal(t, tc.wantStatus, remoteErr.Status)
			require.Contains(t, remoteErr.Body, "boom")
		})
	}
}

func TestRequestUnreachableService(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	client := NewClient(srv.Client(), config.ComfyUI{BaseURL: srv.URL})
	srv.Close()

	_, err := client.Request(context.Background(), http.MethodGet, "/history/x", nil)
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestHistory(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/history/run-9", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{"run-9": map[string]any{"outputs": map[string]any{}}})
	}))

	history, err := client.History(context.Background(), "run-9")
	require.NoError(t, err)
	require.Contains(t, history, "run-9")
}

func TestFetchTemplate(t *testing.T) {
	tests := []struct {
		label     string
		status    int
		body      string
		expectErr bool
	}{
		{label: "valid template", status: http.StatusOK, body: templateJSON},
		{label: "non-200 status", status: http.StatusNotFound, body: "gone", expectErr: true},
		{label: "malformed JSON", status: http.StatusOK, body: "{not json", expectErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.label, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, "/template.json", r.URL.Path)
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))

			g, err := client.FetchTemplate(context.Background())
			if tc.expectErr {
				require.ErrorIs(t, err, ErrTemplate)
				return
			}
			require.NoError(t, err)
			require.Contains(t, g, "22")
		})
	}
}
