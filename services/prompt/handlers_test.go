package prompt

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	images []GeneratedImage
	err    error

	gotPrompt string
	gotModel  string
	gotCount  int
}

func (f *fakeGenerator) Generate(_ context.Context, prompt, model, _ string, count int) ([]GeneratedImage, error) {
	f.gotPrompt = prompt
	f.gotModel = model
	f.gotCount = count
	return f.images, f.err
}

type fakeUploader struct {
	keys []string
}

func (f *fakeUploader) Upload(_ context.Context, key string, _ []byte, _ string) (string, error) {
	f.keys = append(f.keys, key)
	return "https://pub.example.com/" + key, nil
}

func newRouter(gen ImageGenerator, store *fakeUploader) *mux.Router {
	router := mux.NewRouter()
	NewService(gen, store).RegisterRoutes(router)
	return router
}

func TestHandleImagePrompt(t *testing.T) {
	gen := &fakeGenerator{images: []GeneratedImage{
		{Data: []byte("png-bytes")},
		{URL: "https://cdn.openai.example/hosted.png"},
	}}
	store := &fakeUploader{}
	router := newRouter(gen, store)

	body := `{"prompt": "a cat in a hat", "model": "dall-e-3", "n": 2}`
	req := httptest.NewRequest(http.MethodPost, "/prompt/image", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ImageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "a cat in a hat", resp.OriginalPrompt)
	require.Len(t, resp.ImageURLs, 2)

	// byte responses are persisted; hosted URLs pass through
	require.Len(t, store.keys, 1)
	require.Regexp(t, `^generated_[0-9a-f-]{36}\.png$`, store.keys[0])
	require.Equal(t, "https://pub.example.com/"+store.keys[0], resp.ImageURLs[0])
	require.Equal(t, "https://cdn.openai.example/hosted.png", resp.ImageURLs[1])

	require.Equal(t, "a cat in a hat", gen.gotPrompt)
	require.Equal(t, "dall-e-3", gen.gotModel)
	require.Equal(t, 2, gen.gotCount)
}

func TestHandleImagePromptErrors(t *testing.T) {
	tests := []struct {
		label      string
		body       string
		genErr     error
		wantStatus int
	}{
		{label: "missing prompt", body: `{}`, wantStatus: http.StatusBadRequest},
		{label: "unsupported model", body: `{"prompt": "x", "model": "sd-xl"}`, genErr: ErrUnsupportedModel, wantStatus: http.StatusBadRequest},
		{label: "provider failure", body: `{"prompt": "x"}`, genErr: errors.New("rate limited"), wantStatus: http.StatusBadGateway},
	}

	for _, tc := range tests {
		t.Run(tc.label, func(t *testing.T) {
			router := newRouter(&fakeGenerator{err: tc.genErr}, &fakeUploader{})
			req := httptest.NewRequest(http.MethodPost, "/prompt/image", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}
