package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"clearview/internal/config"
	"clearview/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type generateRequest struct {
	Contents []struct {
		Role  string `json:"role"`
		Parts []struct {
			Text       string `json:"text"`
			InlineData *struct {
				Data     string `json:"data"`
				MimeType string `json:"mimeType"`
			} `json:"inlineData"`
		} `json:"parts"`
	} `json:"contents"`
}

func newTestEditor(t *testing.T, handler http.HandlerFunc) *GeminiEditor {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewGeminiEditor(config.EditorConfig{
		APIKey:         "test-key",
		Model:          config.DefaultModel,
		Prompt:         config.DefaultPrompt,
		BaseURL:        srv.URL + "/",
		RequestTimeout: 5 * time.Second,
	}, logger.NoOp{})
}

func TestGeminiEditorReturnsInlineImage(t *testing.T) {
	var got generateRequest
	editor := newTestEditor(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, ":generateContent"), r.URL.Path)
		assert.Contains(t, r.URL.Path, config.DefaultModel)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[
			{"text":"Here is the cleaned image."},
			{"inlineData":{"mimeType":"image/png","data":"AAAA"}}]}}]}`))
	})

	out, err := editor.Edit(context.Background(), "data:image/png;base64,iVBORw==", "image/png")
	require.NoError(t, err)
	assert.Equal(t, "AAAA", out)

	require.Len(t, got.Contents, 1)
	assert.Equal(t, "user", got.Contents[0].Role)
	require.Len(t, got.Contents[0].Parts, 2)
	require.NotNil(t, got.Contents[0].Parts[0].InlineData)
	assert.Equal(t, "iVBORw==", got.Contents[0].Parts[0].InlineData.Data, "data URL prefix must be stripped")
	assert.Equal(t, "image/png", got.Contents[0].Parts[0].InlineData.MimeType)
	assert.Equal(t, config.DefaultPrompt, got.Contents[0].Parts[1].Text)
}

func TestGeminiEditorNoImage(t *testing.T) {
	editor := newTestEditor(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"I cannot do that."}]}}]}`))
	})

	_, err := editor.Edit(context.Background(), "iVBORw==", "image/png")
	assert.ErrorIs(t, err, ErrNoImageReturned)
}

func TestGeminiEditorSurfacesAPIMessage(t *testing.T) {
	editor := newTestEditor(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`))
	})

	_, err := editor.Edit(context.Background(), "iVBORw==", "image/png")
	require.Error(t, err)
	assert.Equal(t, "quota exceeded", err.Error())
}

func TestGeminiEditorMissingKey(t *testing.T) {
	editor := NewGeminiEditor(config.EditorConfig{Model: config.DefaultModel}, nil)

	_, err := editor.Edit(context.Background(), "iVBORw==", "image/png")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestGeminiEditorRejectsBadPayload(t *testing.T) {
	editor := newTestEditor(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not be sent")
	})

	_, err := editor.Edit(context.Background(), "%%%", "image/png")
	assert.ErrorContains(t, err, "invalid image payload")
}
