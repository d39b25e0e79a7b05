package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"clearview/internal/config"
	"clearview/internal/logger"
	"clearview/internal/models"

	"google.golang.org/genai"
)

var (
	ErrMissingAPIKey   = errors.New("API Key is missing. Please check your environment configuration.")
	ErrNoImageReturned = errors.New("No image data received from the model.")
)

// Editor is the remote capability that removes watermarks from an image.
// It takes and returns base64 payloads.
type Editor interface {
	Edit(ctx context.Context, encoded, mimeType string) (string, error)
}

// GeminiEditor sends the image and the removal prompt to a Gemini image model
type GeminiEditor struct {
	cfg        config.EditorConfig
	httpClient *http.Client
	logger     logger.Logger

	mu     sync.Mutex
	client *genai.Client
}

func NewGeminiEditor(cfg config.EditorConfig, log logger.Logger) *GeminiEditor {
	if log == nil {
		log = logger.NoOp{}
	}
	return &GeminiEditor{cfg: cfg, logger: log}
}

// SetHTTPClient overrides the transport used by the SDK
func (ge *GeminiEditor) SetHTTPClient(client *http.Client) {
	ge.mu.Lock()
	defer ge.mu.Unlock()
	ge.httpClient = client
	ge.client = nil
}

func (ge *GeminiEditor) Edit(ctx context.Context, encoded, mimeType string) (string, error) {
	client, err := ge.getClient(ctx)
	if err != nil {
		return "", err
	}

	raw, err := base64.StdEncoding.DecodeString(models.StripDataURLPrefix(encoded))
	if err != nil {
		return "", fmt.Errorf("invalid image payload: %w", err)
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(raw, mimeType),
			genai.NewPartFromText(ge.cfg.Prompt),
		}, genai.RoleUser),
	}

	start := time.Now()
	resp, err := client.Models.GenerateContent(ctx, ge.cfg.Model, contents, nil)
	if err != nil {
		ge.logger.Error("GeminiEditor", err, map[string]interface{}{
			"model":      ge.cfg.Model,
			"elapsed_ms": time.Since(start).Milliseconds(),
		})
		return "", describeAPIError(err)
	}

	data, text := firstInlineImage(resp)
	if len(data) == 0 {
		ge.logger.Warning("GeminiEditor", "response carried no image", map[string]interface{}{
			"model":      ge.cfg.Model,
			"model_text": text,
		})
		return "", ErrNoImageReturned
	}

	ge.logger.Info("GeminiEditor", "edit completed", map[string]interface{}{
		"model":        ge.cfg.Model,
		"input_bytes":  len(raw),
		"output_bytes": len(data),
		"elapsed_ms":   time.Since(start).Milliseconds(),
	})

	return base64.StdEncoding.EncodeToString(data), nil
}

func (ge *GeminiEditor) getClient(ctx context.Context) (*genai.Client, error) {
	ge.mu.Lock()
	defer ge.mu.Unlock()

	if ge.client != nil {
		return ge.client, nil
	}
	if strings.TrimSpace(ge.cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}

	clientCfg := &genai.ClientConfig{
		APIKey:     ge.cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: ge.httpClient,
	}
	if ge.cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: ge.cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}
	ge.client = client
	return client, nil
}

func firstInlineImage(resp *genai.GenerateContentResponse) ([]byte, string) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, ""
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil {
			continue
		}
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return part.InlineData.Data, ""
		}
		text.WriteString(part.Text)
	}
	return nil, text.String()
}

// describeAPIError keeps the API's own message so the notice stays readable
func describeAPIError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return errors.New(apiErr.Message)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil && apiErrPtr.Message != "" {
		return errors.New(apiErrPtr.Message)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return errors.New("The request timed out. Please try again.")
	}
	return err
}
