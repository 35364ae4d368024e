package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mzackyaulya/sentikom/config"
	"github.com/mzackyaulya/sentikom/internal/models"
)

// HuggingFaceClient is the HTTP transport for the hosted inference API.
// Warming-up retries live in the sentiment classifier; this client does a
// single request and hands back status plus raw body so the caller can
// tell a 503 from a body-level "model loading" error.
type HuggingFaceClient struct {
	client *http.Client
	url    string
	token  string
}

func NewHuggingFaceClient(cfg *config.Config) *HuggingFaceClient {
	return &HuggingFaceClient{
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
		url:   HF_INFERENCE_BASE_URL + cfg.HuggingFace.Model,
		token: cfg.HuggingFace.Token,
	}
}

// HasToken reports whether a credential is configured. Without one the
// classifier short-circuits and never calls the network.
func (h *HuggingFaceClient) HasToken() bool {
	return h.token != ""
}

// ClassifyBatch posts one batch of texts and returns the HTTP status with
// the raw response body.
func (h *HuggingFaceClient) ClassifyBatch(ctx context.Context, texts []string) (int, []byte, error) {
	payload := models.SentimentInferenceRequest{
		Inputs: texts,
		Options: models.SentimentInferenceOptions{
			WaitForModel: true,
			UseCache:     true,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to marshal inference input: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build inference request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+h.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("inference request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read inference response: %w", err)
	}

	return resp.StatusCode, respBody, nil
}
