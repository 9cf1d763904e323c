package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/spacesedan/reviewflow/internal/models"
)

const (
	HF_PREDICT_PATH = "/predict"
	HF_HEALTH_PATH  = "/health"
)

// HuggingFaceClient talks to a text-embeddings-inference style
// sequence-classification server.
type HuggingFaceClient struct {
	Client   *http.Client
	BaseURL  string
	APIToken string

	initialBackoff time.Duration
}

func NewHuggingFaceClient(baseURL, apiToken string, timeout time.Duration) *HuggingFaceClient {
	slog.Info("[HuggingFaceClient] Initializing Client",
		slog.String("base_url", baseURL),
		slog.Duration("timeout", timeout))
	return &HuggingFaceClient{
		Client:         &http.Client{Timeout: timeout},
		BaseURL:        strings.TrimSuffix(baseURL, "/"),
		APIToken:       apiToken,
		initialBackoff: INITIAL_BACKOFF,
	}
}

// DoWithRetry rebuilds the request on every attempt so the body can be
// resent. Server errors and transport failures are retried with doubling
// backoff; 4xx responses are returned as is.
func (h *HuggingFaceClient) DoWithRetry(ctx context.Context, method, endpoint string, body []byte) (*http.Response, error) {
	var resp *http.Response
	var err error
	backoff := h.initialBackoff

	for attempt := 0; attempt < MAX_RETRIES; attempt++ {
		var req *http.Request
		req, err = h.newRequest(ctx, method, endpoint, body)
		if err != nil {
			return nil, err
		}

		resp, err = h.Client.Do(req)
		if err == nil && resp.StatusCode < 500 {
			return resp, nil
		}

		slog.Warn("[HuggingFaceClient] Request failed, will retry",
			slog.Int("attempt", attempt+1),
			slog.String("error", errMsg(err, resp)))

		if resp != nil {
			resp.Body.Close()
		}
		if err == nil {
			err = fmt.Errorf("server returned status code %d", resp.StatusCode)
		}
		resp = nil

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, MAX_BACKOFF)
	}

	return resp, err
}

func (h *HuggingFaceClient) newRequest(ctx context.Context, method, endpoint string, body []byte) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("User-Agent", USER_AGENT)
	if h.APIToken != "" {
		req.Header.Set("Authorization", "Bearer "+h.APIToken)
	}
	return req, nil
}

// Predict classifies every input and returns all class scores per input.
func (h *HuggingFaceClient) Predict(ctx context.Context, input models.PredictRequest) (models.PredictResponse, error) {
	var result models.PredictResponse
	slog.Debug("[HuggingFaceClient] Requesting classification",
		slog.Int("inputs", len(input.Inputs)))
	start := time.Now()

	err := h.postJSON(ctx, h.BaseURL+HF_PREDICT_PATH, input, &result)
	if err != nil {
		slog.Error("[HuggingFaceClient] Classification request failed",
			slog.Duration("elapsed", time.Since(start)))
		return nil, err
	}

	slog.Debug("[HuggingFaceClient] Classification request successful",
		slog.Duration("elapsed", time.Since(start)))
	return result, nil
}

func (h *HuggingFaceClient) HealthCheck(ctx context.Context) bool {
	req, err := h.newRequest(ctx, http.MethodGet, h.BaseURL+HF_HEALTH_PATH, nil)
	if err != nil {
		return false
	}
	resp, err := h.Client.Do(req)
	if err != nil {
		slog.Warn("[HuggingFaceClient] Health check failed",
			slog.String("error", err.Error()))
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// helper function for posting data to the inference server
func (h *HuggingFaceClient) postJSON(ctx context.Context, endpoint string, input interface{}, output interface{}) error {
	body, err := json.Marshal(input)
	if err != nil {
		slog.Error("[HuggingFaceClient] Failed to marshal input",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to marshal input: %w", err)
	}

	resp, err := h.DoWithRetry(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		slog.Error("[HuggingFaceClient] Failed request after retries",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))

		return fmt.Errorf("request failed after retries: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Error("[HuggingFaceClient] Failed to read response",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		slog.Error("[HuggingFaceClient] Unexpected status",
			slog.String("endpoint", endpoint),
			slog.Int("status", resp.StatusCode),
			getPreview(respBody))
		return fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	if err := json.Unmarshal(respBody, output); err != nil {
		slog.Error("[HuggingFaceClient] Failed to unmarshal response",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()),
			getPreview(respBody),
			slog.Int("raw_response_length", len(respBody)))

		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}

func getPreview(respBody []byte) slog.Attr {
	raw := string(respBody)
	if len(raw) > 50 {
		raw = raw[:50]
	}
	return slog.String("raw_response", raw)
}

func errMsg(err error, resp *http.Response) string {
	if err != nil {
		return err.Error()
	}
	if resp != nil {
		return fmt.Sprintf("status code %d", resp.StatusCode)
	}
	return "unknown error"
}
