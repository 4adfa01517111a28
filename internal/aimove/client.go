package aimove

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rocketscienceinc/gridgames-backend/internal/apperror"
)

const (
	DefaultTimeout = 10 * time.Second

	maxResponseSize = 1 << 20
)

type completionRequest struct {
	Prompt string         `json:"prompt"`
	Config map[string]any `json:"config"`
}

type completionResponse struct {
	Move  json.RawMessage `json:"move"`
	Error string          `json:"error"`
}

// Client talks to a completion provider over HTTP.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
}

func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		httpClient: &http.Client{},
		timeout:    timeout,
	}
}

// Complete posts the prompt and returns the provider's move as text, number or not.
func (that *Client) Complete(ctx context.Context, endpoint, prompt string, config map[string]any) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, that.timeout)
	defer cancel()

	if config == nil {
		config = map[string]any{}
	}

	body, err := json.Marshal(completionRequest{Prompt: prompt, Config: config})
	if err != nil {
		return "", fmt.Errorf("%w: failed to encode request: %w", apperror.ErrProviderFailure, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: failed to build request: %w", apperror.ErrProviderFailure, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := that.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", apperror.ErrProviderFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("%w: unexpected status %d", apperror.ErrProviderFailure, resp.StatusCode)
	}

	var out completionResponse
	if err = json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %w", apperror.ErrProviderFailure, err)
	}

	if out.Error != "" {
		return "", fmt.Errorf("%w: %s", apperror.ErrProviderFailure, out.Error)
	}

	return moveText(out.Move)
}

func moveText(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", fmt.Errorf("%w: response has no move", apperror.ErrProviderFailure)
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text, nil
	}

	var number json.Number
	if err := json.Unmarshal(raw, &number); err == nil {
		return number.String(), nil
	}

	return "", fmt.Errorf("%w: move is neither a number nor a string", apperror.ErrProviderFailure)
}
