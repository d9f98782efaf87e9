// Package workflow talks to the business backend that decides what the
// agent says on carrier-bridged calls.
package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"callrelay/internal/observability"
)

var ErrEmptyReply = errors.New("workflow returned no reply")

type replyRequest struct {
	ConversationID string `json:"conversation_id"`
	Message        string `json:"message"`
	CustomerPhone  string `json:"customer_phone"`
}

type replyResponse struct {
	ResponseText string `json:"response_text"`
	Response     string `json:"response"`
}

// HTTPBackend posts each customer message to an agent workflow endpoint.
// The workflow keeps its own conversation state keyed by conversation id.
type HTTPBackend struct {
	url        string
	apiKey     string
	httpClient *http.Client
	logger     *observability.Logger
}

func NewHTTPBackend(url, apiKey string, timeout time.Duration, logger *observability.Logger) *HTTPBackend {
	return &HTTPBackend{
		url:        url,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (b *HTTPBackend) Reply(ctx context.Context, conversationID, message, customerPhone string) (string, error) {
	payload, err := json.Marshal(replyRequest{
		ConversationID: conversationID,
		Message:        message,
		CustomerPhone:  customerPhone,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal workflow request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create workflow request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if b.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+b.apiKey)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("workflow request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read workflow response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("workflow returned HTTP %d: %s", resp.StatusCode, string(body))
	}

	var out replyResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("failed to decode workflow response: %w", err)
	}
	text := out.ResponseText
	if text == "" {
		text = out.Response
	}
	if text == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}
