package openai

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

	openaisdk "github.com/openai/openai-go"
	openaiOption "github.com/openai/openai-go/option"
)

// APIError is a non-2xx answer from the call-control API.
type APIError struct {
	Operation  string
	CallID     string
	StatusCode int
	Body       string
	Err        error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("call control %s for %s failed: HTTP %d: %s", e.Operation, e.CallID, e.StatusCode, e.Body)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// CallControlClient drives SIP calls through the realtime calls API. Requests
// are attempted once.
type CallControlClient struct {
	client openaisdk.Client
	logger *observability.Logger
}

func NewCallControlClient(apiKey, baseURL string, timeout time.Duration, logger *observability.Logger, opts ...openaiOption.RequestOption) *CallControlClient {
	options := append([]openaiOption.RequestOption{
		openaiOption.WithAPIKey(apiKey),
		openaiOption.WithBaseURL(baseURL),
		openaiOption.WithMaxRetries(0),
		openaiOption.WithRequestTimeout(timeout),
	}, opts...)

	return &CallControlClient{
		client: openaisdk.NewClient(options...),
		logger: logger,
	}
}

// Accept answers the call with the given session configuration.
func (c *CallControlClient) Accept(ctx context.Context, callID string, sessionConfig any) (map[string]any, error) {
	return c.post(ctx, callID, "accept", sessionConfig)
}

// Reject declines the call with a SIP status code.
func (c *CallControlClient) Reject(ctx context.Context, callID string, statusCode int) (map[string]any, error) {
	return c.post(ctx, callID, "reject", map[string]int{"status_code": statusCode})
}

func (c *CallControlClient) Hangup(ctx context.Context, callID, reason string) (map[string]any, error) {
	var body any
	if reason != "" {
		body = map[string]string{"reason": reason}
	}
	return c.post(ctx, callID, "hangup", body)
}

// Refer transfers the call to a tel: or sip: URI.
func (c *CallControlClient) Refer(ctx context.Context, callID, targetURI string) (map[string]any, error) {
	return c.post(ctx, callID, "refer", map[string]string{"target_uri": targetURI})
}

func (c *CallControlClient) post(ctx context.Context, callID, operation string, body any) (map[string]any, error) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "call_id", Value: callID},
		observability.Field{Key: "operation", Value: operation},
	)

	// the response is read here so non-JSON and empty bodies survive
	var resp *http.Response
	err := c.client.Post(ctx, fmt.Sprintf("calls/%s/%s", callID, operation), body, nil, openaiOption.WithResponseInto(&resp))

	var raw []byte
	if resp != nil && resp.Body != nil {
		raw, _ = io.ReadAll(resp.Body)
		resp.Body.Close()
	}

	var sdkErr *openaisdk.Error
	switch {
	case resp != nil && resp.StatusCode >= http.StatusBadRequest:
		result := decodeResult(raw)
		if result == nil {
			result = map[string]any{"error": string(raw)}
		}
		apiErr := &APIError{Operation: operation, CallID: callID, StatusCode: resp.StatusCode, Body: truncate(string(raw), 300)}
		if errors.As(err, &sdkErr) {
			apiErr.Err = sdkErr
		}
		c.logger.Error(ctx, "Call control rejected request", apiErr)
		return result, apiErr

	case err != nil:
		c.logger.Error(ctx, "Call control request failed", err)
		return nil, fmt.Errorf("call control %s request failed: %w", operation, err)
	}

	result := decodeResult(raw)
	if result == nil {
		result = map[string]any{"raw_error": string(raw)}
	}
	c.logger.Info(ctx, fmt.Sprintf("Call control %s succeeded (%d)", operation, resp.StatusCode))
	return result, nil
}

// decodeResult parses a JSON object body. An empty body is an empty object;
// anything else that is not an object yields nil.
func decodeResult(raw []byte) map[string]any {
	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]any{}
	}
	var result map[string]any
	if err := json.Unmarshal(raw, &result); err != nil || result == nil {
		return nil
	}
	return result
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
