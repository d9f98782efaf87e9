package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"callrelay/internal/observability"
)

const maxResponseBytes = 1 << 20

type executeRequest struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// RESTExecutor calls the CRM's POST /execute endpoint.
type RESTExecutor struct {
	url        string
	httpClient *http.Client
	logger     *observability.Logger
}

func NewRESTExecutor(url string, timeout time.Duration, logger *observability.Logger) *RESTExecutor {
	return &RESTExecutor{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (e *RESTExecutor) Execute(ctx context.Context, name string, args map[string]any) (string, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "tool_name", Value: name})

	if args == nil {
		args = map[string]any{}
	}
	payload, err := json.Marshal(executeRequest{Name: name, Arguments: args})
	if err != nil {
		return "", &DispatchError{Name: name, Err: fmt.Errorf("marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(payload))
	if err != nil {
		return "", &DispatchError{Name: name, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		e.logger.Error(ctx, "tool execute request failed", err)
		return "", &DispatchError{Name: name, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", &DispatchError{Name: name, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		ctx = observability.WithFields(ctx, observability.Field{Key: "status_code", Value: resp.StatusCode})
		e.logger.Warn(ctx, "tool execute returned non-200")
		return "", &DispatchError{Name: name, StatusCode: resp.StatusCode, Body: truncate(string(body), 200)}
	}

	return resultFromBody(body), nil
}

// resultFromBody prefers a string "result" field and otherwise returns the
// JSON it was given.
func resultFromBody(body []byte) string {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return string(body)
	}
	raw, ok := envelope["result"]
	if !ok {
		return string(body)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
