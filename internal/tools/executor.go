// Package tools dispatches model tool calls to the business backend.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Executor runs a named tool and returns the text handed back to the model.
// Implementations must honour ctx cancellation.
type Executor interface {
	Execute(ctx context.Context, name string, args map[string]any) (string, error)
}

// Invocation is one completed tool call. CallID is the model's tool-call id,
// not the phone call id.
type Invocation struct {
	CallID    string
	Name      string
	Arguments map[string]any
}

// DispatchError describes a failed tool execution. Its message is what the
// model sees in place of a result.
type DispatchError struct {
	Name       string
	StatusCode int
	Body       string
	Err        error
}

func (e *DispatchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("Error calling %s: HTTP %d: %s", e.Name, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("Error calling %s: %v", e.Name, e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

// ResultText turns an execution outcome into the function output string.
func ResultText(name, result string, err error) string {
	if err == nil {
		return result
	}
	var dispatchErr *DispatchError
	if errors.As(err, &dispatchErr) {
		return dispatchErr.Error()
	}
	return (&DispatchError{Name: name, Err: err}).Error()
}

// ParseArguments decodes streamed argument text. Empty input is an empty set.
// Malformed input also yields an empty set, together with the parse error.
func ParseArguments(raw string) (map[string]any, error) {
	args := map[string]any{}
	if strings.TrimSpace(raw) == "" {
		return args, nil
	}
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return map[string]any{}, fmt.Errorf("parse tool arguments: %w", err)
	}
	if args == nil {
		args = map[string]any{}
	}
	return args, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
