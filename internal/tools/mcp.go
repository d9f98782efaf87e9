package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"callrelay/internal/observability"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const mcpClientVersion = "1.0.0"

// MCPExecutor calls tools on an MCP server over streamable HTTP. One session
// is shared by every call and re-established when a call on it fails.
type MCPExecutor struct {
	client   *mcp.Client
	endpoint string
	timeout  time.Duration
	logger   *observability.Logger

	// connMu serializes connecting; mu guards session.
	connMu  sync.Mutex
	mu      sync.Mutex
	session *mcp.ClientSession
}

func NewMCPExecutor(endpoint string, timeout time.Duration, logger *observability.Logger) *MCPExecutor {
	return &MCPExecutor{
		client:   mcp.NewClient(&mcp.Implementation{Name: "callrelay", Version: mcpClientVersion}, nil),
		endpoint: endpoint,
		timeout:  timeout,
		logger:   logger,
	}
}

func (e *MCPExecutor) Execute(ctx context.Context, name string, args map[string]any) (string, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "tool_name", Value: name})
	if args == nil {
		args = map[string]any{}
	}
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	result, session, err := e.callTool(ctx, name, args)
	if err != nil && ctx.Err() == nil {
		e.logger.Info(ctx, "mcp call failed on the current session, reconnecting")
		e.drop(session)
		result, _, err = e.callTool(ctx, name, args)
	}
	if err != nil {
		e.logger.Error(ctx, "mcp tool call failed", err)
		return "", &DispatchError{Name: name, Err: err}
	}

	var texts []string
	for _, c := range result.Content {
		if text, ok := c.(*mcp.TextContent); ok {
			texts = append(texts, text.Text)
		}
	}
	text := strings.Join(texts, "\n")
	if result.IsError {
		return "", &DispatchError{Name: name, Err: errors.New(text)}
	}
	return text, nil
}

func (e *MCPExecutor) callTool(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, *mcp.ClientSession, error) {
	session, err := e.ensureSession(ctx)
	if err != nil {
		return nil, nil, err
	}
	result, err := session.CallTool(ctx, &mcp.CallToolParams{Name: name, Arguments: args})
	return result, session, err
}

func (e *MCPExecutor) ensureSession(ctx context.Context) (*mcp.ClientSession, error) {
	e.connMu.Lock()
	defer e.connMu.Unlock()

	e.mu.Lock()
	session := e.session
	e.mu.Unlock()
	if session != nil {
		return session, nil
	}

	session, err := e.client.Connect(ctx, &mcp.StreamableClientTransport{Endpoint: e.endpoint}, nil)
	if err != nil {
		return nil, fmt.Errorf("mcp connect: %w", err)
	}

	e.mu.Lock()
	e.session = session
	e.mu.Unlock()
	e.logger.Info(ctx, "mcp session established")
	return session, nil
}

// drop closes failed unless another call already replaced it.
func (e *MCPExecutor) drop(failed *mcp.ClientSession) {
	if failed == nil {
		return
	}
	e.mu.Lock()
	if e.session == failed {
		e.session = nil
	}
	e.mu.Unlock()
	_ = failed.Close()
}

// Close ends the shared session, if any.
func (e *MCPExecutor) Close() error {
	e.mu.Lock()
	session := e.session
	e.session = nil
	e.mu.Unlock()

	if session == nil {
		return nil
	}
	return session.Close()
}
