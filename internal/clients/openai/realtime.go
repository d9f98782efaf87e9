package openai

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// RealtimeDialer opens realtime event websockets.
type RealtimeDialer struct {
	apiKey string
	wsURL  string
	dialer websocket.Dialer
}

func NewRealtimeDialer(apiKey, wsURL string) *RealtimeDialer {
	return &RealtimeDialer{
		apiKey: apiKey,
		wsURL:  strings.TrimRight(wsURL, "/"),
		dialer: websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: 15 * time.Second,
		},
	}
}

// DialCall attaches to the event stream of a SIP call the backend already
// answered.
func (d *RealtimeDialer) DialCall(ctx context.Context, callID string) (*websocket.Conn, error) {
	return d.dial(ctx, url.Values{"call_id": {callID}}, nil)
}

// DialModel opens a fresh model session for a carrier-bridged call. The
// session speaks the beta event schema.
func (d *RealtimeDialer) DialModel(ctx context.Context, model string) (*websocket.Conn, error) {
	return d.dial(ctx, url.Values{"model": {model}}, http.Header{"OpenAI-Beta": {"realtime=v1"}})
}

func (d *RealtimeDialer) dial(ctx context.Context, query url.Values, extra http.Header) (*websocket.Conn, error) {
	headers := http.Header{}
	for k, v := range extra {
		headers[k] = v
	}
	headers.Set("Authorization", "Bearer "+d.apiKey)

	target := d.wsURL + "?" + query.Encode()
	conn, resp, err := d.dialer.DialContext(ctx, target, headers)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("failed to connect to realtime endpoint (HTTP %d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("failed to connect to realtime endpoint: %w", err)
	}
	return conn, nil
}
