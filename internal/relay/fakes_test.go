package relay

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"callrelay/internal/tools"

	"github.com/gorilla/websocket"
)

var errConnClosed = errors.New("use of closed network connection")

// fakeConn is an in-memory AI leg. Closing in ends reads with readErr, or a
// normal websocket close when readErr is nil.
type fakeConn struct {
	in      chan []byte
	readErr error

	mu       sync.Mutex
	writes   [][]byte
	writeErr error

	closed    chan struct{}
	closeOnce sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{in: make(chan []byte, 64), closed: make(chan struct{})}
}

func (c *fakeConn) push(frames ...string) {
	for _, f := range frames {
		c.in <- []byte(f)
	}
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	select {
	case data, ok := <-c.in:
		if !ok {
			if c.readErr != nil {
				return 0, nil, c.readErr
			}
			return 0, nil, &websocket.CloseError{Code: websocket.CloseNormalClosure}
		}
		return websocket.TextMessage, data, nil
	case <-c.closed:
		return 0, nil, errConnClosed
	}
}

func (c *fakeConn) WriteMessage(_ int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeErr != nil {
		return c.writeErr
	}
	c.writes = append(c.writes, append([]byte(nil), data...))
	return nil
}

func (c *fakeConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

func (c *fakeConn) isClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

// sent decodes every frame written so far.
func (c *fakeConn) sent() []map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]map[string]any, 0, len(c.writes))
	for _, w := range c.writes {
		var m map[string]any
		if err := json.Unmarshal(w, &m); err == nil {
			out = append(out, m)
		}
	}
	return out
}

func (c *fakeConn) sentOfType(typ string) []map[string]any {
	var out []map[string]any
	for _, m := range c.sent() {
		if m["type"] == typ {
			out = append(out, m)
		}
	}
	return out
}

type carrierItem struct {
	ev  CarrierEvent
	err error
}

type fakeCarrier struct {
	events chan carrierItem

	mu     sync.Mutex
	audio  [][]byte
	marks  []string
	clears int

	closed    chan struct{}
	closeOnce sync.Once
}

func newFakeCarrier() *fakeCarrier {
	return &fakeCarrier{events: make(chan carrierItem, 64), closed: make(chan struct{})}
}

func (c *fakeCarrier) push(evs ...CarrierEvent) {
	for _, ev := range evs {
		c.events <- carrierItem{ev: ev}
	}
}

func (c *fakeCarrier) Receive() (CarrierEvent, error) {
	select {
	case item := <-c.events:
		return item.ev, item.err
	case <-c.closed:
		return CarrierEvent{}, errConnClosed
	}
}

func (c *fakeCarrier) SendAudio(frame []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.audio = append(c.audio, frame)
	return nil
}

func (c *fakeCarrier) SendMark(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.marks = append(c.marks, name)
	return nil
}

func (c *fakeCarrier) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clears++
	return nil
}

func (c *fakeCarrier) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

func (c *fakeCarrier) isClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

type recordingExecutor struct {
	mu     sync.Mutex
	calls  []tools.Invocation
	result string
	err    error
	// hang, when set, blocks Execute until it is closed, ignoring ctx.
	hang chan struct{}
}

func (e *recordingExecutor) Execute(ctx context.Context, name string, args map[string]any) (string, error) {
	e.mu.Lock()
	e.calls = append(e.calls, tools.Invocation{Name: name, Arguments: args})
	e.mu.Unlock()

	if e.hang != nil {
		<-e.hang
		return "", errors.New("released")
	}
	return e.result, e.err
}

func (e *recordingExecutor) invocations() []tools.Invocation {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]tools.Invocation(nil), e.calls...)
}
