package relay

import (
	"strings"
	"sync/atomic"
	"time"

	"callrelay/internal/tools"
)

type State int32

const (
	StateConnecting State = iota
	StateStreaming
	StateDraining
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateStreaming:
		return "streaming"
	case StateDraining:
		return "draining"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Stats counts what crossed the relay. Each counter is written by exactly one
// pump goroutine and read once the session has closed.
type Stats struct {
	FramesIn        int
	FramesOut       int
	BytesIn         int
	BytesOut        int
	ToolCalls       int
	ToolErrors      int
	Transcripts     int
	Replies         int
	MalformedFrames int
	MalformedEvents int
}

type pendingToolCall struct {
	name string
	args strings.Builder
}

// Session is the relay-side state of one call.
type Session struct {
	CallID    string
	StartedAt time.Time
	EndedAt   time.Time

	state atomic.Int32

	// pending is owned by the AI leg's goroutine.
	pending map[string]*pendingToolCall

	stats Stats
}

func newSession(callID string, now time.Time) *Session {
	return &Session{
		CallID:    callID,
		StartedAt: now,
		pending:   make(map[string]*pendingToolCall),
	}
}

func (s *Session) State() State {
	return State(s.state.Load())
}

// advance moves the session forward to next. Moves backwards are ignored.
func (s *Session) advance(next State) bool {
	for {
		cur := s.state.Load()
		if State(cur) >= next {
			return false
		}
		if s.state.CompareAndSwap(cur, int32(next)) {
			return true
		}
	}
}

// Stats returns the session counters. Only meaningful once Run has returned.
func (s *Session) Stats() Stats {
	return s.stats
}

// PendingToolCalls reports how many tool calls are open.
func (s *Session) PendingToolCalls() int {
	return len(s.pending)
}

func (s *Session) HasPendingToolCall(id string) bool {
	_, ok := s.pending[id]
	return ok
}

func (s *Session) entry(id string) *pendingToolCall {
	p, ok := s.pending[id]
	if !ok {
		p = &pendingToolCall{}
		s.pending[id] = p
	}
	return p
}

func (s *Session) openToolCall(id, name string) {
	p := s.entry(id)
	if name != "" {
		p.name = name
	}
}

// appendArguments adds a fragment in arrival order. A delta for an unknown id
// opens the entry.
func (s *Session) appendArguments(id, delta string) {
	s.entry(id).args.WriteString(delta)
}

// completeToolCall assembles the invocation for a finished tool call. The
// accumulated fragments win over the arguments carried by the done event.
// A parse failure still yields an invocation, with no arguments.
func (s *Session) completeToolCall(done FunctionCallArgumentsDone) (tools.Invocation, error) {
	p := s.entry(done.CallID)
	if done.Name != "" {
		p.name = done.Name
	}

	raw := p.args.String()
	if raw == "" {
		raw = done.Arguments
	}
	args, err := tools.ParseArguments(raw)

	return tools.Invocation{CallID: done.CallID, Name: p.name, Arguments: args}, err
}

func (s *Session) removeToolCall(id string) {
	delete(s.pending, id)
}
