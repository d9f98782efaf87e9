package orchestrator

import (
	"sync"
	"time"

	"callrelay/internal/relay"
)

type State int

const (
	StateStarting State = iota
	StateActive
	StateEscalated
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateActive:
		return "active"
	case StateEscalated:
		return "escalated"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

const (
	transcriptBuffer = 8
	replyBuffer      = 4
)

// Conversation is the orchestrator's state for one call. Its channels are
// the relay's side of the handoff: transcripts come in, replies go out, and
// Done closes when the conversation ends.
type Conversation struct {
	ID            string
	SessionID     string
	CallID        string
	StreamID      string
	CustomerPhone string
	StartTime     time.Time

	mu               sync.Mutex
	state            State
	endTime          time.Time
	turns            int
	errors           int
	escalated        bool
	escalationReason string

	transcripts chan string
	replies     chan string
	done        chan struct{}
	endOnce     sync.Once
}

func newConversation(id, sessionID, callID, streamID, phone string, now time.Time) *Conversation {
	return &Conversation{
		ID:            id,
		SessionID:     sessionID,
		CallID:        callID,
		StreamID:      streamID,
		CustomerPhone: phone,
		StartTime:     now,
		state:         StateStarting,
		transcripts:   make(chan string, transcriptBuffer),
		replies:       make(chan string, replyBuffer),
		done:          make(chan struct{}),
	}
}

// Bridge returns the channels the relay uses to talk to this conversation.
func (c *Conversation) Bridge() *relay.Bridge {
	return &relay.Bridge{
		Transcripts: c.transcripts,
		Replies:     c.replies,
		Done:        c.done,
	}
}

// Done is closed once the conversation has ended.
func (c *Conversation) Done() <-chan struct{} {
	return c.done
}

func (c *Conversation) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Conversation) TurnCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.turns
}

func (c *Conversation) ErrorCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errors
}

// Escalated reports whether the call was handed to a person and why.
func (c *Conversation) Escalated() (bool, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.escalated, c.escalationReason
}

func (c *Conversation) EndTime() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.endTime
}

func (c *Conversation) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Conversation) nextTurn() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns++
	return c.turns
}

func (c *Conversation) recordError() {
	c.mu.Lock()
	c.errors++
	c.mu.Unlock()
}

// markEscalated sets the escalation flag once and reports whether this call
// did it.
func (c *Conversation) markEscalated(reason string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.escalated || c.state == StateEnded {
		return false
	}
	c.escalated = true
	c.escalationReason = reason
	c.state = StateEscalated
	return true
}

func (c *Conversation) ended() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}
