package workflow

import "sync"

// Instructions is the system prompt for model-backed business backends.
const Instructions = `You are the service advisor for Elite Auto Service Center, speaking with a customer on the phone.
Keep every answer to one or two short sentences because it will be read aloud.
Help with scheduling, service questions and pricing ranges.
Never promise outcomes, never guarantee prices or repairs, and never diagnose a problem without an inspection.
When you are unsure, offer to book an inspection.`

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAgent    Role = "agent"
)

type Turn struct {
	Role Role
	Text string
}

// History keeps the recent turns of each conversation for backends that
// resend context on every request.
type History struct {
	mu    sync.Mutex
	limit int
	turns map[string][]Turn
}

func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = 20
	}
	return &History{limit: limit, turns: make(map[string][]Turn)}
}

// Get returns a copy of the conversation's turns, oldest first.
func (h *History) Get(conversationID string) []Turn {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Turn(nil), h.turns[conversationID]...)
}

// Append records turns, dropping the oldest beyond the limit.
func (h *History) Append(conversationID string, turns ...Turn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	all := append(h.turns[conversationID], turns...)
	if len(all) > h.limit {
		all = append([]Turn(nil), all[len(all)-h.limit:]...)
	}
	h.turns[conversationID] = all
}

func (h *History) Forget(conversationID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.turns, conversationID)
}
