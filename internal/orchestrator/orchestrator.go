// Package orchestrator owns the business side of a call: it takes what the
// customer said, applies guardrails, asks the business backend for a reply,
// and decides what the voice layer speaks or when a person takes over.
package orchestrator

//go:generate go run go.uber.org/mock/mockgen@latest -source=orchestrator.go -destination=mocks_test.go -package=orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"callrelay/internal/notify"
	"callrelay/internal/observability"

	"github.com/google/uuid"
)

const (
	DefaultMaxTurns        = 25
	DefaultMaxCallDuration = 30 * time.Minute

	TransferNotice      = "Let me transfer you to someone who can better assist you."
	TechnicalDifficulty = "I'm having technical difficulties. Let me transfer you to an agent."
)

// Backend produces the business reply to a customer message.
type Backend interface {
	Reply(ctx context.Context, conversationID, message, customerPhone string) (string, error)
}

// Notifier tells a human operator about an escalation.
type Notifier interface {
	Notify(ctx context.Context, e notify.Escalation) error
}

// forgetter is implemented by backends that keep per-conversation history.
type forgetter interface {
	Forget(conversationID string)
}

type Config struct {
	MaxTurns           int
	MaxCallDuration    time.Duration
	EscalationKeywords []string
	ProhibitedPhrases  []string
}

type Orchestrator struct {
	backend    Backend
	notifier   Notifier
	guardrails Guardrails
	maxTurns   int
	maxDur     time.Duration
	logger     *observability.Logger
	now        func() time.Time
}

func New(backend Backend, notifier Notifier, cfg Config, logger *observability.Logger) *Orchestrator {
	if cfg.MaxTurns <= 0 {
		cfg.MaxTurns = DefaultMaxTurns
	}
	if cfg.MaxCallDuration <= 0 {
		cfg.MaxCallDuration = DefaultMaxCallDuration
	}
	return &Orchestrator{
		backend:    backend,
		notifier:   notifier,
		guardrails: NewGuardrails(cfg.EscalationKeywords, cfg.ProhibitedPhrases),
		maxTurns:   cfg.MaxTurns,
		maxDur:     cfg.MaxCallDuration,
		logger:     logger,
		now:        time.Now,
	}
}

// StartCall opens a conversation for a call and starts consuming its
// transcripts. The conversation ends when EndCall is called or ctx is
// cancelled.
func (o *Orchestrator) StartCall(ctx context.Context, callID, streamID, customerPhone string) *Conversation {
	conv := newConversation(newID("conv"), newID("sess"), callID, streamID, customerPhone, o.now())
	ctx = o.withConversation(ctx, conv)
	o.logger.Info(ctx, fmt.Sprintf("Starting call from %s", customerPhone))

	conv.setState(StateActive)
	go o.consume(ctx, conv)
	return conv
}

func (o *Orchestrator) consume(ctx context.Context, conv *Conversation) {
	for {
		select {
		case <-conv.done:
			return
		case <-ctx.Done():
			o.EndCall(context.WithoutCancel(ctx), conv)
			return
		case text := <-conv.transcripts:
			o.HandleCustomerMessage(ctx, conv, text)
		}
	}
}

// HandleCustomerMessage runs one turn of the conversation.
func (o *Orchestrator) HandleCustomerMessage(ctx context.Context, conv *Conversation, text string) {
	if conv.ended() {
		return
	}
	ctx = o.withConversation(ctx, conv)

	turn := conv.nextTurn()
	if turn > o.maxTurns {
		o.logger.Warn(ctx, "Turn limit exceeded")
		o.Escalate(ctx, conv, "Turn limit exceeded")
		return
	}
	if o.now().Sub(conv.StartTime) > o.maxDur {
		o.logger.Warn(ctx, "Call duration limit exceeded")
		o.Escalate(ctx, conv, "Call duration exceeded")
		return
	}

	if reason, escalate := o.guardrails.CheckMessage(text); escalate {
		o.logger.Warn(ctx, fmt.Sprintf("Guardrail triggered: %s", reason))
		o.Escalate(ctx, conv, reason)
		return
	}

	reply, err := o.backend.Reply(ctx, conv.ID, text, conv.CustomerPhone)
	if err != nil {
		o.logger.Error(ctx, "Error processing message", err)
		conv.recordError()
		o.speak(ctx, conv, TechnicalDifficulty)
		o.Escalate(ctx, conv, fmt.Sprintf("Error: %v", err))
		return
	}
	if reply == "" {
		return
	}

	if reason, ok := o.guardrails.ValidateReply(reply); !ok {
		o.logger.Warn(ctx, fmt.Sprintf("Response validation failed: %s", reason))
		o.speak(ctx, conv, TransferNotice)
		o.Escalate(ctx, conv, reason)
		return
	}

	o.speak(ctx, conv, reply)
}

// Escalate hands the call to a person: it flags the conversation, notifies
// the operator and ends the call. Only the first escalation has effect.
func (o *Orchestrator) Escalate(ctx context.Context, conv *Conversation, reason string) {
	if !conv.markEscalated(reason) {
		return
	}
	ctx = o.withConversation(ctx, conv)
	o.logger.Warn(ctx, fmt.Sprintf("Escalating call: %s", reason))

	if o.notifier != nil {
		err := o.notifier.Notify(ctx, notify.Escalation{
			ConversationID: conv.ID,
			CallID:         conv.CallID,
			CustomerPhone:  conv.CustomerPhone,
			Reason:         reason,
			Turns:          conv.TurnCount(),
			At:             o.now(),
		})
		if err != nil {
			o.logger.Error(ctx, "Failed to notify manager", err)
		}
	}

	o.EndCall(ctx, conv)
}

// EndCall marks the conversation ended and releases the voice side by
// closing Done. It is safe to call more than once.
func (o *Orchestrator) EndCall(ctx context.Context, conv *Conversation) {
	conv.endOnce.Do(func() {
		ctx = o.withConversation(ctx, conv)
		end := o.now()

		conv.mu.Lock()
		conv.endTime = end
		if conv.state != StateEscalated {
			conv.state = StateEnded
		}
		turns, errs, escalated := conv.turns, conv.errors, conv.escalated
		conv.mu.Unlock()

		close(conv.done)
		if f, ok := o.backend.(forgetter); ok {
			f.Forget(conv.ID)
		}

		o.logger.Info(ctx, fmt.Sprintf("Call ended - Duration: %s, Turns: %d", end.Sub(conv.StartTime).Round(time.Millisecond), turns))
		o.logger.Metrics(ctx,
			observability.MetricField{Key: "turns", Value: turns},
			observability.MetricField{Key: "errors", Value: errs},
			observability.MetricField{Key: "escalated", Value: escalated},
			observability.MetricField{Key: "duration_ms", Value: end.Sub(conv.StartTime).Milliseconds()},
		)
	})
}

// speak queues text for the voice layer. It gives up if the conversation
// has already ended or ctx is done.
func (o *Orchestrator) speak(ctx context.Context, conv *Conversation, text string) {
	select {
	case conv.replies <- text:
	case <-conv.done:
	case <-ctx.Done():
	}
}

func (o *Orchestrator) withConversation(ctx context.Context, conv *Conversation) context.Context {
	return observability.WithFields(ctx,
		observability.Field{Key: "call_id", Value: conv.CallID},
		observability.Field{Key: "conversation_id", Value: conv.ID},
	)
}

func newID(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
