// Package notify tells a human operator that a call needs them.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"callrelay/internal/observability"
)

// Escalation describes a call handed off to a person.
type Escalation struct {
	ConversationID string
	CallID         string
	CustomerPhone  string
	Reason         string
	Turns          int
	At             time.Time
}

// Subject is a one-line summary used for email subjects.
func (e Escalation) Subject() string {
	return fmt.Sprintf("Call escalated: %s", e.CustomerPhone)
}

// Body is the text sent to the operator.
func (e Escalation) Body() string {
	var b strings.Builder
	fmt.Fprintf(&b, "ESCALATION: %s\n", e.Reason)
	fmt.Fprintf(&b, "Call: %s\n", e.CallID)
	fmt.Fprintf(&b, "Customer: %s\n", e.CustomerPhone)
	if e.ConversationID != "" {
		fmt.Fprintf(&b, "Conversation: %s\n", e.ConversationID)
	}
	fmt.Fprintf(&b, "Turns: %d", e.Turns)
	if !e.At.IsZero() {
		fmt.Fprintf(&b, "\nAt: %s", e.At.UTC().Format(time.RFC3339))
	}
	return b.String()
}

type Notifier interface {
	Notify(ctx context.Context, e Escalation) error
}

type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) (string, error)
}

type EmailSender interface {
	SendEmail(ctx context.Context, from, to, subject, text string) (string, error)
}

// SMSNotifier texts the escalation to a fixed number.
type SMSNotifier struct {
	sender SMSSender
	to     string
}

func NewSMSNotifier(sender SMSSender, to string) *SMSNotifier {
	return &SMSNotifier{sender: sender, to: to}
}

func (n *SMSNotifier) Notify(ctx context.Context, e Escalation) error {
	if _, err := n.sender.SendSMS(ctx, n.to, e.Body()); err != nil {
		return fmt.Errorf("sms notification: %w", err)
	}
	return nil
}

// EmailNotifier mails the escalation to a fixed address.
type EmailNotifier struct {
	sender EmailSender
	from   string
	to     string
}

func NewEmailNotifier(sender EmailSender, from, to string) *EmailNotifier {
	return &EmailNotifier{sender: sender, from: from, to: to}
}

func (n *EmailNotifier) Notify(ctx context.Context, e Escalation) error {
	if _, err := n.sender.SendEmail(ctx, n.from, n.to, e.Subject(), e.Body()); err != nil {
		return fmt.Errorf("email notification: %w", err)
	}
	return nil
}

// LogNotifier only writes the escalation to the log. It is used when no
// channel to a person is configured.
type LogNotifier struct {
	logger *observability.Logger
}

func NewLogNotifier(logger *observability.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, e Escalation) error {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "call_id", Value: e.CallID},
		observability.Field{Key: "conversation_id", Value: e.ConversationID},
		observability.Field{Key: "customer_phone", Value: e.CustomerPhone},
		observability.Field{Key: "reason", Value: e.Reason},
	)
	n.logger.Warn(ctx, "Call escalated to manager")
	return nil
}

// Multi fans an escalation out to every notifier. All of them are tried;
// their errors are joined.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, e Escalation) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
