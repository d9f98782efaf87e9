// Package processor runs the lifecycle of calls answered through the
// realtime calls API: accept, reject, hang up, transfer, and the sideband
// relay that serves tool calls while the call is up.
package processor

//go:generate go run go.uber.org/mock/mockgen@latest -source=processor.go -destination=mocks_test.go -package=processor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"callrelay/internal/calls/registry"
	"callrelay/internal/observability"
	"callrelay/internal/phone"
	"callrelay/internal/relay"

	"github.com/sethvargo/go-retry"
)

const (
	DefaultRejectStatus = 603
	defaultDialAttempts = 3
	defaultDialBackoff  = time.Second
)

var (
	ErrInvalidCallID         = errors.New("call id is required")
	ErrInvalidTransferTarget = errors.New("transfer target must be a tel: or sip: URI")
	ErrDuplicateCall         = errors.New("call is already being served")

	ErrCarrierControlUnavailable = errors.New("carrier calls cannot be transferred without carrier REST credentials")
)

// CallControl is the realtime calls API.
type CallControl interface {
	Accept(ctx context.Context, callID string, sessionConfig any) (map[string]any, error)
	Reject(ctx context.Context, callID string, statusCode int) (map[string]any, error)
	Hangup(ctx context.Context, callID, reason string) (map[string]any, error)
	Refer(ctx context.Context, callID, targetURI string) (map[string]any, error)
}

// CarrierControl ends or redirects calls bridged over carrier media streams.
type CarrierControl interface {
	Hangup(ctx context.Context, callSid string) error
	Transfer(ctx context.Context, callSid, target string) error
}

// Relayer serves one call until it ends.
type Relayer interface {
	Run(ctx context.Context, call relay.Call) (*relay.Session, error)
}

// DialFunc opens the sideband event stream of an accepted call.
type DialFunc func(ctx context.Context, callID string) (relay.Conn, error)

type Config struct {
	Model        string
	Voice        string
	DialAttempts int
	DialBackoff  time.Duration
}

type CallProcessor struct {
	control  CallControl
	carrier  CarrierControl
	registry *registry.Registry
	relay    Relayer
	dial     DialFunc
	cfg      Config
	logger   *observability.Logger
	sessions sync.WaitGroup
}

// New builds a processor. carrier may be nil when no carrier REST account is
// configured.
func New(control CallControl, carrier CarrierControl, reg *registry.Registry, relayer Relayer, dial DialFunc, cfg Config, logger *observability.Logger) *CallProcessor {
	if cfg.DialAttempts <= 0 {
		cfg.DialAttempts = defaultDialAttempts
	}
	if cfg.DialBackoff <= 0 {
		cfg.DialBackoff = defaultDialBackoff
	}
	return &CallProcessor{
		control:  control,
		carrier:  carrier,
		registry: reg,
		relay:    relayer,
		dial:     dial,
		cfg:      cfg,
		logger:   logger,
	}
}

// AcceptCall answers an incoming SIP call. The call is recorded whatever the
// backend answers; the sideband relay only starts once the accept succeeded.
// Only one delivery of a webhook may accept a call; any other delivery while
// the call is claimed or served returns ErrDuplicateCall.
func (p *CallProcessor) AcceptCall(ctx context.Context, callID string, headers []SIPHeader) (map[string]any, error) {
	if callID == "" {
		return nil, ErrInvalidCallID
	}
	ctx = observability.WithFields(ctx, observability.Field{Key: "call_id", Value: callID})

	caller := phone.CallerID(HeaderValue(headers, "From"))
	if _, err := p.registry.Add(callID, caller, registry.SourceSIP); err != nil {
		if !errors.Is(err, registry.ErrDuplicateCall) {
			return nil, err
		}
		p.logger.Info(ctx, "Incoming call webhook redelivered")
	}
	if !p.registry.Claim(callID) {
		p.logger.Info(ctx, "Duplicate incoming call webhook ignored")
		return nil, ErrDuplicateCall
	}

	p.logger.Info(ctx, fmt.Sprintf("Accepting call from %s", caller))
	result, err := p.control.Accept(ctx, callID, BuildSessionConfig(p.cfg.Model, p.cfg.Voice, headers))
	if err != nil {
		p.registry.Release(callID)
		p.logger.Error(ctx, "Failed to accept call", err)
		return result, err
	}

	sessionCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	if !p.registry.Attach(callID, cancel) {
		// hung up while the accept was in flight
		cancel()
		return result, nil
	}

	p.sessions.Add(1)
	go func() {
		defer p.sessions.Done()
		p.serveSideband(sessionCtx, cancel, callID)
	}()
	return result, nil
}

func (p *CallProcessor) serveSideband(ctx context.Context, cancel context.CancelFunc, callID string) {
	defer cancel()
	defer p.registry.Remove(callID)

	conn, err := p.dialSideband(ctx, callID)
	if err != nil {
		if ctx.Err() == nil {
			p.logger.Error(ctx, "Failed to connect sideband", err)
		}
		return
	}
	p.logger.Info(ctx, "Sideband connected")

	if _, err := p.relay.Run(ctx, relay.Call{ID: callID, AI: conn}); err != nil {
		p.logger.Error(ctx, "Sideband ended with error", err)
		return
	}
	p.logger.Info(ctx, "Sideband closed")
}

func (p *CallProcessor) dialSideband(ctx context.Context, callID string) (relay.Conn, error) {
	var conn relay.Conn
	attempt := 0
	backoff := retry.WithMaxRetries(uint64(p.cfg.DialAttempts-1), retry.NewExponential(p.cfg.DialBackoff))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		c, err := p.dial(ctx, callID)
		if err != nil {
			p.logger.Warn(ctx, fmt.Sprintf("Sideband dial attempt %d/%d failed: %v", attempt, p.cfg.DialAttempts, err))
			return retry.RetryableError(err)
		}
		conn = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// RejectCall declines an incoming call. A zero status code means 603.
func (p *CallProcessor) RejectCall(ctx context.Context, callID string, statusCode int, reason string) (map[string]any, error) {
	if callID == "" {
		return nil, ErrInvalidCallID
	}
	if statusCode == 0 {
		statusCode = DefaultRejectStatus
	}
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "call_id", Value: callID},
		observability.Field{Key: "status_code", Value: statusCode},
	)
	if reason != "" {
		p.logger.Info(ctx, fmt.Sprintf("Rejecting call: %s", reason))
	} else {
		p.logger.Info(ctx, "Rejecting call")
	}
	return p.control.Reject(ctx, callID, statusCode)
}

// HangupCall ends a call and drops its record whether or not the hangup
// request succeeded. Hanging up an unknown call is not an error.
func (p *CallProcessor) HangupCall(ctx context.Context, callID, reason string) (map[string]any, error) {
	if callID == "" {
		return nil, ErrInvalidCallID
	}
	ctx = observability.WithFields(ctx, observability.Field{Key: "call_id", Value: callID})

	rec, known := p.registry.Get(callID)
	defer p.registry.Remove(callID)

	if known && rec.Source == registry.SourceCarrier {
		if p.carrier == nil {
			// the media stream closing ends the carrier call
			return map[string]any{"call_id": callID, "status": string(registry.StatusEnded)}, nil
		}
		if err := p.carrier.Hangup(ctx, callID); err != nil {
			return nil, err
		}
		return map[string]any{"call_id": callID, "status": "completed"}, nil
	}

	p.logger.Info(ctx, "Hanging up call")
	result, err := p.control.Hangup(ctx, callID, reason)
	if err != nil {
		p.logger.Error(ctx, "Failed to hang up call", err)
	}
	return result, err
}

// TransferCall refers the caller to a tel: or sip: target. The record is
// left alone; the backend ends the call once the transfer completes.
func (p *CallProcessor) TransferCall(ctx context.Context, callID, targetURI string) (map[string]any, error) {
	if callID == "" {
		return nil, ErrInvalidCallID
	}
	if !validTransferTarget(targetURI) {
		return nil, ErrInvalidTransferTarget
	}
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "call_id", Value: callID},
		observability.Field{Key: "target_uri", Value: targetURI},
	)

	if rec, ok := p.registry.Get(callID); ok && rec.Source == registry.SourceCarrier {
		if p.carrier == nil {
			return nil, ErrCarrierControlUnavailable
		}
		if err := p.carrier.Transfer(ctx, callID, targetURI); err != nil {
			return nil, err
		}
		return map[string]any{"call_id": callID, "target_uri": targetURI, "status": "transferring"}, nil
	}

	p.logger.Info(ctx, "Transferring call")
	result, err := p.control.Refer(ctx, callID, targetURI)
	if err != nil {
		p.logger.Error(ctx, "Failed to transfer call", err)
	}
	return result, err
}

// ListActiveCalls returns a copy of every live call keyed by call id.
func (p *CallProcessor) ListActiveCalls() map[string]registry.CallRecord {
	return p.registry.Snapshot()
}

func (p *CallProcessor) ActiveCallCount() int {
	return p.registry.Count()
}

// Shutdown hangs up every sideband session and waits for them to finish or
// for ctx to expire.
func (p *CallProcessor) Shutdown(ctx context.Context) error {
	n := p.registry.CloseAll()
	if n > 0 {
		p.logger.Info(ctx, fmt.Sprintf("Closing %d active calls", n))
	}

	done := make(chan struct{})
	go func() {
		p.sessions.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func validTransferTarget(target string) bool {
	lower := strings.ToLower(target)
	for _, scheme := range []string{"tel:", "sip:", "sips:"} {
		if strings.HasPrefix(lower, scheme) && len(target) > len(scheme) {
			return true
		}
	}
	return false
}
