package processor

import (
	"context"
	"fmt"

	"callrelay/internal/calls/registry"
	"callrelay/internal/observability"
	"callrelay/internal/phone"
	"callrelay/internal/relay"

	"github.com/sethvargo/go-retry"
)

// ServeMediaStream runs one carrier call from its start frame until either
// side hangs up, the conversation ends, or ctx is cancelled. The stream is
// closed before it returns.
func (v *VoiceCallProcessor) ServeMediaStream(ctx context.Context, stream MediaStream) error {
	start, err := stream.WaitForStart()
	if err != nil {
		_ = stream.Close()
		v.logger.Warn(ctx, fmt.Sprintf("Media stream ended before start: %v", err))
		return err
	}

	callID := start.CallID
	if callID == "" {
		callID = start.Params["call_sid"]
	}
	if callID == "" {
		callID = start.StreamID
	}
	caller := phone.CallerID(start.Params["caller"])
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "call_id", Value: callID},
		observability.Field{Key: "stream_sid", Value: start.StreamID},
	)

	if _, err := v.registry.Add(callID, caller, registry.SourceCarrier); err != nil {
		_ = stream.Close()
		v.logger.Error(ctx, "Failed to register carrier call", err)
		return err
	}
	defer v.registry.Remove(callID)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if !v.registry.Attach(callID, cancel) {
		// hung up before the session started
		_ = stream.Close()
		return nil
	}
	v.logger.Info(ctx, fmt.Sprintf("Media stream started for %s", caller))

	ai, err := v.dialModel(ctx)
	if err != nil {
		_ = stream.Close()
		v.logger.Error(ctx, "Failed to connect model session", err)
		return err
	}

	conv := v.conversations.StartCall(ctx, callID, start.StreamID, caller)
	defer v.conversations.EndCall(context.WithoutCancel(ctx), conv)

	_, err = v.relay.Run(ctx, relay.Call{
		ID:            callID,
		Carrier:       stream,
		AI:            ai,
		Bridge:        conv.Bridge(),
		SessionUpdate: v.sessionUpdate,
	})
	if err != nil {
		v.logger.Error(ctx, "Media stream ended with error", err)
		return err
	}
	v.logger.Info(ctx, "Media stream closed")
	return nil
}

func (v *VoiceCallProcessor) dialModel(ctx context.Context) (relay.Conn, error) {
	var conn relay.Conn
	attempt := 0
	backoff := retry.WithMaxRetries(uint64(v.cfg.DialAttempts-1), retry.NewExponential(v.cfg.DialBackoff))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		c, err := v.dial(ctx, v.cfg.Model)
		if err != nil {
			v.logger.Warn(ctx, fmt.Sprintf("Model dial attempt %d/%d failed: %v", attempt, v.cfg.DialAttempts, err))
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
