// Package relay bridges one call's carrier media stream and its realtime AI
// session. Audio flows both ways with inline transcoding, tool calls streamed
// by the model are assembled and executed, and transcripts are handed to an
// optional orchestrator whose replies the model speaks.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"callrelay/internal/observability"
	"callrelay/internal/tools"
	"callrelay/internal/voice/audio"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"
)

const (
	LegCarrier = "carrier"
	LegAI      = "ai"

	DefaultToolTimeout = 30 * time.Second
)

// ErrStreamStopped is returned internally when the carrier sends stop.
var ErrStreamStopped = errors.New("carrier stream stopped")

var (
	errSessionEnded = errors.New("session ended")
	errPeerClosed   = errors.New("peer closed connection")
)

// TransportError is a read or write failure on one leg. It ends the call.
type TransportError struct {
	Leg string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s leg: %v", e.Leg, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Conn is the AI leg's message connection. *websocket.Conn satisfies it.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Bridge hands transcripts to an orchestrator and takes back what the model
// should say. Closing Done ends the session.
type Bridge struct {
	Transcripts chan<- string
	Replies     <-chan string
	Done        <-chan struct{}
}

type Config struct {
	ToolTimeout time.Duration
	// AIFormat is the audio format of the model leg when a carrier is bridged.
	AIFormat audio.Format
	// DrainGrace keeps both legs open for a while after the bridge closes
	// Done, so a last reply can still be spoken.
	DrainGrace time.Duration
}

// Call is everything Run needs for one call.
type Call struct {
	ID      string
	Carrier Carrier // nil when the backend carries the media itself
	AI      Conn
	Bridge  *Bridge // optional
	// SessionUpdate, when set, is sent on the AI leg before streaming starts.
	SessionUpdate any
}

type Relay struct {
	tools       tools.Executor
	transcoder  *audio.Transcoder
	toolTimeout time.Duration
	drainGrace  time.Duration
	logger      *observability.Logger
	now         func() time.Time
}

func New(executor tools.Executor, cfg Config, logger *observability.Logger) *Relay {
	if cfg.ToolTimeout <= 0 {
		cfg.ToolTimeout = DefaultToolTimeout
	}
	if cfg.AIFormat == (audio.Format{}) {
		cfg.AIFormat = audio.CarrierFormat
	}
	return &Relay{
		tools:       executor,
		transcoder:  audio.NewTranscoder(audio.CarrierFormat, cfg.AIFormat),
		toolTimeout: cfg.ToolTimeout,
		drainGrace:  cfg.DrainGrace,
		logger:      logger,
		now:         time.Now,
	}
}

type aiLeg struct {
	conn      Conn
	mu        sync.Mutex
	closeOnce sync.Once
}

func (l *aiLeg) send(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.conn.WriteMessage(websocket.TextMessage, data)
}

func (l *aiLeg) close() {
	l.closeOnce.Do(func() { _ = l.conn.Close() })
}

type carrierLeg struct {
	Carrier
	closeOnce sync.Once
}

func (l *carrierLeg) close() {
	l.closeOnce.Do(func() { _ = l.Carrier.Close() })
}

// Run relays one call until either leg ends, the bridge closes Done, or ctx
// is cancelled. Both connections are closed before it returns. The returned
// error is nil for an orderly end and a *TransportError otherwise.
func (r *Relay) Run(ctx context.Context, call Call) (*Session, error) {
	sess := newSession(call.ID, r.now())
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "call_id", Value: call.ID},
	)

	ai := &aiLeg{conn: call.AI}
	var carrier *carrierLeg
	if call.Carrier != nil {
		carrier = &carrierLeg{Carrier: call.Carrier}
	}
	closeLegs := func() {
		ai.close()
		if carrier != nil {
			carrier.close()
		}
	}

	if call.SessionUpdate != nil {
		if err := ai.send(call.SessionUpdate); err != nil {
			sess.advance(StateDraining)
			closeLegs()
			r.finish(ctx, sess)
			return sess, &TransportError{Leg: LegAI, Err: err}
		}
	}
	sess.advance(StateStreaming)
	r.logger.Info(ctx, "Relay streaming")

	var done <-chan struct{}
	if call.Bridge != nil {
		done = call.Bridge.Done
	}

	g, gctx := errgroup.WithContext(ctx)
	if carrier != nil {
		g.Go(func() error { return r.pumpCarrier(gctx, sess, carrier, ai) })
	}
	g.Go(func() error { return r.pumpAI(gctx, sess, ai, carrier, call.Bridge) })
	if call.Bridge != nil && call.Bridge.Replies != nil {
		g.Go(func() error { return r.pumpReplies(gctx, sess, ai, call.Bridge.Replies) })
	}
	var flushed int
	g.Go(func() error {
		select {
		case <-gctx.Done():
		case <-done:
			flushed = r.flushReplies(gctx, ai, call.Bridge.Replies)
			r.drain(gctx)
		}
		sess.advance(StateDraining)
		closeLegs()
		return errSessionEnded
	})

	err := g.Wait()
	sess.stats.Replies += flushed
	r.finish(ctx, sess)

	switch {
	case err == nil,
		errors.Is(err, errSessionEnded),
		errors.Is(err, errPeerClosed),
		errors.Is(err, ErrStreamStopped):
		return sess, nil
	default:
		r.logger.Error(ctx, "Relay ended with transport error", err)
		return sess, err
	}
}

// flushReplies speaks replies queued before the bridge closed and returns
// how many were sent.
func (r *Relay) flushReplies(ctx context.Context, ai *aiLeg, replies <-chan string) int {
	n := 0
	if replies == nil {
		return n
	}
	for {
		select {
		case text, ok := <-replies:
			if !ok {
				return n
			}
			if err := ai.send(speak(text)); err != nil {
				r.logger.Warn(ctx, fmt.Sprintf("Failed to speak final reply: %v", err))
				return n
			}
			n++
		default:
			return n
		}
	}
}

func (r *Relay) drain(ctx context.Context) {
	if r.drainGrace <= 0 {
		return
	}
	t := time.NewTimer(r.drainGrace)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

func (r *Relay) finish(ctx context.Context, sess *Session) {
	sess.advance(StateClosed)
	sess.EndedAt = r.now()
	st := sess.stats
	r.logger.Metrics(ctx,
		observability.MetricField{Key: "state", Value: sess.State().String()},
		observability.MetricField{Key: "duration_ms", Value: sess.EndedAt.Sub(sess.StartedAt).Milliseconds()},
		observability.MetricField{Key: "frames_in", Value: st.FramesIn},
		observability.MetricField{Key: "frames_out", Value: st.FramesOut},
		observability.MetricField{Key: "bytes_in", Value: st.BytesIn},
		observability.MetricField{Key: "bytes_out", Value: st.BytesOut},
		observability.MetricField{Key: "tool_calls", Value: st.ToolCalls},
		observability.MetricField{Key: "tool_errors", Value: st.ToolErrors},
		observability.MetricField{Key: "transcripts", Value: st.Transcripts},
		observability.MetricField{Key: "malformed", Value: st.MalformedFrames + st.MalformedEvents},
	)
}

// legError turns a leg failure into the pump's return value. Failures caused
// by the session already shutting down are not transport errors.
func legError(ctx context.Context, sess *Session, leg string, err error) error {
	if ctx.Err() != nil || sess.State() >= StateDraining {
		return errSessionEnded
	}
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		return errPeerClosed
	}
	return &TransportError{Leg: leg, Err: err}
}

func (r *Relay) pumpCarrier(ctx context.Context, sess *Session, carrier *carrierLeg, ai *aiLeg) error {
	ctx = observability.WithFields(ctx, observability.Field{Key: "leg", Value: LegCarrier})

	for {
		ev, err := carrier.Receive()
		if err != nil {
			var malformed *MalformedEventError
			if errors.As(err, &malformed) {
				sess.stats.MalformedFrames++
				r.logger.Warn(ctx, malformed.Error())
				continue
			}
			return legError(ctx, sess, LegCarrier, err)
		}

		switch ev.Kind {
		case CarrierStart:
			sess.advance(StateStreaming)
			r.logger.Info(ctx, fmt.Sprintf("Carrier stream started: %s", ev.StreamID))

		case CarrierMedia:
			frame := r.transcoder.ToAI(ev.Audio)
			if err := ai.send(appendAudio(audio.EncodeBase64(frame))); err != nil {
				return legError(ctx, sess, LegAI, err)
			}
			sess.stats.FramesIn++
			sess.stats.BytesIn += len(ev.Audio)

		case CarrierMark:
			r.logger.Debug(ctx, fmt.Sprintf("Carrier played mark %s", ev.Mark))

		case CarrierDTMF:
			r.logger.Info(ctx, fmt.Sprintf("Carrier DTMF digit %s", ev.Digit))

		case CarrierStop:
			sess.advance(StateDraining)
			r.logger.Info(ctx, "Carrier stream stopped")
			return ErrStreamStopped

		default:
			r.logger.Debug(ctx, fmt.Sprintf("Unhandled carrier event: %s", ev.Name))
		}
	}
}

func (r *Relay) pumpAI(ctx context.Context, sess *Session, ai *aiLeg, carrier *carrierLeg, bridge *Bridge) error {
	ctx = observability.WithFields(ctx, observability.Field{Key: "leg", Value: LegAI})

	for {
		_, data, err := ai.conn.ReadMessage()
		if err != nil {
			return legError(ctx, sess, LegAI, err)
		}

		ev, err := DecodeEvent(data)
		if err != nil {
			sess.stats.MalformedEvents++
			r.logger.Warn(ctx, err.Error())
			continue
		}

		if err := r.handleAIEvent(ctx, sess, ev, ai, carrier, bridge); err != nil {
			return err
		}
	}
}

func (r *Relay) handleAIEvent(ctx context.Context, sess *Session, ev Event, ai *aiLeg, carrier *carrierLeg, bridge *Bridge) error {
	switch e := ev.(type) {
	case AudioDelta:
		if carrier == nil {
			return nil
		}
		frame, err := audio.DecodeBase64(e.Audio)
		if err != nil {
			sess.stats.MalformedEvents++
			r.logger.Warn(ctx, err.Error())
			return nil
		}
		frame = r.transcoder.ToCarrier(frame)
		if err := carrier.SendAudio(frame); err != nil {
			return legError(ctx, sess, LegCarrier, err)
		}
		sess.stats.FramesOut++
		sess.stats.BytesOut += len(frame)

	case AudioDone:
		if carrier == nil {
			return nil
		}
		name := e.ItemID
		if name == "" {
			name = "response_done"
		}
		if err := carrier.SendMark(name); err != nil {
			return legError(ctx, sess, LegCarrier, err)
		}

	case SpeechStarted:
		if carrier == nil {
			return nil
		}
		if err := carrier.Clear(); err != nil {
			return legError(ctx, sess, LegCarrier, err)
		}

	case TranscriptionCompleted:
		text := strings.TrimSpace(e.Transcript)
		if text == "" {
			return nil
		}
		sess.stats.Transcripts++
		r.logger.Info(ctx, fmt.Sprintf("Customer said: %s", text))
		if bridge == nil || bridge.Transcripts == nil {
			return nil
		}
		select {
		case bridge.Transcripts <- text:
		case <-bridge.Done:
			return errSessionEnded
		case <-ctx.Done():
			return errSessionEnded
		}

	case FunctionCallStarted:
		sess.openToolCall(e.CallID, e.Name)
		r.logger.Debug(ctx, fmt.Sprintf("Tool call %s started: %s", e.CallID, e.Name))

	case FunctionCallArgumentsDelta:
		sess.appendArguments(e.CallID, e.Delta)

	case FunctionCallArgumentsDone:
		output := r.dispatchToolCall(ctx, sess, e)
		if err := ai.send(functionCallOutput(e.CallID, output)); err != nil {
			return legError(ctx, sess, LegAI, err)
		}
		if err := ai.send(createResponse()); err != nil {
			return legError(ctx, sess, LegAI, err)
		}

	case ErrorEvent:
		r.logger.Error(ctx, "Realtime backend reported an error", fmt.Errorf("%s: %s", e.Code, e.Message))

	case ResponseDone:
		r.logger.Debug(ctx, fmt.Sprintf("Response %s %s", e.ResponseID, e.Status))

	case SessionEvent:
		r.logger.Debug(ctx, fmt.Sprintf("Realtime %s", e.Type))

	case OtherEvent:
		r.logger.Debug(ctx, fmt.Sprintf("Unhandled realtime event: %s", e.Type))
	}
	return nil
}

// dispatchToolCall executes a completed tool call and returns the text for
// the function output. The pending entry is gone when it returns.
func (r *Relay) dispatchToolCall(ctx context.Context, sess *Session, done FunctionCallArgumentsDone) string {
	defer sess.removeToolCall(done.CallID)

	inv, parseErr := sess.completeToolCall(done)
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "tool_name", Value: inv.Name},
		observability.Field{Key: "tool_call_id", Value: inv.CallID},
	)
	if parseErr != nil {
		r.logger.Warn(ctx, fmt.Sprintf("Dispatching tool call without arguments: %v", parseErr))
	}

	if inv.Name == "" {
		sess.stats.ToolErrors++
		err := errors.New("tool call has no name")
		r.logger.Error(ctx, "Cannot dispatch tool call", err)
		return tools.ResultText("unknown tool", "", err)
	}
	if r.tools == nil {
		sess.stats.ToolErrors++
		return tools.ResultText(inv.Name, "", errors.New("no tool executor configured"))
	}

	sess.stats.ToolCalls++
	result, err := r.execute(ctx, inv)
	if err != nil {
		sess.stats.ToolErrors++
		r.logger.Error(ctx, "Tool call failed", err)
	} else {
		r.logger.Info(ctx, "Tool call completed")
	}
	return tools.ResultText(inv.Name, result, err)
}

// execute bounds the executor by the tool timeout even if it ignores ctx.
func (r *Relay) execute(ctx context.Context, inv tools.Invocation) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.toolTimeout)
	defer cancel()

	type outcome struct {
		result string
		err    error
	}
	ch := make(chan outcome, 1)
	go func() {
		result, err := r.tools.Execute(ctx, inv.Name, inv.Arguments)
		ch <- outcome{result: result, err: err}
	}()

	select {
	case out := <-ch:
		return out.result, out.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (r *Relay) pumpReplies(ctx context.Context, sess *Session, ai *aiLeg, replies <-chan string) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case text, ok := <-replies:
			if !ok {
				<-ctx.Done()
				return nil
			}
			if err := ai.send(speak(text)); err != nil {
				return legError(ctx, sess, LegAI, err)
			}
			sess.stats.Replies++
		}
	}
}
