package twilio

import (
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"callrelay/internal/relay"
	"callrelay/internal/voice/audio"

	"github.com/gorilla/websocket"
)

const closeWriteTimeout = time.Second

// ErrNoStart is returned by WaitForStart when the stream ends before start.
var ErrNoStart = errors.New("media stream ended before start")

// MediaEvent is one inbound media-stream frame.
type MediaEvent struct {
	Event     string `json:"event"`
	StreamSid string `json:"streamSid,omitempty"`
	Start     *struct {
		StreamSid        string            `json:"streamSid"`
		CallSid          string            `json:"callSid"`
		AccountSid       string            `json:"accountSid"`
		CustomParameters map[string]string `json:"customParameters"`
	} `json:"start,omitempty"`
	Media *struct {
		Track   string `json:"track"`
		Payload string `json:"payload"`
	} `json:"media,omitempty"`
	Mark *struct {
		Name string `json:"name"`
	} `json:"mark,omitempty"`
	DTMF *struct {
		Digit string `json:"digit"`
	} `json:"dtmf,omitempty"`
	Stop *struct {
		CallSid string `json:"callSid"`
	} `json:"stop,omitempty"`
}

type outboundMedia struct {
	Payload string `json:"payload"`
}

type outboundMark struct {
	Name string `json:"name"`
}

type outboundEvent struct {
	Event     string         `json:"event"`
	StreamSid string         `json:"streamSid"`
	Media     *outboundMedia `json:"media,omitempty"`
	Mark      *outboundMark  `json:"mark,omitempty"`
}

// Stream is the carrier leg of a call over a Twilio media-stream websocket.
// It implements relay.Carrier.
type Stream struct {
	conn relay.Conn

	// writeMutex guards writes and streamSid, which Receive sets and the
	// send side reads.
	writeMutex sync.Mutex
	streamSid  string
	closed     atomic.Bool
}

// controlWriter is implemented by *websocket.Conn. Control frames may be
// written concurrently with data frames.
type controlWriter interface {
	WriteControl(messageType int, data []byte, deadline time.Time) error
}

var _ relay.Carrier = (*Stream)(nil)

func NewStream(conn relay.Conn) *Stream {
	return &Stream{conn: conn}
}

// Receive reads the next frame. Unparseable frames and undecodable audio are
// reported as *relay.MalformedEventError.
func (s *Stream) Receive() (relay.CarrierEvent, error) {
	_, msg, err := s.conn.ReadMessage()
	if err != nil {
		return relay.CarrierEvent{}, err
	}

	var event MediaEvent
	if err := json.Unmarshal(msg, &event); err != nil {
		return relay.CarrierEvent{}, &relay.MalformedEventError{Leg: relay.LegCarrier, Err: err}
	}

	ev := relay.CarrierEvent{Name: event.Event, StreamID: event.StreamSid}
	switch event.Event {
	case "start":
		if event.Start == nil {
			return relay.CarrierEvent{}, malformed("start without start block")
		}
		ev.Kind = relay.CarrierStart
		ev.StreamID = event.Start.StreamSid
		ev.CallID = event.Start.CallSid
		ev.Params = event.Start.CustomParameters
		s.writeMutex.Lock()
		s.streamSid = event.Start.StreamSid
		s.writeMutex.Unlock()

	case "media":
		if event.Media == nil {
			return relay.CarrierEvent{}, malformed("media without media block")
		}
		payload, err := audio.DecodeBase64(event.Media.Payload)
		if err != nil {
			return relay.CarrierEvent{}, &relay.MalformedEventError{Leg: relay.LegCarrier, Err: err}
		}
		ev.Kind = relay.CarrierMedia
		ev.Audio = payload

	case "mark":
		ev.Kind = relay.CarrierMark
		if event.Mark != nil {
			ev.Mark = event.Mark.Name
		}

	case "dtmf":
		ev.Kind = relay.CarrierDTMF
		if event.DTMF != nil {
			ev.Digit = event.DTMF.Digit
		}

	case "stop":
		ev.Kind = relay.CarrierStop
		if event.Stop != nil {
			ev.CallID = event.Stop.CallSid
		}

	default:
		ev.Kind = relay.CarrierOther
	}
	return ev, nil
}

// WaitForStart reads until the start frame and returns it. Frames before it
// are discarded.
func (s *Stream) WaitForStart() (relay.CarrierEvent, error) {
	for {
		ev, err := s.Receive()
		if err != nil {
			var malformedErr *relay.MalformedEventError
			if errors.As(err, &malformedErr) {
				continue
			}
			return relay.CarrierEvent{}, err
		}
		switch ev.Kind {
		case relay.CarrierStart:
			return ev, nil
		case relay.CarrierStop:
			return relay.CarrierEvent{}, ErrNoStart
		}
	}
}

func (s *Stream) SendAudio(frame []byte) error {
	return s.write(outboundEvent{Event: "media", Media: &outboundMedia{Payload: audio.EncodeBase64(frame)}})
}

// SendMark asks the carrier to echo name once queued audio has played.
func (s *Stream) SendMark(name string) error {
	return s.write(outboundEvent{Event: "mark", Mark: &outboundMark{Name: name}})
}

// Clear drops audio the carrier has buffered but not yet played.
func (s *Stream) Clear() error {
	return s.write(outboundEvent{Event: "clear"})
}

func (s *Stream) write(ev outboundEvent) error {
	s.writeMutex.Lock()
	defer s.writeMutex.Unlock()

	if s.closed.Load() {
		return websocket.ErrCloseSent
	}
	ev.StreamSid = s.streamSid
	msg, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return s.conn.WriteMessage(websocket.TextMessage, msg)
}

// Close sends a normal close frame, bounded by closeWriteTimeout, and closes
// the connection without waiting for in-flight writes.
func (s *Stream) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	frame := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if cw, ok := s.conn.(controlWriter); ok {
		_ = cw.WriteControl(websocket.CloseMessage, frame, time.Now().Add(closeWriteTimeout))
	} else {
		s.writeMutex.Lock()
		_ = s.conn.WriteMessage(websocket.CloseMessage, frame)
		s.writeMutex.Unlock()
	}

	return s.conn.Close()
}

func (s *Stream) StreamSID() string {
	s.writeMutex.Lock()
	defer s.writeMutex.Unlock()
	return s.streamSid
}

func malformed(msg string) error {
	return &relay.MalformedEventError{Leg: relay.LegCarrier, Err: errors.New(msg)}
}
