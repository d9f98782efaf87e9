package relay

import (
	"encoding/json"
	"fmt"
)

// Realtime server event types the relay acts on.
const (
	TypeAudioDelta             = "response.audio.delta"
	TypeOutputAudioDelta       = "response.output_audio.delta"
	TypeAudioDone              = "response.audio.done"
	TypeOutputAudioDone        = "response.output_audio.done"
	TypeSpeechStarted          = "input_audio_buffer.speech_started"
	TypeTranscriptionCompleted = "conversation.item.input_audio_transcription.completed"
	TypeOutputItemAdded        = "response.output_item.added"
	TypeArgumentsDelta         = "response.function_call_arguments.delta"
	TypeArgumentsDone          = "response.function_call_arguments.done"
	TypeResponseDone           = "response.done"
	TypeError                  = "error"
	TypeSessionCreated         = "session.created"
	TypeSessionUpdated         = "session.updated"
)

// Event is one decoded realtime server event. The concrete type is one of the
// variants below; anything the relay does not act on decodes to OtherEvent.
type Event interface {
	EventType() string
}

type AudioDelta struct {
	ItemID string
	Audio  string // base64
}

type AudioDone struct {
	ItemID string
}

type SpeechStarted struct{}

type TranscriptionCompleted struct {
	ItemID     string
	Transcript string
}

// FunctionCallStarted opens a pending tool call.
type FunctionCallStarted struct {
	CallID string
	ItemID string
	Name   string
}

type FunctionCallArgumentsDelta struct {
	CallID string
	Delta  string
}

// FunctionCallArgumentsDone closes a tool call. Name and Arguments may be
// empty, in which case the pending entry supplies them.
type FunctionCallArgumentsDone struct {
	CallID    string
	Name      string
	Arguments string
}

type ResponseDone struct {
	ResponseID string
	Status     string
}

type ErrorEvent struct {
	Code    string
	Message string
}

type SessionEvent struct {
	Type string
}

type OtherEvent struct {
	Type string
}

func (AudioDelta) EventType() string                 { return TypeAudioDelta }
func (AudioDone) EventType() string                  { return TypeAudioDone }
func (SpeechStarted) EventType() string              { return TypeSpeechStarted }
func (TranscriptionCompleted) EventType() string     { return TypeTranscriptionCompleted }
func (FunctionCallStarted) EventType() string        { return TypeOutputItemAdded }
func (FunctionCallArgumentsDelta) EventType() string { return TypeArgumentsDelta }
func (FunctionCallArgumentsDone) EventType() string  { return TypeArgumentsDone }
func (ResponseDone) EventType() string               { return TypeResponseDone }
func (ErrorEvent) EventType() string                 { return TypeError }
func (e SessionEvent) EventType() string             { return e.Type }
func (e OtherEvent) EventType() string               { return e.Type }

// MalformedEventError is returned for a frame that is not valid JSON or does
// not carry the fields its type requires. The frame is skipped.
type MalformedEventError struct {
	Leg string
	Err error
}

func (e *MalformedEventError) Error() string {
	return fmt.Sprintf("malformed %s event: %v", e.Leg, e.Err)
}

func (e *MalformedEventError) Unwrap() error {
	return e.Err
}

type serverEvent struct {
	Type       string `json:"type"`
	ItemID     string `json:"item_id"`
	Delta      string `json:"delta"`
	CallID     string `json:"call_id"`
	Name       string `json:"name"`
	Arguments  string `json:"arguments"`
	Transcript string `json:"transcript"`
	Item       *struct {
		ID     string `json:"id"`
		Type   string `json:"type"`
		CallID string `json:"call_id"`
		Name   string `json:"name"`
	} `json:"item"`
	Response *struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	} `json:"response"`
	Error *struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// DecodeEvent parses one realtime server frame.
func DecodeEvent(data []byte) (Event, error) {
	var raw serverEvent
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &MalformedEventError{Leg: LegAI, Err: err}
	}

	switch raw.Type {
	case TypeAudioDelta, TypeOutputAudioDelta:
		return AudioDelta{ItemID: raw.ItemID, Audio: raw.Delta}, nil
	case TypeAudioDone, TypeOutputAudioDone:
		return AudioDone{ItemID: raw.ItemID}, nil
	case TypeSpeechStarted:
		return SpeechStarted{}, nil
	case TypeTranscriptionCompleted:
		return TranscriptionCompleted{ItemID: raw.ItemID, Transcript: raw.Transcript}, nil
	case TypeOutputItemAdded:
		if raw.Item == nil || raw.Item.Type != "function_call" {
			return OtherEvent{Type: raw.Type}, nil
		}
		if raw.Item.CallID == "" {
			return nil, &MalformedEventError{Leg: LegAI, Err: fmt.Errorf("%s without call_id", raw.Type)}
		}
		return FunctionCallStarted{CallID: raw.Item.CallID, ItemID: raw.Item.ID, Name: raw.Item.Name}, nil
	case TypeArgumentsDelta:
		if raw.CallID == "" {
			return nil, &MalformedEventError{Leg: LegAI, Err: fmt.Errorf("%s without call_id", raw.Type)}
		}
		return FunctionCallArgumentsDelta{CallID: raw.CallID, Delta: raw.Delta}, nil
	case TypeArgumentsDone:
		if raw.CallID == "" {
			return nil, &MalformedEventError{Leg: LegAI, Err: fmt.Errorf("%s without call_id", raw.Type)}
		}
		return FunctionCallArgumentsDone{CallID: raw.CallID, Name: raw.Name, Arguments: raw.Arguments}, nil
	case TypeResponseDone:
		done := ResponseDone{}
		if raw.Response != nil {
			done.ResponseID = raw.Response.ID
			done.Status = raw.Response.Status
		}
		return done, nil
	case TypeError:
		e := ErrorEvent{}
		if raw.Error != nil {
			e.Code = raw.Error.Code
			if e.Code == "" {
				e.Code = raw.Error.Type
			}
			e.Message = raw.Error.Message
		}
		return e, nil
	case TypeSessionCreated, TypeSessionUpdated:
		return SessionEvent{Type: raw.Type}, nil
	default:
		return OtherEvent{Type: raw.Type}, nil
	}
}
