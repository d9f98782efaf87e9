// Package processor serves calls the carrier bridges to this service over a
// media-stream websocket. Each call gets its own model session, an
// orchestrator conversation, and a relay between the two.
package processor

//go:generate go run go.uber.org/mock/mockgen@latest -source=new.go -destination=mocks_test.go -package=processor

import (
	"context"
	"time"

	"callrelay/internal/calls/registry"
	"callrelay/internal/observability"
	"callrelay/internal/orchestrator"
	"callrelay/internal/relay"
	"callrelay/internal/voice/audio"
)

const (
	DefaultModel = "gpt-realtime"
	DefaultVoice = "alloy"

	defaultDialAttempts = 3
	defaultDialBackoff  = time.Second
)

// MediaStream is the carrier leg before and during relaying.
type MediaStream interface {
	relay.Carrier
	WaitForStart() (relay.CarrierEvent, error)
}

// Relayer serves one call until it ends.
type Relayer interface {
	Run(ctx context.Context, call relay.Call) (*relay.Session, error)
}

// Conversations starts and ends the orchestrator side of a call.
type Conversations interface {
	StartCall(ctx context.Context, callID, streamID, customerPhone string) *orchestrator.Conversation
	EndCall(ctx context.Context, conv *orchestrator.Conversation)
}

// DialFunc opens a fresh model session.
type DialFunc func(ctx context.Context, model string) (relay.Conn, error)

type Config struct {
	Model        string
	Voice        string
	AudioFormat  audio.Format
	DialAttempts int
	DialBackoff  time.Duration
}

type VoiceCallProcessor struct {
	registry      *registry.Registry
	relay         Relayer
	conversations Conversations
	dial          DialFunc
	cfg           Config
	sessionUpdate SessionUpdate
	logger        *observability.Logger
}

func NewVoiceCallProcessor(reg *registry.Registry, relayer Relayer, conversations Conversations, dial DialFunc, cfg Config, logger *observability.Logger) *VoiceCallProcessor {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Voice == "" {
		cfg.Voice = DefaultVoice
	}
	if cfg.AudioFormat == (audio.Format{}) {
		cfg.AudioFormat = audio.Format{Encoding: audio.EncodingPCM16, SampleRate: 8000}
	}
	if cfg.DialAttempts <= 0 {
		cfg.DialAttempts = defaultDialAttempts
	}
	if cfg.DialBackoff <= 0 {
		cfg.DialBackoff = defaultDialBackoff
	}
	return &VoiceCallProcessor{
		registry:      reg,
		relay:         relayer,
		conversations: conversations,
		dial:          dial,
		cfg:           cfg,
		sessionUpdate: BuildSessionUpdate(cfg.Voice, cfg.AudioFormat),
		logger:        logger,
	}
}
