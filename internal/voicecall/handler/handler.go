// Package handler answers carrier voice webhooks with TwiML and accepts the
// media-stream websocket the answer points at.
package handler

//go:generate go run go.uber.org/mock/mockgen@latest -source=handler.go -destination=mocks_test.go -package=handler

import (
	"context"

	"callrelay/internal/observability"
	"callrelay/internal/voicecall/processor"

	"github.com/gorilla/websocket"
)

const MediaStreamPath = "/media-stream"

// MediaStreamServer runs one carrier call over an upgraded media stream.
type MediaStreamServer interface {
	ServeMediaStream(ctx context.Context, stream processor.MediaStream) error
}

type Config struct {
	// PublicHost is the externally reachable host of this service. The
	// request's Host is used when empty.
	PublicHost string
	// TransferTarget is dialed by /voice/transfer when no target is given.
	TransferTarget string
}

type Handler struct {
	media  MediaStreamServer
	cfg    Config
	logger *observability.Logger
}

func New(media MediaStreamServer, cfg Config, logger *observability.Logger) Handler {
	return Handler{
		media:  media,
		cfg:    cfg,
		logger: logger,
	}
}

// upgrader is a shared WebSocket upgrader. Carrier connections carry no
// Origin header, which the default check accepts.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}
