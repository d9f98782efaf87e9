package handler

import (
	"fmt"
	"net/http"

	twilioclient "callrelay/internal/clients/twilio"
	"callrelay/internal/voicecall/twilio"

	"github.com/gin-gonic/gin"
	"github.com/twilio/twilio-go/twiml"
)

const (
	transferNotice = "Please hold while I transfer you to an agent."
	transferFailed = "Unable to transfer at this time. Please call our main number."
	answerFailed   = "We're experiencing technical difficulties. Please call back later."
)

// HandleVoice answers an incoming carrier call by connecting it to the
// media-stream websocket. The caller and call sid ride along as stream
// parameters.
func (h *Handler) HandleVoice(c *gin.Context) {
	ctx := c.Request.Context()
	callSid := c.PostForm("CallSid")
	from := c.PostForm("From")

	host := h.cfg.PublicHost
	if host == "" {
		host = c.Request.Host
	}
	wsURL := fmt.Sprintf("wss://%s%s", host, MediaStreamPath)

	stream := twiml.VoiceStream{
		Url: wsURL,
		InnerElements: []twiml.Element{
			twiml.VoiceParameter{Name: "caller", Value: from},
			twiml.VoiceParameter{Name: "call_sid", Value: callSid},
		},
	}
	connect := twiml.VoiceConnect{InnerElements: []twiml.Element{stream}}

	doc, err := twiml.Voice([]twiml.Element{connect})
	if err != nil {
		h.logger.Error(ctx, "Failed to build answer TwiML", err)
		h.respondHangup(c, http.StatusInternalServerError, answerFailed)
		return
	}
	h.logger.Info(ctx, fmt.Sprintf("Answering call %s from %s with stream %s", callSid, from, wsURL))
	respondTwiML(c, http.StatusOK, doc)
}

// HandleTransfer tells the carrier to dial the query target, or the
// configured default, after a short notice.
func (h *Handler) HandleTransfer(c *gin.Context) {
	ctx := c.Request.Context()
	target := c.Query("to")
	if target == "" {
		target = h.cfg.TransferTarget
	}

	dial, err := twilioclient.DialElement(target)
	if err != nil {
		h.logger.Warn(ctx, fmt.Sprintf("Cannot transfer to %q: %v", target, err))
		h.respondHangup(c, http.StatusOK, transferFailed)
		return
	}
	doc, err := twiml.Voice([]twiml.Element{twiml.VoiceSay{Message: transferNotice}, dial})
	if err != nil {
		h.logger.Error(ctx, "Failed to build transfer TwiML", err)
		h.respondHangup(c, http.StatusOK, transferFailed)
		return
	}
	h.logger.Info(ctx, fmt.Sprintf("Transferring call to %s", target))
	respondTwiML(c, http.StatusOK, doc)
}

// HandleHangup ends the call, optionally saying message first.
func (h *Handler) HandleHangup(c *gin.Context) {
	h.respondHangup(c, http.StatusOK, c.Query("message"))
}

func (h *Handler) respondHangup(c *gin.Context, status int, message string) {
	var verbs []twiml.Element
	if message != "" {
		verbs = append(verbs, twiml.VoiceSay{Message: message})
	}
	verbs = append(verbs, twiml.VoiceHangup{})

	doc, err := twiml.Voice(verbs)
	if err != nil {
		h.logger.Error(c.Request.Context(), "Failed to build hangup TwiML", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	respondTwiML(c, status, doc)
}

// HandleMediaStream upgrades the carrier's websocket and serves the call on
// it until it ends.
func (h *Handler) HandleMediaStream(c *gin.Context) {
	ctx := c.Request.Context()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error(ctx, "WebSocket upgrade failed", err)
		return
	}
	h.logger.Info(ctx, "Carrier media stream connected")

	if err := h.media.ServeMediaStream(ctx, twilio.NewStream(conn)); err != nil {
		h.logger.Warn(ctx, fmt.Sprintf("Media stream session failed: %v", err))
	}
}

func respondTwiML(c *gin.Context, status int, doc string) {
	c.Header("Content-Type", "text/xml")
	c.String(status, doc)
}
