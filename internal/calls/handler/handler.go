// Package handler exposes the SIP call webhook and the call management API.
package handler

//go:generate go run go.uber.org/mock/mockgen@latest -source=handler.go -destination=mocks_test.go -package=handler

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"callrelay/internal/apierrors"
	"callrelay/internal/calls/processor"
	"callrelay/internal/calls/registry"
	"callrelay/internal/observability"

	"github.com/gin-gonic/gin"
)

const eventCallIncoming = "realtime.call.incoming"

// maxWebhookBody bounds how much of a webhook body is read.
const maxWebhookBody = 1 << 20

// CallProcessor is the lifecycle manager the handlers drive.
type CallProcessor interface {
	AcceptCall(ctx context.Context, callID string, headers []processor.SIPHeader) (map[string]any, error)
	RejectCall(ctx context.Context, callID string, statusCode int, reason string) (map[string]any, error)
	HangupCall(ctx context.Context, callID, reason string) (map[string]any, error)
	TransferCall(ctx context.Context, callID, targetURI string) (map[string]any, error)
	ListActiveCalls() map[string]registry.CallRecord
	ActiveCallCount() int
}

type WebhookVerifier interface {
	Verify(ctx context.Context, header http.Header, body []byte) error
}

type Handler struct {
	processor CallProcessor
	verifier  WebhookVerifier
	logger    *observability.Logger
}

func New(p CallProcessor, verifier WebhookVerifier, logger *observability.Logger) Handler {
	return Handler{
		processor: p,
		verifier:  verifier,
		logger:    logger,
	}
}

type webhookEvent struct {
	Type string      `json:"type"`
	Data webhookData `json:"data"`
}

type webhookData struct {
	CallID     string                `json:"call_id"`
	SIPHeaders []processor.SIPHeader `json:"sip_headers"`
}

// HandleWebhook receives realtime call events. Once the signature checks out
// the response is always 200 so the sender does not redeliver; outcomes are
// reported in the body.
func (h *Handler) HandleWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		h.logger.Error(ctx, "failed to read webhook body", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid body"})
		return
	}

	if err := h.verifier.Verify(ctx, c.Request.Header, body); err != nil {
		h.logger.Warn(ctx, "Webhook signature rejected: "+err.Error())
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid signature"})
		return
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		h.logger.Error(ctx, "failed to decode webhook", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	ctx = observability.WithFields(ctx, observability.Field{Key: "event_type", Value: event.Type})
	if event.Type != eventCallIncoming {
		h.logger.Info(ctx, "Webhook event logged")
		c.JSON(http.StatusOK, gin.H{"status": "event_logged", "type": event.Type})
		return
	}

	callID := event.Data.CallID
	if callID == "" {
		h.logger.Warn(ctx, "Incoming call event without call_id")
		c.JSON(http.StatusOK, gin.H{"status": "error", "error": "missing call_id"})
		return
	}

	result, err := h.processor.AcceptCall(ctx, callID, event.Data.SIPHeaders)
	switch {
	case errors.Is(err, processor.ErrDuplicateCall):
		c.JSON(http.StatusOK, gin.H{"status": "duplicate", "call_id": callID})
	case err != nil:
		c.JSON(http.StatusOK, gin.H{"status": "error", "call_id": callID, "error": err.Error(), "result": result})
	default:
		c.JSON(http.StatusOK, gin.H{"status": "accepted", "call_id": callID, "result": result})
	}
}

type RejectRequest struct {
	StatusCode int    `json:"status_code" binding:"omitempty,gte=400,lte=699"`
	Reason     string `json:"reason"`
}

type HangupRequest struct {
	Reason string `json:"reason"`
}

type TransferRequest struct {
	TargetURI string `json:"target_uri" binding:"required"`
}

func (h *Handler) HandleRejectCall(c *gin.Context) {
	var req RejectRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		apierrors.RespondWithValidationError(c, err)
		return
	}

	callID := c.Param("call_id")
	result, err := h.processor.RejectCall(c.Request.Context(), callID, req.StatusCode, req.Reason)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "rejected", "call_id": callID, "result": result})
}

func (h *Handler) HandleHangupCall(c *gin.Context) {
	var req HangupRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		apierrors.RespondWithValidationError(c, err)
		return
	}

	callID := c.Param("call_id")
	result, err := h.processor.HangupCall(c.Request.Context(), callID, req.Reason)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "hung_up", "call_id": callID, "result": result})
}

func (h *Handler) HandleTransferCall(c *gin.Context) {
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.RespondWithValidationError(c, err)
		return
	}

	callID := c.Param("call_id")
	result, err := h.processor.TransferCall(c.Request.Context(), callID, req.TargetURI)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "transferring", "call_id": callID, "target_uri": req.TargetURI, "result": result})
}

func (h *Handler) HandleListCalls(c *gin.Context) {
	calls := h.processor.ListActiveCalls()
	c.JSON(http.StatusOK, gin.H{"active_calls": calls, "count": len(calls)})
}

func (h *Handler) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "active_calls": h.processor.ActiveCallCount()})
}

// RequireBearerToken guards routes with a static token. An empty token
// leaves the routes open.
func RequireBearerToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.Next()
			return
		}
		got, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			apierrors.RespondWithError(c, apierrors.Unauthorized("Missing or invalid bearer token"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// bindOptionalJSON binds the body when there is one.
func bindOptionalJSON(c *gin.Context, obj any) error {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return nil
	}
	return c.ShouldBindJSON(obj)
}
