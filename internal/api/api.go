package api

import (
	callsHandler "callrelay/internal/calls/handler"
	voiceCallHandler "callrelay/internal/voicecall/handler"

	"github.com/gin-gonic/gin"
)

type API struct {
	router           *gin.RouterGroup
	callsHandler     callsHandler.Handler
	voiceCallHandler *voiceCallHandler.Handler
	managementToken  string
}

// New wires the route table. voiceHandler is nil when the carrier path is
// disabled.
func New(router *gin.RouterGroup, calls callsHandler.Handler, voiceHandler *voiceCallHandler.Handler, managementToken string) API {
	return API{
		router:           router,
		callsHandler:     calls,
		voiceCallHandler: voiceHandler,
		managementToken:  managementToken,
	}
}

func (a *API) RegisterRoutes() {
	a.router.GET("/health", a.callsHandler.HandleHealth)
	a.router.POST("/webhook", a.callsHandler.HandleWebhook)

	callsGroup := a.router.Group("/calls", callsHandler.RequireBearerToken(a.managementToken))
	{
		callsGroup.GET("", a.callsHandler.HandleListCalls)
		callsGroup.POST("/:call_id/reject", a.callsHandler.HandleRejectCall)
		callsGroup.POST("/:call_id/hangup", a.callsHandler.HandleHangupCall)
		callsGroup.POST("/:call_id/transfer", a.callsHandler.HandleTransferCall)
	}

	if a.voiceCallHandler == nil {
		return
	}
	voiceGroup := a.router.Group("/voice")
	{
		voiceGroup.POST("", a.voiceCallHandler.HandleVoice)
		voiceGroup.POST("/transfer", a.voiceCallHandler.HandleTransfer)
		voiceGroup.POST("/hangup", a.voiceCallHandler.HandleHangup)
	}
	a.router.GET(voiceCallHandler.MediaStreamPath, a.voiceCallHandler.HandleMediaStream)
}
