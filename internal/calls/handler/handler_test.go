package handler

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"callrelay/internal/calls/processor"
	"callrelay/internal/calls/registry"
	"callrelay/internal/clients/openai"
	"callrelay/internal/observability"
	"callrelay/internal/webhooks/verifier"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testSecret = "whsec_" + base64.StdEncoding.EncodeToString([]byte("callrelay-test-signing-key"))

func newRouter(h *Handler, token string) *gin.Engine {
	r := gin.New()
	r.GET("/health", h.HandleHealth)
	r.POST("/webhook", h.HandleWebhook)
	calls := r.Group("/calls", RequireBearerToken(token))
	calls.GET("", h.HandleListCalls)
	calls.POST("/:call_id/reject", h.HandleRejectCall)
	calls.POST("/:call_id/hangup", h.HandleHangupCall)
	calls.POST("/:call_id/transfer", h.HandleTransferCall)
	return r
}

func setup(t *testing.T, token string) (*gin.Engine, *MockCallProcessor) {
	t.Helper()
	ctrl := gomock.NewController(t)
	p := NewMockCallProcessor(ctrl)
	logger := observability.NewNopLogger()
	h := New(p, verifier.New(testSecret, logger), logger)
	return newRouter(&h, token), p
}

func signedWebhook(t *testing.T, body []byte) *http.Request {
	t.Helper()
	now := time.Now()
	sig, err := verifier.Sign(testSecret, "wh_1", now, body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(verifier.HeaderID, "wh_1")
	req.Header.Set(verifier.HeaderTimestamp, strconv.FormatInt(now.Unix(), 10))
	req.Header.Set(verifier.HeaderSignature, sig)
	return req
}

func serve(r *gin.Engine, req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

const incomingCall = `{"type":"realtime.call.incoming","data":{"call_id":"rtc_abc","sip_headers":[{"name":"From","value":"sip:+14155550123@pbx.example.com"},{"name":"X-VIP","value":"true"}]}}`

func TestHandleWebhook_IncomingCallAccepted(t *testing.T) {
	t.Parallel()
	r, p := setup(t, "")

	p.EXPECT().AcceptCall(gomock.Any(), "rtc_abc", []processor.SIPHeader{
		{Name: "From", Value: "sip:+14155550123@pbx.example.com"},
		{Name: "X-VIP", Value: "true"},
	}).Return(map[string]any{"ok": true}, nil)

	w, body := serve(r, signedWebhook(t, []byte(incomingCall)))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "accepted", body["status"])
	assert.Equal(t, "rtc_abc", body["call_id"])
	assert.Equal(t, map[string]any{"ok": true}, body["result"])
}

func TestHandleWebhook_Outcomes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		setup      func(p *MockCallProcessor)
		wantCode   int
		wantStatus string
		wantError  string
	}{
		{
			name: "accept failure still acknowledged",
			body: incomingCall,
			setup: func(p *MockCallProcessor) {
				p.EXPECT().AcceptCall(gomock.Any(), "rtc_abc", gomock.Any()).
					Return(map[string]any{"error": "gone"}, &openai.APIError{Operation: "accept", CallID: "rtc_abc", StatusCode: 404, Body: "gone"})
			},
			wantCode:   http.StatusOK,
			wantStatus: "error",
		},
		{
			name: "duplicate delivery",
			body: incomingCall,
			setup: func(p *MockCallProcessor) {
				p.EXPECT().AcceptCall(gomock.Any(), "rtc_abc", gomock.Any()).Return(nil, processor.ErrDuplicateCall)
			},
			wantCode:   http.StatusOK,
			wantStatus: "duplicate",
		},
		{
			name:       "missing call id",
			body:       `{"type":"realtime.call.incoming","data":{}}`,
			wantCode:   http.StatusOK,
			wantStatus: "error",
			wantError:  "missing call_id",
		},
		{
			name:       "other event type",
			body:       `{"type":"realtime.call.ended","data":{"call_id":"rtc_abc"}}`,
			wantCode:   http.StatusOK,
			wantStatus: "event_logged",
		},
		{
			name:      "invalid json",
			body:      `{"type":`,
			wantCode:  http.StatusBadRequest,
			wantError: "Invalid JSON",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r, p := setup(t, "")
			if tt.setup != nil {
				tt.setup(p)
			}

			w, body := serve(r, signedWebhook(t, []byte(tt.body)))
			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantStatus != "" {
				assert.Equal(t, tt.wantStatus, body["status"])
			}
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, body["error"])
			}
		})
	}
}

func TestHandleWebhook_BadSignature(t *testing.T) {
	t.Parallel()
	r, _ := setup(t, "")

	req := signedWebhook(t, []byte(incomingCall))
	req.Header.Set(verifier.HeaderSignature, "v1,bm90LXRoZS1yaWdodC1zaWduYXR1cmU=")

	w, body := serve(r, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid signature", body["error"])

	req = httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader([]byte(incomingCall)))
	w, _ = serve(r, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestManagementRoutes(t *testing.T) {
	t.Parallel()
	r, p := setup(t, "")

	p.EXPECT().RejectCall(gomock.Any(), "rtc_1", 0, "").Return(map[string]any{}, nil)
	w, body := serve(r, httptest.NewRequest(http.MethodPost, "/calls/rtc_1/reject", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "rejected", body["status"])

	p.EXPECT().RejectCall(gomock.Any(), "rtc_2", 486, "busy").Return(map[string]any{}, nil)
	w, _ = serve(r, httptest.NewRequest(http.MethodPost, "/calls/rtc_2/reject", bytes.NewReader([]byte(`{"status_code":486,"reason":"busy"}`))))
	assert.Equal(t, http.StatusOK, w.Code)

	w, body = serve(r, httptest.NewRequest(http.MethodPost, "/calls/rtc_3/reject", bytes.NewReader([]byte(`{"status_code":200}`))))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_INPUT", body["code"])

	p.EXPECT().HangupCall(gomock.Any(), "rtc_4", "done").Return(map[string]any{}, nil)
	w, body = serve(r, httptest.NewRequest(http.MethodPost, "/calls/rtc_4/hangup", bytes.NewReader([]byte(`{"reason":"done"}`))))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hung_up", body["status"])

	p.EXPECT().TransferCall(gomock.Any(), "rtc_5", "tel:+14155550199").Return(map[string]any{}, nil)
	w, body = serve(r, httptest.NewRequest(http.MethodPost, "/calls/rtc_5/transfer", bytes.NewReader([]byte(`{"target_uri":"tel:+14155550199"}`))))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "transferring", body["status"])

	w, body = serve(r, httptest.NewRequest(http.MethodPost, "/calls/rtc_5/transfer", bytes.NewReader([]byte(`{}`))))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_INPUT", body["code"])

	p.EXPECT().TransferCall(gomock.Any(), "rtc_5", "+14155550199").Return(nil, processor.ErrInvalidTransferTarget)
	w, body = serve(r, httptest.NewRequest(http.MethodPost, "/calls/rtc_5/transfer", bytes.NewReader([]byte(`{"target_uri":"+14155550199"}`))))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_TRANSFER_TARGET", body["code"])

	p.EXPECT().HangupCall(gomock.Any(), "rtc_6", "").Return(nil, &openai.APIError{Operation: "hangup", CallID: "rtc_6", StatusCode: 500})
	w, body = serve(r, httptest.NewRequest(http.MethodPost, "/calls/rtc_6/hangup", nil))
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "CALL_CONTROL_FAILED", body["code"])
}

func TestListCallsAndHealth(t *testing.T) {
	t.Parallel()
	r, p := setup(t, "")

	p.EXPECT().ListActiveCalls().Return(map[string]registry.CallRecord{
		"rtc_1": {CallID: "rtc_1", CallerNumber: "+14155550123", Status: registry.StatusActive, Source: registry.SourceSIP},
	})
	w, body := serve(r, httptest.NewRequest(http.MethodGet, "/calls", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), body["count"])
	calls := body["active_calls"].(map[string]any)
	assert.Equal(t, "active", calls["rtc_1"].(map[string]any)["status"])

	p.EXPECT().ActiveCallCount().Return(1)
	w, body = serve(r, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, float64(1), body["active_calls"])
}

func TestRequireBearerToken(t *testing.T) {
	t.Parallel()
	r, p := setup(t, "s3cret")

	w, body := serve(r, httptest.NewRequest(http.MethodGet, "/calls", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", body["code"])

	req := httptest.NewRequest(http.MethodGet, "/calls", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w, _ = serve(r, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	p.EXPECT().ListActiveCalls().Return(map[string]registry.CallRecord{})
	req = httptest.NewRequest(http.MethodGet, "/calls", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	w, _ = serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
