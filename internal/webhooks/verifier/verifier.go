// Package verifier authenticates inbound Standard Webhooks deliveries from the
// realtime backend: webhook-id, webhook-timestamp and a space separated list
// of "v1,<base64 HMAC-SHA256>" signatures over "{id}.{timestamp}.{body}".
package verifier

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"callrelay/internal/observability"
)

const (
	HeaderID        = "webhook-id"
	HeaderTimestamp = "webhook-timestamp"
	HeaderSignature = "webhook-signature"

	DefaultTolerance = 300 * time.Second

	secretPrefix     = "whsec_"
	signatureVersion = "v1,"
)

var (
	ErrMissingHeaders   = errors.New("missing webhook signature headers")
	ErrInvalidTimestamp = errors.New("invalid webhook timestamp")
	ErrStaleTimestamp   = errors.New("webhook timestamp outside tolerance")
	ErrInvalidSecret    = errors.New("webhook secret is not valid base64")
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

// Verifier checks webhook signatures. It holds no per-request state and is
// safe for concurrent use.
type Verifier struct {
	key       []byte
	keyErr    error
	insecure  bool
	tolerance time.Duration
	now       func() time.Time
	logger    *observability.Logger
}

type Option func(*Verifier)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(v *Verifier) { v.now = now }
}

// WithTolerance overrides the replay window.
func WithTolerance(d time.Duration) Option {
	return func(v *Verifier) { v.tolerance = d }
}

// WithInsecureSkipVerify accepts every delivery when no secret is configured.
// It has no effect once a secret is set.
func WithInsecureSkipVerify() Option {
	return func(v *Verifier) { v.insecure = true }
}

func New(secret string, logger *observability.Logger, opts ...Option) *Verifier {
	v := &Verifier{
		tolerance: DefaultTolerance,
		now:       time.Now,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(v)
	}
	if secret != "" {
		v.key, v.keyErr = signingKey(secret)
	}
	return v
}

// Valid reports whether the delivery is authentic.
func (v *Verifier) Valid(ctx context.Context, header http.Header, body []byte) bool {
	return v.Verify(ctx, header, body) == nil
}

// Verify returns nil for an authentic delivery and one of the package errors
// otherwise.
func (v *Verifier) Verify(ctx context.Context, header http.Header, body []byte) error {
	if v.key == nil && v.keyErr == nil {
		if v.insecure {
			v.logger.Warn(ctx, "webhook secret not configured, skipping signature verification")
			return nil
		}
		return ErrInvalidSecret
	}

	id := header.Get(HeaderID)
	timestamp := header.Get(HeaderTimestamp)
	signature := header.Get(HeaderSignature)
	if id == "" || timestamp == "" || signature == "" {
		return ErrMissingHeaders
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return ErrInvalidTimestamp
	}
	now := v.now()
	sent := time.Unix(ts, 0)
	if now.Sub(sent) > v.tolerance || sent.Sub(now) > v.tolerance {
		return ErrStaleTimestamp
	}

	if v.keyErr != nil {
		return v.keyErr
	}

	expected := []byte(sign(v.key, id, timestamp, body))
	for _, candidate := range strings.Split(signature, " ") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		candidate = strings.TrimPrefix(candidate, signatureVersion)
		if hmac.Equal(expected, []byte(candidate)) {
			return nil
		}
	}
	return ErrInvalidSignature
}

// Sign produces the v1 signature header value for a delivery.
func Sign(secret, id string, timestamp time.Time, body []byte) (string, error) {
	key, err := signingKey(secret)
	if err != nil {
		return "", err
	}
	return signatureVersion + sign(key, id, strconv.FormatInt(timestamp.Unix(), 10), body), nil
}

func signingKey(secret string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(secret, secretPrefix))
	if err != nil || len(key) == 0 {
		return nil, ErrInvalidSecret
	}
	return key, nil
}

func sign(key []byte, id, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, key)
	_, _ = mac.Write([]byte(id + "." + timestamp + "."))
	_, _ = mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
