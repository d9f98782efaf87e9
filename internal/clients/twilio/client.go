// Package twilio wraps the carrier REST API for calls this service bridges
// over media streams: ending them, redirecting them, and texting people.
package twilio

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"callrelay/internal/observability"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"github.com/twilio/twilio-go/twiml"
)

var ErrUnsupportedTarget = errors.New("transfer target must be a tel: or sip: URI")

// callAPI is the part of the REST API this package uses.
type callAPI interface {
	UpdateCall(sid string, params *twilioApi.UpdateCallParams) (*twilioApi.ApiV2010Call, error)
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

type Client struct {
	api    callAPI
	from   string
	logger *observability.Logger
}

func NewClient(accountSID, authToken, from string, logger *observability.Logger) *Client {
	rest := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &Client{api: rest.Api, from: from, logger: logger}
}

// Hangup completes an in-progress call.
func (c *Client) Hangup(ctx context.Context, callSid string) error {
	params := &twilioApi.UpdateCallParams{}
	params.SetStatus("completed")

	if _, err := c.api.UpdateCall(callSid, params); err != nil {
		c.logger.Error(ctx, "Failed to hang up carrier call", err)
		return fmt.Errorf("failed to hang up call %s: %w", callSid, err)
	}
	c.logger.Info(ctx, fmt.Sprintf("Carrier call %s completed", callSid))
	return nil
}

// Transfer redirects a live call to a phone number or SIP endpoint.
func (c *Client) Transfer(ctx context.Context, callSid, target string) error {
	doc, err := DialTwiML(target)
	if err != nil {
		return err
	}

	params := &twilioApi.UpdateCallParams{}
	params.SetTwiml(doc)
	if _, err := c.api.UpdateCall(callSid, params); err != nil {
		c.logger.Error(ctx, "Failed to transfer carrier call", err)
		return fmt.Errorf("failed to transfer call %s: %w", callSid, err)
	}
	c.logger.Info(ctx, fmt.Sprintf("Carrier call %s transferred to %s", callSid, target))
	return nil
}

// SendSMS texts body to a number from the configured sender.
func (c *Client) SendSMS(ctx context.Context, to, body string) (string, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(c.from)
	params.SetBody(body)

	msg, err := c.api.CreateMessage(params)
	if err != nil {
		c.logger.Error(ctx, "Failed to send SMS", err)
		return "", fmt.Errorf("failed to send sms: %w", err)
	}
	sid := ""
	if msg != nil && msg.Sid != nil {
		sid = *msg.Sid
	}
	c.logger.Info(ctx, fmt.Sprintf("SMS %s sent", sid))
	return sid, nil
}

// DialTwiML returns a document that connects the call to target, given as
// tel:+1..., sip:user@host or a bare number.
func DialTwiML(target string) (string, error) {
	dial, err := DialElement(target)
	if err != nil {
		return "", err
	}
	return twiml.Voice([]twiml.Element{dial})
}

// DialElement builds the <Dial> verb for target.
func DialElement(target string) (twiml.VoiceDial, error) {
	var dial twiml.VoiceDial
	switch {
	case strings.HasPrefix(target, "sip:"), strings.HasPrefix(target, "sips:"):
		dial.InnerElements = []twiml.Element{twiml.VoiceSip{SipUrl: target}}
	case strings.HasPrefix(target, "tel:"):
		dial.Number = strings.TrimPrefix(target, "tel:")
	case target != "" && !strings.Contains(target, ":"):
		dial.Number = target
	default:
		return twiml.VoiceDial{}, ErrUnsupportedTarget
	}
	return dial, nil
}
