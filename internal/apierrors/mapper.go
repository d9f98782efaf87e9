package apierrors

import (
	"errors"

	"callrelay/internal/calls/processor"
	"callrelay/internal/clients/openai"
	"callrelay/internal/clients/twilio"
)

// MapError converts domain errors to APIErrors. Unknown errors become a
// sanitized 500.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var controlErr *openai.APIError
	switch {
	case errors.Is(err, processor.ErrInvalidCallID):
		return BadRequest(CodeInvalidCallID, "Call id is required")

	case errors.Is(err, processor.ErrInvalidTransferTarget),
		errors.Is(err, twilio.ErrUnsupportedTarget):
		return BadRequest(CodeInvalidTransferTarget, "Transfer target must be a tel: or sip: URI")

	case errors.Is(err, processor.ErrCarrierControlUnavailable):
		return ServiceUnavailable(CodeCarrierError, "Carrier call control is not configured", err)

	case errors.As(err, &controlErr):
		return BadGateway(CodeCallControlFailed, "Call control request failed", err)

	default:
		return InternalError(err)
	}
}
