package caricature

import (
	"errors"

	"github.com/kapu/wedding-invitation-go/internal/domain"
	apperrors "github.com/kapu/wedding-invitation-go/pkg/errors"
)

// Outcome names the point at which a generation attempt ended.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeInvalidInput
	OutcomeMissingCredential
	OutcomeDescriptionFailed
	OutcomeGenerationFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeInvalidInput:
		return "invalid_input"
	case OutcomeMissingCredential:
		return "missing_credential"
	case OutcomeDescriptionFailed:
		return "description_failed"
	case OutcomeGenerationFailed:
		return "generation_failed"
	default:
		return "unknown"
	}
}

const fallbackErrorMessage = "Failed to generate caricature"

// Result is the terminal state of one Generate call. Err is nil only for
// OutcomeSuccess.
type Result struct {
	Outcome     Outcome
	Style       domain.Style
	Description string
	Image       string
	Err         error
}

func (r Result) OK() bool {
	return r.Outcome == OutcomeSuccess
}

// ErrorMessage is the guest-facing text for a failed result. Internal causes
// are kept out of it.
func (r Result) ErrorMessage() string {
	if r.Err == nil {
		return ""
	}

	var validationErr *apperrors.ValidationError
	var configErr *apperrors.ConfigError
	var upstreamErr *apperrors.UpstreamError
	switch {
	case errors.As(r.Err, &validationErr):
		return validationErr.Message
	case errors.As(r.Err, &configErr):
		return configErr.Message
	case errors.As(r.Err, &upstreamErr):
		return upstreamErr.Message
	default:
		return fallbackErrorMessage
	}
}

// Response converts the result into the wire payload.
func (r Result) Response() domain.CaricatureResponse {
	if r.OK() {
		return domain.CaricatureResponse{Success: true, Image: r.Image}
	}
	return domain.CaricatureResponse{Success: false, Error: r.ErrorMessage()}
}
