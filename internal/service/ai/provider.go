package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/kapu/wedding-invitation-go/internal/domain"
	apperrors "github.com/kapu/wedding-invitation-go/pkg/errors"
)

// Provider is an upstream AI backend able to run both caricature steps.
type Provider interface {
	Name() string
	// Configured is false when the API key is missing; no call may be made then.
	Configured() bool
	// Describe sends the photo with a fixed instruction and returns the model's text.
	Describe(ctx context.Context, img domain.Image, instruction string) (string, error)
	// GenerateImage returns one square image as base64 data.
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// upstreamError builds the error returned to callers. The message is safe to
// show to guests; the raw upstream error stays in the cause for logging.
func upstreamError(provider, stage string, status int, cause error) *apperrors.UpstreamError {
	err := apperrors.NewUpstreamError("", provider, stage, status, cause)
	err.Message = upstreamMessage(err)
	return err
}

func upstreamMessage(err *apperrors.UpstreamError) string {
	switch {
	case err.IsRateLimited():
		return "Rate limit exceeded, please try again in a moment"
	case err.IsPaymentRequired():
		return "AI credits exhausted, please contact the couple"
	}

	action := "generate the caricature"
	if err.Stage == apperrors.StageDescribe {
		action = "describe the photo"
	}
	if err.StatusCode > 0 {
		return fmt.Sprintf("Failed to %s (upstream status %d)", action, err.StatusCode)
	}
	return fmt.Sprintf("Failed to %s", action)
}
