package caricature

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/kapu/wedding-invitation-go/internal/domain"
	"github.com/kapu/wedding-invitation-go/internal/prompt"
	"github.com/kapu/wedding-invitation-go/internal/service/ai"
	apperrors "github.com/kapu/wedding-invitation-go/pkg/errors"
	"go.uber.org/zap"
)

// Service turns a photo into a stylised illustration with two sequential
// upstream calls: describe the photo, then generate from the description.
// It holds no per-request state and is safe for concurrent use.
type Service struct {
	provider  ai.Provider
	watermark string
	logger    *zap.Logger
}

func NewService(provider ai.Provider, watermark string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		provider:  provider,
		watermark: watermark,
		logger:    logger,
	}
}

// ProviderName reports the configured backend, or "" when none.
func (s *Service) ProviderName() string {
	if s.provider == nil {
		return ""
	}
	return s.provider.Name()
}

// Ready reports whether requests can reach the upstream at all.
func (s *Service) Ready() bool {
	return s.provider != nil && s.provider.Configured()
}

// Generate runs the pipeline. Every failure is terminal: nothing is retried
// and no later step runs.
func (s *Service) Generate(ctx context.Context, req domain.CaricatureRequest) Result {
	started := time.Now()
	style := req.Style.Resolve()

	img, err := DecodeImage(req.ImageBase64)
	if err != nil {
		return s.finish(Result{Outcome: OutcomeInvalidInput, Style: style, Err: err}, started)
	}

	if !s.Ready() {
		return s.finish(Result{
			Outcome: OutcomeMissingCredential,
			Style:   style,
			Err:     apperrors.NewConfigError("AI API key is not configured", "API_KEY"),
		}, started)
	}

	instruction, err := prompt.DescriptionPrompt()
	if err != nil {
		return s.finish(Result{Outcome: OutcomeDescriptionFailed, Style: style, Err: err}, started)
	}

	description, err := s.provider.Describe(ctx, img, instruction)
	if err == nil && strings.TrimSpace(description) == "" {
		err = apperrors.NewUpstreamError("Could not describe the photo", s.provider.Name(),
			apperrors.StageDescribe, 0, errors.New("empty description"))
	}
	if err != nil {
		return s.finish(Result{Outcome: OutcomeDescriptionFailed, Style: style, Err: err}, started)
	}

	generationPrompt, err := prompt.GenerationPrompt(style, description, s.watermark)
	if err != nil {
		return s.finish(Result{Outcome: OutcomeGenerationFailed, Style: style, Description: description, Err: err}, started)
	}

	image, err := s.provider.GenerateImage(ctx, generationPrompt)
	if err == nil && image == "" {
		err = apperrors.NewUpstreamError("No image was generated", s.provider.Name(),
			apperrors.StageGenerate, 0, errors.New("empty image"))
	}
	if err != nil {
		return s.finish(Result{Outcome: OutcomeGenerationFailed, Style: style, Description: description, Err: err}, started)
	}

	return s.finish(Result{
		Outcome:     OutcomeSuccess,
		Style:       style,
		Description: description,
		Image:       image,
	}, started)
}

func (s *Service) finish(result Result, started time.Time) Result {
	fields := []zap.Field{
		zap.String("outcome", result.Outcome.String()),
		zap.String("style", string(result.Style)),
		zap.String("provider", s.ProviderName()),
		zap.Duration("elapsed", time.Since(started)),
	}

	switch result.Outcome {
	case OutcomeSuccess:
		s.logger.Info("Caricature generated", fields...)
	case OutcomeInvalidInput:
		s.logger.Warn("Caricature request rejected", append(fields, zap.Error(result.Err))...)
	default:
		s.logger.Error("Caricature generation failed", append(fields, zap.Error(result.Err))...)
	}
	return result
}
