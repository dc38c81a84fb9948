package ai

import (
	"context"
	"fmt"

	"github.com/kapu/wedding-invitation-go/internal/config"
	"go.uber.org/zap"
)

// NewProvider builds the backend selected by AI_PROVIDER. A missing key still
// yields a provider; it reports Configured() == false so each request can fail
// cleanly instead of the server refusing to start.
func NewProvider(ctx context.Context, cfg config.AIConfig, logger *zap.Logger) (Provider, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		provider, err := NewGeminiProvider(ctx, GeminiProviderConfig{
			APIKey:      cfg.GeminiAPIKey,
			VisionModel: cfg.GeminiVision,
			ImageModel:  cfg.GeminiImage,
			Timeout:     cfg.UpstreamTimeout,
		}, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("AI provider selected",
			zap.String("provider", provider.Name()),
			zap.String("vision_model", provider.visionModel),
			zap.String("image_model", provider.imageModel),
			zap.Bool("configured", provider.Configured()),
		)
		return provider, nil
	case config.ProviderOpenAI, "":
		provider := NewOpenAIProvider(OpenAIProviderConfig{
			APIKey:      cfg.OpenAIAPIKey,
			BaseURL:     cfg.OpenAIBaseURL,
			VisionModel: cfg.VisionModel,
			ImageModel:  cfg.ImageModel,
			Timeout:     cfg.UpstreamTimeout,
		}, logger)
		logger.Info("AI provider selected",
			zap.String("provider", provider.Name()),
			zap.String("vision_model", provider.visionModel),
			zap.String("image_model", provider.imageModel),
			zap.Bool("configured", provider.Configured()),
		)
		return provider, nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}
}
