package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kapu/wedding-invitation-go/internal/constants"
	"github.com/kapu/wedding-invitation-go/internal/domain"
	"github.com/kapu/wedding-invitation-go/internal/util"
	apperrors "github.com/kapu/wedding-invitation-go/pkg/errors"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

type GeminiProviderConfig struct {
	APIKey      string
	VisionModel string
	ImageModel  string
	Timeout     time.Duration
}

// GeminiProvider runs both steps on GenerateContent: the photo goes in as
// inline data, and the image model answers with an inline PNG part.
type GeminiProvider struct {
	client      *genai.Client
	visionModel string
	imageModel  string
	timeout     time.Duration
	logger      *zap.Logger
}

func NewGeminiProvider(ctx context.Context, cfg GeminiProviderConfig, logger *zap.Logger) (*GeminiProvider, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	g := &GeminiProvider{
		visionModel: cfg.VisionModel,
		imageModel:  cfg.ImageModel,
		timeout:     cfg.Timeout,
		logger:      logger,
	}
	if g.visionModel == "" {
		g.visionModel = "gemini-2.5-flash"
	}
	if g.imageModel == "" {
		g.imageModel = "gemini-2.5-flash-image"
	}

	if cfg.APIKey == "" {
		logger.Warn("Gemini API key missing, caricature requests will fail")
		return g, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	g.client = client
	return g, nil
}

func (g *GeminiProvider) Name() string {
	return "Gemini"
}

func (g *GeminiProvider) Configured() bool {
	return g.client != nil
}

func (g *GeminiProvider) Describe(ctx context.Context, img domain.Image, instruction string) (string, error) {
	if g.client == nil {
		return "", apperrors.NewConfigError("GEMINI_API_KEY is not configured", "GEMINI_API_KEY")
	}

	ctx, cancel := withTimeout(ctx, g.timeout)
	defer cancel()

	g.logger.Debug("Describing photo with Gemini",
		zap.String("model", g.visionModel),
		zap.String("mime", img.MIMEType),
	)

	resp, err := g.client.Models.GenerateContent(ctx, g.visionModel, []*genai.Content{
		{
			Parts: []*genai.Part{
				{Text: instruction},
				{InlineData: &genai.Blob{MIMEType: img.MIMEType, Data: img.Data}},
			},
		},
	}, nil)
	if err != nil {
		return "", g.wrapError(apperrors.StageDescribe, err)
	}

	text := strings.TrimSpace(extractTextFromGeminiResponse(resp))
	if text == "" {
		return "", upstreamError(g.Name(), apperrors.StageDescribe, 0, errors.New("empty description from Gemini"))
	}

	g.logger.Info("Gemini description received",
		zap.Int("length", len(text)),
		zap.String("preview", util.TruncateString(text, constants.StringLimits.DescriptionPreview)),
	)
	return text, nil
}

func (g *GeminiProvider) GenerateImage(ctx context.Context, prompt string) (string, error) {
	if g.client == nil {
		return "", apperrors.NewConfigError("GEMINI_API_KEY is not configured", "GEMINI_API_KEY")
	}

	ctx, cancel := withTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.client.Models.GenerateContent(ctx, g.imageModel, []*genai.Content{
		{Parts: []*genai.Part{{Text: prompt}}},
	}, &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
	})
	if err != nil {
		return "", g.wrapError(apperrors.StageGenerate, err)
	}

	data := extractImageFromGeminiResponse(resp)
	if len(data) == 0 {
		return "", upstreamError(g.Name(), apperrors.StageGenerate, 0, errors.New("no image data in Gemini response"))
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	g.logger.Info("Gemini image generated", zap.Int("bytes", len(data)))
	return encoded, nil
}

func (g *GeminiProvider) wrapError(stage string, err error) error {
	status := 0
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		status = apiErr.Code
	}

	g.logger.Error("Gemini call failed",
		zap.String("stage", stage),
		zap.Int("status", status),
		zap.Error(err),
	)
	return upstreamError(g.Name(), stage, status, err)
}

func extractTextFromGeminiResponse(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return ""
	}

	var texts []string
	for _, part := range candidate.Content.Parts {
		if part.Text != "" {
			texts = append(texts, part.Text)
		}
	}

	return strings.Join(texts, "")
}

func extractImageFromGeminiResponse(resp *genai.GenerateContentResponse) []byte {
	if resp == nil {
		return nil
	}

	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part != nil && part.InlineData != nil && strings.HasPrefix(part.InlineData.MIMEType, "image/") {
				return part.InlineData.Data
			}
		}
	}
	return nil
}
