package ai

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/kapu/wedding-invitation-go/internal/constants"
	"github.com/kapu/wedding-invitation-go/internal/domain"
	"github.com/kapu/wedding-invitation-go/internal/util"
	apperrors "github.com/kapu/wedding-invitation-go/pkg/errors"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"
)

type OpenAIProviderConfig struct {
	APIKey      string
	BaseURL     string
	VisionModel string
	ImageModel  string
	Timeout     time.Duration
	HTTPClient  *http.Client
}

// OpenAIProvider runs the vision step on Chat Completions and the generation
// step on the Images API. BaseURL may point at any OpenAI-compatible gateway.
type OpenAIProvider struct {
	client      *openai.Client
	visionModel string
	imageModel  string
	timeout     time.Duration
	logger      *zap.Logger
}

func NewOpenAIProvider(cfg OpenAIProviderConfig, logger *zap.Logger) *OpenAIProvider {
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &OpenAIProvider{
		visionModel: cfg.VisionModel,
		imageModel:  cfg.ImageModel,
		timeout:     cfg.Timeout,
		logger:      logger,
	}
	if p.visionModel == "" {
		p.visionModel = "gpt-4o-mini"
	}
	if p.imageModel == "" {
		p.imageModel = "dall-e-3"
	}

	if cfg.APIKey == "" {
		logger.Warn("OpenAI API key missing, caricature requests will fail")
		return p
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	client := openai.NewClient(opts...)
	p.client = &client
	return p
}

func (o *OpenAIProvider) Name() string {
	return "OpenAI"
}

func (o *OpenAIProvider) Configured() bool {
	return o.client != nil
}

func (o *OpenAIProvider) Describe(ctx context.Context, img domain.Image, instruction string) (string, error) {
	if o.client == nil {
		return "", apperrors.NewConfigError("OPENAI_API_KEY is not configured", "OPENAI_API_KEY")
	}

	ctx, cancel := withTimeout(ctx, o.timeout)
	defer cancel()

	o.logger.Debug("Describing photo with OpenAI",
		zap.String("model", o.visionModel),
		zap.String("mime", img.MIMEType),
		zap.Int("bytes", len(img.Data)),
	)

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.visionModel),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.TextContentPart(instruction),
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
					URL: img.DataURL(),
				}),
			}),
		},
	})
	if err != nil {
		return "", o.wrapError(apperrors.StageDescribe, err)
	}

	if len(resp.Choices) == 0 {
		return "", upstreamError(o.Name(), apperrors.StageDescribe, 0, errors.New("no choices in OpenAI response"))
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", upstreamError(o.Name(), apperrors.StageDescribe, 0, errors.New("empty description from OpenAI"))
	}

	o.logger.Info("OpenAI description received",
		zap.Int("length", len(text)),
		zap.Int64("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int64("completion_tokens", resp.Usage.CompletionTokens),
		zap.String("preview", util.TruncateString(text, constants.StringLimits.DescriptionPreview)),
	)

	return text, nil
}

func (o *OpenAIProvider) GenerateImage(ctx context.Context, prompt string) (string, error) {
	if o.client == nil {
		return "", apperrors.NewConfigError("OPENAI_API_KEY is not configured", "OPENAI_API_KEY")
	}

	ctx, cancel := withTimeout(ctx, o.timeout)
	defer cancel()

	params := openai.ImageGenerateParams{
		Prompt: prompt,
		Model:  openai.ImageModel(o.imageModel),
		N:      openai.Int(constants.CaricatureLimits.ImageCount),
		Size:   openai.ImageGenerateParamsSize1024x1024,
	}
	// gpt-image models always answer with base64 and reject response_format.
	if strings.HasPrefix(o.imageModel, "dall-e") {
		params.ResponseFormat = openai.ImageGenerateParamsResponseFormatB64JSON
	}

	o.logger.Debug("Generating image with OpenAI",
		zap.String("model", o.imageModel),
		zap.Int("prompt_length", len(prompt)),
	)

	resp, err := o.client.Images.Generate(ctx, params)
	if err != nil {
		return "", o.wrapError(apperrors.StageGenerate, err)
	}

	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return "", upstreamError(o.Name(), apperrors.StageGenerate, 0, errors.New("no image data in OpenAI response"))
	}

	o.logger.Info("OpenAI image generated", zap.Int("base64_length", len(resp.Data[0].B64JSON)))
	return resp.Data[0].B64JSON, nil
}

func (o *OpenAIProvider) wrapError(stage string, err error) error {
	status := 0
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		status = apiErr.StatusCode
	}

	o.logger.Error("OpenAI call failed",
		zap.String("stage", stage),
		zap.Int("status", status),
		zap.Error(err),
	)
	return upstreamError(o.Name(), stage, status, err)
}
