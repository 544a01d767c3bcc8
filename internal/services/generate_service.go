package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"fm-configurator/internal/gemini"
	"fm-configurator/internal/logger"
	"fm-configurator/internal/models"
	"fm-configurator/internal/openai"
	"fm-configurator/internal/prompt"
)

// TextImageGenerator produces an image from a prompt alone.
type TextImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (*openai.Image, error)
}

type GenerateGeminiRequest struct {
	Prompt       string
	Style        string
	CustomPrompt string
}

// GenerateService backs the text-to-image endpoints. Results are returned to
// the caller as-is; nothing is written to artifact storage.
type GenerateService struct {
	gemini ImageGenerator
	openai TextImageGenerator
	model  string
	log    *zap.Logger
}

func NewGenerateService(geminiGen ImageGenerator, openaiGen TextImageGenerator, model string, log *zap.Logger) *GenerateService {
	if model == "" {
		model = gemini.GenerateModel
	}
	return &GenerateService{
		gemini: geminiGen,
		openai: openaiGen,
		model:  model,
		log:    logger.OrNop(log),
	}
}

func (s *GenerateService) GenerateGemini(ctx context.Context, req GenerateGeminiRequest) Result[models.GenerateGeminiResponse] {
	if strings.TrimSpace(req.Prompt) == "" {
		return fail[models.GenerateGeminiResponse](ValidationError(StageValidated, MsgMissingPrompt))
	}

	instruction := prompt.Compose(prompt.Request{
		Mode:   prompt.ModeGenerate,
		Style:  prompt.StyleKey(req.Style),
		Task:   req.Prompt,
		Custom: req.CustomPrompt,
	})

	img, err := s.gemini.GenerateImage(ctx, gemini.ImageRequest{Model: s.model, Prompt: instruction})
	if err != nil {
		serr := classifyGemini(err)
		s.log.Error("gemini generation failed", zap.String("kind", serr.Kind.String()), zap.Error(err))
		return fail[models.GenerateGeminiResponse](serr)
	}

	return ok(models.GenerateGeminiResponse{Mime: img.MimeType, B64: img.Base64})
}

func (s *GenerateService) Generate(ctx context.Context, text string) Result[models.GenerateResponse] {
	if strings.TrimSpace(text) == "" {
		return fail[models.GenerateResponse](ValidationError(StageValidated, MsgMissingPrompt))
	}

	img, err := s.openai.GenerateImage(ctx, text)
	if err != nil {
		serr := classifyOpenAI(err)
		s.log.Error("openai generation failed", zap.String("kind", serr.Kind.String()), zap.Error(err))
		return fail[models.GenerateResponse](serr)
	}

	resp := models.GenerateResponse{}
	if img.B64 != "" {
		resp.B64 = &img.B64
	}
	if img.URL != "" {
		resp.URL = &img.URL
	}
	return ok(resp)
}
