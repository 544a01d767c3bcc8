package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"fm-configurator/internal/artifacts"
	"fm-configurator/internal/gemini"
	"fm-configurator/internal/logger"
	"fm-configurator/internal/metrics"
	"fm-configurator/internal/models"
	"fm-configurator/internal/prompt"
)

// ImageGenerator is the provider gateway used for image-conditioned generation.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, req gemini.ImageRequest) (*gemini.Image, error)
}

type TransformRequest struct {
	Image              []byte
	MimeType           string
	Style              string
	CustomInstructions string
}

type TransformService struct {
	generator ImageGenerator
	store     artifacts.Store
	model     string
	log       *zap.Logger
}

func NewTransformService(generator ImageGenerator, store artifacts.Store, model string, log *zap.Logger) *TransformService {
	if model == "" {
		model = gemini.TransformModel
	}
	return &TransformService{
		generator: generator,
		store:     store,
		model:     model,
		log:       logger.OrNop(log),
	}
}

// Transform runs validate, compose, generate, store in order and stops at the
// first failing stage. Nothing is retried.
func (s *TransformService) Transform(ctx context.Context, req TransformRequest) Result[models.TransformResponse] {
	start := time.Now()

	style, serr := s.validate(req)
	if serr != nil {
		return fail[models.TransformResponse](serr)
	}

	instruction := prompt.Compose(prompt.Request{
		Mode:   prompt.ModeTransform,
		Style:  style,
		Custom: req.CustomInstructions,
	})
	s.log.Debug("prompt composed", zap.String("style", string(style)), zap.Int("prompt_len", len(instruction)))

	img, data, serr := s.generate(ctx, instruction, req)
	if serr != nil {
		s.log.Error("generation failed", zap.String("kind", serr.Kind.String()), zap.Error(serr.Err))
		return fail[models.TransformResponse](serr)
	}

	art, err := s.store.Save(ctx, data, img.MimeType)
	if err != nil {
		s.log.Error("artifact write failed", zap.Error(err))
		return fail[models.TransformResponse](StorageError(err))
	}
	metrics.ArtifactBytesTotal.Add(float64(art.Size))

	s.log.Info("transform completed",
		zap.String("artifact_id", art.ID.String()),
		zap.String("style", string(style)),
		zap.Int64("bytes", art.Size),
		zap.Duration("elapsed", time.Since(start)),
	)

	return ok(models.TransformResponse{
		ID:    art.ID.String(),
		URL:   art.PublicURL,
		Mime:  img.MimeType,
		B64:   img.Base64,
		Style: string(style),
	})
}

func (s *TransformService) validate(req TransformRequest) (prompt.StyleKey, *StageError) {
	if len(req.Image) == 0 {
		return "", ValidationError(StageValidated, MsgMissingFile)
	}
	return prompt.ResolveTransformStyle(req.Style), nil
}

func (s *TransformService) generate(ctx context.Context, instruction string, req TransformRequest) (*gemini.Image, []byte, *StageError) {
	mime := req.MimeType
	if mime == "" {
		mime = "image/png"
	}

	img, err := s.generator.GenerateImage(ctx, gemini.ImageRequest{
		Model:    s.model,
		Prompt:   instruction,
		Image:    req.Image,
		MimeType: mime,
	})
	if err != nil {
		return nil, nil, classifyGemini(err)
	}

	data, err := img.Bytes()
	if err != nil {
		return nil, nil, ProviderError(err)
	}
	return img, data, nil
}
