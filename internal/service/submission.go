package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mci-lab/avatarforge/internal/domain"
	"github.com/mci-lab/avatarforge/internal/logger"
	"github.com/mci-lab/avatarforge/internal/storage"
	_ "golang.org/x/image/webp"
)

// ConfigStore is the configuration persistence contract. Get returns
// (nil, nil) when no configuration exists for the variant.
type ConfigStore interface {
	Get(ctx context.Context, variant domain.Variant) (*domain.Config, error)
	Replace(ctx context.Context, cfg *domain.Config) error
}

// ResponseStore is the response persistence contract.
type ResponseStore interface {
	Create(ctx context.Context, resp *domain.Response) error
	List(ctx context.Context, variant domain.Variant, limit, offset int) ([]domain.Response, error)
	Count(ctx context.Context, variant domain.Variant) (int64, error)
	GetByID(ctx context.Context, variant domain.Variant, id string) (*domain.Response, error)
	Delete(ctx context.Context, variant domain.Variant, id string) error
}

// SubmissionService runs the submission pipeline for one variant: access
// check, original upload, prompt rendering, generation call and persistence.
// One instance per variant; all collaborators are injected.
type SubmissionService struct {
	variant   VariantSpec
	configs   ConfigStore
	responses ResponseStore
	storage   storage.ObjectStorage
	generator ImageGenerator
	imageSize string
	logger    *logger.Logger
}

// SubmissionConfig holds per-variant tuning for the submission service.
type SubmissionConfig struct {
	// ImageSize is passed to generate-mode calls (e.g. "1024x1024").
	ImageSize string
}

// NewSubmissionService creates a submission service for a variant.
func NewSubmissionService(
	variant VariantSpec,
	configs ConfigStore,
	responses ResponseStore,
	objectStorage storage.ObjectStorage,
	generator ImageGenerator,
	log *logger.Logger,
	cfg *SubmissionConfig,
) *SubmissionService {
	imageSize := ""
	if cfg != nil {
		imageSize = cfg.ImageSize
	}
	if imageSize == "" {
		imageSize = "1024x1024"
	}
	return &SubmissionService{
		variant:   variant,
		configs:   configs,
		responses: responses,
		storage:   objectStorage,
		generator: generator,
		imageSize: imageSize,
		logger:    log,
	}
}

// log returns a logger from context if available, otherwise the service logger.
func (s *SubmissionService) log(ctx context.Context) *logger.Logger {
	if l := logger.FromContext(ctx); l != nil {
		return l
	}
	return s.logger
}

// Variant returns the variant descriptor this service runs.
func (s *SubmissionService) Variant() VariantSpec {
	return s.variant
}

// Submission is one inbound submission after transport decoding.
type Submission struct {
	Name    string
	Gender  string
	Code    string
	Answers []string
	Image   []byte
	// ImageMIME is the declared content type of Image (image/* enforced
	// upstream by the upload parser).
	ImageMIME string
}

// SubmissionResult is returned to the caller on success.
type SubmissionResult struct {
	OriginalImageURL  string `json:"originalImageUrl"`
	GeneratedImageURL string `json:"generatedImageUrl"`
	Message           string `json:"message"`
}

// Submit runs the pipeline. Failures before the original upload have no side
// effects; after it, the original image stays in storage with no compensating
// delete.
func (s *SubmissionService) Submit(ctx context.Context, sub *Submission) (*SubmissionResult, error) {
	if err := s.validate(sub); err != nil {
		return nil, err
	}

	cfg, err := s.loadConfig(ctx)
	if err != nil {
		return nil, err
	}

	// Exact, case-sensitive match; the shared code is not a credential
	if cfg.Code != sub.Code {
		return nil, ErrInvalidCode
	}

	originalKey := s.objectKey("original", extensionFromMIME(sub.ImageMIME))
	if err := s.storage.Upload(ctx, originalKey, bytes.NewReader(sub.Image), int64(len(sub.Image)), sub.ImageMIME); err != nil {
		return nil, &UpstreamError{Op: "storage upload", Err: err}
	}
	originalURL := s.storage.GetURL(originalKey)

	width, height := probeDimensions(sub.Image)

	vars := map[string]string{
		"name":   sub.Name,
		"gender": sub.Gender,
	}
	if s.variant.RequiresAnswers {
		for i, label := range MapAnswers(cfg.Questions, sub.Answers) {
			vars[fmt.Sprintf("answer%d", i+1)] = label
		}
	}
	prompt := RenderPrompt(cfg.PromptTemplate, vars)

	generated, err := s.generate(ctx, sub, originalKey, prompt)
	if err != nil {
		s.log(ctx).WithError(err).WithField(logger.FieldVariant, string(s.variant.Name)).
			Error("Image generation failed")
		return nil, &UpstreamError{Op: "image generation", Err: err}
	}

	generatedKey := s.objectKey("generated", "png")
	if err := s.storage.Upload(ctx, generatedKey, bytes.NewReader(generated), int64(len(generated)), "image/png"); err != nil {
		return nil, &UpstreamError{Op: "storage upload", Err: err}
	}
	generatedURL := s.storage.GetURL(generatedKey)

	resp := &domain.Response{
		ID:                uuid.NewString(),
		Variant:           s.variant.Name,
		Name:              sub.Name,
		Gender:            sub.Gender,
		Code:              sub.Code,
		Answers:           sub.Answers,
		OriginalImageURL:  originalURL,
		GeneratedImageURL: generatedURL,
		Prompt:            prompt,
		Width:             width,
		Height:            height,
	}
	if err := s.responses.Create(ctx, resp); err != nil {
		return nil, &UpstreamError{Op: "response persistence", Err: err}
	}

	s.log(ctx).WithFields(logger.Fields{
		logger.FieldVariant: string(s.variant.Name),
		logger.FieldSize:    len(generated),
	}).Infof("Submission completed: name=%s, response_id=%s", sub.Name, resp.ID)

	return &SubmissionResult{
		OriginalImageURL:  originalURL,
		GeneratedImageURL: generatedURL,
		Message:           s.variant.SuccessMessage,
	}, nil
}

func (s *SubmissionService) validate(sub *Submission) error {
	if sub.Name == "" || sub.Gender == "" || sub.Code == "" || len(sub.Image) == 0 {
		if s.variant.RequiresAnswers {
			return NewInputError("Nom, genre, code, réponses et image sont requis")
		}
		return NewInputError("Nom, genre, code et image sont requis")
	}
	if s.variant.RequiresAnswers {
		if len(sub.Answers) == 0 {
			return NewInputError("Nom, genre, code, réponses et image sont requis")
		}
		if len(sub.Answers) != AnswerCount {
			return NewInputError("%d réponses sont requises", AnswerCount)
		}
	}
	if len(s.variant.AllowedGenders) > 0 {
		ok := false
		for _, g := range s.variant.AllowedGenders {
			if g == sub.Gender {
				ok = true
				break
			}
		}
		if !ok {
			return NewInputError("Genre invalide")
		}
	}
	return nil
}

// loadConfig reads the variant configuration fresh, applying the variant's
// missing-config policy: materialize defaults or fail.
func (s *SubmissionService) loadConfig(ctx context.Context) (*domain.Config, error) {
	cfg, err := s.configs.Get(ctx, s.variant.Name)
	if err != nil {
		return nil, &UpstreamError{Op: "config read", Err: err}
	}
	if cfg != nil {
		return cfg, nil
	}
	if s.variant.DefaultConfig == nil {
		return nil, ErrNotConfigured
	}
	cfg = s.variant.DefaultConfig()
	if err := s.configs.Replace(ctx, cfg); err != nil {
		return nil, &UpstreamError{Op: "config write", Err: err}
	}
	s.log(ctx).WithField(logger.FieldVariant, string(s.variant.Name)).
		Info("Materialized default configuration")
	return cfg, nil
}

// generate invokes the generation service according to the variant mode and
// returns the generated image bytes.
func (s *SubmissionService) generate(ctx context.Context, sub *Submission, filename, prompt string) ([]byte, error) {
	switch s.variant.Mode {
	case ModeGenerate:
		hostedURL, err := s.generator.Generate(ctx, prompt, s.imageSize)
		if err != nil {
			return nil, err
		}
		// The hosted URL is transient; bytes are re-uploaded under our own key
		return s.generator.FetchImage(ctx, hostedURL)
	default:
		return s.generator.Edit(ctx, sub.Image, filename, sub.ImageMIME, prompt)
	}
}

// objectKey builds a collision-resistant storage key:
// {variant}-{kind}-{unix-ms}-{uuid}.{ext}
func (s *SubmissionService) objectKey(kind, ext string) string {
	return fmt.Sprintf("%s-%s-%d-%s.%s", s.variant.Name, kind, time.Now().UnixMilli(), uuid.NewString(), ext)
}

// extensionFromMIME derives a file extension from an image MIME type.
func extensionFromMIME(mimeType string) string {
	if idx := strings.Index(mimeType, "/"); idx != -1 && idx+1 < len(mimeType) {
		return mimeType[idx+1:]
	}
	return "bin"
}

// probeDimensions decodes image dimensions best-effort. A payload the
// decoders cannot read yields zeros, never an error.
func probeDimensions(data []byte) (int, int) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}
