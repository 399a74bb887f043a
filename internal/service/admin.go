package service

import (
	"context"

	"github.com/mci-lab/avatarforge/internal/domain"
	"github.com/mci-lab/avatarforge/internal/logger"
)

// Config returns the variant configuration, applying the variant's
// missing-config policy (materialize defaults or ErrNotConfigured).
func (s *SubmissionService) Config(ctx context.Context) (*domain.Config, error) {
	return s.loadConfig(ctx)
}

// UpdateConfig replaces the variant configuration with the given fields.
// All fields are replaced atomically; partial updates are not supported.
func (s *SubmissionService) UpdateConfig(ctx context.Context, code, promptTemplate string, questions domain.QuestionList) (*domain.Config, error) {
	if code == "" || promptTemplate == "" {
		if s.variant.QuestionCount > 0 {
			return nil, NewInputError("Le code, le template de prompt et %d questions sont requis.", s.variant.QuestionCount)
		}
		return nil, NewInputError("Le code et le template de prompt sont requis.")
	}
	if s.variant.QuestionCount > 0 && len(questions) != s.variant.QuestionCount {
		return nil, NewInputError("Le code, le template de prompt et %d questions sont requis.", s.variant.QuestionCount)
	}

	cfg := &domain.Config{
		Variant:        s.variant.Name,
		Code:           code,
		PromptTemplate: promptTemplate,
		Questions:      questions,
	}
	if err := s.configs.Replace(ctx, cfg); err != nil {
		return nil, &UpstreamError{Op: "config write", Err: err}
	}

	// Re-read so the caller sees the stored record, not the input
	stored, err := s.configs.Get(ctx, s.variant.Name)
	if err != nil {
		return nil, &UpstreamError{Op: "config read", Err: err}
	}
	if stored == nil {
		stored = cfg
	}

	s.log(ctx).WithField(logger.FieldVariant, string(s.variant.Name)).
		Info("Configuration replaced")
	return stored, nil
}

// ResultsPage is one page of responses, newest first.
type ResultsPage struct {
	Results      []domain.Response `json:"results"`
	CurrentPage  int               `json:"currentPage"`
	TotalPages   int               `json:"totalPages"`
	TotalResults int64             `json:"totalResults"`
}

// Results lists persisted responses sorted newest-first. CurrentPage echoes
// the requested page whether or not it has data; TotalPages is
// ceil(TotalResults/limit).
func (s *SubmissionService) Results(ctx context.Context, page, limit int) (*ResultsPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	results, err := s.responses.List(ctx, s.variant.Name, limit, (page-1)*limit)
	if err != nil {
		return nil, &UpstreamError{Op: "response listing", Err: err}
	}
	total, err := s.responses.Count(ctx, s.variant.Name)
	if err != nil {
		return nil, &UpstreamError{Op: "response count", Err: err}
	}

	return &ResultsPage{
		Results:      results,
		CurrentPage:  page,
		TotalPages:   int((total + int64(limit) - 1) / int64(limit)),
		TotalResults: total,
	}, nil
}

// DeleteResult removes one response and returns the deleted record. The
// delete is confirmed before returning.
func (s *SubmissionService) DeleteResult(ctx context.Context, id string) (*domain.Response, error) {
	resp, err := s.responses.GetByID(ctx, s.variant.Name, id)
	if err != nil {
		return nil, &UpstreamError{Op: "response read", Err: err}
	}
	if resp == nil {
		return nil, ErrNotFound
	}
	if err := s.responses.Delete(ctx, s.variant.Name, id); err != nil {
		return nil, &UpstreamError{Op: "response delete", Err: err}
	}

	s.log(ctx).WithField(logger.FieldVariant, string(s.variant.Name)).
		Infof("Response deleted: response_id=%s", id)
	return resp, nil
}
