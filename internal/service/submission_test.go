package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/mci-lab/avatarforge/internal/domain"
	"github.com/mci-lab/avatarforge/internal/logger"
	"github.com/mci-lab/avatarforge/internal/prompts"
)

type fakeConfigStore struct {
	cfg      *domain.Config
	replaced int
	getErr   error
}

func (f *fakeConfigStore) Get(ctx context.Context, variant domain.Variant) (*domain.Config, error) {
	return f.cfg, f.getErr
}

func (f *fakeConfigStore) Replace(ctx context.Context, cfg *domain.Config) error {
	f.replaced++
	f.cfg = cfg
	return nil
}

type fakeResponseStore struct {
	created   []*domain.Response
	listed    []domain.Response
	total     int64
	deleted   []string
	createErr error
}

func (f *fakeResponseStore) Create(ctx context.Context, resp *domain.Response) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, resp)
	return nil
}

func (f *fakeResponseStore) List(ctx context.Context, variant domain.Variant, limit, offset int) ([]domain.Response, error) {
	return f.listed, nil
}

func (f *fakeResponseStore) Count(ctx context.Context, variant domain.Variant) (int64, error) {
	return f.total, nil
}

func (f *fakeResponseStore) GetByID(ctx context.Context, variant domain.Variant, id string) (*domain.Response, error) {
	for _, r := range f.created {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeResponseStore) Delete(ctx context.Context, variant domain.Variant, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeBlobStore struct {
	objects   map[string][]byte
	uploadErr error
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objects: map[string][]byte{}}
}

func (f *fakeBlobStore) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	f.objects[key] = data
	return nil
}

func (f *fakeBlobStore) GetURL(key string) string {
	return "https://cdn.test/" + key
}

type fakeGenerator struct {
	editCalls     int
	generateCalls int
	fetchCalls    int
	lastPrompt    string
	editErr       error
	generateErr   error
}

func (f *fakeGenerator) Edit(ctx context.Context, image []byte, filename, mimeType, prompt string) ([]byte, error) {
	f.editCalls++
	f.lastPrompt = prompt
	if f.editErr != nil {
		return nil, f.editErr
	}
	return []byte("edited-image"), nil
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt, size string) (string, error) {
	f.generateCalls++
	f.lastPrompt = prompt
	if f.generateErr != nil {
		return "", f.generateErr
	}
	return "https://hosted.test/result.png", nil
}

func (f *fakeGenerator) FetchImage(ctx context.Context, url string) ([]byte, error) {
	f.fetchCalls++
	return []byte("fetched-image"), nil
}

func newTestService(variant VariantSpec, configs *fakeConfigStore, responses *fakeResponseStore, blobs *fakeBlobStore, gen *fakeGenerator) *SubmissionService {
	return NewSubmissionService(variant, configs, responses, blobs, gen, logger.New(nil), nil)
}

func yearbookSubmission() *Submission {
	return &Submission{
		Name:      "Alice",
		Gender:    "Femme",
		Code:      "SECRET",
		Image:     []byte("jpeg-bytes"),
		ImageMIME: "image/jpeg",
	}
}

func TestSubmitYearbookGenerateMode(t *testing.T) {
	configs := &fakeConfigStore{cfg: &domain.Config{
		Variant:        domain.VariantYearbook,
		Code:           "SECRET",
		PromptTemplate: "Hello {{name}}",
	}}
	responses := &fakeResponseStore{}
	blobs := newFakeBlobStore()
	gen := &fakeGenerator{}

	svc := newTestService(YearbookVariant(ModeGenerate), configs, responses, blobs, gen)
	result, err := svc.Submit(context.Background(), yearbookSubmission())
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}

	if gen.lastPrompt != "Hello Alice" {
		t.Errorf("rendered prompt = %q, want %q", gen.lastPrompt, "Hello Alice")
	}
	if gen.generateCalls != 1 || gen.fetchCalls != 1 || gen.editCalls != 0 {
		t.Errorf("generator calls = generate:%d fetch:%d edit:%d, want 1/1/0",
			gen.generateCalls, gen.fetchCalls, gen.editCalls)
	}
	if len(blobs.objects) != 2 {
		t.Errorf("stored %d objects, want 2 (original + generated)", len(blobs.objects))
	}
	if result.OriginalImageURL == "" || result.GeneratedImageURL == "" {
		t.Errorf("result URLs must be non-empty, got %+v", result)
	}
	if !strings.HasPrefix(result.OriginalImageURL, "https://cdn.test/yearbook-original-") {
		t.Errorf("unexpected original URL %q", result.OriginalImageURL)
	}
	if result.Message != "Image yearbook générée avec succès" {
		t.Errorf("unexpected message %q", result.Message)
	}

	if len(responses.created) != 1 {
		t.Fatalf("persisted %d responses, want 1", len(responses.created))
	}
	resp := responses.created[0]
	if resp.Name != "Alice" || resp.Prompt != "Hello Alice" || resp.Code != "SECRET" {
		t.Errorf("persisted response = %+v", resp)
	}
	if resp.OriginalImageURL != result.OriginalImageURL || resp.GeneratedImageURL != result.GeneratedImageURL {
		t.Errorf("persisted URLs differ from result: %+v vs %+v", resp, result)
	}
}

func TestSubmitWrongCode(t *testing.T) {
	configs := &fakeConfigStore{cfg: &domain.Config{
		Variant:        domain.VariantYearbook,
		Code:           "SECRET",
		PromptTemplate: "Hello {{name}}",
	}}
	responses := &fakeResponseStore{}
	blobs := newFakeBlobStore()
	gen := &fakeGenerator{}

	svc := newTestService(YearbookVariant(ModeGenerate), configs, responses, blobs, gen)
	sub := yearbookSubmission()
	sub.Code = "WRONG"

	_, err := svc.Submit(context.Background(), sub)
	if !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("Submit() error = %v, want ErrInvalidCode", err)
	}
	if len(blobs.objects) != 0 {
		t.Errorf("no blob writes expected on code mismatch, got %d", len(blobs.objects))
	}
	if len(responses.created) != 0 {
		t.Errorf("no response expected on code mismatch, got %d", len(responses.created))
	}
}

func TestSubmitMissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Submission)
	}{
		{"missing name", func(s *Submission) { s.Name = "" }},
		{"missing gender", func(s *Submission) { s.Gender = "" }},
		{"missing code", func(s *Submission) { s.Code = "" }},
		{"missing image", func(s *Submission) { s.Image = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blobs := newFakeBlobStore()
			svc := newTestService(YearbookVariant(ModeGenerate),
				&fakeConfigStore{}, &fakeResponseStore{}, blobs, &fakeGenerator{})

			sub := yearbookSubmission()
			tt.mutate(sub)

			_, err := svc.Submit(context.Background(), sub)
			var inputErr *InputError
			if !errors.As(err, &inputErr) {
				t.Fatalf("Submit() error = %v, want InputError", err)
			}
			if len(blobs.objects) != 0 {
				t.Errorf("validation failure must not touch storage")
			}
		})
	}
}

func TestSubmitYearbookNotConfigured(t *testing.T) {
	svc := newTestService(YearbookVariant(ModeGenerate),
		&fakeConfigStore{}, &fakeResponseStore{}, newFakeBlobStore(), &fakeGenerator{})

	_, err := svc.Submit(context.Background(), yearbookSubmission())
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("Submit() error = %v, want ErrNotConfigured", err)
	}
}

func adventurerSubmission() *Submission {
	return &Submission{
		Name:      "Jean",
		Gender:    "Homme",
		Code:      "SECRET",
		Answers:   []string{"A", "B", "A", "B", "A"},
		Image:     []byte("png-bytes"),
		ImageMIME: "image/png",
	}
}

func TestSubmitAdventurerEditMode(t *testing.T) {
	configs := &fakeConfigStore{cfg: &domain.Config{
		Variant:        domain.VariantAdventurer,
		Code:           "SECRET",
		PromptTemplate: "Setting: {{answer4}} / Style: {{answer5}}",
		Questions:      quizFixture(),
	}}
	responses := &fakeResponseStore{}
	blobs := newFakeBlobStore()
	gen := &fakeGenerator{}

	svc := newTestService(AdventurerVariant(), configs, responses, blobs, gen)
	result, err := svc.Submit(context.Background(), adventurerSubmission())
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}

	// Answers map positionally: answer4 is the fourth label, answer5 the fifth
	want := "Setting: Desert / Style: Leather coat"
	if gen.lastPrompt != want {
		t.Errorf("rendered prompt = %q, want %q", gen.lastPrompt, want)
	}
	if gen.editCalls != 1 || gen.generateCalls != 0 {
		t.Errorf("generator calls = edit:%d generate:%d, want 1/0", gen.editCalls, gen.generateCalls)
	}
	if result.Message != "Avatar d'aventurier généré avec succès" {
		t.Errorf("unexpected message %q", result.Message)
	}

	if len(responses.created) != 1 {
		t.Fatalf("persisted %d responses, want 1", len(responses.created))
	}
	resp := responses.created[0]
	// Raw answer codes are stored, never the mapped labels
	if len(resp.Answers) != 5 || resp.Answers[0] != "A" || resp.Answers[1] != "B" {
		t.Errorf("persisted answers = %v, want raw codes", resp.Answers)
	}
}

func TestSubmitAdventurerAnswerCount(t *testing.T) {
	for _, count := range []int{0, 4, 6} {
		sub := adventurerSubmission()
		sub.Answers = sub.Answers[:0]
		for i := 0; i < count; i++ {
			sub.Answers = append(sub.Answers, "A")
		}

		svc := newTestService(AdventurerVariant(),
			&fakeConfigStore{}, &fakeResponseStore{}, newFakeBlobStore(), &fakeGenerator{})

		_, err := svc.Submit(context.Background(), sub)
		var inputErr *InputError
		if !errors.As(err, &inputErr) {
			t.Errorf("answers=%d: Submit() error = %v, want InputError", count, err)
		}
	}
}

func TestSubmitAdventurerInvalidGender(t *testing.T) {
	sub := adventurerSubmission()
	sub.Gender = "Inconnu"

	svc := newTestService(AdventurerVariant(),
		&fakeConfigStore{}, &fakeResponseStore{}, newFakeBlobStore(), &fakeGenerator{})

	_, err := svc.Submit(context.Background(), sub)
	var inputErr *InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("Submit() error = %v, want InputError", err)
	}
}

func TestSubmitAdventurerMaterializesDefaults(t *testing.T) {
	configs := &fakeConfigStore{}
	responses := &fakeResponseStore{}
	gen := &fakeGenerator{}

	svc := newTestService(AdventurerVariant(), configs, responses, newFakeBlobStore(), gen)

	sub := adventurerSubmission()
	sub.Code = prompts.DefaultAdventurerCode

	if _, err := svc.Submit(context.Background(), sub); err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if configs.replaced != 1 {
		t.Errorf("default config materialized %d times, want 1", configs.replaced)
	}
	if configs.cfg == nil || configs.cfg.Code != prompts.DefaultAdventurerCode {
		t.Errorf("materialized config = %+v", configs.cfg)
	}
}

func TestSubmitGenerationFailureKeepsOriginal(t *testing.T) {
	configs := &fakeConfigStore{cfg: &domain.Config{
		Variant:        domain.VariantYearbook,
		Code:           "SECRET",
		PromptTemplate: "Hello {{name}}",
	}}
	responses := &fakeResponseStore{}
	blobs := newFakeBlobStore()
	gen := &fakeGenerator{generateErr: fmt.Errorf("boom")}

	svc := newTestService(YearbookVariant(ModeGenerate), configs, responses, blobs, gen)
	_, err := svc.Submit(context.Background(), yearbookSubmission())

	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("Submit() error = %v, want UpstreamError", err)
	}
	// The original stays durably stored with no compensating delete
	if len(blobs.objects) != 1 {
		t.Errorf("stored %d objects, want 1 (the original)", len(blobs.objects))
	}
	if len(responses.created) != 0 {
		t.Errorf("no response expected after generation failure, got %d", len(responses.created))
	}
}

func TestResultsPagination(t *testing.T) {
	tests := []struct {
		total     int64
		limit     int
		wantPages int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
		{25, 7, 4},
		{100, 1, 100},
	}

	for _, tt := range tests {
		responses := &fakeResponseStore{total: tt.total}
		svc := newTestService(YearbookVariant(ModeGenerate),
			&fakeConfigStore{}, responses, newFakeBlobStore(), &fakeGenerator{})

		page, err := svc.Results(context.Background(), 2, tt.limit)
		if err != nil {
			t.Fatalf("Results() error: %v", err)
		}
		if page.TotalPages != tt.wantPages {
			t.Errorf("total=%d limit=%d: TotalPages = %d, want %d",
				tt.total, tt.limit, page.TotalPages, tt.wantPages)
		}
		if page.CurrentPage != 2 {
			t.Errorf("CurrentPage = %d, want the requested page regardless of data", page.CurrentPage)
		}
		if page.TotalResults != tt.total {
			t.Errorf("TotalResults = %d, want %d", page.TotalResults, tt.total)
		}
	}
}

func TestDeleteResult(t *testing.T) {
	responses := &fakeResponseStore{}
	svc := newTestService(YearbookVariant(ModeGenerate),
		&fakeConfigStore{}, responses, newFakeBlobStore(), &fakeGenerator{})

	responses.created = append(responses.created, &domain.Response{
		ID:      "abc",
		Variant: domain.VariantYearbook,
		Name:    "Alice",
	})

	deleted, err := svc.DeleteResult(context.Background(), "abc")
	if err != nil {
		t.Fatalf("DeleteResult() error: %v", err)
	}
	if deleted.ID != "abc" || deleted.Name != "Alice" {
		t.Errorf("deleted = %+v", deleted)
	}
	if len(responses.deleted) != 1 || responses.deleted[0] != "abc" {
		t.Errorf("delete not confirmed against the store: %v", responses.deleted)
	}

	if _, err := svc.DeleteResult(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteResult(missing) error = %v, want ErrNotFound", err)
	}
}

func TestUpdateConfigValidation(t *testing.T) {
	tests := []struct {
		name      string
		variant   VariantSpec
		code      string
		template  string
		questions domain.QuestionList
		wantErr   bool
	}{
		{"yearbook valid", YearbookVariant(ModeGenerate), "SECRET", "Hello {{name}}", nil, false},
		{"yearbook missing code", YearbookVariant(ModeGenerate), "", "Hello", nil, true},
		{"yearbook missing template", YearbookVariant(ModeGenerate), "SECRET", "", nil, true},
		{"adventurer valid", AdventurerVariant(), "SECRET", "Hi", quizFixture(), false},
		{"adventurer wrong question count", AdventurerVariant(), "SECRET", "Hi", quizFixture()[:4], true},
		{"adventurer no questions", AdventurerVariant(), "SECRET", "Hi", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(tt.variant,
				&fakeConfigStore{}, &fakeResponseStore{}, newFakeBlobStore(), &fakeGenerator{})

			_, err := svc.UpdateConfig(context.Background(), tt.code, tt.template, tt.questions)
			if tt.wantErr {
				var inputErr *InputError
				if !errors.As(err, &inputErr) {
					t.Errorf("UpdateConfig() error = %v, want InputError", err)
				}
			} else if err != nil {
				t.Errorf("UpdateConfig() error = %v", err)
			}
		})
	}
}
