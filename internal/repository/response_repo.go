package repository

import (
	"context"
	"errors"

	"github.com/mci-lab/avatarforge/internal/domain"
	"gorm.io/gorm"
)

// ResponseRepository handles submission response records.
type ResponseRepository struct {
	db *gorm.DB
}

// NewResponseRepository creates a new ResponseRepository.
func NewResponseRepository(db *gorm.DB) *ResponseRepository {
	return &ResponseRepository{db: db}
}

// Create inserts a new response record.
func (r *ResponseRepository) Create(ctx context.Context, resp *domain.Response) error {
	return r.db.WithContext(ctx).Create(resp).Error
}

// List retrieves responses for a variant, newest first, with pagination.
func (r *ResponseRepository) List(ctx context.Context, variant domain.Variant, limit, offset int) ([]domain.Response, error) {
	var responses []domain.Response
	if err := r.db.WithContext(ctx).
		Where("variant = ?", variant).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&responses).Error; err != nil {
		return nil, err
	}
	return responses, nil
}

// Count returns the total number of responses for a variant.
func (r *ResponseRepository) Count(ctx context.Context, variant domain.Variant) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&domain.Response{}).
		Where("variant = ?", variant).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GetByID retrieves a response by its ID within a variant. Returns (nil, nil)
// when no such record exists.
func (r *ResponseRepository) GetByID(ctx context.Context, variant domain.Variant, id string) (*domain.Response, error) {
	var resp domain.Response
	err := r.db.WithContext(ctx).First(&resp, "variant = ? AND id = ?", variant, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Delete removes a response by ID.
func (r *ResponseRepository) Delete(ctx context.Context, variant domain.Variant, id string) error {
	return r.db.WithContext(ctx).Delete(&domain.Response{}, "variant = ? AND id = ?", variant, id).Error
}
