package repository

import (
	"context"
	"errors"

	"github.com/mci-lab/avatarforge/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConfigRepository handles the singleton per-variant configuration records.
type ConfigRepository struct {
	db *gorm.DB
}

// NewConfigRepository creates a new ConfigRepository.
func NewConfigRepository(db *gorm.DB) *ConfigRepository {
	return &ConfigRepository{db: db}
}

// Get retrieves the configuration for a variant. Returns (nil, nil) when no
// configuration exists so callers can apply their own missing-config policy.
func (r *ConfigRepository) Get(ctx context.Context, variant domain.Variant) (*domain.Config, error) {
	var cfg domain.Config
	err := r.db.WithContext(ctx).First(&cfg, "variant = ?", variant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Replace atomically installs the configuration for a variant, replacing all
// fields of an existing record. At most one row per variant is kept by the
// unique index on the variant column.
func (r *ConfigRepository) Replace(ctx context.Context, cfg *domain.Config) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "variant"}},
		DoUpdates: clause.AssignmentColumns([]string{"code", "prompt_template", "questions", "updated_at"}),
	}).Create(cfg).Error
}
