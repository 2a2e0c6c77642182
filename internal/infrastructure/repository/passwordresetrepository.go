package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/tdesk-io/tdesk/internal/domain/user"
	"github.com/tdesk-io/tdesk/internal/infrastructure/persistence/mappers"
	"github.com/tdesk-io/tdesk/internal/infrastructure/persistence/models"
	"github.com/tdesk-io/tdesk/internal/shared/db"
)

type PasswordResetRepository struct {
	db     *gorm.DB
	mapper mappers.UserMapper
}

func NewPasswordResetRepository(db *gorm.DB) *PasswordResetRepository {
	return &PasswordResetRepository{
		db:     db,
		mapper: mappers.NewUserMapper(),
	}
}

func (r *PasswordResetRepository) Create(ctx context.Context, reset *user.PasswordReset) error {
	model := r.mapper.ResetToModel(reset)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create password reset: %w", db.Classify(err))
	}
	reset.ID = model.ID
	return nil
}

func (r *PasswordResetRepository) GetBySelector(ctx context.Context, selector string) (*user.PasswordReset, error) {
	var model models.PasswordResetModel
	err := db.GetTxFromContext(ctx, r.db).Where("selector = ?", selector).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrResetNotFound
		}
		return nil, fmt.Errorf("failed to get password reset: %w", db.Classify(err))
	}
	return r.mapper.ResetToDomain(&model), nil
}

// MarkUsed stamps the grant only if it is still unused, so two concurrent
// redemptions cannot both succeed.
func (r *PasswordResetRepository) MarkUsed(ctx context.Context, id uint, at time.Time) error {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.PasswordResetModel{}).
		Where("id = ? AND used_at IS NULL", id).
		Update("used_at", at)
	if result.Error != nil {
		return fmt.Errorf("failed to mark password reset used: %w", db.Classify(result.Error))
	}
	if result.RowsAffected == 0 {
		return user.ErrResetUsed
	}
	return nil
}

func (r *PasswordResetRepository) DeleteForUser(ctx context.Context, userID uint) error {
	err := db.GetTxFromContext(ctx, r.db).Where("user_id = ?", userID).Delete(&models.PasswordResetModel{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete password resets: %w", db.Classify(err))
	}
	return nil
}

func (r *PasswordResetRepository) DeleteStale(ctx context.Context, now time.Time) (int64, error) {
	result := db.GetTxFromContext(ctx, r.db).
		Where("used_at IS NOT NULL OR expires_at < ?", now).
		Delete(&models.PasswordResetModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete stale password resets: %w", db.Classify(result.Error))
	}
	return result.RowsAffected, nil
}

var _ user.PasswordResetRepository = (*PasswordResetRepository)(nil)
