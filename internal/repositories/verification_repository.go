package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"promote-social.com/promote-social/internal/constants"
	apperrors "promote-social.com/promote-social/internal/errors"
	model "promote-social.com/promote-social/internal/models"
)

type VerificationRepository struct {
	db *gorm.DB
}

func NewVerificationRepository(db *gorm.DB) *VerificationRepository {
	return &VerificationRepository{db: db}
}

func (r *VerificationRepository) Create(ctx context.Context, v *model.PlatformVerification) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *VerificationRepository) FindByID(ctx context.Context, id string) (*model.PlatformVerification, error) {
	var v model.PlatformVerification
	err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, apperrors.ErrVerificationNotFound)
	}
	return &v, nil
}

// FindForUserPlatform picks the most relevant row when duplicates exist:
// verified rows win, then the newest.
func (r *VerificationRepository) FindForUserPlatform(
	ctx context.Context,
	userID string,
	platform constants.Platform,
) (*model.PlatformVerification, error) {
	var v model.PlatformVerification
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND platform = ?", userID, platform).
		Order("verified desc").
		Order("created_at desc").
		First(&v).Error
	if err != nil {
		return nil, notFound(err, apperrors.ErrVerificationNotFound)
	}
	return &v, nil
}

func (r *VerificationRepository) ListByUser(ctx context.Context, userID string) ([]model.PlatformVerification, error) {
	var vs []model.PlatformVerification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&vs).Error
	return vs, err
}

func (r *VerificationRepository) MarkVerified(ctx context.Context, id string, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.PlatformVerification{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"verified":    true,
			"verified_at": at,
			"updated_at":  at,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrVerificationNotFound
	}
	return nil
}
