package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	apperrors "promote-social.com/promote-social/internal/errors"
	model "promote-social.com/promote-social/internal/models"
)

type TokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) Create(ctx context.Context, token *model.CompletionToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

// SupersedeUnused burns every unused token of the (task, user) pair.
func (r *TokenRepository) SupersedeUnused(ctx context.Context, taskID, userID string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.CompletionToken{}).
		Where("task_id = ? AND user_id = ? AND used = ?", taskID, userID, false).
		UpdateColumn("used", true)
	return res.RowsAffected, res.Error
}

func (r *TokenRepository) FindUnused(ctx context.Context, taskID, userID, token string) (*model.CompletionToken, error) {
	var record model.CompletionToken
	err := r.db.WithContext(ctx).
		Where("task_id = ? AND user_id = ? AND token = ? AND used = ?", taskID, userID, token, false).
		First(&record).Error
	if err != nil {
		return nil, notFound(err, apperrors.ErrInvalidToken)
	}
	return &record, nil
}

// MarkUsed flips used from false to true. Losing the race to a concurrent
// validation surfaces as ErrInvalidToken.
func (r *TokenRepository) MarkUsed(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Model(&model.CompletionToken{}).
		Where("id = ? AND used = ?", id, false).
		UpdateColumn("used", true)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrInvalidToken
	}
	return nil
}

func (r *TokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at < ?", before).
		Delete(&model.CompletionToken{})
	return res.RowsAffected, res.Error
}
