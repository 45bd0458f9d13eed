package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"promote-social.com/promote-social/internal/constants"
	apperrors "promote-social.com/promote-social/internal/errors"
	model "promote-social.com/promote-social/internal/models"
)

type CompletionRepository struct {
	db *gorm.DB
}

func NewCompletionRepository(db *gorm.DB) *CompletionRepository {
	return &CompletionRepository{db: db}
}

func (r *CompletionRepository) Create(ctx context.Context, completion *model.TaskCompletion) error {
	return r.db.WithContext(ctx).Create(completion).Error
}

func (r *CompletionRepository) FindByID(ctx context.Context, id string) (*model.TaskCompletion, error) {
	var completion model.TaskCompletion
	err := r.db.WithContext(ctx).First(&completion, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, apperrors.ErrCompletionNotFound)
	}
	return &completion, nil
}

func (r *CompletionRepository) ListByTask(
	ctx context.Context,
	taskID string,
	status constants.CompletionStatus,
) ([]model.TaskCompletion, error) {
	query := r.db.WithContext(ctx).Where("task_id = ?", taskID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var completions []model.TaskCompletion
	err := query.Order("created_at desc").Find(&completions).Error
	return completions, err
}

func (r *CompletionRepository) ListByUser(ctx context.Context, userID string) ([]model.TaskCompletion, error) {
	var completions []model.TaskCompletion
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&completions).Error
	return completions, err
}

// HasOpenClaim reports whether the user holds a pending or approved
// completion for the task.
func (r *CompletionRepository) HasOpenClaim(ctx context.Context, taskID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.TaskCompletion{}).
		Where("task_id = ? AND user_id = ? AND status IN ?", taskID, userID, []constants.CompletionStatus{
			constants.CompletionPending,
			constants.CompletionApproved,
		}).
		Count(&count).Error
	return count > 0, err
}

// Transition moves a completion out of from. Zero rows affected means
// another reviewer got there first or the row is gone.
func (r *CompletionRepository) Transition(
	ctx context.Context,
	id string,
	from, to constants.CompletionStatus,
	at time.Time,
) error {
	res := r.db.WithContext(ctx).Model(&model.TaskCompletion{}).
		Where("id = ? AND status = ?", id, from).
		UpdateColumns(map[string]interface{}{
			"status":     to,
			"updated_at": at,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
		return apperrors.ErrCompletionNotPending
	}
	return nil
}
