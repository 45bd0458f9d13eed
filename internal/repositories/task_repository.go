package repository

import (
	"context"

	"gorm.io/gorm"

	"promote-social.com/promote-social/internal/constants"
	apperrors "promote-social.com/promote-social/internal/errors"
	model "promote-social.com/promote-social/internal/models"
)

type TaskRepository struct {
	db *gorm.DB
}

// TaskFilter narrows ListActive. Zero values mean "any".
type TaskFilter struct {
	Platform   constants.Platform
	ActionType constants.ActionType
	MinReward  int64
	MaxReward  int64
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, apperrors.ErrTaskNotFound)
	}
	return &task, nil
}

func (r *TaskRepository) ListActive(ctx context.Context, filter TaskFilter) ([]model.Task, error) {
	query := r.db.WithContext(ctx).Where("status = ?", constants.TaskStatusActive)

	if filter.Platform != "" {
		query = query.Where("platform = ?", filter.Platform)
	}
	if filter.ActionType != "" {
		query = query.Where("action_type = ?", filter.ActionType)
	}
	if filter.MinReward > 0 {
		query = query.Where("reward >= ?", filter.MinReward)
	}
	if filter.MaxReward > 0 {
		query = query.Where("reward <= ?", filter.MaxReward)
	}

	var tasks []model.Task
	err := query.Order("created_at desc").Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepository) ListByCreator(ctx context.Context, creatorID string) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("creator_id = ?", creatorID).
		Order("created_at desc").
		Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepository) UpdateStatus(ctx context.Context, id string, status constants.TaskStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ?", id).
		UpdateColumn("status", status)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrTaskNotFound
	}
	return nil
}

// SwapStatus moves the task from one status to another only if it is still
// in the expected status.
func (r *TaskRepository) SwapStatus(ctx context.Context, id string, from, to constants.TaskStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ? AND status = ?", id, from).
		UpdateColumn("status", to)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
		return apperrors.ErrInvalidStatusTransition
	}
	return nil
}

// IncrementCompleted bumps completed_count unless the task is full and marks
// the task completed when the last slot is taken.
func (r *TaskRepository) IncrementCompleted(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ? AND completed_count < max_completions", id).
		UpdateColumns(map[string]interface{}{
			"completed_count": gorm.Expr("completed_count + 1"),
			"status": gorm.Expr(
				"CASE WHEN completed_count + 1 >= max_completions THEN ? ELSE status END",
				string(constants.TaskStatusCompleted),
			),
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
		return apperrors.ErrCapacityReached
	}
	return nil
}
