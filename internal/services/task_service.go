package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"promote-social.com/promote-social/internal/constants"
	apperrors "promote-social.com/promote-social/internal/errors"
	"promote-social.com/promote-social/internal/metrics"
	model "promote-social.com/promote-social/internal/models"
	repository "promote-social.com/promote-social/internal/repositories"
)

type TaskService struct {
	repos   *repository.Repositories
	logger  *zap.Logger
	metrics *metrics.Metrics
}

type TaskSpec struct {
	Title          string
	Platform       constants.Platform
	ActionType     constants.ActionType
	Link           string
	Reward         int64
	MaxCompletions int64
}

func (s TaskSpec) validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return apperrors.Validation("title is required")
	}
	if !s.Platform.IsValid() {
		return apperrors.Validation("unsupported platform")
	}
	if !s.ActionType.IsValid() {
		return apperrors.Validation("unsupported action type")
	}
	if strings.TrimSpace(s.Link) == "" {
		return apperrors.Validation("link is required")
	}
	if s.Reward <= 0 {
		return apperrors.Validation("reward must be positive")
	}
	if s.Reward > constants.MaxTaskReward {
		return apperrors.Validation(fmt.Sprintf("reward must not exceed %d", constants.MaxTaskReward))
	}
	if s.MaxCompletions <= 0 {
		return apperrors.Validation("max completions must be positive")
	}
	if s.MaxCompletions > constants.MaxTaskCompletions {
		return apperrors.Validation(fmt.Sprintf("max completions must not exceed %d", constants.MaxTaskCompletions))
	}
	if s.MaxCompletions > math.MaxInt64/s.Reward {
		return apperrors.Validation("budget too large")
	}
	return nil
}

func NewTaskService(repos *repository.Repositories, logger *zap.Logger, m *metrics.Metrics) *TaskService {
	return &TaskService{
		repos:   repos,
		logger:  logger,
		metrics: m,
	}
}

// CreateTask reserves reward × max completions from the creator and posts
// the task. The debit and the insert commit together or not at all.
func (s *TaskService) CreateTask(ctx context.Context, creatorID string, spec TaskSpec) (*model.Task, error) {
	if err := spec.validate(); err != nil {
		return nil, err
	}

	task := &model.Task{
		ID:             uuid.NewString(),
		CreatorID:      creatorID,
		Title:          strings.TrimSpace(spec.Title),
		Platform:       spec.Platform,
		ActionType:     spec.ActionType,
		Link:           strings.TrimSpace(spec.Link),
		Reward:         spec.Reward,
		MaxCompletions: spec.MaxCompletions,
		Status:         constants.TaskStatusActive,
		CreatedAt:      time.Now().UTC(),
	}
	cost := task.Budget()

	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if err := tx.Users.Debit(ctx, creatorID, cost); err != nil {
			return err
		}
		return tx.Tasks.Create(ctx, task)
	})
	if err != nil {
		s.logger.Warn("task creation failed",
			zap.String("creator_id", creatorID),
			zap.Int64("cost", cost),
			zap.Error(err),
		)
		return nil, err
	}

	s.metrics.TaskCreated(cost)
	s.logger.Info("task created",
		zap.String("task_id", task.ID),
		zap.String("creator_id", creatorID),
		zap.Int64("cost", cost),
	)
	return task, nil
}

func (s *TaskService) GetTask(ctx context.Context, id string) (*model.Task, error) {
	return s.repos.Tasks.FindByID(ctx, id)
}

func (s *TaskService) ListActiveTasks(ctx context.Context, filter repository.TaskFilter) ([]model.Task, error) {
	return s.repos.Tasks.ListActive(ctx, filter)
}

func (s *TaskService) ListCreatedTasks(ctx context.Context, creatorID string) ([]model.Task, error) {
	return s.repos.Tasks.ListByCreator(ctx, creatorID)
}

// UpdateStatus overwrites the status without checks.
func (s *TaskService) UpdateStatus(ctx context.Context, taskID string, status constants.TaskStatus) error {
	if !status.IsValid() {
		return apperrors.ErrInvalidStatusTransition
	}
	return s.repos.Tasks.UpdateStatus(ctx, taskID, status)
}

// SetStatus lets a creator pause or resume their own task. Completion is
// reserved for the approval workflow.
func (s *TaskService) SetStatus(
	ctx context.Context,
	actingUserID string,
	taskID string,
	status constants.TaskStatus,
) (*model.Task, error) {
	task, err := s.repos.Tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.CreatorID != actingUserID {
		return nil, apperrors.ErrUnauthorized
	}

	var from constants.TaskStatus
	switch status {
	case constants.TaskStatusPaused:
		from = constants.TaskStatusActive
	case constants.TaskStatusActive:
		from = constants.TaskStatusPaused
	default:
		return nil, apperrors.ErrInvalidStatusTransition
	}

	if err := s.repos.Tasks.SwapStatus(ctx, taskID, from, status); err != nil {
		return nil, err
	}

	task.Status = status
	s.logger.Info("task status changed",
		zap.String("task_id", taskID),
		zap.String("status", string(status)),
	)
	return task, nil
}
