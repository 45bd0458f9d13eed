package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"promote-social.com/promote-social/internal/constants"
	apperrors "promote-social.com/promote-social/internal/errors"
	"promote-social.com/promote-social/internal/metrics"
	model "promote-social.com/promote-social/internal/models"
	repository "promote-social.com/promote-social/internal/repositories"
)

// CompletionService runs the pending → approved|rejected workflow.
type CompletionService struct {
	repos         *repository.Repositories
	tokens        *TokenService
	verifications *VerificationService
	logger        *zap.Logger
	metrics       *metrics.Metrics
	now           func() time.Time
}

type Submission struct {
	TaskID   string
	UserID   string
	ProofURL string
	Token    string
}

func NewCompletionService(
	repos *repository.Repositories,
	tokens *TokenService,
	verifications *VerificationService,
	logger *zap.Logger,
	m *metrics.Metrics,
) *CompletionService {
	return &CompletionService{
		repos:         repos,
		tokens:        tokens,
		verifications: verifications,
		logger:        logger,
		metrics:       m,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Submit records a pending claim. The token is consumed before any other
// check, so a rejected submission needs a fresh token.
func (s *CompletionService) Submit(ctx context.Context, sub Submission) (*model.TaskCompletion, error) {
	completion, err := s.submit(ctx, sub)
	if err != nil {
		s.metrics.Submitted(submitResult(err))
		s.logger.Warn("completion rejected at submission",
			zap.String("task_id", sub.TaskID),
			zap.String("user_id", sub.UserID),
			zap.Error(err),
		)
		return nil, err
	}

	s.metrics.Submitted("accepted")
	s.logger.Info("completion submitted",
		zap.String("completion_id", completion.ID),
		zap.String("task_id", sub.TaskID),
		zap.String("user_id", sub.UserID),
	)
	return completion, nil
}

func (s *CompletionService) submit(ctx context.Context, sub Submission) (*model.TaskCompletion, error) {
	if sub.Token == "" {
		return nil, apperrors.ErrTokenRequired
	}

	if err := s.tokens.Validate(ctx, sub.TaskID, sub.UserID, sub.Token); err != nil {
		return nil, err
	}

	task, err := s.repos.Tasks.FindByID(ctx, sub.TaskID)
	if err != nil {
		return nil, err
	}

	if err := s.checkEligibility(ctx, task, sub.UserID); err != nil {
		return nil, err
	}

	reqs, err := s.verifications.CheckRequirements(ctx, sub.UserID, task.ID, task.Platform)
	if err != nil {
		return nil, err
	}
	if !reqs.CanComplete {
		return nil, &apperrors.RequirementsNotMetError{Reasons: reqs.Reasons}
	}

	now := s.now()
	completion := &model.TaskCompletion{
		ID:        uuid.NewString(),
		TaskID:    task.ID,
		UserID:    sub.UserID,
		ProofURL:  sub.ProofURL,
		Status:    constants.CompletionPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repos.Completions.Create(ctx, completion); err != nil {
		return nil, err
	}
	return completion, nil
}

func (s *CompletionService) checkEligibility(ctx context.Context, task *model.Task, userID string) error {
	if task.CreatorID == userID {
		return apperrors.ErrSelfCompletion
	}
	if task.Status != constants.TaskStatusActive {
		return apperrors.ErrTaskNotActive
	}
	if task.RemainingCompletions() == 0 {
		return apperrors.ErrCapacityReached
	}

	open, err := s.repos.Completions.HasOpenClaim(ctx, task.ID, userID)
	if err != nil {
		return err
	}
	if open {
		return apperrors.ErrAlreadySubmitted
	}
	return nil
}

// Approve pays the completer and counts the completion against the task.
// The status change, the counter and the credit commit together.
func (s *CompletionService) Approve(ctx context.Context, completionID, actingUserID string) (*model.TaskCompletion, error) {
	completion, task, err := s.loadForReview(ctx, completionID, actingUserID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if err := tx.Completions.Transition(ctx, completion.ID, constants.CompletionPending, constants.CompletionApproved, now); err != nil {
			return err
		}
		if err := tx.Tasks.IncrementCompleted(ctx, task.ID); err != nil {
			return err
		}
		return tx.Users.Credit(ctx, completion.UserID, task.Reward)
	})
	if err != nil {
		s.logger.Warn("approval failed",
			zap.String("completion_id", completionID),
			zap.String("task_id", task.ID),
			zap.Error(err),
		)
		return nil, err
	}

	completion.Status = constants.CompletionApproved
	completion.UpdatedAt = now

	s.metrics.Reviewed(string(constants.CompletionApproved))
	s.metrics.PointsCredited(task.Reward)
	s.logger.Info("completion approved",
		zap.String("completion_id", completion.ID),
		zap.String("task_id", task.ID),
		zap.String("user_id", completion.UserID),
		zap.Int64("reward", task.Reward),
	)
	return completion, nil
}

// Reject closes the claim without touching balances or counters.
func (s *CompletionService) Reject(ctx context.Context, completionID, actingUserID string) (*model.TaskCompletion, error) {
	completion, task, err := s.loadForReview(ctx, completionID, actingUserID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.repos.Completions.Transition(ctx, completion.ID, constants.CompletionPending, constants.CompletionRejected, now); err != nil {
		return nil, err
	}

	completion.Status = constants.CompletionRejected
	completion.UpdatedAt = now

	s.metrics.Reviewed(string(constants.CompletionRejected))
	s.logger.Info("completion rejected",
		zap.String("completion_id", completion.ID),
		zap.String("task_id", task.ID),
		zap.String("user_id", completion.UserID),
	)
	return completion, nil
}

func (s *CompletionService) loadForReview(
	ctx context.Context,
	completionID string,
	actingUserID string,
) (*model.TaskCompletion, *model.Task, error) {
	completion, err := s.repos.Completions.FindByID(ctx, completionID)
	if err != nil {
		return nil, nil, err
	}

	task, err := s.repos.Tasks.FindByID(ctx, completion.TaskID)
	if err != nil {
		return nil, nil, err
	}

	if task.CreatorID != actingUserID {
		return nil, nil, apperrors.ErrUnauthorized
	}
	return completion, task, nil
}

// Requirements reports whether userID may currently submit for taskID.
func (s *CompletionService) Requirements(ctx context.Context, userID, taskID string) (Requirements, error) {
	task, err := s.repos.Tasks.FindByID(ctx, taskID)
	if err != nil {
		return Requirements{}, err
	}
	return s.verifications.CheckRequirements(ctx, userID, task.ID, task.Platform)
}

// GetCompletion is visible to the completer and to the task creator.
func (s *CompletionService) GetCompletion(ctx context.Context, completionID, actingUserID string) (*model.TaskCompletion, error) {
	completion, err := s.repos.Completions.FindByID(ctx, completionID)
	if err != nil {
		return nil, err
	}
	if completion.UserID == actingUserID {
		return completion, nil
	}

	task, err := s.repos.Tasks.FindByID(ctx, completion.TaskID)
	if err != nil {
		return nil, err
	}
	if task.CreatorID != actingUserID {
		return nil, apperrors.ErrUnauthorized
	}
	return completion, nil
}

func (s *CompletionService) ListTaskCompletions(
	ctx context.Context,
	taskID string,
	status constants.CompletionStatus,
	actingUserID string,
) ([]model.TaskCompletion, error) {
	task, err := s.repos.Tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.CreatorID != actingUserID {
		return nil, apperrors.ErrUnauthorized
	}
	if status != "" && !status.IsValid() {
		return nil, apperrors.Validation("unknown completion status")
	}
	return s.repos.Completions.ListByTask(ctx, taskID, status)
}

func (s *CompletionService) ListUserCompletions(ctx context.Context, userID string) ([]model.TaskCompletion, error) {
	return s.repos.Completions.ListByUser(ctx, userID)
}

func submitResult(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrTokenRequired),
		errors.Is(err, apperrors.ErrInvalidToken),
		errors.Is(err, apperrors.ErrTokenExpired):
		return "bad_token"
	case errors.Is(err, apperrors.ErrRequirementsNotMet):
		return "requirements"
	case errors.Is(err, apperrors.ErrSelfCompletion),
		errors.Is(err, apperrors.ErrTaskNotActive),
		errors.Is(err, apperrors.ErrCapacityReached),
		errors.Is(err, apperrors.ErrAlreadySubmitted):
		return "ineligible"
	default:
		return "error"
	}
}
