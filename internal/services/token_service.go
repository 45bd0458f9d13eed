package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "promote-social.com/promote-social/internal/errors"
	"promote-social.com/promote-social/internal/metrics"
	model "promote-social.com/promote-social/internal/models"
	repository "promote-social.com/promote-social/internal/repositories"
)

// TokenService is the server-side authority on completion tokens. Whatever
// the extension claims, a token is only good if a live, unused row exists here.
type TokenService struct {
	repos   *repository.Repositories
	ttl     time.Duration
	logger  *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewTokenService(
	repos *repository.Repositories,
	ttl time.Duration,
	logger *zap.Logger,
	m *metrics.Metrics,
) *TokenService {
	return &TokenService{
		repos:   repos,
		ttl:     ttl,
		logger:  logger,
		metrics: m,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Register stores a freshly issued token. Older unused tokens for the same
// (task, user) pair are burned so only the newest one validates.
func (s *TokenService) Register(ctx context.Context, taskID, userID, token string) (*model.CompletionToken, error) {
	if token == "" {
		return nil, apperrors.ErrTokenRequired
	}

	if _, err := s.repos.Tasks.FindByID(ctx, taskID); err != nil {
		return nil, err
	}

	now := s.now()
	record := &model.CompletionToken{
		ID:        uuid.NewString(),
		TaskID:    taskID,
		UserID:    userID,
		Token:     token,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}

	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if _, err := tx.Tokens.SupersedeUnused(ctx, taskID, userID); err != nil {
			return err
		}
		return tx.Tokens.Create(ctx, record)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("completion token registered",
		zap.String("task_id", taskID),
		zap.String("user_id", userID),
		zap.Time("expires_at", record.ExpiresAt),
	)
	return record, nil
}

// Validate consumes the token. It succeeds at most once per token.
func (s *TokenService) Validate(ctx context.Context, taskID, userID, token string) error {
	err := s.validate(ctx, taskID, userID, token)

	switch {
	case err == nil:
		s.metrics.TokenValidated("ok")
	case errors.Is(err, apperrors.ErrTokenExpired):
		s.metrics.TokenValidated("expired")
	case errors.Is(err, apperrors.ErrInvalidToken):
		s.metrics.TokenValidated("invalid")
	default:
		s.metrics.TokenValidated("error")
	}

	if err != nil {
		s.logger.Warn("completion token rejected",
			zap.String("task_id", taskID),
			zap.String("user_id", userID),
			zap.Error(err),
		)
	}
	return err
}

func (s *TokenService) validate(ctx context.Context, taskID, userID, token string) error {
	if token == "" {
		return apperrors.ErrTokenRequired
	}

	record, err := s.repos.Tokens.FindUnused(ctx, taskID, userID, token)
	if err != nil {
		return err
	}

	if record.Expired(s.now()) {
		return apperrors.ErrTokenExpired
	}

	return s.repos.Tokens.MarkUsed(ctx, record.ID)
}

// PurgeExpired deletes token rows that can no longer validate.
func (s *TokenService) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.repos.Tokens.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("expired completion tokens purged", zap.Int64("count", n))
	}
	return n, nil
}

// RunPurge calls PurgeExpired every interval until ctx is done.
func (s *TokenService) RunPurge(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := s.PurgeExpired(ctx); err != nil && ctx.Err() == nil {
				s.logger.Error("token purge failed", zap.Error(err))
			}
		case <-ctx.Done():
			return
		}
	}
}
