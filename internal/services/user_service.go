package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	apperrors "promote-social.com/promote-social/internal/errors"
	model "promote-social.com/promote-social/internal/models"
	repository "promote-social.com/promote-social/internal/repositories"
)

// UserService owns the points ledger. Every balance change in the system
// goes through a single-row statement in UserRepository.
type UserService struct {
	repos       *repository.Repositories
	signupBonus int64
	logger      *zap.Logger
}

func NewUserService(repos *repository.Repositories, signupBonus int64, logger *zap.Logger) *UserService {
	return &UserService{
		repos:       repos,
		signupBonus: signupBonus,
		logger:      logger,
	}
}

// Register creates the ledger row for an identity issued by the external
// identity provider.
func (s *UserService) Register(ctx context.Context, id, username string) (*model.User, error) {
	username = strings.TrimSpace(username)

	if _, err := s.repos.Users.FindByID(ctx, id); err == nil {
		return nil, apperrors.ErrUserExists
	} else if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, err
	}

	if _, err := s.repos.Users.FindByUsername(ctx, username); err == nil {
		return nil, apperrors.ErrUsernameTaken
	} else if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, err
	}

	user, err := s.repos.Users.Create(ctx, id, username, s.signupBonus)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID),
		zap.String("username", user.Username),
		zap.Int64("points", user.Points),
	)
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*model.User, error) {
	return s.repos.Users.FindByID(ctx, id)
}

func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.repos.Users.FindByUsername(ctx, username)
}

// AdjustBalance applies delta and floors the result at zero. Callers that
// must not overdraw use the task creation path, which debits conditionally.
func (s *UserService) AdjustBalance(ctx context.Context, id string, delta int64) (*model.User, error) {
	user, err := s.repos.Users.AdjustBalance(ctx, id, delta)
	if err != nil {
		return nil, err
	}

	s.logger.Info("balance adjusted",
		zap.String("user_id", id),
		zap.Int64("delta", delta),
		zap.Int64("points", user.Points),
	)
	return user, nil
}
