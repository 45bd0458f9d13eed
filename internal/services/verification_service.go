package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"promote-social.com/promote-social/internal/constants"
	apperrors "promote-social.com/promote-social/internal/errors"
	model "promote-social.com/promote-social/internal/models"
	repository "promote-social.com/promote-social/internal/repositories"
	"promote-social.com/promote-social/internal/verification"
)

const phraseAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

type VerificationService struct {
	repos    *repository.Repositories
	verifier verification.Verifier
	logger   *zap.Logger
	now      func() time.Time
}

// Requirements is the outcome of a completion eligibility check.
type Requirements struct {
	CanComplete bool     `json:"can_complete"`
	Reasons     []string `json:"reasons"`
}

func NewVerificationService(
	repos *repository.Repositories,
	verifier verification.Verifier,
	logger *zap.Logger,
) *VerificationService {
	return &VerificationService{
		repos:    repos,
		verifier: verifier,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create records an unverified claim. Duplicate claims for the same platform
// are allowed; Lookup picks the most relevant one.
func (s *VerificationService) Create(
	ctx context.Context,
	userID string,
	platform constants.Platform,
	platformUsername string,
	phrase string,
) (*model.PlatformVerification, error) {
	if !platform.IsValid() {
		return nil, apperrors.Validation("unsupported platform")
	}

	platformUsername = strings.TrimSpace(platformUsername)
	if platformUsername == "" {
		return nil, apperrors.Validation("platform username is required")
	}

	user, err := s.repos.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if phrase == "" {
		phrase, err = GeneratePhrase(user.Username)
		if err != nil {
			return nil, err
		}
	}

	now := s.now()
	v := &model.PlatformVerification{
		ID:                 uuid.NewString(),
		UserID:             userID,
		Platform:           platform,
		PlatformUsername:   platformUsername,
		VerificationPhrase: phrase,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.repos.Verifications.Create(ctx, v); err != nil {
		return nil, err
	}

	s.logger.Info("verification requested",
		zap.String("verification_id", v.ID),
		zap.String("user_id", userID),
		zap.String("platform", string(platform)),
	)
	return v, nil
}

// Verify runs the platform's verifier and marks the claim verified when it
// passes.
func (s *VerificationService) Verify(ctx context.Context, verificationID string) (*model.PlatformVerification, error) {
	v, err := s.repos.Verifications.FindByID(ctx, verificationID)
	if err != nil {
		return nil, err
	}

	if err := s.verifier.Verify(ctx, v); err != nil {
		s.logger.Warn("verification failed",
			zap.String("verification_id", v.ID),
			zap.String("platform", string(v.Platform)),
			zap.Error(err),
		)
		switch {
		case errors.Is(err, verification.ErrNotVerified):
			return nil, apperrors.Validation(err.Error())
		case errors.Is(err, verification.ErrUnavailable):
			return nil, apperrors.ErrVerifierUnavailable
		default:
			return nil, fmt.Errorf("verify platform: %w", err)
		}
	}

	now := s.now()
	if err := s.repos.Verifications.MarkVerified(ctx, v.ID, now); err != nil {
		return nil, err
	}

	v.Verified = true
	v.VerifiedAt = &now
	v.UpdatedAt = now

	s.logger.Info("platform verified",
		zap.String("verification_id", v.ID),
		zap.String("user_id", v.UserID),
		zap.String("platform", string(v.Platform)),
	)
	return v, nil
}

// Lookup returns nil without error when the user never asked to verify the
// platform.
func (s *VerificationService) Lookup(
	ctx context.Context,
	userID string,
	platform constants.Platform,
) (*model.PlatformVerification, error) {
	v, err := s.repos.Verifications.FindForUserPlatform(ctx, userID, platform)
	if errors.Is(err, apperrors.ErrVerificationNotFound) {
		return nil, nil
	}
	return v, err
}

func (s *VerificationService) ListForUser(ctx context.Context, userID string) ([]model.PlatformVerification, error) {
	return s.repos.Verifications.ListByUser(ctx, userID)
}

// CheckRequirements collects every reason the user may not complete a task
// on platform.
func (s *VerificationService) CheckRequirements(
	ctx context.Context,
	userID string,
	taskID string,
	platform constants.Platform,
) (Requirements, error) {
	reasons := []string{}

	v, err := s.Lookup(ctx, userID, platform)
	if err != nil {
		return Requirements{}, err
	}

	switch {
	case v == nil:
		reasons = append(reasons, fmt.Sprintf("You must verify your %s account first", platform))
	case !v.Verified:
		reasons = append(reasons, fmt.Sprintf("Your %s account verification is pending", platform))
	}

	return Requirements{
		CanComplete: len(reasons) == 0,
		Reasons:     reasons,
	}, nil
}

// GeneratePhrase builds the text a user puts in their bio to prove account
// ownership.
func GeneratePhrase(username string) (string, error) {
	suffix := make([]byte, 6)
	max := big.NewInt(int64(len(phraseAlphabet)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate phrase: %w", err)
		}
		suffix[i] = phraseAlphabet[n.Int64()]
	}
	return fmt.Sprintf("promote.social-%s-%s", username, suffix), nil
}
