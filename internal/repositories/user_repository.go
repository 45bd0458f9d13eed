package repository

import (
	"context"
	"errors"
	"math"
	"time"

	"gorm.io/gorm"

	apperrors "promote-social.com/promote-social/internal/errors"
	model "promote-social.com/promote-social/internal/models"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, id, username string, points int64) (*model.User, error) {
	user := &model.User{
		ID:        id,
		Username:  username,
		Points:    points,
		CreatedAt: time.Now().UTC(),
	}

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, r.duplicate(ctx, id)
		}
		return nil, err
	}

	return user, nil
}

// duplicate tells which unique constraint a failed insert hit.
func (r *UserRepository) duplicate(ctx context.Context, id string) error {
	if _, err := r.FindByID(ctx, id); err == nil {
		return apperrors.ErrUserExists
	}
	return apperrors.ErrUsernameTaken
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, apperrors.ErrUserNotFound)
	}
	return &user, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).First(&user, "username = ?", username).Error
	if err != nil {
		return nil, notFound(err, apperrors.ErrUserNotFound)
	}
	return &user, nil
}

// AdjustBalance applies delta in a single statement, flooring the balance at
// zero. A debit larger than the balance does not fail; a credit that would
// pass math.MaxInt64 does.
func (r *UserRepository) AdjustBalance(ctx context.Context, id string, delta int64) (*model.User, error) {
	query := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id)
	if delta > 0 {
		query = query.Where("points <= ?", math.MaxInt64-delta)
	}

	res := query.UpdateColumn("points", gorm.Expr("CASE WHEN points + ? < 0 THEN 0 ELSE points + ? END", delta, delta))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, r.missingOrOverflow(ctx, id)
	}

	return r.FindByID(ctx, id)
}

// Debit removes amount only if the balance covers it.
func (r *UserRepository) Debit(ctx context.Context, id string, amount int64) error {
	if amount <= 0 {
		return apperrors.ErrInvalidAmount
	}

	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND points >= ?", id, amount).
		UpdateColumn("points", gorm.Expr("points - ?", amount))

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
		return apperrors.ErrInsufficientPoints
	}

	return nil
}

// Credit adds amount unless the balance would pass math.MaxInt64.
func (r *UserRepository) Credit(ctx context.Context, id string, amount int64) error {
	if amount <= 0 {
		return apperrors.ErrInvalidAmount
	}

	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND points <= ?", id, math.MaxInt64-amount).
		UpdateColumn("points", gorm.Expr("points + ?", amount))

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.missingOrOverflow(ctx, id)
	}

	return nil
}

func (r *UserRepository) missingOrOverflow(ctx context.Context, id string) error {
	if _, err := r.FindByID(ctx, id); err != nil {
		return err
	}
	return apperrors.ErrBalanceOverflow
}

func notFound(err error, target error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return err
}
