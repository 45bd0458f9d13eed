package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repositories bundles every repository over one connection or transaction.
type Repositories struct {
	db            *gorm.DB
	Users         *UserRepository
	Tasks         *TaskRepository
	Completions   *CompletionRepository
	Tokens        *TokenRepository
	Verifications *VerificationRepository
}

func New(db *gorm.DB) *Repositories {
	return &Repositories{
		db:            db,
		Users:         NewUserRepository(db),
		Tasks:         NewTaskRepository(db),
		Completions:   NewCompletionRepository(db),
		Tokens:        NewTokenRepository(db),
		Verifications: NewVerificationRepository(db),
	}
}

// Transaction runs fn with repositories bound to a single database
// transaction. Any error returned by fn rolls the whole unit back.
func (r *Repositories) Transaction(ctx context.Context, fn func(tx *Repositories) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}
