package model

import (
	"time"

	"promote-social.com/promote-social/internal/constants"
)

type TaskCompletion struct {
	ID        string                     `gorm:"primaryKey;size:36" json:"id"`
	TaskID    string                     `gorm:"size:36;not null;index" json:"task_id"`
	UserID    string                     `gorm:"size:36;not null;index" json:"user_id"`
	ProofURL  string                     `json:"proof_url,omitempty"`
	Status    constants.CompletionStatus `gorm:"type:varchar(20);not null" json:"status"`
	CreatedAt time.Time                  `json:"created_at"`
	UpdatedAt time.Time                  `json:"updated_at"`
}

type CompletionToken struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	TaskID    string    `gorm:"size:36;not null;index:idx_completion_tokens_pair" json:"task_id"`
	UserID    string    `gorm:"size:36;not null;index:idx_completion_tokens_pair" json:"user_id"`
	Token     string    `gorm:"size:128;not null" json:"token"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Used      bool      `gorm:"not null;default:false" json:"used"`
	CreatedAt time.Time `json:"created_at"`
}

func (t *CompletionToken) Expired(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}
