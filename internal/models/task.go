package model

import (
	"time"

	"promote-social.com/promote-social/internal/constants"
)

type Task struct {
	ID             string               `gorm:"primaryKey;size:36" json:"id"`
	CreatorID      string               `gorm:"size:36;not null;index" json:"creator_id"`
	Title          string               `gorm:"not null" json:"title"`
	Platform       constants.Platform   `gorm:"type:varchar(20);not null;index" json:"platform"`
	ActionType     constants.ActionType `gorm:"type:varchar(20);not null" json:"action_type"`
	Link           string               `gorm:"not null" json:"link"`
	Reward         int64                `gorm:"not null" json:"reward"`
	MaxCompletions int64                `gorm:"not null" json:"max_completions"`
	CompletedCount int64                `gorm:"not null;default:0" json:"completed_count"`
	Status         constants.TaskStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	CreatedAt      time.Time            `json:"created_at"`
}

// Budget is the number of points reserved for the task when it is posted.
func (t *Task) Budget() int64 {
	return t.Reward * t.MaxCompletions
}

func (t *Task) RemainingCompletions() int64 {
	if t.CompletedCount >= t.MaxCompletions {
		return 0
	}
	return t.MaxCompletions - t.CompletedCount
}
