package constants

type TaskStatus string

const (
	TaskStatusActive    TaskStatus = "active"
	TaskStatusPaused    TaskStatus = "paused"
	TaskStatusCompleted TaskStatus = "completed"
)

func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusActive, TaskStatusPaused, TaskStatusCompleted:
		return true
	}
	return false
}

type CompletionStatus string

const (
	CompletionPending  CompletionStatus = "pending"
	CompletionApproved CompletionStatus = "approved"
	CompletionRejected CompletionStatus = "rejected"
)

func (s CompletionStatus) IsValid() bool {
	switch s {
	case CompletionPending, CompletionApproved, CompletionRejected:
		return true
	}
	return false
}
