package constants

// Posting limits for a single task. Their product keeps a task budget far
// inside the int64 range.
const (
	MaxTaskReward      int64 = 1_000_000
	MaxTaskCompletions int64 = 100_000
)
