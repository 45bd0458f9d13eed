package dto

type RegisterUserRequest struct {
	Username string `json:"username"`
}

type CreateTaskRequest struct {
	Title          string `json:"title"`
	Platform       string `json:"platform"`
	ActionType     string `json:"action_type"`
	Link           string `json:"link"`
	Reward         int64  `json:"reward"`
	MaxCompletions int64  `json:"max_completions"`
}

type UpdateTaskStatusRequest struct {
	Status string `json:"status"`
}

type RegisterTokenRequest struct {
	Token string `json:"token"`
}

type SubmitCompletionRequest struct {
	ProofURL string `json:"proof_url"`
	Token    string `json:"token"`
}

type CreateVerificationRequest struct {
	Platform           string `json:"platform"`
	PlatformUsername   string `json:"platform_username"`
	VerificationPhrase string `json:"verification_phrase"`
}
