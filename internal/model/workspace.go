package model

type CreateWorkspaceRequest struct {
	Name                 string `json:"name"`
	SingleTierApproval   bool   `json:"single_tier_approval"`
	RewardStackEnabled   bool   `json:"reward_stack_enabled"`
	RewardStackProgramID string `json:"reward_stack_program_id"`
}

type CreateWorkspaceResponse struct {
	ID string `json:"id"`
}

type JoinWorkspaceRequest struct {
	WorkspaceID string `json:"workspace_id"`
}

type JoinWorkspaceResponse struct{}

type CreateChallengeRequest struct {
	WorkspaceID string `json:"workspace_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	StartsAt    string `json:"starts_at"`
	EndsAt      string `json:"ends_at"`
}

type CreateChallengeResponse struct {
	ID string `json:"id"`
}

type CreateActivityRequest struct {
	ChallengeID  string `json:"challenge_id"`
	Title        string `json:"title"`
	Instructions string `json:"instructions"`
	RewardType   string `json:"reward_type"`
	RewardAmount int64  `json:"reward_amount"`
	SkuID        string `json:"sku_id"`
}

type CreateActivityResponse struct {
	ID string `json:"id"`
}

type AssignChallengeRequest struct {
	ChallengeID string `json:"challenge_id"`
	UserID      string `json:"user_id"`
}

type AssignChallengeResponse struct{}
