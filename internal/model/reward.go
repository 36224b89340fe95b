package model

type RewardIssuance struct {
	ID           string `json:"id"`
	UserID       string `json:"user_id"`
	WorkspaceID  string `json:"workspace_id"`
	ChallengeID  string `json:"challenge_id,omitempty"`
	SubmissionID string `json:"submission_id,omitempty"`

	Type   string `json:"type"`
	Amount int64  `json:"amount"`
	SkuID  string `json:"sku_id,omitempty"`

	Status                   string `json:"status"`
	RewardStackStatus        string `json:"reward_stack_status,omitempty"`
	RewardStackTransactionID string `json:"reward_stack_transaction_id,omitempty"`
	RewardStackAdjustmentID  string `json:"reward_stack_adjustment_id,omitempty"`
	RewardStackErrorMessage  string `json:"reward_stack_error_message,omitempty"`

	RetryCount int    `json:"retry_count"`
	CreatedAt  string `json:"created_at"`
	IssuedAt   string `json:"issued_at,omitempty"`
}

type RetryRewardIssuanceRequest struct {
	ID string `json:"id"`
}

type RetryRewardIssuanceResponse struct {
	Status string `json:"status"`
}

type CancelRewardIssuanceRequest struct {
	ID string `json:"id"`
}

type CancelRewardIssuanceResponse struct{}

type GetRewardIssuancesRequest struct {
	WorkspaceID string `json:"workspace_id" form:"workspace_id"`
	UserID      string `json:"user_id" form:"user_id"`
	Status      string `json:"status" form:"status"`

	Offset int `json:"offset" form:"offset"`
	Limit  int `json:"limit" form:"limit"`
}

type GetRewardIssuancesResponse struct {
	RewardIssuances []RewardIssuance `json:"reward_issuances"`
}

type GetMyRewardIssuancesRequest struct {
	WorkspaceID string `json:"workspace_id" form:"workspace_id"`

	Offset int `json:"offset" form:"offset"`
	Limit  int `json:"limit" form:"limit"`
}

type GetMyRewardIssuancesResponse struct {
	RewardIssuances []RewardIssuance `json:"reward_issuances"`
}
