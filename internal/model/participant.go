package model

type UpdateProfileRequest struct {
	Name         *string `json:"name"`
	AddressLine1 *string `json:"address_line1"`
	AddressLine2 *string `json:"address_line2"`
	City         *string `json:"city"`
	State        *string `json:"state"`
	ZipCode      *string `json:"zip_code"`
	Country      *string `json:"country"`
	Phone        *string `json:"phone"`
}

type UpdateProfileResponse struct {
	// ScheduledRetries counts the failed reward issuances queued for a new
	// attempt because of this address change. The retries themselves run in
	// the background.
	ScheduledRetries int `json:"scheduled_retries"`
}

type SyncRewardStackParticipantRequest struct {
	UserID      string `json:"user_id"`
	WorkspaceID string `json:"workspace_id"`
}

type SyncRewardStackParticipantResponse struct {
	ParticipantID string `json:"participant_id"`
	SyncStatus    string `json:"sync_status"`
}

type GetRewardStackStatusRequest struct {
	UserID      string `json:"user_id" form:"user_id"`
	WorkspaceID string `json:"workspace_id" form:"workspace_id"`
}

type GetRewardStackStatusResponse struct {
	ParticipantID string `json:"participant_id,omitempty"`
	SyncStatus    string `json:"sync_status"`
	LastSync      string `json:"last_sync,omitempty"`

	RewardIssuances []RewardIssuance `json:"reward_issuances"`
}
