package task

// ExecuteRewardIssuance runs the reward issuance transaction for one
// RewardIssuance record.
const ExecuteRewardIssuance = "reward:execute_issuance"

type ExecuteRewardIssuancePayload struct {
	IssuanceID string `json:"issuance_id"`
}
