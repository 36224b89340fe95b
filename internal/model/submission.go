package model

type Submission struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	ActivityID  string `json:"activity_id"`
	Content     string `json:"content"`
	Status      string `json:"status"`
	ReviewerID  string `json:"reviewer_id,omitempty"`
	ReviewedAt  string `json:"reviewed_at,omitempty"`
	ReviewNotes string `json:"review_notes,omitempty"`
	CreatedAt   string `json:"created_at"`
}

type SubmitRequest struct {
	ActivityID string `json:"activity_id"`
	Content    string `json:"content"`
}

type SubmitResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type ReviewSubmissionRequest struct {
	ID     string `json:"id"`
	Action string `json:"action"`
	Notes  string `json:"notes"`
}

type ReviewSubmissionResponse struct {
	Status string `json:"status"`
}

type FinalReviewSubmissionRequest struct {
	ID     string `json:"id"`
	Action string `json:"action"`
	Notes  string `json:"notes"`
}

type FinalReviewSubmissionResponse struct {
	Status string `json:"status"`

	// RewardIssuanceID is set when the approval created a reward record.
	RewardIssuanceID string `json:"reward_issuance_id,omitempty"`
}

type GetSubmissionRequest struct {
	ID string `json:"id" form:"id"`
}

type GetSubmissionResponse Submission

type GetPendingSubmissionsRequest struct {
	WorkspaceID string `json:"workspace_id" form:"workspace_id"`
	ChallengeID string `json:"challenge_id" form:"challenge_id"`

	Offset int `json:"offset" form:"offset"`
	Limit  int `json:"limit" form:"limit"`
}

type GetPendingSubmissionsResponse struct {
	Submissions []Submission `json:"submissions"`
}

type GetMySubmissionsRequest struct {
	WorkspaceID string `json:"workspace_id" form:"workspace_id"`

	Offset int `json:"offset" form:"offset"`
	Limit  int `json:"limit" form:"limit"`
}

type GetMySubmissionsResponse struct {
	Submissions []Submission `json:"submissions"`
}
