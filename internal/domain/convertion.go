package domain

import (
	"time"

	"github.com/changemaker-lab/backend/internal/entity"
	"github.com/changemaker-lab/backend/internal/model"
)

func convertSubmission(submission *entity.Submission) model.Submission {
	result := model.Submission{
		ID:          submission.ID,
		UserID:      submission.UserID,
		ActivityID:  submission.ActivityID,
		Content:     submission.Content,
		Status:      string(submission.Status),
		ReviewNotes: submission.ReviewNotes,
		CreatedAt:   submission.CreatedAt.Format(time.RFC3339Nano),
	}

	if submission.ReviewerID.Valid {
		result.ReviewerID = submission.ReviewerID.String
	}

	if submission.ReviewedAt.Valid {
		result.ReviewedAt = submission.ReviewedAt.Time.Format(time.RFC3339Nano)
	}

	return result
}

func convertRewardIssuance(issuance *entity.RewardIssuance) model.RewardIssuance {
	result := model.RewardIssuance{
		ID:          issuance.ID,
		UserID:      issuance.UserID,
		WorkspaceID: issuance.WorkspaceID,
		Type:        string(issuance.Type),
		Amount:      issuance.Amount,
		Status:      string(issuance.Status),
		RetryCount:  issuance.RetryCount,
		CreatedAt:   issuance.CreatedAt.Format(time.RFC3339Nano),
	}

	if issuance.ChallengeID.Valid {
		result.ChallengeID = issuance.ChallengeID.String
	}

	if issuance.SubmissionID.Valid {
		result.SubmissionID = issuance.SubmissionID.String
	}

	if issuance.SkuID.Valid {
		result.SkuID = issuance.SkuID.String
	}

	if issuance.RewardStackStatus.Valid {
		result.RewardStackStatus = issuance.RewardStackStatus.String
	}

	if issuance.RewardStackTransactionID.Valid {
		result.RewardStackTransactionID = issuance.RewardStackTransactionID.String
	}

	if issuance.RewardStackAdjustmentID.Valid {
		result.RewardStackAdjustmentID = issuance.RewardStackAdjustmentID.String
	}

	if issuance.RewardStackErrorMessage.Valid {
		result.RewardStackErrorMessage = issuance.RewardStackErrorMessage.String
	}

	if issuance.IssuedAt.Valid {
		result.IssuedAt = issuance.IssuedAt.Time.Format(time.RFC3339Nano)
	}

	return result
}
