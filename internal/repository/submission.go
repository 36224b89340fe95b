package repository

import (
	"context"
	"time"

	"github.com/changemaker-lab/backend/internal/entity"
	"github.com/changemaker-lab/backend/pkg/xcontext"
)

type SubmissionFilter struct {
	WorkspaceID string
	ChallengeID string
	ActivityID  string
	UserID      string
	Status      []entity.SubmissionStatus
}

type SubmissionRepository interface {
	Create(ctx context.Context, data *entity.Submission) error
	GetByID(ctx context.Context, id string) (*entity.Submission, error)
	GetList(ctx context.Context, filter *SubmissionFilter, offset, limit int) ([]entity.Submission, error)
	UpdateReview(
		ctx context.Context, id string,
		fromStatus entity.SubmissionStatus,
		data *entity.Submission,
	) (bool, error)
}

type submissionRepository struct{}

func NewSubmissionRepository() *submissionRepository {
	return &submissionRepository{}
}

func (r *submissionRepository) Create(ctx context.Context, data *entity.Submission) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *submissionRepository) GetByID(ctx context.Context, id string) (*entity.Submission, error) {
	var record entity.Submission
	if err := xcontext.DB(ctx).Take(&record, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *submissionRepository) GetList(
	ctx context.Context, filter *SubmissionFilter, offset, limit int,
) ([]entity.Submission, error) {
	records := []entity.Submission{}
	tx := xcontext.DB(ctx).
		Joins("join activities on activities.id = submissions.activity_id").
		Joins("join challenges on challenges.id = activities.challenge_id").
		Offset(offset).
		Limit(limit).
		Order("submissions.created_at ASC")

	if filter.WorkspaceID != "" {
		tx = tx.Where("challenges.workspace_id = ?", filter.WorkspaceID)
	}

	if filter.ChallengeID != "" {
		tx = tx.Where("activities.challenge_id = ?", filter.ChallengeID)
	}

	if filter.ActivityID != "" {
		tx = tx.Where("submissions.activity_id = ?", filter.ActivityID)
	}

	if filter.UserID != "" {
		tx = tx.Where("submissions.user_id = ?", filter.UserID)
	}

	if len(filter.Status) > 0 {
		tx = tx.Where("submissions.status IN (?)", filter.Status)
	}

	if err := tx.Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

// UpdateReview applies a review transition conditionally on the submission
// still being in fromStatus. It reports whether the row was updated; false
// means another reviewer already moved it.
func (r *submissionRepository) UpdateReview(
	ctx context.Context, id string,
	fromStatus entity.SubmissionStatus,
	data *entity.Submission,
) (bool, error) {
	result := xcontext.DB(ctx).
		Model(&entity.Submission{}).
		Where("id=? AND status=?", id, fromStatus).
		Updates(map[string]any{
			"status":       data.Status,
			"reviewer_id":  data.ReviewerID,
			"reviewed_at":  time.Now(),
			"review_notes": data.ReviewNotes,
		})
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}
