package repository

import (
	"context"

	"github.com/changemaker-lab/backend/internal/entity"
	"github.com/changemaker-lab/backend/pkg/xcontext"
)

type ChallengeAssignmentRepository interface {
	Create(ctx context.Context, data *entity.ChallengeAssignment) error
	Get(ctx context.Context, userID, challengeID string) (*entity.ChallengeAssignment, error)
	GetByUserID(ctx context.Context, userID string) ([]entity.ChallengeAssignment, error)
}

type challengeAssignmentRepository struct{}

func NewChallengeAssignmentRepository() *challengeAssignmentRepository {
	return &challengeAssignmentRepository{}
}

func (r *challengeAssignmentRepository) Create(ctx context.Context, data *entity.ChallengeAssignment) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *challengeAssignmentRepository) Get(
	ctx context.Context, userID, challengeID string,
) (*entity.ChallengeAssignment, error) {
	var record entity.ChallengeAssignment
	err := xcontext.DB(ctx).
		Take(&record, "user_id=? AND challenge_id=?", userID, challengeID).Error
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *challengeAssignmentRepository) GetByUserID(
	ctx context.Context, userID string,
) ([]entity.ChallengeAssignment, error) {
	var records []entity.ChallengeAssignment
	if err := xcontext.DB(ctx).Find(&records, "user_id=?", userID).Error; err != nil {
		return nil, err
	}

	return records, nil
}
