package repository

import (
	"context"

	"github.com/changemaker-lab/backend/internal/entity"
	"github.com/changemaker-lab/backend/pkg/xcontext"
)

type ActivityRepository interface {
	Create(ctx context.Context, data *entity.Activity) error
	GetByID(ctx context.Context, id string) (*entity.Activity, error)
	GetByChallengeID(ctx context.Context, challengeID string) ([]entity.Activity, error)
}

type activityRepository struct{}

func NewActivityRepository() *activityRepository {
	return &activityRepository{}
}

func (r *activityRepository) Create(ctx context.Context, data *entity.Activity) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *activityRepository) GetByID(ctx context.Context, id string) (*entity.Activity, error) {
	var record entity.Activity
	if err := xcontext.DB(ctx).Take(&record, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *activityRepository) GetByChallengeID(ctx context.Context, challengeID string) ([]entity.Activity, error) {
	var records []entity.Activity
	if err := xcontext.DB(ctx).Find(&records, "challenge_id=?", challengeID).Error; err != nil {
		return nil, err
	}

	return records, nil
}
