package repository

import (
	"context"

	"github.com/changemaker-lab/backend/internal/entity"
	"github.com/changemaker-lab/backend/pkg/xcontext"
)

type EnrollmentRepository interface {
	Create(ctx context.Context, data *entity.Enrollment) error
	Get(ctx context.Context, userID, challengeID string) (*entity.Enrollment, error)
}

type enrollmentRepository struct{}

func NewEnrollmentRepository() *enrollmentRepository {
	return &enrollmentRepository{}
}

func (r *enrollmentRepository) Create(ctx context.Context, data *entity.Enrollment) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *enrollmentRepository) Get(ctx context.Context, userID, challengeID string) (*entity.Enrollment, error) {
	var record entity.Enrollment
	err := xcontext.DB(ctx).
		Take(&record, "user_id=? AND challenge_id=?", userID, challengeID).Error
	if err != nil {
		return nil, err
	}

	return &record, nil
}
