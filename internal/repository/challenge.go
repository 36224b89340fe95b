package repository

import (
	"context"

	"github.com/changemaker-lab/backend/internal/entity"
	"github.com/changemaker-lab/backend/pkg/xcontext"
)

type ChallengeRepository interface {
	Create(ctx context.Context, data *entity.Challenge) error
	GetByID(ctx context.Context, id string) (*entity.Challenge, error)
	GetByWorkspaceID(ctx context.Context, workspaceID string) ([]entity.Challenge, error)
}

type challengeRepository struct{}

func NewChallengeRepository() *challengeRepository {
	return &challengeRepository{}
}

func (r *challengeRepository) Create(ctx context.Context, data *entity.Challenge) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *challengeRepository) GetByID(ctx context.Context, id string) (*entity.Challenge, error) {
	var record entity.Challenge
	if err := xcontext.DB(ctx).Take(&record, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *challengeRepository) GetByWorkspaceID(ctx context.Context, workspaceID string) ([]entity.Challenge, error) {
	var records []entity.Challenge
	if err := xcontext.DB(ctx).Find(&records, "workspace_id=?", workspaceID).Error; err != nil {
		return nil, err
	}

	return records, nil
}
