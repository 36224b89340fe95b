package repository

import (
	"context"

	"github.com/changemaker-lab/backend/internal/entity"
	"github.com/changemaker-lab/backend/pkg/xcontext"
)

type WorkspaceRepository interface {
	Create(ctx context.Context, data *entity.Workspace) error
	GetByID(ctx context.Context, id string) (*entity.Workspace, error)
}

type workspaceRepository struct{}

func NewWorkspaceRepository() *workspaceRepository {
	return &workspaceRepository{}
}

func (r *workspaceRepository) Create(ctx context.Context, data *entity.Workspace) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *workspaceRepository) GetByID(ctx context.Context, id string) (*entity.Workspace, error) {
	var record entity.Workspace
	if err := xcontext.DB(ctx).Take(&record, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &record, nil
}
