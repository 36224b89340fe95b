package repository

import (
	"context"

	"github.com/changemaker-lab/backend/internal/entity"
	"github.com/changemaker-lab/backend/pkg/xcontext"
)

type MemberRepository interface {
	Create(ctx context.Context, data *entity.Member) error
	Get(ctx context.Context, userID, workspaceID string) (*entity.Member, error)
	GetByWorkspaceID(ctx context.Context, workspaceID string) ([]entity.Member, error)
}

type memberRepository struct{}

func NewMemberRepository() *memberRepository {
	return &memberRepository{}
}

func (r *memberRepository) Create(ctx context.Context, data *entity.Member) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *memberRepository) Get(ctx context.Context, userID, workspaceID string) (*entity.Member, error) {
	var record entity.Member
	err := xcontext.DB(ctx).
		Take(&record, "user_id=? AND workspace_id=?", userID, workspaceID).Error
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *memberRepository) GetByWorkspaceID(ctx context.Context, workspaceID string) ([]entity.Member, error) {
	var records []entity.Member
	if err := xcontext.DB(ctx).Find(&records, "workspace_id=?", workspaceID).Error; err != nil {
		return nil, err
	}

	return records, nil
}
