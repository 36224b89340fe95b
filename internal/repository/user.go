package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/changemaker-lab/backend/internal/entity"
	"github.com/changemaker-lab/backend/pkg/xcontext"
)

type UserRepository interface {
	Create(ctx context.Context, data *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdateByID(ctx context.Context, id string, data *entity.User) error
	UpdateRewardStackSync(
		ctx context.Context, id string,
		participantID sql.NullString,
		status entity.RewardStackSyncStatus,
		lastSync time.Time,
	) error
}

type userRepository struct{}

func NewUserRepository() *userRepository {
	return &userRepository{}
}

func (r *userRepository) Create(ctx context.Context, data *entity.User) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var record entity.User
	if err := xcontext.DB(ctx).Take(&record, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var record entity.User
	if err := xcontext.DB(ctx).Take(&record, "email=?", email).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *userRepository) UpdateByID(ctx context.Context, id string, data *entity.User) error {
	updateMap := map[string]any{}
	if data.Name != "" {
		updateMap["name"] = data.Name
	}

	if data.AddressLine1 != "" {
		updateMap["address_line1"] = data.AddressLine1
	}

	if data.AddressLine2 != "" {
		updateMap["address_line2"] = data.AddressLine2
	}

	if data.City != "" {
		updateMap["city"] = data.City
	}

	if data.State != "" {
		updateMap["state"] = data.State
	}

	if data.ZipCode != "" {
		updateMap["zip_code"] = data.ZipCode
	}

	if data.Country != "" {
		updateMap["country"] = data.Country
	}

	if data.Phone != "" {
		updateMap["phone"] = data.Phone
	}

	if len(updateMap) == 0 {
		return nil
	}

	return xcontext.DB(ctx).Model(&entity.User{}).Where("id=?", id).Updates(updateMap).Error
}

func (r *userRepository) UpdateRewardStackSync(
	ctx context.Context, id string,
	participantID sql.NullString,
	status entity.RewardStackSyncStatus,
	lastSync time.Time,
) error {
	return xcontext.DB(ctx).Model(&entity.User{}).Where("id=?", id).Updates(map[string]any{
		"reward_stack_participant_id": participantID,
		"reward_stack_sync_status":    status,
		"reward_stack_last_sync":      lastSync,
	}).Error
}
