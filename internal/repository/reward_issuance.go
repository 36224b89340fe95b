package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/changemaker-lab/backend/internal/entity"
	"github.com/changemaker-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type RewardIssuanceFilter struct {
	WorkspaceID string
	UserID      string
	Status      []entity.RewardIssuanceStatus
	Type        []entity.RewardType
}

type RewardIssuanceRepository interface {
	Create(ctx context.Context, data *entity.RewardIssuance) error
	GetByID(ctx context.Context, id string) (*entity.RewardIssuance, error)
	GetBySubmissionID(ctx context.Context, submissionID string) (*entity.RewardIssuance, error)
	GetList(ctx context.Context, filter *RewardIssuanceFilter, offset, limit int) ([]entity.RewardIssuance, error)
	GetFailedByUserID(ctx context.Context, userID string, types []entity.RewardType) ([]entity.RewardIssuance, error)
	Claim(ctx context.Context, id string) (bool, error)
	MarkIssued(ctx context.Context, id string, data *entity.RewardIssuance) (bool, error)
	MarkFailed(ctx context.Context, id, message string) (bool, error)
	ResetForRetry(ctx context.Context, id string, maxRetry int) (bool, error)
	Cancel(ctx context.Context, id string) (bool, error)
}

type rewardIssuanceRepository struct{}

func NewRewardIssuanceRepository() *rewardIssuanceRepository {
	return &rewardIssuanceRepository{}
}

func (r *rewardIssuanceRepository) Create(ctx context.Context, data *entity.RewardIssuance) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *rewardIssuanceRepository) GetByID(ctx context.Context, id string) (*entity.RewardIssuance, error) {
	var record entity.RewardIssuance
	if err := xcontext.DB(ctx).Take(&record, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *rewardIssuanceRepository) GetBySubmissionID(
	ctx context.Context, submissionID string,
) (*entity.RewardIssuance, error) {
	var record entity.RewardIssuance
	if err := xcontext.DB(ctx).Take(&record, "submission_id=?", submissionID).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *rewardIssuanceRepository) GetList(
	ctx context.Context, filter *RewardIssuanceFilter, offset, limit int,
) ([]entity.RewardIssuance, error) {
	records := []entity.RewardIssuance{}
	tx := xcontext.DB(ctx).
		Offset(offset).
		Limit(limit).
		Order("created_at ASC")

	if filter.WorkspaceID != "" {
		tx = tx.Where("workspace_id = ?", filter.WorkspaceID)
	}

	if filter.UserID != "" {
		tx = tx.Where("user_id = ?", filter.UserID)
	}

	if len(filter.Status) > 0 {
		tx = tx.Where("status IN (?)", filter.Status)
	}

	if len(filter.Type) > 0 {
		tx = tx.Where("type IN (?)", filter.Type)
	}

	if err := tx.Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (r *rewardIssuanceRepository) GetFailedByUserID(
	ctx context.Context, userID string, types []entity.RewardType,
) ([]entity.RewardIssuance, error) {
	records := []entity.RewardIssuance{}
	tx := xcontext.DB(ctx).
		Where("user_id=? AND status=?", userID, entity.IssuanceFailed)

	if len(types) > 0 {
		tx = tx.Where("type IN (?)", types)
	}

	if err := tx.Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

// Claim takes ownership of a pending record for one issuance attempt. The
// conditional update makes the check atomic; a false result means the record
// is terminal or another attempt already owns it.
func (r *rewardIssuanceRepository) Claim(ctx context.Context, id string) (bool, error) {
	result := xcontext.DB(ctx).
		Model(&entity.RewardIssuance{}).
		Where("id=? AND status=? AND claimed_at IS NULL", id, entity.IssuancePending).
		Update("claimed_at", time.Now())
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func (r *rewardIssuanceRepository) MarkIssued(
	ctx context.Context, id string, data *entity.RewardIssuance,
) (bool, error) {
	result := xcontext.DB(ctx).
		Model(&entity.RewardIssuance{}).
		Where("id=? AND status=?", id, entity.IssuancePending).
		Updates(map[string]any{
			"status":                      entity.IssuanceIssued,
			"reward_stack_status":         data.RewardStackStatus,
			"reward_stack_transaction_id": data.RewardStackTransactionID,
			"reward_stack_adjustment_id":  data.RewardStackAdjustmentID,
			"reward_stack_error_message":  sql.NullString{},
			"claimed_at":                  sql.NullTime{},
			"issued_at":                   time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func (r *rewardIssuanceRepository) MarkFailed(ctx context.Context, id, message string) (bool, error) {
	result := xcontext.DB(ctx).
		Model(&entity.RewardIssuance{}).
		Where("id=? AND status=?", id, entity.IssuancePending).
		Updates(map[string]any{
			"status":                     entity.IssuanceFailed,
			"reward_stack_error_message": message,
			"claimed_at":                 sql.NullTime{},
		})
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// ResetForRetry moves a failed record back to pending, clearing the error
// and the claim. The retry counter bounds how often a record can cycle
// through failed and pending.
func (r *rewardIssuanceRepository) ResetForRetry(ctx context.Context, id string, maxRetry int) (bool, error) {
	// Unclaimed pending records are included so an issuance whose queue
	// dispatch was lost can be rescheduled by hand.
	statuses := []entity.RewardIssuanceStatus{entity.IssuancePending, entity.IssuanceFailed}
	result := xcontext.DB(ctx).
		Model(&entity.RewardIssuance{}).
		Where("id=? AND status IN (?) AND claimed_at IS NULL AND retry_count < ?",
			id, statuses, maxRetry).
		Updates(map[string]any{
			"status":                     entity.IssuancePending,
			"reward_stack_error_message": sql.NullString{},
			"claimed_at":                 sql.NullTime{},
			"retry_count":                gorm.Expr("retry_count + 1"),
		})
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func (r *rewardIssuanceRepository) Cancel(ctx context.Context, id string) (bool, error) {
	statuses := []entity.RewardIssuanceStatus{entity.IssuancePending, entity.IssuanceFailed}
	result := xcontext.DB(ctx).
		Model(&entity.RewardIssuance{}).
		Where("id=? AND status IN (?) AND claimed_at IS NULL", id, statuses).
		Update("status", entity.IssuanceCancelled)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}
