package domain

import (
	"context"
	"errors"
	"time"

	"github.com/changemaker-lab/backend/internal/common"
	"github.com/changemaker-lab/backend/internal/entity"
	"github.com/changemaker-lab/backend/internal/model"
	"github.com/changemaker-lab/backend/internal/repository"
	"github.com/changemaker-lab/backend/pkg/api/rewardstack"
	"github.com/changemaker-lab/backend/pkg/errorx"
	"github.com/changemaker-lab/backend/pkg/task"
	"github.com/changemaker-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type ParticipantDomain interface {
	UpdateProfile(ctx context.Context, req *model.UpdateProfileRequest) (*model.UpdateProfileResponse, error)
	SyncRewardStack(ctx context.Context, req *model.SyncRewardStackParticipantRequest) (*model.SyncRewardStackParticipantResponse, error)
	GetRewardStackStatus(ctx context.Context, req *model.GetRewardStackStatusRequest) (*model.GetRewardStackStatusResponse, error)
}

type participantDomain struct {
	userRepo           repository.UserRepository
	workspaceRepo      repository.WorkspaceRepository
	rewardIssuanceRepo repository.RewardIssuanceRepository
	globalRoleVerifier *common.GlobalRoleVerifier
	rewardStack        rewardstack.IEndpoint
	dispatcher         task.Dispatcher
}

func NewParticipantDomain(
	userRepo repository.UserRepository,
	workspaceRepo repository.WorkspaceRepository,
	rewardIssuanceRepo repository.RewardIssuanceRepository,
	rewardStack rewardstack.IEndpoint,
	dispatcher task.Dispatcher,
) *participantDomain {
	return &participantDomain{
		userRepo:           userRepo,
		workspaceRepo:      workspaceRepo,
		rewardIssuanceRepo: rewardIssuanceRepo,
		globalRoleVerifier: common.NewGlobalRoleVerifier(userRepo),
		rewardStack:        rewardStack,
		dispatcher:         dispatcher,
	}
}

func (d *participantDomain) UpdateProfile(
	ctx context.Context, req *model.UpdateProfileRequest,
) (*model.UpdateProfileResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	data := &entity.User{}
	addressChanged := false
	if req.Name != nil {
		data.Name = *req.Name
	}

	if req.AddressLine1 != nil {
		data.AddressLine1 = *req.AddressLine1
		addressChanged = true
	}

	if req.AddressLine2 != nil {
		data.AddressLine2 = *req.AddressLine2
		addressChanged = true
	}

	if req.City != nil {
		data.City = *req.City
		addressChanged = true
	}

	if req.State != nil {
		data.State = *req.State
		addressChanged = true
	}

	if req.ZipCode != nil {
		data.ZipCode = *req.ZipCode
		addressChanged = true
	}

	if req.Country != nil {
		data.Country = *req.Country
		addressChanged = true
	}

	if req.Phone != nil {
		data.Phone = *req.Phone
		addressChanged = true
	}

	if err := d.userRepo.UpdateByID(ctx, userID, data); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update user: %v", err)
		return nil, errorx.Unknown
	}

	if !addressChanged {
		return &model.UpdateProfileResponse{}, nil
	}

	// A corrected address may unblock physical rewards that failed on it.
	// Only issuances whose recorded error points at the address are retried.
	failed, err := d.rewardIssuanceRepo.GetFailedByUserID(
		ctx, userID, []entity.RewardType{entity.SkuReward})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get failed reward issuances: %v", err)
		return nil, errorx.Unknown
	}

	maxRetry := xcontext.Configs(ctx).RewardStack.MaxRetry
	scheduled := 0
	for i := range failed {
		issuance := &failed[i]
		if !issuance.RewardStackErrorMessage.Valid {
			continue
		}

		if !common.IsAddressRelatedError(issuance.RewardStackErrorMessage.String) {
			continue
		}

		reset, err := d.rewardIssuanceRepo.ResetForRetry(ctx, issuance.ID, maxRetry)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot reset reward issuance %s: %v", issuance.ID, err)
			continue
		}

		if !reset {
			continue
		}

		if err := d.dispatcher.Dispatch(ctx, task.ExecuteRewardIssuance,
			task.ExecuteRewardIssuancePayload{IssuanceID: issuance.ID}); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot dispatch reward issuance %s: %v", issuance.ID, err)
			continue
		}

		scheduled++
	}

	return &model.UpdateProfileResponse{ScheduledRetries: scheduled}, nil
}

func (d *participantDomain) SyncRewardStack(
	ctx context.Context, req *model.SyncRewardStackParticipantRequest,
) (*model.SyncRewardStackParticipantResponse, error) {
	if req.UserID == "" || req.WorkspaceID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty user id or workspace id")
	}

	if err := d.globalRoleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	user, err := d.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	workspace, err := d.workspaceRepo.GetByID(ctx, req.WorkspaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found workspace")
		}

		xcontext.Logger(ctx).Errorf("Cannot get workspace: %v", err)
		return nil, errorx.Unknown
	}

	participantID, err := common.SyncRewardStackParticipant(
		ctx, d.userRepo, d.rewardStack, user, workspace)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot sync participant: %v", err)
		return nil, errorx.New(errorx.ProviderUnavailable,
			"Cannot sync participant: %s", providerMessage(err))
	}

	return &model.SyncRewardStackParticipantResponse{
		ParticipantID: participantID,
		SyncStatus:    string(entity.Synced),
	}, nil
}

func (d *participantDomain) GetRewardStackStatus(
	ctx context.Context, req *model.GetRewardStackStatusRequest,
) (*model.GetRewardStackStatusResponse, error) {
	userID := req.UserID
	if userID == "" {
		userID = xcontext.RequestUserID(ctx)
	}

	if userID != xcontext.RequestUserID(ctx) {
		if err := d.globalRoleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
			xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
			return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
		}
	}

	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	issuances, err := d.rewardIssuanceRepo.GetList(ctx, &repository.RewardIssuanceFilter{
		WorkspaceID: req.WorkspaceID,
		UserID:      userID,
	}, 0, xcontext.Configs(ctx).ApiServer.MaxLimit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get list reward issuance: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetRewardStackStatusResponse{
		SyncStatus:      string(user.RewardStackSyncStatus),
		RewardIssuances: []model.RewardIssuance{},
	}

	if user.RewardStackParticipantID.Valid {
		resp.ParticipantID = user.RewardStackParticipantID.String
	}

	if user.RewardStackLastSync.Valid {
		resp.LastSync = user.RewardStackLastSync.Time.Format(time.RFC3339Nano)
	}

	for i := range issuances {
		resp.RewardIssuances = append(resp.RewardIssuances, convertRewardIssuance(&issuances[i]))
	}

	return resp, nil
}
