package domain

import (
	"context"
	"errors"

	"github.com/changemaker-lab/backend/internal/client"
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

type RewardDomain interface {
	// ExecuteIssuance drives one RewardIssuance record to a terminal state.
	// It is the background task entrypoint: state-machine failures are
	// recorded on the record, never returned. The returned error only
	// signals infrastructure problems worth a queue-level retry.
	ExecuteIssuance(ctx context.Context, issuanceID string) error

	Retry(ctx context.Context, req *model.RetryRewardIssuanceRequest) (*model.RetryRewardIssuanceResponse, error)
	Cancel(ctx context.Context, req *model.CancelRewardIssuanceRequest) (*model.CancelRewardIssuanceResponse, error)
	GetList(ctx context.Context, req *model.GetRewardIssuancesRequest) (*model.GetRewardIssuancesResponse, error)
	GetMyList(ctx context.Context, req *model.GetMyRewardIssuancesRequest) (*model.GetMyRewardIssuancesResponse, error)
}

type rewardDomain struct {
	rewardIssuanceRepo repository.RewardIssuanceRepository
	userRepo           repository.UserRepository
	workspaceRepo      repository.WorkspaceRepository
	roleVerifier       *common.WorkspaceRoleVerifier
	rewardStack        rewardstack.IEndpoint
	emailSender        client.EmailSender
	dispatcher         task.Dispatcher
}

func NewRewardDomain(
	rewardIssuanceRepo repository.RewardIssuanceRepository,
	userRepo repository.UserRepository,
	workspaceRepo repository.WorkspaceRepository,
	memberRepo repository.MemberRepository,
	rewardStack rewardstack.IEndpoint,
	emailSender client.EmailSender,
	dispatcher task.Dispatcher,
) *rewardDomain {
	return &rewardDomain{
		rewardIssuanceRepo: rewardIssuanceRepo,
		userRepo:           userRepo,
		workspaceRepo:      workspaceRepo,
		roleVerifier:       common.NewWorkspaceRoleVerifier(memberRepo, userRepo),
		rewardStack:        rewardStack,
		emailSender:        emailSender,
		dispatcher:         dispatcher,
	}
}

func (d *rewardDomain) ExecuteIssuance(ctx context.Context, issuanceID string) error {
	issuance, err := d.rewardIssuanceRepo.GetByID(ctx, issuanceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Warnf("Not found reward issuance %s", issuanceID)
			return nil
		}

		return err
	}

	if issuance.Status != entity.IssuancePending {
		xcontext.Logger(ctx).Infof(
			"Skip reward issuance %s in status %s", issuance.ID, issuance.Status)
		return nil
	}

	// The claim is a conditional update, so exactly one attempt can own the
	// record. Losing the claim is not an error.
	claimed, err := d.rewardIssuanceRepo.Claim(ctx, issuance.ID)
	if err != nil {
		return err
	}

	if !claimed {
		xcontext.Logger(ctx).Infof(
			"Another attempt already owns reward issuance %s", issuance.ID)
		return nil
	}

	workspace, err := d.workspaceRepo.GetByID(ctx, issuance.WorkspaceID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get workspace: %v", err)
		return d.fail(ctx, issuance.ID, "Workspace is not available")
	}

	if !workspace.RewardStackEnabled || workspace.RewardStackProgramID == "" {
		return d.fail(ctx, issuance.ID, "RewardSTACK is not enabled for this workspace")
	}

	user, err := d.userRepo.GetByID(ctx, issuance.UserID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return d.fail(ctx, issuance.ID, "User is not available")
	}

	// A physical reward cannot be issued without somewhere to ship it. This
	// check short-circuits before any provider call.
	if issuance.Type == entity.SkuReward && !user.HasCompleteAddress() {
		return d.fail(ctx, issuance.ID,
			"Shipping address is incomplete: address, city, state, zip and country are required")
	}

	participantID, err := common.SyncRewardStackParticipant(
		ctx, d.userRepo, d.rewardStack, user, workspace)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot sync participant for issuance %s: %v", issuance.ID, err)
		return d.fail(ctx, issuance.ID, "Participant sync failed: "+providerMessage(err))
	}

	req := rewardstack.CreateTransactionRequest{
		ParticipantID: participantID,
		Type:          string(issuance.Type),
		Amount:        issuance.Amount,
	}

	if issuance.Type == entity.SkuReward {
		req.SkuID = issuance.SkuID.String
		req.Shipping = &rewardstack.ShippingAddress{
			AddressLine1: user.AddressLine1,
			AddressLine2: user.AddressLine2,
			City:         user.City,
			State:        user.State,
			ZipCode:      user.ZipCode,
			Country:      user.Country,
			Phone:        user.Phone,
		}
	}

	cfg := xcontext.Configs(ctx).RewardStack
	callCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	transaction, err := d.rewardStack.CreateTransaction(callCtx, workspace.RewardStackProgramID, req)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Provider call failed for issuance %s: %v", issuance.ID, err)
		return d.fail(ctx, issuance.ID, providerMessage(err))
	}

	updated, err := d.rewardIssuanceRepo.MarkIssued(ctx, issuance.ID, &entity.RewardIssuance{
		RewardStackStatus:        nullString(transaction.Status),
		RewardStackTransactionID: nullString(transaction.TransactionID),
		RewardStackAdjustmentID:  nullString(transaction.AdjustmentID),
	})
	if err != nil {
		return err
	}

	if !updated {
		xcontext.Logger(ctx).Errorf(
			"Reward issuance %s left pending state during the provider call", issuance.ID)
		return nil
	}

	if issuance.Type == entity.SkuReward {
		if err := d.emailSender.SendShippingConfirmation(ctx, user, issuance); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot send shipping confirmation: %v", err)
		}
	}

	return nil
}

func (d *rewardDomain) fail(ctx context.Context, issuanceID, message string) error {
	updated, err := d.rewardIssuanceRepo.MarkFailed(ctx, issuanceID, message)
	if err != nil {
		return err
	}

	if !updated {
		xcontext.Logger(ctx).Errorf(
			"Reward issuance %s left pending state before failure could be recorded", issuanceID)
	}

	return nil
}

func (d *rewardDomain) Retry(
	ctx context.Context, req *model.RetryRewardIssuanceRequest,
) (*model.RetryRewardIssuanceResponse, error) {
	if req.ID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty id")
	}

	issuance, err := d.rewardIssuanceRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found reward issuance")
		}

		xcontext.Logger(ctx).Errorf("Cannot get reward issuance: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.roleVerifier.Verify(ctx, issuance.WorkspaceID, entity.MemberAdmin); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	maxRetry := xcontext.Configs(ctx).RewardStack.MaxRetry
	reset, err := d.rewardIssuanceRepo.ResetForRetry(ctx, issuance.ID, maxRetry)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot reset reward issuance: %v", err)
		return nil, errorx.Unknown
	}

	if !reset {
		if issuance.RetryCount >= maxRetry {
			return nil, errorx.New(errorx.RetryExhausted, "Reward issuance exceeded the retry limit")
		}

		return nil, errorx.New(errorx.Unavailable, "Reward issuance cannot be retried in its current state")
	}

	if err := d.dispatcher.Dispatch(ctx, task.ExecuteRewardIssuance,
		task.ExecuteRewardIssuancePayload{IssuanceID: issuance.ID}); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot dispatch reward issuance: %v", err)
		return nil, errorx.New(errorx.Internal, "Cannot schedule the retry")
	}

	return &model.RetryRewardIssuanceResponse{Status: string(entity.IssuancePending)}, nil
}

func (d *rewardDomain) Cancel(
	ctx context.Context, req *model.CancelRewardIssuanceRequest,
) (*model.CancelRewardIssuanceResponse, error) {
	if req.ID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty id")
	}

	issuance, err := d.rewardIssuanceRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found reward issuance")
		}

		xcontext.Logger(ctx).Errorf("Cannot get reward issuance: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.roleVerifier.Verify(ctx, issuance.WorkspaceID, entity.MemberAdmin); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	cancelled, err := d.rewardIssuanceRepo.Cancel(ctx, issuance.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot cancel reward issuance: %v", err)
		return nil, errorx.Unknown
	}

	if !cancelled {
		return nil, errorx.New(errorx.Unavailable, "Only pending or failed reward issuances can be cancelled")
	}

	return &model.CancelRewardIssuanceResponse{}, nil
}

func (d *rewardDomain) GetList(
	ctx context.Context, req *model.GetRewardIssuancesRequest,
) (*model.GetRewardIssuancesResponse, error) {
	if req.WorkspaceID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty workspace id")
	}

	if err := d.roleVerifier.Verify(ctx, req.WorkspaceID, entity.ReviewRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	offset, limit, err := validateListParams(ctx, req.Offset, req.Limit)
	if err != nil {
		return nil, err
	}

	filter := &repository.RewardIssuanceFilter{
		WorkspaceID: req.WorkspaceID,
		UserID:      req.UserID,
	}

	if req.Status != "" {
		status, err := enumToIssuanceStatus(req.Status)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid status filter")
		}

		filter.Status = []entity.RewardIssuanceStatus{status}
	}

	issuances, err := d.rewardIssuanceRepo.GetList(ctx, filter, offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get list reward issuance: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.RewardIssuance{}
	for i := range issuances {
		result = append(result, convertRewardIssuance(&issuances[i]))
	}

	return &model.GetRewardIssuancesResponse{RewardIssuances: result}, nil
}

func (d *rewardDomain) GetMyList(
	ctx context.Context, req *model.GetMyRewardIssuancesRequest,
) (*model.GetMyRewardIssuancesResponse, error) {
	offset, limit, err := validateListParams(ctx, req.Offset, req.Limit)
	if err != nil {
		return nil, err
	}

	issuances, err := d.rewardIssuanceRepo.GetList(ctx, &repository.RewardIssuanceFilter{
		WorkspaceID: req.WorkspaceID,
		UserID:      xcontext.RequestUserID(ctx),
	}, offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get list reward issuance: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.RewardIssuance{}
	for i := range issuances {
		result = append(result, convertRewardIssuance(&issuances[i]))
	}

	return &model.GetMyRewardIssuancesResponse{RewardIssuances: result}, nil
}
