package domain

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/changemaker-lab/backend/internal/common"
	"github.com/changemaker-lab/backend/internal/entity"
	"github.com/changemaker-lab/backend/internal/model"
	"github.com/changemaker-lab/backend/internal/repository"
	"github.com/changemaker-lab/backend/pkg/enum"
	"github.com/changemaker-lab/backend/pkg/errorx"
	"github.com/changemaker-lab/backend/pkg/xcontext"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WorkspaceDomain interface {
	Create(ctx context.Context, req *model.CreateWorkspaceRequest) (*model.CreateWorkspaceResponse, error)
	Join(ctx context.Context, req *model.JoinWorkspaceRequest) (*model.JoinWorkspaceResponse, error)
	CreateChallenge(ctx context.Context, req *model.CreateChallengeRequest) (*model.CreateChallengeResponse, error)
	CreateActivity(ctx context.Context, req *model.CreateActivityRequest) (*model.CreateActivityResponse, error)
	AssignChallenge(ctx context.Context, req *model.AssignChallengeRequest) (*model.AssignChallengeResponse, error)
}

type workspaceDomain struct {
	workspaceRepo           repository.WorkspaceRepository
	memberRepo              repository.MemberRepository
	challengeRepo           repository.ChallengeRepository
	activityRepo            repository.ActivityRepository
	challengeAssignmentRepo repository.ChallengeAssignmentRepository
	roleVerifier            *common.WorkspaceRoleVerifier
}

func NewWorkspaceDomain(
	workspaceRepo repository.WorkspaceRepository,
	memberRepo repository.MemberRepository,
	challengeRepo repository.ChallengeRepository,
	activityRepo repository.ActivityRepository,
	challengeAssignmentRepo repository.ChallengeAssignmentRepository,
	userRepo repository.UserRepository,
) *workspaceDomain {
	return &workspaceDomain{
		workspaceRepo:           workspaceRepo,
		memberRepo:              memberRepo,
		challengeRepo:           challengeRepo,
		activityRepo:            activityRepo,
		challengeAssignmentRepo: challengeAssignmentRepo,
		roleVerifier:            common.NewWorkspaceRoleVerifier(memberRepo, userRepo),
	}
}

func (d *workspaceDomain) Create(
	ctx context.Context, req *model.CreateWorkspaceRequest,
) (*model.CreateWorkspaceResponse, error) {
	if req.Name == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty name")
	}

	if req.RewardStackEnabled && req.RewardStackProgramID == "" {
		return nil, errorx.New(errorx.BadRequest,
			"RewardSTACK needs a program id to be enabled")
	}

	userID := xcontext.RequestUserID(ctx)
	workspace := &entity.Workspace{
		Base:                 entity.Base{ID: uuid.NewString()},
		Name:                 req.Name,
		CreatedBy:            userID,
		SingleTierApproval:   req.SingleTierApproval,
		RewardStackEnabled:   req.RewardStackEnabled,
		RewardStackProgramID: req.RewardStackProgramID,
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.workspaceRepo.Create(ctx, workspace); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create workspace: %v", err)
		return nil, errorx.New(errorx.AlreadyExists, "Duplicated workspace name")
	}

	// The creator administers their own workspace.
	if err := d.memberRepo.Create(ctx, &entity.Member{
		UserID:      userID,
		WorkspaceID: workspace.ID,
		Role:        entity.MemberAdmin,
	}); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create member: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	return &model.CreateWorkspaceResponse{ID: workspace.ID}, nil
}

func (d *workspaceDomain) Join(
	ctx context.Context, req *model.JoinWorkspaceRequest,
) (*model.JoinWorkspaceResponse, error) {
	if req.WorkspaceID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty workspace id")
	}

	if _, err := d.workspaceRepo.GetByID(ctx, req.WorkspaceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found workspace")
		}

		xcontext.Logger(ctx).Errorf("Cannot get workspace: %v", err)
		return nil, errorx.Unknown
	}

	userID := xcontext.RequestUserID(ctx)
	if _, err := d.memberRepo.Get(ctx, userID, req.WorkspaceID); err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "Already a member of this workspace")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get member: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.memberRepo.Create(ctx, &entity.Member{
		UserID:      userID,
		WorkspaceID: req.WorkspaceID,
		Role:        entity.MemberParticipant,
	}); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create member: %v", err)
		return nil, errorx.Unknown
	}

	return &model.JoinWorkspaceResponse{}, nil
}

func (d *workspaceDomain) CreateChallenge(
	ctx context.Context, req *model.CreateChallengeRequest,
) (*model.CreateChallengeResponse, error) {
	if req.WorkspaceID == "" || req.Title == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty workspace id or title")
	}

	if err := d.roleVerifier.Verify(ctx, req.WorkspaceID, entity.MemberAdmin); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	startsAt, err := parseNullTime(req.StartsAt)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid starts_at")
	}

	endsAt, err := parseNullTime(req.EndsAt)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid ends_at")
	}

	if startsAt.Valid && endsAt.Valid && endsAt.Time.Before(startsAt.Time) {
		return nil, errorx.New(errorx.BadRequest, "ends_at must be after starts_at")
	}

	challenge := &entity.Challenge{
		Base:        entity.Base{ID: uuid.NewString()},
		WorkspaceID: req.WorkspaceID,
		Title:       req.Title,
		Description: req.Description,
		CreatedBy:   xcontext.RequestUserID(ctx),
		StartsAt:    startsAt,
		EndsAt:      endsAt,
	}

	if err := d.challengeRepo.Create(ctx, challenge); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create challenge: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateChallengeResponse{ID: challenge.ID}, nil
}

func (d *workspaceDomain) CreateActivity(
	ctx context.Context, req *model.CreateActivityRequest,
) (*model.CreateActivityResponse, error) {
	if req.ChallengeID == "" || req.Title == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty challenge id or title")
	}

	challenge, err := d.challengeRepo.GetByID(ctx, req.ChallengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found challenge")
		}

		xcontext.Logger(ctx).Errorf("Cannot get challenge: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.roleVerifier.Verify(ctx, challenge.WorkspaceID, entity.MemberAdmin); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	activity := &entity.Activity{
		Base:         entity.Base{ID: uuid.NewString()},
		ChallengeID:  challenge.ID,
		Title:        req.Title,
		Instructions: req.Instructions,
	}

	if req.RewardType != "" {
		rewardType, err := enum.ToEnum[entity.RewardType](req.RewardType)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid reward type")
		}

		if req.RewardAmount <= 0 {
			return nil, errorx.New(errorx.BadRequest, "Reward amount must be positive")
		}

		if rewardType == entity.SkuReward && req.SkuID == "" {
			return nil, errorx.New(errorx.BadRequest, "SKU reward needs a sku id")
		}

		activity.RewardType = rewardType
		activity.RewardAmount = req.RewardAmount
		activity.SkuID = nullString(req.SkuID)
	}

	if err := d.activityRepo.Create(ctx, activity); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create activity: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateActivityResponse{ID: activity.ID}, nil
}

func (d *workspaceDomain) AssignChallenge(
	ctx context.Context, req *model.AssignChallengeRequest,
) (*model.AssignChallengeResponse, error) {
	if req.ChallengeID == "" || req.UserID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty challenge id or user id")
	}

	challenge, err := d.challengeRepo.GetByID(ctx, req.ChallengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found challenge")
		}

		xcontext.Logger(ctx).Errorf("Cannot get challenge: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.roleVerifier.Verify(ctx, challenge.WorkspaceID, entity.MemberAdmin); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	member, err := d.memberRepo.Get(ctx, req.UserID, challenge.WorkspaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "User is not a member of this workspace")
		}

		xcontext.Logger(ctx).Errorf("Cannot get member: %v", err)
		return nil, errorx.Unknown
	}

	if member.Role != entity.MemberManager {
		return nil, errorx.New(errorx.BadRequest, "Only managers can be assigned to challenges")
	}

	if _, err := d.challengeAssignmentRepo.Get(ctx, req.UserID, challenge.ID); err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "Challenge is already assigned to this user")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get challenge assignment: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.challengeAssignmentRepo.Create(ctx, &entity.ChallengeAssignment{
		UserID:      req.UserID,
		ChallengeID: challenge.ID,
		WorkspaceID: challenge.WorkspaceID,
	}); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create challenge assignment: %v", err)
		return nil, errorx.Unknown
	}

	return &model.AssignChallengeResponse{}, nil
}

func parseNullTime(s string) (sql.NullTime, error) {
	if s == "" {
		return sql.NullTime{}, nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return sql.NullTime{}, err
	}

	return sql.NullTime{Valid: true, Time: t}, nil
}
