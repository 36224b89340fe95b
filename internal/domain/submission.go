package domain

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/changemaker-lab/backend/internal/common"
	"github.com/changemaker-lab/backend/internal/entity"
	"github.com/changemaker-lab/backend/internal/model"
	"github.com/changemaker-lab/backend/internal/repository"
	"github.com/changemaker-lab/backend/pkg/errorx"
	"github.com/changemaker-lab/backend/pkg/task"
	"github.com/changemaker-lab/backend/pkg/xcontext"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	reviewActionApprove = "approve"
	reviewActionReject  = "reject"
)

type SubmissionDomain interface {
	Submit(ctx context.Context, req *model.SubmitRequest) (*model.SubmitResponse, error)
	Review(ctx context.Context, req *model.ReviewSubmissionRequest) (*model.ReviewSubmissionResponse, error)
	FinalReview(ctx context.Context, req *model.FinalReviewSubmissionRequest) (*model.FinalReviewSubmissionResponse, error)
	Get(ctx context.Context, req *model.GetSubmissionRequest) (*model.GetSubmissionResponse, error)
	GetPending(ctx context.Context, req *model.GetPendingSubmissionsRequest) (*model.GetPendingSubmissionsResponse, error)
	GetMyList(ctx context.Context, req *model.GetMySubmissionsRequest) (*model.GetMySubmissionsResponse, error)
}

type submissionDomain struct {
	submissionRepo          repository.SubmissionRepository
	activityRepo            repository.ActivityRepository
	challengeRepo           repository.ChallengeRepository
	challengeAssignmentRepo repository.ChallengeAssignmentRepository
	enrollmentRepo          repository.EnrollmentRepository
	workspaceRepo           repository.WorkspaceRepository
	rewardIssuanceRepo      repository.RewardIssuanceRepository
	roleVerifier            *common.WorkspaceRoleVerifier
	dispatcher              task.Dispatcher
}

func NewSubmissionDomain(
	submissionRepo repository.SubmissionRepository,
	activityRepo repository.ActivityRepository,
	challengeRepo repository.ChallengeRepository,
	challengeAssignmentRepo repository.ChallengeAssignmentRepository,
	enrollmentRepo repository.EnrollmentRepository,
	workspaceRepo repository.WorkspaceRepository,
	rewardIssuanceRepo repository.RewardIssuanceRepository,
	memberRepo repository.MemberRepository,
	userRepo repository.UserRepository,
	dispatcher task.Dispatcher,
) *submissionDomain {
	return &submissionDomain{
		submissionRepo:          submissionRepo,
		activityRepo:            activityRepo,
		challengeRepo:           challengeRepo,
		challengeAssignmentRepo: challengeAssignmentRepo,
		enrollmentRepo:          enrollmentRepo,
		workspaceRepo:           workspaceRepo,
		rewardIssuanceRepo:      rewardIssuanceRepo,
		roleVerifier:            common.NewWorkspaceRoleVerifier(memberRepo, userRepo),
		dispatcher:              dispatcher,
	}
}

func (d *submissionDomain) Submit(
	ctx context.Context, req *model.SubmitRequest,
) (*model.SubmitResponse, error) {
	if req.ActivityID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty activity id")
	}

	activity, err := d.activityRepo.GetByID(ctx, req.ActivityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found activity")
		}

		xcontext.Logger(ctx).Errorf("Cannot get activity: %v", err)
		return nil, errorx.Unknown
	}

	challenge, err := d.challengeRepo.GetByID(ctx, activity.ChallengeID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get challenge: %v", err)
		return nil, errorx.Unknown
	}

	if !challenge.IsOpen(time.Now()) {
		return nil, errorx.New(errorx.Unavailable, "Challenge is not accepting submissions")
	}

	userID := xcontext.RequestUserID(ctx)
	if _, err := d.roleVerifier.Member(ctx, challenge.WorkspaceID); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	enrollment, err := d.enrollmentRepo.Get(ctx, userID, challenge.ID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get enrollment: %v", err)
			return nil, errorx.Unknown
		}

		// Submitting to a challenge enrolls the user implicitly.
		enrollment = &entity.Enrollment{
			Base:        entity.Base{ID: uuid.NewString()},
			UserID:      userID,
			ChallengeID: challenge.ID,
		}
		if err := d.enrollmentRepo.Create(ctx, enrollment); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create enrollment: %v", err)
			return nil, errorx.Unknown
		}
	}

	submission := &entity.Submission{
		Base:         entity.Base{ID: uuid.NewString()},
		UserID:       userID,
		ActivityID:   activity.ID,
		EnrollmentID: enrollment.ID,
		Content:      req.Content,
		Status:       entity.SubmissionPending,
	}

	if err := d.submissionRepo.Create(ctx, submission); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create submission: %v", err)
		return nil, errorx.Unknown
	}

	return &model.SubmitResponse{
		ID:     submission.ID,
		Status: string(submission.Status),
	}, nil
}

func (d *submissionDomain) Review(
	ctx context.Context, req *model.ReviewSubmissionRequest,
) (*model.ReviewSubmissionResponse, error) {
	submission, challenge, err := d.loadForReview(ctx, req.ID, req.Action)
	if err != nil {
		return nil, err
	}

	member, err := d.roleVerifier.Member(ctx, challenge.WorkspaceID)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if member != nil {
		if member.Role != entity.MemberAdmin && member.Role != entity.MemberManager {
			return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
		}

		// Managers only review challenges assigned to them. Workspace
		// admins review everything.
		if member.Role == entity.MemberManager {
			if _, err := d.challengeAssignmentRepo.Get(
				ctx, member.UserID, challenge.ID); err != nil {
				return nil, errorx.New(errorx.PermissionDenied,
					"Challenge is not assigned to this manager")
			}
		}
	}

	var toStatus entity.SubmissionStatus
	switch req.Action {
	case reviewActionApprove:
		toStatus = entity.SubmissionManagerApproved
	case reviewActionReject:
		if strings.TrimSpace(req.Notes) == "" {
			return nil, errorx.New(errorx.BadRequest, "Rejection requires review notes")
		}
		toStatus = entity.SubmissionNeedsRevision
	}

	updated, err := d.submissionRepo.UpdateReview(ctx, submission.ID,
		entity.SubmissionPending, &entity.Submission{
			Status:      toStatus,
			ReviewerID:  sql.NullString{Valid: true, String: xcontext.RequestUserID(ctx)},
			ReviewNotes: req.Notes,
		})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update submission: %v", err)
		return nil, errorx.Unknown
	}

	if !updated {
		return nil, errorx.New(errorx.Unavailable, "Submission was already reviewed")
	}

	return &model.ReviewSubmissionResponse{Status: string(toStatus)}, nil
}

func (d *submissionDomain) FinalReview(
	ctx context.Context, req *model.FinalReviewSubmissionRequest,
) (*model.FinalReviewSubmissionResponse, error) {
	submission, challenge, err := d.loadForReview(ctx, req.ID, req.Action)
	if err != nil {
		return nil, err
	}

	if err := d.roleVerifier.Verify(ctx, challenge.WorkspaceID, entity.MemberAdmin); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	workspace, err := d.workspaceRepo.GetByID(ctx, challenge.WorkspaceID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get workspace: %v", err)
		return nil, errorx.Unknown
	}

	fromStatus := entity.SubmissionManagerApproved
	if submission.Status == entity.SubmissionPending {
		if !workspace.SingleTierApproval {
			return nil, errorx.New(errorx.Unavailable,
				"Submission needs a manager review first")
		}

		fromStatus = entity.SubmissionPending
	}

	var toStatus entity.SubmissionStatus
	switch req.Action {
	case reviewActionApprove:
		toStatus = entity.SubmissionApproved
	case reviewActionReject:
		if strings.TrimSpace(req.Notes) == "" {
			return nil, errorx.New(errorx.BadRequest, "Rejection requires review notes")
		}
		toStatus = entity.SubmissionRejected
	}

	reviewData := &entity.Submission{
		Status:      toStatus,
		ReviewerID:  sql.NullString{Valid: true, String: xcontext.RequestUserID(ctx)},
		ReviewNotes: req.Notes,
	}

	activity, err := d.activityRepo.GetByID(ctx, submission.ActivityID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get activity: %v", err)
		return nil, errorx.Unknown
	}

	hasReward := toStatus == entity.SubmissionApproved &&
		activity.RewardType != "" && workspace.RewardStackEnabled

	if !hasReward {
		updated, err := d.submissionRepo.UpdateReview(ctx, submission.ID, fromStatus, reviewData)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot update submission: %v", err)
			return nil, errorx.Unknown
		}

		if !updated {
			return nil, errorx.New(errorx.Unavailable, "Submission was already reviewed")
		}

		return &model.FinalReviewSubmissionResponse{Status: string(toStatus)}, nil
	}

	// The review transition and the reward record are committed together.
	// The unique submission id column makes a second approval impossible
	// even if the status check races.
	issuance := &entity.RewardIssuance{
		Base:         entity.Base{ID: uuid.NewString()},
		UserID:       submission.UserID,
		WorkspaceID:  workspace.ID,
		ChallengeID:  sql.NullString{Valid: true, String: challenge.ID},
		SubmissionID: sql.NullString{Valid: true, String: submission.ID},
		Type:         activity.RewardType,
		Amount:       activity.RewardAmount,
		SkuID:        activity.SkuID,
		Status:       entity.IssuancePending,
	}

	txCtx := xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(txCtx)

	updated, err := d.submissionRepo.UpdateReview(txCtx, submission.ID, fromStatus, reviewData)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update submission: %v", err)
		return nil, errorx.Unknown
	}

	if !updated {
		return nil, errorx.New(errorx.Unavailable, "Submission was already reviewed")
	}

	if _, err := d.rewardIssuanceRepo.GetBySubmissionID(txCtx, submission.ID); err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "Submission already has a reward")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot check reward issuance: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.rewardIssuanceRepo.Create(txCtx, issuance); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create reward issuance: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(txCtx)

	// Issuance runs in the background. A dispatch failure never undoes the
	// approval; the record stays pending and an admin can retry it.
	if err := d.dispatcher.Dispatch(ctx, task.ExecuteRewardIssuance,
		task.ExecuteRewardIssuancePayload{IssuanceID: issuance.ID}); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot dispatch reward issuance %s: %v", issuance.ID, err)
	}

	return &model.FinalReviewSubmissionResponse{
		Status:           string(toStatus),
		RewardIssuanceID: issuance.ID,
	}, nil
}

// loadForReview runs the checks shared by both review tiers.
func (d *submissionDomain) loadForReview(
	ctx context.Context, id, action string,
) (*entity.Submission, *entity.Challenge, error) {
	if id == "" {
		return nil, nil, errorx.New(errorx.BadRequest, "Not allow empty id")
	}

	if action != reviewActionApprove && action != reviewActionReject {
		return nil, nil, errorx.New(errorx.BadRequest, "Action must be approve or reject")
	}

	submission, err := d.submissionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, errorx.New(errorx.NotFound, "Not found submission")
		}

		xcontext.Logger(ctx).Errorf("Cannot get submission: %v", err)
		return nil, nil, errorx.Unknown
	}

	if submission.UserID == xcontext.RequestUserID(ctx) {
		return nil, nil, errorx.New(errorx.PermissionDenied,
			"Not allow reviewing your own submission")
	}

	activity, err := d.activityRepo.GetByID(ctx, submission.ActivityID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get activity: %v", err)
		return nil, nil, errorx.Unknown
	}

	challenge, err := d.challengeRepo.GetByID(ctx, activity.ChallengeID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get challenge: %v", err)
		return nil, nil, errorx.Unknown
	}

	return submission, challenge, nil
}

func (d *submissionDomain) Get(
	ctx context.Context, req *model.GetSubmissionRequest,
) (*model.GetSubmissionResponse, error) {
	if req.ID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty id")
	}

	submission, err := d.submissionRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found submission")
		}

		xcontext.Logger(ctx).Errorf("Cannot get submission: %v", err)
		return nil, errorx.Unknown
	}

	if submission.UserID != xcontext.RequestUserID(ctx) {
		activity, err := d.activityRepo.GetByID(ctx, submission.ActivityID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get activity: %v", err)
			return nil, errorx.Unknown
		}

		challenge, err := d.challengeRepo.GetByID(ctx, activity.ChallengeID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get challenge: %v", err)
			return nil, errorx.Unknown
		}

		if err := d.roleVerifier.Verify(ctx, challenge.WorkspaceID, entity.ReviewRoles...); err != nil {
			xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
			return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
		}
	}

	resp := model.GetSubmissionResponse(convertSubmission(submission))
	return &resp, nil
}

func (d *submissionDomain) GetPending(
	ctx context.Context, req *model.GetPendingSubmissionsRequest,
) (*model.GetPendingSubmissionsResponse, error) {
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

	submissions, err := d.submissionRepo.GetList(ctx, &repository.SubmissionFilter{
		WorkspaceID: req.WorkspaceID,
		ChallengeID: req.ChallengeID,
		Status: []entity.SubmissionStatus{
			entity.SubmissionPending,
			entity.SubmissionManagerApproved,
		},
	}, offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get list submission: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.Submission{}
	for i := range submissions {
		result = append(result, convertSubmission(&submissions[i]))
	}

	return &model.GetPendingSubmissionsResponse{Submissions: result}, nil
}

func (d *submissionDomain) GetMyList(
	ctx context.Context, req *model.GetMySubmissionsRequest,
) (*model.GetMySubmissionsResponse, error) {
	offset, limit, err := validateListParams(ctx, req.Offset, req.Limit)
	if err != nil {
		return nil, err
	}

	submissions, err := d.submissionRepo.GetList(ctx, &repository.SubmissionFilter{
		WorkspaceID: req.WorkspaceID,
		UserID:      xcontext.RequestUserID(ctx),
	}, offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get list submission: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.Submission{}
	for i := range submissions {
		result = append(result, convertSubmission(&submissions[i]))
	}

	return &model.GetMySubmissionsResponse{Submissions: result}, nil
}
