package domain

import (
	"context"
	"testing"

	"github.com/changemaker-lab/backend/internal/entity"
	"github.com/changemaker-lab/backend/internal/model"
	"github.com/changemaker-lab/backend/internal/repository"
	"github.com/changemaker-lab/backend/pkg/task"
	"github.com/changemaker-lab/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

// The full path: submit, manager review, admin approval, background
// issuance. The inline dispatcher runs the issuance synchronously so the
// whole lifecycle is observable in one test.
func Test_rewardFlow_endToEnd(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	endpoint := &testutil.MockRewardStackEndpoint{}
	emailSender := &testutil.MockEmailSender{}
	dispatcher := &testutil.InlineDispatcher{}
	submissionDomain := newTestSubmissionDomain(dispatcher)
	rewardDomain := newTestRewardDomain(endpoint, emailSender, dispatcher)
	dispatcher.Handler = func(ctx context.Context, taskType string, payload any) error {
		return rewardDomain.ExecuteIssuance(ctx, payload.(task.ExecuteRewardIssuancePayload).IssuanceID)
	}

	userCtx := testutil.MockContextWithUserID(ctx, testutil.User1.ID)
	submitResp, err := submissionDomain.Submit(userCtx, &model.SubmitRequest{
		ActivityID: testutil.PointsActivity.ID,
		Content:    "I recycled ten bottles",
	})
	require.NoError(t, err)

	managerCtx := testutil.MockContextWithUserID(ctx, testutil.Manager1.ID)
	reviewResp, err := submissionDomain.Review(managerCtx, &model.ReviewSubmissionRequest{
		ID:     submitResp.ID,
		Action: "approve",
		Notes:  "looks good",
	})
	require.NoError(t, err)
	require.Equal(t, "manager_approved", reviewResp.Status)

	adminCtx := testutil.MockContextWithUserID(ctx, testutil.Admin1.ID)
	finalResp, err := submissionDomain.FinalReview(adminCtx, &model.FinalReviewSubmissionRequest{
		ID:     submitResp.ID,
		Action: "approve",
	})
	require.NoError(t, err)
	require.Equal(t, "approved", finalResp.Status)

	issuance, err := repository.NewRewardIssuanceRepository().
		GetByID(ctx, finalResp.RewardIssuanceID)
	require.NoError(t, err)
	require.Equal(t, entity.IssuanceIssued, issuance.Status)
	require.Equal(t, "txn-1", issuance.RewardStackTransactionID.String)
	require.Equal(t, 1, endpoint.TransactionCalls)
}

// Issuance failures never undo the approval.
func Test_rewardFlow_dispatchFailureKeepsApproval(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	submissionDomain := newTestSubmissionDomain(&testutil.InlineDispatcher{})

	userCtx := testutil.MockContextWithUserID(ctx, testutil.User1.ID)
	submitResp, err := submissionDomain.Submit(userCtx, &model.SubmitRequest{
		ActivityID: testutil.PointsActivity.ID,
		Content:    "done",
	})
	require.NoError(t, err)

	managerCtx := testutil.MockContextWithUserID(ctx, testutil.Manager1.ID)
	_, err = submissionDomain.Review(managerCtx, &model.ReviewSubmissionRequest{
		ID:     submitResp.ID,
		Action: "approve",
	})
	require.NoError(t, err)

	// The queue is down, but the approval and the pending record survive.
	failingDomain := NewSubmissionDomain(
		repository.NewSubmissionRepository(),
		repository.NewActivityRepository(),
		repository.NewChallengeRepository(),
		repository.NewChallengeAssignmentRepository(),
		repository.NewEnrollmentRepository(),
		repository.NewWorkspaceRepository(),
		repository.NewRewardIssuanceRepository(),
		repository.NewMemberRepository(),
		repository.NewUserRepository(),
		&testutil.FailDispatcher{},
	)

	adminCtx := testutil.MockContextWithUserID(ctx, testutil.Admin1.ID)
	finalResp, err := failingDomain.FinalReview(adminCtx, &model.FinalReviewSubmissionRequest{
		ID:     submitResp.ID,
		Action: "approve",
	})
	require.NoError(t, err)
	require.Equal(t, "approved", finalResp.Status)

	submission, err := repository.NewSubmissionRepository().GetByID(ctx, submitResp.ID)
	require.NoError(t, err)
	require.Equal(t, entity.SubmissionApproved, submission.Status)

	issuance, err := repository.NewRewardIssuanceRepository().
		GetByID(ctx, finalResp.RewardIssuanceID)
	require.NoError(t, err)
	require.Equal(t, entity.IssuancePending, issuance.Status)

	// Once the queue is back, an admin reschedules the stranded record by
	// hand and the issuance completes.
	endpoint := &testutil.MockRewardStackEndpoint{}
	dispatcher := &testutil.InlineDispatcher{}
	rewardDomain := newTestRewardDomain(endpoint, &testutil.MockEmailSender{}, dispatcher)
	dispatcher.Handler = func(ctx context.Context, taskType string, payload any) error {
		return rewardDomain.ExecuteIssuance(ctx, payload.(task.ExecuteRewardIssuancePayload).IssuanceID)
	}

	_, err = rewardDomain.Retry(adminCtx, &model.RetryRewardIssuanceRequest{ID: issuance.ID})
	require.NoError(t, err)

	issuance, err = repository.NewRewardIssuanceRepository().GetByID(ctx, issuance.ID)
	require.NoError(t, err)
	require.Equal(t, entity.IssuanceIssued, issuance.Status)
	require.Equal(t, 1, endpoint.TransactionCalls)
}
