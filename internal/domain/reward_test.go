package domain

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/changemaker-lab/backend/internal/entity"
	"github.com/changemaker-lab/backend/internal/model"
	"github.com/changemaker-lab/backend/internal/repository"
	"github.com/changemaker-lab/backend/pkg/api/rewardstack"
	"github.com/changemaker-lab/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func newTestRewardDomain(
	endpoint *testutil.MockRewardStackEndpoint,
	emailSender *testutil.MockEmailSender,
	dispatcher *testutil.InlineDispatcher,
) *rewardDomain {
	return NewRewardDomain(
		repository.NewRewardIssuanceRepository(),
		repository.NewUserRepository(),
		repository.NewWorkspaceRepository(),
		repository.NewMemberRepository(),
		endpoint,
		emailSender,
		dispatcher,
	)
}

func createPendingIssuance(
	ctx context.Context, t *testing.T, id, userID string, rewardType entity.RewardType,
) *entity.RewardIssuance {
	t.Helper()

	issuance := &entity.RewardIssuance{
		Base:        entity.Base{ID: id},
		UserID:      userID,
		WorkspaceID: testutil.Workspace1.ID,
		Type:        rewardType,
		Amount:      100,
		Status:      entity.IssuancePending,
	}

	if rewardType == entity.SkuReward {
		issuance.Amount = 1
		issuance.SkuID = sql.NullString{Valid: true, String: "sku-bottle"}
	}

	require.NoError(t, repository.NewRewardIssuanceRepository().Create(ctx, issuance))
	return issuance
}

func Test_rewardDomain_ExecuteIssuance_points(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	endpoint := &testutil.MockRewardStackEndpoint{}
	d := newTestRewardDomain(endpoint, &testutil.MockEmailSender{}, &testutil.InlineDispatcher{})

	issuance := createPendingIssuance(ctx, t, "issuance1", testutil.User1.ID, entity.PointsReward)
	require.NoError(t, d.ExecuteIssuance(ctx, issuance.ID))

	record, err := repository.NewRewardIssuanceRepository().GetByID(ctx, issuance.ID)
	require.NoError(t, err)
	require.Equal(t, entity.IssuanceIssued, record.Status)
	require.Equal(t, "txn-1", record.RewardStackTransactionID.String)
	require.Equal(t, "adj-1", record.RewardStackAdjustmentID.String)
	require.True(t, record.IssuedAt.Valid)
	require.False(t, record.ClaimedAt.Valid)
	require.Equal(t, 1, endpoint.ParticipantCalls)
	require.Equal(t, 1, endpoint.TransactionCalls)

	// The user is now synced with the provider.
	user, err := repository.NewUserRepository().GetByID(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, entity.Synced, user.RewardStackSyncStatus)
	require.True(t, user.RewardStackParticipantID.Valid)

	// Executing an already issued record is a no-op.
	require.NoError(t, d.ExecuteIssuance(ctx, issuance.ID))
	require.Equal(t, 1, endpoint.TransactionCalls)
}

func Test_rewardDomain_ExecuteIssuance_syncIsIdempotent(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	endpoint := &testutil.MockRewardStackEndpoint{}
	d := newTestRewardDomain(endpoint, &testutil.MockEmailSender{}, &testutil.InlineDispatcher{})

	first := createPendingIssuance(ctx, t, "issuance1", testutil.User1.ID, entity.PointsReward)
	second := createPendingIssuance(ctx, t, "issuance2", testutil.User1.ID, entity.PointsReward)

	require.NoError(t, d.ExecuteIssuance(ctx, first.ID))
	require.NoError(t, d.ExecuteIssuance(ctx, second.ID))

	// Only the first issuance creates the participant.
	require.Equal(t, 1, endpoint.ParticipantCalls)
	require.Equal(t, 2, endpoint.TransactionCalls)
}

func Test_rewardDomain_ExecuteIssuance_skuWithoutAddress(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	endpoint := &testutil.MockRewardStackEndpoint{}
	emailSender := &testutil.MockEmailSender{}
	d := newTestRewardDomain(endpoint, emailSender, &testutil.InlineDispatcher{})

	// User2 has no shipping address.
	issuance := createPendingIssuance(ctx, t, "issuance1", testutil.User2.ID, entity.SkuReward)
	require.NoError(t, d.ExecuteIssuance(ctx, issuance.ID))

	record, err := repository.NewRewardIssuanceRepository().GetByID(ctx, issuance.ID)
	require.NoError(t, err)
	require.Equal(t, entity.IssuanceFailed, record.Status)
	require.Contains(t, record.RewardStackErrorMessage.String, "address")

	// The provider is never called for an unshippable reward.
	require.Equal(t, 0, endpoint.ParticipantCalls)
	require.Equal(t, 0, endpoint.TransactionCalls)
	require.Equal(t, 0, emailSender.Sent)
}

func Test_rewardDomain_ExecuteIssuance_skuSendsEmail(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	endpoint := &testutil.MockRewardStackEndpoint{}
	emailSender := &testutil.MockEmailSender{}
	d := newTestRewardDomain(endpoint, emailSender, &testutil.InlineDispatcher{})

	issuance := createPendingIssuance(ctx, t, "issuance1", testutil.User1.ID, entity.SkuReward)
	require.NoError(t, d.ExecuteIssuance(ctx, issuance.ID))

	record, err := repository.NewRewardIssuanceRepository().GetByID(ctx, issuance.ID)
	require.NoError(t, err)
	require.Equal(t, entity.IssuanceIssued, record.Status)
	require.Equal(t, 1, emailSender.Sent)
}

func Test_rewardDomain_ExecuteIssuance_providerError(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	endpoint := &testutil.MockRewardStackEndpoint{
		CreateTransactionFunc: func(
			context.Context, string, rewardstack.CreateTransactionRequest,
		) (rewardstack.Transaction, error) {
			return rewardstack.Transaction{}, rewardstack.Error{
				Code: 422, Message: "Invalid shipping state code",
			}
		},
	}
	d := newTestRewardDomain(endpoint, &testutil.MockEmailSender{}, &testutil.InlineDispatcher{})

	issuance := createPendingIssuance(ctx, t, "issuance1", testutil.User1.ID, entity.SkuReward)
	require.NoError(t, d.ExecuteIssuance(ctx, issuance.ID))

	record, err := repository.NewRewardIssuanceRepository().GetByID(ctx, issuance.ID)
	require.NoError(t, err)
	require.Equal(t, entity.IssuanceFailed, record.Status)
	require.Equal(t, "Invalid shipping state code", record.RewardStackErrorMessage.String)
	require.False(t, record.ClaimedAt.Valid)
}

func Test_rewardDomain_ExecuteIssuance_claimedRecordIsSkipped(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	endpoint := &testutil.MockRewardStackEndpoint{}
	d := newTestRewardDomain(endpoint, &testutil.MockEmailSender{}, &testutil.InlineDispatcher{})

	issuance := createPendingIssuance(ctx, t, "issuance1", testutil.User1.ID, entity.PointsReward)

	// Another attempt already owns the record.
	claimed, err := repository.NewRewardIssuanceRepository().Claim(ctx, issuance.ID)
	require.NoError(t, err)
	require.True(t, claimed)

	require.NoError(t, d.ExecuteIssuance(ctx, issuance.ID))
	require.Equal(t, 0, endpoint.TransactionCalls)

	record, err := repository.NewRewardIssuanceRepository().GetByID(ctx, issuance.ID)
	require.NoError(t, err)
	require.Equal(t, entity.IssuancePending, record.Status)
}

func Test_rewardDomain_Retry(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	dispatcher := &testutil.InlineDispatcher{}
	d := newTestRewardDomain(&testutil.MockRewardStackEndpoint{}, &testutil.MockEmailSender{}, dispatcher)

	issuance := createPendingIssuance(ctx, t, "issuance1", testutil.User1.ID, entity.PointsReward)
	repo := repository.NewRewardIssuanceRepository()

	// An unclaimed pending record can be rescheduled by hand, covering a
	// lost queue dispatch.
	adminCtx := testutil.MockContextWithUserID(ctx, testutil.Admin1.ID)
	resp, err := d.Retry(adminCtx, &model.RetryRewardIssuanceRequest{ID: issuance.ID})
	require.NoError(t, err)
	require.Equal(t, "pending", resp.Status)
	require.Len(t, dispatcher.Dispatched, 1)

	// Not while a worker holds the claim.
	claimed, err := repo.Claim(ctx, issuance.ID)
	require.NoError(t, err)
	require.True(t, claimed)
	_, err = d.Retry(adminCtx, &model.RetryRewardIssuanceRequest{ID: issuance.ID})
	require.Error(t, err)
	require.Equal(t, "Reward issuance cannot be retried in its current state", err.Error())

	updated, err := repo.MarkFailed(ctx, issuance.ID, "provider exploded")
	require.NoError(t, err)
	require.True(t, updated)

	// A participant cannot retry.
	userCtx := testutil.MockContextWithUserID(ctx, testutil.User1.ID)
	_, err = d.Retry(userCtx, &model.RetryRewardIssuanceRequest{ID: issuance.ID})
	require.Error(t, err)
	require.Equal(t, "Permission denied", err.Error())

	resp, err = d.Retry(adminCtx, &model.RetryRewardIssuanceRequest{ID: issuance.ID})
	require.NoError(t, err)
	require.Equal(t, "pending", resp.Status)
	require.Len(t, dispatcher.Dispatched, 2)

	record, err := repo.GetByID(ctx, issuance.ID)
	require.NoError(t, err)
	require.Equal(t, entity.IssuancePending, record.Status)
	require.Equal(t, 2, record.RetryCount)
	require.False(t, record.RewardStackErrorMessage.Valid)
}

func Test_rewardDomain_Retry_exhausted(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	d := newTestRewardDomain(
		&testutil.MockRewardStackEndpoint{}, &testutil.MockEmailSender{}, &testutil.InlineDispatcher{})

	repo := repository.NewRewardIssuanceRepository()
	issuance := &entity.RewardIssuance{
		Base:                    entity.Base{ID: "issuance1"},
		UserID:                  testutil.User1.ID,
		WorkspaceID:             testutil.Workspace1.ID,
		Type:                    entity.PointsReward,
		Amount:                  100,
		Status:                  entity.IssuanceFailed,
		RewardStackErrorMessage: sql.NullString{Valid: true, String: "provider exploded"},
		RetryCount:              5,
	}
	require.NoError(t, repo.Create(ctx, issuance))

	adminCtx := testutil.MockContextWithUserID(ctx, testutil.Admin1.ID)
	_, err := d.Retry(adminCtx, &model.RetryRewardIssuanceRequest{ID: issuance.ID})
	require.Error(t, err)
	require.Equal(t, "Reward issuance exceeded the retry limit", err.Error())
}

func Test_rewardDomain_Cancel(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	d := newTestRewardDomain(
		&testutil.MockRewardStackEndpoint{}, &testutil.MockEmailSender{}, &testutil.InlineDispatcher{})

	issuance := createPendingIssuance(ctx, t, "issuance1", testutil.User1.ID, entity.PointsReward)
	repo := repository.NewRewardIssuanceRepository()

	adminCtx := testutil.MockContextWithUserID(ctx, testutil.Admin1.ID)
	_, err := d.Cancel(adminCtx, &model.CancelRewardIssuanceRequest{ID: issuance.ID})
	require.NoError(t, err)

	record, err := repo.GetByID(ctx, issuance.ID)
	require.NoError(t, err)
	require.Equal(t, entity.IssuanceCancelled, record.Status)

	// An issued record cannot be cancelled.
	issued := &entity.RewardIssuance{
		Base:        entity.Base{ID: "issuance2"},
		UserID:      testutil.User1.ID,
		WorkspaceID: testutil.Workspace1.ID,
		Type:        entity.PointsReward,
		Amount:      100,
		Status:      entity.IssuanceIssued,
		IssuedAt:    sql.NullTime{Valid: true, Time: time.Now()},
	}
	require.NoError(t, repo.Create(ctx, issued))

	_, err = d.Cancel(adminCtx, &model.CancelRewardIssuanceRequest{ID: issued.ID})
	require.Error(t, err)
	require.Equal(t, "Only pending or failed reward issuances can be cancelled", err.Error())
}

func Test_rewardDomain_GetList(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	d := newTestRewardDomain(
		&testutil.MockRewardStackEndpoint{}, &testutil.MockEmailSender{}, &testutil.InlineDispatcher{})

	createPendingIssuance(ctx, t, "issuance1", testutil.User1.ID, entity.PointsReward)
	createPendingIssuance(ctx, t, "issuance2", testutil.User2.ID, entity.PointsReward)

	// A participant cannot list the workspace rewards.
	userCtx := testutil.MockContextWithUserID(ctx, testutil.User1.ID)
	_, err := d.GetList(userCtx, &model.GetRewardIssuancesRequest{
		WorkspaceID: testutil.Workspace1.ID,
	})
	require.Error(t, err)

	adminCtx := testutil.MockContextWithUserID(ctx, testutil.Admin1.ID)
	resp, err := d.GetList(adminCtx, &model.GetRewardIssuancesRequest{
		WorkspaceID: testutil.Workspace1.ID,
		Limit:       50,
	})
	require.NoError(t, err)
	require.Len(t, resp.RewardIssuances, 2)

	// But everyone sees their own rewards.
	myResp, err := d.GetMyList(userCtx, &model.GetMyRewardIssuancesRequest{
		WorkspaceID: testutil.Workspace1.ID,
		Limit:       50,
	})
	require.NoError(t, err)
	require.Len(t, myResp.RewardIssuances, 1)
	require.Equal(t, "issuance1", myResp.RewardIssuances[0].ID)
}
