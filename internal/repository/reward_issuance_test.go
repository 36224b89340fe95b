package repository_test

import (
	"database/sql"
	"testing"

	"github.com/changemaker-lab/backend/internal/entity"
	"github.com/changemaker-lab/backend/internal/repository"
	"github.com/changemaker-lab/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_rewardIssuanceRepository_Claim(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	repo := repository.NewRewardIssuanceRepository()

	require.NoError(t, repo.Create(ctx, &entity.RewardIssuance{
		Base:        entity.Base{ID: "issuance1"},
		UserID:      testutil.User1.ID,
		WorkspaceID: testutil.Workspace1.ID,
		Type:        entity.PointsReward,
		Amount:      100,
		Status:      entity.IssuancePending,
	}))

	claimed, err := repo.Claim(ctx, "issuance1")
	require.NoError(t, err)
	require.True(t, claimed)

	// The second claim loses.
	claimed, err = repo.Claim(ctx, "issuance1")
	require.NoError(t, err)
	require.False(t, claimed)

	// A terminal write releases the claim, and only works once.
	updated, err := repo.MarkIssued(ctx, "issuance1", &entity.RewardIssuance{
		RewardStackTransactionID: sql.NullString{Valid: true, String: "txn-1"},
	})
	require.NoError(t, err)
	require.True(t, updated)

	updated, err = repo.MarkIssued(ctx, "issuance1", &entity.RewardIssuance{})
	require.NoError(t, err)
	require.False(t, updated)

	updated, err = repo.MarkFailed(ctx, "issuance1", "too late")
	require.NoError(t, err)
	require.False(t, updated)

	record, err := repo.GetByID(ctx, "issuance1")
	require.NoError(t, err)
	require.Equal(t, entity.IssuanceIssued, record.Status)
	require.False(t, record.ClaimedAt.Valid)
	require.False(t, record.RewardStackErrorMessage.Valid)
}

func Test_rewardIssuanceRepository_ResetForRetry(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	repo := repository.NewRewardIssuanceRepository()

	require.NoError(t, repo.Create(ctx, &entity.RewardIssuance{
		Base:                    entity.Base{ID: "issuance1"},
		UserID:                  testutil.User1.ID,
		WorkspaceID:             testutil.Workspace1.ID,
		Type:                    entity.PointsReward,
		Amount:                  100,
		Status:                  entity.IssuanceFailed,
		RewardStackErrorMessage: sql.NullString{Valid: true, String: "boom"},
		RetryCount:              3,
	}))

	reset, err := repo.ResetForRetry(ctx, "issuance1", 5)
	require.NoError(t, err)
	require.True(t, reset)

	record, err := repo.GetByID(ctx, "issuance1")
	require.NoError(t, err)
	require.Equal(t, entity.IssuancePending, record.Status)
	require.Equal(t, 4, record.RetryCount)
	require.False(t, record.RewardStackErrorMessage.Valid)
	require.False(t, record.ClaimedAt.Valid)

	// An unclaimed pending record can be rescheduled.
	reset, err = repo.ResetForRetry(ctx, "issuance1", 5)
	require.NoError(t, err)
	require.True(t, reset)

	// But not while a worker holds the claim.
	claimed, err := repo.Claim(ctx, "issuance1")
	require.NoError(t, err)
	require.True(t, claimed)

	reset, err = repo.ResetForRetry(ctx, "issuance1", 5)
	require.NoError(t, err)
	require.False(t, reset)

	// Back to failed, now at the cap.
	updated, err := repo.MarkFailed(ctx, "issuance1", "boom again")
	require.NoError(t, err)
	require.True(t, updated)

	reset, err = repo.ResetForRetry(ctx, "issuance1", 5)
	require.NoError(t, err)
	require.False(t, reset)
}

func Test_rewardIssuanceRepository_Cancel(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	repo := repository.NewRewardIssuanceRepository()

	require.NoError(t, repo.Create(ctx, &entity.RewardIssuance{
		Base:        entity.Base{ID: "issuance1"},
		UserID:      testutil.User1.ID,
		WorkspaceID: testutil.Workspace1.ID,
		Type:        entity.PointsReward,
		Amount:      100,
		Status:      entity.IssuancePending,
	}))

	// An in-flight record cannot be cancelled.
	claimed, err := repo.Claim(ctx, "issuance1")
	require.NoError(t, err)
	require.True(t, claimed)

	cancelled, err := repo.Cancel(ctx, "issuance1")
	require.NoError(t, err)
	require.False(t, cancelled)

	updated, err := repo.MarkFailed(ctx, "issuance1", "boom")
	require.NoError(t, err)
	require.True(t, updated)

	cancelled, err = repo.Cancel(ctx, "issuance1")
	require.NoError(t, err)
	require.True(t, cancelled)

	record, err := repo.GetByID(ctx, "issuance1")
	require.NoError(t, err)
	require.Equal(t, entity.IssuanceCancelled, record.Status)
}

func Test_rewardIssuanceRepository_uniqueSubmission(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	repo := repository.NewRewardIssuanceRepository()

	first := &entity.RewardIssuance{
		Base:         entity.Base{ID: "issuance1"},
		UserID:       testutil.User1.ID,
		WorkspaceID:  testutil.Workspace1.ID,
		SubmissionID: sql.NullString{Valid: true, String: "submission1"},
		Type:         entity.PointsReward,
		Amount:       100,
		Status:       entity.IssuancePending,
	}
	require.NoError(t, repo.Create(ctx, first))

	second := &entity.RewardIssuance{
		Base:         entity.Base{ID: "issuance2"},
		UserID:       testutil.User1.ID,
		WorkspaceID:  testutil.Workspace1.ID,
		SubmissionID: sql.NullString{Valid: true, String: "submission1"},
		Type:         entity.PointsReward,
		Amount:       100,
		Status:       entity.IssuancePending,
	}
	require.Error(t, repo.Create(ctx, second))
}
