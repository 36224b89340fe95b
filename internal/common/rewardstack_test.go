package common

import (
	"context"
	"errors"
	"testing"

	"github.com/changemaker-lab/backend/internal/entity"
	"github.com/changemaker-lab/backend/internal/repository"
	"github.com/changemaker-lab/backend/pkg/api/rewardstack"
	"github.com/changemaker-lab/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func TestIsAddressRelatedError(t *testing.T) {
	related := []string{
		"Invalid shipping address",
		"ADDRESS line 1 is required",
		"Unknown state code",
		"zip does not match city",
		"Cannot ship to this Shipping region",
	}
	for _, msg := range related {
		require.True(t, IsAddressRelatedError(msg), msg)
	}

	unrelated := []string{
		"insufficient program budget",
		"participant not found",
		"rate limit exceeded",
		"",
	}
	for _, msg := range unrelated {
		require.False(t, IsAddressRelatedError(msg), msg)
	}
}

func TestSyncRewardStackParticipant(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	userRepo := repository.NewUserRepository()
	endpoint := &testutil.MockRewardStackEndpoint{}

	user, err := userRepo.GetByID(ctx, testutil.User1.ID)
	require.NoError(t, err)

	id, err := SyncRewardStackParticipant(ctx, userRepo, endpoint, user, testutil.Workspace1)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	require.Equal(t, 1, endpoint.ParticipantCalls)

	// The stored participant id short-circuits the next sync.
	user, err = userRepo.GetByID(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, entity.Synced, user.RewardStackSyncStatus)
	require.True(t, user.RewardStackLastSync.Valid)

	again, err := SyncRewardStackParticipant(ctx, userRepo, endpoint, user, testutil.Workspace1)
	require.NoError(t, err)
	require.Equal(t, id, again)
	require.Equal(t, 1, endpoint.ParticipantCalls)
}

func TestSyncRewardStackParticipant_providerFailure(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	userRepo := repository.NewUserRepository()
	endpoint := &testutil.MockRewardStackEndpoint{
		CreateParticipantFunc: func(
			context.Context, string, rewardstack.CreateParticipantRequest,
		) (rewardstack.Participant, error) {
			return rewardstack.Participant{}, errors.New("connection refused")
		},
	}

	user, err := userRepo.GetByID(ctx, testutil.User1.ID)
	require.NoError(t, err)

	_, err = SyncRewardStackParticipant(ctx, userRepo, endpoint, user, testutil.Workspace1)
	require.Error(t, err)

	// The failure is recorded on the user.
	user, err = userRepo.GetByID(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, entity.SyncFailed, user.RewardStackSyncStatus)

	// A workspace without a program refuses to sync at all.
	user2, err := userRepo.GetByID(ctx, testutil.User2.ID)
	require.NoError(t, err)
	_, err = SyncRewardStackParticipant(ctx, userRepo, endpoint, user2, testutil.Workspace2)
	require.Error(t, err)
	require.Equal(t, 1, endpoint.ParticipantCalls)
}
