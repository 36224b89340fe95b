package domain

import (
	"testing"

	"github.com/changemaker-lab/backend/internal/entity"
	"github.com/changemaker-lab/backend/internal/model"
	"github.com/changemaker-lab/backend/internal/repository"
	"github.com/changemaker-lab/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func newTestWorkspaceDomain() *workspaceDomain {
	return NewWorkspaceDomain(
		repository.NewWorkspaceRepository(),
		repository.NewMemberRepository(),
		repository.NewChallengeRepository(),
		repository.NewActivityRepository(),
		repository.NewChallengeAssignmentRepository(),
		repository.NewUserRepository(),
	)
}

func Test_workspaceDomain_Create(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	d := newTestWorkspaceDomain()

	userCtx := testutil.MockContextWithUserID(ctx, testutil.User1.ID)
	resp, err := d.Create(userCtx, &model.CreateWorkspaceRequest{
		Name:                 "Green Team",
		RewardStackEnabled:   true,
		RewardStackProgramID: "program9",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.ID)

	// The creator administers the new workspace.
	member, err := repository.NewMemberRepository().Get(ctx, testutil.User1.ID, resp.ID)
	require.NoError(t, err)
	require.Equal(t, entity.MemberAdmin, member.Role)

	// Duplicated workspace names are refused.
	_, err = d.Create(userCtx, &model.CreateWorkspaceRequest{Name: "Green Team"})
	require.Error(t, err)

	// Enabling rewards without a program id is refused.
	_, err = d.Create(userCtx, &model.CreateWorkspaceRequest{
		Name:               "No Program",
		RewardStackEnabled: true,
	})
	require.Error(t, err)
	require.Equal(t, "RewardSTACK needs a program id to be enabled", err.Error())
}

func Test_workspaceDomain_Join(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	d := newTestWorkspaceDomain()

	// User2 is not a member of Workspace2 yet.
	user2Ctx := testutil.MockContextWithUserID(ctx, testutil.User2.ID)
	_, err := d.Join(user2Ctx, &model.JoinWorkspaceRequest{WorkspaceID: testutil.Workspace2.ID})
	require.NoError(t, err)

	member, err := repository.NewMemberRepository().Get(ctx, testutil.User2.ID, testutil.Workspace2.ID)
	require.NoError(t, err)
	require.Equal(t, entity.MemberParticipant, member.Role)

	_, err = d.Join(user2Ctx, &model.JoinWorkspaceRequest{WorkspaceID: testutil.Workspace2.ID})
	require.Error(t, err)
	require.Equal(t, "Already a member of this workspace", err.Error())

	_, err = d.Join(user2Ctx, &model.JoinWorkspaceRequest{WorkspaceID: "invalid"})
	require.Error(t, err)
	require.Equal(t, "Not found workspace", err.Error())
}

func Test_workspaceDomain_CreateChallengeAndActivity(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	d := newTestWorkspaceDomain()

	// A participant cannot create challenges.
	userCtx := testutil.MockContextWithUserID(ctx, testutil.User1.ID)
	_, err := d.CreateChallenge(userCtx, &model.CreateChallengeRequest{
		WorkspaceID: testutil.Workspace1.ID,
		Title:       "New Drive",
	})
	require.Error(t, err)
	require.Equal(t, "Permission denied", err.Error())

	adminCtx := testutil.MockContextWithUserID(ctx, testutil.Admin1.ID)
	challengeResp, err := d.CreateChallenge(adminCtx, &model.CreateChallengeRequest{
		WorkspaceID: testutil.Workspace1.ID,
		Title:       "New Drive",
		StartsAt:    "2026-01-01T00:00:00Z",
		EndsAt:      "2026-12-31T00:00:00Z",
	})
	require.NoError(t, err)

	// Bounds out of order are refused.
	_, err = d.CreateChallenge(adminCtx, &model.CreateChallengeRequest{
		WorkspaceID: testutil.Workspace1.ID,
		Title:       "Backwards",
		StartsAt:    "2026-12-31T00:00:00Z",
		EndsAt:      "2026-01-01T00:00:00Z",
	})
	require.Error(t, err)

	activityResp, err := d.CreateActivity(adminCtx, &model.CreateActivityRequest{
		ChallengeID:  challengeResp.ID,
		Title:        "Plant a tree",
		RewardType:   "points",
		RewardAmount: 50,
	})
	require.NoError(t, err)

	activity, err := repository.NewActivityRepository().GetByID(ctx, activityResp.ID)
	require.NoError(t, err)
	require.Equal(t, entity.PointsReward, activity.RewardType)
	require.EqualValues(t, 50, activity.RewardAmount)

	// A SKU reward needs a sku id.
	_, err = d.CreateActivity(adminCtx, &model.CreateActivityRequest{
		ChallengeID:  challengeResp.ID,
		Title:        "Win a bottle",
		RewardType:   "sku",
		RewardAmount: 1,
	})
	require.Error(t, err)
	require.Equal(t, "SKU reward needs a sku id", err.Error())

	_, err = d.CreateActivity(adminCtx, &model.CreateActivityRequest{
		ChallengeID:  challengeResp.ID,
		Title:        "Bad type",
		RewardType:   "gold",
		RewardAmount: 1,
	})
	require.Error(t, err)
	require.Equal(t, "Invalid reward type", err.Error())
}

func Test_workspaceDomain_AssignChallenge(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	d := newTestWorkspaceDomain()

	require.NoError(t, repository.NewUserRepository().Create(ctx, &entity.User{
		Base: entity.Base{ID: "manager2"}, Name: "Manager Two", Email: "m2@example.com",
		Role: entity.RoleUser,
	}))
	require.NoError(t, repository.NewMemberRepository().Create(ctx, &entity.Member{
		UserID: "manager2", WorkspaceID: testutil.Workspace1.ID, Role: entity.MemberManager,
	}))

	adminCtx := testutil.MockContextWithUserID(ctx, testutil.Admin1.ID)
	_, err := d.AssignChallenge(adminCtx, &model.AssignChallengeRequest{
		ChallengeID: testutil.Challenge1.ID,
		UserID:      "manager2",
	})
	require.NoError(t, err)

	_, err = repository.NewChallengeAssignmentRepository().Get(ctx, "manager2", testutil.Challenge1.ID)
	require.NoError(t, err)

	// Assigning again is refused.
	_, err = d.AssignChallenge(adminCtx, &model.AssignChallengeRequest{
		ChallengeID: testutil.Challenge1.ID,
		UserID:      "manager2",
	})
	require.Error(t, err)

	// A participant cannot be assigned.
	_, err = d.AssignChallenge(adminCtx, &model.AssignChallengeRequest{
		ChallengeID: testutil.Challenge1.ID,
		UserID:      testutil.User1.ID,
	})
	require.Error(t, err)
	require.Equal(t, "Only managers can be assigned to challenges", err.Error())
}
