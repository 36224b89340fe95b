package testutil

import (
	"context"
	"database/sql"

	"github.com/changemaker-lab/backend/internal/entity"
	"github.com/changemaker-lab/backend/internal/repository"
)

var (
	User1 = &entity.User{
		Base:  entity.Base{ID: "user1"},
		Name:  "Alice Wong",
		Email: "alice@example.com",
		Role:  entity.RoleUser,

		AddressLine1: "12 Main St",
		City:         "Springfield",
		State:        "IL",
		ZipCode:      "62704",
		Country:      "US",

		RewardStackSyncStatus: entity.SyncPending,
	}

	// User2 has no shipping address on purpose.
	User2 = &entity.User{
		Base:  entity.Base{ID: "user2"},
		Name:  "Bob Tran",
		Email: "bob@example.com",
		Role:  entity.RoleUser,

		RewardStackSyncStatus: entity.SyncPending,
	}

	Manager1 = &entity.User{
		Base:  entity.Base{ID: "manager1"},
		Name:  "Carol Diaz",
		Email: "carol@example.com",
		Role:  entity.RoleUser,

		RewardStackSyncStatus: entity.SyncPending,
	}

	Admin1 = &entity.User{
		Base:  entity.Base{ID: "admin1"},
		Name:  "Dan Park",
		Email: "dan@example.com",
		Role:  entity.RoleUser,

		RewardStackSyncStatus: entity.SyncPending,
	}

	GlobalAdmin = &entity.User{
		Base:  entity.Base{ID: "global_admin"},
		Name:  "Eve Kim",
		Email: "eve@example.com",
		Role:  entity.RoleSuperAdmin,

		RewardStackSyncStatus: entity.SyncPending,
	}

	Workspace1 = &entity.Workspace{
		Base:                 entity.Base{ID: "workspace1"},
		Name:                 "Workspace1",
		CreatedBy:            Admin1.ID,
		RewardStackEnabled:   true,
		RewardStackProgramID: "program1",
	}

	Workspace2 = &entity.Workspace{
		Base:               entity.Base{ID: "workspace2"},
		Name:               "Workspace2",
		CreatedBy:          Admin1.ID,
		SingleTierApproval: true,
	}

	Challenge1 = &entity.Challenge{
		Base:        entity.Base{ID: "challenge1"},
		WorkspaceID: Workspace1.ID,
		Title:       "Recycling Drive",
		CreatedBy:   Admin1.ID,
	}

	PointsActivity = &entity.Activity{
		Base:         entity.Base{ID: "activity_points"},
		ChallengeID:  Challenge1.ID,
		Title:        "Log a recycling trip",
		RewardType:   entity.PointsReward,
		RewardAmount: 100,
	}

	SkuActivity = &entity.Activity{
		Base:         entity.Base{ID: "activity_sku"},
		ChallengeID:  Challenge1.ID,
		Title:        "Complete the whole drive",
		RewardType:   entity.SkuReward,
		RewardAmount: 1,
		SkuID:        sql.NullString{Valid: true, String: "sku-bottle"},
	}

	NoRewardActivity = &entity.Activity{
		Base:        entity.Base{ID: "activity_plain"},
		ChallengeID: Challenge1.ID,
		Title:       "Share a photo",
	}
)

func CreateFixtureDb(ctx context.Context) {
	insertUsers(ctx)
	insertWorkspaces(ctx)
	insertChallenges(ctx)
}

func insertUsers(ctx context.Context) {
	userRepo := repository.NewUserRepository()
	for _, u := range []*entity.User{User1, User2, Manager1, Admin1, GlobalAdmin} {
		record := *u
		if err := userRepo.Create(ctx, &record); err != nil {
			panic(err)
		}
	}
}

func insertWorkspaces(ctx context.Context) {
	workspaceRepo := repository.NewWorkspaceRepository()
	memberRepo := repository.NewMemberRepository()

	for _, w := range []*entity.Workspace{Workspace1, Workspace2} {
		record := *w
		if err := workspaceRepo.Create(ctx, &record); err != nil {
			panic(err)
		}
	}

	members := []*entity.Member{
		{UserID: User1.ID, WorkspaceID: Workspace1.ID, Role: entity.MemberParticipant},
		{UserID: User2.ID, WorkspaceID: Workspace1.ID, Role: entity.MemberParticipant},
		{UserID: Manager1.ID, WorkspaceID: Workspace1.ID, Role: entity.MemberManager},
		{UserID: Admin1.ID, WorkspaceID: Workspace1.ID, Role: entity.MemberAdmin},
		{UserID: User1.ID, WorkspaceID: Workspace2.ID, Role: entity.MemberParticipant},
		{UserID: Admin1.ID, WorkspaceID: Workspace2.ID, Role: entity.MemberAdmin},
	}
	for _, m := range members {
		record := *m
		if err := memberRepo.Create(ctx, &record); err != nil {
			panic(err)
		}
	}
}

func insertChallenges(ctx context.Context) {
	challengeRepo := repository.NewChallengeRepository()
	activityRepo := repository.NewActivityRepository()
	assignmentRepo := repository.NewChallengeAssignmentRepository()

	record := *Challenge1
	if err := challengeRepo.Create(ctx, &record); err != nil {
		panic(err)
	}

	for _, a := range []*entity.Activity{PointsActivity, SkuActivity, NoRewardActivity} {
		activity := *a
		if err := activityRepo.Create(ctx, &activity); err != nil {
			panic(err)
		}
	}

	if err := assignmentRepo.Create(ctx, &entity.ChallengeAssignment{
		UserID:      Manager1.ID,
		ChallengeID: Challenge1.ID,
		WorkspaceID: Workspace1.ID,
	}); err != nil {
		panic(err)
	}
}
