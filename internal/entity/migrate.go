package entity

import (
	"context"

	"github.com/changemaker-lab/backend/pkg/xcontext"
)

func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&User{},
		&Workspace{},
		&Member{},
		&Challenge{},
		&Activity{},
		&ChallengeAssignment{},
		&Enrollment{},
		&Submission{},
		&RewardIssuance{},
	)
}
