package common

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/changemaker-lab/backend/internal/entity"
	"github.com/changemaker-lab/backend/internal/repository"
	"github.com/changemaker-lab/backend/pkg/api/rewardstack"
	"github.com/changemaker-lab/backend/pkg/xcontext"
)

// addressKeywords is the fixed set matched against provider error messages
// to decide whether a failed SKU issuance can be retried after the user
// corrects their shipping address.
var addressKeywords = []string{"address", "shipping", "state", "zip"}

// IsAddressRelatedError reports whether a provider error message points at a
// shipping address problem.
func IsAddressRelatedError(message string) bool {
	lowered := strings.ToLower(message)
	for _, keyword := range addressKeywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}

	return false
}

// SyncRewardStackParticipant guarantees the user has a remote participant
// identity in the workspace's program. It is idempotent: an already synced
// user returns the stored participant id without any provider call. Each
// actual sync attempt performs exactly one write to the user record.
func SyncRewardStackParticipant(
	ctx context.Context,
	userRepo repository.UserRepository,
	endpoint rewardstack.IEndpoint,
	user *entity.User,
	workspace *entity.Workspace,
) (string, error) {
	if user.RewardStackParticipantID.Valid && user.RewardStackSyncStatus == entity.Synced {
		return user.RewardStackParticipantID.String, nil
	}

	if !workspace.RewardStackEnabled || workspace.RewardStackProgramID == "" {
		return "", errors.New("rewardstack is not enabled for this workspace")
	}

	firstName, lastName, _ := strings.Cut(user.Name, " ")

	cfg := xcontext.Configs(ctx).RewardStack
	callCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	participant, err := endpoint.CreateParticipant(callCtx, workspace.RewardStackProgramID,
		rewardstack.CreateParticipantRequest{
			FirstName:    firstName,
			LastName:     lastName,
			Email:        user.Email,
			AddressLine1: user.AddressLine1,
			AddressLine2: user.AddressLine2,
			City:         user.City,
			State:        user.State,
			ZipCode:      user.ZipCode,
			Country:      user.Country,
			Phone:        user.Phone,
		})
	if err != nil {
		if updateErr := userRepo.UpdateRewardStackSync(
			ctx, user.ID, user.RewardStackParticipantID, entity.SyncFailed, time.Now(),
		); updateErr != nil {
			xcontext.Logger(ctx).Errorf("Cannot record sync failure: %v", updateErr)
		}

		return "", err
	}

	participantID := sql.NullString{String: participant.ID, Valid: true}
	if err := userRepo.UpdateRewardStackSync(
		ctx, user.ID, participantID, entity.Synced, time.Now(),
	); err != nil {
		return "", err
	}

	return participant.ID, nil
}
