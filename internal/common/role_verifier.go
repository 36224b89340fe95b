package common

import (
	"context"
	"errors"
	"fmt"

	"github.com/changemaker-lab/backend/internal/entity"
	"github.com/changemaker-lab/backend/internal/repository"
	"github.com/changemaker-lab/backend/pkg/xcontext"
	"golang.org/x/exp/slices"
)

type GlobalRoleVerifier struct {
	userRepo repository.UserRepository
}

func NewGlobalRoleVerifier(userRepo repository.UserRepository) *GlobalRoleVerifier {
	return &GlobalRoleVerifier{userRepo: userRepo}
}

func (verifier *GlobalRoleVerifier) Verify(ctx context.Context, requiredRoles ...entity.GlobalRole) error {
	userID := xcontext.RequestUserID(ctx)
	u, err := verifier.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("user is not valid")
	}

	if !slices.Contains(requiredRoles, u.Role) {
		return errors.New("user role does not have permission")
	}

	return nil
}

// WorkspaceRoleVerifier checks the workspace-scoped role of the request
// user. Global admins pass every check.
type WorkspaceRoleVerifier struct {
	memberRepo repository.MemberRepository
	userRepo   repository.UserRepository
}

func NewWorkspaceRoleVerifier(
	memberRepo repository.MemberRepository,
	userRepo repository.UserRepository,
) *WorkspaceRoleVerifier {
	return &WorkspaceRoleVerifier{memberRepo: memberRepo, userRepo: userRepo}
}

func (verifier *WorkspaceRoleVerifier) Verify(
	ctx context.Context, workspaceID string, requiredRoles ...entity.MemberRole,
) error {
	member, err := verifier.Member(ctx, workspaceID)
	if err != nil {
		return err
	}

	if member == nil {
		// Global admin.
		return nil
	}

	if !slices.Contains(requiredRoles, member.Role) {
		return errors.New("user role does not have permission")
	}

	return nil
}

// Member returns the membership of the request user in a workspace. A nil
// membership with a nil error means the user is a global admin bypassing
// workspace roles.
func (verifier *WorkspaceRoleVerifier) Member(
	ctx context.Context, workspaceID string,
) (*entity.Member, error) {
	userID := xcontext.RequestUserID(ctx)
	u, err := verifier.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user is not valid")
	}

	if slices.Contains(entity.GlobalAdminRoles, u.Role) {
		return nil, nil
	}

	member, err := verifier.memberRepo.Get(ctx, userID, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("user is not a member of this workspace")
	}

	return member, nil
}
