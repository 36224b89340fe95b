package client

import (
	"context"

	"github.com/changemaker-lab/backend/config"
	"github.com/changemaker-lab/backend/internal/entity"
	"github.com/changemaker-lab/backend/pkg/xcontext"
)

// EmailSender notifies users about reward shipping. Delivery transport is an
// external collaborator; failures must never affect the reward state
// machine.
type EmailSender interface {
	SendShippingConfirmation(ctx context.Context, user *entity.User, issuance *entity.RewardIssuance) error
}

type logEmailSender struct {
	sender string
}

func NewLogEmailSender(cfg config.EmailConfigs) *logEmailSender {
	return &logEmailSender{sender: cfg.Sender}
}

func (s *logEmailSender) SendShippingConfirmation(
	ctx context.Context, user *entity.User, issuance *entity.RewardIssuance,
) error {
	xcontext.Logger(ctx).Infof(
		"shipping confirmation from %s to %s for reward %s", s.sender, user.Email, issuance.ID)
	return nil
}
