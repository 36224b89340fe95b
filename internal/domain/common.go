package domain

import (
	"context"
	"database/sql"
	"errors"

	"github.com/changemaker-lab/backend/internal/entity"
	"github.com/changemaker-lab/backend/pkg/api/rewardstack"
	"github.com/changemaker-lab/backend/pkg/enum"
	"github.com/changemaker-lab/backend/pkg/errorx"
	"github.com/changemaker-lab/backend/pkg/xcontext"
)

func validateListParams(ctx context.Context, offset, limit int) (int, int, error) {
	cfg := xcontext.Configs(ctx).ApiServer
	if limit == 0 {
		limit = cfg.DefaultLimit
	}

	if limit < 0 {
		return 0, 0, errorx.New(errorx.BadRequest, "Limit must be positive")
	}

	if limit > cfg.MaxLimit {
		return 0, 0, errorx.New(errorx.BadRequest, "Exceed the maximum of limit")
	}

	if offset < 0 {
		return 0, 0, errorx.New(errorx.BadRequest, "Offset must not be negative")
	}

	return offset, limit, nil
}

func enumToIssuanceStatus(s string) (entity.RewardIssuanceStatus, error) {
	return enum.ToEnum[entity.RewardIssuanceStatus](s)
}

// providerMessage returns the message the provider reported, or a generic
// one for network and decoding failures whose text is not safe to persist.
func providerMessage(err error) string {
	var providerErr rewardstack.Error
	if errors.As(err, &providerErr) {
		return providerErr.Message
	}

	return "RewardSTACK is unavailable"
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}

	return sql.NullString{Valid: true, String: s}
}
