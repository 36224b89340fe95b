package entity

import (
	"database/sql"
	"time"
)

type Challenge struct {
	Base

	WorkspaceID string    `gorm:"index"`
	Workspace   Workspace `gorm:"foreignKey:WorkspaceID"`

	Title       string
	Description string
	CreatedBy   string

	StartsAt sql.NullTime
	EndsAt   sql.NullTime
}

// IsOpen reports whether the challenge accepts submissions at the given
// time. Unset bounds leave the challenge open on that side.
func (c *Challenge) IsOpen(now time.Time) bool {
	if c.StartsAt.Valid && now.Before(c.StartsAt.Time) {
		return false
	}

	if c.EndsAt.Valid && now.After(c.EndsAt.Time) {
		return false
	}

	return true
}
