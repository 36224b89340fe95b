package entity

import (
	"time"

	"gorm.io/gorm"
)

// ChallengeAssignment binds a manager to a challenge they may review.
type ChallengeAssignment struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	ChallengeID string    `gorm:"primaryKey"`
	Challenge   Challenge `gorm:"foreignKey:ChallengeID"`

	WorkspaceID string `gorm:"index"`
}
