package entity

import "database/sql"

type Activity struct {
	Base

	ChallengeID string    `gorm:"index"`
	Challenge   Challenge `gorm:"foreignKey:ChallengeID"`

	Title        string
	Instructions string

	// Reward configuration. An empty RewardType means approving a
	// submission of this activity issues nothing.
	RewardType   RewardType
	RewardAmount int64
	SkuID        sql.NullString
}
