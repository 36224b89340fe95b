package entity

import (
	"database/sql"

	"github.com/changemaker-lab/backend/pkg/enum"
)

type RewardType string

var (
	PointsReward   = enum.New(RewardType("points"))
	SkuReward      = enum.New(RewardType("sku"))
	MonetaryReward = enum.New(RewardType("monetary"))
)

type RewardIssuanceStatus string

var (
	IssuancePending   = enum.New(RewardIssuanceStatus("pending"))
	IssuanceIssued    = enum.New(RewardIssuanceStatus("issued"))
	IssuanceFailed    = enum.New(RewardIssuanceStatus("failed"))
	IssuanceCancelled = enum.New(RewardIssuanceStatus("cancelled"))
)

// RewardIssuance records one reward owed to one user. It is a financial
// record and is never deleted.
type RewardIssuance struct {
	Base

	UserID string `gorm:"index"`
	User   User   `gorm:"foreignKey:UserID"`

	WorkspaceID string    `gorm:"index"`
	Workspace   Workspace `gorm:"foreignKey:WorkspaceID"`

	ChallengeID sql.NullString
	Challenge   Challenge `gorm:"foreignKey:ChallengeID"`

	// SubmissionID is unique so approving the same submission twice can
	// never double-issue.
	SubmissionID sql.NullString `gorm:"unique"`
	Submission   Submission     `gorm:"foreignKey:SubmissionID"`

	Type   RewardType
	Amount int64
	SkuID  sql.NullString

	Status RewardIssuanceStatus

	RewardStackStatus        sql.NullString
	RewardStackTransactionID sql.NullString
	RewardStackAdjustmentID  sql.NullString
	RewardStackErrorMessage  sql.NullString

	// ClaimedAt marks an in-flight issuance attempt. It is set with a
	// conditional update so only one attempt can own the record at a time.
	ClaimedAt  sql.NullTime
	RetryCount int
	IssuedAt   sql.NullTime
}
