package entity

import (
	"database/sql"

	"github.com/changemaker-lab/backend/pkg/enum"
)

type SubmissionStatus string

var (
	SubmissionPending         = enum.New(SubmissionStatus("pending"))
	SubmissionManagerApproved = enum.New(SubmissionStatus("manager_approved"))
	SubmissionNeedsRevision   = enum.New(SubmissionStatus("needs_revision"))
	SubmissionApproved        = enum.New(SubmissionStatus("approved"))
	SubmissionRejected        = enum.New(SubmissionStatus("rejected"))
)

// Submission is one participant's attempt at an activity. It is kept forever
// for audit, even after the participant leaves the workspace.
type Submission struct {
	Base

	UserID string `gorm:"index"`
	User   User   `gorm:"foreignKey:UserID"`

	ActivityID string   `gorm:"index"`
	Activity   Activity `gorm:"foreignKey:ActivityID"`

	EnrollmentID string
	Enrollment   Enrollment `gorm:"foreignKey:EnrollmentID"`

	Content string
	Status  SubmissionStatus

	ReviewerID  sql.NullString
	ReviewedAt  sql.NullTime
	ReviewNotes string
}
