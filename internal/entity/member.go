package entity

import (
	"time"

	"github.com/changemaker-lab/backend/pkg/enum"
	"gorm.io/gorm"
)

type MemberRole string

var (
	MemberAdmin       = enum.New(MemberRole("admin"))
	MemberManager     = enum.New(MemberRole("manager"))
	MemberParticipant = enum.New(MemberRole("participant"))
)

// ReviewRoles are the workspace roles allowed to review submissions.
var ReviewRoles = []MemberRole{MemberAdmin, MemberManager}

type Member struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	WorkspaceID string    `gorm:"primaryKey"`
	Workspace   Workspace `gorm:"foreignKey:WorkspaceID"`

	Role MemberRole
}
