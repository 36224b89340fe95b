package entity

import (
	"database/sql"

	"github.com/changemaker-lab/backend/pkg/enum"
)

type GlobalRole string

var (
	RoleSuperAdmin = enum.New(GlobalRole("super_admin"))
	RoleAdmin      = enum.New(GlobalRole("admin"))
	RoleUser       = enum.New(GlobalRole("user"))
)

var GlobalAdminRoles = []GlobalRole{RoleSuperAdmin, RoleAdmin}

type RewardStackSyncStatus string

var (
	SyncPending = enum.New(RewardStackSyncStatus("pending"))
	Synced      = enum.New(RewardStackSyncStatus("synced"))
	SyncFailed  = enum.New(RewardStackSyncStatus("failed"))
)

type User struct {
	Base

	Name  string `gorm:"unique"`
	Email string `gorm:"unique"`
	Role  GlobalRole

	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	ZipCode      string
	Country      string
	Phone        string

	RewardStackParticipantID sql.NullString
	RewardStackSyncStatus    RewardStackSyncStatus
	RewardStackLastSync      sql.NullTime
}

// HasCompleteAddress reports whether the user carries everything required to
// ship a physical reward. AddressLine2 and Phone are optional.
func (u *User) HasCompleteAddress() bool {
	return u.AddressLine1 != "" &&
		u.City != "" &&
		u.State != "" &&
		u.ZipCode != "" &&
		u.Country != ""
}
