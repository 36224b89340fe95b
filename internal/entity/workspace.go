package entity

type Workspace struct {
	Base

	Name      string `gorm:"unique"`
	CreatedBy string

	// SingleTierApproval skips the manager tier, letting an admin approve a
	// pending submission directly.
	SingleTierApproval bool

	RewardStackEnabled   bool
	RewardStackProgramID string
}
