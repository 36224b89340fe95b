package entity

type Enrollment struct {
	Base

	UserID string `gorm:"index:idx_enrollment_user_challenge,unique"`
	User   User   `gorm:"foreignKey:UserID"`

	ChallengeID string    `gorm:"index:idx_enrollment_user_challenge,unique"`
	Challenge   Challenge `gorm:"foreignKey:ChallengeID"`
}
