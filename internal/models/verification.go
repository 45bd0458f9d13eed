package model

import (
	"time"

	"promote-social.com/promote-social/internal/constants"
)

type PlatformVerification struct {
	ID                 string             `gorm:"primaryKey;size:36" json:"id"`
	UserID             string             `gorm:"size:36;not null;index:idx_verifications_user_platform" json:"user_id"`
	Platform           constants.Platform `gorm:"type:varchar(20);not null;index:idx_verifications_user_platform" json:"platform"`
	PlatformUsername   string             `gorm:"not null" json:"platform_username"`
	VerificationPhrase string             `gorm:"not null" json:"verification_phrase"`
	Verified           bool               `gorm:"not null;default:false" json:"verified"`
	VerifiedAt         *time.Time         `json:"verified_at"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}
