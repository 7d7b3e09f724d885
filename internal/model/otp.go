package model

import (
	"time"

	"github.com/google/uuid"
)

// PasswordResetChallenge is the server-side record of an issued recovery OTP.
// At most one live challenge exists per user (issuing replaces any prior one),
// and any verification attempt deletes the row regardless of outcome.
//
// The stored secret is a base32 TOTP seed; codes are re-derived from it at
// verification time, so no issuance timestamp beyond CreatedAt is needed.
type PasswordResetChallenge struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Secret    string    `gorm:"type:varchar(64);not null" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
