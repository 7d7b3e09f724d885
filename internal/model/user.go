package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role enum constants. Role is fixed once a role profile exists for the user;
// changing it would orphan the one-to-one profile link.
const (
	RoleAdmin    = "Admin"
	RoleSupplier = "Supplier"
	RoleCustomer = "Customer"
	RoleBiller   = "Biller"
)

// Gender enum constants
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// User represents one authenticated principal. Email, username and phone are
// each globally unique; the password column only ever holds a bcrypt hash.
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FullName     string         `gorm:"type:varchar(100);not null" json:"full_name"`
	Username     string         `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone        string         `gorm:"type:varchar(15);uniqueIndex;not null" json:"phone"`
	Gender       string         `gorm:"type:varchar(10)" json:"gender"` // male, female, other
	Role         string         `gorm:"type:varchar(20);not null" json:"role"`
	Password     string         `gorm:"type:varchar(255);not null" json:"-"` // bcrypt hash, never serialized
	ProfileImage string         `gorm:"type:varchar(255)" json:"profile_image,omitempty"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"` // GORM soft delete; admin destroy never hard-deletes
}

// RefreshToken stores long-lived tokens allowing users to request new access tokens
type RefreshToken struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Token     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"token"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
