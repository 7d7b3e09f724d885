package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionRegisterUser   = "REGISTER_USER"
	ActionCreateUser     = "CREATE_USER"
	ActionUpdateUser     = "UPDATE_USER"
	ActionDeleteUser     = "DELETE_USER"
	ActionChangePassword = "CHANGE_PASSWORD"

	ActionCreateSupplier = "CREATE_SUPPLIER"
	ActionCreateCustomer = "CREATE_CUSTOMER"
	ActionCreateBiller   = "CREATE_BILLER"
	ActionUpdateProfile  = "UPDATE_PROFILE"
	ActionDeleteProfile  = "DELETE_PROFILE"

	ActionCreateWarehouse = "CREATE_WAREHOUSE"
	ActionUpdateWarehouse = "UPDATE_WAREHOUSE"
	ActionDeleteWarehouse = "DELETE_WAREHOUSE"

	ActionRequestPasswordReset = "REQUEST_PASSWORD_RESET"
	ActionResetPassword        = "RESET_PASSWORD"
)

// AuditLog tracks Who, What, and When for account lifecycle changes
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // nil for unauthenticated flows (register, forgot password)
	User       *User      `gorm:"foreignKey:UserID" json:"user"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"`
	Details    string     `gorm:"type:jsonb" json:"details"` // serialized JSON payload of the action
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
