package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CustomerGroup enum constants
const (
	CustomerGroupGeneral   = "general"
	CustomerGroupWalkIn    = "walkin"
	CustomerGroupWholesale = "wholesale"
)

// Address holds the postal fields shared by role profiles and warehouses.
type Address struct {
	Country string `gorm:"type:varchar(50);default:Nepal" json:"country"`
	City    string `gorm:"type:varchar(50);default:Kathmandu" json:"city"`
	Street  string `gorm:"type:varchar(50)" json:"street,omitempty"`
	ZipCode int    `json:"zip_code,omitempty"`
}

// AuditStamp records who created and last touched a row. Nullable so that
// self-registration and seed rows work without an acting principal.
type AuditStamp struct {
	CreatedByID  *uuid.UUID `gorm:"type:uuid" json:"created_by,omitempty"`
	ModifiedByID *uuid.UUID `gorm:"type:uuid" json:"modified_by,omitempty"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// Supplier is the role profile for accounts with Role == RoleSupplier.
// Exactly one per user; deleting the user cascades to the profile.
type Supplier struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	User         User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user"`
	Company      string    `gorm:"type:varchar(100);not null" json:"company"`
	SupplierCode string    `gorm:"type:varchar(50);not null" json:"supplier_code"` // server-minted, e.g. SUP-3
	Address
	AuditStamp
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Customer is the role profile for accounts with Role == RoleCustomer.
type Customer struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	User          User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user"`
	SupplierID    uuid.UUID `gorm:"type:uuid;not null;index" json:"supplier_id"`
	Supplier      Supplier  `gorm:"foreignKey:SupplierID;constraint:OnDelete:CASCADE" json:"supplier"`
	CustomerGroup string    `gorm:"type:varchar(10);not null" json:"customer_group"` // general, walkin, wholesale
	RewardPoint   int       `gorm:"not null;default:0;check:reward_point >= 0" json:"reward_point"`
	Address
	AuditStamp
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Warehouse is a physical location billers may be attached to.
type Warehouse struct {
	ID    uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name  string    `gorm:"type:varchar(100);not null" json:"name"`
	Phone string    `gorm:"type:varchar(15);uniqueIndex;not null" json:"phone"`
	Email string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Address
	AuditStamp
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Biller is the role profile for accounts with Role == RoleBiller. The
// warehouse link is nullable: deleting a warehouse detaches its billers
// instead of cascading.
type Biller struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	User        User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user"`
	NID         string     `gorm:"type:varchar(13);not null" json:"nid"`
	WarehouseID *uuid.UUID `gorm:"type:uuid" json:"warehouse_id,omitempty"`
	Warehouse   *Warehouse `gorm:"foreignKey:WarehouseID;constraint:OnDelete:SET NULL" json:"warehouse,omitempty"`
	BillerCode  string     `gorm:"type:varchar(50);not null" json:"biller_code"` // server-minted, e.g. BIL-3
	Address
	AuditStamp
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
