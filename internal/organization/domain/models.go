package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Organization struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	Name      string            `gorm:"not null" json:"name"`
	Slug      string            `gorm:"not null;uniqueIndex" json:"slug"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Role identifies what a member is allowed to do inside an organization.
type Role string

const (
	RoleOwner    Role = "owner"
	RoleCustomer Role = "customer"
	RoleSupplier Role = "supplier"
)

func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleCustomer, RoleSupplier:
		return true
	}
	return false
}

// Membership binds an account to an organization under exactly one role.
// ProfileID points at the customer or supplier record backing the member,
// and stays zero for owners.
type Membership struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID     snowflake.ID `gorm:"not null;index:idx_memberships_org_account,unique" json:"organization_id"`
	AccountID snowflake.ID `gorm:"not null;index:idx_memberships_org_account,unique" json:"account_id"`
	Role      Role         `gorm:"not null" json:"role"`
	ProfileID snowflake.ID `gorm:"default:0" json:"profile_id,omitempty"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
