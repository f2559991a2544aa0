package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Supplier is a vendor profile. A supplier exists once and can serve several
// organizations through SupplierOrg rows.
type Supplier struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	Name      string            `gorm:"not null" json:"name"`
	Email     string            `gorm:"not null" json:"email"`
	Phone     string            `gorm:"column:phone" json:"phone,omitempty"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// SupplierOrg links a supplier to an organization it serves.
type SupplierOrg struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	SupplierID snowflake.ID `gorm:"not null;index:idx_supplier_orgs_pair,unique" json:"supplier_id"`
	OrgID      snowflake.ID `gorm:"not null;index:idx_supplier_orgs_pair,unique" json:"organization_id"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// SupplierProduct is a catalog entry a supplier offers inside one
// organization.
type SupplierProduct struct {
	ID          snowflake.ID    `gorm:"primaryKey" json:"id"`
	OrgID       snowflake.ID    `gorm:"not null;index" json:"organization_id"`
	SupplierID  snowflake.ID    `gorm:"not null;index" json:"supplier_id"`
	CategoryID  snowflake.ID    `gorm:"not null;index" json:"category_id"`
	Name        string          `gorm:"not null" json:"name"`
	Description string          `gorm:"column:description" json:"description,omitempty"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	Currency    string          `gorm:"not null;default:TRY" json:"currency"`
	Available   bool            `gorm:"not null;default:true" json:"available"`
	CreatedAt   time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
