package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// RoutingRule decides which suppliers receive a ticket. Rules are evaluated
// per category in priority order and every matching rule contributes its
// supplier set.
type RoutingRule struct {
	ID          snowflake.ID                `gorm:"primaryKey" json:"id"`
	OrgID       snowflake.ID                `gorm:"not null;index" json:"organization_id"`
	CategoryID  snowflake.ID                `gorm:"not null;index" json:"category_id"`
	Name        string                      `gorm:"not null" json:"name"`
	Priority    int                         `gorm:"not null;default:0" json:"priority"`
	Active      bool                        `gorm:"not null;default:true" json:"active"`
	MinQuantity *int64                      `gorm:"column:min_quantity" json:"min_quantity,omitempty"`
	MaxQuantity *int64                      `gorm:"column:max_quantity" json:"max_quantity,omitempty"`
	FieldNames  datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"field_names,omitempty"`
	Operator    string                      `gorm:"column:operator" json:"operator,omitempty"`
	FieldValues datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"field_values,omitempty"`
	CreatedAt   time.Time                   `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time                   `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// RuleSupplier attaches an eligible supplier to a rule.
type RuleSupplier struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	RuleID     snowflake.ID `gorm:"not null;index:idx_rule_suppliers_pair,unique" json:"rule_id"`
	SupplierID snowflake.ID `gorm:"not null;index:idx_rule_suppliers_pair,unique" json:"supplier_id"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TicketFacts is the slice of a ticket the matcher looks at.
type TicketFacts struct {
	OrgID           snowflake.ID
	CategoryID      snowflake.ID
	DesiredQuantity int64
	Attributes      map[string]any
}
