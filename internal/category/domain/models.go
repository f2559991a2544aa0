package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Category struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID       snowflake.ID `gorm:"not null;index" json:"organization_id"`
	ParentID    snowflake.ID `gorm:"default:0;index" json:"parent_id,omitempty"`
	Name        string       `gorm:"not null" json:"name"`
	Slug        string       `gorm:"not null;index:idx_categories_org_slug,unique" json:"slug"`
	Description string       `gorm:"column:description" json:"description,omitempty"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// CategorySupplier marks a supplier as a default recipient for tickets in a
// category. The router falls back to these rows when no rule matches.
type CategorySupplier struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID      snowflake.ID `gorm:"not null;index" json:"organization_id"`
	CategoryID snowflake.ID `gorm:"not null;index:idx_category_suppliers_pair,unique" json:"category_id"`
	SupplierID snowflake.ID `gorm:"not null;index:idx_category_suppliers_pair,unique" json:"supplier_id"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// FieldType constrains what a form field accepts.
type FieldType string

const (
	FieldTypeText    FieldType = "text"
	FieldTypeNumber  FieldType = "number"
	FieldTypeChoice  FieldType = "choice"
	FieldTypeBoolean FieldType = "boolean"
)

func (t FieldType) Valid() bool {
	switch t {
	case FieldTypeText, FieldTypeNumber, FieldTypeChoice, FieldTypeBoolean:
		return true
	}
	return false
}

// CategoryFormField describes one attribute a ticket in this category may
// carry. Key is derived from the label and used in ticket extra data.
type CategoryFormField struct {
	ID         snowflake.ID                `gorm:"primaryKey" json:"id"`
	OrgID      snowflake.ID                `gorm:"not null;index" json:"organization_id"`
	CategoryID snowflake.ID                `gorm:"not null;index:idx_form_fields_category_key,unique" json:"category_id"`
	Key        string                      `gorm:"not null;index:idx_form_fields_category_key,unique" json:"key"`
	Label      string                      `gorm:"not null" json:"label"`
	Type       FieldType                   `gorm:"not null" json:"type"`
	Required   bool                        `gorm:"not null;default:false" json:"required"`
	Choices    datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"choices,omitempty"`
	Position   int                         `gorm:"not null;default:0" json:"position"`
	CreatedAt  time.Time                   `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time                   `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
