package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Status is the ticket lifecycle state.
type Status string

const (
	StatusOpen     Status = "open"
	StatusOffered  Status = "offered"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
	StatusClosed   Status = "closed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusOffered, StatusAccepted, StatusRejected, StatusClosed:
		return true
	}
	return false
}

// Ticket is a purchase request submitted by a customer. ExtraData holds the
// category's dynamic attributes, validated against the form fields at
// creation time. SupplierToken grants quote access without a session.
type Ticket struct {
	ID              snowflake.ID      `gorm:"primaryKey" json:"id"`
	OrgID           snowflake.ID      `gorm:"not null;index" json:"organization_id"`
	CustomerID      snowflake.ID      `gorm:"not null;index" json:"customer_id"`
	CategoryID      snowflake.ID      `gorm:"not null;index" json:"category_id"`
	Title           string            `gorm:"not null" json:"title"`
	Description     string            `gorm:"column:description" json:"description,omitempty"`
	DesiredQuantity int64             `gorm:"not null;default:0" json:"desired_quantity"`
	ExtraData       datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"extra_data,omitempty"`
	Status          Status            `gorm:"not null;default:open;index" json:"status"`
	SelectedQuoteID snowflake.ID      `gorm:"default:0" json:"selected_quote_id,omitempty"`
	GlobalMarkup    decimal.Decimal   `gorm:"type:numeric(12,2);not null;default:0" json:"global_markup"`
	OfferedPrice    decimal.Decimal   `gorm:"type:numeric(12,2);not null;default:0" json:"offered_price"`
	OfferedNote     string            `gorm:"column:offered_note" json:"offered_note,omitempty"`
	SupplierToken   string            `gorm:"not null;uniqueIndex" json:"-"`
	CreatedAt       time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TicketComment is a message on the ticket thread.
type TicketComment struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID      snowflake.ID `gorm:"not null;index" json:"organization_id"`
	TicketID   snowflake.ID `gorm:"not null;index" json:"ticket_id"`
	AuthorRole string       `gorm:"not null" json:"author_role"`
	Body       string       `gorm:"not null" json:"body"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}
