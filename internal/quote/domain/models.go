package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Quote is a supplier's response to a ticket. One quote per (ticket,
// supplier) pair; resubmission replaces the line items wholesale.
type Quote struct {
	ID         snowflake.ID    `gorm:"primaryKey" json:"id"`
	OrgID      snowflake.ID    `gorm:"not null;index" json:"organization_id"`
	TicketID   snowflake.ID    `gorm:"not null;index:idx_quotes_ticket_supplier,unique" json:"ticket_id"`
	SupplierID snowflake.ID    `gorm:"not null;index:idx_quotes_ticket_supplier,unique" json:"supplier_id"`
	Currency   string          `gorm:"not null;default:TRY" json:"currency"`
	Amount     decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"amount"`
	Note       string          `gorm:"column:note" json:"note,omitempty"`
	CreatedAt  time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// QuoteItem is one priced line of a quote.
type QuoteItem struct {
	ID          snowflake.ID    `gorm:"primaryKey" json:"id"`
	QuoteID     snowflake.ID    `gorm:"not null;index" json:"quote_id"`
	ProductID   snowflake.ID    `gorm:"default:0" json:"product_id,omitempty"`
	Description string          `gorm:"not null" json:"description"`
	Quantity    int64           `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(12,4);not null" json:"unit_price"`
	Position    int             `gorm:"not null;default:0" json:"position"`
	CreatedAt   time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}
