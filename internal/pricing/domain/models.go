package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// OwnerQuoteAdjustment stores the absolute markup the owner applied to one
// quote line item. One row per (ticket, quote item) pair, replaced on every
// offer recalculation.
type OwnerQuoteAdjustment struct {
	ID             snowflake.ID    `gorm:"primaryKey" json:"id"`
	OrgID          snowflake.ID    `gorm:"not null;index" json:"organization_id"`
	TicketID       snowflake.ID    `gorm:"not null;index:idx_adjustments_ticket_item,unique" json:"ticket_id"`
	QuoteItemID    snowflake.ID    `gorm:"not null;index:idx_adjustments_ticket_item,unique" json:"quote_item_id"`
	Markup         decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"markup"`
	SendToCustomer bool            `gorm:"not null;default:true" json:"send_to_customer"`
	CreatedAt      time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// OfferItem is one line of the computed customer-facing breakdown.
type OfferItem struct {
	QuoteItemID   snowflake.ID    `json:"quote_item_id"`
	Description   string          `json:"description"`
	Quantity      int64           `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	LineTotal     decimal.Decimal `json:"line_total"`
	MarkupPercent decimal.Decimal `json:"markup_percent"`
	MarkupAmount  decimal.Decimal `json:"markup_amount"`
}

// OfferBreakdown is the result of applying markups to a selected quote.
type OfferBreakdown struct {
	TicketID snowflake.ID    `json:"ticket_id"`
	QuoteID  snowflake.ID    `json:"quote_id"`
	Items    []OfferItem     `json:"items"`
	Total    decimal.Decimal `json:"total"`
}
