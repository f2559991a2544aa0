package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Status is the order lifecycle state.
type Status string

const (
	StatusNew        Status = "new"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusProcessing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Order is issued when a customer accepts an offered ticket. The item rows
// snapshot the quote lines plus the owner markups at acceptance time.
type Order struct {
	ID                 snowflake.ID    `gorm:"primaryKey" json:"id"`
	OrgID              snowflake.ID    `gorm:"not null;index" json:"organization_id"`
	TicketID           snowflake.ID    `gorm:"not null;uniqueIndex" json:"ticket_id"`
	QuoteID            snowflake.ID    `gorm:"not null" json:"quote_id"`
	CustomerID         snowflake.ID    `gorm:"not null;index" json:"customer_id"`
	SupplierID         snowflake.ID    `gorm:"not null;index" json:"supplier_id"`
	Status             Status          `gorm:"not null;default:new;index" json:"status"`
	Currency           string          `gorm:"not null;default:TRY" json:"currency"`
	TotalAmount        decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"total_amount"`
	ExpectedDeliveryAt *time.Time      `gorm:"column:expected_delivery_at" json:"expected_delivery_at,omitempty"`
	DeliveredAt        *time.Time      `gorm:"column:delivered_at" json:"delivered_at,omitempty"`
	AcknowledgedAt     *time.Time      `gorm:"column:acknowledged_at" json:"acknowledged_at,omitempty"`
	CreatedAt          time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

type OrderItem struct {
	ID          snowflake.ID    `gorm:"primaryKey" json:"id"`
	OrderID     snowflake.ID    `gorm:"not null;index" json:"order_id"`
	QuoteItemID snowflake.ID    `gorm:"default:0" json:"quote_item_id,omitempty"`
	Description string          `gorm:"not null" json:"description"`
	Quantity    int64           `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(12,4);not null" json:"unit_price"`
	Markup      decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"markup"`
	LineTotal   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"line_total"`
	CreatedAt   time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}
