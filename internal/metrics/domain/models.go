package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// CustomerFeedback is a post-delivery survey a customer files against a
// completed order. Ratings are on a 1-5 scale.
type CustomerFeedback struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID         snowflake.ID `gorm:"not null;index" json:"organization_id"`
	OrderID       snowflake.ID `gorm:"not null;uniqueIndex" json:"order_id"`
	CustomerID    snowflake.ID `gorm:"not null;index" json:"customer_id"`
	SupplierID    snowflake.ID `gorm:"not null;index" json:"supplier_id"`
	Quality       int          `gorm:"not null" json:"quality"`
	Communication int          `gorm:"not null" json:"communication"`
	DeliveryTime  int          `gorm:"not null" json:"delivery_time"`
	Satisfaction  int          `gorm:"not null" json:"satisfaction"`
	Comment       string       `gorm:"column:comment" json:"comment,omitempty"`
	CreatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// SubjectType says whether an owner review targets a supplier or a customer.
type SubjectType string

const (
	SubjectSupplier SubjectType = "supplier"
	SubjectCustomer SubjectType = "customer"
)

// OwnerReview is the organization owner's 1-5 rating of a supplier or
// customer.
type OwnerReview struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID       snowflake.ID `gorm:"not null;index" json:"organization_id"`
	SubjectType SubjectType  `gorm:"not null" json:"subject_type"`
	SubjectID   snowflake.ID `gorm:"not null;index" json:"subject_id"`
	Rating      int          `gorm:"not null" json:"rating"`
	Comment     string       `gorm:"column:comment" json:"comment,omitempty"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// SupplierMetrics holds raw counters and the derived 0-100 score for one
// supplier within one organization. Rows are fully replaced on recompute and
// never touched by the live request path.
type SupplierMetrics struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID      snowflake.ID `gorm:"not null;index:idx_supplier_metrics_pair,unique" json:"organization_id"`
	SupplierID snowflake.ID `gorm:"not null;index:idx_supplier_metrics_pair,unique" json:"supplier_id"`

	TotalQuotes        int64   `gorm:"not null;default:0" json:"total_quotes"`
	AcceptedQuotes     int64   `gorm:"not null;default:0" json:"accepted_quotes"`
	WinRate            float64 `gorm:"not null;default:0" json:"win_rate"`
	AvgResponseHours   float64 `gorm:"not null;default:0" json:"avg_response_hours"`
	TotalOrders        int64   `gorm:"not null;default:0" json:"total_orders"`
	CompletedOrders    int64   `gorm:"not null;default:0" json:"completed_orders"`
	DeliveredOrders    int64   `gorm:"not null;default:0" json:"delivered_orders"`
	OnTimeDeliveries   int64   `gorm:"not null;default:0" json:"on_time_deliveries"`
	OnTimeDeliveryRate float64 `gorm:"not null;default:0" json:"on_time_delivery_rate"`

	FeedbackCount    int64   `gorm:"not null;default:0" json:"feedback_count"`
	AvgQuality       float64 `gorm:"not null;default:0" json:"avg_quality"`
	AvgCommunication float64 `gorm:"not null;default:0" json:"avg_communication"`
	AvgDeliveryTime  float64 `gorm:"not null;default:0" json:"avg_delivery_time"`
	AvgSatisfaction  float64 `gorm:"not null;default:0" json:"avg_satisfaction"`

	OwnerReviewCount int64   `gorm:"not null;default:0" json:"owner_review_count"`
	OwnerRatingAvg   float64 `gorm:"not null;default:0" json:"owner_rating_avg"`

	OverallScore float64   `gorm:"not null;default:0" json:"overall_score"`
	ComputedAt   time.Time `gorm:"not null" json:"computed_at"`
}

// CustomerMetrics is the customer-side counterpart of SupplierMetrics.
type CustomerMetrics struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID      snowflake.ID `gorm:"not null;index:idx_customer_metrics_pair,unique" json:"organization_id"`
	CustomerID snowflake.ID `gorm:"not null;index:idx_customer_metrics_pair,unique" json:"customer_id"`

	TotalTickets     int64           `gorm:"not null;default:0" json:"total_tickets"`
	AcceptedTickets  int64           `gorm:"not null;default:0" json:"accepted_tickets"`
	ConversionRate   float64         `gorm:"not null;default:0" json:"conversion_rate"`
	TotalOrders      int64           `gorm:"not null;default:0" json:"total_orders"`
	CancelledOrders  int64           `gorm:"not null;default:0" json:"cancelled_orders"`
	CancellationRate float64         `gorm:"not null;default:0" json:"cancellation_rate"`
	AvgResponseHours float64         `gorm:"not null;default:0" json:"avg_response_hours"`
	TotalSpent       decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"total_spent"`
	AvgOrderValue    decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"avg_order_value"`

	OwnerReviewCount int64   `gorm:"not null;default:0" json:"owner_review_count"`
	OwnerRatingAvg   float64 `gorm:"not null;default:0" json:"owner_rating_avg"`

	OverallScore float64   `gorm:"not null;default:0" json:"overall_score"`
	ComputedAt   time.Time `gorm:"not null" json:"computed_at"`
}
