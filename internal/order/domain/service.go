package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	pricingdomain "github.com/smallbiznis/procura/internal/pricing/domain"
	quotedomain "github.com/smallbiznis/procura/internal/quote/domain"
	ticketdomain "github.com/smallbiznis/procura/internal/ticket/domain"
	"gorm.io/gorm"
)

// CreateFromTicketInput carries everything needed to snapshot an accepted
// ticket into an order. Adjustments map quote item IDs to absolute markups.
type CreateFromTicketInput struct {
	Ticket      ticketdomain.Ticket
	Quote       quotedomain.Quote
	Items       []quotedomain.QuoteItem
	Adjustments []pricingdomain.OwnerQuoteAdjustment
}

type GetOrderRequest struct {
	ID string
}

type ListOrderRequest struct {
	CustomerID string
	SupplierID string
	Status     Status
}

type OrderWithItems struct {
	Order Order       `json:"order"`
	Items []OrderItem `json:"items"`
}

type SetExpectedDeliveryRequest struct {
	ID        string
	DeliverAt time.Time
}

type UpdateStatusRequest struct {
	ID     string
	Status Status
}

type Service interface {
	// CreateFromTicket runs inside the caller's transaction so ticket
	// acceptance and order creation commit together.
	CreateFromTicket(ctx context.Context, tx *gorm.DB, orgID snowflake.ID, input CreateFromTicketInput) (Order, error)

	GetByID(context.Context, GetOrderRequest) (OrderWithItems, error)
	List(context.Context, ListOrderRequest) ([]Order, error)

	Acknowledge(ctx context.Context, id string) (Order, error)
	SetExpectedDelivery(context.Context, SetExpectedDeliveryRequest) (Order, error)
	MarkDelivered(ctx context.Context, id string) (Order, error)
	UpdateStatus(context.Context, UpdateStatusRequest) (Order, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidID           = errors.New("invalid_id")
	ErrInvalidStatus       = errors.New("invalid_status")
	ErrInvalidTransition   = errors.New("invalid_status_transition")
	ErrAlreadyExists       = errors.New("order_already_exists")
	ErrNotFound            = errors.New("not_found")
)

// allowedTransitions is the order state machine. Cancelled and completed are
// terminal.
var allowedTransitions = map[Status][]Status{
	StatusNew:        {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusCompleted, StatusCancelled},
}

func CanTransition(from, to Status) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
