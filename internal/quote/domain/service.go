package domain

import (
	"context"
	"errors"
)

type SubmitItemInput struct {
	ProductID   string
	Description string
	Quantity    int64
	UnitPrice   string
}

type SubmitQuoteRequest struct {
	TicketID   string
	SupplierID string
	Currency   string
	Note       string
	// Amount is only honored when Items is empty (flat-amount quote).
	Amount string
	Items  []SubmitItemInput
}

type GetQuoteRequest struct {
	ID string
}

type ListQuoteRequest struct {
	TicketID string
}

type QuoteWithItems struct {
	Quote Quote       `json:"quote"`
	Items []QuoteItem `json:"items"`
}

type Service interface {
	// Submit creates or wholesale-replaces the supplier's quote for a
	// ticket. The supplier must be in the ticket's routed set.
	Submit(context.Context, SubmitQuoteRequest) (QuoteWithItems, error)
	GetByID(context.Context, GetQuoteRequest) (QuoteWithItems, error)
	ListByTicket(context.Context, ListQuoteRequest) ([]QuoteWithItems, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidID           = errors.New("invalid_id")
	ErrInvalidQuantity     = errors.New("invalid_quantity")
	ErrInvalidPrice        = errors.New("invalid_price")
	ErrInvalidAmount       = errors.New("invalid_amount")
	ErrTicketNotOpen       = errors.New("ticket_not_open")
	ErrNotAssigned         = errors.New("supplier_not_assigned")
	ErrForeignProduct      = errors.New("product_not_owned_by_supplier")
	ErrRateLimited         = errors.New("rate_limited")
	ErrNotFound            = errors.New("not_found")
)
