package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ApplyOfferRequest struct {
	TicketID string
	QuoteID  string
	// MarkupPercents maps quote item IDs (string form) to raw percentage
	// inputs. Missing or unparseable entries degrade to zero.
	MarkupPercents map[string]string
	Note           string
}

type Service interface {
	// ApplyOffer converts the selected quote into a customer-facing offer:
	// per-item absolute markups, cumulative rounded total, adjustment rows,
	// and the ticket moved to offered.
	ApplyOffer(context.Context, ApplyOfferRequest) (OfferBreakdown, error)
	ListAdjustments(ctx context.Context, ticketID string) ([]OwnerQuoteAdjustment, error)
}

type Repository interface {
	Upsert(ctx context.Context, db *gorm.DB, adjustment *OwnerQuoteAdjustment) error
	ListByTicket(ctx context.Context, db *gorm.DB, orgID, ticketID snowflake.ID) ([]*OwnerQuoteAdjustment, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidID           = errors.New("invalid_id")
	ErrQuoteMismatch       = errors.New("quote_ticket_mismatch")
	ErrTicketClosed        = errors.New("ticket_closed")
	ErrNotFound            = errors.New("not_found")
)
