package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*Quote, error)
	FindByTicketSupplier(ctx context.Context, db *gorm.DB, orgID, ticketID, supplierID snowflake.ID) (*Quote, error)
	ListByTicket(ctx context.Context, db *gorm.DB, orgID, ticketID snowflake.ID) ([]*Quote, error)

	// Upsert inserts the quote or, on the (ticket, supplier) conflict,
	// refreshes amount, currency and note in place.
	Upsert(ctx context.Context, db *gorm.DB, quote *Quote) error
	ReplaceItems(ctx context.Context, db *gorm.DB, quoteID snowflake.ID, items []*QuoteItem) error
	ListItems(ctx context.Context, db *gorm.DB, quoteID snowflake.ID) ([]*QuoteItem, error)
}
