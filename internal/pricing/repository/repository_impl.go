package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/procura/internal/pricing/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, adjustment *domain.OwnerQuoteAdjustment) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO owner_quote_adjustments (id, org_id, ticket_id, quote_item_id, markup, send_to_customer, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (ticket_id, quote_item_id) DO UPDATE SET
		   markup = excluded.markup,
		   send_to_customer = excluded.send_to_customer,
		   updated_at = excluded.updated_at`,
		adjustment.ID,
		adjustment.OrgID,
		adjustment.TicketID,
		adjustment.QuoteItemID,
		adjustment.Markup,
		adjustment.SendToCustomer,
		adjustment.CreatedAt,
		adjustment.UpdatedAt,
	).Error
}

func (r *repo) ListByTicket(ctx context.Context, db *gorm.DB, orgID, ticketID snowflake.ID) ([]*domain.OwnerQuoteAdjustment, error) {
	var adjustments []*domain.OwnerQuoteAdjustment
	err := db.WithContext(ctx).
		Model(&domain.OwnerQuoteAdjustment{}).
		Where("org_id = ? AND ticket_id = ?", orgID, ticketID).
		Order("quote_item_id asc").
		Find(&adjustments).Error
	if err != nil {
		return nil, err
	}
	return adjustments, nil
}
