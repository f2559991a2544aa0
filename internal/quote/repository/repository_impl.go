package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/procura/internal/quote/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*domain.Quote, error) {
	var quote domain.Quote
	err := db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		Take(&quote).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &quote, nil
}

func (r *repo) FindByTicketSupplier(ctx context.Context, db *gorm.DB, orgID, ticketID, supplierID snowflake.ID) (*domain.Quote, error) {
	var quote domain.Quote
	err := db.WithContext(ctx).
		Where("org_id = ? AND ticket_id = ? AND supplier_id = ?", orgID, ticketID, supplierID).
		Take(&quote).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &quote, nil
}

func (r *repo) ListByTicket(ctx context.Context, db *gorm.DB, orgID, ticketID snowflake.ID) ([]*domain.Quote, error) {
	var quotes []*domain.Quote
	err := db.WithContext(ctx).
		Model(&domain.Quote{}).
		Where("org_id = ? AND ticket_id = ?", orgID, ticketID).
		Order("created_at asc, id asc").
		Find(&quotes).Error
	if err != nil {
		return nil, err
	}
	return quotes, nil
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, quote *domain.Quote) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO quotes (id, org_id, ticket_id, supplier_id, currency, amount, note, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (ticket_id, supplier_id) DO UPDATE SET
		   currency = excluded.currency,
		   amount = excluded.amount,
		   note = excluded.note,
		   updated_at = excluded.updated_at`,
		quote.ID,
		quote.OrgID,
		quote.TicketID,
		quote.SupplierID,
		quote.Currency,
		quote.Amount,
		quote.Note,
		quote.CreatedAt,
		quote.UpdatedAt,
	).Error
}

func (r *repo) ReplaceItems(ctx context.Context, db *gorm.DB, quoteID snowflake.ID, items []*domain.QuoteItem) error {
	if err := db.WithContext(ctx).Exec(
		`DELETE FROM quote_items WHERE quote_id = ?`,
		quoteID,
	).Error; err != nil {
		return err
	}
	for _, item := range items {
		if item == nil {
			continue
		}
		err := db.WithContext(ctx).Exec(
			`INSERT INTO quote_items (id, quote_id, product_id, description, quantity, unit_price, position, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			item.ID,
			item.QuoteID,
			item.ProductID,
			item.Description,
			item.Quantity,
			item.UnitPrice,
			item.Position,
			item.CreatedAt,
		).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *repo) ListItems(ctx context.Context, db *gorm.DB, quoteID snowflake.ID) ([]*domain.QuoteItem, error) {
	var items []*domain.QuoteItem
	err := db.WithContext(ctx).
		Model(&domain.QuoteItem{}).
		Where("quote_id = ?", quoteID).
		Order("position asc, id asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
