package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/procura/internal/ticket/domain"
	"github.com/smallbiznis/procura/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, ticket *domain.Ticket) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO tickets (id, org_id, customer_id, category_id, title, description, desired_quantity, extra_data, status, selected_quote_id, global_markup, offered_price, offered_note, supplier_token, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ticket.ID,
		ticket.OrgID,
		ticket.CustomerID,
		ticket.CategoryID,
		ticket.Title,
		ticket.Description,
		ticket.DesiredQuantity,
		ticket.ExtraData,
		ticket.Status,
		ticket.SelectedQuoteID,
		ticket.GlobalMarkup,
		ticket.OfferedPrice,
		ticket.OfferedNote,
		ticket.SupplierToken,
		ticket.CreatedAt,
		ticket.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*domain.Ticket, error) {
	var ticket domain.Ticket
	err := db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		Take(&ticket).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &ticket, nil
}

func (r *repo) FindBySupplierToken(ctx context.Context, db *gorm.DB, token string) (*domain.Ticket, error) {
	var ticket domain.Ticket
	err := db.WithContext(ctx).
		Where("supplier_token = ?", token).
		Take(&ticket).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &ticket, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter domain.ListTicketFilter, page pagination.Pagination) ([]*domain.Ticket, error) {
	var tickets []*domain.Ticket
	stmt := db.WithContext(ctx).
		Model(&domain.Ticket{}).
		Where("org_id = ?", orgID)
	if filter.CustomerID != 0 {
		stmt = stmt.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.CategoryID != 0 {
		stmt = stmt.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	err := page.Apply(stmt).
		Order("created_at desc, id desc").
		Find(&tickets).Error
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID, from, to domain.Status) (int64, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE tickets SET status = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE org_id = ? AND id = ? AND status = ?`,
		to,
		orgID,
		id,
		from,
	)
	return result.RowsAffected, result.Error
}

func (r *repo) SetOffer(ctx context.Context, db *gorm.DB, ticket *domain.Ticket) error {
	return db.WithContext(ctx).Exec(
		`UPDATE tickets
		 SET status = ?, selected_quote_id = ?, global_markup = ?, offered_price = ?, offered_note = ?, updated_at = ?
		 WHERE org_id = ? AND id = ?`,
		ticket.Status,
		ticket.SelectedQuoteID,
		ticket.GlobalMarkup,
		ticket.OfferedPrice,
		ticket.OfferedNote,
		ticket.UpdatedAt,
		ticket.OrgID,
		ticket.ID,
	).Error
}

func (r *repo) InsertComment(ctx context.Context, db *gorm.DB, comment *domain.TicketComment) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO ticket_comments (id, org_id, ticket_id, author_role, body, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		comment.ID,
		comment.OrgID,
		comment.TicketID,
		comment.AuthorRole,
		comment.Body,
		comment.CreatedAt,
	).Error
}

func (r *repo) ListComments(ctx context.Context, db *gorm.DB, orgID, ticketID snowflake.ID) ([]*domain.TicketComment, error) {
	var comments []*domain.TicketComment
	err := db.WithContext(ctx).
		Model(&domain.TicketComment{}).
		Where("org_id = ? AND ticket_id = ?", orgID, ticketID).
		Order("created_at asc, id asc").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}
