package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/procura/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListTicketFilter struct {
	CustomerID snowflake.ID
	CategoryID snowflake.ID
	Status     Status
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, ticket *Ticket) error
	FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*Ticket, error)
	FindBySupplierToken(ctx context.Context, db *gorm.DB, token string) (*Ticket, error)
	List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter ListTicketFilter, page pagination.Pagination) ([]*Ticket, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID, from, to Status) (int64, error)
	SetOffer(ctx context.Context, db *gorm.DB, ticket *Ticket) error

	InsertComment(ctx context.Context, db *gorm.DB, comment *TicketComment) error
	ListComments(ctx context.Context, db *gorm.DB, orgID, ticketID snowflake.ID) ([]*TicketComment, error)
}
