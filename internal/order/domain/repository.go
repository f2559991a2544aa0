package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListOrderFilter struct {
	CustomerID snowflake.ID
	SupplierID snowflake.ID
	Status     Status
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, order *Order, items []*OrderItem) error
	FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*Order, error)
	FindByTicket(ctx context.Context, db *gorm.DB, orgID, ticketID snowflake.ID) (*Order, error)
	List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter ListOrderFilter) ([]*Order, error)
	ListItems(ctx context.Context, db *gorm.DB, orderID snowflake.ID) ([]*OrderItem, error)

	UpdateStatus(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID, from, to Status) (int64, error)
	Acknowledge(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (int64, error)
	SetDeliveryDates(ctx context.Context, db *gorm.DB, order *Order) error
}
