package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, org *Organization) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Organization, error)
	FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*Organization, error)

	InsertMembership(ctx context.Context, db *gorm.DB, membership *Membership) error
	FindMembership(ctx context.Context, db *gorm.DB, orgID, accountID snowflake.ID) (*Membership, error)
	ListMemberships(ctx context.Context, db *gorm.DB, orgID snowflake.ID, role Role) ([]*Membership, error)
}
