package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, category *Category) error
	FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*Category, error)
	List(ctx context.Context, db *gorm.DB, orgID snowflake.ID) ([]*Category, error)

	ReplaceDefaultSuppliers(ctx context.Context, db *gorm.DB, orgID, categoryID snowflake.ID, rows []*CategorySupplier) error
	ListDefaultSupplierIDs(ctx context.Context, db *gorm.DB, orgID, categoryID snowflake.ID) ([]snowflake.ID, error)

	InsertFormField(ctx context.Context, db *gorm.DB, field *CategoryFormField) error
	ListFormFields(ctx context.Context, db *gorm.DB, orgID, categoryID snowflake.ID) ([]*CategoryFormField, error)
}
