package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, supplier *Supplier) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Supplier, error)
	ListByIDsInOrg(ctx context.Context, db *gorm.DB, orgID snowflake.ID, ids []snowflake.ID) ([]*Supplier, error)
	ListByOrg(ctx context.Context, db *gorm.DB, orgID snowflake.ID) ([]*Supplier, error)

	InsertOrgLink(ctx context.Context, db *gorm.DB, link *SupplierOrg) error
	InOrg(ctx context.Context, db *gorm.DB, supplierID, orgID snowflake.ID) (bool, error)

	InsertProduct(ctx context.Context, db *gorm.DB, product *SupplierProduct) error
	FindProductByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*SupplierProduct, error)
	ListProducts(ctx context.Context, db *gorm.DB, orgID, supplierID snowflake.ID) ([]*SupplierProduct, error)
}
