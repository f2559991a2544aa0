package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	UpsertSupplierMetrics(ctx context.Context, db *gorm.DB, row *SupplierMetrics) error
	UpsertCustomerMetrics(ctx context.Context, db *gorm.DB, row *CustomerMetrics) error
	FindSupplierMetrics(ctx context.Context, db *gorm.DB, orgID, supplierID snowflake.ID) (*SupplierMetrics, error)
	FindCustomerMetrics(ctx context.Context, db *gorm.DB, orgID, customerID snowflake.ID) (*CustomerMetrics, error)
	ListSupplierMetrics(ctx context.Context, db *gorm.DB, orgID snowflake.ID) ([]*SupplierMetrics, error)
	ListCustomerMetrics(ctx context.Context, db *gorm.DB, orgID snowflake.ID) ([]*CustomerMetrics, error)

	InsertFeedback(ctx context.Context, db *gorm.DB, feedback *CustomerFeedback) error
	InsertOwnerReview(ctx context.Context, db *gorm.DB, review *OwnerReview) error
}
