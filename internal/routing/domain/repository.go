package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, rule *RoutingRule, suppliers []*RuleSupplier) error
	FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*RoutingRule, error)
	ListByCategory(ctx context.Context, db *gorm.DB, orgID, categoryID snowflake.ID, activeOnly bool) ([]*RoutingRule, error)
	SetActive(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID, active bool) (int64, error)
	ListRuleSupplierIDs(ctx context.Context, db *gorm.DB, ruleID snowflake.ID) ([]snowflake.ID, error)
}
