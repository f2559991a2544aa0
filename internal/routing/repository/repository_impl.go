package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/procura/internal/routing/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, rule *domain.RoutingRule, suppliers []*domain.RuleSupplier) error {
	err := db.WithContext(ctx).Exec(
		`INSERT INTO routing_rules (id, org_id, category_id, name, priority, active, min_quantity, max_quantity, field_names, operator, field_values, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rule.ID,
		rule.OrgID,
		rule.CategoryID,
		rule.Name,
		rule.Priority,
		rule.Active,
		rule.MinQuantity,
		rule.MaxQuantity,
		rule.FieldNames,
		rule.Operator,
		rule.FieldValues,
		rule.CreatedAt,
		rule.UpdatedAt,
	).Error
	if err != nil {
		return err
	}

	for _, supplier := range suppliers {
		if supplier == nil {
			continue
		}
		err := db.WithContext(ctx).Exec(
			`INSERT INTO rule_suppliers (id, rule_id, supplier_id, created_at)
			 VALUES (?, ?, ?, ?)`,
			supplier.ID,
			supplier.RuleID,
			supplier.SupplierID,
			supplier.CreatedAt,
		).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*domain.RoutingRule, error) {
	var rule domain.RoutingRule
	err := db.WithContext(ctx).Raw(
		`SELECT id, org_id, category_id, name, priority, active, min_quantity, max_quantity, field_names, operator, field_values, created_at, updated_at
		 FROM routing_rules WHERE org_id = ? AND id = ?`,
		orgID,
		id,
	).Scan(&rule).Error
	if err != nil {
		return nil, err
	}
	if rule.ID == 0 {
		return nil, nil
	}
	return &rule, nil
}

func (r *repo) ListByCategory(ctx context.Context, db *gorm.DB, orgID, categoryID snowflake.ID, activeOnly bool) ([]*domain.RoutingRule, error) {
	var rules []*domain.RoutingRule
	stmt := db.WithContext(ctx).
		Model(&domain.RoutingRule{}).
		Where("org_id = ? AND category_id = ?", orgID, categoryID)
	if activeOnly {
		stmt = stmt.Where("active = ?", true)
	}
	err := stmt.Order("priority asc, id asc").Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *repo) SetActive(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID, active bool) (int64, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE routing_rules SET active = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE org_id = ? AND id = ?`,
		active,
		orgID,
		id,
	)
	return result.RowsAffected, result.Error
}

func (r *repo) ListRuleSupplierIDs(ctx context.Context, db *gorm.DB, ruleID snowflake.ID) ([]snowflake.ID, error) {
	var ids []snowflake.ID
	err := db.WithContext(ctx).Raw(
		`SELECT supplier_id FROM rule_suppliers WHERE rule_id = ? ORDER BY supplier_id ASC`,
		ruleID,
	).Scan(&ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
