package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/procura/internal/category/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, category *domain.Category) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO categories (id, org_id, parent_id, name, slug, description, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		category.ID,
		category.OrgID,
		category.ParentID,
		category.Name,
		category.Slug,
		category.Description,
		category.CreatedAt,
		category.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*domain.Category, error) {
	var category domain.Category
	err := db.WithContext(ctx).Raw(
		`SELECT id, org_id, parent_id, name, slug, description, created_at, updated_at
		 FROM categories WHERE org_id = ? AND id = ?`,
		orgID,
		id,
	).Scan(&category).Error
	if err != nil {
		return nil, err
	}
	if category.ID == 0 {
		return nil, nil
	}
	return &category, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, orgID snowflake.ID) ([]*domain.Category, error) {
	var categories []*domain.Category
	err := db.WithContext(ctx).
		Model(&domain.Category{}).
		Where("org_id = ?", orgID).
		Order("name asc, id asc").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *repo) ReplaceDefaultSuppliers(ctx context.Context, db *gorm.DB, orgID, categoryID snowflake.ID, rows []*domain.CategorySupplier) error {
	if err := db.WithContext(ctx).Exec(
		`DELETE FROM category_suppliers WHERE org_id = ? AND category_id = ?`,
		orgID,
		categoryID,
	).Error; err != nil {
		return err
	}
	for _, row := range rows {
		if row == nil {
			continue
		}
		err := db.WithContext(ctx).Exec(
			`INSERT INTO category_suppliers (id, org_id, category_id, supplier_id, created_at)
			 VALUES (?, ?, ?, ?, ?)`,
			row.ID,
			row.OrgID,
			row.CategoryID,
			row.SupplierID,
			row.CreatedAt,
		).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *repo) ListDefaultSupplierIDs(ctx context.Context, db *gorm.DB, orgID, categoryID snowflake.ID) ([]snowflake.ID, error) {
	var ids []snowflake.ID
	err := db.WithContext(ctx).Raw(
		`SELECT supplier_id FROM category_suppliers
		 WHERE org_id = ? AND category_id = ?
		 ORDER BY supplier_id ASC`,
		orgID,
		categoryID,
	).Scan(&ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *repo) InsertFormField(ctx context.Context, db *gorm.DB, field *domain.CategoryFormField) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO category_form_fields (id, org_id, category_id, key, label, type, required, choices, position, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		field.ID,
		field.OrgID,
		field.CategoryID,
		field.Key,
		field.Label,
		field.Type,
		field.Required,
		field.Choices,
		field.Position,
		field.CreatedAt,
		field.UpdatedAt,
	).Error
}

func (r *repo) ListFormFields(ctx context.Context, db *gorm.DB, orgID, categoryID snowflake.ID) ([]*domain.CategoryFormField, error) {
	var fields []*domain.CategoryFormField
	err := db.WithContext(ctx).
		Model(&domain.CategoryFormField{}).
		Where("org_id = ? AND category_id = ?", orgID, categoryID).
		Order("position asc, id asc").
		Find(&fields).Error
	if err != nil {
		return nil, err
	}
	return fields, nil
}
