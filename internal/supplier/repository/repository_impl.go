package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/procura/internal/supplier/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, supplier *domain.Supplier) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO suppliers (id, name, email, phone, metadata, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		supplier.ID,
		supplier.Name,
		supplier.Email,
		supplier.Phone,
		supplier.Metadata,
		supplier.CreatedAt,
		supplier.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Supplier, error) {
	var supplier domain.Supplier
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, email, phone, metadata, created_at, updated_at
		 FROM suppliers WHERE id = ?`,
		id,
	).Scan(&supplier).Error
	if err != nil {
		return nil, err
	}
	if supplier.ID == 0 {
		return nil, nil
	}
	return &supplier, nil
}

func (r *repo) ListByIDsInOrg(ctx context.Context, db *gorm.DB, orgID snowflake.ID, ids []snowflake.ID) ([]*domain.Supplier, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var suppliers []*domain.Supplier
	err := db.WithContext(ctx).Raw(
		`SELECT s.id, s.name, s.email, s.phone, s.metadata, s.created_at, s.updated_at
		 FROM suppliers s
		 JOIN supplier_orgs so ON so.supplier_id = s.id
		 WHERE so.org_id = ? AND s.id IN ?
		 ORDER BY s.name ASC, s.id ASC`,
		orgID,
		ids,
	).Scan(&suppliers).Error
	if err != nil {
		return nil, err
	}
	return suppliers, nil
}

func (r *repo) ListByOrg(ctx context.Context, db *gorm.DB, orgID snowflake.ID) ([]*domain.Supplier, error) {
	var suppliers []*domain.Supplier
	err := db.WithContext(ctx).Raw(
		`SELECT s.id, s.name, s.email, s.phone, s.metadata, s.created_at, s.updated_at
		 FROM suppliers s
		 JOIN supplier_orgs so ON so.supplier_id = s.id
		 WHERE so.org_id = ?
		 ORDER BY s.name ASC, s.id ASC`,
		orgID,
	).Scan(&suppliers).Error
	if err != nil {
		return nil, err
	}
	return suppliers, nil
}

func (r *repo) InsertOrgLink(ctx context.Context, db *gorm.DB, link *domain.SupplierOrg) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO supplier_orgs (id, supplier_id, org_id, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (supplier_id, org_id) DO NOTHING`,
		link.ID,
		link.SupplierID,
		link.OrgID,
		link.CreatedAt,
	).Error
}

func (r *repo) InOrg(ctx context.Context, db *gorm.DB, supplierID, orgID snowflake.ID) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.SupplierOrg{}).
		Where("supplier_id = ? AND org_id = ?", supplierID, orgID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repo) InsertProduct(ctx context.Context, db *gorm.DB, product *domain.SupplierProduct) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO supplier_products (id, org_id, supplier_id, category_id, name, description, unit_price, currency, available, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		product.ID,
		product.OrgID,
		product.SupplierID,
		product.CategoryID,
		product.Name,
		product.Description,
		product.UnitPrice,
		product.Currency,
		product.Available,
		product.CreatedAt,
		product.UpdatedAt,
	).Error
}

func (r *repo) FindProductByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*domain.SupplierProduct, error) {
	var product domain.SupplierProduct
	err := db.WithContext(ctx).Raw(
		`SELECT id, org_id, supplier_id, category_id, name, description, unit_price, currency, available, created_at, updated_at
		 FROM supplier_products WHERE org_id = ? AND id = ?`,
		orgID,
		id,
	).Scan(&product).Error
	if err != nil {
		return nil, err
	}
	if product.ID == 0 {
		return nil, nil
	}
	return &product, nil
}

func (r *repo) ListProducts(ctx context.Context, db *gorm.DB, orgID, supplierID snowflake.ID) ([]*domain.SupplierProduct, error) {
	var products []*domain.SupplierProduct
	stmt := db.WithContext(ctx).
		Model(&domain.SupplierProduct{}).
		Where("org_id = ?", orgID)
	if supplierID != 0 {
		stmt = stmt.Where("supplier_id = ?", supplierID)
	}
	err := stmt.Order("name asc, id asc").Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}
