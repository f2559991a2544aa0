package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/procura/internal/organization/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, org *domain.Organization) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO organizations (id, name, slug, metadata, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		org.ID,
		org.Name,
		org.Slug,
		org.Metadata,
		org.CreatedAt,
		org.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Organization, error) {
	var org domain.Organization
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, slug, metadata, created_at, updated_at
		 FROM organizations WHERE id = ?`,
		id,
	).Scan(&org).Error
	if err != nil {
		return nil, err
	}
	if org.ID == 0 {
		return nil, nil
	}
	return &org, nil
}

func (r *repo) FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.Organization, error) {
	var org domain.Organization
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, slug, metadata, created_at, updated_at
		 FROM organizations WHERE slug = ?`,
		slug,
	).Scan(&org).Error
	if err != nil {
		return nil, err
	}
	if org.ID == 0 {
		return nil, nil
	}
	return &org, nil
}

func (r *repo) InsertMembership(ctx context.Context, db *gorm.DB, membership *domain.Membership) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO memberships (id, org_id, account_id, role, profile_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		membership.ID,
		membership.OrgID,
		membership.AccountID,
		membership.Role,
		membership.ProfileID,
		membership.CreatedAt,
		membership.UpdatedAt,
	).Error
}

func (r *repo) FindMembership(ctx context.Context, db *gorm.DB, orgID, accountID snowflake.ID) (*domain.Membership, error) {
	var membership domain.Membership
	err := db.WithContext(ctx).Raw(
		`SELECT id, org_id, account_id, role, profile_id, created_at, updated_at
		 FROM memberships WHERE org_id = ? AND account_id = ?`,
		orgID,
		accountID,
	).Scan(&membership).Error
	if err != nil {
		return nil, err
	}
	if membership.ID == 0 {
		return nil, nil
	}
	return &membership, nil
}

func (r *repo) ListMemberships(ctx context.Context, db *gorm.DB, orgID snowflake.ID, role domain.Role) ([]*domain.Membership, error) {
	var memberships []*domain.Membership
	stmt := db.WithContext(ctx).
		Model(&domain.Membership{}).
		Where("org_id = ?", orgID)
	if role != "" {
		stmt = stmt.Where("role = ?", role)
	}
	if err := stmt.Order("created_at asc, id asc").Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}
