package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/procura/internal/orgcontext"
	"github.com/smallbiznis/procura/internal/supplier/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("supplier.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateSupplierRequest) (domain.Supplier, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Supplier{}, domain.ErrInvalidOrganization
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Supplier{}, domain.ErrInvalidName
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.Supplier{}, domain.ErrInvalidEmail
	}

	now := time.Now().UTC()
	supplier := domain.Supplier{
		ID:        s.genID.Generate(),
		Name:      name,
		Email:     email,
		Phone:     strings.TrimSpace(req.Phone),
		Metadata:  datatypes.JSONMap{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, &supplier); err != nil {
			return err
		}
		return s.repo.InsertOrgLink(ctx, tx, &domain.SupplierOrg{
			ID:         s.genID.Generate(),
			SupplierID: supplier.ID,
			OrgID:      orgID,
			CreatedAt:  now,
		})
	})
	if err != nil {
		return domain.Supplier{}, err
	}

	return supplier, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetSupplierRequest) (domain.Supplier, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Supplier{}, domain.ErrInvalidOrganization
	}

	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Supplier{}, err
	}

	inOrg, err := s.repo.InOrg(ctx, s.db, id, orgID)
	if err != nil {
		return domain.Supplier{}, err
	}
	if !inOrg {
		return domain.Supplier{}, domain.ErrNotFound
	}

	supplier, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Supplier{}, err
	}
	if supplier == nil {
		return domain.Supplier{}, domain.ErrNotFound
	}

	return *supplier, nil
}

func (s *Service) List(ctx context.Context, _ domain.ListSupplierRequest) ([]domain.Supplier, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}

	items, err := s.repo.ListByOrg(ctx, s.db, orgID)
	if err != nil {
		return nil, err
	}

	suppliers := make([]domain.Supplier, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		suppliers = append(suppliers, *item)
	}
	return suppliers, nil
}

func (s *Service) CreateProduct(ctx context.Context, req domain.CreateProductRequest) (domain.SupplierProduct, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.SupplierProduct{}, domain.ErrInvalidOrganization
	}

	supplierID, err := s.parseID(req.SupplierID)
	if err != nil {
		return domain.SupplierProduct{}, err
	}

	categoryID, err := s.parseID(req.CategoryID)
	if err != nil {
		return domain.SupplierProduct{}, err
	}

	inOrg, err := s.repo.InOrg(ctx, s.db, supplierID, orgID)
	if err != nil {
		return domain.SupplierProduct{}, err
	}
	if !inOrg {
		return domain.SupplierProduct{}, domain.ErrNotInOrganization
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.SupplierProduct{}, domain.ErrInvalidName
	}

	unitPrice, err := decimal.NewFromString(strings.TrimSpace(req.UnitPrice))
	if err != nil || unitPrice.IsNegative() {
		return domain.SupplierProduct{}, domain.ErrInvalidPrice
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "TRY"
	}

	now := time.Now().UTC()
	product := domain.SupplierProduct{
		ID:          s.genID.Generate(),
		OrgID:       orgID,
		SupplierID:  supplierID,
		CategoryID:  categoryID,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		UnitPrice:   unitPrice.Round(2),
		Currency:    currency,
		Available:   true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.InsertProduct(ctx, s.db, &product); err != nil {
		return domain.SupplierProduct{}, err
	}

	return product, nil
}

func (s *Service) ListProducts(ctx context.Context, req domain.ListProductRequest) ([]domain.SupplierProduct, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}

	var supplierID snowflake.ID
	if strings.TrimSpace(req.SupplierID) != "" {
		id, err := s.parseID(req.SupplierID)
		if err != nil {
			return nil, err
		}
		supplierID = id
	}

	items, err := s.repo.ListProducts(ctx, s.db, orgID, supplierID)
	if err != nil {
		return nil, err
	}

	products := make([]domain.SupplierProduct, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		products = append(products, *item)
	}
	return products, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
