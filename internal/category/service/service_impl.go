package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/smallbiznis/procura/internal/category/domain"
	"github.com/smallbiznis/procura/internal/orgcontext"
	supplierdomain "github.com/smallbiznis/procura/internal/supplier/domain"
	"github.com/smallbiznis/procura/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Repo         domain.Repository
	SupplierRepo supplierdomain.Repository
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	repo         domain.Repository
	supplierRepo supplierdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("category.service"),
		genID:        p.GenID,
		repo:         p.Repo,
		supplierRepo: p.SupplierRepo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateCategoryRequest) (domain.Category, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Category{}, domain.ErrInvalidOrganization
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Category{}, domain.ErrInvalidName
	}

	var parentID snowflake.ID
	if strings.TrimSpace(req.ParentID) != "" {
		id, err := s.parseID(req.ParentID)
		if err != nil {
			return domain.Category{}, err
		}
		parent, err := s.repo.FindByID(ctx, s.db, orgID, id)
		if err != nil {
			return domain.Category{}, err
		}
		if parent == nil {
			return domain.Category{}, domain.ErrInvalidParent
		}
		parentID = id
	}

	now := time.Now().UTC()
	category := domain.Category{
		ID:          s.genID.Generate(),
		OrgID:       orgID,
		ParentID:    parentID,
		Name:        name,
		Slug:        slug.Make(name),
		Description: strings.TrimSpace(req.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, s.db, &category); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Category{}, domain.ErrInvalidName
		}
		return domain.Category{}, err
	}

	return category, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetCategoryRequest) (domain.Category, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Category{}, domain.ErrInvalidOrganization
	}

	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Category{}, err
	}

	category, err := s.repo.FindByID(ctx, s.db, orgID, id)
	if err != nil {
		return domain.Category{}, err
	}
	if category == nil {
		return domain.Category{}, domain.ErrNotFound
	}

	return *category, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Category, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}

	items, err := s.repo.List(ctx, s.db, orgID)
	if err != nil {
		return nil, err
	}

	categories := make([]domain.Category, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		categories = append(categories, *item)
	}
	return categories, nil
}

func (s *Service) SetDefaultSuppliers(ctx context.Context, req domain.SetDefaultSuppliersRequest) error {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.ErrInvalidOrganization
	}

	categoryID, err := s.parseID(req.CategoryID)
	if err != nil {
		return err
	}

	category, err := s.repo.FindByID(ctx, s.db, orgID, categoryID)
	if err != nil {
		return err
	}
	if category == nil {
		return domain.ErrNotFound
	}

	now := time.Now().UTC()
	rows := make([]*domain.CategorySupplier, 0, len(req.SupplierIDs))
	for _, raw := range req.SupplierIDs {
		supplierID, err := s.parseID(raw)
		if err != nil {
			return err
		}
		inOrg, err := s.supplierRepo.InOrg(ctx, s.db, supplierID, orgID)
		if err != nil {
			return err
		}
		if !inOrg {
			return domain.ErrSupplierNotInOrg
		}
		rows = append(rows, &domain.CategorySupplier{
			ID:         s.genID.Generate(),
			OrgID:      orgID,
			CategoryID: categoryID,
			SupplierID: supplierID,
			CreatedAt:  now,
		})
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.ReplaceDefaultSuppliers(ctx, tx, orgID, categoryID, rows)
	})
}

func (s *Service) DefaultSupplierIDs(ctx context.Context, categoryID string) ([]string, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}

	id, err := s.parseID(categoryID)
	if err != nil {
		return nil, err
	}

	ids, err := s.repo.ListDefaultSupplierIDs(ctx, s.db, orgID, id)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(ids))
	for _, supplierID := range ids {
		out = append(out, supplierID.String())
	}
	return out, nil
}

func (s *Service) CreateFormField(ctx context.Context, req domain.CreateFormFieldRequest) (domain.CategoryFormField, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.CategoryFormField{}, domain.ErrInvalidOrganization
	}

	categoryID, err := s.parseID(req.CategoryID)
	if err != nil {
		return domain.CategoryFormField{}, err
	}

	category, err := s.repo.FindByID(ctx, s.db, orgID, categoryID)
	if err != nil {
		return domain.CategoryFormField{}, err
	}
	if category == nil {
		return domain.CategoryFormField{}, domain.ErrNotFound
	}

	label := strings.TrimSpace(req.Label)
	if label == "" {
		return domain.CategoryFormField{}, domain.ErrInvalidName
	}

	if !req.Type.Valid() {
		return domain.CategoryFormField{}, domain.ErrInvalidFieldType
	}

	choices := make([]string, 0, len(req.Choices))
	for _, choice := range req.Choices {
		choice = strings.TrimSpace(choice)
		if choice != "" {
			choices = append(choices, choice)
		}
	}
	if req.Type == domain.FieldTypeChoice && len(choices) == 0 {
		return domain.CategoryFormField{}, domain.ErrMissingChoices
	}

	now := time.Now().UTC()
	field := domain.CategoryFormField{
		ID:         s.genID.Generate(),
		OrgID:      orgID,
		CategoryID: categoryID,
		Key:        slug.Make(label),
		Label:      label,
		Type:       req.Type,
		Required:   req.Required,
		Choices:    datatypes.NewJSONSlice(choices),
		Position:   req.Position,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.InsertFormField(ctx, s.db, &field); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.CategoryFormField{}, domain.ErrDuplicateField
		}
		return domain.CategoryFormField{}, err
	}

	return field, nil
}

func (s *Service) ListFormFields(ctx context.Context, req domain.ListFormFieldRequest) ([]domain.CategoryFormField, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}

	categoryID, err := s.parseID(req.CategoryID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListFormFields(ctx, s.db, orgID, categoryID)
	if err != nil {
		return nil, err
	}

	fields := make([]domain.CategoryFormField, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		fields = append(fields, *item)
	}
	return fields, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
