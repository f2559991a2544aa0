package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/smallbiznis/procura/internal/organization/domain"
	"github.com/smallbiznis/procura/internal/orgcontext"
	"github.com/smallbiznis/procura/pkg/db"
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
		log:   p.Log.Named("organization.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateOrganizationRequest) (domain.Organization, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Organization{}, domain.ErrInvalidName
	}

	orgSlug := strings.TrimSpace(req.Slug)
	if orgSlug == "" {
		orgSlug = slug.Make(name)
	}
	if !slug.IsSlug(orgSlug) {
		return domain.Organization{}, domain.ErrInvalidSlug
	}

	now := time.Now().UTC()
	org := domain.Organization{
		ID:        s.genID.Generate(),
		Name:      name,
		Slug:      orgSlug,
		Metadata:  datatypes.JSONMap{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &org); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Organization{}, domain.ErrInvalidSlug
		}
		return domain.Organization{}, err
	}

	return org, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetOrganizationRequest) (domain.Organization, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Organization{}, err
	}

	org, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Organization{}, err
	}
	if org == nil {
		return domain.Organization{}, domain.ErrNotFound
	}

	return *org, nil
}

func (s *Service) AddMembership(ctx context.Context, req domain.AddMembershipRequest) (domain.Membership, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Membership{}, domain.ErrInvalidOrganization
	}

	accountID, err := s.parseID(req.AccountID)
	if err != nil {
		return domain.Membership{}, err
	}

	if !req.Role.Valid() {
		return domain.Membership{}, domain.ErrInvalidRole
	}

	var profileID snowflake.ID
	if req.ProfileID != "" {
		profileID, err = s.parseID(req.ProfileID)
		if err != nil {
			return domain.Membership{}, err
		}
	}
	if req.Role != domain.RoleOwner && profileID == 0 {
		return domain.Membership{}, domain.ErrInvalidID
	}

	now := time.Now().UTC()
	membership := domain.Membership{
		ID:        s.genID.Generate(),
		OrgID:     orgID,
		AccountID: accountID,
		Role:      req.Role,
		ProfileID: profileID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.InsertMembership(ctx, s.db, &membership); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Membership{}, domain.ErrAlreadyMember
		}
		return domain.Membership{}, err
	}

	return membership, nil
}

func (s *Service) ResolveRole(ctx context.Context, accountID string) (domain.Membership, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Membership{}, domain.ErrInvalidOrganization
	}

	id, err := s.parseID(accountID)
	if err != nil {
		return domain.Membership{}, err
	}

	membership, err := s.repo.FindMembership(ctx, s.db, orgID, id)
	if err != nil {
		return domain.Membership{}, err
	}
	if membership == nil {
		return domain.Membership{}, domain.ErrNotFound
	}

	return *membership, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
