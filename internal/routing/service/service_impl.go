package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	categorydomain "github.com/smallbiznis/procura/internal/category/domain"
	"github.com/smallbiznis/procura/internal/orgcontext"
	"github.com/smallbiznis/procura/internal/routing/domain"
	supplierdomain "github.com/smallbiznis/procura/internal/supplier/domain"
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
	CategoryRepo categorydomain.Repository
	SupplierRepo supplierdomain.Repository
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	repo         domain.Repository
	categoryRepo categorydomain.Repository
	supplierRepo supplierdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("routing.service"),
		genID:        p.GenID,
		repo:         p.Repo,
		categoryRepo: p.CategoryRepo,
		supplierRepo: p.SupplierRepo,
	}
}

func (s *Service) CreateRule(ctx context.Context, req domain.CreateRuleRequest) (domain.RoutingRule, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.RoutingRule{}, domain.ErrInvalidOrganization
	}

	categoryID, err := s.parseID(req.CategoryID)
	if err != nil {
		return domain.RoutingRule{}, err
	}

	category, err := s.categoryRepo.FindByID(ctx, s.db, orgID, categoryID)
	if err != nil {
		return domain.RoutingRule{}, err
	}
	if category == nil {
		return domain.RoutingRule{}, domain.ErrNotFound
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.RoutingRule{}, domain.ErrInvalidName
	}

	if req.MinQuantity != nil && req.MaxQuantity != nil && *req.MinQuantity > *req.MaxQuantity {
		return domain.RoutingRule{}, domain.ErrInvalidBounds
	}

	operator := strings.ToLower(strings.TrimSpace(req.Operator))
	if _, ok := domain.ValidOperators[operator]; !ok {
		return domain.RoutingRule{}, domain.ErrInvalidOperator
	}

	if len(req.SupplierIDs) == 0 {
		return domain.RoutingRule{}, domain.ErrNoSuppliers
	}

	now := time.Now().UTC()
	supplierIDs := make([]snowflake.ID, 0, len(req.SupplierIDs))
	for _, raw := range req.SupplierIDs {
		supplierID, err := s.parseID(raw)
		if err != nil {
			return domain.RoutingRule{}, err
		}
		inOrg, err := s.supplierRepo.InOrg(ctx, s.db, supplierID, orgID)
		if err != nil {
			return domain.RoutingRule{}, err
		}
		if !inOrg {
			return domain.RoutingRule{}, domain.ErrSupplierNotInOrg
		}
		supplierIDs = append(supplierIDs, supplierID)
	}

	rule := domain.RoutingRule{
		ID:          s.genID.Generate(),
		OrgID:       orgID,
		CategoryID:  categoryID,
		Name:        name,
		Priority:    req.Priority,
		Active:      true,
		MinQuantity: req.MinQuantity,
		MaxQuantity: req.MaxQuantity,
		FieldNames:  datatypes.NewJSONSlice(trimList(req.FieldNames)),
		Operator:    operator,
		FieldValues: datatypes.NewJSONSlice(trimList(req.FieldValues)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	suppliers := make([]*domain.RuleSupplier, 0, len(supplierIDs))
	for _, supplierID := range supplierIDs {
		suppliers = append(suppliers, &domain.RuleSupplier{
			ID:         s.genID.Generate(),
			RuleID:     rule.ID,
			SupplierID: supplierID,
			CreatedAt:  now,
		})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.Insert(ctx, tx, &rule, suppliers)
	})
	if err != nil {
		return domain.RoutingRule{}, err
	}

	return rule, nil
}

func (s *Service) ListRules(ctx context.Context, req domain.ListRuleRequest) ([]domain.RoutingRule, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}

	categoryID, err := s.parseID(req.CategoryID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListByCategory(ctx, s.db, orgID, categoryID, false)
	if err != nil {
		return nil, err
	}

	rules := make([]domain.RoutingRule, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		rules = append(rules, *item)
	}
	return rules, nil
}

func (s *Service) SetRuleActive(ctx context.Context, req domain.SetRuleActiveRequest) error {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.ErrInvalidOrganization
	}

	id, err := s.parseID(req.ID)
	if err != nil {
		return err
	}

	affected, err := s.repo.SetActive(ctx, s.db, orgID, id, req.Active)
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Service) AssignedSuppliers(ctx context.Context, facts domain.TicketFacts) ([]supplierdomain.Supplier, error) {
	if facts.OrgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}

	rules, err := s.repo.ListByCategory(ctx, s.db, facts.OrgID, facts.CategoryID, true)
	if err != nil {
		return nil, err
	}

	seen := make(map[snowflake.ID]struct{})
	var union []snowflake.ID
	for _, rule := range rules {
		if rule == nil || !rule.Matches(facts) {
			continue
		}
		ids, err := s.repo.ListRuleSupplierIDs(ctx, s.db, rule.ID)
		if err != nil {
			// One broken rule must not block routing.
			s.log.Warn("skipping rule: supplier lookup failed",
				zap.String("rule_id", rule.ID.String()),
				zap.Error(err),
			)
			continue
		}
		for _, id := range ids {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			union = append(union, id)
		}
	}

	if len(union) == 0 {
		union, err = s.categoryRepo.ListDefaultSupplierIDs(ctx, s.db, facts.OrgID, facts.CategoryID)
		if err != nil {
			return nil, err
		}
	}
	if len(union) == 0 {
		return nil, nil
	}

	items, err := s.supplierRepo.ListByIDsInOrg(ctx, s.db, facts.OrgID, union)
	if err != nil {
		return nil, err
	}

	suppliers := make([]supplierdomain.Supplier, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		suppliers = append(suppliers, *item)
	}
	return suppliers, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func trimList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
