package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/procura/internal/orgcontext"
	"github.com/smallbiznis/procura/internal/quote/domain"
	"github.com/smallbiznis/procura/internal/ratelimit"
	routingdomain "github.com/smallbiznis/procura/internal/routing/domain"
	supplierdomain "github.com/smallbiznis/procura/internal/supplier/domain"
	ticketdomain "github.com/smallbiznis/procura/internal/ticket/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Repo         domain.Repository
	TicketRepo   ticketdomain.Repository
	SupplierRepo supplierdomain.Repository
	Router       routingdomain.Service
	Limiter      *ratelimit.QuoteSubmitLimiter `optional:"true"`
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	repo         domain.Repository
	ticketRepo   ticketdomain.Repository
	supplierRepo supplierdomain.Repository
	router       routingdomain.Service
	limiter      *ratelimit.QuoteSubmitLimiter
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("quote.service"),
		genID:        p.GenID,
		repo:         p.Repo,
		ticketRepo:   p.TicketRepo,
		supplierRepo: p.SupplierRepo,
		router:       p.Router,
		limiter:      p.Limiter,
	}
}

func (s *Service) Submit(ctx context.Context, req domain.SubmitQuoteRequest) (domain.QuoteWithItems, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.QuoteWithItems{}, domain.ErrInvalidOrganization
	}

	ticketID, err := s.parseID(req.TicketID)
	if err != nil {
		return domain.QuoteWithItems{}, err
	}
	supplierID, err := s.parseID(req.SupplierID)
	if err != nil {
		return domain.QuoteWithItems{}, err
	}

	allowed, err := s.limiter.AllowSupplier(ctx, supplierID.String())
	if err != nil {
		// A broken limiter backend must not block quoting.
		s.log.Warn("quote rate limit check failed", zap.Error(err))
	} else if !allowed {
		return domain.QuoteWithItems{}, domain.ErrRateLimited
	}

	ticket, err := s.ticketRepo.FindByID(ctx, s.db, orgID, ticketID)
	if err != nil {
		return domain.QuoteWithItems{}, err
	}
	if ticket == nil {
		return domain.QuoteWithItems{}, domain.ErrNotFound
	}
	if ticket.Status != ticketdomain.StatusOpen && ticket.Status != ticketdomain.StatusOffered {
		return domain.QuoteWithItems{}, domain.ErrTicketNotOpen
	}

	assigned, err := s.router.AssignedSuppliers(ctx, routingdomain.TicketFacts{
		OrgID:           ticket.OrgID,
		CategoryID:      ticket.CategoryID,
		DesiredQuantity: ticket.DesiredQuantity,
		Attributes:      ticket.ExtraData,
	})
	if err != nil {
		return domain.QuoteWithItems{}, err
	}
	if !containsSupplier(assigned, supplierID) {
		return domain.QuoteWithItems{}, domain.ErrNotAssigned
	}

	now := time.Now().UTC()
	items, amount, err := s.buildItems(ctx, orgID, supplierID, req, now)
	if err != nil {
		return domain.QuoteWithItems{}, err
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "TRY"
	}

	quote := domain.Quote{
		ID:         s.genID.Generate(),
		OrgID:      orgID,
		TicketID:   ticketID,
		SupplierID: supplierID,
		Currency:   currency,
		Amount:     amount,
		Note:       strings.TrimSpace(req.Note),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindByTicketSupplier(ctx, tx, orgID, ticketID, supplierID)
		if err != nil {
			return err
		}
		if existing != nil {
			quote.ID = existing.ID
			quote.CreatedAt = existing.CreatedAt
		}
		if err := s.repo.Upsert(ctx, tx, &quote); err != nil {
			return err
		}
		for _, item := range items {
			item.QuoteID = quote.ID
		}
		return s.repo.ReplaceItems(ctx, tx, quote.ID, items)
	})
	if err != nil {
		return domain.QuoteWithItems{}, err
	}

	return domain.QuoteWithItems{Quote: quote, Items: derefItems(items)}, nil
}

func (s *Service) buildItems(ctx context.Context, orgID, supplierID snowflake.ID, req domain.SubmitQuoteRequest, now time.Time) ([]*domain.QuoteItem, decimal.Decimal, error) {
	if len(req.Items) == 0 {
		// Flat-amount quote.
		amount, err := decimal.NewFromString(strings.TrimSpace(req.Amount))
		if err != nil || amount.IsNegative() {
			return nil, decimal.Zero, domain.ErrInvalidAmount
		}
		return nil, amount.Round(2), nil
	}

	items := make([]*domain.QuoteItem, 0, len(req.Items))
	total := decimal.Zero
	for i, input := range req.Items {
		if input.Quantity <= 0 {
			return nil, decimal.Zero, domain.ErrInvalidQuantity
		}
		unitPrice, err := decimal.NewFromString(strings.TrimSpace(input.UnitPrice))
		if err != nil || unitPrice.IsNegative() {
			return nil, decimal.Zero, domain.ErrInvalidPrice
		}

		var productID snowflake.ID
		if strings.TrimSpace(input.ProductID) != "" {
			productID, err = s.parseID(input.ProductID)
			if err != nil {
				return nil, decimal.Zero, err
			}
			product, err := s.supplierRepo.FindProductByID(ctx, s.db, orgID, productID)
			if err != nil {
				return nil, decimal.Zero, err
			}
			if product == nil || product.SupplierID != supplierID {
				return nil, decimal.Zero, domain.ErrForeignProduct
			}
		}

		items = append(items, &domain.QuoteItem{
			ID:          s.genID.Generate(),
			ProductID:   productID,
			Description: strings.TrimSpace(input.Description),
			Quantity:    input.Quantity,
			UnitPrice:   unitPrice,
			Position:    i,
			CreatedAt:   now,
		})
		total = total.Add(unitPrice.Mul(decimal.NewFromInt(input.Quantity)))
	}

	return items, total.Round(2), nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetQuoteRequest) (domain.QuoteWithItems, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.QuoteWithItems{}, domain.ErrInvalidOrganization
	}

	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.QuoteWithItems{}, err
	}

	quote, err := s.repo.FindByID(ctx, s.db, orgID, id)
	if err != nil {
		return domain.QuoteWithItems{}, err
	}
	if quote == nil {
		return domain.QuoteWithItems{}, domain.ErrNotFound
	}

	items, err := s.repo.ListItems(ctx, s.db, quote.ID)
	if err != nil {
		return domain.QuoteWithItems{}, err
	}

	return domain.QuoteWithItems{Quote: *quote, Items: derefItems(items)}, nil
}

func (s *Service) ListByTicket(ctx context.Context, req domain.ListQuoteRequest) ([]domain.QuoteWithItems, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}

	ticketID, err := s.parseID(req.TicketID)
	if err != nil {
		return nil, err
	}

	quotes, err := s.repo.ListByTicket(ctx, s.db, orgID, ticketID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.QuoteWithItems, 0, len(quotes))
	for _, quote := range quotes {
		if quote == nil {
			continue
		}
		items, err := s.repo.ListItems(ctx, s.db, quote.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.QuoteWithItems{Quote: *quote, Items: derefItems(items)})
	}
	return out, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func containsSupplier(suppliers []supplierdomain.Supplier, id snowflake.ID) bool {
	for _, supplier := range suppliers {
		if supplier.ID == id {
			return true
		}
	}
	return false
}

func derefItems(items []*domain.QuoteItem) []domain.QuoteItem {
	out := make([]domain.QuoteItem, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		out = append(out, *item)
	}
	return out
}
