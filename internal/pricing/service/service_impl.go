package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/procura/internal/orgcontext"
	"github.com/smallbiznis/procura/internal/pricing/domain"
	quotedomain "github.com/smallbiznis/procura/internal/quote/domain"
	ticketdomain "github.com/smallbiznis/procura/internal/ticket/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var oneHundred = decimal.NewFromInt(100)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Repo       domain.Repository
	QuoteRepo  quotedomain.Repository
	TicketRepo ticketdomain.Repository
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	repo       domain.Repository
	quoteRepo  quotedomain.Repository
	ticketRepo ticketdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("pricing.service"),
		genID:      p.GenID,
		repo:       p.Repo,
		quoteRepo:  p.QuoteRepo,
		ticketRepo: p.TicketRepo,
	}
}

func (s *Service) ApplyOffer(ctx context.Context, req domain.ApplyOfferRequest) (domain.OfferBreakdown, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.OfferBreakdown{}, domain.ErrInvalidOrganization
	}

	ticketID, err := s.parseID(req.TicketID)
	if err != nil {
		return domain.OfferBreakdown{}, err
	}
	quoteID, err := s.parseID(req.QuoteID)
	if err != nil {
		return domain.OfferBreakdown{}, err
	}

	ticket, err := s.ticketRepo.FindByID(ctx, s.db, orgID, ticketID)
	if err != nil {
		return domain.OfferBreakdown{}, err
	}
	if ticket == nil {
		return domain.OfferBreakdown{}, domain.ErrNotFound
	}
	if ticket.Status == ticketdomain.StatusClosed {
		return domain.OfferBreakdown{}, domain.ErrTicketClosed
	}

	quote, err := s.quoteRepo.FindByID(ctx, s.db, orgID, quoteID)
	if err != nil {
		return domain.OfferBreakdown{}, err
	}
	if quote == nil {
		return domain.OfferBreakdown{}, domain.ErrNotFound
	}
	if quote.TicketID != ticketID {
		return domain.OfferBreakdown{}, domain.ErrQuoteMismatch
	}

	items, err := s.quoteRepo.ListItems(ctx, s.db, quote.ID)
	if err != nil {
		return domain.OfferBreakdown{}, err
	}

	now := time.Now().UTC()
	breakdown := domain.OfferBreakdown{
		TicketID: ticketID,
		QuoteID:  quoteID,
	}

	if len(items) == 0 {
		// Flat-amount quote: the offer is the quoted amount as-is.
		breakdown.Total = quote.Amount
	} else {
		total := decimal.Zero
		for _, item := range items {
			if item == nil {
				continue
			}
			lineTotal := item.UnitPrice.Mul(decimal.NewFromInt(item.Quantity))
			percent := parseLenient(req.MarkupPercents[item.ID.String()])
			markup := lineTotal.Mul(percent).Div(oneHundred).Round(2)
			// The running total is rounded after every line, matching the
			// incremental way offers have always been accumulated.
			total = total.Add(lineTotal).Add(markup).Round(2)

			breakdown.Items = append(breakdown.Items, domain.OfferItem{
				QuoteItemID:   item.ID,
				Description:   item.Description,
				Quantity:      item.Quantity,
				UnitPrice:     item.UnitPrice,
				LineTotal:     lineTotal,
				MarkupPercent: percent,
				MarkupAmount:  markup,
			})
		}
		breakdown.Total = total
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, offerItem := range breakdown.Items {
			adjustment := domain.OwnerQuoteAdjustment{
				ID:             s.genID.Generate(),
				OrgID:          orgID,
				TicketID:       ticketID,
				QuoteItemID:    offerItem.QuoteItemID,
				Markup:         offerItem.MarkupAmount,
				SendToCustomer: true,
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			if err := s.repo.Upsert(ctx, tx, &adjustment); err != nil {
				return err
			}
		}

		ticket.Status = ticketdomain.StatusOffered
		ticket.SelectedQuoteID = quoteID
		// The per-item flow retired the ticket-level markup; zero any value
		// left behind by older offers.
		ticket.GlobalMarkup = decimal.Zero
		ticket.OfferedPrice = breakdown.Total
		ticket.OfferedNote = strings.TrimSpace(req.Note)
		ticket.UpdatedAt = now
		return s.ticketRepo.SetOffer(ctx, tx, ticket)
	})
	if err != nil {
		return domain.OfferBreakdown{}, err
	}

	return breakdown, nil
}

func (s *Service) ListAdjustments(ctx context.Context, ticketID string) ([]domain.OwnerQuoteAdjustment, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}

	id, err := s.parseID(ticketID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListByTicket(ctx, s.db, orgID, id)
	if err != nil {
		return nil, err
	}

	adjustments := make([]domain.OwnerQuoteAdjustment, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		adjustments = append(adjustments, *item)
	}
	return adjustments, nil
}

// parseLenient turns free-form operator input into a decimal, treating
// anything unparseable as zero. Negative values pass through untouched so
// markups can act as discounts.
func parseLenient(value string) decimal.Decimal {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero
	}
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero
	}
	return parsed
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
