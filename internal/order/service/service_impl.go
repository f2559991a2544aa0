package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/procura/internal/order/domain"
	"github.com/smallbiznis/procura/internal/orgcontext"
	"github.com/smallbiznis/procura/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
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
		log:   p.Log.Named("order.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) CreateFromTicket(ctx context.Context, tx *gorm.DB, orgID snowflake.ID, input domain.CreateFromTicketInput) (domain.Order, error) {
	if orgID == 0 {
		return domain.Order{}, domain.ErrInvalidOrganization
	}

	markups := make(map[snowflake.ID]decimal.Decimal, len(input.Adjustments))
	for _, adjustment := range input.Adjustments {
		markups[adjustment.QuoteItemID] = adjustment.Markup
	}

	now := time.Now().UTC()
	order := domain.Order{
		ID:          s.genID.Generate(),
		OrgID:       orgID,
		TicketID:    input.Ticket.ID,
		QuoteID:     input.Quote.ID,
		CustomerID:  input.Ticket.CustomerID,
		SupplierID:  input.Quote.SupplierID,
		Status:      domain.StatusNew,
		Currency:    input.Quote.Currency,
		TotalAmount: input.Ticket.OfferedPrice,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	items := make([]*domain.OrderItem, 0, len(input.Items)+1)
	for _, quoteItem := range input.Items {
		lineTotal := quoteItem.UnitPrice.Mul(decimal.NewFromInt(quoteItem.Quantity))
		markup := markups[quoteItem.ID]
		items = append(items, &domain.OrderItem{
			ID:          s.genID.Generate(),
			OrderID:     order.ID,
			QuoteItemID: quoteItem.ID,
			Description: quoteItem.Description,
			Quantity:    quoteItem.Quantity,
			UnitPrice:   quoteItem.UnitPrice,
			Markup:      markup,
			LineTotal:   lineTotal.Add(markup).Round(2),
			CreatedAt:   now,
		})
	}

	if len(input.Items) == 0 {
		// Flat-amount quote: a single line carries the whole order, priced at
		// the quoted amount and selling for the offered total.
		items = append(items, &domain.OrderItem{
			ID:          s.genID.Generate(),
			OrderID:     order.ID,
			Description: "Quote #" + input.Quote.ID.String(),
			Quantity:    1,
			UnitPrice:   input.Quote.Amount,
			Markup:      input.Ticket.GlobalMarkup,
			LineTotal:   input.Ticket.OfferedPrice,
			CreatedAt:   now,
		})
	} else if input.Ticket.GlobalMarkup.IsPositive() {
		// Legacy ticket-level markup survives as its own line so the item
		// totals still add up to the offered price.
		items = append(items, &domain.OrderItem{
			ID:          s.genID.Generate(),
			OrderID:     order.ID,
			Description: "Overall business markup",
			Quantity:    1,
			UnitPrice:   decimal.Zero,
			Markup:      input.Ticket.GlobalMarkup,
			LineTotal:   input.Ticket.GlobalMarkup,
			CreatedAt:   now,
		})
	}

	if err := s.repo.Insert(ctx, tx, &order, items); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Order{}, domain.ErrAlreadyExists
		}
		return domain.Order{}, err
	}

	return order, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetOrderRequest) (domain.OrderWithItems, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.OrderWithItems{}, domain.ErrInvalidOrganization
	}

	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.OrderWithItems{}, err
	}

	order, err := s.repo.FindByID(ctx, s.db, orgID, id)
	if err != nil {
		return domain.OrderWithItems{}, err
	}
	if order == nil {
		return domain.OrderWithItems{}, domain.ErrNotFound
	}

	items, err := s.repo.ListItems(ctx, s.db, order.ID)
	if err != nil {
		return domain.OrderWithItems{}, err
	}

	out := domain.OrderWithItems{Order: *order}
	for _, item := range items {
		if item == nil {
			continue
		}
		out.Items = append(out.Items, *item)
	}
	return out, nil
}

func (s *Service) List(ctx context.Context, req domain.ListOrderRequest) ([]domain.Order, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}

	filter := domain.ListOrderFilter{Status: req.Status}
	if strings.TrimSpace(req.CustomerID) != "" {
		id, err := s.parseID(req.CustomerID)
		if err != nil {
			return nil, err
		}
		filter.CustomerID = id
	}
	if strings.TrimSpace(req.SupplierID) != "" {
		id, err := s.parseID(req.SupplierID)
		if err != nil {
			return nil, err
		}
		filter.SupplierID = id
	}

	items, err := s.repo.List(ctx, s.db, orgID, filter)
	if err != nil {
		return nil, err
	}

	orders := make([]domain.Order, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		orders = append(orders, *item)
	}
	return orders, nil
}

func (s *Service) Acknowledge(ctx context.Context, id string) (domain.Order, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Order{}, domain.ErrInvalidOrganization
	}

	orderID, err := s.parseID(id)
	if err != nil {
		return domain.Order{}, err
	}

	if _, err := s.repo.Acknowledge(ctx, s.db, orgID, orderID); err != nil {
		return domain.Order{}, err
	}
	return s.reload(ctx, orgID, orderID)
}

func (s *Service) SetExpectedDelivery(ctx context.Context, req domain.SetExpectedDeliveryRequest) (domain.Order, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Order{}, domain.ErrInvalidOrganization
	}

	orderID, err := s.parseID(req.ID)
	if err != nil {
		return domain.Order{}, err
	}

	order, err := s.repo.FindByID(ctx, s.db, orgID, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if order == nil {
		return domain.Order{}, domain.ErrNotFound
	}

	deliverAt := req.DeliverAt.UTC()
	order.ExpectedDeliveryAt = &deliverAt
	order.UpdatedAt = time.Now().UTC()
	if err := s.repo.SetDeliveryDates(ctx, s.db, order); err != nil {
		return domain.Order{}, err
	}
	return *order, nil
}

func (s *Service) MarkDelivered(ctx context.Context, id string) (domain.Order, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Order{}, domain.ErrInvalidOrganization
	}

	orderID, err := s.parseID(id)
	if err != nil {
		return domain.Order{}, err
	}

	order, err := s.repo.FindByID(ctx, s.db, orgID, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if order == nil {
		return domain.Order{}, domain.ErrNotFound
	}

	now := time.Now().UTC()
	order.DeliveredAt = &now
	order.UpdatedAt = now
	if err := s.repo.SetDeliveryDates(ctx, s.db, order); err != nil {
		return domain.Order{}, err
	}
	return *order, nil
}

func (s *Service) UpdateStatus(ctx context.Context, req domain.UpdateStatusRequest) (domain.Order, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Order{}, domain.ErrInvalidOrganization
	}

	orderID, err := s.parseID(req.ID)
	if err != nil {
		return domain.Order{}, err
	}

	if !req.Status.Valid() {
		return domain.Order{}, domain.ErrInvalidStatus
	}

	order, err := s.repo.FindByID(ctx, s.db, orgID, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if order == nil {
		return domain.Order{}, domain.ErrNotFound
	}

	if !domain.CanTransition(order.Status, req.Status) {
		return domain.Order{}, domain.ErrInvalidTransition
	}

	affected, err := s.repo.UpdateStatus(ctx, s.db, orgID, orderID, order.Status, req.Status)
	if err != nil {
		return domain.Order{}, err
	}
	if affected == 0 {
		// Lost the race against a concurrent transition.
		return domain.Order{}, domain.ErrInvalidTransition
	}
	return s.reload(ctx, orgID, orderID)
}

func (s *Service) reload(ctx context.Context, orgID, orderID snowflake.ID) (domain.Order, error) {
	order, err := s.repo.FindByID(ctx, s.db, orgID, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if order == nil {
		return domain.Order{}, domain.ErrNotFound
	}
	return *order, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
