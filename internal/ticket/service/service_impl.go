package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	categorydomain "github.com/smallbiznis/procura/internal/category/domain"
	customerdomain "github.com/smallbiznis/procura/internal/customer/domain"
	"github.com/smallbiznis/procura/internal/notification"
	orderdomain "github.com/smallbiznis/procura/internal/order/domain"
	"github.com/smallbiznis/procura/internal/orgcontext"
	pricingdomain "github.com/smallbiznis/procura/internal/pricing/domain"
	quotedomain "github.com/smallbiznis/procura/internal/quote/domain"
	routingdomain "github.com/smallbiznis/procura/internal/routing/domain"
	"github.com/smallbiznis/procura/internal/ticket/domain"
	"github.com/smallbiznis/procura/pkg/db/pagination"
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
	CustomerRepo customerdomain.Repository
	CategoryRepo categorydomain.Repository
	QuoteRepo    quotedomain.Repository
	PricingRepo  pricingdomain.Repository
	Router       routingdomain.Service
	Orders       orderdomain.Service
	Dispatcher   notification.Dispatcher
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	repo         domain.Repository
	customerRepo customerdomain.Repository
	categoryRepo categorydomain.Repository
	quoteRepo    quotedomain.Repository
	pricingRepo  pricingdomain.Repository
	router       routingdomain.Service
	orders       orderdomain.Service
	dispatcher   notification.Dispatcher
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("ticket.service"),
		genID:        p.GenID,
		repo:         p.Repo,
		customerRepo: p.CustomerRepo,
		categoryRepo: p.CategoryRepo,
		quoteRepo:    p.QuoteRepo,
		pricingRepo:  p.PricingRepo,
		router:       p.Router,
		orders:       p.Orders,
		dispatcher:   p.Dispatcher,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateTicketRequest) (domain.CreateTicketResponse, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.CreateTicketResponse{}, domain.ErrInvalidOrganization
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return domain.CreateTicketResponse{}, domain.ErrInvalidTitle
	}
	if req.DesiredQuantity <= 0 {
		return domain.CreateTicketResponse{}, domain.ErrInvalidQuantity
	}

	customerID, err := s.parseID(req.CustomerID)
	if err != nil {
		return domain.CreateTicketResponse{}, err
	}
	customer, err := s.customerRepo.FindByID(ctx, s.db, orgID, customerID)
	if err != nil {
		return domain.CreateTicketResponse{}, err
	}
	if customer == nil {
		return domain.CreateTicketResponse{}, domain.ErrInvalidCustomer
	}

	categoryID, err := s.parseID(req.CategoryID)
	if err != nil {
		return domain.CreateTicketResponse{}, err
	}
	category, err := s.categoryRepo.FindByID(ctx, s.db, orgID, categoryID)
	if err != nil {
		return domain.CreateTicketResponse{}, err
	}
	if category == nil {
		return domain.CreateTicketResponse{}, domain.ErrInvalidCategory
	}

	fields, err := s.categoryRepo.ListFormFields(ctx, s.db, orgID, categoryID)
	if err != nil {
		return domain.CreateTicketResponse{}, err
	}
	attrs, err := categorydomain.ValidateAttributes(fields, req.ExtraData)
	if err != nil {
		return domain.CreateTicketResponse{}, err
	}

	now := time.Now().UTC()
	ticket := domain.Ticket{
		ID:              s.genID.Generate(),
		OrgID:           orgID,
		CustomerID:      customerID,
		CategoryID:      categoryID,
		Title:           title,
		Description:     strings.TrimSpace(req.Description),
		DesiredQuantity: req.DesiredQuantity,
		ExtraData:       datatypes.JSONMap(attrs),
		Status:          domain.StatusOpen,
		SupplierToken:   uuid.NewString(),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Insert(ctx, s.db, &ticket); err != nil {
		return domain.CreateTicketResponse{}, err
	}

	suppliers, err := s.router.AssignedSuppliers(ctx, routingdomain.TicketFacts{
		OrgID:           orgID,
		CategoryID:      categoryID,
		DesiredQuantity: ticket.DesiredQuantity,
		Attributes:      ticket.ExtraData,
	})
	if err != nil {
		// Routing problems must not undo the created ticket.
		s.log.Warn("supplier routing failed after ticket creation",
			zap.String("ticket_id", ticket.ID.String()),
			zap.Error(err),
		)
		suppliers = nil
	}

	s.dispatcher.TicketCreated(ctx, ticket, suppliers)

	return domain.CreateTicketResponse{Ticket: ticket, AssignedSuppliers: suppliers}, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetTicketRequest) (domain.Ticket, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Ticket{}, domain.ErrInvalidOrganization
	}

	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Ticket{}, err
	}

	ticket, err := s.repo.FindByID(ctx, s.db, orgID, id)
	if err != nil {
		return domain.Ticket{}, err
	}
	if ticket == nil {
		return domain.Ticket{}, domain.ErrNotFound
	}
	return *ticket, nil
}

func (s *Service) GetBySupplierToken(ctx context.Context, token string) (domain.Ticket, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Ticket{}, domain.ErrNotFound
	}

	ticket, err := s.repo.FindBySupplierToken(ctx, s.db, token)
	if err != nil {
		return domain.Ticket{}, err
	}
	if ticket == nil {
		return domain.Ticket{}, domain.ErrNotFound
	}
	return *ticket, nil
}

func (s *Service) List(ctx context.Context, req domain.ListTicketRequest) (domain.ListTicketResponse, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.ListTicketResponse{}, domain.ErrInvalidOrganization
	}

	filter := domain.ListTicketFilter{Status: req.Status}
	if strings.TrimSpace(req.CustomerID) != "" {
		id, err := s.parseID(req.CustomerID)
		if err != nil {
			return domain.ListTicketResponse{}, err
		}
		filter.CustomerID = id
	}
	if strings.TrimSpace(req.CategoryID) != "" {
		id, err := s.parseID(req.CategoryID)
		if err != nil {
			return domain.ListTicketResponse{}, err
		}
		filter.CategoryID = id
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, orgID, filter, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(pageSize),
	})
	if err != nil {
		return domain.ListTicketResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, int(pageSize), func(ticket *domain.Ticket) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        ticket.ID.String(),
			CreatedAt: ticket.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	tickets := make([]domain.Ticket, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		tickets = append(tickets, *item)
	}

	resp := domain.ListTicketResponse{Tickets: tickets}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *Service) Accept(ctx context.Context, req domain.AcceptTicketRequest) (domain.Ticket, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Ticket{}, domain.ErrInvalidOrganization
	}

	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Ticket{}, err
	}

	ticket, err := s.repo.FindByID(ctx, s.db, orgID, id)
	if err != nil {
		return domain.Ticket{}, err
	}
	if ticket == nil {
		return domain.Ticket{}, domain.ErrNotFound
	}
	if ticket.Status != domain.StatusOffered {
		return domain.Ticket{}, domain.ErrInvalidStatus
	}
	if ticket.SelectedQuoteID == 0 {
		return domain.Ticket{}, domain.ErrNoSelectedQuote
	}

	quote, err := s.quoteRepo.FindByID(ctx, s.db, orgID, ticket.SelectedQuoteID)
	if err != nil {
		return domain.Ticket{}, err
	}
	if quote == nil {
		return domain.Ticket{}, domain.ErrNoSelectedQuote
	}

	quoteItems, err := s.quoteRepo.ListItems(ctx, s.db, quote.ID)
	if err != nil {
		return domain.Ticket{}, err
	}

	adjustments, err := s.pricingRepo.ListByTicket(ctx, s.db, orgID, ticket.ID)
	if err != nil {
		return domain.Ticket{}, err
	}

	input := orderdomain.CreateFromTicketInput{
		Ticket: *ticket,
		Quote:  *quote,
	}
	for _, item := range quoteItems {
		if item == nil {
			continue
		}
		input.Items = append(input.Items, *item)
	}
	for _, adjustment := range adjustments {
		if adjustment == nil {
			continue
		}
		input.Adjustments = append(input.Adjustments, *adjustment)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		affected, err := s.repo.UpdateStatus(ctx, tx, orgID, id, domain.StatusOffered, domain.StatusAccepted)
		if err != nil {
			return err
		}
		if affected == 0 {
			return domain.ErrInvalidStatus
		}
		_, err = s.orders.CreateFromTicket(ctx, tx, orgID, input)
		return err
	})
	if err != nil {
		return domain.Ticket{}, err
	}

	return s.reload(ctx, orgID, id)
}

func (s *Service) Reject(ctx context.Context, req domain.RejectTicketRequest) (domain.Ticket, error) {
	return s.transition(ctx, req.ID, domain.StatusOffered, domain.StatusRejected)
}

func (s *Service) Close(ctx context.Context, req domain.CloseTicketRequest) (domain.Ticket, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Ticket{}, domain.ErrInvalidOrganization
	}

	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Ticket{}, err
	}

	ticket, err := s.repo.FindByID(ctx, s.db, orgID, id)
	if err != nil {
		return domain.Ticket{}, err
	}
	if ticket == nil {
		return domain.Ticket{}, domain.ErrNotFound
	}
	if ticket.Status != domain.StatusAccepted && ticket.Status != domain.StatusRejected {
		return domain.Ticket{}, domain.ErrInvalidStatus
	}

	affected, err := s.repo.UpdateStatus(ctx, s.db, orgID, id, ticket.Status, domain.StatusClosed)
	if err != nil {
		return domain.Ticket{}, err
	}
	if affected == 0 {
		return domain.Ticket{}, domain.ErrInvalidStatus
	}
	return s.reload(ctx, orgID, id)
}

func (s *Service) AddComment(ctx context.Context, req domain.AddCommentRequest) (domain.TicketComment, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.TicketComment{}, domain.ErrInvalidOrganization
	}

	ticketID, err := s.parseID(req.TicketID)
	if err != nil {
		return domain.TicketComment{}, err
	}

	body := strings.TrimSpace(req.Body)
	if body == "" {
		return domain.TicketComment{}, domain.ErrEmptyComment
	}

	ticket, err := s.repo.FindByID(ctx, s.db, orgID, ticketID)
	if err != nil {
		return domain.TicketComment{}, err
	}
	if ticket == nil {
		return domain.TicketComment{}, domain.ErrNotFound
	}

	comment := domain.TicketComment{
		ID:         s.genID.Generate(),
		OrgID:      orgID,
		TicketID:   ticketID,
		AuthorRole: strings.TrimSpace(req.AuthorRole),
		Body:       body,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repo.InsertComment(ctx, s.db, &comment); err != nil {
		return domain.TicketComment{}, err
	}
	return comment, nil
}

func (s *Service) ListComments(ctx context.Context, ticketID string) ([]domain.TicketComment, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}

	id, err := s.parseID(ticketID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListComments(ctx, s.db, orgID, id)
	if err != nil {
		return nil, err
	}

	comments := make([]domain.TicketComment, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		comments = append(comments, *item)
	}
	return comments, nil
}

func (s *Service) transition(ctx context.Context, rawID string, from, to domain.Status) (domain.Ticket, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Ticket{}, domain.ErrInvalidOrganization
	}

	id, err := s.parseID(rawID)
	if err != nil {
		return domain.Ticket{}, err
	}

	affected, err := s.repo.UpdateStatus(ctx, s.db, orgID, id, from, to)
	if err != nil {
		return domain.Ticket{}, err
	}
	if affected == 0 {
		ticket, err := s.repo.FindByID(ctx, s.db, orgID, id)
		if err != nil {
			return domain.Ticket{}, err
		}
		if ticket == nil {
			return domain.Ticket{}, domain.ErrNotFound
		}
		return domain.Ticket{}, domain.ErrInvalidStatus
	}
	return s.reload(ctx, orgID, id)
}

func (s *Service) reload(ctx context.Context, orgID, id snowflake.ID) (domain.Ticket, error) {
	ticket, err := s.repo.FindByID(ctx, s.db, orgID, id)
	if err != nil {
		return domain.Ticket{}, err
	}
	if ticket == nil {
		return domain.Ticket{}, domain.ErrNotFound
	}
	return *ticket, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
