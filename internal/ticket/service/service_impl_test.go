package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	categorydomain "github.com/smallbiznis/procura/internal/category/domain"
	categoryrepo "github.com/smallbiznis/procura/internal/category/repository"
	customerdomain "github.com/smallbiznis/procura/internal/customer/domain"
	customerrepo "github.com/smallbiznis/procura/internal/customer/repository"
	"github.com/smallbiznis/procura/internal/notification"
	orderdomain "github.com/smallbiznis/procura/internal/order/domain"
	orderrepo "github.com/smallbiznis/procura/internal/order/repository"
	orderservice "github.com/smallbiznis/procura/internal/order/service"
	"github.com/smallbiznis/procura/internal/orgcontext"
	pricingdomain "github.com/smallbiznis/procura/internal/pricing/domain"
	pricingrepo "github.com/smallbiznis/procura/internal/pricing/repository"
	"github.com/smallbiznis/procura/internal/providers/email"
	quotedomain "github.com/smallbiznis/procura/internal/quote/domain"
	quoterepo "github.com/smallbiznis/procura/internal/quote/repository"
	routingdomain "github.com/smallbiznis/procura/internal/routing/domain"
	routingrepo "github.com/smallbiznis/procura/internal/routing/repository"
	routingservice "github.com/smallbiznis/procura/internal/routing/service"
	supplierdomain "github.com/smallbiznis/procura/internal/supplier/domain"
	supplierrepo "github.com/smallbiznis/procura/internal/supplier/repository"
	"github.com/smallbiznis/procura/internal/ticket/domain"
	"github.com/smallbiznis/procura/internal/ticket/repository"
	"github.com/smallbiznis/procura/pkg/db"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func setupTicketDB(t *testing.T) (*gorm.DB, *snowflake.Node) {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)

	err = conn.AutoMigrate(
		&customerdomain.Customer{},
		&categorydomain.Category{},
		&categorydomain.CategorySupplier{},
		&categorydomain.CategoryFormField{},
		&routingdomain.RoutingRule{},
		&routingdomain.RuleSupplier{},
		&supplierdomain.Supplier{},
		&supplierdomain.SupplierOrg{},
		&domain.Ticket{},
		&domain.TicketComment{},
		&quotedomain.Quote{},
		&quotedomain.QuoteItem{},
		&pricingdomain.OwnerQuoteAdjustment{},
		&orderdomain.Order{},
		&orderdomain.OrderItem{},
	)
	require.NoError(t, err)

	node, err := snowflake.NewNode(4)
	require.NoError(t, err)

	return conn, node
}

func newTicketService(conn *gorm.DB, node *snowflake.Node) domain.Service {
	log := zap.NewNop()
	router := routingservice.New(routingservice.Params{
		DB:           conn,
		Log:          log,
		GenID:        node,
		Repo:         routingrepo.Provide(),
		CategoryRepo: categoryrepo.Provide(),
		SupplierRepo: supplierrepo.Provide(),
	})
	orders := orderservice.New(orderservice.Params{
		DB:    conn,
		Log:   log,
		GenID: node,
		Repo:  orderrepo.Provide(),
	})
	return New(Params{
		DB:           conn,
		Log:          log,
		GenID:        node,
		Repo:         repository.Provide(),
		CustomerRepo: customerrepo.Provide(),
		CategoryRepo: categoryrepo.Provide(),
		QuoteRepo:    quoterepo.Provide(),
		PricingRepo:  pricingrepo.Provide(),
		Router:       router,
		Orders:       orders,
		Dispatcher:   notification.NewDispatcher(log, email.NewNoop()),
	})
}

type ticketSeed struct {
	OrgID      snowflake.ID
	CustomerID snowflake.ID
	CategoryID snowflake.ID
	SupplierID snowflake.ID
}

// seedTicketFixtures builds a category with one required choice field and
// one default supplier.
func seedTicketFixtures(t *testing.T, conn *gorm.DB, node *snowflake.Node) ticketSeed {
	t.Helper()

	now := time.Now().UTC()
	seed := ticketSeed{
		OrgID:      node.Generate(),
		CustomerID: node.Generate(),
		CategoryID: node.Generate(),
		SupplierID: node.Generate(),
	}

	require.NoError(t, conn.Create(&customerdomain.Customer{
		ID:        seed.CustomerID,
		OrgID:     seed.OrgID,
		Name:      "Dana Buyer",
		Email:     "dana@example.com",
		CreatedAt: now,
		UpdatedAt: now,
	}).Error)

	require.NoError(t, conn.Create(&categorydomain.Category{
		ID:        seed.CategoryID,
		OrgID:     seed.OrgID,
		Name:      "Print Jobs",
		Slug:      "print-jobs",
		CreatedAt: now,
		UpdatedAt: now,
	}).Error)

	require.NoError(t, conn.Create(&categorydomain.CategoryFormField{
		ID:         node.Generate(),
		OrgID:      seed.OrgID,
		CategoryID: seed.CategoryID,
		Key:        "color",
		Label:      "Color",
		Type:       categorydomain.FieldTypeChoice,
		Required:   true,
		Choices:    datatypes.JSONSlice[string]{"red", "blue"},
		CreatedAt:  now,
		UpdatedAt:  now,
	}).Error)

	require.NoError(t, conn.Create(&supplierdomain.Supplier{
		ID:        seed.SupplierID,
		Name:      "Print Partner",
		Email:     "quotes@example.com",
		CreatedAt: now,
		UpdatedAt: now,
	}).Error)
	require.NoError(t, conn.Create(&supplierdomain.SupplierOrg{
		ID:         node.Generate(),
		SupplierID: seed.SupplierID,
		OrgID:      seed.OrgID,
		CreatedAt:  now,
	}).Error)
	require.NoError(t, conn.Create(&categorydomain.CategorySupplier{
		ID:         node.Generate(),
		OrgID:      seed.OrgID,
		CategoryID: seed.CategoryID,
		SupplierID: seed.SupplierID,
		CreatedAt:  now,
	}).Error)

	return seed
}

func TestCreateTicketRoutesToDefaultSupplier(t *testing.T) {
	conn, node := setupTicketDB(t)
	seed := seedTicketFixtures(t, conn, node)
	svc := newTicketService(conn, node)
	ctx := orgcontext.WithOrgID(context.Background(), int64(seed.OrgID))

	resp, err := svc.Create(ctx, domain.CreateTicketRequest{
		CustomerID:      seed.CustomerID.String(),
		CategoryID:      seed.CategoryID.String(),
		Title:           "500 red flyers",
		DesiredQuantity: 500,
		ExtraData:       map[string]any{"color": "red"},
	})
	require.NoError(t, err)
	require.Equal(t, domain.StatusOpen, resp.Ticket.Status)
	require.NotEmpty(t, resp.Ticket.SupplierToken)
	require.Equal(t, "red", resp.Ticket.ExtraData["color"])
	require.Len(t, resp.AssignedSuppliers, 1)
	require.Equal(t, seed.SupplierID, resp.AssignedSuppliers[0].ID)
}

func TestCreateTicketValidatesFormFields(t *testing.T) {
	conn, node := setupTicketDB(t)
	seed := seedTicketFixtures(t, conn, node)
	svc := newTicketService(conn, node)
	ctx := orgcontext.WithOrgID(context.Background(), int64(seed.OrgID))

	_, err := svc.Create(ctx, domain.CreateTicketRequest{
		CustomerID:      seed.CustomerID.String(),
		CategoryID:      seed.CategoryID.String(),
		Title:           "missing color",
		DesiredQuantity: 10,
	})
	var verr *categorydomain.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 1)
	require.Equal(t, "color", verr.Fields[0].Key)

	_, err = svc.Create(ctx, domain.CreateTicketRequest{
		CustomerID:      seed.CustomerID.String(),
		CategoryID:      seed.CategoryID.String(),
		Title:           "bad color",
		DesiredQuantity: 10,
		ExtraData:       map[string]any{"color": "green"},
	})
	require.ErrorAs(t, err, &verr)
}

func TestCreateTicketRejectsUnknownCustomer(t *testing.T) {
	conn, node := setupTicketDB(t)
	seed := seedTicketFixtures(t, conn, node)
	svc := newTicketService(conn, node)
	ctx := orgcontext.WithOrgID(context.Background(), int64(seed.OrgID))

	_, err := svc.Create(ctx, domain.CreateTicketRequest{
		CustomerID:      node.Generate().String(),
		CategoryID:      seed.CategoryID.String(),
		Title:           "ghost customer",
		DesiredQuantity: 10,
		ExtraData:       map[string]any{"color": "red"},
	})
	require.ErrorIs(t, err, domain.ErrInvalidCustomer)
}

// offerTicket pushes a created ticket into offered state with a selected
// quote, one line item and an owner markup, bypassing the service layer.
func offerTicket(t *testing.T, conn *gorm.DB, node *snowflake.Node, seed ticketSeed, ticketID snowflake.ID) snowflake.ID {
	t.Helper()

	now := time.Now().UTC()
	quoteID := node.Generate()
	itemID := node.Generate()

	require.NoError(t, conn.Create(&quotedomain.Quote{
		ID:         quoteID,
		OrgID:      seed.OrgID,
		TicketID:   ticketID,
		SupplierID: seed.SupplierID,
		Currency:   "TRY",
		Amount:     decimal.RequireFromString("25.00"),
		CreatedAt:  now,
		UpdatedAt:  now,
	}).Error)
	require.NoError(t, conn.Create(&quotedomain.QuoteItem{
		ID:          itemID,
		QuoteID:     quoteID,
		Description: "flyers",
		Quantity:    10,
		UnitPrice:   decimal.RequireFromString("2.50"),
		CreatedAt:   now,
	}).Error)
	require.NoError(t, conn.Create(&pricingdomain.OwnerQuoteAdjustment{
		ID:          node.Generate(),
		OrgID:       seed.OrgID,
		TicketID:    ticketID,
		QuoteItemID: itemID,
		Markup:      decimal.RequireFromString("2.50"),
		CreatedAt:   now,
		UpdatedAt:   now,
	}).Error)

	require.NoError(t, conn.Model(&domain.Ticket{}).
		Where("id = ?", ticketID).
		Updates(map[string]any{
			"status":            domain.StatusOffered,
			"selected_quote_id": quoteID,
			"offered_price":     decimal.RequireFromString("27.50"),
		}).Error)

	return quoteID
}

func TestAcceptCreatesOrderOnce(t *testing.T) {
	conn, node := setupTicketDB(t)
	seed := seedTicketFixtures(t, conn, node)
	svc := newTicketService(conn, node)
	ctx := orgcontext.WithOrgID(context.Background(), int64(seed.OrgID))

	created, err := svc.Create(ctx, domain.CreateTicketRequest{
		CustomerID:      seed.CustomerID.String(),
		CategoryID:      seed.CategoryID.String(),
		Title:           "500 red flyers",
		DesiredQuantity: 500,
		ExtraData:       map[string]any{"color": "red"},
	})
	require.NoError(t, err)

	quoteID := offerTicket(t, conn, node, seed, created.Ticket.ID)

	accepted, err := svc.Accept(ctx, domain.AcceptTicketRequest{ID: created.Ticket.ID.String()})
	require.NoError(t, err)
	require.Equal(t, domain.StatusAccepted, accepted.Status)

	var order orderdomain.Order
	require.NoError(t, conn.Where("ticket_id = ?", created.Ticket.ID).Take(&order).Error)
	require.Equal(t, quoteID, order.QuoteID)
	require.Equal(t, seed.SupplierID, order.SupplierID)
	require.Equal(t, "27.5", order.TotalAmount.String())

	var items []orderdomain.OrderItem
	require.NoError(t, conn.Where("order_id = ?", order.ID).Find(&items).Error)
	require.Len(t, items, 1)
	require.Equal(t, "27.5", items[0].LineTotal.String())

	_, err = svc.Accept(ctx, domain.AcceptTicketRequest{ID: created.Ticket.ID.String()})
	require.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestAcceptFlatQuoteCreatesFallbackItem(t *testing.T) {
	conn, node := setupTicketDB(t)
	seed := seedTicketFixtures(t, conn, node)
	svc := newTicketService(conn, node)
	ctx := orgcontext.WithOrgID(context.Background(), int64(seed.OrgID))

	created, err := svc.Create(ctx, domain.CreateTicketRequest{
		CustomerID:      seed.CustomerID.String(),
		CategoryID:      seed.CategoryID.String(),
		Title:           "one-off print run",
		DesiredQuantity: 50,
		ExtraData:       map[string]any{"color": "blue"},
	})
	require.NoError(t, err)

	// A flat-amount quote carries no line items at all.
	now := time.Now().UTC()
	quoteID := node.Generate()
	require.NoError(t, conn.Create(&quotedomain.Quote{
		ID:         quoteID,
		OrgID:      seed.OrgID,
		TicketID:   created.Ticket.ID,
		SupplierID: seed.SupplierID,
		Currency:   "TRY",
		Amount:     decimal.RequireFromString("120.00"),
		CreatedAt:  now,
		UpdatedAt:  now,
	}).Error)
	require.NoError(t, conn.Model(&domain.Ticket{}).
		Where("id = ?", created.Ticket.ID).
		Updates(map[string]any{
			"status":            domain.StatusOffered,
			"selected_quote_id": quoteID,
			"offered_price":     decimal.RequireFromString("120.00"),
		}).Error)

	_, err = svc.Accept(ctx, domain.AcceptTicketRequest{ID: created.Ticket.ID.String()})
	require.NoError(t, err)

	var order orderdomain.Order
	require.NoError(t, conn.Where("ticket_id = ?", created.Ticket.ID).Take(&order).Error)
	require.Equal(t, "120", order.TotalAmount.String())

	// The order still gets a line: the whole quote as a single fallback item.
	var items []orderdomain.OrderItem
	require.NoError(t, conn.Where("order_id = ?", order.ID).Find(&items).Error)
	require.Len(t, items, 1)
	require.Equal(t, "Quote #"+quoteID.String(), items[0].Description)
	require.EqualValues(t, 1, items[0].Quantity)
	require.Equal(t, "120", items[0].UnitPrice.String())
	require.Equal(t, "120", items[0].LineTotal.String())
}

func TestAcceptCarriesGlobalMarkupAsOrderLine(t *testing.T) {
	conn, node := setupTicketDB(t)
	seed := seedTicketFixtures(t, conn, node)
	svc := newTicketService(conn, node)
	ctx := orgcontext.WithOrgID(context.Background(), int64(seed.OrgID))

	created, err := svc.Create(ctx, domain.CreateTicketRequest{
		CustomerID:      seed.CustomerID.String(),
		CategoryID:      seed.CategoryID.String(),
		Title:           "flyers with house margin",
		DesiredQuantity: 10,
		ExtraData:       map[string]any{"color": "red"},
	})
	require.NoError(t, err)

	offerTicket(t, conn, node, seed, created.Ticket.ID)
	// A ticket-level markup left over from an older offer flow.
	require.NoError(t, conn.Model(&domain.Ticket{}).
		Where("id = ?", created.Ticket.ID).
		Updates(map[string]any{
			"global_markup": decimal.RequireFromString("5.00"),
			"offered_price": decimal.RequireFromString("32.50"),
		}).Error)

	_, err = svc.Accept(ctx, domain.AcceptTicketRequest{ID: created.Ticket.ID.String()})
	require.NoError(t, err)

	var order orderdomain.Order
	require.NoError(t, conn.Where("ticket_id = ?", created.Ticket.ID).Take(&order).Error)

	var items []orderdomain.OrderItem
	require.NoError(t, conn.Where("order_id = ?", order.ID).Order("id").Find(&items).Error)
	require.Len(t, items, 2)
	require.Equal(t, "27.5", items[0].LineTotal.String())
	// The markup line prices at zero and sells for the markup itself.
	require.Equal(t, "Overall business markup", items[1].Description)
	require.True(t, items[1].UnitPrice.IsZero())
	require.Equal(t, "5", items[1].Markup.String())
	require.Equal(t, "5", items[1].LineTotal.String())
}

func TestAcceptRequiresSelectedQuote(t *testing.T) {
	conn, node := setupTicketDB(t)
	seed := seedTicketFixtures(t, conn, node)
	svc := newTicketService(conn, node)
	ctx := orgcontext.WithOrgID(context.Background(), int64(seed.OrgID))

	created, err := svc.Create(ctx, domain.CreateTicketRequest{
		CustomerID:      seed.CustomerID.String(),
		CategoryID:      seed.CategoryID.String(),
		Title:           "no quote yet",
		DesiredQuantity: 5,
		ExtraData:       map[string]any{"color": "blue"},
	})
	require.NoError(t, err)

	require.NoError(t, conn.Model(&domain.Ticket{}).
		Where("id = ?", created.Ticket.ID).
		Update("status", domain.StatusOffered).Error)

	_, err = svc.Accept(ctx, domain.AcceptTicketRequest{ID: created.Ticket.ID.String()})
	require.ErrorIs(t, err, domain.ErrNoSelectedQuote)
}

func TestRejectThenClose(t *testing.T) {
	conn, node := setupTicketDB(t)
	seed := seedTicketFixtures(t, conn, node)
	svc := newTicketService(conn, node)
	ctx := orgcontext.WithOrgID(context.Background(), int64(seed.OrgID))

	created, err := svc.Create(ctx, domain.CreateTicketRequest{
		CustomerID:      seed.CustomerID.String(),
		CategoryID:      seed.CategoryID.String(),
		Title:           "too expensive",
		DesiredQuantity: 5,
		ExtraData:       map[string]any{"color": "blue"},
	})
	require.NoError(t, err)

	offerTicket(t, conn, node, seed, created.Ticket.ID)

	rejected, err := svc.Reject(ctx, domain.RejectTicketRequest{ID: created.Ticket.ID.String()})
	require.NoError(t, err)
	require.Equal(t, domain.StatusRejected, rejected.Status)

	closed, err := svc.Close(ctx, domain.CloseTicketRequest{ID: created.Ticket.ID.String()})
	require.NoError(t, err)
	require.Equal(t, domain.StatusClosed, closed.Status)

	// Closed tickets cannot be rejected again.
	_, err = svc.Reject(ctx, domain.RejectTicketRequest{ID: created.Ticket.ID.String()})
	require.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestAddCommentRequiresBody(t *testing.T) {
	conn, node := setupTicketDB(t)
	seed := seedTicketFixtures(t, conn, node)
	svc := newTicketService(conn, node)
	ctx := orgcontext.WithOrgID(context.Background(), int64(seed.OrgID))

	created, err := svc.Create(ctx, domain.CreateTicketRequest{
		CustomerID:      seed.CustomerID.String(),
		CategoryID:      seed.CategoryID.String(),
		Title:           "chatty ticket",
		DesiredQuantity: 5,
		ExtraData:       map[string]any{"color": "red"},
	})
	require.NoError(t, err)

	_, err = svc.AddComment(ctx, domain.AddCommentRequest{
		TicketID:   created.Ticket.ID.String(),
		AuthorRole: "owner",
		Body:       "   ",
	})
	require.ErrorIs(t, err, domain.ErrEmptyComment)

	comment, err := svc.AddComment(ctx, domain.AddCommentRequest{
		TicketID:   created.Ticket.ID.String(),
		AuthorRole: "owner",
		Body:       "supplier confirmed stock",
	})
	require.NoError(t, err)

	comments, err := svc.ListComments(ctx, created.Ticket.ID.String())
	require.NoError(t, err)
	require.Len(t, comments, 1)
	require.Equal(t, comment.ID, comments[0].ID)
}
