package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	categorydomain "github.com/smallbiznis/procura/internal/category/domain"
	categoryrepo "github.com/smallbiznis/procura/internal/category/repository"
	"github.com/smallbiznis/procura/internal/orgcontext"
	"github.com/smallbiznis/procura/internal/quote/domain"
	"github.com/smallbiznis/procura/internal/quote/repository"
	routingdomain "github.com/smallbiznis/procura/internal/routing/domain"
	routingrepo "github.com/smallbiznis/procura/internal/routing/repository"
	routingservice "github.com/smallbiznis/procura/internal/routing/service"
	supplierdomain "github.com/smallbiznis/procura/internal/supplier/domain"
	supplierrepo "github.com/smallbiznis/procura/internal/supplier/repository"
	ticketdomain "github.com/smallbiznis/procura/internal/ticket/domain"
	ticketrepo "github.com/smallbiznis/procura/internal/ticket/repository"
	"github.com/smallbiznis/procura/pkg/db"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupQuoteDB(t *testing.T) (*gorm.DB, *snowflake.Node) {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)

	err = conn.AutoMigrate(
		&categorydomain.Category{},
		&categorydomain.CategorySupplier{},
		&routingdomain.RoutingRule{},
		&routingdomain.RuleSupplier{},
		&supplierdomain.Supplier{},
		&supplierdomain.SupplierOrg{},
		&supplierdomain.SupplierProduct{},
		&ticketdomain.Ticket{},
		&domain.Quote{},
		&domain.QuoteItem{},
	)
	require.NoError(t, err)

	node, err := snowflake.NewNode(3)
	require.NoError(t, err)

	return conn, node
}

func newQuoteService(conn *gorm.DB, node *snowflake.Node) domain.Service {
	router := routingservice.New(routingservice.Params{
		DB:           conn,
		Log:          zap.NewNop(),
		GenID:        node,
		Repo:         routingrepo.Provide(),
		CategoryRepo: categoryrepo.Provide(),
		SupplierRepo: supplierrepo.Provide(),
	})
	return New(Params{
		DB:           conn,
		Log:          zap.NewNop(),
		GenID:        node,
		Repo:         repository.Provide(),
		TicketRepo:   ticketrepo.Provide(),
		SupplierRepo: supplierrepo.Provide(),
		Router:       router,
	})
}

type quoteSeed struct {
	OrgID      snowflake.ID
	CategoryID snowflake.ID
	TicketID   snowflake.ID
	SupplierID snowflake.ID
	OutsiderID snowflake.ID
}

// seedQuoteTicket builds an open ticket whose category routes to one
// default supplier, plus a second supplier outside the routed set.
func seedQuoteTicket(t *testing.T, conn *gorm.DB, node *snowflake.Node) quoteSeed {
	t.Helper()

	now := time.Now().UTC()
	seed := quoteSeed{
		OrgID:      node.Generate(),
		CategoryID: node.Generate(),
		TicketID:   node.Generate(),
		SupplierID: node.Generate(),
		OutsiderID: node.Generate(),
	}

	require.NoError(t, conn.Create(&categorydomain.Category{
		ID:        seed.CategoryID,
		OrgID:     seed.OrgID,
		Name:      "Packaging",
		Slug:      "packaging",
		CreatedAt: now,
		UpdatedAt: now,
	}).Error)

	for _, supplierID := range []snowflake.ID{seed.SupplierID, seed.OutsiderID} {
		require.NoError(t, conn.Create(&supplierdomain.Supplier{
			ID:        supplierID,
			Name:      "Supplier " + supplierID.String(),
			Email:     "sales@example.com",
			CreatedAt: now,
			UpdatedAt: now,
		}).Error)
		require.NoError(t, conn.Create(&supplierdomain.SupplierOrg{
			ID:         node.Generate(),
			SupplierID: supplierID,
			OrgID:      seed.OrgID,
			CreatedAt:  now,
		}).Error)
	}

	require.NoError(t, conn.Create(&categorydomain.CategorySupplier{
		ID:         node.Generate(),
		OrgID:      seed.OrgID,
		CategoryID: seed.CategoryID,
		SupplierID: seed.SupplierID,
		CreatedAt:  now,
	}).Error)

	require.NoError(t, conn.Create(&ticketdomain.Ticket{
		ID:              seed.TicketID,
		OrgID:           seed.OrgID,
		CustomerID:      node.Generate(),
		CategoryID:      seed.CategoryID,
		Title:           "5000 mailer boxes",
		DesiredQuantity: 5000,
		Status:          ticketdomain.StatusOpen,
		SupplierToken:   uuid.NewString(),
		CreatedAt:       now,
		UpdatedAt:       now,
	}).Error)

	return seed
}

func TestSubmitFlatAmountQuote(t *testing.T) {
	conn, node := setupQuoteDB(t)
	seed := seedQuoteTicket(t, conn, node)
	svc := newQuoteService(conn, node)
	ctx := orgcontext.WithOrgID(context.Background(), int64(seed.OrgID))

	resp, err := svc.Submit(ctx, domain.SubmitQuoteRequest{
		TicketID:   seed.TicketID.String(),
		SupplierID: seed.SupplierID.String(),
		Amount:     "150.50",
		Note:       "bulk discount included",
	})
	require.NoError(t, err)
	require.Equal(t, "150.5", resp.Quote.Amount.String())
	require.Equal(t, "TRY", resp.Quote.Currency)
	require.Empty(t, resp.Items)
}

func TestSubmitItemizedQuoteComputesTotal(t *testing.T) {
	conn, node := setupQuoteDB(t)
	seed := seedQuoteTicket(t, conn, node)
	svc := newQuoteService(conn, node)
	ctx := orgcontext.WithOrgID(context.Background(), int64(seed.OrgID))

	resp, err := svc.Submit(ctx, domain.SubmitQuoteRequest{
		TicketID:   seed.TicketID.String(),
		SupplierID: seed.SupplierID.String(),
		Currency:   "eur",
		Items: []domain.SubmitItemInput{
			{Description: "boxes", Quantity: 2, UnitPrice: "10.25"},
			{Description: "tape", Quantity: 1, UnitPrice: "5.50"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, "26", resp.Quote.Amount.String())
	require.Equal(t, "EUR", resp.Quote.Currency)
	require.Len(t, resp.Items, 2)
	require.Equal(t, 0, resp.Items[0].Position)
	require.Equal(t, 1, resp.Items[1].Position)
}

func TestSubmitReplacesExistingQuote(t *testing.T) {
	conn, node := setupQuoteDB(t)
	seed := seedQuoteTicket(t, conn, node)
	svc := newQuoteService(conn, node)
	ctx := orgcontext.WithOrgID(context.Background(), int64(seed.OrgID))

	first, err := svc.Submit(ctx, domain.SubmitQuoteRequest{
		TicketID:   seed.TicketID.String(),
		SupplierID: seed.SupplierID.String(),
		Items: []domain.SubmitItemInput{
			{Description: "boxes", Quantity: 10, UnitPrice: "3.00"},
		},
	})
	require.NoError(t, err)

	second, err := svc.Submit(ctx, domain.SubmitQuoteRequest{
		TicketID:   seed.TicketID.String(),
		SupplierID: seed.SupplierID.String(),
		Items: []domain.SubmitItemInput{
			{Description: "boxes, revised", Quantity: 10, UnitPrice: "2.50"},
			{Description: "rush fee", Quantity: 1, UnitPrice: "15.00"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, first.Quote.ID, second.Quote.ID)
	require.Equal(t, "40", second.Quote.Amount.String())

	quotes, err := svc.ListByTicket(ctx, domain.ListQuoteRequest{TicketID: seed.TicketID.String()})
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	require.Len(t, quotes[0].Items, 2)
}

func TestSubmitRejectsUnassignedSupplier(t *testing.T) {
	conn, node := setupQuoteDB(t)
	seed := seedQuoteTicket(t, conn, node)
	svc := newQuoteService(conn, node)
	ctx := orgcontext.WithOrgID(context.Background(), int64(seed.OrgID))

	_, err := svc.Submit(ctx, domain.SubmitQuoteRequest{
		TicketID:   seed.TicketID.String(),
		SupplierID: seed.OutsiderID.String(),
		Amount:     "99.00",
	})
	require.ErrorIs(t, err, domain.ErrNotAssigned)
}

func TestSubmitRejectsForeignProduct(t *testing.T) {
	conn, node := setupQuoteDB(t)
	seed := seedQuoteTicket(t, conn, node)
	svc := newQuoteService(conn, node)
	ctx := orgcontext.WithOrgID(context.Background(), int64(seed.OrgID))

	now := time.Now().UTC()
	foreignProduct := node.Generate()
	require.NoError(t, conn.Create(&supplierdomain.SupplierProduct{
		ID:         foreignProduct,
		OrgID:      seed.OrgID,
		SupplierID: seed.OutsiderID,
		CategoryID: seed.CategoryID,
		Name:       "outsider box",
		UnitPrice:  mustDecimal(t, "1.00"),
		Currency:   "TRY",
		Available:  true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}).Error)

	_, err := svc.Submit(ctx, domain.SubmitQuoteRequest{
		TicketID:   seed.TicketID.String(),
		SupplierID: seed.SupplierID.String(),
		Items: []domain.SubmitItemInput{
			{ProductID: foreignProduct.String(), Description: "box", Quantity: 1, UnitPrice: "1.00"},
		},
	})
	require.ErrorIs(t, err, domain.ErrForeignProduct)
}

func TestSubmitRejectsTicketNotOpen(t *testing.T) {
	conn, node := setupQuoteDB(t)
	seed := seedQuoteTicket(t, conn, node)
	svc := newQuoteService(conn, node)
	ctx := orgcontext.WithOrgID(context.Background(), int64(seed.OrgID))

	require.NoError(t, conn.Model(&ticketdomain.Ticket{}).
		Where("id = ?", seed.TicketID).
		Update("status", ticketdomain.StatusAccepted).Error)

	_, err := svc.Submit(ctx, domain.SubmitQuoteRequest{
		TicketID:   seed.TicketID.String(),
		SupplierID: seed.SupplierID.String(),
		Amount:     "99.00",
	})
	require.ErrorIs(t, err, domain.ErrTicketNotOpen)
}

func TestSubmitRejectsBadAmount(t *testing.T) {
	conn, node := setupQuoteDB(t)
	seed := seedQuoteTicket(t, conn, node)
	svc := newQuoteService(conn, node)
	ctx := orgcontext.WithOrgID(context.Background(), int64(seed.OrgID))

	_, err := svc.Submit(ctx, domain.SubmitQuoteRequest{
		TicketID:   seed.TicketID.String(),
		SupplierID: seed.SupplierID.String(),
		Amount:     "not-a-number",
	})
	require.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = svc.Submit(ctx, domain.SubmitQuoteRequest{
		TicketID:   seed.TicketID.String(),
		SupplierID: seed.SupplierID.String(),
		Items: []domain.SubmitItemInput{
			{Description: "boxes", Quantity: 0, UnitPrice: "1.00"},
		},
	})
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func mustDecimal(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	parsed, err := decimal.NewFromString(value)
	require.NoError(t, err)
	return parsed
}
