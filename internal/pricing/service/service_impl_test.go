package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/procura/internal/orgcontext"
	"github.com/smallbiznis/procura/internal/pricing/domain"
	"github.com/smallbiznis/procura/internal/pricing/repository"
	quotedomain "github.com/smallbiznis/procura/internal/quote/domain"
	quoterepo "github.com/smallbiznis/procura/internal/quote/repository"
	ticketdomain "github.com/smallbiznis/procura/internal/ticket/domain"
	ticketrepo "github.com/smallbiznis/procura/internal/ticket/repository"
	"github.com/smallbiznis/procura/pkg/db"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type pricingSeed struct {
	OrgID    snowflake.ID
	TicketID snowflake.ID
	QuoteID  snowflake.ID
	ItemIDs  []snowflake.ID
}

func setupPricingDB(t *testing.T) (*gorm.DB, *snowflake.Node) {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)

	err = conn.AutoMigrate(
		&ticketdomain.Ticket{},
		&quotedomain.Quote{},
		&quotedomain.QuoteItem{},
		&domain.OwnerQuoteAdjustment{},
	)
	require.NoError(t, err)

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)

	return conn, node
}

func newPricingService(conn *gorm.DB, node *snowflake.Node) domain.Service {
	return New(Params{
		DB:         conn,
		Log:        zap.NewNop(),
		GenID:      node,
		Repo:       repository.Provide(),
		QuoteRepo:  quoterepo.Provide(),
		TicketRepo: ticketrepo.Provide(),
	})
}

type seedItem struct {
	unitPrice string
	quantity  int64
}

func seedQuote(t *testing.T, conn *gorm.DB, node *snowflake.Node, items []seedItem, flatAmount string) pricingSeed {
	t.Helper()

	now := time.Now().UTC()
	seed := pricingSeed{
		OrgID:    node.Generate(),
		TicketID: node.Generate(),
		QuoteID:  node.Generate(),
	}

	require.NoError(t, conn.Create(&ticketdomain.Ticket{
		ID:            seed.TicketID,
		OrgID:         seed.OrgID,
		CustomerID:    node.Generate(),
		CategoryID:    node.Generate(),
		Title:         "laptops",
		Status:        ticketdomain.StatusOpen,
		SupplierToken: seed.TicketID.String(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}).Error)

	amount := decimal.Zero
	if flatAmount != "" {
		amount = decimal.RequireFromString(flatAmount)
	}
	require.NoError(t, conn.Create(&quotedomain.Quote{
		ID:         seed.QuoteID,
		OrgID:      seed.OrgID,
		TicketID:   seed.TicketID,
		SupplierID: node.Generate(),
		Currency:   "TRY",
		Amount:     amount,
		CreatedAt:  now,
		UpdatedAt:  now,
	}).Error)

	for i, item := range items {
		id := node.Generate()
		seed.ItemIDs = append(seed.ItemIDs, id)
		require.NoError(t, conn.Create(&quotedomain.QuoteItem{
			ID:          id,
			QuoteID:     seed.QuoteID,
			Description: "line",
			Quantity:    item.quantity,
			UnitPrice:   decimal.RequireFromString(item.unitPrice),
			Position:    i,
			CreatedAt:   now,
		}).Error)
	}

	return seed
}

func TestApplyOfferCumulativeRounding(t *testing.T) {
	conn, node := setupPricingDB(t)
	seed := seedQuote(t, conn, node, []seedItem{
		{unitPrice: "10.00", quantity: 2},
		{unitPrice: "5.005", quantity: 1},
	}, "")
	svc := newPricingService(conn, node)
	ctx := orgcontext.WithOrgID(context.Background(), int64(seed.OrgID))

	breakdown, err := svc.ApplyOffer(ctx, domain.ApplyOfferRequest{
		TicketID: seed.TicketID.String(),
		QuoteID:  seed.QuoteID.String(),
		MarkupPercents: map[string]string{
			seed.ItemIDs[0].String(): "10",
			seed.ItemIDs[1].String(): "0",
		},
	})
	require.NoError(t, err)
	require.Len(t, breakdown.Items, 2)

	// Item 1: 20.00 line total, 10% markup rounds to 2.00, running 22.00.
	require.True(t, breakdown.Items[0].MarkupAmount.Equal(decimal.RequireFromString("2.00")),
		"markup = %s", breakdown.Items[0].MarkupAmount)
	// Item 2: 5.005 line total, zero markup, running rounds 27.005 -> 27.01.
	require.True(t, breakdown.Items[1].MarkupAmount.IsZero())
	require.True(t, breakdown.Total.Equal(decimal.RequireFromString("27.01")),
		"total = %s", breakdown.Total)

	// Same inputs, same outputs.
	again, err := svc.ApplyOffer(ctx, domain.ApplyOfferRequest{
		TicketID: seed.TicketID.String(),
		QuoteID:  seed.QuoteID.String(),
		MarkupPercents: map[string]string{
			seed.ItemIDs[0].String(): "10",
			seed.ItemIDs[1].String(): "0",
		},
	})
	require.NoError(t, err)
	require.True(t, breakdown.Total.Equal(again.Total))
}

func TestApplyOfferMarkupExample(t *testing.T) {
	conn, node := setupPricingDB(t)
	seed := seedQuote(t, conn, node, []seedItem{
		{unitPrice: "100.00", quantity: 3},
	}, "")
	svc := newPricingService(conn, node)
	ctx := orgcontext.WithOrgID(context.Background(), int64(seed.OrgID))

	breakdown, err := svc.ApplyOffer(ctx, domain.ApplyOfferRequest{
		TicketID:       seed.TicketID.String(),
		QuoteID:        seed.QuoteID.String(),
		MarkupPercents: map[string]string{seed.ItemIDs[0].String(): "5"},
	})
	require.NoError(t, err)
	require.True(t, breakdown.Items[0].LineTotal.Equal(decimal.RequireFromString("300.00")))
	require.True(t, breakdown.Items[0].MarkupAmount.Equal(decimal.RequireFromString("15.00")))
	require.True(t, breakdown.Total.Equal(decimal.RequireFromString("315.00")))
}

func TestApplyOfferNegativeMarkupIsDiscount(t *testing.T) {
	conn, node := setupPricingDB(t)
	seed := seedQuote(t, conn, node, []seedItem{
		{unitPrice: "50.00", quantity: 2},
	}, "")
	svc := newPricingService(conn, node)
	ctx := orgcontext.WithOrgID(context.Background(), int64(seed.OrgID))

	breakdown, err := svc.ApplyOffer(ctx, domain.ApplyOfferRequest{
		TicketID:       seed.TicketID.String(),
		QuoteID:        seed.QuoteID.String(),
		MarkupPercents: map[string]string{seed.ItemIDs[0].String(): "-10"},
	})
	require.NoError(t, err)
	require.True(t, breakdown.Items[0].MarkupAmount.Equal(decimal.RequireFromString("-10.00")))
	require.True(t, breakdown.Total.Equal(decimal.RequireFromString("90.00")))
}

func TestApplyOfferUnparseableMarkupDegradesToZero(t *testing.T) {
	conn, node := setupPricingDB(t)
	seed := seedQuote(t, conn, node, []seedItem{
		{unitPrice: "10.00", quantity: 1},
	}, "")
	svc := newPricingService(conn, node)
	ctx := orgcontext.WithOrgID(context.Background(), int64(seed.OrgID))

	breakdown, err := svc.ApplyOffer(ctx, domain.ApplyOfferRequest{
		TicketID:       seed.TicketID.String(),
		QuoteID:        seed.QuoteID.String(),
		MarkupPercents: map[string]string{seed.ItemIDs[0].String(): "lots"},
	})
	require.NoError(t, err)
	require.True(t, breakdown.Items[0].MarkupAmount.IsZero())
	require.True(t, breakdown.Total.Equal(decimal.RequireFromString("10.00")))
}

func TestApplyOfferFlatAmountQuote(t *testing.T) {
	conn, node := setupPricingDB(t)
	seed := seedQuote(t, conn, node, nil, "420.00")
	svc := newPricingService(conn, node)
	ctx := orgcontext.WithOrgID(context.Background(), int64(seed.OrgID))

	breakdown, err := svc.ApplyOffer(ctx, domain.ApplyOfferRequest{
		TicketID: seed.TicketID.String(),
		QuoteID:  seed.QuoteID.String(),
	})
	require.NoError(t, err)
	require.Empty(t, breakdown.Items)
	require.True(t, breakdown.Total.Equal(decimal.RequireFromString("420.00")))

	var ticket ticketdomain.Ticket
	require.NoError(t, conn.Take(&ticket, "id = ?", seed.TicketID).Error)
	require.Equal(t, ticketdomain.StatusOffered, ticket.Status)
	require.Equal(t, seed.QuoteID, ticket.SelectedQuoteID)
	require.True(t, ticket.OfferedPrice.Equal(decimal.RequireFromString("420.00")))
	require.True(t, ticket.GlobalMarkup.IsZero())
}

func TestApplyOfferClearsStaleGlobalMarkup(t *testing.T) {
	conn, node := setupPricingDB(t)
	seed := seedQuote(t, conn, node, []seedItem{
		{unitPrice: "10.00", quantity: 2},
	}, "")
	// A leftover ticket-level markup from before the per-item flow.
	require.NoError(t, conn.Model(&ticketdomain.Ticket{}).
		Where("id = ?", seed.TicketID).
		Update("global_markup", decimal.RequireFromString("7.50")).Error)
	svc := newPricingService(conn, node)
	ctx := orgcontext.WithOrgID(context.Background(), int64(seed.OrgID))

	breakdown, err := svc.ApplyOffer(ctx, domain.ApplyOfferRequest{
		TicketID:       seed.TicketID.String(),
		QuoteID:        seed.QuoteID.String(),
		MarkupPercents: map[string]string{seed.ItemIDs[0].String(): "10"},
	})
	require.NoError(t, err)
	// Offer total carries only the per-item markup, never a ticket-level one.
	require.True(t, breakdown.Total.Equal(decimal.RequireFromString("22.00")),
		"total = %s", breakdown.Total)

	var ticket ticketdomain.Ticket
	require.NoError(t, conn.Take(&ticket, "id = ?", seed.TicketID).Error)
	require.True(t, ticket.GlobalMarkup.IsZero())
	require.True(t, ticket.OfferedPrice.Equal(decimal.RequireFromString("22.00")))
}

func TestApplyOfferAdjustmentsUpserted(t *testing.T) {
	conn, node := setupPricingDB(t)
	seed := seedQuote(t, conn, node, []seedItem{
		{unitPrice: "10.00", quantity: 1},
	}, "")
	svc := newPricingService(conn, node)
	ctx := orgcontext.WithOrgID(context.Background(), int64(seed.OrgID))

	_, err := svc.ApplyOffer(ctx, domain.ApplyOfferRequest{
		TicketID:       seed.TicketID.String(),
		QuoteID:        seed.QuoteID.String(),
		MarkupPercents: map[string]string{seed.ItemIDs[0].String(): "10"},
	})
	require.NoError(t, err)

	_, err = svc.ApplyOffer(ctx, domain.ApplyOfferRequest{
		TicketID:       seed.TicketID.String(),
		QuoteID:        seed.QuoteID.String(),
		MarkupPercents: map[string]string{seed.ItemIDs[0].String(): "20"},
	})
	require.NoError(t, err)

	adjustments, err := svc.ListAdjustments(ctx, seed.TicketID.String())
	require.NoError(t, err)
	require.Len(t, adjustments, 1)
	require.True(t, adjustments[0].Markup.Equal(decimal.RequireFromString("2.00")))
}
