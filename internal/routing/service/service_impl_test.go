package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	categorydomain "github.com/smallbiznis/procura/internal/category/domain"
	categoryrepo "github.com/smallbiznis/procura/internal/category/repository"
	"github.com/smallbiznis/procura/internal/orgcontext"
	"github.com/smallbiznis/procura/internal/routing/domain"
	"github.com/smallbiznis/procura/internal/routing/repository"
	supplierdomain "github.com/smallbiznis/procura/internal/supplier/domain"
	supplierrepo "github.com/smallbiznis/procura/internal/supplier/repository"
	"github.com/smallbiznis/procura/pkg/db"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupRoutingDB(t *testing.T) (*gorm.DB, *snowflake.Node) {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)

	err = conn.AutoMigrate(
		&domain.RoutingRule{},
		&domain.RuleSupplier{},
		&categorydomain.Category{},
		&categorydomain.CategorySupplier{},
		&supplierdomain.Supplier{},
		&supplierdomain.SupplierOrg{},
	)
	require.NoError(t, err)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return conn, node
}

func newRoutingService(conn *gorm.DB, node *snowflake.Node) domain.Service {
	return New(Params{
		DB:           conn,
		Log:          zap.NewNop(),
		GenID:        node,
		Repo:         repository.Provide(),
		CategoryRepo: categoryrepo.Provide(),
		SupplierRepo: supplierrepo.Provide(),
	})
}

type routingSeed struct {
	OrgID      snowflake.ID
	CategoryID snowflake.ID
	SupplierA  snowflake.ID
	SupplierB  snowflake.ID
	FallbackC  snowflake.ID
}

func seedRouting(t *testing.T, conn *gorm.DB, node *snowflake.Node) routingSeed {
	t.Helper()

	now := time.Now().UTC()
	seed := routingSeed{
		OrgID:      node.Generate(),
		CategoryID: node.Generate(),
	}

	require.NoError(t, conn.Create(&categorydomain.Category{
		ID:        seed.CategoryID,
		OrgID:     seed.OrgID,
		Name:      "Office Supplies",
		Slug:      "office-supplies",
		CreatedAt: now,
		UpdatedAt: now,
	}).Error)

	names := []string{"Alpha Supply", "Beta Trading", "Gamma Goods"}
	ids := make([]snowflake.ID, 0, 3)
	for _, name := range names {
		id := node.Generate()
		ids = append(ids, id)
		require.NoError(t, conn.Create(&supplierdomain.Supplier{
			ID:        id,
			Name:      name,
			Email:     "sales@example.com",
			CreatedAt: now,
			UpdatedAt: now,
		}).Error)
		require.NoError(t, conn.Create(&supplierdomain.SupplierOrg{
			ID:         node.Generate(),
			SupplierID: id,
			OrgID:      seed.OrgID,
			CreatedAt:  now,
		}).Error)
	}
	seed.SupplierA, seed.SupplierB, seed.FallbackC = ids[0], ids[1], ids[2]

	require.NoError(t, conn.Create(&categorydomain.CategorySupplier{
		ID:         node.Generate(),
		OrgID:      seed.OrgID,
		CategoryID: seed.CategoryID,
		SupplierID: seed.FallbackC,
		CreatedAt:  now,
	}).Error)

	return seed
}

func createRule(t *testing.T, svc domain.Service, ctx context.Context, req domain.CreateRuleRequest) domain.RoutingRule {
	t.Helper()
	rule, err := svc.CreateRule(ctx, req)
	require.NoError(t, err)
	return rule
}

func TestAssignedSuppliersUnionOfMatches(t *testing.T) {
	conn, node := setupRoutingDB(t)
	seed := seedRouting(t, conn, node)
	svc := newRoutingService(conn, node)
	ctx := orgcontext.WithOrgID(context.Background(), int64(seed.OrgID))

	createRule(t, svc, ctx, domain.CreateRuleRequest{
		CategoryID:  seed.CategoryID.String(),
		Name:        "red goods",
		Priority:    1,
		FieldNames:  []string{"color"},
		Operator:    "eq",
		FieldValues: []string{"red"},
		SupplierIDs: []string{seed.SupplierA.String()},
	})
	createRule(t, svc, ctx, domain.CreateRuleRequest{
		CategoryID:  seed.CategoryID.String(),
		Name:        "bulk orders",
		Priority:    2,
		MinQuantity: int64ptr(5),
		SupplierIDs: []string{seed.SupplierB.String()},
	})

	suppliers, err := svc.AssignedSuppliers(ctx, domain.TicketFacts{
		OrgID:           seed.OrgID,
		CategoryID:      seed.CategoryID,
		DesiredQuantity: 10,
		Attributes:      map[string]any{"color": "red"},
	})
	require.NoError(t, err)

	got := supplierIDs(suppliers)
	require.Len(t, got, 2)
	require.Contains(t, got, seed.SupplierA)
	require.Contains(t, got, seed.SupplierB)
}

func TestAssignedSuppliersFallbackToCategoryDefaults(t *testing.T) {
	conn, node := setupRoutingDB(t)
	seed := seedRouting(t, conn, node)
	svc := newRoutingService(conn, node)
	ctx := orgcontext.WithOrgID(context.Background(), int64(seed.OrgID))

	createRule(t, svc, ctx, domain.CreateRuleRequest{
		CategoryID:  seed.CategoryID.String(),
		Name:        "bulk only",
		MinQuantity: int64ptr(5),
		SupplierIDs: []string{seed.SupplierA.String()},
	})

	suppliers, err := svc.AssignedSuppliers(ctx, domain.TicketFacts{
		OrgID:           seed.OrgID,
		CategoryID:      seed.CategoryID,
		DesiredQuantity: 2,
	})
	require.NoError(t, err)

	got := supplierIDs(suppliers)
	require.Equal(t, []snowflake.ID{seed.FallbackC}, got)
}

func TestAssignedSuppliersInactiveRuleIgnored(t *testing.T) {
	conn, node := setupRoutingDB(t)
	seed := seedRouting(t, conn, node)
	svc := newRoutingService(conn, node)
	ctx := orgcontext.WithOrgID(context.Background(), int64(seed.OrgID))

	rule := createRule(t, svc, ctx, domain.CreateRuleRequest{
		CategoryID:  seed.CategoryID.String(),
		Name:        "any ticket",
		SupplierIDs: []string{seed.SupplierA.String()},
	})
	require.NoError(t, svc.SetRuleActive(ctx, domain.SetRuleActiveRequest{
		ID:     rule.ID.String(),
		Active: false,
	}))

	suppliers, err := svc.AssignedSuppliers(ctx, domain.TicketFacts{
		OrgID:      seed.OrgID,
		CategoryID: seed.CategoryID,
	})
	require.NoError(t, err)

	got := supplierIDs(suppliers)
	require.Equal(t, []snowflake.ID{seed.FallbackC}, got)
}

func TestAssignedSuppliersNameSorted(t *testing.T) {
	conn, node := setupRoutingDB(t)
	seed := seedRouting(t, conn, node)
	svc := newRoutingService(conn, node)
	ctx := orgcontext.WithOrgID(context.Background(), int64(seed.OrgID))

	createRule(t, svc, ctx, domain.CreateRuleRequest{
		CategoryID:  seed.CategoryID.String(),
		Name:        "everything",
		SupplierIDs: []string{seed.SupplierB.String(), seed.SupplierA.String()},
	})

	suppliers, err := svc.AssignedSuppliers(ctx, domain.TicketFacts{
		OrgID:      seed.OrgID,
		CategoryID: seed.CategoryID,
	})
	require.NoError(t, err)
	require.Len(t, suppliers, 2)
	require.Equal(t, "Alpha Supply", suppliers[0].Name)
	require.Equal(t, "Beta Trading", suppliers[1].Name)
}

func TestCreateRuleRejectsForeignSupplier(t *testing.T) {
	conn, node := setupRoutingDB(t)
	seed := seedRouting(t, conn, node)
	svc := newRoutingService(conn, node)
	ctx := orgcontext.WithOrgID(context.Background(), int64(seed.OrgID))

	outsider := node.Generate()
	now := time.Now().UTC()
	require.NoError(t, conn.Create(&supplierdomain.Supplier{
		ID:        outsider,
		Name:      "Outsider",
		Email:     "out@example.com",
		CreatedAt: now,
		UpdatedAt: now,
	}).Error)

	_, err := svc.CreateRule(ctx, domain.CreateRuleRequest{
		CategoryID:  seed.CategoryID.String(),
		Name:        "bad rule",
		SupplierIDs: []string{outsider.String()},
	})
	require.ErrorIs(t, err, domain.ErrSupplierNotInOrg)
}

func int64ptr(v int64) *int64 { return &v }

func supplierIDs(suppliers []supplierdomain.Supplier) []snowflake.ID {
	ids := make([]snowflake.ID, 0, len(suppliers))
	for _, s := range suppliers {
		ids = append(ids, s.ID)
	}
	return ids
}
