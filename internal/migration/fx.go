package migration

import (
	categorydomain "github.com/smallbiznis/procura/internal/category/domain"
	"github.com/smallbiznis/procura/internal/config"
	customerdomain "github.com/smallbiznis/procura/internal/customer/domain"
	metricsdomain "github.com/smallbiznis/procura/internal/metrics/domain"
	orderdomain "github.com/smallbiznis/procura/internal/order/domain"
	organizationdomain "github.com/smallbiznis/procura/internal/organization/domain"
	pricingdomain "github.com/smallbiznis/procura/internal/pricing/domain"
	quotedomain "github.com/smallbiznis/procura/internal/quote/domain"
	routingdomain "github.com/smallbiznis/procura/internal/routing/domain"
	"github.com/smallbiznis/procura/internal/seed"
	supplierdomain "github.com/smallbiznis/procura/internal/supplier/domain"
	ticketdomain "github.com/smallbiznis/procura/internal/ticket/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// Versioned SQL only targets postgres. Other dialects are for
			// local development, where the gorm schema is authoritative.
			if err := autoMigrate(conn); err != nil {
				return err
			}
		}

		if cfg.DefaultOrgID != 0 {
			return seed.EnsureMainOrgWithID(conn, cfg.DefaultOrgID)
		}
		return seed.EnsureMainOrg(conn)
	}),
)

func autoMigrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&organizationdomain.Organization{},
		&organizationdomain.Membership{},
		&customerdomain.Customer{},
		&supplierdomain.Supplier{},
		&supplierdomain.SupplierOrg{},
		&supplierdomain.SupplierProduct{},
		&categorydomain.Category{},
		&categorydomain.CategorySupplier{},
		&categorydomain.CategoryFormField{},
		&routingdomain.RoutingRule{},
		&routingdomain.RuleSupplier{},
		&ticketdomain.Ticket{},
		&ticketdomain.TicketComment{},
		&quotedomain.Quote{},
		&quotedomain.QuoteItem{},
		&pricingdomain.OwnerQuoteAdjustment{},
		&orderdomain.Order{},
		&orderdomain.OrderItem{},
		&metricsdomain.CustomerFeedback{},
		&metricsdomain.OwnerReview{},
		&metricsdomain.SupplierMetrics{},
		&metricsdomain.CustomerMetrics{},
	)
}
