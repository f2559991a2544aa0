package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/procura/internal/category"
	categorydomain "github.com/smallbiznis/procura/internal/category/domain"
	"github.com/smallbiznis/procura/internal/config"
	"github.com/smallbiznis/procura/internal/customer"
	customerdomain "github.com/smallbiznis/procura/internal/customer/domain"
	"github.com/smallbiznis/procura/internal/metrics"
	metricsdomain "github.com/smallbiznis/procura/internal/metrics/domain"
	"github.com/smallbiznis/procura/internal/notification"
	obslogger "github.com/smallbiznis/procura/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/procura/internal/observability/metrics"
	"github.com/smallbiznis/procura/internal/order"
	orderdomain "github.com/smallbiznis/procura/internal/order/domain"
	"github.com/smallbiznis/procura/internal/organization"
	organizationdomain "github.com/smallbiznis/procura/internal/organization/domain"
	"github.com/smallbiznis/procura/internal/pricing"
	pricingdomain "github.com/smallbiznis/procura/internal/pricing/domain"
	"github.com/smallbiznis/procura/internal/quote"
	quotedomain "github.com/smallbiznis/procura/internal/quote/domain"
	"github.com/smallbiznis/procura/internal/ratelimit"
	"github.com/smallbiznis/procura/internal/routing"
	routingdomain "github.com/smallbiznis/procura/internal/routing/domain"
	"github.com/smallbiznis/procura/internal/supplier"
	supplierdomain "github.com/smallbiznis/procura/internal/supplier/domain"
	"github.com/smallbiznis/procura/internal/ticket"
	ticketdomain "github.com/smallbiznis/procura/internal/ticket/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	notification.Module,
	ratelimit.Module,
	organization.Module,
	customer.Module,
	supplier.Module,
	category.Module,
	routing.Module,
	ticket.Module,
	quote.Module,
	pricing.Module,
	order.Module,
	metrics.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(log))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine *gin.Engine
	cfg    config.Config

	organizationSvc organizationdomain.Service
	customerSvc     customerdomain.Service
	supplierSvc     supplierdomain.Service
	categorySvc     categorydomain.Service
	routingSvc      routingdomain.Service
	ticketSvc       ticketdomain.Service
	quoteSvc        quotedomain.Service
	pricingSvc      pricingdomain.Service
	orderSvc        orderdomain.Service
	metricsSvc      metricsdomain.Service
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	OrganizationSvc organizationdomain.Service
	CustomerSvc     customerdomain.Service
	SupplierSvc     supplierdomain.Service
	CategorySvc     categorydomain.Service
	RoutingSvc      routingdomain.Service
	TicketSvc       ticketdomain.Service
	QuoteSvc        quotedomain.Service
	PricingSvc      pricingdomain.Service
	OrderSvc        orderdomain.Service
	MetricsSvc      metricsdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		organizationSvc: p.OrganizationSvc,
		customerSvc:     p.CustomerSvc,
		supplierSvc:     p.SupplierSvc,
		categorySvc:     p.CategorySvc,
		routingSvc:      p.RoutingSvc,
		ticketSvc:       p.TicketSvc,
		quoteSvc:        p.QuoteSvc,
		pricingSvc:      p.PricingSvc,
		orderSvc:        p.OrderSvc,
		metricsSvc:      p.MetricsSvc,
	}

	svc.registerAPIRoutes()
	svc.registerPortalRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")
	api.Use(s.OrgContext())

	// -------- Organizations --------
	api.POST("/organizations", s.CreateOrganization)
	api.GET("/organizations/:id", s.GetOrganizationByID)
	api.POST("/memberships", s.AddMembership)
	api.GET("/memberships/:account_id", s.ResolveMembership)

	// -------- Customers --------
	api.GET("/customers", s.ListCustomers)
	api.POST("/customers", s.CreateCustomer)
	api.GET("/customers/:id", s.GetCustomerByID)

	// -------- Suppliers --------
	api.GET("/suppliers", s.ListSuppliers)
	api.POST("/suppliers", s.CreateSupplier)
	api.GET("/suppliers/:id", s.GetSupplierByID)
	api.GET("/suppliers/:id/products", s.ListSupplierProducts)
	api.POST("/suppliers/:id/products", s.CreateSupplierProduct)

	// -------- Categories --------
	api.GET("/categories", s.ListCategories)
	api.POST("/categories", s.CreateCategory)
	api.GET("/categories/:id", s.GetCategoryByID)
	api.GET("/categories/:id/suppliers", s.ListCategorySuppliers)
	api.PUT("/categories/:id/suppliers", s.SetCategorySuppliers)
	api.GET("/categories/:id/fields", s.ListCategoryFormFields)
	api.POST("/categories/:id/fields", s.CreateCategoryFormField)

	// -------- Routing Rules --------
	api.GET("/routing-rules", s.ListRoutingRules)
	api.POST("/routing-rules", s.CreateRoutingRule)
	api.POST("/routing-rules/:id/activate", s.ActivateRoutingRule)
	api.POST("/routing-rules/:id/deactivate", s.DeactivateRoutingRule)

	// -------- Tickets --------
	api.GET("/tickets", s.ListTickets)
	api.POST("/tickets", s.CreateTicket)
	api.GET("/tickets/:id", s.GetTicketByID)
	api.POST("/tickets/:id/accept", s.AcceptTicket)
	api.POST("/tickets/:id/reject", s.RejectTicket)
	api.POST("/tickets/:id/close", s.CloseTicket)
	api.GET("/tickets/:id/comments", s.ListTicketComments)
	api.POST("/tickets/:id/comments", s.AddTicketComment)

	// -------- Quotes & Offers --------
	api.GET("/tickets/:id/quotes", s.ListTicketQuotes)
	api.GET("/quotes/:id", s.GetQuoteByID)
	api.POST("/tickets/:id/offer", s.ApplyOffer)
	api.GET("/tickets/:id/adjustments", s.ListOfferAdjustments)

	// -------- Orders --------
	api.GET("/orders", s.ListOrders)
	api.GET("/orders/:id", s.GetOrderByID)
	api.POST("/orders/:id/acknowledge", s.AcknowledgeOrder)
	api.POST("/orders/:id/expected-delivery", s.SetOrderExpectedDelivery)
	api.POST("/orders/:id/deliver", s.MarkOrderDelivered)
	api.POST("/orders/:id/status", s.UpdateOrderStatus)

	// -------- Feedback & Scorecards --------
	api.POST("/feedback", s.SubmitFeedback)
	api.POST("/reviews", s.SubmitOwnerReview)
	api.GET("/metrics/suppliers", s.ListSupplierMetrics)
	api.GET("/metrics/suppliers/:id", s.GetSupplierMetrics)
	api.GET("/metrics/customers", s.ListCustomerMetrics)
	api.GET("/metrics/customers/:id", s.GetCustomerMetrics)
	api.POST("/metrics/recompute", s.RecomputeMetrics)
}

// registerPortalRoutes exposes the supplier quote flow. The per-ticket
// token is the only credential, so no org header is required here.
func (s *Server) registerPortalRoutes() {
	portal := s.engine.Group("/portal")

	portal.GET("/tickets/:token", s.PortalGetTicket)
	portal.POST("/tickets/:token/quotes", s.PortalSubmitQuote)
}
