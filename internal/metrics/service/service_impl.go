package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/procura/internal/metrics/domain"
	orderdomain "github.com/smallbiznis/procura/internal/order/domain"
	"github.com/smallbiznis/procura/internal/orgcontext"
	ticketdomain "github.com/smallbiznis/procura/internal/ticket/domain"
	"github.com/smallbiznis/procura/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Repo      domain.Repository
	OrderRepo orderdomain.Repository
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	repo      domain.Repository
	orderRepo orderdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("metrics.service"),
		genID:     p.GenID,
		repo:      p.Repo,
		orderRepo: p.OrderRepo,
	}
}

func (s *Service) SubmitFeedback(ctx context.Context, req domain.SubmitFeedbackRequest) (domain.CustomerFeedback, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.CustomerFeedback{}, domain.ErrInvalidOrganization
	}

	orderID, err := s.parseID(req.OrderID)
	if err != nil {
		return domain.CustomerFeedback{}, err
	}

	for _, rating := range []int{req.Quality, req.Communication, req.DeliveryTime, req.Satisfaction} {
		if rating < 1 || rating > 5 {
			return domain.CustomerFeedback{}, domain.ErrInvalidRating
		}
	}

	order, err := s.orderRepo.FindByID(ctx, s.db, orgID, orderID)
	if err != nil {
		return domain.CustomerFeedback{}, err
	}
	if order == nil {
		return domain.CustomerFeedback{}, domain.ErrNotFound
	}
	if order.Status != orderdomain.StatusCompleted {
		return domain.CustomerFeedback{}, domain.ErrOrderNotCompleted
	}

	feedback := domain.CustomerFeedback{
		ID:            s.genID.Generate(),
		OrgID:         orgID,
		OrderID:       orderID,
		CustomerID:    order.CustomerID,
		SupplierID:    order.SupplierID,
		Quality:       req.Quality,
		Communication: req.Communication,
		DeliveryTime:  req.DeliveryTime,
		Satisfaction:  req.Satisfaction,
		Comment:       strings.TrimSpace(req.Comment),
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.repo.InsertFeedback(ctx, s.db, &feedback); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.CustomerFeedback{}, domain.ErrDuplicateFeedback
		}
		return domain.CustomerFeedback{}, err
	}
	return feedback, nil
}

func (s *Service) SubmitOwnerReview(ctx context.Context, req domain.SubmitOwnerReviewRequest) (domain.OwnerReview, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.OwnerReview{}, domain.ErrInvalidOrganization
	}

	if req.SubjectType != domain.SubjectSupplier && req.SubjectType != domain.SubjectCustomer {
		return domain.OwnerReview{}, domain.ErrInvalidSubject
	}

	subjectID, err := s.parseID(req.SubjectID)
	if err != nil {
		return domain.OwnerReview{}, err
	}

	if req.Rating < 1 || req.Rating > 5 {
		return domain.OwnerReview{}, domain.ErrInvalidRating
	}

	review := domain.OwnerReview{
		ID:          s.genID.Generate(),
		OrgID:       orgID,
		SubjectType: req.SubjectType,
		SubjectID:   subjectID,
		Rating:      req.Rating,
		Comment:     strings.TrimSpace(req.Comment),
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repo.InsertOwnerReview(ctx, s.db, &review); err != nil {
		return domain.OwnerReview{}, err
	}
	return review, nil
}

func (s *Service) GetSupplierMetrics(ctx context.Context, supplierID string) (domain.SupplierMetrics, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.SupplierMetrics{}, domain.ErrInvalidOrganization
	}

	id, err := s.parseID(supplierID)
	if err != nil {
		return domain.SupplierMetrics{}, err
	}

	row, err := s.repo.FindSupplierMetrics(ctx, s.db, orgID, id)
	if err != nil {
		return domain.SupplierMetrics{}, err
	}
	if row == nil {
		return domain.SupplierMetrics{}, domain.ErrNotFound
	}
	return *row, nil
}

func (s *Service) GetCustomerMetrics(ctx context.Context, customerID string) (domain.CustomerMetrics, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.CustomerMetrics{}, domain.ErrInvalidOrganization
	}

	id, err := s.parseID(customerID)
	if err != nil {
		return domain.CustomerMetrics{}, err
	}

	row, err := s.repo.FindCustomerMetrics(ctx, s.db, orgID, id)
	if err != nil {
		return domain.CustomerMetrics{}, err
	}
	if row == nil {
		return domain.CustomerMetrics{}, domain.ErrNotFound
	}
	return *row, nil
}

func (s *Service) ListSupplierMetrics(ctx context.Context) ([]domain.SupplierMetrics, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}

	rows, err := s.repo.ListSupplierMetrics(ctx, s.db, orgID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.SupplierMetrics, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		out = append(out, *row)
	}
	return out, nil
}

func (s *Service) ListCustomerMetrics(ctx context.Context) ([]domain.CustomerMetrics, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}

	rows, err := s.repo.ListCustomerMetrics(ctx, s.db, orgID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.CustomerMetrics, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		out = append(out, *row)
	}
	return out, nil
}

func (s *Service) RecomputeOrg(ctx context.Context, orgID snowflake.ID) (domain.RecomputeSummary, error) {
	var summary domain.RecomputeSummary
	if orgID == 0 {
		return summary, domain.ErrInvalidOrganization
	}

	var supplierIDs []snowflake.ID
	err := s.db.WithContext(ctx).Raw(
		`SELECT supplier_id FROM supplier_orgs WHERE org_id = ? ORDER BY supplier_id ASC`,
		orgID,
	).Scan(&supplierIDs).Error
	if err != nil {
		return summary, err
	}

	for _, supplierID := range supplierIDs {
		if err := s.RecomputeSupplier(ctx, orgID, supplierID); err != nil {
			summary.SuppliersFailed++
			s.log.Warn("supplier metrics recompute failed",
				zap.String("org_id", orgID.String()),
				zap.String("supplier_id", supplierID.String()),
				zap.Error(err),
			)
			continue
		}
		summary.SuppliersProcessed++
	}

	var customerIDs []snowflake.ID
	err = s.db.WithContext(ctx).Raw(
		`SELECT id FROM customers WHERE org_id = ? ORDER BY id ASC`,
		orgID,
	).Scan(&customerIDs).Error
	if err != nil {
		return summary, err
	}

	for _, customerID := range customerIDs {
		if err := s.RecomputeCustomer(ctx, orgID, customerID); err != nil {
			summary.CustomersFailed++
			s.log.Warn("customer metrics recompute failed",
				zap.String("org_id", orgID.String()),
				zap.String("customer_id", customerID.String()),
				zap.Error(err),
			)
			continue
		}
		summary.CustomersProcessed++
	}

	s.log.Info("metrics recompute finished",
		zap.String("org_id", orgID.String()),
		zap.Int("suppliers_processed", summary.SuppliersProcessed),
		zap.Int("suppliers_failed", summary.SuppliersFailed),
		zap.Int("customers_processed", summary.CustomersProcessed),
		zap.Int("customers_failed", summary.CustomersFailed),
	)
	return summary, nil
}

type quoteTiming struct {
	QuoteID         snowflake.ID
	QuoteCreatedAt  time.Time
	TicketCreatedAt time.Time
	SelectedQuoteID snowflake.ID
}

type orderFacts struct {
	Status             string
	ExpectedDeliveryAt *time.Time
	DeliveredAt        *time.Time
}

func (s *Service) RecomputeSupplier(ctx context.Context, orgID, supplierID snowflake.ID) error {
	if orgID == 0 {
		return domain.ErrInvalidOrganization
	}

	var quotes []quoteTiming
	err := s.db.WithContext(ctx).Raw(
		`SELECT q.id AS quote_id, q.created_at AS quote_created_at,
		        t.created_at AS ticket_created_at, t.selected_quote_id
		 FROM quotes q
		 JOIN tickets t ON t.id = q.ticket_id
		 WHERE q.org_id = ? AND q.supplier_id = ?`,
		orgID,
		supplierID,
	).Scan(&quotes).Error
	if err != nil {
		return err
	}

	row := domain.SupplierMetrics{
		ID:         s.genID.Generate(),
		OrgID:      orgID,
		SupplierID: supplierID,
		ComputedAt: time.Now().UTC(),
	}

	var responseHours float64
	for _, quote := range quotes {
		row.TotalQuotes++
		responseHours += quote.QuoteCreatedAt.Sub(quote.TicketCreatedAt).Hours()
		// Being the selected quote counts as a win whatever state the
		// ticket itself is in.
		if quote.SelectedQuoteID == quote.QuoteID {
			row.AcceptedQuotes++
		}
	}
	if row.TotalQuotes > 0 {
		row.WinRate = float64(row.AcceptedQuotes) / float64(row.TotalQuotes) * 100
		row.AvgResponseHours = responseHours / float64(row.TotalQuotes)
	}

	var orders []orderFacts
	err = s.db.WithContext(ctx).Raw(
		`SELECT status, expected_delivery_at, delivered_at
		 FROM orders WHERE org_id = ? AND supplier_id = ?`,
		orgID,
		supplierID,
	).Scan(&orders).Error
	if err != nil {
		return err
	}

	for _, order := range orders {
		row.TotalOrders++
		completed := order.Status == string(orderdomain.StatusCompleted)
		if completed {
			row.CompletedOrders++
		}
		if order.DeliveredAt != nil {
			row.DeliveredOrders++
		}
		// Only completed orders with both dates on record count as on time.
		if completed && order.DeliveredAt != nil && order.ExpectedDeliveryAt != nil &&
			!order.DeliveredAt.After(*order.ExpectedDeliveryAt) {
			row.OnTimeDeliveries++
		}
	}
	if row.CompletedOrders > 0 {
		row.OnTimeDeliveryRate = float64(row.OnTimeDeliveries) / float64(row.CompletedOrders) * 100
	}

	var survey struct {
		Count         int64
		Quality       float64
		Communication float64
		DeliveryTime  float64
		Satisfaction  float64
	}
	err = s.db.WithContext(ctx).Raw(
		`SELECT COUNT(*) AS count,
		        COALESCE(AVG(quality), 0) AS quality,
		        COALESCE(AVG(communication), 0) AS communication,
		        COALESCE(AVG(delivery_time), 0) AS delivery_time,
		        COALESCE(AVG(satisfaction), 0) AS satisfaction
		 FROM customer_feedbacks WHERE org_id = ? AND supplier_id = ?`,
		orgID,
		supplierID,
	).Scan(&survey).Error
	if err != nil {
		return err
	}
	row.FeedbackCount = survey.Count
	row.AvgQuality = survey.Quality
	row.AvgCommunication = survey.Communication
	row.AvgDeliveryTime = survey.DeliveryTime
	row.AvgSatisfaction = survey.Satisfaction

	reviewCount, reviewAvg, err := s.ownerReviewStats(ctx, orgID, domain.SubjectSupplier, supplierID)
	if err != nil {
		return err
	}
	row.OwnerReviewCount = reviewCount
	row.OwnerRatingAvg = reviewAvg

	row.OverallScore = row.CalculateScore()

	return s.repo.UpsertSupplierMetrics(ctx, s.db, &row)
}

type ticketFacts struct {
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *Service) RecomputeCustomer(ctx context.Context, orgID, customerID snowflake.ID) error {
	if orgID == 0 {
		return domain.ErrInvalidOrganization
	}

	var tickets []ticketFacts
	err := s.db.WithContext(ctx).Raw(
		`SELECT status, created_at, updated_at
		 FROM tickets WHERE org_id = ? AND customer_id = ?`,
		orgID,
		customerID,
	).Scan(&tickets).Error
	if err != nil {
		return err
	}

	row := domain.CustomerMetrics{
		ID:         s.genID.Generate(),
		OrgID:      orgID,
		CustomerID: customerID,
		ComputedAt: time.Now().UTC(),
	}

	var decided int64
	var decisionHours float64
	for _, ticket := range tickets {
		row.TotalTickets++
		switch ticketdomain.Status(ticket.Status) {
		case ticketdomain.StatusAccepted, ticketdomain.StatusClosed:
			row.AcceptedTickets++
			decided++
			decisionHours += ticket.UpdatedAt.Sub(ticket.CreatedAt).Hours()
		case ticketdomain.StatusRejected:
			decided++
			decisionHours += ticket.UpdatedAt.Sub(ticket.CreatedAt).Hours()
		}
	}
	if decided > 0 {
		row.AvgResponseHours = decisionHours / float64(decided)
	}

	var orderStats struct {
		Total      int64
		Cancelled  int64
		TotalSpent float64
	}
	err = s.db.WithContext(ctx).Raw(
		`SELECT COUNT(*) AS total,
		        COALESCE(SUM(CASE WHEN status = 'cancelled' THEN 1 ELSE 0 END), 0) AS cancelled,
		        COALESCE(SUM(CASE WHEN status <> 'cancelled' THEN total_amount ELSE 0 END), 0) AS total_spent
		 FROM orders WHERE org_id = ? AND customer_id = ?`,
		orgID,
		customerID,
	).Scan(&orderStats).Error
	if err != nil {
		return err
	}
	row.TotalOrders = orderStats.Total
	row.CancelledOrders = orderStats.Cancelled
	row.TotalSpent = decimal.NewFromFloat(orderStats.TotalSpent).Round(2)
	if row.TotalOrders > 0 {
		row.CancellationRate = float64(row.CancelledOrders) / float64(row.TotalOrders) * 100
	}
	// Conversion measures how many requests turned into orders, not how many
	// reached an accepted state.
	if row.TotalTickets > 0 {
		row.ConversionRate = float64(row.TotalOrders) / float64(row.TotalTickets) * 100
	}
	kept := row.TotalOrders - row.CancelledOrders
	if kept > 0 {
		row.AvgOrderValue = row.TotalSpent.Div(decimal.NewFromInt(kept)).Round(2)
	}

	reviewCount, reviewAvg, err := s.ownerReviewStats(ctx, orgID, domain.SubjectCustomer, customerID)
	if err != nil {
		return err
	}
	row.OwnerReviewCount = reviewCount
	row.OwnerRatingAvg = reviewAvg

	row.OverallScore = row.CalculateScore()

	return s.repo.UpsertCustomerMetrics(ctx, s.db, &row)
}

func (s *Service) ownerReviewStats(ctx context.Context, orgID snowflake.ID, subject domain.SubjectType, subjectID snowflake.ID) (int64, float64, error) {
	var stats struct {
		Count  int64
		Rating float64
	}
	err := s.db.WithContext(ctx).Raw(
		`SELECT COUNT(*) AS count, COALESCE(AVG(rating), 0) AS rating
		 FROM owner_reviews WHERE org_id = ? AND subject_type = ? AND subject_id = ?`,
		orgID,
		subject,
		subjectID,
	).Scan(&stats).Error
	if err != nil {
		return 0, 0, err
	}
	return stats.Count, stats.Rating, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
