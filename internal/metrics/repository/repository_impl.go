package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/procura/internal/metrics/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) UpsertSupplierMetrics(ctx context.Context, db *gorm.DB, row *domain.SupplierMetrics) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO supplier_metrics (
		   id, org_id, supplier_id,
		   total_quotes, accepted_quotes, win_rate, avg_response_hours,
		   total_orders, completed_orders, delivered_orders, on_time_deliveries, on_time_delivery_rate,
		   feedback_count, avg_quality, avg_communication, avg_satisfaction,
		   owner_review_count, owner_rating_avg, overall_score, computed_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (org_id, supplier_id) DO UPDATE SET
		   total_quotes = excluded.total_quotes,
		   accepted_quotes = excluded.accepted_quotes,
		   win_rate = excluded.win_rate,
		   avg_response_hours = excluded.avg_response_hours,
		   total_orders = excluded.total_orders,
		   completed_orders = excluded.completed_orders,
		   delivered_orders = excluded.delivered_orders,
		   on_time_deliveries = excluded.on_time_deliveries,
		   on_time_delivery_rate = excluded.on_time_delivery_rate,
		   feedback_count = excluded.feedback_count,
		   avg_quality = excluded.avg_quality,
		   avg_communication = excluded.avg_communication,
		   avg_satisfaction = excluded.avg_satisfaction,
		   owner_review_count = excluded.owner_review_count,
		   owner_rating_avg = excluded.owner_rating_avg,
		   overall_score = excluded.overall_score,
		   computed_at = excluded.computed_at`,
		row.ID,
		row.OrgID,
		row.SupplierID,
		row.TotalQuotes,
		row.AcceptedQuotes,
		row.WinRate,
		row.AvgResponseHours,
		row.TotalOrders,
		row.CompletedOrders,
		row.DeliveredOrders,
		row.OnTimeDeliveries,
		row.OnTimeDeliveryRate,
		row.FeedbackCount,
		row.AvgQuality,
		row.AvgCommunication,
		row.AvgSatisfaction,
		row.OwnerReviewCount,
		row.OwnerRatingAvg,
		row.OverallScore,
		row.ComputedAt,
	).Error
}

func (r *repo) UpsertCustomerMetrics(ctx context.Context, db *gorm.DB, row *domain.CustomerMetrics) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO customer_metrics (
		   id, org_id, customer_id,
		   total_tickets, accepted_tickets, conversion_rate,
		   total_orders, cancelled_orders, cancellation_rate,
		   avg_response_hours, total_spent,
		   owner_review_count, owner_rating_avg, overall_score, computed_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (org_id, customer_id) DO UPDATE SET
		   total_tickets = excluded.total_tickets,
		   accepted_tickets = excluded.accepted_tickets,
		   conversion_rate = excluded.conversion_rate,
		   total_orders = excluded.total_orders,
		   cancelled_orders = excluded.cancelled_orders,
		   cancellation_rate = excluded.cancellation_rate,
		   avg_response_hours = excluded.avg_response_hours,
		   total_spent = excluded.total_spent,
		   owner_review_count = excluded.owner_review_count,
		   owner_rating_avg = excluded.owner_rating_avg,
		   overall_score = excluded.overall_score,
		   computed_at = excluded.computed_at`,
		row.ID,
		row.OrgID,
		row.CustomerID,
		row.TotalTickets,
		row.AcceptedTickets,
		row.ConversionRate,
		row.TotalOrders,
		row.CancelledOrders,
		row.CancellationRate,
		row.AvgResponseHours,
		row.TotalSpent,
		row.OwnerReviewCount,
		row.OwnerRatingAvg,
		row.OverallScore,
		row.ComputedAt,
	).Error
}

func (r *repo) FindSupplierMetrics(ctx context.Context, db *gorm.DB, orgID, supplierID snowflake.ID) (*domain.SupplierMetrics, error) {
	var row domain.SupplierMetrics
	err := db.WithContext(ctx).
		Where("org_id = ? AND supplier_id = ?", orgID, supplierID).
		Take(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *repo) FindCustomerMetrics(ctx context.Context, db *gorm.DB, orgID, customerID snowflake.ID) (*domain.CustomerMetrics, error) {
	var row domain.CustomerMetrics
	err := db.WithContext(ctx).
		Where("org_id = ? AND customer_id = ?", orgID, customerID).
		Take(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *repo) ListSupplierMetrics(ctx context.Context, db *gorm.DB, orgID snowflake.ID) ([]*domain.SupplierMetrics, error) {
	var rows []*domain.SupplierMetrics
	err := db.WithContext(ctx).
		Model(&domain.SupplierMetrics{}).
		Where("org_id = ?", orgID).
		Order("overall_score desc, supplier_id asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) ListCustomerMetrics(ctx context.Context, db *gorm.DB, orgID snowflake.ID) ([]*domain.CustomerMetrics, error) {
	var rows []*domain.CustomerMetrics
	err := db.WithContext(ctx).
		Model(&domain.CustomerMetrics{}).
		Where("org_id = ?", orgID).
		Order("overall_score desc, customer_id asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) InsertFeedback(ctx context.Context, db *gorm.DB, feedback *domain.CustomerFeedback) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO customer_feedbacks (id, org_id, order_id, customer_id, supplier_id, quality, communication, satisfaction, comment, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		feedback.ID,
		feedback.OrgID,
		feedback.OrderID,
		feedback.CustomerID,
		feedback.SupplierID,
		feedback.Quality,
		feedback.Communication,
		feedback.Satisfaction,
		feedback.Comment,
		feedback.CreatedAt,
	).Error
}

func (r *repo) InsertOwnerReview(ctx context.Context, db *gorm.DB, review *domain.OwnerReview) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO owner_reviews (id, org_id, subject_type, subject_id, rating, comment, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		review.ID,
		review.OrgID,
		review.SubjectType,
		review.SubjectID,
		review.Rating,
		review.Comment,
		review.CreatedAt,
	).Error
}
