package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type SubmitFeedbackRequest struct {
	OrderID       string
	Quality       int
	Communication int
	DeliveryTime  int
	Satisfaction  int
	Comment       string
}

type SubmitOwnerReviewRequest struct {
	SubjectType SubjectType
	SubjectID   string
	Rating      int
	Comment     string
}

// RecomputeSummary reports the outcome of one batch run. Failures are
// per-entity; the batch always runs to completion.
type RecomputeSummary struct {
	SuppliersProcessed int `json:"suppliers_processed"`
	SuppliersFailed    int `json:"suppliers_failed"`
	CustomersProcessed int `json:"customers_processed"`
	CustomersFailed    int `json:"customers_failed"`
}

type Service interface {
	SubmitFeedback(context.Context, SubmitFeedbackRequest) (CustomerFeedback, error)
	SubmitOwnerReview(context.Context, SubmitOwnerReviewRequest) (OwnerReview, error)

	GetSupplierMetrics(ctx context.Context, supplierID string) (SupplierMetrics, error)
	GetCustomerMetrics(ctx context.Context, customerID string) (CustomerMetrics, error)
	ListSupplierMetrics(ctx context.Context) ([]SupplierMetrics, error)
	ListCustomerMetrics(ctx context.Context) ([]CustomerMetrics, error)

	// RecomputeOrg rebuilds every metrics row for one organization,
	// log-and-continue per entity.
	RecomputeOrg(ctx context.Context, orgID snowflake.ID) (RecomputeSummary, error)
	RecomputeSupplier(ctx context.Context, orgID, supplierID snowflake.ID) error
	RecomputeCustomer(ctx context.Context, orgID, customerID snowflake.ID) error
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidID           = errors.New("invalid_id")
	ErrInvalidRating       = errors.New("invalid_rating")
	ErrInvalidSubject      = errors.New("invalid_subject")
	ErrOrderNotCompleted   = errors.New("order_not_completed")
	ErrDuplicateFeedback   = errors.New("duplicate_feedback")
	ErrNotFound            = errors.New("not_found")
)
