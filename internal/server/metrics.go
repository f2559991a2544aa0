package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	metricsdomain "github.com/smallbiznis/procura/internal/metrics/domain"
	organizationdomain "github.com/smallbiznis/procura/internal/organization/domain"
	"github.com/smallbiznis/procura/internal/orgcontext"
)

type submitFeedbackRequest struct {
	OrderID       string `json:"order_id"`
	Quality       int    `json:"quality"`
	Communication int    `json:"communication"`
	DeliveryTime  int    `json:"delivery_time"`
	Satisfaction  int    `json:"satisfaction"`
	Comment       string `json:"comment"`
}

func (s *Server) SubmitFeedback(c *gin.Context) {
	var req submitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.metricsSvc.SubmitFeedback(c.Request.Context(), metricsdomain.SubmitFeedbackRequest{
		OrderID:       strings.TrimSpace(req.OrderID),
		Quality:       req.Quality,
		Communication: req.Communication,
		DeliveryTime:  req.DeliveryTime,
		Satisfaction:  req.Satisfaction,
		Comment:       strings.TrimSpace(req.Comment),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type submitOwnerReviewRequest struct {
	SubjectType string `json:"subject_type"`
	SubjectID   string `json:"subject_id"`
	Rating      int    `json:"rating"`
	Comment     string `json:"comment"`
}

func (s *Server) SubmitOwnerReview(c *gin.Context) {
	var req submitOwnerReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.metricsSvc.SubmitOwnerReview(c.Request.Context(), metricsdomain.SubmitOwnerReviewRequest{
		SubjectType: metricsdomain.SubjectType(strings.TrimSpace(req.SubjectType)),
		SubjectID:   strings.TrimSpace(req.SubjectID),
		Rating:      req.Rating,
		Comment:     strings.TrimSpace(req.Comment),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetSupplierMetrics(c *gin.Context) {
	resp, err := s.metricsSvc.GetSupplierMetrics(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetCustomerMetrics(c *gin.Context) {
	resp, err := s.metricsSvc.GetCustomerMetrics(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListSupplierMetrics(c *gin.Context) {
	resp, err := s.metricsSvc.ListSupplierMetrics(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListCustomerMetrics(c *gin.Context) {
	resp, err := s.metricsSvc.ListCustomerMetrics(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// RecomputeMetrics rebuilds the scorecards for the active organization on
// demand, without waiting for the scheduler tick.
func (s *Server) RecomputeMetrics(c *gin.Context) {
	orgID, ok := orgcontext.OrgIDFromContext(c.Request.Context())
	if !ok || orgID == 0 {
		AbortWithError(c, organizationdomain.ErrInvalidOrganization)
		return
	}

	resp, err := s.metricsSvc.RecomputeOrg(c.Request.Context(), orgID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isMetricsValidationError(err error) bool {
	switch err {
	case metricsdomain.ErrInvalidOrganization,
		metricsdomain.ErrInvalidID,
		metricsdomain.ErrInvalidRating,
		metricsdomain.ErrInvalidSubject:
		return true
	default:
		return false
	}
}
