package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	pricingdomain "github.com/smallbiznis/procura/internal/pricing/domain"
)

type applyOfferRequest struct {
	QuoteID        string            `json:"quote_id"`
	MarkupPercents map[string]string `json:"markup_percents"`
	Note           string            `json:"note"`
}

func (s *Server) ApplyOffer(c *gin.Context) {
	var req applyOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.pricingSvc.ApplyOffer(c.Request.Context(), pricingdomain.ApplyOfferRequest{
		TicketID:       strings.TrimSpace(c.Param("id")),
		QuoteID:        strings.TrimSpace(req.QuoteID),
		MarkupPercents: req.MarkupPercents,
		Note:           strings.TrimSpace(req.Note),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListOfferAdjustments(c *gin.Context) {
	resp, err := s.pricingSvc.ListAdjustments(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isPricingValidationError(err error) bool {
	switch err {
	case pricingdomain.ErrInvalidOrganization,
		pricingdomain.ErrInvalidID,
		pricingdomain.ErrQuoteMismatch:
		return true
	default:
		return false
	}
}
