package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/procura/internal/orgcontext"
	quotedomain "github.com/smallbiznis/procura/internal/quote/domain"
)

func (s *Server) GetQuoteByID(c *gin.Context) {
	resp, err := s.quoteSvc.GetByID(c.Request.Context(), quotedomain.GetQuoteRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListTicketQuotes(c *gin.Context) {
	resp, err := s.quoteSvc.ListByTicket(c.Request.Context(), quotedomain.ListQuoteRequest{
		TicketID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// PortalGetTicket returns the ticket behind a supplier token so the
// supplier can see what to quote against.
func (s *Server) PortalGetTicket(c *gin.Context) {
	resp, err := s.ticketSvc.GetBySupplierToken(c.Request.Context(), strings.TrimSpace(c.Param("token")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type portalQuoteItemRequest struct {
	ProductID   string `json:"product_id"`
	Description string `json:"description"`
	Quantity    int64  `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
}

type portalSubmitQuoteRequest struct {
	SupplierID string                   `json:"supplier_id"`
	Currency   string                   `json:"currency"`
	Note       string                   `json:"note"`
	Amount     string                   `json:"amount"`
	Items      []portalQuoteItemRequest `json:"items"`
}

// PortalSubmitQuote submits or replaces a quote through the token link.
// The ticket's organization becomes the request org so the quote service
// sees the same context as an in-org caller.
func (s *Server) PortalSubmitQuote(c *gin.Context) {
	ticket, err := s.ticketSvc.GetBySupplierToken(c.Request.Context(), strings.TrimSpace(c.Param("token")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req portalSubmitQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	items := make([]quotedomain.SubmitItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, quotedomain.SubmitItemInput{
			ProductID:   strings.TrimSpace(item.ProductID),
			Description: strings.TrimSpace(item.Description),
			Quantity:    item.Quantity,
			UnitPrice:   strings.TrimSpace(item.UnitPrice),
		})
	}

	ctx := orgcontext.WithOrgID(c.Request.Context(), int64(ticket.OrgID))
	resp, err := s.quoteSvc.Submit(ctx, quotedomain.SubmitQuoteRequest{
		TicketID:   ticket.ID.String(),
		SupplierID: strings.TrimSpace(req.SupplierID),
		Currency:   strings.TrimSpace(req.Currency),
		Note:       strings.TrimSpace(req.Note),
		Amount:     strings.TrimSpace(req.Amount),
		Items:      items,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isQuoteValidationError(err error) bool {
	switch err {
	case quotedomain.ErrInvalidOrganization,
		quotedomain.ErrInvalidID,
		quotedomain.ErrInvalidQuantity,
		quotedomain.ErrInvalidPrice,
		quotedomain.ErrInvalidAmount,
		quotedomain.ErrForeignProduct:
		return true
	default:
		return false
	}
}
