package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	ticketdomain "github.com/smallbiznis/procura/internal/ticket/domain"
	"github.com/smallbiznis/procura/pkg/db/pagination"
)

type createTicketRequest struct {
	CustomerID      string         `json:"customer_id"`
	CategoryID      string         `json:"category_id"`
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	DesiredQuantity int64          `json:"desired_quantity"`
	ExtraData       map[string]any `json:"extra_data"`
}

func (s *Server) CreateTicket(c *gin.Context) {
	var req createTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.ticketSvc.Create(c.Request.Context(), ticketdomain.CreateTicketRequest{
		CustomerID:      strings.TrimSpace(req.CustomerID),
		CategoryID:      strings.TrimSpace(req.CategoryID),
		Title:           strings.TrimSpace(req.Title),
		Description:     strings.TrimSpace(req.Description),
		DesiredQuantity: req.DesiredQuantity,
		ExtraData:       req.ExtraData,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListTickets(c *gin.Context) {
	var query struct {
		pagination.Pagination
		CustomerID string `form:"customer_id"`
		CategoryID string `form:"category_id"`
		Status     string `form:"status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.ticketSvc.List(c.Request.Context(), ticketdomain.ListTicketRequest{
		PageToken:  query.PageToken,
		PageSize:   int32(query.PageSize),
		CustomerID: strings.TrimSpace(query.CustomerID),
		CategoryID: strings.TrimSpace(query.CategoryID),
		Status:     ticketdomain.Status(strings.TrimSpace(query.Status)),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetTicketByID(c *gin.Context) {
	resp, err := s.ticketSvc.GetByID(c.Request.Context(), ticketdomain.GetTicketRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) AcceptTicket(c *gin.Context) {
	resp, err := s.ticketSvc.Accept(c.Request.Context(), ticketdomain.AcceptTicketRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) RejectTicket(c *gin.Context) {
	resp, err := s.ticketSvc.Reject(c.Request.Context(), ticketdomain.RejectTicketRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CloseTicket(c *gin.Context) {
	resp, err := s.ticketSvc.Close(c.Request.Context(), ticketdomain.CloseTicketRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type addTicketCommentRequest struct {
	AuthorRole string `json:"author_role"`
	Body       string `json:"body"`
}

func (s *Server) AddTicketComment(c *gin.Context) {
	var req addTicketCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.ticketSvc.AddComment(c.Request.Context(), ticketdomain.AddCommentRequest{
		TicketID:   strings.TrimSpace(c.Param("id")),
		AuthorRole: strings.TrimSpace(req.AuthorRole),
		Body:       req.Body,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListTicketComments(c *gin.Context) {
	resp, err := s.ticketSvc.ListComments(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isTicketValidationError(err error) bool {
	switch err {
	case ticketdomain.ErrInvalidOrganization,
		ticketdomain.ErrInvalidID,
		ticketdomain.ErrInvalidTitle,
		ticketdomain.ErrInvalidQuantity,
		ticketdomain.ErrInvalidCustomer,
		ticketdomain.ErrInvalidCategory,
		ticketdomain.ErrInvalidStatus,
		ticketdomain.ErrEmptyComment:
		return true
	default:
		return false
	}
}
