package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	orderdomain "github.com/smallbiznis/procura/internal/order/domain"
)

func (s *Server) ListOrders(c *gin.Context) {
	resp, err := s.orderSvc.List(c.Request.Context(), orderdomain.ListOrderRequest{
		CustomerID: strings.TrimSpace(c.Query("customer_id")),
		SupplierID: strings.TrimSpace(c.Query("supplier_id")),
		Status:     orderdomain.Status(strings.TrimSpace(c.Query("status"))),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetOrderByID(c *gin.Context) {
	resp, err := s.orderSvc.GetByID(c.Request.Context(), orderdomain.GetOrderRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) AcknowledgeOrder(c *gin.Context) {
	resp, err := s.orderSvc.Acknowledge(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type setExpectedDeliveryRequest struct {
	DeliverAt string `json:"deliver_at"`
}

func (s *Server) SetOrderExpectedDelivery(c *gin.Context) {
	var req setExpectedDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	deliverAt, err := time.Parse(time.RFC3339, strings.TrimSpace(req.DeliverAt))
	if err != nil {
		AbortWithError(c, newValidationError("deliver_at", "invalid_deliver_at", "invalid deliver_at"))
		return
	}

	resp, err := s.orderSvc.SetExpectedDelivery(c.Request.Context(), orderdomain.SetExpectedDeliveryRequest{
		ID:        strings.TrimSpace(c.Param("id")),
		DeliverAt: deliverAt,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) MarkOrderDelivered(c *gin.Context) {
	resp, err := s.orderSvc.MarkDelivered(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateOrderStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) UpdateOrderStatus(c *gin.Context) {
	var req updateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.orderSvc.UpdateStatus(c.Request.Context(), orderdomain.UpdateStatusRequest{
		ID:     strings.TrimSpace(c.Param("id")),
		Status: orderdomain.Status(strings.TrimSpace(req.Status)),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isOrderValidationError(err error) bool {
	switch err {
	case orderdomain.ErrInvalidOrganization,
		orderdomain.ErrInvalidID,
		orderdomain.ErrInvalidStatus:
		return true
	default:
		return false
	}
}
