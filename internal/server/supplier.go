package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	supplierdomain "github.com/smallbiznis/procura/internal/supplier/domain"
)

type createSupplierRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (s *Server) CreateSupplier(c *gin.Context) {
	var req createSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.supplierSvc.Create(c.Request.Context(), supplierdomain.CreateSupplierRequest{
		Name:  strings.TrimSpace(req.Name),
		Email: strings.TrimSpace(req.Email),
		Phone: strings.TrimSpace(req.Phone),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListSuppliers(c *gin.Context) {
	resp, err := s.supplierSvc.List(c.Request.Context(), supplierdomain.ListSupplierRequest{})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetSupplierByID(c *gin.Context) {
	resp, err := s.supplierSvc.GetByID(c.Request.Context(), supplierdomain.GetSupplierRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type createSupplierProductRequest struct {
	CategoryID  string `json:"category_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	UnitPrice   string `json:"unit_price"`
	Currency    string `json:"currency"`
}

func (s *Server) CreateSupplierProduct(c *gin.Context) {
	var req createSupplierProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.supplierSvc.CreateProduct(c.Request.Context(), supplierdomain.CreateProductRequest{
		SupplierID:  strings.TrimSpace(c.Param("id")),
		CategoryID:  strings.TrimSpace(req.CategoryID),
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		UnitPrice:   strings.TrimSpace(req.UnitPrice),
		Currency:    strings.TrimSpace(req.Currency),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListSupplierProducts(c *gin.Context) {
	resp, err := s.supplierSvc.ListProducts(c.Request.Context(), supplierdomain.ListProductRequest{
		SupplierID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isSupplierValidationError(err error) bool {
	switch err {
	case supplierdomain.ErrInvalidOrganization,
		supplierdomain.ErrInvalidName,
		supplierdomain.ErrInvalidEmail,
		supplierdomain.ErrInvalidID,
		supplierdomain.ErrInvalidPrice,
		supplierdomain.ErrNotInOrganization:
		return true
	default:
		return false
	}
}
