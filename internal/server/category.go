package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	categorydomain "github.com/smallbiznis/procura/internal/category/domain"
)

type createCategoryRequest struct {
	Name        string `json:"name"`
	ParentID    string `json:"parent_id"`
	Description string `json:"description"`
}

func (s *Server) CreateCategory(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.categorySvc.Create(c.Request.Context(), categorydomain.CreateCategoryRequest{
		Name:        strings.TrimSpace(req.Name),
		ParentID:    strings.TrimSpace(req.ParentID),
		Description: strings.TrimSpace(req.Description),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListCategories(c *gin.Context) {
	resp, err := s.categorySvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetCategoryByID(c *gin.Context) {
	resp, err := s.categorySvc.GetByID(c.Request.Context(), categorydomain.GetCategoryRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type setCategorySuppliersRequest struct {
	SupplierIDs []string `json:"supplier_ids"`
}

func (s *Server) SetCategorySuppliers(c *gin.Context) {
	var req setCategorySuppliersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	err := s.categorySvc.SetDefaultSuppliers(c.Request.Context(), categorydomain.SetDefaultSuppliersRequest{
		CategoryID:  strings.TrimSpace(c.Param("id")),
		SupplierIDs: req.SupplierIDs,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"supplier_ids": req.SupplierIDs}})
}

func (s *Server) ListCategorySuppliers(c *gin.Context) {
	resp, err := s.categorySvc.DefaultSupplierIDs(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"supplier_ids": resp}})
}

type createCategoryFormFieldRequest struct {
	Label    string   `json:"label"`
	Type     string   `json:"type"`
	Required bool     `json:"required"`
	Choices  []string `json:"choices"`
	Position int      `json:"position"`
}

func (s *Server) CreateCategoryFormField(c *gin.Context) {
	var req createCategoryFormFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.categorySvc.CreateFormField(c.Request.Context(), categorydomain.CreateFormFieldRequest{
		CategoryID: strings.TrimSpace(c.Param("id")),
		Label:      strings.TrimSpace(req.Label),
		Type:       categorydomain.FieldType(strings.TrimSpace(req.Type)),
		Required:   req.Required,
		Choices:    req.Choices,
		Position:   req.Position,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListCategoryFormFields(c *gin.Context) {
	resp, err := s.categorySvc.ListFormFields(c.Request.Context(), categorydomain.ListFormFieldRequest{
		CategoryID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isCategoryValidationError(err error) bool {
	switch err {
	case categorydomain.ErrInvalidOrganization,
		categorydomain.ErrInvalidName,
		categorydomain.ErrInvalidID,
		categorydomain.ErrInvalidParent,
		categorydomain.ErrInvalidFieldType,
		categorydomain.ErrMissingChoices,
		categorydomain.ErrDuplicateField,
		categorydomain.ErrSupplierNotInOrg:
		return true
	default:
		return false
	}
}
