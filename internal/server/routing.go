package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	routingdomain "github.com/smallbiznis/procura/internal/routing/domain"
)

type createRoutingRuleRequest struct {
	CategoryID  string   `json:"category_id"`
	Name        string   `json:"name"`
	Priority    int      `json:"priority"`
	MinQuantity string   `json:"min_quantity"`
	MaxQuantity string   `json:"max_quantity"`
	FieldNames  []string `json:"field_names"`
	Operator    string   `json:"operator"`
	FieldValues []string `json:"field_values"`
	SupplierIDs []string `json:"supplier_ids"`
}

func (s *Server) CreateRoutingRule(c *gin.Context) {
	var req createRoutingRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	minQuantity, err := parseOptionalInt64(req.MinQuantity)
	if err != nil {
		AbortWithError(c, newValidationError("min_quantity", "invalid_min_quantity", "invalid min_quantity"))
		return
	}

	maxQuantity, err := parseOptionalInt64(req.MaxQuantity)
	if err != nil {
		AbortWithError(c, newValidationError("max_quantity", "invalid_max_quantity", "invalid max_quantity"))
		return
	}

	resp, err := s.routingSvc.CreateRule(c.Request.Context(), routingdomain.CreateRuleRequest{
		CategoryID:  strings.TrimSpace(req.CategoryID),
		Name:        strings.TrimSpace(req.Name),
		Priority:    req.Priority,
		MinQuantity: minQuantity,
		MaxQuantity: maxQuantity,
		FieldNames:  req.FieldNames,
		Operator:    strings.TrimSpace(req.Operator),
		FieldValues: req.FieldValues,
		SupplierIDs: req.SupplierIDs,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListRoutingRules(c *gin.Context) {
	resp, err := s.routingSvc.ListRules(c.Request.Context(), routingdomain.ListRuleRequest{
		CategoryID: strings.TrimSpace(c.Query("category_id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ActivateRoutingRule(c *gin.Context) {
	s.setRoutingRuleActive(c, true)
}

func (s *Server) DeactivateRoutingRule(c *gin.Context) {
	s.setRoutingRuleActive(c, false)
}

func (s *Server) setRoutingRuleActive(c *gin.Context, active bool) {
	err := s.routingSvc.SetRuleActive(c.Request.Context(), routingdomain.SetRuleActiveRequest{
		ID:     strings.TrimSpace(c.Param("id")),
		Active: active,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"active": active}})
}

func isRoutingValidationError(err error) bool {
	switch err {
	case routingdomain.ErrInvalidOrganization,
		routingdomain.ErrInvalidName,
		routingdomain.ErrInvalidID,
		routingdomain.ErrInvalidBounds,
		routingdomain.ErrInvalidOperator,
		routingdomain.ErrNoSuppliers,
		routingdomain.ErrSupplierNotInOrg:
		return true
	default:
		return false
	}
}
