package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	organizationdomain "github.com/smallbiznis/procura/internal/organization/domain"
)

type createOrganizationRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (s *Server) CreateOrganization(c *gin.Context) {
	var req createOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.organizationSvc.Create(c.Request.Context(), organizationdomain.CreateOrganizationRequest{
		Name: strings.TrimSpace(req.Name),
		Slug: strings.TrimSpace(req.Slug),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetOrganizationByID(c *gin.Context) {
	resp, err := s.organizationSvc.GetByID(c.Request.Context(), organizationdomain.GetOrganizationRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type addMembershipRequest struct {
	AccountID string `json:"account_id"`
	Role      string `json:"role"`
	ProfileID string `json:"profile_id"`
}

func (s *Server) AddMembership(c *gin.Context) {
	var req addMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.organizationSvc.AddMembership(c.Request.Context(), organizationdomain.AddMembershipRequest{
		AccountID: strings.TrimSpace(req.AccountID),
		Role:      organizationdomain.Role(strings.TrimSpace(req.Role)),
		ProfileID: strings.TrimSpace(req.ProfileID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ResolveMembership(c *gin.Context) {
	resp, err := s.organizationSvc.ResolveRole(c.Request.Context(), strings.TrimSpace(c.Param("account_id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isOrganizationValidationError(err error) bool {
	switch err {
	case organizationdomain.ErrInvalidOrganization,
		organizationdomain.ErrInvalidName,
		organizationdomain.ErrInvalidSlug,
		organizationdomain.ErrInvalidID,
		organizationdomain.ErrInvalidRole:
		return true
	default:
		return false
	}
}
