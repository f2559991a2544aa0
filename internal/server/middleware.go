package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	organizationdomain "github.com/smallbiznis/procura/internal/organization/domain"
	"github.com/smallbiznis/procura/internal/orgcontext"
)

const orgHeader = "X-Org-Id"

// OrgContext resolves the active organization from the X-Org-Id header,
// falling back to the configured default org. Every /api route runs
// behind it.
func (s *Server) OrgContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(orgHeader))
		if raw == "" && s.cfg.DefaultOrgID != 0 {
			ctx := orgcontext.WithOrgID(c.Request.Context(), s.cfg.DefaultOrgID)
			c.Request = c.Request.WithContext(ctx)
			c.Next()
			return
		}

		orgID, err := snowflake.ParseString(raw)
		if err != nil || orgID == 0 {
			AbortWithError(c, organizationdomain.ErrInvalidOrganization)
			return
		}

		ctx := orgcontext.WithOrgID(c.Request.Context(), int64(orgID))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
