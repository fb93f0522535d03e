package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	incentivedomain "github.com/craftline/projectledger/internal/incentive/domain"
	projectdomain "github.com/craftline/projectledger/internal/project/domain"
	"github.com/gin-gonic/gin"
)

type grantIncentiveRequest struct {
	OwnerID         string  `json:"owner_id"`
	ProjectID       string  `json:"project_id"`
	ConversionBased bool    `json:"conversion_based"`
	PendingBalance  float64 `json:"pending_balance"`
}

func (s *Server) GrantIncentive(c *gin.Context) {
	var req grantIncentiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	ownerID, err := snowflake.ParseString(strings.TrimSpace(req.OwnerID))
	if err != nil {
		AbortWithError(c, projectdomain.NewValidationError("owner_id", "must be a valid id"))
		return
	}
	projectID, err := snowflake.ParseString(strings.TrimSpace(req.ProjectID))
	if err != nil {
		AbortWithError(c, projectdomain.NewValidationError("project_id", "must be a valid id"))
		return
	}

	incentive := &incentivedomain.Incentive{
		OwnerID:         ownerID,
		ProjectID:       projectID,
		ConversionBased: req.ConversionBased,
		PendingBalance:  req.PendingBalance,
	}
	if err := s.incentives.Grant(c.Request.Context(), incentive); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": incentive})
}
