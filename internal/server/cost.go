package server

import (
	"net/http"

	projectdomain "github.com/craftline/projectledger/internal/project/domain"
	"github.com/craftline/projectledger/pkg/db/pagination"
	"github.com/gin-gonic/gin"
)

func (s *Server) ReviseCost(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		AbortWithError(c, projectdomain.ErrProjectNotFound)
		return
	}

	var req projectdomain.ReviseCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.projectSvc.ReviseCost(c.Request.Context(), projectID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListCostRevisions(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		AbortWithError(c, projectdomain.ErrProjectNotFound)
		return
	}

	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.projectSvc.ListCostRevisions(c.Request.Context(), projectID, page)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
