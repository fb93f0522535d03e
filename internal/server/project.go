package server

import (
	"net/http"
	"strings"

	projectdomain "github.com/craftline/projectledger/internal/project/domain"
	"github.com/gin-gonic/gin"
)

type createProjectRequest struct {
	ClientID   string  `json:"client_id"`
	Name       string  `json:"name"`
	TotalCost  float64 `json:"total_cost"`
	Advance    float64 `json:"advance_received"`
	IncludeGST bool    `json:"include_gst"`
}

func (s *Server) CreateProject(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.projectSvc.Create(c.Request.Context(), projectdomain.CreateProjectRequest{
		ClientID:   strings.TrimSpace(req.ClientID),
		Name:       strings.TrimSpace(req.Name),
		TotalCost:  req.TotalCost,
		Advance:    req.Advance,
		IncludeGST: req.IncludeGST,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetProject(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		AbortWithError(c, projectdomain.ErrProjectNotFound)
		return
	}

	resp, err := s.projectSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) RecalculateProject(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		AbortWithError(c, projectdomain.ErrProjectNotFound)
		return
	}

	result, err := s.projectSvc.Recalculate(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}
