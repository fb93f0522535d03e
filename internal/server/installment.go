package server

import (
	"net/http"

	projectdomain "github.com/craftline/projectledger/internal/project/domain"
	"github.com/gin-gonic/gin"
)

type addInstallmentsRequest struct {
	Installments []projectdomain.NewInstallment `json:"installments"`
}

func (s *Server) AddInstallments(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		AbortWithError(c, projectdomain.ErrProjectNotFound)
		return
	}

	var req addInstallmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.projectSvc.AddInstallments(c.Request.Context(), projectID, req.Installments)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateInstallment(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		AbortWithError(c, projectdomain.ErrProjectNotFound)
		return
	}
	installmentID, ok := pathID(c, "installmentId")
	if !ok {
		AbortWithError(c, projectdomain.ErrInstallmentNotFound)
		return
	}

	var req projectdomain.UpdateInstallmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.projectSvc.UpdateInstallment(c.Request.Context(), projectID, installmentID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteInstallment(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		AbortWithError(c, projectdomain.ErrProjectNotFound)
		return
	}
	installmentID, ok := pathID(c, "installmentId")
	if !ok {
		AbortWithError(c, projectdomain.ErrInstallmentNotFound)
		return
	}

	resp, err := s.projectSvc.DeleteInstallment(c.Request.Context(), projectID, installmentID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
