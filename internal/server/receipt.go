package server

import (
	"net/http"

	projectdomain "github.com/craftline/projectledger/internal/project/domain"
	receiptdomain "github.com/craftline/projectledger/internal/receipt/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) CreateReceipt(c *gin.Context) {
	var req receiptdomain.RecordReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.receiptSvc.Record(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListProjectReceipts(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		AbortWithError(c, projectdomain.ErrProjectNotFound)
		return
	}

	resp, err := s.receiptSvc.ListByProject(c.Request.Context(), projectID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ApproveReceipt(c *gin.Context) {
	receiptID, ok := pathID(c, "id")
	if !ok {
		AbortWithError(c, receiptdomain.ErrReceiptNotFound)
		return
	}

	resp, err := s.receiptSvc.Approve(c.Request.Context(), receiptID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) RejectReceipt(c *gin.Context) {
	receiptID, ok := pathID(c, "id")
	if !ok {
		AbortWithError(c, receiptdomain.ErrReceiptNotFound)
		return
	}

	resp, err := s.receiptSvc.Reject(c.Request.Context(), receiptID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
