package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	paymentdomain "github.com/craftline/projectledger/internal/payment/domain"
	projectdomain "github.com/craftline/projectledger/internal/project/domain"
	"github.com/gin-gonic/gin"
)

type recordPaymentRequest struct {
	ClientID  string  `json:"client_id"`
	ProjectID string  `json:"project_id"`
	Amount    float64 `json:"amount"`
	Status    string  `json:"status"`
	Reference string  `json:"reference"`
}

func (s *Server) RecordPayment(c *gin.Context) {
	var req recordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	clientID, err := snowflake.ParseString(strings.TrimSpace(req.ClientID))
	if err != nil {
		AbortWithError(c, projectdomain.NewValidationError("client_id", "must be a valid id"))
		return
	}

	record := &paymentdomain.PaymentRecord{
		ClientID:  clientID,
		Amount:    req.Amount,
		Status:    paymentdomain.PaymentStatus(strings.TrimSpace(req.Status)),
		Reference: strings.TrimSpace(req.Reference),
	}
	if raw := strings.TrimSpace(req.ProjectID); raw != "" {
		projectID, err := snowflake.ParseString(raw)
		if err != nil {
			AbortWithError(c, projectdomain.NewValidationError("project_id", "must be a valid id"))
			return
		}
		record.ProjectID = &projectID
	}

	if err := s.paymentSvc.Record(c.Request.Context(), record); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": record})
}
