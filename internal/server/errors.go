package server

import (
	"errors"
	"net/http"

	incentivedomain "github.com/craftline/projectledger/internal/incentive/domain"
	projectdomain "github.com/craftline/projectledger/internal/project/domain"
	receiptdomain "github.com/craftline/projectledger/internal/receipt/domain"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type errorPayload struct {
	Type    string `json:"type"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var ErrInvalidRequest = errors.New("invalid_request")

// ErrorHandlingMiddleware translates domain errors recorded on the context
// into the JSON error contract. Handlers call AbortWithError and return.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return ErrInvalidRequest
}

func mapError(err error) (int, errorPayload) {
	var vErr *projectdomain.ValidationError
	if errors.As(err, &vErr) {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Field:   vErr.Field,
			Message: vErr.Message,
		}
	}

	var cErr *projectdomain.ConstraintViolation
	if errors.As(err, &cErr) {
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "constraint_violation",
			Message: cErr.Message,
		}
	}

	var dErr *projectdomain.DependencyFailure
	if errors.As(err, &dErr) {
		return http.StatusBadGateway, errorPayload{
			Type:    "dependency_failure",
			Message: dErr.Error(),
		}
	}

	switch {
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "invalid request",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: err.Error(),
		}
	case errors.Is(err, receiptdomain.ErrReceiptNotPending):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: err.Error(),
		}
	case errors.Is(err, incentivedomain.ErrInsufficientPending):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: err.Error(),
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, projectdomain.ErrProjectNotFound),
		errors.Is(err, projectdomain.ErrInstallmentNotFound),
		errors.Is(err, receiptdomain.ErrReceiptNotFound),
		errors.Is(err, incentivedomain.ErrIncentiveNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

// classifyErrorForLog labels request-log entries without leaking messages.
func classifyErrorForLog(err error) (string, string) {
	switch {
	case projectdomain.IsValidationError(err), errors.Is(err, ErrInvalidRequest):
		return "validation_error", "invalid_input"
	case projectdomain.IsConstraintViolation(err):
		return "constraint_violation", "business_rule"
	case projectdomain.IsDependencyFailure(err):
		return "dependency_failure", "upstream"
	case isNotFoundError(err):
		return "not_found", "missing_entity"
	default:
		return "internal_error", "unclassified"
	}
}
