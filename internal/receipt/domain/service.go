package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type RecordReceiptRequest struct {
	ProjectID string  `json:"project_id"`
	ClientID  string  `json:"client_id"`
	Amount    float64 `json:"amount"`
	Notes     string  `json:"notes"`
}

// Service is the receipt workflow at its interface boundary: recording and
// approving receipts, and summing the approved total per project.
type Service interface {
	Record(ctx context.Context, req RecordReceiptRequest) (*Receipt, error)
	// Approve marks a pending receipt approved and re-runs the financial
	// reconciliation for the linked project.
	Approve(ctx context.Context, receiptID snowflake.ID) (*Receipt, error)
	Reject(ctx context.Context, receiptID snowflake.ID) (*Receipt, error)
	ListByProject(ctx context.Context, projectID snowflake.ID) ([]Receipt, error)
	SumApproved(ctx context.Context, projectID snowflake.ID) (float64, error)
}
