package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/craftline/projectledger/pkg/db/pagination"
)

// NewInstallment is one entry of a batch add. DueDate accepts "2006-01-02"
// or RFC 3339.
type NewInstallment struct {
	Amount  float64 `json:"amount"`
	DueDate string  `json:"due_date"`
	Notes   string  `json:"notes"`
}

// UpdateInstallmentRequest carries a partial installment update; nil fields
// are left untouched.
type UpdateInstallmentRequest struct {
	Amount   *float64 `json:"amount"`
	DueDate  *string  `json:"due_date"`
	Notes    *string  `json:"notes"`
	Status   *string  `json:"status"`
	PaidDate *string  `json:"paid_date"`
}

type ReviseCostRequest struct {
	NewCost float64 `json:"new_cost"`
	Reason  string  `json:"reason"`
}

type CreateProjectRequest struct {
	ClientID   string  `json:"client_id"`
	Name       string  `json:"name"`
	TotalCost  float64 `json:"total_cost"`
	Advance    float64 `json:"advance_received"`
	IncludeGST bool    `json:"include_gst"`
}

// RecalculateResult is the exposed contract of the financial aggregator.
type RecalculateResult struct {
	TotalReceived   float64 `json:"total_received"`
	RemainingAmount float64 `json:"remaining_amount"`
}

type CostHistoryResponse struct {
	pagination.PageInfo
	Revisions []CostRevision `json:"revisions"`
}

// Service is the project billing surface consumed by transports.
type Service interface {
	Create(ctx context.Context, req CreateProjectRequest) (*Project, error)
	Get(ctx context.Context, id snowflake.ID) (*Project, error)

	AddInstallments(ctx context.Context, projectID snowflake.ID, entries []NewInstallment) (*Project, error)
	UpdateInstallment(ctx context.Context, projectID, installmentID snowflake.ID, req UpdateInstallmentRequest) (*Project, error)
	DeleteInstallment(ctx context.Context, projectID, installmentID snowflake.ID) (*Project, error)

	ReviseCost(ctx context.Context, projectID snowflake.ID, req ReviseCostRequest) (*Project, error)
	ListCostRevisions(ctx context.Context, projectID snowflake.ID, page pagination.Pagination) (CostHistoryResponse, error)

	// Recalculate re-runs the reconciliation pipeline; callable after any
	// external mutation that affects money, such as a receipt approval.
	Recalculate(ctx context.Context, projectID snowflake.ID) (RecalculateResult, error)
}
