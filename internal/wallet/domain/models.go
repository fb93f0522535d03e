// Package domain defines the read-only wallet projection for a client.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	projectdomain "github.com/craftline/projectledger/internal/project/domain"
)

// InstallmentView is the per-installment detail exposed to client views.
type InstallmentView struct {
	ID       snowflake.ID                    `json:"id"`
	Amount   float64                         `json:"amount"`
	DueDate  time.Time                       `json:"due_date"`
	Status   projectdomain.InstallmentStatus `json:"status"`
	PaidDate *time.Time                      `json:"paid_date,omitempty"`
}

// ProjectWallet explains one project's cached financial totals by splitting
// them back into their visible components.
type ProjectWallet struct {
	ProjectID       snowflake.ID                `json:"project_id"`
	Name            string                      `json:"name"`
	Status          projectdomain.ProjectStatus `json:"status"`
	TotalCost       float64                     `json:"total_cost"`
	TotalReceived   float64                     `json:"total_received"`
	RemainingAmount float64                     `json:"remaining_amount"`

	ApprovedReceipts float64 `json:"approved_receipts"`
	PaidInstallments float64 `json:"paid_installments"`
	// AdvanceExclInstallments is the received total with the paid
	// installments backed out, floored at zero, so the three money sources
	// can be shown side by side.
	AdvanceExclInstallments float64 `json:"advance_and_receipts_excl_installments"`

	Installments []InstallmentView `json:"installments"`
}

// WalletSummary is the aggregate block across all of a client's projects.
type WalletSummary struct {
	TotalCost      float64 `json:"total_cost"`
	TotalReceived  float64 `json:"total_received"`
	TotalRemaining float64 `json:"total_remaining"`
	StandalonePaid float64 `json:"standalone_payments"`
	TotalPaid      float64 `json:"total_paid"`
	ProjectCount   int     `json:"project_count"`
	CompletedCount int     `json:"completed_projects"`
}

type WalletResponse struct {
	ClientID snowflake.ID    `json:"client_id"`
	Summary  WalletSummary   `json:"summary"`
	Projects []ProjectWallet `json:"projects"`
}

// Service assembles wallet projections. Implementations must never mutate
// project state.
type Service interface {
	Summary(ctx context.Context, clientID snowflake.ID) (*WalletResponse, error)
}
