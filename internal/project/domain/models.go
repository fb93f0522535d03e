// Package domain contains persistence models for project billing.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// ProjectStatus represents project lifecycle states. Billing logic only
// cares whether a project is completed.
type ProjectStatus string

const (
	ProjectStatusDraft     ProjectStatus = "draft"
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusOnHold    ProjectStatus = "on_hold"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusCancelled ProjectStatus = "cancelled"
)

// InstallmentStatus is the derived payment state of a single installment.
type InstallmentStatus string

const (
	InstallmentStatusPending InstallmentStatus = "pending"
	InstallmentStatusPaid    InstallmentStatus = "paid"
	InstallmentStatusOverdue InstallmentStatus = "overdue"
)

func (s InstallmentStatus) Valid() bool {
	switch s {
	case InstallmentStatusPending, InstallmentStatusPaid, InstallmentStatusOverdue:
		return true
	default:
		return false
	}
}

// ActorRole identifies which kind of user made a change.
type ActorRole string

const (
	ActorRoleAdmin          ActorRole = "admin"
	ActorRoleProjectManager ActorRole = "project_manager"
	ActorRoleSales          ActorRole = "sales"
)

// FinancialDetails is the cached billing state of a project.
//
// AdvanceReceived is overloaded by design: before the first reconciliation it
// holds the seed conversion advance; afterwards it holds the reconciled
// "total received to date". The aggregator's merge rule depends on this.
type FinancialDetails struct {
	TotalCost       float64 `gorm:"column:total_cost;not null;default:0" json:"total_cost"`
	AdvanceReceived float64 `gorm:"column:advance_received;not null;default:0" json:"advance_received"`
	IncludeGST      bool    `gorm:"column:include_gst;not null;default:false" json:"include_gst"`
	RemainingAmount float64 `gorm:"column:remaining_amount;not null;default:0" json:"remaining_amount"`
}

// Project is the aggregate root for billing. Installments and cost history
// have no independent lifecycle; they are mutated only through project-scoped
// operations and persisted together with the financial details.
type Project struct {
	ID         snowflake.ID     `gorm:"primaryKey" json:"id"`
	ClientID   snowflake.ID     `gorm:"not null;index" json:"client_id"`
	Name       string           `gorm:"type:text;not null" json:"name"`
	Status     ProjectStatus    `gorm:"type:text;not null;default:'active';index" json:"status"`
	Financials FinancialDetails `gorm:"embedded" json:"financial_details"`
	// Budget mirrors Financials.TotalCost for legacy readers.
	Budget    float64       `gorm:"not null;default:0" json:"budget"`
	CreatedBy snowflake.ID  `gorm:"not null" json:"created_by"`
	UpdatedBy snowflake.ID  `gorm:"not null" json:"updated_by"`
	CreatedAt time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	Plan      []Installment `gorm:"foreignKey:ProjectID" json:"installment_plan"`
}

// TableName sets the database table name.
func (Project) TableName() string { return "projects" }

// Installment is one entry of a project's installment plan.
type Installment struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	ProjectID snowflake.ID      `gorm:"not null;index" json:"project_id"`
	Amount    float64           `gorm:"not null" json:"amount"`
	DueDate   time.Time         `gorm:"not null;index" json:"due_date"`
	Status    InstallmentStatus `gorm:"type:text;not null;default:'pending'" json:"status"`
	PaidDate  *time.Time        `json:"paid_date"`
	Notes     string            `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy snowflake.ID      `gorm:"not null" json:"created_by"`
	UpdatedBy snowflake.ID      `gorm:"not null" json:"updated_by"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Installment) TableName() string { return "installments" }

// CostRevision is one append-only audit entry for a total-cost change.
// Revisions are never mutated or deleted.
type CostRevision struct {
	ID            snowflake.ID      `gorm:"primaryKey" json:"id"`
	ProjectID     snowflake.ID     `gorm:"not null;index" json:"project_id"`
	PreviousCost  float64           `gorm:"not null" json:"previous_cost"`
	NewCost       float64           `gorm:"not null" json:"new_cost"`
	Reason        string            `gorm:"type:text;not null" json:"reason"`
	ChangedBy     snowflake.ID      `gorm:"not null" json:"changed_by"`
	ChangedByRole ActorRole         `gorm:"type:text;not null" json:"changed_by_role"`
	ChangedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"changed_at"`
	Metadata      datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
}

// TableName sets the database table name.
func (CostRevision) TableName() string { return "cost_revisions" }

// PaidInstallmentTotal sums the amounts of installments marked paid.
func (p *Project) PaidInstallmentTotal() float64 {
	var total float64
	for i := range p.Plan {
		if p.Plan[i].Status == InstallmentStatusPaid {
			total += p.Plan[i].Amount
		}
	}
	return total
}

// InstallmentTotal sums all scheduled installment amounts.
func (p *Project) InstallmentTotal() float64 {
	var total float64
	for i := range p.Plan {
		total += p.Plan[i].Amount
	}
	return total
}

// FindInstallment returns the index of the installment with the given ID, or -1.
func (p *Project) FindInstallment(id snowflake.ID) int {
	for i := range p.Plan {
		if p.Plan[i].ID == id {
			return i
		}
	}
	return -1
}
