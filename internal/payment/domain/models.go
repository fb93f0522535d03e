// Package domain contains persistence models for standalone payment records.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// PaymentStatus is the settlement state of a standalone payment record.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// PaymentRecord is a payment tracked outside receipts and installments. It
// is never folded into a project's cached financials; only the wallet
// projection reads it.
type PaymentRecord struct {
	ID        snowflake.ID  `gorm:"primaryKey" json:"id"`
	ClientID  snowflake.ID  `gorm:"not null;index" json:"client_id"`
	ProjectID *snowflake.ID `gorm:"index" json:"project_id,omitempty"`
	Amount    float64       `gorm:"not null" json:"amount"`
	Status    PaymentStatus `gorm:"type:text;not null;default:'pending'" json:"status"`
	Reference string        `gorm:"type:text" json:"reference,omitempty"`
	CreatedAt time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (PaymentRecord) TableName() string { return "payment_records" }
