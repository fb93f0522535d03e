// Package domain contains persistence models for payment receipts.
package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// ReceiptStatus represents the sales approval state of a receipt. Only
// approved receipts count toward a project's received total.
type ReceiptStatus string

const (
	ReceiptStatusPending  ReceiptStatus = "pending"
	ReceiptStatusApproved ReceiptStatus = "approved"
	ReceiptStatusRejected ReceiptStatus = "rejected"
)

// Receipt records a client payment awaiting (or past) sales approval.
type Receipt struct {
	ID            snowflake.ID  `gorm:"primaryKey" json:"id"`
	ReceiptNumber string        `gorm:"type:text;not null;uniqueIndex" json:"receipt_number"`
	ProjectID     snowflake.ID  `gorm:"not null;index" json:"project_id"`
	ClientID      snowflake.ID  `gorm:"not null;index" json:"client_id"`
	Amount        float64       `gorm:"not null" json:"amount"`
	Status        ReceiptStatus `gorm:"type:text;not null;default:'pending'" json:"status"`
	Notes         string        `gorm:"type:text" json:"notes,omitempty"`
	RecordedBy    snowflake.ID  `gorm:"not null" json:"recorded_by"`
	ApprovedBy    *snowflake.ID `json:"approved_by,omitempty"`
	ApprovedAt    *time.Time    `json:"approved_at,omitempty"`
	CreatedAt     time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Receipt) TableName() string { return "receipts" }

var (
	ErrReceiptNotFound     = errors.New("receipt not found")
	ErrReceiptNotPending   = errors.New("receipt is not pending approval")
	ErrInvalidReceiptState = errors.New("invalid receipt state")
)
