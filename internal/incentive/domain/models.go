// Package domain contains persistence models for conversion incentives.
package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Incentive is a sales incentive earned on a project conversion. The pending
// balance is held until the project's client balance reaches zero, then moved
// into the current (withdrawable) balance.
type Incentive struct {
	ID              snowflake.ID      `gorm:"primaryKey" json:"id"`
	OwnerID         snowflake.ID      `gorm:"not null;index" json:"owner_id"`
	ProjectID       snowflake.ID      `gorm:"not null;index" json:"project_id"`
	ConversionBased bool              `gorm:"not null;default:false" json:"conversion_based"`
	PendingBalance  float64           `gorm:"not null;default:0" json:"pending_balance"`
	CurrentBalance  float64           `gorm:"column:current_balance;not null;default:0" json:"current_balance"`
	Metadata        datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt       time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Incentive) TableName() string { return "incentives" }

var (
	ErrIncentiveNotFound   = errors.New("incentive not found")
	ErrInsufficientPending = errors.New("insufficient pending balance")
)
