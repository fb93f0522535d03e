package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Service exposes the incentive balance operations the reconciliation
// trigger depends on.
type Service interface {
	// FindPendingConversion returns conversion-based incentives linked to
	// the project that still hold a positive pending balance.
	FindPendingConversion(ctx context.Context, projectID snowflake.ID) ([]Incentive, error)
	// MovePendingToCurrent transfers amount from the pending balance into
	// the current balance atomically.
	MovePendingToCurrent(ctx context.Context, incentiveID snowflake.ID, amount float64) error
	// Grant records a new incentive (used by project conversion flows and
	// tests).
	Grant(ctx context.Context, incentive *Incentive) error
}
