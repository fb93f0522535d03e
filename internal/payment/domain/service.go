package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Service is the payment-record surface the wallet projection consumes.
type Service interface {
	Record(ctx context.Context, record *PaymentRecord) error
	// SumCompletedByClient totals completed payments for a client across
	// all projects.
	SumCompletedByClient(ctx context.Context, clientID snowflake.ID) (float64, error)
}
