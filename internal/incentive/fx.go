package incentive

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/craftline/projectledger/internal/incentive/domain"
	"github.com/craftline/projectledger/internal/incentive/service"
	"github.com/craftline/projectledger/internal/reconcile"
	"go.uber.org/fx"
)

// releaser adapts the incentive service to the reconciliation engine's
// consumer-side interface.
type releaser struct {
	svc domain.Service
}

func (r releaser) FindPendingConversion(ctx context.Context, projectID snowflake.ID) ([]reconcile.PendingIncentive, error) {
	incentives, err := r.svc.FindPendingConversion(ctx, projectID)
	if err != nil {
		return nil, err
	}
	pending := make([]reconcile.PendingIncentive, 0, len(incentives))
	for _, inc := range incentives {
		pending = append(pending, reconcile.PendingIncentive{
			ID:             inc.ID,
			PendingBalance: inc.PendingBalance,
		})
	}
	return pending, nil
}

func (r releaser) MovePendingToCurrent(ctx context.Context, incentiveID snowflake.ID, amount float64) error {
	return r.svc.MovePendingToCurrent(ctx, incentiveID, amount)
}

func newReleaser(svc domain.Service) reconcile.IncentiveReleaser {
	return releaser{svc: svc}
}

var Module = fx.Module("incentive.service",
	fx.Provide(service.NewService),
	fx.Provide(newReleaser),
)
