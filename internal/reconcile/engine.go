// Package reconcile maintains a consistent view of how much a client owes,
// has paid, and still owes for a project, across the seed advance, approved
// receipts and the installment plan.
package reconcile

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/craftline/projectledger/internal/clock"
	"github.com/craftline/projectledger/internal/config"
	obsmetrics "github.com/craftline/projectledger/internal/observability/metrics"
	projectdomain "github.com/craftline/projectledger/internal/project/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReceiptSource reports the approved-receipt total for a project.
type ReceiptSource interface {
	SumApproved(ctx context.Context, projectID snowflake.ID) (float64, error)
}

// PendingIncentive is a conversion incentive with a releasable balance.
type PendingIncentive struct {
	ID             snowflake.ID
	PendingBalance float64
}

// IncentiveReleaser moves held incentive balances once a project settles.
type IncentiveReleaser interface {
	FindPendingConversion(ctx context.Context, projectID snowflake.ID) ([]PendingIncentive, error)
	MovePendingToCurrent(ctx context.Context, incentiveID snowflake.ID, amount float64) error
}

type Params struct {
	fx.In

	Log        *zap.Logger
	Clock      clock.Clock
	Repo       projectdomain.Repository
	Receipts   ReceiptSource
	Incentives IncentiveReleaser
	Cfg        *config.ReconcileConfigHolder
	Metrics    *obsmetrics.ReconcileMetrics `optional:"true"`
}

// Engine runs the reconciliation pipeline:
// refresh → aggregate → persist → evaluate completion → release incentives.
// Every step is invoked explicitly by the orchestrating service; persistence
// never fires it implicitly.
type Engine struct {
	log        *zap.Logger
	clock      clock.Clock
	repo       projectdomain.Repository
	receipts   ReceiptSource
	incentives IncentiveReleaser
	cfg        *config.ReconcileConfigHolder
	metrics    *obsmetrics.ReconcileMetrics
}

func New(p Params) *Engine {
	return &Engine{
		log:        p.Log.Named("reconcile.engine"),
		clock:      p.Clock,
		repo:       p.Repo,
		receipts:   p.Receipts,
		incentives: p.Incentives,
		cfg:        p.Cfg,
		metrics:    p.Metrics,
	}
}

// Refresh re-derives installment statuses against the current clock.
func (e *Engine) Refresh(project *projectdomain.Project) bool {
	now := e.clock.Now()
	cutoff := now
	if grace := e.cfg.Get().OverdueGraceDays; grace > 0 {
		cutoff = now.AddDate(0, 0, -grace)
	}
	return RefreshStatuses(project.Plan, now, cutoff)
}

// Aggregate recomputes the cached financial totals on the project. When the
// caller already summed the paid installments it passes the total to avoid a
// redundant second pass; otherwise pass nil.
func (e *Engine) Aggregate(ctx context.Context, project *projectdomain.Project, paidInstallments *float64) (projectdomain.RecalculateResult, error) {
	approved, err := e.receipts.SumApproved(ctx, project.ID)
	if err != nil {
		return projectdomain.RecalculateResult{}, &projectdomain.DependencyFailure{Dependency: "receipts", Err: err}
	}

	paid := project.PaidInstallmentTotal()
	if paidInstallments != nil {
		paid = *paidInstallments
	}

	result := Aggregate(project.Financials.TotalCost, project.Financials.AdvanceReceived, approved, paid)
	project.Financials.AdvanceReceived = result.TotalReceived
	project.Financials.RemainingAmount = result.RemainingAmount
	return result, nil
}

// Run executes the full pipeline against an already-loaded project and
// persists it. Source labels the trigger origin for metrics.
func (e *Engine) Run(ctx context.Context, db *gorm.DB, project *projectdomain.Project, source string) (projectdomain.RecalculateResult, error) {
	return e.RunWith(ctx, db, project, source, nil)
}

// RunWith is Run with a persist hook that commits in the same transaction as
// the project save. Callers that write companion rows (an audit entry, a plan
// row removal) use it so a failing pipeline leaves neither the row nor the
// project behind. The receipts lookup runs before the transaction opens, so a
// dependency failure writes nothing at all.
func (e *Engine) RunWith(ctx context.Context, db *gorm.DB, project *projectdomain.Project, source string, persist func(tx *gorm.DB) error) (projectdomain.RecalculateResult, error) {
	e.metrics.RecordRun(source)

	e.Refresh(project)

	result, err := e.Aggregate(ctx, project, nil)
	if err != nil {
		return projectdomain.RecalculateResult{}, err
	}

	project.UpdatedAt = e.clock.Now()
	err = db.Transaction(func(tx *gorm.DB) error {
		if persist != nil {
			if err := persist(tx); err != nil {
				return err
			}
		}
		return e.repo.Save(ctx, tx, project)
	})
	if err != nil {
		return projectdomain.RecalculateResult{}, err
	}

	if err := e.EvaluateCompletion(ctx, db, project); err != nil {
		return projectdomain.RecalculateResult{}, err
	}

	return result, nil
}

// EvaluateCompletion reacts to a zero remaining balance: it transitions the
// project to completed through a guarded write, then releases every linked
// pending conversion incentive. Individual incentive failures are logged and
// skipped; the completed status is never rolled back because the project's
// own billing state is independently correct.
//
// Re-running on an already-completed, already-released project is a no-op:
// the pending-balance filter returns nothing once balances reach zero.
func (e *Engine) EvaluateCompletion(ctx context.Context, db *gorm.DB, project *projectdomain.Project) error {
	ctx, entered := enterCompletionGuard(ctx, project.ID)
	if !entered {
		e.log.Debug("completion trigger re-entered, skipping",
			zap.Int64("project_id", project.ID.Int64()))
		return nil
	}

	if project.Financials.RemainingAmount != 0 {
		return nil
	}

	if project.Status != projectdomain.ProjectStatusCompleted {
		changed, err := e.repo.MarkCompleted(ctx, db, project.ID)
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}
		project.Status = projectdomain.ProjectStatusCompleted
		e.metrics.RecordCompletion()
		e.log.Info("project auto-completed on zero balance",
			zap.Int64("project_id", project.ID.Int64()))
	}

	if project.Status != projectdomain.ProjectStatusCompleted {
		return nil
	}

	e.releaseIncentives(ctx, project.ID)
	return nil
}

func (e *Engine) releaseIncentives(ctx context.Context, projectID snowflake.ID) {
	pending, err := e.incentives.FindPendingConversion(ctx, projectID)
	if err != nil {
		// A failing incentive lookup must not roll back the completion.
		e.log.Warn("incentive lookup failed, release skipped",
			zap.Int64("project_id", projectID.Int64()),
			zap.Error(err))
		e.metrics.RecordIncentiveError()
		return
	}

	for _, inc := range pending {
		if inc.PendingBalance <= 0 {
			continue
		}
		if err := e.incentives.MovePendingToCurrent(ctx, inc.ID, inc.PendingBalance); err != nil {
			e.log.Warn("incentive release failed, continuing with remainder",
				zap.Int64("project_id", projectID.Int64()),
				zap.Int64("incentive_id", inc.ID.Int64()),
				zap.Error(err))
			e.metrics.RecordIncentiveError()
			continue
		}
		e.metrics.RecordIncentiveRelease()
		e.log.Info("incentive balance released",
			zap.Int64("project_id", projectID.Int64()),
			zap.Int64("incentive_id", inc.ID.Int64()),
			zap.Float64("amount", Round2(inc.PendingBalance)))
	}
}

// Module provides the reconciliation engine.
var Module = fx.Module("reconcile.engine",
	fx.Provide(New),
)
