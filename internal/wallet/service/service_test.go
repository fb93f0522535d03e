package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/craftline/projectledger/internal/clock"
	"github.com/craftline/projectledger/internal/config"
	paymentdomain "github.com/craftline/projectledger/internal/payment/domain"
	projectdomain "github.com/craftline/projectledger/internal/project/domain"
	projectrepo "github.com/craftline/projectledger/internal/project/repository"
	receiptdomain "github.com/craftline/projectledger/internal/receipt/domain"
	"github.com/craftline/projectledger/internal/reconcile"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type stubReceipts struct {
	approved map[snowflake.ID]float64
}

func (s stubReceipts) Record(ctx context.Context, req receiptdomain.RecordReceiptRequest) (*receiptdomain.Receipt, error) {
	panic("not used")
}
func (s stubReceipts) Approve(ctx context.Context, id snowflake.ID) (*receiptdomain.Receipt, error) {
	panic("not used")
}
func (s stubReceipts) Reject(ctx context.Context, id snowflake.ID) (*receiptdomain.Receipt, error) {
	panic("not used")
}
func (s stubReceipts) ListByProject(ctx context.Context, projectID snowflake.ID) ([]receiptdomain.Receipt, error) {
	return nil, nil
}
func (s stubReceipts) SumApproved(ctx context.Context, projectID snowflake.ID) (float64, error) {
	return s.approved[projectID], nil
}

type stubPayments struct {
	completed float64
}

func (s stubPayments) Record(ctx context.Context, record *paymentdomain.PaymentRecord) error {
	panic("not used")
}
func (s stubPayments) SumCompletedByClient(ctx context.Context, clientID snowflake.ID) (float64, error) {
	return s.completed, nil
}

type stubReleaser struct{}

func (stubReleaser) FindPendingConversion(ctx context.Context, projectID snowflake.ID) ([]reconcile.PendingIncentive, error) {
	return nil, nil
}
func (stubReleaser) MovePendingToCurrent(ctx context.Context, incentiveID snowflake.ID, amount float64) error {
	return nil
}

func TestSummaryExplainsAggregatedTotals(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&projectdomain.Project{}, &projectdomain.Installment{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	log := zaptest.NewLogger(t)
	clk := clock.NewFakeClock(time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC))
	now := clk.Now()

	clientID := node.Generate()
	actorID := node.Generate()

	settled := projectdomain.Project{
		ID:       node.Generate(),
		ClientID: clientID,
		Name:     "Settled",
		Status:   projectdomain.ProjectStatusCompleted,
		Financials: projectdomain.FinancialDetails{
			TotalCost:       20000,
			AdvanceReceived: 20000,
			RemainingAmount: 0,
		},
		Budget:    20000,
		CreatedBy: actorID,
		UpdatedBy: actorID,
		CreatedAt: now.AddDate(0, -2, 0),
		UpdatedAt: now,
	}
	paidAt := now.AddDate(0, -1, 0)
	settledPlan := projectdomain.Installment{
		ID:        node.Generate(),
		ProjectID: settled.ID,
		Amount:    5000,
		DueDate:   now.AddDate(0, -1, 0),
		Status:    projectdomain.InstallmentStatusPaid,
		PaidDate:  &paidAt,
		CreatedBy: actorID,
		UpdatedBy: actorID,
		CreatedAt: now.AddDate(0, -2, 0),
		UpdatedAt: now,
	}

	active := projectdomain.Project{
		ID:       node.Generate(),
		ClientID: clientID,
		Name:     "Active",
		Status:   projectdomain.ProjectStatusActive,
		Financials: projectdomain.FinancialDetails{
			TotalCost:       18000,
			AdvanceReceived: 6000,
			RemainingAmount: 12000,
		},
		Budget:    18000,
		CreatedBy: actorID,
		UpdatedBy: actorID,
		CreatedAt: now.AddDate(0, -1, 0),
		UpdatedAt: now,
	}
	activePlan := projectdomain.Installment{
		ID:        node.Generate(),
		ProjectID: active.ID,
		Amount:    6000,
		DueDate:   now.AddDate(0, 0, -10),
		Status:    projectdomain.InstallmentStatusPaid,
		PaidDate:  &paidAt,
		CreatedBy: actorID,
		UpdatedBy: actorID,
		CreatedAt: now.AddDate(0, -1, 0),
		UpdatedAt: now,
	}

	require.NoError(t, db.Create(&settled).Error)
	require.NoError(t, db.Create(&settledPlan).Error)
	require.NoError(t, db.Create(&active).Error)
	require.NoError(t, db.Create(&activePlan).Error)

	engine := reconcile.New(reconcile.Params{
		Log:        log,
		Clock:      clk,
		Repo:       projectrepo.Provide(),
		Receipts:   stubReceipts{},
		Incentives: stubReleaser{},
		Cfg:        &config.ReconcileConfigHolder{},
	})

	svc := NewService(Params{
		DB:     db,
		Log:    log,
		Engine: engine,
		Receipts: stubReceipts{approved: map[snowflake.ID]float64{
			settled.ID: 15000,
			active.ID:  0,
		}},
		Payments: stubPayments{completed: 2500},
	})

	resp, err := svc.Summary(context.Background(), clientID)
	require.NoError(t, err)
	require.Len(t, resp.Projects, 2)

	first := resp.Projects[0]
	assert.Equal(t, settled.ID, first.ProjectID)
	assert.Equal(t, 20000.0, first.TotalReceived)
	assert.Equal(t, 15000.0, first.ApprovedReceipts)
	assert.Equal(t, 5000.0, first.PaidInstallments)
	// Received total with the paid installments backed out.
	assert.Equal(t, 15000.0, first.AdvanceExclInstallments)
	require.Len(t, first.Installments, 1)
	assert.Equal(t, projectdomain.InstallmentStatusPaid, first.Installments[0].Status)

	second := resp.Projects[1]
	assert.Equal(t, active.ID, second.ProjectID)
	assert.Equal(t, 0.0, second.AdvanceExclInstallments)

	summary := resp.Summary
	assert.Equal(t, 38000.0, summary.TotalCost)
	assert.Equal(t, 26000.0, summary.TotalReceived)
	assert.Equal(t, 12000.0, summary.TotalRemaining)
	assert.Equal(t, 2500.0, summary.StandalonePaid)
	assert.Equal(t, 28500.0, summary.TotalPaid)
	assert.Equal(t, 2, summary.ProjectCount)
	assert.Equal(t, 1, summary.CompletedCount)
}

func TestSummaryNeverMutatesState(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&projectdomain.Project{}, &projectdomain.Installment{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	log := zaptest.NewLogger(t)
	clk := clock.NewFakeClock(time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC))
	now := clk.Now()

	clientID := node.Generate()
	project := projectdomain.Project{
		ID:       node.Generate(),
		ClientID: clientID,
		Name:     "Stale",
		Status:   projectdomain.ProjectStatusActive,
		Financials: projectdomain.FinancialDetails{
			TotalCost:       10000,
			RemainingAmount: 10000,
		},
		CreatedBy: node.Generate(),
		UpdatedBy: node.Generate(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	// Past due but still recorded as pending.
	inst := projectdomain.Installment{
		ID:        node.Generate(),
		ProjectID: project.ID,
		Amount:    4000,
		DueDate:   now.AddDate(0, 0, -5),
		Status:    projectdomain.InstallmentStatusPending,
		CreatedBy: project.CreatedBy,
		UpdatedBy: project.UpdatedBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, db.Create(&project).Error)
	require.NoError(t, db.Create(&inst).Error)

	engine := reconcile.New(reconcile.Params{
		Log:        log,
		Clock:      clk,
		Repo:       projectrepo.Provide(),
		Receipts:   stubReceipts{},
		Incentives: stubReleaser{},
		Cfg:        &config.ReconcileConfigHolder{},
	})
	svc := NewService(Params{
		DB:       db,
		Log:      log,
		Engine:   engine,
		Receipts: stubReceipts{},
		Payments: stubPayments{},
	})

	resp, err := svc.Summary(context.Background(), clientID)
	require.NoError(t, err)
	require.Len(t, resp.Projects, 1)

	// The view shows the derived status while the stored row stays as-is.
	assert.Equal(t, projectdomain.InstallmentStatusOverdue, resp.Projects[0].Installments[0].Status)

	var row projectdomain.Installment
	require.NoError(t, db.Where("id = ?", inst.ID).First(&row).Error)
	assert.Equal(t, projectdomain.InstallmentStatusPending, row.Status)
}
