package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	actordomain "github.com/craftline/projectledger/internal/actor/domain"
	actorservice "github.com/craftline/projectledger/internal/actor/service"
	"github.com/craftline/projectledger/internal/clock"
	projectdomain "github.com/craftline/projectledger/internal/project/domain"
	"github.com/craftline/projectledger/internal/receipt/domain"
	"github.com/craftline/projectledger/internal/receipt/repository"
	"github.com/craftline/projectledger/pkg/db/pagination"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type mockProjectSvc struct {
	mock.Mock
}

func (m *mockProjectSvc) Create(ctx context.Context, req projectdomain.CreateProjectRequest) (*projectdomain.Project, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(*projectdomain.Project), args.Error(1)
}

func (m *mockProjectSvc) Get(ctx context.Context, id snowflake.ID) (*projectdomain.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*projectdomain.Project), args.Error(1)
}

func (m *mockProjectSvc) AddInstallments(ctx context.Context, projectID snowflake.ID, entries []projectdomain.NewInstallment) (*projectdomain.Project, error) {
	args := m.Called(ctx, projectID, entries)
	return args.Get(0).(*projectdomain.Project), args.Error(1)
}

func (m *mockProjectSvc) UpdateInstallment(ctx context.Context, projectID, installmentID snowflake.ID, req projectdomain.UpdateInstallmentRequest) (*projectdomain.Project, error) {
	args := m.Called(ctx, projectID, installmentID, req)
	return args.Get(0).(*projectdomain.Project), args.Error(1)
}

func (m *mockProjectSvc) DeleteInstallment(ctx context.Context, projectID, installmentID snowflake.ID) (*projectdomain.Project, error) {
	args := m.Called(ctx, projectID, installmentID)
	return args.Get(0).(*projectdomain.Project), args.Error(1)
}

func (m *mockProjectSvc) ReviseCost(ctx context.Context, projectID snowflake.ID, req projectdomain.ReviseCostRequest) (*projectdomain.Project, error) {
	args := m.Called(ctx, projectID, req)
	return args.Get(0).(*projectdomain.Project), args.Error(1)
}

func (m *mockProjectSvc) ListCostRevisions(ctx context.Context, projectID snowflake.ID, page pagination.Pagination) (projectdomain.CostHistoryResponse, error) {
	args := m.Called(ctx, projectID, page)
	return args.Get(0).(projectdomain.CostHistoryResponse), args.Error(1)
}

func (m *mockProjectSvc) Recalculate(ctx context.Context, projectID snowflake.ID) (projectdomain.RecalculateResult, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).(projectdomain.RecalculateResult), args.Error(1)
}

func newTestService(t *testing.T) (domain.Service, *mockProjectSvc, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Receipt{}, &actordomain.User{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	log := zaptest.NewLogger(t)
	clk := clock.NewFakeClock(time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC))

	require.NoError(t, db.Create(&actordomain.User{
		ID:        node.Generate(),
		Name:      "Admin",
		Email:     "admin@example.com",
		Role:      actordomain.RoleAdmin,
		Active:    true,
		CreatedAt: clk.Now(),
	}).Error)

	projects := &mockProjectSvc{}
	svc := NewService(Params{
		DB:       db,
		Log:      log,
		Clock:    clk,
		GenID:    node,
		Repo:     repository.Provide(),
		Actors:   actorservice.NewResolver(actorservice.Params{DB: db, Log: log}),
		Projects: projects,
	})
	return svc, projects, node
}

func TestRecordRejectsInvalidInput(t *testing.T) {
	svc, projects, node := newTestService(t)
	projectID := node.Generate()
	projects.On("Get", mock.Anything, projectID).Return(&projectdomain.Project{ID: projectID}, nil)

	_, err := svc.Record(context.Background(), domain.RecordReceiptRequest{
		ProjectID: "not-a-number",
		ClientID:  node.Generate().String(),
		Amount:    100,
	})
	assert.True(t, projectdomain.IsValidationError(err))

	_, err = svc.Record(context.Background(), domain.RecordReceiptRequest{
		ProjectID: projectID.String(),
		ClientID:  node.Generate().String(),
		Amount:    0,
	})
	assert.True(t, projectdomain.IsValidationError(err))
}

func TestRecordRequiresExistingProject(t *testing.T) {
	svc, projects, node := newTestService(t)
	projectID := node.Generate()
	projects.On("Get", mock.Anything, projectID).Return(nil, projectdomain.ErrProjectNotFound)

	_, err := svc.Record(context.Background(), domain.RecordReceiptRequest{
		ProjectID: projectID.String(),
		ClientID:  node.Generate().String(),
		Amount:    500,
	})
	assert.ErrorIs(t, err, projectdomain.ErrProjectNotFound)
}

func TestApproveTriggersReconciliation(t *testing.T) {
	svc, projects, node := newTestService(t)
	projectID := node.Generate()
	projects.On("Get", mock.Anything, projectID).Return(&projectdomain.Project{ID: projectID}, nil)
	projects.On("Recalculate", mock.Anything, projectID).Return(projectdomain.RecalculateResult{}, nil)

	receipt, err := svc.Record(context.Background(), domain.RecordReceiptRequest{
		ProjectID: projectID.String(),
		ClientID:  node.Generate().String(),
		Amount:    5000,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ReceiptStatusPending, receipt.Status)
	assert.NotEmpty(t, receipt.ReceiptNumber)

	approved, err := svc.Approve(context.Background(), receipt.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReceiptStatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedAt)

	projects.AssertCalled(t, "Recalculate", mock.Anything, projectID)

	total, err := svc.SumApproved(context.Background(), projectID)
	require.NoError(t, err)
	assert.Equal(t, 5000.0, total)
}

func TestApproveRejectsNonPendingReceipt(t *testing.T) {
	svc, projects, node := newTestService(t)
	projectID := node.Generate()
	projects.On("Get", mock.Anything, projectID).Return(&projectdomain.Project{ID: projectID}, nil)
	projects.On("Recalculate", mock.Anything, projectID).Return(projectdomain.RecalculateResult{}, nil)

	receipt, err := svc.Record(context.Background(), domain.RecordReceiptRequest{
		ProjectID: projectID.String(),
		ClientID:  node.Generate().String(),
		Amount:    5000,
	})
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), receipt.ID)
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), receipt.ID)
	assert.ErrorIs(t, err, domain.ErrReceiptNotPending)

	_, err = svc.Reject(context.Background(), receipt.ID)
	assert.ErrorIs(t, err, domain.ErrReceiptNotPending)
}

func TestSumApprovedIgnoresPendingAndRejected(t *testing.T) {
	svc, projects, node := newTestService(t)
	projectID := node.Generate()
	projects.On("Get", mock.Anything, projectID).Return(&projectdomain.Project{ID: projectID}, nil)
	projects.On("Recalculate", mock.Anything, projectID).Return(projectdomain.RecalculateResult{}, nil)

	first, err := svc.Record(context.Background(), domain.RecordReceiptRequest{
		ProjectID: projectID.String(), ClientID: node.Generate().String(), Amount: 5000,
	})
	require.NoError(t, err)
	second, err := svc.Record(context.Background(), domain.RecordReceiptRequest{
		ProjectID: projectID.String(), ClientID: node.Generate().String(), Amount: 2000,
	})
	require.NoError(t, err)
	_, err = svc.Record(context.Background(), domain.RecordReceiptRequest{
		ProjectID: projectID.String(), ClientID: node.Generate().String(), Amount: 900,
	})
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), first.ID)
	require.NoError(t, err)
	_, err = svc.Reject(context.Background(), second.ID)
	require.NoError(t, err)

	total, err := svc.SumApproved(context.Background(), projectID)
	require.NoError(t, err)
	assert.Equal(t, 5000.0, total)
}
