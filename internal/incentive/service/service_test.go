package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/craftline/projectledger/internal/clock"
	"github.com/craftline/projectledger/internal/incentive/domain"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Incentive{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := NewService(Params{
		DB:    db,
		Log:   zaptest.NewLogger(t),
		Clock: clock.NewFakeClock(time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)),
		GenID: node,
	})
	return svc, db, node
}

func TestMovePendingToCurrentTransfersBalance(t *testing.T) {
	svc, db, node := newTestService(t)
	projectID := node.Generate()

	incentive := &domain.Incentive{
		OwnerID:         node.Generate(),
		ProjectID:       projectID,
		ConversionBased: true,
		PendingBalance:  3000,
	}
	require.NoError(t, svc.Grant(context.Background(), incentive))

	require.NoError(t, svc.MovePendingToCurrent(context.Background(), incentive.ID, 3000))

	var row domain.Incentive
	require.NoError(t, db.Where("id = ?", incentive.ID).First(&row).Error)
	assert.Equal(t, 0.0, row.PendingBalance)
	assert.Equal(t, 3000.0, row.CurrentBalance)
}

func TestMovePendingToCurrentInsufficientBalance(t *testing.T) {
	svc, _, node := newTestService(t)

	incentive := &domain.Incentive{
		OwnerID:         node.Generate(),
		ProjectID:       node.Generate(),
		ConversionBased: true,
		PendingBalance:  1000,
	}
	require.NoError(t, svc.Grant(context.Background(), incentive))

	err := svc.MovePendingToCurrent(context.Background(), incentive.ID, 2500)
	assert.ErrorIs(t, err, domain.ErrInsufficientPending)
}

func TestMovePendingToCurrentUnknownIncentive(t *testing.T) {
	svc, _, node := newTestService(t)

	err := svc.MovePendingToCurrent(context.Background(), node.Generate(), 100)
	assert.ErrorIs(t, err, domain.ErrIncentiveNotFound)
}

func TestFindPendingConversionFiltersReleasedAndNonConversion(t *testing.T) {
	svc, _, node := newTestService(t)
	projectID := node.Generate()

	pending := &domain.Incentive{OwnerID: node.Generate(), ProjectID: projectID, ConversionBased: true, PendingBalance: 500}
	released := &domain.Incentive{OwnerID: node.Generate(), ProjectID: projectID, ConversionBased: true, PendingBalance: 0, CurrentBalance: 800}
	manual := &domain.Incentive{OwnerID: node.Generate(), ProjectID: projectID, ConversionBased: false, PendingBalance: 900}
	for _, inc := range []*domain.Incentive{pending, released, manual} {
		require.NoError(t, svc.Grant(context.Background(), inc))
	}

	found, err := svc.FindPendingConversion(context.Background(), projectID)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, pending.ID, found[0].ID)
}
