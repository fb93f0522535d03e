package reconcile

import (
	"testing"
	"time"

	projectdomain "github.com/craftline/projectledger/internal/project/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshStatusesDerivesOverdueAndPending(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	plan := []projectdomain.Installment{
		{Status: projectdomain.InstallmentStatusPending, DueDate: now.AddDate(0, 0, -3)},
		{Status: projectdomain.InstallmentStatusPending, DueDate: now.AddDate(0, 0, 3)},
		// Clock or data correction moved this due date back into the future.
		{Status: projectdomain.InstallmentStatusOverdue, DueDate: now.AddDate(0, 0, 10)},
	}

	changed := RefreshStatuses(plan, now, now)
	assert.True(t, changed)
	assert.Equal(t, projectdomain.InstallmentStatusOverdue, plan[0].Status)
	assert.Equal(t, projectdomain.InstallmentStatusPending, plan[1].Status)
	assert.Equal(t, projectdomain.InstallmentStatusPending, plan[2].Status)
}

func TestRefreshStatusesIdempotent(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	paidAt := now.AddDate(0, 0, -30)
	plan := []projectdomain.Installment{
		{Status: projectdomain.InstallmentStatusPending, DueDate: now.AddDate(0, 0, -3)},
		{Status: projectdomain.InstallmentStatusPaid, DueDate: now.AddDate(0, 0, -40), PaidDate: &paidAt},
		{Status: projectdomain.InstallmentStatusPaid, DueDate: now.AddDate(0, 0, -20)},
	}

	assert.True(t, RefreshStatuses(plan, now, now))
	assert.False(t, RefreshStatuses(plan, now, now))
}

func TestRefreshStatusesBackfillsMissingPaidDate(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	paidAt := now.AddDate(0, 0, -30)
	plan := []projectdomain.Installment{
		{Status: projectdomain.InstallmentStatusPaid, DueDate: now.AddDate(0, 0, -40), PaidDate: &paidAt},
		{Status: projectdomain.InstallmentStatusPaid, DueDate: now.AddDate(0, 0, -20)},
	}

	changed := RefreshStatuses(plan, now, now)
	assert.True(t, changed)

	// Paid installments always carry a paid date afterwards; existing dates
	// are preserved.
	for i := range plan {
		require.NotNil(t, plan[i].PaidDate)
	}
	assert.Equal(t, paidAt, *plan[0].PaidDate)
	assert.Equal(t, now, *plan[1].PaidDate)
}

func TestRefreshStatusesPaidNeverBecomesOverdue(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	paidAt := now.AddDate(0, 0, -1)
	plan := []projectdomain.Installment{
		{Status: projectdomain.InstallmentStatusPaid, DueDate: now.AddDate(0, 0, -10), PaidDate: &paidAt},
	}

	assert.False(t, RefreshStatuses(plan, now, now))
	assert.Equal(t, projectdomain.InstallmentStatusPaid, plan[0].Status)
}

func TestRefreshStatusesGraceCutoff(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	cutoff := now.AddDate(0, 0, -5)
	plan := []projectdomain.Installment{
		// Past due, but inside the grace window.
		{Status: projectdomain.InstallmentStatusPending, DueDate: now.AddDate(0, 0, -2)},
		{Status: projectdomain.InstallmentStatusPending, DueDate: now.AddDate(0, 0, -7)},
	}

	assert.True(t, RefreshStatuses(plan, now, cutoff))
	assert.Equal(t, projectdomain.InstallmentStatusPending, plan[0].Status)
	assert.Equal(t, projectdomain.InstallmentStatusOverdue, plan[1].Status)
}
