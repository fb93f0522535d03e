package reconcile

import (
	"time"

	projectdomain "github.com/craftline/projectledger/internal/project/domain"
)

// RefreshStatuses derives each installment's effective status from the clock
// and due date. Non-paid installments past the cutoff become overdue; overdue
// installments whose due date moved back into the future revert to pending.
// Paid installments are untouched except to backfill a missing paid date,
// a repair for rows created before the paid-date invariant existed.
//
// Running it twice in a row produces no further changes on the second run.
func RefreshStatuses(plan []projectdomain.Installment, now, overdueCutoff time.Time) bool {
	changed := false
	for i := range plan {
		inst := &plan[i]
		switch {
		case inst.Status == projectdomain.InstallmentStatusPaid:
			if inst.PaidDate == nil {
				paidAt := now
				inst.PaidDate = &paidAt
				inst.UpdatedAt = now
				changed = true
			}
		case inst.DueDate.Before(overdueCutoff):
			if inst.Status != projectdomain.InstallmentStatusOverdue {
				inst.Status = projectdomain.InstallmentStatusOverdue
				inst.UpdatedAt = now
				changed = true
			}
		default:
			if inst.Status != projectdomain.InstallmentStatusPending {
				inst.Status = projectdomain.InstallmentStatusPending
				inst.UpdatedAt = now
				changed = true
			}
		}
	}
	return changed
}
