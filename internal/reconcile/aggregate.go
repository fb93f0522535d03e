package reconcile

import (
	"math"

	projectdomain "github.com/craftline/projectledger/internal/project/domain"
)

// Aggregate merges the three independently-writable payment sources into a
// single "total received" without double-counting.
//
// The stored advance is treated as authoritative once it already dominates
// the freshly computed sources (it absorbed them in a prior pass), and
// additive only when it still represents a seed advance not yet reflected in
// receipts or installments. This merge is best-effort, not a strict ledger
// reconciliation: when a receipt and a paid installment record the same
// real-world payment and the stored advance has absorbed neither, the result
// can over-count. See DESIGN.md.
func Aggregate(totalCost, storedAdvance, approvedReceipts, paidInstallments float64) projectdomain.RecalculateResult {
	receiptsPlusInstallments := approvedReceipts + paidInstallments

	var totalReceived float64
	switch {
	case storedAdvance >= receiptsPlusInstallments:
		totalReceived = storedAdvance
	case storedAdvance > 0:
		totalReceived = storedAdvance + receiptsPlusInstallments
	default:
		totalReceived = receiptsPlusInstallments
	}
	if !isFinite(totalReceived) {
		totalReceived = 0
	}

	remaining := totalCost - totalReceived
	if !isFinite(remaining) || remaining < 0 {
		remaining = 0
	}

	return projectdomain.RecalculateResult{
		TotalReceived:   totalReceived,
		RemainingAmount: remaining,
	}
}

// Round rounds a money value to the given number of decimals. Used at
// presentation boundaries and in error messages, never in ledger math.
func Round(value float64, scale int) float64 {
	if !isFinite(value) {
		return 0
	}
	factor := math.Pow(10, float64(scale))
	return math.Round(value*factor) / factor
}

// Round2 rounds to two decimals, the documented presentation scale.
func Round2(value float64) float64 { return Round(value, 2) }

func isFinite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}
