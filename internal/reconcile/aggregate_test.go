package reconcile

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregateStoredAdvanceDominates(t *testing.T) {
	// A prior pass already folded receipts and installments into the stored
	// total; re-adding them would double-count.
	result := Aggregate(20000, 20000, 15000, 5000)
	assert.Equal(t, 20000.0, result.TotalReceived)
	assert.Equal(t, 0.0, result.RemainingAmount)
}

func TestAggregateSeedAdvanceAddsExternalSources(t *testing.T) {
	result := Aggregate(20000, 5000, 15000, 0)
	assert.Equal(t, 20000.0, result.TotalReceived)
	assert.Equal(t, 0.0, result.RemainingAmount)
}

func TestAggregateNoAdvanceUsesExternalSourcesOnly(t *testing.T) {
	result := Aggregate(20000, 0, 15000, 5000)
	assert.Equal(t, 20000.0, result.TotalReceived)
	assert.Equal(t, 0.0, result.RemainingAmount)
}

func TestAggregatePartialPayment(t *testing.T) {
	result := Aggregate(18000, 0, 6000, 4000)
	assert.Equal(t, 10000.0, result.TotalReceived)
	assert.Equal(t, 8000.0, result.RemainingAmount)
}

func TestAggregateRemainingNeverNegative(t *testing.T) {
	result := Aggregate(10000, 0, 12000, 0)
	assert.Equal(t, 12000.0, result.TotalReceived)
	assert.Equal(t, 0.0, result.RemainingAmount)
}

func TestAggregateNonFiniteInputsCollapseToZero(t *testing.T) {
	result := Aggregate(10000, math.Inf(1), 0, 0)
	assert.Equal(t, 0.0, result.TotalReceived)
	assert.Equal(t, 10000.0, result.RemainingAmount)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 18500.0, Round2(18500.004))
	assert.Equal(t, 18500.01, Round2(18500.006))
	assert.Equal(t, 0.0, Round2(math.NaN()))
}
