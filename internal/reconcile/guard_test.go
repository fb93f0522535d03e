package reconcile

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
)

func TestCompletionGuardBlocksReentrantProject(t *testing.T) {
	ctx := context.Background()

	inner, entered := enterCompletionGuard(ctx, snowflake.ID(1))
	assert.True(t, entered)

	_, reentered := enterCompletionGuard(inner, snowflake.ID(1))
	assert.False(t, reentered)

	// A different project on the same stack is not blocked.
	_, other := enterCompletionGuard(inner, snowflake.ID(2))
	assert.True(t, other)
}

func TestCompletionGuardUnwindsWithContext(t *testing.T) {
	ctx := context.Background()

	inner, entered := enterCompletionGuard(ctx, snowflake.ID(7))
	assert.True(t, entered)
	_ = inner

	// The original context never saw the guard entry.
	_, again := enterCompletionGuard(ctx, snowflake.ID(7))
	assert.True(t, again)
}
