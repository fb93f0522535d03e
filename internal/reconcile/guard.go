package reconcile

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type completionGuardKey struct{}

// enterCompletionGuard marks the project as inside the completion trigger on
// this call stack. It reports false when the trigger is already processing
// the same project, which breaks the save→trigger→save recursion. The guard
// is carried by the context, so it unwinds automatically on every exit path
// and cannot leak across unrelated requests.
func enterCompletionGuard(ctx context.Context, projectID snowflake.ID) (context.Context, bool) {
	active, _ := ctx.Value(completionGuardKey{}).(map[snowflake.ID]struct{})
	if _, busy := active[projectID]; busy {
		return ctx, false
	}

	next := make(map[snowflake.ID]struct{}, len(active)+1)
	for id := range active {
		next[id] = struct{}{}
	}
	next[projectID] = struct{}{}
	return context.WithValue(ctx, completionGuardKey{}, next), true
}
