package locking

import "go.uber.org/fx"

// Module provides the per-project mutation lock.
var Module = fx.Module("locking",
	fx.Provide(NewProjectLocker),
)
