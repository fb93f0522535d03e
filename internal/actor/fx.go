package actor

import (
	"github.com/craftline/projectledger/internal/actor/service"
	"go.uber.org/fx"
)

var Module = fx.Module("actor.resolver",
	fx.Provide(service.NewResolver),
)
