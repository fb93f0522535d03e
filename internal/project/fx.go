package project

import (
	"github.com/craftline/projectledger/internal/project/repository"
	"github.com/craftline/projectledger/internal/project/service"
	"go.uber.org/fx"
)

var Module = fx.Module("project.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
