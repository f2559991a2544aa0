package routing

import (
	"github.com/smallbiznis/procura/internal/routing/repository"
	"github.com/smallbiznis/procura/internal/routing/service"
	"go.uber.org/fx"
)

var Module = fx.Module("routing.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
