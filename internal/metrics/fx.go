package metrics

import (
	"github.com/smallbiznis/procura/internal/metrics/repository"
	"github.com/smallbiznis/procura/internal/metrics/service"
	"go.uber.org/fx"
)

var Module = fx.Module("metrics.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
