package reference

import (
	"github.com/wananchi-labs/uwazi/internal/reference/repository"
	"github.com/wananchi-labs/uwazi/internal/reference/service"
	"go.uber.org/fx"
)

var Module = fx.Module("reference.service",
	fx.Provide(repository.ProvidePositions),
	fx.Provide(repository.ProvideDistricts),
	fx.Provide(service.New),
)
