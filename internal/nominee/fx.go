package nominee

import (
	"github.com/wananchi-labs/uwazi/internal/nominee/repository"
	"github.com/wananchi-labs/uwazi/internal/nominee/service"
	"go.uber.org/fx"
)

var Module = fx.Module("nominee.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
