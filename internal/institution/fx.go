package institution

import (
	"github.com/wananchi-labs/uwazi/internal/institution/repository"
	"github.com/wananchi-labs/uwazi/internal/institution/service"
	"go.uber.org/fx"
)

var Module = fx.Module("institution.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
