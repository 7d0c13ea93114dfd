package scandal

import (
	"github.com/wananchi-labs/uwazi/internal/scandal/repository"
	"github.com/wananchi-labs/uwazi/internal/scandal/service"
	"go.uber.org/fx"
)

var Module = fx.Module("scandal.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
