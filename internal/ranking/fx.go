package ranking

import (
	"github.com/wananchi-labs/uwazi/internal/ranking/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ranking.service",
	fx.Provide(service.New),
)
