package rating

import (
	"github.com/wananchi-labs/uwazi/internal/rating/repository"
	"github.com/wananchi-labs/uwazi/internal/rating/service"
	"go.uber.org/fx"
)

var Module = fx.Module("rating.service",
	fx.Provide(repository.Provide),
	fx.Provide(repository.ProvideCategories),
	fx.Provide(service.New),
)
