package comment

import (
	"github.com/wananchi-labs/uwazi/internal/comment/repository"
	"github.com/wananchi-labs/uwazi/internal/comment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("comment.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
