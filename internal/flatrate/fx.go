package flatrate

import (
	"github.com/smallbiznis/venuebook/internal/flatrate/repository"
	"github.com/smallbiznis/venuebook/internal/flatrate/service"
	"go.uber.org/fx"
)

var Module = fx.Module("flatrate.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
