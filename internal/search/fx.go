package search

import (
	"github.com/smallbiznis/estate/internal/search/repository"
	"github.com/smallbiznis/estate/internal/search/service"
	"go.uber.org/fx"
)

var Module = fx.Module("search.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
