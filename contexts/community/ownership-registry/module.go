package ownershipregistry

import (
	"log/slog"

	httpadapter "strata/contexts/community/ownership-registry/adapters/http"
	"strata/contexts/community/ownership-registry/adapters/memory"
	"strata/contexts/community/ownership-registry/application/commands"
	"strata/contexts/community/ownership-registry/application/queries"
	"strata/contexts/community/ownership-registry/domain/entities"
	"strata/contexts/community/ownership-registry/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Units  ports.UnitRepository
	Clock  ports.Clock
	Logger *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Handler: httpadapter.Handler{
			Units: commands.UnitUseCase{
				Units:  deps.Units,
				Clock:  deps.Clock,
				Logger: deps.Logger,
			},
			Snapshots: queries.SnapshotUseCase{
				Units: deps.Units,
			},
			Logger: deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []entities.Unit, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Units:  store,
		Clock:  store,
		Logger: logger,
	})
	module.Store = store
	return module
}
