package documentregistry

import (
	"log/slog"

	httpadapter "strata/contexts/governance/document-registry/adapters/http"
	"strata/contexts/governance/document-registry/adapters/memory"
	"strata/contexts/governance/document-registry/application/commands"
	"strata/contexts/governance/document-registry/application/queries"
	"strata/contexts/governance/document-registry/domain/entities"
	"strata/contexts/governance/document-registry/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Documents ports.DocumentRepository
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Handler: httpadapter.Handler{
			Documents: commands.DocumentUseCase{
				Documents: deps.Documents,
				Clock:     deps.Clock,
				IDGen:     deps.IDGen,
				Logger:    deps.Logger,
			},
			Queries: queries.DocumentsUseCase{
				Documents: deps.Documents,
			},
			Logger: deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []entities.Document, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Documents: store,
		Clock:     store,
		IDGen:     store,
		Logger:    logger,
	})
	module.Store = store
	return module
}
