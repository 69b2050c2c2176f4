package electionengine

import (
	"log/slog"

	httpadapter "strata/contexts/governance/election-engine/adapters/http"
	"strata/contexts/governance/election-engine/adapters/memory"
	"strata/contexts/governance/election-engine/application/commands"
	"strata/contexts/governance/election-engine/application/queries"
	"strata/contexts/governance/election-engine/domain/entities"
	"strata/contexts/governance/election-engine/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Elections ports.ElectionRepository
	Outbox    ports.OutboxWriter
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Rules     map[string]queries.RuleSet
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	rules := deps.Rules
	if rules == nil {
		rules = queries.DefaultRuleSets()
	}
	electionUseCase := commands.ElectionUseCase{
		Elections: deps.Elections,
		Outbox:    deps.Outbox,
		Clock:     deps.Clock,
		IDGen:     deps.IDGen,
		Locks:     commands.NewElectionLocks(),
		Logger:    deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Elections: electionUseCase,
			Queries: queries.ElectionsUseCase{
				Elections: deps.Elections,
			},
			Results: queries.ResultsUseCase{
				Elections: deps.Elections,
			},
			Compliance: queries.ComplianceUseCase{
				Elections: deps.Elections,
				Rules:     rules,
			},
			Logger: deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []entities.Election, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Elections: store,
		Outbox:    store,
		Clock:     store,
		IDGen:     store,
		Logger:    logger,
	})
	module.Store = store
	return module
}
