package queries

import (
	"context"

	"strata/contexts/governance/election-engine/domain/entities"
	"strata/contexts/governance/election-engine/ports"
)

// ElectionsUseCase serves plain aggregate reads.
type ElectionsUseCase struct {
	Elections ports.ElectionRepository
}

func (uc ElectionsUseCase) GetElection(ctx context.Context, electionID string) (entities.Election, error) {
	return uc.Elections.GetElection(ctx, electionID)
}

func (uc ElectionsUseCase) ListElections(ctx context.Context) ([]entities.Election, error) {
	return uc.Elections.ListElections(ctx)
}
