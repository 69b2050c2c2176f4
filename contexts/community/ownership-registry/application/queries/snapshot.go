package queries

import (
	"context"
	"fmt"
	"math"
	"sort"

	"strata/contexts/community/ownership-registry/domain/entities"
	"strata/contexts/community/ownership-registry/ports"
)

// votingPctTolerance absorbs rounding in recorded ownership fractions before
// the registry flags a mis-totalled allocation.
const votingPctTolerance = 0.5

// Snapshot is the registry view supplied to the election engine at call time.
type Snapshot struct {
	Units          []entities.Unit
	TotalVotingPct float64
	Warnings       []string
}

type SnapshotUseCase struct {
	Units ports.UnitRepository
}

func (uc SnapshotUseCase) ListUnits(ctx context.Context) ([]entities.Unit, error) {
	units, err := uc.Units.ListUnits(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(units, func(i, j int) bool {
		return units[i].UnitNumber < units[j].UnitNumber
	})
	return units, nil
}

// Snapshot returns all units with a sanity warning when recorded ownership
// percentages do not total 100.
func (uc SnapshotUseCase) Snapshot(ctx context.Context) (Snapshot, error) {
	units, err := uc.ListUnits(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	snapshot := Snapshot{Units: units}
	for _, unit := range units {
		snapshot.TotalVotingPct += unit.VotingPct
	}
	if len(units) > 0 && math.Abs(snapshot.TotalVotingPct-100) > votingPctTolerance {
		snapshot.Warnings = append(snapshot.Warnings,
			fmt.Sprintf("recorded ownership totals %.2f%%, expected 100%%", snapshot.TotalVotingPct))
	}
	return snapshot, nil
}
