package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"strata/contexts/community/ownership-registry/domain/entities"
	domainerrors "strata/contexts/community/ownership-registry/domain/errors"
	"strata/contexts/community/ownership-registry/ports"
)

// UnitUseCase maintains the per-unit ownership records. Units are keyed by
// unit number; writing an existing number updates it in place.
type UnitUseCase struct {
	Units  ports.UnitRepository
	Clock  ports.Clock
	Logger *slog.Logger
}

type UpsertUnitCommand struct {
	UnitNumber string
	Owner      string
	VotingPct  float64
	Status     entities.UnitStatus
}

func (uc UnitUseCase) UpsertUnit(ctx context.Context, cmd UpsertUnitCommand) (entities.Unit, error) {
	unitNumber := strings.TrimSpace(cmd.UnitNumber)
	if unitNumber == "" || cmd.VotingPct < 0 || cmd.VotingPct > 100 || !isValidUnitStatus(cmd.Status) {
		return entities.Unit{}, domainerrors.ErrInvalidUnitInput
	}

	now := uc.now()
	unit := entities.Unit{
		UnitNumber: unitNumber,
		Owner:      strings.TrimSpace(cmd.Owner),
		VotingPct:  cmd.VotingPct,
		Status:     cmd.Status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if existing, err := uc.Units.GetUnit(ctx, unitNumber); err == nil {
		unit.CreatedAt = existing.CreatedAt
	}
	if err := uc.Units.SaveUnit(ctx, unit); err != nil {
		return entities.Unit{}, err
	}
	if uc.Logger != nil {
		uc.Logger.Info("unit saved",
			"event", "registry_unit_saved",
			"module", "community/ownership-registry",
			"layer", "application",
			"unit_number", unit.UnitNumber,
			"voting_pct", unit.VotingPct,
			"status", string(unit.Status),
		)
	}
	return unit, nil
}

func (uc UnitUseCase) RemoveUnit(ctx context.Context, unitNumber string) error {
	return uc.Units.DeleteUnit(ctx, strings.TrimSpace(unitNumber))
}

func (uc UnitUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func isValidUnitStatus(s entities.UnitStatus) bool {
	return s == entities.UnitStatusOccupied || s == entities.UnitStatusVacant
}
