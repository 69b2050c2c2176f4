package httpadapter

import (
	"context"
	"log/slog"

	"strata/contexts/community/ownership-registry/application/commands"
	"strata/contexts/community/ownership-registry/application/queries"
	"strata/contexts/community/ownership-registry/domain/entities"
	httptransport "strata/contexts/community/ownership-registry/transport/http"
)

type Handler struct {
	Units     commands.UnitUseCase
	Snapshots queries.SnapshotUseCase
	Logger    *slog.Logger
}

func (h Handler) UpsertUnitHandler(ctx context.Context, unitNumber string, req httptransport.UpsertUnitRequest) (httptransport.UnitResponse, error) {
	unit, err := h.Units.UpsertUnit(ctx, commands.UpsertUnitCommand{
		UnitNumber: unitNumber,
		Owner:      req.Owner,
		VotingPct:  req.VotingPct,
		Status:     entities.UnitStatus(req.Status),
	})
	if err != nil {
		return httptransport.UnitResponse{}, err
	}
	return mapUnit(unit), nil
}

func (h Handler) DeleteUnitHandler(ctx context.Context, unitNumber string) error {
	return h.Units.RemoveUnit(ctx, unitNumber)
}

func (h Handler) GetUnitHandler(ctx context.Context, unitNumber string) (httptransport.UnitResponse, error) {
	unit, err := h.Units.Units.GetUnit(ctx, unitNumber)
	if err != nil {
		return httptransport.UnitResponse{}, err
	}
	return mapUnit(unit), nil
}

func (h Handler) ListUnitsHandler(ctx context.Context) (httptransport.UnitListResponse, error) {
	snapshot, err := h.Snapshots.Snapshot(ctx)
	if err != nil {
		return httptransport.UnitListResponse{}, err
	}
	resp := httptransport.UnitListResponse{
		Items:          make([]httptransport.UnitResponse, 0, len(snapshot.Units)),
		TotalVotingPct: snapshot.TotalVotingPct,
		Warnings:       snapshot.Warnings,
	}
	for _, unit := range snapshot.Units {
		resp.Items = append(resp.Items, mapUnit(unit))
	}
	return resp, nil
}

// SnapshotHandler exposes the raw snapshot for host-side composition with the
// election engine.
func (h Handler) SnapshotHandler(ctx context.Context) (queries.Snapshot, error) {
	return h.Snapshots.Snapshot(ctx)
}

func mapUnit(unit entities.Unit) httptransport.UnitResponse {
	return httptransport.UnitResponse{
		UnitNumber: unit.UnitNumber,
		Owner:      unit.Owner,
		VotingPct:  unit.VotingPct,
		Status:     string(unit.Status),
		CreatedAt:  unit.CreatedAt,
		UpdatedAt:  unit.UpdatedAt,
	}
}
