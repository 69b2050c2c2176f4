package unit

import (
	"context"
	"errors"
	"testing"

	ownershipregistry "strata/contexts/community/ownership-registry"
	domainerrors "strata/contexts/community/ownership-registry/domain/errors"
	httptransport "strata/contexts/community/ownership-registry/transport/http"
)

func TestRegistryUpsertAndSnapshot(t *testing.T) {
	module := ownershipregistry.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	units := map[string]float64{"101": 25, "102": 25, "103": 50}
	for unitNumber, pct := range units {
		if _, err := module.Handler.UpsertUnitHandler(ctx, unitNumber, httptransport.UpsertUnitRequest{
			Owner:     "Owner " + unitNumber,
			VotingPct: pct,
			Status:    "occupied",
		}); err != nil {
			t.Fatalf("upsert unit %s failed: %v", unitNumber, err)
		}
	}

	list, err := module.Handler.ListUnitsHandler(ctx)
	if err != nil {
		t.Fatalf("list units failed: %v", err)
	}
	if len(list.Items) != 3 || list.TotalVotingPct != 100 {
		t.Fatalf("expected 3 units totalling 100%%, got %d/%f", len(list.Items), list.TotalVotingPct)
	}
	if len(list.Warnings) != 0 {
		t.Fatalf("unexpected warnings for balanced registry: %v", list.Warnings)
	}

	// Re-upserting changes the weight without duplicating the unit.
	if _, err := module.Handler.UpsertUnitHandler(ctx, "103", httptransport.UpsertUnitRequest{
		Owner:     "New Owner",
		VotingPct: 40,
		Status:    "occupied",
	}); err != nil {
		t.Fatalf("re-upsert failed: %v", err)
	}
	list, err = module.Handler.ListUnitsHandler(ctx)
	if err != nil {
		t.Fatalf("list units failed: %v", err)
	}
	if len(list.Items) != 3 || list.TotalVotingPct != 90 {
		t.Fatalf("expected 3 units totalling 90%%, got %d/%f", len(list.Items), list.TotalVotingPct)
	}
	if len(list.Warnings) == 0 {
		t.Fatalf("expected warning for registry totalling 90%%")
	}
}

func TestRegistryUpsertValidation(t *testing.T) {
	module := ownershipregistry.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	_, err := module.Handler.UpsertUnitHandler(ctx, "101", httptransport.UpsertUnitRequest{
		VotingPct: 120,
		Status:    "occupied",
	})
	if !errors.Is(err, domainerrors.ErrInvalidUnitInput) {
		t.Fatalf("expected invalid input for pct over 100, got %v", err)
	}

	_, err = module.Handler.UpsertUnitHandler(ctx, "101", httptransport.UpsertUnitRequest{
		VotingPct: 25,
		Status:    "condemned",
	})
	if !errors.Is(err, domainerrors.ErrInvalidUnitInput) {
		t.Fatalf("expected invalid input for unknown status, got %v", err)
	}
}

func TestRegistryDeleteUnit(t *testing.T) {
	module := ownershipregistry.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	if _, err := module.Handler.UpsertUnitHandler(ctx, "101", httptransport.UpsertUnitRequest{
		VotingPct: 100,
		Status:    "vacant",
	}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if err := module.Handler.DeleteUnitHandler(ctx, "101"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := module.Handler.GetUnitHandler(ctx, "101"); !errors.Is(err, domainerrors.ErrUnitNotFound) {
		t.Fatalf("expected unit gone, got %v", err)
	}
	if err := module.Handler.DeleteUnitHandler(ctx, "101"); !errors.Is(err, domainerrors.ErrUnitNotFound) {
		t.Fatalf("expected not found on double delete, got %v", err)
	}
}
