package unit

import (
	"context"
	"errors"
	"testing"

	electionengine "strata/contexts/governance/election-engine"
	domainerrors "strata/contexts/governance/election-engine/domain/errors"
	"strata/contexts/governance/election-engine/ports"
	httptransport "strata/contexts/governance/election-engine/transport/http"
)

func findCheckResponse(t *testing.T, checks []httptransport.ComplianceCheckResponse, checkID string) httptransport.ComplianceCheckResponse {
	t.Helper()
	for _, check := range checks {
		if check.CheckID == checkID {
			return check
		}
	}
	t.Fatalf("check %s not present", checkID)
	return httptransport.ComplianceCheckResponse{}
}

func TestComplianceChecksForJurisdiction(t *testing.T) {
	module := electionengine.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	created, err := module.Handler.CreateElectionHandler(ctx, "board", httptransport.CreateElectionRequest{
		Title:          "Board seat",
		Type:           "board_election",
		QuorumRequired: 10,
	})
	if err != nil {
		t.Fatalf("create election failed: %v", err)
	}

	resp, err := module.Handler.ComplianceChecksHandler(ctx, created.ElectionID, "CA", nil)
	if err != nil {
		t.Fatalf("compliance checks failed: %v", err)
	}
	if resp.Jurisdiction != "CA" {
		t.Fatalf("expected CA jurisdiction echoed, got %s", resp.Jurisdiction)
	}
	quorum := findCheckResponse(t, resp.Checks, "quorum_floor")
	if quorum.Status != "warning" {
		t.Fatalf("expected quorum floor warning for 10%% against CA floor, got %+v", quorum)
	}
	inspector := findCheckResponse(t, resp.Checks, "inspector_of_elections")
	if inspector.Status != "not_checked" || inspector.AutoChecked {
		t.Fatalf("expected manual CA rule surfaced as not_checked, got %+v", inspector)
	}
}

func TestManualOverrideSurvivesRegeneration(t *testing.T) {
	module := electionengine.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	created, err := module.Handler.CreateElectionHandler(ctx, "board", httptransport.CreateElectionRequest{
		Title:          "Board seat",
		Type:           "board_election",
		QuorumRequired: 30,
	})
	if err != nil {
		t.Fatalf("create election failed: %v", err)
	}
	electionID := created.ElectionID
	documents := []ports.GoverningDocument{}

	if _, err := module.Handler.RegenerateComplianceChecksHandler(ctx, electionID, "CA", "board", documents); err != nil {
		t.Fatalf("first regeneration failed: %v", err)
	}
	if _, err := module.Handler.UpdateComplianceCheckHandler(ctx, electionID, "inspector_of_elections", "board", httptransport.UpdateComplianceCheckRequest{
		Status: "pass",
		Note:   "inspector appointed",
	}); err != nil {
		t.Fatalf("manual override failed: %v", err)
	}

	resp, err := module.Handler.RegenerateComplianceChecksHandler(ctx, electionID, "CA", "board", documents)
	if err != nil {
		t.Fatalf("second regeneration failed: %v", err)
	}
	inspector := findCheckResponse(t, resp.Checks, "inspector_of_elections")
	if inspector.Status != "pass" || inspector.Note != "inspector appointed" {
		t.Fatalf("expected manual finding to survive regeneration, got %+v", inspector)
	}
}

func TestManualOverrideRejectedOnAutoCheck(t *testing.T) {
	module := electionengine.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	created, err := module.Handler.CreateElectionHandler(ctx, "board", httptransport.CreateElectionRequest{
		Title:          "Board seat",
		Type:           "board_election",
		QuorumRequired: 10,
	})
	if err != nil {
		t.Fatalf("create election failed: %v", err)
	}
	if _, err := module.Handler.RegenerateComplianceChecksHandler(ctx, created.ElectionID, "CA", "board", nil); err != nil {
		t.Fatalf("regeneration failed: %v", err)
	}

	_, err = module.Handler.UpdateComplianceCheckHandler(ctx, created.ElectionID, "quorum_floor", "board", httptransport.UpdateComplianceCheckRequest{
		Status: "pass",
	})
	if !errors.Is(err, domainerrors.ErrManualOverrideOnAutoCheck) {
		t.Fatalf("expected auto-check override rejected, got %v", err)
	}

	_, err = module.Handler.UpdateComplianceCheckHandler(ctx, created.ElectionID, "no_such_check", "board", httptransport.UpdateComplianceCheckRequest{
		Status: "pass",
	})
	if !errors.Is(err, domainerrors.ErrComplianceCheckNotFound) {
		t.Fatalf("expected unknown check error, got %v", err)
	}
}

func TestComplianceFrozenAfterCertification(t *testing.T) {
	module := electionengine.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	electionID, itemID := createOpenBudgetElection(t, module)
	if _, err := module.Handler.RegenerateComplianceChecksHandler(ctx, electionID, "CA", "board", nil); err != nil {
		t.Fatalf("regeneration failed: %v", err)
	}
	if _, err := module.Handler.RecordBallotHandler(ctx, electionID, "manager", approveBallot("101", itemID), fourUnitRegistry()); err != nil {
		t.Fatalf("record ballot failed: %v", err)
	}
	if _, err := module.Handler.CloseElectionHandler(ctx, electionID, "board"); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if _, err := module.Handler.CertifyElectionHandler(ctx, electionID, "inspector"); err != nil {
		t.Fatalf("certify failed: %v", err)
	}

	_, err := module.Handler.UpdateComplianceCheckHandler(ctx, electionID, "inspector_of_elections", "board", httptransport.UpdateComplianceCheckRequest{
		Status: "pass",
	})
	if !errors.Is(err, domainerrors.ErrElectionCertified) {
		t.Fatalf("expected manual finding rejected after certification, got %v", err)
	}
	if _, err := module.Handler.RegenerateComplianceChecksHandler(ctx, electionID, "CA", "board", nil); !errors.Is(err, domainerrors.ErrElectionCertified) {
		t.Fatalf("expected regeneration rejected after certification, got %v", err)
	}
}
