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

func fourUnitRegistry() ports.RegistrySnapshot {
	return ports.RegistrySnapshot{Units: []ports.RegistryUnit{
		{UnitNumber: "101", Owner: "Avery", VotingPct: 25, Status: "occupied"},
		{UnitNumber: "102", Owner: "Blake", VotingPct: 25, Status: "occupied"},
		{UnitNumber: "103", Owner: "Casey", VotingPct: 25, Status: "occupied"},
		{UnitNumber: "104", Owner: "Drew", VotingPct: 25, Status: "occupied"},
	}}
}

func createOpenBudgetElection(t *testing.T, module electionengine.Module) (electionID string, itemID string) {
	t.Helper()
	ctx := context.Background()
	created, err := module.Handler.CreateElectionHandler(ctx, "board-president", httptransport.CreateElectionRequest{
		Title:          "2026 operating budget",
		Type:           "budget_approval",
		QuorumRequired: 25,
	})
	if err != nil {
		t.Fatalf("create election failed: %v", err)
	}
	withItem, err := module.Handler.AddBallotItemHandler(ctx, created.ElectionID, "board-president", httptransport.AddBallotItemRequest{
		Title: "Approve the 2026 operating budget",
		Type:  "yes_no",
	})
	if err != nil {
		t.Fatalf("add ballot item failed: %v", err)
	}
	if _, err := module.Handler.OpenElectionHandler(ctx, created.ElectionID, "board-president"); err != nil {
		t.Fatalf("open election failed: %v", err)
	}
	return created.ElectionID, withItem.BallotItems[0].ItemID
}

func approveBallot(unit string, itemID string) httptransport.RecordBallotRequest {
	return httptransport.RecordBallotRequest{
		UnitNumber: unit,
		Method:     "paper",
		Votes: map[string]httptransport.VoteRequest{
			itemID: {Choice: "approve"},
		},
	}
}

func TestElectionLifecycle(t *testing.T) {
	module := electionengine.NewInMemoryModule(nil, nil)
	ctx := context.Background()
	registry := fourUnitRegistry()

	electionID, itemID := createOpenBudgetElection(t, module)

	recorded, err := module.Handler.RecordBallotHandler(ctx, electionID, "manager", approveBallot("101", itemID), registry)
	if err != nil {
		t.Fatalf("record ballot failed: %v", err)
	}
	if len(recorded.Ballots) != 1 {
		t.Fatalf("expected 1 ballot, got %d", len(recorded.Ballots))
	}
	if recorded.Ballots[0].VotingPct != 25 {
		t.Fatalf("expected captured voting pct 25, got %f", recorded.Ballots[0].VotingPct)
	}

	closed, err := module.Handler.CloseElectionHandler(ctx, electionID, "board-president")
	if err != nil {
		t.Fatalf("close election failed: %v", err)
	}
	if closed.Status != "closed" || closed.ClosedAt == nil {
		t.Fatalf("expected closed election with timestamp, got %s", closed.Status)
	}

	certified, err := module.Handler.CertifyElectionHandler(ctx, electionID, "inspector")
	if err != nil {
		t.Fatalf("certify election failed: %v", err)
	}
	if certified.Status != "certified" || certified.CertifiedBy != "inspector" {
		t.Fatalf("expected certified by inspector, got %s/%s", certified.Status, certified.CertifiedBy)
	}
	if len(certified.Timeline) < 5 {
		t.Fatalf("expected full timeline, got %d events", len(certified.Timeline))
	}
}

func TestOpenRequiresBallotItem(t *testing.T) {
	module := electionengine.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	created, err := module.Handler.CreateElectionHandler(ctx, "board", httptransport.CreateElectionRequest{
		Title: "Empty ballot",
		Type:  "meeting_motion",
	})
	if err != nil {
		t.Fatalf("create election failed: %v", err)
	}
	if _, err := module.Handler.OpenElectionHandler(ctx, created.ElectionID, "board"); !errors.Is(err, domainerrors.ErrPrecondition) {
		t.Fatalf("expected precondition error, got %v", err)
	}
}

func TestListElections(t *testing.T) {
	module := electionengine.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	firstID, _ := createOpenBudgetElection(t, module)
	second, err := module.Handler.CreateElectionHandler(ctx, "board", httptransport.CreateElectionRequest{
		Title: "Recall motion",
		Type:  "meeting_motion",
	})
	if err != nil {
		t.Fatalf("create election failed: %v", err)
	}

	list, err := module.Handler.ListElectionsHandler(ctx)
	if err != nil {
		t.Fatalf("list elections failed: %v", err)
	}
	if len(list.Items) != 2 {
		t.Fatalf("expected 2 elections, got %d", len(list.Items))
	}
	if list.Items[0].ElectionID != firstID || list.Items[1].ElectionID != second.ElectionID {
		t.Fatalf("unexpected listing order: %s, %s", list.Items[0].ElectionID, list.Items[1].ElectionID)
	}
	if list.Items[0].Status != "open" || list.Items[1].Status != "draft" {
		t.Fatalf("unexpected statuses: %s, %s", list.Items[0].Status, list.Items[1].Status)
	}
}

func TestDraftOnlyMutations(t *testing.T) {
	module := electionengine.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	electionID, itemID := createOpenBudgetElection(t, module)

	_, err := module.Handler.AddBallotItemHandler(ctx, electionID, "board", httptransport.AddBallotItemRequest{
		Title: "Late question",
		Type:  "yes_no",
	})
	if !errors.Is(err, domainerrors.ErrPrecondition) {
		t.Fatalf("expected precondition error adding item to open election, got %v", err)
	}
	if _, err := module.Handler.RemoveBallotItemHandler(ctx, electionID, itemID, "board"); !errors.Is(err, domainerrors.ErrPrecondition) {
		t.Fatalf("expected precondition error removing item from open election, got %v", err)
	}
	if err := module.Handler.DeleteElectionHandler(ctx, electionID, "board"); !errors.Is(err, domainerrors.ErrPrecondition) {
		t.Fatalf("expected precondition error deleting open election, got %v", err)
	}

	draft, err := module.Handler.CreateElectionHandler(ctx, "board", httptransport.CreateElectionRequest{
		Title: "Scratch draft",
		Type:  "other",
	})
	if err != nil {
		t.Fatalf("create draft failed: %v", err)
	}
	if err := module.Handler.DeleteElectionHandler(ctx, draft.ElectionID, "board"); err != nil {
		t.Fatalf("delete draft failed: %v", err)
	}
	if _, err := module.Handler.GetElectionHandler(ctx, draft.ElectionID); !errors.Is(err, domainerrors.ErrElectionNotFound) {
		t.Fatalf("expected deleted draft to be gone, got %v", err)
	}
}

func TestRecordBallotDuplicateUnit(t *testing.T) {
	module := electionengine.NewInMemoryModule(nil, nil)
	ctx := context.Background()
	registry := fourUnitRegistry()

	electionID, itemID := createOpenBudgetElection(t, module)
	if _, err := module.Handler.RecordBallotHandler(ctx, electionID, "manager", approveBallot("101", itemID), registry); err != nil {
		t.Fatalf("first ballot failed: %v", err)
	}
	_, err := module.Handler.RecordBallotHandler(ctx, electionID, "manager", approveBallot("101", itemID), registry)
	if !errors.Is(err, domainerrors.ErrDuplicateBallot) {
		t.Fatalf("expected duplicate ballot error, got %v", err)
	}
}

func TestRecordBallotOnClosedElection(t *testing.T) {
	module := electionengine.NewInMemoryModule(nil, nil)
	ctx := context.Background()
	registry := fourUnitRegistry()

	electionID, itemID := createOpenBudgetElection(t, module)
	if _, err := module.Handler.CloseElectionHandler(ctx, electionID, "board"); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	_, err := module.Handler.RecordBallotHandler(ctx, electionID, "manager", approveBallot("101", itemID), registry)
	if !errors.Is(err, domainerrors.ErrElectionNotOpen) {
		t.Fatalf("expected election not open error, got %v", err)
	}
}

func TestRecordBallotEligibility(t *testing.T) {
	module := electionengine.NewInMemoryModule(nil, nil)
	ctx := context.Background()
	registry := ports.RegistrySnapshot{Units: []ports.RegistryUnit{
		{UnitNumber: "101", Owner: "Avery", VotingPct: 50, Status: "occupied"},
		{UnitNumber: "202", Owner: "Blake", VotingPct: 50, Status: "vacant"},
	}}

	electionID, itemID := createOpenBudgetElection(t, module)

	_, err := module.Handler.RecordBallotHandler(ctx, electionID, "manager", approveBallot("999", itemID), registry)
	if !errors.Is(err, domainerrors.ErrIneligibleUnit) {
		t.Fatalf("expected ineligible error for unknown unit, got %v", err)
	}

	_, err = module.Handler.RecordBallotHandler(ctx, electionID, "manager", approveBallot("202", itemID), registry)
	if !errors.Is(err, domainerrors.ErrIneligibleUnit) {
		t.Fatalf("expected ineligible error for vacant unit, got %v", err)
	}

	proxied := approveBallot("202", itemID)
	proxied.IsProxy = true
	proxied.ProxyVoterName = "Morgan"
	proxied.ProxyAuthorizedBy = "Blake"
	if _, err := module.Handler.RecordBallotHandler(ctx, electionID, "manager", proxied, registry); err != nil {
		t.Fatalf("authorized proxy for vacant unit rejected: %v", err)
	}
}

func TestRecordBallotProxyWithoutAuthorization(t *testing.T) {
	module := electionengine.NewInMemoryModule(nil, nil)
	ctx := context.Background()
	registry := fourUnitRegistry()

	electionID, itemID := createOpenBudgetElection(t, module)

	proxied := approveBallot("101", itemID)
	proxied.IsProxy = true
	proxied.ProxyVoterName = "Morgan"
	_, err := module.Handler.RecordBallotHandler(ctx, electionID, "manager", proxied, registry)
	if !errors.Is(err, domainerrors.ErrMissingProxyAuthorization) {
		t.Fatalf("expected missing proxy authorization error, got %v", err)
	}

	election, err := module.Handler.GetElectionHandler(ctx, electionID)
	if err != nil {
		t.Fatalf("get election failed: %v", err)
	}
	if len(election.Ballots) != 0 {
		t.Fatalf("rejected ballot must not be recorded, got %d ballots", len(election.Ballots))
	}
}

func TestRecordBallotInvalidVotePayload(t *testing.T) {
	module := electionengine.NewInMemoryModule(nil, nil)
	ctx := context.Background()
	registry := fourUnitRegistry()

	electionID, itemID := createOpenBudgetElection(t, module)

	missing := httptransport.RecordBallotRequest{
		UnitNumber: "101",
		Method:     "paper",
		Votes:      map[string]httptransport.VoteRequest{},
	}
	if _, err := module.Handler.RecordBallotHandler(ctx, electionID, "manager", missing, registry); !errors.Is(err, domainerrors.ErrInvalidVotePayload) {
		t.Fatalf("expected invalid vote payload for missing vote, got %v", err)
	}

	badChoice := approveBallot("101", itemID)
	badChoice.Votes[itemID] = httptransport.VoteRequest{Choice: "maybe"}
	if _, err := module.Handler.RecordBallotHandler(ctx, electionID, "manager", badChoice, registry); !errors.Is(err, domainerrors.ErrInvalidVotePayload) {
		t.Fatalf("expected invalid vote payload for bad choice, got %v", err)
	}

	withSelections := approveBallot("101", itemID)
	withSelections.Votes[itemID] = httptransport.VoteRequest{Selections: []string{"cand-1"}}
	if _, err := module.Handler.RecordBallotHandler(ctx, electionID, "manager", withSelections, registry); !errors.Is(err, domainerrors.ErrInvalidVotePayload) {
		t.Fatalf("expected invalid vote payload for selections on yes_no item, got %v", err)
	}
}

func TestRemoveBallotAllowsRevote(t *testing.T) {
	module := electionengine.NewInMemoryModule(nil, nil)
	ctx := context.Background()
	registry := fourUnitRegistry()

	electionID, itemID := createOpenBudgetElection(t, module)
	recorded, err := module.Handler.RecordBallotHandler(ctx, electionID, "manager", approveBallot("101", itemID), registry)
	if err != nil {
		t.Fatalf("record ballot failed: %v", err)
	}

	if _, err := module.Handler.RemoveBallotHandler(ctx, electionID, recorded.Ballots[0].BallotID, "manager"); err != nil {
		t.Fatalf("remove ballot failed: %v", err)
	}
	if _, err := module.Handler.RecordBallotHandler(ctx, electionID, "manager", approveBallot("101", itemID), registry); err != nil {
		t.Fatalf("revote after removal failed: %v", err)
	}

	if _, err := module.Handler.CloseElectionHandler(ctx, electionID, "board"); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	election, err := module.Handler.GetElectionHandler(ctx, electionID)
	if err != nil {
		t.Fatalf("get election failed: %v", err)
	}
	if _, err := module.Handler.RemoveBallotHandler(ctx, electionID, election.Ballots[0].BallotID, "manager"); !errors.Is(err, domainerrors.ErrElectionNotOpen) {
		t.Fatalf("expected frozen ballots after close, got %v", err)
	}
}

func TestCertifyRequiresClosed(t *testing.T) {
	module := electionengine.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	electionID, _ := createOpenBudgetElection(t, module)
	if _, err := module.Handler.CertifyElectionHandler(ctx, electionID, "inspector"); !errors.Is(err, domainerrors.ErrPrecondition) {
		t.Fatalf("expected precondition error certifying open election, got %v", err)
	}
}

func TestCertifiedElectionWritability(t *testing.T) {
	module := electionengine.NewInMemoryModule(nil, nil)
	ctx := context.Background()

	electionID, _ := createOpenBudgetElection(t, module)

	if _, err := module.Handler.SetResolutionHandler(ctx, electionID, "board", httptransport.SetResolutionRequest{
		Text: "too early",
	}); !errors.Is(err, domainerrors.ErrResolutionNotAllowed) {
		t.Fatalf("expected resolution rejected on open election, got %v", err)
	}

	if _, err := module.Handler.CloseElectionHandler(ctx, electionID, "board"); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if _, err := module.Handler.CertifyElectionHandler(ctx, electionID, "inspector"); err != nil {
		t.Fatalf("certify failed: %v", err)
	}

	if _, err := module.Handler.AddCommentHandler(ctx, electionID, "resident", httptransport.AddCommentRequest{
		Body: "late remark",
	}); !errors.Is(err, domainerrors.ErrElectionCertified) {
		t.Fatalf("expected comment rejected on certified election, got %v", err)
	}

	resolved, err := module.Handler.SetResolutionHandler(ctx, electionID, "board", httptransport.SetResolutionRequest{
		Text: "Budget adopted as presented",
	})
	if err != nil {
		t.Fatalf("resolution on certified election failed: %v", err)
	}
	if resolved.Resolution == nil || resolved.Resolution.Text != "Budget adopted as presented" {
		t.Fatalf("expected recorded resolution, got %+v", resolved.Resolution)
	}

	linked, err := module.Handler.LinkHandler(ctx, electionID, "board", httptransport.LinkRequest{
		MeetingID: "meeting-2026-03",
	})
	if err != nil {
		t.Fatalf("link on certified election failed: %v", err)
	}
	if linked.LinkedMeetingID != "meeting-2026-03" {
		t.Fatalf("expected meeting link, got %q", linked.LinkedMeetingID)
	}
}

func TestLifecycleEventsReachOutbox(t *testing.T) {
	module := electionengine.NewInMemoryModule(nil, nil)
	ctx := context.Background()
	registry := fourUnitRegistry()

	electionID, itemID := createOpenBudgetElection(t, module)
	if _, err := module.Handler.RecordBallotHandler(ctx, electionID, "manager", approveBallot("101", itemID), registry); err != nil {
		t.Fatalf("record ballot failed: %v", err)
	}
	if _, err := module.Handler.CloseElectionHandler(ctx, electionID, "board"); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if _, err := module.Handler.CertifyElectionHandler(ctx, electionID, "inspector"); err != nil {
		t.Fatalf("certify failed: %v", err)
	}

	// opened, ballot recorded, closed, certified
	if got := module.Store.PendingOutboxCount(); got != 4 {
		t.Fatalf("expected 4 pending outbox events, got %d", got)
	}
}
