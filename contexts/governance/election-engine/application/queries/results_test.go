package queries

import (
	"math"
	"strings"
	"testing"
	"time"

	"strata/contexts/governance/election-engine/domain/entities"
	"strata/contexts/governance/election-engine/ports"
)

func yesNoElection(ballots ...entities.Ballot) entities.Election {
	return entities.Election{
		ElectionID:     "election-1",
		Status:         entities.ElectionStatusClosed,
		QuorumRequired: 25,
		BallotItems: []entities.BallotItem{{
			ItemID:            "item-1",
			Title:             "Approve budget",
			Type:              entities.BallotItemTypeYesNo,
			RequiredThreshold: entities.DefaultRequiredThreshold,
		}},
		Ballots: ballots,
	}
}

func TestComputeResultsUnusableWeightDegradesToZero(t *testing.T) {
	election := yesNoElection(
		entities.Ballot{
			BallotID:   "ballot-1",
			UnitNumber: "101",
			VotingPct:  math.NaN(),
			Method:     entities.BallotMethodPaper,
			Votes:      map[string]entities.Vote{"item-1": {Choice: entities.VoteChoiceApprove}},
		},
		entities.Ballot{
			BallotID:   "ballot-2",
			UnitNumber: "102",
			VotingPct:  50,
			Method:     entities.BallotMethodPaper,
			Votes:      map[string]entities.Vote{"item-1": {Choice: entities.VoteChoiceApprove}},
		},
	)
	registry := ports.RegistrySnapshot{Units: []ports.RegistryUnit{
		{UnitNumber: "101", VotingPct: 50, Status: "occupied"},
		{UnitNumber: "102", VotingPct: 50, Status: "occupied"},
	}}

	results := ComputeResults(election, registry)
	if results.TotalVotedPct != 50 {
		t.Fatalf("expected NaN weight counted as 0, total 50, got %f", results.TotalVotedPct)
	}
	if len(results.Warnings) != 1 || !strings.Contains(results.Warnings[0], "unusable captured weight") {
		t.Fatalf("expected unusable-weight warning, got %v", results.Warnings)
	}
	if math.IsNaN(results.Items[0].ApprovePct) {
		t.Fatalf("approve pct must never be NaN")
	}
}

func TestComputeResultsMissingRegistryUnitKeepsCastWeight(t *testing.T) {
	election := yesNoElection(entities.Ballot{
		BallotID:   "ballot-1",
		UnitNumber: "101",
		VotingPct:  30,
		Method:     entities.BallotMethodPaper,
		Votes:      map[string]entities.Vote{"item-1": {Choice: entities.VoteChoiceApprove}},
	})
	// Unit 101 was sold and removed from the registry after voting.
	registry := ports.RegistrySnapshot{Units: []ports.RegistryUnit{
		{UnitNumber: "202", VotingPct: 70, Status: "occupied"},
	}}

	results := ComputeResults(election, registry)
	if results.TotalVotedPct != 30 {
		t.Fatalf("expected cast-time weight retained, got %f", results.TotalVotedPct)
	}
	if len(results.Warnings) != 1 || !strings.Contains(results.Warnings[0], "no longer in ownership registry") {
		t.Fatalf("expected missing-unit warning, got %v", results.Warnings)
	}
}

func TestComputeResultsEmptyElection(t *testing.T) {
	results := ComputeResults(yesNoElection(), ports.RegistrySnapshot{})
	if results.TotalVotedPct != 0 || results.UnitsBalloted != 0 {
		t.Fatalf("expected empty tallies, got %+v", results)
	}
	item := results.Items[0]
	if item.ApprovePct != 0 || item.DenyPct != 0 || item.AbstainPct != 0 || item.Passed {
		t.Fatalf("expected zeroed item result, got %+v", item)
	}
}

func TestComputeResultsTieBreak(t *testing.T) {
	earlier := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	later := time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)
	election := entities.Election{
		ElectionID:     "election-2",
		Status:         entities.ElectionStatusClosed,
		QuorumRequired: 10,
		BallotItems: []entities.BallotItem{{
			ItemID: "item-1",
			Title:  "Elect one director",
			Type:   entities.BallotItemTypeMultiCandidate,
			Candidates: []entities.Candidate{
				{CandidateID: "cand-a", Name: "A"},
				{CandidateID: "cand-b", Name: "B"},
				{CandidateID: "cand-c", Name: "C"},
			},
			RequiredThreshold: entities.DefaultRequiredThreshold,
		}},
		Ballots: []entities.Ballot{
			{
				BallotID:   "ballot-1",
				UnitNumber: "101",
				VotingPct:  25,
				Method:     entities.BallotMethodPaper,
				RecordedAt: later,
				Votes:      map[string]entities.Vote{"item-1": {Selections: []string{"cand-b"}}},
			},
			{
				BallotID:   "ballot-2",
				UnitNumber: "102",
				VotingPct:  25,
				Method:     entities.BallotMethodPaper,
				RecordedAt: earlier,
				Votes:      map[string]entities.Vote{"item-1": {Selections: []string{"cand-a"}}},
			},
		},
	}
	registry := ports.RegistrySnapshot{Units: []ports.RegistryUnit{
		{UnitNumber: "101", VotingPct: 25, Status: "occupied"},
		{UnitNumber: "102", VotingPct: 25, Status: "occupied"},
	}}

	results := ComputeResults(election, registry)
	candidates := results.Items[0].Candidates

	// Equal weight: the candidate whose first supporting ballot came earlier
	// ranks ahead; the unvoted candidate sorts last by slate order.
	if candidates[0].CandidateID != "cand-a" || candidates[1].CandidateID != "cand-b" || candidates[2].CandidateID != "cand-c" {
		t.Fatalf("unexpected tie-break order: %s, %s, %s",
			candidates[0].CandidateID, candidates[1].CandidateID, candidates[2].CandidateID)
	}
	for i, candidate := range candidates {
		if candidate.Rank != i+1 {
			t.Fatalf("expected rank %d for %s, got %d", i+1, candidate.CandidateID, candidate.Rank)
		}
	}
}

func TestComputeResultsMultiSelectFullWeightPerSelection(t *testing.T) {
	election := entities.Election{
		ElectionID:     "election-3",
		Status:         entities.ElectionStatusOpen,
		QuorumRequired: 10,
		BallotItems: []entities.BallotItem{{
			ItemID: "item-1",
			Title:  "Elect two directors",
			Type:   entities.BallotItemTypeMultiSelect,
			Candidates: []entities.Candidate{
				{CandidateID: "cand-a", Name: "A"},
				{CandidateID: "cand-b", Name: "B"},
			},
			MaxSelections:     2,
			RequiredThreshold: entities.DefaultRequiredThreshold,
		}},
		Ballots: []entities.Ballot{{
			BallotID:   "ballot-1",
			UnitNumber: "101",
			VotingPct:  40,
			Method:     entities.BallotMethodPaper,
			Votes:      map[string]entities.Vote{"item-1": {Selections: []string{"cand-a", "cand-b"}}},
		}},
	}
	registry := ports.RegistrySnapshot{Units: []ports.RegistryUnit{
		{UnitNumber: "101", VotingPct: 40, Status: "occupied"},
	}}

	results := ComputeResults(election, registry)
	for _, candidate := range results.Items[0].Candidates {
		if candidate.WeightedPct != 100 {
			t.Fatalf("expected full ballot weight per selected candidate, got %f for %s",
				candidate.WeightedPct, candidate.CandidateID)
		}
		if candidate.BallotCount != 1 {
			t.Fatalf("expected 1 supporting ballot, got %d", candidate.BallotCount)
		}
	}
}
