package queries

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"strata/contexts/governance/election-engine/domain/entities"
	"strata/contexts/governance/election-engine/ports"
)

// ResultsUseCase computes election tallies on read. It holds no state of its
// own and is safe to call concurrently at any lifecycle stage, including
// mid-voting over a partially filled ballot list.
type ResultsUseCase struct {
	Elections ports.ElectionRepository
}

// Results loads the election and computes its tallies against the supplied
// registry snapshot.
func (uc ResultsUseCase) Results(ctx context.Context, electionID string, registry ports.RegistrySnapshot) (entities.ElectionResults, error) {
	election, err := uc.Elections.GetElection(ctx, electionID)
	if err != nil {
		return entities.ElectionResults{}, err
	}
	return ComputeResults(election, registry), nil
}

// ComputeResults is the pure results calculator. Tallies are ownership
// weighted: each ballot contributes the voting percentage captured at cast
// time, so later registry edits never rewrite history. Computing twice on
// unchanged inputs yields identical results.
func ComputeResults(election entities.Election, registry ports.RegistrySnapshot) entities.ElectionResults {
	results := entities.ElectionResults{
		ElectionID:     election.ElectionID,
		Status:         election.Status,
		UnitsBalloted:  len(election.Ballots),
		QuorumRequired: election.QuorumRequired,
	}
	for _, unit := range registry.Units {
		if unit.Occupied() {
			results.UnitsEligible++
		}
	}

	weights := make(map[string]float64, len(election.Ballots))
	for _, ballot := range election.Ballots {
		weight := ballot.VotingPct
		if math.IsNaN(weight) || math.IsInf(weight, 0) || weight < 0 {
			// A single unreadable record must not make the whole election
			// unreadable; the ballot degrades to zero weight instead.
			results.Warnings = append(results.Warnings,
				fmt.Sprintf("ballot %s (unit %s): unusable captured weight, counted as 0", ballot.BallotID, ballot.UnitNumber))
			weight = 0
		}
		if _, found := registry.Find(ballot.UnitNumber); !found {
			results.Warnings = append(results.Warnings,
				fmt.Sprintf("ballot %s: unit %s no longer in ownership registry; cast-time weight retained", ballot.BallotID, ballot.UnitNumber))
		}
		weights[ballot.BallotID] = weight
		results.TotalVotedPct += weight

		switch ballot.Method {
		case entities.BallotMethodPaper:
			results.Participation.Paper++
		case entities.BallotMethodOral:
			results.Participation.Oral++
		case entities.BallotMethodVirtual:
			results.Participation.Virtual++
		}
		if ballot.IsProxy {
			results.Participation.ProxyCount++
		}
	}
	results.QuorumMet = results.TotalVotedPct >= election.QuorumRequired

	results.Items = make([]entities.ItemResult, 0, len(election.BallotItems))
	for _, item := range election.BallotItems {
		results.Items = append(results.Items, computeItemResult(item, election.Ballots, weights, results.TotalVotedPct))
	}
	return results
}

func computeItemResult(
	item entities.BallotItem,
	ballots []entities.Ballot,
	weights map[string]float64,
	totalVotedPct float64,
) entities.ItemResult {
	result := entities.ItemResult{
		ItemID:            item.ItemID,
		Title:             item.Title,
		Type:              item.Type,
		RequiredThreshold: item.RequiredThreshold,
	}

	if item.Type == entities.BallotItemTypeYesNo {
		var approve, deny, abstain float64
		for _, ballot := range ballots {
			vote, ok := ballot.Votes[item.ItemID]
			if !ok {
				continue
			}
			switch vote.Choice {
			case entities.VoteChoiceApprove:
				approve += weights[ballot.BallotID]
			case entities.VoteChoiceDeny:
				deny += weights[ballot.BallotID]
			case entities.VoteChoiceAbstain:
				abstain += weights[ballot.BallotID]
			}
		}
		// Percentages are shares of ballots actually cast; abstaining units
		// stay in the denominator so abstention suppresses rather than
		// ignores.
		if totalVotedPct > 0 {
			result.ApprovePct = approve / totalVotedPct * 100
			result.DenyPct = deny / totalVotedPct * 100
			result.AbstainPct = abstain / totalVotedPct * 100
		}
		result.Passed = result.ApprovePct >= item.RequiredThreshold
		return result
	}

	// Candidate items: every ballot contributes its full weight to each
	// candidate it selected, never divided among selections.
	type tally struct {
		weight    float64
		ballots   int
		firstVote time.Time
	}
	tallies := make(map[string]*tally, len(item.Candidates))
	for _, candidate := range item.Candidates {
		tallies[candidate.CandidateID] = &tally{}
	}
	for _, ballot := range ballots {
		vote, ok := ballot.Votes[item.ItemID]
		if !ok {
			continue
		}
		for _, candidateID := range vote.Selections {
			t, known := tallies[candidateID]
			if !known {
				continue
			}
			t.weight += weights[ballot.BallotID]
			t.ballots++
			if t.firstVote.IsZero() || ballot.RecordedAt.Before(t.firstVote) {
				t.firstVote = ballot.RecordedAt
			}
		}
	}

	slateOrder := make(map[string]int, len(item.Candidates))
	for i, candidate := range item.Candidates {
		slateOrder[candidate.CandidateID] = i
		t := tallies[candidate.CandidateID]
		weightedPct := 0.0
		if totalVotedPct > 0 {
			weightedPct = t.weight / totalVotedPct * 100
		}
		result.Candidates = append(result.Candidates, entities.CandidateResult{
			CandidateID: candidate.CandidateID,
			Name:        candidate.Name,
			WeightedPct: weightedPct,
			BallotCount: t.ballots,
		})
	}

	// Deterministic ranking: weighted share descending, ties broken by the
	// earlier first supporting ballot, then by slate order. The ordering is
	// legally significant, so the tie-break is fixed rather than incidental.
	sort.SliceStable(result.Candidates, func(i, j int) bool {
		a, b := result.Candidates[i], result.Candidates[j]
		if a.WeightedPct != b.WeightedPct {
			return a.WeightedPct > b.WeightedPct
		}
		fa := tallies[a.CandidateID].firstVote
		fb := tallies[b.CandidateID].firstVote
		if !fa.Equal(fb) {
			if fa.IsZero() {
				return false
			}
			if fb.IsZero() {
				return true
			}
			return fa.Before(fb)
		}
		return slateOrder[a.CandidateID] < slateOrder[b.CandidateID]
	})
	for i := range result.Candidates {
		result.Candidates[i].Rank = i + 1
	}
	return result
}
