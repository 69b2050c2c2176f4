package commands

import (
	"context"
	"fmt"
	"strings"

	application "strata/contexts/governance/election-engine/application"
	"strata/contexts/governance/election-engine/domain/entities"
	domainerrors "strata/contexts/governance/election-engine/domain/errors"
	"strata/contexts/governance/election-engine/ports"
)

type RecordBallotCommand struct {
	ElectionID        string
	UnitNumber        string
	Owner             string
	Method            entities.BallotMethod
	IsProxy           bool
	ProxyVoterName    string
	ProxyAuthorizedBy string
	RecordedBy        string
	Votes             map[string]entities.Vote
	Comment           string
	Registry          ports.RegistrySnapshot
}

// RecordBallot validates and appends one unit's ballot. Checks run in a fixed
// order: election open, no duplicate for the unit, unit eligibility, per-item
// payload shape, proxy authorization. The unit's voting weight is captured
// from the registry snapshot at cast time.
func (uc ElectionUseCase) RecordBallot(ctx context.Context, cmd RecordBallotCommand) (entities.Election, entities.Ballot, error) {
	logger := application.ResolveLogger(uc.Logger)
	release := uc.Locks.Acquire(cmd.ElectionID)
	defer release()

	election, err := uc.Elections.GetElection(ctx, cmd.ElectionID)
	if err != nil {
		return entities.Election{}, entities.Ballot{}, err
	}

	ballot, err := uc.validateBallot(election, cmd)
	if err != nil {
		logger.Warn("ballot rejected",
			"event", "election_ballot_rejected",
			"module", "governance/election-engine",
			"layer", "application",
			"election_id", cmd.ElectionID,
			"unit_number", strings.TrimSpace(cmd.UnitNumber),
			"error", err.Error(),
		)
		return entities.Election{}, entities.Ballot{}, err
	}

	now := uc.now()
	ballotID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Election{}, entities.Ballot{}, err
	}
	ballot.BallotID = ballotID
	ballot.RecordedAt = now

	election.Ballots = append(election.Ballots, ballot)
	election.UpdatedAt = now
	if err := uc.appendTimeline(ctx, &election, cmd.RecordedBy, "Ballot recorded for unit "+ballot.UnitNumber, now); err != nil {
		return entities.Election{}, entities.Ballot{}, err
	}
	if err := uc.Elections.SaveElection(ctx, election); err != nil {
		return entities.Election{}, entities.Ballot{}, err
	}
	if err := uc.appendElectionEvent(ctx, "ballot.recorded", election, now, map[string]any{
		"ballot_id":   ballot.BallotID,
		"unit_number": ballot.UnitNumber,
		"voting_pct":  ballot.VotingPct,
		"method":      string(ballot.Method),
		"is_proxy":    ballot.IsProxy,
	}); err != nil {
		return entities.Election{}, entities.Ballot{}, err
	}
	logger.Info("ballot recorded",
		"event", "election_ballot_recorded",
		"module", "governance/election-engine",
		"layer", "application",
		"election_id", election.ElectionID,
		"ballot_id", ballot.BallotID,
		"unit_number", ballot.UnitNumber,
		"voting_pct", ballot.VotingPct,
		"is_proxy", ballot.IsProxy,
	)
	return election, ballot, nil
}

// RemoveBallot strikes a ballot while voting is still open, restoring the
// unit's ability to vote again. Closed and certified ballots are frozen.
func (uc ElectionUseCase) RemoveBallot(ctx context.Context, electionID, ballotID, actor string) (entities.Election, error) {
	release := uc.Locks.Acquire(electionID)
	defer release()

	election, err := uc.Elections.GetElection(ctx, electionID)
	if err != nil {
		return entities.Election{}, err
	}
	if election.Status != entities.ElectionStatusOpen {
		return entities.Election{}, domainerrors.ErrElectionNotOpen
	}

	removedUnit := ""
	kept := election.Ballots[:0]
	for _, ballot := range election.Ballots {
		if ballot.BallotID == ballotID {
			removedUnit = ballot.UnitNumber
			continue
		}
		kept = append(kept, ballot)
	}
	if removedUnit == "" {
		return entities.Election{}, domainerrors.ErrBallotNotFound
	}
	election.Ballots = kept

	now := uc.now()
	election.UpdatedAt = now
	if err := uc.appendTimeline(ctx, &election, actor, "Ballot removed for unit "+removedUnit, now); err != nil {
		return entities.Election{}, err
	}
	if err := uc.Elections.SaveElection(ctx, election); err != nil {
		return entities.Election{}, err
	}
	if err := uc.appendElectionEvent(ctx, "ballot.removed", election, now, map[string]any{
		"ballot_id":   ballotID,
		"unit_number": removedUnit,
	}); err != nil {
		return entities.Election{}, err
	}
	return election, nil
}

// validateBallot is the ballot validator: it either returns a ballot ready to
// append or a typed error, and never mutates the election.
func (uc ElectionUseCase) validateBallot(election entities.Election, cmd RecordBallotCommand) (entities.Ballot, error) {
	if election.Status != entities.ElectionStatusOpen {
		return entities.Ballot{}, domainerrors.ErrElectionNotOpen
	}

	unitNumber := strings.TrimSpace(cmd.UnitNumber)
	if unitNumber == "" || !isValidBallotMethod(cmd.Method) {
		return entities.Ballot{}, domainerrors.ErrInvalidElectionInput
	}
	if _, exists := election.FindBallotByUnit(unitNumber); exists {
		// One ballot per unit is absolute; proxies vote as the unit, not in
		// addition to it.
		return entities.Ballot{}, domainerrors.ErrDuplicateBallot
	}

	registryUnit, found := cmd.Registry.Find(unitNumber)
	if !found {
		return entities.Ballot{}, domainerrors.ErrIneligibleUnit
	}
	authorizedProxy := cmd.IsProxy && strings.TrimSpace(cmd.ProxyAuthorizedBy) != ""
	if !registryUnit.Occupied() && !authorizedProxy {
		return entities.Ballot{}, domainerrors.ErrIneligibleUnit
	}

	votes := make(map[string]entities.Vote, len(election.BallotItems))
	for _, item := range election.BallotItems {
		vote, ok := cmd.Votes[item.ItemID]
		if !ok {
			return entities.Ballot{}, invalidVote(item, "missing vote")
		}
		if err := validateVoteForItem(item, vote); err != nil {
			return entities.Ballot{}, err
		}
		votes[item.ItemID] = entities.Vote{
			Choice:     vote.Choice,
			Selections: append([]string(nil), vote.Selections...),
		}
	}

	if cmd.IsProxy && strings.TrimSpace(cmd.ProxyAuthorizedBy) == "" {
		return entities.Ballot{}, domainerrors.ErrMissingProxyAuthorization
	}

	owner := strings.TrimSpace(cmd.Owner)
	if owner == "" {
		owner = registryUnit.Owner
	}
	return entities.Ballot{
		UnitNumber:        unitNumber,
		Owner:             owner,
		VotingPct:         registryUnit.VotingPct,
		Method:            cmd.Method,
		IsProxy:           cmd.IsProxy,
		ProxyVoterName:    strings.TrimSpace(cmd.ProxyVoterName),
		ProxyAuthorizedBy: strings.TrimSpace(cmd.ProxyAuthorizedBy),
		RecordedBy:        strings.TrimSpace(cmd.RecordedBy),
		Votes:             votes,
		Comment:           strings.TrimSpace(cmd.Comment),
	}, nil
}

func validateVoteForItem(item entities.BallotItem, vote entities.Vote) error {
	switch item.Type {
	case entities.BallotItemTypeYesNo:
		if len(vote.Selections) > 0 {
			return invalidVote(item, "yes_no item takes a choice, not selections")
		}
		switch vote.Choice {
		case entities.VoteChoiceApprove, entities.VoteChoiceDeny, entities.VoteChoiceAbstain:
			return nil
		default:
			return invalidVote(item, "choice must be approve, deny, or abstain")
		}
	case entities.BallotItemTypeMultiCandidate:
		if vote.Choice != "" {
			return invalidVote(item, "candidate item takes selections, not a choice")
		}
		if len(vote.Selections) != 1 {
			return invalidVote(item, "exactly one candidate must be selected")
		}
		if !item.HasCandidate(vote.Selections[0]) {
			return invalidVote(item, "unknown candidate "+vote.Selections[0])
		}
		return nil
	case entities.BallotItemTypeMultiSelect:
		if vote.Choice != "" {
			return invalidVote(item, "candidate item takes selections, not a choice")
		}
		if len(vote.Selections) == 0 || len(vote.Selections) > item.MaxSelections {
			return invalidVote(item, fmt.Sprintf("between 1 and %d candidates may be selected", item.MaxSelections))
		}
		seen := make(map[string]bool, len(vote.Selections))
		for _, candidateID := range vote.Selections {
			if seen[candidateID] {
				return invalidVote(item, "duplicate candidate "+candidateID)
			}
			seen[candidateID] = true
			if !item.HasCandidate(candidateID) {
				return invalidVote(item, "unknown candidate "+candidateID)
			}
		}
		return nil
	default:
		return invalidVote(item, "unsupported ballot item type")
	}
}

// invalidVote wraps ErrInvalidVotePayload naming the offending item so the
// host UI can surface the failure against the right field.
func invalidVote(item entities.BallotItem, reason string) error {
	return fmt.Errorf("%w: item %s (%s): %s", domainerrors.ErrInvalidVotePayload, item.ItemID, item.Title, reason)
}

func isValidBallotMethod(m entities.BallotMethod) bool {
	switch m {
	case entities.BallotMethodPaper, entities.BallotMethodOral, entities.BallotMethodVirtual:
		return true
	default:
		return false
	}
}
