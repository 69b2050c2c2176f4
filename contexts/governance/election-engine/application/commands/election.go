package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "strata/contexts/governance/election-engine/application"
	"strata/contexts/governance/election-engine/domain/entities"
	domainerrors "strata/contexts/governance/election-engine/domain/errors"
	"strata/contexts/governance/election-engine/ports"
)

// ElectionUseCase is the ledger: it owns every mutation of the Election
// aggregate and the draft -> open -> closed -> certified state machine. Each
// accepted mutation appends a timeline event; a rejected command leaves the
// stored aggregate unchanged.
type ElectionUseCase struct {
	Elections ports.ElectionRepository
	Outbox    ports.OutboxWriter
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Locks     *ElectionLocks
	Logger    *slog.Logger
}

type CreateElectionCommand struct {
	Title              string
	Type               entities.ElectionType
	CreatedBy          string
	ScheduledCloseDate *time.Time
	NoticeDate         *time.Time
	QuorumRequired     float64
	LinkedCaseID       string
	LinkedMeetingID    string
}

type CandidateInput struct {
	Name string
	Unit string
	Bio  string
}

type AddBallotItemCommand struct {
	ElectionID        string
	Actor             string
	Title             string
	Description       string
	Rationale         string
	Type              entities.BallotItemType
	Candidates        []CandidateInput
	MaxSelections     int
	RequiredThreshold float64
	LegalRef          string
	FinancialImpact   string
	Attachments       []string
}

type SetResolutionCommand struct {
	ElectionID    string
	Actor         string
	Text          string
	EffectiveDate time.Time
	LinkedCaseID  string
}

type UpdateComplianceCheckCommand struct {
	ElectionID string
	Actor      string
	CheckID    string
	Status     entities.ComplianceStatus
	Note       string
}

// CreateElection records a new draft election.
func (uc ElectionUseCase) CreateElection(ctx context.Context, cmd CreateElectionCommand) (entities.Election, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.Title) == "" || !isValidElectionType(cmd.Type) ||
		cmd.QuorumRequired < 0 || cmd.QuorumRequired > 100 {
		logger.Warn("election create validation failed",
			"event", "election_create_validation_failed",
			"module", "governance/election-engine",
			"layer", "application",
			"title", strings.TrimSpace(cmd.Title),
			"type", string(cmd.Type),
		)
		return entities.Election{}, domainerrors.ErrInvalidElectionInput
	}

	now := uc.now()
	electionID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Election{}, err
	}
	election := entities.Election{
		ElectionID:         electionID,
		Title:              strings.TrimSpace(cmd.Title),
		Type:               cmd.Type,
		Status:             entities.ElectionStatusDraft,
		CreatedBy:          strings.TrimSpace(cmd.CreatedBy),
		CreatedAt:          now,
		ScheduledCloseDate: cmd.ScheduledCloseDate,
		NoticeDate:         cmd.NoticeDate,
		QuorumRequired:     cmd.QuorumRequired,
		LinkedCaseID:       strings.TrimSpace(cmd.LinkedCaseID),
		LinkedMeetingID:    strings.TrimSpace(cmd.LinkedMeetingID),
		UpdatedAt:          now,
	}
	if err := uc.appendTimeline(ctx, &election, cmd.CreatedBy, "Election created as draft", now); err != nil {
		return entities.Election{}, err
	}
	if err := uc.Elections.SaveElection(ctx, election); err != nil {
		return entities.Election{}, err
	}
	logger.Info("election created",
		"event", "election_created",
		"module", "governance/election-engine",
		"layer", "application",
		"election_id", election.ElectionID,
		"type", string(election.Type),
		"quorum_required", election.QuorumRequired,
	)
	return election, nil
}

// AddBallotItem adds a question to a draft election's ballot.
func (uc ElectionUseCase) AddBallotItem(ctx context.Context, cmd AddBallotItemCommand) (entities.Election, error) {
	logger := application.ResolveLogger(uc.Logger)
	release := uc.Locks.Acquire(cmd.ElectionID)
	defer release()

	election, err := uc.Elections.GetElection(ctx, cmd.ElectionID)
	if err != nil {
		return entities.Election{}, err
	}
	if election.Status != entities.ElectionStatusDraft {
		return entities.Election{}, domainerrors.ErrPrecondition
	}

	item, err := uc.buildBallotItem(ctx, cmd)
	if err != nil {
		logger.Warn("ballot item validation failed",
			"event", "election_ballot_item_validation_failed",
			"module", "governance/election-engine",
			"layer", "application",
			"election_id", cmd.ElectionID,
			"item_title", strings.TrimSpace(cmd.Title),
			"item_type", string(cmd.Type),
			"error", err.Error(),
		)
		return entities.Election{}, err
	}

	now := uc.now()
	election.BallotItems = append(election.BallotItems, item)
	election.UpdatedAt = now
	if err := uc.appendTimeline(ctx, &election, cmd.Actor, "Ballot item added: "+item.Title, now); err != nil {
		return entities.Election{}, err
	}
	if err := uc.Elections.SaveElection(ctx, election); err != nil {
		return entities.Election{}, err
	}
	logger.Info("ballot item added",
		"event", "election_ballot_item_added",
		"module", "governance/election-engine",
		"layer", "application",
		"election_id", election.ElectionID,
		"item_id", item.ItemID,
		"item_type", string(item.Type),
	)
	return election, nil
}

// RemoveBallotItem removes a question from a draft election's ballot.
func (uc ElectionUseCase) RemoveBallotItem(ctx context.Context, electionID, itemID, actor string) (entities.Election, error) {
	release := uc.Locks.Acquire(electionID)
	defer release()

	election, err := uc.Elections.GetElection(ctx, electionID)
	if err != nil {
		return entities.Election{}, err
	}
	if election.Status != entities.ElectionStatusDraft {
		return entities.Election{}, domainerrors.ErrPrecondition
	}

	removed := ""
	kept := election.BallotItems[:0]
	for _, item := range election.BallotItems {
		if item.ItemID == itemID {
			removed = item.Title
			continue
		}
		kept = append(kept, item)
	}
	if removed == "" {
		return entities.Election{}, domainerrors.ErrBallotItemNotFound
	}
	election.BallotItems = kept

	now := uc.now()
	election.UpdatedAt = now
	if err := uc.appendTimeline(ctx, &election, actor, "Ballot item removed: "+removed, now); err != nil {
		return entities.Election{}, err
	}
	if err := uc.Elections.SaveElection(ctx, election); err != nil {
		return entities.Election{}, err
	}
	return election, nil
}

// OpenElection moves draft -> open. Opening requires at least one ballot item
// so an empty ballot can never collect votes.
func (uc ElectionUseCase) OpenElection(ctx context.Context, electionID, actor string) (entities.Election, error) {
	logger := application.ResolveLogger(uc.Logger)
	release := uc.Locks.Acquire(electionID)
	defer release()

	election, err := uc.Elections.GetElection(ctx, electionID)
	if err != nil {
		return entities.Election{}, err
	}
	if election.Status != entities.ElectionStatusDraft || len(election.BallotItems) == 0 {
		logger.Warn("election open precondition failed",
			"event", "election_open_precondition_failed",
			"module", "governance/election-engine",
			"layer", "application",
			"election_id", electionID,
			"status", string(election.Status),
			"ballot_items", len(election.BallotItems),
		)
		return entities.Election{}, domainerrors.ErrPrecondition
	}

	now := uc.now()
	election.Status = entities.ElectionStatusOpen
	election.OpenedAt = &now
	election.UpdatedAt = now
	if err := uc.appendTimeline(ctx, &election, actor, "Election opened for voting", now); err != nil {
		return entities.Election{}, err
	}
	if err := uc.Elections.SaveElection(ctx, election); err != nil {
		return entities.Election{}, err
	}
	if err := uc.appendElectionEvent(ctx, "election.opened", election, now, nil); err != nil {
		return entities.Election{}, err
	}
	logger.Info("election opened",
		"event", "election_opened",
		"module", "governance/election-engine",
		"layer", "application",
		"election_id", election.ElectionID,
		"ballot_items", len(election.BallotItems),
	)
	return election, nil
}

// CloseElection moves open -> closed and freezes the ballots. Reopening is
// intentionally unsupported; corrections after close require a new election
// so recorded results are never silently rewritten.
func (uc ElectionUseCase) CloseElection(ctx context.Context, electionID, actor string) (entities.Election, error) {
	logger := application.ResolveLogger(uc.Logger)
	release := uc.Locks.Acquire(electionID)
	defer release()

	election, err := uc.Elections.GetElection(ctx, electionID)
	if err != nil {
		return entities.Election{}, err
	}
	if election.Status != entities.ElectionStatusOpen {
		return entities.Election{}, domainerrors.ErrPrecondition
	}

	now := uc.now()
	election.Status = entities.ElectionStatusClosed
	election.ClosedAt = &now
	election.UpdatedAt = now
	if err := uc.appendTimeline(ctx, &election, actor, "Election closed", now); err != nil {
		return entities.Election{}, err
	}
	if err := uc.Elections.SaveElection(ctx, election); err != nil {
		return entities.Election{}, err
	}
	if err := uc.appendElectionEvent(ctx, "election.closed", election, now, map[string]any{
		"ballots_cast": len(election.Ballots),
	}); err != nil {
		return entities.Election{}, err
	}
	logger.Info("election closed",
		"event", "election_closed",
		"module", "governance/election-engine",
		"layer", "application",
		"election_id", election.ElectionID,
		"ballots_cast", len(election.Ballots),
	)
	return election, nil
}

// CertifyElection moves closed -> certified, the terminal state. Afterwards
// only the resolution text and cross-links may still be written.
func (uc ElectionUseCase) CertifyElection(ctx context.Context, electionID, actor string) (entities.Election, error) {
	logger := application.ResolveLogger(uc.Logger)
	release := uc.Locks.Acquire(electionID)
	defer release()

	election, err := uc.Elections.GetElection(ctx, electionID)
	if err != nil {
		return entities.Election{}, err
	}
	if election.Status != entities.ElectionStatusClosed {
		return entities.Election{}, domainerrors.ErrPrecondition
	}

	now := uc.now()
	election.Status = entities.ElectionStatusCertified
	election.CertifiedAt = &now
	election.CertifiedBy = strings.TrimSpace(actor)
	election.UpdatedAt = now
	if err := uc.appendTimeline(ctx, &election, actor, "Election results certified", now); err != nil {
		return entities.Election{}, err
	}
	if err := uc.Elections.SaveElection(ctx, election); err != nil {
		return entities.Election{}, err
	}
	if err := uc.appendElectionEvent(ctx, "election.certified", election, now, map[string]any{
		"certified_by": election.CertifiedBy,
	}); err != nil {
		return entities.Election{}, err
	}
	logger.Info("election certified",
		"event", "election_certified",
		"module", "governance/election-engine",
		"layer", "application",
		"election_id", election.ElectionID,
		"certified_by", election.CertifiedBy,
	)
	return election, nil
}

// DeleteElection discards a draft. Only drafts may be deleted so cast votes
// are never thrown away.
func (uc ElectionUseCase) DeleteElection(ctx context.Context, electionID, actor string) error {
	logger := application.ResolveLogger(uc.Logger)
	release := uc.Locks.Acquire(electionID)
	defer release()

	election, err := uc.Elections.GetElection(ctx, electionID)
	if err != nil {
		return err
	}
	if election.Status != entities.ElectionStatusDraft {
		return domainerrors.ErrPrecondition
	}
	if err := uc.Elections.DeleteElection(ctx, electionID); err != nil {
		return err
	}
	logger.Info("draft election deleted",
		"event", "election_draft_deleted",
		"module", "governance/election-engine",
		"layer", "application",
		"election_id", electionID,
		"actor", strings.TrimSpace(actor),
	)
	return nil
}

// SetResolution attaches the board's written resolution. Allowed on closed and
// certified elections only; a resolution cannot predate the vote it resolves.
func (uc ElectionUseCase) SetResolution(ctx context.Context, cmd SetResolutionCommand) (entities.Election, error) {
	release := uc.Locks.Acquire(cmd.ElectionID)
	defer release()

	election, err := uc.Elections.GetElection(ctx, cmd.ElectionID)
	if err != nil {
		return entities.Election{}, err
	}
	if election.Status != entities.ElectionStatusClosed && election.Status != entities.ElectionStatusCertified {
		return entities.Election{}, domainerrors.ErrResolutionNotAllowed
	}
	if strings.TrimSpace(cmd.Text) == "" {
		return entities.Election{}, domainerrors.ErrInvalidElectionInput
	}

	now := uc.now()
	election.Resolution = &entities.Resolution{
		Text:          strings.TrimSpace(cmd.Text),
		EffectiveDate: cmd.EffectiveDate,
		RecordedBy:    strings.TrimSpace(cmd.Actor),
		RecordedAt:    now,
		LinkedCaseID:  strings.TrimSpace(cmd.LinkedCaseID),
	}
	election.UpdatedAt = now
	if err := uc.appendTimeline(ctx, &election, cmd.Actor, "Resolution recorded", now); err != nil {
		return entities.Election{}, err
	}
	if err := uc.Elections.SaveElection(ctx, election); err != nil {
		return entities.Election{}, err
	}
	return election, nil
}

// LinkCase stores an opaque case-tracking reference. The owning subsystem
// resolves it; the ledger never dereferences the id.
func (uc ElectionUseCase) LinkCase(ctx context.Context, electionID, caseID, actor string) (entities.Election, error) {
	return uc.link(ctx, electionID, actor, func(election *entities.Election) string {
		election.LinkedCaseID = strings.TrimSpace(caseID)
		return "Linked case " + strings.TrimSpace(caseID)
	})
}

// LinkMeeting stores an opaque meeting-minutes reference.
func (uc ElectionUseCase) LinkMeeting(ctx context.Context, electionID, meetingID, actor string) (entities.Election, error) {
	return uc.link(ctx, electionID, actor, func(election *entities.Election) string {
		election.LinkedMeetingID = strings.TrimSpace(meetingID)
		return "Linked meeting " + strings.TrimSpace(meetingID)
	})
}

func (uc ElectionUseCase) link(
	ctx context.Context,
	electionID string,
	actor string,
	apply func(*entities.Election) string,
) (entities.Election, error) {
	release := uc.Locks.Acquire(electionID)
	defer release()

	election, err := uc.Elections.GetElection(ctx, electionID)
	if err != nil {
		return entities.Election{}, err
	}
	// Cross-links stay writable on certified elections.
	now := uc.now()
	description := apply(&election)
	election.UpdatedAt = now
	if err := uc.appendTimeline(ctx, &election, actor, description, now); err != nil {
		return entities.Election{}, err
	}
	if err := uc.Elections.SaveElection(ctx, election); err != nil {
		return entities.Election{}, err
	}
	return election, nil
}

// AddComment appends a discussion comment. Certified elections are immutable
// apart from resolution and cross-links, so comments are rejected there.
func (uc ElectionUseCase) AddComment(ctx context.Context, electionID, author, body string) (entities.Election, error) {
	release := uc.Locks.Acquire(electionID)
	defer release()

	election, err := uc.Elections.GetElection(ctx, electionID)
	if err != nil {
		return entities.Election{}, err
	}
	if election.Status == entities.ElectionStatusCertified {
		return entities.Election{}, domainerrors.ErrElectionCertified
	}
	if strings.TrimSpace(body) == "" {
		return entities.Election{}, domainerrors.ErrInvalidElectionInput
	}

	commentID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Election{}, err
	}
	now := uc.now()
	election.Comments = append(election.Comments, entities.Comment{
		CommentID: commentID,
		Author:    strings.TrimSpace(author),
		Body:      strings.TrimSpace(body),
		CreatedAt: now,
	})
	election.UpdatedAt = now
	if err := uc.Elections.SaveElection(ctx, election); err != nil {
		return entities.Election{}, err
	}
	return election, nil
}

// SetComplianceChecks stores the regenerated findings list wholesale. The
// host calls this after merging manual overrides back into engine output.
func (uc ElectionUseCase) SetComplianceChecks(ctx context.Context, electionID, actor string, checks []entities.ComplianceCheck) (entities.Election, error) {
	release := uc.Locks.Acquire(electionID)
	defer release()

	election, err := uc.Elections.GetElection(ctx, electionID)
	if err != nil {
		return entities.Election{}, err
	}
	if election.Status == entities.ElectionStatusCertified {
		return entities.Election{}, domainerrors.ErrElectionCertified
	}

	now := uc.now()
	election.ComplianceChecks = append([]entities.ComplianceCheck(nil), checks...)
	election.UpdatedAt = now
	if err := uc.Elections.SaveElection(ctx, election); err != nil {
		return entities.Election{}, err
	}
	return election, nil
}

// UpdateComplianceCheck records a board member's manual finding on a single
// non-auto-checked rule.
func (uc ElectionUseCase) UpdateComplianceCheck(ctx context.Context, cmd UpdateComplianceCheckCommand) (entities.Election, error) {
	release := uc.Locks.Acquire(cmd.ElectionID)
	defer release()

	election, err := uc.Elections.GetElection(ctx, cmd.ElectionID)
	if err != nil {
		return entities.Election{}, err
	}
	if election.Status == entities.ElectionStatusCertified {
		return entities.Election{}, domainerrors.ErrElectionCertified
	}
	if !isValidComplianceStatus(cmd.Status) {
		return entities.Election{}, domainerrors.ErrInvalidElectionInput
	}

	updated := false
	for i, check := range election.ComplianceChecks {
		if check.CheckID != cmd.CheckID {
			continue
		}
		if check.AutoChecked {
			return entities.Election{}, domainerrors.ErrManualOverrideOnAutoCheck
		}
		election.ComplianceChecks[i].Status = cmd.Status
		election.ComplianceChecks[i].Note = strings.TrimSpace(cmd.Note)
		updated = true
		break
	}
	if !updated {
		return entities.Election{}, domainerrors.ErrComplianceCheckNotFound
	}

	now := uc.now()
	election.UpdatedAt = now
	if err := uc.appendTimeline(ctx, &election, cmd.Actor, "Compliance check "+cmd.CheckID+" set to "+string(cmd.Status), now); err != nil {
		return entities.Election{}, err
	}
	if err := uc.Elections.SaveElection(ctx, election); err != nil {
		return entities.Election{}, err
	}
	return election, nil
}

func (uc ElectionUseCase) buildBallotItem(ctx context.Context, cmd AddBallotItemCommand) (entities.BallotItem, error) {
	if strings.TrimSpace(cmd.Title) == "" || !isValidBallotItemType(cmd.Type) {
		return entities.BallotItem{}, domainerrors.ErrInvalidElectionInput
	}
	threshold := cmd.RequiredThreshold
	if threshold == 0 {
		threshold = entities.DefaultRequiredThreshold
	}
	if threshold <= 0 || threshold > 100 {
		return entities.BallotItem{}, domainerrors.ErrInvalidElectionInput
	}

	item := entities.BallotItem{
		Title:             strings.TrimSpace(cmd.Title),
		Description:       strings.TrimSpace(cmd.Description),
		Rationale:         strings.TrimSpace(cmd.Rationale),
		Type:              cmd.Type,
		MaxSelections:     cmd.MaxSelections,
		RequiredThreshold: threshold,
		LegalRef:          strings.TrimSpace(cmd.LegalRef),
		FinancialImpact:   strings.TrimSpace(cmd.FinancialImpact),
		Attachments:       append([]string(nil), cmd.Attachments...),
	}

	switch cmd.Type {
	case entities.BallotItemTypeYesNo:
		if len(cmd.Candidates) > 0 || cmd.MaxSelections != 0 {
			return entities.BallotItem{}, domainerrors.ErrInvalidElectionInput
		}
	case entities.BallotItemTypeMultiCandidate:
		if len(cmd.Candidates) == 0 || cmd.MaxSelections != 0 {
			return entities.BallotItem{}, domainerrors.ErrInvalidElectionInput
		}
	case entities.BallotItemTypeMultiSelect:
		if len(cmd.Candidates) == 0 || cmd.MaxSelections < 1 || cmd.MaxSelections > len(cmd.Candidates) {
			return entities.BallotItem{}, domainerrors.ErrInvalidElectionInput
		}
	}

	itemID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.BallotItem{}, err
	}
	item.ItemID = itemID
	for _, input := range cmd.Candidates {
		if strings.TrimSpace(input.Name) == "" {
			return entities.BallotItem{}, domainerrors.ErrInvalidElectionInput
		}
		candidateID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return entities.BallotItem{}, err
		}
		item.Candidates = append(item.Candidates, entities.Candidate{
			CandidateID: candidateID,
			Name:        strings.TrimSpace(input.Name),
			Unit:        strings.TrimSpace(input.Unit),
			Bio:         strings.TrimSpace(input.Bio),
		})
	}
	return item, nil
}

func (uc ElectionUseCase) appendTimeline(
	ctx context.Context,
	election *entities.Election,
	actor string,
	description string,
	at time.Time,
) error {
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	election.Timeline = append(election.Timeline, entities.TimelineEvent{
		EventID:     eventID,
		Date:        at,
		Actor:       strings.TrimSpace(actor),
		Description: description,
	})
	return nil
}

func (uc ElectionUseCase) appendElectionEvent(
	ctx context.Context,
	eventType string,
	election entities.Election,
	occurredAt time.Time,
	data map[string]any,
) error {
	// Outbox is optional for pure read/test wiring, so nil is treated as no-op.
	if uc.Outbox == nil {
		return nil
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	payload := map[string]any{
		"election_id": election.ElectionID,
		"title":       election.Title,
		"type":        string(election.Type),
		"status":      string(election.Status),
		"occurred_at": occurredAt.Format(time.RFC3339),
	}
	for key, value := range data {
		payload[key] = value
	}
	envelope, err := newElectionEnvelope(eventID, eventType, election.ElectionID, occurredAt, payload)
	if err != nil {
		return err
	}
	return uc.Outbox.AppendOutbox(ctx, envelope)
}

func (uc ElectionUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}

func isValidElectionType(t entities.ElectionType) bool {
	switch t {
	case entities.ElectionTypeBoardElection,
		entities.ElectionTypeBudgetApproval,
		entities.ElectionTypeSpecialAssessment,
		entities.ElectionTypeBylawAmendment,
		entities.ElectionTypeRuleChange,
		entities.ElectionTypeMeetingMotion,
		entities.ElectionTypeOther:
		return true
	default:
		return false
	}
}

func isValidBallotItemType(t entities.BallotItemType) bool {
	switch t {
	case entities.BallotItemTypeYesNo,
		entities.BallotItemTypeMultiCandidate,
		entities.BallotItemTypeMultiSelect:
		return true
	default:
		return false
	}
}

func isValidComplianceStatus(s entities.ComplianceStatus) bool {
	switch s {
	case entities.ComplianceStatusPass,
		entities.ComplianceStatusFail,
		entities.ComplianceStatusWarning,
		entities.ComplianceStatusNotChecked:
		return true
	default:
		return false
	}
}
