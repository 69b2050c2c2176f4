package entities

import "time"

type ElectionType string

const (
	ElectionTypeBoardElection     ElectionType = "board_election"
	ElectionTypeBudgetApproval    ElectionType = "budget_approval"
	ElectionTypeSpecialAssessment ElectionType = "special_assessment"
	ElectionTypeBylawAmendment    ElectionType = "bylaw_amendment"
	ElectionTypeRuleChange        ElectionType = "rule_change"
	ElectionTypeMeetingMotion     ElectionType = "meeting_motion"
	ElectionTypeOther             ElectionType = "other"
)

type ElectionStatus string

const (
	ElectionStatusDraft     ElectionStatus = "draft"
	ElectionStatusOpen      ElectionStatus = "open"
	ElectionStatusClosed    ElectionStatus = "closed"
	ElectionStatusCertified ElectionStatus = "certified"
)

type BallotItemType string

const (
	BallotItemTypeYesNo          BallotItemType = "yes_no"
	BallotItemTypeMultiCandidate BallotItemType = "multi_candidate"
	BallotItemTypeMultiSelect    BallotItemType = "multi_select"
)

// DefaultRequiredThreshold is a simple majority of ballots cast.
const DefaultRequiredThreshold = 50.1

type Candidate struct {
	CandidateID string
	Name        string
	Unit        string
	Bio         string
}

type BallotItem struct {
	ItemID            string
	Title             string
	Description       string
	Rationale         string
	Type              BallotItemType
	Candidates        []Candidate
	MaxSelections     int
	RequiredThreshold float64
	LegalRef          string
	FinancialImpact   string
	Attachments       []string
}

// HasCandidate reports whether candidateID belongs to this item's slate.
func (i BallotItem) HasCandidate(candidateID string) bool {
	for _, candidate := range i.Candidates {
		if candidate.CandidateID == candidateID {
			return true
		}
	}
	return false
}

type VoteChoice string

const (
	VoteChoiceApprove VoteChoice = "approve"
	VoteChoiceDeny    VoteChoice = "deny"
	VoteChoiceAbstain VoteChoice = "abstain"
)

// Vote is a tagged union keyed off the ballot item's declared type:
// yes_no items carry Choice, candidate items carry Selections.
type Vote struct {
	Choice     VoteChoice `json:"choice,omitempty"`
	Selections []string   `json:"selections,omitempty"`
}

type BallotMethod string

const (
	BallotMethodPaper   BallotMethod = "paper"
	BallotMethodOral    BallotMethod = "oral"
	BallotMethodVirtual BallotMethod = "virtual"
)

// Ballot is one unit's vote across every item on the election. VotingPct is
// the unit's ownership weight captured at cast time; later registry edits do
// not change historical results.
type Ballot struct {
	BallotID          string
	UnitNumber        string
	Owner             string
	VotingPct         float64
	Method            BallotMethod
	IsProxy           bool
	ProxyVoterName    string
	ProxyAuthorizedBy string
	RecordedBy        string
	RecordedAt        time.Time
	Votes             map[string]Vote
	Comment           string
}

type ComplianceSource string

const (
	ComplianceSourceStatute      ComplianceSource = "statute"
	ComplianceSourceBylaws       ComplianceSource = "bylaws"
	ComplianceSourceCovenants    ComplianceSource = "covenants"
	ComplianceSourceBestPractice ComplianceSource = "best_practice"
)

type ComplianceStatus string

const (
	ComplianceStatusPass       ComplianceStatus = "pass"
	ComplianceStatusFail       ComplianceStatus = "fail"
	ComplianceStatusWarning    ComplianceStatus = "warning"
	ComplianceStatusNotChecked ComplianceStatus = "not_checked"
)

type ComplianceCheck struct {
	CheckID     string
	Rule        string
	Requirement string
	Source      ComplianceSource
	Status      ComplianceStatus
	AutoChecked bool
	Note        string
}

type Resolution struct {
	Text          string
	EffectiveDate time.Time
	RecordedBy    string
	RecordedAt    time.Time
	LinkedCaseID  string
}

// TimelineEvent rows are the sole audit mechanism; no event is ever deleted.
type TimelineEvent struct {
	EventID     string
	Date        time.Time
	Actor       string
	Description string
}

type Comment struct {
	CommentID string
	Author    string
	Body      string
	CreatedAt time.Time
}

// Election is the aggregate the ledger mutates. Status moves draft -> open ->
// closed -> certified only; a draft may instead be deleted outright.
type Election struct {
	ElectionID         string
	Title              string
	Type               ElectionType
	Status             ElectionStatus
	CreatedBy          string
	CreatedAt          time.Time
	OpenedAt           *time.Time
	ClosedAt           *time.Time
	CertifiedAt        *time.Time
	CertifiedBy        string
	ScheduledCloseDate *time.Time
	NoticeDate         *time.Time
	QuorumRequired     float64
	BallotItems        []BallotItem
	Ballots            []Ballot
	ComplianceChecks   []ComplianceCheck
	Timeline           []TimelineEvent
	Comments           []Comment
	Resolution         *Resolution
	LinkedCaseID       string
	LinkedMeetingID    string
	UpdatedAt          time.Time
}

// FindItem returns the ballot item with the given id.
func (e Election) FindItem(itemID string) (BallotItem, bool) {
	for _, item := range e.BallotItems {
		if item.ItemID == itemID {
			return item, true
		}
	}
	return BallotItem{}, false
}

// FindBallotByUnit returns the ballot recorded for unitNumber, if any.
func (e Election) FindBallotByUnit(unitNumber string) (Ballot, bool) {
	for _, ballot := range e.Ballots {
		if ballot.UnitNumber == unitNumber {
			return ballot, true
		}
	}
	return Ballot{}, false
}

// Clone deep-copies the aggregate so stored state cannot be mutated through
// shared slices or maps.
func (e Election) Clone() Election {
	out := e
	out.BallotItems = make([]BallotItem, len(e.BallotItems))
	for i, item := range e.BallotItems {
		out.BallotItems[i] = item
		out.BallotItems[i].Candidates = append([]Candidate(nil), item.Candidates...)
		out.BallotItems[i].Attachments = append([]string(nil), item.Attachments...)
	}
	out.Ballots = make([]Ballot, len(e.Ballots))
	for i, ballot := range e.Ballots {
		out.Ballots[i] = ballot
		votes := make(map[string]Vote, len(ballot.Votes))
		for itemID, vote := range ballot.Votes {
			vote.Selections = append([]string(nil), vote.Selections...)
			votes[itemID] = vote
		}
		out.Ballots[i].Votes = votes
	}
	out.ComplianceChecks = append([]ComplianceCheck(nil), e.ComplianceChecks...)
	out.Timeline = append([]TimelineEvent(nil), e.Timeline...)
	out.Comments = append([]Comment(nil), e.Comments...)
	if e.Resolution != nil {
		resolution := *e.Resolution
		out.Resolution = &resolution
	}
	if e.OpenedAt != nil {
		at := *e.OpenedAt
		out.OpenedAt = &at
	}
	if e.ClosedAt != nil {
		at := *e.ClosedAt
		out.ClosedAt = &at
	}
	if e.CertifiedAt != nil {
		at := *e.CertifiedAt
		out.CertifiedAt = &at
	}
	if e.ScheduledCloseDate != nil {
		at := *e.ScheduledCloseDate
		out.ScheduledCloseDate = &at
	}
	if e.NoticeDate != nil {
		at := *e.NoticeDate
		out.NoticeDate = &at
	}
	return out
}
