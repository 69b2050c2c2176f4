package entities

// CandidateResult is one candidate's ownership-weighted tally for a single
// ballot item. Rank is 1-based and deterministic: candidates are ordered by
// weighted percentage descending, ties broken by the earlier first supporting
// ballot, then by slate order. The tie-break is part of the contract because
// the ordering is legally significant.
type CandidateResult struct {
	CandidateID string
	Name        string
	WeightedPct float64
	BallotCount int
	Rank        int
}

// ItemResult is one ballot item's outcome. For yes_no items the percentages
// are shares of ballots actually cast, so abstaining units suppress rather
// than shrink the denominator. Passed reflects the item threshold only;
// quorum is reported at the election level.
type ItemResult struct {
	ItemID            string
	Title             string
	Type              BallotItemType
	RequiredThreshold float64
	ApprovePct        float64
	DenyPct           float64
	AbstainPct        float64
	Passed            bool
	Candidates        []CandidateResult
}

// ParticipationBreakdown counts ballots by method plus proxies. Audit display
// only, never an input to pass/fail.
type ParticipationBreakdown struct {
	Paper      int
	Oral       int
	Virtual    int
	ProxyCount int
}

// ElectionResults is the pure read model produced by the results calculator.
// Warnings carry defensive degradations (for example a ballot whose captured
// weight was unusable) so one bad record never makes the election unreadable.
type ElectionResults struct {
	ElectionID     string
	Status         ElectionStatus
	UnitsEligible  int
	UnitsBalloted  int
	TotalVotedPct  float64
	QuorumRequired float64
	QuorumMet      bool
	Items          []ItemResult
	Participation  ParticipationBreakdown
	Warnings       []string
}
