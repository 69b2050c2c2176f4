package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateElectionRequest struct {
	Title              string     `json:"title"`
	Type               string     `json:"type"`
	ScheduledCloseDate *time.Time `json:"scheduled_close_date,omitempty"`
	NoticeDate         *time.Time `json:"notice_date,omitempty"`
	QuorumRequired     float64    `json:"quorum_required"`
	LinkedCaseID       string     `json:"linked_case_id,omitempty"`
	LinkedMeetingID    string     `json:"linked_meeting_id,omitempty"`
}

type CandidateRequest struct {
	Name string `json:"name"`
	Unit string `json:"unit,omitempty"`
	Bio  string `json:"bio,omitempty"`
}

type AddBallotItemRequest struct {
	Title             string             `json:"title"`
	Description       string             `json:"description,omitempty"`
	Rationale         string             `json:"rationale,omitempty"`
	Type              string             `json:"type"`
	Candidates        []CandidateRequest `json:"candidates,omitempty"`
	MaxSelections     int                `json:"max_selections,omitempty"`
	RequiredThreshold float64            `json:"required_threshold,omitempty"`
	LegalRef          string             `json:"legal_ref,omitempty"`
	FinancialImpact   string             `json:"financial_impact,omitempty"`
	Attachments       []string           `json:"attachments,omitempty"`
}

type VoteRequest struct {
	Choice     string   `json:"choice,omitempty"`
	Selections []string `json:"selections,omitempty"`
}

type RecordBallotRequest struct {
	UnitNumber        string                 `json:"unit_number"`
	Owner             string                 `json:"owner,omitempty"`
	Method            string                 `json:"method"`
	IsProxy           bool                   `json:"is_proxy,omitempty"`
	ProxyVoterName    string                 `json:"proxy_voter_name,omitempty"`
	ProxyAuthorizedBy string                 `json:"proxy_authorized_by,omitempty"`
	Votes             map[string]VoteRequest `json:"votes"`
	Comment           string                 `json:"comment,omitempty"`
}

type SetResolutionRequest struct {
	Text          string    `json:"text"`
	EffectiveDate time.Time `json:"effective_date"`
	LinkedCaseID  string    `json:"linked_case_id,omitempty"`
}

type LinkRequest struct {
	CaseID    string `json:"case_id,omitempty"`
	MeetingID string `json:"meeting_id,omitempty"`
}

type AddCommentRequest struct {
	Body string `json:"body"`
}

type UpdateComplianceCheckRequest struct {
	Status string `json:"status"`
	Note   string `json:"note,omitempty"`
}

type CandidateResponse struct {
	CandidateID string `json:"candidate_id"`
	Name        string `json:"name"`
	Unit        string `json:"unit,omitempty"`
	Bio         string `json:"bio,omitempty"`
}

type BallotItemResponse struct {
	ItemID            string              `json:"item_id"`
	Title             string              `json:"title"`
	Description       string              `json:"description,omitempty"`
	Rationale         string              `json:"rationale,omitempty"`
	Type              string              `json:"type"`
	Candidates        []CandidateResponse `json:"candidates,omitempty"`
	MaxSelections     int                 `json:"max_selections,omitempty"`
	RequiredThreshold float64             `json:"required_threshold"`
	LegalRef          string              `json:"legal_ref,omitempty"`
	FinancialImpact   string              `json:"financial_impact,omitempty"`
	Attachments       []string            `json:"attachments,omitempty"`
}

type BallotResponse struct {
	BallotID          string                 `json:"ballot_id"`
	UnitNumber        string                 `json:"unit_number"`
	Owner             string                 `json:"owner,omitempty"`
	VotingPct         float64                `json:"voting_pct"`
	Method            string                 `json:"method"`
	IsProxy           bool                   `json:"is_proxy"`
	ProxyVoterName    string                 `json:"proxy_voter_name,omitempty"`
	ProxyAuthorizedBy string                 `json:"proxy_authorized_by,omitempty"`
	RecordedBy        string                 `json:"recorded_by,omitempty"`
	RecordedAt        time.Time              `json:"recorded_at"`
	Votes             map[string]VoteRequest `json:"votes"`
	Comment           string                 `json:"comment,omitempty"`
}

type ComplianceCheckResponse struct {
	CheckID     string `json:"check_id"`
	Rule        string `json:"rule"`
	Requirement string `json:"requirement"`
	Source      string `json:"source"`
	Status      string `json:"status"`
	AutoChecked bool   `json:"auto_checked"`
	Note        string `json:"note,omitempty"`
}

type TimelineEventResponse struct {
	EventID     string    `json:"event_id"`
	Date        time.Time `json:"date"`
	Actor       string    `json:"actor,omitempty"`
	Description string    `json:"description"`
}

type CommentResponse struct {
	CommentID string    `json:"comment_id"`
	Author    string    `json:"author,omitempty"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type ResolutionResponse struct {
	Text          string    `json:"text"`
	EffectiveDate time.Time `json:"effective_date"`
	RecordedBy    string    `json:"recorded_by,omitempty"`
	RecordedAt    time.Time `json:"recorded_at"`
	LinkedCaseID  string    `json:"linked_case_id,omitempty"`
}

type ElectionResponse struct {
	ElectionID         string                    `json:"election_id"`
	Title              string                    `json:"title"`
	Type               string                    `json:"type"`
	Status             string                    `json:"status"`
	CreatedBy          string                    `json:"created_by,omitempty"`
	CreatedAt          time.Time                 `json:"created_at"`
	OpenedAt           *time.Time                `json:"opened_at,omitempty"`
	ClosedAt           *time.Time                `json:"closed_at,omitempty"`
	CertifiedAt        *time.Time                `json:"certified_at,omitempty"`
	CertifiedBy        string                    `json:"certified_by,omitempty"`
	ScheduledCloseDate *time.Time                `json:"scheduled_close_date,omitempty"`
	NoticeDate         *time.Time                `json:"notice_date,omitempty"`
	QuorumRequired     float64                   `json:"quorum_required"`
	BallotItems        []BallotItemResponse      `json:"ballot_items"`
	Ballots            []BallotResponse          `json:"ballots"`
	ComplianceChecks   []ComplianceCheckResponse `json:"compliance_checks,omitempty"`
	Timeline           []TimelineEventResponse   `json:"timeline"`
	Comments           []CommentResponse         `json:"comments,omitempty"`
	Resolution         *ResolutionResponse       `json:"resolution,omitempty"`
	LinkedCaseID       string                    `json:"linked_case_id,omitempty"`
	LinkedMeetingID    string                    `json:"linked_meeting_id,omitempty"`
}

type ElectionListResponse struct {
	Items []ElectionResponse `json:"items"`
}

type CandidateResultResponse struct {
	CandidateID string  `json:"candidate_id"`
	Name        string  `json:"name"`
	WeightedPct float64 `json:"weighted_pct"`
	BallotCount int     `json:"ballot_count"`
	Rank        int     `json:"rank"`
}

type ItemResultResponse struct {
	ItemID            string                    `json:"item_id"`
	Title             string                    `json:"title"`
	Type              string                    `json:"type"`
	RequiredThreshold float64                   `json:"required_threshold"`
	ApprovePct        float64                   `json:"approve_pct"`
	DenyPct           float64                   `json:"deny_pct"`
	AbstainPct        float64                   `json:"abstain_pct"`
	Passed            bool                      `json:"passed"`
	Candidates        []CandidateResultResponse `json:"candidates,omitempty"`
}

type ParticipationResponse struct {
	Paper      int `json:"paper"`
	Oral       int `json:"oral"`
	Virtual    int `json:"virtual"`
	ProxyCount int `json:"proxy_count"`
}

type ElectionResultsResponse struct {
	ElectionID     string                `json:"election_id"`
	Status         string                `json:"status"`
	UnitsEligible  int                   `json:"units_eligible"`
	UnitsBalloted  int                   `json:"units_balloted"`
	TotalVotedPct  float64               `json:"total_voted_pct"`
	QuorumRequired float64               `json:"quorum_required"`
	QuorumMet      bool                  `json:"quorum_met"`
	Items          []ItemResultResponse  `json:"items"`
	Participation  ParticipationResponse `json:"participation"`
	Warnings       []string              `json:"warnings,omitempty"`
}

type ComplianceChecksResponse struct {
	ElectionID   string                    `json:"election_id"`
	Jurisdiction string                    `json:"jurisdiction"`
	Checks       []ComplianceCheckResponse `json:"checks"`
}
