package postgresadapter

import (
	"encoding/json"
	"time"

	"strata/contexts/governance/election-engine/domain/entities"
)

// electionModel holds the aggregate header plus document-shaped parts
// (ballot items, timeline, comments, compliance, resolution) as JSONB.
// Ballots live in their own table so the one-ballot-per-unit invariant is
// also enforced by a unique index.
type electionModel struct {
	ID                 string     `gorm:"column:id;primaryKey"`
	Title              string     `gorm:"column:title"`
	Type               string     `gorm:"column:type"`
	Status             string     `gorm:"column:status"`
	CreatedBy          string     `gorm:"column:created_by"`
	CreatedAt          time.Time  `gorm:"column:created_at"`
	OpenedAt           *time.Time `gorm:"column:opened_at"`
	ClosedAt           *time.Time `gorm:"column:closed_at"`
	CertifiedAt        *time.Time `gorm:"column:certified_at"`
	CertifiedBy        string     `gorm:"column:certified_by"`
	ScheduledCloseDate *time.Time `gorm:"column:scheduled_close_date"`
	NoticeDate         *time.Time `gorm:"column:notice_date"`
	QuorumRequired     float64    `gorm:"column:quorum_required"`
	LinkedCaseID       string     `gorm:"column:linked_case_id"`
	LinkedMeetingID    string     `gorm:"column:linked_meeting_id"`
	BallotItems        []byte     `gorm:"column:ballot_items;type:jsonb"`
	ComplianceChecks   []byte     `gorm:"column:compliance_checks;type:jsonb"`
	Timeline           []byte     `gorm:"column:timeline;type:jsonb"`
	Comments           []byte     `gorm:"column:comments;type:jsonb"`
	Resolution         []byte     `gorm:"column:resolution;type:jsonb"`
	UpdatedAt          time.Time  `gorm:"column:updated_at"`
}

func (electionModel) TableName() string { return "elections" }

type ballotModel struct {
	ID                string    `gorm:"column:id;primaryKey"`
	ElectionID        string    `gorm:"column:election_id;uniqueIndex:ux_election_ballots_unit"`
	UnitNumber        string    `gorm:"column:unit_number;uniqueIndex:ux_election_ballots_unit"`
	Owner             string    `gorm:"column:owner"`
	VotingPct         float64   `gorm:"column:voting_pct"`
	Method            string    `gorm:"column:method"`
	IsProxy           bool      `gorm:"column:is_proxy"`
	ProxyVoterName    string    `gorm:"column:proxy_voter_name"`
	ProxyAuthorizedBy string    `gorm:"column:proxy_authorized_by"`
	RecordedBy        string    `gorm:"column:recorded_by"`
	RecordedAt        time.Time `gorm:"column:recorded_at"`
	Votes             []byte    `gorm:"column:votes;type:jsonb"`
	Comment           string    `gorm:"column:comment"`
}

func (ballotModel) TableName() string { return "election_ballots" }

type outboxModel struct {
	ID          string     `gorm:"column:id;primaryKey"`
	EventType   string     `gorm:"column:event_type"`
	Payload     []byte     `gorm:"column:payload;type:jsonb"`
	Status      string     `gorm:"column:status"`
	RetryCount  int        `gorm:"column:retry_count"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	PublishedAt *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string { return "election_outbox" }

func electionModelFromEntity(election entities.Election) (electionModel, []ballotModel, error) {
	ballotItems, err := json.Marshal(election.BallotItems)
	if err != nil {
		return electionModel{}, nil, err
	}
	complianceChecks, err := json.Marshal(election.ComplianceChecks)
	if err != nil {
		return electionModel{}, nil, err
	}
	timeline, err := json.Marshal(election.Timeline)
	if err != nil {
		return electionModel{}, nil, err
	}
	comments, err := json.Marshal(election.Comments)
	if err != nil {
		return electionModel{}, nil, err
	}
	var resolution []byte
	if election.Resolution != nil {
		resolution, err = json.Marshal(election.Resolution)
		if err != nil {
			return electionModel{}, nil, err
		}
	}

	row := electionModel{
		ID:                 election.ElectionID,
		Title:              election.Title,
		Type:               string(election.Type),
		Status:             string(election.Status),
		CreatedBy:          election.CreatedBy,
		CreatedAt:          election.CreatedAt,
		OpenedAt:           election.OpenedAt,
		ClosedAt:           election.ClosedAt,
		CertifiedAt:        election.CertifiedAt,
		CertifiedBy:        election.CertifiedBy,
		ScheduledCloseDate: election.ScheduledCloseDate,
		NoticeDate:         election.NoticeDate,
		QuorumRequired:     election.QuorumRequired,
		LinkedCaseID:       election.LinkedCaseID,
		LinkedMeetingID:    election.LinkedMeetingID,
		BallotItems:        ballotItems,
		ComplianceChecks:   complianceChecks,
		Timeline:           timeline,
		Comments:           comments,
		Resolution:         resolution,
		UpdatedAt:          election.UpdatedAt,
	}

	ballots := make([]ballotModel, 0, len(election.Ballots))
	for _, ballot := range election.Ballots {
		votes, err := json.Marshal(ballot.Votes)
		if err != nil {
			return electionModel{}, nil, err
		}
		ballots = append(ballots, ballotModel{
			ID:                ballot.BallotID,
			ElectionID:        election.ElectionID,
			UnitNumber:        ballot.UnitNumber,
			Owner:             ballot.Owner,
			VotingPct:         ballot.VotingPct,
			Method:            string(ballot.Method),
			IsProxy:           ballot.IsProxy,
			ProxyVoterName:    ballot.ProxyVoterName,
			ProxyAuthorizedBy: ballot.ProxyAuthorizedBy,
			RecordedBy:        ballot.RecordedBy,
			RecordedAt:        ballot.RecordedAt,
			Votes:             votes,
			Comment:           ballot.Comment,
		})
	}
	return row, ballots, nil
}

func (m electionModel) toEntity(ballots []ballotModel) (entities.Election, error) {
	election := entities.Election{
		ElectionID:         m.ID,
		Title:              m.Title,
		Type:               entities.ElectionType(m.Type),
		Status:             entities.ElectionStatus(m.Status),
		CreatedBy:          m.CreatedBy,
		CreatedAt:          m.CreatedAt,
		OpenedAt:           m.OpenedAt,
		ClosedAt:           m.ClosedAt,
		CertifiedAt:        m.CertifiedAt,
		CertifiedBy:        m.CertifiedBy,
		ScheduledCloseDate: m.ScheduledCloseDate,
		NoticeDate:         m.NoticeDate,
		QuorumRequired:     m.QuorumRequired,
		LinkedCaseID:       m.LinkedCaseID,
		LinkedMeetingID:    m.LinkedMeetingID,
		UpdatedAt:          m.UpdatedAt,
	}
	if len(m.BallotItems) > 0 {
		if err := json.Unmarshal(m.BallotItems, &election.BallotItems); err != nil {
			return entities.Election{}, err
		}
	}
	if len(m.ComplianceChecks) > 0 {
		if err := json.Unmarshal(m.ComplianceChecks, &election.ComplianceChecks); err != nil {
			return entities.Election{}, err
		}
	}
	if len(m.Timeline) > 0 {
		if err := json.Unmarshal(m.Timeline, &election.Timeline); err != nil {
			return entities.Election{}, err
		}
	}
	if len(m.Comments) > 0 {
		if err := json.Unmarshal(m.Comments, &election.Comments); err != nil {
			return entities.Election{}, err
		}
	}
	if len(m.Resolution) > 0 {
		var resolution entities.Resolution
		if err := json.Unmarshal(m.Resolution, &resolution); err != nil {
			return entities.Election{}, err
		}
		election.Resolution = &resolution
	}
	for _, row := range ballots {
		votes := make(map[string]entities.Vote)
		if len(row.Votes) > 0 {
			if err := json.Unmarshal(row.Votes, &votes); err != nil {
				return entities.Election{}, err
			}
		}
		election.Ballots = append(election.Ballots, entities.Ballot{
			BallotID:          row.ID,
			UnitNumber:        row.UnitNumber,
			Owner:             row.Owner,
			VotingPct:         row.VotingPct,
			Method:            entities.BallotMethod(row.Method),
			IsProxy:           row.IsProxy,
			ProxyVoterName:    row.ProxyVoterName,
			ProxyAuthorizedBy: row.ProxyAuthorizedBy,
			RecordedBy:        row.RecordedBy,
			RecordedAt:        row.RecordedAt,
			Votes:             votes,
			Comment:           row.Comment,
		})
	}
	return election, nil
}
