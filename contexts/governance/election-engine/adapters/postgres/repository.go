package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"strata/contexts/governance/election-engine/domain/entities"
	domainerrors "strata/contexts/governance/election-engine/domain/errors"
	"strata/contexts/governance/election-engine/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// SaveElection persists the whole aggregate in one transaction: header row
// upsert, ballot rows reconciled against the aggregate's ballot list.
func (r *Repository) SaveElection(ctx context.Context, election entities.Election) error {
	row, ballots, err := electionModelFromEntity(election)
	if err != nil {
		return err
	}
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		upsert := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"title":                row.Title,
				"type":                 row.Type,
				"status":               row.Status,
				"opened_at":            row.OpenedAt,
				"closed_at":            row.ClosedAt,
				"certified_at":         row.CertifiedAt,
				"certified_by":         row.CertifiedBy,
				"scheduled_close_date": row.ScheduledCloseDate,
				"notice_date":          row.NoticeDate,
				"quorum_required":      row.QuorumRequired,
				"linked_case_id":       row.LinkedCaseID,
				"linked_meeting_id":    row.LinkedMeetingID,
				"ballot_items":         row.BallotItems,
				"compliance_checks":    row.ComplianceChecks,
				"timeline":             row.Timeline,
				"comments":             row.Comments,
				"resolution":           row.Resolution,
				"updated_at":           row.UpdatedAt,
			}),
		}).Create(&row)
		if upsert.Error != nil {
			return upsert.Error
		}

		ballotIDs := make([]string, 0, len(ballots))
		for _, ballot := range ballots {
			ballotIDs = append(ballotIDs, ballot.ID)
		}
		removal := tx.Where("election_id = ?", row.ID)
		if len(ballotIDs) > 0 {
			removal = removal.Where("id NOT IN ?", ballotIDs)
		}
		if err := removal.Delete(&ballotModel{}).Error; err != nil {
			return err
		}
		for _, ballot := range ballots {
			create := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "election_id"}, {Name: "unit_number"}},
				DoUpdates: clause.Assignments(map[string]any{
					"owner":               ballot.Owner,
					"voting_pct":          ballot.VotingPct,
					"method":              ballot.Method,
					"is_proxy":            ballot.IsProxy,
					"proxy_voter_name":    ballot.ProxyVoterName,
					"proxy_authorized_by": ballot.ProxyAuthorizedBy,
					"recorded_by":         ballot.RecordedBy,
					"recorded_at":         ballot.RecordedAt,
					"votes":               ballot.Votes,
					"comment":             ballot.Comment,
				}),
			}).Create(&ballot)
			if create.Error != nil {
				return create.Error
			}
		}
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrDuplicateBallot
		}
		return r.logError("election_repo_save_failed", err,
			"election_id", strings.TrimSpace(election.ElectionID),
		)
	}
	return nil
}

func (r *Repository) GetElection(ctx context.Context, electionID string) (entities.Election, error) {
	var row electionModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(electionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Election{}, domainerrors.ErrElectionNotFound
		}
		return entities.Election{}, r.logError("election_repo_get_failed", err, "election_id", strings.TrimSpace(electionID))
	}

	var ballots []ballotModel
	if err := r.db.WithContext(ctx).
		Where("election_id = ?", row.ID).
		Order("recorded_at asc").
		Find(&ballots).
		Error; err != nil {
		return entities.Election{}, r.logError("election_repo_get_ballots_failed", err, "election_id", row.ID)
	}
	return row.toEntity(ballots)
}

func (r *Repository) DeleteElection(ctx context.Context, electionID string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("election_id = ?", strings.TrimSpace(electionID)).Delete(&ballotModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", strings.TrimSpace(electionID)).Delete(&electionModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrElectionNotFound
		}
		return nil
	})
	if err != nil && !errors.Is(err, domainerrors.ErrElectionNotFound) {
		return r.logError("election_repo_delete_failed", err, "election_id", strings.TrimSpace(electionID))
	}
	return err
}

func (r *Repository) ListElections(ctx context.Context) ([]entities.Election, error) {
	var rows []electionModel
	if err := r.db.WithContext(ctx).
		Order("created_at asc").
		Find(&rows).
		Error; err != nil {
		return nil, r.logError("election_repo_list_failed", err)
	}

	elections := make([]entities.Election, 0, len(rows))
	for _, row := range rows {
		var ballots []ballotModel
		if err := r.db.WithContext(ctx).
			Where("election_id = ?", row.ID).
			Order("recorded_at asc").
			Find(&ballots).
			Error; err != nil {
			return nil, r.logError("election_repo_list_ballots_failed", err, "election_id", row.ID)
		}
		election, err := row.toEntity(ballots)
		if err != nil {
			return nil, err
		}
		elections = append(elections, election)
	}
	return elections, nil
}

func (r *Repository) AppendOutbox(ctx context.Context, event ports.EventEnvelope) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	row := outboxModel{
		ID:        event.EventID,
		EventType: event.EventType,
		Payload:   payload,
		Status:    outboxStatusPending,
		CreatedAt: event.OccurredAt,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return r.logError("election_repo_outbox_append_failed", err, "event_id", event.EventID)
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at asc").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, r.logError("election_repo_outbox_list_failed", err)
	}
	messages := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, ports.OutboxMessage{
			OutboxID:    row.ID,
			EventType:   row.EventType,
			Payload:     row.Payload,
			Status:      row.Status,
			RetryCount:  row.RetryCount,
			CreatedAt:   row.CreatedAt,
			PublishedAt: row.PublishedAt,
		})
	}
	return messages, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("id = ?", outboxID).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt,
		})
	if result.Error != nil {
		return r.logError("election_repo_outbox_mark_failed", result.Error, "outbox_id", outboxID)
	}
	return nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	attrs := append([]any{
		"event", event,
		"module", "governance/election-engine",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("election repository operation failed", attrs...)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// SystemClock and UUIDGenerator satisfy the engine's Clock/IDGenerator ports
// for production wiring.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
