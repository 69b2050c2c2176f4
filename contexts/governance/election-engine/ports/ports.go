package ports

import (
	"context"
	"encoding/json"
	"time"

	"strata/contexts/governance/election-engine/domain/entities"
)

// UnitStatusOccupied is the ownership-registry status that makes a unit
// eligible to vote directly.
const UnitStatusOccupied = "occupied"

// RegistryUnit is the ownership registry's per-unit view, supplied at call
// time by the host. The engine never caches it.
type RegistryUnit struct {
	UnitNumber string
	Owner      string
	VotingPct  float64
	Status     string
}

func (u RegistryUnit) Occupied() bool {
	return u.Status == UnitStatusOccupied
}

// RegistrySnapshot is the full registry at one point in time.
type RegistrySnapshot struct {
	Units []RegistryUnit
}

// Find returns the registry entry for unitNumber.
func (s RegistrySnapshot) Find(unitNumber string) (RegistryUnit, bool) {
	for _, unit := range s.Units {
		if unit.UnitNumber == unitNumber {
			return unit, true
		}
	}
	return RegistryUnit{}, false
}

// GoverningDocument is the document registry's metadata view used by the
// compliance rule engine to check bylaw/CC&R availability.
type GoverningDocument struct {
	Name   string
	Kind   string
	Status string
}

type ElectionRepository interface {
	SaveElection(ctx context.Context, election entities.Election) error
	GetElection(ctx context.Context, electionID string) (entities.Election, error)
	DeleteElection(ctx context.Context, electionID string) error
	ListElections(ctx context.Context) ([]entities.Election, error)
}

// EventEnvelope is the wire shape appended to the outbox and published to the
// event bus by the relay worker.
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	OccurredAt    time.Time       `json:"occurred_at"`
	SourceService string          `json:"source_service"`
	TraceID       string          `json:"trace_id"`
	SchemaVersion int             `json:"schema_version"`
	PartitionKey  string          `json:"partition_key"`
	Data          json.RawMessage `json:"data"`
}

type OutboxMessage struct {
	OutboxID    string
	EventType   string
	Payload     []byte
	Status      string
	RetryCount  int
	CreatedAt   time.Time
	PublishedAt *time.Time
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, event EventEnvelope) error
}

type OutboxRepository interface {
	OutboxWriter
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
