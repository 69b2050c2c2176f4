package commands

import (
	"encoding/json"
	"time"

	"strata/contexts/governance/election-engine/ports"
)

func newElectionEnvelope(
	eventID string,
	eventType string,
	electionID string,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	// Events are partitioned by election so downstream consumers observe each
	// election's lifecycle in order.
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:       eventID,
		EventType:     eventType,
		OccurredAt:    occurredAt.UTC(),
		SourceService: "election-engine",
		TraceID:       eventID,
		SchemaVersion: 1,
		PartitionKey:  electionID,
		Data:          payload,
	}, nil
}
