package unit

import (
	"context"
	"errors"
	"testing"

	electionengine "strata/contexts/governance/election-engine"
	"strata/contexts/governance/election-engine/application/workers"
	"strata/contexts/governance/election-engine/ports"
)

type capturePublisher struct {
	published []ports.EventEnvelope
	topics    []string
	failAfter int
}

func (p *capturePublisher) Publish(_ context.Context, topic string, event ports.EventEnvelope) error {
	if p.failAfter > 0 && len(p.published) >= p.failAfter {
		return errors.New("broker unavailable")
	}
	p.published = append(p.published, event)
	p.topics = append(p.topics, topic)
	return nil
}

func seedLifecycleEvents(t *testing.T, module electionengine.Module) {
	t.Helper()
	ctx := context.Background()
	electionID, itemID := createOpenBudgetElection(t, module)
	if _, err := module.Handler.RecordBallotHandler(ctx, electionID, "manager", approveBallot("101", itemID), fourUnitRegistry()); err != nil {
		t.Fatalf("record ballot failed: %v", err)
	}
	if _, err := module.Handler.CloseElectionHandler(ctx, electionID, "board"); err != nil {
		t.Fatalf("close failed: %v", err)
	}
}

func TestOutboxRelayPublishesPendingEvents(t *testing.T) {
	module := electionengine.NewInMemoryModule(nil, nil)
	seedLifecycleEvents(t, module)

	publisher := &capturePublisher{}
	relay := workers.OutboxRelay{
		Outbox:    module.Store,
		Publisher: publisher,
		Clock:     module.Store,
		BatchSize: 10,
	}
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("relay run failed: %v", err)
	}

	if len(publisher.published) != 3 {
		t.Fatalf("expected 3 published events, got %d", len(publisher.published))
	}
	if publisher.topics[0] != "election.opened" || publisher.topics[1] != "ballot.recorded" || publisher.topics[2] != "election.closed" {
		t.Fatalf("unexpected topic order: %v", publisher.topics)
	}
	if got := module.Store.PendingOutboxCount(); got != 0 {
		t.Fatalf("expected drained outbox, got %d pending", got)
	}

	// A second cycle over an empty outbox publishes nothing.
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("idle relay run failed: %v", err)
	}
	if len(publisher.published) != 3 {
		t.Fatalf("expected no republishing, got %d", len(publisher.published))
	}
}

func TestOutboxRelayStopsOnPublishFailure(t *testing.T) {
	module := electionengine.NewInMemoryModule(nil, nil)
	seedLifecycleEvents(t, module)

	publisher := &capturePublisher{failAfter: 1}
	relay := workers.OutboxRelay{
		Outbox:    module.Store,
		Publisher: publisher,
		Clock:     module.Store,
		BatchSize: 10,
	}
	if err := relay.RunOnce(context.Background()); err == nil {
		t.Fatalf("expected relay error on publish failure")
	}

	// The failed row and everything after it stay pending for retry.
	if got := module.Store.PendingOutboxCount(); got != 2 {
		t.Fatalf("expected 2 rows pending after failure, got %d", got)
	}
}
