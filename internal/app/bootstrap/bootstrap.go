package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	ownershipregistry "strata/contexts/community/ownership-registry"
	registrypostgres "strata/contexts/community/ownership-registry/adapters/postgres"
	documentregistry "strata/contexts/governance/document-registry"
	documentpostgres "strata/contexts/governance/document-registry/adapters/postgres"
	electionengine "strata/contexts/governance/election-engine"
	electionpostgres "strata/contexts/governance/election-engine/adapters/postgres"
	electionworkers "strata/contexts/governance/election-engine/application/workers"
	electionports "strata/contexts/governance/election-engine/ports"
	"strata/internal/platform/config"
	"strata/internal/platform/db"
	"strata/internal/platform/httpserver"
	"strata/internal/platform/messaging"
	"strata/internal/shared/events"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	outboxRelay  electionworkers.OutboxRelay
	enabled      bool
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	electionRepo := electionpostgres.NewRepository(pg.DB, logger)
	electionModule := electionengine.NewModule(electionengine.Dependencies{
		Elections: electionRepo,
		Outbox:    electionRepo,
		Clock:     electionpostgres.SystemClock{},
		IDGen:     electionpostgres.UUIDGenerator{},
		Logger:    logger,
	})

	registryRepo := registrypostgres.NewRepository(pg.DB, logger)
	registryModule := ownershipregistry.NewModule(ownershipregistry.Dependencies{
		Units:  registryRepo,
		Clock:  registrypostgres.SystemClock{},
		Logger: logger,
	})

	documentRepo := documentpostgres.NewRepository(pg.DB, logger)
	documentModule := documentregistry.NewModule(documentregistry.Dependencies{
		Documents: documentRepo,
		Clock:     documentpostgres.SystemClock{},
		IDGen:     documentpostgres.UUIDGenerator{},
		Logger:    logger,
	})

	server := httpserver.New(
		electionModule,
		registryModule,
		documentModule,
		cfg.DefaultJurisdiction,
		logger,
		normalizeAddr(cfg.HTTPPort),
	)
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	electionRepo := electionpostgres.NewRepository(pg.DB, logger)
	return &WorkerApp{
		postgres: pg,
		outboxRelay: electionworkers.OutboxRelay{
			Outbox:    electionRepo,
			Publisher: busPublisher{bus: kafka},
			Clock:     electionpostgres.SystemClock{},
			BatchSize: cfg.OutboxBatchSize,
			Logger:    logger,
		},
		enabled:      cfg.EnableOutboxRelay,
		pollInterval: cfg.OutboxPollInterval,
		logger:       logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if !w.enabled {
		w.logger.Info("outbox relay disabled",
			"event", "bootstrap_worker_idle",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if err := w.outboxRelay.RunOnce(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

// busPublisher maps election envelopes onto the shared event contract before
// handing them to the platform bus.
type busPublisher struct {
	bus *messaging.Kafka
}

func (p busPublisher) Publish(ctx context.Context, topic string, event electionports.EventEnvelope) error {
	return p.bus.Publish(ctx, topic, events.Envelope{
		EventID:        event.EventID,
		EventType:      event.EventType,
		SourceService:  event.SourceService,
		OccurredAtUTC:  event.OccurredAt,
		CorrelationID:  event.TraceID,
		EntityType:     "election",
		EntityID:       event.PartitionKey,
		PayloadVersion: event.SchemaVersion,
		Payload:        event.Data,
	})
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
