package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	refereeassignment "refdesk/contexts/peer-review/referee-assignment-service"
	eventsadapter "refdesk/contexts/peer-review/referee-assignment-service/adapters/events"
	"refdesk/contexts/peer-review/referee-assignment-service/adapters/memory"
	postgresadapter "refdesk/contexts/peer-review/referee-assignment-service/adapters/postgres"
	sqliteadapter "refdesk/contexts/peer-review/referee-assignment-service/adapters/sqlite"
	"refdesk/contexts/peer-review/referee-assignment-service/adapters/validation"
	workerapp "refdesk/contexts/peer-review/referee-assignment-service/application/workers"
	"refdesk/contexts/peer-review/referee-assignment-service/ports"
	"refdesk/internal/platform/config"
	"refdesk/internal/platform/db"
	"refdesk/internal/platform/httpserver"
	"refdesk/internal/platform/messaging"
	platformotel "refdesk/internal/platform/otel"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server      *httpserver.Server
	storage     storage
	relay       *workerapp.OutboxRelay
	invitations *workerapp.InvitationConsumer
	relayEvery  time.Duration
	otelCleanup func(context.Context) error
	logger      *slog.Logger
}

type WorkerApp struct {
	storage      storage
	outboxRelay  workerapp.OutboxRelay
	pollInterval time.Duration
	otelCleanup  func(context.Context) error
	logger       *slog.Logger
}

// storage bundles the ports one backend provides plus its close hook.
type storage struct {
	backend string
	kv      ports.KeyValueStore
	outbox  ports.OutboxRepository
	clock   ports.Clock
	idGen   ports.IDGenerator
	close   func() error
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg, "api")

	otelCleanup, err := platformotel.Setup(context.Background(), cfg.ServiceName, cfg.OTELEndpoint)
	if err != nil {
		return nil, fmt.Errorf("setup tracing: %w", err)
	}

	store, err := openStorage(cfg, logger)
	if err != nil {
		_ = otelCleanup(context.Background())
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		_ = store.close()
		_ = otelCleanup(context.Background())
		return nil, err
	}

	var notifier ports.InvitationNotifier
	var invitations *workerapp.InvitationConsumer
	if cfg.EnableInvitationRelay {
		notifier = eventsadapter.InvitationNotifier{
			Publisher: kafka,
			IDGen:     store.idGen,
			Clock:     store.clock,
			Logger:    logger,
		}
		// The bus is in-process, so its consumer runs next to the notifier.
		invitations = &workerapp.InvitationConsumer{
			Subscriber: kafka,
			KV:         store.kv,
			Clock:      store.clock,
			Logger:     logger,
		}
	}

	module := refereeassignment.NewModule(refereeassignment.Dependencies{
		KV:              store.kv,
		Outbox:          store.outbox,
		Notifier:        notifier,
		Validator:       validation.MailValidator{},
		Clock:           store.clock,
		IDGenerator:     store.idGen,
		AssignmentLimit: cfg.ReviewerAssignmentLimit,
		Logger:          logger,
	})

	app := &APIApp{
		server:      httpserver.New(module, logger, normalizeAddr(cfg.HTTPPort)),
		storage:     store,
		invitations: invitations,
		relayEvery:  cfg.OutboxPollInterval,
		otelCleanup: otelCleanup,
		logger:      logger,
	}
	// The memory outbox lives in this process, so the API relays it itself.
	if store.backend == config.StorageMemory {
		app.relay = &workerapp.OutboxRelay{
			Outbox:    store.outbox,
			Publisher: kafka,
			Clock:     store.clock,
			BatchSize: cfg.OutboxBatchSize,
			Logger:    logger,
		}
	}
	return app, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg, "worker")
	if cfg.StorageBackend == config.StorageMemory {
		return nil, errors.New("worker requires STORAGE_BACKEND=postgres or sqlite")
	}

	otelCleanup, err := platformotel.Setup(context.Background(), cfg.ServiceName, cfg.OTELEndpoint)
	if err != nil {
		return nil, fmt.Errorf("setup tracing: %w", err)
	}

	store, err := openStorage(cfg, logger)
	if err != nil {
		_ = otelCleanup(context.Background())
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		_ = store.close()
		_ = otelCleanup(context.Background())
		return nil, err
	}

	return &WorkerApp{
		storage: store,
		outboxRelay: workerapp.OutboxRelay{
			Outbox:    store.outbox,
			Publisher: kafka,
			Clock:     store.clock,
			BatchSize: cfg.OutboxBatchSize,
			Logger:    logger,
		},
		pollInterval: cfg.OutboxPollInterval,
		otelCleanup:  otelCleanup,
		logger:       logger,
	}, nil
}

func openStorage(cfg config.Config, logger *slog.Logger) (storage, error) {
	switch cfg.StorageBackend {
	case config.StoragePostgres:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		pg, err := db.Connect(ctx, cfg.PostgresDSN, db.PoolConfig{
			MaxOpenConns:    cfg.PostgresMaxOpenConns,
			MaxIdleConns:    cfg.PostgresMaxIdleConns,
			ConnMaxLifetime: cfg.PostgresConnMaxLifetime,
		})
		if err != nil {
			return storage{}, err
		}
		repo := postgresadapter.NewRepository(pg.DB, logger)
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = pg.Close()
			return storage{}, fmt.Errorf("ensure postgres schema: %w", err)
		}
		return storage{
			backend: cfg.StorageBackend,
			kv:      repo,
			outbox:  repo,
			clock:   postgresadapter.SystemClock{},
			idGen:   postgresadapter.UUIDGenerator{},
			close:   pg.Close,
		}, nil
	case config.StorageSQLite:
		store, err := sqliteadapter.Open(cfg.SQLitePath)
		if err != nil {
			return storage{}, err
		}
		return storage{
			backend: cfg.StorageBackend,
			kv:      store,
			outbox:  store,
			clock:   postgresadapter.SystemClock{},
			idGen:   postgresadapter.UUIDGenerator{},
			close:   store.Close,
		}, nil
	default:
		store := memory.NewStore()
		return storage{
			backend: config.StorageMemory,
			kv:      store,
			outbox:  store,
			clock:   store,
			idGen:   store,
			close:   func() error { return nil },
		}, nil
	}
}

func (a *APIApp) Run(ctx context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
			"storage_backend", a.storage.backend,
		)
	}
	if a.invitations != nil {
		if err := a.invitations.Start(ctx); err != nil {
			return fmt.Errorf("start invitation consumer: %w", err)
		}
	}
	if a.relay != nil {
		go runRelayLoop(ctx, *a.relay, a.relayEvery, a.logger)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	}
}

func (a *APIApp) Close() error {
	var errs []error
	if a.storage.close != nil {
		errs = append(errs, a.storage.close())
	}
	if a.otelCleanup != nil {
		errs = append(errs, a.otelCleanup(context.Background()))
	}
	return errors.Join(errs...)
}

func (w *WorkerApp) Run(ctx context.Context) error {
	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
		"storage_backend", w.storage.backend,
	)

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

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
	var errs []error
	if w.storage.close != nil {
		errs = append(errs, w.storage.close())
	}
	if w.otelCleanup != nil {
		errs = append(errs, w.otelCleanup(context.Background()))
	}
	return errors.Join(errs...)
}

// runRelayLoop keeps relaying after failures; rows stay pending until published.
func runRelayLoop(ctx context.Context, relay workerapp.OutboxRelay, every time.Duration, logger *slog.Logger) {
	if every <= 0 {
		every = 2 * time.Second
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		if err := relay.RunOnce(ctx); err != nil && logger != nil {
			logger.Warn("in-process outbox relay cycle failed",
				"event", "bootstrap_relay_cycle_failed",
				"module", "internal/app/bootstrap",
				"layer", "platform",
				"error", err.Error(),
			)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func newLogger(cfg config.Config, process string) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)})
	logger := slog.New(handler).With("service", cfg.ServiceName, "process", process)
	slog.SetDefault(logger)
	return logger
}

func parseLevel(raw string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(raw))); err != nil {
		return slog.LevelInfo
	}
	return level
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
