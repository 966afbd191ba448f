package bootstrap

import (
	"context"
	"log/slog"
	"strings"
	"time"

	verificationengine "github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine"
	"github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/adapters/httpclient"
	memoryadapter "github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/adapters/memory"
	postgresadapter "github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/adapters/postgres"
	workerapp "github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/application/workers"
	"github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/domain/entities"
	"github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/ports"
	"github.com/elunojames-cpu/Wildlife-Guardian-Rewards/internal/platform/config"
	"github.com/elunojames-cpu/Wildlife-Guardian-Rewards/internal/platform/db"
	"github.com/elunojames-cpu/Wildlife-Guardian-Rewards/internal/platform/httpserver"
	"github.com/elunojames-cpu/Wildlife-Guardian-Rewards/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

// storage is what both repository backends provide. Clock and id generation
// are wired separately because the postgres adapter keeps them as standalone
// types.
type storage interface {
	ports.StakeRepository
	ports.RoundRepository
	ports.VoteRepository
	ports.ConfigRepository
	ports.OutboxRepository
	ports.EventDedupStore
}

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres       *db.Postgres
	outboxRelay    workerapp.OutboxRelay
	dispute        workerapp.DisputeConsumer
	expirer        workerapp.RoundExpirer
	expirerEnabled bool
	pollInterval   time.Duration
	logger         *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	store, pg, err := openStorage(cfg, logger)
	if err != nil {
		return nil, err
	}

	module := buildModule(cfg, store, logger)
	seedAdminConfig(store, cfg, logger)

	server := httpserver.New(module, logger, normalizeAddr(cfg.HTTPPort), httpserver.RateLimit{
		PerMinute: cfg.RateLimitPerMinute,
		Burst:     cfg.RateLimitBurst,
	})
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
	store, pg, err := openStorage(cfg, logger)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		if pg != nil {
			_ = pg.Close()
		}
		return nil, err
	}

	module := buildModule(cfg, store, logger)
	seedAdminConfig(store, cfg, logger)

	return &WorkerApp{
		postgres: pg,
		outboxRelay: workerapp.OutboxRelay{
			Outbox:    store,
			Publisher: kafka,
			Clock:     postgresadapter.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		},
		dispute: workerapp.DisputeConsumer{
			Subscriber: kafka,
			Dedup:      store,
			Config:     store,
			Rounds:     module.Rounds,
			Clock:      postgresadapter.SystemClock{},
			DedupTTL:   7 * 24 * time.Hour,
			Disabled:   !cfg.EnableDisputeConsumer,
			Logger:     logger,
		},
		expirer: workerapp.RoundExpirer{
			Rounds:    module.Rounds,
			BatchSize: 50,
			Logger:    logger,
		},
		expirerEnabled: cfg.EnableRoundExpirer,
		pollInterval:   2 * time.Second,
		logger:         logger,
	}, nil
}

func openStorage(cfg config.Config, logger *slog.Logger) (storage, *db.Postgres, error) {
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory storage",
			"event", "bootstrap_memory_storage",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
		return memoryadapter.NewStore(), nil, nil
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, nil, err
	}
	if err := postgresadapter.AutoMigrate(pg.DB); err != nil {
		_ = pg.Close()
		return nil, nil, err
	}
	return postgresadapter.NewRepository(pg.DB, logger), pg, nil
}

func buildModule(cfg config.Config, store storage, logger *slog.Logger) verificationengine.Module {
	return verificationengine.NewModule(verificationengine.Dependencies{
		Stakes:   store,
		Rounds:   store,
		Votes:    store,
		Config:   store,
		Ledger:   ledgerFor(cfg, logger),
		Registry: registryFor(cfg, logger),
		Clock:    postgresadapter.SystemClock{},
		IDGen:    postgresadapter.UUIDGenerator{},
		Params: entities.VerificationParams{
			MinStake:             cfg.MinStake,
			VotingPeriod:         cfg.VotingPeriod,
			MajorityThresholdPct: cfg.MajorityThresholdPct,
			RewardPercent:        cfg.RewardPercent,
			SlashPercent:         cfg.SlashPercent,
			MaxVotersPerRound:    cfg.MaxVotersPerRound,
			CustodyAccount:       cfg.CustodyAccount,
			TreasuryAccount:      cfg.TreasuryAccount,
		},
		Logger: logger,
	})
}

func ledgerFor(cfg config.Config, logger *slog.Logger) ports.ValueLedger {
	if url := strings.TrimSpace(cfg.ValueLedgerURL); url != "" {
		return httpclient.NewLedgerClient(url, nil)
	}
	logger.Warn("VALUE_LEDGER_URL not set, falling back to in-memory ledger",
		"event", "bootstrap_memory_ledger",
		"module", "internal/app/bootstrap",
		"layer", "platform",
	)
	return memoryadapter.NewLedger()
}

func registryFor(cfg config.Config, logger *slog.Logger) ports.ClaimRegistry {
	if url := strings.TrimSpace(cfg.ClaimRegistryURL); url != "" {
		return httpclient.NewRegistryClient(url, nil)
	}
	logger.Warn("CLAIM_REGISTRY_URL not set, falling back to in-memory registry",
		"event", "bootstrap_memory_registry",
		"module", "internal/app/bootstrap",
		"layer", "platform",
	)
	return memoryadapter.NewRegistry()
}

// seedAdminConfig installs the bootstrap administrative record once. A record
// already present wins over environment values so runtime admin changes
// survive restarts.
func seedAdminConfig(store storage, cfg config.Config, logger *slog.Logger) {
	adminID := strings.TrimSpace(cfg.AdminID)
	ledgerID := strings.TrimSpace(cfg.ValueLedgerID)
	registryID := strings.TrimSpace(cfg.ClaimRegistryID)
	if adminID == "" && ledgerID == "" && registryID == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, found, err := store.GetAdminConfig(ctx); err != nil || found {
		return
	}
	record := entities.AdminConfig{
		AdminID:         adminID,
		ValueLedgerID:   ledgerID,
		ClaimRegistryID: registryID,
		UpdatedAt:       time.Now().UTC(),
	}
	if err := store.SaveAdminConfig(ctx, record); err != nil {
		logger.Error("admin config seed failed",
			"event", "bootstrap_admin_seed_failed",
			"module", "internal/app/bootstrap",
			"layer", "platform",
			"error", err.Error(),
		)
		return
	}
	logger.Info("admin config seeded",
		"event", "bootstrap_admin_seeded",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"admin_id", adminID,
	)
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
	if err := w.dispute.Start(ctx); err != nil {
		return err
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
		if w.expirerEnabled {
			if err := w.expirer.RunOnce(ctx); err != nil {
				return err
			}
		}
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
