package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/application"
	"github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/domain/entities"
	domainerrors "github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/domain/errors"
	"github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/ports"
)

const adminConfigLockKey = "admin-config"

// AdminUseCase guards the singleton admin record. Every mutation requires
// the caller to hold the gate; pause and unpause are idempotent.
type AdminUseCase struct {
	Config ports.ConfigRepository
	Clock  ports.Clock
	Locks  *application.KeyedMutex
	Logger *slog.Logger
}

func (uc AdminUseCase) Pause(ctx context.Context, callerID string) (entities.AdminConfig, error) {
	return uc.setPaused(ctx, callerID, true)
}

func (uc AdminUseCase) Unpause(ctx context.Context, callerID string) (entities.AdminConfig, error) {
	return uc.setPaused(ctx, callerID, false)
}

func (uc AdminUseCase) setPaused(ctx context.Context, callerID string, paused bool) (entities.AdminConfig, error) {
	logger := application.ResolveLogger(uc.Logger)
	unlock := uc.Locks.Lock(adminConfigLockKey)
	defer unlock()

	cfg, err := uc.authorized(ctx, callerID)
	if err != nil {
		return entities.AdminConfig{}, err
	}

	cfg.Paused = paused
	cfg.UpdatedAt = uc.now()
	if err := uc.Config.SaveAdminConfig(ctx, cfg); err != nil {
		return entities.AdminConfig{}, err
	}

	logger.Info("pause flag updated",
		"event", "verification_admin_pause_updated",
		"module", "claim-adjudication/verification-engine",
		"layer", "application",
		"paused", paused,
	)
	return cfg, nil
}

func (uc AdminUseCase) SetAdmin(ctx context.Context, callerID string, newAdminID string) (entities.AdminConfig, error) {
	return uc.update(ctx, callerID, "verification_admin_transferred", newAdminID, func(cfg *entities.AdminConfig, value string) {
		cfg.AdminID = value
	})
}

func (uc AdminUseCase) SetValueLedger(ctx context.Context, callerID string, ledgerID string) (entities.AdminConfig, error) {
	return uc.update(ctx, callerID, "verification_admin_ledger_updated", ledgerID, func(cfg *entities.AdminConfig, value string) {
		cfg.ValueLedgerID = value
	})
}

func (uc AdminUseCase) SetClaimRegistry(ctx context.Context, callerID string, registryID string) (entities.AdminConfig, error) {
	return uc.update(ctx, callerID, "verification_admin_registry_updated", registryID, func(cfg *entities.AdminConfig, value string) {
		cfg.ClaimRegistryID = value
	})
}

func (uc AdminUseCase) update(
	ctx context.Context,
	callerID string,
	event string,
	value string,
	apply func(*entities.AdminConfig, string),
) (entities.AdminConfig, error) {
	logger := application.ResolveLogger(uc.Logger)
	value = strings.TrimSpace(value)
	if value == "" {
		return entities.AdminConfig{}, domainerrors.ErrInvalidInput
	}

	unlock := uc.Locks.Lock(adminConfigLockKey)
	defer unlock()

	cfg, err := uc.authorized(ctx, callerID)
	if err != nil {
		return entities.AdminConfig{}, err
	}

	apply(&cfg, value)
	cfg.UpdatedAt = uc.now()
	if err := uc.Config.SaveAdminConfig(ctx, cfg); err != nil {
		return entities.AdminConfig{}, err
	}

	logger.Info("admin config updated",
		"event", event,
		"module", "claim-adjudication/verification-engine",
		"layer", "application",
	)
	return cfg, nil
}

func (uc AdminUseCase) authorized(ctx context.Context, callerID string) (entities.AdminConfig, error) {
	cfg, err := adminConfig(ctx, uc.Config)
	if err != nil {
		return entities.AdminConfig{}, err
	}
	callerID = strings.TrimSpace(callerID)
	if callerID == "" || cfg.AdminID == "" || callerID != cfg.AdminID {
		return entities.AdminConfig{}, domainerrors.ErrUnauthorized
	}
	return cfg, nil
}

func (uc AdminUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

// adminConfig returns the stored admin record, or the zero record when the
// gate was never seeded. A zero record leaves every admin operation and
// round initiation rejected until bootstrap seeds it.
func adminConfig(ctx context.Context, repo ports.ConfigRepository) (entities.AdminConfig, error) {
	cfg, found, err := repo.GetAdminConfig(ctx)
	if err != nil {
		return entities.AdminConfig{}, err
	}
	if !found {
		return entities.AdminConfig{}, nil
	}
	return cfg, nil
}
