package commands

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"time"

	application "github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/application"
	"github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/domain/entities"
	domainerrors "github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/domain/errors"
	"github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/ports"
)

// StakeCommand deposits verification stake for a guardian.
type StakeCommand struct {
	GuardianID string
	Amount     uint64
}

// UnstakeCommand releases previously deposited stake back to the guardian.
type UnstakeCommand struct {
	GuardianID string
	Amount     uint64
}

// StakeUseCase orchestrates stake deposits and withdrawals. Every record
// mutation pairs with exactly one ledger transfer against the custody
// account, and the record commits only after the transfer succeeded.
type StakeUseCase struct {
	Stakes ports.StakeRepository
	Config ports.ConfigRepository
	Ledger ports.ValueLedger
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Params entities.VerificationParams
	Locks  *application.KeyedMutex
	Logger *slog.Logger
}

// Stake moves amount from the guardian's ledger account into custody and
// grows the stake record, creating it on first deposit. Deposits below the
// minimum stake are rejected before any transfer.
func (uc StakeUseCase) Stake(ctx context.Context, cmd StakeCommand) (entities.StakeRecord, error) {
	logger := application.ResolveLogger(uc.Logger)
	guardianID := strings.TrimSpace(cmd.GuardianID)
	if guardianID == "" {
		return entities.StakeRecord{}, domainerrors.ErrInvalidInput
	}

	unlock := uc.Locks.Lock(guardianLockKey(guardianID))
	defer unlock()

	cfg, err := adminConfig(ctx, uc.Config)
	if err != nil {
		return entities.StakeRecord{}, err
	}
	if cfg.Paused {
		logger.Warn("stake rejected while paused",
			"event", "verification_stake_paused",
			"module", "claim-adjudication/verification-engine",
			"layer", "application",
			"guardian_id", guardianID,
		)
		return entities.StakeRecord{}, domainerrors.ErrPaused
	}
	if cmd.Amount < uc.Params.MinStake {
		logger.Warn("stake below minimum",
			"event", "verification_stake_below_minimum",
			"module", "claim-adjudication/verification-engine",
			"layer", "application",
			"guardian_id", guardianID,
			"amount", cmd.Amount,
			"min_stake", uc.Params.MinStake,
		)
		return entities.StakeRecord{}, domainerrors.ErrInsufficientStake
	}

	now := uc.now()
	record, found, err := uc.Stakes.GetStakeRecord(ctx, guardianID)
	if err != nil {
		return entities.StakeRecord{}, err
	}
	if !found {
		record = entities.StakeRecord{GuardianID: guardianID, CreatedAt: now}
	}
	if record.Staked > math.MaxUint64-cmd.Amount {
		return entities.StakeRecord{}, domainerrors.ErrInvalidAmount
	}

	if err := uc.Ledger.Transfer(ctx, guardianID, uc.Params.CustodyAccount, cmd.Amount); err != nil {
		logger.Error("stake custody transfer failed",
			"event", "verification_stake_transfer_failed",
			"module", "claim-adjudication/verification-engine",
			"layer", "application",
			"guardian_id", guardianID,
			"amount", cmd.Amount,
			"error", err.Error(),
		)
		return entities.StakeRecord{}, integrationError("stake custody transfer", err)
	}

	record.Staked += cmd.Amount
	record.Active = record.Staked >= uc.Params.MinStake
	record.UpdatedAt = now

	envelope, err := uc.stakeEnvelope(ctx, eventStakeDeposited, record, cmd.Amount, now)
	if err != nil {
		return entities.StakeRecord{}, err
	}
	if err := uc.Stakes.CommitStake(ctx, ports.StakeMutationInput{
		Record:    record,
		Envelopes: []ports.EventEnvelope{envelope},
	}); err != nil {
		return entities.StakeRecord{}, err
	}

	logger.Info("stake deposited",
		"event", "verification_stake_deposited",
		"module", "claim-adjudication/verification-engine",
		"layer", "application",
		"guardian_id", guardianID,
		"amount", cmd.Amount,
		"staked", record.Staked,
	)
	return record, nil
}

// Unstake releases amount from custody back to the guardian. Checks run in
// priority order: paused, missing record, zero amount, balance, cool-down.
func (uc StakeUseCase) Unstake(ctx context.Context, cmd UnstakeCommand) (entities.StakeRecord, error) {
	logger := application.ResolveLogger(uc.Logger)
	guardianID := strings.TrimSpace(cmd.GuardianID)
	if guardianID == "" {
		return entities.StakeRecord{}, domainerrors.ErrInvalidInput
	}

	unlock := uc.Locks.Lock(guardianLockKey(guardianID))
	defer unlock()

	cfg, err := adminConfig(ctx, uc.Config)
	if err != nil {
		return entities.StakeRecord{}, err
	}
	if cfg.Paused {
		return entities.StakeRecord{}, domainerrors.ErrPaused
	}

	record, found, err := uc.Stakes.GetStakeRecord(ctx, guardianID)
	if err != nil {
		return entities.StakeRecord{}, err
	}
	if !found {
		return entities.StakeRecord{}, domainerrors.ErrNotStaked
	}
	if cmd.Amount == 0 {
		return entities.StakeRecord{}, domainerrors.ErrInvalidAmount
	}
	if cmd.Amount > record.Staked {
		return entities.StakeRecord{}, domainerrors.ErrInsufficientStake
	}

	now := uc.now()
	if !record.CooldownElapsed(now, uc.Params.VotingPeriod) {
		logger.Warn("unstake blocked by cool-down",
			"event", "verification_unstake_cooldown",
			"module", "claim-adjudication/verification-engine",
			"layer", "application",
			"guardian_id", guardianID,
			"last_voted_at", record.LastVotedAt,
		)
		return entities.StakeRecord{}, domainerrors.ErrUnauthorized
	}

	if err := uc.Ledger.Transfer(ctx, uc.Params.CustodyAccount, guardianID, cmd.Amount); err != nil {
		logger.Error("unstake release transfer failed",
			"event", "verification_unstake_transfer_failed",
			"module", "claim-adjudication/verification-engine",
			"layer", "application",
			"guardian_id", guardianID,
			"amount", cmd.Amount,
			"error", err.Error(),
		)
		return entities.StakeRecord{}, integrationError("unstake release transfer", err)
	}

	record.Staked -= cmd.Amount
	record.Active = record.Staked >= uc.Params.MinStake
	record.UpdatedAt = now

	envelope, err := uc.stakeEnvelope(ctx, eventStakeWithdrawn, record, cmd.Amount, now)
	if err != nil {
		return entities.StakeRecord{}, err
	}
	if err := uc.Stakes.CommitStake(ctx, ports.StakeMutationInput{
		Record:    record,
		Envelopes: []ports.EventEnvelope{envelope},
	}); err != nil {
		return entities.StakeRecord{}, err
	}

	logger.Info("stake withdrawn",
		"event", "verification_stake_withdrawn",
		"module", "claim-adjudication/verification-engine",
		"layer", "application",
		"guardian_id", guardianID,
		"amount", cmd.Amount,
		"staked", record.Staked,
		"active", record.Active,
	)
	return record, nil
}

func (uc StakeUseCase) stakeEnvelope(
	ctx context.Context,
	eventType string,
	record entities.StakeRecord,
	amount uint64,
	now time.Time,
) (ports.EventEnvelope, error) {
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return newVerificationEnvelope(eventID, eventType, "guardian_id", record.GuardianID, now, map[string]any{
		"guardian_id": record.GuardianID,
		"amount":      amount,
		"staked":      record.Staked,
		"active":      record.Active,
	})
}

func (uc StakeUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func guardianLockKey(guardianID string) string {
	return "guardian:" + guardianID
}

func claimLockKey(claimID string) string {
	return "claim:" + claimID
}
