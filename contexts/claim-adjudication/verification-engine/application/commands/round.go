package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	application "github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/application"
	"github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/domain/entities"
	domainerrors "github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/domain/errors"
	"github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/ports"
)

// InitiateRoundCommand opens voting for a disputed claim. Only the
// configured claim-registry identity may issue it.
type InitiateRoundCommand struct {
	CallerID string
	ClaimID  string
}

// RoundUseCase owns round lifecycle outside ballot casting: initiation by
// the submission authority and the expiry sweep that settles rounds whose
// window ran out without a closing ballot.
type RoundUseCase struct {
	Stakes   ports.StakeRepository
	Rounds   ports.RoundRepository
	Votes    ports.VoteRepository
	Config   ports.ConfigRepository
	Ledger   ports.ValueLedger
	Registry ports.ClaimRegistry
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Params   entities.VerificationParams
	Locks    *application.KeyedMutex
	Logger   *slog.Logger
}

// InitiateRound opens the single round a claim will ever have. Initiation is
// deliberately not gated by pause: disputes keep entering the queue while
// guardian mutations are suspended.
func (uc RoundUseCase) InitiateRound(ctx context.Context, cmd InitiateRoundCommand) (entities.VotingRound, error) {
	logger := application.ResolveLogger(uc.Logger)
	callerID := strings.TrimSpace(cmd.CallerID)
	claimID := strings.TrimSpace(cmd.ClaimID)
	if callerID == "" || claimID == "" {
		return entities.VotingRound{}, domainerrors.ErrInvalidInput
	}

	cfg, err := adminConfig(ctx, uc.Config)
	if err != nil {
		return entities.VotingRound{}, err
	}
	if cfg.ClaimRegistryID == "" || callerID != cfg.ClaimRegistryID {
		logger.Warn("round initiation rejected",
			"event", "verification_round_initiate_unauthorized",
			"module", "claim-adjudication/verification-engine",
			"layer", "application",
			"caller_id", callerID,
			"claim_id", claimID,
		)
		return entities.VotingRound{}, domainerrors.ErrUnauthorized
	}

	unlock := uc.Locks.Lock(claimLockKey(claimID))
	defer unlock()

	if _, exists, err := uc.Rounds.GetRound(ctx, claimID); err != nil {
		return entities.VotingRound{}, err
	} else if exists {
		return entities.VotingRound{}, domainerrors.ErrRoundAlreadyExists
	}

	now := uc.now()
	round := entities.VotingRound{
		ClaimID:   claimID,
		StartedAt: now,
		CreatedAt: now,
		UpdatedAt: now,
	}

	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.VotingRound{}, err
	}
	envelope, err := newVerificationEnvelope(eventID, eventRoundInitiated, "claim_id", claimID, now, map[string]any{
		"claim_id":   claimID,
		"started_at": now,
	})
	if err != nil {
		return entities.VotingRound{}, err
	}

	if err := uc.Rounds.CreateRound(ctx, ports.RoundCreationInput{
		Round:     round,
		Envelopes: []ports.EventEnvelope{envelope},
	}); err != nil {
		return entities.VotingRound{}, err
	}

	logger.Info("voting round initiated",
		"event", "verification_round_initiated",
		"module", "claim-adjudication/verification-engine",
		"layer", "application",
		"claim_id", claimID,
		"started_at", now,
	)
	return round, nil
}

// CloseExpired settles every open round whose voting window has elapsed, up
// to limit rounds per sweep. It returns how many rounds it closed and stops
// on the first failure so the polling caller retries the remainder.
func (uc RoundUseCase) CloseExpired(ctx context.Context, limit int) (int, error) {
	logger := application.ResolveLogger(uc.Logger)
	if limit <= 0 {
		limit = 50
	}
	now := uc.now()
	cutoff := now.Add(-uc.Params.VotingPeriod)

	expired, err := uc.Rounds.ListExpiredOpenRounds(ctx, cutoff, limit)
	if err != nil {
		return 0, err
	}

	closed := 0
	for _, candidate := range expired {
		if err := uc.closeExpiredRound(ctx, candidate.ClaimID, now); err != nil {
			if errors.Is(err, errRoundNotExpirable) {
				continue
			}
			logger.Error("expired round settlement failed",
				"event", "verification_round_expiry_failed",
				"module", "claim-adjudication/verification-engine",
				"layer", "application",
				"claim_id", candidate.ClaimID,
				"error", err.Error(),
			)
			return closed, err
		}
		closed++
	}

	if closed > 0 {
		logger.Info("expired rounds settled",
			"event", "verification_round_expiry_completed",
			"module", "claim-adjudication/verification-engine",
			"layer", "application",
			"closed_count", closed,
		)
	}
	return closed, nil
}

// errRoundNotExpirable marks rounds that left the expirable state between
// listing and locking, which is expected under concurrent ballots.
var errRoundNotExpirable = errors.New("round not expirable")

func (uc RoundUseCase) closeExpiredRound(ctx context.Context, claimID string, now time.Time) error {
	unlock := uc.Locks.Lock(claimLockKey(claimID))
	defer unlock()

	round, found, err := uc.Rounds.GetRound(ctx, claimID)
	if err != nil {
		return err
	}
	if !found || round.Closed || !round.WindowElapsed(now, uc.Params.VotingPeriod) {
		return errRoundNotExpirable
	}

	ballots, err := uc.Votes.ListVotesForClaim(ctx, claimID)
	if err != nil {
		return err
	}
	records := make(map[string]entities.StakeRecord, len(ballots))
	for _, ballot := range ballots {
		if _, ok := records[ballot.GuardianID]; ok {
			continue
		}
		record, found, err := uc.Stakes.GetStakeRecord(ctx, ballot.GuardianID)
		if err != nil {
			return err
		}
		if found {
			records[ballot.GuardianID] = record
		}
	}

	closed, slashed, envelopes, err := settleRound(
		ctx, uc.Ledger, uc.Registry, uc.IDGen,
		round, ballots, records, uc.Params, now,
	)
	if err != nil {
		return err
	}

	return uc.Votes.CommitClosure(ctx, ports.ClosureInput{
		Round:     closed,
		Stakes:    slashed,
		Envelopes: envelopes,
	})
}

func (uc RoundUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
