package commands

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	application "github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/application"
	"github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/domain/entities"
	domainerrors "github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/domain/errors"
	"github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/ports"
)

// CastVoteCommand is the write-model input for one ballot.
type CastVoteCommand struct {
	GuardianID string
	ClaimID    string
	Choice     entities.VoteChoice
}

// CastVoteResult returns the recorded ballot and the round state after the
// ballot, including settlement effects when the ballot closed the round.
type CastVoteResult struct {
	Vote  entities.Vote
	Round entities.VotingRound
}

// VoteUseCase orchestrates ballot acceptance and the closure rule. Admission
// checks run in a fixed priority order: paused, unknown claim, ineligible
// stake, duplicate ballot, closed window. An accepted ballot, the tally
// update, the voter's cool-down timestamp, and any settlement effects commit
// as one atomic step, and the closure rule is evaluated exactly once per
// ballot.
type VoteUseCase struct {
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

func (uc VoteUseCase) CastVote(ctx context.Context, cmd CastVoteCommand) (CastVoteResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	guardianID := strings.TrimSpace(cmd.GuardianID)
	claimID := strings.TrimSpace(cmd.ClaimID)
	if guardianID == "" || claimID == "" {
		return CastVoteResult{}, domainerrors.ErrInvalidInput
	}
	if !cmd.Choice.Valid() {
		logger.Warn("ballot rejected for unknown choice",
			"event", "verification_vote_invalid_choice",
			"module", "claim-adjudication/verification-engine",
			"layer", "application",
			"guardian_id", guardianID,
			"claim_id", claimID,
			"choice", string(cmd.Choice),
		)
		return CastVoteResult{}, domainerrors.ErrInvalidVote
	}

	unlockClaim := uc.Locks.Lock(claimLockKey(claimID))
	defer unlockClaim()
	unlockGuardian := uc.Locks.Lock(guardianLockKey(guardianID))
	defer unlockGuardian()

	cfg, err := adminConfig(ctx, uc.Config)
	if err != nil {
		return CastVoteResult{}, err
	}
	if cfg.Paused {
		return CastVoteResult{}, domainerrors.ErrPaused
	}

	round, found, err := uc.Rounds.GetRound(ctx, claimID)
	if err != nil {
		return CastVoteResult{}, err
	}
	if !found {
		return CastVoteResult{}, domainerrors.ErrUnknownClaim
	}

	voter, found, err := uc.Stakes.GetStakeRecord(ctx, guardianID)
	if err != nil {
		return CastVoteResult{}, err
	}
	if !found || !voter.Eligible(uc.Params.MinStake) {
		logger.Warn("ballot rejected for ineligible stake",
			"event", "verification_vote_not_staked",
			"module", "claim-adjudication/verification-engine",
			"layer", "application",
			"guardian_id", guardianID,
			"claim_id", claimID,
		)
		return CastVoteResult{}, domainerrors.ErrNotStaked
	}

	if _, exists, err := uc.Votes.GetVote(ctx, claimID, guardianID); err != nil {
		return CastVoteResult{}, err
	} else if exists {
		return CastVoteResult{}, domainerrors.ErrAlreadyVoted
	}

	now := uc.now()
	if !round.AcceptsVoteAt(now, uc.Params.VotingPeriod) {
		return CastVoteResult{}, domainerrors.ErrVotingClosed
	}
	if round.TotalVotes >= uc.Params.MaxVotersPerRound {
		logger.Warn("ballot rejected at voter capacity",
			"event", "verification_vote_capacity",
			"module", "claim-adjudication/verification-engine",
			"layer", "application",
			"claim_id", claimID,
			"total_votes", round.TotalVotes,
		)
		return CastVoteResult{}, domainerrors.ErrInvalidVote
	}

	vote := entities.Vote{
		ClaimID:    claimID,
		GuardianID: guardianID,
		Choice:     cmd.Choice,
		CastAt:     now,
	}
	if vote.Confirms() {
		round.YesVotes++
	} else {
		round.NoVotes++
	}
	round.TotalVotes++
	round.UpdatedAt = now

	voter.LastVotedAt = now
	voter.UpdatedAt = now

	castID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return CastVoteResult{}, err
	}
	castEnvelope, err := newVerificationEnvelope(castID, eventVoteCast, "claim_id", claimID, now, map[string]any{
		"claim_id":    claimID,
		"guardian_id": guardianID,
		"choice":      string(cmd.Choice),
		"yes_votes":   round.YesVotes,
		"no_votes":    round.NoVotes,
		"total_votes": round.TotalVotes,
	})
	if err != nil {
		return CastVoteResult{}, err
	}

	stakes := []entities.StakeRecord{voter}
	envelopes := []ports.EventEnvelope{castEnvelope}

	if round.ThresholdMet(uc.Params.MajorityThresholdPct) || round.WindowElapsed(now, uc.Params.VotingPeriod) {
		ballots, err := uc.Votes.ListVotesForClaim(ctx, claimID)
		if err != nil {
			return CastVoteResult{}, err
		}
		ballots = append(ballots, vote)

		records := map[string]entities.StakeRecord{guardianID: voter}
		for _, ballot := range ballots {
			if _, ok := records[ballot.GuardianID]; ok {
				continue
			}
			record, found, err := uc.Stakes.GetStakeRecord(ctx, ballot.GuardianID)
			if err != nil {
				return CastVoteResult{}, err
			}
			if found {
				records[ballot.GuardianID] = record
			}
		}

		closed, slashed, closureEnvelopes, err := settleRound(
			ctx, uc.Ledger, uc.Registry, uc.IDGen,
			round, ballots, records, uc.Params, now,
		)
		if err != nil {
			logger.Error("round settlement failed",
				"event", "verification_vote_settlement_failed",
				"module", "claim-adjudication/verification-engine",
				"layer", "application",
				"claim_id", claimID,
				"error", err.Error(),
			)
			return CastVoteResult{}, err
		}
		round = closed
		stakes = mergeStakes(stakes, slashed)
		envelopes = append(envelopes, closureEnvelopes...)
	}

	if err := uc.Votes.CommitBallot(ctx, ports.BallotInput{
		Vote:      vote,
		Round:     round,
		Stakes:    stakes,
		Envelopes: envelopes,
	}); err != nil {
		return CastVoteResult{}, err
	}

	logger.Info("ballot accepted",
		"event", "verification_vote_cast",
		"module", "claim-adjudication/verification-engine",
		"layer", "application",
		"guardian_id", guardianID,
		"claim_id", claimID,
		"choice", string(cmd.Choice),
		"yes_votes", round.YesVotes,
		"no_votes", round.NoVotes,
		"total_votes", round.TotalVotes,
		"closed", round.Closed,
	)
	return CastVoteResult{Vote: vote, Round: round}, nil
}

// mergeStakes overlays settlement-adjusted records on the base set so each
// guardian commits exactly one final record.
func mergeStakes(base []entities.StakeRecord, adjusted []entities.StakeRecord) []entities.StakeRecord {
	byGuardian := make(map[string]entities.StakeRecord, len(base)+len(adjusted))
	for _, record := range base {
		byGuardian[record.GuardianID] = record
	}
	for _, record := range adjusted {
		byGuardian[record.GuardianID] = record
	}
	merged := make([]entities.StakeRecord, 0, len(byGuardian))
	for _, record := range byGuardian {
		merged = append(merged, record)
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].GuardianID < merged[j].GuardianID
	})
	return merged
}

func (uc VoteUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
