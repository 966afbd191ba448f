package queries

import (
	"context"
	"strings"

	"github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/domain/entities"
	domainerrors "github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/domain/errors"
	"github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/ports"
)

// StakeStatus is the stake read model. Found distinguishes a guardian who
// never staked from one whose balance dropped to zero, since both read as
// the zero record.
type StakeStatus struct {
	Record   entities.StakeRecord
	Found    bool
	Eligible bool
}

// RoundView is the round read model with the derived confirm percentage.
type RoundView struct {
	Round      entities.VotingRound
	YesPercent uint64
}

// StatusUseCase serves the read side: stake records, round state, individual
// ballots, and the admin record.
type StatusUseCase struct {
	Stakes ports.StakeRepository
	Rounds ports.RoundRepository
	Votes  ports.VoteRepository
	Config ports.ConfigRepository
	Params entities.VerificationParams
}

// StakeRecord returns the guardian's stake state. Unknown guardians read as
// the zero record because records are created implicitly on first stake.
func (uc StatusUseCase) StakeRecord(ctx context.Context, guardianID string) (StakeStatus, error) {
	guardianID = strings.TrimSpace(guardianID)
	if guardianID == "" {
		return StakeStatus{}, domainerrors.ErrInvalidInput
	}
	record, found, err := uc.Stakes.GetStakeRecord(ctx, guardianID)
	if err != nil {
		return StakeStatus{}, err
	}
	if !found {
		record = entities.StakeRecord{GuardianID: guardianID}
	}
	return StakeStatus{
		Record:   record,
		Found:    found,
		Eligible: found && record.Eligible(uc.Params.MinStake),
	}, nil
}

// Round returns the round for a claim or ErrUnknownClaim.
func (uc StatusUseCase) Round(ctx context.Context, claimID string) (RoundView, error) {
	claimID = strings.TrimSpace(claimID)
	if claimID == "" {
		return RoundView{}, domainerrors.ErrInvalidInput
	}
	round, found, err := uc.Rounds.GetRound(ctx, claimID)
	if err != nil {
		return RoundView{}, err
	}
	if !found {
		return RoundView{}, domainerrors.ErrUnknownClaim
	}
	return RoundView{Round: round, YesPercent: round.YesPercent()}, nil
}

// Vote returns one guardian's ballot on a claim or ErrVoteNotFound.
func (uc StatusUseCase) Vote(ctx context.Context, claimID string, guardianID string) (entities.Vote, error) {
	claimID = strings.TrimSpace(claimID)
	guardianID = strings.TrimSpace(guardianID)
	if claimID == "" || guardianID == "" {
		return entities.Vote{}, domainerrors.ErrInvalidInput
	}
	vote, found, err := uc.Votes.GetVote(ctx, claimID, guardianID)
	if err != nil {
		return entities.Vote{}, err
	}
	if !found {
		return entities.Vote{}, domainerrors.ErrVoteNotFound
	}
	return vote, nil
}

// Admin returns the admin record, zero-valued when never seeded.
func (uc StatusUseCase) Admin(ctx context.Context) (entities.AdminConfig, error) {
	cfg, _, err := uc.Config.GetAdminConfig(ctx)
	if err != nil {
		return entities.AdminConfig{}, err
	}
	return cfg, nil
}
