package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/domain/entities"
	domainerrors "github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/domain/errors"
)

func TestStakeBelowMinimumRejected(t *testing.T) {
	f := newFixture()
	f.ledger.SetBalance("guardian-1", 5000)

	_, err := f.stakes.Stake(context.Background(), StakeCommand{GuardianID: "guardian-1", Amount: 500})
	if !errors.Is(err, domainerrors.ErrInsufficientStake) {
		t.Fatalf("expected ErrInsufficientStake, got %v", err)
	}
	if f.ledger.Balance("guardian-1") != 5000 {
		t.Fatalf("expected no transfer for a rejected deposit")
	}
	if _, found, _ := f.store.GetStakeRecord(context.Background(), "guardian-1"); found {
		t.Fatalf("expected no record for a rejected deposit")
	}
}

func TestStakeExactMinimumActivates(t *testing.T) {
	f := newFixture()
	f.ledger.SetBalance("guardian-1", 5000)

	record, err := f.stakes.Stake(context.Background(), StakeCommand{GuardianID: "guardian-1", Amount: 1000})
	if err != nil {
		t.Fatalf("stake at exactly the minimum failed: %v", err)
	}
	if record.Staked != 1000 || !record.Active {
		t.Fatalf("expected an active record of 1000, got %+v", record)
	}
	if f.ledger.Balance("guardian-1") != 4000 {
		t.Fatalf("expected 1000 moved to custody, guardian balance is %d", f.ledger.Balance("guardian-1"))
	}
	if f.ledger.Balance(testCustody) != 1000 {
		t.Fatalf("expected custody to hold 1000, got %d", f.ledger.Balance(testCustody))
	}
}

func TestStakeAccumulatesOnExistingRecord(t *testing.T) {
	f := newFixture()
	f.ledger.SetBalance("guardian-1", 5000)

	if _, err := f.stakes.Stake(context.Background(), StakeCommand{GuardianID: "guardian-1", Amount: 1000}); err != nil {
		t.Fatalf("first deposit failed: %v", err)
	}
	record, err := f.stakes.Stake(context.Background(), StakeCommand{GuardianID: "guardian-1", Amount: 2000})
	if err != nil {
		t.Fatalf("second deposit failed: %v", err)
	}
	if record.Staked != 3000 {
		t.Fatalf("expected accumulated stake of 3000, got %d", record.Staked)
	}
}

func TestStakeWhilePausedRejected(t *testing.T) {
	f := newFixture()
	f.ledger.SetBalance("guardian-1", 5000)
	f.setPaused(true)

	_, err := f.stakes.Stake(context.Background(), StakeCommand{GuardianID: "guardian-1", Amount: 2000})
	if !errors.Is(err, domainerrors.ErrPaused) {
		t.Fatalf("expected ErrPaused, got %v", err)
	}
	if f.ledger.Balance("guardian-1") != 5000 {
		t.Fatalf("expected no transfer while paused")
	}
}

func TestStakeTransferFailureLeavesNoState(t *testing.T) {
	f := newFixture()
	f.ledger.FailWith(errors.New("ledger offline"))

	_, err := f.stakes.Stake(context.Background(), StakeCommand{GuardianID: "guardian-1", Amount: 2000})
	if !errors.Is(err, domainerrors.ErrIntegrationFailure) {
		t.Fatalf("expected ErrIntegrationFailure, got %v", err)
	}
	if _, found, _ := f.store.GetStakeRecord(context.Background(), "guardian-1"); found {
		t.Fatalf("expected no record after a failed transfer")
	}
}

func TestUnstakeCheckPriorityOrder(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// No record at all.
	if _, err := f.stakes.Unstake(ctx, UnstakeCommand{GuardianID: "guardian-1", Amount: 100}); !errors.Is(err, domainerrors.ErrNotStaked) {
		t.Fatalf("expected ErrNotStaked, got %v", err)
	}

	f.seedGuardian("guardian-1", 2000)

	// Zero amount beats the balance check.
	if _, err := f.stakes.Unstake(ctx, UnstakeCommand{GuardianID: "guardian-1", Amount: 0}); !errors.Is(err, domainerrors.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}

	// More than staked.
	if _, err := f.stakes.Unstake(ctx, UnstakeCommand{GuardianID: "guardian-1", Amount: 3000}); !errors.Is(err, domainerrors.ErrInsufficientStake) {
		t.Fatalf("expected ErrInsufficientStake, got %v", err)
	}

	// Paused wins over everything.
	f.setPaused(true)
	if _, err := f.stakes.Unstake(ctx, UnstakeCommand{GuardianID: "guardian-1", Amount: 100}); !errors.Is(err, domainerrors.ErrPaused) {
		t.Fatalf("expected ErrPaused, got %v", err)
	}
}

func TestUnstakeCooldownAfterVoting(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.seedGuardian("guardian-1", 2000)
	f.seedRound("claim-1")

	// A lone reject keeps the round open so no settlement touches the stake.
	if _, err := f.votes.CastVote(ctx, CastVoteCommand{GuardianID: "guardian-1", ClaimID: "claim-1", Choice: entities.VoteChoiceReject}); err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	if round, _, _ := f.store.GetRound(ctx, "claim-1"); round.Closed {
		t.Fatalf("expected the round still open after a single reject, got %+v", round)
	}

	// Within the cool-down, including the exact boundary.
	f.clock.Advance(f.params.VotingPeriod)
	if _, err := f.stakes.Unstake(ctx, UnstakeCommand{GuardianID: "guardian-1", Amount: 1000}); !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized inside the cool-down, got %v", err)
	}

	// One tick past the window the stake releases.
	f.clock.Advance(time.Second)
	record, err := f.stakes.Unstake(ctx, UnstakeCommand{GuardianID: "guardian-1", Amount: 1000})
	if err != nil {
		t.Fatalf("unstake after the cool-down failed: %v", err)
	}
	if record.Staked != 1000 || !record.Active {
		t.Fatalf("expected an active record of 1000, got %+v", record)
	}

	// Dropping below the minimum deactivates the record.
	record, err = f.stakes.Unstake(ctx, UnstakeCommand{GuardianID: "guardian-1", Amount: 500})
	if err != nil {
		t.Fatalf("second unstake failed: %v", err)
	}
	if record.Staked != 500 || record.Active {
		t.Fatalf("expected an inactive record of 500, got %+v", record)
	}
	if f.ledger.Balance("guardian-1") != 1500 {
		t.Fatalf("expected 1500 returned to the guardian, got %d", f.ledger.Balance("guardian-1"))
	}
}

func TestUnstakeWithoutVotingHasNoCooldown(t *testing.T) {
	f := newFixture()
	f.seedGuardian("guardian-1", 2000)

	record, err := f.stakes.Unstake(context.Background(), UnstakeCommand{GuardianID: "guardian-1", Amount: 2000})
	if err != nil {
		t.Fatalf("unstake for a guardian who never voted failed: %v", err)
	}
	if record.Staked != 0 || record.Active {
		t.Fatalf("expected an empty inactive record, got %+v", record)
	}
}

func TestUnstakeTransferFailureLeavesRecordUnchanged(t *testing.T) {
	f := newFixture()
	f.seedGuardian("guardian-1", 2000)
	f.ledger.FailWith(errors.New("ledger offline"))

	_, err := f.stakes.Unstake(context.Background(), UnstakeCommand{GuardianID: "guardian-1", Amount: 1000})
	if !errors.Is(err, domainerrors.ErrIntegrationFailure) {
		t.Fatalf("expected ErrIntegrationFailure, got %v", err)
	}
	record, _, _ := f.store.GetStakeRecord(context.Background(), "guardian-1")
	if record.Staked != 2000 {
		t.Fatalf("expected the record untouched after a failed transfer, got %+v", record)
	}
}
