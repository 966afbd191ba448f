package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/domain/entities"
	domainerrors "github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/domain/errors"
)

func TestInitiateRoundRequiresSubmissionAuthority(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.rounds.InitiateRound(ctx, InitiateRoundCommand{CallerID: "guardian-1", ClaimID: "claim-1"})
	if !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for a non-registry caller, got %v", err)
	}

	// Even the admin cannot initiate; only the registry identity may.
	_, err = f.rounds.InitiateRound(ctx, InitiateRoundCommand{CallerID: testAdminID, ClaimID: "claim-1"})
	if !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for the admin, got %v", err)
	}

	round, err := f.rounds.InitiateRound(ctx, InitiateRoundCommand{CallerID: testRegistryID, ClaimID: "claim-1"})
	if err != nil {
		t.Fatalf("initiate by the registry failed: %v", err)
	}
	if round.Closed || round.TotalVotes != 0 || !round.StartedAt.Equal(f.clock.now) {
		t.Fatalf("expected a fresh open round, got %+v", round)
	}
}

func TestInitiateRoundOncePerClaim(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if _, err := f.rounds.InitiateRound(ctx, InitiateRoundCommand{CallerID: testRegistryID, ClaimID: "claim-1"}); err != nil {
		t.Fatalf("first initiate failed: %v", err)
	}
	_, err := f.rounds.InitiateRound(ctx, InitiateRoundCommand{CallerID: testRegistryID, ClaimID: "claim-1"})
	if !errors.Is(err, domainerrors.ErrRoundAlreadyExists) {
		t.Fatalf("expected ErrRoundAlreadyExists, got %v", err)
	}
}

func TestInitiateRoundAllowedWhilePaused(t *testing.T) {
	f := newFixture()
	f.setPaused(true)

	if _, err := f.rounds.InitiateRound(context.Background(), InitiateRoundCommand{CallerID: testRegistryID, ClaimID: "claim-1"}); err != nil {
		t.Fatalf("expected initiation to bypass pause, got %v", err)
	}
}

func TestCloseExpiredSettlesAbandonedRounds(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.seedGuardian("alice", 2000)
	f.seedGuardian("bob", 2000)
	f.seedGuardian("carol", 2000)
	f.seedRound("claim-1")

	// Two rejects against one confirm: 33 percent, stays open. The rejects
	// go first so the tally never crosses the threshold mid-sequence.
	ballots := []struct {
		guardian string
		choice   entities.VoteChoice
	}{
		{"alice", entities.VoteChoiceReject},
		{"bob", entities.VoteChoiceReject},
		{"carol", entities.VoteChoiceConfirm},
	}
	for _, b := range ballots {
		if _, err := f.votes.CastVote(ctx, CastVoteCommand{GuardianID: b.guardian, ClaimID: "claim-1", Choice: b.choice}); err != nil {
			t.Fatalf("ballot by %s failed: %v", b.guardian, err)
		}
	}
	round, _, _ := f.store.GetRound(ctx, "claim-1")
	if round.Closed {
		t.Fatalf("expected the round open before the sweep")
	}

	f.clock.Advance(f.params.VotingPeriod + time.Minute)
	closed, err := f.rounds.CloseExpired(ctx, 10)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if closed != 1 {
		t.Fatalf("expected 1 round closed, got %d", closed)
	}

	round, _, _ = f.store.GetRound(ctx, "claim-1")
	if !round.Closed || round.Outcome == nil || *round.Outcome {
		t.Fatalf("expected a closed rejected round, got %+v", round)
	}
	if status, ok := f.registry.Status("claim-1"); !ok || status != entities.ClaimStatusRejected {
		t.Fatalf("expected the registry notified rejected, got %v ok=%v", status, ok)
	}

	// Misaligned carol is slashed, aligned voters rewarded.
	carol, _, _ := f.store.GetStakeRecord(ctx, "carol")
	if carol.Staked != 1800 {
		t.Fatalf("expected carol slashed to 1800, got %+v", carol)
	}
	if balance := f.ledger.Balance("alice"); balance != 100 {
		t.Fatalf("expected alice rewarded 100, got %d", balance)
	}

	// The sweep is idempotent: a second pass finds nothing.
	closed, err = f.rounds.CloseExpired(ctx, 10)
	if err != nil {
		t.Fatalf("second sweep failed: %v", err)
	}
	if closed != 0 {
		t.Fatalf("expected 0 rounds on the second sweep, got %d", closed)
	}
	if calls := f.registry.Calls("claim-1"); calls != 1 {
		t.Fatalf("expected exactly one registry notification, got %d", calls)
	}
}

func TestCloseExpiredVoterlessRoundRejects(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.seedRound("claim-1")

	f.clock.Advance(f.params.VotingPeriod)
	closed, err := f.rounds.CloseExpired(ctx, 10)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if closed != 1 {
		t.Fatalf("expected the voterless round closed, got %d", closed)
	}
	round, _, _ := f.store.GetRound(ctx, "claim-1")
	if round.Outcome == nil || *round.Outcome {
		t.Fatalf("expected a voterless round to settle rejected, got %+v", round)
	}
}

func TestCloseExpiredSkipsOpenWindow(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.seedRound("claim-1")

	f.clock.Advance(f.params.VotingPeriod - time.Minute)
	closed, err := f.rounds.CloseExpired(ctx, 10)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if closed != 0 {
		t.Fatalf("expected no closures inside the window, got %d", closed)
	}
	round, _, _ := f.store.GetRound(ctx, "claim-1")
	if round.Closed {
		t.Fatalf("expected the round still open, got %+v", round)
	}
}
