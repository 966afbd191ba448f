package commands

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/domain/entities"
	domainerrors "github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/domain/errors"
)

func TestCastVoteAdmissionChecks(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.seedGuardian("guardian-1", 2000)
	f.seedRound("claim-1")

	if _, err := f.votes.CastVote(ctx, CastVoteCommand{GuardianID: "guardian-1", ClaimID: "claim-1", Choice: "maybe"}); !errors.Is(err, domainerrors.ErrInvalidVote) {
		t.Fatalf("expected ErrInvalidVote for an unknown choice, got %v", err)
	}

	if _, err := f.votes.CastVote(ctx, CastVoteCommand{GuardianID: "guardian-1", ClaimID: "claim-404", Choice: entities.VoteChoiceConfirm}); !errors.Is(err, domainerrors.ErrUnknownClaim) {
		t.Fatalf("expected ErrUnknownClaim, got %v", err)
	}

	if _, err := f.votes.CastVote(ctx, CastVoteCommand{GuardianID: "stranger", ClaimID: "claim-1", Choice: entities.VoteChoiceConfirm}); !errors.Is(err, domainerrors.ErrNotStaked) {
		t.Fatalf("expected ErrNotStaked for an unknown guardian, got %v", err)
	}

	f.seedGuardian("small-fry", 500)
	if _, err := f.votes.CastVote(ctx, CastVoteCommand{GuardianID: "small-fry", ClaimID: "claim-1", Choice: entities.VoteChoiceConfirm}); !errors.Is(err, domainerrors.ErrNotStaked) {
		t.Fatalf("expected ErrNotStaked below the minimum stake, got %v", err)
	}

	f.setPaused(true)
	if _, err := f.votes.CastVote(ctx, CastVoteCommand{GuardianID: "guardian-1", ClaimID: "claim-1", Choice: entities.VoteChoiceConfirm}); !errors.Is(err, domainerrors.ErrPaused) {
		t.Fatalf("expected ErrPaused even for an eligible guardian, got %v", err)
	}
}

func TestCastVoteWriteOnce(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	// Two reject voters keep the round open at 33 percent while the
	// duplicate is attempted.
	f.seedGuardian("guardian-1", 2000)
	f.seedGuardian("guardian-2", 2000)
	f.seedGuardian("guardian-3", 2000)
	f.seedRound("claim-1")

	if _, err := f.votes.CastVote(ctx, CastVoteCommand{GuardianID: "guardian-2", ClaimID: "claim-1", Choice: entities.VoteChoiceReject}); err != nil {
		t.Fatalf("first reject failed: %v", err)
	}
	if _, err := f.votes.CastVote(ctx, CastVoteCommand{GuardianID: "guardian-3", ClaimID: "claim-1", Choice: entities.VoteChoiceReject}); err != nil {
		t.Fatalf("second reject failed: %v", err)
	}
	result, err := f.votes.CastVote(ctx, CastVoteCommand{GuardianID: "guardian-1", ClaimID: "claim-1", Choice: entities.VoteChoiceConfirm})
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if result.Round.Closed {
		t.Fatalf("expected the round still open at 33 percent")
	}

	_, err = f.votes.CastVote(ctx, CastVoteCommand{GuardianID: "guardian-1", ClaimID: "claim-1", Choice: entities.VoteChoiceReject})
	if !errors.Is(err, domainerrors.ErrAlreadyVoted) {
		t.Fatalf("expected ErrAlreadyVoted, got %v", err)
	}

	vote, found, _ := f.store.GetVote(ctx, "claim-1", "guardian-1")
	if !found || vote.Choice != entities.VoteChoiceConfirm {
		t.Fatalf("expected the original ballot preserved, got %+v found=%v", vote, found)
	}
}

func TestCastVoteTallyInvariant(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.seedRound("claim-1")
	// A threshold of 70 with alternating ballots keeps the round open for
	// the whole sequence.
	choices := []entities.VoteChoice{
		entities.VoteChoiceReject,
		entities.VoteChoiceConfirm,
		entities.VoteChoiceReject,
		entities.VoteChoiceConfirm,
		entities.VoteChoiceReject,
	}
	for i, choice := range choices {
		guardian := fmt.Sprintf("guardian-%d", i)
		f.seedGuardian(guardian, 2000)
		result, err := f.votes.CastVote(ctx, CastVoteCommand{GuardianID: guardian, ClaimID: "claim-1", Choice: choice})
		if err != nil {
			t.Fatalf("ballot %d failed: %v", i, err)
		}
		round := result.Round
		if round.TotalVotes != round.YesVotes+round.NoVotes {
			t.Fatalf("tally invariant broken after ballot %d: %+v", i, round)
		}
		if round.TotalVotes != uint64(i+1) {
			t.Fatalf("expected %d total ballots, got %d", i+1, round.TotalVotes)
		}
	}
}

func TestCastVoteUpdatesLastVoted(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.seedGuardian("guardian-1", 2000)
	f.seedGuardian("guardian-2", 2000)
	f.seedRound("claim-1")

	f.clock.Advance(time.Hour)
	if _, err := f.votes.CastVote(ctx, CastVoteCommand{GuardianID: "guardian-1", ClaimID: "claim-1", Choice: entities.VoteChoiceReject}); err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	record, _, _ := f.store.GetStakeRecord(ctx, "guardian-1")
	if !record.LastVotedAt.Equal(f.clock.now) {
		t.Fatalf("expected lastVotedAt %v, got %v", f.clock.now, record.LastVotedAt)
	}
}

func TestThresholdClosureSettlesOnce(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.seedGuardian("alice", 2000)
	f.seedGuardian("bob", 2000)
	f.seedGuardian("carol", 1000)
	f.seedRound("claim-1")

	if _, err := f.votes.CastVote(ctx, CastVoteCommand{GuardianID: "carol", ClaimID: "claim-1", Choice: entities.VoteChoiceReject}); err != nil {
		t.Fatalf("reject ballot failed: %v", err)
	}
	if _, err := f.votes.CastVote(ctx, CastVoteCommand{GuardianID: "alice", ClaimID: "claim-1", Choice: entities.VoteChoiceConfirm}); err != nil {
		t.Fatalf("first confirm failed: %v", err)
	}

	// Third ballot lifts the confirm share to 66 percent, still short.
	// A fourth guardian pushes it to 75 and closes.
	f.seedGuardian("dave", 2000)
	if _, err := f.votes.CastVote(ctx, CastVoteCommand{GuardianID: "bob", ClaimID: "claim-1", Choice: entities.VoteChoiceConfirm}); err != nil {
		t.Fatalf("second confirm failed: %v", err)
	}
	result, err := f.votes.CastVote(ctx, CastVoteCommand{GuardianID: "dave", ClaimID: "claim-1", Choice: entities.VoteChoiceConfirm})
	if err != nil {
		t.Fatalf("closing confirm failed: %v", err)
	}

	round := result.Round
	if !round.Closed || round.Outcome == nil || !*round.Outcome {
		t.Fatalf("expected a closed passed round, got %+v", round)
	}
	if status, ok := f.registry.Status("claim-1"); !ok || status != entities.ClaimStatusVerified {
		t.Fatalf("expected the registry notified verified, got %v ok=%v", status, ok)
	}
	if calls := f.registry.Calls("claim-1"); calls != 1 {
		t.Fatalf("expected exactly one registry notification, got %d", calls)
	}

	// Aligned voters keep their stake and earn 5 percent; carol is slashed
	// 10 percent and falls inactive below the minimum.
	if balance := f.ledger.Balance("alice"); balance != 100 {
		t.Fatalf("expected alice rewarded 100, got %d", balance)
	}
	carol, _, _ := f.store.GetStakeRecord(ctx, "carol")
	if carol.Staked != 900 || carol.Active {
		t.Fatalf("expected carol slashed to 900 and inactive, got %+v", carol)
	}
	if balance := f.ledger.Balance(testCustody); balance != 7000-100 {
		t.Fatalf("expected custody reduced only by the slash, got %d", balance)
	}

	// A closed round accepts nothing further.
	f.seedGuardian("erin", 2000)
	if _, err := f.votes.CastVote(ctx, CastVoteCommand{GuardianID: "erin", ClaimID: "claim-1", Choice: entities.VoteChoiceConfirm}); !errors.Is(err, domainerrors.ErrVotingClosed) {
		t.Fatalf("expected ErrVotingClosed on a settled round, got %v", err)
	}
	if calls := f.registry.Calls("claim-1"); calls != 1 {
		t.Fatalf("expected the registry still notified once, got %d", calls)
	}
}

func TestFirstConfirmBallotClosesRound(t *testing.T) {
	// 1 confirm of 1 total is 100 percent, so a lone confirm settles the
	// claim immediately.
	f := newFixture()
	ctx := context.Background()
	f.seedGuardian("alice", 2000)
	f.seedRound("claim-1")

	result, err := f.votes.CastVote(ctx, CastVoteCommand{GuardianID: "alice", ClaimID: "claim-1", Choice: entities.VoteChoiceConfirm})
	if err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	if !result.Round.Closed || result.Round.Outcome == nil || !*result.Round.Outcome {
		t.Fatalf("expected an immediately settled passed round, got %+v", result.Round)
	}
}

func TestWindowBoundaryBallotClosesRound(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.seedGuardian("alice", 2000)
	f.seedGuardian("bob", 2000)
	f.seedRound("claim-1")

	if _, err := f.votes.CastVote(ctx, CastVoteCommand{GuardianID: "alice", ClaimID: "claim-1", Choice: entities.VoteChoiceReject}); err != nil {
		t.Fatalf("opening reject failed: %v", err)
	}

	// A ballot landing exactly on the boundary is the last one in and
	// closes the round it just joined.
	f.clock.Advance(f.params.VotingPeriod)
	result, err := f.votes.CastVote(ctx, CastVoteCommand{GuardianID: "bob", ClaimID: "claim-1", Choice: entities.VoteChoiceReject})
	if err != nil {
		t.Fatalf("boundary ballot failed: %v", err)
	}
	if !result.Round.Closed || result.Round.Outcome == nil || *result.Round.Outcome {
		t.Fatalf("expected a closed rejected round at the boundary, got %+v", result.Round)
	}
	if status, ok := f.registry.Status("claim-1"); !ok || status != entities.ClaimStatusRejected {
		t.Fatalf("expected the registry notified rejected, got %v ok=%v", status, ok)
	}
}

func TestBallotAfterWindowRejected(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.seedGuardian("alice", 2000)
	f.seedRound("claim-1")

	f.clock.Advance(f.params.VotingPeriod + time.Second)
	_, err := f.votes.CastVote(ctx, CastVoteCommand{GuardianID: "alice", ClaimID: "claim-1", Choice: entities.VoteChoiceConfirm})
	if !errors.Is(err, domainerrors.ErrVotingClosed) {
		t.Fatalf("expected ErrVotingClosed past the window, got %v", err)
	}
	round, _, _ := f.store.GetRound(ctx, "claim-1")
	if round.TotalVotes != 0 {
		t.Fatalf("expected no tally change from a rejected ballot, got %+v", round)
	}
}

func TestRegistryFailureAbortsClosure(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.seedGuardian("alice", 2000)
	f.seedRound("claim-1")
	f.registry.FailWith(errors.New("registry offline"))

	_, err := f.votes.CastVote(ctx, CastVoteCommand{GuardianID: "alice", ClaimID: "claim-1", Choice: entities.VoteChoiceConfirm})
	if !errors.Is(err, domainerrors.ErrIntegrationFailure) {
		t.Fatalf("expected ErrIntegrationFailure, got %v", err)
	}

	// The whole vote aborted: no ballot, no tallies, round still open.
	round, _, _ := f.store.GetRound(ctx, "claim-1")
	if round.Closed || round.TotalVotes != 0 {
		t.Fatalf("expected the round untouched, got %+v", round)
	}
	if _, found, _ := f.store.GetVote(ctx, "claim-1", "alice"); found {
		t.Fatalf("expected no ballot persisted after the aborted closure")
	}

	// Once the registry recovers the same guardian can vote again.
	f.registry.FailWith(nil)
	result, err := f.votes.CastVote(ctx, CastVoteCommand{GuardianID: "alice", ClaimID: "claim-1", Choice: entities.VoteChoiceConfirm})
	if err != nil {
		t.Fatalf("retry after recovery failed: %v", err)
	}
	if !result.Round.Closed {
		t.Fatalf("expected the retry to settle the round")
	}
}

func TestVoterCapacityRejectsBallot(t *testing.T) {
	f := newFixture()
	f.params.MaxVotersPerRound = 1
	f.votes.Params = f.params
	ctx := context.Background()
	f.seedGuardian("alice", 2000)
	f.seedGuardian("bob", 2000)
	f.seedRound("claim-1")

	if _, err := f.votes.CastVote(ctx, CastVoteCommand{GuardianID: "alice", ClaimID: "claim-1", Choice: entities.VoteChoiceReject}); err != nil {
		t.Fatalf("first ballot failed: %v", err)
	}
	_, err := f.votes.CastVote(ctx, CastVoteCommand{GuardianID: "bob", ClaimID: "claim-1", Choice: entities.VoteChoiceReject})
	if !errors.Is(err, domainerrors.ErrInvalidVote) {
		t.Fatalf("expected ErrInvalidVote at voter capacity, got %v", err)
	}
}
