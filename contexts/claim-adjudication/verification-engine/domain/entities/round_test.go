package entities

import (
	"testing"
	"time"
)

func TestYesPercentIntegerDivision(t *testing.T) {
	cases := []struct {
		name  string
		yes   uint64
		total uint64
		want  uint64
	}{
		{name: "empty round reads zero", yes: 0, total: 0, want: 0},
		{name: "two thirds rounds down", yes: 2, total: 3, want: 66},
		{name: "unanimous", yes: 5, total: 5, want: 100},
		{name: "single confirm", yes: 1, total: 1, want: 100},
		{name: "seven of ten", yes: 7, total: 10, want: 70},
	}
	for _, tc := range cases {
		round := VotingRound{YesVotes: tc.yes, TotalVotes: tc.total}
		if got := round.YesPercent(); got != tc.want {
			t.Fatalf("%s: expected %d percent, got %d", tc.name, tc.want, got)
		}
	}
}

func TestThresholdMetBoundary(t *testing.T) {
	round := VotingRound{YesVotes: 7, NoVotes: 3, TotalVotes: 10}
	if !round.ThresholdMet(70) {
		t.Fatalf("expected exactly 70 percent to meet a 70 percent threshold")
	}
	if round.ThresholdMet(71) {
		t.Fatalf("expected 70 percent to miss a 71 percent threshold")
	}
}

func TestVotingWindowBoundary(t *testing.T) {
	start := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	period := 72 * time.Hour
	round := VotingRound{ClaimID: "claim-1", StartedAt: start}

	boundary := start.Add(period)
	if !round.AcceptsVoteAt(boundary, period) {
		t.Fatalf("expected a ballot landing exactly on the boundary to be accepted")
	}
	if !round.WindowElapsed(boundary, period) {
		t.Fatalf("expected the boundary instant to count as elapsed")
	}

	justBefore := boundary.Add(-time.Nanosecond)
	if !round.AcceptsVoteAt(justBefore, period) {
		t.Fatalf("expected a ballot inside the window to be accepted")
	}
	if round.WindowElapsed(justBefore, period) {
		t.Fatalf("expected the window to still be open just before the boundary")
	}

	justAfter := boundary.Add(time.Nanosecond)
	if round.AcceptsVoteAt(justAfter, period) {
		t.Fatalf("expected a ballot past the boundary to be rejected")
	}

	round.Closed = true
	if round.AcceptsVoteAt(justBefore, period) {
		t.Fatalf("expected a closed round to reject ballots even inside the window")
	}
}

func TestOutcomeStatus(t *testing.T) {
	if OutcomeStatus(true) != ClaimStatusVerified {
		t.Fatalf("expected verified status for a passed round")
	}
	if OutcomeStatus(false) != ClaimStatusRejected {
		t.Fatalf("expected rejected status for a failed round")
	}
}
