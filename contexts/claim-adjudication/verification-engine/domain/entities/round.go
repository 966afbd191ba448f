package entities

import "time"

// ClaimStatus is the verdict reported to the claim registry at settlement.
type ClaimStatus string

const (
	ClaimStatusVerified ClaimStatus = "verified"
	ClaimStatusRejected ClaimStatus = "rejected"
)

// VotingRound is the per-claim voting state. One round per claim, ever.
// Lifecycle: open -> closed; closed rounds are immutable.
type VotingRound struct {
	ClaimID    string
	StartedAt  time.Time
	YesVotes   uint64
	NoVotes    uint64
	TotalVotes uint64
	Closed     bool
	Outcome    *bool
	ClosedAt   *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// YesPercent returns the integer percentage of confirm ballots. A round with
// no ballots reads as zero percent.
func (r VotingRound) YesPercent() uint64 {
	if r.TotalVotes == 0 {
		return 0
	}
	return 100 * r.YesVotes / r.TotalVotes
}

// ThresholdMet reports whether the confirm share reached the majority
// threshold.
func (r VotingRound) ThresholdMet(thresholdPct uint64) bool {
	return r.YesPercent() >= thresholdPct
}

// AcceptsVoteAt reports whether a ballot arriving at now may still join the
// round. A ballot landing exactly on the window boundary is accepted; one
// tick later it is not.
func (r VotingRound) AcceptsVoteAt(now time.Time, period time.Duration) bool {
	if r.Closed {
		return false
	}
	return !now.After(r.StartedAt.Add(period))
}

// WindowElapsed reports whether the voting window has run out at now. The
// boundary instant counts as elapsed, so a boundary ballot is the last one
// in and closes the round it just joined.
func (r VotingRound) WindowElapsed(now time.Time, period time.Duration) bool {
	return !now.Before(r.StartedAt.Add(period))
}

// OutcomeStatus maps a round outcome to the registry verdict.
func OutcomeStatus(outcome bool) ClaimStatus {
	if outcome {
		return ClaimStatusVerified
	}
	return ClaimStatusRejected
}
