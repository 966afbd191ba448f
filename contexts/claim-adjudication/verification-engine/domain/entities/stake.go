package entities

import "time"

// StakeRecord tracks one guardian's verification stake. Records are created
// implicitly on first stake; a missing record and the zero record mean the
// same thing.
type StakeRecord struct {
	GuardianID  string
	Staked      uint64
	Active      bool
	LastVotedAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Eligible reports whether the guardian may cast verification votes right
// now. Eligibility is evaluated fresh on every vote, never cached.
func (r StakeRecord) Eligible(minStake uint64) bool {
	return r.Active && r.Staked >= minStake
}

// CooldownElapsed reports whether enough time passed since the guardian's
// last vote to release stake. A guardian who never voted has no cool-down.
func (r StakeRecord) CooldownElapsed(now time.Time, period time.Duration) bool {
	if r.LastVotedAt.IsZero() {
		return true
	}
	return now.Sub(r.LastVotedAt) > period
}
