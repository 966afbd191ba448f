package entities

import "time"

// VoteChoice is the guardian's verdict on a sighting claim.
type VoteChoice string

const (
	VoteChoiceConfirm VoteChoice = "confirm"
	VoteChoiceReject  VoteChoice = "reject"
)

// Valid reports whether the choice is one of the two accepted verdicts.
func (c VoteChoice) Valid() bool {
	return c == VoteChoiceConfirm || c == VoteChoiceReject
}

// Vote is one guardian's ballot on one claim. The (claim, guardian) pair is
// unique forever: votes are never retracted or changed.
type Vote struct {
	ClaimID    string
	GuardianID string
	Choice     VoteChoice
	CastAt     time.Time
}

// Confirms reports whether the ballot counts toward the yes tally.
func (v Vote) Confirms() bool {
	return v.Choice == VoteChoiceConfirm
}

// AlignedWith reports whether the ballot agreed with the round outcome.
func (v Vote) AlignedWith(outcome bool) bool {
	return v.Confirms() == outcome
}
