package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type StakeRequest struct {
	Amount uint64 `json:"amount"`
}

type UnstakeRequest struct {
	Amount uint64 `json:"amount"`
}

type StakeResponse struct {
	GuardianID  string     `json:"guardian_id"`
	Staked      uint64     `json:"staked"`
	Active      bool       `json:"active"`
	Eligible    bool       `json:"eligible"`
	LastVotedAt *time.Time `json:"last_voted_at,omitempty"`
}

type RoundResponse struct {
	ClaimID    string     `json:"claim_id"`
	StartedAt  time.Time  `json:"started_at"`
	YesVotes   uint64     `json:"yes_votes"`
	NoVotes    uint64     `json:"no_votes"`
	TotalVotes uint64     `json:"total_votes"`
	YesPercent uint64     `json:"yes_percent"`
	Closed     bool       `json:"closed"`
	Outcome    *bool      `json:"outcome,omitempty"`
	Status     string     `json:"status,omitempty"`
	ClosedAt   *time.Time `json:"closed_at,omitempty"`
}

type CastVoteRequest struct {
	Choice string `json:"choice"`
}

type VoteResponse struct {
	ClaimID    string        `json:"claim_id"`
	GuardianID string        `json:"guardian_id"`
	Choice     string        `json:"choice"`
	CastAt     time.Time     `json:"cast_at"`
	Round      RoundResponse `json:"round"`
}

type BallotResponse struct {
	ClaimID    string    `json:"claim_id"`
	GuardianID string    `json:"guardian_id"`
	Choice     string    `json:"choice"`
	CastAt     time.Time `json:"cast_at"`
}

type AssignIdentityRequest struct {
	ID string `json:"id"`
}

type AdminConfigResponse struct {
	AdminID         string    `json:"admin_id"`
	Paused          bool      `json:"paused"`
	ValueLedgerID   string    `json:"value_ledger_id"`
	ClaimRegistryID string    `json:"claim_registry_id"`
	UpdatedAt       time.Time `json:"updated_at"`
}
