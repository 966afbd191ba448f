package entities

import "time"

// VerificationParams are the tunable rules of the verification core. All
// amounts are reward-token base units; percentage math is integer division.
type VerificationParams struct {
	MinStake             uint64
	VotingPeriod         time.Duration
	MajorityThresholdPct uint64
	RewardPercent        uint64
	SlashPercent         uint64
	MaxVotersPerRound    uint64
	CustodyAccount       string
	TreasuryAccount      string
}

// DefaultParams returns the production defaults. Deployments override them
// through configuration.
func DefaultParams() VerificationParams {
	return VerificationParams{
		MinStake:             1000,
		VotingPeriod:         72 * time.Hour,
		MajorityThresholdPct: 70,
		RewardPercent:        5,
		SlashPercent:         10,
		MaxVotersPerRound:    500,
		CustodyAccount:       "verification-custody",
		TreasuryAccount:      "guardian-treasury",
	}
}

// WithDefaults fills zero fields from DefaultParams so callers can supply
// partial overrides.
func (p VerificationParams) WithDefaults() VerificationParams {
	defaults := DefaultParams()
	if p.MinStake == 0 {
		p.MinStake = defaults.MinStake
	}
	if p.VotingPeriod == 0 {
		p.VotingPeriod = defaults.VotingPeriod
	}
	if p.MajorityThresholdPct == 0 {
		p.MajorityThresholdPct = defaults.MajorityThresholdPct
	}
	if p.RewardPercent == 0 {
		p.RewardPercent = defaults.RewardPercent
	}
	if p.SlashPercent == 0 {
		p.SlashPercent = defaults.SlashPercent
	}
	if p.MaxVotersPerRound == 0 {
		p.MaxVotersPerRound = defaults.MaxVotersPerRound
	}
	if p.CustodyAccount == "" {
		p.CustodyAccount = defaults.CustodyAccount
	}
	if p.TreasuryAccount == "" {
		p.TreasuryAccount = defaults.TreasuryAccount
	}
	return p
}
