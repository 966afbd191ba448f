package services

import (
	"math"
	"sort"
	"time"

	"github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/domain/entities"
)

// SettlementTransfer is one ledger movement produced by settlement. Slash
// transfers move custody funds to the treasury; reward transfers move
// treasury funds to the guardian's own account.
type SettlementTransfer struct {
	GuardianID string
	From       string
	To         string
	Amount     uint64
	Slash      bool
}

// SettlementPlan is the full effect of closing a round, computed before any
// state or collaborator is touched. Stakes holds the post-slash records that
// must persist together with the round closure.
type SettlementPlan struct {
	ClaimID   string
	Outcome   bool
	Status    entities.ClaimStatus
	Transfers []SettlementTransfer
	Stakes    []entities.StakeRecord
}

// BuildSettlementPlan derives the closure outcome from the round tallies and
// redistributes per ballot: guardians aligned with the outcome earn a reward
// cut of their stake, misaligned guardians lose a slash cut. The input map is
// not mutated. Transfer order follows guardian id so settlement is
// deterministic regardless of vote listing order.
func BuildSettlementPlan(
	round entities.VotingRound,
	votes []entities.Vote,
	records map[string]entities.StakeRecord,
	params entities.VerificationParams,
	now time.Time,
) SettlementPlan {
	outcome := round.ThresholdMet(params.MajorityThresholdPct)
	plan := SettlementPlan{
		ClaimID: round.ClaimID,
		Outcome: outcome,
		Status:  entities.OutcomeStatus(outcome),
	}

	ordered := append([]entities.Vote(nil), votes...)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].GuardianID < ordered[j].GuardianID
	})

	for _, vote := range ordered {
		record, ok := records[vote.GuardianID]
		if !ok {
			continue
		}
		if vote.AlignedWith(outcome) {
			reward := percentCut(record.Staked, params.RewardPercent)
			if reward == 0 {
				continue
			}
			plan.Transfers = append(plan.Transfers, SettlementTransfer{
				GuardianID: vote.GuardianID,
				From:       params.TreasuryAccount,
				To:         vote.GuardianID,
				Amount:     reward,
			})
			continue
		}

		slash := percentCut(record.Staked, params.SlashPercent)
		if slash == 0 {
			continue
		}
		record.Staked -= slash
		record.Active = record.Staked >= params.MinStake
		record.UpdatedAt = now
		plan.Transfers = append(plan.Transfers, SettlementTransfer{
			GuardianID: vote.GuardianID,
			From:       params.CustodyAccount,
			To:         params.TreasuryAccount,
			Amount:     slash,
			Slash:      true,
		})
		plan.Stakes = append(plan.Stakes, record)
	}
	return plan
}

// percentCut computes amount*pct/100 without wrapping uint64. When the exact
// product would overflow, the amount is divided first, flooring by at most
// pct units.
func percentCut(amount, pct uint64) uint64 {
	if pct == 0 {
		return 0
	}
	if amount <= math.MaxUint64/pct {
		return amount * pct / 100
	}
	return amount / 100 * pct
}
