package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/domain/entities"
	domainerrors "github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/domain/errors"
	"github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/domain/services"
	"github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/ports"
)

// settleRound runs the one-shot closure sequence: build the plan, notify the
// registry, execute ledger transfers, and return the closed round, the
// post-slash stake records, and the closure envelopes for one atomic commit.
// Collaborator failures leave local state untouched because the caller
// commits nothing until this returns cleanly.
func settleRound(
	ctx context.Context,
	ledger ports.ValueLedger,
	registry ports.ClaimRegistry,
	idGen ports.IDGenerator,
	round entities.VotingRound,
	votes []entities.Vote,
	records map[string]entities.StakeRecord,
	params entities.VerificationParams,
	now time.Time,
) (entities.VotingRound, []entities.StakeRecord, []ports.EventEnvelope, error) {
	plan := services.BuildSettlementPlan(round, votes, records, params, now)

	if err := registry.SetClaimStatus(ctx, round.ClaimID, plan.Status); err != nil {
		return entities.VotingRound{}, nil, nil, integrationError("set claim status", err)
	}
	for _, transfer := range plan.Transfers {
		if err := ledger.Transfer(ctx, transfer.From, transfer.To, transfer.Amount); err != nil {
			return entities.VotingRound{}, nil, nil, integrationError("settlement transfer", err)
		}
	}

	outcome := plan.Outcome
	closedAt := now
	round.Closed = true
	round.Outcome = &outcome
	round.ClosedAt = &closedAt
	round.UpdatedAt = now

	envelopes := make([]ports.EventEnvelope, 0, len(plan.Transfers)+1)
	closedID, err := idGen.NewID(ctx)
	if err != nil {
		return entities.VotingRound{}, nil, nil, err
	}
	closedEnvelope, err := newVerificationEnvelope(closedID, eventRoundClosed, "claim_id", round.ClaimID, now, map[string]any{
		"claim_id":    round.ClaimID,
		"outcome":     outcome,
		"status":      string(plan.Status),
		"yes_votes":   round.YesVotes,
		"no_votes":    round.NoVotes,
		"total_votes": round.TotalVotes,
	})
	if err != nil {
		return entities.VotingRound{}, nil, nil, err
	}
	envelopes = append(envelopes, closedEnvelope)

	for _, transfer := range plan.Transfers {
		eventType := eventStakeRewarded
		if transfer.Slash {
			eventType = eventStakeSlashed
		}
		eventID, err := idGen.NewID(ctx)
		if err != nil {
			return entities.VotingRound{}, nil, nil, err
		}
		envelope, err := newVerificationEnvelope(eventID, eventType, "guardian_id", transfer.GuardianID, now, map[string]any{
			"claim_id":    round.ClaimID,
			"guardian_id": transfer.GuardianID,
			"amount":      transfer.Amount,
		})
		if err != nil {
			return entities.VotingRound{}, nil, nil, err
		}
		envelopes = append(envelopes, envelope)
	}
	return round, plan.Stakes, envelopes, nil
}

// integrationError wraps collaborator failures so errors.Is matches
// ErrIntegrationFailure while the cause stays readable.
func integrationError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", domainerrors.ErrIntegrationFailure, op, err)
}
