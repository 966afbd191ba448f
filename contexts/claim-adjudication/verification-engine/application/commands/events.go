package commands

import (
	"encoding/json"
	"time"

	"github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/ports"
)

const (
	eventRoundInitiated = "verification.round.initiated"
	eventVoteCast       = "verification.vote.cast"
	eventRoundClosed    = "verification.round.closed"
	eventStakeDeposited = "verification.stake.deposited"
	eventStakeWithdrawn = "verification.stake.withdrawn"
	eventStakeSlashed   = "verification.stake.slashed"
	eventStakeRewarded  = "verification.stake.rewarded"
)

// newVerificationEnvelope builds canonical envelopes for command-side events.
// Round and ballot events partition by claim id so claim-scoped consumers see
// ordered streams; stake events partition by guardian id.
func newVerificationEnvelope(
	eventID string,
	eventType string,
	partitionKeyPath string,
	partitionKey string,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "verification-engine",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: partitionKeyPath,
		PartitionKey:     partitionKey,
		Data:             payload,
	}, nil
}
