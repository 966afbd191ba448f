package ports

import (
	"context"
	"time"

	"github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/domain/entities"
	contractsv1 "github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contracts/gen/events/v1"
)

// Clock abstracts current time for deterministic tests. The core never reads
// the wall clock directly.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID generation for event ids.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// StakeMutationInput is persisted atomically: the stake record and its
// outbox events commit together or not at all.
type StakeMutationInput struct {
	Record    entities.StakeRecord
	Envelopes []EventEnvelope
}

// StakeRepository is the write/read boundary for guardian stake records.
type StakeRepository interface {
	GetStakeRecord(ctx context.Context, guardianID string) (entities.StakeRecord, bool, error)
	CommitStake(ctx context.Context, input StakeMutationInput) error
}

// RoundCreationInput is persisted atomically with its outbox events.
type RoundCreationInput struct {
	Round     entities.VotingRound
	Envelopes []EventEnvelope
}

// RoundRepository is the write/read boundary for per-claim voting rounds.
// CreateRound reports ErrRoundAlreadyExists when the claim already has one.
type RoundRepository interface {
	GetRound(ctx context.Context, claimID string) (entities.VotingRound, bool, error)
	CreateRound(ctx context.Context, input RoundCreationInput) error
	ListExpiredOpenRounds(ctx context.Context, cutoff time.Time, limit int) ([]entities.VotingRound, error)
}

// BallotInput is persisted atomically: the ballot row, the updated round,
// every touched stake record, and the outbox events commit together.
type BallotInput struct {
	Vote      entities.Vote
	Round     entities.VotingRound
	Stakes    []entities.StakeRecord
	Envelopes []EventEnvelope
}

// ClosureInput commits a sweep-driven round closure with its slashed stake
// records and outbox events, no new ballot involved.
type ClosureInput struct {
	Round     entities.VotingRound
	Stakes    []entities.StakeRecord
	Envelopes []EventEnvelope
}

// VoteRepository is the write/read boundary for ballots. CommitBallot
// reports ErrAlreadyVoted when the (claim, guardian) pair exists.
type VoteRepository interface {
	GetVote(ctx context.Context, claimID string, guardianID string) (entities.Vote, bool, error)
	ListVotesForClaim(ctx context.Context, claimID string) ([]entities.Vote, error)
	CommitBallot(ctx context.Context, input BallotInput) error
	CommitClosure(ctx context.Context, input ClosureInput) error
}

// ConfigRepository stores the singleton admin record.
type ConfigRepository interface {
	GetAdminConfig(ctx context.Context) (entities.AdminConfig, bool, error)
	SaveAdminConfig(ctx context.Context, cfg entities.AdminConfig) error
}

// ValueLedger moves reward tokens between accounts. Account ids are guardian
// identities plus the custody and treasury system accounts.
type ValueLedger interface {
	Transfer(ctx context.Context, fromAccount string, toAccount string, amount uint64) error
}

// ClaimRegistry records verification verdicts with the upstream system that
// owns claim content.
type ClaimRegistry interface {
	SetClaimStatus(ctx context.Context, claimID string, status entities.ClaimStatus) error
}

// EventDedupStore makes event consumption idempotent across redeliveries.
type EventDedupStore interface {
	ReserveEvent(ctx context.Context, eventID string, payloadHash string, expiresAt time.Time) (bool, error)
}

// EventEnvelope is the canonical cross-service event envelope.
type EventEnvelope = contractsv1.Envelope

// OutboxMessage is one persisted, not-yet-published event row.
type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

// OutboxRepository drains the outbox from the relay worker.
type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

// EventPublisher hands envelopes to the event bus.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

// EventSubscriber registers a handler for a topic within a consumer group.
type EventSubscriber interface {
	Subscribe(ctx context.Context, topic string, consumerGroup string, handler func(context.Context, EventEnvelope) error) error
}
