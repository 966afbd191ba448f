package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/domain/entities"
	domainerrors "github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/domain/errors"
	"github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/ports"

	"github.com/google/uuid"
)

type outboxRecord struct {
	message   ports.OutboxMessage
	published bool
}

type dedupRecord struct {
	payloadHash string
	expiresAt   time.Time
}

// Store is the in-memory implementation of every repository port plus Clock
// and IDGenerator. It backs tests and DSN-less local runs. All commit
// methods apply their whole input under one lock, which gives the same
// all-or-nothing behavior as the transactional postgres adapter.
type Store struct {
	mu sync.RWMutex

	stakes     map[string]entities.StakeRecord
	rounds     map[string]entities.VotingRound
	votes      map[string]map[string]entities.Vote
	config     *entities.AdminConfig
	outbox     map[string]outboxRecord
	eventDedup map[string]dedupRecord
}

func NewStore() *Store {
	return &Store{
		stakes:     make(map[string]entities.StakeRecord),
		rounds:     make(map[string]entities.VotingRound),
		votes:      make(map[string]map[string]entities.Vote),
		outbox:     make(map[string]outboxRecord),
		eventDedup: make(map[string]dedupRecord),
	}
}

func (s *Store) SetStakeRecord(record entities.StakeRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record.GuardianID = strings.TrimSpace(record.GuardianID)
	s.stakes[record.GuardianID] = record
}

func (s *Store) SetRound(round entities.VotingRound) {
	s.mu.Lock()
	defer s.mu.Unlock()
	round.ClaimID = strings.TrimSpace(round.ClaimID)
	s.rounds[round.ClaimID] = round
}

func (s *Store) SetVote(vote entities.Vote) {
	s.mu.Lock()
	defer s.mu.Unlock()
	vote.ClaimID = strings.TrimSpace(vote.ClaimID)
	vote.GuardianID = strings.TrimSpace(vote.GuardianID)
	s.putVoteLocked(vote)
}

func (s *Store) SetAdminConfig(cfg entities.AdminConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = &cfg
}

func (s *Store) GetStakeRecord(_ context.Context, guardianID string) (entities.StakeRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.stakes[strings.TrimSpace(guardianID)]
	return record, ok, nil
}

func (s *Store) CommitStake(_ context.Context, input ports.StakeMutationInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stakes[input.Record.GuardianID] = input.Record
	return s.appendOutboxLocked(input.Envelopes)
}

func (s *Store) GetRound(_ context.Context, claimID string) (entities.VotingRound, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	round, ok := s.rounds[strings.TrimSpace(claimID)]
	return round, ok, nil
}

func (s *Store) CreateRound(_ context.Context, input ports.RoundCreationInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.rounds[input.Round.ClaimID]; exists {
		return domainerrors.ErrRoundAlreadyExists
	}
	s.rounds[input.Round.ClaimID] = input.Round
	return s.appendOutboxLocked(input.Envelopes)
}

func (s *Store) ListExpiredOpenRounds(_ context.Context, cutoff time.Time, limit int) ([]entities.VotingRound, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var expired []entities.VotingRound
	for _, round := range s.rounds {
		if round.Closed || round.StartedAt.After(cutoff) {
			continue
		}
		expired = append(expired, round)
	}
	sort.Slice(expired, func(i, j int) bool {
		if expired[i].StartedAt.Equal(expired[j].StartedAt) {
			return expired[i].ClaimID < expired[j].ClaimID
		}
		return expired[i].StartedAt.Before(expired[j].StartedAt)
	})
	if limit > 0 && len(expired) > limit {
		expired = expired[:limit]
	}
	return expired, nil
}

func (s *Store) GetVote(_ context.Context, claimID string, guardianID string) (entities.Vote, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	vote, ok := s.votes[strings.TrimSpace(claimID)][strings.TrimSpace(guardianID)]
	return vote, ok, nil
}

func (s *Store) ListVotesForClaim(_ context.Context, claimID string) ([]entities.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var votes []entities.Vote
	for _, vote := range s.votes[strings.TrimSpace(claimID)] {
		votes = append(votes, vote)
	}
	sort.Slice(votes, func(i, j int) bool {
		if votes[i].CastAt.Equal(votes[j].CastAt) {
			return votes[i].GuardianID < votes[j].GuardianID
		}
		return votes[i].CastAt.Before(votes[j].CastAt)
	})
	return votes, nil
}

func (s *Store) CommitBallot(_ context.Context, input ports.BallotInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.votes[input.Vote.ClaimID][input.Vote.GuardianID]; exists {
		return domainerrors.ErrAlreadyVoted
	}
	s.putVoteLocked(input.Vote)
	s.rounds[input.Round.ClaimID] = input.Round
	for _, record := range input.Stakes {
		s.stakes[record.GuardianID] = record
	}
	return s.appendOutboxLocked(input.Envelopes)
}

func (s *Store) CommitClosure(_ context.Context, input ports.ClosureInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rounds[input.Round.ClaimID] = input.Round
	for _, record := range input.Stakes {
		s.stakes[record.GuardianID] = record
	}
	return s.appendOutboxLocked(input.Envelopes)
}

func (s *Store) GetAdminConfig(_ context.Context) (entities.AdminConfig, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.config == nil {
		return entities.AdminConfig{}, false, nil
	}
	return *s.config, true, nil
}

func (s *Store) SaveAdminConfig(_ context.Context, cfg entities.AdminConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = &cfg
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var pending []ports.OutboxMessage
	for _, record := range s.outbox {
		if record.published {
			continue
		}
		pending = append(pending, record.message)
	}
	sort.Slice(pending, func(i, j int) bool {
		if pending[i].CreatedAt.Equal(pending[j].CreatedAt) {
			return pending[i].OutboxID < pending[j].OutboxID
		}
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})
	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.outbox[outboxID]
	if !ok {
		return nil
	}
	record.published = true
	s.outbox[outboxID] = record
	return nil
}

func (s *Store) ReserveEvent(_ context.Context, eventID string, payloadHash string, expiresAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.eventDedup[eventID]; ok {
		return false, nil
	}
	s.eventDedup[eventID] = dedupRecord{payloadHash: payloadHash, expiresAt: expiresAt}
	return true, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (s *Store) putVoteLocked(vote entities.Vote) {
	byGuardian, ok := s.votes[vote.ClaimID]
	if !ok {
		byGuardian = make(map[string]entities.Vote)
		s.votes[vote.ClaimID] = byGuardian
	}
	byGuardian[vote.GuardianID] = vote
}

func (s *Store) appendOutboxLocked(envelopes []ports.EventEnvelope) error {
	for _, envelope := range envelopes {
		payload, err := json.Marshal(envelope)
		if err != nil {
			return err
		}
		message := ports.OutboxMessage{
			OutboxID:     envelope.EventID,
			EventType:    envelope.EventType,
			PartitionKey: envelope.PartitionKey,
			Payload:      payload,
			CreatedAt:    envelope.OccurredAt,
		}
		s.outbox[message.OutboxID] = outboxRecord{message: message}
	}
	return nil
}

var (
	_ ports.StakeRepository  = (*Store)(nil)
	_ ports.RoundRepository  = (*Store)(nil)
	_ ports.VoteRepository   = (*Store)(nil)
	_ ports.ConfigRepository = (*Store)(nil)
	_ ports.OutboxRepository = (*Store)(nil)
	_ ports.EventDedupStore  = (*Store)(nil)
	_ ports.Clock            = (*Store)(nil)
	_ ports.IDGenerator      = (*Store)(nil)
)
