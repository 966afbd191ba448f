package workers

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/adapters/memory"
	application "github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/application"
	"github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/application/commands"
	"github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/domain/entities"
	"github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/ports"
)

type capturingSubscriber struct {
	topic   string
	group   string
	handler func(context.Context, ports.EventEnvelope) error
}

func (s *capturingSubscriber) Subscribe(_ context.Context, topic string, group string, handler func(context.Context, ports.EventEnvelope) error) error {
	s.topic = topic
	s.group = group
	s.handler = handler
	return nil
}

func disputeEnvelope(t *testing.T, eventID string, claimID string) ports.EventEnvelope {
	t.Helper()
	payload, err := json.Marshal(map[string]string{"claim_id": claimID})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return ports.EventEnvelope{
		EventID:    eventID,
		EventType:  "claim.disputed",
		OccurredAt: time.Now().UTC(),
		Data:       payload,
	}
}

func newDisputeConsumer(store *memory.Store, subscriber *capturingSubscriber) DisputeConsumer {
	locks := application.NewKeyedMutex()
	params := entities.DefaultParams()
	rounds := commands.RoundUseCase{
		Stakes: store, Rounds: store, Votes: store, Config: store,
		Ledger: memory.NewLedger(), Registry: memory.NewRegistry(),
		Clock: store, IDGen: store, Params: params, Locks: locks,
	}
	return DisputeConsumer{
		Subscriber: subscriber,
		Dedup:      store,
		Config:     store,
		Rounds:     rounds,
	}
}

func TestDisputeConsumerInitiatesRound(t *testing.T) {
	store := memory.NewStore()
	store.SetAdminConfig(entities.AdminConfig{AdminID: "admin-1", ClaimRegistryID: "registry-1"})
	subscriber := &capturingSubscriber{}
	consumer := newDisputeConsumer(store, subscriber)

	if err := consumer.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if subscriber.topic != "claim.disputed" {
		t.Fatalf("expected subscription to claim.disputed, got %s", subscriber.topic)
	}
	if subscriber.group == "" {
		t.Fatalf("expected a default consumer group")
	}

	if err := subscriber.handler(context.Background(), disputeEnvelope(t, "event-1", "claim-1")); err != nil {
		t.Fatalf("handle dispute failed: %v", err)
	}
	round, found, _ := store.GetRound(context.Background(), "claim-1")
	if !found || round.Closed {
		t.Fatalf("expected an open round for the disputed claim, got %+v found=%v", round, found)
	}
}

func TestDisputeConsumerDeduplicatesRedeliveries(t *testing.T) {
	store := memory.NewStore()
	store.SetAdminConfig(entities.AdminConfig{AdminID: "admin-1", ClaimRegistryID: "registry-1"})
	subscriber := &capturingSubscriber{}
	consumer := newDisputeConsumer(store, subscriber)
	if err := consumer.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	if err := subscriber.handler(context.Background(), disputeEnvelope(t, "event-1", "claim-1")); err != nil {
		t.Fatalf("first delivery failed: %v", err)
	}
	// The same event id redelivered is absorbed without touching the round.
	if err := subscriber.handler(context.Background(), disputeEnvelope(t, "event-1", "claim-1")); err != nil {
		t.Fatalf("redelivery failed: %v", err)
	}
	// A new event for a claim that already has a round is also a completed
	// delivery, not an error.
	if err := subscriber.handler(context.Background(), disputeEnvelope(t, "event-2", "claim-1")); err != nil {
		t.Fatalf("duplicate claim dispute failed: %v", err)
	}
}

func TestDisputeConsumerDisabled(t *testing.T) {
	store := memory.NewStore()
	subscriber := &capturingSubscriber{}
	consumer := newDisputeConsumer(store, subscriber)
	consumer.Disabled = true

	if err := consumer.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if subscriber.handler != nil {
		t.Fatalf("expected no subscription while disabled")
	}
}
