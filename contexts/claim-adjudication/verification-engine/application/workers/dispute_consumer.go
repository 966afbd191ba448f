package workers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	application "github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/application"
	"github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/application/commands"
	domainerrors "github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/domain/errors"
	"github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/ports"
)

const (
	claimDisputedTopic = "claim.disputed"
	defaultDisputeCG   = "verification-engine-dispute-cg"
)

// DisputeConsumer reacts to dispute events from the claim registry by
// initiating a voting round for the disputed claim. Event-id dedup keeps
// redeliveries from re-running the command, and a round that already exists
// is treated as a completed delivery.
type DisputeConsumer struct {
	Subscriber    ports.EventSubscriber
	Dedup         ports.EventDedupStore
	Config        ports.ConfigRepository
	Rounds        commands.RoundUseCase
	Clock         ports.Clock
	ConsumerGroup string
	DedupTTL      time.Duration
	Disabled      bool
	Logger        *slog.Logger
}

func (c DisputeConsumer) Start(ctx context.Context) error {
	logger := application.ResolveLogger(c.Logger)
	if c.Disabled {
		logger.Info("dispute consumer disabled by feature flag",
			"event", "verification_dispute_consumer_disabled",
			"module", "claim-adjudication/verification-engine",
			"layer", "worker",
		)
		return nil
	}
	group := strings.TrimSpace(c.ConsumerGroup)
	if group == "" {
		group = defaultDisputeCG
	}
	if err := c.Subscriber.Subscribe(ctx, claimDisputedTopic, group, c.handleClaimDisputed); err != nil {
		logger.Error("dispute consumer subscribe failed",
			"event", "verification_dispute_consumer_subscribe_failed",
			"module", "claim-adjudication/verification-engine",
			"layer", "worker",
			"topic", claimDisputedTopic,
			"error", err.Error(),
		)
		return err
	}
	logger.Info("dispute consumer subscribed",
		"event", "verification_dispute_consumer_started",
		"module", "claim-adjudication/verification-engine",
		"layer", "worker",
		"topic", claimDisputedTopic,
		"consumer_group", group,
	)
	return nil
}

func (c DisputeConsumer) handleClaimDisputed(ctx context.Context, event ports.EventEnvelope) error {
	logger := application.ResolveLogger(c.Logger)

	now := time.Now().UTC()
	if c.Clock != nil {
		now = c.Clock.Now().UTC()
	}
	ttl := c.DedupTTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	reserved, err := c.Dedup.ReserveEvent(ctx, event.EventID, hashPayload(event.Data), now.Add(ttl))
	if err != nil {
		return err
	}
	if !reserved {
		logger.Info("dispute event already processed",
			"event", "verification_dispute_duplicate",
			"module", "claim-adjudication/verification-engine",
			"layer", "worker",
			"event_id", event.EventID,
		)
		return nil
	}

	var payload struct {
		ClaimID string `json:"claim_id"`
	}
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		logger.Error("dispute event decode failed",
			"event", "verification_dispute_decode_failed",
			"module", "claim-adjudication/verification-engine",
			"layer", "worker",
			"event_id", event.EventID,
			"error", err.Error(),
		)
		return err
	}

	cfg, _, err := c.Config.GetAdminConfig(ctx)
	if err != nil {
		return err
	}

	_, err = c.Rounds.InitiateRound(ctx, commands.InitiateRoundCommand{
		CallerID: cfg.ClaimRegistryID,
		ClaimID:  payload.ClaimID,
	})
	if errors.Is(err, domainerrors.ErrRoundAlreadyExists) {
		logger.Info("dispute already has a round",
			"event", "verification_dispute_round_exists",
			"module", "claim-adjudication/verification-engine",
			"layer", "worker",
			"claim_id", payload.ClaimID,
		)
		return nil
	}
	return err
}

func hashPayload(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
