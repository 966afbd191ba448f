package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/domain/entities"
	domainerrors "github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/domain/errors"
	"github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"

	// adminConfigRowID pins the administrative record to a single row.
	adminConfigRowID = 1
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// AutoMigrate creates or updates the verification schema. Bootstrap runs it
// once before serving; repositories assume the tables exist.
func AutoMigrate(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&stakeRecordModel{},
		&votingRoundModel{},
		&voteModel{},
		&adminConfigModel{},
		&outboxModel{},
		&eventDedupModel{},
	)
}

func (r *Repository) GetStakeRecord(ctx context.Context, guardianID string) (entities.StakeRecord, bool, error) {
	var row stakeRecordModel
	err := r.db.WithContext(ctx).
		Where("guardian_id = ?", strings.TrimSpace(guardianID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.StakeRecord{}, false, nil
		}
		return entities.StakeRecord{}, false, r.logError("verification_repo_get_stake_failed", err,
			"guardian_id", strings.TrimSpace(guardianID),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) CommitStake(ctx context.Context, input ports.StakeMutationInput) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsertStakeRows(tx, []entities.StakeRecord{input.Record}); err != nil {
			return err
		}
		return appendOutboxRows(tx, input.Envelopes)
	})
	if err != nil {
		return r.logError("verification_repo_commit_stake_failed", err,
			"guardian_id", strings.TrimSpace(input.Record.GuardianID),
		)
	}
	return nil
}

func (r *Repository) GetRound(ctx context.Context, claimID string) (entities.VotingRound, bool, error) {
	var row votingRoundModel
	err := r.db.WithContext(ctx).
		Where("claim_id = ?", strings.TrimSpace(claimID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.VotingRound{}, false, nil
		}
		return entities.VotingRound{}, false, r.logError("verification_repo_get_round_failed", err,
			"claim_id", strings.TrimSpace(claimID),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) CreateRound(ctx context.Context, input ports.RoundCreationInput) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := votingRoundModelFromEntity(input.Round)
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrRoundAlreadyExists
			}
			return err
		}
		return appendOutboxRows(tx, input.Envelopes)
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrRoundAlreadyExists) {
			return err
		}
		return r.logError("verification_repo_create_round_failed", err,
			"claim_id", strings.TrimSpace(input.Round.ClaimID),
		)
	}
	return nil
}

func (r *Repository) ListExpiredOpenRounds(ctx context.Context, cutoff time.Time, limit int) ([]entities.VotingRound, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []votingRoundModel
	err := r.db.WithContext(ctx).
		Where("closed = ? AND started_at <= ?", false, cutoff.UTC()).
		Order("started_at ASC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("verification_repo_list_expired_rounds_failed", err, "limit", limit)
	}
	items := make([]entities.VotingRound, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) GetVote(ctx context.Context, claimID string, guardianID string) (entities.Vote, bool, error) {
	var row voteModel
	err := r.db.WithContext(ctx).
		Where("claim_id = ?", strings.TrimSpace(claimID)).
		Where("guardian_id = ?", strings.TrimSpace(guardianID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Vote{}, false, nil
		}
		return entities.Vote{}, false, r.logError("verification_repo_get_vote_failed", err,
			"claim_id", strings.TrimSpace(claimID),
			"guardian_id", strings.TrimSpace(guardianID),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) ListVotesForClaim(ctx context.Context, claimID string) ([]entities.Vote, error) {
	var rows []voteModel
	err := r.db.WithContext(ctx).
		Where("claim_id = ?", strings.TrimSpace(claimID)).
		Order("cast_at ASC, guardian_id ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("verification_repo_list_votes_failed", err,
			"claim_id", strings.TrimSpace(claimID),
		)
	}
	items := make([]entities.Vote, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) CommitBallot(ctx context.Context, input ports.BallotInput) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := voteModelFromEntity(input.Vote)
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrAlreadyVoted
			}
			return err
		}
		if err := updateRoundRow(tx, input.Round); err != nil {
			return err
		}
		if err := upsertStakeRows(tx, input.Stakes); err != nil {
			return err
		}
		return appendOutboxRows(tx, input.Envelopes)
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyVoted) || errors.Is(err, domainerrors.ErrUnknownClaim) {
			return err
		}
		return r.logError("verification_repo_commit_ballot_failed", err,
			"claim_id", strings.TrimSpace(input.Vote.ClaimID),
			"guardian_id", strings.TrimSpace(input.Vote.GuardianID),
		)
	}
	return nil
}

func (r *Repository) CommitClosure(ctx context.Context, input ports.ClosureInput) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateRoundRow(tx, input.Round); err != nil {
			return err
		}
		if err := upsertStakeRows(tx, input.Stakes); err != nil {
			return err
		}
		return appendOutboxRows(tx, input.Envelopes)
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrUnknownClaim) {
			return err
		}
		return r.logError("verification_repo_commit_closure_failed", err,
			"claim_id", strings.TrimSpace(input.Round.ClaimID),
		)
	}
	return nil
}

func (r *Repository) GetAdminConfig(ctx context.Context) (entities.AdminConfig, bool, error) {
	var row adminConfigModel
	err := r.db.WithContext(ctx).
		Where("id = ?", adminConfigRowID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.AdminConfig{}, false, nil
		}
		return entities.AdminConfig{}, false, r.logError("verification_repo_get_admin_config_failed", err)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) SaveAdminConfig(ctx context.Context, cfg entities.AdminConfig) error {
	row := adminConfigModelFromEntity(cfg)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&row).Error
	if err != nil {
		return r.logError("verification_repo_save_admin_config_failed", err)
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC, outbox_id ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("verification_repo_list_pending_outbox_failed", err, "limit", limit)
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      append([]byte(nil), row.Payload...),
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("verification_repo_mark_outbox_published_failed", result.Error,
			"outbox_id", strings.TrimSpace(outboxID),
		)
	}
	return nil
}

func (r *Repository) ReserveEvent(
	ctx context.Context,
	eventID string,
	payloadHash string,
	expiresAt time.Time,
) (bool, error) {
	row := eventDedupModel{
		EventID:     strings.TrimSpace(eventID),
		PayloadHash: strings.TrimSpace(payloadHash),
		ExpiresAt:   expiresAt.UTC(),
		ProcessedAt: time.Now().UTC(),
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		return false, r.logError("verification_repo_reserve_event_failed", create.Error,
			"event_id", strings.TrimSpace(eventID),
		)
	}
	return create.RowsAffected > 0, nil
}

func updateRoundRow(tx *gorm.DB, round entities.VotingRound) error {
	updates := map[string]any{
		"yes_votes":   int64(round.YesVotes),
		"no_votes":    int64(round.NoVotes),
		"total_votes": int64(round.TotalVotes),
		"closed":      round.Closed,
		"updated_at":  round.UpdatedAt.UTC(),
	}
	if round.Outcome != nil {
		updates["outcome"] = *round.Outcome
	}
	if round.ClosedAt != nil {
		updates["closed_at"] = round.ClosedAt.UTC()
	}
	result := tx.Model(&votingRoundModel{}).
		Where("claim_id = ?", strings.TrimSpace(round.ClaimID)).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrUnknownClaim
	}
	return nil
}

func upsertStakeRows(tx *gorm.DB, records []entities.StakeRecord) error {
	for _, record := range records {
		row := stakeRecordModelFromEntity(record)
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "guardian_id"}},
			UpdateAll: true,
		}).Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

func appendOutboxRows(tx *gorm.DB, envelopes []ports.EventEnvelope) error {
	for _, envelope := range envelopes {
		payload, err := json.Marshal(envelope)
		if err != nil {
			return err
		}
		row := outboxModel{
			OutboxID:     strings.TrimSpace(envelope.EventID),
			EventType:    strings.TrimSpace(envelope.EventType),
			PartitionKey: strings.TrimSpace(envelope.PartitionKey),
			Payload:      payload,
			Status:       outboxStatusPending,
			CreatedAt:    envelope.OccurredAt.UTC(),
		}
		if row.OutboxID == "" {
			row.OutboxID = uuid.NewString()
		}
		if row.CreatedAt.IsZero() {
			row.CreatedAt = time.Now().UTC()
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "outbox_id"}},
			DoNothing: true,
		}).Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "claim-adjudication/verification-engine",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("verification repository operation failed", fields...)
	return err
}

type stakeRecordModel struct {
	GuardianID  string     `gorm:"column:guardian_id;primaryKey"`
	Staked      int64      `gorm:"column:staked"`
	Active      bool       `gorm:"column:active"`
	LastVotedAt *time.Time `gorm:"column:last_voted_at"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

func (stakeRecordModel) TableName() string {
	return "stake_records"
}

func stakeRecordModelFromEntity(record entities.StakeRecord) stakeRecordModel {
	row := stakeRecordModel{
		GuardianID: strings.TrimSpace(record.GuardianID),
		Staked:     int64(record.Staked),
		Active:     record.Active,
		CreatedAt:  record.CreatedAt.UTC(),
		UpdatedAt:  record.UpdatedAt.UTC(),
	}
	if !record.LastVotedAt.IsZero() {
		lastVoted := record.LastVotedAt.UTC()
		row.LastVotedAt = &lastVoted
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m stakeRecordModel) toEntity() entities.StakeRecord {
	record := entities.StakeRecord{
		GuardianID: m.GuardianID,
		Staked:     uint64(m.Staked),
		Active:     m.Active,
		CreatedAt:  m.CreatedAt.UTC(),
		UpdatedAt:  m.UpdatedAt.UTC(),
	}
	if m.LastVotedAt != nil {
		record.LastVotedAt = m.LastVotedAt.UTC()
	}
	return record
}

type votingRoundModel struct {
	ClaimID    string     `gorm:"column:claim_id;primaryKey"`
	StartedAt  time.Time  `gorm:"column:started_at"`
	YesVotes   int64      `gorm:"column:yes_votes"`
	NoVotes    int64      `gorm:"column:no_votes"`
	TotalVotes int64      `gorm:"column:total_votes"`
	Closed     bool       `gorm:"column:closed"`
	Outcome    *bool      `gorm:"column:outcome"`
	ClosedAt   *time.Time `gorm:"column:closed_at"`
	CreatedAt  time.Time  `gorm:"column:created_at"`
	UpdatedAt  time.Time  `gorm:"column:updated_at"`
}

func (votingRoundModel) TableName() string {
	return "voting_rounds"
}

func votingRoundModelFromEntity(round entities.VotingRound) votingRoundModel {
	row := votingRoundModel{
		ClaimID:    strings.TrimSpace(round.ClaimID),
		StartedAt:  round.StartedAt.UTC(),
		YesVotes:   int64(round.YesVotes),
		NoVotes:    int64(round.NoVotes),
		TotalVotes: int64(round.TotalVotes),
		Closed:     round.Closed,
		Outcome:    round.Outcome,
		ClosedAt:   normalizeOptionalTime(round.ClosedAt),
		CreatedAt:  round.CreatedAt.UTC(),
		UpdatedAt:  round.UpdatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m votingRoundModel) toEntity() entities.VotingRound {
	return entities.VotingRound{
		ClaimID:    m.ClaimID,
		StartedAt:  m.StartedAt.UTC(),
		YesVotes:   uint64(m.YesVotes),
		NoVotes:    uint64(m.NoVotes),
		TotalVotes: uint64(m.TotalVotes),
		Closed:     m.Closed,
		Outcome:    m.Outcome,
		ClosedAt:   normalizeOptionalTime(m.ClosedAt),
		CreatedAt:  m.CreatedAt.UTC(),
		UpdatedAt:  m.UpdatedAt.UTC(),
	}
}

type voteModel struct {
	ClaimID    string    `gorm:"column:claim_id;primaryKey"`
	GuardianID string    `gorm:"column:guardian_id;primaryKey"`
	Choice     string    `gorm:"column:choice"`
	CastAt     time.Time `gorm:"column:cast_at"`
}

func (voteModel) TableName() string {
	return "verification_votes"
}

func voteModelFromEntity(vote entities.Vote) voteModel {
	return voteModel{
		ClaimID:    strings.TrimSpace(vote.ClaimID),
		GuardianID: strings.TrimSpace(vote.GuardianID),
		Choice:     string(vote.Choice),
		CastAt:     vote.CastAt.UTC(),
	}
}

func (m voteModel) toEntity() entities.Vote {
	return entities.Vote{
		ClaimID:    m.ClaimID,
		GuardianID: m.GuardianID,
		Choice:     entities.VoteChoice(m.Choice),
		CastAt:     m.CastAt.UTC(),
	}
}

type adminConfigModel struct {
	ID              int       `gorm:"column:id;primaryKey"`
	AdminID         string    `gorm:"column:admin_id"`
	Paused          bool      `gorm:"column:paused"`
	ValueLedgerID   string    `gorm:"column:value_ledger_id"`
	ClaimRegistryID string    `gorm:"column:claim_registry_id"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (adminConfigModel) TableName() string {
	return "verification_admin_config"
}

func adminConfigModelFromEntity(cfg entities.AdminConfig) adminConfigModel {
	row := adminConfigModel{
		ID:              adminConfigRowID,
		AdminID:         strings.TrimSpace(cfg.AdminID),
		Paused:          cfg.Paused,
		ValueLedgerID:   strings.TrimSpace(cfg.ValueLedgerID),
		ClaimRegistryID: strings.TrimSpace(cfg.ClaimRegistryID),
		UpdatedAt:       cfg.UpdatedAt.UTC(),
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = time.Now().UTC()
	}
	return row
}

func (m adminConfigModel) toEntity() entities.AdminConfig {
	return entities.AdminConfig{
		AdminID:         m.AdminID,
		Paused:          m.Paused,
		ValueLedgerID:   m.ValueLedgerID,
		ClaimRegistryID: m.ClaimRegistryID,
		UpdatedAt:       m.UpdatedAt.UTC(),
	}
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "verification_outbox"
}

type eventDedupModel struct {
	EventID     string    `gorm:"column:event_id;primaryKey"`
	PayloadHash string    `gorm:"column:payload_hash"`
	ExpiresAt   time.Time `gorm:"column:expires_at"`
	ProcessedAt time.Time `gorm:"column:processed_at"`
}

func (eventDedupModel) TableName() string {
	return "verification_event_dedup"
}

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	timestamp := value.UTC()
	return &timestamp
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.StakeRepository = (*Repository)(nil)
var _ ports.RoundRepository = (*Repository)(nil)
var _ ports.VoteRepository = (*Repository)(nil)
var _ ports.ConfigRepository = (*Repository)(nil)
var _ ports.OutboxRepository = (*Repository)(nil)
var _ ports.EventDedupStore = (*Repository)(nil)
