package workers

import (
	"context"
	"log/slog"

	application "github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/application"
	"github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/application/commands"
)

// RoundExpirer sweeps open rounds whose voting window elapsed without a
// closing ballot and settles each one. Settlement itself lives in the round
// use case so ballot-driven and sweep-driven closures share one path.
type RoundExpirer struct {
	Rounds    commands.RoundUseCase
	BatchSize int
	Logger    *slog.Logger
}

func (e RoundExpirer) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(e.Logger)
	closed, err := e.Rounds.CloseExpired(ctx, e.BatchSize)
	if err != nil {
		logger.Error("round expiry sweep failed",
			"event", "verification_round_expirer_failed",
			"module", "claim-adjudication/verification-engine",
			"layer", "worker",
			"closed_count", closed,
			"error", err.Error(),
		)
		return err
	}
	if closed > 0 {
		logger.Info("round expiry sweep completed",
			"event", "verification_round_expirer_completed",
			"module", "claim-adjudication/verification-engine",
			"layer", "worker",
			"closed_count", closed,
		)
	}
	return nil
}
