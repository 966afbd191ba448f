package httpadapter

import (
	"context"
	"log/slog"

	"github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/application/commands"
	"github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/application/queries"
	"github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/domain/entities"
	httptransport "github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/transport/http"
)

type Handler struct {
	Stakes commands.StakeUseCase
	Rounds commands.RoundUseCase
	Votes  commands.VoteUseCase
	Admin  commands.AdminUseCase
	Status queries.StatusUseCase
	Logger *slog.Logger
}

func (h Handler) StakeHandler(ctx context.Context, guardianID string, req httptransport.StakeRequest) (httptransport.StakeResponse, error) {
	record, err := h.Stakes.Stake(ctx, commands.StakeCommand{
		GuardianID: guardianID,
		Amount:     req.Amount,
	})
	if err != nil {
		return httptransport.StakeResponse{}, err
	}
	return h.mapStake(record, true), nil
}

func (h Handler) UnstakeHandler(ctx context.Context, guardianID string, req httptransport.UnstakeRequest) (httptransport.StakeResponse, error) {
	record, err := h.Stakes.Unstake(ctx, commands.UnstakeCommand{
		GuardianID: guardianID,
		Amount:     req.Amount,
	})
	if err != nil {
		return httptransport.StakeResponse{}, err
	}
	return h.mapStake(record, true), nil
}

func (h Handler) GuardianStakeHandler(ctx context.Context, guardianID string) (httptransport.StakeResponse, error) {
	status, err := h.Status.StakeRecord(ctx, guardianID)
	if err != nil {
		return httptransport.StakeResponse{}, err
	}
	resp := h.mapStake(status.Record, status.Found)
	resp.Eligible = status.Eligible
	return resp, nil
}

func (h Handler) InitiateRoundHandler(ctx context.Context, callerID string, claimID string) (httptransport.RoundResponse, error) {
	round, err := h.Rounds.InitiateRound(ctx, commands.InitiateRoundCommand{
		CallerID: callerID,
		ClaimID:  claimID,
	})
	if err != nil {
		return httptransport.RoundResponse{}, err
	}
	return mapRound(round), nil
}

func (h Handler) RoundHandler(ctx context.Context, claimID string) (httptransport.RoundResponse, error) {
	view, err := h.Status.Round(ctx, claimID)
	if err != nil {
		return httptransport.RoundResponse{}, err
	}
	resp := mapRound(view.Round)
	resp.YesPercent = view.YesPercent
	return resp, nil
}

func (h Handler) CastVoteHandler(
	ctx context.Context,
	guardianID string,
	claimID string,
	req httptransport.CastVoteRequest,
) (httptransport.VoteResponse, error) {
	result, err := h.Votes.CastVote(ctx, commands.CastVoteCommand{
		GuardianID: guardianID,
		ClaimID:    claimID,
		Choice:     entities.VoteChoice(req.Choice),
	})
	if err != nil {
		return httptransport.VoteResponse{}, err
	}
	return httptransport.VoteResponse{
		ClaimID:    result.Vote.ClaimID,
		GuardianID: result.Vote.GuardianID,
		Choice:     string(result.Vote.Choice),
		CastAt:     result.Vote.CastAt,
		Round:      mapRound(result.Round),
	}, nil
}

func (h Handler) BallotHandler(ctx context.Context, claimID string, guardianID string) (httptransport.BallotResponse, error) {
	vote, err := h.Status.Vote(ctx, claimID, guardianID)
	if err != nil {
		return httptransport.BallotResponse{}, err
	}
	return httptransport.BallotResponse{
		ClaimID:    vote.ClaimID,
		GuardianID: vote.GuardianID,
		Choice:     string(vote.Choice),
		CastAt:     vote.CastAt,
	}, nil
}

func (h Handler) AdminConfigHandler(ctx context.Context) (httptransport.AdminConfigResponse, error) {
	cfg, err := h.Status.Admin(ctx)
	if err != nil {
		return httptransport.AdminConfigResponse{}, err
	}
	return mapAdminConfig(cfg), nil
}

func (h Handler) PauseHandler(ctx context.Context, callerID string) (httptransport.AdminConfigResponse, error) {
	cfg, err := h.Admin.Pause(ctx, callerID)
	if err != nil {
		return httptransport.AdminConfigResponse{}, err
	}
	return mapAdminConfig(cfg), nil
}

func (h Handler) UnpauseHandler(ctx context.Context, callerID string) (httptransport.AdminConfigResponse, error) {
	cfg, err := h.Admin.Unpause(ctx, callerID)
	if err != nil {
		return httptransport.AdminConfigResponse{}, err
	}
	return mapAdminConfig(cfg), nil
}

func (h Handler) SetAdminHandler(ctx context.Context, callerID string, req httptransport.AssignIdentityRequest) (httptransport.AdminConfigResponse, error) {
	cfg, err := h.Admin.SetAdmin(ctx, callerID, req.ID)
	if err != nil {
		return httptransport.AdminConfigResponse{}, err
	}
	return mapAdminConfig(cfg), nil
}

func (h Handler) SetValueLedgerHandler(ctx context.Context, callerID string, req httptransport.AssignIdentityRequest) (httptransport.AdminConfigResponse, error) {
	cfg, err := h.Admin.SetValueLedger(ctx, callerID, req.ID)
	if err != nil {
		return httptransport.AdminConfigResponse{}, err
	}
	return mapAdminConfig(cfg), nil
}

func (h Handler) SetClaimRegistryHandler(ctx context.Context, callerID string, req httptransport.AssignIdentityRequest) (httptransport.AdminConfigResponse, error) {
	cfg, err := h.Admin.SetClaimRegistry(ctx, callerID, req.ID)
	if err != nil {
		return httptransport.AdminConfigResponse{}, err
	}
	return mapAdminConfig(cfg), nil
}

func (h Handler) mapStake(record entities.StakeRecord, found bool) httptransport.StakeResponse {
	resp := httptransport.StakeResponse{
		GuardianID: record.GuardianID,
		Staked:     record.Staked,
		Active:     record.Active,
		Eligible:   found && record.Eligible(h.Status.Params.MinStake),
	}
	if !record.LastVotedAt.IsZero() {
		lastVoted := record.LastVotedAt
		resp.LastVotedAt = &lastVoted
	}
	return resp
}

func mapRound(round entities.VotingRound) httptransport.RoundResponse {
	resp := httptransport.RoundResponse{
		ClaimID:    round.ClaimID,
		StartedAt:  round.StartedAt,
		YesVotes:   round.YesVotes,
		NoVotes:    round.NoVotes,
		TotalVotes: round.TotalVotes,
		YesPercent: round.YesPercent(),
		Closed:     round.Closed,
		Outcome:    round.Outcome,
		ClosedAt:   round.ClosedAt,
	}
	if round.Closed && round.Outcome != nil {
		resp.Status = string(entities.OutcomeStatus(*round.Outcome))
	}
	return resp
}

func mapAdminConfig(cfg entities.AdminConfig) httptransport.AdminConfigResponse {
	return httptransport.AdminConfigResponse{
		AdminID:         cfg.AdminID,
		Paused:          cfg.Paused,
		ValueLedgerID:   cfg.ValueLedgerID,
		ClaimRegistryID: cfg.ClaimRegistryID,
		UpdatedAt:       cfg.UpdatedAt,
	}
}
