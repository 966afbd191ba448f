package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	verificationengine "github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine"
	verificationerrors "github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/domain/errors"
	verificationhttp "github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/elunojames-cpu/Wildlife-Guardian-Rewards/internal/platform/httpserver/docs"
)

type Server struct {
	mux          *http.ServeMux
	logger       *slog.Logger
	addr         string
	verification verificationengine.Module
	limiters     *rateLimiters
}

func New(
	verification verificationengine.Module,
	logger *slog.Logger,
	addr string,
	rateLimit RateLimit,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:          http.NewServeMux(),
		logger:       logger,
		addr:         addr,
		verification: verification,
	}
	if rateLimit.enabled() {
		s.limiters = newRateLimiters(rateLimit)
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)

	s.mux.HandleFunc("POST /api/verification/v1/stake", s.limited(s.handleStake))
	s.mux.HandleFunc("POST /api/verification/v1/unstake", s.limited(s.handleUnstake))
	s.mux.HandleFunc("GET /api/verification/v1/guardians/{guardian_id}/stake", s.limited(s.handleGuardianStake))

	s.mux.HandleFunc("POST /api/verification/v1/claims/{claim_id}/round", s.limited(s.handleInitiateRound))
	s.mux.HandleFunc("GET /api/verification/v1/claims/{claim_id}/round", s.limited(s.handleGetRound))
	s.mux.HandleFunc("POST /api/verification/v1/claims/{claim_id}/votes", s.limited(s.handleCastVote))
	s.mux.HandleFunc("GET /api/verification/v1/claims/{claim_id}/votes/{guardian_id}", s.limited(s.handleGetBallot))

	s.mux.HandleFunc("GET /api/verification/v1/admin", s.limited(s.handleAdminConfig))
	s.mux.HandleFunc("POST /api/verification/v1/admin/pause", s.limited(s.handlePause))
	s.mux.HandleFunc("POST /api/verification/v1/admin/unpause", s.limited(s.handleUnpause))
	s.mux.HandleFunc("POST /api/verification/v1/admin/administrator", s.limited(s.handleSetAdministrator))
	s.mux.HandleFunc("POST /api/verification/v1/admin/value-ledger", s.limited(s.handleSetValueLedger))
	s.mux.HandleFunc("POST /api/verification/v1/admin/claim-registry", s.limited(s.handleSetClaimRegistry))
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStake(w http.ResponseWriter, r *http.Request) {
	guardianID := r.Header.Get("X-User-Id")
	if guardianID == "" {
		writeVerificationError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req verificationhttp.StakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVerificationError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.verification.Handler.StakeHandler(r.Context(), guardianID, req)
	if err != nil {
		writeVerificationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUnstake(w http.ResponseWriter, r *http.Request) {
	guardianID := r.Header.Get("X-User-Id")
	if guardianID == "" {
		writeVerificationError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req verificationhttp.UnstakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVerificationError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.verification.Handler.UnstakeHandler(r.Context(), guardianID, req)
	if err != nil {
		writeVerificationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGuardianStake(w http.ResponseWriter, r *http.Request) {
	guardianID := r.PathValue("guardian_id")
	resp, err := s.verification.Handler.GuardianStakeHandler(r.Context(), guardianID)
	if err != nil {
		writeVerificationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleInitiateRound(w http.ResponseWriter, r *http.Request) {
	callerID := r.Header.Get("X-User-Id")
	if callerID == "" {
		writeVerificationError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	claimID := r.PathValue("claim_id")
	resp, err := s.verification.Handler.InitiateRoundHandler(r.Context(), callerID, claimID)
	if err != nil {
		writeVerificationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetRound(w http.ResponseWriter, r *http.Request) {
	claimID := r.PathValue("claim_id")
	resp, err := s.verification.Handler.RoundHandler(r.Context(), claimID)
	if err != nil {
		writeVerificationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCastVote(w http.ResponseWriter, r *http.Request) {
	guardianID := r.Header.Get("X-User-Id")
	if guardianID == "" {
		writeVerificationError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req verificationhttp.CastVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVerificationError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	claimID := r.PathValue("claim_id")
	resp, err := s.verification.Handler.CastVoteHandler(r.Context(), guardianID, claimID, req)
	if err != nil {
		writeVerificationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetBallot(w http.ResponseWriter, r *http.Request) {
	claimID := r.PathValue("claim_id")
	guardianID := r.PathValue("guardian_id")
	resp, err := s.verification.Handler.BallotHandler(r.Context(), claimID, guardianID)
	if err != nil {
		writeVerificationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAdminConfig(w http.ResponseWriter, r *http.Request) {
	resp, err := s.verification.Handler.AdminConfigHandler(r.Context())
	if err != nil {
		writeVerificationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	callerID := r.Header.Get("X-User-Id")
	if callerID == "" {
		writeVerificationError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	resp, err := s.verification.Handler.PauseHandler(r.Context(), callerID)
	if err != nil {
		writeVerificationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUnpause(w http.ResponseWriter, r *http.Request) {
	callerID := r.Header.Get("X-User-Id")
	if callerID == "" {
		writeVerificationError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	resp, err := s.verification.Handler.UnpauseHandler(r.Context(), callerID)
	if err != nil {
		writeVerificationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetAdministrator(w http.ResponseWriter, r *http.Request) {
	s.handleAdminAssignment(w, r, s.verification.Handler.SetAdminHandler)
}

func (s *Server) handleSetValueLedger(w http.ResponseWriter, r *http.Request) {
	s.handleAdminAssignment(w, r, s.verification.Handler.SetValueLedgerHandler)
}

func (s *Server) handleSetClaimRegistry(w http.ResponseWriter, r *http.Request) {
	s.handleAdminAssignment(w, r, s.verification.Handler.SetClaimRegistryHandler)
}

func (s *Server) handleAdminAssignment(
	w http.ResponseWriter,
	r *http.Request,
	assign func(ctx context.Context, callerID string, req verificationhttp.AssignIdentityRequest) (verificationhttp.AdminConfigResponse, error),
) {
	callerID := r.Header.Get("X-User-Id")
	if callerID == "" {
		writeVerificationError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req verificationhttp.AssignIdentityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVerificationError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := assign(r.Context(), callerID, req)
	if err != nil {
		writeVerificationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeVerificationDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, verificationerrors.ErrUnauthorized):
		writeVerificationError(w, http.StatusForbidden, "unauthorized", err.Error())
	case errors.Is(err, verificationerrors.ErrPaused):
		writeVerificationError(w, http.StatusServiceUnavailable, "paused", err.Error())
	case errors.Is(err, verificationerrors.ErrUnknownClaim):
		writeVerificationError(w, http.StatusNotFound, "unknown_claim", err.Error())
	case errors.Is(err, verificationerrors.ErrVoteNotFound):
		writeVerificationError(w, http.StatusNotFound, "vote_not_found", err.Error())
	case errors.Is(err, verificationerrors.ErrRoundAlreadyExists):
		writeVerificationError(w, http.StatusConflict, "round_already_exists", err.Error())
	case errors.Is(err, verificationerrors.ErrAlreadyVoted):
		writeVerificationError(w, http.StatusConflict, "already_voted", err.Error())
	case errors.Is(err, verificationerrors.ErrNotStaked):
		writeVerificationError(w, http.StatusForbidden, "not_staked", err.Error())
	case errors.Is(err, verificationerrors.ErrVotingClosed):
		writeVerificationError(w, http.StatusGone, "voting_closed", err.Error())
	case errors.Is(err, verificationerrors.ErrInvalidVote):
		writeVerificationError(w, http.StatusBadRequest, "invalid_vote", err.Error())
	case errors.Is(err, verificationerrors.ErrInsufficientStake):
		writeVerificationError(w, http.StatusUnprocessableEntity, "insufficient_stake", err.Error())
	case errors.Is(err, verificationerrors.ErrInvalidAmount):
		writeVerificationError(w, http.StatusBadRequest, "invalid_amount", err.Error())
	case errors.Is(err, verificationerrors.ErrInvalidInput):
		writeVerificationError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, verificationerrors.ErrIntegrationFailure):
		writeVerificationError(w, http.StatusBadGateway, "integration_failure", err.Error())
	default:
		writeVerificationError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeVerificationError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, verificationhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func resolveClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	return r.RemoteAddr
}
