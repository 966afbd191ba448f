package verificationengine

import (
	"log/slog"

	httpadapter "github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/adapters/http"
	"github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/adapters/memory"
	"github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/application"
	"github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/application/commands"
	"github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/application/queries"
	"github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/domain/entities"
	"github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/ports"
)

// Module bundles the wired entry points. Rounds is exposed for the worker
// binary, which drives sweep closures and dispute-initiated rounds through
// the same use case the API serves.
type Module struct {
	Handler  httpadapter.Handler
	Rounds   commands.RoundUseCase
	Store    *memory.Store
	Ledger   *memory.Ledger
	Registry *memory.Registry
}

type Dependencies struct {
	Stakes   ports.StakeRepository
	Rounds   ports.RoundRepository
	Votes    ports.VoteRepository
	Config   ports.ConfigRepository
	Ledger   ports.ValueLedger
	Registry ports.ClaimRegistry
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Params   entities.VerificationParams
	Logger   *slog.Logger
}

func NewModule(deps Dependencies) Module {
	params := deps.Params.WithDefaults()
	locks := application.NewKeyedMutex()

	stakeUseCase := commands.StakeUseCase{
		Stakes: deps.Stakes,
		Config: deps.Config,
		Ledger: deps.Ledger,
		Clock:  deps.Clock,
		IDGen:  deps.IDGen,
		Params: params,
		Locks:  locks,
		Logger: deps.Logger,
	}
	roundUseCase := commands.RoundUseCase{
		Stakes:   deps.Stakes,
		Rounds:   deps.Rounds,
		Votes:    deps.Votes,
		Config:   deps.Config,
		Ledger:   deps.Ledger,
		Registry: deps.Registry,
		Clock:    deps.Clock,
		IDGen:    deps.IDGen,
		Params:   params,
		Locks:    locks,
		Logger:   deps.Logger,
	}
	voteUseCase := commands.VoteUseCase{
		Stakes:   deps.Stakes,
		Rounds:   deps.Rounds,
		Votes:    deps.Votes,
		Config:   deps.Config,
		Ledger:   deps.Ledger,
		Registry: deps.Registry,
		Clock:    deps.Clock,
		IDGen:    deps.IDGen,
		Params:   params,
		Locks:    locks,
		Logger:   deps.Logger,
	}
	adminUseCase := commands.AdminUseCase{
		Config: deps.Config,
		Clock:  deps.Clock,
		Locks:  locks,
		Logger: deps.Logger,
	}
	statusUseCase := queries.StatusUseCase{
		Stakes: deps.Stakes,
		Rounds: deps.Rounds,
		Votes:  deps.Votes,
		Config: deps.Config,
		Params: params,
	}
	return Module{
		Handler: httpadapter.Handler{
			Stakes: stakeUseCase,
			Rounds: roundUseCase,
			Votes:  voteUseCase,
			Admin:  adminUseCase,
			Status: statusUseCase,
			Logger: deps.Logger,
		},
		Rounds: roundUseCase,
	}
}

// NewInMemoryModule wires the module against in-process doubles for the
// repositories and both external collaborators. The test suite and local
// sandboxes use it to run the full stack without infrastructure.
func NewInMemoryModule(params entities.VerificationParams, logger *slog.Logger) Module {
	store := memory.NewStore()
	ledger := memory.NewLedger()
	registry := memory.NewRegistry()
	module := NewModule(Dependencies{
		Stakes:   store,
		Rounds:   store,
		Votes:    store,
		Config:   store,
		Ledger:   ledger,
		Registry: registry,
		Clock:    store,
		IDGen:    store,
		Params:   params,
		Logger:   logger,
	})
	module.Store = store
	module.Ledger = ledger
	module.Registry = registry
	return module
}
