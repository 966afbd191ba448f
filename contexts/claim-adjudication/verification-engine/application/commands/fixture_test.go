package commands

import (
	"time"

	"github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/adapters/memory"
	application "github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/application"
	"github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/domain/entities"
)

// testClock is a mutable fixed clock so tests can walk the voting window and
// cool-down boundaries deterministically.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type fixture struct {
	store    *memory.Store
	ledger   *memory.Ledger
	registry *memory.Registry
	clock    *testClock
	params   entities.VerificationParams

	stakes StakeUseCase
	rounds RoundUseCase
	votes  VoteUseCase
	admin  AdminUseCase
}

const (
	testAdminID    = "admin-1"
	testLedgerID   = "ledger-1"
	testRegistryID = "registry-1"
	testCustody    = "verification-custody"
	testTreasury   = "guardian-treasury"
)

func newFixture() *fixture {
	store := memory.NewStore()
	ledger := memory.NewLedger()
	registry := memory.NewRegistry()
	clock := &testClock{now: time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)}
	locks := application.NewKeyedMutex()
	params := entities.VerificationParams{
		MinStake:             1000,
		VotingPeriod:         72 * time.Hour,
		MajorityThresholdPct: 70,
		RewardPercent:        5,
		SlashPercent:         10,
		MaxVotersPerRound:    500,
		CustodyAccount:       testCustody,
		TreasuryAccount:      testTreasury,
	}

	store.SetAdminConfig(entities.AdminConfig{
		AdminID:         testAdminID,
		ValueLedgerID:   testLedgerID,
		ClaimRegistryID: testRegistryID,
		UpdatedAt:       clock.now,
	})
	ledger.SetBalance(testTreasury, 1_000_000)

	f := &fixture{
		store:    store,
		ledger:   ledger,
		registry: registry,
		clock:    clock,
		params:   params,
	}
	f.stakes = StakeUseCase{
		Stakes: store,
		Config: store,
		Ledger: ledger,
		Clock:  clock,
		IDGen:  store,
		Params: params,
		Locks:  locks,
	}
	f.rounds = RoundUseCase{
		Stakes:   store,
		Rounds:   store,
		Votes:    store,
		Config:   store,
		Ledger:   ledger,
		Registry: registry,
		Clock:    clock,
		IDGen:    store,
		Params:   params,
		Locks:    locks,
	}
	f.votes = VoteUseCase{
		Stakes:   store,
		Rounds:   store,
		Votes:    store,
		Config:   store,
		Ledger:   ledger,
		Registry: registry,
		Clock:    clock,
		IDGen:    store,
		Params:   params,
		Locks:    locks,
	}
	f.admin = AdminUseCase{
		Config: store,
		Clock:  clock,
		Locks:  locks,
	}
	return f
}

// seedGuardian installs an active stake record and keeps the custody account
// balance consistent with it, as if the stake had been deposited normally.
func (f *fixture) seedGuardian(guardianID string, staked uint64) {
	f.store.SetStakeRecord(entities.StakeRecord{
		GuardianID: guardianID,
		Staked:     staked,
		Active:     staked >= f.params.MinStake,
		CreatedAt:  f.clock.now,
		UpdatedAt:  f.clock.now,
	})
	f.ledger.SetBalance(testCustody, f.ledger.Balance(testCustody)+staked)
}

// seedRound opens a round for the claim starting at the current test time.
func (f *fixture) seedRound(claimID string) {
	f.store.SetRound(entities.VotingRound{
		ClaimID:   claimID,
		StartedAt: f.clock.now,
		CreatedAt: f.clock.now,
		UpdatedAt: f.clock.now,
	})
}

func (f *fixture) setPaused(paused bool) {
	f.store.SetAdminConfig(entities.AdminConfig{
		AdminID:         testAdminID,
		Paused:          paused,
		ValueLedgerID:   testLedgerID,
		ClaimRegistryID: testRegistryID,
		UpdatedAt:       f.clock.now,
	})
}
