package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/domain/entities"
	"github.com/elunojames-cpu/Wildlife-Guardian-Rewards/contexts/claim-adjudication/verification-engine/ports"
)

// Ledger is an in-memory value ledger for tests and DSN-less runs. Accounts
// start at zero; seed balances with SetBalance before staking against it.
type Ledger struct {
	mu       sync.Mutex
	balances map[string]uint64
	failErr  error
}

func NewLedger() *Ledger {
	return &Ledger{balances: make(map[string]uint64)}
}

func (l *Ledger) SetBalance(account string, amount uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[strings.TrimSpace(account)] = amount
}

func (l *Ledger) Balance(account string) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[strings.TrimSpace(account)]
}

// FailWith makes every following Transfer return err until cleared with nil.
func (l *Ledger) FailWith(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failErr = err
}

func (l *Ledger) Transfer(_ context.Context, fromAccount string, toAccount string, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failErr != nil {
		return l.failErr
	}
	from := strings.TrimSpace(fromAccount)
	to := strings.TrimSpace(toAccount)
	if l.balances[from] < amount {
		return fmt.Errorf("insufficient funds in account %s", from)
	}
	l.balances[from] -= amount
	l.balances[to] += amount
	return nil
}

// Registry records claim verdicts in memory and counts status writes per
// claim so tests can assert notification behavior.
type Registry struct {
	mu       sync.Mutex
	statuses map[string]entities.ClaimStatus
	calls    map[string]int
	failErr  error
}

func NewRegistry() *Registry {
	return &Registry{
		statuses: make(map[string]entities.ClaimStatus),
		calls:    make(map[string]int),
	}
}

// FailWith makes every following SetClaimStatus return err until cleared.
func (r *Registry) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failErr = err
}

func (r *Registry) SetClaimStatus(_ context.Context, claimID string, status entities.ClaimStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return r.failErr
	}
	claimID = strings.TrimSpace(claimID)
	r.statuses[claimID] = status
	r.calls[claimID]++
	return nil
}

func (r *Registry) Status(claimID string) (entities.ClaimStatus, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	status, ok := r.statuses[strings.TrimSpace(claimID)]
	return status, ok
}

func (r *Registry) Calls(claimID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[strings.TrimSpace(claimID)]
}

var (
	_ ports.ValueLedger   = (*Ledger)(nil)
	_ ports.ClaimRegistry = (*Registry)(nil)
)
