// Package repository mirrors the server's investment list in memory.
//
// Every mutation goes to the server first; the local list only changes
// once the server has accepted the change, and then only with the rows the
// server returned.
package repository

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"folio/internal/client"
	"folio/internal/models"
)

// DefaultFetchConcurrency bounds concurrent transaction fetches during Load.
const DefaultFetchConcurrency = 4

// Remote is the part of the API client the repository uses.
type Remote interface {
	ListInvestments(ctx context.Context) ([]models.Investment, error)
	GetInvestmentTransactions(ctx context.Context, id string) ([]models.Transaction, error)
	CreateInvestment(ctx context.Context, in client.NewInvestment) (*models.Investment, error)
	UpdateInvestment(ctx context.Context, id string, patch client.InvestmentPatch) (*models.Investment, error)
	DeleteInvestment(ctx context.Context, id string) error
	AddTransaction(ctx context.Context, id string, in client.NewTransaction) (*models.Transaction, *models.Investment, error)
}

// Repository is the client-side investment store. It is safe for
// concurrent use; mutations of the same investment run one at a time.
type Repository struct {
	remote      Remote
	logger      *zap.SugaredLogger
	concurrency int

	mu          sync.RWMutex
	investments []models.Investment

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// Option configures a Repository.
type Option func(*Repository)

// WithLogger sets the logger.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(r *Repository) {
		r.logger = logger
	}
}

// WithFetchConcurrency bounds concurrent transaction fetches during Load.
func WithFetchConcurrency(n int) Option {
	return func(r *Repository) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// New returns an empty repository backed by remote.
func New(remote Remote, opts ...Option) *Repository {
	r := &Repository{
		remote:      remote,
		logger:      zap.NewNop().Sugar(),
		concurrency: DefaultFetchConcurrency,
		investments: []models.Investment{},
		locks:       make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load replaces the local list with the server's. A failed transaction
// fetch leaves that investment with an empty history; a failed list fetch
// leaves the local list untouched.
func (r *Repository) Load(ctx context.Context) error {
	list, err := r.remote.ListInvestments(ctx)
	if err != nil {
		r.logger.Errorw("failed to load investments", "error", err)
		return fmt.Errorf("loading investments: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i := range list {
		g.Go(func() error {
			txs, err := r.remote.GetInvestmentTransactions(gctx, list[i].ID)
			if err != nil {
				r.logger.Warnw("failed to load transactions", "investment_id", list[i].ID, "error", err)
				txs = []models.Transaction{}
			}
			list[i].Transactions = txs
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("loading investments: %w", err)
	}

	for i := range list {
		if list[i].Transactions == nil {
			list[i].Transactions = []models.Transaction{}
		}
	}

	r.mu.Lock()
	r.investments = list
	r.mu.Unlock()
	return nil
}

// Investments returns a deep copy of the local list in server order.
func (r *Repository) Investments() []models.Investment {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Investment, len(r.investments))
	for i := range r.investments {
		out[i] = clone(r.investments[i])
	}
	return out
}

// Get returns a copy of one investment.
func (r *Repository) Get(id string) (models.Investment, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(id); i >= 0 {
		return clone(r.investments[i]), true
	}
	return models.Investment{}, false
}

// Add creates an investment on the server and appends the stored row.
func (r *Repository) Add(ctx context.Context, in client.NewInvestment) (*models.Investment, error) {
	created, err := r.remote.CreateInvestment(ctx, in)
	if err != nil {
		r.logger.Errorw("failed to add investment", "name", in.Name, "error", err)
		return nil, fmt.Errorf("adding investment: %w", err)
	}
	created.Transactions = []models.Transaction{}

	r.mu.Lock()
	r.investments = append(r.investments, clone(*created))
	r.mu.Unlock()
	return created, nil
}

// Update applies a partial update on the server and replaces the local row,
// keeping its local transaction history. The server stamps updated_by from
// the caller's token; updatedBy identifies the actor in logs.
func (r *Repository) Update(ctx context.Context, id string, patch client.InvestmentPatch, updatedBy string) (*models.Investment, error) {
	unlock := r.lock(id)
	defer unlock()

	updated, err := r.remote.UpdateInvestment(ctx, id, patch)
	if err != nil {
		r.logger.Errorw("failed to update investment", "investment_id", id, "updated_by", updatedBy, "error", err)
		return nil, fmt.Errorf("updating investment: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if i := r.indexOf(id); i >= 0 {
		updated.Transactions = cloneTransactions(r.investments[i].Transactions)
		r.investments[i] = clone(*updated)
	}
	return updated, nil
}

// Delete removes an investment on the server, then locally. Unknown ids are
// a no-op on both sides.
func (r *Repository) Delete(ctx context.Context, id string) error {
	unlock := r.lock(id)
	defer unlock()

	if err := r.remote.DeleteInvestment(ctx, id); err != nil {
		r.logger.Errorw("failed to delete investment", "investment_id", id, "error", err)
		return fmt.Errorf("deleting investment: %w", err)
	}

	r.mu.Lock()
	if i := r.indexOf(id); i >= 0 {
		r.investments = append(r.investments[:i], r.investments[i+1:]...)
	}
	r.mu.Unlock()
	return nil
}

// AddTransaction records a transaction on the server. On success the local
// investment takes the server's value and audit fields and gains exactly
// one transaction.
func (r *Repository) AddTransaction(ctx context.Context, id string, in client.NewTransaction) (*models.Transaction, error) {
	unlock := r.lock(id)
	defer unlock()

	tx, inv, err := r.remote.AddTransaction(ctx, id, in)
	if err != nil {
		r.logger.Errorw("failed to add transaction", "investment_id", id, "type", in.Type, "error", err)
		return nil, fmt.Errorf("adding transaction: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if i := r.indexOf(id); i >= 0 {
		local := &r.investments[i]
		local.CurrentValue = inv.CurrentValue
		local.UpdatedAt = inv.UpdatedAt
		local.UpdatedBy = inv.UpdatedBy
		local.Transactions = append(local.Transactions, *tx)
	}
	return tx, nil
}

// lock serializes mutations of one investment. Entries are never removed.
func (r *Repository) lock(id string) func() {
	r.locksMu.Lock()
	m, ok := r.locks[id]
	if !ok {
		m = &sync.Mutex{}
		r.locks[id] = m
	}
	r.locksMu.Unlock()

	m.Lock()
	return m.Unlock
}

// indexOf finds id in the local list. Caller holds mu.
func (r *Repository) indexOf(id string) int {
	for i := range r.investments {
		if r.investments[i].ID == id {
			return i
		}
	}
	return -1
}

func clone(inv models.Investment) models.Investment {
	if inv.Tags != nil {
		inv.Tags = append([]string(nil), inv.Tags...)
	}
	inv.Transactions = cloneTransactions(inv.Transactions)
	return inv
}

func cloneTransactions(txs []models.Transaction) []models.Transaction {
	out := make([]models.Transaction, len(txs))
	copy(out, txs)
	return out
}
