package accounts

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
)

// MemoryStore keeps accounts in process memory. Transactions are serialised
// by a single lock and their writes become visible on commit only, which
// gives the same per-record atomicity as row locks in the SQL stores.
type MemoryStore struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	byID map[string]*models.Account
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]*models.Account)}
}

// Repository returns a view whose writes commit immediately.
func (s *MemoryStore) Repository() Repository {
	return &memoryRepository{store: s, autocommit: true}
}

// WithinTx runs fn with a transactional view. Writes are discarded when fn
// returns an error or panics.
func (s *MemoryStore) WithinTx(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	tx := &memoryRepository{store: s}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	tx.commit()
	return nil
}

type memoryRepository struct {
	store      *MemoryStore
	autocommit bool
	staged     map[string]*models.Account
}

func (r *memoryRepository) Insert(ctx context.Context, a *models.Account) (*models.Account, error) {
	if r.autocommit {
		var out *models.Account
		err := r.store.WithinTx(ctx, func(ctx context.Context, tx Repository) error {
			var err error
			out, err = tx.Insert(ctx, a)
			return err
		})
		return out, err
	}

	if _, ok := r.get(a.ID); ok {
		return nil, fmt.Errorf("%w: accounts_pkey", common.ErrUniqueViolation)
	}
	if err := r.checkUnique(a); err != nil {
		return nil, err
	}

	r.stage(a)
	return a, nil
}

func (r *memoryRepository) Update(ctx context.Context, a *models.Account) error {
	if r.autocommit {
		return r.store.WithinTx(ctx, func(ctx context.Context, tx Repository) error {
			return tx.Update(ctx, a)
		})
	}

	cur, ok := r.get(a.ID)
	if !ok {
		return common.ErrorNotFound
	}
	if err := r.checkUnique(a); err != nil {
		return err
	}

	// email, password hash and creation time are immutable
	next := a.Clone()
	next.Email = cur.Email
	next.PasswordHash = cur.PasswordHash
	next.CreatedAt = cur.CreatedAt
	r.stage(next)
	return nil
}

func (r *memoryRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.find(func(a *models.Account) bool { return a.Email == email })
}

func (r *memoryRepository) FindByID(ctx context.Context, id string) (*models.Account, error) {
	if a, ok := r.get(id); ok {
		return a.Clone(), nil
	}
	return nil, common.ErrorNotFound
}

func (r *memoryRepository) FindByToken(ctx context.Context, token string) (*models.Account, error) {
	return r.find(func(a *models.Account) bool {
		return (a.ValidationToken != nil && *a.ValidationToken == token) ||
			(a.VerifiedToken != nil && *a.VerifiedToken == token)
	})
}

// The Lock variants need no extra locking: the transaction already holds the
// store lock.
func (r *memoryRepository) LockByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.FindByEmail(ctx, email)
}

func (r *memoryRepository) LockByID(ctx context.Context, id string) (*models.Account, error) {
	return r.FindByID(ctx, id)
}

func (r *memoryRepository) LockByToken(ctx context.Context, token string) (*models.Account, error) {
	return r.FindByToken(ctx, token)
}

func (r *memoryRepository) checkUnique(a *models.Account) error {
	var err error
	r.each(func(other *models.Account) bool {
		if other.ID == a.ID {
			return true
		}
		if other.Email == a.Email {
			err = fmt.Errorf("%w: accounts_email_key", common.ErrUniqueViolation)
			return false
		}
		if a.ValidationToken != nil && other.ValidationToken != nil && *a.ValidationToken == *other.ValidationToken {
			err = fmt.Errorf("%w: accounts_validation_token_key", common.ErrUniqueViolation)
			return false
		}
		return true
	})
	return err
}

func (r *memoryRepository) find(match func(*models.Account) bool) (*models.Account, error) {
	var found *models.Account
	r.each(func(a *models.Account) bool {
		if match(a) {
			found = a.Clone()
			return false
		}
		return true
	})
	if found == nil {
		return nil, common.ErrorNotFound
	}
	return found, nil
}

// each visits the committed records overlaid with the staged ones until fn
// returns false.
func (r *memoryRepository) each(fn func(*models.Account) bool) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for id, a := range r.store.byID {
		if s, ok := r.staged[id]; ok {
			a = s
		}
		if !fn(a) {
			return
		}
	}
	for id, a := range r.staged {
		if _, ok := r.store.byID[id]; ok {
			continue
		}
		if !fn(a) {
			return
		}
	}
}

func (r *memoryRepository) get(id string) (*models.Account, bool) {
	if a, ok := r.staged[id]; ok {
		return a, true
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	a, ok := r.store.byID[id]
	return a, ok
}

func (r *memoryRepository) stage(a *models.Account) {
	if r.staged == nil {
		r.staged = make(map[string]*models.Account)
	}
	r.staged[a.ID] = a.Clone()
}

func (r *memoryRepository) commit() {
	if len(r.staged) == 0 {
		return
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for id, a := range r.staged {
		r.store.byID[id] = a
	}
	r.staged = nil
}
