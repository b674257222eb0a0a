package repomanager

import (
	"context"

	"github.com/dmitrijs2005/accountkeeper/internal/server/repositories/accounts"
)

// MemoryRepositoryManager keeps accounts in process memory. Nothing survives
// a restart.
type MemoryRepositoryManager struct {
	store *accounts.MemoryStore
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{store: accounts.NewMemoryStore()}
}

func (m *MemoryRepositoryManager) RunMigrations(ctx context.Context) error {
	return nil
}

func (m *MemoryRepositoryManager) Accounts() accounts.Repository {
	return m.store.Repository()
}

func (m *MemoryRepositoryManager) WithinTx(ctx context.Context, fn TxFunc) error {
	return m.store.WithinTx(ctx, fn)
}

func (m *MemoryRepositoryManager) Close() error {
	return nil
}
