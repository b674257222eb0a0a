package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/accountkeeper/internal/dbx"
	"github.com/dmitrijs2005/accountkeeper/internal/server/migrations"
	"github.com/dmitrijs2005/accountkeeper/internal/server/repositories/accounts"
	"github.com/pressly/goose/v3"
)

// SQLRepositoryManager vends SQL-backed repositories bound either to the pool
// or to a transaction.
type SQLRepositoryManager struct {
	db       *sql.DB
	dialect  string
	accounts func(db dbx.DBTX) accounts.Repository
}

func NewPostgresRepositoryManager(db *sql.DB) *SQLRepositoryManager {
	return &SQLRepositoryManager{
		db:      db,
		dialect: "pgx",
		accounts: func(db dbx.DBTX) accounts.Repository {
			return accounts.NewPostgresRepository(db)
		},
	}
}

func NewMySQLRepositoryManager(db *sql.DB) *SQLRepositoryManager {
	return &SQLRepositoryManager{
		db:      db,
		dialect: "mysql",
		accounts: func(db dbx.DBTX) accounts.Repository {
			return accounts.NewMySQLRepository(db)
		},
	}
}

func (m *SQLRepositoryManager) Accounts() accounts.Repository {
	return m.accounts(m.db)
}

func (m *SQLRepositoryManager) WithinTx(ctx context.Context, fn TxFunc) error {
	return dbx.WithTx(ctx, m.db, dbx.ReadCommitted, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, m.accounts(tx))
	})
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations of the manager's
// dialect and applies them.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(m.dialect); err != nil {
		return fmt.Errorf("migration dialect: %w", err)
	}
	if err := gooseUpContext(ctx, m.db, migrations.Dir(m.dialect)); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}
	return nil
}

func (m *SQLRepositoryManager) Close() error {
	return m.db.Close()
}
