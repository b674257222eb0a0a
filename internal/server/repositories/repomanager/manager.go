// Package repomanager vends account repositories for the configured storage
// backend, scopes them to transactions and runs schema migrations.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/server/config"
	"github.com/dmitrijs2005/accountkeeper/internal/server/repositories/accounts"
	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// TxFunc is run by WithinTx with a repository bound to the transaction.
type TxFunc func(ctx context.Context, repo accounts.Repository) error

type RepositoryManager interface {
	// RunMigrations brings the schema up to date.
	RunMigrations(ctx context.Context) error
	// Accounts returns a repository outside of any transaction.
	Accounts() accounts.Repository
	// WithinTx runs fn in one transaction; it commits when fn returns nil.
	WithinTx(ctx context.Context, fn TxFunc) error
	Close() error
}

// sqlOpen is a seam for tests.
var sqlOpen = sql.Open

// Open connects to backend, one of the config.Storage names, and returns its
// manager.
func Open(ctx context.Context, backend, dsn string) (RepositoryManager, error) {
	switch backend {
	case config.StorageMemory:
		return NewMemoryRepositoryManager(), nil
	case config.StoragePostgres:
		db, err := openDB(ctx, "pgx", dsn)
		if err != nil {
			return nil, err
		}
		return NewPostgresRepositoryManager(db), nil
	case config.StorageMySQL:
		dsn, err := mysqlDSN(dsn)
		if err != nil {
			return nil, err
		}
		db, err := openDB(ctx, "mysql", dsn)
		if err != nil {
			return nil, err
		}
		return NewMySQLRepositoryManager(db), nil
	}
	return nil, fmt.Errorf("%w: %q", common.ErrUnsupportedStore, backend)
}

func openDB(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	db, err := sqlOpen(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	return db, nil
}

// mysqlDSN forces the connection options the MySQL repository relies on.
func mysqlDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.ClientFoundRows = true
	cfg.Loc = time.UTC
	return cfg.FormatDSN(), nil
}
