package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/dbx"
	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Insert(ctx context.Context, a *models.Account) (*models.Account, error) {
	query :=
		`INSERT INTO accounts (id, email, password_hash, email_validated, validation_token, token_expires_at, verified_token, active, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		a.ID, a.Email, a.PasswordHash, a.EmailValidated,
		toNullString(a.ValidationToken), toNullTime(a.TokenExpiresAt), toNullString(a.VerifiedToken),
		a.Active, a.CreatedAt).Scan(&a.ID)

	if err != nil {
		return nil, postgresError(err)
	}

	return a, nil
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	return scanAccount(r.db.QueryRowContext(ctx, query, email))
}

// FindByID reports common.ErrorNotFound for ids that are not valid UUIDs.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return idLookup(scanAccount(r.db.QueryRowContext(ctx, query, id)))
}

func (r *PostgresRepository) FindByToken(ctx context.Context, token string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE validation_token = $1 OR verified_token = $1`
	return scanAccount(r.db.QueryRowContext(ctx, query, token))
}

func (r *PostgresRepository) LockByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1 FOR UPDATE`
	return scanAccount(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) LockByID(ctx context.Context, id string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`
	return idLookup(scanAccount(r.db.QueryRowContext(ctx, query, id)))
}

func (r *PostgresRepository) LockByToken(ctx context.Context, token string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE validation_token = $1 OR verified_token = $1 FOR UPDATE`
	return scanAccount(r.db.QueryRowContext(ctx, query, token))
}

func (r *PostgresRepository) Update(ctx context.Context, a *models.Account) error {
	query :=
		`UPDATE accounts
		 SET email_validated = $1, validation_token = $2, token_expires_at = $3,
		     verified_token = $4, active = $5, updated_at = $6
		 WHERE id = $7
		 `

	res, err := r.db.ExecContext(ctx, query,
		a.EmailValidated, toNullString(a.ValidationToken), toNullTime(a.TokenExpiresAt),
		toNullString(a.VerifiedToken), a.Active, toNullTime(a.UpdatedAt), a.ID)
	if err != nil {
		return postgresError(err)
	}

	return checkAffected(res)
}

func postgresError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return fmt.Errorf("%w: %s", common.ErrUniqueViolation, pgErr.ConstraintName)
	}
	return fmt.Errorf("db error: %w", err)
}

// idLookup turns the uuid cast failure of a malformed id into a miss.
func idLookup(a *models.Account, err error) (*models.Account, error) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.InvalidTextRepresentation {
		return nil, common.ErrorNotFound
	}
	return a, err
}
