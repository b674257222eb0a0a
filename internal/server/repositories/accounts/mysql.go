package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/dbx"
	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
	"github.com/go-sql-driver/mysql"
)

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// MySQLRepository expects a connection opened with parseTime=true and
// clientFoundRows=true, so that Update can tell a missing row from an
// unchanged one.
type MySQLRepository struct {
	db dbx.DBTX
}

func NewMySQLRepository(db dbx.DBTX) *MySQLRepository {
	return &MySQLRepository{db: db}
}

func (r *MySQLRepository) Insert(ctx context.Context, a *models.Account) (*models.Account, error) {
	query :=
		`INSERT INTO accounts (id, email, password_hash, email_validated, validation_token, token_expires_at, verified_token, active, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 `

	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.Email, a.PasswordHash, a.EmailValidated,
		toNullString(a.ValidationToken), toNullTime(a.TokenExpiresAt), toNullString(a.VerifiedToken),
		a.Active, a.CreatedAt)
	if err != nil {
		return nil, mysqlError(err)
	}

	return a, nil
}

func (r *MySQLRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = ?`
	return scanAccount(r.db.QueryRowContext(ctx, query, email))
}

func (r *MySQLRepository) FindByID(ctx context.Context, id string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = ?`
	return scanAccount(r.db.QueryRowContext(ctx, query, id))
}

func (r *MySQLRepository) FindByToken(ctx context.Context, token string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE validation_token = ? OR verified_token = ?`
	return scanAccount(r.db.QueryRowContext(ctx, query, token, token))
}

func (r *MySQLRepository) LockByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = ? FOR UPDATE`
	return scanAccount(r.db.QueryRowContext(ctx, query, email))
}

func (r *MySQLRepository) LockByID(ctx context.Context, id string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = ? FOR UPDATE`
	return scanAccount(r.db.QueryRowContext(ctx, query, id))
}

func (r *MySQLRepository) LockByToken(ctx context.Context, token string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE validation_token = ? OR verified_token = ? FOR UPDATE`
	return scanAccount(r.db.QueryRowContext(ctx, query, token, token))
}

func (r *MySQLRepository) Update(ctx context.Context, a *models.Account) error {
	query :=
		`UPDATE accounts
		 SET email_validated = ?, validation_token = ?, token_expires_at = ?,
		     verified_token = ?, active = ?, updated_at = ?
		 WHERE id = ?
		 `

	res, err := r.db.ExecContext(ctx, query,
		a.EmailValidated, toNullString(a.ValidationToken), toNullTime(a.TokenExpiresAt),
		toNullString(a.VerifiedToken), a.Active, toNullTime(a.UpdatedAt), a.ID)
	if err != nil {
		return mysqlError(err)
	}

	return checkAffected(res)
}

func mysqlError(err error) error {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
		return fmt.Errorf("%w: %s", common.ErrUniqueViolation, myErr.Message)
	}
	return fmt.Errorf("db error: %w", err)
}
