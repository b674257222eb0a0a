// Package accounts persists account records. SQL implementations share the
// same column layout; the memory implementation backs tests and the
// development server.
package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
)

// Repository is the account store. Lookups return common.ErrorNotFound when
// nothing matches. The Lock variants take a row lock that is held until the
// surrounding transaction ends and must only be used inside one.
type Repository interface {
	// Insert stores a new account. A duplicate email (or validation token)
	// fails with common.ErrUniqueViolation.
	Insert(ctx context.Context, account *models.Account) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	FindByID(ctx context.Context, id string) (*models.Account, error)
	// FindByToken matches either the pending validation token or the token
	// that already validated the account.
	FindByToken(ctx context.Context, token string) (*models.Account, error)
	// Update overwrites the mutable fields of the account with the same id.
	Update(ctx context.Context, account *models.Account) error
	LockByEmail(ctx context.Context, email string) (*models.Account, error)
	LockByID(ctx context.Context, id string) (*models.Account, error)
	LockByToken(ctx context.Context, token string) (*models.Account, error)
}

const accountColumns = `id, email, password_hash, email_validated, validation_token, token_expires_at, verified_token, active, created_at, updated_at`

func scanAccount(row *sql.Row) (*models.Account, error) {
	var (
		a         models.Account
		token     sql.NullString
		expiresAt sql.NullTime
		verified  sql.NullString
		updatedAt sql.NullTime
	)

	err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.EmailValidated,
		&token, &expiresAt, &verified, &a.Active, &a.CreatedAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	a.ValidationToken = fromNullString(token)
	a.TokenExpiresAt = fromNullTime(expiresAt)
	a.VerifiedToken = fromNullString(verified)
	a.UpdatedAt = fromNullTime(updatedAt)

	return &a, nil
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func fromNullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
