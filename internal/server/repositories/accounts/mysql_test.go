package accounts

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMySQLRepoWithMock(t *testing.T) (*MySQLRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewMySQLRepository(db), mock
}

func TestMySQLInsert(t *testing.T) {
	repo, mock := newMySQLRepoWithMock(t)

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	a := pendingAccount(now)

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+accounts.*VALUES\s*\(\?,\s*\?,\s*\?,\s*\?,\s*\?,\s*\?,\s*\?,\s*\?,\s*\?\)\s*$`).
		WithArgs(a.ID, a.Email, a.PasswordHash, false, "tok-1", now.Add(24*time.Hour), nil, true, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	got, err := repo.Insert(context.Background(), a)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLInsert_DuplicateEntry(t *testing.T) {
	repo, mock := newMySQLRepoWithMock(t)

	mock.ExpectExec(`INSERT\s+INTO\s+accounts`).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'a@x.io' for key 'accounts_email_uq'"})

	_, err := repo.Insert(context.Background(), pendingAccount(time.Now()))
	require.ErrorIs(t, err, common.ErrUniqueViolation)
	assert.Contains(t, err.Error(), "accounts_email_uq")
}

func TestMySQLInsert_OtherError(t *testing.T) {
	repo, mock := newMySQLRepoWithMock(t)

	mock.ExpectExec(`INSERT\s+INTO\s+accounts`).
		WillReturnError(&mysql.MySQLError{Number: 1205, Message: "Lock wait timeout exceeded"})

	_, err := repo.Insert(context.Background(), pendingAccount(time.Now()))
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrUniqueViolation)
	assert.Contains(t, err.Error(), "db error")
}

func TestMySQLFindByToken_BindsTokenTwice(t *testing.T) {
	repo, mock := newMySQLRepoWithMock(t)

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`WHERE\s+validation_token\s*=\s*\?\s+OR\s+verified_token\s*=\s*\?$`).
		WithArgs("tok-1", "tok-1").
		WillReturnRows(sqlmock.NewRows(accountRowColumns).
			AddRow("u-1", "a@x.io", "h", false, "tok-1", now, nil, true, now, nil))

	got, err := repo.FindByToken(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.True(t, got.PendingVerification())
}

func TestMySQLLockByToken(t *testing.T) {
	repo, mock := newMySQLRepoWithMock(t)

	mock.ExpectQuery(`OR\s+verified_token\s*=\s*\?\s+FOR\s+UPDATE$`).
		WithArgs("tok", "tok").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.LockByToken(context.Background(), "tok")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMySQLLockByID(t *testing.T) {
	repo, mock := newMySQLRepoWithMock(t)

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`WHERE\s+id\s*=\s*\?\s+FOR\s+UPDATE$`).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows(accountRowColumns).
			AddRow("u-1", "a@x.io", "h", true, nil, nil, "tok-1", true, now, nil))

	got, err := repo.LockByID(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLLockByEmail(t *testing.T) {
	repo, mock := newMySQLRepoWithMock(t)

	mock.ExpectQuery(`WHERE\s+email\s*=\s*\?\s+FOR\s+UPDATE$`).
		WithArgs("a@x.io").
		WillReturnError(errors.New("conn reset"))

	_, err := repo.LockByEmail(context.Background(), "a@x.io")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorNotFound)
}

func TestMySQLFindByIDAndEmail(t *testing.T) {
	repo, mock := newMySQLRepoWithMock(t)

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`WHERE\s+id\s*=\s*\?$`).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows(accountRowColumns).
			AddRow("u-1", "a@x.io", "h", true, nil, nil, "tok-1", false, now, now))
	mock.ExpectQuery(`WHERE\s+email\s*=\s*\?$`).
		WithArgs("none@x.io").
		WillReturnError(sql.ErrNoRows)

	got, err := repo.FindByID(context.Background(), "u-1")
	require.NoError(t, err)
	assert.False(t, got.Active)
	require.NotNil(t, got.UpdatedAt)
	assert.True(t, got.UpdatedAt.Equal(now))

	_, err = repo.FindByEmail(context.Background(), "none@x.io")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMySQLUpdate_NoRows(t *testing.T) {
	repo, mock := newMySQLRepoWithMock(t)

	mock.ExpectExec(`(?s)^UPDATE\s+accounts.*WHERE\s+id\s*=\s*\?\s*$`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), pendingAccount(time.Now()))
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
