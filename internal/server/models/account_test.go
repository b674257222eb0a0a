package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccount_IssueTokenAndExpiry(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	a := &Account{}
	require.False(t, a.PendingVerification())
	require.False(t, a.TokenExpired(now))

	a.IssueToken("tok", now, 24*time.Hour)

	require.True(t, a.PendingVerification())
	assert.Equal(t, "tok", *a.ValidationToken)
	assert.Equal(t, now.Add(24*time.Hour), *a.TokenExpiresAt)
	assert.False(t, a.TokenExpired(now.Add(24*time.Hour)), "expiry instant itself is still valid")
	assert.True(t, a.TokenExpired(now.Add(24*time.Hour+time.Nanosecond)))
}

func TestAccount_MarkValidated(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	a := &Account{}
	a.IssueToken("tok", now, time.Hour)

	a.MarkValidated(now.Add(time.Minute))

	assert.True(t, a.EmailValidated)
	assert.Nil(t, a.ValidationToken)
	assert.Nil(t, a.TokenExpiresAt)
	require.NotNil(t, a.VerifiedToken)
	assert.Equal(t, "tok", *a.VerifiedToken)
	require.NotNil(t, a.UpdatedAt)
	assert.Equal(t, now.Add(time.Minute), *a.UpdatedAt)
}

func TestAccount_CloneIsDeep(t *testing.T) {
	now := time.Now()
	a := &Account{ID: "1", Email: "a@x.com"}
	a.IssueToken("tok", now, time.Hour)
	a.Touch(now)

	c := a.Clone()
	*c.ValidationToken = "other"
	*c.TokenExpiresAt = now.Add(-time.Hour)
	c.Email = "b@x.com"

	assert.Equal(t, "tok", *a.ValidationToken)
	assert.Equal(t, now.Add(time.Hour), *a.TokenExpiresAt)
	assert.Equal(t, "a@x.com", a.Email)
}
