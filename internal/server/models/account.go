package models

import "time"

// Account is a registered user's credential and email-verification record.
//
// ValidationToken and TokenExpiresAt are either both set (verification
// pending) or both nil. VerifiedToken keeps the token that was consumed so a
// repeated verification with it can be recognised as already done.
type Account struct {
	ID              string
	Email           string
	PasswordHash    string
	EmailValidated  bool
	ValidationToken *string
	TokenExpiresAt  *time.Time
	VerifiedToken   *string
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}

// PendingVerification reports whether a validation token is outstanding.
func (a *Account) PendingVerification() bool {
	return a.ValidationToken != nil && a.TokenExpiresAt != nil
}

// TokenExpired reports whether the outstanding token expired before now.
// An account without a pending token is never expired.
func (a *Account) TokenExpired(now time.Time) bool {
	return a.TokenExpiresAt != nil && a.TokenExpiresAt.Before(now)
}

// IssueToken sets a fresh validation token valid for ttl from now.
func (a *Account) IssueToken(token string, now time.Time, ttl time.Duration) {
	expires := now.Add(ttl)
	a.ValidationToken = &token
	a.TokenExpiresAt = &expires
}

// MarkValidated confirms the email and moves the pending token into
// VerifiedToken.
func (a *Account) MarkValidated(now time.Time) {
	a.EmailValidated = true
	a.VerifiedToken = a.ValidationToken
	a.ValidationToken = nil
	a.TokenExpiresAt = nil
	a.Touch(now)
}

// Touch stamps UpdatedAt.
func (a *Account) Touch(now time.Time) {
	a.UpdatedAt = &now
}

// Clone returns a deep copy, so stores can hand out records without sharing
// pointer fields.
func (a *Account) Clone() *Account {
	c := *a
	if a.ValidationToken != nil {
		v := *a.ValidationToken
		c.ValidationToken = &v
	}
	if a.TokenExpiresAt != nil {
		v := *a.TokenExpiresAt
		c.TokenExpiresAt = &v
	}
	if a.VerifiedToken != nil {
		v := *a.VerifiedToken
		c.VerifiedToken = &v
	}
	if a.UpdatedAt != nil {
		v := *a.UpdatedAt
		c.UpdatedAt = &v
	}
	return &c
}
