// Package services holds the account engine: credential creation and
// checking plus the email-verification token lifecycle.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/logging"
	"github.com/dmitrijs2005/accountkeeper/internal/server/auth"
	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
	"github.com/dmitrijs2005/accountkeeper/internal/server/notify"
	"github.com/dmitrijs2005/accountkeeper/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/accountkeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// DefaultTokenTTL is how long a validation token stays usable.
const DefaultTokenTTL = 24 * time.Hour

// Login status messages.
const (
	MessageNeedsValidation = "You need to validate your email to access the portal"
	MessageValidated       = "Your email is validated. You can access the portal"
)

// VerifyOutcome is the result of presenting a validation token. None of the
// outcomes is an error.
type VerifyOutcome int

const (
	NotFoundOrExpired VerifyOutcome = iota
	Verified
	AlreadyValidated
)

func (o VerifyOutcome) String() string {
	switch o {
	case Verified:
		return "verified"
	case AlreadyValidated:
		return "already_validated"
	}
	return "not_found_or_expired"
}

type AccountService struct {
	repomanager repomanager.RepositoryManager
	hasher      auth.PasswordHasher
	notifier    notify.Notifier
	logger      logging.Logger
	tokenTTL    time.Duration

	now      func() time.Time
	newID    func() string
	newToken func() string

	dummyOnce sync.Once
	dummyHash string
}

// NewAccountService wires the engine to its collaborators. A non-positive
// tokenTTL selects DefaultTokenTTL.
func NewAccountService(m repomanager.RepositoryManager, hasher auth.PasswordHasher, notifier notify.Notifier,
	logger logging.Logger, tokenTTL time.Duration) *AccountService {

	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}

	return &AccountService{
		repomanager: m,
		hasher:      hasher,
		notifier:    notifier,
		logger:      logger.With("module", "account_service"),
		tokenTTL:    tokenTTL,
		now:         func() time.Time { return time.Now().UTC() },
		newID:       uuid.NewString,
		newToken:    uuid.NewString,
	}
}

// CreateAccount registers email with a hashed password and a fresh
// validation token. It does not deliver the token; see Signup.
func (s *AccountService) CreateAccount(ctx context.Context, email, password string) (*models.Account, error) {

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("%w: hash password: %w", common.ErrorInternal, err)
	}

	now := s.now()
	account := &models.Account{
		ID:           s.newID(),
		Email:        email,
		PasswordHash: hash,
		Active:       true,
		CreatedAt:    now,
	}
	account.IssueToken(s.newToken(), now, s.tokenTTL)

	err = s.repomanager.WithinTx(ctx, func(ctx context.Context, repo accounts.Repository) error {
		_, err := repo.LockByEmail(ctx, email)
		if err == nil {
			return common.ErrEmailTaken
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return err
		}

		if _, err := repo.Insert(ctx, account); err != nil {
			if errors.Is(err, common.ErrUniqueViolation) {
				return common.ErrEmailTaken
			}
			return err
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, common.ErrEmailTaken) {
			s.logger.Info(ctx, "signup rejected: email taken", "email", email)
			return nil, err
		}
		s.logger.Error(ctx, "create account failed", "email", email, "error", err)
		return nil, storageError(err)
	}

	s.logger.Info(ctx, "account created", "account_id", account.ID, "email", email)
	return account, nil
}

// Authenticate returns the account when email and password match an active
// account, and nil otherwise. The caller cannot tell which check failed.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*models.Account, error) {

	account, err := s.repomanager.Accounts().FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// keep the timing of a real check
			_, _ = s.hasher.Verify(password, s.dummyPasswordHash())
			s.logger.Info(ctx, "authentication failed", "email", email)
			return nil, nil
		}
		s.logger.Error(ctx, "authentication lookup failed", "email", email, "error", err)
		return nil, storageError(err)
	}

	ok, err := s.hasher.Verify(password, account.PasswordHash)
	if err != nil {
		s.logger.Error(ctx, "stored password hash unreadable", "account_id", account.ID, "error", err)
		ok = false
	}

	if !ok || !account.Active {
		s.logger.Info(ctx, "authentication failed", "email", email)
		s.logger.Debug(ctx, "authentication failure detail", "account_id", account.ID, "active", account.Active)
		return nil, nil
	}

	s.logger.Info(ctx, "authentication succeeded", "account_id", account.ID)
	return account, nil
}

// LoginMessage describes what an authenticated account may do.
func (s *AccountService) LoginMessage(account *models.Account) string {
	if !account.EmailValidated {
		return MessageNeedsValidation
	}
	return MessageValidated
}

// Verify consumes a validation token. Presenting the token that already
// validated an account again yields AlreadyValidated without any write.
func (s *AccountService) Verify(ctx context.Context, token string) (VerifyOutcome, error) {
	if token == "" {
		return NotFoundOrExpired, nil
	}

	outcome := NotFoundOrExpired
	var accountID string

	err := s.repomanager.WithinTx(ctx, func(ctx context.Context, repo accounts.Repository) error {
		account, err := repo.LockByToken(ctx, token)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return nil
			}
			return err
		}
		accountID = account.ID

		now := s.now()
		switch {
		case account.TokenExpired(now):
			return nil
		case account.EmailValidated:
			outcome = AlreadyValidated
			return nil
		}

		account.MarkValidated(now)
		if err := repo.Update(ctx, account); err != nil {
			return err
		}
		outcome = Verified
		return nil
	})

	if err != nil {
		s.logger.Error(ctx, "verification failed", "error", err)
		return NotFoundOrExpired, storageError(err)
	}

	s.logger.Info(ctx, "verification", "outcome", outcome.String(), "account_id", accountID)
	return outcome, nil
}

// Resend rotates the validation token of a pending account and returns the
// new token. ok is false when the account is unknown or already validated.
func (s *AccountService) Resend(ctx context.Context, email string) (token string, ok bool, err error) {

	err = s.repomanager.WithinTx(ctx, func(ctx context.Context, repo accounts.Repository) error {
		account, err := repo.LockByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return nil
			}
			return err
		}
		if account.EmailValidated {
			return nil
		}

		now := s.now()
		next := s.newToken()
		account.IssueToken(next, now, s.tokenTTL)
		account.Touch(now)
		if err := repo.Update(ctx, account); err != nil {
			return err
		}

		token, ok = next, true
		return nil
	})

	if err != nil {
		s.logger.Error(ctx, "resend failed", "email", email, "error", err)
		return "", false, storageError(err)
	}

	if !ok {
		s.logger.Info(ctx, "resend rejected", "email", email)
		return "", false, nil
	}

	s.logger.Info(ctx, "validation token rotated", "email", email)
	return token, true, nil
}

// FindByID returns the account with id, or nil when id is empty or unknown.
func (s *AccountService) FindByID(ctx context.Context, id string) (*models.Account, error) {
	if id == "" {
		return nil, nil
	}

	account, err := s.repomanager.Accounts().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		return nil, storageError(err)
	}
	return account, nil
}

// SetActive enables or disables an account. Disabled accounts never
// authenticate.
func (s *AccountService) SetActive(ctx context.Context, id string, active bool) error {

	err := s.repomanager.WithinTx(ctx, func(ctx context.Context, repo accounts.Repository) error {
		account, err := repo.LockByID(ctx, id)
		if err != nil {
			return err
		}
		account.Active = active
		account.Touch(s.now())
		return repo.Update(ctx, account)
	})

	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return storageError(err)
	}

	s.logger.Info(ctx, "account activity changed", "account_id", id, "active", active)
	return nil
}

func (s *AccountService) dummyPasswordHash() string {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash(uuid.NewString())
		if err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}

func storageError(err error) error {
	return fmt.Errorf("%w: %w", common.ErrStorage, err)
}
