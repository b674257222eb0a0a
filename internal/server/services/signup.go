package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
)

// Signup creates the account and delivers its validation token. When
// delivery fails the account is still returned, committed, together with an
// error wrapping common.ErrDelivery.
func (s *AccountService) Signup(ctx context.Context, email, password string) (*models.Account, error) {
	account, err := s.CreateAccount(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if err := s.deliver(ctx, account.Email, *account.ValidationToken); err != nil {
		return account, err
	}
	return account, nil
}

// ResendVerification rotates the token of a pending account and delivers the
// stored token. It reports false when the account is unknown or validated.
// The rotated token stays persisted when delivery fails.
func (s *AccountService) ResendVerification(ctx context.Context, email string) (bool, error) {
	_, ok, err := s.Resend(ctx, email)
	if err != nil || !ok {
		return false, err
	}

	account, err := s.repomanager.Accounts().FindByEmail(ctx, email)
	if err != nil {
		return false, storageError(err)
	}
	if !account.PendingVerification() {
		// validated between rotation and re-read
		return false, nil
	}

	if err := s.deliver(ctx, account.Email, *account.ValidationToken); err != nil {
		return true, err
	}
	return true, nil
}

func (s *AccountService) deliver(ctx context.Context, address, token string) error {
	if err := s.notifier.DeliverVerification(ctx, address, token); err != nil {
		s.logger.Error(ctx, "verification delivery failed", "email", address, "error", err)
		return fmt.Errorf("%w: %w", common.ErrDelivery, err)
	}
	s.logger.Debug(ctx, "verification delivered", "email", address)
	return nil
}
