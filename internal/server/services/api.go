package services

import (
	"context"

	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
)

// AccountAPI is the part of AccountService the transports call.
type AccountAPI interface {
	Signup(ctx context.Context, email, password string) (*models.Account, error)
	Authenticate(ctx context.Context, email, password string) (*models.Account, error)
	LoginMessage(account *models.Account) string
	Verify(ctx context.Context, token string) (VerifyOutcome, error)
	ResendVerification(ctx context.Context, email string) (bool, error)
	FindByID(ctx context.Context, id string) (*models.Account, error)
}

var _ AccountAPI = (*AccountService)(nil)
