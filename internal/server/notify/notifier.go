// Package notify delivers email-verification tokens to account holders.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/accountkeeper/internal/logging"
	"github.com/dmitrijs2005/accountkeeper/internal/server/config"
)

// Notifier hands a verification token to whatever delivers it to address.
// A returned error means the token may not have reached the user.
type Notifier interface {
	DeliverVerification(ctx context.Context, address, token string) error
}

// New builds the notifier selected by cfg.Notifier.
func New(cfg *config.Config, logger logging.Logger) (Notifier, error) {
	switch cfg.Notifier {
	case config.NotifierHTTP:
		return NewHTTPNotifier(cfg.EmailServiceURL, cfg.EmailServiceTimeout), nil
	case config.NotifierAMQP:
		return NewAMQPNotifier(cfg.AMQPURL, cfg.AMQPQueue), nil
	case config.NotifierLog:
		return NewLogNotifier(logger), nil
	}
	return nil, fmt.Errorf("unknown notifier %q", cfg.Notifier)
}

// recipientName derives a greeting name from the local part of address.
func recipientName(address string) string {
	local, _, found := strings.Cut(address, "@")
	if !found || local == "" {
		return "User"
	}
	return local
}
