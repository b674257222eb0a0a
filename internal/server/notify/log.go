package notify

import (
	"context"

	"github.com/dmitrijs2005/accountkeeper/internal/logging"
)

// LogNotifier writes tokens to the log instead of sending them. Only for
// local development: tokens are credentials.
type LogNotifier struct {
	logger logging.Logger
}

func NewLogNotifier(logger logging.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("module", "log_notifier")}
}

func (n *LogNotifier) DeliverVerification(ctx context.Context, address, token string) error {
	n.logger.Info(ctx, "verification token issued", "email", address, "token", token)
	return nil
}
