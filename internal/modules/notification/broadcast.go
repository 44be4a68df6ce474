package notification

import (
	"context"

	"opinor/internal/domain"

	"go.uber.org/zap"
)

// RecipientSource lists the businesses eligible to receive a broadcast.
type RecipientSource interface {
	ListEligible(ctx context.Context) ([]domain.Business, error)
}

// Dispatcher fans one notification payload out to every eligible
// recipient. The recipient set is snapshotted up front; a business that
// turns inactive mid-dispatch still receives the notification because the
// list was already materialized.
type Dispatcher struct {
	notifs     *Service
	recipients RecipientSource
	log        *zap.Logger
}

func NewDispatcher(notifs *Service, recipients RecipientSource, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{notifs: notifs, recipients: recipients, log: log}
}

// Broadcast delivers the payload to each snapshotted recipient and
// returns how many were notified. Delivery is best-effort per recipient:
// one failed write is logged and skipped, never aborting the rest. An
// empty eligible set is a no-op returning 0.
func (d *Dispatcher) Broadcast(ctx context.Context, t domain.NotificationType, title, message string) (int, error) {
	recipients, err := d.recipients.ListEligible(ctx)
	if err != nil {
		return 0, err
	}
	if len(recipients) == 0 {
		return 0, nil
	}

	sent := 0
	for _, b := range recipients {
		if _, err := d.notifs.Create(ctx, b.ID, t, title, message, nil); err != nil {
			d.log.Warn("broadcast delivery failed",
				zap.Int64("business_id", b.ID),
				zap.String("type", string(t)),
				zap.Error(err),
			)
			continue
		}
		sent++
	}
	return sent, nil
}
