package notify

import (
	"context"
	"log/slog"
)

// NoOpNotifier implements Notifier by logging discarded events. It is used
// when Discord (or another notification backend) is not configured.
type NoOpNotifier struct {
	log *slog.Logger
}

// NewNoOpNotifier creates a notifier that discards events with a log message.
func NewNoOpNotifier(log *slog.Logger) *NoOpNotifier {
	return &NoOpNotifier{log: log}
}

// ListingPublished logs and discards the event.
func (n *NoOpNotifier) ListingPublished(_ context.Context, event *ListingEvent) error {
	n.log.Debug("notification discarded (no backend configured)",
		"sku", event.SKU,
		"offer_id", event.OfferID,
	)
	return nil
}
