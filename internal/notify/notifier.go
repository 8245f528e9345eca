// Package notify defines the notification interface and implementations
// for announcing created listings.
package notify

import (
	"context"
	"time"
)

// ListingEvent contains the data needed to announce a created listing.
type ListingEvent struct {
	SKU            string
	OfferID        string
	ListingID      string
	Title          string
	Price          string
	Currency       string
	ScheduledStart *time.Time
}

// Notifier defines the interface for sending listing notifications.
// Failures are reported to the caller but are never fatal to the listing
// itself; the listing is already live (or scheduled) by the time this runs.
type Notifier interface {
	ListingPublished(ctx context.Context, event *ListingEvent) error
}
