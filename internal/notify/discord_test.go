package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/ebay-lister/pkg/logger"
)

func testEvent() *ListingEvent {
	return &ListingEvent{
		SKU:       "SKU-CAMERA-1",
		OfferID:   "OFFER-1",
		ListingID: "LISTING-1",
		Title:     "Vintage Film Camera",
		Price:     "149.99",
		Currency:  "USD",
	}
}

func TestDiscordListingPublished(t *testing.T) {
	var got discordWebhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	d := NewDiscordNotifier(srv.URL)
	require.NoError(t, d.ListingPublished(context.Background(), testEvent()))

	require.Len(t, got.Embeds, 1)
	embed := got.Embeds[0]
	assert.Equal(t, "Listing created: Vintage Film Camera", embed.Title)
	assert.Equal(t, colorGreen, embed.Color)

	fields := map[string]string{}
	for _, f := range embed.Fields {
		fields[f.Name] = f.Value
	}
	assert.Equal(t, "SKU-CAMERA-1", fields["SKU"])
	assert.Equal(t, "OFFER-1", fields["Offer"])
	assert.Equal(t, "149.99 USD", fields["Price"])
	assert.Equal(t, "immediate", fields["Go-live"])
}

func TestDiscordScheduledListing(t *testing.T) {
	var got discordWebhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	event := testEvent()
	start := time.Date(2026, 3, 15, 14, 0, 0, 0, time.UTC)
	event.ScheduledStart = &start

	d := NewDiscordNotifier(srv.URL)
	require.NoError(t, d.ListingPublished(context.Background(), event))

	require.Len(t, got.Embeds, 1)
	assert.Equal(t, colorBlue, got.Embeds[0].Color)

	var goLive string
	for _, f := range got.Embeds[0].Fields {
		if f.Name == "Go-live" {
			goLive = f.Value
		}
	}
	assert.Equal(t, "2026-03-15 14:00 UTC", goLive)
}

func TestDiscordErrorResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"message":"rate limited"}`))
	}))
	defer srv.Close()

	d := NewDiscordNotifier(srv.URL)
	err := d.ListingPublished(context.Background(), testEvent())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "rate limited")
}

func TestDiscordNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	d := NewDiscordNotifier(srv.URL)
	assert.Error(t, d.ListingPublished(context.Background(), testEvent()))
}

func TestNoOpNotifier(t *testing.T) {
	n := NewNoOpNotifier(logger.Discard())
	assert.NoError(t, n.ListingPublished(context.Background(), testEvent()))
}
