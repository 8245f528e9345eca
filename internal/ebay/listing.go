package ebay

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/donaldgifford/ebay-lister/internal/metrics"
	"github.com/donaldgifford/ebay-lister/internal/notify"
	"github.com/donaldgifford/ebay-lister/pkg/logger"
	domain "github.com/donaldgifford/ebay-lister/pkg/types"
)

// MinScheduleLead is the minimum distance into the future a scheduled
// go-live time may be. Anything closer is clamped up to it.
const MinScheduleLead = 30 * time.Minute

// Saga step names, used in logs and metrics.
const (
	stepInventory = "inventory_item"
	stepOffer     = "offer"
	stepPublish   = "publish"
)

// Orchestrator runs the three-step listing-creation saga:
// inventory item upsert, offer creation, publish. Steps run strictly in
// order; a step only starts once the previous one succeeded.
//
// There is no compensating rollback. When step k fails, the artifacts of
// steps 1..k-1 stay committed on the marketplace and the returned result
// carries the identifiers obtained so far, so the caller can inspect or
// clean up by hand. Retrying after a successful offer creation makes a
// second offer; the API offers no idempotency key for that step.
type Orchestrator struct {
	sell     *SellClient
	notifier notify.Notifier
	log      *slog.Logger
	nowFunc  func() time.Time
}

// OrchestratorOption configures the Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithNotifier sets the notifier invoked after a successful publish.
func WithNotifier(n notify.Notifier) OrchestratorOption {
	return func(o *Orchestrator) {
		o.notifier = n
	}
}

// WithOrchestratorLogger sets the logger.
func WithOrchestratorLogger(l *slog.Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		o.log = l
	}
}

// WithOrchestratorNowFunc overrides the time function for testing.
func WithOrchestratorNowFunc(f func() time.Time) OrchestratorOption {
	return func(o *Orchestrator) {
		o.nowFunc = f
	}
}

// NewOrchestrator creates an Orchestrator over the given Sell API client.
func NewOrchestrator(sell *SellClient, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		sell:    sell,
		log:     logger.Discard(),
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ScheduleStart normalizes a requested lead time into the go-live timestamp
// sent to the marketplace. A lead of zero or less means publish immediately
// and yields nil: immediate and scheduled publishes are distinguished by the
// presence of the start time, never by a sentinel value.
func (o *Orchestrator) ScheduleStart(lead time.Duration) *time.Time {
	return normalizeStart(o.nowFunc(), lead)
}

func normalizeStart(now time.Time, lead time.Duration) *time.Time {
	if lead <= 0 {
		return nil
	}
	candidate := now.Add(lead)
	if minStart := now.Add(MinScheduleLead); candidate.Before(minStart) {
		candidate = minStart
	}
	candidate = candidate.UTC()
	return &candidate
}

// PublishListing runs the saga for req. The returned result is always
// non-nil and carries every identifier obtained before a failure.
func (o *Orchestrator) PublishListing(
	ctx context.Context,
	req domain.ListingRequest,
) (*domain.ListingResult, error) {
	sku := req.SKU
	if sku == "" {
		sku = generateSKU()
	}
	result := &domain.ListingResult{SKU: sku}

	// Required-field validation happens before any network traffic.
	if err := validateOffer(req.Offer); err != nil {
		return result, err
	}

	log := o.log.With("sku", sku)

	log.Info("creating listing",
		"title", req.Product.Title,
		"price", req.Offer.Price.StringFixed(2),
		"scheduled", req.Offer.ScheduledStart != nil)

	if err := o.step(stepInventory, func() error {
		return o.sell.UpsertInventoryItem(ctx, sku, req.Product, req.Offer.Quantity)
	}); err != nil {
		return result, err
	}

	var offerID string
	if err := o.step(stepOffer, func() error {
		var err error
		offerID, err = o.sell.CreateOffer(ctx, sku, req.Product, req.Offer)
		return err
	}); err != nil {
		return result, err
	}
	result.OfferID = offerID

	var listingID string
	if err := o.step(stepPublish, func() error {
		var err error
		listingID, err = o.sell.PublishOffer(ctx, offerID)
		return err
	}); err != nil {
		return result, err
	}
	result.ListingID = listingID

	log.Info("listing created", "offer_id", offerID, "listing_id", listingID)

	o.announce(ctx, req, result)
	return result, nil
}

func (o *Orchestrator) step(name string, fn func() error) error {
	if err := fn(); err != nil {
		metrics.ListingStepsTotal.WithLabelValues(name, "failure").Inc()
		o.log.Error("listing step failed", "step", name, "error", err)
		return err
	}
	metrics.ListingStepsTotal.WithLabelValues(name, "success").Inc()
	return nil
}

// announce is best effort: the listing is already committed, so a failed
// notification is logged and dropped.
func (o *Orchestrator) announce(ctx context.Context, req domain.ListingRequest, result *domain.ListingResult) {
	if o.notifier == nil {
		return
	}

	event := &notify.ListingEvent{
		SKU:            result.SKU,
		OfferID:        result.OfferID,
		ListingID:      result.ListingID,
		Title:          req.Product.Title,
		Price:          req.Offer.Price.StringFixed(2),
		Currency:       req.Offer.Currency,
		ScheduledStart: req.Offer.ScheduledStart,
	}
	if err := o.notifier.ListingPublished(ctx, event); err != nil {
		metrics.NotificationFailuresTotal.Inc()
		o.log.Warn("listing notification failed", "error", err)
	}
}

// validateOffer enforces the mandatory offer fields: the five
// policy/location identifiers and a positive price. The error names exactly
// the fields that are absent, by their wire names.
func validateOffer(offer domain.Offer) error {
	var missing []string
	if offer.CategoryID == "" {
		missing = append(missing, "categoryId")
	}
	if offer.MerchantLocationKey == "" {
		missing = append(missing, "merchantLocationKey")
	}
	if offer.PaymentPolicyID == "" {
		missing = append(missing, "paymentPolicyId")
	}
	if offer.FulfillmentPolicyID == "" {
		missing = append(missing, "fulfillmentPolicyId")
	}
	if offer.ReturnPolicyID == "" {
		missing = append(missing, "returnPolicyId")
	}
	if !offer.Price.IsPositive() {
		missing = append(missing, "price")
	}

	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

func generateSKU() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "LISTING-" + id[:12]
}
