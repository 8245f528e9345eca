package ebay

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/donaldgifford/ebay-lister/pkg/logger"
	domain "github.com/donaldgifford/ebay-lister/pkg/types"
)

// startDateFormat is the wire format eBay expects for listingStartDate.
const startDateFormat = "2006-01-02T15:04:05.000Z"

// SellClient exposes the Sell Inventory and Account operations the listing
// pipeline needs, as typed wrappers over the Gateway.
type SellClient struct {
	gw          *Gateway
	baseURL     string
	marketplace string
	log         *slog.Logger
}

// SellClientOption configures the SellClient.
type SellClientOption func(*SellClient)

// WithSellLogger sets the logger.
func WithSellLogger(l *slog.Logger) SellClientOption {
	return func(c *SellClient) {
		c.log = l
	}
}

// NewSellClient creates a SellClient rooted at baseURL (e.g.
// https://api.ebay.com/sell).
func NewSellClient(gw *Gateway, baseURL, marketplace string, opts ...SellClientOption) *SellClient {
	c := &SellClient{
		gw:          gw,
		baseURL:     baseURL,
		marketplace: marketplace,
		log:         logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// UpsertInventoryItem creates or replaces the inventory item for sku.
// The PUT is idempotent: repeating it with new product data replaces the
// previous state, last write wins.
func (c *SellClient) UpsertInventoryItem(
	ctx context.Context,
	sku string,
	product domain.Product,
	quantity int,
) error {
	if quantity <= 0 {
		quantity = 1
	}

	body := inventoryItemBody{
		Product: wireProduct{
			Title:       product.Title,
			Description: product.Description,
			Aspects:     product.Aspects,
			ImageUrls:   product.ImageURLs,
		},
		Condition: product.Condition,
		Availability: wireAvailability{
			ShipToLocationAvailability: wireShipToLocation{Quantity: quantity},
		},
	}
	if body.Condition == "" {
		body.Condition = "NEW"
	}

	u := fmt.Sprintf("%s/inventory/v1/inventory_item/%s", c.baseURL, url.PathEscape(sku))
	headers := map[string]string{"Content-Language": contentLanguage(product)}

	_, err := c.gw.Call(ctx, http.MethodPut, u, body, headers)
	if err != nil {
		return fmt.Errorf("upserting inventory item %s: %w", sku, err)
	}
	return nil
}

// CreateOffer creates an offer for sku and returns the offerId. The POST is
// not idempotent; repeating it after a success creates a second offer.
// A 2xx response without an offerId is an inconsistent success and fails.
func (c *SellClient) CreateOffer(
	ctx context.Context,
	sku string,
	product domain.Product,
	offer domain.Offer,
) (string, error) {
	body := offerBody{
		SKU:                 sku,
		MarketplaceID:       c.marketplace,
		Format:              offer.Format,
		AvailableQuantity:   offer.Quantity,
		CategoryID:          offer.CategoryID,
		MerchantLocationKey: offer.MerchantLocationKey,
		ListingDescription:  offer.ListingDescription,
		ItemAspects:         product.Aspects,
		PricingSummary: wirePricingSummary{
			Price: wirePrice{
				Value:    offer.Price.StringFixed(2),
				Currency: offer.Currency,
			},
		},
		ListingPolicies: wireListingPolicies{
			FulfillmentPolicyID: offer.FulfillmentPolicyID,
			PaymentPolicyID:     offer.PaymentPolicyID,
			ReturnPolicyID:      offer.ReturnPolicyID,
		},
		ListingDuration:       offer.ListingDuration,
		QuantityLimitPerBuyer: offer.QuantityLimitPerBuyer,
		StoreCategoryNames:    offer.StoreCategoryNames,
	}
	if body.Format == "" {
		body.Format = "FIXED_PRICE"
	}
	if body.AvailableQuantity <= 0 {
		body.AvailableQuantity = 1
	}
	if body.ListingDescription == "" {
		body.ListingDescription = product.Description
	}
	if offer.ScheduledStart != nil {
		body.ListingStartDate = offer.ScheduledStart.UTC().Format(startDateFormat)
	}

	u := c.baseURL + "/inventory/v1/offer"
	headers := map[string]string{"Content-Language": contentLanguage(product)}

	payload, err := c.gw.Call(ctx, http.MethodPost, u, body, headers)
	if err != nil {
		return "", fmt.Errorf("creating offer for %s: %w", sku, err)
	}

	offerID, _ := payload["offerId"].(string)
	if offerID == "" {
		return "", &ParseError{Err: fmt.Errorf("offer created but offerId missing in response")}
	}

	if echoed, ok := payload["listingStartDate"].(string); ok && echoed != "" {
		c.log.Info("offer acknowledged scheduled start", "listing_start_date", echoed)
	}
	return offerID, nil
}

// PublishOffer makes the offer live (or schedules it when the offer carries
// a listingStartDate) and returns the listing ID. A 2xx response without a
// listingId is an inconsistent success and fails.
func (c *SellClient) PublishOffer(ctx context.Context, offerID string) (string, error) {
	u := fmt.Sprintf("%s/inventory/v1/offer/%s/publish", c.baseURL, url.PathEscape(offerID))

	payload, err := c.gw.Call(ctx, http.MethodPost, u, nil, nil)
	if err != nil {
		return "", fmt.Errorf("publishing offer %s: %w", offerID, err)
	}

	listingID, _ := payload["listingId"].(string)
	if listingID == "" {
		return "", &ParseError{Err: fmt.Errorf("offer published but listingId missing in response")}
	}
	return listingID, nil
}

// CreateLocation registers a merchant fulfillment location. The marketplace
// rejects a duplicate key with 409; callers that only need the location to
// exist can treat that as success.
func (c *SellClient) CreateLocation(ctx context.Context, loc domain.Location) error {
	body := locationBody{
		Name:                   loc.Name,
		MerchantLocationStatus: "ENABLED",
		LocationTypes:          []string{"WAREHOUSE"},
		Location: wireLocationAddr{
			Address: wireAddress{
				AddressLine1:    loc.Address.AddressLine1,
				AddressLine2:    loc.Address.AddressLine2,
				City:            loc.Address.City,
				StateOrProvince: loc.Address.StateOrProvince,
				PostalCode:      loc.Address.PostalCode,
				Country:         loc.Address.Country,
			},
		},
	}

	u := fmt.Sprintf("%s/inventory/v1/location/%s", c.baseURL, url.PathEscape(loc.Key))

	if _, err := c.gw.Call(ctx, http.MethodPost, u, body, nil); err != nil {
		return fmt.Errorf("creating location %s: %w", loc.Key, err)
	}
	return nil
}

// BusinessPolicies fetches the seller's payment, fulfillment, and return
// policies for display.
func (c *SellClient) BusinessPolicies(ctx context.Context) (map[string]any, error) {
	u := c.baseURL + "/account/v1/business_policy"

	payload, err := c.gw.Call(ctx, http.MethodGet, u, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching business policies: %w", err)
	}
	return payload, nil
}

func contentLanguage(p domain.Product) string {
	if p.ContentLanguage != "" {
		return p.ContentLanguage
	}
	return "en-US"
}
