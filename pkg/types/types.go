// Package domain defines the core business types for ebay-lister.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TokenExpiryBuffer is subtracted from the token expiration time when
// deciding whether a persisted access token is still safe to use.
const TokenExpiryBuffer = 300 * time.Second

// TokenRecord is the single persisted OAuth2 credential. It is created on
// first successful authentication, mutated in place on refresh, and written
// back to the store after every mutation.
type TokenRecord struct {
	AccessToken           string `json:"access_token"`
	RefreshToken          string `json:"refresh_token,omitempty"`
	ExpiresIn             int64  `json:"expires_in"`
	RefreshTokenExpiresIn int64  `json:"refresh_token_expires_in,omitempty"`
	TokenType             string `json:"token_type,omitempty"`
	ObtainedAt            int64  `json:"obtained_at"`
}

// ExpiresAt returns the absolute expiration time of the access token.
func (t *TokenRecord) ExpiresAt() time.Time {
	return time.Unix(t.ObtainedAt+t.ExpiresIn, 0)
}

// Usable reports whether the access token can still be sent at the given
// instant. A token within TokenExpiryBuffer of its expiry counts as expired
// so that calls in flight do not outlive the credential.
func (t *TokenRecord) Usable(now time.Time) bool {
	if t == nil || t.AccessToken == "" {
		return false
	}
	if t.ExpiresIn == 0 || t.ObtainedAt == 0 {
		return false
	}
	return now.Before(t.ExpiresAt().Add(-TokenExpiryBuffer))
}

// Product describes the inventory-item side of a listing: what the thing is,
// independent of how it is priced or sold.
type Product struct {
	Title       string `json:"title"        yaml:"title"`
	Description string `json:"description"  yaml:"description"`
	// Aspects maps an aspect name (Brand, Model, ...) to its ordered values.
	Aspects         map[string][]string `json:"aspects,omitempty"          yaml:"aspects"`
	ImageURLs       []string            `json:"image_urls,omitempty"       yaml:"image_urls"`
	Condition       string              `json:"condition,omitempty"        yaml:"condition"`
	ContentLanguage string              `json:"content_language,omitempty" yaml:"content_language"`
}

// Offer describes the sellable configuration for a SKU: price, policies,
// quantity and the optional deferred go-live time.
type Offer struct {
	CategoryID            string          `json:"category_id"           yaml:"category_id"`
	MerchantLocationKey   string          `json:"merchant_location_key" yaml:"merchant_location_key"`
	PaymentPolicyID       string          `json:"payment_policy_id"     yaml:"payment_policy_id"`
	FulfillmentPolicyID   string          `json:"fulfillment_policy_id" yaml:"fulfillment_policy_id"`
	ReturnPolicyID        string          `json:"return_policy_id"      yaml:"return_policy_id"`
	Price                 decimal.Decimal `json:"price"                 yaml:"price"`
	Currency              string          `json:"currency,omitempty"    yaml:"currency"`
	Quantity              int             `json:"quantity,omitempty"    yaml:"quantity"`
	Format                string          `json:"format,omitempty"      yaml:"format"`
	ListingDuration       string          `json:"listing_duration,omitempty"         yaml:"listing_duration"`
	ListingDescription    string          `json:"listing_description,omitempty"      yaml:"listing_description"`
	QuantityLimitPerBuyer int             `json:"quantity_limit_per_buyer,omitempty" yaml:"quantity_limit_per_buyer"`
	StoreCategoryNames    []string        `json:"store_category_names,omitempty"     yaml:"store_category_names"`

	// ScheduledStart, when non-nil, is sent as listingStartDate and eBay's
	// own scheduler fires the listing at that time. Nil means publish
	// immediately; no field is sent.
	ScheduledStart *time.Time `json:"scheduled_start,omitempty" yaml:"scheduled_start"`
}

// ListingRequest is the full input to one orchestration run. It is built per
// invocation and discarded after the call.
type ListingRequest struct {
	SKU     string  `json:"sku"     yaml:"sku"`
	Product Product `json:"product" yaml:"product"`
	Offer   Offer   `json:"offer"   yaml:"offer"`
}

// ListingResult carries the identifiers produced by the listing saga. On a
// partial failure the fields filled in so far are preserved so the caller
// can inspect or clean up the committed artifacts by hand.
type ListingResult struct {
	SKU       string `json:"sku"`
	OfferID   string `json:"offer_id,omitempty"`
	ListingID string `json:"listing_id,omitempty"`
}

// Address is a postal address for a merchant location.
type Address struct {
	AddressLine1    string `json:"address_line1"           yaml:"address_line1"`
	AddressLine2    string `json:"address_line2,omitempty" yaml:"address_line2"`
	City            string `json:"city"                    yaml:"city"`
	StateOrProvince string `json:"state_or_province"       yaml:"state_or_province"`
	PostalCode      string `json:"postal_code"             yaml:"postal_code"`
	Country         string `json:"country"                 yaml:"country"`
}

// Location is a seller fulfillment location registered with the marketplace.
type Location struct {
	Key     string  `json:"key"     yaml:"key"`
	Name    string  `json:"name"    yaml:"name"`
	Address Address `json:"address" yaml:"address"`
}
