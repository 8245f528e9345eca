package ebay

// Wire types for the Sell Inventory API. Domain values are serialized into
// these shapes at the client boundary only; nothing above this package deals
// in eBay field names.

type inventoryItemBody struct {
	Product      wireProduct      `json:"product"`
	Condition    string           `json:"condition"`
	Availability wireAvailability `json:"availability"`
}

type wireProduct struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Aspects     map[string][]string `json:"aspects,omitempty"`
	ImageUrls   []string            `json:"imageUrls,omitempty"`
}

type wireAvailability struct {
	ShipToLocationAvailability wireShipToLocation `json:"shipToLocationAvailability"`
}

type wireShipToLocation struct {
	Quantity int `json:"quantity"`
}

type offerBody struct {
	SKU                          string              `json:"sku"`
	MarketplaceID                string              `json:"marketplaceId"`
	Format                       string              `json:"format"`
	AvailableQuantity            int                 `json:"availableQuantity"`
	CategoryID                   string              `json:"categoryId"`
	MerchantLocationKey          string              `json:"merchantLocationKey"`
	ListingDescription           string              `json:"listingDescription"`
	IncludeCatalogProductDetails bool                `json:"includeCatalogProductDetails"`
	ItemAspects                  map[string][]string `json:"itemAspects,omitempty"`
	PricingSummary               wirePricingSummary  `json:"pricingSummary"`
	ListingPolicies              wireListingPolicies `json:"listingPolicies"`
	ListingStartDate             string              `json:"listingStartDate,omitempty"`
	ListingDuration              string              `json:"listingDuration,omitempty"`
	QuantityLimitPerBuyer        int                 `json:"quantityLimitPerBuyer,omitempty"`
	StoreCategoryNames           []string            `json:"storeCategoryNames,omitempty"`
}

type wirePricingSummary struct {
	Price wirePrice `json:"price"`
}

type wirePrice struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

type wireListingPolicies struct {
	FulfillmentPolicyID string `json:"fulfillmentPolicyId"`
	PaymentPolicyID     string `json:"paymentPolicyId"`
	ReturnPolicyID      string `json:"returnPolicyId"`
}

type locationBody struct {
	Name                   string           `json:"name"`
	MerchantLocationStatus string           `json:"merchantLocationStatus"`
	LocationTypes          []string         `json:"locationTypes"`
	Location               wireLocationAddr `json:"location"`
}

type wireLocationAddr struct {
	Address wireAddress `json:"address"`
}

type wireAddress struct {
	AddressLine1    string `json:"addressLine1"`
	AddressLine2    string `json:"addressLine2,omitempty"`
	City            string `json:"city"`
	StateOrProvince string `json:"stateOrProvince"`
	PostalCode      string `json:"postalCode"`
	Country         string `json:"country"`
}
