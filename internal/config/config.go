// Package config handles loading and validating the application configuration
// from JSON or YAML files with environment variable substitution.
//
// Credential and policy fields ship with "YOUR_*" placeholder values so a
// freshly written config file is recognizably unconfigured. Placeholders are
// tolerated at load time; components that need a real value reject them
// before any network call.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Placeholder sentinel values written into a default config file.
const (
	PlaceholderAppID       = "YOUR_APP_ID"
	PlaceholderCertID      = "YOUR_CERT_ID"
	PlaceholderDevID       = "YOUR_DEV_ID"
	PlaceholderRedirectURI = "YOUR_RUNAME"
	placeholderPrefix      = "YOUR_"
)

// Config is the top-level application configuration.
type Config struct {
	Credentials   CredentialsConfig   `json:"credentials"             yaml:"credentials"`
	Marketplace   MarketplaceConfig   `json:"marketplace"             yaml:"marketplace"`
	Endpoints     EndpointsConfig     `json:"endpoints"               yaml:"endpoints"`
	TokenStore    TokenStoreConfig    `json:"token_store"             yaml:"token_store"`
	RateLimit     RateLimitConfig     `json:"rate_limit"              yaml:"rate_limit"`
	Listing       ListingConfig       `json:"listing"                 yaml:"listing"`
	Consent       ConsentConfig       `json:"consent"                 yaml:"consent"`
	Notifications NotificationsConfig `json:"notifications"           yaml:"notifications"`
	Logging       LoggingConfig       `json:"logging"                 yaml:"logging"`
}

// CredentialsConfig holds the eBay developer keyset and OAuth2 callback.
type CredentialsConfig struct {
	AppID  string `json:"app_id"  yaml:"app_id"`
	CertID string `json:"cert_id" yaml:"cert_id"`
	DevID  string `json:"dev_id"  yaml:"dev_id"`
	// RedirectURI is the registered RuName the authorization server
	// redirects to after consent.
	RedirectURI string `json:"redirect_uri" yaml:"redirect_uri"`
}

// MarketplaceConfig identifies the target marketplace and the seller's
// business policies and fulfillment location on it.
type MarketplaceConfig struct {
	ID                  string `json:"id"                    yaml:"id"`
	PaymentPolicyID     string `json:"payment_policy_id"     yaml:"payment_policy_id"`
	FulfillmentPolicyID string `json:"fulfillment_policy_id" yaml:"fulfillment_policy_id"`
	ReturnPolicyID      string `json:"return_policy_id"      yaml:"return_policy_id"`
	MerchantLocationKey string `json:"merchant_location_key" yaml:"merchant_location_key"`
}

// EndpointsConfig defines the OAuth2 and Sell API endpoints. Environment
// selects the production or sandbox defaults; explicit URLs win.
type EndpointsConfig struct {
	Environment string   `json:"environment,omitempty" yaml:"environment"`
	AuthURL     string   `json:"auth_url,omitempty"    yaml:"auth_url"`
	TokenURL    string   `json:"token_url,omitempty"   yaml:"token_url"`
	APIBaseURL  string   `json:"api_base_url,omitempty" yaml:"api_base_url"`
	Scopes      []string `json:"scopes,omitempty"      yaml:"scopes"`
}

// TokenStoreConfig selects where the OAuth2 credential is persisted.
type TokenStoreConfig struct {
	Backend string `json:"backend,omitempty" yaml:"backend"` // file, postgres
	Path    string `json:"path,omitempty"    yaml:"path"`
	DSN     string `json:"dsn,omitempty"     yaml:"dsn"`
}

// RateLimitConfig defines Sell API rate limiting settings.
type RateLimitConfig struct {
	PerSecond  float64 `json:"per_second,omitempty"  yaml:"per_second"`
	Burst      int     `json:"burst,omitempty"       yaml:"burst"`
	DailyLimit int64   `json:"daily_limit,omitempty" yaml:"daily_limit"`
}

// ListingConfig holds listing defaults applied when a request omits them.
type ListingConfig struct {
	Currency        string `json:"currency,omitempty"         yaml:"currency"`
	Condition       string `json:"condition,omitempty"        yaml:"condition"`
	ContentLanguage string `json:"content_language,omitempty" yaml:"content_language"`
	ListingDuration string `json:"listing_duration,omitempty" yaml:"listing_duration"`
	CategoryID      string `json:"category_id,omitempty"      yaml:"category_id"`
}

// ConsentConfig controls how the interactive authorization code is captured.
type ConsentConfig struct {
	// CallbackAddr, when set, runs a local HTTP listener that captures the
	// OAuth2 redirect. Empty means the code is pasted at the terminal.
	CallbackAddr string        `json:"callback_addr,omitempty" yaml:"callback_addr"`
	Timeout      time.Duration `json:"timeout,omitempty"       yaml:"timeout"`
}

// NotificationsConfig defines notification targets.
type NotificationsConfig struct {
	Discord DiscordConfig `json:"discord" yaml:"discord"`
}

// DiscordConfig defines Discord webhook settings.
type DiscordConfig struct {
	Enabled    bool   `json:"enabled"               yaml:"enabled"`
	WebhookURL string `json:"webhook_url,omitempty" yaml:"webhook_url"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `json:"level,omitempty"  yaml:"level"`  // debug, info, warn, error
	Format string `json:"format,omitempty" yaml:"format"` // text, json
}

// Load reads and parses a config file, performing environment variable
// substitution, default application, and validation. JSON and YAML are both
// accepted; the extension decides (.json vs anything else).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw content.
	expanded := []byte(os.ExpandEnv(string(data)))

	cfg := &Config{}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(expanded, cfg); err != nil {
			return nil, fmt.Errorf("parsing config JSON: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(expanded, cfg); err != nil {
			return nil, fmt.Errorf("parsing config YAML: %w", err)
		}
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns a config populated with placeholder credentials and all
// defaults applied, matching what WriteDefault writes out.
func Default() *Config {
	cfg := &Config{
		Credentials: CredentialsConfig{
			AppID:       PlaceholderAppID,
			CertID:      PlaceholderCertID,
			DevID:       PlaceholderDevID,
			RedirectURI: PlaceholderRedirectURI,
		},
		Marketplace: MarketplaceConfig{
			PaymentPolicyID:     "YOUR_PAYMENT_POLICY_ID",
			FulfillmentPolicyID: "YOUR_FULFILLMENT_POLICY_ID",
			ReturnPolicyID:      "YOUR_RETURN_POLICY_ID",
		},
	}
	applyDefaults(cfg)
	return cfg
}

// WriteDefault writes a placeholder config file at path so a new install has
// something concrete to edit. Refuses to overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file %s already exists", path)
	}

	data, err := json.MarshalIndent(Default(), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding default config: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}

// IsPlaceholder reports whether v is empty or one of the documented "not yet
// configured" sentinel values.
func IsPlaceholder(v string) bool {
	return v == "" || strings.HasPrefix(v, placeholderPrefix)
}

// ValidatePolicies returns the marketplace policy/location fields still
// carrying placeholder values. An empty slice means listings can be created.
func (m *MarketplaceConfig) ValidatePolicies() []string {
	var missing []string
	if IsPlaceholder(m.PaymentPolicyID) {
		missing = append(missing, "payment_policy_id")
	}
	if IsPlaceholder(m.FulfillmentPolicyID) {
		missing = append(missing, "fulfillment_policy_id")
	}
	if IsPlaceholder(m.ReturnPolicyID) {
		missing = append(missing, "return_policy_id")
	}
	if IsPlaceholder(m.MerchantLocationKey) {
		missing = append(missing, "merchant_location_key")
	}
	return missing
}

func applyDefaults(cfg *Config) {
	applyMarketplaceDefaults(&cfg.Marketplace)
	applyEndpointDefaults(&cfg.Endpoints)
	applyTokenStoreDefaults(&cfg.TokenStore)
	applyRateLimitDefaults(&cfg.RateLimit)
	applyListingDefaults(&cfg.Listing)
	applyConsentDefaults(&cfg.Consent)
	applyLoggingDefaults(&cfg.Logging)
}

func applyMarketplaceDefaults(m *MarketplaceConfig) {
	if m.ID == "" {
		m.ID = "EBAY_US"
	}
	if m.MerchantLocationKey == "" {
		m.MerchantLocationKey = "primary_warehouse"
	}
}

func applyEndpointDefaults(e *EndpointsConfig) {
	if e.Environment == "" {
		e.Environment = "production"
	}

	sandbox := e.Environment == "sandbox"
	if e.AuthURL == "" {
		if sandbox {
			e.AuthURL = "https://auth.sandbox.ebay.com/oauth2/authorize"
		} else {
			e.AuthURL = "https://auth.ebay.com/oauth2/authorize"
		}
	}
	if e.TokenURL == "" {
		if sandbox {
			e.TokenURL = "https://api.sandbox.ebay.com/identity/v1/oauth2/token"
		} else {
			e.TokenURL = "https://api.ebay.com/identity/v1/oauth2/token"
		}
	}
	if e.APIBaseURL == "" {
		if sandbox {
			e.APIBaseURL = "https://api.sandbox.ebay.com/sell"
		} else {
			e.APIBaseURL = "https://api.ebay.com/sell"
		}
	}
	if len(e.Scopes) == 0 {
		e.Scopes = []string{
			"https://api.ebay.com/oauth/api_scope",
			"https://api.ebay.com/oauth/api_scope/sell.inventory",
			"https://api.ebay.com/oauth/api_scope/sell.account",
		}
	}
}

func applyTokenStoreDefaults(t *TokenStoreConfig) {
	if t.Backend == "" {
		t.Backend = "file"
	}
	if t.Path == "" {
		t.Path = "ebay_tokens.json"
	}
}

func applyRateLimitDefaults(r *RateLimitConfig) {
	if r.PerSecond == 0 {
		r.PerSecond = 5.0
	}
	if r.Burst == 0 {
		r.Burst = 10
	}
	if r.DailyLimit == 0 {
		r.DailyLimit = 5000
	}
}

func applyListingDefaults(l *ListingConfig) {
	if l.Currency == "" {
		l.Currency = "USD"
	}
	if l.Condition == "" {
		l.Condition = "NEW"
	}
	if l.ContentLanguage == "" {
		l.ContentLanguage = "en-US"
	}
	if l.ListingDuration == "" {
		l.ListingDuration = "GTC"
	}
}

func applyConsentDefaults(c *ConsentConfig) {
	if c.Timeout == 0 {
		c.Timeout = 5 * time.Minute
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Credentials.AppID == "" {
		errs = append(errs, fmt.Errorf("credentials.app_id is required"))
	}
	if cfg.Credentials.CertID == "" {
		errs = append(errs, fmt.Errorf("credentials.cert_id is required"))
	}

	switch cfg.Endpoints.Environment {
	case "production", "sandbox":
	default:
		errs = append(errs, fmt.Errorf(
			"endpoints.environment must be production or sandbox (got %q)",
			cfg.Endpoints.Environment,
		))
	}

	switch cfg.TokenStore.Backend {
	case "file":
		if cfg.TokenStore.Path == "" {
			errs = append(errs, fmt.Errorf("token_store.path is required when backend is file"))
		}
	case "postgres":
		if cfg.TokenStore.DSN == "" {
			errs = append(errs, fmt.Errorf("token_store.dsn is required when backend is postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf(
			"token_store.backend must be file or postgres (got %q)",
			cfg.TokenStore.Backend,
		))
	}

	if cfg.Notifications.Discord.Enabled && cfg.Notifications.Discord.WebhookURL == "" {
		errs = append(errs, fmt.Errorf("notifications.discord.webhook_url is required when enabled"))
	}

	return errors.Join(errs...)
}
