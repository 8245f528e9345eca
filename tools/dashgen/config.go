package main

import "errors"

// KnownMetrics is the set of metric names exported by ebay-lister plus
// recording rule names referenced in dashboards and alerts.
var KnownMetrics = map[string]bool{
	// API gateway metrics.
	"lister_api_calls_total":            true,
	"lister_api_call_errors_total":      true,
	"lister_api_call_duration_seconds":  true,
	"lister_daily_usage":                true,
	"lister_daily_limit_hits_total":     true,

	// Token lifecycle metrics.
	"lister_token_exchanges_total":        true,
	"lister_token_refreshes_total":        true,
	"lister_token_refresh_failures_total": true,

	// Listing saga metrics.
	"lister_listing_steps_total":          true,
	"lister_notification_failures_total":  true,

	// Recording rules.
	"lister:api_calls:rate5m":      true,
	"lister:api_errors:rate5m":     true,
	"lister:listing_steps:rate5m":  true,
	"lister:token_failures:rate5m": true,

	// Standard Prometheus metrics referenced in dashboards.
	"up":                         true,
	"process_start_time_seconds": true,
}

// Config controls which artifacts the generator produces and where they go.
type Config struct {
	OutputDir        string
	DashboardEnabled bool
	RulesEnabled     bool
}

// DefaultConfig returns a Config that generates all artifacts into ../../deploy
// (relative to tools/dashgen/).
func DefaultConfig() Config {
	return Config{
		OutputDir:        "../../deploy",
		DashboardEnabled: true,
		RulesEnabled:     true,
	}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory must be set")
	}
	if !c.DashboardEnabled && !c.RulesEnabled {
		return errors.New("at least one of dashboard or rules must be enabled")
	}
	return nil
}
