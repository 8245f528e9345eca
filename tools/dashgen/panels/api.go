package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// APICallsRate returns a timeseries panel showing the Sell API call rate by
// HTTP method.
func APICallsRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("API Calls Rate").
		Description("eBay Sell API calls per second by HTTP method").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(`sum by (method) (lister:api_calls:rate5m)`, "{{method}}", "A")).
		Unit("reqps").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip())
}

// APIErrorsRate returns a timeseries panel showing failed calls by error
// category.
func APIErrorsRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("API Errors by Category").
		Description("Failed Sell API calls per second, split by error category").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(`sum by (category) (lister:api_errors:rate5m)`, "{{category}}", "A")).
		Unit("reqps").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip())
}

// APILatencyPercentiles returns a timeseries panel with p50/p95/p99 call
// latency.
func APILatencyPercentiles() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("API Latency").
		Description("Sell API call duration percentiles").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			`histogram_quantile(0.50, sum(rate(lister_api_call_duration_seconds_bucket[5m])) by (le))`,
			"p50", "A")).
		WithTarget(PromQuery(
			`histogram_quantile(0.95, sum(rate(lister_api_call_duration_seconds_bucket[5m])) by (le))`,
			"p95", "B")).
		WithTarget(PromQuery(
			`histogram_quantile(0.99, sum(rate(lister_api_call_duration_seconds_bucket[5m])) by (le))`,
			"p99", "C")).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine).
		Tooltip(MultiTooltip())
}

// LimitHits returns a stat panel showing quota-exhaustion events in the
// past 24 hours.
func LimitHits() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Quota Hits (24h)").
		Description("Times the daily quota blocked a call in the last 24 hours").
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`increase(lister_daily_limit_hits_total{job="ebay-lister"}[24h])`, "", "A")).
		Thresholds(ThresholdsGreenYellowRed(1, 3)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}
