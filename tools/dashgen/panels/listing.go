package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// ListingSteps returns a timeseries panel of saga steps by step and outcome.
func ListingSteps() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Listing Steps").
		Description("Listing saga steps executed per hour, by step and outcome").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`sum by (step, status) (increase(lister_listing_steps_total[1h]))`,
			"{{step}} {{status}}", "A")).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine).
		Legend(TableLegend("sum")).
		Tooltip(MultiTooltip())
}

// StepFailures returns a stat panel of failed saga steps in the past 24
// hours. A publish failure leaves an unpublished offer behind.
func StepFailures() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Step Failures (24h)").
		Description("Failed listing steps in the last 24 hours").
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(
			`sum(increase(lister_listing_steps_total{status="failure"}[24h]))`,
			"", "A")).
		Thresholds(ThresholdsGreenYellowRed(1, 5)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}

// NotificationFailures returns a stat panel of dropped notifications.
func NotificationFailures() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Notification Failures (24h)").
		Description("Listing notifications that could not be delivered").
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(
			`increase(lister_notification_failures_total{job="ebay-lister"}[24h])`,
			"", "A")).
		Thresholds(ThresholdsGreenYellowRed(1, 5)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeNone)
}
