package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// TokenRefreshes returns a timeseries panel of refresh attempts vs failures.
func TokenRefreshes() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Token Refreshes").
		Description("Access token refresh attempts and rejections").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(`increase(lister_token_refreshes_total[1h])`, "attempts", "A")).
		WithTarget(PromQuery(`increase(lister_token_refresh_failures_total[1h])`, "failures", "B")).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine).
		Tooltip(MultiTooltip())
}

// TokenExchanges returns a stat panel of interactive authorization-code
// exchanges in the past 7 days. More than a handful suggests refresh is
// not working.
func TokenExchanges() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Code Exchanges (7d)").
		Description("Interactive authorization-code exchanges in the last 7 days").
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`increase(lister_token_exchanges_total{job="ebay-lister"}[7d])`, "", "A")).
		Thresholds(ThresholdsGreenYellowRed(3, 10)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeNone)
}
