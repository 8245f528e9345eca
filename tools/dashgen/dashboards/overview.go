// Package dashboards assembles Grafana dashboard definitions from panel builders.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/donaldgifford/ebay-lister/tools/dashgen/panels"
)

// BuildOverview constructs the Lister Overview dashboard with all metric rows.
func BuildOverview() *dashboard.DashboardBuilder {
	b := dashboard.NewDashboardBuilder("Lister Overview").
		Uid("lister-overview").
		Tags([]string{"lister", "ebay-lister"}).
		Refresh("30s").
		Time("now-6h", "now").
		Timezone("browser").
		Editable().
		Tooltip(dashboard.DashboardCursorSyncCrosshair).
		WithVariable(datasourceVar())

	// Row 1: Overview.
	b.WithRow(dashboard.NewRowBuilder("Overview").
		WithPanel(panels.UpStat()).
		WithPanel(panels.QuotaGauge()).
		WithPanel(panels.LimitHits()).
		WithPanel(panels.UptimeStat()))

	// Row 2: Sell API.
	b.WithRow(dashboard.NewRowBuilder("Sell API").
		WithPanel(panels.APICallsRate()).
		WithPanel(panels.APIErrorsRate()).
		WithPanel(panels.APILatencyPercentiles()))

	// Row 3: Usage.
	b.WithRow(dashboard.NewRowBuilder("Usage").
		WithPanel(panels.DailyUsage()))

	// Row 4: Tokens.
	b.WithRow(dashboard.NewRowBuilder("Tokens").
		WithPanel(panels.TokenRefreshes()).
		WithPanel(panels.TokenExchanges()))

	// Row 5: Listings.
	b.WithRow(dashboard.NewRowBuilder("Listings").
		WithPanel(panels.ListingSteps()).
		WithPanel(panels.StepFailures()).
		WithPanel(panels.NotificationFailures()))

	return b
}

func datasourceVar() *dashboard.DatasourceVariableBuilder {
	return dashboard.NewDatasourceVariableBuilder("datasource").
		Label("Datasource").
		Type("prometheus")
}
