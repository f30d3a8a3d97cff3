package panels

import (
	"fmt"

	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
)

// HealthzStat returns a stat panel showing the health check status.
func HealthzStat() *stat.PanelBuilder {
	return upDownStat("Healthz", "Health check status (1 = ok, 0 = failing)", "cider_healthz_up")
}

// ReadyzStat returns a stat panel showing the readiness check status. The
// proxy reports not ready while the catalog quota is exhausted.
func ReadyzStat() *stat.PanelBuilder {
	return upDownStat("Readyz", "Readiness check status (1 = ready, 0 = quota exhausted)", "cider_readyz_up")
}

func upDownStat(title, description, metric string) *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title(title).
		Description(description).
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(metric, "", "A")).
		Thresholds(ThresholdsRedGreen(1)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeNone).
		TextMode(common.BigValueTextModeValue)
}

// CacheHitRatioStat returns a stat panel showing the share of catalog
// lookups answered from the response cache.
func CacheHitRatioStat() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Cache Hit Ratio").
		Description("Cached responses as a share of cache lookups over 5m").
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`cider:cache_hit_ratio:rate5m`, "", "A")).
		Unit("percentunit").
		Thresholds(ThresholdsRedGreen(0.5)).
		ColorScheme(ColorSchemeThresholds()).
		GraphMode(common.BigValueGraphModeArea)
}

// UptimeStat returns a stat panel showing process uptime.
func UptimeStat() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Uptime").
		Description("Time since process start").
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(
			fmt.Sprintf(`time() - process_start_time_seconds{job=%q}`, Job),
			"", "A",
		)).
		Unit("s").
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemeThresholds()).
		GraphMode(common.BigValueGraphModeNone)
}
