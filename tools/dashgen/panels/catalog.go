package panels

import (
	"fmt"

	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// CatalogRequestRate returns a timeseries panel showing upstream catalog
// calls per second by kind (search, fetch).
func CatalogRequestRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Catalog Calls").
		Description("Upstream catalog API calls per second by request kind").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(ByKind("cider_catalog_requests_total"), "{{kind}}", "A")).
		Unit("reqps").
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// CatalogLatency returns a timeseries panel showing p95 upstream latency by
// kind.
func CatalogLatency() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Catalog Latency p95").
		Description("95th percentile upstream catalog call duration by request kind").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(Quantile(0.95, "cider_catalog_request_duration_seconds", "kind"), "{{kind}}", "A")).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// CatalogErrors returns a timeseries panel showing transport failures by
// kind. Non-2xx upstream answers are counted in CatalogRequestRate instead.
func CatalogErrors() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Catalog Transport Errors").
		Description("Upstream calls that failed before a response arrived").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(ByKind("cider_catalog_errors_total"), "{{kind}}", "A")).
		Unit("reqps").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenYellowRed(0.01, 0.1)).
		ColorScheme(ColorSchemeThresholds()).
		DrawStyle(common.GraphDrawStyleLine)
}

// QuotaUsage returns a timeseries panel showing calls used in the current
// quota window.
func QuotaUsage() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Quota Usage").
		Description("Catalog calls made in the current rate limit window").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(fmt.Sprintf(`cider_quota_usage{job=%q}`, Job), "used", "A")).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// LimitHits returns a stat panel showing how often the quota was hit in the
// past 24 hours.
func LimitHits() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Quota Hits (24h)").
		Description("Calls rejected because the window quota was used up").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(fmt.Sprintf(`increase(cider_quota_limit_hits_total{job=%q}[24h])`, Job), "", "A")).
		Thresholds(ThresholdsGreenYellowRed(1, 10)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}

// CacheTraffic returns a timeseries panel comparing cache hits and misses.
func CacheTraffic() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Cache Hits vs Misses").
		Description("Response cache lookups per second").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(FullWidth).
		WithTarget(PromQuery(fmt.Sprintf(`rate(cider_cache_hits_total{job=%q}[5m])`, Job), "hits", "A")).
		WithTarget(PromQuery(fmt.Sprintf(`rate(cider_cache_misses_total{job=%q}[5m])`, Job), "misses", "B")).
		Unit("ops").
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}
