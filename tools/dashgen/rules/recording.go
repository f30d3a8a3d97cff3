package rules

// RecordingRules returns a PrometheusRule CR containing pre-computed rate
// expressions used by dashboards and alert rules.
func RecordingRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name: "cider-recording-rules",
			Labels: map[string]string{
				"prometheus": "system-rules-prometheus",
			},
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "cider-recording",
					Rules: []Rule{
						{
							Record: "cider:http_requests:rate5m",
							Expr:   `sum(rate(cider_http_requests_total[5m]))`,
						},
						{
							Record: "cider:http_errors:rate5m",
							Expr:   `sum(rate(cider_http_requests_total{status=~"5.."}[5m]))`,
						},
						{
							Record: "cider:catalog_requests:rate5m",
							Expr:   `sum(rate(cider_catalog_requests_total[5m]))`,
						},
						{
							Record: "cider:catalog_upstream_errors:rate5m",
							Expr:   `sum(rate(cider_catalog_requests_total{status=~"5.."}[5m])) + sum(rate(cider_catalog_errors_total[5m]))`,
						},
						{
							Record: "cider:cache_hit_ratio:rate5m",
							Expr:   `sum(rate(cider_cache_hits_total[5m])) / (sum(rate(cider_cache_hits_total[5m])) + sum(rate(cider_cache_misses_total[5m])))`,
						},
					},
				},
			},
		},
	}
}
