package rules

// AlertRules returns a PrometheusRule CR containing alert rules for cider
// operational monitoring.
func AlertRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name: "cider-alerts",
			Labels: map[string]string{
				"prometheus": "system-rules-prometheus",
			},
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "cider-alerts",
					Rules: []Rule{
						{
							Alert: "CiderDown",
							Expr:  `absent(up{job="cider"})`,
							For:   "2m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "cider catalog proxy is down",
								"description": "The cider job has been absent for more than 2 minutes.",
							},
						},
						{
							Alert: "CiderNotReady",
							Expr:  `cider_readyz_up == 0`,
							For:   "5m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "cider readiness check is failing",
								"description": "The catalog quota has been exhausted for more than 5 minutes.",
							},
						},
						{
							Alert: "CiderHighErrorRate",
							Expr:  `cider:http_errors:rate5m / cider:http_requests:rate5m > 0.05`,
							For:   "5m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "High HTTP error rate on the cider proxy",
								"description": "More than 5% of proxy requests are returning 5xx errors over the last 5 minutes.",
							},
						},
						{
							Alert: "CiderCatalogUpstreamErrors",
							Expr:  `cider:catalog_upstream_errors:rate5m / cider:catalog_requests:rate5m > 0.1`,
							For:   "5m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Catalog API calls are failing",
								"description": "More than 10% of upstream catalog calls failed or returned 5xx over the last 5 minutes.",
							},
						},
						{
							Alert: "CiderQuotaLimitReached",
							Expr:  `increase(cider_quota_limit_hits_total[5m]) > 0`,
							For:   "0m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "Catalog API quota has been reached",
								"description": "Catalog calls are being rejected until the rate limit window resets.",
							},
						},
					},
				},
			},
		},
	}
}
