package rules

// RecordingRules returns a PrometheusRule CR containing pre-computed rate
// expressions used by dashboards and alert rules.
func RecordingRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name: "lister-recording-rules",
			Labels: map[string]string{
				"prometheus": "system-rules-prometheus",
			},
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "lister-recording",
					Rules: []Rule{
						{
							Record: "lister:api_calls:rate5m",
							Expr:   `sum by (method) (rate(lister_api_calls_total[5m]))`,
						},
						{
							Record: "lister:api_errors:rate5m",
							Expr:   `sum by (category) (rate(lister_api_call_errors_total[5m]))`,
						},
						{
							Record: "lister:listing_steps:rate5m",
							Expr:   `sum by (step, status) (rate(lister_listing_steps_total[5m]))`,
						},
						{
							Record: "lister:token_failures:rate5m",
							Expr:   `rate(lister_token_refresh_failures_total[5m])`,
						},
					},
				},
			},
		},
	}
}
