package rules

// AlertRules returns a PrometheusRule CR containing alert rules for
// ebay-lister operational monitoring.
func AlertRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name: "lister-alerts",
			Labels: map[string]string{
				"prometheus": "system-rules-prometheus",
			},
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "lister-alerts",
					Rules: []Rule{
						{
							Alert: "ListerTokenRefreshFailing",
							Expr:  `lister:token_failures:rate5m > 0`,
							For:   "5m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "eBay token refresh is being rejected",
								"description": "Access token refreshes have been failing for more than 5 minutes. A new interactive login is likely required.",
							},
						},
						{
							Alert: "ListerStepFailures",
							Expr:  `sum(lister:listing_steps:rate5m{status="failure"}) > 0`,
							For:   "10m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Listing steps are failing",
								"description": "One or more listing saga steps have been failing for more than 10 minutes. Check for stranded offers that were created but never published.",
							},
						},
						{
							Alert: "ListerQuotaHigh",
							Expr:  `lister_daily_usage > 4000`,
							For:   "5m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Sell API daily usage is above 80% of the quota",
								"description": "Daily Sell API usage has exceeded 4000 calls (quota is 5000).",
							},
						},
						{
							Alert: "ListerQuotaExhausted",
							Expr:  `increase(lister_daily_limit_hits_total[5m]) > 0`,
							For:   "0m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "Sell API daily quota exhausted",
								"description": "Calls are being blocked by the daily quota. Listings cannot be created until the window rolls over.",
							},
						},
						{
							Alert: "ListerNotificationFailures",
							Expr:  `increase(lister_notification_failures_total[15m]) > 0`,
							For:   "0m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Listing notifications are failing",
								"description": "Discord notifications have failed in the last 15 minutes. Listings are unaffected but announcements are being dropped.",
							},
						},
					},
				},
			},
		},
	}
}
