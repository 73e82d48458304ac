package entity

import "time"

// ServiceCost is the unblended spend of one AWS service in the period.
type ServiceCost struct {
	ServiceName string  `json:"service_name"`
	Cost        float64 `json:"cost"`
}

// CloudSpend is the AWS spend imported to feed the cloud services line of
// Scope 3, in USD.
type CloudSpend struct {
	AccountID   string        `json:"account_id,omitempty"`
	Profile     string        `json:"profile"`
	PeriodName  string        `json:"period_name"`
	PeriodStart time.Time     `json:"period_start"`
	PeriodEnd   time.Time     `json:"period_end"`
	TimeRange   int           `json:"time_range,omitempty"`
	Total       float64       `json:"total"`
	ByService   []ServiceCost `json:"by_service"`
}
