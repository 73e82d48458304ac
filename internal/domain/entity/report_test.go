package entity_test

import (
	"encoding/json"
	"testing"

	"github.com/diillson/carbon-footprint-go/internal/domain/entity"
	"github.com/diillson/carbon-footprint-go/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() entity.Report {
	return entity.Report{
		{Name: entity.SectionScope1, Items: []entity.ReportLineItem{
			{Name: "Generator Fuel", Value: entity.Amount(100), Unit: "liters/m³", Emissions: 312},
			{Name: "Refrigerants", Value: entity.Amount(2), Unit: "kg", Emissions: 4176},
		}},
		{Name: entity.SectionScope3, Items: []entity.ReportLineItem{
			{Name: "Employee Commuting (adjusted for WFH)", Value: entity.NotApplicable, Emissions: 12.5},
		}},
	}
}

func TestQuantityString(t *testing.T) {
	assert.Equal(t, "1000", entity.Amount(1000).String())
	assert.Equal(t, "12.5", entity.Amount(12.5).String())
	assert.Equal(t, "N/A", entity.NotApplicable.String())
}

func TestQuantityJSON(t *testing.T) {
	data, err := json.Marshal([]entity.Quantity{entity.Amount(2.5), entity.NotApplicable})
	require.NoError(t, err)
	assert.JSONEq(t, `[2.5, "N/A"]`, string(data))

	var got []entity.Quantity
	require.NoError(t, json.Unmarshal([]byte(`[2.5, "N/A", "7", ""]`), &got))
	assert.Equal(t, []entity.Quantity{entity.Amount(2.5), entity.NotApplicable, entity.Amount(7), entity.NotApplicable}, got)

	assert.Error(t, json.Unmarshal([]byte(`["seven"]`), &got))
}

func TestReportTotals(t *testing.T) {
	report := sampleReport()

	s1, ok := report.Section(entity.SectionScope1)
	require.True(t, ok)
	assert.Equal(t, 4488.0, s1.Total())
	assert.Equal(t, 4500.5, report.Total())

	_, ok = report.Section(entity.SectionScope2)
	assert.False(t, ok)
}

func TestParseReportRoundTrip(t *testing.T) {
	report := sampleReport()
	data, err := json.Marshal(report)
	require.NoError(t, err)

	got, err := entity.ParseReport(data)
	require.NoError(t, err)
	assert.Equal(t, report, got)
}

func TestParseReportRejectsMalformedData(t *testing.T) {
	tests := map[string]string{
		"not json":          `{{`,
		"object":            `{"Scope 1": []}`,
		"empty":             `[]`,
		"missing name":      `[{"items": []}]`,
		"missing item name": `[{"name": "Scope 1", "items": [{"value": 1, "unit": "kg", "emissions": 1}]}]`,
		"missing emissions": `[{"name": "Scope 1", "items": [{"name": "Refrigerants", "value": 1, "unit": "kg"}]}]`,
		"missing value":     `[{"name": "Scope 1", "items": [{"name": "Generator Fuel", "unit": "liters/m³", "emissions": 312}]}]`,
		"missing unit":      `[{"name": "Scope 1", "items": [{"name": "Generator Fuel", "value": 100, "emissions": 312}]}]`,
		"null value":        `[{"name": "Scope 1", "items": [{"name": "Generator Fuel", "value": null, "unit": "kg", "emissions": 312}]}]`,
		"missing items":     `[{"name": "Scope 1"}]`,
	}

	for name, payload := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := entity.ParseReport([]byte(payload))
			assert.ErrorIs(t, err, types.ErrMalformedReport)
		})
	}
}
