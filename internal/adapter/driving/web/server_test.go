package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/diillson/carbon-footprint-go/internal/adapter/driven/config"
	"github.com/diillson/carbon-footprint-go/internal/adapter/driven/export"
	"github.com/diillson/carbon-footprint-go/internal/application/usecase"
	"github.com/diillson/carbon-footprint-go/internal/domain/entity"
	"github.com/diillson/carbon-footprint-go/internal/domain/factor"
	"github.com/diillson/carbon-footprint-go/pkg/console"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	uc := usecase.NewFootprintUseCase(
		factor.NewTable(),
		export.NewExportRepository(),
		config.NewConfigRepository(),
		nil,
		console.NewConsole(),
		usecase.WithClock(func() time.Time { return time.Date(2026, time.October, 18, 9, 30, 0, 0, time.UTC) }),
	)
	srv, err := NewServer(uc)
	require.NoError(t, err)
	return srv.Handler()
}

func postForm(t *testing.T, h http.Handler, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func sampleReportJSON(t *testing.T) string {
	t.Helper()
	report := entity.Report{
		{Name: entity.SectionScope1, Items: []entity.ReportLineItem{
			{Name: "Generator Fuel", Value: entity.Amount(100), Unit: "liters/m³", Emissions: 312},
		}},
		{Name: entity.SectionScope2, Items: []entity.ReportLineItem{
			{Name: "Purchased Electricity", Value: entity.Amount(1000), Unit: "kWh", Emissions: 620},
		}},
	}
	data, err := json.Marshal(report)
	require.NoError(t, err)
	return string(data)
}

func TestIndex(t *testing.T) {
	h := newTestServer(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="company_name"`)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/unknown", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrganizationSetsCookie(t *testing.T) {
	h := newTestServer(t)

	rec := postForm(t, h, "/", url.Values{"company_name": {"Acme Corp"}})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Acme Corp")
	assert.Contains(t, rec.Body.String(), `name="flight_dist_4"`)
	assert.Contains(t, rec.Body.String(), `name="commute_cng_rickshaw"`)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, companyCookie, cookies[0].Name)
	assert.Equal(t, "Acme+Corp", cookies[0].Value)
}

func TestCalculate(t *testing.T) {
	h := newTestServer(t)
	cookie := &http.Cookie{Name: companyCookie, Value: "Acme+Corp"}

	rec := postForm(t, h, "/calculate", url.Values{
		"headcount":             {"10"},
		"electricity_kwh":       {"1000"},
		"generator_fuel_liters": {"100"},
		"generator_fuel_type":   {"diesel"},
		"refrigerant_kg":        {"2"},
		"refrigerant_type":      {"R-410A"},
		"owns_vehicles":         {"no"},
		"vehicle_fuel_volume":   {"50"},
		"num_flights":           {"2"},
		"flight_dist_0":         {"500"},
		"flight_class_0":        {"business"},
		"flight_dist_1":         {""},
		"flight_class_1":        {"premium"},
		"cloud_spend_usd":       {""},
	}, cookie)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := rec.Body.String()
	assert.Contains(t, body, "<h1>Acme Corp</h1>")
	assert.Contains(t, body, "4488.00")
	assert.Contains(t, body, "620.00")
	// voo executivo de 500 km
	assert.Contains(t, body, "225.00")
	assert.Contains(t, body, "5333.00")
	assert.Contains(t, body, `name="report_data"`)
	assert.Contains(t, body, "Equivalent to driving")
}

func TestCalculateRejectsBadInput(t *testing.T) {
	h := newTestServer(t)

	tests := []struct {
		name string
		form url.Values
	}{
		{name: "malformed number", form: url.Values{"headcount": {"ten"}}},
		{name: "not finite", form: url.Values{"electricity_kwh": {"NaN"}}},
		{name: "malformed flight distance", form: url.Values{"num_flights": {"1"}, "flight_dist_0": {"far"}}},
		{name: "unknown cabin class", form: url.Values{"num_flights": {"1"}, "flight_dist_0": {"100"}, "flight_class_0": {"premium"}}},
		{name: "too many flights", form: url.Values{"num_flights": {"100000"}}},
		{name: "total overflows", form: url.Values{"generator_fuel_liters": {"1e308"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postForm(t, h, "/calculate", tt.form)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestExportCSV(t *testing.T) {
	h := newTestServer(t)

	rec := postForm(t, h, "/export_csv", url.Values{"report_data": {sampleReportJSON(t)}})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename=carbon_footprint_report.csv`, rec.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "Carbon Footprint Report,"))
	assert.Contains(t, rec.Body.String(), "Total Emissions,,,,932.00 kg CO2e\r\n")
}

func TestExportPDF(t *testing.T) {
	h := newTestServer(t)

	rec := postForm(t, h, "/export_pdf", url.Values{
		"report_data":  {sampleReportJSON(t)},
		"company_name": {"Acme Corp"},
		"scope1":       {"312"},
		"scope2":       {"620"},
		"scope3":       {"0"},
		"total":        {"932"},
		"per_employee": {"93.2"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Acme_Corp_Carbon_Report_20261018.pdf")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF-"))
}

func TestExportMalformedReportData(t *testing.T) {
	h := newTestServer(t)

	for _, data := range []string{"", "{", "[]", `[{"items": []}]`, `[{"name": "Scope 1", "items": [{"name": "x"}]}]`,
		`[{"name": "Scope 1"}]`,
		`[{"name": "Scope 1", "items": [{"name": "Generator Fuel", "unit": "liters/m³", "emissions": 312}]}]`,
		`[{"name": "Scope 1", "items": [{"name": "Generator Fuel", "value": 100, "emissions": 312}]}]`,
	} {
		rec := postForm(t, h, "/export_pdf", url.Values{"report_data": {data}})
		assert.Equal(t, http.StatusInternalServerError, rec.Code, data)
		assert.Equal(t, pdfErrorBody+"\n", rec.Body.String())

		rec = postForm(t, h, "/export_csv", url.Values{"report_data": {data}})
		assert.Equal(t, http.StatusInternalServerError, rec.Code, data)
		assert.Equal(t, csvErrorBody+"\n", rec.Body.String())
	}

	rec := postForm(t, h, "/export_pdf", url.Values{"report_data": {sampleReportJSON(t)}, "total": {"lots"}})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, pdfErrorBody+"\n", rec.Body.String())
}

func TestAPICalculate(t *testing.T) {
	h := newTestServer(t)

	body := `{"organization_name": "Acme", "headcount": 10, "electricity_kwh": 1000,
		"flights": [{"distance_km": 500, "class": "business"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/calculate", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var result usecase.CalculationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "Acme", result.Document.OrganizationName)
	assert.InDelta(t, 845, result.Document.Totals.Total, 1e-9)
	assert.InDelta(t, 225, result.Scope3.Flights, 1e-9)

	req = httptest.NewRequest(http.MethodPost, "/api/calculate", strings.NewReader(`{"flights": [{"distance_km": 1, "class": "first"}]}`))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/calculate", strings.NewReader(`{"generator_fuel_liters": 1e308}`))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/calculate", strings.NewReader(`{"headcount": "many"}`))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPIFactorsAndHealth(t *testing.T) {
	h := newTestServer(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/factors", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var payload map[string]map[string]float64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, 0.62, payload["factors"]["electricity"])
	assert.Equal(t, 2088.0, payload["refrigerants"]["R-410A"])

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, "ok", rec.Body.String())
}
