package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/diillson/carbon-footprint-go/internal/shared/types"
	"gonum.org/v1/gonum/floats"
)

// Nomes das seções, na ordem em que aparecem no relatório.
const (
	SectionScope1 = "Scope 1"
	SectionScope2 = "Scope 2"
	SectionScope3 = "Scope 3"
)

// Quantity is a line item's activity value. Lines without a single meaningful
// quantity (employee commuting) carry N/A.
type Quantity struct {
	Value float64
	Valid bool
}

// Amount builds a numeric quantity.
func Amount(v float64) Quantity {
	return Quantity{Value: v, Valid: true}
}

// NotApplicable is the N/A quantity.
var NotApplicable = Quantity{}

// String formata a quantidade sem zeros à direita, ou "N/A".
func (q Quantity) String() string {
	if !q.Valid {
		return "N/A"
	}
	return strconv.FormatFloat(q.Value, 'f', -1, 64)
}

// MarshalJSON encodes the quantity as a number or the string "N/A".
func (q Quantity) MarshalJSON() ([]byte, error) {
	if !q.Valid {
		return []byte(`"N/A"`), nil
	}
	return json.Marshal(q.Value)
}

// UnmarshalJSON accepts a number, a numeric string or "N/A".
func (q *Quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "N/A" || s == "" {
			*q = NotApplicable
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid quantity %q", s)
		}
		*q = Amount(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*q = Amount(v)
	return nil
}

// ReportLineItem is one itemized activity in a section.
type ReportLineItem struct {
	Name      string   `json:"name"`
	Value     Quantity `json:"value"`
	Unit      string   `json:"unit"`
	Emissions float64  `json:"emissions"`
}

// ReportSection groups the line items of one scope.
type ReportSection struct {
	Name  string           `json:"name"`
	Items []ReportLineItem `json:"items"`
}

// Total soma as emissões dos itens da seção.
func (s ReportSection) Total() float64 {
	values := make([]float64, len(s.Items))
	for i, item := range s.Items {
		values[i] = item.Emissions
	}
	return floats.Sum(values)
}

// Report is the ordered, itemized breakdown shared by the web view and every
// exporter.
type Report []ReportSection

// Total is the sum of every line item across all sections.
func (r Report) Total() float64 {
	totals := make([]float64, len(r))
	for i, s := range r {
		totals[i] = s.Total()
	}
	return floats.Sum(totals)
}

// Section returns the section with the given name.
func (r Report) Section(name string) (ReportSection, bool) {
	for _, s := range r {
		if s.Name == name {
			return s, true
		}
	}
	return ReportSection{}, false
}

// Validate checks the structure a report must have to be exported.
func (r Report) Validate() error {
	if len(r) == 0 {
		return fmt.Errorf("%w: no sections", types.ErrMalformedReport)
	}
	for i, s := range r {
		if s.Name == "" {
			return fmt.Errorf("%w: section %d has no name", types.ErrMalformedReport, i)
		}
		for j, item := range s.Items {
			if item.Name == "" {
				return fmt.Errorf("%w: %s item %d has no name", types.ErrMalformedReport, s.Name, j)
			}
			if math.IsNaN(item.Emissions) || math.IsInf(item.Emissions, 0) {
				return fmt.Errorf("%w: %s item %q has non-finite emissions", types.ErrMalformedReport, s.Name, item.Name)
			}
		}
	}
	return nil
}

// rawLineItem mirrors ReportLineItem with pointers so missing keys can be told
// apart from zero values.
type rawLineItem struct {
	Name      *string   `json:"name"`
	Value     *Quantity `json:"value"`
	Unit      *string   `json:"unit"`
	Emissions *float64  `json:"emissions"`
}

func (ri rawLineItem) missingKey() string {
	switch {
	case ri.Name == nil:
		return "name"
	case ri.Value == nil:
		return "value"
	case ri.Unit == nil:
		return "unit"
	case ri.Emissions == nil:
		return "emissions"
	}
	return ""
}

type rawSection struct {
	Name  *string       `json:"name"`
	Items []rawLineItem `json:"items"`
}

// ParseReport decodes the serialized report a client posts back for export.
// Every key must be present; missing keys are rejected instead of being read
// as zero values.
func ParseReport(data []byte) (Report, error) {
	var raw []rawSection
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrMalformedReport, err)
	}

	report := make(Report, 0, len(raw))
	for i, rs := range raw {
		if rs.Name == nil {
			return nil, fmt.Errorf("%w: section %d is missing \"name\"", types.ErrMalformedReport, i)
		}
		if rs.Items == nil {
			return nil, fmt.Errorf("%w: section %q is missing \"items\"", types.ErrMalformedReport, *rs.Name)
		}
		section := ReportSection{Name: *rs.Name, Items: make([]ReportLineItem, 0, len(rs.Items))}
		for j, ri := range rs.Items {
			if key := ri.missingKey(); key != "" {
				return nil, fmt.Errorf("%w: %s item %d is missing %q", types.ErrMalformedReport, section.Name, j, key)
			}
			section.Items = append(section.Items, ReportLineItem{
				Name:      *ri.Name,
				Value:     *ri.Value,
				Unit:      *ri.Unit,
				Emissions: *ri.Emissions,
			})
		}
		report = append(report, section)
	}

	if err := report.Validate(); err != nil {
		return nil, err
	}
	return report, nil
}

// ScopeTotals carries the aggregate figures shown next to the report.
type ScopeTotals struct {
	Scope1      float64 `json:"scope1"`
	Scope2      float64 `json:"scope2"`
	Scope3      float64 `json:"scope3"`
	Total       float64 `json:"total"`
	PerEmployee float64 `json:"per_employee"`
}

// ReportDocument is everything an exporter needs to render one report.
type ReportDocument struct {
	ID               string      `json:"id"`
	OrganizationName string      `json:"organization_name"`
	GeneratedAt      time.Time   `json:"generated_at"`
	Report           Report      `json:"report"`
	Totals           ScopeTotals `json:"totals"`
}
