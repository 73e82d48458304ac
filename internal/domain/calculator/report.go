package calculator

import (
	"fmt"
	"math"

	"github.com/diillson/carbon-footprint-go/internal/domain/entity"
	"github.com/diillson/carbon-footprint-go/internal/domain/factor"
	"github.com/diillson/carbon-footprint-go/internal/shared/types"
)

// Unidades exibidas no relatório.
const (
	UnitFuel         = "liters/m³"
	UnitKg           = "kg"
	UnitKWh          = "kWh"
	UnitUSD          = "USD"
	UnitPassengerKm  = "passenger-km"
	UnitNotAvailable = ""
)

// Assessment is the outcome of one calculation: the per-scope breakdowns, the
// itemized report and the derived totals.
type Assessment struct {
	Input  entity.ActivityInput
	Scope1 Scope1Result
	Scope2 float64
	Scope3 Scope3Result
	Report entity.Report
	Totals entity.ScopeTotals
}

// Assess runs the three scope calculators and assembles the report. The input
// must already be normalized.
func Assess(t *factor.Table, in entity.ActivityInput) (Assessment, error) {
	s1 := Scope1(t, in)
	s2 := Scope2(t, in.ElectricityKWh)
	s3, err := Scope3(t, in)
	if err != nil {
		return Assessment{}, err
	}

	totals := Totals(in.Headcount, s1.Total(), s2, s3.Total())
	for _, v := range []float64{totals.Scope1, totals.Scope2, totals.Scope3, totals.Total, totals.PerEmployee} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Assessment{}, fmt.Errorf("%w: quantities too large to total", types.ErrInvalidFormValue)
		}
	}

	return Assessment{
		Input:  in,
		Scope1: s1,
		Scope2: s2,
		Scope3: s3,
		Report: BuildReport(in, s1, s2, s3),
		Totals: totals,
	}, nil
}

// BuildReport lays the scope results out as line items. Every line reuses the
// sub-term the aggregate calculators produced, so section totals always add
// up to the scope totals.
func BuildReport(in entity.ActivityInput, s1 Scope1Result, s2 float64, s3 Scope3Result) entity.Report {
	return entity.Report{
		{
			Name: entity.SectionScope1,
			Items: []entity.ReportLineItem{
				{Name: "Generator Fuel", Value: entity.Amount(in.GeneratorFuelLiters), Unit: UnitFuel, Emissions: s1.Generator},
				{Name: "Refrigerants", Value: entity.Amount(in.RefrigerantKg), Unit: UnitKg, Emissions: s1.Refrigerant},
				{Name: "Company Vehicles", Value: entity.Amount(in.VehicleFuelVolume), Unit: UnitFuel, Emissions: s1.Vehicles},
			},
		},
		{
			Name: entity.SectionScope2,
			Items: []entity.ReportLineItem{
				{Name: "Purchased Electricity", Value: entity.Amount(in.ElectricityKWh), Unit: UnitKWh, Emissions: s2},
			},
		},
		{
			Name: entity.SectionScope3,
			Items: []entity.ReportLineItem{
				{Name: "Hardware Purchases", Value: entity.Amount(in.ElectronicsSpend), Unit: UnitUSD, Emissions: s3.Goods},
				{Name: "Cloud Services", Value: entity.Amount(in.CloudSpend), Unit: UnitUSD, Emissions: s3.Cloud},
				{Name: "Business Flights", Value: entity.Amount(s3.FlightKm), Unit: UnitPassengerKm, Emissions: s3.Flights},
				{Name: "Employee Commuting (adjusted for WFH)", Value: entity.NotApplicable, Unit: UnitNotAvailable, Emissions: s3.Commuting},
			},
		},
	}
}

// Totals derives the grand total and the per-employee figure. PerEmployee is
// 0 when headcount is 0.
func Totals(headcount, scope1, scope2, scope3 float64) entity.ScopeTotals {
	total := scope1 + scope2 + scope3
	perEmployee := 0.0
	if headcount > 0 {
		perEmployee = total / headcount
	}
	return entity.ScopeTotals{
		Scope1:      scope1,
		Scope2:      scope2,
		Scope3:      scope3,
		Total:       total,
		PerEmployee: perEmployee,
	}
}
