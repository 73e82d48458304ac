package calculator_test

import (
	"math"
	"testing"

	"github.com/diillson/carbon-footprint-go/internal/domain/calculator"
	"github.com/diillson/carbon-footprint-go/internal/domain/entity"
	"github.com/diillson/carbon-footprint-go/internal/domain/factor"
	"github.com/diillson/carbon-footprint-go/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const delta = 1e-9

func sampleInput() entity.ActivityInput {
	return entity.ActivityInput{
		Headcount:           40,
		ElectricityKWh:      12000,
		GeneratorFuelLiters: 300,
		GeneratorFuelType:   "diesel",
		RefrigerantKg:       1.5,
		RefrigerantType:     "R-22",
		OwnsVehicles:        true,
		VehicleFuelVolume:   800,
		VehicleFuelType:     "CNG",
		ElectronicsSpend:    5000,
		CloudSpend:          2400,
		Flights: []entity.Flight{
			{DistanceKm: 1200, Class: entity.CabinEconomy},
			{DistanceKm: 500, Class: entity.CabinBusiness},
		},
		CommuteModes: entity.CommuteMix{
			{Mode: "bus", Percent: 50},
			{Mode: "cng_rickshaw", Percent: 20},
			{Mode: "rickshaw", Percent: 10},
			{Mode: "car", Percent: 20},
		},
		AvgCommuteDistanceKm: 8,
		TotalWFHDays:         400,
		Workdays:             250,
	}
}

func TestScope1(t *testing.T) {
	table := factor.NewTable()

	got := calculator.Scope1(table, entity.ActivityInput{
		GeneratorFuelLiters: 100,
		GeneratorFuelType:   "diesel",
		RefrigerantKg:       2,
		RefrigerantType:     "R-410A",
	})

	assert.InDelta(t, 312, got.Generator, delta)
	assert.InDelta(t, 4176, got.Refrigerant, delta)
	assert.Equal(t, 0.0, got.Vehicles)
	assert.InDelta(t, 4488, got.Total(), delta)
}

func TestScope1UnknownTypesContributeZero(t *testing.T) {
	table := factor.NewTable()

	got := calculator.Scope1(table, entity.ActivityInput{
		GeneratorFuelLiters: 100,
		GeneratorFuelType:   "unobtainium",
		RefrigerantKg:       2,
		RefrigerantType:     "R-999",
		VehicleFuelVolume:   50,
		VehicleFuelType:     "unobtainium",
	})

	assert.Equal(t, 0.0, got.Total())
}

func TestVehicleEmissionsCNG(t *testing.T) {
	table := factor.NewTable()

	assert.InDelta(t, 195, calculator.VehicleEmissions(table, 100, "CNG"), delta)
	assert.InDelta(t, 266, calculator.VehicleEmissions(table, 100, "Petrol"), delta)
}

func TestScope2(t *testing.T) {
	table := factor.NewTable()
	assert.InDelta(t, 620, calculator.Scope2(table, 1000), delta)

	custom := factor.NewTable(factor.WithGridFactor(0.5))
	assert.InDelta(t, 500, calculator.Scope2(custom, 1000), delta)
}

func TestFlightEmissions(t *testing.T) {
	table := factor.NewTable()

	emissions, km, err := calculator.FlightEmissions(table, []entity.Flight{
		{DistanceKm: 500, Class: entity.CabinBusiness},
	})
	require.NoError(t, err)
	assert.InDelta(t, 225, emissions, delta)
	assert.Equal(t, 500.0, km)

	_, _, err = calculator.FlightEmissions(table, []entity.Flight{
		{DistanceKm: 500, Class: entity.CabinClass("first")},
	})
	assert.ErrorIs(t, err, types.ErrUnknownCabinClass)
}

func TestEffectiveWorkdays(t *testing.T) {
	tests := []struct {
		name      string
		headcount float64
		wfh       float64
		workdays  float64
		want      float64
	}{
		{name: "no wfh", headcount: 10, wfh: 0, workdays: 250, want: 250},
		{name: "one day each", headcount: 10, wfh: 10, workdays: 250, want: 249},
		{name: "everybody remote", headcount: 10, wfh: 2500, workdays: 250, want: 0},
		{name: "more wfh than workdays", headcount: 10, wfh: 5000, workdays: 250, want: 0},
		{name: "zero headcount", headcount: 0, wfh: 100, workdays: 250, want: 0},
		{name: "zero workdays", headcount: 10, wfh: 0, workdays: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, calculator.EffectiveWorkdays(tt.headcount, tt.wfh, tt.workdays), delta)
		})
	}
}

func TestCommutingNeverNegative(t *testing.T) {
	in, err := entity.ActivityInput{
		Headcount:            10,
		AvgCommuteDistanceKm: 10,
		TotalWFHDays:         5000,
		CommuteModes:         entity.CommuteMix{{Mode: "car", Percent: 100}},
	}.Normalize()
	require.NoError(t, err)

	got, err := calculator.Assess(factor.NewTable(), in)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.Scope3.EffectiveWorkdays)
	assert.Equal(t, 0.0, got.Scope3.Commuting)
	assert.Equal(t, 0.0, got.Totals.Total)
}

func TestCommuteEmissionsZeroHeadcount(t *testing.T) {
	table := factor.NewTable()
	in := sampleInput()
	in.Headcount = 0

	got, err := calculator.Scope3(table, in)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.EffectiveWorkdays)
	assert.Equal(t, 0.0, got.Commuting)
}

func TestCommuteEmissions(t *testing.T) {
	table := factor.NewTable()
	mix := entity.CommuteMix{{Mode: "car", Percent: 50}, {Mode: "hoverboard", Percent: 50}}

	// 10 people * 0.5 * 5 km * 2 * 200 days = 10000 pkm by car
	got := calculator.CommuteEmissions(table, 10, mix, 5, 200)
	assert.InDelta(t, 10000*0.17, got, 1e-6)
}

func TestScope3(t *testing.T) {
	table := factor.NewTable()

	got, err := calculator.Scope3(table, entity.ActivityInput{
		Headcount:            10,
		ElectronicsSpend:     1000,
		CloudSpend:           500,
		Flights:              []entity.Flight{{DistanceKm: 500, Class: entity.CabinBusiness}},
		CommuteModes:         entity.CommuteMix{{Mode: "bus", Percent: 100}},
		AvgCommuteDistanceKm: 10,
		TotalWFHDays:         0,
		Workdays:             250,
	})
	require.NoError(t, err)

	assert.InDelta(t, 250, got.Goods, delta)
	assert.InDelta(t, 100, got.Cloud, delta)
	assert.InDelta(t, 225, got.Flights, delta)
	// 10 * 1 * 10 * 2 * 250 = 50000 pkm * 0.08
	assert.InDelta(t, 4000, got.Commuting, 1e-6)
	assert.InDelta(t, 4575, got.Total(), 1e-6)
}

func TestScope3DefaultsWorkdays(t *testing.T) {
	table := factor.NewTable()

	got, err := calculator.Scope3(table, entity.ActivityInput{Headcount: 4})
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultWorkdays, got.EffectiveWorkdays)
}

func TestAssessSectionTotalsMatchScopes(t *testing.T) {
	table := factor.NewTable()
	in, err := sampleInput().Normalize()
	require.NoError(t, err)

	got, err := calculator.Assess(table, in)
	require.NoError(t, err)

	s1, ok := got.Report.Section(entity.SectionScope1)
	require.True(t, ok)
	s2, ok := got.Report.Section(entity.SectionScope2)
	require.True(t, ok)
	s3, ok := got.Report.Section(entity.SectionScope3)
	require.True(t, ok)

	assert.InDelta(t, got.Scope1.Total(), s1.Total(), 1e-6)
	assert.InDelta(t, got.Scope2, s2.Total(), 1e-6)
	assert.InDelta(t, got.Scope3.Total(), s3.Total(), 1e-6)
	assert.InDelta(t, got.Totals.Total, got.Report.Total(), 1e-6)
	assert.InDelta(t, got.Totals.Total/in.Headcount, got.Totals.PerEmployee, 1e-9)
}

func TestAssessReportLayout(t *testing.T) {
	table := factor.NewTable()
	in, err := sampleInput().Normalize()
	require.NoError(t, err)

	got, err := calculator.Assess(table, in)
	require.NoError(t, err)

	require.Len(t, got.Report, 3)
	assert.Equal(t, []string{entity.SectionScope1, entity.SectionScope2, entity.SectionScope3},
		[]string{got.Report[0].Name, got.Report[1].Name, got.Report[2].Name})

	names := []string{}
	for _, item := range got.Report[2].Items {
		names = append(names, item.Name)
	}
	assert.Equal(t, []string{
		"Hardware Purchases",
		"Cloud Services",
		"Business Flights",
		"Employee Commuting (adjusted for WFH)",
	}, names)

	flights := got.Report[2].Items[2]
	assert.Equal(t, entity.Amount(1700), flights.Value)
	assert.Equal(t, calculator.UnitPassengerKm, flights.Unit)
	assert.False(t, got.Report[2].Items[3].Value.Valid)
}

func TestTotalsPerEmployee(t *testing.T) {
	got := calculator.Totals(0, 10, 20, 30)
	assert.Equal(t, 60.0, got.Total)
	assert.Equal(t, 0.0, got.PerEmployee)

	got = calculator.Totals(4, 10, 20, 30)
	assert.Equal(t, 15.0, got.PerEmployee)
}

func TestNonNegativeInputsGiveFiniteNonNegativeTotals(t *testing.T) {
	table := factor.NewTable()
	inputs := []entity.ActivityInput{
		{},
		sampleInput(),
		{Headcount: 1e6, ElectricityKWh: 1e9, TotalWFHDays: 0, AvgCommuteDistanceKm: 100,
			CommuteModes: entity.CommuteMix{{Mode: "car", Percent: 100}}},
		{Headcount: 10, AvgCommuteDistanceKm: 10, TotalWFHDays: 5000,
			CommuteModes: entity.CommuteMix{{Mode: "car", Percent: 100}}},
	}

	for _, raw := range inputs {
		in, err := raw.Normalize()
		require.NoError(t, err)
		got, err := calculator.Assess(table, in)
		require.NoError(t, err)

		for _, v := range []float64{got.Totals.Scope1, got.Totals.Scope2, got.Totals.Scope3, got.Totals.Total, got.Totals.PerEmployee} {
			assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
			assert.GreaterOrEqual(t, v, 0.0)
		}
	}
}

func TestAssessRejectsOverflowingTotals(t *testing.T) {
	in, err := entity.ActivityInput{GeneratorFuelLiters: 1e308}.Normalize()
	require.NoError(t, err)

	_, err = calculator.Assess(factor.NewTable(), in)
	assert.ErrorIs(t, err, types.ErrInvalidFormValue)
}
