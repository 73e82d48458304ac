package calculator

import (
	"fmt"
	"math"

	"github.com/diillson/carbon-footprint-go/internal/domain/entity"
	"github.com/diillson/carbon-footprint-go/internal/domain/factor"
)

// Scope3Result breaks value-chain emissions down by category, in kg CO2e.
type Scope3Result struct {
	Goods             float64 `json:"goods"`
	Cloud             float64 `json:"cloud"`
	Flights           float64 `json:"flights"`
	Commuting         float64 `json:"commuting"`
	FlightKm          float64 `json:"flight_km"`
	EffectiveWorkdays float64 `json:"effective_workdays"`
}

// Total soma as quatro categorias da cadeia de valor.
func (r Scope3Result) Total() float64 {
	return r.Goods + r.Cloud + r.Flights + r.Commuting
}

// GoodsEmissions is a spend-based estimate for purchased electronics.
func GoodsEmissions(t *factor.Table, spend float64) float64 {
	return spend * t.Lookup(factor.KeyElectronicsSpend)
}

// CloudEmissions is a spend-based estimate for cloud services.
func CloudEmissions(t *factor.Table, spend float64) float64 {
	return spend * t.Lookup(factor.KeyCloudSpend)
}

// FlightEmissions sums distance times the cabin-class factor over every
// flight. It also returns the total distance flown. An unknown cabin class
// fails the whole calculation.
func FlightEmissions(t *factor.Table, flights []entity.Flight) (emissions, distanceKm float64, err error) {
	for i, f := range flights {
		perKm, err := t.FlightFactor(f.Class)
		if err != nil {
			return 0, 0, fmt.Errorf("flight %d: %w", i, err)
		}
		emissions += f.DistanceKm * perKm
		distanceKm += f.DistanceKm
	}
	return emissions, distanceKm, nil
}

// EffectiveWorkdays spreads the organization-wide work-from-home days evenly
// over the workforce and removes them from the standard workdays. It is 0 when
// there is nobody to commute, and never negative.
func EffectiveWorkdays(headcount, totalWFHDays, workdays float64) float64 {
	if headcount <= 0 || workdays <= 0 {
		return 0
	}
	return math.Max(0, workdays*(1-totalWFHDays/(headcount*workdays)))
}

// CommuteEmissions converts the commute mix into round-trip passenger-km and
// applies each mode's factor. Unknown modes contribute 0.
func CommuteEmissions(t *factor.Table, headcount float64, mix entity.CommuteMix, avgDistanceKm, effectiveWorkdays float64) float64 {
	total := 0.0
	for _, share := range mix {
		pkm := headcount * (share.Percent / 100) * avgDistanceKm * 2 * effectiveWorkdays
		total += pkm * t.CommuteFactor(share.Mode)
	}
	return total
}

// Scope3 computes value-chain emissions.
func Scope3(t *factor.Table, in entity.ActivityInput) (Scope3Result, error) {
	flights, km, err := FlightEmissions(t, in.Flights)
	if err != nil {
		return Scope3Result{}, err
	}

	workdays := in.Workdays
	if workdays == 0 {
		workdays = entity.DefaultWorkdays
	}
	effective := EffectiveWorkdays(in.Headcount, in.TotalWFHDays, workdays)

	return Scope3Result{
		Goods:             GoodsEmissions(t, in.ElectronicsSpend),
		Cloud:             CloudEmissions(t, in.CloudSpend),
		Flights:           flights,
		Commuting:         CommuteEmissions(t, in.Headcount, in.CommuteModes, in.AvgCommuteDistanceKm, effective),
		FlightKm:          km,
		EffectiveWorkdays: effective,
	}, nil
}
