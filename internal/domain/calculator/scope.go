// Package calculator translates activity quantities into emissions for the
// three GHG Protocol scopes and assembles the itemized report.
package calculator

import (
	"github.com/diillson/carbon-footprint-go/internal/domain/entity"
	"github.com/diillson/carbon-footprint-go/internal/domain/factor"
)

// Scope1Result breaks direct emissions down by source, in kg CO2e.
type Scope1Result struct {
	Generator   float64 `json:"generator"`
	Refrigerant float64 `json:"refrigerant"`
	Vehicles    float64 `json:"vehicles"`
}

// Total soma as três fontes diretas.
func (r Scope1Result) Total() float64 {
	return r.Generator + r.Refrigerant + r.Vehicles
}

// GeneratorEmissions is liters of generator fuel times the fuel factor.
func GeneratorEmissions(t *factor.Table, liters float64, fuelType string) float64 {
	return liters * t.Lookup(fuelType)
}

// RefrigerantEmissions is leaked refrigerant mass times its GWP.
func RefrigerantEmissions(t *factor.Table, kg float64, refrigerantType string) float64 {
	return kg * t.RefrigerantGWP(refrigerantType)
}

// VehicleEmissions is fuel burned by owned vehicles times the fuel factor.
// The caller zeroes volume and type when the organization owns no vehicles.
func VehicleEmissions(t *factor.Table, volume float64, fuelType string) float64 {
	return volume * t.FuelFactor(fuelType)
}

// Scope1 computes direct emissions. Unknown fuel or refrigerant types
// contribute 0.
func Scope1(t *factor.Table, in entity.ActivityInput) Scope1Result {
	return Scope1Result{
		Generator:   GeneratorEmissions(t, in.GeneratorFuelLiters, in.GeneratorFuelType),
		Refrigerant: RefrigerantEmissions(t, in.RefrigerantKg, in.RefrigerantType),
		Vehicles:    VehicleEmissions(t, in.VehicleFuelVolume, in.VehicleFuelType),
	}
}

// Scope2 computes purchased-electricity emissions with the grid factor.
func Scope2(t *factor.Table, electricityKWh float64) float64 {
	return electricityKWh * t.GridFactor()
}
