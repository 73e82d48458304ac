package entity

import (
	"fmt"
	"strings"

	"github.com/diillson/carbon-footprint-go/internal/shared/types"
)

// Valores padrão aplicados quando o formulário omite um campo textual.
const (
	DefaultFuelType        = "diesel"
	DefaultRefrigerantType = "R-410A"
	DefaultWorkdays        = 250.0
)

// CabinClass is the cabin a business flight was booked in.
type CabinClass string

const (
	CabinEconomy  CabinClass = "economy"
	CabinBusiness CabinClass = "business"
)

// ParseCabinClass normaliza a classe informada. Uma string vazia vira economy.
func ParseCabinClass(s string) (CabinClass, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(CabinEconomy):
		return CabinEconomy, nil
	case string(CabinBusiness):
		return CabinBusiness, nil
	default:
		return "", fmt.Errorf("%w: %q", types.ErrUnknownCabinClass, s)
	}
}

// Valid reports whether c is one of the known cabin classes.
func (c CabinClass) Valid() bool {
	return c == CabinEconomy || c == CabinBusiness
}

// Flight is a single business flight row.
type Flight struct {
	DistanceKm float64    `json:"distance_km" yaml:"distance_km" toml:"distance_km"`
	Class      CabinClass `json:"class" yaml:"class" toml:"class"`
}

// CommuteShare is the share of the workforce using one commute mode.
type CommuteShare struct {
	Mode    string  `json:"mode" yaml:"mode" toml:"mode"`
	Percent float64 `json:"percent" yaml:"percent" toml:"percent"`
}

// CommuteMix keeps the order the modes were submitted in. Percentages are not
// required to add up to 100.
type CommuteMix []CommuteShare

// TotalPercent soma os percentuais de todos os modos.
func (m CommuteMix) TotalPercent() float64 {
	total := 0.0
	for _, s := range m {
		total += s.Percent
	}
	return total
}

// DefaultCommuteModes lists the modes offered by the web form, in form order.
var DefaultCommuteModes = []string{"bus", "cng_rickshaw", "rickshaw", "car"}

// ActivityInput holds every quantity submitted for one calculation.
type ActivityInput struct {
	Headcount float64 `json:"headcount" yaml:"headcount" toml:"headcount"`

	ElectricityKWh float64 `json:"electricity_kwh" yaml:"electricity_kwh" toml:"electricity_kwh"`

	GeneratorFuelLiters float64 `json:"generator_fuel_liters" yaml:"generator_fuel_liters" toml:"generator_fuel_liters"`
	GeneratorFuelType   string  `json:"generator_fuel_type" yaml:"generator_fuel_type" toml:"generator_fuel_type"`

	RefrigerantKg   float64 `json:"refrigerant_kg" yaml:"refrigerant_kg" toml:"refrigerant_kg"`
	RefrigerantType string  `json:"refrigerant_type" yaml:"refrigerant_type" toml:"refrigerant_type"`

	OwnsVehicles      bool    `json:"owns_vehicles" yaml:"owns_vehicles" toml:"owns_vehicles"`
	VehicleFuelVolume float64 `json:"vehicle_fuel_volume" yaml:"vehicle_fuel_volume" toml:"vehicle_fuel_volume"`
	VehicleFuelType   string  `json:"vehicle_fuel_type" yaml:"vehicle_fuel_type" toml:"vehicle_fuel_type"`

	ElectronicsSpend float64 `json:"electronics_spend_usd" yaml:"electronics_spend_usd" toml:"electronics_spend_usd"`
	CloudSpend       float64 `json:"cloud_spend_usd" yaml:"cloud_spend_usd" toml:"cloud_spend_usd"`

	Flights []Flight `json:"flights" yaml:"flights" toml:"flights"`

	CommuteModes         CommuteMix `json:"commute_modes" yaml:"commute_modes" toml:"commute_modes"`
	AvgCommuteDistanceKm float64    `json:"avg_commute_distance_km" yaml:"avg_commute_distance_km" toml:"avg_commute_distance_km"`
	TotalWFHDays         float64    `json:"total_wfh_days" yaml:"total_wfh_days" toml:"total_wfh_days"`
	Workdays             float64    `json:"workdays,omitempty" yaml:"workdays,omitempty" toml:"workdays,omitempty"`
}

// Normalize returns a copy with textual defaults applied, the workday constant
// filled in and the vehicle fields cleared when the organization owns no
// vehicles. Flight classes are validated here so calculators never see an
// unknown class.
func (in ActivityInput) Normalize() (ActivityInput, error) {
	out := in
	if out.GeneratorFuelType == "" {
		out.GeneratorFuelType = DefaultFuelType
	}
	if out.RefrigerantType == "" {
		out.RefrigerantType = DefaultRefrigerantType
	}
	if out.Workdays == 0 {
		out.Workdays = DefaultWorkdays
	}

	if !out.OwnsVehicles {
		out.VehicleFuelVolume = 0
		out.VehicleFuelType = ""
	} else if out.VehicleFuelType == "" {
		out.VehicleFuelType = DefaultFuelType
	}

	flights := make([]Flight, 0, len(in.Flights))
	for i, f := range in.Flights {
		if f.DistanceKm <= 0 {
			continue
		}
		class, err := ParseCabinClass(string(f.Class))
		if err != nil {
			return ActivityInput{}, fmt.Errorf("flight %d: %w", i, err)
		}
		flights = append(flights, Flight{DistanceKm: f.DistanceKm, Class: class})
	}
	out.Flights = flights

	out.CommuteModes = append(CommuteMix(nil), in.CommuteModes...)
	return out, nil
}
