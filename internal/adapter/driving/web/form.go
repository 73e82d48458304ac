package web

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/diillson/carbon-footprint-go/internal/domain/entity"
	"github.com/diillson/carbon-footprint-go/internal/shared/types"
	"github.com/mitchellh/mapstructure"
)

// maxFlights limita num_flights para manter o custo da requisição previsível.
const maxFlights = 500

// ActivityForm is the flat form posted to /calculate. Missing numeric fields
// decode as 0.
type ActivityForm struct {
	Headcount            float64 `form:"headcount"`
	ElectricityKWh       float64 `form:"electricity_kwh"`
	GeneratorFuelLiters  float64 `form:"generator_fuel_liters"`
	GeneratorFuelType    string  `form:"generator_fuel_type"`
	RefrigerantKg        float64 `form:"refrigerant_kg"`
	RefrigerantType      string  `form:"refrigerant_type"`
	OwnsVehicles         string  `form:"owns_vehicles"`
	VehicleFuelVolume    float64 `form:"vehicle_fuel_volume"`
	VehicleFuelType      string  `form:"vehicle_fuel_type"`
	ElectronicsSpend     float64 `form:"electronics_spend_usd"`
	CloudSpend           float64 `form:"cloud_spend_usd"`
	NumFlights           int     `form:"num_flights"`
	CommuteBus           float64 `form:"commute_bus"`
	CommuteCNGRickshaw   float64 `form:"commute_cng_rickshaw"`
	CommuteRickshaw      float64 `form:"commute_rickshaw"`
	CommuteCar           float64 `form:"commute_car"`
	AvgCommuteDistanceKm float64 `form:"avg_commute_distance_km"`
	TotalWFHDays         float64 `form:"total_wfh_days"`

	Flights []entity.Flight `form:"-"`
}

// DecodeActivityForm reads the calculator form. Malformed or non-finite
// numbers are reported as ErrInvalidFormValue.
func DecodeActivityForm(r *http.Request) (ActivityForm, error) {
	if err := r.ParseForm(); err != nil {
		return ActivityForm{}, fmt.Errorf("%w: %v", types.ErrInvalidFormValue, err)
	}

	values := make(map[string]interface{}, len(r.PostForm))
	for key, v := range r.PostForm {
		if len(v) > 0 {
			values[key] = strings.TrimSpace(v[0])
		}
	}

	var form ActivityForm
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "form",
		WeaklyTypedInput: true,
		Result:           &form,
	})
	if err != nil {
		return ActivityForm{}, err
	}
	if err := decoder.Decode(values); err != nil {
		return ActivityForm{}, fmt.Errorf("%w: %v", types.ErrInvalidFormValue, err)
	}

	for field, v := range form.numbers() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ActivityForm{}, fmt.Errorf("%w: %s must be a finite number", types.ErrInvalidFormValue, field)
		}
	}

	if form.NumFlights > maxFlights {
		return ActivityForm{}, fmt.Errorf("%w: num_flights must be at most %d", types.ErrInvalidFormValue, maxFlights)
	}
	for i := 0; i < form.NumFlights; i++ {
		field := fmt.Sprintf("flight_dist_%d", i)
		dist, err := parseNumber(field, r.PostFormValue(field))
		if err != nil {
			return ActivityForm{}, err
		}
		// Trechos sem distância são ignorados antes de validar a classe.
		if dist <= 0 {
			continue
		}
		form.Flights = append(form.Flights, entity.Flight{
			DistanceKm: dist,
			Class:      entity.CabinClass(strings.TrimSpace(r.PostFormValue(fmt.Sprintf("flight_class_%d", i)))),
		})
	}

	return form, nil
}

func (f ActivityForm) numbers() map[string]float64 {
	return map[string]float64{
		"headcount":               f.Headcount,
		"electricity_kwh":         f.ElectricityKWh,
		"generator_fuel_liters":   f.GeneratorFuelLiters,
		"refrigerant_kg":          f.RefrigerantKg,
		"vehicle_fuel_volume":     f.VehicleFuelVolume,
		"electronics_spend_usd":   f.ElectronicsSpend,
		"cloud_spend_usd":         f.CloudSpend,
		"commute_bus":             f.CommuteBus,
		"commute_cng_rickshaw":    f.CommuteCNGRickshaw,
		"commute_rickshaw":        f.CommuteRickshaw,
		"commute_car":             f.CommuteCar,
		"avg_commute_distance_km": f.AvgCommuteDistanceKm,
		"total_wfh_days":          f.TotalWFHDays,
	}
}

// Input converts the form into an ActivityInput. Defaults are applied later
// by ActivityInput.Normalize.
func (f ActivityForm) Input() entity.ActivityInput {
	return entity.ActivityInput{
		Headcount:           f.Headcount,
		ElectricityKWh:      f.ElectricityKWh,
		GeneratorFuelLiters: f.GeneratorFuelLiters,
		GeneratorFuelType:   f.GeneratorFuelType,
		RefrigerantKg:       f.RefrigerantKg,
		RefrigerantType:     f.RefrigerantType,
		OwnsVehicles:        f.OwnsVehicles == "yes",
		VehicleFuelVolume:   f.VehicleFuelVolume,
		VehicleFuelType:     f.VehicleFuelType,
		ElectronicsSpend:    f.ElectronicsSpend,
		CloudSpend:          f.CloudSpend,
		Flights:             append([]entity.Flight(nil), f.Flights...),
		CommuteModes: entity.CommuteMix{
			{Mode: "bus", Percent: f.CommuteBus},
			{Mode: "cng_rickshaw", Percent: f.CommuteCNGRickshaw},
			{Mode: "rickshaw", Percent: f.CommuteRickshaw},
			{Mode: "car", Percent: f.CommuteCar},
		},
		AvgCommuteDistanceKm: f.AvgCommuteDistanceKm,
		TotalWFHDays:         f.TotalWFHDays,
	}
}

// parseNumber segue a regra do formulário: vazio vira 0.
func parseNumber(field, raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s=%q is not a number", types.ErrInvalidFormValue, field, raw)
	}
	return v, nil
}
