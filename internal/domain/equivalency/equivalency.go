// Package equivalency expresses a footprint in everyday terms (miles driven,
// smartphones charged, tree seedlings) using EPA conversion factors.
package equivalency

import (
	"fmt"
	"math"
)

// EPA Greenhouse Gas Equivalencies Calculator, 2024 edition.
// equivalency = kg_CO2e / factor
const (
	MilesDrivenFactor      = 0.192
	SmartphoneChargeFactor = 0.00822
	TreeSeedlingFactor     = 60.0

	// Below this the equivalencies are too small to be meaningful.
	MinThresholdKg = 1.0

	millionThreshold = 1_000_000
	billionThreshold = 1_000_000_000
)

// Result is one converted figure.
type Result struct {
	Label          string  `json:"label"`
	Value          float64 `json:"value"`
	FormattedValue string  `json:"formatted_value"`
}

// Output holds every equivalency for a footprint.
type Output struct {
	InputKg     float64  `json:"input_kg"`
	Results     []Result `json:"results"`
	DisplayText string   `json:"display_text"`
	IsEmpty     bool     `json:"is_empty"`
}

// Calculate converts kg CO2e into equivalencies. Negative, non-finite or
// tiny values yield an empty output.
func Calculate(kg float64) Output {
	if math.IsNaN(kg) || math.IsInf(kg, 0) || kg < MinThresholdKg {
		return Output{InputKg: kg, IsEmpty: true}
	}

	miles := kg / MilesDrivenFactor
	phones := kg / SmartphoneChargeFactor
	trees := kg / TreeSeedlingFactor

	results := []Result{
		{Label: "miles driven", Value: miles, FormattedValue: FormatLarge(miles)},
		{Label: "smartphones charged", Value: phones, FormattedValue: FormatLarge(phones)},
		{Label: "tree seedlings grown for 10 years", Value: trees, FormattedValue: FormatLarge(trees)},
	}

	display := fmt.Sprintf("Equivalent to driving ~%s miles or charging ~%s smartphones",
		results[0].FormattedValue, results[1].FormattedValue)

	return Output{
		InputKg:     kg,
		Results:     results,
		DisplayText: display,
	}
}

// FormatLarge abrevia valores grandes ("~1.5 million") e usa separador de
// milhar abaixo de um milhão.
func FormatLarge(n float64) string {
	switch {
	case n >= billionThreshold:
		return fmt.Sprintf("~%.1f billion", n/billionThreshold)
	case n >= millionThreshold:
		return fmt.Sprintf("~%.1f million", n/millionThreshold)
	default:
		return FormatNumber(int64(math.Round(n)))
	}
}
