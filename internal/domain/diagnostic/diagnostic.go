// Package diagnostic reports inputs that the calculators silently treated as
// zero, so a user can spot a typo without the calculation failing.
package diagnostic

import (
	"fmt"
	"sort"
	"strings"

	"github.com/diillson/carbon-footprint-go/internal/domain/entity"
	"github.com/diillson/carbon-footprint-go/internal/domain/factor"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Warning describes one input that contributed nothing to the total.
type Warning struct {
	Field      string `json:"field"`
	Value      string `json:"value"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// String formata o aviso para o console.
func (w Warning) String() string {
	if w.Suggestion != "" {
		return fmt.Sprintf("%s: %s (did you mean %q?)", w.Field, w.Message, w.Suggestion)
	}
	return fmt.Sprintf("%s: %s", w.Field, w.Message)
}

var fuelKeys = []string{factor.KeyDiesel, factor.KeyPetrol, factor.KeyCNG}

// Check inspects a normalized input against the factor table. Warnings are
// only raised when a non-zero quantity meets an unknown category.
func Check(t *factor.Table, in entity.ActivityInput) []Warning {
	var warnings []Warning

	if in.GeneratorFuelLiters > 0 {
		if _, ok := t.Find(in.GeneratorFuelType); !ok {
			warnings = append(warnings, unknown("generator_fuel_type", in.GeneratorFuelType, "unknown fuel type, counted as 0", fuelCandidates(t)))
		}
	}

	if in.RefrigerantKg > 0 {
		if _, ok := t.FindRefrigerant(in.RefrigerantType); !ok {
			warnings = append(warnings, unknown("refrigerant_type", in.RefrigerantType, "unknown refrigerant, counted as 0", t.Refrigerants()))
		}
	}

	if in.VehicleFuelVolume > 0 && !strings.EqualFold(in.VehicleFuelType, factor.KeyCNG) {
		if _, ok := t.Find(in.VehicleFuelType); !ok {
			warnings = append(warnings, unknown("vehicle_fuel_type", in.VehicleFuelType, "unknown fuel type, counted as 0", fuelCandidates(t)))
		}
	}

	modes := commuteModes(t)
	for _, share := range in.CommuteModes {
		if share.Percent <= 0 {
			continue
		}
		if _, ok := t.Find(factor.CommutePrefix + strings.ToLower(share.Mode)); !ok {
			warnings = append(warnings, unknown("commute_"+share.Mode, share.Mode, "unknown commute mode, counted as 0", modes))
		}
	}

	if total := in.CommuteModes.TotalPercent(); total > 100 {
		warnings = append(warnings, Warning{
			Field:   "commute_modes",
			Value:   fmt.Sprintf("%.1f", total),
			Message: fmt.Sprintf("commute shares add up to %.1f%%, more than the whole workforce", total),
		})
	}

	if in.Headcount > 0 && in.Workdays > 0 && in.TotalWFHDays > in.Headcount*in.Workdays {
		warnings = append(warnings, Warning{
			Field:   "total_wfh_days",
			Value:   fmt.Sprintf("%g", in.TotalWFHDays),
			Message: "more work-from-home days than workdays, commuting counted as 0",
		})
	}

	return warnings
}

func unknown(field, value, message string, candidates []string) Warning {
	return Warning{
		Field:      field,
		Value:      value,
		Message:    message,
		Suggestion: Suggest(value, candidates),
	}
}

// Suggest returns the closest candidate to value, or "" when nothing is close.
func Suggest(value string, candidates []string) string {
	value = strings.TrimSpace(value)
	if value == "" || len(candidates) == 0 {
		return ""
	}

	ranks := fuzzy.RankFindNormalizedFold(value, candidates)
	if len(ranks) == 0 {
		// o valor digitado pode ser maior que o candidato ("dieseel")
		for _, c := range candidates {
			if fuzzy.MatchNormalizedFold(c, value) {
				ranks = append(ranks, fuzzy.Rank{Source: value, Target: c, Distance: len(value) - len(c)})
			}
		}
	}
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	return ranks[0].Target
}

func fuelCandidates(t *factor.Table) []string {
	var out []string
	for _, k := range fuelKeys {
		if _, ok := t.Find(k); ok {
			out = append(out, k)
		}
	}
	return out
}

func commuteModes(t *factor.Table) []string {
	var out []string
	for _, k := range t.Keys() {
		if strings.HasPrefix(k, factor.CommutePrefix) {
			out = append(out, strings.TrimPrefix(k, factor.CommutePrefix))
		}
	}
	return out
}
