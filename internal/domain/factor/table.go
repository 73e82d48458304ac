// Package factor holds the emission factors used to turn activity quantities
// into kg CO2e. A Table is built once at start-up and never modified.
package factor

import (
	"fmt"
	"sort"
	"strings"

	"github.com/diillson/carbon-footprint-go/internal/domain/entity"
	"github.com/diillson/carbon-footprint-go/internal/shared/types"
)

// Chaves de categoria usadas pelos calculadores.
const (
	KeyElectricity      = "electricity"
	KeyDiesel           = "diesel"
	KeyPetrol           = "petrol"
	KeyCNG              = "cng"
	KeyElectronicsSpend = "electronics_spend"
	KeyCloudSpend       = "cloud_spend"
	KeyFlightEconomy    = "flight_economy"
	KeyFlightBusiness   = "flight_business"

	CommutePrefix = "commute_"
)

// DefaultGridFactor is kg CO2e per kWh for the configured national grid.
const DefaultGridFactor = 0.62

func defaultFactors() map[string]float64 {
	return map[string]float64{
		KeyElectricity:         DefaultGridFactor,
		KeyDiesel:              3.12,
		KeyPetrol:              2.66,
		KeyCNG:                 1.95,
		KeyElectronicsSpend:    0.25,
		KeyCloudSpend:          0.20,
		KeyFlightEconomy:       0.15,
		KeyFlightBusiness:      0.45,
		"commute_bus":          0.08,
		"commute_car":          0.17,
		"commute_cng_rickshaw": 0.10,
		"commute_rickshaw":     0.0,
	}
}

func defaultRefrigerants() map[string]float64 {
	return map[string]float64{
		"R-410A": 2088,
		"R-22":   1810,
	}
}

// Table is an immutable set of emission factors. Keys are stored lower-case
// for factors and upper-case for refrigerants; lookups are case-insensitive.
type Table struct {
	factors      map[string]float64
	refrigerants map[string]float64
}

// Option customizes a Table while it is being built.
type Option func(*Table)

// WithGridFactor overrides the electricity factor (kg CO2e per kWh).
func WithGridFactor(v float64) Option {
	return func(t *Table) {
		t.factors[KeyElectricity] = v
	}
}

// WithFactor adiciona ou substitui um fator de categoria.
func WithFactor(key string, v float64) Option {
	return func(t *Table) {
		t.factors[strings.ToLower(strings.TrimSpace(key))] = v
	}
}

// WithRefrigerantGWP adiciona ou substitui o GWP de um refrigerante.
func WithRefrigerantGWP(name string, v float64) Option {
	return func(t *Table) {
		t.refrigerants[strings.ToUpper(strings.TrimSpace(name))] = v
	}
}

// NewTable cria a tabela padrão aplicando as opções informadas.
func NewTable(opts ...Option) *Table {
	t := &Table{
		factors:      make(map[string]float64),
		refrigerants: make(map[string]float64),
	}
	for k, v := range defaultFactors() {
		t.factors[k] = v
	}
	for k, v := range defaultRefrigerants() {
		t.refrigerants[strings.ToUpper(k)] = v
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Lookup returns the factor for category, or 0 when the category is unknown.
func (t *Table) Lookup(category string) float64 {
	v, _ := t.Find(category)
	return v
}

// Find is Lookup with an explicit "known" flag, for diagnostics.
func (t *Table) Find(category string) (float64, bool) {
	v, ok := t.factors[strings.ToLower(strings.TrimSpace(category))]
	return v, ok
}

// RefrigerantGWP returns the global warming potential of the named
// refrigerant, or 0 when it is unknown.
func (t *Table) RefrigerantGWP(name string) float64 {
	v, _ := t.FindRefrigerant(name)
	return v
}

// FindRefrigerant is RefrigerantGWP with an explicit "known" flag.
func (t *Table) FindRefrigerant(name string) (float64, bool) {
	v, ok := t.refrigerants[strings.ToUpper(strings.TrimSpace(name))]
	return v, ok
}

// GridFactor is the electricity factor in kg CO2e per kWh.
func (t *Table) GridFactor() float64 {
	return t.factors[KeyElectricity]
}

// FuelFactor resolves a fuel name. CNG is matched in any case.
func (t *Table) FuelFactor(fuel string) float64 {
	if strings.EqualFold(strings.TrimSpace(fuel), KeyCNG) {
		return t.factors[KeyCNG]
	}
	return t.Lookup(fuel)
}

// CommuteFactor returns the per passenger-km factor of a commute mode.
func (t *Table) CommuteFactor(mode string) float64 {
	return t.Lookup(CommutePrefix + strings.ToLower(strings.TrimSpace(mode)))
}

// FlightFactor returns the per passenger-km factor of a cabin class. Unlike
// the other lookups an unknown class is an error.
func (t *Table) FlightFactor(class entity.CabinClass) (float64, error) {
	if !class.Valid() {
		return 0, fmt.Errorf("%w: %q", types.ErrUnknownCabinClass, class)
	}
	if class == entity.CabinBusiness {
		return t.factors[KeyFlightBusiness], nil
	}
	return t.factors[KeyFlightEconomy], nil
}

// Keys lists every factor key, sorted.
func (t *Table) Keys() []string {
	keys := make([]string, 0, len(t.factors))
	for k := range t.factors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Refrigerants lists every refrigerant name, sorted.
func (t *Table) Refrigerants() []string {
	names := make([]string, 0, len(t.refrigerants))
	for k := range t.refrigerants {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Snapshot copies the table into plain maps, e.g. for JSON output.
func (t *Table) Snapshot() (factors map[string]float64, refrigerants map[string]float64) {
	factors = make(map[string]float64, len(t.factors))
	for k, v := range t.factors {
		factors[k] = v
	}
	refrigerants = make(map[string]float64, len(t.refrigerants))
	for k, v := range t.refrigerants {
		refrigerants[k] = v
	}
	return factors, refrigerants
}
