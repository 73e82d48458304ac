package console

import (
	"strings"
	"testing"

	"github.com/diillson/carbon-footprint-go/internal/shared/types"
	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
)

func TestTableRender(t *testing.T) {
	pterm.DisableColor()
	defer pterm.EnableColor()

	table := NewConsole().CreateTable()
	table.AddColumn("Scope")
	table.AddColumn("kg CO2e")
	table.AddRow("Scope 2", 620.0)

	out := table.Render()
	assert.Contains(t, out, "Scope 2")
	assert.Contains(t, out, "620")
}

func TestRenderScopeBars(t *testing.T) {
	pterm.DisableColor()
	defer pterm.EnableColor()

	out := RenderScopeBars([]types.ScopeShare{
		{Scope: "Scope 1", Emissions: 4488},
		{Scope: "Scope 2", Emissions: 620},
		{Scope: "Scope 3", Emissions: 0},
	})

	assert.Contains(t, out, "Emissions by Scope")
	assert.Contains(t, out, "4488.00")
	assert.Contains(t, out, "87.9%")
}

func TestRenderScopeBarsWithoutEmissions(t *testing.T) {
	pterm.DisableColor()
	defer pterm.EnableColor()

	out := RenderScopeBars([]types.ScopeShare{{Scope: "Scope 1"}})
	assert.Contains(t, out, "No emissions to chart")
}

func TestRenderScopeBarsLengths(t *testing.T) {
	pterm.DisableColor()
	defer pterm.EnableColor()
	noColor := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = noColor }()

	out := RenderScopeBars([]types.ScopeShare{
		{Scope: "Scope 1", Emissions: 100},
		{Scope: "Scope 2", Emissions: 50},
	})

	assert.Contains(t, out, strings.Repeat("█", 40))
	assert.NotContains(t, out, strings.Repeat("█", 41))
	assert.Contains(t, out, "66.7%")
}

func TestShareColor(t *testing.T) {
	noColor := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = noColor }()

	for _, share := range []float64{0, 30, 75} {
		assert.Equal(t, "██", shareColor(share)("██"))
	}
}
