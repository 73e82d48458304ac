package console

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/diillson/carbon-footprint-go/internal/shared/types"
	"github.com/pterm/pterm"
)

// Console é uma implementação do ConsoleInterface.
type Console struct{}

// NewConsole cria um novo Console.
func NewConsole() *Console {
	return &Console{}
}

// Print imprime no console.
func (c *Console) Print(a ...interface{}) {
	fmt.Print(a...)
}

// Printf imprime uma string formatada no console.
func (c *Console) Printf(format string, a ...interface{}) {
	fmt.Printf(format, a...)
}

// Println imprime no console com uma nova linha.
func (c *Console) Println(a ...interface{}) {
	fmt.Println(a...)
}

// LogInfo registra uma mensagem de informação.
func (c *Console) LogInfo(format string, a ...interface{}) {
	pterm.Info.Printfln(format, a...)
}

// LogWarning registra uma mensagem de aviso.
func (c *Console) LogWarning(format string, a ...interface{}) {
	pterm.Warning.Printfln(format, a...)
}

// LogError registra uma mensagem de erro.
func (c *Console) LogError(format string, a ...interface{}) {
	pterm.Error.Printfln(format, a...)
}

// LogSuccess registra uma mensagem de sucesso.
func (c *Console) LogSuccess(format string, a ...interface{}) {
	pterm.Success.Printfln(format, a...)
}

// statusHandle é uma implementação do StatusHandle.
type statusHandle struct {
	spinner *pterm.SpinnerPrinter
}

// Status cria um spinner de status com a mensagem especificada.
func (c *Console) Status(message string) types.StatusHandle {
	spinner, _ := pterm.DefaultSpinner.Start(message)
	return &statusHandle{spinner: spinner}
}

// Update atualiza a mensagem de status.
func (h *statusHandle) Update(message string) {
	if h.spinner != nil {
		h.spinner.UpdateText(message)
	}
}

// Stop pára o spinner de status.
func (h *statusHandle) Stop() {
	if h.spinner != nil {
		h.spinner.Stop()
	}
}

// Table é uma implementação do TableInterface.
type Table struct {
	columns []string
	rows    [][]string
}

// CreateTable cria uma nova tabela.
func (c *Console) CreateTable() types.TableInterface {
	return &Table{
		columns: []string{},
		rows:    [][]string{},
	}
}

// AddColumn adiciona uma coluna à tabela.
func (t *Table) AddColumn(name string, options ...interface{}) {
	t.columns = append(t.columns, name)
}

// AddRow adiciona uma linha à tabela.
func (t *Table) AddRow(cells ...interface{}) {
	processedCells := make([]string, len(cells))
	for i, cell := range cells {
		processedCells[i] = fmt.Sprint(cell)
	}
	t.rows = append(t.rows, processedCells)
}

// Render renderiza a tabela como uma string.
func (t *Table) Render() string {
	tableData := pterm.TableData{t.columns}
	for _, row := range t.rows {
		tableData = append(tableData, row)
	}

	table := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan)).
		WithData(tableData)

	renderedTable, _ := table.Srender()
	return renderedTable
}

// Cores das barras conforme a participação do escopo no total.
var (
	majorShare = color.New(color.FgRed, color.Bold).SprintFunc()
	largeShare = color.New(color.FgYellow, color.Bold).SprintFunc()
	minorShare = color.New(color.FgGreen, color.Bold).SprintFunc()
)

func shareColor(share float64) func(a ...interface{}) string {
	switch {
	case share >= 50:
		return majorShare
	case share >= 25:
		return largeShare
	default:
		return minorShare
	}
}

// DisplayScopeBars exibe a participação de cada escopo no total em barras.
func (c *Console) DisplayScopeBars(scopes []types.ScopeShare) {
	fmt.Println("\n" + RenderScopeBars(scopes))
}

// RenderScopeBars monta o painel de barras sem imprimi-lo.
func RenderScopeBars(scopes []types.ScopeShare) string {
	maxEmissions, total := 0.0, 0.0
	for _, s := range scopes {
		total += s.Emissions
		if s.Emissions > maxEmissions {
			maxEmissions = s.Emissions
		}
	}

	if maxEmissions <= 0 {
		return pterm.Warning.Sprint("No emissions to chart")
	}

	tableData := pterm.TableData{
		{"Scope", "kg CO2e", "", "Share"},
	}

	for _, s := range scopes {
		barLength := int((s.Emissions / maxEmissions) * 40)
		if barLength < 0 {
			barLength = 0
		}
		bar := strings.Repeat("█", barLength)
		share := s.Emissions / total * 100

		tableData = append(tableData, []string{
			s.Scope,
			fmt.Sprintf("%.2f", s.Emissions),
			shareColor(share)(bar),
			fmt.Sprintf("%.1f%%", share),
		})
	}

	table := pterm.DefaultTable.WithHasHeader().WithData(tableData)
	renderedTable, _ := table.Srender()

	return pterm.DefaultBox.WithTitle("Emissions by Scope").WithBoxStyle(pterm.NewStyle(pterm.FgGreen)).Sprint(renderedTable)
}
