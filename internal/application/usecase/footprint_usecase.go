package usecase

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/diillson/carbon-footprint-go/internal/domain/calculator"
	"github.com/diillson/carbon-footprint-go/internal/domain/diagnostic"
	"github.com/diillson/carbon-footprint-go/internal/domain/entity"
	"github.com/diillson/carbon-footprint-go/internal/domain/equivalency"
	"github.com/diillson/carbon-footprint-go/internal/domain/factor"
	"github.com/diillson/carbon-footprint-go/internal/domain/repository"
	"github.com/diillson/carbon-footprint-go/internal/shared/types"
	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"
)

// Formatos de exportação suportados.
const (
	FormatCSV  = "csv"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// DefaultOrganizationName é usado quando nenhum nome foi informado.
const DefaultOrganizationName = "Company"

// CalculationResult is what a calculation hands back to the CLI and the web
// boundary.
type CalculationResult struct {
	Document    entity.ReportDocument   `json:"document"`
	Scope1      calculator.Scope1Result `json:"scope1_breakdown"`
	Scope3      calculator.Scope3Result `json:"scope3_breakdown"`
	Warnings    []diagnostic.Warning    `json:"warnings"`
	Equivalency equivalency.Output      `json:"equivalency"`
}

// ExportedFile is one file written by ExportDocument.
type ExportedFile struct {
	Format string
	Path   string
}

// FootprintUseCase handles calculations and exports.
type FootprintUseCase struct {
	table      *factor.Table
	exportRepo repository.ExportRepository
	configRepo repository.ConfigRepository
	cloudRepo  repository.CloudSpendRepository
	console    types.ConsoleInterface

	defaultWorkdays float64
	now             func() time.Time
}

// Option configura o FootprintUseCase.
type Option func(*FootprintUseCase)

// WithDefaultWorkdays sets the working days used when an input omits them.
func WithDefaultWorkdays(days float64) Option {
	return func(uc *FootprintUseCase) {
		if days > 0 {
			uc.defaultWorkdays = days
		}
	}
}

// WithClock substitui o relógio usado na data dos relatórios.
func WithClock(now func() time.Time) Option {
	return func(uc *FootprintUseCase) {
		uc.now = now
	}
}

// NewFootprintUseCase creates a new footprint use case.
func NewFootprintUseCase(
	table *factor.Table,
	exportRepo repository.ExportRepository,
	configRepo repository.ConfigRepository,
	cloudRepo repository.CloudSpendRepository,
	console types.ConsoleInterface,
	opts ...Option,
) *FootprintUseCase {
	uc := &FootprintUseCase{
		table:           table,
		exportRepo:      exportRepo,
		configRepo:      configRepo,
		cloudRepo:       cloudRepo,
		console:         console,
		defaultWorkdays: entity.DefaultWorkdays,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Table returns the factor table the use case calculates with.
func (uc *FootprintUseCase) Table() *factor.Table {
	return uc.table
}

// Calculate normaliza a entrada, executa os três escopos e monta o documento.
func (uc *FootprintUseCase) Calculate(in entity.ActivityInput, organization string) (CalculationResult, error) {
	if in.Workdays == 0 {
		in.Workdays = uc.defaultWorkdays
	}
	normalized, err := in.Normalize()
	if err != nil {
		return CalculationResult{}, err
	}

	assessment, err := calculator.Assess(uc.table, normalized)
	if err != nil {
		return CalculationResult{}, err
	}

	doc := entity.ReportDocument{
		ID:               ulid.Make().String(),
		OrganizationName: organizationOrDefault(organization),
		GeneratedAt:      uc.now(),
		Report:           assessment.Report,
		Totals:           assessment.Totals,
	}

	return CalculationResult{
		Document:    doc,
		Scope1:      assessment.Scope1,
		Scope3:      assessment.Scope3,
		Warnings:    diagnostic.Check(uc.table, normalized),
		Equivalency: equivalency.Calculate(assessment.Totals.Total),
	}, nil
}

// BuildDocument wraps a report posted back by a client. Scope totals and the
// grand total are recomputed from the report; only the per-employee figure,
// which needs the headcount, is taken from the posted totals.
func (uc *FootprintUseCase) BuildDocument(report entity.Report, organization string, posted entity.ScopeTotals) entity.ReportDocument {
	totals := entity.ScopeTotals{
		Total:       report.Total(),
		PerEmployee: posted.PerEmployee,
	}
	if s, ok := report.Section(entity.SectionScope1); ok {
		totals.Scope1 = s.Total()
	}
	if s, ok := report.Section(entity.SectionScope2); ok {
		totals.Scope2 = s.Total()
	}
	if s, ok := report.Section(entity.SectionScope3); ok {
		totals.Scope3 = s.Total()
	}

	return entity.ReportDocument{
		ID:               ulid.Make().String(),
		OrganizationName: organizationOrDefault(organization),
		GeneratedAt:      uc.now(),
		Report:           report,
		Totals:           totals,
	}
}

// WriteDocument renders doc in one format into w.
func (uc *FootprintUseCase) WriteDocument(w io.Writer, doc entity.ReportDocument, format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatCSV:
		return uc.exportRepo.WriteCSV(w, doc)
	case FormatPDF:
		return uc.exportRepo.WritePDF(w, doc)
	case FormatJSON:
		return uc.exportRepo.WriteJSON(w, doc)
	default:
		return fmt.Errorf("%w: %q", types.ErrUnsupportedFormat, format)
	}
}

// ExportDocument writes doc into outputDir once per format. Formats are
// rendered concurrently; the result keeps the requested order.
func (uc *FootprintUseCase) ExportDocument(ctx context.Context, doc entity.ReportDocument, formats []string, outputDir string) ([]ExportedFile, error) {
	normalized, err := normalizeFormats(formats)
	if err != nil {
		return nil, err
	}

	files := make([]ExportedFile, len(normalized))
	g, gctx := errgroup.WithContext(ctx)
	for i, format := range normalized {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			var path string
			var err error
			switch format {
			case FormatCSV:
				path, err = uc.exportRepo.ExportToCSV(doc, outputDir)
			case FormatPDF:
				path, err = uc.exportRepo.ExportToPDF(doc, outputDir)
			case FormatJSON:
				path, err = uc.exportRepo.ExportToJSON(doc, outputDir)
			}
			if err != nil {
				return fmt.Errorf("error exporting %s: %w", strings.ToUpper(format), err)
			}
			files[i] = ExportedFile{Format: format, Path: path}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

func normalizeFormats(formats []string) ([]string, error) {
	seen := make(map[string]bool, len(formats))
	out := make([]string, 0, len(formats))
	for _, f := range formats {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		switch f {
		case FormatCSV, FormatPDF, FormatJSON:
		default:
			return nil, fmt.Errorf("%w: %q", types.ErrUnsupportedFormat, f)
		}
		seen[f] = true
		out = append(out, f)
	}
	return out, nil
}

// RunCalculate executa o comando calculate: carrega o arquivo de atividades,
// importa o gasto em nuvem se pedido, exibe o relatório e exporta.
func (uc *FootprintUseCase) RunCalculate(ctx context.Context, args *types.CLIArgs) error {
	if args.InputFile == "" {
		return fmt.Errorf("an activity file is required (--input)")
	}

	in, err := uc.configRepo.LoadActivityFile(args.InputFile)
	if err != nil {
		return err
	}
	uc.console.LogInfo("Loaded activity data from %s", args.InputFile)

	if args.AWSCloudSpend {
		spend, err := uc.importCloudSpend(ctx, args)
		if err != nil {
			return err
		}
		period := strings.ToLower(spend.PeriodName)
		if in.CloudSpend > 0 {
			uc.console.LogWarning("Replacing cloud_spend_usd %.2f from the activity file with AWS spend %.2f (%s)", in.CloudSpend, spend.Total, period)
		}
		uc.console.LogWarning("AWS spend covers the %s only; the other activity quantities are read as annual", period)
		in.CloudSpend = spend.Total
	}

	result, err := uc.Calculate(*in, args.OrganizationName)
	if err != nil {
		return err
	}

	uc.DisplayResult(result)

	if len(args.ReportType) == 0 {
		return nil
	}
	return uc.exportAndReport(ctx, result.Document, args)
}

// RunExport renderiza exportações a partir de um documento JSON salvo.
func (uc *FootprintUseCase) RunExport(ctx context.Context, args *types.CLIArgs) error {
	if args.ReportFile == "" {
		return fmt.Errorf("a report file is required (--report)")
	}
	if len(args.ReportType) == 0 {
		return fmt.Errorf("at least one report type is required (--report-type)")
	}

	doc, err := uc.configRepo.LoadReportFile(args.ReportFile)
	if err != nil {
		return err
	}
	if doc.ID == "" {
		doc.ID = ulid.Make().String()
	}
	if doc.GeneratedAt.IsZero() {
		doc.GeneratedAt = uc.now()
	}
	if args.OrganizationName != "" {
		doc.OrganizationName = args.OrganizationName
	}
	doc.OrganizationName = organizationOrDefault(doc.OrganizationName)

	if diff := doc.Totals.Total - doc.Report.Total(); diff > 0.01 || diff < -0.01 {
		uc.console.LogWarning("Stored total %.2f differs from the itemized total %.2f; using the itemized total", doc.Totals.Total, doc.Report.Total())
		doc.Totals.Total = doc.Report.Total()
	}

	return uc.exportAndReport(ctx, *doc, args)
}

func (uc *FootprintUseCase) exportAndReport(ctx context.Context, doc entity.ReportDocument, args *types.CLIArgs) error {
	status := uc.console.Status("Generating reports...")
	files, err := uc.ExportDocument(ctx, doc, args.ReportType, args.Dir)
	status.Stop()
	if err != nil {
		return err
	}
	for _, f := range files {
		uc.console.LogSuccess("%s report saved to: %s", strings.ToUpper(f.Format), f.Path)
	}
	return nil
}

func (uc *FootprintUseCase) importCloudSpend(ctx context.Context, args *types.CLIArgs) (entity.CloudSpend, error) {
	if uc.cloudRepo == nil {
		return entity.CloudSpend{}, fmt.Errorf("cloud spend import is not configured")
	}

	profile := args.AWSProfile
	if profile != "" && !contains(uc.cloudRepo.GetAWSProfiles(), profile) {
		uc.console.LogWarning("Profile '%s' not found in AWS configuration", profile)
	}

	status := uc.console.Status("Fetching cloud spend from AWS Cost Explorer...")
	spend, err := uc.cloudRepo.GetCloudSpend(ctx, profile, args.TimeRange, args.Tag)
	status.Stop()
	if err != nil {
		return entity.CloudSpend{}, fmt.Errorf("error importing cloud spend: %w", err)
	}

	account := spend.AccountID
	if account == "" {
		account = "unknown account"
	}
	uc.console.LogInfo("%s spend for %s: $%s", spend.PeriodName, account, equivalency.FormatFloat(spend.Total, 2))

	if len(spend.ByService) > 0 {
		table := uc.console.CreateTable()
		table.AddColumn("Service")
		table.AddColumn("Cost (USD)")
		for _, sc := range topServices(spend.ByService, 10) {
			table.AddRow(sc.ServiceName, fmt.Sprintf("$%.2f", sc.Cost))
		}
		uc.console.Println(table.Render())
	}
	return spend, nil
}

// DisplayResult prints the itemized report, totals, scope chart, equivalency
// and input warnings.
func (uc *FootprintUseCase) DisplayResult(result CalculationResult) {
	doc := result.Document

	uc.console.Println()
	uc.console.Printf("Carbon Footprint Results: %s\n", doc.OrganizationName)
	uc.console.Printf("Report ID: %s | Generated on %s\n\n", doc.ID, doc.GeneratedAt.Format("January 02, 2006"))

	table := uc.console.CreateTable()
	table.AddColumn("Category")
	table.AddColumn("Subcategory")
	table.AddColumn("Value")
	table.AddColumn("Unit")
	table.AddColumn("Emissions (kg CO2e)")
	for _, section := range doc.Report {
		table.AddRow(section.Name, "", "", "", "")
		for _, item := range section.Items {
			table.AddRow("", item.Name, item.Value.String(), item.Unit, fmt.Sprintf("%.2f", item.Emissions))
		}
		table.AddRow("", "Total "+section.Name, "", "", fmt.Sprintf("%.2f", section.Total()))
	}
	table.AddRow("Total Emissions", "", "", "", fmt.Sprintf("%.2f", doc.Report.Total()))
	uc.console.Println(table.Render())

	uc.console.Printf("Total: %s kg CO2e | Per employee: %s kg CO2e\n",
		equivalency.FormatFloat(doc.Totals.Total, 2), equivalency.FormatFloat(doc.Totals.PerEmployee, 2))

	uc.console.DisplayScopeBars([]types.ScopeShare{
		{Scope: entity.SectionScope1, Emissions: doc.Totals.Scope1},
		{Scope: entity.SectionScope2, Emissions: doc.Totals.Scope2},
		{Scope: entity.SectionScope3, Emissions: doc.Totals.Scope3},
	})

	if !result.Equivalency.IsEmpty {
		uc.console.LogInfo("%s", result.Equivalency.DisplayText)
	}

	for _, w := range result.Warnings {
		uc.console.LogWarning("%s", w.String())
	}
}

// RunFactors imprime a tabela de fatores em uso.
func (uc *FootprintUseCase) RunFactors() {
	factors, refrigerants := uc.table.Snapshot()

	table := uc.console.CreateTable()
	table.AddColumn("Category")
	table.AddColumn("kg CO2e per unit")
	for _, key := range uc.table.Keys() {
		table.AddRow(key, formatFactor(factors[key]))
	}
	uc.console.Println(table.Render())

	gwp := uc.console.CreateTable()
	gwp.AddColumn("Refrigerant")
	gwp.AddColumn("GWP")
	for _, name := range uc.table.Refrigerants() {
		gwp.AddRow(name, formatFactor(refrigerants[name]))
	}
	uc.console.Println(gwp.Render())
}

// --- Funções Auxiliares ---

func formatFactor(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.4f", v), "0"), ".")
}

func topServices(services []entity.ServiceCost, n int) []entity.ServiceCost {
	sorted := append([]entity.ServiceCost(nil), services...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Cost > sorted[j].Cost })
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func organizationOrDefault(name string) string {
	if name = strings.TrimSpace(name); name == "" {
		return DefaultOrganizationName
	}
	return name
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
