package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/diillson/carbon-footprint-go/internal/domain/entity"
	"github.com/diillson/carbon-footprint-go/internal/domain/repository"
)

// Nome fixo do download CSV.
const CSVFilename = "carbon_footprint_report.csv"

// ExportRepositoryImpl implementa o ExportRepository.
type ExportRepositoryImpl struct {
	compressPDF bool
}

// Option configura o ExportRepositoryImpl.
type Option func(*ExportRepositoryImpl)

// WithPDFCompression liga ou desliga a compressão dos streams do PDF.
func WithPDFCompression(enabled bool) Option {
	return func(r *ExportRepositoryImpl) {
		r.compressPDF = enabled
	}
}

// NewExportRepository cria uma nova implementação do ExportRepository.
func NewExportRepository(opts ...Option) repository.ExportRepository {
	r := &ExportRepositoryImpl{compressPDF: true}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// PDFFilename builds "<OrgName>_Carbon_Report_<YYYYMMDD>.pdf", spaces replaced
// by underscores.
func PDFFilename(doc entity.ReportDocument) string {
	return fmt.Sprintf("%s_Carbon_Report_%s.pdf",
		strings.ReplaceAll(organizationName(doc), " ", "_"),
		doc.GeneratedAt.Format("20060102"))
}

// JSONFilename é o nome do documento JSON exportado.
func JSONFilename(doc entity.ReportDocument) string {
	if doc.ID == "" {
		return "carbon_footprint_report.json"
	}
	return fmt.Sprintf("carbon_footprint_report_%s.json", doc.ID)
}

// --- CSV ---

// WriteCSV writes the report in the fixed column layout:
// Category, Subcategory, Value, Unit, Emissions (kg CO2e).
func (r *ExportRepositoryImpl) WriteCSV(w io.Writer, doc entity.ReportDocument) error {
	writer := csv.NewWriter(w)
	writer.UseCRLF = true

	rows := [][]string{
		{"Carbon Footprint Report", doc.GeneratedAt.Format("2006-01-02 15:04:05")},
		{},
		{"Category", "Subcategory", "Value", "Unit", "Emissions (kg CO2e)"},
	}

	for _, section := range doc.Report {
		rows = append(rows, []string{section.Name, "", "", "", ""})
		for _, item := range section.Items {
			rows = append(rows, []string{"", item.Name, item.Value.String(), item.Unit, fmt.Sprintf("%.2f", item.Emissions)})
		}
		rows = append(rows, []string{"", "Total " + section.Name, "", "", fmt.Sprintf("%.2f", section.Total())})
		rows = append(rows, []string{})
	}

	rows = append(rows, []string{"Total Emissions", "", "", "", fmt.Sprintf("%.2f kg CO2e", doc.Report.Total())})

	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("error writing CSV: %w", err)
	}
	return nil
}

// --- JSON ---

// WriteJSON escreve o documento completo como JSON indentado.
func (r *ExportRepositoryImpl) WriteJSON(w io.Writer, doc entity.ReportDocument) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("error encoding JSON data: %w", err)
	}
	return nil
}

// --- Arquivos ---

func (r *ExportRepositoryImpl) ExportToCSV(doc entity.ReportDocument, outputDir string) (string, error) {
	return r.exportToFile(outputDir, CSVFilename, "CSV", func(w io.Writer) error {
		return r.WriteCSV(w, doc)
	})
}

func (r *ExportRepositoryImpl) ExportToPDF(doc entity.ReportDocument, outputDir string) (string, error) {
	return r.exportToFile(outputDir, PDFFilename(doc), "PDF", func(w io.Writer) error {
		return r.WritePDF(w, doc)
	})
}

func (r *ExportRepositoryImpl) ExportToJSON(doc entity.ReportDocument, outputDir string) (string, error) {
	return r.exportToFile(outputDir, JSONFilename(doc), "JSON", func(w io.Writer) error {
		return r.WriteJSON(w, doc)
	})
}

// exportToFile renders into a temporary file next to the target and renames
// it, so a failed render never leaves a truncated report behind.
func (r *ExportRepositoryImpl) exportToFile(outputDir, name, kind string, render func(io.Writer) error) (string, error) {
	outputFilename, err := generateFilename(name, outputDir)
	if err != nil {
		return "", err
	}

	file, err := os.CreateTemp(filepath.Dir(outputFilename), ".carbon-*")
	if err != nil {
		return "", fmt.Errorf("error creating %s file: %w", kind, err)
	}
	tmpName := file.Name()
	defer os.Remove(tmpName)

	if err := render(file); err != nil {
		file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("error writing %s file: %w", kind, err)
	}
	if err := os.Rename(tmpName, outputFilename); err != nil {
		return "", fmt.Errorf("error writing %s file: %w", kind, err)
	}

	return filepath.Abs(outputFilename)
}

// --- Funções Auxiliares ---

// generateFilename garante que o diretório exista e devolve o caminho do arquivo.
func generateFilename(name, dir string) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current working directory: %w", err)
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory '%s': %w", dir, err)
	}
	// nomes de organização podem conter separadores de caminho
	name = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == os.PathSeparator {
			return '_'
		}
		return r
	}, name)
	return filepath.Join(dir, name), nil
}

func organizationName(doc entity.ReportDocument) string {
	if strings.TrimSpace(doc.OrganizationName) == "" {
		return "Company"
	}
	return doc.OrganizationName
}
