package export

import (
	"fmt"
	"io"

	"github.com/diillson/carbon-footprint-go/internal/domain/entity"
	"github.com/jung-kurt/gofpdf"
	"gonum.org/v1/gonum/floats"
)

// Layout em pontos (A4).
const (
	marginLeft   = 40.0
	marginRight  = 40.0
	marginTop    = 50.0
	marginBottom = 50.0
	rowHeight    = 18.0
	fontFamily   = "Arial"
)

// columnWidths are scaled down to the printable width when they do not fit.
var columnWidths = []float64{100, 180, 80, 70, 120}

var tableHeader = []string{"Category", "Subcategory", "Value", "Unit", "Emissions (kg CO2e)"}

type rgb [3]int

var (
	darkGreen  = rgb{0, 100, 0}
	grey       = rgb{128, 128, 128}
	lightGrey  = rgb{211, 211, 211}
	lightGreen = rgb{144, 238, 144}
	black      = rgb{0, 0, 0}
	white      = rgb{255, 255, 255}
)

// WritePDF renders the report as an A4 document. Any failure, including a
// panic inside the PDF library, is returned as an error.
func (r *ExportRepositoryImpl) WritePDF(w io.Writer, doc entity.ReportDocument) (err error) {
	if err := doc.Report.Validate(); err != nil {
		return err
	}

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("error generating PDF: %v", rec)
		}
	}()

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetCompression(r.compressPDF)
	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetAutoPageBreak(true, marginBottom)
	pdf.SetTitle(fmt.Sprintf("%s Carbon Report", organizationName(doc)), true)
	pdf.SetCreator("carbon-footprint", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageWidth, pageHeight := pdf.GetPageSize()
	widths := fitColumns(columnWidths, pageWidth-marginLeft-marginRight)
	tableWidth := floats.Sum(widths)

	setFill := func(c rgb) { pdf.SetFillColor(c[0], c[1], c[2]) }
	setText := func(c rgb) { pdf.SetTextColor(c[0], c[1], c[2]) }

	// Rodapé
	pdf.SetFooterFunc(func() {
		pdf.SetY(-marginBottom + 10)
		pdf.SetFont(fontFamily, "I", 8)
		setText(grey)
		footerText := "Generated by Carbon Footprint Calculator"
		if doc.ID != "" {
			footerText = fmt.Sprintf("%s | Report %s", footerText, doc.ID)
		}
		pdf.CellFormat(tableWidth/2, 10, tr(footerText), "", 0, "L", false, 0, "")
		pdf.CellFormat(tableWidth/2, 10, tr(fmt.Sprintf("Page %d", pdf.PageNo())), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()

	// Cabeçalho
	pdf.SetFont(fontFamily, "", 18)
	setText(black)
	pdf.CellFormat(0, 22, tr(organizationName(doc)), "", 1, "C", false, 0, "")
	pdf.Ln(10)

	pdf.SetFont(fontFamily, "", 24)
	setText(darkGreen)
	pdf.CellFormat(0, 28, tr("Carbon Footprint Results"), "", 1, "C", false, 0, "")
	pdf.Ln(20)

	pdf.SetFont(fontFamily, "", 12)
	setText(black)
	pdf.CellFormat(0, 14, tr("Generated on "+doc.GeneratedAt.Format("January 02, 2006")), "", 1, "C", false, 0, "")
	pdf.Ln(30)

	// Resumo
	report := doc.Report
	summary := make([][2]string, 0, len(report)+2)
	for _, section := range report {
		summary = append(summary, [2]string{section.Name, fmt.Sprintf("%.2f kg CO2e", section.Total())})
	}
	summary = append(summary, [2]string{"Total", fmt.Sprintf("%.2f kg CO2e", report.Total())})
	if doc.Totals.PerEmployee > 0 {
		summary = append(summary, [2]string{"Per Employee", fmt.Sprintf("%.2f kg CO2e", doc.Totals.PerEmployee)})
	}

	pdf.SetDrawColor(lightGrey[0], lightGrey[1], lightGrey[2])
	pdf.SetLineWidth(0.5)
	labelWidth, valueWidth := widths[0]+widths[1], widths[2]+widths[3]+widths[4]
	for _, row := range summary {
		pdf.SetFont(fontFamily, "B", 11)
		setText(black)
		pdf.CellFormat(labelWidth, rowHeight, tr(row[0]), "1", 0, "L", false, 0, "")
		pdf.SetFont(fontFamily, "", 11)
		pdf.CellFormat(valueWidth, rowHeight, tr(row[1]), "1", 1, "R", false, 0, "")
	}

	// Detalhamento
	pdf.Ln(30)
	pdf.SetFont(fontFamily, "", 16)
	setText(darkGreen)
	pdf.CellFormat(0, 20, tr("Detailed Breakdown"), "", 1, "L", false, 0, "")
	pdf.Ln(15)

	drawHeader := func() {
		pdf.SetFont(fontFamily, "B", 10)
		setFill(grey)
		setText(white)
		for i, h := range tableHeader {
			pdf.CellFormat(widths[i], rowHeight, tr(h), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	}

	// Mantém cada linha inteira na mesma página e repete o cabeçalho.
	ensureRoom := func() {
		if pdf.GetY()+rowHeight > pageHeight-marginBottom {
			pdf.AddPage()
			drawHeader()
		}
	}

	drawHeader()
	for _, section := range report {
		ensureRoom()
		pdf.SetFont(fontFamily, "B", 10)
		setFill(lightGrey)
		setText(black)
		pdf.CellFormat(tableWidth, rowHeight, tr(section.Name), "1", 1, "L", true, 0, "")

		pdf.SetFont(fontFamily, "", 10)
		for _, item := range section.Items {
			ensureRoom()
			cells := []string{"", item.Name, item.Value.String(), item.Unit, fmt.Sprintf("%.2f", item.Emissions)}
			for i, c := range cells {
				pdf.CellFormat(widths[i], rowHeight, tr(c), "1", 0, "L", false, 0, "")
			}
			pdf.Ln(-1)
		}

		ensureRoom()
		setFill(lightGreen)
		cells := []string{"", "Total " + section.Name, "", "", fmt.Sprintf("%.2f", section.Total())}
		for i, c := range cells {
			pdf.CellFormat(widths[i], rowHeight, tr(c), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
	}

	ensureRoom()
	pdf.SetFont(fontFamily, "B", 10)
	setFill(black)
	setText(white)
	pdf.CellFormat(tableWidth-widths[4], rowHeight, tr("Total Emissions"), "1", 0, "L", true, 0, "")
	pdf.CellFormat(widths[4], rowHeight, fmt.Sprintf("%.2f", report.Total()), "1", 1, "R", true, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("error writing PDF file: %w", err)
	}
	return nil
}

func fitColumns(widths []float64, available float64) []float64 {
	out := make([]float64, len(widths))
	scale := 1.0
	if total := floats.Sum(widths); total > available {
		scale = available / total
	}
	for i, w := range widths {
		out[i] = w * scale
	}
	return out
}
