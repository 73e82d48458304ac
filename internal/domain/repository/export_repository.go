package repository

import (
	"io"

	"github.com/diillson/carbon-footprint-go/internal/domain/entity"
)

// ExportRepository renders report documents. The Write* methods stream to any
// writer (HTTP responses); the ExportTo* methods write a file into outputDir
// and return its absolute path.
type ExportRepository interface {
	WriteCSV(w io.Writer, doc entity.ReportDocument) error
	WritePDF(w io.Writer, doc entity.ReportDocument) error
	WriteJSON(w io.Writer, doc entity.ReportDocument) error

	ExportToCSV(doc entity.ReportDocument, outputDir string) (string, error)
	ExportToPDF(doc entity.ReportDocument, outputDir string) (string, error)
	ExportToJSON(doc entity.ReportDocument, outputDir string) (string, error)
}
