package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/diillson/carbon-footprint-go/internal/adapter/driven/export"
	"github.com/diillson/carbon-footprint-go/internal/application/usecase"
	"github.com/diillson/carbon-footprint-go/internal/domain/diagnostic"
	"github.com/diillson/carbon-footprint-go/internal/domain/entity"
	"github.com/diillson/carbon-footprint-go/internal/domain/equivalency"
	"github.com/diillson/carbon-footprint-go/internal/domain/factor"
	"github.com/diillson/carbon-footprint-go/internal/shared/types"
)

const (
	companyCookie = "company_name"

	csvErrorBody = "Error generating CSV."
	pdfErrorBody = "Error generating PDF."
)

type calculatorView struct {
	CompanyName  string
	Fuels        []string
	Refrigerants []string
	FlightRows   []int
	CommuteModes []string
}

type resultsView struct {
	CompanyName string
	Document    entity.ReportDocument
	Totals      entity.ScopeTotals
	ReportJSON  string
	Equivalency equivalency.Output
	Warnings    []diagnostic.Warning
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, "index", nil)
}

// handleOrganization guarda o nome da organização e abre o formulário.
func (s *Server) handleOrganization(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.PostFormValue("company_name"))
	if name == "" {
		name = usecase.DefaultOrganizationName
	}
	http.SetCookie(w, &http.Cookie{
		Name:     companyCookie,
		Value:    url.QueryEscape(name),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	rows := make([]int, s.flightRows)
	for i := range rows {
		rows[i] = i
	}
	s.render(w, "calculator", calculatorView{
		CompanyName:  name,
		Fuels:        []string{factor.KeyDiesel, factor.KeyPetrol, factor.KeyCNG},
		Refrigerants: s.uc.Table().Refrigerants(),
		FlightRows:   rows,
		CommuteModes: entity.DefaultCommuteModes,
	})
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	form, err := DecodeActivityForm(r)
	if err != nil {
		slog.Warn("rejected calculator form", "err", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := s.uc.Calculate(form.Input(), companyName(r))
	if err != nil {
		s.calculationError(w, err)
		return
	}

	reportJSON, err := json.Marshal(result.Document.Report)
	if err != nil {
		slog.Error("failed to serialize report", "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	s.render(w, "results", resultsView{
		CompanyName: result.Document.OrganizationName,
		Document:    result.Document,
		Totals:      result.Document.Totals,
		ReportJSON:  string(reportJSON),
		Equivalency: result.Equivalency,
		Warnings:    result.Warnings,
	})
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	report, err := entity.ParseReport([]byte(r.PostFormValue("report_data")))
	if err != nil {
		slog.Error("failed to parse report data for CSV", "err", err)
		http.Error(w, csvErrorBody, http.StatusInternalServerError)
		return
	}

	org := r.PostFormValue("company_name")
	if strings.TrimSpace(org) == "" {
		org = companyName(r)
	}
	doc := s.uc.BuildDocument(report, org, entity.ScopeTotals{})

	var buf bytes.Buffer
	if err := s.uc.WriteDocument(&buf, doc, usecase.FormatCSV); err != nil {
		slog.Error("failed to generate CSV", "err", err)
		http.Error(w, csvErrorBody, http.StatusInternalServerError)
		return
	}
	sendAttachment(w, "text/csv; charset=utf-8", export.CSVFilename, buf.Bytes())
}

func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	report, err := entity.ParseReport([]byte(r.PostFormValue("report_data")))
	if err != nil {
		slog.Error("failed to parse report data for PDF", "err", err)
		http.Error(w, pdfErrorBody, http.StatusInternalServerError)
		return
	}

	posted, err := postedTotals(r)
	if err != nil {
		slog.Error("failed to parse posted totals for PDF", "err", err)
		http.Error(w, pdfErrorBody, http.StatusInternalServerError)
		return
	}

	org := r.PostFormValue("company_name")
	if strings.TrimSpace(org) == "" {
		org = companyName(r)
	}
	doc := s.uc.BuildDocument(report, org, posted)
	if math.Abs(posted.Total-doc.Totals.Total) > 0.01 {
		slog.Warn("posted total differs from the itemized report, using the itemized total",
			"posted", posted.Total, "itemized", doc.Totals.Total)
	}

	var buf bytes.Buffer
	if err := s.uc.WriteDocument(&buf, doc, usecase.FormatPDF); err != nil {
		slog.Error("failed to generate PDF", "err", err)
		http.Error(w, pdfErrorBody, http.StatusInternalServerError)
		return
	}
	sendAttachment(w, "application/pdf", export.PDFFilename(doc), buf.Bytes())
}

// apiCalculateRequest is an ActivityInput plus the organization name.
type apiCalculateRequest struct {
	OrganizationName string `json:"organization_name"`
	entity.ActivityInput
}

func (s *Server) handleAPICalculate(w http.ResponseWriter, r *http.Request) {
	var req apiCalculateRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	org := req.OrganizationName
	if org == "" {
		org = companyName(r)
	}
	result, err := s.uc.Calculate(req.ActivityInput, org)
	if err != nil {
		if errors.Is(err, types.ErrUnknownCabinClass) || errors.Is(err, types.ErrInvalidFormValue) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		slog.Error("calculation failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": http.StatusText(http.StatusInternalServerError)})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleAPIFactors(w http.ResponseWriter, r *http.Request) {
	factors, refrigerants := s.uc.Table().Snapshot()
	writeJSON(w, http.StatusOK, map[string]map[string]float64{
		"factors":      factors,
		"refrigerants": refrigerants,
	})
}

// --- Funções Auxiliares ---

func (s *Server) calculationError(w http.ResponseWriter, err error) {
	if errors.Is(err, types.ErrUnknownCabinClass) || errors.Is(err, types.ErrInvalidFormValue) {
		slog.Warn("rejected calculation input", "err", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	slog.Error("calculation failed", "err", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (s *Server) render(w http.ResponseWriter, name string, data interface{}) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("failed to render template", "template", name, "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// companyName lê o nome salvo no cookie, ou o padrão.
func companyName(r *http.Request) string {
	c, err := r.Cookie(companyCookie)
	if err != nil {
		return usecase.DefaultOrganizationName
	}
	name, err := url.QueryUnescape(c.Value)
	if err != nil || strings.TrimSpace(name) == "" {
		return usecase.DefaultOrganizationName
	}
	return name
}

func postedTotals(r *http.Request) (entity.ScopeTotals, error) {
	var totals entity.ScopeTotals
	fields := []struct {
		name string
		dst  *float64
	}{
		{"scope1", &totals.Scope1},
		{"scope2", &totals.Scope2},
		{"scope3", &totals.Scope3},
		{"total", &totals.Total},
		{"per_employee", &totals.PerEmployee},
	}
	for _, f := range fields {
		v, err := parseNumber(f.name, r.PostFormValue(f.name))
		if err != nil {
			return entity.ScopeTotals{}, err
		}
		*f.dst = v
	}
	return totals, nil
}

func sendAttachment(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	_, _ = w.Write(body)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode JSON response", "err", err)
	}
}
