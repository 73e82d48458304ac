// Package web is the HTTP boundary of the calculator: the HTML form flow, the
// CSV/PDF downloads and a small JSON API.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/diillson/carbon-footprint-go/internal/application/usecase"
)

//go:embed templates/*.html
var templatesFS embed.FS

// DefaultListen é o endereço usado quando nenhum foi configurado.
const DefaultListen = ":8080"

// maxFormBytes limita o corpo das requisições.
const maxFormBytes = 1 << 20

// Server serves the calculator over HTTP.
type Server struct {
	uc         *usecase.FootprintUseCase
	templates  *template.Template
	flightRows int
}

// NewServer cria o servidor e carrega os templates embutidos.
func NewServer(uc *usecase.FootprintUseCase) (*Server, error) {
	tmpl, err := template.New("web").Funcs(template.FuncMap{
		"fmt2": func(v float64) string { return fmt.Sprintf("%.2f", v) },
	}).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("error parsing templates: %w", err)
	}
	return &Server{uc: uc, templates: tmpl, flightRows: 5}, nil
}

// Handler monta as rotas.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /{$}", s.handleOrganization)
	mux.HandleFunc("POST /calculate", s.handleCalculate)
	mux.HandleFunc("POST /export_csv", s.handleExportCSV)
	mux.HandleFunc("POST /export_pdf", s.handleExportPDF)
	mux.HandleFunc("POST /api/calculate", s.handleAPICalculate)
	mux.HandleFunc("GET /api/factors", s.handleAPIFactors)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	return withRecovery(withRequestLog(limitBody(mux)))
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultListen
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting carbon footprint server", "listen", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
		slog.Info("shutting down carbon footprint server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// --- Middlewares ---

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		slog.Debug("request served", "method", r.Method, "path", r.URL.Path, "status", rec.status, "duration", time.Since(start))
	})
}

func withRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("panic while serving request", "path", r.URL.Path, "err", rec)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
		next.ServeHTTP(w, r)
	})
}
