package ui

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"qreport/app"
	"qreport/internal/errors"
	"qreport/internal/report"
	"qreport/ui/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// App is the headless HTTP API over the report service
type App struct {
	router  *chi.Mux
	service *app.ReportService
	config  Config
}

type transformResponse struct {
	ReportID    string         `json:"report_id"`
	Fingerprint string         `json:"sha256"`
	Columns     []string       `json:"columns"`
	Rows        [][]string     `json:"rows"`
	Summary     report.Summary `json:"summary"`
}

type errorResponse struct {
	Error    string   `json:"error"`
	Code     string   `json:"code"`
	Messages []string `json:"messages,omitempty"`
	Missing  []string `json:"missing,omitempty"`
	Detected []string `json:"detected,omitempty"`
}

// NewApp creates a new API application
func NewApp(service *app.ReportService, config Config) *App {
	a := &App{
		router:  chi.NewRouter(),
		service: service,
		config:  config,
	}

	a.setupMiddleware()
	a.setupRoutes()

	return a
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(chimw.RequestID)
	a.router.Use(chimw.Logger)
	a.router.Use(chimw.Recoverer)
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	a.router.Route("/api/v1", func(r chi.Router) {
		r.With(middleware.MaxBody(a.config.MaxUploadBytes)).Post("/transform", a.handleTransform)
	})
}

// Handler exposes the router for an http.Server or tests
func (a *App) Handler() http.Handler {
	return a.router
}

// handleTransform accepts one multipart file and answers with the pivoted
// report as CSV (default), XLSX or JSON
func (a *App) handleTransform(w http.ResponseWriter, r *http.Request) {
	formatParam := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	asJSON := formatParam == "json"
	format := app.FormatCSV
	if !asJSON {
		parsed, err := app.ParseFormat(formatParam)
		if err != nil {
			writeJSONError(w, err)
			return
		}
		format = parsed
	}

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeJSONError(w, errors.RequestTooLarge(a.config.MaxUploadBytes))
			return
		}
		writeJSONError(w, errors.InvalidInput("no file uploaded"))
		return
	}
	defer file.Close()

	rep, err := a.service.Process(r.Context(), app.Upload{Filename: header.Filename, File: file})
	if err != nil {
		log.Printf("[handleTransform] %s: %v", chimw.GetReqID(r.Context()), err)
		writeJSONError(w, err)
		return
	}
	w.Header().Set("X-Report-ID", rep.ID.String())

	if asJSON {
		writeJSON(w, http.StatusOK, transformResponse{
			ReportID:    rep.ID.String(),
			Fingerprint: string(rep.Fingerprint),
			Columns:     rep.Table.Columns,
			Rows:        rep.Table.Rows,
			Summary:     rep.Summary,
		})
		return
	}

	payload, err := a.service.Encode(rep.Table.Table(), format)
	if err != nil {
		writeJSONError(w, err)
		return
	}
	contentType := payload.ContentType
	if format == app.FormatCSV {
		contentType += "; charset=utf-8"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", payload.FileName))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload.Data)
}

func writeJSONError(w http.ResponseWriter, err error) {
	resp := errorResponse{Error: err.Error(), Code: errors.GetCode(err)}
	if missing, ok := app.MissingColumns(err); ok {
		resp.Messages = missing.Messages()
		resp.Missing = missing.Missing
		resp.Detected = missing.Detected
	}
	writeJSON(w, statusForError(err), resp)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[writeJSON] encode failed: %v", err)
	}
}
