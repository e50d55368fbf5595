// Package web serves the browser fallback UI: a server-rendered upload form
// that forwards archives to the validation backend and renders the report
// inline, plus JSON/blob passthroughs matching the single-page app contract.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mverbist/comsof-validate/internal/core"
	"github.com/mverbist/comsof-validate/internal/types"
)

//go:embed templates/index.html
var templateFS embed.FS

// Server is the browser fallback frontend. Validation itself stays on the
// remote backend; the server only moves bytes and renders templates.
type Server struct {
	client core.BackendClient
	tmpl   *template.Template
}

// NewServer creates the fallback frontend around a backend client.
func NewServer(client core.BackendClient) (*Server, error) {
	tmpl, err := template.New("index.html").Funcs(template.FuncMap{
		"statusClass": statusClass,
	}).ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	return &Server{client: client, tmpl: tmpl}, nil
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/validate", s.handleValidate)
	mux.HandleFunc("/export", s.handleExport)
	mux.HandleFunc("/healthz", s.handleHealthz)
	return mux
}

// ListenAndServe runs the server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}

	go func() {
		<-ctx.Done()
		shctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shctx)
	}()

	log.Printf("fallback UI listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// checkOption is one checkbox row in the upload form.
type checkOption struct {
	Name        string
	Description string
	Selected    bool
}

// indexData feeds the index template: the upload form plus, after a POST,
// `results`, `filename`, and `error` exactly as the original template sees
// them.
type indexData struct {
	Checks    []checkOption
	Results   []types.CheckResult
	Filename  string
	Error     string
	HasReport bool
}

func (s *Server) renderIndex(w http.ResponseWriter, status int, data indexData) {
	if len(data.Checks) == 0 {
		data.Checks = defaultCheckOptions(nil)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.tmpl.Execute(w, data); err != nil {
		log.Printf("render index: %v", err)
	}
}

func defaultCheckOptions(selected []string) []checkOption {
	isSelected := func(name string) bool {
		if len(selected) == 0 {
			return true // fresh form: everything checked, like the SPA
		}
		for _, s := range selected {
			if s == name {
				return true
			}
		}
		return false
	}

	options := make([]checkOption, 0, len(core.AllChecks))
	for _, name := range core.AllChecks {
		options = append(options, checkOption{
			Name:        name,
			Description: core.CheckDescriptions[name],
			Selected:    isSelected(name),
		})
	}
	return options
}

// handleIndex renders the upload form (GET) or runs a validation and
// renders the report inline (POST).
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.renderIndex(w, http.StatusOK, indexData{})
	case http.MethodPost:
		s.handleIndexUpload(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleIndexUpload(w http.ResponseWriter, r *http.Request) {
	report, checks, err := s.runValidation(w, r)
	if err != nil {
		status := http.StatusOK // the template flow reports errors inline
		if errors.Is(err, core.ErrFileTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		s.renderIndex(w, status, indexData{
			Checks: defaultCheckOptions(checks),
			Error:  core.UserMessage(err),
		})
		return
	}

	s.renderIndex(w, http.StatusOK, indexData{
		Checks:    defaultCheckOptions(checks),
		Results:   report.Results,
		Filename:  report.Filename,
		HasReport: true,
	})
}

// handleValidate is the JSON passthrough used by the single-page app.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	report, _, err := s.runValidation(w, r)
	if err != nil {
		writeJSONError(w, validationErrorStatus(err), core.UserMessage(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(report)
}

// runValidation extracts the multipart upload, spools it to disk, and runs
// it through the backend client. Returns the report and the selected checks.
func (s *Server) runValidation(w http.ResponseWriter, r *http.Request) (*types.ValidationReport, []string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, core.MaxUploadSize)

	// Spool to disk rather than memory: uploads run to hundreds of MB.
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, nil, core.ErrFileTooLarge
		}
		return nil, nil, fmt.Errorf("invalid upload: %w", err)
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	checks := selectedChecks(r)

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, checks, core.ErrNoFile
	}
	defer file.Close()

	if header.Filename == "" {
		return nil, checks, core.ErrNoFile
	}
	if !strings.HasSuffix(strings.ToLower(header.Filename), ".zip") {
		return nil, checks, fmt.Errorf("%w: %s", core.ErrNotZip, header.Filename)
	}

	// The backend client uploads from a path, so keep the archive's own name
	// inside a scratch directory.
	scratch, err := os.MkdirTemp("", "comsof-upload-*")
	if err != nil {
		return nil, checks, err
	}
	defer os.RemoveAll(scratch)

	archivePath := filepath.Join(scratch, filepath.Base(header.Filename))
	dst, err := os.Create(archivePath)
	if err != nil {
		return nil, checks, err
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		return nil, checks, err
	}
	dst.Close()

	report, err := s.client.Validate(r.Context(), archivePath, checks)
	if err != nil {
		return nil, checks, err
	}
	return report, checks, nil
}

// selectedChecks reads the check selection from either the SPA's `checks`
// JSON field or the fallback form's checkbox values.
func selectedChecks(r *http.Request) []string {
	if raw := r.FormValue("checks"); raw != "" {
		var checks []string
		if err := json.Unmarshal([]byte(raw), &checks); err == nil {
			return checks
		}
	}
	if values := r.MultipartForm.Value["check"]; len(values) > 0 {
		return values
	}
	return nil
}

// handleExport streams a PDF back for a posted report.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req types.ExportRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 10<<20)).Decode(&req); err != nil || len(req.Results) == 0 {
		writeJSONError(w, http.StatusBadRequest, "Invalid export request")
		return
	}

	doc, err := s.client.ExportPDF(r.Context(), req)
	if err != nil {
		writeJSONError(w, validationErrorStatus(err), core.UserMessage(err))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment;filename=%s", doc.Filename))
	_, _ = w.Write(doc.Content)
}

// handleHealthz probes the backend with a short timeout, mirroring the
// upstream health contract.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	w.Header().Set("Content-Type", "application/json")
	status, err := s.client.Health(ctx)
	if err != nil || !status.Healthy() {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status":"unhealthy","reason":"backend unreachable"}`))
		return
	}
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}

func validationErrorStatus(err error) int {
	switch {
	case errors.Is(err, core.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, core.ErrNoFile), errors.Is(err, core.ErrNotZip):
		return http.StatusBadRequest
	case core.IsNetworkError(err):
		return http.StatusBadGateway
	default:
		var be *core.BackendError
		if errors.As(err, &be) {
			return be.StatusCode
		}
		return http.StatusInternalServerError
	}
}

// statusClass maps a status onto the card CSS class.
func statusClass(s types.Status) string {
	switch s {
	case types.StatusPass:
		return "pass"
	case types.StatusFail:
		return "fail"
	default:
		return "err"
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
