package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"

	"github.com/mverbist/comsof-validate/internal/core"
	"github.com/mverbist/comsof-validate/internal/types"
)

func newTestServer(t *testing.T, client core.BackendClient) *Server {
	t.Helper()
	srv, err := NewServer(client)
	if err != nil {
		t.Fatal(err)
	}
	return srv
}

// multipartUpload builds a multipart body with a `file` part and optional
// extra fields.
func multipartUpload(t *testing.T, filename string, content []byte, fields map[string][]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatal(err)
		}
	}
	for name, values := range fields {
		for _, v := range values {
			if err := mw.WriteField(name, v); err != nil {
				t.Fatal(err)
			}
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, mw.FormDataContentType()
}

var zipBytes = []byte{0x50, 0x4B, 0x03, 0x04, 0x00, 0x00}

// ============================================================================
// Index Tests
// ============================================================================

func TestIndexRendersForm(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `name="file"`) {
		t.Error("form missing file input")
	}
	for _, name := range core.AllChecks {
		if !strings.Contains(body, name) {
			t.Errorf("form missing check %q", name)
		}
	}
}

func TestIndexUnknownPath(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestIndexUploadRendersReport(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := core.NewMockBackendClient(ctrl)
	client.EXPECT().
		Validate(gomock.Any(), gomock.Any(), []string{"OSC Duplicates Check"}).
		Return(&types.ValidationReport{
			Filename: "MRO_export.zip",
			Results: []types.CheckResult{
				{Name: "OSC Duplicates Check", Status: types.StatusFail, Message: "2 duplicates found"},
			},
		}, nil)

	srv := newTestServer(t, client)

	body, contentType := multipartUpload(t, "MRO_export.zip", zipBytes, map[string][]string{
		"check": {"OSC Duplicates Check"},
	})
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	html := rec.Body.String()
	if !strings.Contains(html, "MRO_export.zip") {
		t.Error("report missing filename")
	}
	if !strings.Contains(html, "2 duplicates found") {
		t.Error("report missing check message")
	}
}

func TestIndexUploadWrongFileType(t *testing.T) {
	srv := newTestServer(t, nil)

	body, contentType := multipartUpload(t, "export.tar.gz", []byte("whatever"), nil)
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, errors render inline", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), core.UserMessage(core.ErrNotZip)) {
		t.Error("error message not rendered")
	}
}

func TestIndexUploadNoFile(t *testing.T) {
	srv := newTestServer(t, nil)

	body, contentType := multipartUpload(t, "", nil, map[string][]string{
		"check": {"OSC Duplicates Check"},
	})
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if !strings.Contains(rec.Body.String(), core.UserMessage(core.ErrNoFile)) {
		t.Error("missing-file error not rendered")
	}
}

// ============================================================================
// Validate Passthrough Tests
// ============================================================================

func TestValidateEndpoint(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := core.NewMockBackendClient(ctrl)
	client.EXPECT().
		Validate(gomock.Any(), gomock.Any(), []string{"Splice Count Report"}).
		Return(&types.ValidationReport{
			Filename: "a.zip",
			Results: []types.CheckResult{
				{Name: "Splice Count Report", Status: types.StatusPass, Message: "ok"},
			},
		}, nil)

	srv := newTestServer(t, client)

	// The SPA sends the selection as a JSON-encoded `checks` field.
	body, contentType := multipartUpload(t, "a.zip", zipBytes, map[string][]string{
		"checks": {`["Splice Count Report"]`},
	})
	req := httptest.NewRequest(http.MethodPost, "/validate", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var report types.ValidationReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatal(err)
	}
	if report.Filename != "a.zip" || len(report.Results) != 1 {
		t.Errorf("report = %+v", report)
	}
}

func TestValidateEndpointErrorStatuses(t *testing.T) {
	tests := []struct {
		name       string
		clientErr  error
		wantStatus int
	}{
		{"too large", core.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{"backend status forwarded", &core.BackendError{StatusCode: http.StatusBadRequest, Message: "bad zip"}, http.StatusBadRequest},
		{"other failure", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			client := core.NewMockBackendClient(ctrl)
			client.EXPECT().
				Validate(gomock.Any(), gomock.Any(), gomock.Any()).
				Return(nil, tt.clientErr)

			srv := newTestServer(t, client)
			body, contentType := multipartUpload(t, "a.zip", zipBytes, nil)
			req := httptest.NewRequest(http.MethodPost, "/validate", body)
			req.Header.Set("Content-Type", contentType)

			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var payload map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
				t.Fatalf("error body not JSON: %s", rec.Body.String())
			}
			if payload["error"] == "" {
				t.Error("error body missing message")
			}
		})
	}
}

func TestValidateEndpointMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/validate", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

// ============================================================================
// Export Tests
// ============================================================================

func TestExportEndpoint(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	pdf := []byte("%PDF-1.4 rendered")
	req := types.ExportRequest{
		Filename: "MRO_export.zip",
		Results: []types.CheckResult{
			{Name: "OSC Duplicates Check", Status: types.StatusPass, Message: "ok"},
		},
	}

	client := core.NewMockBackendClient(ctrl)
	client.EXPECT().
		ExportPDF(gomock.Any(), req).
		Return(&core.PDFDocument{Filename: "validation_report_MRO_export.pdf", Content: pdf}, nil)

	srv := newTestServer(t, client)

	payload, err := json.Marshal(req)
	if err != nil {
		t.Fatal(err)
	}
	httpReq := httptest.NewRequest(http.MethodPost, "/export", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httpReq)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "validation_report_MRO_export.pdf") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if rec.Body.String() != string(pdf) {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestExportEndpointRejectsEmptyResults(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/export", strings.NewReader(`{"filename":"a.zip","results":[]}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// ============================================================================
// Health Tests
// ============================================================================

func TestHealthz(t *testing.T) {
	tests := []struct {
		name       string
		status     types.HealthStatus
		err        error
		wantStatus int
	}{
		{"healthy backend", types.HealthStatus{Status: "healthy", Service: "comsof-validation"}, nil, http.StatusOK},
		{"unreachable backend", types.HealthStatus{}, errors.New("connection refused"), http.StatusServiceUnavailable},
		{"degraded backend", types.HealthStatus{Status: "degraded"}, nil, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			client := core.NewMockBackendClient(ctrl)
			client.EXPECT().Health(gomock.Any()).Return(tt.status, tt.err)

			srv := newTestServer(t, client)
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}
