package core

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mverbist/comsof-validate/internal/types"
)

// maxErrorBodySize caps how much of an error response body is read. Error
// bodies may include the backend's directory-tree dump, but never megabytes.
const maxErrorBodySize = 64 * 1024

// PDFDocument is a rendered report returned by the export endpoint.
type PDFDocument struct {
	Filename string
	Content  []byte
}

// BackendClient abstracts the validation backend's HTTP surface.
//
//go:generate mockgen -source=client.go -destination=client_mock.go -package=core BackendClient
type BackendClient interface {
	// Validate uploads the archive and returns the validation report.
	// An empty checks slice asks the backend to run its full catalog.
	Validate(ctx context.Context, archivePath string, checks []string) (*types.ValidationReport, error)

	// ExportPDF renders a report into a PDF document.
	ExportPDF(ctx context.Context, req types.ExportRequest) (*PDFDocument, error)

	// Health probes the backend health endpoint.
	Health(ctx context.Context) (types.HealthStatus, error)
}

// HTTPBackendClient talks to the validation backend over HTTP.
type HTTPBackendClient struct {
	client *http.Client
	cfg    Config
}

// NewBackendClient creates a client for the configured backend.
func NewBackendClient(cfg Config) *HTTPBackendClient {
	return &HTTPBackendClient{
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		cfg: cfg,
	}
}

// Validate uploads the archive as a multipart form and decodes the report.
func (c *HTTPBackendClient) Validate(ctx context.Context, archivePath string, checks []string) (*types.ValidationReport, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	// Stream the multipart body instead of buffering: archives run to
	// hundreds of megabytes.
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeUploadForm(mw, f, filepath.Base(archivePath), checks))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BackendURL+c.cfg.ValidatePath, pr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-Request-ID", uuid.New().String())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusRequestEntityTooLarge {
		if msg := readErrorMessage(resp); msg != "" {
			return nil, fmt.Errorf("%w: %s", ErrFileTooLarge, msg)
		}
		return nil, ErrFileTooLarge
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &BackendError{StatusCode: resp.StatusCode, Message: readErrorMessage(resp)}
	}

	var report types.ValidationReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return nil, fmt.Errorf("decode validation response: %w", err)
	}
	return &report, nil
}

// writeUploadForm writes the `file` and optional `checks` multipart fields.
func writeUploadForm(mw *multipart.Writer, f io.Reader, filename string, checks []string) error {
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("copy archive into form: %w", err)
	}

	if len(checks) > 0 {
		encoded, err := json.Marshal(checks)
		if err != nil {
			return err
		}
		if err := mw.WriteField("checks", string(encoded)); err != nil {
			return err
		}
	}

	return mw.Close()
}

// ExportPDF posts the report to the export endpoint and returns the PDF.
// Handles both transport variants: raw application/pdf bytes (Flask) and
// base64-in-JSON (serverless).
func (c *HTTPBackendClient) ExportPDF(ctx context.Context, exportReq types.ExportRequest) (*PDFDocument, error) {
	body, err := json.Marshal(exportReq)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BackendURL+c.cfg.ExportPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("export request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &BackendError{StatusCode: resp.StatusCode, Message: readErrorMessage(resp)}
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	switch mediaType {
	case "application/pdf":
		content, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read PDF body: %w", err)
		}
		return &PDFDocument{
			Filename: pdfFilename(resp.Header.Get("Content-Disposition"), exportReq.Filename),
			Content:  content,
		}, nil

	case "application/json":
		var payload struct {
			PDF      string `json:"pdf"`
			Filename string `json:"filename"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return nil, fmt.Errorf("decode export response: %w", err)
		}
		content, err := base64.StdEncoding.DecodeString(payload.PDF)
		if err != nil {
			return nil, fmt.Errorf("decode PDF content: %w", err)
		}
		name := payload.Filename
		if name == "" {
			name = DefaultPDFName(exportReq.Filename)
		}
		return &PDFDocument{Filename: name, Content: content}, nil

	default:
		return nil, fmt.Errorf("unexpected export content type %q", resp.Header.Get("Content-Type"))
	}
}

// Health probes the backend health endpoint.
func (c *HTTPBackendClient) Health(ctx context.Context) (types.HealthStatus, error) {
	var status types.HealthStatus

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BackendURL+c.cfg.HealthPath, nil)
	if err != nil {
		return status, err
	}
	req.Header.Set("X-Request-ID", uuid.New().String())

	resp, err := c.client.Do(req)
	if err != nil {
		return status, fmt.Errorf("health request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return status, &BackendError{StatusCode: resp.StatusCode, Message: readErrorMessage(resp)}
	}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return status, fmt.Errorf("decode health response: %w", err)
	}
	return status, nil
}

// readErrorMessage extracts a human-readable message from an error response.
// JSON bodies carry {"error": "..."}; anything else (HTML error pages,
// proxy output) falls back to the status text.
func readErrorMessage(resp *http.Response) string {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	if err != nil {
		return http.StatusText(resp.StatusCode)
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
			return payload.Error
		}
	}
	return http.StatusText(resp.StatusCode)
}

// pdfFilename parses the Content-Disposition attachment filename, falling
// back to a name derived from the uploaded archive.
func pdfFilename(disposition, archiveName string) string {
	if disposition != "" {
		if _, params, err := mime.ParseMediaType(disposition); err == nil {
			if name := params["filename"]; name != "" {
				return name
			}
		}
	}
	return DefaultPDFName(archiveName)
}

// DefaultPDFName derives the report filename the backend uses:
// validation_report_<archive without .zip>.pdf.
func DefaultPDFName(archiveName string) string {
	base := strings.TrimSuffix(archiveName, ".zip")
	if base == "" {
		base = time.Now().Format("20060102_150405")
	}
	return "validation_report_" + base + ".pdf"
}
