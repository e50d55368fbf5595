package core

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/mverbist/comsof-validate/internal/types"
)

// ExportService turns saved reports into PDF downloads via the backend
// export endpoint.
type ExportService struct {
	client  BackendClient
	rootDir string
}

// NewExportService creates an export service rooted at rootDir.
func NewExportService(client BackendClient, rootDir string) *ExportService {
	return &ExportService{client: client, rootDir: rootDir}
}

// LoadReport resolves ref into a saved report. ref is either a path to a
// report JSON file or "last" for the most recently saved one.
func (s *ExportService) LoadReport(ref string) (*types.SavedReport, error) {
	if ref == "" || ref == "last" {
		return s.latestReport()
	}

	data, err := os.ReadFile(ref)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	var record types.SavedReport
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("invalid report file %s: %w", ref, err)
	}
	return &record, nil
}

// latestReport finds the newest report under .comsof-validate/reports.
func (s *ExportService) latestReport() (*types.SavedReport, error) {
	dir := filepath.Join(s.rootDir, WorkDir, ReportsDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("no saved reports (run validate first): %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".json" {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no saved reports in %s (run validate first)", dir)
	}

	// Report filenames embed the RFC3339 creation time, so lexical order is
	// chronological order per archive; fall back to mtime across archives.
	sort.Slice(names, func(i, j int) bool {
		fi, errI := os.Stat(filepath.Join(dir, names[i]))
		fj, errJ := os.Stat(filepath.Join(dir, names[j]))
		if errI != nil || errJ != nil {
			return names[i] < names[j]
		}
		return fi.ModTime().Before(fj.ModTime())
	})

	return s.LoadReport(filepath.Join(dir, names[len(names)-1]))
}

// Export renders the report to PDF and writes it to outPath. An empty
// outPath uses the backend-provided filename in the current directory.
// Returns the path written.
func (s *ExportService) Export(ctx context.Context, record *types.SavedReport, outPath string) (string, error) {
	if len(record.Report.Results) == 0 {
		return "", fmt.Errorf("report has no results to export")
	}

	doc, err := s.client.ExportPDF(ctx, types.ExportRequest{
		Results:  record.Report.Results,
		Filename: record.Report.Filename,
	})
	if err != nil {
		return "", err
	}

	if outPath == "" {
		outPath = doc.Filename
	}
	if err := os.WriteFile(outPath, doc.Content, 0644); err != nil {
		return "", fmt.Errorf("write PDF: %w", err)
	}
	return outPath, nil
}
