package core

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang/mock/gomock"

	"github.com/mverbist/comsof-validate/internal/types"
)

func savedReportFixture(filename string) types.SavedReport {
	return types.SavedReport{
		ID:      "test-id",
		Archive: filename,
		Created: time.Now().UTC().Format(time.RFC3339),
		Report: types.ValidationReport{
			Filename: filename,
			Results: []types.CheckResult{
				{Name: "OSC Duplicates Check", Status: types.StatusPass, Message: "ok"},
			},
		},
	}
}

func writeSavedReport(t *testing.T, rootDir string, record types.SavedReport, name string) string {
	t.Helper()
	dir := filepath.Join(rootDir, WorkDir, ReportsDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(record)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// ============================================================================
// LoadReport Tests
// ============================================================================

func TestLoadReportByPath(t *testing.T) {
	dir := t.TempDir()
	path := writeSavedReport(t, dir, savedReportFixture("a.zip"), "a.json")

	svc := NewExportService(nil, dir)
	record, err := svc.LoadReport(path)
	if err != nil {
		t.Fatal(err)
	}
	if record.Report.Filename != "a.zip" {
		t.Errorf("filename = %q", record.Report.Filename)
	}
}

func TestLoadReportLast(t *testing.T) {
	dir := t.TempDir()
	older := writeSavedReport(t, dir, savedReportFixture("older.zip"), "older.json")
	newer := writeSavedReport(t, dir, savedReportFixture("newer.zip"), "newer.json")

	// Make mtimes unambiguous.
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(older, past, past); err != nil {
		t.Fatal(err)
	}
	now := time.Now()
	if err := os.Chtimes(newer, now, now); err != nil {
		t.Fatal(err)
	}

	svc := NewExportService(nil, dir)
	record, err := svc.LoadReport("last")
	if err != nil {
		t.Fatal(err)
	}
	if record.Report.Filename != "newer.zip" {
		t.Errorf("last report = %q, want newer.zip", record.Report.Filename)
	}
}

func TestLoadReportNoSavedReports(t *testing.T) {
	svc := NewExportService(nil, t.TempDir())
	if _, err := svc.LoadReport("last"); err == nil {
		t.Fatal("expected error for empty reports dir")
	}
}

func TestLoadReportInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.json")
	if err := os.WriteFile(path, []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}

	svc := NewExportService(nil, dir)
	if _, err := svc.LoadReport(path); err == nil {
		t.Fatal("expected error for invalid report file")
	}
}

// ============================================================================
// Export Tests
// ============================================================================

func TestExportWritesPDF(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	record := savedReportFixture("MRO_export.zip")
	pdf := []byte("%PDF-1.4 content")

	client := NewMockBackendClient(ctrl)
	client.EXPECT().
		ExportPDF(gomock.Any(), types.ExportRequest{
			Results:  record.Report.Results,
			Filename: "MRO_export.zip",
		}).
		Return(&PDFDocument{Filename: "validation_report_MRO_export.pdf", Content: pdf}, nil)

	outDir := t.TempDir()
	outPath := filepath.Join(outDir, "out.pdf")

	svc := NewExportService(client, outDir)
	written, err := svc.Export(context.Background(), &record, outPath)
	if err != nil {
		t.Fatal(err)
	}
	if written != outPath {
		t.Errorf("written = %q, want %q", written, outPath)
	}
	content, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != string(pdf) {
		t.Errorf("content = %q", content)
	}
}

func TestExportEmptyReport(t *testing.T) {
	svc := NewExportService(nil, t.TempDir())
	record := types.SavedReport{Report: types.ValidationReport{Filename: "x.zip"}}
	if _, err := svc.Export(context.Background(), &record, "out.pdf"); err == nil {
		t.Fatal("expected error for report without results")
	}
}
