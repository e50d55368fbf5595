package core

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mverbist/comsof-validate/internal/types"
)

// zipMagic lists the signatures a ZIP file may start with (regular, empty,
// and spanned archives).
var zipMagic = [][]byte{
	{0x50, 0x4B, 0x03, 0x04},
	{0x50, 0x4B, 0x05, 0x06},
	{0x50, 0x4B, 0x07, 0x08},
}

// ValidateService orchestrates a validation run: local preflight, upload,
// and report persistence.
type ValidateService struct {
	client  BackendClient
	cfg     Config
	rootDir string
	ui      UICallback
}

// NewValidateService creates a validation service.
// rootDir is the directory containing the .comsof-validate work directory.
func NewValidateService(client BackendClient, cfg Config, rootDir string, ui UICallback) *ValidateService {
	return &ValidateService{
		client:  client,
		cfg:     cfg,
		rootDir: rootDir,
		ui:      ui,
	}
}

// Preflight checks the archive locally before any bytes go over the wire,
// mirroring the browser client: file exists, has a .zip name, has ZIP
// content, and is under the 500 MB ceiling. Returns the archive size.
func (s *ValidateService) Preflight(archivePath string) (int64, error) {
	info, err := os.Stat(archivePath)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrNoFile, archivePath)
	}
	if info.IsDir() {
		return 0, fmt.Errorf("%w: %s is a directory", ErrNotZip, archivePath)
	}
	if !strings.HasSuffix(strings.ToLower(info.Name()), ".zip") {
		return 0, fmt.Errorf("%w: %s", ErrNotZip, info.Name())
	}
	if info.Size() > MaxUploadSize {
		return info.Size(), fmt.Errorf("%w: %s (%s over the %s limit)",
			ErrFileTooLarge, info.Name(), FormatBytes(info.Size()), FormatBytes(MaxUploadSize))
	}

	f, err := os.Open(archivePath)
	if err != nil {
		return info.Size(), fmt.Errorf("%w: %s", ErrNoFile, archivePath)
	}
	defer f.Close()

	header := make([]byte, 4)
	if _, err := f.Read(header); err != nil {
		return info.Size(), fmt.Errorf("%w: cannot read %s", ErrNotZip, info.Name())
	}
	for _, magic := range zipMagic {
		if string(header) == string(magic) {
			return info.Size(), nil
		}
	}
	return info.Size(), fmt.Errorf("%w: %s has no ZIP signature", ErrNotZip, info.Name())
}

// Run validates the archive against the backend and saves the report.
// checks may be nil to use the configured defaults; an empty selection after
// defaults means the backend runs its full catalog.
func (s *ValidateService) Run(ctx context.Context, archivePath string, checks []string, progress ProgressTracker) (*types.SavedReport, error) {
	if checks == nil {
		checks = s.cfg.DefaultChecks
	}

	progress.SetTotal(3)

	size, err := s.Preflight(archivePath)
	if err != nil {
		progress.Fail(err)
		return nil, err
	}
	progress.Increment(fmt.Sprintf("checked %s (%s)", filepath.Base(archivePath), FormatBytes(size)))

	report, err := s.client.Validate(ctx, archivePath, checks)
	if err != nil {
		progress.Fail(err)
		return nil, err
	}
	progress.Increment(fmt.Sprintf("validated: %s", summaryLine(report)))

	record := &types.SavedReport{
		ID:      uuid.New().String(),
		Archive: archivePath,
		Created: time.Now().UTC().Format(time.RFC3339),
		Checks:  checks,
		Report:  *report,
	}
	path, err := s.saveReport(record)
	if err != nil {
		// A report that can't be cached is still a report; warn and go on.
		s.ui.ShowWarning("Report Not Saved", err.Error())
	} else {
		progress.Increment(fmt.Sprintf("saved %s", path))
	}

	progress.Complete()
	return record, nil
}

// saveReport writes the record under .comsof-validate/reports/ so `export`
// can pick it up later.
func (s *ValidateService) saveReport(record *types.SavedReport) (string, error) {
	dir := filepath.Join(s.rootDir, WorkDir, ReportsDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s_%s.json",
		strings.TrimSuffix(filepath.Base(record.Archive), ".zip"),
		strings.ReplaceAll(record.Created, ":", "-"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

func summaryLine(report *types.ValidationReport) string {
	s := report.Summary()
	return fmt.Sprintf("%s passed, %d failed, %d errors",
		Pluralize(s.Passed, "check", "checks"), s.Failed, s.Errors)
}
