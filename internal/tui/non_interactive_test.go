package tui

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/mverbist/comsof-validate/internal/core"
	"github.com/mverbist/comsof-validate/internal/types"
)

// captureStdout runs fn and returns everything it wrote to stdout.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	oldStderr := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	fn()

	_ = w.Close()
	os.Stderr = oldStderr

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

func reportFixture() *types.ValidationReport {
	return &types.ValidationReport{
		Filename: "MRO_export.zip",
		Results: []types.CheckResult{
			{Name: "OSC Duplicates Check", Status: types.StatusPass, Message: "No duplicated OSCs found"},
			{Name: "Splice Count Report", Status: types.StatusFail, Message: "closure C-12 over budget"},
		},
	}
}

func TestNonInteractiveShowError_Quiet(t *testing.T) {
	callback := NewNonInteractiveTUICallback(core.NonInteractiveFlags{Mode: core.OutputQuiet})

	out := captureStderr(t, func() {
		callback.ShowError("Validation Failed", "This should not appear")
	})

	if out != "" {
		t.Errorf("Expected no output in quiet mode, got: %s", out)
	}
}

func TestNonInteractiveShowError_JSON(t *testing.T) {
	callback := NewNonInteractiveTUICallback(core.NonInteractiveFlags{Mode: core.OutputJSON})

	out := captureStdout(t, func() {
		callback.ShowError("Validation Failed", "backend returned HTTP 502")
	})

	var output core.JSONOutput
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("Failed to parse JSON output: %v", err)
	}
	if output.Status != "error" {
		t.Errorf("Expected status 'error', got '%s'", output.Status)
	}
	if output.Error == nil || output.Error.Title != "Validation Failed" {
		t.Errorf("Unexpected error object: %+v", output.Error)
	}
}

func TestNonInteractiveShowReport_JSON(t *testing.T) {
	callback := NewNonInteractiveTUICallback(core.NonInteractiveFlags{Mode: core.OutputJSON})

	out := captureStdout(t, func() {
		callback.ShowReport(reportFixture())
	})

	// The JSON report must round-trip through the wire encoding.
	var report types.ValidationReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("Failed to parse report JSON: %v", err)
	}
	if report.Filename != "MRO_export.zip" {
		t.Errorf("Expected filename 'MRO_export.zip', got '%s'", report.Filename)
	}
	if len(report.Results) != 2 || report.Results[1].Status != types.StatusFail {
		t.Errorf("Unexpected results: %+v", report.Results)
	}
}

func TestNonInteractiveShowReport_Plain(t *testing.T) {
	callback := NewNonInteractiveTUICallback(core.NonInteractiveFlags{Mode: core.OutputNormal})

	out := captureStdout(t, func() {
		callback.ShowReport(reportFixture())
	})

	if !strings.Contains(out, "Passed: OSC Duplicates Check") {
		t.Errorf("Expected passing line in output, got: %s", out)
	}
	if !strings.Contains(out, "Failed: Splice Count Report") {
		t.Errorf("Expected failing line in output, got: %s", out)
	}
	if !strings.Contains(out, "1 passed, 1 failed, 0 errors") {
		t.Errorf("Expected summary line in output, got: %s", out)
	}
}

func TestNonInteractiveShowReport_Quiet(t *testing.T) {
	callback := NewNonInteractiveTUICallback(core.NonInteractiveFlags{Mode: core.OutputQuiet})

	out := captureStdout(t, func() {
		callback.ShowReport(reportFixture())
	})

	if out != "" {
		t.Errorf("Expected no output in quiet mode, got: %s", out)
	}
}

func TestNonInteractiveAskConfirmation(t *testing.T) {
	// With --yes, confirmations auto-approve
	callback := NewNonInteractiveTUICallback(core.NonInteractiveFlags{Yes: true})
	if !callback.AskConfirmation("Upload?", "500MB archive") {
		t.Error("Expected auto-approve with Yes flag")
	}
	if !callback.IsAutoApprove() {
		t.Error("Expected IsAutoApprove to be true")
	}

	// Without --yes, confirmations fail for safety
	callback = NewNonInteractiveTUICallback(core.NonInteractiveFlags{Mode: core.OutputQuiet})
	if callback.AskConfirmation("Upload?", "500MB archive") {
		t.Error("Expected confirmation to fail without Yes flag")
	}
}
