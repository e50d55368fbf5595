// Package types defines the data structures shared between the validation
// client, the terminal UI, and the web fallback.
package types

import (
	"encoding/json"
	"fmt"
)

// Status is the three-valued outcome of a single check.
//
// The validation API encodes status as an inverted boolean: `true` means the
// check found problems (FAIL), `false` means it found none (PASS), and `null`
// means the check itself could not run (ERROR).
type Status int

// Status values.
const (
	StatusPass Status = iota
	StatusFail
	StatusError
)

// String returns the human-readable label used in reports and PDF exports.
func (s Status) String() string {
	switch s {
	case StatusPass:
		return "Passed"
	case StatusFail:
		return "Failed"
	default:
		return "Error"
	}
}

// MarshalJSON encodes the inverted-boolean wire form.
func (s Status) MarshalJSON() ([]byte, error) {
	switch s {
	case StatusPass:
		return []byte("false"), nil
	case StatusFail:
		return []byte("true"), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes the inverted-boolean wire form.
func (s *Status) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "false":
		*s = StatusPass
	case "true":
		*s = StatusFail
	case "null":
		*s = StatusError
	default:
		return fmt.Errorf("invalid status value %q (want true, false, or null)", string(data))
	}
	return nil
}

// CheckResult is one result tuple from the validation endpoint.
// On the wire it is a 3-element array: [name, status, message].
type CheckResult struct {
	Name    string
	Status  Status
	Message string
}

// MarshalJSON encodes the result as its wire tuple.
func (r CheckResult) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]interface{}{r.Name, r.Status, r.Message})
}

// UnmarshalJSON decodes a [name, status, message] tuple.
func (r *CheckResult) UnmarshalJSON(data []byte) error {
	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return fmt.Errorf("result tuple: %w", err)
	}
	if len(tuple) != 3 {
		return fmt.Errorf("result tuple has %d elements (want 3)", len(tuple))
	}
	if err := json.Unmarshal(tuple[0], &r.Name); err != nil {
		return fmt.Errorf("result tuple name: %w", err)
	}
	if err := json.Unmarshal(tuple[1], &r.Status); err != nil {
		return fmt.Errorf("result tuple status for %q: %w", r.Name, err)
	}
	if err := json.Unmarshal(tuple[2], &r.Message); err != nil {
		return fmt.Errorf("result tuple message for %q: %w", r.Name, err)
	}
	return nil
}

// ValidationReport is the success body of the validation endpoint.
type ValidationReport struct {
	Filename string        `json:"filename"`
	Results  []CheckResult `json:"results"`
}

// ReportSummary counts results per status.
type ReportSummary struct {
	Passed int
	Failed int
	Errors int
}

// Total returns the number of checks that ran.
func (s ReportSummary) Total() int {
	return s.Passed + s.Failed + s.Errors
}

// Summary tallies the report's results per status.
func (r *ValidationReport) Summary() ReportSummary {
	var s ReportSummary
	for _, res := range r.Results {
		switch res.Status {
		case StatusPass:
			s.Passed++
		case StatusFail:
			s.Failed++
		default:
			s.Errors++
		}
	}
	return s
}

// Clean reports whether every check passed.
func (r *ValidationReport) Clean() bool {
	s := r.Summary()
	return s.Failed == 0 && s.Errors == 0
}

// ExportRequest is the body of the PDF export endpoint.
type ExportRequest struct {
	Results  []CheckResult `json:"results"`
	Filename string        `json:"filename"`
}

// HealthStatus is the body of the health endpoint.
type HealthStatus struct {
	Status  string `json:"status"`
	Service string `json:"service,omitempty"`
}

// Healthy reports whether the backend declared itself healthy.
func (h HealthStatus) Healthy() bool {
	return h.Status == "healthy"
}

// SavedReport is the on-disk record written after each validation run, so a
// PDF can be exported later without re-uploading the archive.
type SavedReport struct {
	ID      string           `json:"id"`
	Archive string           `json:"archive"`
	Created string           `json:"created"` // RFC3339
	Checks  []string         `json:"checks,omitempty"`
	Report  ValidationReport `json:"report"`
}
