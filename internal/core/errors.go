package core

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the user-facing failure classes the UI distinguishes.
var (
	// ErrNoFile means no archive path was given or the file does not exist.
	ErrNoFile = errors.New("no file selected")
	// ErrNotZip means the file is not a ZIP archive (wrong extension or content).
	ErrNotZip = errors.New("file must be a ZIP archive")
	// ErrFileTooLarge means the archive exceeds the upload ceiling, either
	// locally or via an HTTP 413 from the backend.
	ErrFileTooLarge = errors.New("file too large")
)

// BackendError carries an error message returned by the backend together
// with the HTTP status it arrived with.
type BackendError struct {
	StatusCode int
	Message    string
}

func (e *BackendError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned HTTP %d: %s", e.StatusCode, e.Message)
}

// IsNetworkError reports whether err looks like a connectivity failure
// rather than a backend response.
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "network is unreachable") ||
		strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "i/o timeout") ||
		strings.Contains(errStr, "dial tcp")
}

// UserMessage maps an error onto the message shown in the UI, mirroring the
// browser client's branching (too large / wrong type / network / generic).
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrFileTooLarge):
		return "File too large. Maximum upload size is 500MB."
	case errors.Is(err, ErrNotZip):
		return "Please select a ZIP file containing Comsof output shapefiles."
	case errors.Is(err, ErrNoFile):
		return "No file selected."
	case IsNetworkError(err):
		return "Network error. Is the validation backend reachable?"
	default:
		var be *BackendError
		if errors.As(err, &be) && be.Message != "" {
			return be.Message
		}
		return err.Error()
	}
}
