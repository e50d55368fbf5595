package core

import (
	"github.com/mverbist/comsof-validate/internal/types"
)

// UICallback handles user interaction during validation operations
type UICallback interface {
	ShowError(title, message string)
	ShowSuccess(message string)
	ShowWarning(title, message string)
	AskConfirmation(title, message string) bool
	ShowReport(report *types.ValidationReport)
	StyleTitle(title string) string

	// Non-interactive mode support
	GetOutputMode() OutputMode
	IsAutoApprove() bool
	FormatJSON(output JSONOutput) error
}

// SilentUICallback is a no-op implementation (for testing/CI)
type SilentUICallback struct{}

func (s *SilentUICallback) ShowError(title, message string)           {}
func (s *SilentUICallback) ShowSuccess(message string)                {}
func (s *SilentUICallback) ShowWarning(title, message string)         {}
func (s *SilentUICallback) AskConfirmation(title, msg string) bool    { return false }
func (s *SilentUICallback) ShowReport(report *types.ValidationReport) {}
func (s *SilentUICallback) StyleTitle(title string) string            { return title }
func (s *SilentUICallback) GetOutputMode() OutputMode                 { return OutputNormal }
func (s *SilentUICallback) IsAutoApprove() bool                       { return false }
func (s *SilentUICallback) FormatJSON(output JSONOutput) error        { return nil }
