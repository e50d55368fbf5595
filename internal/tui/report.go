package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mverbist/comsof-validate/internal/types"
)

var (
	cardPass = styleCard.Copy().BorderForeground(lipgloss.Color("#00FF00"))
	cardFail = styleCard.Copy().BorderForeground(lipgloss.Color("#FF0000"))
	cardErr  = styleCard.Copy().BorderForeground(lipgloss.Color("#FFA500"))
)

// RenderReport prints one bordered card per check result, the way the
// browser UI shows them, followed by a summary line.
func RenderReport(report *types.ValidationReport) {
	fmt.Println()
	fmt.Println(styleTitle.Render("Validation Report") + styleDim.Render("  "+report.Filename))
	fmt.Println()

	for _, result := range report.Results {
		fmt.Println(renderCard(result))
	}

	fmt.Println(renderSummary(report))
}

func renderCard(result types.CheckResult) string {
	var style lipgloss.Style
	var badge string
	switch result.Status {
	case types.StatusPass:
		style, badge = cardPass, styleSuccess.Render("✔ Passed")
	case types.StatusFail:
		style, badge = cardFail, styleErr.Render("✖ Failed")
	default:
		style, badge = cardErr, styleWarn.Render("⛔ Error")
	}

	body := lipgloss.NewStyle().Bold(true).Render(result.Name) + "  " + badge
	if msg := strings.TrimSpace(result.Message); msg != "" {
		body += "\n" + styleDim.Render(msg)
	}
	return style.Render(body)
}

func renderSummary(report *types.ValidationReport) string {
	s := report.Summary()
	parts := []string{
		styleSuccess.Render(fmt.Sprintf("%d passed", s.Passed)),
	}
	if s.Failed > 0 {
		parts = append(parts, styleErr.Render(fmt.Sprintf("%d failed", s.Failed)))
	}
	if s.Errors > 0 {
		parts = append(parts, styleWarn.Render(fmt.Sprintf("%d errors", s.Errors)))
	}
	line := strings.Join(parts, styleDim.Render(" · "))
	if report.Clean() {
		return line + "  " + styleSuccess.Render("✔ All checks passed")
	}
	return line
}

// indentLines prefixes every line after the first with the given indent.
func indentLines(s, indent string) string {
	return strings.ReplaceAll(s, "\n", "\n"+indent)
}
