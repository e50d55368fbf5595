package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mverbist/comsof-validate/internal/core"
	"github.com/mverbist/comsof-validate/internal/version"
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	styleErr     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00"))
	styleWarn    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500"))
	styleDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	styleCard    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).BorderForeground(lipgloss.Color("238"))
)

func check(err error) {
	if err != nil {
		fmt.Println("Aborted.")
		os.Exit(1)
	}
}

// ValidateSelection is the outcome of the validate wizard.
type ValidateSelection struct {
	ArchivePath string
	Checks      []string
	ExportPDF   bool
}

// RunValidateWizard walks the user through archive selection, check
// selection, and upload confirmation. Mirrors the browser flow: pick a ZIP,
// toggle checks, submit. defaultChecks preselects the multi-select; empty
// means all checks.
func RunValidateWizard(defaultChecks []string) *ValidateSelection {
	var archivePath string
	err := huh.NewInput().
		Title("Comsof Export Archive").
		Placeholder("path/to/MRO_export.zip").
		Description("Path to a ZIP archive of Comsof output shapefiles").
		Value(&archivePath).
		Validate(func(s string) error {
			s = strings.TrimSpace(s)
			if s == "" {
				return fmt.Errorf("path cannot be empty")
			}
			info, err := os.Stat(s)
			if err != nil {
				return fmt.Errorf("file not found")
			}
			if info.IsDir() || !strings.HasSuffix(strings.ToLower(s), ".zip") {
				return fmt.Errorf("must be a .zip file")
			}
			return nil
		}).
		Run()
	check(err)
	archivePath = strings.TrimSpace(archivePath)

	// Check multi-select, preselected like the SPA's checkboxes
	selected := defaultChecks
	if len(selected) == 0 {
		selected = append([]string{}, core.AllChecks...)
	}

	var options []huh.Option[string]
	for _, name := range core.AllChecks {
		opt := huh.NewOption(name, name)
		for _, s := range selected {
			if s == name {
				opt = opt.Selected(true)
				break
			}
		}
		options = append(options, opt)
	}

	var checks []string
	err = huh.NewMultiSelect[string]().
		Title("Checks to Run").
		Description("Space toggles, Enter confirms. Deselect all to let the backend decide.").
		Options(options...).
		Value(&checks).
		Run()
	check(err)

	// Confirm upload with the size the backend is about to receive
	sizeNote := ""
	if info, err := os.Stat(archivePath); err == nil {
		sizeNote = fmt.Sprintf("%s (%s)", filepath.Base(archivePath), core.FormatBytes(info.Size()))
	}

	confirm := true
	err = huh.NewConfirm().
		Title("Upload and validate?").
		Description(sizeNote).
		Value(&confirm).
		Run()
	check(err)
	if !confirm {
		fmt.Println("Aborted.")
		return nil
	}

	var exportPDF bool
	err = huh.NewConfirm().
		Title("Export a PDF report afterwards?").
		Value(&exportPDF).
		Run()
	check(err)

	return &ValidateSelection{
		ArchivePath: archivePath,
		Checks:      checks,
		ExportPDF:   exportPDF,
	}
}

// PrintError displays an error message with styling to the terminal.
func PrintError(title, msg string) { fmt.Println(styleErr.Render("✖ " + title)); fmt.Println(msg) }

// PrintSuccess displays a success message with styling to the terminal.
func PrintSuccess(msg string) { fmt.Println(styleSuccess.Render("✔ " + msg)) }

// PrintInfo displays an informational message to the terminal.
func PrintInfo(msg string) {
	fmt.Println(lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render(msg))
}

// PrintWarning displays a warning message with styling to the terminal.
func PrintWarning(title, msg string) { fmt.Println(styleWarn.Render("! " + title)); fmt.Println(msg) }

// StyleTitle applies title styling to the given text string.
func StyleTitle(text string) string { return styleTitle.Render(text) }

// PrintChecks lists the check catalog with descriptions.
func PrintChecks() {
	fmt.Println(styleTitle.Render("Available checks"))
	for _, name := range core.AllChecks {
		fmt.Printf("  %s\n", name)
		if desc := core.CheckDescriptions[name]; desc != "" {
			fmt.Printf("    %s\n", styleDim.Render(desc))
		}
	}
}

// PrintHelp displays usage information for comsof-validate commands.
func PrintHelp() {
	fmt.Println(styleTitle.Render("comsof-validate " + version.GetVersion()))
	fmt.Println("Upload Comsof shapefile exports to the validation backend and work with the reports")
	fmt.Println("\nCommands:")
	fmt.Println("  validate [archive.zip]")
	fmt.Println("                      Validate a ZIP export (interactive wizard without arguments)")
	fmt.Println("    --checks <a,b>    Run only the named checks (comma separated)")
	fmt.Println("    --pdf [file]      Also export a PDF report after validation")
	fmt.Println("  export [report|last]")
	fmt.Println("                      Export a saved report as PDF")
	fmt.Println("    --out <file>      Output path (default: backend-provided filename)")
	fmt.Println("  checks              List the available checks")
	fmt.Println("  health              Probe the validation backend")
	fmt.Println("  watch <dir>         Watch a directory and validate new ZIP exports")
	fmt.Println("    --checks <a,b>    Run only the named checks for every archive")
	fmt.Println("  serve               Run the browser fallback UI")
	fmt.Println("    --addr <host:port>  Listen address (default: :8080)")
	fmt.Println("  init                Write a default " + core.ConfigPath)
	fmt.Println("  completion <shell>  Generate shell completion script (bash/zsh/fish/powershell)")
	fmt.Println("\nGlobal flags:")
	fmt.Println("  --json              Structured JSON output")
	fmt.Println("  --quiet, -q         Minimal output")
	fmt.Println("  --yes, -y           Auto-approve prompts")
	fmt.Println("\nExamples:")
	fmt.Println("  comsof-validate validate")
	fmt.Println("  comsof-validate validate MRO_Gent_Oost.zip")
	fmt.Println("  comsof-validate validate MRO_Gent_Oost.zip --checks \"Cable Diameter Validation,Splice Count Report\"")
	fmt.Println("  comsof-validate validate MRO_Gent_Oost.zip --pdf report.pdf")
	fmt.Println("  comsof-validate export last --out report.pdf")
	fmt.Println("  comsof-validate watch ./exports")
	fmt.Println("  comsof-validate serve --addr :8080")
	fmt.Println("\nNavigation:")
	fmt.Println("  Use arrow keys to navigate, Space to toggle checks, Enter to confirm")
	fmt.Println("  Press Ctrl+C to cancel at any time")
}
