// Package main implements the comsof-validate CLI, a client for the Comsof
// shapefile validation backend.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"

	"github.com/mverbist/comsof-validate/cmd"
	"github.com/mverbist/comsof-validate/internal/core"
	"github.com/mverbist/comsof-validate/internal/tui"
	"github.com/mverbist/comsof-validate/internal/types"
	"github.com/mverbist/comsof-validate/internal/version"
	"github.com/mverbist/comsof-validate/internal/web"
)

// parseCommonFlags extracts common non-interactive flags from args
// Returns: flags, remainingArgs
func parseCommonFlags(args []string) (core.NonInteractiveFlags, []string) {
	flags := core.NonInteractiveFlags{}
	var remaining []string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--yes", "-y":
			flags.Yes = true
		case "--quiet", "-q":
			flags.Mode = core.OutputQuiet
		case "--json":
			flags.Mode = core.OutputJSON
		default:
			remaining = append(remaining, args[i])
		}
	}

	return flags, remaining
}

// splitChecks parses a --checks value into check names, warning about
// names that are not in the catalog (they are still forwarded).
func splitChecks(value string, ui core.UICallback) []string {
	var checks []string
	for _, name := range strings.Split(value, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if !core.IsKnownCheck(name) {
			ui.ShowWarning("Unknown Check", fmt.Sprintf("%q is not in the catalog; the backend will reject it", name))
		}
		checks = append(checks, name)
	}
	return checks
}

// isInteractive reports whether we can run wizards and styled output.
func isInteractive(flags core.NonInteractiveFlags) bool {
	return flags.Mode == core.OutputNormal &&
		isatty.IsTerminal(os.Stdout.Fd()) &&
		isatty.IsTerminal(os.Stdin.Fd())
}

// pickUI selects the callback implementation for the current mode.
func pickUI(flags core.NonInteractiveFlags) core.UICallback {
	if isInteractive(flags) {
		return tui.NewTUICallback()
	}
	return tui.NewNonInteractiveTUICallback(flags)
}

// pickProgress selects the progress tracker for the current mode.
func pickProgress(flags core.NonInteractiveFlags, label string) core.ProgressTracker {
	if isInteractive(flags) {
		return tui.NewUploadProgressTracker(3, label)
	}
	if flags.Mode == core.OutputNormal {
		return tui.NewTextProgressTracker(3, label)
	}
	return tui.NewNoOpProgressTracker()
}

func loadConfig(ui core.UICallback) (core.Config, bool) {
	cfg, err := core.LoadConfig(filepath.Join(".", core.WorkDir))
	if err != nil {
		ui.ShowError("Configuration Error", err.Error())
		return cfg, false
	}
	return cfg, true
}

func main() {
	// Load environment overrides from .env files if present (local dev).
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	if len(os.Args) < 2 {
		tui.PrintHelp()
		os.Exit(0)
	}

	command := os.Args[1]

	// Handle help flags
	if command == "--help" || command == "-h" || command == "help" {
		tui.PrintHelp()
		os.Exit(0)
	}

	// Handle version flag
	if command == "--version" {
		fmt.Printf("comsof-validate %s\n", version.Version)
		fmt.Printf("  commit: %s\n", version.Commit)
		fmt.Printf("  built:  %s\n", version.Date)
		os.Exit(0)
	}

	flags, args := parseCommonFlags(os.Args[2:])
	ui := pickUI(flags)

	switch command {
	case "init":
		path, err := core.InitConfig(filepath.Join(".", core.WorkDir))
		if err != nil {
			ui.ShowError("Init Failed", err.Error())
			os.Exit(1)
		}
		ui.ShowSuccess(fmt.Sprintf("Wrote %s", path))

	case "validate":
		runValidate(ui, flags, args)

	case "export":
		runExport(ui, flags, args)

	case "checks":
		runChecks(ui, flags)

	case "health":
		runHealth(ui, flags)

	case "watch":
		runWatch(ui, flags, args)

	case "serve":
		runServe(ui, args)

	case "completion":
		if len(args) < 1 {
			ui.ShowError("Missing Shell", "Usage: comsof-validate completion <bash|zsh|fish|powershell>")
			os.Exit(1)
		}
		switch args[0] {
		case "bash":
			fmt.Print(cmd.GenerateBashCompletion())
		case "zsh":
			fmt.Print(cmd.GenerateZshCompletion())
		case "fish":
			fmt.Print(cmd.GenerateFishCompletion())
		case "powershell":
			fmt.Print(cmd.GeneratePowerShellCompletion())
		default:
			ui.ShowError("Unknown Shell", fmt.Sprintf("Unsupported shell %q", args[0]))
			os.Exit(1)
		}

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		tui.PrintHelp()
		os.Exit(1)
	}
}

func runValidate(ui core.UICallback, flags core.NonInteractiveFlags, args []string) {
	var (
		archivePath string
		checksFlag  string
		exportPDF   bool
		pdfPath     string
	)

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--checks":
			if i+1 < len(args) {
				i++
				checksFlag = args[i]
			}
		case "--pdf":
			exportPDF = true
			if i+1 < len(args) && strings.HasSuffix(args[i+1], ".pdf") {
				i++
				pdfPath = args[i]
			}
		default:
			if archivePath == "" {
				archivePath = args[i]
			}
		}
	}

	cfg, ok := loadConfig(ui)
	if !ok {
		os.Exit(1)
	}

	var checks []string
	if checksFlag != "" {
		checks = splitChecks(checksFlag, ui)
	}

	// Without an archive argument, fall into the wizard (interactive only).
	if archivePath == "" {
		if !isInteractive(flags) {
			ui.ShowError("Missing Archive", "Usage: comsof-validate validate <archive.zip>")
			os.Exit(1)
		}
		selection := tui.RunValidateWizard(cfg.DefaultChecks)
		if selection == nil {
			os.Exit(0)
		}
		archivePath = selection.ArchivePath
		checks = selection.Checks
		exportPDF = exportPDF || selection.ExportPDF
	}

	client := core.NewBackendClient(cfg)
	svc := core.NewValidateService(client, cfg, ".", ui)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	progress := pickProgress(flags, "Validating "+filepath.Base(archivePath))
	record, err := svc.Run(ctx, archivePath, checks, progress)
	if err != nil {
		ui.ShowError("Validation Failed", core.UserMessage(err))
		os.Exit(1)
	}

	ui.ShowReport(&record.Report)

	if exportPDF {
		exportSvc := core.NewExportService(client, ".")
		path, err := exportSvc.Export(ctx, record, pdfPath)
		if err != nil {
			ui.ShowError("PDF Export Failed", core.UserMessage(err))
			os.Exit(1)
		}
		ui.ShowSuccess(fmt.Sprintf("PDF written to %s", path))
	}

	// Non-zero exit when checks failed, so CI pipelines can gate on it.
	if !record.Report.Clean() {
		os.Exit(1)
	}
}

func runExport(ui core.UICallback, flags core.NonInteractiveFlags, args []string) {
	ref := "last"
	var outPath string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--out":
			if i+1 < len(args) {
				i++
				outPath = args[i]
			}
		default:
			ref = args[i]
		}
	}

	cfg, ok := loadConfig(ui)
	if !ok {
		os.Exit(1)
	}

	client := core.NewBackendClient(cfg)
	svc := core.NewExportService(client, ".")

	record, err := svc.LoadReport(ref)
	if err != nil {
		ui.ShowError("Report Not Found", err.Error())
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	path, err := svc.Export(ctx, record, outPath)
	if err != nil {
		ui.ShowError("PDF Export Failed", core.UserMessage(err))
		os.Exit(1)
	}
	ui.ShowSuccess(fmt.Sprintf("PDF written to %s", path))
}

func runChecks(ui core.UICallback, flags core.NonInteractiveFlags) {
	if flags.Mode == core.OutputJSON {
		data := make(map[string]interface{}, len(core.AllChecks))
		for _, name := range core.AllChecks {
			data[name] = core.CheckDescriptions[name]
		}
		_ = ui.FormatJSON(core.JSONOutput{Status: "success", Data: map[string]interface{}{"checks": data}})
		return
	}
	if isInteractive(flags) {
		tui.PrintChecks()
		return
	}
	for _, name := range core.AllChecks {
		fmt.Println(name)
	}
}

func runHealth(ui core.UICallback, flags core.NonInteractiveFlags) {
	cfg, ok := loadConfig(ui)
	if !ok {
		os.Exit(1)
	}

	client := core.NewBackendClient(cfg)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	status, err := client.Health(ctx)
	if err != nil {
		ui.ShowError("Backend Unreachable", core.UserMessage(err))
		os.Exit(1)
	}
	if !status.Healthy() {
		ui.ShowError("Backend Unhealthy", fmt.Sprintf("status: %s", status.Status))
		os.Exit(1)
	}
	ui.ShowSuccess(fmt.Sprintf("Backend healthy (%s)", cfg.BackendURL))
}

func runWatch(ui core.UICallback, flags core.NonInteractiveFlags, args []string) {
	var dir, checksFlag string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--checks":
			if i+1 < len(args) {
				i++
				checksFlag = args[i]
			}
		default:
			if dir == "" {
				dir = args[i]
			}
		}
	}
	if dir == "" {
		ui.ShowError("Missing Directory", "Usage: comsof-validate watch <dir>")
		os.Exit(1)
	}

	cfg, ok := loadConfig(ui)
	if !ok {
		os.Exit(1)
	}

	var checks []string
	if checksFlag != "" {
		checks = splitChecks(checksFlag, ui)
	}

	client := core.NewBackendClient(cfg)
	svc := core.NewValidateService(client, cfg, ".", ui)
	watcher := core.NewWatchService(svc, ui)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := watcher.Watch(ctx, dir, checks, func(record *types.SavedReport) {
		if !record.Report.Clean() {
			s := record.Report.Summary()
			ui.ShowWarning("Problems Found",
				fmt.Sprintf("%s: %d failed, %d errors", filepath.Base(record.Archive), s.Failed, s.Errors))
		}
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		ui.ShowError("Watch Failed", err.Error())
		os.Exit(1)
	}
}

func runServe(ui core.UICallback, args []string) {
	addr := ":8080"
	for i := 0; i < len(args); i++ {
		if args[i] == "--addr" && i+1 < len(args) {
			i++
			addr = args[i]
		}
	}

	cfg, ok := loadConfig(ui)
	if !ok {
		os.Exit(1)
	}

	server, err := web.NewServer(core.NewBackendClient(cfg))
	if err != nil {
		ui.ShowError("Server Setup Failed", err.Error())
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := server.ListenAndServe(ctx, addr); err != nil {
		ui.ShowError("Server Failed", err.Error())
		os.Exit(1)
	}
}
