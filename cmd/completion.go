// Package cmd provides CLI utilities for comsof-validate
package cmd

import (
	"fmt"
	"strings"
)

// Commands available in comsof-validate
var commands = []string{
	"init",
	"validate",
	"export",
	"checks",
	"health",
	"watch",
	"serve",
	"completion",
	"help",
}

// GenerateBashCompletion generates bash completion script
func GenerateBashCompletion() string {
	return fmt.Sprintf(`# bash completion for comsof-validate
_comsof_validate_completions() {
    local cur prev opts
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    # Commands
    opts="%s"

    # Command-specific options
    case "${prev}" in
        validate)
            opts="--checks --pdf --yes -y --quiet -q --json"
            ;;
        export)
            opts="last --out --quiet -q --json"
            ;;
        watch)
            opts="--checks"
            ;;
        serve)
            opts="--addr"
            ;;
        checks|health)
            opts="--quiet -q --json"
            ;;
        completion)
            opts="bash zsh fish powershell"
            ;;
        init)
            opts=""
            ;;
    esac

    COMPREPLY=( $(compgen -W "${opts}" -- ${cur}) )
    return 0
}

complete -F _comsof_validate_completions comsof-validate
`, strings.Join(commands, " "))
}

// GenerateZshCompletion generates zsh completion script
func GenerateZshCompletion() string {
	cmdList := make([]string, len(commands))
	for i, cmd := range commands {
		desc := getCommandDescription(cmd)
		cmdList[i] = fmt.Sprintf("    '%s:%s'", cmd, desc)
	}

	return fmt.Sprintf(`#compdef comsof-validate

_comsof_validate() {
    local -a commands
    commands=(
%s
    )

    _arguments -C \
        '1: :->command' \
        '*::arg:->args'

    case $state in
        command)
            _describe 'command' commands
            ;;
        args)
            case $words[1] in
                validate)
                    _arguments \
                        '--checks[Run only the named checks]:checks:' \
                        '--pdf[Export a PDF afterwards]::file:_files' \
                        '--yes[Skip confirmation]' \
                        '-y[Skip confirmation]' \
                        '--quiet[Minimal output]' \
                        '-q[Minimal output]' \
                        '--json[JSON output]' \
                        '1:archive:_files -g "*.zip"'
                    ;;
                export)
                    _arguments \
                        '--out[Output path]:file:_files' \
                        '--quiet[Minimal output]' \
                        '-q[Minimal output]' \
                        '--json[JSON output]' \
                        '1:report:_files -g "*.json"'
                    ;;
                watch)
                    _arguments \
                        '--checks[Run only the named checks]:checks:' \
                        '1:directory:_directories'
                    ;;
                serve)
                    _arguments '--addr[Listen address]:addr:'
                    ;;
                checks|health)
                    _arguments \
                        '--quiet[Minimal output]' \
                        '-q[Minimal output]' \
                        '--json[JSON output]'
                    ;;
                completion)
                    _arguments '1:shell:(bash zsh fish powershell)'
                    ;;
            esac
            ;;
    esac
}

_comsof_validate "$@"
`, strings.Join(cmdList, "\n"))
}

// GenerateFishCompletion generates fish completion script
func GenerateFishCompletion() string {
	var completions []string

	// Add command completions
	for _, cmd := range commands {
		desc := getCommandDescription(cmd)
		completions = append(completions, fmt.Sprintf("complete -c comsof-validate -f -n '__fish_use_subcommand' -a '%s' -d '%s'", cmd, desc))
	}

	// Add flag completions
	completions = append(completions, "# validate command flags")
	completions = append(completions, "complete -c comsof-validate -n '__fish_seen_subcommand_from validate' -l checks -d 'Run only the named checks' -r")
	completions = append(completions, "complete -c comsof-validate -n '__fish_seen_subcommand_from validate' -l pdf -d 'Export a PDF afterwards'")
	completions = append(completions, "complete -c comsof-validate -n '__fish_seen_subcommand_from validate' -l yes -s y -d 'Skip confirmation'")
	completions = append(completions, "complete -c comsof-validate -n '__fish_seen_subcommand_from validate' -l quiet -s q -d 'Minimal output'")
	completions = append(completions, "complete -c comsof-validate -n '__fish_seen_subcommand_from validate' -l json -d 'JSON output'")

	completions = append(completions, "# export command flags")
	completions = append(completions, "complete -c comsof-validate -n '__fish_seen_subcommand_from export' -l out -d 'Output path' -r")

	completions = append(completions, "# watch command flags")
	completions = append(completions, "complete -c comsof-validate -n '__fish_seen_subcommand_from watch' -l checks -d 'Run only the named checks' -r")

	completions = append(completions, "# serve command flags")
	completions = append(completions, "complete -c comsof-validate -n '__fish_seen_subcommand_from serve' -l addr -d 'Listen address' -r")

	completions = append(completions, "# checks/health flags")
	completions = append(completions, "complete -c comsof-validate -n '__fish_seen_subcommand_from checks health' -l quiet -s q -d 'Minimal output'")
	completions = append(completions, "complete -c comsof-validate -n '__fish_seen_subcommand_from checks health' -l json -d 'JSON output'")

	completions = append(completions, "# completion command shells")
	completions = append(completions, "complete -c comsof-validate -n '__fish_seen_subcommand_from completion' -f -a 'bash zsh fish powershell'")

	return strings.Join(completions, "\n")
}

// GeneratePowerShellCompletion generates PowerShell completion script
func GeneratePowerShellCompletion() string {
	cmdArray := make([]string, len(commands))
	for i, cmd := range commands {
		cmdArray[i] = fmt.Sprintf("'%s'", cmd)
	}

	return fmt.Sprintf(`# PowerShell completion for comsof-validate
Register-ArgumentCompleter -Native -CommandName comsof-validate -ScriptBlock {
    param($wordToComplete, $commandAst, $cursorPosition)

    $commands = @(%s)

    $line = $commandAst.ToString()
    $tokens = $line.Split(' ')

    if ($tokens.Count -eq 2) {
        # Complete command
        $commands | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
        }
    }
    elseif ($tokens.Count -gt 2) {
        $subcommand = $tokens[1]

        switch ($subcommand) {
            'validate' {
                @('--checks', '--pdf', '--yes', '-y', '--quiet', '-q', '--json') |
                    Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
                        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
                    }
            }
            'export' {
                @('last', '--out', '--quiet', '-q', '--json') |
                    Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
                        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
                    }
            }
            'watch' {
                @('--checks') |
                    Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
                        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
                    }
            }
            'serve' {
                @('--addr') |
                    Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
                        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
                    }
            }
            { $_ -in 'checks','health' } {
                @('--quiet', '-q', '--json') |
                    Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
                        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
                    }
            }
            'completion' {
                @('bash', 'zsh', 'fish', 'powershell') |
                    Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
                        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
                    }
            }
        }
    }
}
`, strings.Join(cmdArray, ", "))
}

// getCommandDescription returns a short description for a command
func getCommandDescription(cmd string) string {
	descriptions := map[string]string{
		"init":       "Write a default config file",
		"validate":   "Validate a Comsof ZIP export",
		"export":     "Export a saved report as PDF",
		"checks":     "List the available checks",
		"health":     "Probe the validation backend",
		"watch":      "Watch a directory for new exports",
		"serve":      "Run the browser fallback UI",
		"completion": "Generate shell completion script",
		"help":       "Show help information",
	}

	if desc, ok := descriptions[cmd]; ok {
		return desc
	}
	return ""
}
