// Package cli provides shell completion script generation for various shells.
package cli

import (
	"fmt"
	"io"
)

// GenerateCompletion generates a shell completion script for the specified shell.
//
// Parameters:
//   - out: The writer to output the completion script.
//   - shell: The shell type ("bash", "zsh", "fish", "powershell").
//   - kernels: List of available kernel variant names.
//
// Returns:
//   - error: An error if the shell is not supported.
func GenerateCompletion(out io.Writer, shell string, kernels []string) error {
	switch shell {
	case "bash":
		return generateBashCompletion(out, kernels)
	case "zsh":
		return generateZshCompletion(out, kernels)
	case "fish":
		return generateFishCompletion(out, kernels)
	case "powershell", "ps":
		return generatePowerShellCompletion(out, kernels)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish, powershell)", shell)
	}
}

func joinList(items []string, sep string) string {
	list := ""
	for i, item := range items {
		if i > 0 {
			list += sep
		}
		list += item
	}
	return list
}

// generateBashCompletion generates a Bash completion script.
func generateBashCompletion(out io.Writer, kernels []string) error {
	script := `# Bash completion script for grfc
# Add this to your ~/.bashrc or ~/.bash_completion

_grfc_completions() {
    local cur prev opts kernels
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    # Main options
    opts="--help -h --version -V --precision --samples --m-span --sigma --j --threshold --k-lo --k-hi --search-timeout-ms --allow-whitelisted-challenge --kernel-variant --newton-iterations --stability-check --workers --calibration-profile --json --server --port --no-color --output-file --quiet -q -v --hex --interactive --completion --batch"

    # Available kernel variants
    kernels="%s"

    case "${prev}" in
        --kernel-variant)
            COMPREPLY=( $(compgen -W "${kernels}" -- "${cur}") )
            return 0
            ;;
        --completion)
            COMPREPLY=( $(compgen -W "bash zsh fish powershell" -- "${cur}") )
            return 0
            ;;
        --output-file|--calibration-profile|--batch)
            # File/directory completion
            COMPREPLY=( $(compgen -f -- "${cur}") )
            return 0
            ;;
        --port)
            COMPREPLY=( $(compgen -W "8080 3000 5000 9000" -- "${cur}") )
            return 0
            ;;
        --search-timeout-ms)
            COMPREPLY=( $(compgen -W "1000 5000 30000 60000" -- "${cur}") )
            return 0
            ;;
        --samples|--m-span|--j|--workers)
            COMPREPLY=( $(compgen -W "1 4 8 100 1000 20000" -- "${cur}") )
            return 0
            ;;
    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
        return 0
    fi
}

complete -F _grfc_completions grfc
`
	_, err := fmt.Fprintf(out, script, joinList(kernels, " "))
	return err
}

// generateZshCompletion generates a Zsh completion script.
func generateZshCompletion(out io.Writer, kernels []string) error {
	script := `#compdef grfc

# Zsh completion script for grfc
# Add this to your ~/.zshrc or place in $fpath

_grfc() {
    local -a kernels
    kernels=(%s)

    _arguments -s \
        '(-h --help)'{-h,--help}'[Show help message]' \
        '(-V --version)'{-V,--version}'[Show version information]' \
        '-v[Display full factor values]' \
        '--precision[Floor for digit count]:digits:' \
        '--samples[Maximum outer-loop iterations over k]:count:' \
        '--m-span[Inner sweep half-width]:span:' \
        '--sigma[Gaussian kernel width]:sigma:' \
        '--j[Dirichlet kernel half-width]:j:' \
        '--threshold[Minimum accepted amplitude]:threshold:' \
        '--k-lo[Low end of the k sampling window]:k_lo:' \
        '--k-hi[High end of the k sampling window]:k_hi:' \
        '--search-timeout-ms[Wall-clock budget in milliseconds]:ms:(1000 5000 30000 60000)' \
        '--allow-whitelisted-challenge[Bypass the gate for the named challenge]' \
        '--kernel-variant[Kernel variant]:variant:($kernels)' \
        '--newton-iterations[Snap refinement iterations]:n:(0 1 2 3)' \
        '--stability-check[Enable the amplitude-crossing stability guard]' \
        '--workers[Inner m-sweep worker pool size]:workers:' \
        '--calibration-profile[Calibration profile file]:file:_files' \
        '--json[Output in JSON format]' \
        '--server[Start HTTP server mode]' \
        '--port[Server port]:port:(8080 3000 5000 9000)' \
        '--no-color[Disable colored output]' \
        '--output-file[Output file path]:file:_files' \
        '(-q --quiet)'{-q,--quiet}'[Quiet mode for scripts]' \
        '--hex[Display factors in hexadecimal]' \
        '--interactive[Start interactive REPL mode]' \
        '--batch[File of N values to factor concurrently]:file:_files' \
        '--completion[Generate completion script]:shell:(bash zsh fish powershell)'
}

_grfc "$@"
`
	_, err := fmt.Fprintf(out, script, joinList(kernels, " "))
	return err
}

// generateFishCompletion generates a Fish completion script.
func generateFishCompletion(out io.Writer, kernels []string) error {
	script := `# Fish completion script for grfc
# Add this to ~/.config/fish/completions/grfc.fish

# Disable file completion by default
complete -c grfc -f

# Help and version
complete -c grfc -s h -l help -d 'Show help message'
complete -c grfc -s V -l version -d 'Show version information'

# Main options
complete -c grfc -s v -d 'Display full factor values'
complete -c grfc -l precision -d 'Floor for digit count' -x
complete -c grfc -l samples -d 'Maximum outer-loop iterations over k' -x
complete -c grfc -l m-span -d 'Inner sweep half-width' -x
complete -c grfc -l sigma -d 'Gaussian kernel width' -x
complete -c grfc -l j -d 'Dirichlet kernel half-width' -x
complete -c grfc -l threshold -d 'Minimum accepted amplitude' -x
complete -c grfc -l k-lo -d 'Low end of the k sampling window' -x
complete -c grfc -l k-hi -d 'High end of the k sampling window' -x
complete -c grfc -l search-timeout-ms -d 'Wall-clock budget in milliseconds' -xa '1000 5000 30000 60000'
complete -c grfc -l allow-whitelisted-challenge -d 'Bypass the gate for the named challenge'
complete -c grfc -l kernel-variant -d 'Kernel variant' -xa '%s'
complete -c grfc -l newton-iterations -d 'Snap refinement iterations' -xa '0 1 2 3'
complete -c grfc -l stability-check -d 'Enable the amplitude-crossing stability guard'
complete -c grfc -l workers -d 'Inner m-sweep worker pool size' -x

# Calibration
complete -c grfc -l calibration-profile -d 'Calibration profile file' -rF

# Output options
complete -c grfc -l json -d 'Output in JSON format'
complete -c grfc -l output-file -d 'Output file path' -rF
complete -c grfc -s q -l quiet -d 'Quiet mode for scripts'
complete -c grfc -l hex -d 'Display factors in hexadecimal'
complete -c grfc -l no-color -d 'Disable colored output'

# Server mode
complete -c grfc -l server -d 'Start HTTP server mode'
complete -c grfc -l port -d 'Server port' -xa '8080 3000 5000 9000'

# Interactive, batch and completion
complete -c grfc -l interactive -d 'Start interactive REPL mode'
complete -c grfc -l batch -d 'File of N values to factor concurrently' -rF
complete -c grfc -l completion -d 'Generate completion script' -xa 'bash zsh fish powershell'
`
	_, err := fmt.Fprintf(out, script, joinList(kernels, " "))
	return err
}

// generatePowerShellCompletion generates a PowerShell completion script.
func generatePowerShellCompletion(out io.Writer, kernels []string) error {
	script := `# PowerShell completion script for grfc
# Add this to your $PROFILE

$grfcKernels = @(%s)

Register-ArgumentCompleter -CommandName 'grfc' -Native -ScriptBlock {
    param($wordToComplete, $commandAst, $cursorPosition)

    $options = @(
        @{Name = '-h'; Description = 'Show help message' }
        @{Name = '--help'; Description = 'Show help message' }
        @{Name = '-V'; Description = 'Show version information' }
        @{Name = '--version'; Description = 'Show version information' }
        @{Name = '-v'; Description = 'Display full factor values' }
        @{Name = '--precision'; Description = 'Floor for digit count' }
        @{Name = '--samples'; Description = 'Maximum outer-loop iterations over k' }
        @{Name = '--m-span'; Description = 'Inner sweep half-width' }
        @{Name = '--sigma'; Description = 'Gaussian kernel width' }
        @{Name = '--j'; Description = 'Dirichlet kernel half-width' }
        @{Name = '--threshold'; Description = 'Minimum accepted amplitude' }
        @{Name = '--k-lo'; Description = 'Low end of the k sampling window' }
        @{Name = '--k-hi'; Description = 'High end of the k sampling window' }
        @{Name = '--search-timeout-ms'; Description = 'Wall-clock budget in milliseconds' }
        @{Name = '--allow-whitelisted-challenge'; Description = 'Bypass the gate for the named challenge' }
        @{Name = '--kernel-variant'; Description = 'Kernel variant' }
        @{Name = '--newton-iterations'; Description = 'Snap refinement iterations' }
        @{Name = '--stability-check'; Description = 'Enable the amplitude-crossing stability guard' }
        @{Name = '--workers'; Description = 'Inner m-sweep worker pool size' }
        @{Name = '--calibration-profile'; Description = 'Calibration profile file' }
        @{Name = '--json'; Description = 'Output in JSON format' }
        @{Name = '--server'; Description = 'Start HTTP server mode' }
        @{Name = '--port'; Description = 'Server port' }
        @{Name = '--no-color'; Description = 'Disable colored output' }
        @{Name = '--output-file'; Description = 'Output file path' }
        @{Name = '-q'; Description = 'Quiet mode for scripts' }
        @{Name = '--quiet'; Description = 'Quiet mode for scripts' }
        @{Name = '--hex'; Description = 'Display factors in hexadecimal' }
        @{Name = '--interactive'; Description = 'Start interactive REPL mode' }
        @{Name = '--batch'; Description = 'File of N values to factor concurrently' }
        @{Name = '--completion'; Description = 'Generate completion script' }
    )

    $elements = $commandAst.CommandElements
    $lastElement = if ($elements.Count -gt 1) { $elements[-1].ToString() } else { '' }
    $prevElement = if ($elements.Count -gt 2) { $elements[-2].ToString() } else { '' }

    # Context-aware completions
    switch ($prevElement) {
        '--kernel-variant' {
            $grfcKernels | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
                [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
            }
            return
        }
        '--completion' {
            @('bash', 'zsh', 'fish', 'powershell') | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
                [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
            }
            return
        }
        '--search-timeout-ms' {
            @('1000', '5000', '30000', '60000') | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
                [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
            }
            return
        }
        '--port' {
            @('8080', '3000', '5000', '9000') | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
                [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
            }
            return
        }
    }

    # Default: show options
    $options | Where-Object { $_.Name -like "$wordToComplete*" } | ForEach-Object {
        [System.Management.Automation.CompletionResult]::new($_.Name, $_.Name, 'ParameterName', $_.Description)
    }
}
`
	quoted := make([]string, len(kernels))
	for i, k := range kernels {
		quoted[i] = fmt.Sprintf("'%s'", k)
	}
	_, err := fmt.Fprintf(out, script, joinList(quoted, ", "))
	return err
}
