package cmd

import (
	"fmt"
	"os"
)

// Completion outputs shell completion scripts
func Completion(shell string) {
	switch shell {
	case "bash":
		fmt.Print(bashCompletion)
	case "zsh":
		fmt.Print(zshCompletion)
	case "fish":
		fmt.Print(fishCompletion)
	default:
		fmt.Fprintf(os.Stderr, "Unknown shell: %s\nSupported: bash, zsh, fish\n", shell)
		os.Exit(1)
	}
}

const bashCompletion = `_vitalock() {
    local cur prev words cword
    _init_completion || return

    local commands="status add pull list export open diff lock help completion"
    local kinds="step-count sleep-duration heart-rate"

    if [[ $cword -eq 1 ]]; then
        COMPREPLY=($(compgen -W "$commands" -- "$cur"))
        return
    fi

    if [[ "$prev" == "--kind" ]]; then
        COMPREPLY=($(compgen -W "$kinds" -- "$cur"))
        return
    fi

    local cmd="${words[1]}"
    case "$cmd" in
        add)
            COMPREPLY=($(compgen -W "--kind --value --unit --start --end --source --verbose --debug" -- "$cur"))
            ;;
        pull)
            if [[ "$cur" == -* ]]; then
                COMPREPLY=($(compgen -W "--kind --from --to --verbose --debug" -- "$cur"))
            else
                _filedir
            fi
            ;;
        list)
            COMPREPLY=($(compgen -W "--kind --from --to --limit --verbose --debug" -- "$cur"))
            ;;
        export)
            COMPREPLY=($(compgen -W "--kind --from --to --out --verbose --debug" -- "$cur"))
            ;;
        open|diff)
            if [[ "$cur" == -* ]]; then
                COMPREPLY=($(compgen -W "--out --verbose --debug" -- "$cur"))
            else
                _filedir
            fi
            ;;
        help)
            COMPREPLY=($(compgen -W "$commands" -- "$cur"))
            ;;
        completion)
            COMPREPLY=($(compgen -W "bash zsh fish" -- "$cur"))
            ;;
    esac
}

complete -F _vitalock vitalock
`

const zshCompletion = `#compdef vitalock

_vitalock() {
    local -a commands
    commands=(
        'status:Show vault state without unlocking'
        'add:Record a single metric'
        'pull:Import samples from a health feed file'
        'list:Show records in a time range'
        'export:Seal records into a password-protected file'
        'open:Decrypt an export artifact'
        'diff:Compare an export with the vault'
        'lock:Seal the vault'
        'help:Show help for a command'
        'completion:Generate shell completions'
    )

    _arguments -C \
        '1: :->command' \
        '*: :->args'

    case "$state" in
        command)
            _describe -t commands 'vitalock commands' commands
            ;;
        args)
            case "${words[2]}" in
                add)
                    _arguments \
                        '--kind[Metric kind]:kind:(step-count sleep-duration heart-rate)' \
                        '--value[Metric value]:value:' \
                        '--unit[Unit of measure]:unit:' \
                        '--start[Start time]:time:' \
                        '--end[End time]:time:' \
                        '--source[Originating device or app]:source:'
                    ;;
                pull)
                    _arguments \
                        '--kind[Only import this kind]:kind:(step-count sleep-duration heart-rate)' \
                        '--from[Window start]:time:' \
                        '--to[Window end]:time:' \
                        '*:feed file:_files'
                    ;;
                list|export)
                    _arguments \
                        '--kind[Only this kind]:kind:(step-count sleep-duration heart-rate)' \
                        '--from[Range start]:time:' \
                        '--to[Range end]:time:' \
                        '--out[Output file]:file:_files'
                    ;;
                open|diff)
                    _arguments '--out[Output file]:file:_files' '*:artifact:_files'
                    ;;
                help)
                    _describe -t commands 'vitalock commands' commands
                    ;;
                completion)
                    _values 'shell' bash zsh fish
                    ;;
            esac
            ;;
    esac
}

_vitalock "$@"
`

const fishCompletion = `# vitalock fish completions

set -l commands status add pull list export open diff lock help completion
set -l kinds "step-count sleep-duration heart-rate"

complete -c vitalock -f

# Commands
complete -c vitalock -n "not __fish_seen_subcommand_from $commands" -a status -d 'Show vault state'
complete -c vitalock -n "not __fish_seen_subcommand_from $commands" -a add -d 'Record a single metric'
complete -c vitalock -n "not __fish_seen_subcommand_from $commands" -a pull -d 'Import from a health feed'
complete -c vitalock -n "not __fish_seen_subcommand_from $commands" -a list -d 'Show records'
complete -c vitalock -n "not __fish_seen_subcommand_from $commands" -a export -d 'Seal records to a file'
complete -c vitalock -n "not __fish_seen_subcommand_from $commands" -a open -d 'Decrypt an export'
complete -c vitalock -n "not __fish_seen_subcommand_from $commands" -a diff -d 'Compare export with vault'
complete -c vitalock -n "not __fish_seen_subcommand_from $commands" -a lock -d 'Seal the vault'
complete -c vitalock -n "not __fish_seen_subcommand_from $commands" -a help -d 'Show help'
complete -c vitalock -n "not __fish_seen_subcommand_from $commands" -a completion -d 'Generate completions'

# Kind values
complete -c vitalock -n "__fish_seen_subcommand_from add pull list export" -l kind -a "$kinds" -d 'Metric kind'

# Time range flags
complete -c vitalock -n "__fish_seen_subcommand_from pull list export" -l from -d 'Range start'
complete -c vitalock -n "__fish_seen_subcommand_from pull list export" -l to -d 'Range end'

# add flags
complete -c vitalock -n "__fish_seen_subcommand_from add" -l value -d 'Metric value'
complete -c vitalock -n "__fish_seen_subcommand_from add" -l unit -d 'Unit of measure'
complete -c vitalock -n "__fish_seen_subcommand_from add" -l start -d 'Start time'
complete -c vitalock -n "__fish_seen_subcommand_from add" -l end -d 'End time'
complete -c vitalock -n "__fish_seen_subcommand_from add" -l source -d 'Originating device'

# Output files
complete -c vitalock -n "__fish_seen_subcommand_from export open" -l out -d 'Output file'
complete -c vitalock -n "__fish_seen_subcommand_from pull open diff" -F

# help completions
complete -c vitalock -n "__fish_seen_subcommand_from help" -a "$commands"

# completion completions
complete -c vitalock -n "__fish_seen_subcommand_from completion" -a "bash zsh fish"
`
