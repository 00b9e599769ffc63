package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vitalock/vitalock/cmd"
	"github.com/vitalock/vitalock/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "status":
		runStatus(ctx, os.Args[2:])
	case "add":
		runAdd(ctx, os.Args[2:])
	case "pull":
		runPull(ctx, os.Args[2:])
	case "list":
		runList(ctx, os.Args[2:])
	case "export":
		runExport(ctx, os.Args[2:])
	case "open":
		runOpen(ctx, os.Args[2:])
	case "diff":
		runDiff(ctx, os.Args[2:])
	case "lock":
		runLock(ctx, os.Args[2:])
	case "completion":
		runCompletion(ctx, os.Args[2:])
	case "help", "-h", "--help":
		if len(os.Args) <= 2 {
			printUsage()
			return
		}
		printCommandHelp(os.Args[2])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// logFlags registers the logging flags every working command shares
func logFlags(fs *flag.FlagSet) (verbose, debug *bool) {
	verbose = fs.Bool("verbose", false, "Report lifecycle transitions")
	debug = fs.Bool("debug", false, "Report internal detail, implies --verbose")
	return verbose, debug
}

func newLogger(verbose, debug *bool) logging.Logger {
	return logging.Logger{Verbose: *verbose || *debug, Debug: *debug}
}

func runStatus(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	verbose, debug := logFlags(fs)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.Status(ctx, newLogger(verbose, debug))
}

func runAdd(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	verbose, debug := logFlags(fs)
	kind := fs.String("kind", "", "Metric kind, e.g. step-count")
	value := fs.Float64("value", 0, "Metric value")
	unit := fs.String("unit", "", "Unit of measure, e.g. bpm")
	start := fs.String("start", "", "Start time (default now)")
	end := fs.String("end", "", "End time for interval metrics")
	source := fs.String("source", "manual", "Originating device or app")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.Add(ctx, newLogger(verbose, debug), cmd.AddOptions{
		Kind:   *kind,
		Value:  *value,
		Unit:   *unit,
		Start:  *start,
		End:    *end,
		Source: *source,
	})
}

func runPull(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("pull", flag.ExitOnError)
	verbose, debug := logFlags(fs)
	kind := fs.String("kind", "", "Only import this metric kind")
	from := fs.String("from", "", "Window start")
	to := fs.String("to", "", "Window end")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: pull requires exactly one feed file\n")
		fmt.Fprintf(os.Stderr, "Usage: vitalock pull [flags] <feed.json>\n")
		os.Exit(1)
	}

	cmd.Pull(ctx, newLogger(verbose, debug), fs.Arg(0), *kind, *from, *to)
}

func runList(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	verbose, debug := logFlags(fs)
	kind := fs.String("kind", "", "Only show this metric kind")
	from := fs.String("from", "", "Range start")
	to := fs.String("to", "", "Range end")
	limit := fs.Int("limit", 0, "Show at most this many records")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.List(ctx, newLogger(verbose, debug), *kind, *from, *to, *limit)
}

func runExport(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	verbose, debug := logFlags(fs)
	kind := fs.String("kind", "", "Only export this metric kind")
	from := fs.String("from", "", "Range start")
	to := fs.String("to", "", "Range end")
	out := fs.String("out", "", "Artifact file to write (default derived from range)")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.Export(ctx, newLogger(verbose, debug), *kind, *from, *to, *out)
}

func runOpen(_ context.Context, args []string) {
	fs := flag.NewFlagSet("open", flag.ExitOnError)
	verbose, debug := logFlags(fs)
	out := fs.String("out", "", "Write the payload here instead of stdout")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: open requires exactly one artifact file\n")
		fmt.Fprintf(os.Stderr, "Usage: vitalock open [flags] <artifact>\n")
		os.Exit(1)
	}

	cmd.Open(newLogger(verbose, debug), fs.Arg(0), *out)
}

func runDiff(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("diff", flag.ExitOnError)
	verbose, debug := logFlags(fs)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: diff requires exactly one artifact file\n")
		fmt.Fprintf(os.Stderr, "Usage: vitalock diff [flags] <artifact>\n")
		os.Exit(1)
	}

	cmd.Diff(ctx, newLogger(verbose, debug), fs.Arg(0))
}

func runLock(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("lock", flag.ExitOnError)
	verbose, debug := logFlags(fs)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.Lock(ctx, newLogger(verbose, debug))
}

func runCompletion(_ context.Context, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: vitalock completion <bash|zsh|fish>")
		os.Exit(1)
	}
	cmd.Completion(args[0])
}

func printUsage() {
	fmt.Println("vitalock - Encrypted personal health metrics store")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  vitalock <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  status      Show vault state without unlocking it")
	fmt.Println("  add         Record a single metric")
	fmt.Println("  pull        Import samples from a health feed file")
	fmt.Println("  list        Show records in a time range")
	fmt.Println("  export      Seal records into a password-protected file")
	fmt.Println("  open        Decrypt an export artifact")
	fmt.Println("  diff        Compare an export artifact with the vault")
	fmt.Println("  lock        Seal the vault")
	fmt.Println("  completion  Generate shell completions")
	fmt.Println("  help        Show help for a command")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  vitalock add --kind heart-rate --value 62 --unit bpm")
	fmt.Println("  vitalock pull watch-feed.json             # Import a feed")
	fmt.Println("  vitalock list --kind step-count --from 2024-03-01")
	fmt.Println("  vitalock export --from 2024-03-01 --to 2024-03-31")
	fmt.Println()
	fmt.Println("Use 'vitalock help <command>' for more information about a command.")
}

func printCommandHelp(command string) {
	switch command {
	case "status":
		fmt.Println("vitalock status")
		fmt.Println()
		fmt.Println("Shows the vault location, sealed size, last sealed time and")
		fmt.Println("whether the platform secret store is reachable.")
		fmt.Println("Never decrypts anything.")
		fmt.Println()
		fmt.Println("Example:")
		fmt.Println("  vitalock status")
	case "add":
		fmt.Println("vitalock add --kind <kind> --value <value> [flags]")
		fmt.Println()
		fmt.Println("Records a single metric. The vault is unlocked for the insert")
		fmt.Println("and sealed again before the command returns.")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  --kind      Metric kind: step-count, sleep-duration, heart-rate, ...")
		fmt.Println("  --value     Numeric value")
		fmt.Println("  --unit      Unit of measure, e.g. bpm, steps, hours")
		fmt.Println("  --start     Start time (RFC3339, \"2006-01-02 15:04\" or date; default now)")
		fmt.Println("  --end       End time, makes the record an interval")
		fmt.Println("  --source    Originating device or app (default \"manual\")")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  vitalock add --kind heart-rate --value 62 --unit bpm")
		fmt.Println("  vitalock add --kind sleep-duration --value 7.5 --unit hours \\")
		fmt.Println("      --start \"2024-03-03 22:45\" --end \"2024-03-04 06:15\"")
	case "pull":
		fmt.Println("vitalock pull [--kind <kind>] [--from <time>] [--to <time>] <feed.json>")
		fmt.Println()
		fmt.Println("Imports samples from a health feed file, a JSON array of")
		fmt.Println("objects with kind, value, unit, start, end and source fields.")
		fmt.Println("Each sample gets its own record id and recorded-at stamp.")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  vitalock pull watch-feed.json")
		fmt.Println("  vitalock pull --kind heart-rate --from 2024-03-01 watch-feed.json")
	case "list":
		fmt.Println("vitalock list [--kind <kind>] [--from <time>] [--to <time>] [--limit <n>]")
		fmt.Println()
		fmt.Println("Shows records ordered by start time. The range keeps records")
		fmt.Println("whose start is at or after --from; records with an end keep it")
		fmt.Println("at or before --to. Omitted bounds are open.")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  vitalock list")
		fmt.Println("  vitalock list --kind step-count --from 2024-03-01 --to 2024-03-31")
	case "export":
		fmt.Println("vitalock export [--kind <kind>] [--from <time>] [--to <time>] [--out <file>]")
		fmt.Println()
		fmt.Println("Renders the matching records as CSV and seals them under a")
		fmt.Println("password of your choosing. The artifact is self-contained:")
		fmt.Println("opening it needs only the password, not this machine's vault key.")
		fmt.Println("Reads VITALOCK_PASSWORD or prompts with confirmation.")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  vitalock export --from 2024-03-01 --to 2024-03-31")
		fmt.Println("  vitalock export --kind heart-rate --out hr.csv.enc")
	case "open":
		fmt.Println("vitalock open [--out <file>] <artifact>")
		fmt.Println()
		fmt.Println("Decrypts an export artifact with its password. Text payloads")
		fmt.Println("print to stdout; anything else needs --out.")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  vitalock open vitalock-2024-03-01-2024-03-31.csv.enc")
		fmt.Println("  vitalock open --out march.csv vitalock-2024-03-01-2024-03-31.csv.enc")
	case "diff":
		fmt.Println("vitalock diff <artifact>")
		fmt.Println()
		fmt.Println("Decrypts an export artifact and compares it line by line with")
		fmt.Println("what an export of the whole vault would contain now.")
		fmt.Println()
		fmt.Println("Example:")
		fmt.Println("  vitalock diff vitalock-2024-03-01-2024-03-31.csv.enc")
	case "lock":
		fmt.Println("vitalock lock")
		fmt.Println()
		fmt.Println("Seals the vault. Commands seal on exit anyway; run this after")
		fmt.Println("a crash to make sure no plaintext working copy is left behind.")
		fmt.Println()
		fmt.Println("Example:")
		fmt.Println("  vitalock lock")
	case "completion":
		fmt.Println("vitalock completion <bash|zsh|fish>")
		fmt.Println()
		fmt.Println("Outputs shell completion script for the specified shell.")
		fmt.Println()
		fmt.Println("Setup:")
		fmt.Println("  # Bash - add to ~/.bashrc")
		fmt.Println("  eval \"$(vitalock completion bash)\"")
		fmt.Println()
		fmt.Println("  # Zsh - add to ~/.zshrc")
		fmt.Println("  eval \"$(vitalock completion zsh)\"")
		fmt.Println()
		fmt.Println("  # Fish - add to ~/.config/fish/config.fish")
		fmt.Println("  vitalock completion fish | source")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
	}
}
