// Recap turns raw meeting notes into polished artifacts.
//
// It sends the notes to a hosted LLM with fixed prompt templates and
// writes the results as timestamped files: a markdown summary (always),
// a follow-up email, and an executive brief. Configuration is loaded
// from a single YAML file discovered automatically (see
// [config.DefaultSearchPaths]).
//
// Usage:
//
//	recap run -input notes.txt        Summarize a notes file
//	recap run -text "..." -brief      Summarize literal text
//	recap interactive                 Paste notes, pick artifacts from a menu
//	recap batch <dir>                 Summarize every notes file in a directory
//	recap serve                       Start the web UI
//	recap init [dir]                  Initialize a working directory with defaults
//	recap usage [days]                Show token usage and cost
//	recap version                     Print version and build information
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/nugget/recap/internal/artifact"
	"github.com/nugget/recap/internal/buildinfo"
	"github.com/nugget/recap/internal/config"
	"github.com/nugget/recap/internal/llm"
	"github.com/nugget/recap/internal/pipeline"
	"github.com/nugget/recap/internal/usage"

	_ "github.com/mattn/go-sqlite3" // SQLite driver for database/sql
)

// main is intentionally minimal. It constructs the OS-level environment
// (context, stdio, argv) and delegates immediately to [run]. This keeps
// os.Exit, os.Stdin, and os.Args out of the application logic so the
// full flow can be driven from tests.
func main() {
	ctx := context.Background()

	if err := run(ctx, os.Stdin, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

// options holds the parsed command line. Artifact toggles are tri-state
// so that config defaults apply when a flag is not given.
type options struct {
	configPath string
	input      string
	text       string
	date       string
	model      string
	outputDir  string
	email      *bool
	brief      *bool
	send       bool
	to         string
	quiet      bool
	outputFmt  string // "text" (default) or "json"
	command    string
	cmdArgs    []string
}

// run is the real entry point for the recap command. All OS-level
// dependencies are injected as parameters:
//
//   - ctx controls the lifetime of the process. Cancelling it triggers
//     graceful shutdown of the web server in serve mode.
//   - stdin feeds interactive mode.
//   - stdout and stderr receive all program output.
//   - args is os.Args[1:] — parsed manually rather than with the flag
//     package to avoid global state that interferes with parallel tests.
//
// run returns nil on success and a non-nil error for any failure. The
// caller (main) is responsible for printing the error and exiting.
func run(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer, args []string) error {
	var opts options
	boolTrue, boolFalse := true, false

	// Destinations for string flags that take a value, given either as
	// "-flag value" or "-flag=value".
	stringFlags := map[string]*string{
		"-config": &opts.configPath,
		"-input":  &opts.input,
		"-text":   &opts.text,
		"-date":   &opts.date,
		"-model":  &opts.model,
		"-output": &opts.outputDir,
		"-to":     &opts.to,
		"-o":      &opts.outputFmt,
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, value, found := strings.Cut(arg, "="); found {
			if dest, ok := stringFlags[name]; ok {
				*dest = value
				continue
			}
		}
		if dest, ok := stringFlags[arg]; ok {
			if i+1 >= len(args) {
				return fmt.Errorf("%s requires a value", arg)
			}
			i++
			*dest = args[i]
			continue
		}

		switch {
		case arg == "-email":
			opts.email = &boolTrue
		case arg == "-no-email":
			opts.email = &boolFalse
		case arg == "-brief":
			opts.brief = &boolTrue
		case arg == "-no-brief":
			opts.brief = &boolFalse
		case arg == "-send":
			opts.send = true
		case arg == "-quiet" || arg == "-q":
			opts.quiet = true
		case arg == "-h" || arg == "-help" || arg == "--help":
			return printUsage(stdout)
		case !strings.HasPrefix(arg, "-") && opts.command == "":
			opts.command = arg
		case !strings.HasPrefix(arg, "-"):
			opts.cmdArgs = append(opts.cmdArgs, arg)
		default:
			return fmt.Errorf("unknown flag: %s", arg)
		}
	}

	if opts.outputFmt == "" {
		opts.outputFmt = "text"
	}
	if opts.outputFmt != "text" && opts.outputFmt != "json" {
		return fmt.Errorf("unknown output format: %q (expected text or json)", opts.outputFmt)
	}

	switch opts.command {
	case "run":
		return runRun(ctx, stdout, opts)
	case "interactive":
		return runInteractive(ctx, stdin, stdout, opts)
	case "batch":
		if len(opts.cmdArgs) == 0 {
			return fmt.Errorf("usage: recap batch <dir>")
		}
		return runBatch(ctx, stdout, opts, opts.cmdArgs[0])
	case "serve":
		return runServe(ctx, stdout, opts)
	case "init":
		dir := "."
		if len(opts.cmdArgs) > 0 {
			dir = opts.cmdArgs[0]
		}
		return runInit(stdout, dir)
	case "usage":
		return runUsage(stdout, opts)
	case "version":
		return runVersion(stdout, opts.outputFmt)
	case "":
		return printUsage(stdout)
	default:
		return fmt.Errorf("unknown command: %s", opts.command)
	}
}

// printUsage writes the top-level help text to w. It is called when
// recap is invoked with no arguments, or with -h / --help.
func printUsage(w io.Writer) error {
	fmt.Fprintln(w, "Recap - Meeting Notes Summarizer")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage: recap [flags] <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run            Summarize notes from -input or -text")
	fmt.Fprintln(w, "  interactive    Paste notes and pick artifacts from a menu")
	fmt.Fprintln(w, "  batch <dir>    Summarize every notes file in a directory")
	fmt.Fprintln(w, "  serve          Start the web UI")
	fmt.Fprintln(w, "  init [dir]     Initialize working directory with defaults (default: .)")
	fmt.Fprintln(w, "  usage [days]   Show token usage and cost (default: last 30 days)")
	fmt.Fprintln(w, "  version        Show version information")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -config <path>   Path to config file (default: auto-discover)")
	fmt.Fprintln(w, "  -input <path>    Notes file (.txt, .md, or .html)")
	fmt.Fprintln(w, "  -text <notes>    Literal notes text")
	fmt.Fprintln(w, "  -date <date>     Meeting date wording (default: today)")
	fmt.Fprintln(w, "  -model <name>    Model override")
	fmt.Fprintln(w, "  -output <dir>    Output directory override")
	fmt.Fprintln(w, "  -email/-no-email Generate the follow-up email (or not)")
	fmt.Fprintln(w, "  -brief/-no-brief Generate the executive brief (or not)")
	fmt.Fprintln(w, "  -send            Deliver the follow-up email over SMTP")
	fmt.Fprintln(w, "  -to <addrs>      Comma-separated recipients for -send")
	fmt.Fprintln(w, "  -quiet, -q       Only print artifact paths and errors")
	fmt.Fprintln(w, "  -o fmt           Output format for usage/version: text or json")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Config search order:")
	fmt.Fprintln(w, "  ./config.yaml, ~/.config/recap/config.yaml, /etc/recap/config.yaml")
	return nil
}

// runVersion prints build metadata in the requested output format.
func runVersion(w io.Writer, outputFmt string) error {
	info := buildinfo.Info()
	if outputFmt == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}
	fmt.Fprintln(w, buildinfo.String())
	for _, k := range []string{"version", "git_commit", "build_time", "go_version", "os", "arch"} {
		if v, ok := info[k]; ok {
			fmt.Fprintf(w, "  %-12s %s\n", k+":", v)
		}
	}
	return nil
}

// newLogger creates a structured logger that writes to w at the given
// level. All log output goes through slog; this helper standardizes the
// handler configuration across subcommands.
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: config.ReplaceLogLevelNames,
	}))
}

// loggerFor builds the subcommand logger from config and the -quiet
// flag. Quiet raises the level to error so artifact paths are the only
// normal output.
func loggerFor(w io.Writer, cfg *config.Config, quiet bool) *slog.Logger {
	level := slog.LevelInfo
	if cfg.LogLevel != "" {
		if parsed, err := config.ParseLogLevel(cfg.LogLevel); err == nil {
			level = parsed
		}
	}
	if quiet {
		level = slog.LevelError
	}
	return newLogger(w, level)
}

// loadConfig locates and parses the YAML configuration file. If explicit
// is non-empty, that exact path is used (and must exist). Otherwise,
// [config.FindConfig] searches the default locations, falling back to
// built-in defaults when no file exists.
func loadConfig(explicit string) (*config.Config, string, error) {
	cfgPath, err := config.FindConfig(explicit)
	if err != nil {
		if explicit == "" {
			// No config anywhere: defaults plus environment credentials
			// are enough for a first run.
			return config.Default(), "(defaults)", nil
		}
		return nil, "", err
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, cfgPath, fmt.Errorf("load config %s: %w", cfgPath, err)
	}
	return cfg, cfgPath, nil
}

// buildClient constructs the multi-provider completion client. Model
// names route to their provider via the config; unknown names fall
// back to the local Ollama endpoint.
func buildClient(cfg *config.Config, logger *slog.Logger) llm.Client {
	ollamaClient := llm.NewOllamaClient(cfg.Models.OllamaURL, logger)

	multi := llm.NewMultiClient(cfg.ProviderFor, ollamaClient)
	multi.AddProvider("ollama", ollamaClient)

	if cfg.OpenAI.APIKey != "" {
		multi.AddProvider("openai", llm.NewOpenAIClient(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, logger))
	}
	if cfg.Anthropic.APIKey != "" {
		multi.AddProvider("anthropic", llm.NewAnthropicClient(cfg.Anthropic.APIKey, logger))
	}
	return multi
}

// openStore opens the usage ledger under the configured data directory.
// The returned close function is safe to defer even on error.
func openStore(cfg *config.Config) (*usage.Store, func(), error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, func() {}, fmt.Errorf("create data directory %s: %w", cfg.DataDir, err)
	}

	dbPath := filepath.Join(cfg.DataDir, "usage.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, func() {}, fmt.Errorf("open usage database %s: %w", dbPath, err)
	}

	store, err := usage.NewStore(db)
	if err != nil {
		db.Close()
		return nil, func() {}, fmt.Errorf("initialize usage database %s: %w", dbPath, err)
	}
	return store, func() { db.Close() }, nil
}

// buildProcessor wires the completion client, artifact writer, and
// usage ledger into a pipeline processor. The ledger is best-effort: if
// it cannot be opened, processing continues without usage recording.
func buildProcessor(cfg *config.Config, opts options, logger *slog.Logger) (*pipeline.Processor, func()) {
	outputDir := cfg.Output.Dir
	if opts.outputDir != "" {
		outputDir = opts.outputDir
	}

	store, closeStore, err := openStore(cfg)
	if err != nil {
		logger.Warn("usage ledger unavailable", "error", err)
		store = nil
	}

	client := buildClient(cfg, logger)
	return pipeline.NewProcessor(client, cfg, artifact.NewWriter(outputDir), store, logger), closeStore
}

// resolveToggles applies the tri-state -email/-brief flags over the
// config defaults.
func resolveToggles(cfg *config.Config, opts options) (email, brief bool) {
	email = cfg.Output.Email
	if opts.email != nil {
		email = *opts.email
	}
	brief = cfg.Output.Brief
	if opts.brief != nil {
		brief = *opts.brief
	}
	return email, brief
}
