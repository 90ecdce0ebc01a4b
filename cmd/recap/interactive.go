package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/nugget/recap/internal/notes"
	"github.com/nugget/recap/internal/pipeline"
)

// runInteractive handles "recap interactive": notes are pasted on
// stdin and terminated with a single "." on its own line, then the
// artifact set and model are chosen from short menus. An empty menu
// answer (or EOF) keeps the default.
func runInteractive(ctx context.Context, stdin io.Reader, stdout io.Writer, opts options) error {
	cfg, cfgPath, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	logger := loggerFor(stdout, cfg, true) // menus own the terminal; log errors only
	logger.Debug("config loaded", "path", cfgPath)

	scanner := bufio.NewScanner(stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	fmt.Fprintln(stdout, "Recap — interactive mode")
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, `Paste your meeting notes, then enter a single "." on its own line:`)
	fmt.Fprintln(stdout)

	var sb strings.Builder
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "." {
			break
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read notes: %w", err)
	}

	text, err := notes.FromString(sb.String())
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "\nCaptured %d words.\n\n", notes.CountWords(text))

	wantEmail, wantBrief := resolveToggles(cfg, opts)

	fmt.Fprintln(stdout, "Artifacts:")
	fmt.Fprintln(stdout, "  1) Summary only")
	fmt.Fprintln(stdout, "  2) Summary + follow-up email")
	fmt.Fprintln(stdout, "  3) Summary + email + executive brief")
	fmt.Fprintf(stdout, "Choice [default %s]: ", defaultChoice(wantEmail, wantBrief))

	switch readLine(scanner) {
	case "1":
		wantEmail, wantBrief = false, false
	case "2":
		wantEmail, wantBrief = true, false
	case "3":
		wantEmail, wantBrief = true, true
	}

	model := opts.model
	if model == "" && cfg.Models.Premium != "" {
		fmt.Fprintln(stdout, "\nModel:")
		fmt.Fprintf(stdout, "  1) %s (default)\n", cfg.Models.Default)
		fmt.Fprintf(stdout, "  2) %s\n", cfg.Models.Premium)
		fmt.Fprint(stdout, "Choice [1]: ")
		if readLine(scanner) == "2" {
			model = cfg.Models.Premium
		}
	}

	fmt.Fprintln(stdout, "\nGenerating...")

	processor, closeStore := buildProcessor(cfg, opts, logger)
	defer closeStore()

	res, err := processor.Process(ctx, pipeline.Request{
		Notes:  text,
		Source: "stdin",
		Date:   opts.date,
		Model:  model,
		Email:  wantEmail,
		Brief:  wantBrief,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout)
	printResult(stdout, res, false)
	return nil
}

// defaultChoice maps the configured artifact toggles to the menu entry
// shown as the default.
func defaultChoice(email, brief bool) string {
	switch {
	case email && brief:
		return "3"
	case email:
		return "2"
	default:
		return "1"
	}
}

// readLine returns the next trimmed line, or "" at EOF.
func readLine(s *bufio.Scanner) string {
	if s.Scan() {
		return strings.TrimSpace(s.Text())
	}
	return ""
}
