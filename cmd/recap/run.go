package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/nugget/recap/internal/artifact"
	"github.com/nugget/recap/internal/buildinfo"
	"github.com/nugget/recap/internal/config"
	"github.com/nugget/recap/internal/email"
	"github.com/nugget/recap/internal/notes"
	"github.com/nugget/recap/internal/pipeline"
	"github.com/nugget/recap/internal/web"
)

// runRun handles the "recap run" subcommand: a single one-shot
// summarization of -input or -text.
func runRun(ctx context.Context, stdout io.Writer, opts options) error {
	cfg, cfgPath, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	logger := loggerFor(stdout, cfg, opts.quiet)
	logger.Debug("config loaded", "path", cfgPath)

	var text, source string
	switch {
	case opts.input != "":
		text, err = notes.ReadFile(opts.input)
		source = filepath.Base(opts.input)
	case opts.text != "":
		text, err = notes.FromString(opts.text)
		source = "text"
	default:
		return fmt.Errorf("no meeting notes: use -input <file> or -text <notes> (or recap interactive)")
	}
	if err != nil {
		return err
	}

	wantEmail, wantBrief := resolveToggles(cfg, opts)
	if opts.send && !wantEmail {
		return fmt.Errorf("-send requires the follow-up email artifact (drop -no-email)")
	}
	if opts.send && opts.to == "" {
		return fmt.Errorf("-send requires -to <addrs>")
	}

	processor, closeStore := buildProcessor(cfg, opts, logger)
	defer closeStore()

	res, err := processor.Process(ctx, pipeline.Request{
		Notes:  text,
		Source: source,
		Date:   opts.date,
		Model:  opts.model,
		Email:  wantEmail,
		Brief:  wantBrief,
	})
	if err != nil {
		return err
	}

	printResult(stdout, res, opts.quiet)

	if opts.send {
		if err := sendFollowUp(ctx, cfg, res, opts.to); err != nil {
			return err
		}
		if !opts.quiet {
			fmt.Fprintf(stdout, "Follow-up email sent to %s\n", opts.to)
		}
	}
	return nil
}

// sendFollowUp delivers the generated follow-up email artifact over
// SMTP to the comma-separated recipients.
func sendFollowUp(ctx context.Context, cfg *config.Config, res *pipeline.Result, to string) error {
	var body string
	for _, a := range res.Artifacts {
		if a.Kind == artifact.KindEmail {
			body = a.Text
		}
	}
	if body == "" {
		return fmt.Errorf("no follow-up email artifact to send")
	}

	var recipients []string
	for _, addr := range strings.Split(to, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			recipients = append(recipients, addr)
		}
	}

	sender := email.NewSender(cfg.SMTP, nil)
	sendCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	return sender.Send(sendCtx, email.ComposeOptions{
		To:      recipients,
		Subject: "Meeting Follow-up — " + time.Now().Format("January 2, 2006"),
		Body:    body,
	})
}

// printResult writes the artifact paths (and, unless quiet, the run
// stats) to stdout.
func printResult(w io.Writer, res *pipeline.Result, quiet bool) {
	if quiet {
		for _, a := range res.Artifacts {
			fmt.Fprintln(w, a.Path)
		}
		return
	}

	fmt.Fprintf(w, "Model: %s (%s)\n", res.Model, res.Provider)
	if res.Truncated {
		fmt.Fprintln(w, "Note: input was truncated to fit the model limit")
	}
	for _, a := range res.Artifacts {
		fmt.Fprintf(w, "  %-18s %s (%d in / %d out tokens)\n",
			string(a.Kind)+":", a.Path, a.InputTokens, a.OutputTokens)
	}
	if res.CostUSD > 0 {
		fmt.Fprintf(w, "Estimated cost: $%.4f\n", res.CostUSD)
	}
}

// runBatch handles "recap batch <dir>": every notes file in the
// directory is summarized sequentially, continuing past failures.
func runBatch(ctx context.Context, stdout io.Writer, opts options, dir string) error {
	cfg, cfgPath, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	logger := loggerFor(stdout, cfg, opts.quiet)
	logger.Debug("config loaded", "path", cfgPath)

	wantEmail, wantBrief := resolveToggles(cfg, opts)

	processor, closeStore := buildProcessor(cfg, opts, logger)
	defer closeStore()

	report, err := processor.Batch(ctx, dir, pipeline.Request{
		Date:  opts.date,
		Model: opts.model,
		Email: wantEmail,
		Brief: wantBrief,
	})
	if err != nil {
		return err
	}
	if report.Total == 0 {
		return fmt.Errorf("no notes files (.txt, .md, .html) in %s", dir)
	}

	for _, fr := range report.Files {
		if fr.Err != nil {
			fmt.Fprintf(stdout, "FAILED  %s: %v\n", fr.Path, fr.Err)
			continue
		}
		if opts.quiet {
			for _, a := range fr.Result.Artifacts {
				fmt.Fprintln(stdout, a.Path)
			}
		} else {
			fmt.Fprintf(stdout, "ok      %s (%d artifacts, $%.4f)\n",
				fr.Path, len(fr.Result.Artifacts), fr.Result.CostUSD)
		}
	}
	fmt.Fprintf(stdout, "Processed %d of %d files", report.Processed, report.Total)
	if report.Failed > 0 {
		fmt.Fprintf(stdout, " (%d failed)", report.Failed)
	}
	fmt.Fprintln(stdout)

	if report.Failed > 0 {
		return fmt.Errorf("%d of %d files failed", report.Failed, report.Total)
	}
	return nil
}

// runServe handles "recap serve": starts the web UI and blocks until a
// shutdown signal arrives.
func runServe(ctx context.Context, stdout io.Writer, opts options) error {
	cfg, cfgPath, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	logger := loggerFor(stdout, cfg, opts.quiet)
	logger.Info("starting recap", "version", buildinfo.Version, "config", cfgPath)

	if opts.outputDir != "" {
		cfg.Output.Dir = opts.outputDir
	}

	processor, closeStore := buildProcessor(cfg, opts, logger)
	defer closeStore()

	server := web.NewServer(cfg, processor, logger)

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go func() {
		<-ctx.Done()
		logger.Info("shutdown signal received")
		_ = server.Shutdown(context.Background())
	}()

	if err := server.Start(ctx); err != nil {
		if ctx.Err() == nil {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	logger.Info("recap stopped")
	return nil
}

// runUsage handles "recap usage [days]": prints token and cost totals
// from the ledger, with per-model and per-artifact breakdowns.
func runUsage(stdout io.Writer, opts options) error {
	cfg, _, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}

	days := 30
	if len(opts.cmdArgs) > 0 {
		days, err = strconv.Atoi(opts.cmdArgs[0])
		if err != nil || days <= 0 {
			return fmt.Errorf("usage: recap usage [days]")
		}
	}

	store, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	end := time.Now()
	start := end.AddDate(0, 0, -days)

	total, err := store.Summary(start, end)
	if err != nil {
		return fmt.Errorf("read usage: %w", err)
	}
	byModel, err := store.SummaryByModel(start, end)
	if err != nil {
		return fmt.Errorf("read usage by model: %w", err)
	}
	byArtifact, err := store.SummaryByArtifact(start, end)
	if err != nil {
		return fmt.Errorf("read usage by artifact: %w", err)
	}

	if opts.outputFmt == "json" {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"days":        days,
			"total":       total,
			"by_model":    byModel,
			"by_artifact": byArtifact,
		})
	}

	fmt.Fprintf(stdout, "Usage for the last %d days:\n", days)
	fmt.Fprintf(stdout, "  requests: %d\n", total.TotalRecords)
	fmt.Fprintf(stdout, "  tokens:   %d in / %d out\n", total.TotalInputTokens, total.TotalOutputTokens)
	fmt.Fprintf(stdout, "  cost:     $%.4f\n", total.TotalCostUSD)

	if len(byModel) > 0 {
		fmt.Fprintln(stdout, "By model:")
		for model, s := range byModel {
			fmt.Fprintf(stdout, "  %-28s %5d requests  $%.4f\n", model, s.TotalRecords, s.TotalCostUSD)
		}
	}
	if len(byArtifact) > 0 {
		fmt.Fprintln(stdout, "By artifact:")
		for kind, s := range byArtifact {
			fmt.Fprintf(stdout, "  %-28s %5d requests  $%.4f\n", kind, s.TotalRecords, s.TotalCostUSD)
		}
	}
	return nil
}
