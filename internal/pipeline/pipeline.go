// Package pipeline runs the notes-to-artifacts flow: truncate the
// input, build the prompt for each requested artifact, send one
// blocking completion request per artifact, record usage, and write
// the result to a timestamped file. Nothing is retried; a failed
// request surfaces as an error.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nugget/recap/internal/artifact"
	"github.com/nugget/recap/internal/config"
	"github.com/nugget/recap/internal/llm"
	"github.com/nugget/recap/internal/notes"
	"github.com/nugget/recap/internal/prompts"
	"github.com/nugget/recap/internal/usage"
)

// Processor drives a single summarization run.
type Processor struct {
	client llm.Client
	cfg    *config.Config
	writer *artifact.Writer
	store  *usage.Store
	logger *slog.Logger
}

// NewProcessor creates a Processor. store may be nil, which disables
// usage recording.
func NewProcessor(client llm.Client, cfg *config.Config, writer *artifact.Writer, store *usage.Store, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		client: client,
		cfg:    cfg,
		writer: writer,
		store:  store,
		logger: logger,
	}
}

// Request describes one summarization run.
type Request struct {
	// Notes is the raw meeting notes text.
	Notes string

	// Source labels where the notes came from for the usage ledger
	// (a file name, "stdin", "text", "web").
	Source string

	// Date is the meeting date wording inserted into the summary
	// prompt. Empty means today.
	Date string

	// Model overrides the configured default model.
	Model string

	// Email requests the follow-up email artifact.
	Email bool

	// Brief requests the executive brief artifact.
	Brief bool
}

// Result reports what a run produced.
type Result struct {
	RunID     string
	Model     string
	Provider  string
	Truncated bool
	Artifacts []artifact.Artifact
	CostUSD   float64
}

// Process runs the full flow for one set of notes. The summary is
// always generated first; the email and brief artifacts are derived
// from the summary text, matching the prompt templates. All artifacts
// of a run share one timestamp so their filenames line up.
func (p *Processor) Process(ctx context.Context, req Request) (*Result, error) {
	text, err := notes.FromString(req.Notes)
	if err != nil {
		return nil, err
	}

	model := req.Model
	if model == "" {
		model = p.cfg.Models.Default
	}
	if err := p.cfg.Validate(model); err != nil {
		return nil, err
	}

	date := req.Date
	if date == "" {
		date = time.Now().Format("January 2, 2006")
	}

	text, truncated := notes.Truncate(text, p.cfg.Limits.MaxInputTokens)
	if truncated {
		p.logger.Warn("input truncated",
			"source", req.Source,
			"max_input_tokens", p.cfg.Limits.MaxInputTokens,
		)
	}

	runID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate run ID: %w", err)
	}

	res := &Result{
		RunID:     runID.String(),
		Model:     model,
		Provider:  p.cfg.ProviderFor(model),
		Truncated: truncated,
	}
	ts := time.Now()

	p.logger.Info("processing meeting notes",
		"run_id", res.RunID,
		"source", req.Source,
		"model", model,
		"words", notes.CountWords(text),
	)

	summary, err := p.generate(ctx, res, req.Source, artifact.KindSummary, prompts.MeetingSummaryPrompt(text, date), ts)
	if err != nil {
		return nil, fmt.Errorf("generate summary: %w", err)
	}

	if req.Email {
		if _, err := p.generate(ctx, res, req.Source, artifact.KindEmail, prompts.EmailFollowupPrompt(summary.Text), ts); err != nil {
			return nil, fmt.Errorf("generate follow-up email: %w", err)
		}
	}

	if req.Brief {
		if _, err := p.generate(ctx, res, req.Source, artifact.KindBrief, prompts.ExecutiveBriefPrompt(summary.Text), ts); err != nil {
			return nil, fmt.Errorf("generate executive brief: %w", err)
		}
	}

	return res, nil
}

// generate sends one completion request, writes the artifact file,
// and appends a usage record. The written artifact is also appended
// to res.Artifacts.
func (p *Processor) generate(ctx context.Context, res *Result, source string, kind artifact.Kind, prompt string, ts time.Time) (*artifact.Artifact, error) {
	comp, err := p.client.Complete(ctx, llm.Request{
		Model:       res.Model,
		System:      prompts.SystemPrompt(),
		Prompt:      prompt,
		Temperature: p.cfg.Models.Temperature,
		MaxTokens:   p.cfg.Limits.MaxOutputTokens,
	})
	if err != nil {
		return nil, err
	}

	cost := usage.ComputeCost(res.Model, comp.InputTokens, comp.OutputTokens, p.cfg.Pricing)

	a := artifact.Artifact{
		Kind:         kind,
		Text:         comp.Text,
		InputTokens:  comp.InputTokens,
		OutputTokens: comp.OutputTokens,
		CostUSD:      cost,
	}
	if err := p.writer.Write(&a, ts); err != nil {
		return nil, err
	}

	if p.store != nil {
		rec := usage.Record{
			Timestamp:    ts,
			RunID:        res.RunID,
			Source:       source,
			Model:        res.Model,
			Provider:     res.Provider,
			Artifact:     string(kind),
			InputTokens:  comp.InputTokens,
			OutputTokens: comp.OutputTokens,
			CostUSD:      cost,
		}
		if err := p.store.Record(ctx, rec); err != nil {
			// The artifact is already on disk; a ledger failure should
			// not fail the run.
			p.logger.Error("record usage", "error", err, "run_id", res.RunID)
		}
	}

	p.logger.Debug("artifact written",
		"kind", string(kind),
		"path", a.Path,
		"input_tokens", comp.InputTokens,
		"output_tokens", comp.OutputTokens,
		"cost_usd", cost,
	)

	res.Artifacts = append(res.Artifacts, a)
	res.CostUSD += cost
	return &a, nil
}
