// Package artifact defines the generated outputs (summary, follow-up
// email, executive brief) and the timestamped file naming scheme used
// when writing them to the output directory.
package artifact

import (
	"fmt"
	"time"
)

// Kind identifies which prompt template produced an artifact.
type Kind string

const (
	// KindSummary is the structured markdown meeting summary.
	KindSummary Kind = "summary"

	// KindEmail is the follow-up email draft.
	KindEmail Kind = "email"

	// KindBrief is the executive brief.
	KindBrief Kind = "brief"
)

// Artifact is one generated text output. Artifacts are created once and
// never mutated.
type Artifact struct {
	Kind Kind

	// Text is the generated content.
	Text string

	// Path is set once the artifact has been written to disk.
	Path string

	// Token usage for the completion that produced this artifact.
	InputTokens  int
	OutputTokens int
	CostUSD      float64
}

// baseName returns the file name stem for a kind.
func (k Kind) baseName() string {
	switch k {
	case KindSummary:
		return "meeting_summary"
	case KindEmail:
		return "meeting_followup_email"
	case KindBrief:
		return "executive_brief"
	default:
		return string(k)
	}
}

// Ext returns the file extension for a kind. The summary is markdown;
// email and brief are plain text.
func (k Kind) Ext() string {
	if k == KindSummary {
		return "md"
	}
	return "txt"
}

// Filename returns the timestamp-derived file name for a kind, e.g.
// meeting_summary_20250605_143000.md. Names are unique per run at
// second granularity; a collision within the same second is an
// accepted limitation.
func (k Kind) Filename(ts time.Time) string {
	return fmt.Sprintf("%s_%s.%s", k.baseName(), ts.Format("20060102_150405"), k.Ext())
}

// ParseKind converts a string to a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindSummary, KindEmail, KindBrief:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("unknown artifact kind %q", s)
	}
}
