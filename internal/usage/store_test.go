package usage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/nugget/recap/internal/config"
	_ "modernc.org/sqlite" // CGO-free driver for tests
)

func testStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "usage_test.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	s, err := NewStore(db)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

// testPricing returns a pricing table for tests.
func testPricing() map[string]config.PricingEntry {
	return map[string]config.PricingEntry{
		"gpt-4o-mini":              {InputPerMillion: 0.15, OutputPerMillion: 0.60},
		"claude-sonnet-4-20250514": {InputPerMillion: 3.0, OutputPerMillion: 15.0},
	}
}

func TestRecord_And_Summary(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	recs := []Record{
		{
			Timestamp:    now,
			RunID:        "run-1",
			Source:       "standup.txt",
			Model:        "gpt-4o-mini",
			Provider:     "openai",
			Artifact:     "summary",
			InputTokens:  1000,
			OutputTokens: 500,
			CostUSD:      0.00045, // 1000/1M*0.15 + 500/1M*0.60
		},
		{
			Timestamp:    now,
			RunID:        "run-1",
			Source:       "standup.txt",
			Model:        "gpt-4o-mini",
			Provider:     "openai",
			Artifact:     "email",
			InputTokens:  2000,
			OutputTokens: 1000,
			CostUSD:      0.0009,
		},
	}

	for _, rec := range recs {
		if err := s.Record(ctx, rec); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	start := now.Add(-1 * time.Minute)
	end := now.Add(1 * time.Minute)
	sum, err := s.Summary(start, end)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}

	if sum.TotalRecords != 2 {
		t.Errorf("TotalRecords = %d, want 2", sum.TotalRecords)
	}
	if sum.TotalInputTokens != 3000 {
		t.Errorf("TotalInputTokens = %d, want 3000", sum.TotalInputTokens)
	}
	if sum.TotalOutputTokens != 1500 {
		t.Errorf("TotalOutputTokens = %d, want 1500", sum.TotalOutputTokens)
	}
	// 0.00045 + 0.0009 = 0.00135
	if diff := sum.TotalCostUSD - 0.00135; diff > 0.00001 || diff < -0.00001 {
		t.Errorf("TotalCostUSD = %f, want ~0.00135", sum.TotalCostUSD)
	}
}

func TestSummaryByModel(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	recs := []Record{
		{Timestamp: now, RunID: "r1", Model: "gpt-4o-mini", Provider: "openai", Artifact: "summary", InputTokens: 100, OutputTokens: 50, CostUSD: 1.0},
		{Timestamp: now, RunID: "r2", Model: "gpt-4o-mini", Provider: "openai", Artifact: "summary", InputTokens: 200, OutputTokens: 100, CostUSD: 2.0},
		{Timestamp: now, RunID: "r3", Model: "claude-sonnet-4-20250514", Provider: "anthropic", Artifact: "summary", InputTokens: 50, OutputTokens: 25, CostUSD: 0.5},
	}
	for _, rec := range recs {
		if err := s.Record(ctx, rec); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	start := now.Add(-1 * time.Minute)
	end := now.Add(1 * time.Minute)
	result, err := s.SummaryByModel(start, end)
	if err != nil {
		t.Fatalf("SummaryByModel: %v", err)
	}

	if len(result) != 2 {
		t.Fatalf("got %d groups, want 2", len(result))
	}

	mini := result["gpt-4o-mini"]
	if mini == nil {
		t.Fatal("missing 'gpt-4o-mini' group")
	}
	if mini.TotalRecords != 2 {
		t.Errorf("mini.TotalRecords = %d, want 2", mini.TotalRecords)
	}
	if mini.TotalInputTokens != 300 {
		t.Errorf("mini.TotalInputTokens = %d, want 300", mini.TotalInputTokens)
	}
	if mini.TotalCostUSD != 3.0 {
		t.Errorf("mini.TotalCostUSD = %f, want 3.0", mini.TotalCostUSD)
	}
}

func TestSummaryByArtifact(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	recs := []Record{
		{Timestamp: now, RunID: "r1", Model: "m", Provider: "p", Artifact: "summary", InputTokens: 100, OutputTokens: 50, CostUSD: 1.0},
		{Timestamp: now, RunID: "r1", Model: "m", Provider: "p", Artifact: "email", InputTokens: 200, OutputTokens: 100, CostUSD: 2.0},
		{Timestamp: now, RunID: "r1", Model: "m", Provider: "p", Artifact: "brief", InputTokens: 300, OutputTokens: 150, CostUSD: 3.0},
	}
	for _, rec := range recs {
		if err := s.Record(ctx, rec); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	start := now.Add(-1 * time.Minute)
	end := now.Add(1 * time.Minute)
	result, err := s.SummaryByArtifact(start, end)
	if err != nil {
		t.Fatalf("SummaryByArtifact: %v", err)
	}

	if len(result) != 3 {
		t.Fatalf("got %d groups, want 3", len(result))
	}

	for _, kind := range []string{"summary", "email", "brief"} {
		if result[kind] == nil {
			t.Errorf("missing '%s' group", kind)
		}
	}

	if result["brief"].TotalCostUSD != 3.0 {
		t.Errorf("brief cost = %f, want 3.0", result["brief"].TotalCostUSD)
	}
}

func TestQueryByPeriod_Filters(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	recs := []Record{
		{Timestamp: base.Add(-2 * time.Hour), RunID: "old", Model: "m", Provider: "p", Artifact: "summary", CostUSD: 1.0},
		{Timestamp: base, RunID: "in-range", Model: "m", Provider: "p", Artifact: "summary", CostUSD: 2.0},
		{Timestamp: base.Add(2 * time.Hour), RunID: "future", Model: "m", Provider: "p", Artifact: "summary", CostUSD: 3.0},
	}
	for _, rec := range recs {
		if err := s.Record(ctx, rec); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	// Only "in-range" should match.
	start := base.Add(-1 * time.Minute)
	end := base.Add(1 * time.Minute)
	sum, err := s.Summary(start, end)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if sum.TotalRecords != 1 {
		t.Errorf("TotalRecords = %d, want 1 (only in-range)", sum.TotalRecords)
	}
	if sum.TotalCostUSD != 2.0 {
		t.Errorf("TotalCostUSD = %f, want 2.0", sum.TotalCostUSD)
	}
}

func TestSummary_EmptyDB(t *testing.T) {
	s := testStore(t)

	start := time.Now().Add(-24 * time.Hour)
	end := time.Now().Add(24 * time.Hour)
	sum, err := s.Summary(start, end)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if sum == nil {
		t.Fatal("Summary returned nil, want non-nil zero-value Summary")
	}
	if sum.TotalRecords != 0 {
		t.Errorf("TotalRecords = %d, want 0", sum.TotalRecords)
	}
	if sum.TotalCostUSD != 0 {
		t.Errorf("TotalCostUSD = %f, want 0", sum.TotalCostUSD)
	}
}

func TestSummaryByModel_EmptyDB(t *testing.T) {
	s := testStore(t)

	start := time.Now().Add(-24 * time.Hour)
	end := time.Now().Add(24 * time.Hour)
	result, err := s.SummaryByModel(start, end)
	if err != nil {
		t.Fatalf("SummaryByModel: %v", err)
	}
	if result == nil {
		t.Fatal("SummaryByModel returned nil, want empty map")
	}
	if len(result) != 0 {
		t.Errorf("got %d groups, want 0", len(result))
	}
}

func TestComputeCost(t *testing.T) {
	pricing := testPricing()

	tests := []struct {
		name   string
		model  string
		input  int
		output int
		want   float64
	}{
		{"mini_normal", "gpt-4o-mini", 1_000_000, 100_000, 0.21},                  // 0.15 + 0.06
		{"sonnet_normal", "claude-sonnet-4-20250514", 1_000_000, 100_000, 4.5},    // 3 + 1.5
		{"unknown_model", "qwen3:4b", 1_000_000, 1_000_000, 0},                    // not in pricing
		{"zero_tokens", "gpt-4o-mini", 0, 0, 0},
		{"small_usage", "claude-sonnet-4-20250514", 1000, 500, 0.0105},            // 0.003 + 0.0075
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeCost(tt.model, tt.input, tt.output, pricing)
			if diff := got - tt.want; diff > 0.0001 || diff < -0.0001 {
				t.Errorf("ComputeCost(%q, %d, %d) = %f, want %f", tt.model, tt.input, tt.output, got, tt.want)
			}
		})
	}
}

func TestComputeCost_NilPricing(t *testing.T) {
	got := ComputeCost("gpt-4o-mini", 1000, 500, nil)
	if got != 0 {
		t.Errorf("ComputeCost with nil pricing = %f, want 0", got)
	}
}

func TestRecord_AutoID(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	rec := Record{
		Timestamp: time.Now(),
		RunID:     "r_test",
		Model:     "m",
		Provider:  "p",
		Artifact:  "summary",
	}
	if err := s.Record(ctx, rec); err != nil {
		t.Fatalf("Record: %v", err)
	}

	// Verify the record was stored (summary should show 1 record).
	start := time.Now().Add(-1 * time.Minute)
	end := time.Now().Add(1 * time.Minute)
	sum, err := s.Summary(start, end)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if sum.TotalRecords != 1 {
		t.Errorf("TotalRecords = %d, want 1", sum.TotalRecords)
	}
}
