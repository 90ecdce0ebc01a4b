package notes

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestCountWords(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"single", "hello", 1},
		{"sentence", "the quick brown fox", 4},
		{"extra_whitespace", "  a \t b\n\nc  ", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountWords(tt.text); got != tt.want {
				t.Errorf("CountWords(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestEstimateTokens(t *testing.T) {
	if got := EstimateTokens(strings.Repeat("x", 400)); got != 100 {
		t.Errorf("EstimateTokens(400 chars) = %d, want 100", got)
	}
	if got := EstimateTokens(""); got != 0 {
		t.Errorf("EstimateTokens(\"\") = %d, want 0", got)
	}
}

func TestTruncate_ShortInput(t *testing.T) {
	text := "short notes"
	got, cut := Truncate(text, 100)
	if cut {
		t.Error("short input should not be truncated")
	}
	if got != text {
		t.Errorf("got %q, want unchanged input", got)
	}
}

func TestTruncate_LongInput(t *testing.T) {
	// 1000 estimated tokens, budget of 100.
	text := strings.Repeat("word ", 800)
	got, cut := Truncate(text, 100)
	if !cut {
		t.Fatal("long input should be truncated")
	}
	if !strings.HasSuffix(got, "[Note: Input was truncated due to length]") {
		t.Errorf("truncated output missing notice, got suffix %q", got[len(got)-50:])
	}
	if EstimateTokens(got) > 120 {
		t.Errorf("truncated output still ~%d tokens, want near 100", EstimateTokens(got))
	}
}

func TestTruncate_RuneBoundary(t *testing.T) {
	// 399 ASCII bytes followed by multi-byte runes: a 100-token budget
	// cuts at byte 400, mid-rune. The cut must back up to a boundary
	// and keep the output valid UTF-8.
	text := strings.Repeat("a", 399) + strings.Repeat("é", 2000)
	got, cut := Truncate(text, 100)
	if !cut {
		t.Fatal("expected truncation")
	}
	if !utf8.ValidString(got) {
		t.Error("truncated output is not valid UTF-8")
	}
	body := strings.TrimSuffix(got, "\n\n[Note: Input was truncated due to length]")
	if strings.ContainsRune(body, utf8.RuneError) {
		t.Error("truncated output contains a replacement rune")
	}
	if len(body) > 400 {
		t.Errorf("kept %d bytes, want at most 400", len(body))
	}
}

func TestTruncate_SentenceBoundary(t *testing.T) {
	// A period lands inside the last 20% of the kept range, so the cut
	// should snap to it.
	sentence := strings.Repeat("a", 380) + ". tail text that gets dropped "
	text := sentence + strings.Repeat("b", 4000)
	got, cut := Truncate(text, 100) // keeps 400 chars, period at index 380
	if !cut {
		t.Fatal("expected truncation")
	}
	body := strings.TrimSuffix(got, "\n\n[Note: Input was truncated due to length]")
	if !strings.HasSuffix(body, ".") {
		t.Errorf("expected cut at sentence boundary, got tail %q", body[len(body)-10:])
	}
}
