package artifact

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFilename(t *testing.T) {
	ts := time.Date(2025, 6, 5, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		kind Kind
		want string
	}{
		{KindSummary, "meeting_summary_20250605_143000.md"},
		{KindEmail, "meeting_followup_email_20250605_143000.txt"},
		{KindBrief, "executive_brief_20250605_143000.txt"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			if got := tt.kind.Filename(ts); got != tt.want {
				t.Errorf("Filename = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFilename_UniquePerSecond(t *testing.T) {
	a := KindSummary.Filename(time.Date(2025, 6, 5, 14, 30, 0, 0, time.UTC))
	b := KindSummary.Filename(time.Date(2025, 6, 5, 14, 30, 1, 0, time.UTC))
	if a == b {
		t.Errorf("names for different seconds collide: %q", a)
	}
}

func TestParseKind(t *testing.T) {
	for _, s := range []string{"summary", "email", "brief"} {
		if _, err := ParseKind(s); err != nil {
			t.Errorf("ParseKind(%q): %v", s, err)
		}
	}
	if _, err := ParseKind("podcast"); err == nil {
		t.Error("ParseKind should reject unknown kinds")
	}
}

func TestWriter_Write(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out") // does not exist yet
	w := NewWriter(dir)

	a := &Artifact{Kind: KindSummary, Text: "# MEETING SUMMARY\nbody"}
	ts := time.Date(2025, 6, 5, 14, 30, 0, 0, time.UTC)
	if err := w.Write(a, ts); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if a.Path == "" {
		t.Fatal("Path not filled in")
	}
	if filepath.Base(a.Path) != "meeting_summary_20250605_143000.md" {
		t.Errorf("Path base = %q", filepath.Base(a.Path))
	}

	data, err := os.ReadFile(a.Path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != a.Text {
		t.Errorf("file content = %q, want %q", data, a.Text)
	}
}

func TestWriter_SameSecondDoesNotOverwrite(t *testing.T) {
	w := NewWriter(t.TempDir())
	ts := time.Date(2025, 6, 5, 14, 30, 0, 0, time.UTC)

	first := &Artifact{Kind: KindSummary, Text: "first"}
	second := &Artifact{Kind: KindSummary, Text: "second"}
	third := &Artifact{Kind: KindSummary, Text: "third"}
	for _, a := range []*Artifact{first, second, third} {
		if err := w.Write(a, ts); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}

	if first.Path == second.Path || second.Path == third.Path {
		t.Fatalf("colliding paths: %q, %q, %q", first.Path, second.Path, third.Path)
	}
	if got := filepath.Base(second.Path); got != "meeting_summary_20250605_143000_2.md" {
		t.Errorf("second path base = %q", got)
	}
	if got := filepath.Base(third.Path); got != "meeting_summary_20250605_143000_3.md" {
		t.Errorf("third path base = %q", got)
	}

	data, err := os.ReadFile(first.Path)
	if err != nil {
		t.Fatalf("read back first: %v", err)
	}
	if string(data) != "first" {
		t.Errorf("first artifact content = %q, want %q", data, "first")
	}
}

func TestWriter_UnwritableDir(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("root ignores directory permissions")
	}
	parent := t.TempDir()
	os.Chmod(parent, 0o555)
	defer os.Chmod(parent, 0o755)

	w := NewWriter(filepath.Join(parent, "out"))
	a := &Artifact{Kind: KindSummary, Text: "x"}
	if err := w.Write(a, time.Now()); err == nil {
		t.Error("expected error for unwritable directory")
	}
}
