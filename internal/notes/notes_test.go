package notes

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadFile_Plain(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "standup.txt")
	os.WriteFile(path, []byte("Alice: shipped the login fix.\n"), 0o644)

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(got, "Alice: shipped the login fix.") {
		t.Errorf("got %q, want file content", got)
	}
}

func TestReadFile_HTML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "minutes.html")
	raw := `<html><head><title>Sprint Review</title><style>p{color:red}</style></head>
<body><nav>menu</nav><p>Bob demoed the importer.</p><script>alert(1)</script></body></html>`
	os.WriteFile(path, []byte(raw), 0o644)

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(got, "Bob demoed the importer.") {
		t.Errorf("got %q, want extracted body text", got)
	}
	if strings.Contains(got, "alert(1)") {
		t.Error("script content should be excluded")
	}
	if strings.Contains(got, "menu") {
		t.Error("nav content should be excluded")
	}
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.txt"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestReadFile_Empty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blank.txt")
	os.WriteFile(path, []byte("   \n\t\n"), 0o644)

	_, err := ReadFile(path)
	if !errors.Is(err, ErrEmpty) {
		t.Errorf("err = %v, want ErrEmpty", err)
	}
}

func TestFromString(t *testing.T) {
	if _, err := FromString("real notes"); err != nil {
		t.Errorf("FromString: %v", err)
	}
	if _, err := FromString("  \n "); !errors.Is(err, ErrEmpty) {
		t.Errorf("err = %v, want ErrEmpty", err)
	}
}

func TestListDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.txt", "a.txt", "notes.md", "skip.pdf", "page.html"} {
		os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644)
	}
	os.Mkdir(filepath.Join(dir, "sub"), 0o755)

	files, err := ListDir(dir)
	if err != nil {
		t.Fatalf("ListDir: %v", err)
	}

	want := []string{"a.txt", "b.txt", "notes.md", "page.html"}
	if len(files) != len(want) {
		t.Fatalf("got %d files (%v), want %d", len(files), files, len(want))
	}
	for i, w := range want {
		if filepath.Base(files[i]) != w {
			t.Errorf("files[%d] = %q, want %q", i, filepath.Base(files[i]), w)
		}
	}
}

func TestListDir_Missing(t *testing.T) {
	_, err := ListDir(filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestExtractHTML_Title(t *testing.T) {
	title, text := ExtractHTML(`<html><head><title>Weekly Sync</title></head><body><p>hello</p></body></html>`)
	if title != "Weekly Sync" {
		t.Errorf("title = %q, want Weekly Sync", title)
	}
	if !strings.Contains(text, "hello") {
		t.Errorf("text = %q, want body content", text)
	}
}
