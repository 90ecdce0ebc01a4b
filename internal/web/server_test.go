package web

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nugget/recap/internal/artifact"
	"github.com/nugget/recap/internal/config"
	"github.com/nugget/recap/internal/llm"
	"github.com/nugget/recap/internal/pipeline"
)

// fakeClient returns canned completions for handler tests.
type fakeClient struct {
	calls int
}

func (f *fakeClient) Complete(ctx context.Context, req llm.Request) (*llm.Completion, error) {
	f.calls++
	return &llm.Completion{
		Model:        req.Model,
		CreatedAt:    time.Now(),
		Text:         "## Generated Summary\n\n- point one",
		InputTokens:  100,
		OutputTokens: 50,
	}, nil
}

func (f *fakeClient) Ping(ctx context.Context) error { return nil }

func newTestServer(t *testing.T) (*WebServer, *config.Config) {
	t.Helper()
	cfg := config.Default()
	cfg.OpenAI.APIKey = "test-key"
	cfg.Output.Dir = t.TempDir()

	proc := pipeline.NewProcessor(&fakeClient{}, cfg, artifact.NewWriter(cfg.Output.Dir), nil, nil)
	return NewServer(cfg, proc, nil), cfg
}

func TestIndex(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	s.routes().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{"<form", "Follow-up email", "Executive brief", "Recap"} {
		if !strings.Contains(body, want) {
			t.Errorf("index page missing %q", want)
		}
	}
}

func TestIndex_NotFoundPath(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/no-such-page", nil)
	rr := httptest.NewRecorder()
	s.routes().ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

// postForm builds a multipart form request for the process handler.
func postForm(t *testing.T, fields map[string]string, files map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	for name, content := range files {
		fw, err := mw.CreateFormFile("notes", name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/process", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestProcess_PastedText(t *testing.T) {
	s, _ := newTestServer(t)

	req := postForm(t, map[string]string{"text": "Discussed roadmap. Alice owns Q3."}, nil)
	rr := httptest.NewRecorder()
	s.routes().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "/download/meeting_summary_") {
		t.Error("result page should link the summary download")
	}
	if strings.Contains(body, "meeting_followup_email_") {
		t.Error("email artifact should not appear when unchecked")
	}
}

func TestProcess_Toggles(t *testing.T) {
	s, _ := newTestServer(t)

	req := postForm(t, map[string]string{
		"text":  "Notes.",
		"email": "on",
		"brief": "on",
	}, nil)
	rr := httptest.NewRecorder()
	s.routes().ServeHTTP(rr, req)

	body := rr.Body.String()
	for _, want := range []string{"meeting_summary_", "meeting_followup_email_", "executive_brief_"} {
		if !strings.Contains(body, want) {
			t.Errorf("result page missing %s artifact link", want)
		}
	}
}

func TestProcess_MultiFileUpload(t *testing.T) {
	s, cfg := newTestServer(t)

	req := postForm(t, nil, map[string]string{
		"standup.txt":  "Standup notes.",
		"planning.txt": "Planning notes.",
	})
	rr := httptest.NewRecorder()
	s.routes().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "standup.txt") || !strings.Contains(body, "planning.txt") {
		t.Error("result page should name each uploaded file")
	}
	if !strings.Contains(body, "Processed 2 of 2") {
		t.Errorf("result page should report batch progress, got:\n%s", body)
	}

	entries, err := os.ReadDir(cfg.Output.Dir)
	if err != nil {
		t.Fatalf("read output dir: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("output dir has %d files, want 2", len(entries))
	}
}

func TestProcess_EmptyText(t *testing.T) {
	s, _ := newTestServer(t)

	req := postForm(t, map[string]string{"text": "   "}, nil)
	rr := httptest.NewRecorder()
	s.routes().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "no notes provided") {
		t.Error("result page should report the empty-input error")
	}
}

func TestProcess_HtmxPartial(t *testing.T) {
	s, _ := newTestServer(t)

	req := postForm(t, map[string]string{"text": "Notes."}, nil)
	req.Header.Set("HX-Request", "true")
	rr := httptest.NewRecorder()
	s.routes().ServeHTTP(rr, req)

	body := rr.Body.String()
	if strings.Contains(body, "<nav") {
		t.Error("htmx partial should not include the layout nav")
	}
	if !strings.Contains(body, "meeting_summary_") {
		t.Error("htmx partial should include the result content")
	}
}

func TestRecent(t *testing.T) {
	s, cfg := newTestServer(t)

	for _, name := range []string{
		"meeting_summary_20250101_090000.md",
		"meeting_summary_20250102_090000.md",
		"executive_brief_20250101_090000.txt", // not a summary, excluded
	} {
		if err := os.WriteFile(filepath.Join(cfg.Output.Dir, name), []byte("content"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/recent", nil)
	rr := httptest.NewRecorder()
	s.routes().ServeHTTP(rr, req)

	body := rr.Body.String()
	if !strings.Contains(body, "meeting_summary_20250101_090000.md") ||
		!strings.Contains(body, "meeting_summary_20250102_090000.md") {
		t.Error("recent page should list summary files")
	}
	if strings.Contains(body, "executive_brief_") {
		t.Error("recent page should only list summaries")
	}
}

func TestDownload(t *testing.T) {
	s, cfg := newTestServer(t)

	name := "meeting_summary_20250101_090000.md"
	if err := os.WriteFile(filepath.Join(cfg.Output.Dir, name), []byte("# Summary"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/download/"+name, nil)
	rr := httptest.NewRecorder()
	s.routes().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if got := rr.Body.String(); got != "# Summary" {
		t.Errorf("body = %q, want file content", got)
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, name) {
		t.Errorf("Content-Disposition = %q, want filename", cd)
	}
}

func TestDownload_RejectsBadNames(t *testing.T) {
	s, _ := newTestServer(t)

	for _, name := range []string{".hidden", "..%2F..%2Fetc%2Fpasswd"} {
		req := httptest.NewRequest(http.MethodGet, "/download/"+name, nil)
		rr := httptest.NewRecorder()
		s.routes().ServeHTTP(rr, req)

		if rr.Code == http.StatusOK {
			t.Errorf("download %q should be rejected, got 200", name)
		}
	}
}

func TestAPISummarize(t *testing.T) {
	s, _ := newTestServer(t)

	body, _ := json.Marshal(map[string]any{"notes": "Discussed roadmap.", "email": true})
	req := httptest.NewRequest(http.MethodPost, "/api/summarize", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	s.routes().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}

	var resp summarizeResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.RunID == "" {
		t.Error("run_id should be set")
	}
	if len(resp.Artifacts) != 2 {
		t.Errorf("got %d artifacts, want 2 (summary + email)", len(resp.Artifacts))
	}
}

func TestAPISummarize_EmptyNotes(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/summarize", strings.NewReader(`{"notes":""}`))
	rr := httptest.NewRecorder()
	s.routes().ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestAPISummarize_InvalidJSON(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/summarize", strings.NewReader("not json"))
	rr := httptest.NewRecorder()
	s.routes().ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	s.routes().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "healthy") {
		t.Error("health response should report healthy")
	}
}
