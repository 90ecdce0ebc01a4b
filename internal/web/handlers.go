package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"github.com/nugget/recap/internal/artifact"
	"github.com/nugget/recap/internal/notes"
	"github.com/nugget/recap/internal/pipeline"
)

// maxUploadBytes caps the multipart form size for the process handler.
const maxUploadBytes = 32 << 20

// IndexData is the template context for the input form.
type IndexData struct {
	ActiveNav    string
	DefaultModel string
	Premium      string
	Email        bool
	Brief        bool
}

// handleIndex renders the paste/upload form at "/". Only exact "/"
// requests get the form; all other paths return 404.
func (s *WebServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	s.render(w, r, "index.html", IndexData{
		ActiveNav:    "new",
		DefaultModel: s.cfg.Models.Default,
		Premium:      s.cfg.Models.Premium,
		Email:        s.cfg.Output.Email,
		Brief:        s.cfg.Output.Brief,
	})
}

// ArtifactView is one generated artifact in the result page.
type ArtifactView struct {
	Kind         string
	Label        string
	Name         string
	Preview      template.HTML
	Text         string
	InputTokens  int
	OutputTokens int
}

// RunView is one processed input in the result page.
type RunView struct {
	Source    string
	Model     string
	Truncated bool
	CostUSD   float64
	Err       string
	Artifacts []ArtifactView
}

// ResultData is the template context for the results page.
type ResultData struct {
	ActiveNav string
	Runs      []RunView
	Processed int
	Failed    int
}

var artifactLabels = map[artifact.Kind]string{
	artifact.KindSummary: "Meeting Summary",
	artifact.KindEmail:   "Follow-up Email",
	artifact.KindBrief:   "Executive Brief",
}

// handleProcess accepts the form submission: pasted text or one or
// more uploaded files plus the option set. Multiple uploads behave
// like batch mode, continuing past per-file failures.
func (s *WebServer) handleProcess(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid form: "+err.Error(), http.StatusBadRequest)
		return
	}

	req := pipeline.Request{
		Date:  r.FormValue("date"),
		Model: r.FormValue("model"),
		Email: r.FormValue("email") == "on",
		Brief: r.FormValue("brief") == "on",
	}

	data := ResultData{ActiveNav: "new"}

	var uploads []*multipart.FileHeader
	if r.MultipartForm != nil {
		uploads = r.MultipartForm.File["notes"]
	}

	if len(uploads) > 0 {
		for _, fh := range uploads {
			text, err := readUpload(fh)
			if err != nil {
				data.Runs = append(data.Runs, RunView{Source: fh.Filename, Err: err.Error()})
				data.Failed++
				continue
			}
			fileReq := req
			fileReq.Notes = text
			fileReq.Source = fh.Filename
			data.Runs = append(data.Runs, s.runOne(r, fileReq))
		}
	} else {
		req.Notes = r.FormValue("text")
		req.Source = "web"
		data.Runs = append(data.Runs, s.runOne(r, req))
	}

	for _, run := range data.Runs {
		if run.Err == "" {
			data.Processed++
		}
	}
	data.Failed = len(data.Runs) - data.Processed

	s.render(w, r, "result.html", data)
}

// runOne processes a single input and converts the outcome to a view.
func (s *WebServer) runOne(r *http.Request, req pipeline.Request) RunView {
	view := RunView{Source: req.Source}

	res, err := s.processor.Process(r.Context(), req)
	if err != nil {
		if errors.Is(err, notes.ErrEmpty) {
			view.Err = "no notes provided"
		} else {
			view.Err = err.Error()
		}
		return view
	}

	view.Model = res.Model
	view.Truncated = res.Truncated
	view.CostUSD = res.CostUSD

	for _, a := range res.Artifacts {
		av := ArtifactView{
			Kind:         string(a.Kind),
			Label:        artifactLabels[a.Kind],
			Name:         filepath.Base(a.Path),
			Text:         a.Text,
			InputTokens:  a.InputTokens,
			OutputTokens: a.OutputTokens,
		}
		if a.Kind == artifact.KindSummary {
			av.Preview = renderMarkdown(a.Text)
		}
		view.Artifacts = append(view.Artifacts, av)
	}
	return view
}

// readUpload extracts notes text from an uploaded file, applying the
// same HTML extraction the file reader does.
func readUpload(fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}

	text := string(data)
	switch strings.ToLower(filepath.Ext(fh.Filename)) {
	case ".html", ".htm":
		_, text = notes.ExtractHTML(text)
	}
	return text, nil
}

// renderMarkdown converts generated markdown to HTML for the inline
// preview. Goldmark does not emit raw HTML from markdown by default,
// which keeps model output from injecting markup.
func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return template.HTML("<pre>" + template.HTMLEscapeString(md) + "</pre>")
	}
	return template.HTML(buf.String())
}

// RecentFile is one entry in the recent-summaries listing.
type RecentFile struct {
	Name    string
	ModTime time.Time
	Size    int64
}

// RecentData is the template context for the recent page.
type RecentData struct {
	ActiveNav string
	Files     []RecentFile
}

// recentLimit caps the recent-summaries listing.
const recentLimit = 10

// handleRecent lists the newest summary files in the output directory.
func (s *WebServer) handleRecent(w http.ResponseWriter, r *http.Request) {
	data := RecentData{ActiveNav: "recent"}

	matches, err := filepath.Glob(filepath.Join(s.cfg.Output.Dir, "meeting_summary_*.md"))
	if err == nil {
		for _, path := range matches {
			info, statErr := os.Stat(path)
			if statErr != nil {
				continue
			}
			data.Files = append(data.Files, RecentFile{
				Name:    filepath.Base(path),
				ModTime: info.ModTime(),
				Size:    info.Size(),
			})
		}
	}

	sort.Slice(data.Files, func(i, j int) bool {
		return data.Files[i].ModTime.After(data.Files[j].ModTime)
	})
	if len(data.Files) > recentLimit {
		data.Files = data.Files[:recentLimit]
	}

	s.render(w, r, "recent.html", data)
}

// handleDownload serves a generated artifact file by name. Names are
// restricted to plain basenames inside the output directory.
func (s *WebServer) handleDownload(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		http.Error(w, "invalid file name", http.StatusBadRequest)
		return
	}

	path := filepath.Join(s.cfg.Output.Dir, name)
	f, err := os.Open(path)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	contentType := "text/plain; charset=utf-8"
	if strings.HasSuffix(name, ".md") {
		contentType = "text/markdown; charset=utf-8"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)

	if _, err := io.Copy(w, f); err != nil {
		s.logger.Debug("download interrupted", "name", name, "error", err)
	}
}

// summarizeRequest is the JSON API request body.
type summarizeRequest struct {
	Notes string `json:"notes"`
	Date  string `json:"date,omitempty"`
	Model string `json:"model,omitempty"`
	Email bool   `json:"email,omitempty"`
	Brief bool   `json:"brief,omitempty"`
}

// summarizeArtifact is one artifact in the JSON API response.
type summarizeArtifact struct {
	Kind         string `json:"kind"`
	File         string `json:"file"`
	Text         string `json:"text"`
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
}

// summarizeResponse is the JSON API response body.
type summarizeResponse struct {
	RunID     string              `json:"run_id"`
	Model     string              `json:"model"`
	Provider  string              `json:"provider"`
	Truncated bool                `json:"truncated"`
	CostUSD   float64             `json:"cost_usd"`
	Artifacts []summarizeArtifact `json:"artifacts"`
}

// handleAPISummarize mirrors the CLI run command over JSON.
// POST /api/summarize {"notes": "...", "email": true}
func (s *WebServer) handleAPISummarize(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := s.processor.Process(r.Context(), pipeline.Request{
		Notes:  req.Notes,
		Source: "api",
		Date:   req.Date,
		Model:  req.Model,
		Email:  req.Email,
		Brief:  req.Brief,
	})
	if err != nil {
		if errors.Is(err, notes.ErrEmpty) {
			s.errorResponse(w, http.StatusBadRequest, "notes are required")
			return
		}
		s.logger.Error("summarize failed", "error", err)
		s.errorResponse(w, http.StatusBadGateway, err.Error())
		return
	}

	resp := summarizeResponse{
		RunID:     res.RunID,
		Model:     res.Model,
		Provider:  res.Provider,
		Truncated: res.Truncated,
		CostUSD:   res.CostUSD,
	}
	for _, a := range res.Artifacts {
		resp.Artifacts = append(resp.Artifacts, summarizeArtifact{
			Kind:         string(a.Kind),
			File:         filepath.Base(a.Path),
			Text:         a.Text,
			InputTokens:  a.InputTokens,
			OutputTokens: a.OutputTokens,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, resp, s.logger)
}
