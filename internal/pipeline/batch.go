package pipeline

import (
	"context"
	"path/filepath"

	"github.com/nugget/recap/internal/notes"
)

// FileResult records the outcome for one file in a batch run.
type FileResult struct {
	Path   string
	Result *Result
	Err    error
}

// Report summarizes a batch run.
type Report struct {
	Total     int
	Processed int
	Failed    int
	Files     []FileResult
}

// Batch processes every notes file in dir sequentially. A failure on
// one file is recorded and the batch moves on to the next; only an
// unreadable directory or a cancelled context aborts the whole run.
// req supplies the per-file options (model, email/brief toggles); its
// Notes and Source fields are filled from each file.
func (p *Processor) Batch(ctx context.Context, dir string, req Request) (*Report, error) {
	files, err := notes.ListDir(dir)
	if err != nil {
		return nil, err
	}

	report := &Report{Total: len(files)}

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		fr := FileResult{Path: path}

		text, err := notes.ReadFile(path)
		if err != nil {
			fr.Err = err
			report.Failed++
			report.Files = append(report.Files, fr)
			p.logger.Error("batch file failed", "path", path, "error", err)
			continue
		}

		fileReq := req
		fileReq.Notes = text
		fileReq.Source = filepath.Base(path)

		res, err := p.Process(ctx, fileReq)
		if err != nil {
			fr.Err = err
			report.Failed++
			p.logger.Error("batch file failed", "path", path, "error", err)
		} else {
			fr.Result = res
			report.Processed++
		}
		report.Files = append(report.Files, fr)
	}

	return report, nil
}
