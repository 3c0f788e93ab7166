package wisdom

import (
	"bytes"
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/InfiniQuest-App/wisdom-store/internal/extract"
	"github.com/InfiniQuest-App/wisdom-store/internal/lang"
	"github.com/InfiniQuest-App/wisdom-store/internal/logging"
	"github.com/InfiniQuest-App/wisdom-store/internal/registry"
	"github.com/InfiniQuest-App/wisdom-store/internal/runtime"
	"github.com/InfiniQuest-App/wisdom-store/internal/syntax"
	"github.com/InfiniQuest-App/wisdom-store/internal/walk"
)

// ScanOptions bound a scan. Zero values take the walker defaults: depth 8,
// 2000 files, 512 KiB per file and 2 MiB per markup file.
type ScanOptions struct {
	MaxDepth      int
	MaxFiles      int
	MaxFileSize   int64
	MaxMarkupSize int64
	IgnoreFile    string
	HiddenAllow   []string
	Exclude       []string

	// APIPrefix is the prefix mount declarations must carry. Empty means "/api".
	APIPrefix string

	// Scripts maps extra file extensions to Risor extraction scripts,
	// resolved against the project root or ScriptsFS.
	Scripts   map[string]string
	ScriptsFS fs.FS

	Logger *slog.Logger
}

// Status is the outcome of one file.
type Status string

const (
	StatusOK      Status = "ok"
	StatusPartial Status = "partial"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// FileReport records how one walked entry fared. Err is nil for ok files.
type FileReport struct {
	Path   string
	Status Status
	Err    error
}

// ScanResult is everything one scan produced.
type ScanResult struct {
	Files    []ScannedFile
	Registry *Registry
	Reports  []FileReport

	// Truncated is set when the file limit cut the walk short.
	Truncated bool
}

// Failures returns the reports that are not ok.
func (r *ScanResult) Failures() []FileReport {
	var out []FileReport
	for _, rep := range r.Reports {
		if rep.Status != StatusOK {
			out = append(out, rep)
		}
	}
	return out
}

// Scan indexes the project under root. It never fails: files that cannot be
// read or parsed are dropped and listed in the result's reports, and
// everything else still lands in the registry.
func Scan(root string, opts ScanOptions) *ScanResult {
	start := time.Now()
	log := logging.OrDiscard(opts.Logger)

	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}

	walked := walk.Walk(root, walk.Options{
		MaxDepth:      opts.MaxDepth,
		MaxFiles:      opts.MaxFiles,
		MaxFileSize:   opts.MaxFileSize,
		MaxMarkupSize: opts.MaxMarkupSize,
		IgnoreFile:    opts.IgnoreFile,
		HiddenAllow:   opts.HiddenAllow,
		Exclude:       opts.Exclude,
		Dispatcher:    lang.NewDispatcher(opts.Scripts),
		Logger:        log,
	})

	parser := syntax.NewTreeSitter()
	defer parser.Close()

	exOpts := []extract.Option{extract.WithAPIPrefix(opts.APIPrefix)}
	if len(opts.Scripts) > 0 {
		rtOpts := []runtime.RuntimeOption{runtime.WithLogger(log)}
		if opts.ScriptsFS != nil {
			rtOpts = append(rtOpts, runtime.WithRuntimeFS(opts.ScriptsFS))
		}
		exOpts = append(exOpts, extract.WithScriptRunner(runtime.NewRuntime(root, rtOpts...)))
	}
	ex := extract.New(parser, exOpts...)

	reg := registry.New()
	res := &ScanResult{
		Files:     []ScannedFile{},
		Registry:  reg,
		Truncated: walked.Truncated,
	}

	ctx := context.Background()
	for _, f := range walked.Files {
		src, err := os.ReadFile(f.Abs)
		if err != nil {
			log.Debug("skipping unreadable file", "path", f.Path, "error", err)
			res.Reports = append(res.Reports, FileReport{Path: f.Path, Status: StatusSkipped, Err: err})
			continue
		}
		res.Files = append(res.Files, ScannedFile{
			Path:     f.Path,
			Language: f.Strategy.Language,
			Lines:    countLines(src),
			Size:     f.Size,
			Modified: f.Modified,
		})

		out, err := ex.Extract(ctx, f.Strategy, f.Path, src)
		if err != nil {
			log.Debug("dropping file contribution", "path", f.Path, "error", err)
			res.Reports = append(res.Reports, FileReport{Path: f.Path, Status: StatusFailed, Err: err})
			continue
		}
		out.Apply(reg, f.Path)

		status := StatusOK
		if out.Degraded {
			status = StatusPartial
		}
		res.Reports = append(res.Reports, FileReport{Path: f.Path, Status: status})
	}

	for _, s := range walked.Skipped {
		res.Reports = append(res.Reports, FileReport{Path: s.Path, Status: StatusSkipped, Err: s.Err})
	}
	if walked.Truncated {
		log.Warn("file limit reached, scan truncated", "files", len(walked.Files))
	}

	reg.Meta = registry.Metadata{
		Project:   root,
		ScanID:    uuid.NewString(),
		ScannedAt: start.UTC(),
		ElapsedMS: time.Since(start).Milliseconds(),
		FileCount: len(res.Files),
	}
	log.Info("scan complete",
		"project", root,
		"files", len(res.Files),
		"symbols", len(reg.All()),
		"routes", len(reg.Routes()),
		"elapsed_ms", reg.Meta.ElapsedMS,
	)
	return res
}

// countLines counts newline-terminated lines plus a final unterminated one.
func countLines(src []byte) int {
	if len(src) == 0 {
		return 0
	}
	n := bytes.Count(src, []byte{'\n'})
	if src[len(src)-1] != '\n' {
		n++
	}
	return n
}
