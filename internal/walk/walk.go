// Package walk lists the source files of a project in a deterministic order.
package walk

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/InfiniQuest-App/wisdom-store/internal/lang"
	"github.com/InfiniQuest-App/wisdom-store/internal/logging"
)

// Defaults for Options fields left at zero.
const (
	DefaultMaxDepth      = 8
	DefaultMaxFiles      = 2000
	DefaultMaxFileSize   = 512 << 10
	DefaultMaxMarkupSize = 2 << 20
	DefaultIgnoreFile    = ".gitignore"
	DefaultHiddenAllow   = ".well-known"
)

// ErrTooLarge marks a file skipped for exceeding its size cap.
var ErrTooLarge = errors.New("file exceeds size cap")

// skipDirs are tooling, artifact and backup directories never descended into.
var skipDirs = map[string]bool{
	"node_modules":     true,
	"bower_components": true,
	"vendor":           true,
	"dist":             true,
	"build":            true,
	"out":              true,
	"coverage":         true,
	"target":           true,
	"__pycache__":      true,
	"venv":             true,
	"env":              true,
	"tmp":              true,
	"temp":             true,
	"logs":             true,
	"backups":          true,
	"old":              true,
}

// Options bound a walk.
type Options struct {
	MaxDepth      int
	MaxFiles      int
	MaxFileSize   int64
	MaxMarkupSize int64

	// IgnoreFile is read from the root; only plain names are honored.
	IgnoreFile string

	// HiddenAllow are doublestar patterns matched against the base name of
	// dot entries. Empty means DefaultHiddenAllow.
	HiddenAllow []string

	// Exclude are doublestar patterns matched against slash-separated paths
	// relative to the root.
	Exclude []string

	Dispatcher *lang.Dispatcher
	Logger     *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.MaxFiles <= 0 {
		o.MaxFiles = DefaultMaxFiles
	}
	if o.MaxFileSize <= 0 {
		o.MaxFileSize = DefaultMaxFileSize
	}
	if o.MaxMarkupSize <= 0 {
		o.MaxMarkupSize = DefaultMaxMarkupSize
	}
	if o.IgnoreFile == "" {
		o.IgnoreFile = DefaultIgnoreFile
	}
	if len(o.HiddenAllow) == 0 {
		o.HiddenAllow = []string{DefaultHiddenAllow}
	}
	o.Logger = logging.OrDiscard(o.Logger)
	return o
}

// File is a candidate for extraction.
type File struct {
	// Path is slash-separated and relative to the root.
	Path     string
	Abs      string
	Size     int64
	Modified time.Time
	Strategy lang.Strategy
}

// Skip records an entry dropped for a reason worth reporting.
type Skip struct {
	Path string
	Err  error
}

// Result is the outcome of a walk. Files are in traversal order.
type Result struct {
	Files   []File
	Skipped []Skip

	// Truncated is set when the file limit stopped the walk.
	Truncated bool
}

type walker struct {
	root    string
	opts    Options
	ignored map[string]bool
	res     Result
}

// Walk lists the files under root that have an extraction strategy. It never
// fails: unreadable directories and oversized files are recorded in
// Result.Skipped and the walk continues.
func Walk(root string, opts Options) Result {
	opts = opts.withDefaults()
	w := &walker{
		root:    root,
		opts:    opts,
		ignored: ReadIgnoreFile(filepath.Join(root, opts.IgnoreFile)),
	}
	w.dir(root, "", 0)
	return w.res
}

// full reports whether the file limit has been reached.
func (w *walker) full() bool {
	return len(w.res.Files) >= w.opts.MaxFiles
}

// dir visits one directory. Entries come back from os.ReadDir sorted by name.
func (w *walker) dir(abs, rel string, depth int) {
	if depth > w.opts.MaxDepth {
		return
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		w.skip(rel, fmt.Errorf("read dir: %w", err))
		return
	}
	for _, d := range entries {
		if w.res.Truncated {
			return
		}
		name := d.Name()
		childAbs := filepath.Join(abs, name)
		childRel := path.Join(rel, name)

		if strings.HasPrefix(name, ".") && !w.hiddenAllowed(name) {
			continue
		}
		if w.excluded(childRel) {
			continue
		}

		isDir := d.IsDir()
		if d.Type()&fs.ModeSymlink != 0 {
			// Linked directories are not followed; linked files are read.
			fi, err := os.Stat(childAbs)
			if err != nil || fi.IsDir() {
				continue
			}
		}
		if isDir {
			if w.skipDir(name) {
				continue
			}
			w.dir(childAbs, childRel, depth+1)
			continue
		}
		w.file(childAbs, childRel)
	}
}

func (w *walker) file(abs, rel string) {
	strategy := w.opts.Dispatcher.ForFile(rel)
	if strategy.Kind == lang.None {
		return
	}
	// Only a refused candidate counts as truncation.
	if w.full() {
		w.res.Truncated = true
		return
	}
	fi, err := os.Stat(abs)
	if err != nil {
		w.skip(rel, fmt.Errorf("stat: %w", err))
		return
	}
	limit := w.opts.MaxFileSize
	if strategy.Kind == lang.Markup {
		limit = w.opts.MaxMarkupSize
	}
	if fi.Size() > limit {
		w.skip(rel, fmt.Errorf("%w: %d > %d bytes", ErrTooLarge, fi.Size(), limit))
		return
	}
	w.res.Files = append(w.res.Files, File{
		Path:     rel,
		Abs:      abs,
		Size:     fi.Size(),
		Modified: fi.ModTime(),
		Strategy: strategy,
	})
}

func (w *walker) skip(rel string, err error) {
	if rel == "" {
		rel = "."
	}
	w.opts.Logger.Debug("walk skip", "path", rel, "err", err)
	w.res.Skipped = append(w.res.Skipped, Skip{Path: rel, Err: err})
}

func (w *walker) hiddenAllowed(name string) bool {
	for _, p := range w.opts.HiddenAllow {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}

func (w *walker) excluded(rel string) bool {
	for _, p := range w.opts.Exclude {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// skipDir applies the fixed list, the ignore file, and the copy-tree
// heuristic to a directory name.
func (w *walker) skipDir(name string) bool {
	if skipDirs[name] || w.ignored[name] {
		return true
	}
	lower := strings.ToLower(name)
	return strings.Contains(name, " ") || strings.Contains(lower, "backup")
}

// ReadIgnoreFile returns the plain names listed in an ignore file. Negations,
// comments and anything carrying glob or path syntax are dropped. A missing
// or unreadable file yields an empty set.
func ReadIgnoreFile(p string) map[string]bool {
	names := make(map[string]bool)
	f, err := os.Open(p)
	if err != nil {
		return names
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}
		line = strings.TrimSuffix(strings.TrimPrefix(line, "/"), "/")
		if line == "" || strings.ContainsAny(line, "*?[/\\") {
			continue
		}
		names[line] = true
	}
	return names
}
