// Package scanner walks a repository tree, classifies files by language,
// extracts raw imports from parseable files and aggregates statistics.
package scanner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"codeatlas/internal/extract"
	"codeatlas/internal/ignore"
	"codeatlas/internal/lang"
	"codeatlas/internal/parser"
)

// DefaultMaxFileSize is the per-file size cap when the caller sets none.
const DefaultMaxFileSize = 1 << 20 // 1 MiB

// ErrNotDirectory is returned at construction when the repository root is
// missing or not a directory. This is the one fatal configuration error.
var ErrNotDirectory = errors.New("repository root is not a directory")

// Config carries every input of a scan. There is no process-wide state: two
// scanners with different configs can run side by side.
type Config struct {
	Root           string
	MaxFileSize    int64
	UseGitignore   bool
	IgnorePatterns []string
	Workers        int
}

// File is one scanned source file. Paths are canonical repo-relative POSIX
// paths; the same physical file never yields two distinct entries.
type File struct {
	Path     string `json:"path"`
	Language string `json:"language"`
	Size     int64  `json:"size_bytes"`
}

// LanguageStats aggregates per-language counts.
type LanguageStats struct {
	Files int `json:"files"`
	Lines int `json:"lines"`
}

// Stats aggregates scan-wide counts.
type Stats struct {
	Files       int                      `json:"files"`
	Directories int                      `json:"directories"`
	LinesOfCode int                      `json:"lines_of_code"`
	Languages   map[string]LanguageStats `json:"languages"`
}

// Result is the complete output of one scan. Imports holds an entry for
// every parseable file, including files with no imports at all.
type Result struct {
	RunID   string
	Files   []File
	Imports map[string][]extract.ImportRef
	Stats   Stats
}

// Scanner walks one repository. Safe for repeated Scan calls; each call is
// independent.
type Scanner struct {
	root      string
	cfg       Config
	detector  *lang.Detector
	matcher   *ignore.Matcher
	pool      *parser.Pool
	extractor *extract.Extractor
	logger    *log.Logger
}

// New validates the root and builds the scanner. The root is resolved to an
// absolute, symlink-free path once so that every file path derived from it
// is canonical.
func New(cfg Config, logger *log.Logger) (*Scanner, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = DefaultMaxFileSize
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}

	abs, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, cfg.Root)
	}
	info, err := os.Stat(resolved)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, cfg.Root)
	}

	matcher, err := ignore.NewMatcher(resolved, cfg.UseGitignore, cfg.IgnorePatterns)
	if err != nil {
		return nil, fmt.Errorf("build ignore matcher: %w", err)
	}

	pool := parser.NewPool()
	return &Scanner{
		root:      resolved,
		cfg:       cfg,
		detector:  lang.NewDetector(),
		matcher:   matcher,
		pool:      pool,
		extractor: extract.NewExtractor(pool),
		logger:    logger,
	}, nil
}

// Root returns the canonical repository root.
func (s *Scanner) Root() string { return s.root }

// Close releases the cached parsers.
func (s *Scanner) Close() { s.pool.Close() }

// Scan walks the tree, then parses candidate files across a worker pool.
// Per-file problems are logged and skipped. Cancellation is checked at every
// directory and file boundary; on cancellation no partial result is
// returned, only the error.
func (s *Scanner) Scan(ctx context.Context) (*Result, error) {
	candidates, stats, err := s.walk(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan aborted: %w", err)
	}

	result := &Result{
		RunID:   uuid.NewString(),
		Files:   candidates,
		Imports: make(map[string][]extract.ImportRef),
		Stats:   stats,
	}

	// Parsing one file touches nothing but its own bytes and read-only
	// config, so the parse phase fans out across workers.
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)

	for _, file := range candidates {
		if file.Language == "" {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			lines, refs, ok := s.processFile(file)
			if !ok {
				return nil
			}
			mu.Lock()
			defer mu.Unlock()
			ls := result.Stats.Languages[file.Language]
			ls.Files++
			ls.Lines += lines
			result.Stats.Languages[file.Language] = ls
			result.Stats.LinesOfCode += lines
			if refs != nil {
				result.Imports[file.Path] = refs
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scan aborted: %w", err)
	}
	return result, nil
}

// walk collects candidate files, pruning ignored directories before
// descending into them.
func (s *Scanner) walk(ctx context.Context) ([]File, Stats, error) {
	var files []File
	stats := Stats{Languages: make(map[string]LanguageStats)}

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if err != nil {
			if path == s.root {
				return err
			}
			s.logger.Warn("skipping unreadable entry", "path", path, "err", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path == s.root {
				return nil
			}
			if s.matcher.Match(path, true) {
				return fs.SkipDir
			}
			stats.Directories++
			return nil
		}

		if s.matcher.Match(path, false) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			s.logger.Warn("skipping unreadable file", "path", path, "err", err)
			return nil
		}
		if info.Size() > s.cfg.MaxFileSize {
			s.logger.Debug("skipping oversized file", "path", path, "size", info.Size())
			return nil
		}

		rel := s.RepoRelative(path)
		stats.Files++

		language, known := s.detector.Detect(path)
		if !known {
			language = ""
		}
		files = append(files, File{Path: rel, Language: language, Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, Stats{}, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, stats, nil
}

// processFile reads and, when a grammar exists, parses one file. Returns the
// line count, the extracted imports (nil for unparseable languages) and
// whether the file was readable.
func (s *Scanner) processFile(file File) (int, []extract.ImportRef, bool) {
	content, err := os.ReadFile(filepath.Join(s.root, filepath.FromSlash(file.Path)))
	if err != nil {
		s.logger.Warn("skipping unreadable file", "path", file.Path, "err", err)
		return 0, nil, false
	}

	lines := countLines(content)
	if !s.detector.Parseable(file.Language) {
		return lines, nil, true
	}

	refs, err := s.extractor.Extract(file.Language, content)
	if err != nil {
		// A failed parse never fails the scan; the file is still a node.
		s.logger.Debug("import extraction failed", "path", file.Path, "err", err)
		refs = []extract.ImportRef{}
	}
	if refs == nil {
		refs = []extract.ImportRef{}
	}
	return lines, refs, true
}

// RepoRelative canonicalizes a path to a repo-relative POSIX path, resolving
// symlinks and .. segments first so one physical file maps to one key.
// Paths outside the root are returned in absolute POSIX form.
func (s *Scanner) RepoRelative(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	rel, err := filepath.Rel(s.root, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(abs)
	}
	return filepath.ToSlash(rel)
}

func countLines(content []byte) int {
	if len(content) == 0 {
		return 0
	}
	n := bytes.Count(content, []byte{'\n'})
	if content[len(content)-1] != '\n' {
		n++
	}
	return n
}
