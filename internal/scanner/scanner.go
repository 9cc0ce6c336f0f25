// Package scanner walks a directory tree, fingerprints matching files,
// and feeds the index store.
package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/myfox/dedup/internal/fingerprint"
	"github.com/myfox/dedup/internal/index"
	"github.com/myfox/dedup/internal/store"
)

// Scanner indexes files under a root directory. Traversal is
// synchronous and single-threaded: a scan either completes or fails
// outright, and there is no cancellation mid-walk beyond the context
// check between files.
type Scanner struct {
	fsys     afero.Fs
	store    *store.Store
	fp       fingerprint.Fingerprinter
	excludes map[string]struct{}
	log      *slog.Logger
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithExcludedDirs sets directory names skipped entirely during the
// walk (matched by base name, e.g. ".git").
func WithExcludedDirs(names []string) Option {
	return func(s *Scanner) {
		for _, n := range names {
			s.excludes[n] = struct{}{}
		}
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Scanner) { s.log = log }
}

// New creates a Scanner over fsys writing into st.
func New(fsys afero.Fs, st *store.Store, fp fingerprint.Fingerprinter, opts ...Option) *Scanner {
	s := &Scanner{
		fsys:     fsys,
		store:    st,
		fp:       fp,
		excludes: map[string]struct{}{},
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan walks root, indexes every regular file whose name matches one of
// extFilters (case-insensitive suffix test against the filename), and
// returns the duplicates found during this walk: digest -> paths, only
// for digests seen at least twice.
//
// Indexing is at-least-once, not transactional across the tree: a file
// that fails fingerprinting aborts the walk with an error, but records
// upserted before the failure remain in the index. A re-scan repairs
// nothing and loses nothing - upserts are idempotent by path.
func (s *Scanner) Scan(ctx context.Context, root string, extFilters []string) (map[string][]string, error) {
	started := time.Now().Unix()
	seen := map[string][]string{}
	var indexed int64

	s.log.Debug("scan starting", "root", root, "filters", extFilters)

	err := afero.Walk(s.fsys, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("walk %s: %w", path, err)
		}
		if info.IsDir() {
			if _, skip := s.excludes[info.Name()]; skip {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		if !matchesAny(info.Name(), extFilters) {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		digest, err := s.fp.Sum(s.fsys, path)
		if err != nil {
			return fmt.Errorf("fingerprint: %w", err)
		}

		rec := index.FileRecord{
			Path:       path,
			Digest:     digest,
			Kind:       index.KindOf(info.Name()),
			Size:       info.Size(),
			ModifiedAt: info.ModTime().Unix(),
		}
		if err := s.store.Upsert(ctx, rec); err != nil {
			return err
		}

		seen[digest] = append(seen[digest], path)
		indexed++
		s.log.Debug("indexed", "path", path, "digest", digest)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}

	duplicates := map[string][]string{}
	for digest, paths := range seen {
		if len(paths) > 1 {
			duplicates[digest] = paths
		}
	}

	run := index.ScanRun{
		ID:              uuid.NewString(),
		Root:            root,
		Started:         started,
		Finished:        time.Now().Unix(),
		FilesIndexed:    indexed,
		DuplicateGroups: int64(len(duplicates)),
	}
	if err := s.store.RecordScanRun(ctx, run); err != nil {
		return nil, err
	}

	s.log.Info("scan finished",
		"root", root, "files", indexed, "duplicate_groups", len(duplicates))
	return duplicates, nil
}

// matchesAny reports whether name ends with one of the filters,
// ignoring case. An empty filter list matches nothing.
func matchesAny(name string, filters []string) bool {
	lower := strings.ToLower(name)
	for _, f := range filters {
		if strings.HasSuffix(lower, strings.ToLower(f)) {
			return true
		}
	}
	return false
}
