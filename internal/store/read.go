package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/myfox/dedup/internal/index"
)

// GetByPath retrieves a single record. The second return is false if the
// path is not indexed.
func (s *Store) GetByPath(ctx context.Context, path string) (index.FileRecord, bool, error) {
	var rec index.FileRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT path, hash, file_type, size, last_modified
		FROM file_info
		WHERE path = ?
	`, path).Scan(&rec.Path, &rec.Digest, &rec.Kind, &rec.Size, &rec.ModifiedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return index.FileRecord{}, false, nil
	}
	if err != nil {
		return index.FileRecord{}, false, &StorageError{Op: "get-by-path", Err: err}
	}
	return rec, true, nil
}

// Count returns the number of indexed records.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM file_info`).Scan(&n); err != nil {
		return 0, &StorageError{Op: "count", Err: err}
	}
	return n, nil
}

// QueryByModifiedRange returns paths with last_modified >= start and,
// if end is non-nil, <= *end. Both bounds are inclusive. Paths are
// ordered deterministically.
func (s *Store) QueryByModifiedRange(ctx context.Context, start int64, end *int64) ([]string, error) {
	query := `SELECT path FROM file_info WHERE last_modified >= ?`
	args := []any{start}
	if end != nil {
		query += ` AND last_modified <= ?`
		args = append(args, *end)
	}
	query += ` ORDER BY path ASC`

	return s.queryPaths(ctx, "query-by-modified-range", query, args...)
}

// QueryByModifiedBefore returns paths with last_modified strictly below
// threshold. Used by staleness cleanup.
func (s *Store) QueryByModifiedBefore(ctx context.Context, threshold int64) ([]string, error) {
	return s.queryPaths(ctx, "query-by-modified-before", `
		SELECT path FROM file_info WHERE last_modified < ? ORDER BY path ASC
	`, threshold)
}

// QueryBySizeGreaterThan returns paths with size strictly above
// threshold.
func (s *Store) QueryBySizeGreaterThan(ctx context.Context, threshold int64) ([]string, error) {
	return s.queryPaths(ctx, "query-by-size", `
		SELECT path FROM file_info WHERE size > ? ORDER BY path ASC
	`, threshold)
}

// QueryBySizeGreaterThanDetailed is the detail variant of
// QueryBySizeGreaterThan, returning size and modification time per path.
func (s *Store) QueryBySizeGreaterThanDetailed(ctx context.Context, threshold int64) ([]index.LargeFile, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT path, size, last_modified
		FROM file_info
		WHERE size > ?
		ORDER BY path ASC
	`, threshold)
	if err != nil {
		return nil, &StorageError{Op: "query-by-size-detailed", Err: err}
	}
	defer rows.Close()

	files := []index.LargeFile{}
	for rows.Next() {
		var f index.LargeFile
		if err := rows.Scan(&f.Path, &f.Size, &f.ModifiedAt); err != nil {
			return nil, &StorageError{Op: "query-by-size-detailed", Err: err}
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "query-by-size-detailed", Err: err}
	}
	return files, nil
}

// QueryGroupedDuplicates returns, for every digest held by two or more
// records, the group of paths sharing it. Groups are ordered by digest
// and paths within a group by path, so one query's output is stable.
func (s *Store) QueryGroupedDuplicates(ctx context.Context) ([]index.DuplicateGroup, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT hash, path
		FROM file_info
		WHERE hash IN (
			SELECT hash FROM file_info GROUP BY hash HAVING COUNT(*) > 1
		)
		ORDER BY hash ASC, path ASC
	`)
	if err != nil {
		return nil, &StorageError{Op: "query-grouped-duplicates", Err: err}
	}
	defer rows.Close()

	groups := []index.DuplicateGroup{}
	for rows.Next() {
		var digest, path string
		if err := rows.Scan(&digest, &path); err != nil {
			return nil, &StorageError{Op: "query-grouped-duplicates", Err: err}
		}
		if n := len(groups); n > 0 && groups[n-1].Digest == digest {
			groups[n-1].Paths = append(groups[n-1].Paths, path)
		} else {
			groups = append(groups, index.DuplicateGroup{Digest: digest, Paths: []string{path}})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "query-grouped-duplicates", Err: err}
	}
	return groups, nil
}

// AggregateStats summarizes the index: record count, distinct kinds,
// per-kind counts, and total size. All zero for an empty index.
func (s *Store) AggregateStats(ctx context.Context) (index.Stats, error) {
	stats := index.Stats{KindDistribution: map[string]int64{}}

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT file_type), COALESCE(SUM(size), 0)
		FROM file_info
	`).Scan(&stats.TotalFiles, &stats.UniqueKinds, &stats.TotalSize)
	if err != nil {
		return index.Stats{}, &StorageError{Op: "aggregate-stats", Err: err}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT file_type, COUNT(*) FROM file_info GROUP BY file_type
	`)
	if err != nil {
		return index.Stats{}, &StorageError{Op: "aggregate-stats", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var kind string
		var count int64
		if err := rows.Scan(&kind, &count); err != nil {
			return index.Stats{}, &StorageError{Op: "aggregate-stats", Err: err}
		}
		stats.KindDistribution[kind] = count
	}
	if err := rows.Err(); err != nil {
		return index.Stats{}, &StorageError{Op: "aggregate-stats", Err: err}
	}
	return stats, nil
}

// LastScanRun returns the most recently finished scan, or nil if the
// index has never been scanned into.
func (s *Store) LastScanRun(ctx context.Context) (*index.ScanRun, error) {
	var run index.ScanRun
	err := s.db.QueryRowContext(ctx, `
		SELECT id, root, started, finished, files_indexed, duplicate_groups
		FROM scan_runs
		ORDER BY finished DESC, id DESC
		LIMIT 1
	`).Scan(&run.ID, &run.Root, &run.Started, &run.Finished, &run.FilesIndexed, &run.DuplicateGroups)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &StorageError{Op: "last-scan-run", Err: err}
	}
	return &run, nil
}

// queryPaths runs a single-column path query and collects the results.
// Returns an empty slice (not nil) when nothing matches.
func (s *Store) queryPaths(ctx context.Context, op, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &StorageError{Op: op, Err: err}
	}
	defer rows.Close()

	paths := []string{}
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, &StorageError{Op: op, Err: err}
		}
		paths = append(paths, p)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: op, Err: err}
	}
	return paths, nil
}
