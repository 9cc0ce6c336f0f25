package store

import (
	"context"

	"github.com/myfox/dedup/internal/index"
)

// Upsert inserts or replaces the record keyed by its path. Idempotent:
// re-indexing an unchanged file leaves the row byte-identical.
func (s *Store) Upsert(ctx context.Context, rec index.FileRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO file_info (path, hash, file_type, size, last_modified)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			hash = excluded.hash,
			file_type = excluded.file_type,
			size = excluded.size,
			last_modified = excluded.last_modified
	`,
		rec.Path,
		rec.Digest,
		rec.Kind,
		rec.Size,
		rec.ModifiedAt,
	)
	if err != nil {
		return &StorageError{Op: "upsert", Err: err}
	}
	return nil
}

// DeleteByPath removes the record for path. Deleting an unknown path is
// not an error.
func (s *Store) DeleteByPath(ctx context.Context, path string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM file_info WHERE path = ?`, path)
	if err != nil {
		return &StorageError{Op: "delete-by-path", Err: err}
	}
	return nil
}

// DeleteByPaths removes every record whose path is in paths, as one
// transaction: either all targeted rows are gone afterward or none are.
func (s *Store) DeleteByPaths(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &StorageError{Op: "delete-by-paths", Err: err}
	}
	defer tx.Rollback() // No-op if committed

	stmt, err := tx.PrepareContext(ctx, `DELETE FROM file_info WHERE path = ?`)
	if err != nil {
		return &StorageError{Op: "delete-by-paths", Err: err}
	}
	defer stmt.Close()

	for _, p := range paths {
		if _, err := stmt.ExecContext(ctx, p); err != nil {
			return &StorageError{Op: "delete-by-paths", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &StorageError{Op: "delete-by-paths", Err: err}
	}
	return nil
}

// DeleteGroupExcept removes every record carrying digest except the one
// at keepPath, atomically. This is the single index repair step after
// resolving a duplicate group: files are deleted from disk first, then
// the whole group's rows (minus the survivor) drop in one statement.
func (s *Store) DeleteGroupExcept(ctx context.Context, digest, keepPath string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM file_info WHERE hash = ? AND path != ?
	`, digest, keepPath)
	if err != nil {
		return &StorageError{Op: "delete-group-except", Err: err}
	}
	return nil
}

// RecordScanRun inserts one scan_runs row for a completed scan.
func (s *Store) RecordScanRun(ctx context.Context, run index.ScanRun) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO scan_runs (id, root, started, finished, files_indexed, duplicate_groups)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Root,
		run.Started,
		run.Finished,
		run.FilesIndexed,
		run.DuplicateGroups,
	)
	if err != nil {
		return &StorageError{Op: "record-scan-run", Err: err}
	}
	return nil
}
