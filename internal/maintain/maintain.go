// Package maintain holds the read and cleanup operations that run
// against an already-populated index: duplicate listing, date and size
// queries, and staleness cleanup.
package maintain

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/afero"

	"github.com/myfox/dedup/internal/index"
	"github.com/myfox/dedup/internal/store"
)

// LargeFileDetail is the display shape of a size-threshold hit: the
// modification time is rendered as a calendar timestamp (UTC).
type LargeFileDetail struct {
	Path         string `json:"path"`
	Size         int64  `json:"size"`
	LastModified string `json:"last_modified"`
}

// timestampLayout renders epoch seconds for display.
const timestampLayout = "2006-01-02 15:04:05"

// Maintainer runs maintenance operations against the store, touching
// the filesystem only for staleness cleanup.
type Maintainer struct {
	fsys  afero.Fs
	store *store.Store
	log   *slog.Logger
}

// New creates a Maintainer over fsys and st.
func New(fsys afero.Fs, st *store.Store, log *slog.Logger) *Maintainer {
	if log == nil {
		log = slog.Default()
	}
	return &Maintainer{fsys: fsys, store: st, log: log}
}

// ListDuplicates returns every duplicate group currently persisted.
// Pure index read: resolution should always act on the latest stored
// state, never on a stale in-memory scan result.
func (m *Maintainer) ListDuplicates(ctx context.Context) ([]index.DuplicateGroup, error) {
	return m.store.QueryGroupedDuplicates(ctx)
}

// FindByDateRange returns indexed paths whose modification time lies in
// [start, end] (end inclusive when non-nil). No existence check:
// returned paths may no longer be on disk.
func (m *Maintainer) FindByDateRange(ctx context.Context, start int64, end *int64) ([]string, error) {
	return m.store.QueryByModifiedRange(ctx, start, end)
}

// FindLargeFiles returns indexed paths with size strictly above
// threshold bytes.
func (m *Maintainer) FindLargeFiles(ctx context.Context, threshold int64) ([]string, error) {
	return m.store.QueryBySizeGreaterThan(ctx, threshold)
}

// FindLargeFilesDetailed is FindLargeFiles with size and a rendered
// modification timestamp per path.
func (m *Maintainer) FindLargeFilesDetailed(ctx context.Context, threshold int64) ([]LargeFileDetail, error) {
	files, err := m.store.QueryBySizeGreaterThanDetailed(ctx, threshold)
	if err != nil {
		return nil, err
	}

	details := make([]LargeFileDetail, 0, len(files))
	for _, f := range files {
		details = append(details, LargeFileDetail{
			Path:         f.Path,
			Size:         f.Size,
			LastModified: time.Unix(f.ModifiedAt, 0).UTC().Format(timestampLayout),
		})
	}
	return details, nil
}

// CleanOldFiles deletes every indexed file with modification time
// strictly below threshold. Present files are removed from disk; all
// selected records, present on disk or not, are then removed from the
// index in one batch. A path missing from disk is logically old but
// already physically gone, so it is only dropped from the index.
//
// Returns the paths actually removed from disk.
func (m *Maintainer) CleanOldFiles(ctx context.Context, threshold int64) ([]string, error) {
	selected, err := m.store.QueryByModifiedBefore(ctx, threshold)
	if err != nil {
		return nil, err
	}

	cleaned := []string{}
	for _, path := range selected {
		exists, err := afero.Exists(m.fsys, path)
		if err != nil {
			return cleaned, err
		}
		if !exists {
			m.log.Debug("stale record, file already gone", "path", path)
			continue
		}
		if err := m.fsys.Remove(path); err != nil {
			return cleaned, err
		}
		cleaned = append(cleaned, path)
		m.log.Debug("removed old file", "path", path)
	}

	if err := m.store.DeleteByPaths(ctx, selected); err != nil {
		return cleaned, err
	}

	m.log.Info("cleanup finished",
		"threshold", threshold, "selected", len(selected), "removed_from_disk", len(cleaned))
	return cleaned, nil
}
