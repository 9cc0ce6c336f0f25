// Package resolver collapses duplicate groups down to a single
// survivor, removing the rest from disk and index.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/afero"

	"github.com/myfox/dedup/internal/index"
	"github.com/myfox/dedup/internal/store"
)

// ErrInvalidSelection means a survivor choice was absent or outside
// [1, len(paths)]. The affected group is skipped; nothing is deleted.
var ErrInvalidSelection = errors.New("invalid survivor selection")

// SurvivorPicker chooses which file of a duplicate group to keep.
// Pick returns a 1-based position into paths, or ok=false to skip the
// group. Implemented by the interactive console prompt in production
// and by plain funcs in tests.
type SurvivorPicker interface {
	Pick(digest string, paths []string) (choice int, ok bool)
}

// PickerFunc adapts a function to the SurvivorPicker interface.
type PickerFunc func(digest string, paths []string) (int, bool)

// Pick implements SurvivorPicker.
func (f PickerFunc) Pick(digest string, paths []string) (int, bool) {
	return f(digest, paths)
}

// Report is the outcome of resolving a batch of duplicate groups.
type Report struct {
	Deleted []string // paths removed from disk and index
	Skipped []string // digests of groups left untouched
	Failed  []GroupFailure
}

// GroupFailure records a group whose resolution stopped on an error.
type GroupFailure struct {
	Digest string
	Err    error
}

// Resolver deletes non-survivor duplicates. Filesystem deletions come
// first; the index is then repaired with one DeleteGroupExcept call per
// group, so a crash mid-group leaves stale index rows (pointing at
// files already gone) rather than deleted rows for files still on disk.
type Resolver struct {
	fsys  afero.Fs
	store *store.Store
	log   *slog.Logger
}

// New creates a Resolver over fsys and st.
func New(fsys afero.Fs, st *store.Store, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{fsys: fsys, store: st, log: log}
}

// ResolveGroup keeps paths[survivor-1] and deletes every other path in
// the group from disk and index. survivor is 1-based; an out-of-range
// value returns ErrInvalidSelection and changes nothing.
//
// A path already missing from disk is treated as handled, not an error.
// Returns the paths actually removed from disk.
func (r *Resolver) ResolveGroup(ctx context.Context, digest string, paths []string, survivor int) ([]string, error) {
	if survivor < 1 || survivor > len(paths) {
		return nil, fmt.Errorf("group %s: survivor %d of %d paths: %w",
			digest, survivor, len(paths), ErrInvalidSelection)
	}
	keep := paths[survivor-1]

	deleted := []string{}
	for i, path := range paths {
		if i == survivor-1 {
			continue
		}
		exists, err := afero.Exists(r.fsys, path)
		if err != nil {
			return deleted, fmt.Errorf("group %s: stat %s: %w", digest, path, err)
		}
		if !exists {
			// Already gone from disk; the index repair below still
			// drops its record.
			r.log.Debug("duplicate already absent", "path", path)
			continue
		}
		if err := r.fsys.Remove(path); err != nil {
			return deleted, fmt.Errorf("group %s: remove %s: %w", digest, path, err)
		}
		deleted = append(deleted, path)
		r.log.Debug("deleted duplicate", "path", path, "survivor", keep)
	}

	// One index mutation per group, after all file deletions.
	if err := r.store.DeleteGroupExcept(ctx, digest, keep); err != nil {
		return deleted, err
	}

	r.log.Info("group resolved", "digest", digest, "survivor", keep, "deleted", len(deleted))
	return deleted, nil
}

// ResolveAll walks every group, asks picker for a survivor, and
// resolves. Groups are independent: a skip or failure in one never
// aborts the rest.
func (r *Resolver) ResolveAll(ctx context.Context, groups []index.DuplicateGroup, picker SurvivorPicker) Report {
	var report Report
	for _, g := range groups {
		choice, ok := picker.Pick(g.Digest, g.Paths)
		if !ok {
			report.Skipped = append(report.Skipped, g.Digest)
			r.log.Info("group skipped", "digest", g.Digest)
			continue
		}

		deleted, err := r.ResolveGroup(ctx, g.Digest, g.Paths, choice)
		report.Deleted = append(report.Deleted, deleted...)
		switch {
		case errors.Is(err, ErrInvalidSelection):
			report.Skipped = append(report.Skipped, g.Digest)
			r.log.Warn("group skipped, selection out of range",
				"digest", g.Digest, "choice", choice)
		case err != nil:
			report.Failed = append(report.Failed, GroupFailure{Digest: g.Digest, Err: err})
			r.log.Error("group resolution failed", "digest", g.Digest, "error", err)
		}
	}
	return report
}
