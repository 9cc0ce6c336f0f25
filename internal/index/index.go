// Package index defines the record types shared by the store, scanner,
// and maintenance layers.
package index

import (
	"path/filepath"
	"strings"
)

// KindUnknown is the file kind recorded for names without an extension.
const KindUnknown = "unknown"

// FileRecord is one indexed file. Path is the primary key; re-indexing
// the same path replaces the prior record.
type FileRecord struct {
	Path       string `json:"path"`
	Digest     string `json:"digest"`
	Kind       string `json:"kind"`
	Size       int64  `json:"size"`
	ModifiedAt int64  `json:"modified_at"` // epoch seconds
}

// DuplicateGroup is a digest shared by two or more indexed paths.
// Derived on demand from the store; never persisted itself.
type DuplicateGroup struct {
	Digest string   `json:"digest"`
	Paths  []string `json:"paths"`
}

// Stats summarizes the whole index. All fields are zero-valued for an
// empty index.
type Stats struct {
	TotalFiles       int64            `json:"total_files"`
	UniqueKinds      int64            `json:"unique_kinds"`
	KindDistribution map[string]int64 `json:"kind_distribution"`
	TotalSize        int64            `json:"total_size"`
}

// LargeFile is the detailed row shape for size-threshold queries.
type LargeFile struct {
	Path       string `json:"path"`
	Size       int64  `json:"size"`
	ModifiedAt int64  `json:"modified_at"`
}

// ScanRun records one completed scan of a directory tree.
type ScanRun struct {
	ID              string `json:"id"`
	Root            string `json:"root"`
	Started         int64  `json:"started"`
	Finished        int64  `json:"finished"`
	FilesIndexed    int64  `json:"files_indexed"`
	DuplicateGroups int64  `json:"duplicate_groups"`
}

// KindOf returns the lowercase extension of name without the leading dot,
// or KindUnknown if name has no extension.
func KindOf(name string) string {
	ext := filepath.Ext(name)
	if ext == "" || ext == "." {
		return KindUnknown
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
