package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/myfox/dedup/internal/index"
)

// numPrinter renders counts with grouped digits in text output.
var numPrinter = message.NewPrinter(language.English)

// renderGroups writes duplicate groups as text, one block per digest.
func renderGroups(w io.Writer, groups []index.DuplicateGroup) {
	if len(groups) == 0 {
		fmt.Fprintln(w, "No duplicates found.")
		return
	}
	for _, g := range groups {
		fmt.Fprintf(w, "Duplicate files for hash %s:\n", g.Digest)
		for _, p := range g.Paths {
			fmt.Fprintf(w, " - %s\n", p)
		}
	}
}

// groupsFromMap converts the scanner's digest->paths result into the
// shared group shape, ordered by digest for stable output.
func groupsFromMap(m map[string][]string) []index.DuplicateGroup {
	digests := make([]string, 0, len(m))
	for d := range m {
		digests = append(digests, d)
	}
	sort.Strings(digests)

	groups := make([]index.DuplicateGroup, 0, len(digests))
	for _, d := range digests {
		groups = append(groups, index.DuplicateGroup{Digest: d, Paths: m[d]})
	}
	return groups
}

// renderStats writes the index summary as text.
func renderStats(w io.Writer, stats index.Stats, lastRun *index.ScanRun) {
	numPrinter.Fprintf(w, "Total files: %d\n", stats.TotalFiles)
	numPrinter.Fprintf(w, "Unique file types: %d\n", stats.UniqueKinds)

	if len(stats.KindDistribution) > 0 {
		fmt.Fprintln(w, "File type distribution:")
		kinds := make([]string, 0, len(stats.KindDistribution))
		for k := range stats.KindDistribution {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		for _, k := range kinds {
			numPrinter.Fprintf(w, "  %s: %d\n", k, stats.KindDistribution[k])
		}
	}

	fmt.Fprintf(w, "Total size: %s (%d bytes)\n",
		humanize.Bytes(uint64(stats.TotalSize)), stats.TotalSize)

	if lastRun != nil {
		numPrinter.Fprintf(w, "Last scan: %s (%d files, %d duplicate groups)\n",
			lastRun.Root, lastRun.FilesIndexed, lastRun.DuplicateGroups)
	}
}
