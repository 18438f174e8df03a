package ranking

import (
	"sort"

	"pkgstats/model"
	"pkgstats/util"
)

// Top returns the n packages with the most files, count descending. Entries
// are built in name order and sorted stably, so equal counts order by package
// name and the output is reproducible. When fewer than n packages exist, all
// of them are returned.
func Top(counts model.PackageCounts, n int) []model.Entry {
	entries := make([]model.Entry, 0, len(counts))
	for _, name := range util.GetKeys(counts) {
		entries = append(entries, model.Entry{Package: name, Count: counts[name]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	if n >= 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
