package model

// PackageCounts maps a package name to the number of indexed files it owns.
type PackageCounts = map[string]int

// Entry is one row of the ranked output.
type Entry struct {
	Package string `json:"package"`
	Count   int    `json:"count"`
}
