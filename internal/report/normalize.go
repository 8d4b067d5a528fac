// Package report turns long-format question responses into a wide
// per-entity table.
package report

import "strings"

// NormalizeColumnName trims surrounding whitespace, lowercases, and
// replaces internal spaces with underscores. Applying it twice is the
// same as applying it once.
func NormalizeColumnName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// NormalizeColumns maps NormalizeColumnName over names
func NormalizeColumns(names []string) []string {
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = NormalizeColumnName(name)
	}
	return out
}
