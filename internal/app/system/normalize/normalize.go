// internal/app/system/normalize/normalize.go

// Package normalize provides canonical forms for user-entered identity
// fields so that lookups and unique indexes behave predictably.
package normalize

import "strings"

// Email returns the canonical form of an email address: trimmed and
// lowercased. Empty or whitespace-only input normalizes to "".
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace but preserves case; display names
// keep whatever casing the user typed.
func Name(s string) string {
	return strings.TrimSpace(s)
}
