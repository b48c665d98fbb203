package domain

import "strings"

// NormalizeHumanName trims leading/trailing whitespace and collapses internal whitespace runs.
// It is used for display-name normalization before splitting.
func NormalizeHumanName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// SplitDisplayName splits a single display-name cell into first and last
// name: first whitespace token, then the remaining tokens joined by one
// space. A single-token name yields an empty last name.
func SplitDisplayName(name string) (first, last string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// NormalizeEmail lowers an email address for matching. Sheet rows and the
// authenticated identity are compared case-insensitively only; no other
// canonicalization is applied.
func NormalizeEmail(email string) EmailKey {
	return EmailKey(strings.ToLower(strings.TrimSpace(email)))
}

// NormalizeStatus lowers a free-text status cell (membership or session
// status) for comparisons.
func NormalizeStatus(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
