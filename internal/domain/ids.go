package domain

// EmailKey is a member email lowered for case-insensitive matching.
// Member rows are keyed by email, not by an internal identifier.
type EmailKey string
