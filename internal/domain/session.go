package domain

// Session is one booked-session row, already filtered to a single member.
//
// Date and Time are sheet-authoritative display strings (DD/MM/YYYY and
// HH:mm); nothing here mutates them. Location and Notes are derived at
// normalization time, not stored in the sheet.
type Session struct {
	// ID is the sheet-internal session identifier. It is opaque and not
	// guaranteed unique.
	ID string

	Date string
	Time string

	ServiceType string

	// Status is free text from the sheet: confirmed, attended, showed,
	// no-show, cancelled, invalid, or anything else.
	Status string

	Location string
	Notes    string
}

// Notification is one announcement row. Inactive rows are dropped during
// ingestion, so Active is true for every notification that reaches a
// view-model.
type Notification struct {
	ID          string
	Title       string
	Description string
	Active      bool
}
