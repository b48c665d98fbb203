package domain

import "time"

// Dashboard is the fully derived, render-ready view-model for one member:
// profile, partitioned sessions, active notifications, and the aggregates
// computed from them. It is rebuilt from source on every refresh and never
// incrementally merged; nothing in it outlives the refresh that produced it
// except the copy held by the snapshot holder.
type Dashboard struct {
	// SnapshotID identifies one refresh cycle. Overlapping refreshes for the
	// same member are not coalesced; the last snapshot stored wins.
	SnapshotID string
	FetchedAt  time.Time

	Member    Member
	FirstName string
	LastName  string

	// Upcoming is sorted ascending by date (soonest first); Past descending
	// (most recent first). Ties keep sheet order.
	Upcoming []Session
	Past     []Session

	Notifications []Notification

	TotalSessionsAttended int

	// LastVisit is the most recent attended session date as
	// "<day> <MonthName>, <year>", or "N/A" when the member has none.
	LastVisit string

	// NextSession is the soonest upcoming session as an ordinal date-time
	// display string; empty when nothing is booked.
	NextSession string

	MotivationalMessage string
}
