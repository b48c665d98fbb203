package portal

import (
	"sort"
	"time"

	"github.com/hq-recovery/member-portal-api/internal/domain"
	"github.com/hq-recovery/member-portal-api/internal/platform/dates"
)

// Motivational tier messages keyed off the member's total token balance.
const (
	msgNoTokens   = "Ready to begin your wellness journey? Purchase sessions to get started!"
	msgFewTokens  = "You're making great progress! Consider booking your next session."
	msgManyTokens = "You're one session closer to full recovery! Keep up the amazing work."
)

// buildDashboard derives the complete view-model from one member record,
// that member's sessions (sheet order), and the active notifications.
// All fields are computed fresh; nothing is merged from prior refreshes.
func buildDashboard(member domain.Member, sessions []domain.Session, notifications []domain.Notification, now time.Time, attended map[string]struct{}) domain.Dashboard {
	first, last := domain.SplitDisplayName(member.Name)
	upcoming, past := partitionSessions(sessions, now)
	total, lastVisit := attendanceAggregates(sessions, attended)

	d := domain.Dashboard{
		Member:                member,
		FirstName:             first,
		LastName:              last,
		Upcoming:              upcoming,
		Past:                  past,
		Notifications:         notifications,
		TotalSessionsAttended: total,
		LastVisit:             lastVisit,
		MotivationalMessage:   motivationalMessage(member.TotalBalance()),
	}
	if len(upcoming) > 0 {
		d.NextSession = dates.FormatOrdinalDateTime(upcoming[0].Date, upcoming[0].Time)
	}
	return d
}

// partitionSessions splits sessions at the start of "today": a session is
// upcoming iff its parsed date is on or after that boundary. Invalid dates
// are never upcoming. Upcoming sorts ascending, past descending; equal or
// unparseable dates keep their sheet order (stable sort).
func partitionSessions(sessions []domain.Session, now time.Time) (upcoming, past []domain.Session) {
	today := dates.StartOfDay(now)

	upcoming = make([]domain.Session, 0, len(sessions))
	past = make([]domain.Session, 0, len(sessions))
	for _, s := range sessions {
		d, ok := dates.Parse(s.Date)
		if ok && !d.Before(today) {
			upcoming = append(upcoming, s)
		} else {
			past = append(past, s)
		}
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		di, _ := dates.Parse(upcoming[i].Date)
		dj, _ := dates.Parse(upcoming[j].Date)
		return di.Before(dj)
	})
	sort.SliceStable(past, func(i, j int) bool {
		di, oki := dates.Parse(past[i].Date)
		dj, okj := dates.Parse(past[j].Date)
		if !oki || !okj {
			// Valid dates sort ahead of invalid ones; two invalids tie.
			return oki && !okj
		}
		return dj.Before(di)
	})
	return upcoming, past
}

// attendanceAggregates counts attended sessions and finds the most recent
// one by parsed date. Attended sessions with unparseable dates still count
// toward the total but cannot win the last-visit slot.
func attendanceAggregates(sessions []domain.Session, attended map[string]struct{}) (total int, lastVisit string) {
	var best time.Time
	haveBest := false
	for _, s := range sessions {
		if _, ok := attended[domain.NormalizeStatus(s.Status)]; !ok {
			continue
		}
		total++
		d, ok := dates.Parse(s.Date)
		if !ok {
			continue
		}
		if !haveBest || d.After(best) {
			best = d
			haveBest = true
		}
	}
	if !haveBest {
		return total, "N/A"
	}
	return total, dates.FormatDayMonthYear(best)
}

func motivationalMessage(totalBalance int) string {
	switch {
	case totalBalance == 0:
		return msgNoTokens
	case totalBalance <= 2:
		return msgFewTokens
	default:
		return msgManyTokens
	}
}
