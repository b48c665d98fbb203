package portal

import (
	"testing"
	"time"

	"github.com/hq-recovery/member-portal-api/internal/domain"
)

var attendedDefault = map[string]struct{}{"showed": {}, "attended": {}}

func sessionsOn(dates ...string) []domain.Session {
	out := make([]domain.Session, len(dates))
	for i, d := range dates {
		out[i] = domain.Session{ID: d, Date: d}
	}
	return out
}

func datesOf(sessions []domain.Session) []string {
	out := make([]string, len(sessions))
	for i, s := range sessions {
		out[i] = s.Date
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestPartitionSessions_SplitAndOrder(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.January, 1, 14, 30, 0, 0, time.UTC)
	upcoming, past := partitionSessions(
		sessionsOn("01/01/2030", "15/06/2020", "01/01/2020"), now)

	if got := datesOf(upcoming); !equalStrings(got, []string{"01/01/2030"}) {
		t.Fatalf("upcoming=%v", got)
	}
	if got := datesOf(past); !equalStrings(got, []string{"15/06/2020", "01/01/2020"}) {
		t.Fatalf("past=%v", got)
	}
}

func TestPartitionSessions_TodayIsUpcoming(t *testing.T) {
	t.Parallel()

	// Any time of day: the boundary is start of today, not the current instant.
	now := time.Date(2025, time.January, 1, 23, 59, 0, 0, time.UTC)
	upcoming, past := partitionSessions(sessionsOn("01/01/2025"), now)
	if len(upcoming) != 1 || len(past) != 0 {
		t.Fatalf("upcoming=%d past=%d, want today's session upcoming", len(upcoming), len(past))
	}
}

func TestPartitionSessions_InvalidDateIsNeverUpcoming(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	upcoming, past := partitionSessions(
		sessionsOn("soon", "", "02/01/2025", "15/06/2020"), now)

	if got := datesOf(upcoming); !equalStrings(got, []string{"02/01/2025"}) {
		t.Fatalf("upcoming=%v", got)
	}
	// Valid past dates sort ahead of unparseable ones, which keep sheet order.
	if got := datesOf(past); !equalStrings(got, []string{"15/06/2020", "soon", ""}) {
		t.Fatalf("past=%v", got)
	}
}

func TestPartitionSessions_EqualDatesKeepSheetOrder(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	sessions := []domain.Session{
		{ID: "first", Date: "10/03/2025"},
		{ID: "second", Date: "10/03/2025"},
		{ID: "third", Date: "05/02/2025"},
	}
	upcoming, _ := partitionSessions(sessions, now)
	if upcoming[0].ID != "third" || upcoming[1].ID != "first" || upcoming[2].ID != "second" {
		t.Fatalf("upcoming order=%v,%v,%v", upcoming[0].ID, upcoming[1].ID, upcoming[2].ID)
	}
}

func TestAttendanceAggregates(t *testing.T) {
	t.Parallel()

	sessions := []domain.Session{
		{Date: "15/06/2020", Status: "Showed"},
		{Date: "01/01/2020", Status: "showed"},
		{Date: "20/08/2020", Status: "attended"},
		{Date: "01/01/2030", Status: "Confirmed"},
		{Date: "garbage", Status: "Showed"},
	}
	total, lastVisit := attendanceAggregates(sessions, attendedDefault)
	if total != 4 {
		t.Fatalf("total=%d, want 4", total)
	}
	if lastVisit != "20 August, 2020" {
		t.Fatalf("lastVisit=%q", lastVisit)
	}
}

func TestAttendanceAggregates_NoAttendance(t *testing.T) {
	t.Parallel()

	total, lastVisit := attendanceAggregates(sessionsOn("01/01/2030"), attendedDefault)
	if total != 0 || lastVisit != "N/A" {
		t.Fatalf("total=%d lastVisit=%q, want 0/N/A", total, lastVisit)
	}

	// Attended but unparseable: counts, but no last-visit date.
	total, lastVisit = attendanceAggregates(
		[]domain.Session{{Date: "???", Status: "Showed"}}, attendedDefault)
	if total != 1 || lastVisit != "N/A" {
		t.Fatalf("total=%d lastVisit=%q, want 1/N/A", total, lastVisit)
	}
}

func TestMotivationalMessage_Tiers(t *testing.T) {
	t.Parallel()

	cases := []struct {
		balance int
		want    string
	}{
		{0, msgNoTokens},
		{1, msgFewTokens},
		{2, msgFewTokens},
		{3, msgManyTokens},
		{10, msgManyTokens},
	}
	for _, tc := range cases {
		if got := motivationalMessage(tc.balance); got != tc.want {
			t.Fatalf("motivationalMessage(%d)=%q, want %q", tc.balance, got, tc.want)
		}
	}
}

func TestBuildDashboard(t *testing.T) {
	t.Parallel()

	member := domain.Member{
		Name:            "Jane de la Cruz",
		Email:           "jane@example.com",
		RecoveryBalance: 5,
		TeamBalance:     2,
	}
	sessions := []domain.Session{
		{ID: "s1", Date: "01/01/2030", Time: "10:00", Status: "Confirmed"},
		{ID: "s2", Date: "15/06/2020", Time: "09:30", Status: "Showed"},
		{ID: "s3", Date: "01/01/2020", Time: "08:00", Status: "showed"},
	}
	notifications := []domain.Notification{{ID: "n1", Title: "Holiday hours", Active: true}}
	now := time.Date(2025, time.January, 1, 9, 0, 0, 0, time.UTC)

	d := buildDashboard(member, sessions, notifications, now, attendedDefault)

	if d.FirstName != "Jane" || d.LastName != "de la Cruz" {
		t.Fatalf("name split=%q/%q", d.FirstName, d.LastName)
	}
	if len(d.Upcoming) != 1 || d.Upcoming[0].ID != "s1" {
		t.Fatalf("upcoming=%+v", d.Upcoming)
	}
	if len(d.Past) != 2 || d.Past[0].ID != "s2" {
		t.Fatalf("past=%+v", d.Past)
	}
	if d.NextSession != "10:00 AM on 1st January, 2030" {
		t.Fatalf("nextSession=%q", d.NextSession)
	}
	if d.TotalSessionsAttended != 2 {
		t.Fatalf("attended=%d", d.TotalSessionsAttended)
	}
	if d.LastVisit != "15 June, 2020" {
		t.Fatalf("lastVisit=%q", d.LastVisit)
	}
	if d.MotivationalMessage != msgManyTokens {
		t.Fatalf("message=%q", d.MotivationalMessage)
	}
	if len(d.Notifications) != 1 || d.Notifications[0].ID != "n1" {
		t.Fatalf("notifications=%+v", d.Notifications)
	}
}

func TestBuildDashboard_NoUpcoming(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.January, 1, 9, 0, 0, 0, time.UTC)
	d := buildDashboard(domain.Member{Name: "Jane"}, nil, nil, now, attendedDefault)
	if d.NextSession != "" {
		t.Fatalf("nextSession=%q, want empty", d.NextSession)
	}
	if d.LastVisit != "N/A" {
		t.Fatalf("lastVisit=%q, want N/A", d.LastVisit)
	}
	if d.MotivationalMessage != msgNoTokens {
		t.Fatalf("message=%q", d.MotivationalMessage)
	}
}
