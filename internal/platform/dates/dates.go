package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// The sheet serializes dates two ways: the formatted display string
// "DD/MM/YYYY" (one-indexed month) and the internal literal
// "Date(YYYY/MM/DD)" whose month component is already zero-indexed. Parse
// normalizes both to the same calendar day; callers must never apply a
// second month adjustment to the literal form.
var sheetDateLiteral = regexp.MustCompile(`^Date\((\d{4})/(\d{1,2})/(\d{1,2})\)$`)

const invalidDisplay = "Invalid Date"

// Parse parses a sheet date token into a civil date (midnight UTC).
// The second return is false for unparseable input; callers must check it
// before comparing dates. Out-of-range components roll over calendar-style,
// matching spreadsheet date arithmetic.
func Parse(token string) (time.Time, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return time.Time{}, false
	}

	if m := sheetDateLiteral.FindStringSubmatch(token); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2]) // zero-indexed in the literal
		day, _ := strconv.Atoi(m[3])
		return time.Date(year, time.Month(month+1), day, 0, 0, 0, 0, time.UTC), true
	}

	parts := strings.Split(token, "/")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	day, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	month, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	year, err3 := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}

// FormatOrdinalDateTime combines a sheet date token and an "HH:mm" (or
// "HH:mm:ss") time string into a display string like
// "10:00 AM on 25th July, 2025". Unparseable dates yield "Invalid Date".
func FormatOrdinalDateTime(dateStr, timeStr string) string {
	d, ok := Parse(dateStr)
	if !ok {
		return invalidDisplay
	}

	hour, minute := parseClock(timeStr)

	ampm := "AM"
	if hour >= 12 {
		ampm = "PM"
	}
	h12 := hour % 12
	if h12 == 0 {
		h12 = 12
	}

	return fmt.Sprintf("%d:%02d %s on %s", h12, minute, ampm, FormatOrdinalDate(d))
}

// FormatOrdinalDate renders "25th July, 2025".
func FormatOrdinalDate(t time.Time) string {
	return fmt.Sprintf("%d%s %s, %d", t.Day(), OrdinalSuffix(t.Day()), t.Month(), t.Year())
}

// FormatDayMonthYear renders "25 July, 2025" (no ordinal suffix); used for
// the last-visit aggregate.
func FormatDayMonthYear(t time.Time) string {
	return fmt.Sprintf("%d %s, %d", t.Day(), t.Month(), t.Year())
}

// OrdinalSuffix returns the English ordinal suffix for a day of month.
// Days 11-13 take "th" regardless of their last digit.
func OrdinalSuffix(day int) string {
	if day > 3 && day < 21 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// parseClock tolerates "HH:mm", "HH:mm:ss", and garbage; unusable segments
// fall back to zero rather than failing the whole display string.
func parseClock(timeStr string) (hour, minute int) {
	fields := make([]int, 0, 2)
	for _, seg := range strings.Split(timeStr, ":") {
		n, err := strconv.Atoi(strings.TrimSpace(seg))
		if err != nil {
			continue
		}
		fields = append(fields, n)
		if len(fields) == 2 {
			break
		}
	}
	if len(fields) > 0 {
		hour = fields[0]
	}
	if len(fields) > 1 {
		minute = fields[1]
	}
	return hour, minute
}
