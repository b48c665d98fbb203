package portal

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hq-recovery/member-portal-api/internal/domain"
	"github.com/hq-recovery/member-portal-api/internal/ports/out/sheetfeed"
)

// Column contracts: cell index -> meaning, fixed per table. These are the
// external wire format and must not drift; there is no schema versioning on
// the sheet side.
const (
	memberColName            = 0
	memberColPhone           = 1
	memberColEmail           = 2
	memberColRecoveryBalance = 3
	memberColPTBalance       = 4
	memberColTeamBalance     = 5
	memberColStatus          = 6
	memberColJoiningDate     = 7 // formatted string is authoritative
)

const (
	notificationColID          = 0
	notificationColTitle       = 1
	notificationColDescription = 2
	notificationColStatus      = 3 // "active" (any case) = active
)

const (
	sessionColName   = 0
	sessionColEmail  = 1
	sessionColPhone  = 2
	sessionColDate   = 3 // formatted string is authoritative
	sessionColTime   = 4 // formatted string is authoritative
	sessionColType   = 5
	sessionColID     = 6
	sessionColStatus = 7
)

// findMember scans member rows for the first case-insensitive email match.
// A miss is not an error; it signals an unregistered user.
func findMember(rows []sheetfeed.Row, email domain.EmailKey) (domain.Member, bool) {
	for _, row := range rows {
		if row.Cells == nil {
			continue
		}
		if domain.NormalizeEmail(cellString(cellAt(row, memberColEmail))) != email {
			continue
		}
		return normalizeMemberRow(row), true
	}
	return domain.Member{}, false
}

func normalizeMemberRow(row sheetfeed.Row) domain.Member {
	status := cellString(cellAt(row, memberColStatus))
	if status == "" {
		status = "None"
	}
	return domain.Member{
		Name:             cellString(cellAt(row, memberColName)),
		Phone:            cellString(cellAt(row, memberColPhone)),
		Email:            cellString(cellAt(row, memberColEmail)),
		RecoveryBalance:  cellInt(cellAt(row, memberColRecoveryBalance)),
		PTBalance:        cellInt(cellAt(row, memberColPTBalance)),
		TeamBalance:      cellInt(cellAt(row, memberColTeamBalance)),
		MembershipStatus: status,
		JoiningDate:      cellFormatted(cellAt(row, memberColJoiningDate)),
	}
}

// normalizeSessions keeps only rows belonging to email and maps them to
// session records in sheet order. Malformed rows are skipped, not fatal.
func normalizeSessions(rows []sheetfeed.Row, email domain.EmailKey, location string) []domain.Session {
	out := make([]domain.Session, 0, len(rows))
	for _, row := range rows {
		if row.Cells == nil {
			continue
		}
		if domain.NormalizeEmail(cellString(cellAt(row, sessionColEmail))) != email {
			continue
		}
		id := cellString(cellAt(row, sessionColID))
		out = append(out, domain.Session{
			ID:          id,
			Date:        cellFormatted(cellAt(row, sessionColDate)),
			Time:        cellFormatted(cellAt(row, sessionColTime)),
			ServiceType: cellString(cellAt(row, sessionColType)),
			Status:      cellString(cellAt(row, sessionColStatus)),
			Location:    location,
			Notes:       fmt.Sprintf("Session ID: %s", id),
		})
	}
	return out
}

// activeNotifications drops inactive rows at the ingestion boundary; this
// is the single filtering path, nothing re-filters downstream.
func activeNotifications(rows []sheetfeed.Row) []domain.Notification {
	out := make([]domain.Notification, 0, len(rows))
	for _, row := range rows {
		if row.Cells == nil {
			continue
		}
		if domain.NormalizeStatus(cellString(cellAt(row, notificationColStatus))) != "active" {
			continue
		}
		out = append(out, domain.Notification{
			ID:          cellString(cellAt(row, notificationColID)),
			Title:       cellString(cellAt(row, notificationColTitle)),
			Description: cellString(cellAt(row, notificationColDescription)),
			Active:      true,
		})
	}
	return out
}

func cellAt(row sheetfeed.Row, col int) *sheetfeed.Cell {
	if col < 0 || col >= len(row.Cells) {
		return nil
	}
	return row.Cells[col]
}

// cellString coerces a raw cell value to text; absent cells default to "".
func cellString(c *sheetfeed.Cell) string {
	if c == nil || c.V == nil {
		return ""
	}
	switch v := c.V.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// cellFormatted prefers the sheet's formatted display string over the raw
// value; used for date/time columns where formatting is authoritative.
func cellFormatted(c *sheetfeed.Cell) string {
	if c == nil {
		return ""
	}
	if c.F != "" {
		return c.F
	}
	return cellString(c)
}

// cellInt coerces a balance cell to a non-negative-by-convention integer:
// numbers truncate, strings parse their leading integer, anything else
// (absent, non-numeric) defaults to 0.
func cellInt(c *sheetfeed.Cell) int {
	if c == nil || c.V == nil {
		return 0
	}
	switch v := c.V.(type) {
	case float64:
		return int(v)
	case string:
		return leadingInt(v)
	default:
		return 0
	}
}

func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	end := 0
	if s[0] == '+' || s[0] == '-' {
		end = 1
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
