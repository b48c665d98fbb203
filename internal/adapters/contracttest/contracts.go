package contracttest

import (
	"context"
	"errors"
	"testing"

	"github.com/hq-recovery/member-portal-api/internal/ports/out/sheetfeed"
)

type CleanupFunc = func()

// TableData seeds a sheetfeed.Source under test with raw rows per table and
// per-table availability. Cell values must survive a JSON round trip
// (strings, float64) so the same fixture drives both the in-memory fake and
// the gviz adapter behind a stub server.
type TableData struct {
	Members       []sheetfeed.Row
	Notifications []sheetfeed.Row
	Sessions      []sheetfeed.Row

	MembersDown       bool
	NotificationsDown bool
	SessionsDown      bool
}

type SourceFactory func(t *testing.T, data TableData) (sheetfeed.Source, CleanupFunc)

// Cell is a fixture helper for a plain string cell.
func Cell(v string) *sheetfeed.Cell {
	return &sheetfeed.Cell{V: v}
}

// FormattedCell is a fixture helper for a cell carrying both a raw value
// and a formatted display string.
func FormattedCell(v any, f string) *sheetfeed.Cell {
	return &sheetfeed.Cell{V: v, F: f}
}

// RunSheetFeedSource verifies the sheetfeed.Source tolerance contract
// against any implementation.
func RunSheetFeedSource(t *testing.T, newSource SourceFactory) {
	t.Helper()
	ctx := context.Background()

	t.Run("RowsRoundTrip", func(t *testing.T) {
		data := TableData{
			Members: []sheetfeed.Row{
				{Cells: []*sheetfeed.Cell{
					Cell("Jane Doe"),
					Cell("555-0100"),
					Cell("jane@example.com"),
					FormattedCell(float64(5), "5"),
					nil, // absent cell
					Cell("2"),
					Cell("Active"),
					FormattedCell("Date(2025/00/15)", "15/01/2025"),
				}},
				{}, // malformed row: no cell array
			},
			Sessions: []sheetfeed.Row{
				{Cells: []*sheetfeed.Cell{
					Cell("Jane Doe"),
					Cell("jane@example.com"),
					Cell("555-0100"),
					FormattedCell("Date(2025/06/25)", "25/07/2025"),
					FormattedCell(nil, "10:00"),
					Cell("Recovery"),
					Cell("sess-1"),
					Cell("Confirmed"),
				}},
			},
		}
		src, cleanup := newSource(t, data)
		if cleanup != nil {
			t.Cleanup(cleanup)
		}

		members, err := src.MemberRows(ctx)
		if err != nil {
			t.Fatalf("MemberRows: %v", err)
		}
		if len(members) != 2 {
			t.Fatalf("MemberRows len=%d, want 2", len(members))
		}
		row := members[0]
		if got := row.Cells[0].V; got != "Jane Doe" {
			t.Fatalf("cell0=%v", got)
		}
		if row.Cells[4] != nil {
			t.Fatalf("expected absent cell at index 4, got %+v", row.Cells[4])
		}
		if row.Cells[7].F != "15/01/2025" {
			t.Fatalf("formatted joining date=%q", row.Cells[7].F)
		}
		if members[1].Cells != nil {
			t.Fatalf("malformed row should keep nil cell array, got %+v", members[1].Cells)
		}

		sessions, err := src.SessionRows(ctx)
		if err != nil {
			t.Fatalf("SessionRows: %v", err)
		}
		if len(sessions) != 1 {
			t.Fatalf("SessionRows len=%d, want 1", len(sessions))
		}
		if sessions[0].Cells[3].F != "25/07/2025" || sessions[0].Cells[4].F != "10:00" {
			t.Fatalf("formatted date/time=%q/%q", sessions[0].Cells[3].F, sessions[0].Cells[4].F)
		}

		notifications, err := src.NotificationRows(ctx)
		if err != nil {
			t.Fatalf("NotificationRows: %v", err)
		}
		if len(notifications) != 0 {
			t.Fatalf("NotificationRows len=%d, want 0", len(notifications))
		}
	})

	t.Run("OptionalTablesDegradeToEmpty", func(t *testing.T) {
		data := TableData{
			Members: []sheetfeed.Row{
				{Cells: []*sheetfeed.Cell{Cell("Jane Doe"), Cell(""), Cell("jane@example.com")}},
			},
			NotificationsDown: true,
			SessionsDown:      true,
		}
		src, cleanup := newSource(t, data)
		if cleanup != nil {
			t.Cleanup(cleanup)
		}

		notifications, err := src.NotificationRows(ctx)
		if err != nil {
			t.Fatalf("NotificationRows should degrade silently, got err=%v", err)
		}
		if len(notifications) != 0 {
			t.Fatalf("NotificationRows len=%d, want 0", len(notifications))
		}
		sessions, err := src.SessionRows(ctx)
		if err != nil {
			t.Fatalf("SessionRows should degrade silently, got err=%v", err)
		}
		if len(sessions) != 0 {
			t.Fatalf("SessionRows len=%d, want 0", len(sessions))
		}
		// The member table is unaffected.
		if _, err := src.MemberRows(ctx); err != nil {
			t.Fatalf("MemberRows: %v", err)
		}
	})

	t.Run("MemberTableFailureIsUnavailable", func(t *testing.T) {
		src, cleanup := newSource(t, TableData{MembersDown: true})
		if cleanup != nil {
			t.Cleanup(cleanup)
		}

		_, err := src.MemberRows(ctx)
		if !errors.Is(err, sheetfeed.ErrUnavailable) {
			t.Fatalf("MemberRows err=%v, want ErrUnavailable", err)
		}
	})
}
