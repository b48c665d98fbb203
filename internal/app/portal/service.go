package portal

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/hq-recovery/member-portal-api/internal/domain"
	clockport "github.com/hq-recovery/member-portal-api/internal/ports/out/clock"
	"github.com/hq-recovery/member-portal-api/internal/ports/out/sheetfeed"
	"github.com/hq-recovery/member-portal-api/internal/ports/out/snapshots"
)

// Service runs the fetch-refresh cycle: pull the three tables, normalize,
// aggregate, and hand back one consolidated dashboard. Every call re-derives
// from source; concurrent refreshes for the same member are not coalesced
// and the last snapshot stored wins.
type Service struct {
	feed   sheetfeed.Source
	holder snapshots.Holder
	clk    clockport.Clock

	newSnapshotID func() string

	// DefaultLocation is stamped onto every normalized session record.
	DefaultLocation string

	// AttendedStatuses is the case-insensitive synonym set counted as an
	// attended session, applied uniformly to all attendance aggregates.
	AttendedStatuses []string
}

func NewService(feed sheetfeed.Source, holder snapshots.Holder, clk clockport.Clock) *Service {
	return &Service{
		feed:   feed,
		holder: holder,
		clk:    clk,
		newSnapshotID: func() string {
			return uuid.NewString()
		},
		DefaultLocation:  "HQ Recovery Center",
		AttendedStatuses: []string{"showed", "attended"},
	}
}

// Refresh fetches all three tables concurrently (all-or-nothing join: a
// member-feed failure rejects the whole refresh even if the optional feeds
// would have succeeded) and builds the dashboard for the given email.
func (s *Service) Refresh(ctx context.Context, email string) (domain.Dashboard, error) {
	key := domain.NormalizeEmail(email)
	if key == "" {
		return domain.Dashboard{}, &Error{
			Status:  422,
			Code:    "VALIDATION_ERROR",
			Message: "invalid email",
			Details: map[string]any{"email": "must be non-empty"},
		}
	}

	var memberRows, notificationRows, sessionRows []sheetfeed.Row

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		memberRows, err = s.feed.MemberRows(gctx)
		return err
	})
	g.Go(func() error {
		// Degrades to empty rows by the feed contract.
		var err error
		notificationRows, err = s.feed.NotificationRows(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		sessionRows, err = s.feed.SessionRows(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, sheetfeed.ErrUnavailable) {
			return domain.Dashboard{}, &Error{
				Status:  502,
				Code:    "SHEET_UNAVAILABLE",
				Message: "Unable to reach the membership spreadsheet. Please try again.",
			}
		}
		return domain.Dashboard{}, err
	}

	member, ok := findMember(memberRows, key)
	if !ok {
		return domain.Dashboard{}, &Error{
			Status:  404,
			Code:    "MEMBER_NOT_FOUND",
			Message: "No member record matches the signed-in email. Please contact support.",
		}
	}

	sessions := normalizeSessions(sessionRows, key, s.DefaultLocation)
	notifications := activeNotifications(notificationRows)

	dash := buildDashboard(member, sessions, notifications, s.clk.Now(), s.attendedSet())
	dash.SnapshotID = s.newSnapshotID()
	dash.FetchedAt = s.clk.Now()

	if s.holder != nil {
		_ = s.holder.Put(ctx, key, dash)
	}
	return dash, nil
}

// Latest returns the most recent successful snapshot for email without
// touching the feed; false when no refresh has succeeded yet.
func (s *Service) Latest(ctx context.Context, email string) (domain.Dashboard, bool, error) {
	if s.holder == nil {
		return domain.Dashboard{}, false, nil
	}
	return s.holder.Latest(ctx, domain.NormalizeEmail(email))
}

func (s *Service) attendedSet() map[string]struct{} {
	set := make(map[string]struct{}, len(s.AttendedStatuses))
	for _, status := range s.AttendedStatuses {
		set[domain.NormalizeStatus(status)] = struct{}{}
	}
	return set
}
