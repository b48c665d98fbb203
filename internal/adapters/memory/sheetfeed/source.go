package sheetfeed

import (
	"context"
	"fmt"
	"sync"

	"github.com/hq-recovery/member-portal-api/internal/ports/out/sheetfeed"
)

// Source is an in-memory implementation of sheetfeed.Source for tests and
// local development. It reproduces the port's tolerance contract: optional
// tables degrade to empty rows when marked down, the member table fails
// with ErrUnavailable.
type Source struct {
	mu sync.RWMutex

	members       []sheetfeed.Row
	notifications []sheetfeed.Row
	sessions      []sheetfeed.Row

	membersDown       bool
	notificationsDown bool
	sessionsDown      bool
}

func NewSource() *Source {
	return &Source{}
}

func (s *Source) SetMemberRows(rows []sheetfeed.Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members = cloneRows(rows)
}

func (s *Source) SetNotificationRows(rows []sheetfeed.Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = cloneRows(rows)
}

func (s *Source) SetSessionRows(rows []sheetfeed.Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = cloneRows(rows)
}

// SetDown marks tables unreachable/unpublished.
func (s *Source) SetDown(members, notifications, sessions bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.membersDown = members
	s.notificationsDown = notifications
	s.sessionsDown = sessions
}

func (s *Source) MemberRows(ctx context.Context) ([]sheetfeed.Row, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.membersDown {
		return nil, fmt.Errorf("%w: member sheet: simulated outage", sheetfeed.ErrUnavailable)
	}
	return cloneRows(s.members), nil
}

func (s *Source) NotificationRows(ctx context.Context) ([]sheetfeed.Row, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.notificationsDown {
		return []sheetfeed.Row{}, nil
	}
	return cloneRows(s.notifications), nil
}

func (s *Source) SessionRows(ctx context.Context) ([]sheetfeed.Row, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.sessionsDown {
		return []sheetfeed.Row{}, nil
	}
	return cloneRows(s.sessions), nil
}

func cloneRows(rows []sheetfeed.Row) []sheetfeed.Row {
	if rows == nil {
		return []sheetfeed.Row{}
	}
	out := make([]sheetfeed.Row, len(rows))
	for i, r := range rows {
		if r.Cells == nil {
			continue
		}
		cells := make([]*sheetfeed.Cell, len(r.Cells))
		for j, c := range r.Cells {
			if c == nil {
				continue
			}
			cc := *c
			cells[j] = &cc
		}
		out[i] = sheetfeed.Row{Cells: cells}
	}
	return out
}
