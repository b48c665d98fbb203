package snapshots

import (
	"context"
	"sync"

	"github.com/hq-recovery/member-portal-api/internal/domain"
)

// Holder is an in-memory implementation of snapshots.Holder.
// It is safe for concurrent use; overlapping refreshes race benignly and
// the last Put wins.
type Holder struct {
	mu sync.RWMutex
	m  map[domain.EmailKey]domain.Dashboard
}

func NewHolder() *Holder {
	return &Holder{
		m: make(map[domain.EmailKey]domain.Dashboard),
	}
}

func (h *Holder) Put(ctx context.Context, key domain.EmailKey, d domain.Dashboard) error {
	_ = ctx
	h.mu.Lock()
	defer h.mu.Unlock()
	h.m[key] = cloneDashboard(d)
	return nil
}

func (h *Holder) Latest(ctx context.Context, key domain.EmailKey) (domain.Dashboard, bool, error) {
	_ = ctx
	h.mu.RLock()
	defer h.mu.RUnlock()
	d, ok := h.m[key]
	if !ok {
		return domain.Dashboard{}, false, nil
	}
	return cloneDashboard(d), true, nil
}

func cloneDashboard(d domain.Dashboard) domain.Dashboard {
	out := d
	out.Upcoming = cloneSessions(d.Upcoming)
	out.Past = cloneSessions(d.Past)
	if d.Notifications != nil {
		out.Notifications = make([]domain.Notification, len(d.Notifications))
		copy(out.Notifications, d.Notifications)
	}
	return out
}

func cloneSessions(ss []domain.Session) []domain.Session {
	if ss == nil {
		return nil
	}
	out := make([]domain.Session, len(ss))
	copy(out, ss)
	return out
}
