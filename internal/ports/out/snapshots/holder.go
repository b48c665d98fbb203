package snapshots

import (
	"context"

	"github.com/hq-recovery/member-portal-api/internal/domain"
)

// Holder retains the most recent successful dashboard snapshot per member.
//
// This is deliberately not a cache: reads always re-derive from source. The
// holder only records the outcome of the latest refresh (last write wins,
// mirroring the uncoalesced refresh cycle) so that callers can observe
// which snapshot is current.
type Holder interface {
	Put(ctx context.Context, key domain.EmailKey, d domain.Dashboard) error
	// Latest returns the most recently stored snapshot for key; the bool is
	// false when no refresh has succeeded yet.
	Latest(ctx context.Context, key domain.EmailKey) (domain.Dashboard, bool, error)
}
