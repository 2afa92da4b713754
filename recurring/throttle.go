package recurring

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/finbook/ledger-engine/ledger"
)

// ownerThrottle bounds how many process invocations run per owner per
// period. The throttle key is the owner id, so one user's heavy
// recurring schedule cannot monopolize balance writes against another
// user's accounts.
type ownerThrottle struct {
	mu       sync.Mutex
	limiters map[ledger.UserID]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// newOwnerThrottle allows n events per period for each owner, with a
// burst of n.
func newOwnerThrottle(n int, period time.Duration) *ownerThrottle {
	return &ownerThrottle{
		limiters: make(map[ledger.UserID]*rate.Limiter),
		limit:    rate.Every(period / time.Duration(n)),
		burst:    n,
	}
}

func (t *ownerThrottle) limiter(owner ledger.UserID) *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()

	lim, ok := t.limiters[owner]
	if !ok {
		lim = rate.NewLimiter(t.limit, t.burst)
		t.limiters[owner] = lim
	}
	return lim
}

// Wait blocks until the owner has budget, or the context is done.
func (t *ownerThrottle) Wait(ctx context.Context, owner ledger.UserID) error {
	return t.limiter(owner).Wait(ctx)
}
