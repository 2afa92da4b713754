/*
auth.go - Caller identity resolution

PURPOSE:
  The engine does not authenticate; an external identity provider
  does. This middleware resolves the caller's user id from the
  X-User-ID header (populated by the gateway in front of the service)
  and threads it through the request context. There is no module-level
  "current user" anywhere in the codebase; every operation receives
  the identity explicitly.

SEE ALSO:
  - handlers.go: Reads the identity via callerID
  - ledger/errors.go: ErrUnauthorized
*/
package api

import (
	"context"
	"net/http"

	"github.com/finbook/ledger-engine/ledger"
)

// userIDHeader carries the authenticated caller identity, set by the
// auth gateway in front of this service.
const userIDHeader = "X-User-ID"

type callerKey struct{}

// RequireUser rejects requests without a resolvable caller identity
// and stores the identity in the request context.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(userIDHeader)
		if id == "" {
			writeError(w, http.StatusUnauthorized, ledger.ErrUnauthorized.Error())
			return
		}
		ctx := context.WithValue(r.Context(), callerKey{}, ledger.UserID(id))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// callerID returns the identity resolved by RequireUser.
func callerID(ctx context.Context) (ledger.UserID, error) {
	id, ok := ctx.Value(callerKey{}).(ledger.UserID)
	if !ok || id == "" {
		return "", ledger.ErrUnauthorized
	}
	return id, nil
}
