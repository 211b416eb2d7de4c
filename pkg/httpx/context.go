package httpx

import (
	"context"

	"github.com/openhire/jobboard/pkg/tokenx"
)

type ctxKey string

const ctxKeyIdentity ctxKey = "identity"

// ContextWithIdentity attaches the authenticated identity to the request
// context for downstream handlers.
func ContextWithIdentity(ctx context.Context, id tokenx.Identity) context.Context {
	return context.WithValue(ctx, ctxKeyIdentity, id)
}

// IdentityFromContext returns the identity placed by the authentication
// guard, or false when the request never passed it.
func IdentityFromContext(ctx context.Context) (tokenx.Identity, bool) {
	id, ok := ctx.Value(ctxKeyIdentity).(tokenx.Identity)
	return id, ok
}
