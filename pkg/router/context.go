package router

import "context"

// Identity is the request-scoped result of successful authentication:
// the opaque identity token resolved by the adapter plus the raw
// credential that produced it. It is set exactly once per request, by
// the Authenticate middleware, and is visible only within that request.
type Identity struct {
	// UserID is the opaque identity token returned by the adapter.
	UserID string

	// Credential is the raw Authorization header value, kept so
	// downstream calls to Adapter.GetUser need not re-parse it.
	Credential string
}

// identityKey is a private type for the identity context key.
type identityKey struct{}

// SetIdentity stores the authenticated identity in the context.
func SetIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext retrieves the authenticated identity.
// Returns nil if the request was not authenticated.
func IdentityFromContext(ctx context.Context) *Identity {
	if v, ok := ctx.Value(identityKey{}).(*Identity); ok {
		return v
	}
	return nil
}
