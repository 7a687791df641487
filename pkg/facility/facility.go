package facility

import "context"

// DefaultLocator is the adapter bound to route groups that are configured
// to be visible but have no adapter locator of their own. Intended for
// local and sample deployments.
const DefaultLocator = "demo.DemoAdapter"

// User holds the minimal profile fields for a resolved identity. Profiles
// are fetched on demand through Adapter.GetUser and are never cached by
// the gateway.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Adapter is the capability contract every facility adapter must satisfy.
//
// Implementations are shared across all in-flight requests of their route
// group and must be safe for concurrent invocation. The adapter owns its
// own latency budget: the gateway imposes no timeout, and cancellation
// arrives through the request context.
type Adapter interface {
	// ResolveIdentity decodes the raw credential and returns the
	// authenticated user's opaque identity token. An error, or an empty
	// token, means the request is denied.
	ResolveIdentity(ctx context.Context, credential string, clientIP string) (string, error)

	// GetUser retrieves additional user information (name, email, etc.)
	// for a previously resolved identity. Called by downstream handlers,
	// not by the authentication path itself.
	GetUser(ctx context.Context, userID string, credential string) (*User, error)
}
