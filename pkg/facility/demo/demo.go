// Package demo provides the default facility adapter used by local and
// sample deployments. It accepts any non-empty credential and resolves a
// fixed demo identity; no external system is consulted.
package demo

import (
	"context"
	"fmt"

	"github.com/iri-project/iri-gateway/pkg/facility"
)

// Module and Symbol form the registry locator "demo.DemoAdapter".
const (
	Module = "demo"
	Symbol = "DemoAdapter"
)

// Adapter is the demo facility adapter.
type Adapter struct{}

var _ facility.Adapter = (*Adapter)(nil)

// New creates a demo adapter.
func New() *Adapter {
	return &Adapter{}
}

// Register adds the demo adapter to the registry under its locator.
func Register(r *facility.Registry) {
	r.MustRegister(Module, Symbol, func() any { return New() })
}

// ResolveIdentity accepts any non-empty credential.
func (a *Adapter) ResolveIdentity(_ context.Context, credential string, _ string) (string, error) {
	if credential == "" {
		return "", fmt.Errorf("empty credential")
	}
	return "demo-user", nil
}

// GetUser returns the canned demo profile.
func (a *Adapter) GetUser(_ context.Context, userID string, _ string) (*facility.User, error) {
	if userID != "demo-user" {
		return nil, fmt.Errorf("unknown user %q", userID)
	}
	return &facility.User{
		ID:    "demo-user",
		Name:  "Demo User",
		Email: "demo@example.org",
	}, nil
}
