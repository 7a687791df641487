// Package apikey provides a facility adapter that validates credentials
// against a static key table using SHA-256 hashing and constant-time
// comparison. The key table comes from the IRI_API_PARAMS document:
//
//	{"keys": [{"key": "...", "user_id": "u1", "name": "...", "email": "..."}]}
package apikey

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"sync"

	"github.com/iri-project/iri-gateway/pkg/facility"
)

// Module and Symbol form the registry locator "apikey.APIKeyAdapter".
const (
	Module = "apikey"
	Symbol = "APIKeyAdapter"
)

// params is the IRI_API_PARAMS shape for this adapter.
type params struct {
	Keys []keyParam `json:"keys"`
}

type keyParam struct {
	Key    string `json:"key"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// entry maps a key hash to a user. Plaintext keys are not retained.
type entry struct {
	keyHash [32]byte
	user    facility.User
}

// Adapter validates credentials against the static key table.
type Adapter struct {
	once    sync.Once
	loadErr error
	entries []entry
}

var _ facility.Adapter = (*Adapter)(nil)

// New creates an API key adapter. The key table is loaded lazily on
// first use so a malformed IRI_API_PARAMS surfaces as denial, not as a
// construction failure of an otherwise valid route group.
func New() *Adapter {
	return &Adapter{}
}

// Register adds the adapter to the registry under its locator.
func Register(r *facility.Registry) {
	r.MustRegister(Module, Symbol, func() any { return New() })
}

func (a *Adapter) load() error {
	a.once.Do(func() {
		var p params
		if err := facility.Params(&p); err != nil {
			a.loadErr = err
			return
		}
		for _, k := range p.Keys {
			if k.Key == "" || k.UserID == "" {
				continue
			}
			a.entries = append(a.entries, entry{
				keyHash: sha256.Sum256([]byte(k.Key)),
				user: facility.User{
					ID:    k.UserID,
					Name:  k.Name,
					Email: k.Email,
				},
			})
		}
	})
	return a.loadErr
}

// ResolveIdentity hashes the credential and compares it against every
// stored hash in constant time.
func (a *Adapter) ResolveIdentity(_ context.Context, credential string, _ string) (string, error) {
	if err := a.load(); err != nil {
		return "", err
	}

	credHash := sha256.Sum256([]byte(credential))
	for i := range a.entries {
		if subtle.ConstantTimeCompare(credHash[:], a.entries[i].keyHash[:]) == 1 {
			return a.entries[i].user.ID, nil
		}
	}
	return "", fmt.Errorf("unknown API key")
}

// GetUser returns the profile for the given identity, verifying that the
// credential still maps to that identity.
func (a *Adapter) GetUser(_ context.Context, userID string, credential string) (*facility.User, error) {
	if err := a.load(); err != nil {
		return nil, err
	}

	credHash := sha256.Sum256([]byte(credential))
	for i := range a.entries {
		e := &a.entries[i]
		if e.user.ID != userID {
			continue
		}
		if subtle.ConstantTimeCompare(credHash[:], e.keyHash[:]) == 1 {
			u := e.user
			return &u, nil
		}
	}
	return nil, fmt.Errorf("no profile for user %q", userID)
}
