// Package router implements route groups for the IRI gateway. A route
// group represents one backend facility, identified by its URL prefix,
// and owns exactly one facility adapter resolved at construction time.
//
// Construction (the binder) consults the immutable configuration for the
// group's adapter locator, decides visibility, instantiates the adapter
// through the registry, and probes it against the facility.Adapter
// capability contract. All of this happens before the process serves
// traffic: a misconfigured visible group is a startup failure, not a
// runtime 500.
//
// Per request, the Authenticate middleware extracts the caller's
// credential and client address, delegates identity resolution to the
// bound adapter, and either rejects with 403 or attaches the identity and
// credential to the request context for downstream handlers. The policy
// is fail closed: any adapter failure is denial, never accidental
// authorization.
package router
