// Package facility defines the capability contract a backend-facility
// adapter must implement, and the registry through which route groups
// resolve adapter implementations by locator string.
//
// Adapter resolution follows a registry + factory pattern: every loadable
// implementation is registered explicitly under a "<module>.<Symbol>"
// locator, and route groups instantiate adapters through the registry at
// construction time. A locator that names an unknown module or symbol, or
// an implementation that fails the capability probe, aborts route-group
// construction before the process serves any traffic.
package facility
