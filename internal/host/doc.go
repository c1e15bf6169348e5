// Package host defines the boundary between tabfling and the tabbed-window
// application it augments.
//
// The host is closed: it publishes no change notifications for its tab list,
// its windows, or its selection. Everything tabfling knows about it comes
// from point-in-time queries (Probe) and everything tabfling does to it goes
// through fire-and-forget commands (Issuer). Both interfaces are eventually
// consistent with the host's internal state - a query issued milliseconds
// after a drag-drop may still see the pre-drop world.
//
// References to host objects (WindowRef, ContainerRef, TabRef) are opaque
// identity tokens. Equality is reference identity, never position: indices
// shift as tabs are created, moved, and closed, so "is this the same tab"
// must always compare refs, not indices.
//
// Production implementations of Probe and Issuer wrap the platform's
// accessibility and message-sending APIs and live outside this module.
// Tests and the scenario harness use scripted fakes (internal/testutil).
package host
