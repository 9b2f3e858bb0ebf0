// Package threatscan provides pattern-based classification of untrusted
// request input for Casavia Core.
//
// Every mutating endpoint passes its string payload through one shared
// Scanner before any business logic runs. A field is classified as safe,
// SQL-suspect, or script-suspect; any non-safe verdict rejects the
// request with a generic message that never reveals which pattern matched.
//
// # Scope
//
// This is a shallow, fast-fail defence layer. It does not replace
// parameterised queries (which every repository in this codebase uses)
// or output encoding; it exists to reject obvious injection probes
// cheaply at the door.
//
// # Determinism
//
// Patterns are precompiled and checked in a fixed order; fields are
// scanned in the order the caller supplies them. The same payload always
// produces the same verdict.
package threatscan
