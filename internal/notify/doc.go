// Package notify provides asynchronous, best-effort delivery of account
// notifications such as login alerts and password reset emails.
//
// Delivery is fully detached from the request path: a buffered queue
// feeds a single background goroutine, Dispatch never blocks, and a
// delivery failure is logged rather than surfaced to the caller. An
// operation that triggers a notification succeeds or fails on its own
// merits regardless of what happens to the message afterwards.
package notify
