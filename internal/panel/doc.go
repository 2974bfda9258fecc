// Package panel implements the companion panel's controller.
//
// The controller owns the session lifecycle, the transient selection
// state, and the action flows (clone a task, run a task flow). The
// concrete UI stays behind the View and Notifier interfaces; the
// controller only decides which section is visible, what the listings
// contain, and when mutating controls are enabled.
//
// Concurrency model: single-threaded, event-driven. All controller
// methods must be called from one goroutine (the UI event loop).
// Network calls are the only suspension points; per-action in-flight
// guards refuse duplicate submissions, and per-listing generation
// counters drop superseded fetch results so a stale response never
// overwrites a newer one.
package panel
