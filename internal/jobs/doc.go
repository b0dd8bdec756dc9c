// Package jobs defines the download job model and its SQLite-backed store.
//
// A job is created when a request is accepted and mutated only by the
// pipeline that owns it; the HTTP status endpoint reads snapshots. The store
// is the single piece of shared mutable state in the system and is injected
// wherever job access is needed.
package jobs
