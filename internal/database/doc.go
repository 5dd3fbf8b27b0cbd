// Package database provides PostgreSQL connection pool management for the
// navigation audit store.
//
// Schema:
//   - navigation_events: one append-only row per handled navigation request
package database
