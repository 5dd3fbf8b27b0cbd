// Package audit persists navigation events to PostgreSQL.
//
// The action records events into a bounded in-memory Queue; recording never
// blocks and drops events when the queue is full. A Writer drains the queue
// and batch-inserts rows with append-only semantics (ON CONFLICT DO NOTHING).
package audit
