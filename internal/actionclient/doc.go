// Package actionclient is an HTTP client for the action server.
//
// It posts action calls to /webhook, lists registered actions, and reads
// /health and /version. Requests that fail with 5xx or 429 are retried with
// jittered exponential backoff.
package actionclient
