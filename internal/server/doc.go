// Package server exposes the action executor over HTTP and WebSocket.
//
// Routes:
//   - POST /webhook     run one action call
//   - GET  /webhook/ws  run action calls over a WebSocket, one per text frame
//   - GET  /actions     list registered actions
//   - GET  /health      liveness plus audit store status
//   - GET  /version     build information
//
// When an auth token is configured, /webhook and /webhook/ws require
// "Authorization: Bearer <token>" or a token query parameter.
package server
