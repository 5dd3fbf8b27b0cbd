// Package model defines shared data types used across the TaskFoo action server.
//
// Conventions:
//   - Timestamps: int64 microseconds since Unix epoch
//   - IDs: uuid.UUID for navigation events
//   - Routes: frontend paths beginning with "/"
package model
