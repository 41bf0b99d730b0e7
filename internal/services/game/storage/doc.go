// Package storage defines persistence contracts for the game journal and
// state snapshots. Implementations (e.g., SQLite) live in subpackages.
//
// Common error types:
//   - ErrNotFound: requested record is missing
//   - ErrSnapshotCorrupted: a stored snapshot failed its checksum
package storage
