// Package sqlite implements the game journal, replay checkpoints and state
// snapshots on SQLite.
//
// Every append runs in one transaction: sequence numbers are allocated
// contiguously per game, each event is hashed, chained to its predecessor and
// signed with the integrity keyring. Snapshots are stored lz4 compressed with a
// blake3 checksum so a damaged row is reported rather than replayed.
package sqlite
