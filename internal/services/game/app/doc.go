// Package app composes a playable game from its SQLite journal.
//
// Open rebuilds authoritative state from the latest snapshot plus the events
// appended after it, then hands commands to the engine with the store as its
// journal.
package app
