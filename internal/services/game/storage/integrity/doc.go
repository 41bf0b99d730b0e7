// Package integrity signs the journal's chain hashes so a tampered event log
// is detected on verification.
package integrity
