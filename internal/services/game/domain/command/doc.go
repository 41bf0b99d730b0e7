// Package command defines the canonical command envelope and contract used across
// the write path.
//
// Commands express player or system intent. They are normalized and validated
// here before any decider sees them, so business rules only run against
// well-formed inputs.
package command
