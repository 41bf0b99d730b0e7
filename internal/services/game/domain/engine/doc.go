// Package engine wires command validation, lifecycle gates, decision routing,
// rule consequences, journal append and state folding for one game.
//
// The handler is the single writer of authoritative state: a command either
// commits all of its events or none of them.
package engine
