// Package territory owns the static world graph, live region ownership and
// supply-route reachability.
//
// The base graph never changes during a game. Bonus connections unlocked by
// strategic projects are derived per query from the player's effects and the
// current ownership, so they cannot go stale when regions change hands.
package territory
