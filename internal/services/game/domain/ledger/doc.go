// Package ledger tracks resource cards and supply tokens.
//
// A card is bound to the region that produced it until a treaty moves it into
// a player's inventory. Cards carry a per-turn spent flag that every global
// turn clears; tokens are one-shot and disappear when consumed.
package ledger
