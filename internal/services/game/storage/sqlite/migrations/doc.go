// Package migrations embeds the journal schema history so a store opened on an
// older database upgrades itself before use.
package migrations
