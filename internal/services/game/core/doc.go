// Package core holds helpers shared by the game service layers that are not
// part of any rule domain.
package core
