package territory

import "sort"

const (
	// EffectLandBridge connects exactly two regions.
	EffectLandBridge = "land_bridge"
	// EffectPolarRoute connects four regions pairwise.
	EffectPolarRoute = "polar_route"
)

// Effect is the slice of a player's effect record the route resolver reads.
type Effect struct {
	Type    string
	Regions []string
	Revoked bool
}

// Edge is an undirected connection with A < B.
type Edge struct {
	A string
	B string
}

func newEdge(a, b string) Edge {
	if b < a {
		a, b = b, a
	}
	return Edge{A: a, B: b}
}

// BonusEdges derives the extra connections player has unlocked. An edge is
// only granted while the player owns every region the effect names.
func BonusEdges(effects []Effect, ownership Ownership, player string) []Edge {
	seen := map[Edge]struct{}{}
	for _, effect := range effects {
		if effect.Revoked {
			continue
		}
		switch effect.Type {
		case EffectLandBridge:
			if len(effect.Regions) != 2 {
				continue
			}
		case EffectPolarRoute:
			if len(effect.Regions) != 4 {
				continue
			}
		default:
			continue
		}
		if !ownership.Owns(player, effect.Regions...) {
			continue
		}
		for i := 0; i < len(effect.Regions); i++ {
			for j := i + 1; j < len(effect.Regions); j++ {
				if effect.Regions[i] == effect.Regions[j] {
					continue
				}
				seen[newEdge(effect.Regions[i], effect.Regions[j])] = struct{}{}
			}
		}
	}
	out := make([]Edge, 0, len(seen))
	for edge := range seen {
		out = append(out, edge)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	return out
}

// Reachable reports whether a resource at origin can travel to destination
// through regions player owns, using base edges plus bonus edges.
func Reachable(g *Graph, ownership Ownership, effects []Effect, origin, destination, player string) bool {
	if player == "" || !g.HasRegion(origin) || !g.HasRegion(destination) {
		return false
	}
	if origin == destination {
		return true
	}
	if ownership.Owner(origin) != player || ownership.Owner(destination) != player {
		return false
	}

	bonus := map[string][]string{}
	for _, edge := range BonusEdges(effects, ownership, player) {
		bonus[edge.A] = append(bonus[edge.A], edge.B)
		bonus[edge.B] = append(bonus[edge.B], edge.A)
	}

	visited := map[string]bool{origin: true}
	queue := []string{origin}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		next := append(g.Neighbors(current), bonus[current]...)
		for _, neighbor := range next {
			if visited[neighbor] || ownership.Owner(neighbor) != player {
				continue
			}
			if neighbor == destination {
				return true
			}
			visited[neighbor] = true
			queue = append(queue, neighbor)
		}
	}
	return false
}

// Adjacent reports whether a and b are joined by a base edge or by one of the
// given effects. Unlike BonusEdges it does not require owning both ends: an
// attacker standing on one end of a bridge may strike across it.
func Adjacent(g *Graph, effects []Effect, a, b string) bool {
	if g.Adjacent(a, b) {
		return true
	}
	for _, effect := range effects {
		if effect.Revoked || (effect.Type != EffectLandBridge && effect.Type != EffectPolarRoute) {
			continue
		}
		var hasA, hasB bool
		for _, region := range effect.Regions {
			hasA = hasA || region == a
			hasB = hasB || region == b
		}
		if hasA && hasB && a != b {
			return true
		}
	}
	return false
}
