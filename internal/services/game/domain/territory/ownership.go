package territory

import "sort"

// Ownership maps region id to the owning player id. Unowned regions are absent.
type Ownership map[string]string

// Owner returns the owner of region, or "" when unowned.
func (o Ownership) Owner(region string) string {
	return o[region]
}

// Owns reports whether player owns every listed region.
func (o Ownership) Owns(player string, regions ...string) bool {
	if player == "" {
		return false
	}
	for _, region := range regions {
		if o[region] != player {
			return false
		}
	}
	return true
}

// RegionsOf returns the regions owned by player, sorted.
func (o Ownership) RegionsOf(player string) []string {
	var out []string
	for region, owner := range o {
		if owner == player {
			out = append(out, region)
		}
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy.
func (o Ownership) Clone() Ownership {
	out := make(Ownership, len(o))
	for region, owner := range o {
		out[region] = owner
	}
	return out
}
