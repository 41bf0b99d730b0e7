package territory

import "testing"

func bridge(a, b string) Effect {
	return Effect{Type: EffectLandBridge, Regions: []string{a, b}}
}

func TestReachableScenarioLandBridgeCompensatesRemovedEdge(t *testing.T) {
	g := DefaultGraph().WithoutEdge("grecia", "turquia")
	ownership := Ownership{"grecia": "p", "turquia": "p"}
	effects := []Effect{bridge("grecia", "turquia")}

	if !Reachable(g, ownership, effects, "turquia", "grecia", "p") {
		t.Fatal("expected bridge to connect turquia and grecia")
	}
	if Reachable(g, ownership, nil, "turquia", "grecia", "p") {
		t.Fatal("expected no route without the bridge")
	}

	partial := Ownership{"grecia": "p", "turquia": "q"}
	if Reachable(g, partial, effects, "turquia", "grecia", "p") {
		t.Fatal("bridge must not apply without owning both ends")
	}
}

func TestReachableSymmetric(t *testing.T) {
	g := DefaultGraph()
	ownership := Ownership{
		"chile": "p", "peru": "p", "bolivia": "p", "argentina": "p",
		"brasil": "q", "espana": "p", "marruecos": "p", "argelia": "p",
	}
	effects := []Effect{bridge("espana", "marruecos")}
	owned := ownership.RegionsOf("p")
	for _, a := range owned {
		for _, b := range owned {
			if Reachable(g, ownership, effects, a, b, "p") != Reachable(g, ownership, effects, b, a, "p") {
				t.Fatalf("reachable(%s,%s) is not symmetric", a, b)
			}
		}
	}
	if !Reachable(g, ownership, effects, "argelia", "espana", "p") {
		t.Fatal("expected tunnel route argelia -> espana")
	}
	if Reachable(g, ownership, effects, "chile", "espana", "p") {
		t.Fatal("continents are not connected")
	}
}

func TestReachableRequiresOwnedPath(t *testing.T) {
	g := DefaultGraph().WithoutEdge("chile", "argentina")
	ownership := Ownership{"chile": "p", "argentina": "p", "bolivia": "q", "peru": "p"}
	if Reachable(g, ownership, nil, "argentina", "chile", "p") {
		t.Fatal("path through rival bolivia must not count")
	}
	ownership["bolivia"] = "p"
	if !Reachable(g, ownership, nil, "argentina", "chile", "p") {
		t.Fatal("expected path argentina -> bolivia -> chile")
	}
}

func TestReachableEdgeCases(t *testing.T) {
	g := DefaultGraph()
	ownership := Ownership{"chile": "p"}
	if !Reachable(g, ownership, nil, "chile", "chile", "p") {
		t.Fatal("origin == destination must be reachable")
	}
	if Reachable(g, ownership, nil, "chile", "atlantida", "p") {
		t.Fatal("unknown region must be unreachable")
	}
	if Reachable(g, ownership, nil, "chile", "chile", "") {
		t.Fatal("empty player must be unreachable")
	}
	if Reachable(g, ownership, nil, "chile", "argentina", "ghost") {
		t.Fatal("regions the player does not own must be unreachable")
	}
}

func TestBonusEdgesPolarRouteClique(t *testing.T) {
	regions := []string{"canada", "groenlandia", "escandinavia", "siberia"}
	effects := []Effect{{Type: EffectPolarRoute, Regions: regions}}
	ownership := Ownership{}
	for _, region := range regions {
		ownership[region] = "p"
	}
	edges := BonusEdges(effects, ownership, "p")
	if len(edges) != 6 {
		t.Fatalf("edges = %d, want 6", len(edges))
	}
	if !Reachable(DefaultGraph(), ownership, effects, "canada", "siberia", "p") {
		t.Fatal("expected polar route canada -> siberia")
	}

	ownership["siberia"] = "q"
	if got := BonusEdges(effects, ownership, "p"); len(got) != 0 {
		t.Fatalf("edges = %d, want 0 when one region is lost", len(got))
	}
}

func TestBonusEdgesSkipsRevokedAndMalformed(t *testing.T) {
	ownership := Ownership{"alaska": "p", "siberia": "p"}
	effects := []Effect{
		{Type: EffectLandBridge, Regions: []string{"alaska", "siberia"}, Revoked: true},
		{Type: EffectLandBridge, Regions: []string{"alaska"}},
		{Type: "research_bonus", Regions: []string{"alaska", "siberia"}},
	}
	if got := BonusEdges(effects, ownership, "p"); len(got) != 0 {
		t.Fatalf("edges = %+v, want none", got)
	}
}

func TestAdjacentAcrossBridge(t *testing.T) {
	g := DefaultGraph()
	effects := []Effect{bridge("alaska", "siberia")}
	if !Adjacent(g, effects, "alaska", "siberia") {
		t.Fatal("bridge must make alaska adjacent to siberia")
	}
	if Adjacent(g, nil, "alaska", "siberia") {
		t.Fatal("no base edge alaska-siberia")
	}
	if !Adjacent(g, nil, "chile", "argentina") {
		t.Fatal("expected base edge")
	}
}
