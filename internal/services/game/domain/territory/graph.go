package territory

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	apperrors "github.com/louisbranch/brinkmanship/internal/platform/errors"
	"gopkg.in/yaml.v3"
)

//go:embed world.yaml
var defaultWorld []byte

// Region is one node of the world graph.
type Region struct {
	ID        string   `yaml:"id"`
	Name      string   `yaml:"name"`
	Continent string   `yaml:"continent"`
	Neighbors []string `yaml:"neighbors"`
	Produces  []string `yaml:"produces"`
}

type mapFile struct {
	Regions []Region `yaml:"regions"`
}

// Graph is the immutable, undirected adjacency between regions.
type Graph struct {
	regions   map[string]Region
	adjacency map[string]map[string]struct{}
	order     []string
}

var defaultGraph = mustLoadGraph(defaultWorld)

// DefaultGraph returns the embedded world map.
func DefaultGraph() *Graph {
	return defaultGraph
}

// LoadGraphFile reads a map definition from disk.
func LoadGraphFile(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeMapInvalid, fmt.Sprintf("read map %s", path), err)
	}
	return LoadGraph(data)
}

// LoadGraph parses a YAML map definition. Adjacency must be symmetric and
// every neighbor must be a declared region.
func LoadGraph(data []byte) (*Graph, error) {
	var file mapFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeMapInvalid, "parse map", err)
	}
	if len(file.Regions) == 0 {
		return nil, apperrors.New(apperrors.CodeMapInvalid, "map has no regions")
	}

	g := &Graph{
		regions:   make(map[string]Region, len(file.Regions)),
		adjacency: make(map[string]map[string]struct{}, len(file.Regions)),
	}
	for _, region := range file.Regions {
		region.ID = strings.TrimSpace(region.ID)
		if region.ID == "" {
			return nil, apperrors.New(apperrors.CodeMapInvalid, "region id is required")
		}
		if _, exists := g.regions[region.ID]; exists {
			return nil, apperrors.New(apperrors.CodeMapInvalid, fmt.Sprintf("region %s declared twice", region.ID))
		}
		g.regions[region.ID] = region
		g.adjacency[region.ID] = make(map[string]struct{}, len(region.Neighbors))
		g.order = append(g.order, region.ID)
	}
	for _, region := range file.Regions {
		for _, neighbor := range region.Neighbors {
			if neighbor == region.ID {
				return nil, apperrors.New(apperrors.CodeMapInvalid, fmt.Sprintf("region %s lists itself", region.ID))
			}
			if _, ok := g.regions[neighbor]; !ok {
				return nil, apperrors.New(apperrors.CodeMapInvalid, fmt.Sprintf("region %s lists unknown neighbor %s", region.ID, neighbor))
			}
			g.adjacency[region.ID][neighbor] = struct{}{}
		}
	}
	for id, neighbors := range g.adjacency {
		for neighbor := range neighbors {
			if _, ok := g.adjacency[neighbor][id]; !ok {
				return nil, apperrors.New(apperrors.CodeMapInvalid, fmt.Sprintf("adjacency %s -> %s is not symmetric", id, neighbor))
			}
		}
	}
	sort.Strings(g.order)
	return g, nil
}

func mustLoadGraph(data []byte) *Graph {
	g, err := LoadGraph(data)
	if err != nil {
		panic(err)
	}
	return g
}

// HasRegion reports whether id is a known region.
func (g *Graph) HasRegion(id string) bool {
	if g == nil {
		return false
	}
	_, ok := g.regions[id]
	return ok
}

// Region returns the static definition for id.
func (g *Graph) Region(id string) (Region, bool) {
	if g == nil {
		return Region{}, false
	}
	region, ok := g.regions[id]
	return region, ok
}

// Regions returns every region id, sorted.
func (g *Graph) Regions() []string {
	if g == nil {
		return nil
	}
	return append([]string(nil), g.order...)
}

// Neighbors returns the base neighbors of id, sorted.
func (g *Graph) Neighbors(id string) []string {
	if g == nil {
		return nil
	}
	out := make([]string, 0, len(g.adjacency[id]))
	for neighbor := range g.adjacency[id] {
		out = append(out, neighbor)
	}
	sort.Strings(out)
	return out
}

// Adjacent reports whether a and b share a base edge.
func (g *Graph) Adjacent(a, b string) bool {
	if g == nil {
		return false
	}
	_, ok := g.adjacency[a][b]
	return ok
}

// WithoutEdge returns a copy of the graph with the a-b edge removed.
func (g *Graph) WithoutEdge(a, b string) *Graph {
	clone := &Graph{
		regions:   g.regions,
		adjacency: make(map[string]map[string]struct{}, len(g.adjacency)),
		order:     g.order,
	}
	for id, neighbors := range g.adjacency {
		copied := make(map[string]struct{}, len(neighbors))
		for neighbor := range neighbors {
			if (id == a && neighbor == b) || (id == b && neighbor == a) {
				continue
			}
			copied[neighbor] = struct{}{}
		}
		clone.adjacency[id] = copied
	}
	return clone
}
