// Package project implements strategic projects as one data-driven engine:
// every named project is a Descriptor and activation is a single decider.
package project

import (
	"sort"

	"github.com/louisbranch/brinkmanship/internal/services/game/domain/ledger"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/territory"
	"github.com/louisbranch/brinkmanship/internal/services/game/domain/world"
)

// BaseMode selects how the base region of an activation is chosen.
type BaseMode string

const (
	// BaseFootprint requires the base to be one of the fixed footprint regions.
	BaseFootprint BaseMode = "footprint"
	// BaseListed requires the base to be one of BaseRegions.
	BaseListed BaseMode = "listed"
	// BaseAnyOwned accepts any owned region as base.
	BaseAnyOwned BaseMode = "any_owned"
	// BaseSecretTarget fixes the base to the player's secret target.
	BaseSecretTarget BaseMode = "secret_target"
)

// Effect types recorded by projects beyond route bonuses.
const (
	EffectOrbitalReconnaissance = "orbital_reconnaissance"
	EffectSatelliteCoverage     = "satellite_coverage"
	EffectNavalSupport          = "naval_support"
	EffectResearchBonus         = "research_bonus"
	EffectHiddenExtraction      = "hidden_extraction"
	EffectNationalMorale        = "national_morale"
	EffectPropaganda            = "propaganda"
	EffectEnergySupply          = "energy_supply"
	EffectFoodSupply            = "food_supply"
	EffectManufactureSupply     = "manufacture_supply"
)

// EffectTemplate describes the effect record an activation produces. When
// Regions is empty the record names the base region.
type EffectTemplate struct {
	Type        string
	Regions     []string
	Description string
}

// Descriptor is the declarative definition of one strategic project.
type Descriptor struct {
	ID            string
	Name          string
	Footprint     []string
	BaseMode      BaseMode
	BaseRegions   []string
	Prerequisites []string
	Requirement   world.Requirement
	Effect        EffectTemplate
	MintsToken    ledger.TokenClass
	Recurring     bool
	RequiresLabel bool
	RevokeOnLoss  bool
	Color         string
}

var catalog = []Descriptor{
	{
		ID:        "bosphorus_bridge",
		Name:      "Bosphorus Bridge",
		Footprint: []string{"grecia", "turquia"},
		BaseMode:  BaseFootprint,
		Requirement: world.Requirement{
			Technologies: []string{ledger.TechHeavyIndustry},
			RawMaterials: []string{ledger.RawIron, ledger.RawAluminum},
		},
		Effect:       EffectTemplate{Type: territory.EffectLandBridge, Regions: []string{"grecia", "turquia"}, Description: "Permanent land link across the Bosphorus."},
		RevokeOnLoss: true,
		Color:        "#c0392b",
	},
	{
		ID:        "gibraltar_tunnel",
		Name:      "Gibraltar Tunnel",
		Footprint: []string{"espana", "marruecos"},
		BaseMode:  BaseFootprint,
		Requirement: world.Requirement{
			Technologies: []string{ledger.TechHeavyIndustry, ledger.TechLightIndustry},
			RawMaterials: []string{ledger.RawIron, ledger.RawIron},
		},
		Effect:       EffectTemplate{Type: territory.EffectLandBridge, Regions: []string{"espana", "marruecos"}, Description: "Rail tunnel under the strait of Gibraltar."},
		RevokeOnLoss: true,
		Color:        "#d35400",
	},
	{
		ID:        "bering_bridge",
		Name:      "Bering Bridge",
		Footprint: []string{"alaska", "siberia"},
		BaseMode:  BaseFootprint,
		Requirement: world.Requirement{
			Technologies: []string{ledger.TechHeavyIndustry, ledger.TechAerospace},
			RawMaterials: []string{ledger.RawIron, ledger.RawAluminum, ledger.RawOil},
		},
		Effect:       EffectTemplate{Type: territory.EffectLandBridge, Regions: []string{"alaska", "siberia"}, Description: "Causeway across the Bering strait."},
		RevokeOnLoss: true,
		Color:        "#2980b9",
	},
	{
		ID:        "suez_canal",
		Name:      "Suez Canal",
		Footprint: []string{"egipto", "arabia"},
		BaseMode:  BaseFootprint,
		Requirement: world.Requirement{
			Technologies: []string{ledger.TechHeavyIndustry},
			RawMaterials: []string{ledger.RawIron, ledger.RawOil},
		},
		Effect:       EffectTemplate{Type: territory.EffectLandBridge, Regions: []string{"egipto", "arabia"}, Description: "Controlled crossing between Africa and Arabia."},
		RevokeOnLoss: true,
		Color:        "#16a085",
	},
	{
		ID:        "polar_route",
		Name:      "Polar Route",
		Footprint: []string{"canada", "groenlandia", "escandinavia", "siberia"},
		BaseMode:  BaseFootprint,
		Requirement: world.Requirement{
			Technologies: []string{ledger.TechAerospace, ledger.TechElectronics},
			RawMaterials: []string{ledger.RawOil, ledger.RawAluminum},
		},
		Effect:       EffectTemplate{Type: territory.EffectPolarRoute, Regions: []string{"canada", "groenlandia", "escandinavia", "siberia"}, Description: "Icebreaker lanes joining the arctic coasts."},
		RevokeOnLoss: true,
		Color:        "#7fb3d5",
	},
	{
		ID:          "geothermal_plant",
		Name:        "Geothermal Plant",
		BaseMode:    BaseListed,
		BaseRegions: []string{"groenlandia", "japon", "indonesia", "etiopia", "chile"},
		Requirement: world.Requirement{
			Technologies: []string{ledger.TechHeavyIndustry},
			RawMaterials: []string{ledger.RawCopper},
		},
		Effect:       EffectTemplate{Type: EffectEnergySupply, Description: "Steady energy drawn from volcanic heat."},
		MintsToken:   ledger.TokenEnergy,
		Recurring:    true,
		RevokeOnLoss: true,
		Color:        "#e67e22",
	},
	{
		ID:          "desalination_plant",
		Name:        "Desalination Plant",
		BaseMode:    BaseListed,
		BaseRegions: []string{"arabia", "israel", "egipto", "libia", "australia", "marruecos"},
		Requirement: world.Requirement{
			Technologies: []string{ledger.TechBiotechnology},
			RawMaterials: []string{ledger.RawAluminum},
		},
		Effect:       EffectTemplate{Type: EffectFoodSupply, Description: "Fresh water turns desert into farmland."},
		MintsToken:   ledger.TokenFood,
		Recurring:    true,
		RevokeOnLoss: true,
		Color:        "#48c9b0",
	},
	{
		ID:          "hydroelectric_dam",
		Name:        "Hydroelectric Dam",
		BaseMode:    BaseListed,
		BaseRegions: []string{"brasil", "china", "canada", "congo", "rusia"},
		Requirement: world.Requirement{
			Technologies: []string{ledger.TechHeavyIndustry},
			RawMaterials: []string{ledger.RawIron, ledger.RawCopper},
		},
		Effect:       EffectTemplate{Type: EffectEnergySupply, Description: "A great river dam feeds the grid."},
		MintsToken:   ledger.TokenEnergy,
		Recurring:    true,
		RevokeOnLoss: true,
		Color:        "#3498db",
	},
	{
		ID:       "steel_complex",
		Name:     "Steel Complex",
		BaseMode: BaseAnyOwned,
		Requirement: world.Requirement{
			Technologies: []string{ledger.TechHeavyIndustry},
			RawMaterials: []string{ledger.RawIron, ledger.RawIron},
		},
		Effect:       EffectTemplate{Type: EffectManufactureSupply, Description: "Foundries that never go cold."},
		MintsToken:   ledger.TokenManufacture,
		Recurring:    true,
		RevokeOnLoss: true,
		Color:        "#7f8c8d",
	},
	{
		ID:       "space_program",
		Name:     "Space Program",
		BaseMode: BaseAnyOwned,
		Requirement: world.Requirement{
			Technologies: []string{ledger.TechAerospace, ledger.TechElectronics},
			RawMaterials: []string{ledger.RawAluminum, ledger.RawSemiconductors},
			Tokens:       []ledger.TokenClass{ledger.TokenEnergy},
		},
		Effect: EffectTemplate{Type: EffectOrbitalReconnaissance, Description: "Launch site with orbital reconnaissance."},
		Color:  "#8e44ad",
	},
	{
		ID:            "satellite_network",
		Name:          "Satellite Network",
		BaseMode:      BaseAnyOwned,
		Prerequisites: []string{"space_program"},
		Requirement: world.Requirement{
			Technologies: []string{ledger.TechAerospace, ledger.TechElectronics},
			RawMaterials: []string{ledger.RawSemiconductors, ledger.RawRareEarths},
		},
		Effect: EffectTemplate{Type: EffectSatelliteCoverage, Description: "Global coverage for communications and targeting."},
		Color:  "#9b59b6",
	},
	{
		ID:       "naval_base",
		Name:     "Naval Base",
		BaseMode: BaseAnyOwned,
		Requirement: world.Requirement{
			Technologies: []string{ledger.TechHeavyIndustry},
			RawMaterials: []string{ledger.RawIron, ledger.RawOil},
		},
		Effect:       EffectTemplate{Type: EffectNavalSupport, Description: "Deep-water harbor supporting nearby battles."},
		RevokeOnLoss: true,
		Color:        "#1f618d",
	},
	{
		ID:       "research_institute",
		Name:     "Research Institute",
		BaseMode: BaseAnyOwned,
		Requirement: world.Requirement{
			Technologies: []string{ledger.TechBiotechnology, ledger.TechElectronics},
			RawMaterials: []string{ledger.RawRareEarths},
			Tokens:       []ledger.TokenClass{ledger.TokenManufacture},
		},
		Effect: EffectTemplate{Type: EffectResearchBonus, Description: "Laboratories accelerating every program."},
		Color:  "#27ae60",
	},
	{
		ID:       "extraction_operation",
		Name:     "Extraction Operation",
		BaseMode: BaseSecretTarget,
		Requirement: world.Requirement{
			Technologies: []string{ledger.TechLightIndustry},
			Tokens:       []ledger.TokenClass{ledger.TokenFood},
		},
		Effect:       EffectTemplate{Type: EffectHiddenExtraction, Description: "Covert extraction at the commander's secret target."},
		RevokeOnLoss: true,
		Color:        "#2c3e50",
	},
	{
		ID:       "national_monument",
		Name:     "National Monument",
		BaseMode: BaseAnyOwned,
		Requirement: world.Requirement{
			Technologies: []string{ledger.TechLightIndustry},
			RawMaterials: []string{ledger.RawCopper},
		},
		Effect:        EffectTemplate{Type: EffectNationalMorale, Description: "A monument to the nation."},
		RequiresLabel: true,
		Color:         "#f1c40f",
	},
	{
		ID:       "propaganda_campaign",
		Name:     "Propaganda Campaign",
		BaseMode: BaseAnyOwned,
		Requirement: world.Requirement{
			Technologies: []string{ledger.TechElectronics},
			Tokens:       []ledger.TokenClass{ledger.TokenManufacture},
		},
		Effect:        EffectTemplate{Type: EffectPropaganda, Description: "A campaign to win hearts at home."},
		RequiresLabel: true,
		Color:         "#e74c3c",
	},
}

var byID = func() map[string]Descriptor {
	out := make(map[string]Descriptor, len(catalog))
	for _, descriptor := range catalog {
		out[descriptor.ID] = descriptor
	}
	return out
}()

// Lookup returns the descriptor with id.
func Lookup(id string) (Descriptor, bool) {
	descriptor, ok := byID[id]
	return descriptor, ok
}

// Catalog returns every descriptor sorted by id.
func Catalog() []Descriptor {
	out := append([]Descriptor(nil), catalog...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
