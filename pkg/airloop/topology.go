package airloop

import (
	"errors"
	"fmt"

	"github.com/buildsim/buildgen/pkg/geometry"
)

// Family selects the air-distribution topology template.
type Family string

const (
	FamilyVAV     Family = "vav"
	FamilyRooftop Family = "rooftop"
	FamilyPTAC    Family = "ptac"
)

// ParseFamily maps a spec string to a Family.
func ParseFamily(s string) (Family, error) {
	switch Family(s) {
	case FamilyVAV, FamilyRooftop, FamilyPTAC:
		return Family(s), nil
	}
	return "", fmt.Errorf("hvac family %q: %w", s, ErrUnknownFamily)
}

// ErrUnknownFamily marks an unrecognized HVAC system family.
var ErrUnknownFamily = errors.New("unknown hvac family")

// ErrUnsizable marks a zone whose floor area cannot drive sizing.
var ErrUnsizable = errors.New("zone is unsizable")

// coolingLoadPerArea is the design cooling load assumption, W/m².
const coolingLoadPerArea = 100.0

// Build constructs the full supply and return node chain for one zone.
//
// Every node is minted once from the registry, and each component reads
// the previous step's outlet NodeID as its own inlet. A name is used in
// exactly one place (the step that mints it) and consumed in exactly one
// place (the next step), so no two components can disagree about a shared
// node's identity. The per-zone instance suffix minted up front scopes
// all the zone's nodes, so repeated program types never collide.
func Build(zone geometry.Zone, family Family, reg *Registry) (*Graph, error) {
	if zone.FloorArea <= 0 {
		return nil, fmt.Errorf("zone %s floor area %.2f m²: %w", zone.ID, zone.FloorArea, ErrUnsizable)
	}

	capacity := zone.FloorArea * coolingLoadPerArea

	switch family {
	case FamilyVAV:
		return buildVAV(zone, capacity, reg), nil
	case FamilyRooftop:
		return buildRooftop(zone, capacity, reg), nil
	case FamilyPTAC:
		return buildPTAC(zone, capacity, reg), nil
	}
	return nil, fmt.Errorf("hvac family %q: %w", family, ErrUnknownFamily)
}

// chain threads node minting through a template: each step's outlet
// becomes the next step's inlet.
type chain struct {
	inst  string
	reg   *Registry
	graph *Graph
	cur   NodeID
}

func newChain(zone geometry.Zone, family Family, reg *Registry) *chain {
	c := &chain{
		inst: reg.Instance(zone.Program),
		reg:  reg,
		graph: &Graph{
			ZoneID: zone.ID,
			Family: family,
		},
	}
	c.cur = c.node("supply outlet", RoleSupplyOutlet)
	return c
}

// node mints and records a node, returning its id.
func (c *chain) node(label string, role NodeRole) NodeID {
	id := c.reg.Mint(c.inst, label)
	c.graph.Nodes = append(c.graph.Nodes, Node{ID: id, Role: role})
	return id
}

// step appends a component built from the current node and the freshly
// minted next node, then advances.
func (c *chain) step(label string, role NodeRole, build func(in, out NodeID) Component) {
	out := c.node(label, role)
	c.graph.Components = append(c.graph.Components, build(c.cur, out))
	c.cur = out
}

// buildVAV: coil → fan → splitter → terminal (reheat) → zone →
// mixer → demand outlet.
func buildVAV(zone geometry.Zone, capacity float64, reg *Registry) *Graph {
	c := newChain(zone, FamilyVAV, reg)

	c.step("cooling coil outlet", RoleBranch, func(in, out NodeID) Component {
		return sizedCoil(CoilCooling, in, out, capacity)
	})
	c.step("fan outlet", RoleBranch, func(in, out NodeID) Component {
		return &Fan{Inlet: in, Outlet: out}
	})
	c.step("damper inlet", RoleTerminalInlet, func(in, out NodeID) Component {
		return &Splitter{Inlet: in, Branches: []NodeID{out}}
	})
	c.step("reheat outlet", RoleZoneInlet, func(in, out NodeID) Component {
		return &TerminalUnit{
			TerminalKind: "vav_reheat",
			Inlet:        in,
			Outlet:       out,
			Action:       ReheatActionNormal,
		}
	})
	c.step("return", RoleZoneReturn, func(in, out NodeID) Component {
		return &ZoneLink{ZoneID: zone.ID, Inlet: in, Outlet: out}
	})
	c.step("demand outlet", RoleDemandOutlet, func(in, out NodeID) Component {
		return &Mixer{Branches: []NodeID{in}, Outlet: out}
	})
	return c.graph
}

// buildRooftop: coil → fan → splitter → zone → mixer → demand outlet.
// The packaged unit supplies the zone directly, without a terminal.
func buildRooftop(zone geometry.Zone, capacity float64, reg *Registry) *Graph {
	c := newChain(zone, FamilyRooftop, reg)

	c.step("dx coil outlet", RoleBranch, func(in, out NodeID) Component {
		return sizedCoil(CoilCooling, in, out, capacity)
	})
	c.step("fan outlet", RoleBranch, func(in, out NodeID) Component {
		return &Fan{Inlet: in, Outlet: out}
	})
	c.step("supply duct outlet", RoleZoneInlet, func(in, out NodeID) Component {
		return &Splitter{Inlet: in, Branches: []NodeID{out}}
	})
	c.step("return", RoleZoneReturn, func(in, out NodeID) Component {
		return &ZoneLink{ZoneID: zone.ID, Inlet: in, Outlet: out}
	})
	c.step("demand outlet", RoleDemandOutlet, func(in, out NodeID) Component {
		return &Mixer{Branches: []NodeID{in}, Outlet: out}
	})
	return c.graph
}

// buildPTAC: fan → coil → zone → mixer → demand outlet. The packaged
// terminal unit sits in the room; blow-through fan, no duct splitter.
func buildPTAC(zone geometry.Zone, capacity float64, reg *Registry) *Graph {
	c := newChain(zone, FamilyPTAC, reg)

	c.step("fan outlet", RoleBranch, func(in, out NodeID) Component {
		return &Fan{Inlet: in, Outlet: out}
	})
	c.step("coil outlet", RoleZoneInlet, func(in, out NodeID) Component {
		return sizedCoil(CoilHeatCool, in, out, capacity)
	})
	c.step("return", RoleZoneReturn, func(in, out NodeID) Component {
		return &ZoneLink{ZoneID: zone.ID, Inlet: in, Outlet: out}
	})
	c.step("demand outlet", RoleDemandOutlet, func(in, out NodeID) Component {
		return &Mixer{Branches: []NodeID{in}, Outlet: out}
	})
	return c.graph
}
