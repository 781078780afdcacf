package airloop

import "fmt"

// Graph is the complete air-distribution network for one zone: a simple
// path from the supply outlet to the demand outlet. Every interior node
// is produced by exactly one component and consumed by exactly one.
type Graph struct {
	ZoneID     string      `json:"zone_id"`
	Family     Family      `json:"family"`
	Nodes      []Node      `json:"nodes"`
	Components []Component `json:"components"`
}

// Endpoints returns the two path endpoints: the supply outlet and the
// demand outlet.
func (g *Graph) Endpoints() (supply, demand NodeID) {
	for _, n := range g.Nodes {
		switch n.Role {
		case RoleSupplyOutlet:
			supply = n.ID
		case RoleDemandOutlet:
			demand = n.ID
		}
	}
	return supply, demand
}

// Coils returns the coil components of the graph.
func (g *Graph) Coils() []*Coil {
	var coils []*Coil
	for _, c := range g.Components {
		if coil, ok := c.(*Coil); ok {
			coils = append(coils, coil)
		}
	}
	return coils
}

// Verify checks reference integrity and the simple-path shape of the
// graph against the registry that minted its nodes.
//
// A component referencing a NodeID the registry never minted is a bug in
// the builder, not bad input: it is unreachable by construction and
// panics rather than being reported. Structural shape violations (an
// interior node with the wrong producer or consumer count) return an
// error for the validation layer.
func (g *Graph) Verify(reg *Registry) error {
	inGraph := make(map[NodeID]NodeRole, len(g.Nodes))
	for _, n := range g.Nodes {
		if !reg.Has(n.ID) {
			panic(fmt.Sprintf("airloop: graph %s node %d was never minted", g.ZoneID, n.ID))
		}
		if _, dup := inGraph[n.ID]; dup {
			return fmt.Errorf("graph %s: node %q listed twice", g.ZoneID, reg.Name(n.ID))
		}
		inGraph[n.ID] = n.Role
	}

	producers := make(map[NodeID]int, len(g.Nodes))
	consumers := make(map[NodeID]int, len(g.Nodes))
	for _, c := range g.Components {
		for _, id := range c.Inlets() {
			if !reg.Has(id) {
				panic(fmt.Sprintf("airloop: graph %s component %s references unminted node %d",
					g.ZoneID, c.Kind(), id))
			}
			if _, ok := inGraph[id]; !ok {
				return fmt.Errorf("graph %s: component %s inlet %q not in node set",
					g.ZoneID, c.Kind(), reg.Name(id))
			}
			consumers[id]++
		}
		for _, id := range c.Outlets() {
			if !reg.Has(id) {
				panic(fmt.Sprintf("airloop: graph %s component %s references unminted node %d",
					g.ZoneID, c.Kind(), id))
			}
			if _, ok := inGraph[id]; !ok {
				return fmt.Errorf("graph %s: component %s outlet %q not in node set",
					g.ZoneID, c.Kind(), reg.Name(id))
			}
			producers[id]++
		}
	}

	supply, demand := g.Endpoints()
	if !supply.Valid() || !demand.Valid() {
		return fmt.Errorf("graph %s: missing supply or demand endpoint", g.ZoneID)
	}

	for _, n := range g.Nodes {
		wantProd, wantCons := 1, 1
		switch n.ID {
		case supply:
			wantProd = 0
		case demand:
			wantCons = 0
		}
		if producers[n.ID] != wantProd {
			return fmt.Errorf("graph %s: node %q has %d producers, want %d",
				g.ZoneID, reg.Name(n.ID), producers[n.ID], wantProd)
		}
		if consumers[n.ID] != wantCons {
			return fmt.Errorf("graph %s: node %q has %d consumers, want %d",
				g.ZoneID, reg.Name(n.ID), consumers[n.ID], wantCons)
		}
	}
	return nil
}
