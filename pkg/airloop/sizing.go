package airloop

import "fmt"

// Physically valid band for volumetric airflow per watt of rated
// capacity. Outside it the engine's psychrometric routines produce
// sub-freezing outlet temperatures or invalid humidity ratios.
const (
	MinFlowPerCapacity = 2.684e-5 // m³/s per W
	MaxFlowPerCapacity = 6.713e-5 // m³/s per W
)

// Adjustment records one sizing correction, reported as a warning.
type Adjustment struct {
	Field    string  `json:"field"`
	Old      float64 `json:"old"`
	New      float64 `json:"new"`
	Bound    float64 `json:"bound"`
	CoilKind string  `json:"coil_kind"`
}

func (a Adjustment) String() string {
	return fmt.Sprintf("%s coil %s clamped %.5g -> %.5g (bound %.5g)",
		a.CoilKind, a.Field, a.Old, a.New, a.Bound)
}

// sizedCoil creates a coil sized from scratch at the band midpoint.
// Targeting the midpoint instead of a boundary keeps later capacity
// adjustments from immediately re-violating the band.
func sizedCoil(kind CoilKind, in, out NodeID, capacity float64) *Coil {
	mid := (MinFlowPerCapacity + MaxFlowPerCapacity) / 2
	return &Coil{
		CoilKind:      kind,
		Inlet:         in,
		Outlet:        out,
		RatedCapacity: capacity,
		DesignAirflow: capacity * mid,
	}
}

// ClampFlow adjusts the coil's design airflow so that airflow per unit
// capacity stays within the valid band. Returns the adjustment made, or
// nil when the coil was already in band. Sizing issues are always
// resolvable by clamping and never become hard failures.
func ClampFlow(c *Coil) *Adjustment {
	if c.RatedCapacity <= 0 {
		return nil
	}
	ratio := c.DesignAirflow / c.RatedCapacity
	switch {
	case ratio < MinFlowPerCapacity:
		adj := &Adjustment{
			Field:    "design_airflow",
			Old:      c.DesignAirflow,
			New:      c.RatedCapacity * MinFlowPerCapacity,
			Bound:    MinFlowPerCapacity,
			CoilKind: string(c.CoilKind),
		}
		c.DesignAirflow = adj.New
		return adj
	case ratio > MaxFlowPerCapacity:
		adj := &Adjustment{
			Field:    "design_airflow",
			Old:      c.DesignAirflow,
			New:      c.RatedCapacity * MaxFlowPerCapacity,
			Bound:    MaxFlowPerCapacity,
			CoilKind: string(c.CoilKind),
		}
		c.DesignAirflow = adj.New
		return adj
	}
	return nil
}

// ClampGraph applies ClampFlow to every coil in the graph and returns
// the adjustments made.
func ClampGraph(g *Graph) []Adjustment {
	var adjs []Adjustment
	for _, coil := range g.Coils() {
		if adj := ClampFlow(coil); adj != nil {
			adjs = append(adjs, *adj)
		}
	}
	return adjs
}
