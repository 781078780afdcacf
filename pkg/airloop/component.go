package airloop

// NodeRole classifies a node's position in the loop.
type NodeRole string

const (
	RoleSupplyOutlet   NodeRole = "supply_outlet"
	RoleBranch         NodeRole = "branch"
	RoleTerminalInlet  NodeRole = "terminal_inlet"
	RoleTerminalOutlet NodeRole = "terminal_outlet"
	RoleZoneInlet      NodeRole = "zone_inlet"
	RoleZoneReturn     NodeRole = "zone_return"
	RoleDemandOutlet   NodeRole = "demand_outlet"
)

// Node is a named point in the air-distribution path.
type Node struct {
	ID   NodeID   `json:"id"`
	Role NodeRole `json:"role"`
}

// Component is one element of the air loop. The variant set is closed:
// a switch over ComponentKind that misses a case is caught by tests, and
// adding a variant without wiring it cannot serialize. Every variant
// records the NodeIDs it connects; none ever re-derives a name.
type Component interface {
	// Kind returns the variant tag.
	Kind() ComponentKind
	// Inlets returns the component's inlet node ids.
	Inlets() []NodeID
	// Outlets returns the component's outlet node ids.
	Outlets() []NodeID
}

// ComponentKind tags the closed variant set.
type ComponentKind string

const (
	KindSplitter     ComponentKind = "splitter"
	KindMixer        ComponentKind = "mixer"
	KindTerminalUnit ComponentKind = "terminal_unit"
	KindCoil         ComponentKind = "coil"
	KindFan          ComponentKind = "fan"
	KindZoneLink     ComponentKind = "zone_link"
)

// Splitter divides one airflow path into several.
type Splitter struct {
	Inlet    NodeID   `json:"inlet"`
	Branches []NodeID `json:"branches"`
}

func (s *Splitter) Kind() ComponentKind { return KindSplitter }
func (s *Splitter) Inlets() []NodeID    { return []NodeID{s.Inlet} }
func (s *Splitter) Outlets() []NodeID   { return s.Branches }

// Mixer combines several airflow paths into one.
type Mixer struct {
	Branches []NodeID `json:"branches"`
	Outlet   NodeID   `json:"outlet"`
}

func (m *Mixer) Kind() ComponentKind { return KindMixer }
func (m *Mixer) Inlets() []NodeID    { return m.Branches }
func (m *Mixer) Outlets() []NodeID   { return []NodeID{m.Outlet} }

// ReheatAction is the terminal unit's damper heating action.
type ReheatAction string

const (
	// ReheatActionNormal is the degenerate mode: the two reheat-flow
	// fields below are structurally unused by the target schema but must
	// still be emitted as present-and-empty.
	ReheatActionNormal  ReheatAction = "normal"
	ReheatActionReverse ReheatAction = "reverse"
)

// TerminalUnit is the zone-level device metering supply air into a zone.
type TerminalUnit struct {
	TerminalKind string       `json:"terminal_kind"`
	Inlet        NodeID       `json:"inlet"`
	Outlet       NodeID       `json:"outlet"`
	Action       ReheatAction `json:"action"`
	// MaxFlowPerAreaDuringReheat and MaxFlowFractionDuringReheat stay nil
	// under ReheatActionNormal; the serializer emits them as empty fields,
	// never omits them, preserving the schema's field-count contract.
	MaxFlowPerAreaDuringReheat  *float64 `json:"max_flow_per_area_during_reheat,omitempty"`
	MaxFlowFractionDuringReheat *float64 `json:"max_flow_fraction_during_reheat,omitempty"`
}

func (t *TerminalUnit) Kind() ComponentKind { return KindTerminalUnit }
func (t *TerminalUnit) Inlets() []NodeID    { return []NodeID{t.Inlet} }
func (t *TerminalUnit) Outlets() []NodeID   { return []NodeID{t.Outlet} }

// CoilKind distinguishes the coil models.
type CoilKind string

const (
	CoilCooling  CoilKind = "cooling"
	CoilHeatCool CoilKind = "heat_cool"
)

// Coil is a heating or cooling element. DesignAirflow per RatedCapacity
// must stay within the physically valid band enforced by sizing.
type Coil struct {
	CoilKind      CoilKind `json:"coil_kind"`
	Inlet         NodeID   `json:"inlet"`
	Outlet        NodeID   `json:"outlet"`
	DesignAirflow float64  `json:"design_airflow"` // m³/s
	RatedCapacity float64  `json:"rated_capacity"` // W
}

func (c *Coil) Kind() ComponentKind { return KindCoil }
func (c *Coil) Inlets() []NodeID    { return []NodeID{c.Inlet} }
func (c *Coil) Outlets() []NodeID   { return []NodeID{c.Outlet} }

// Fan moves air through the supply path.
type Fan struct {
	Inlet  NodeID `json:"inlet"`
	Outlet NodeID `json:"outlet"`
}

func (f *Fan) Kind() ComponentKind { return KindFan }
func (f *Fan) Inlets() []NodeID    { return []NodeID{f.Inlet} }
func (f *Fan) Outlets() []NodeID   { return []NodeID{f.Outlet} }

// ZoneLink is the conditioned zone's own air path from its supply inlet
// to its return node. Modeling it as a component keeps every interior
// node on a single producer/consumer chain.
type ZoneLink struct {
	ZoneID string `json:"zone_id"`
	Inlet  NodeID `json:"inlet"`
	Outlet NodeID `json:"outlet"`
}

func (z *ZoneLink) Kind() ComponentKind { return KindZoneLink }
func (z *ZoneLink) Inlets() []NodeID    { return []NodeID{z.Inlet} }
func (z *ZoneLink) Outlets() []NodeID   { return []NodeID{z.Outlet} }
