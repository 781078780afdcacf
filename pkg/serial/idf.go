// Package serial formats a generated building model into the target
// engine's text schema. It is a thin formatting layer: all invariants are
// enforced upstream, and this is the only place a NodeID becomes text.
package serial

import (
	"fmt"
	"io"

	"github.com/buildsim/buildgen/pkg/airloop"
	"github.com/buildsim/buildgen/pkg/building"
	"github.com/buildsim/buildgen/pkg/geometry"
)

// field is one line of an engine object: a value and its annotation.
type field struct {
	value   string
	comment string
}

func f(value, comment string) field {
	return field{value: value, comment: comment}
}

func fnum(v float64, comment string) field {
	return field{value: fmt.Sprintf("%g", v), comment: comment}
}

// writer emits engine objects with the conventional layout: the class
// name, then one indented field per line, the last terminated by a
// semicolon.
type writer struct {
	w   io.Writer
	err error
}

func (ew *writer) object(class string, fields ...field) {
	if ew.err != nil {
		return
	}
	if _, err := fmt.Fprintf(ew.w, "%s,\n", class); err != nil {
		ew.err = err
		return
	}
	for i, fl := range fields {
		sep := ","
		if i == len(fields)-1 {
			sep = ";"
		}
		if _, err := fmt.Fprintf(ew.w, "  %s%s  !- %s\n", fl.value, sep, fl.comment); err != nil {
			ew.err = err
			return
		}
	}
	_, ew.err = fmt.Fprintln(ew.w)
}

// Write emits the whole model: building header, zones, surfaces, then
// one air-loop object set per zone.
func Write(w io.Writer, m *building.Model) error {
	if m == nil || m.Geometry == nil || m.Registry == nil {
		return fmt.Errorf("serial: model is incomplete")
	}
	ew := &writer{w: w}

	ew.object("Building",
		f(m.Spec.Name, "Name"),
		fnum(0, "North Axis {deg}"),
	)
	ew.object("ConvergenceLimits",
		f("", "Minimum System Timestep {minutes}"),
		fmt2(m.Spec.SimControl.MaxIterations, "Maximum HVAC Iterations"),
	)

	for _, z := range m.Geometry.Zones {
		writeZone(ew, m.Geometry, z)
	}
	for _, s := range m.Geometry.Surfaces {
		writeSurface(ew, s)
	}
	for _, loop := range m.Loops {
		writeLoop(ew, m.Registry, loop)
	}

	return ew.err
}

func fmt2(v int, comment string) field {
	return field{value: fmt.Sprintf("%d", v), comment: comment}
}

func writeZone(ew *writer, layout *geometry.Layout, z geometry.Zone) {
	vol := geometry.ZoneVolume(layout.SurfacesOf(z.ID))
	ew.object("Zone",
		f(z.ID, "Name"),
		fnum(0, "Direction of Relative North {deg}"),
		fnum(0, "X Origin {m}"),
		fnum(0, "Y Origin {m}"),
		fnum(float64(z.Story)*layout.StoryH, "Z Origin {m}"),
		f("1", "Type"),
		f("1", "Multiplier"),
		fnum(layout.StoryH, "Ceiling Height {m}"),
		fnum(vol, "Volume {m3}"),
		fnum(z.FloorArea, "Floor Area {m2}"),
	)
}

func writeSurface(ew *writer, s geometry.Surface) {
	kind := map[geometry.SurfaceKind]string{
		geometry.SurfaceFloor:   "Floor",
		geometry.SurfaceCeiling: "Ceiling",
		geometry.SurfaceWall:    "Wall",
	}[s.Kind]

	fields := []field{
		f(fmt.Sprintf("%s %s", s.ZoneID, kind), "Name"),
		f(kind, "Surface Type"),
		f(s.Material, "Construction Name"),
		f(s.ZoneID, "Zone Name"),
		f("Outdoors", "Outside Boundary Condition"),
		f("", "Outside Boundary Condition Object"),
		f("SunExposed", "Sun Exposure"),
		f("WindExposed", "Wind Exposure"),
		f("autocalculate", "View Factor to Ground"),
		fmt2(len(s.Vertices), "Number of Vertices"),
	}
	for i, v := range s.Vertices {
		fields = append(fields,
			fnum(v.X, fmt.Sprintf("Vertex %d X {m}", i+1)),
			fnum(v.Y, fmt.Sprintf("Vertex %d Y {m}", i+1)),
			fnum(v.Z, fmt.Sprintf("Vertex %d Z {m}", i+1)),
		)
	}
	ew.object("BuildingSurface:Detailed", fields...)
}

// writeLoop emits each component of a zone's air loop. The switch over
// the closed variant set is exhaustive; an unknown variant is a bug and
// panics rather than being silently dropped.
func writeLoop(ew *writer, reg *airloop.Registry, loop *airloop.Graph) {
	for _, c := range loop.Components {
		switch comp := c.(type) {
		case *airloop.Splitter:
			fields := []field{
				f(loop.ZoneID+" supply splitter", "Name"),
				f(reg.Name(comp.Inlet), "Inlet Node Name"),
			}
			for i, b := range comp.Branches {
				fields = append(fields, f(reg.Name(b), fmt.Sprintf("Outlet %d Node Name", i+1)))
			}
			ew.object("AirLoopHVAC:ZoneSplitter", fields...)

		case *airloop.Mixer:
			fields := []field{
				f(loop.ZoneID+" return mixer", "Name"),
				f(reg.Name(comp.Outlet), "Outlet Node Name"),
			}
			for i, b := range comp.Branches {
				fields = append(fields, f(reg.Name(b), fmt.Sprintf("Inlet %d Node Name", i+1)))
			}
			ew.object("AirLoopHVAC:ZoneMixer", fields...)

		case *airloop.TerminalUnit:
			writeTerminal(ew, reg, loop, comp)

		case *airloop.Coil:
			class := "Coil:Cooling:DX:SingleSpeed"
			if comp.CoilKind == airloop.CoilHeatCool {
				class = "Coil:Heating:DX:SingleSpeed"
			}
			ew.object(class,
				f(loop.ZoneID+" coil", "Name"),
				f("", "Availability Schedule Name"),
				fnum(comp.RatedCapacity, "Gross Rated Total Capacity {W}"),
				fnum(comp.DesignAirflow, "Rated Air Flow Rate {m3/s}"),
				f(reg.Name(comp.Inlet), "Air Inlet Node Name"),
				f(reg.Name(comp.Outlet), "Air Outlet Node Name"),
			)

		case *airloop.Fan:
			ew.object("Fan:VariableVolume",
				f(loop.ZoneID+" fan", "Name"),
				f("", "Availability Schedule Name"),
				f(reg.Name(comp.Inlet), "Air Inlet Node Name"),
				f(reg.Name(comp.Outlet), "Air Outlet Node Name"),
			)

		case *airloop.ZoneLink:
			ew.object("ZoneHVAC:EquipmentConnections",
				f(comp.ZoneID, "Zone Name"),
				f(reg.Name(comp.Inlet), "Zone Air Inlet Node Name"),
				f(reg.Name(comp.Outlet), "Zone Return Air Node Name"),
			)

		default:
			panic(fmt.Sprintf("serial: unhandled component kind %q", c.Kind()))
		}
	}
}

// writeTerminal emits the terminal unit. Under the degenerate "normal"
// damper action the two reheat-flow fields are structurally unused, but
// the schema's field count is fixed: they are emitted empty, never
// omitted.
func writeTerminal(ew *writer, reg *airloop.Registry, loop *airloop.Graph, t *airloop.TerminalUnit) {
	perArea := ""
	fraction := ""
	if t.MaxFlowPerAreaDuringReheat != nil {
		perArea = fmt.Sprintf("%g", *t.MaxFlowPerAreaDuringReheat)
	}
	if t.MaxFlowFractionDuringReheat != nil {
		fraction = fmt.Sprintf("%g", *t.MaxFlowFractionDuringReheat)
	}
	action := "Normal"
	if t.Action == airloop.ReheatActionReverse {
		action = "Reverse"
	}
	ew.object("AirTerminal:SingleDuct:VAV:Reheat",
		f(loop.ZoneID+" terminal", "Name"),
		f("", "Availability Schedule Name"),
		f(reg.Name(t.Inlet), "Air Inlet Node Name"),
		f(reg.Name(t.Outlet), "Air Outlet Node Name"),
		f(action, "Damper Heating Action"),
		f(perArea, "Maximum Flow per Zone Floor Area During Reheat {m3/s-m2}"),
		f(fraction, "Maximum Flow Fraction During Reheat"),
	)
}
