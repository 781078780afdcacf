package building

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/buildsim/buildgen/pkg/airloop"
	"github.com/buildsim/buildgen/pkg/geometry"
	"github.com/buildsim/buildgen/pkg/spec"
	"github.com/buildsim/buildgen/pkg/validation"
)

// Model is the complete generator output for one building: validated
// geometry, one air-loop graph per zone, the registry that names them,
// and the validation report. All entities are created once per run and
// never mutated after acceptance; a rejected run is discarded whole and
// regenerated by the caller with adjusted parameters.
type Model struct {
	Spec     *spec.BuildingSpec `json:"spec"`
	Geometry *geometry.Layout   `json:"geometry"`
	Loops    []*airloop.Graph   `json:"air_loops"`
	Report   *validation.Report `json:"validation"`
	Phase    validation.Phase   `json:"phase"`

	// Registry is the building's naming authority. Collaborators that
	// attach further components must mint through it, never synthesize
	// names, or reference integrity breaks.
	Registry *airloop.Registry `json:"-"`
}

// Generator runs the generation pipeline. The zero value is usable;
// a nil logger falls back to a no-op logger so the core stays pure.
type Generator struct {
	log *zap.Logger
}

// New creates a Generator with the given logger.
func New(log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{log: log}
}

// Generate runs the full pipeline for one building spec. Same spec in,
// byte-identical model out: there is no randomness anywhere in the
// pipeline.
//
// Recoverable geometry failures (reconciliation out of tolerance) return
// both the best-effort model, with a Rejected report, and the error, so
// the caller can deliberately accept out-of-tolerance output. Hard input
// failures return a nil model.
func (g *Generator) Generate(s *spec.BuildingSpec) (*Model, error) {
	s.Normalize()
	log := g.log.With(zap.String("building", s.Name))

	report := validation.ValidateSpec(s)
	state := validation.NewState()
	model := &Model{Spec: s, Report: report}

	if !report.Valid {
		state.Reject("input validation failed: " + report.Summary)
		model.Phase = state.Phase()
		return model, inputError(s, report)
	}

	family, err := airloop.ParseFamily(s.Building.HvacFamily)
	if err != nil {
		state.Reject(err.Error())
		model.Phase = state.Phase()
		return model, err
	}

	// Geometry track.
	layout, err := g.runGeometry(s, report, state)
	model.Geometry = layout
	if err != nil {
		model.Phase = state.Phase()
		return model, err
	}
	log.Debug("geometry accepted",
		zap.Int("zones", len(layout.Zones)),
		zap.Float64("total_area", layout.TotalArea))

	// Topology track: one registry per building, one graph per zone.
	reg := airloop.NewRegistry()
	model.Registry = reg
	loops, err := g.runTopology(layout, family, reg, report, state)
	model.Loops = loops
	if err != nil {
		model.Phase = state.Phase()
		return model, err
	}
	log.Debug("topology accepted",
		zap.Int("loops", len(loops)),
		zap.Int("nodes", reg.Len()))

	state.Advance() // topology valid -> accepted
	model.Phase = state.Phase()
	return model, nil
}

// inputError classifies an input-validation failure. A non-positive
// target area is a degenerate-geometry request and keeps that error
// identity even though the input layer catches it before the footprint
// generator would.
func inputError(s *spec.BuildingSpec, report *validation.Report) error {
	if s.Building.TargetAreaPerStory <= 0 {
		return fmt.Errorf("target area %.2f m²: %w",
			s.Building.TargetAreaPerStory, geometry.ErrDegeneratePolygon)
	}
	return fmt.Errorf("input validation: %s", report.Summary)
}

// runGeometry generates and validates the geometry track, advancing the
// state through GeometryValid into TopologyPending.
func (g *Generator) runGeometry(s *spec.BuildingSpec, report *validation.Report, state *validation.State) (*geometry.Layout, error) {
	tol := s.Tolerances.WithDefaults()

	fp, err := geometry.GenerateFootprint(
		s.Building.TargetAreaPerStory, s.Footprint, s.Building.AspectRatio, tol.FootprintAreaPct)
	if err != nil {
		report.AddError(validation.Result{
			Level:    validation.LevelGeometry,
			Message:  err.Error(),
			SpecPath: "building.target_area_per_story",
		})
		state.Reject(err.Error())
		return nil, err
	}
	if fp.CorrectionNeeded {
		report.AddWarning(validation.Result{
			Level:   validation.LevelGeometry,
			Message: "footprint scaling fell back to the unscaled shape",
			Suggestions: []string{
				"check the supplied footprint outline for near-degenerate edges",
			},
		})
	}

	layout, err := geometry.LayoutZones(fp, s)
	if err != nil {
		report.AddError(validation.Result{
			Level:    validation.LevelGeometry,
			Message:  err.Error(),
			SpecPath: "building",
		})
		state.Reject(err.Error())
		// Best-effort layout still rides along for the caller.
		if layout == nil {
			var rerr *geometry.ReconcileError
			if errors.As(err, &rerr) {
				layout = rerr.BestEffort
			}
		}
		if layout != nil {
			buildAllSurfaces(layout)
		}
		return layout, err
	}

	buildAllSurfaces(layout)

	if geomErr := checkGeometry(layout, s, tol, report); geomErr != nil {
		state.Reject(geomErr.Error())
		return layout, geomErr
	}

	state.Advance() // geometry pending -> geometry valid
	state.Advance() // geometry valid -> topology pending
	return layout, nil
}

// runTopology builds, clamps, and verifies every zone's air loop.
func (g *Generator) runTopology(layout *geometry.Layout, family airloop.Family, reg *airloop.Registry, report *validation.Report, state *validation.State) ([]*airloop.Graph, error) {
	loops := make([]*airloop.Graph, 0, len(layout.Zones))
	for _, zone := range layout.Zones {
		loop, err := airloop.Build(zone, family, reg)
		if err != nil {
			report.AddError(validation.Result{
				Level:       validation.LevelTopology,
				Message:     err.Error(),
				SpecPath:    "building.hvac_family",
				ActualValue: string(family),
			})
			state.Reject(err.Error())
			return loops, err
		}

		for _, adj := range airloop.ClampGraph(loop) {
			report.AddWarning(validation.Result{
				Level:       validation.LevelSizing,
				Message:     fmt.Sprintf("zone %s: %s", zone.ID, adj.String()),
				ActualValue: adj.Old,
				Expected: fmt.Sprintf("flow/capacity in [%.4g, %.4g]",
					airloop.MinFlowPerCapacity, airloop.MaxFlowPerCapacity),
			})
		}

		if err := loop.Verify(reg); err != nil {
			report.AddError(validation.Result{
				Level:   validation.LevelTopology,
				Message: err.Error(),
			})
			state.Reject(err.Error())
			return loops, err
		}
		loops = append(loops, loop)
	}

	state.Advance() // topology pending -> topology valid
	return loops, nil
}

// checkGeometry enforces the post-hoc geometry invariants: total-area
// tolerance and positive divergence-theorem volume for every zone.
func checkGeometry(layout *geometry.Layout, s *spec.BuildingSpec, tol spec.Tolerances, report *validation.Report) error {
	requested := s.TargetTotalArea()
	dev := math.Abs(layout.TotalArea-requested) / requested
	if dev > tol.ReconcilePct {
		msg := fmt.Sprintf("total zone area %.1f m² deviates %.2f%% from requested %.1f m²",
			layout.TotalArea, dev*100, requested)
		report.AddError(validation.Result{
			Level:       validation.LevelGeometry,
			Message:     msg,
			ActualValue: layout.TotalArea,
			Expected:    fmt.Sprintf("within %.1f%% of %.1f", tol.ReconcilePct*100, requested),
		})
		return fmt.Errorf("%s: %w", msg, geometry.ErrAreaReconciliationFailed)
	}

	for _, zone := range layout.Zones {
		vol := geometry.ZoneVolume(layout.SurfacesOf(zone.ID))
		if vol <= 0 {
			msg := fmt.Sprintf("zone %s has non-positive volume %.3f m³", zone.ID, vol)
			report.AddError(validation.Result{
				Level:       validation.LevelGeometry,
				Message:     msg,
				ActualValue: vol,
				Expected:    "> 0",
			})
			return fmt.Errorf("%s: %w", msg, geometry.ErrDegeneratePolygon)
		}
	}
	return nil
}

// buildAllSurfaces derives oriented surfaces for every zone in place.
func buildAllSurfaces(layout *geometry.Layout) {
	layout.Surfaces = layout.Surfaces[:0]
	for _, zone := range layout.Zones {
		layout.Surfaces = append(layout.Surfaces, geometry.BuildSurfaces(zone, layout.StoryH)...)
	}
}
