package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/buildsim/buildgen/pkg/geo"
	"github.com/buildsim/buildgen/pkg/spec"
)

// coreBandAspect is the width:depth ratio of the central core band.
const coreBandAspect = 2.0

// maxReconcileScale bounds the reconcile rescale factor. A layout that
// needs more correction than this no longer resembles the requested
// program and is rejected with the best effort attached.
const maxReconcileScale = 1.25

// typicalZoneTarget is the default number of typical zones aimed for per
// story when the spec does not fix a grid cell area.
const typicalZoneTarget = 16

// coreFitTolerance is the allowed relative shortfall of a core program's
// realized area against its programmed area. Shortfall beyond this means
// the footprint cannot hold the core program: rescaling preserves the
// deficit, so the layout is rejected.
const coreFitTolerance = 0.02

// LayoutZones subdivides the footprint into zones for every story and
// reconciles total floor area against the building target.
//
// Core programs (circulation, services) are placed first as a central
// band split proportionally; the remaining footprint is grid-subdivided,
// each cell clipped to the footprint boundary, and clipped slivers below
// the minimum-area threshold are discarded. Grid subdivision with a
// cutoff cannot hit the target analytically, so a single reconcile pass
// rescales the whole layout about the footprint centroid when the total
// deviates; success guarantees a deviation no greater than ReconcilePct.
func LayoutZones(fp Footprint, s *spec.BuildingSpec) (*Layout, error) {
	tol := s.Tolerances.WithDefaults()
	footPoly := fp.Polygon.EnsureCCW()
	if footPoly.IsEmpty() || footPoly.Area() < 1e-6 {
		return nil, fmt.Errorf("footprint: %w", ErrDegeneratePolygon)
	}

	storyTarget := s.Building.TargetAreaPerStory
	center := footPoly.Centroid()

	storyZones := placeCoreZones(footPoly, center, s, storyTarget)
	coreBand := coreBandRect(center, s, storyTarget)
	storyZones = append(storyZones, placeTypicalZones(footPoly, coreBand, s, storyTarget, tol)...)

	if len(storyZones) == 0 {
		return nil, fmt.Errorf("no zones survived subdivision: %w", ErrDegeneratePolygon)
	}

	layout := &Layout{
		Footprint: fp,
		Zones:     replicateStories(storyZones, s.Building.Stories),
		Stories:   s.Building.Stories,
		StoryH:    s.Building.StoryHeight,
	}
	layout.TotalArea = sumZoneArea(layout.Zones)

	if err := checkCoreFit(storyZones, s, storyTarget); err != nil {
		var rerr *ReconcileError
		if errors.As(err, &rerr) {
			rerr.BestEffort = layout
		}
		return layout, err
	}
	return reconcile(layout, s.TargetTotalArea(), tol)
}

// checkCoreFit compares each core program's realized area on one story
// against what the program requested. Clipping against the footprint is
// the only way a core zone loses area, so a shortfall means the program
// does not fit.
func checkCoreFit(storyZones []Zone, s *spec.BuildingSpec, storyTarget float64) error {
	realized := make(map[string]float64)
	for _, z := range storyZones {
		if z.Core {
			realized[z.Program] += z.FloorArea
		}
	}
	for _, p := range s.CorePrograms() {
		want := p.Fraction * storyTarget
		if want <= 0 {
			continue
		}
		deficit := (want - realized[p.Type]) / want
		if deficit > coreFitTolerance {
			return &ReconcileError{Deviation: deficit, Scale: 1}
		}
	}
	return nil
}

// coreBandRect returns the central band rectangle claimed by core
// programs, or an empty polygon when the spec has none.
func coreBandRect(center geo.Point2D, s *spec.BuildingSpec, storyTarget float64) geo.Polygon {
	coreFrac := 0.0
	for _, p := range s.CorePrograms() {
		coreFrac += p.Fraction
	}
	if coreFrac <= 0 {
		return geo.Polygon{}
	}
	area := coreFrac * storyTarget
	w := math.Sqrt(area * coreBandAspect)
	d := area / w
	return geo.Rect(
		geo.Pt(center.X-w/2, center.Y-d/2),
		geo.Pt(center.X+w/2, center.Y+d/2),
	)
}

// placeCoreZones splits the core band among core programs proportionally
// along its width, clipping each slice to the footprint.
func placeCoreZones(footPoly geo.Polygon, center geo.Point2D, s *spec.BuildingSpec, storyTarget float64) []Zone {
	cores := s.CorePrograms()
	if len(cores) == 0 {
		return nil
	}
	band := coreBandRect(center, s, storyTarget)
	bandMin, bandMax := band.BoundingBox()
	bandW := bandMax.X - bandMin.X

	total := 0.0
	for _, p := range cores {
		total += p.Fraction
	}

	var zones []Zone
	x := bandMin.X
	for i, p := range cores {
		sliceW := bandW * p.Fraction / total
		slice := geo.ClipToRect(footPoly, geo.Pt(x, bandMin.Y), geo.Pt(x+sliceW, bandMax.Y))
		x += sliceW
		if slice.IsEmpty() {
			continue
		}
		zones = append(zones, Zone{
			ID:        fmt.Sprintf("core_%s_%d", p.Type, i),
			Program:   p.Type,
			Core:      true,
			Polygon:   slice.EnsureCCW(),
			FloorArea: slice.Area(),
		})
	}
	return zones
}

// placeTypicalZones grids the footprint and clips each cell, subtracting
// the core band so typical zones only ever cover the remainder, and
// discarding slivers below the minimum area.
func placeTypicalZones(footPoly, coreBand geo.Polygon, s *spec.BuildingSpec, storyTarget float64, tol spec.Tolerances) []Zone {
	program := s.TypicalProgram()

	cellArea := tol.CellArea
	if cellArea <= 0 {
		cellArea = storyTarget / typicalZoneTarget
	}
	cell := math.Sqrt(cellArea)

	bandMin, bandMax := coreBand.BoundingBox()
	hasBand := !coreBand.IsEmpty()

	min, max := footPoly.BoundingBox()
	var zones []Zone
	idx := 0
	for y := min.Y; y < max.Y; y += cell {
		for x := min.X; x < max.X; x += cell {
			cellMin := geo.Pt(x, y)
			cellMax := geo.Pt(x+cell, y+cell)
			pieces := [][2]geo.Point2D{{cellMin, cellMax}}
			if hasBand {
				pieces = subtractRect(cellMin, cellMax, bandMin, bandMax)
			}
			for _, pc := range pieces {
				clipped := geo.ClipToRect(footPoly, pc[0], pc[1])
				if clipped.IsEmpty() {
					continue
				}
				area := clipped.Area()
				if area < tol.MinZoneArea {
					// Noise-area fragment, not a real zone.
					continue
				}
				zones = append(zones, Zone{
					ID:        fmt.Sprintf("%s_%d", program.Type, idx),
					Program:   program.Type,
					Polygon:   clipped.EnsureCCW(),
					FloorArea: area,
				})
				idx++
			}
		}
	}
	return zones
}

// subtractRect decomposes the cell rectangle minus the band rectangle
// into at most four axis-aligned pieces (left, right, bottom, top of the
// overlap). A cell disjoint from the band comes back whole; a cell
// swallowed by the band yields nothing.
func subtractRect(cellMin, cellMax, bandMin, bandMax geo.Point2D) [][2]geo.Point2D {
	ix0 := math.Max(cellMin.X, bandMin.X)
	ix1 := math.Min(cellMax.X, bandMax.X)
	iy0 := math.Max(cellMin.Y, bandMin.Y)
	iy1 := math.Min(cellMax.Y, bandMax.Y)
	if ix0 >= ix1 || iy0 >= iy1 {
		return [][2]geo.Point2D{{cellMin, cellMax}}
	}

	var out [][2]geo.Point2D
	add := func(a, b geo.Point2D) {
		if b.X-a.X > 1e-9 && b.Y-a.Y > 1e-9 {
			out = append(out, [2]geo.Point2D{a, b})
		}
	}
	add(cellMin, geo.Pt(ix0, cellMax.Y))
	add(geo.Pt(ix1, cellMin.Y), cellMax)
	add(geo.Pt(ix0, cellMin.Y), geo.Pt(ix1, iy0))
	add(geo.Pt(ix0, iy1), geo.Pt(ix1, cellMax.Y))
	return out
}

// replicateStories stamps the single-story zone set onto every story.
func replicateStories(storyZones []Zone, stories int) []Zone {
	zones := make([]Zone, 0, len(storyZones)*stories)
	for st := 0; st < stories; st++ {
		for _, z := range storyZones {
			z.ID = fmt.Sprintf("story%d_%s", st, z.ID)
			z.Story = st
			z.Polygon = z.Polygon.Clone()
			zones = append(zones, z)
		}
	}
	return zones
}

// reconcile rescales the whole layout about the footprint centroid when
// the total zone area misses the requested building total. Uniform
// scaling multiplies every area by s², so one pass lands exactly on the
// target unless the needed factor is out of bounds or scaling breaks a
// polygon.
func reconcile(layout *Layout, requested float64, tol spec.Tolerances) (*Layout, error) {
	dev := math.Abs(layout.TotalArea-requested) / requested
	if dev <= tol.ReconcilePct {
		return layout, nil
	}

	s := math.Sqrt(requested / layout.TotalArea)
	if s > maxReconcileScale || s < 1/maxReconcileScale {
		return layout, &ReconcileError{Deviation: dev, Scale: s, BestEffort: layout}
	}

	center := layout.Footprint.Polygon.Centroid()
	scaledFoot := layout.Footprint.Polygon.ScaleAbout(center, s)
	if !scaledFoot.IsSimple() {
		return layout, &ReconcileError{Deviation: dev, Scale: s, BestEffort: layout}
	}

	scaled := make([]Zone, len(layout.Zones))
	for i, z := range layout.Zones {
		p := z.Polygon.ScaleAbout(center, s)
		if !p.IsSimple() || p.Area() < 1e-9 {
			return layout, &ReconcileError{Deviation: dev, Scale: s, BestEffort: layout}
		}
		z.Polygon = p
		z.FloorArea = p.Area()
		scaled[i] = z
	}

	layout.Footprint.Polygon = scaledFoot
	layout.Zones = scaled
	layout.TotalArea = sumZoneArea(scaled)

	finalDev := math.Abs(layout.TotalArea-requested) / requested
	if finalDev > tol.ReconcilePct {
		return layout, &ReconcileError{Deviation: finalDev, Scale: s, BestEffort: layout}
	}
	return layout, nil
}

func sumZoneArea(zones []Zone) float64 {
	total := 0.0
	for _, z := range zones {
		total += z.FloorArea
	}
	return total
}
